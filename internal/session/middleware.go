package session

import (
	"context"
	"net/http"

	"snackstore-be/internal/auth"
	"snackstore-be/internal/logger"
)

const CookieName = "sid"

type ctxKey string

const sessionKey ctxKey = "session"

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok
}

// Middleware attaches the caller's session, issuing a cookie for new ones,
// and binds it to the identity set by the auth middleware.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(CookieName); err == nil {
			id = c.Value
		}

		s, created := m.GetOrCreate(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(m.opts.TTL.Seconds()),
			})
		}

		ctx := logger.WithSessionID(r.Context(), s.ID)
		ctx = WithSession(ctx, s)

		_ = m.Bind(ctx, s, auth.IdentityFrom(ctx))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
