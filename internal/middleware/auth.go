package middleware

import (
	"net/http"

	"snackstore-be/internal/auth"
	"snackstore-be/internal/logger"
	"snackstore-be/internal/user"

	"go.uber.org/zap"
)

// TokenParser verifies access tokens; *user.TokenManager satisfies it.
type TokenParser interface {
	Parse(tokenStr string) (*user.CustomClaims, error)
}

// AuthMiddleware puts the token's identity into the request context. Missing
// or invalid tokens leave the request anonymous.
func AuthMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("ignoring invalid access token", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
