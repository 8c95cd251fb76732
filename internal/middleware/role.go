package middleware

import (
	"net/http"

	"snackstore-be/internal/auth"
	"snackstore-be/internal/session"
	"snackstore-be/internal/utils"
)

// RequireRole rejects callers whose session role is below min. It must run
// after the session middleware.
func RequireRole(min auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok {
				utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			id, role := s.Identity()
			if !id.Authenticated() {
				utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !role.AtLeast(min) {
				utils.WriteJSONError(w, "forbidden: "+min.String()+" only", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
