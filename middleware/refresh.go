package middleware

import (
	"errors"
	"net/http"

	"github.com/formflow/formflow/services"
	"github.com/formflow/formflow/userctx"
)

// EnsureFreshToken runs after RequireAuth and guarantees the context
// user's provider access token is valid before the proxied call. On a
// failed refresh the request is terminated; it is never retried.
func EnsureFreshToken(tokens services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userctx.GetUser(r.Context())
			if !ok {
				unauthorized(w, "Unauthorized: No token provided")
				return
			}

			fresh, err := tokens.EnsureFresh(r.Context(), user)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrSessionExpired):
					unauthorized(w, "Session expired, please log in again")
				case errors.Is(err, services.ErrUnauthenticated):
					unauthorized(w, "Unauthorized: No provider credentials")
				default:
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
				return
			}

			ctx := userctx.SetUser(r.Context(), fresh)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
