package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/formflow/formflow/repositories"
	"github.com/formflow/formflow/session"
	"github.com/formflow/formflow/userctx"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// RequireAuth verifies the bearer session token (Authorization header
// first, session cookie as fallback), resolves it to a user and attaches
// the user to the request context. The identity comes only from the
// verified token payload.
func RequireAuth(sessions *session.Manager, users repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "Unauthorized: No token provided")
				return
			}

			userID, err := sessions.Verify(token)
			if err != nil {
				unauthorized(w, "Unauthorized: Invalid token")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					unauthorized(w, "Unauthorized: User not found")
					return
				}
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := userctx.SetUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the session token from the Authorization header
// or the session cookie.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
