package controllers

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/formflow/formflow/authenticator"
	"github.com/formflow/formflow/middleware"
	"github.com/formflow/formflow/repositories"
	"github.com/formflow/formflow/session"
	"github.com/formflow/formflow/userctx"
)

const (
	stateCookieName    = "oauth_state"
	verifierCookieName = "code_verifier"
	handshakeLifetime  = 10 * time.Minute
)

// AuthController owns the PKCE handshake and session endpoints.
type AuthController struct {
	provider authenticator.Provider
	users    repositories.UserRepository
	sessions *session.Manager
	opts     Options
	logger   *zap.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(
	provider authenticator.Provider,
	users repositories.UserRepository,
	sessions *session.Manager,
	opts Options,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		provider: provider,
		users:    users,
		sessions: sessions,
		opts:     opts,
		logger:   logger,
	}
}

// Login initiates the PKCE authorization flow: it binds the state nonce
// and code verifier to the user agent via short-lived cookies, then
// redirects to the provider's authorization endpoint.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	state, err := authenticator.GenerateState()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	verifier := authenticator.GenerateVerifier()

	ac.setCookie(w, stateCookieName, state, handshakeLifetime)
	ac.setCookie(w, verifierCookieName, verifier, handshakeLifetime)

	http.Redirect(w, r, ac.provider.AuthCodeURL(state, verifier), http.StatusTemporaryRedirect)
}

// Callback completes the handshake. The state and verifier cookies are
// discarded before anything else so a callback URL can never be replayed.
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	savedState := cookieValue(r, stateCookieName)
	verifier := cookieValue(r, verifierCookieName)

	// Single use: clear the handshake cookies regardless of outcome.
	ac.expireCookie(w, stateCookieName)
	ac.expireCookie(w, verifierCookieName)

	if savedState == "" || query.Get("state") != savedState {
		ac.loginRedirect(w, r, "invalid_state")
		return
	}
	if verifier == "" {
		ac.loginRedirect(w, r, "missing_verifier")
		return
	}
	if providerError := query.Get("error"); providerError != "" {
		ac.loginRedirect(w, r, providerError)
		return
	}
	code := query.Get("code")
	if code == "" {
		ac.loginRedirect(w, r, "missing_code")
		return
	}

	token, err := ac.provider.Exchange(r.Context(), code, verifier)
	if err != nil {
		ac.logger.Error("token exchange failed", zap.Error(err))
		ac.loginRedirect(w, r, "internal_error")
		return
	}

	identity, err := ac.provider.Identity(r.Context(), token.AccessToken)
	if err != nil {
		ac.logger.Error("identity lookup failed", zap.Error(err))
		ac.loginRedirect(w, r, "internal_error")
		return
	}

	user, err := ac.users.UpsertByAirtableID(
		r.Context(),
		identity.ID,
		token.AccessToken,
		token.RefreshToken,
		time.Unix(token.Expiry, 0),
	)
	if err != nil {
		ac.logger.Error("credential upsert failed", zap.Error(err))
		ac.loginRedirect(w, r, "internal_error")
		return
	}

	sessionToken, err := ac.sessions.Issue(user.ID)
	if err != nil {
		ac.logger.Error("session issue failed", zap.Error(err))
		ac.loginRedirect(w, r, "internal_error")
		return
	}

	ac.setCookie(w, middleware.SessionCookieName, sessionToken, ac.opts.SessionTTL)
	http.Redirect(w, r, ac.opts.FrontendURL+"/auth/callback?auth=success", http.StatusSeeOther)
}

// Check returns the current user. Token fields are excluded by the
// model's serialization.
func (ac *AuthController) Check(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Logout clears the session cookie. Verification is stateless, so there
// is nothing to invalidate server-side.
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	ac.expireCookie(w, middleware.SessionCookieName)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// loginRedirect sends the user agent back to the frontend login page
// with a non-sensitive error code.
func (ac *AuthController) loginRedirect(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, ac.opts.FrontendURL+"/login?error="+url.QueryEscape(code), http.StatusSeeOther)
}

func (ac *AuthController) setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   ac.opts.SecureCookies,
		SameSite: ac.sameSite(),
	})
}

func (ac *AuthController) expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ac.opts.SecureCookies,
		SameSite: ac.sameSite(),
	})
}

// sameSite returns None for the cross-site frontend in production;
// browsers reject SameSite=None without Secure, so plain HTTP falls
// back to Lax.
func (ac *AuthController) sameSite() http.SameSite {
	if ac.opts.SecureCookies {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
