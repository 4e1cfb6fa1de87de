package authenticator

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/oauth2"
)

// Token represents the credential triple issued by the provider
type Token struct {
	AccessToken  string
	RefreshToken string
	Expiry       int64
}

// Identity is the stable user identity resolved from the provider
type Identity struct {
	ID     string
	Email  string
	Scopes []string
}

// Provider interface abstracts OAuth provider operations
type Provider interface {
	// AuthCodeURL builds the authorization redirect carrying the state
	// nonce and the S256 challenge derived from verifier.
	AuthCodeURL(state, verifier string) string
	// Exchange trades an authorization code plus the PKCE verifier for tokens.
	Exchange(ctx context.Context, code, verifier string) (*Token, error)
	// Refresh mints a new access token from a refresh token. The returned
	// RefreshToken is empty when the provider did not rotate it.
	Refresh(ctx context.Context, refreshToken string) (*Token, error)
	// Identity resolves the provider's stable user id for an access token.
	Identity(ctx context.Context, accessToken string) (*Identity, error)
}

// GenerateVerifier returns a high-entropy PKCE code verifier.
func GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}

// GenerateState returns a random anti-CSRF state nonce.
func GenerateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
