// Package session issues and verifies the signed, time-limited tokens
// that identify a logged-in user to this application. Verification is
// stateless: the server keeps no session table.
package session

import (
	"errors"
	"fmt"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// ErrInvalidToken is returned for any token that fails signature or
// expiry verification.
var ErrInvalidToken = errors.New("invalid session token")

// Manager signs and validates session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager constructs a session manager from the signing secret.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if len(secret) < 32 {
		return nil, errors.New("session secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue mints a signed token for the given internal user id.
func (m *Manager) Issue(userID string) (string, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: m.secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	now := time.Now().UTC()
	claims := jwt.Claims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token, err := jwt.Signed(signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize token: %w", err)
	}

	return token, nil
}

// Verify checks signature and expiry and returns the user id carried in
// the token. The identity comes only from the verified payload.
func (m *Manager) Verify(token string) (string, error) {
	parsed, err := jwt.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return "", ErrInvalidToken
	}

	var claims jwt.Claims
	if err := parsed.Claims(m.secret, &claims); err != nil {
		return "", ErrInvalidToken
	}

	if err := claims.Validate(jwt.Expected{Time: time.Now()}); err != nil {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
