package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/formflow/formflow/authenticator"
	"github.com/formflow/formflow/models"
	"github.com/formflow/formflow/repositories"
)

// RefreshMargin is the safety margin before expiry at which the access
// token is refreshed.
const RefreshMargin = 5 * time.Minute

// ErrUnauthenticated is returned when no usable credential exists.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrSessionExpired is returned when the refresh-token exchange fails;
// the user must redo the full authorization flow. It is never retried.
var ErrSessionExpired = errors.New("session expired")

// TokenService keeps a user's provider access token valid.
type TokenService interface {
	// EnsureFresh returns a user whose access token is valid for at least
	// RefreshMargin, refreshing and persisting the triple if needed.
	EnsureFresh(ctx context.Context, user *models.User) (*models.User, error)
}

type tokenService struct {
	provider authenticator.Provider
	users    repositories.UserRepository
	logger   *zap.Logger
	group    singleflight.Group
}

// NewTokenService creates a new token service
func NewTokenService(provider authenticator.Provider, users repositories.UserRepository, logger *zap.Logger) TokenService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tokenService{
		provider: provider,
		users:    users,
		logger:   logger,
	}
}

// EnsureFresh refreshes the token triple when the access token is within
// RefreshMargin of expiry. Concurrent requests for the same user share a
// single refresh call.
func (s *tokenService) EnsureFresh(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if user.TokenFresh(RefreshMargin) {
		return user, nil
	}
	if user.RefreshToken == "" {
		return nil, ErrUnauthenticated
	}

	result, err, _ := s.group.Do(user.ID, func() (interface{}, error) {
		// A client disconnect must not strand a rotated token unpersisted:
		// the provider may already have invalidated the old one.
		return s.refresh(context.WithoutCancel(ctx), user)
	})
	if err != nil {
		return nil, err
	}

	return result.(*models.User), nil
}

func (s *tokenService) refresh(ctx context.Context, user *models.User) (*models.User, error) {
	// Re-read the record: another request may have refreshed already.
	current, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	if current.TokenFresh(RefreshMargin) {
		return current, nil
	}

	token, err := s.provider.Refresh(ctx, current.RefreshToken)
	if err != nil {
		s.logger.Warn("token refresh failed",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, ErrSessionExpired
	}

	// Keep the old refresh token when the provider did not rotate it;
	// never overwrite with an empty value.
	refreshToken := token.RefreshToken
	if refreshToken == "" {
		refreshToken = current.RefreshToken
	}
	expiry := time.Unix(token.Expiry, 0)

	if err := s.users.UpdateTokens(ctx, current.ID, token.AccessToken, refreshToken, expiry); err != nil {
		return nil, fmt.Errorf("persist refreshed tokens: %w", err)
	}

	current.AccessToken = token.AccessToken
	current.RefreshToken = refreshToken
	current.TokenExpiry = expiry
	return current, nil
}
