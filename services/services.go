package services

import (
	"go.uber.org/zap"

	"github.com/formflow/formflow/airtable"
	"github.com/formflow/formflow/authenticator"
	"github.com/formflow/formflow/repositories"
)

// Services holds all service instances
type Services struct {
	Tokens   TokenService
	Forms    FormService
	Webhooks WebhookService
}

// NewServices creates and initializes all service instances
func NewServices(
	repos *repositories.Repositories,
	provider authenticator.Provider,
	client *airtable.Client,
	backendURL string,
	logger *zap.Logger,
) *Services {
	tokens := NewTokenService(provider, repos.Users, logger)
	return &Services{
		Tokens:   tokens,
		Forms:    NewFormService(repos.Forms, repos.Responses, repos.Users, client, tokens, backendURL, logger),
		Webhooks: NewWebhookService(repos.Forms, repos.Responses, logger),
	}
}
