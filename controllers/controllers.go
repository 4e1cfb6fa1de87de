package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/formflow/formflow/airtable"
	"github.com/formflow/formflow/authenticator"
	"github.com/formflow/formflow/repositories"
	"github.com/formflow/formflow/services"
	"github.com/formflow/formflow/session"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError writes a JSON error message with the given status code
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"message": message})
}

// Options carries the request-facing configuration controllers need.
type Options struct {
	FrontendURL   string
	SecureCookies bool
	SessionTTL    time.Duration
}

// Controllers holds all controller instances
type Controllers struct {
	Auth     *AuthController
	Airtable *AirtableController
	Form     *FormController
	Webhook  *WebhookController
}

// NewControllers creates and initializes all controller instances
func NewControllers(
	srvs *services.Services,
	provider authenticator.Provider,
	users repositories.UserRepository,
	sessions *session.Manager,
	client *airtable.Client,
	opts Options,
	logger *zap.Logger,
) *Controllers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controllers{
		Auth:     NewAuthController(provider, users, sessions, opts, logger),
		Airtable: NewAirtableController(client, logger),
		Form:     NewFormController(srvs.Forms, logger),
		Webhook:  NewWebhookController(srvs.Webhooks, logger),
	}
}
