package controllers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/formflow/formflow/services"
)

// signatureHeader carries the base64 HMAC-SHA256 of the raw payload.
const signatureHeader = "X-Airtable-Signature"

const maxPayloadBytes = 1 << 20

// WebhookController receives signed provider notifications.
type WebhookController struct {
	webhooks services.WebhookService
	logger   *zap.Logger
}

// NewWebhookController creates a new webhook controller
func NewWebhookController(webhooks services.WebhookService, logger *zap.Logger) *WebhookController {
	return &WebhookController{webhooks: webhooks, logger: logger}
}

// Receive verifies and applies one notification. The signature is
// checked against the raw body before anything in it is trusted.
func (c *WebhookController) Receive(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get(signatureHeader)
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil || len(payload) == 0 || signature == "" {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if err := c.webhooks.HandleNotification(r.Context(), payload, signature); err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownWebhook):
			http.Error(w, "Webhook not found", http.StatusNotFound)
		case errors.Is(err, services.ErrBadSignature):
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
		default:
			c.logger.Error("webhook handling failed", zap.Error(err))
			http.Error(w, "Server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
