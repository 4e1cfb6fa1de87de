package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/formflow/formflow/repositories"
)

// ErrUnknownWebhook is returned when no form matches the notification's
// webhook id.
var ErrUnknownWebhook = errors.New("unknown webhook")

// ErrBadSignature is returned when the HMAC signature does not match.
var ErrBadSignature = errors.New("invalid webhook signature")

// WebhookService verifies inbound provider notifications and applies
// record deletions to stored responses.
type WebhookService interface {
	HandleNotification(ctx context.Context, payload []byte, signature string) error
}

type webhookService struct {
	forms     repositories.FormRepository
	responses repositories.ResponseRepository
	logger    *zap.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(forms repositories.FormRepository, responses repositories.ResponseRepository, logger *zap.Logger) WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &webhookService{forms: forms, responses: responses, logger: logger}
}

type notification struct {
	WebhookID string `json:"webhookId"`
	Webhook   *struct {
		ID string `json:"id"`
	} `json:"webhook"`
	ChangedTablesByID map[string]tableChanges `json:"changedTablesById"`
}

type tableChanges struct {
	ChangedRecordsByID map[string]recordChange `json:"changedRecordsById"`
}

type recordChange struct {
	Current *struct {
		Deleted bool `json:"deleted"`
	} `json:"current"`
}

// HandleNotification verifies the HMAC over the raw payload with the
// form's stored secret, then marks responses whose records were deleted.
func (s *webhookService) HandleNotification(ctx context.Context, payload []byte, signature string) error {
	var event notification
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("decode notification: %w", err)
	}

	webhookID := event.WebhookID
	if webhookID == "" && event.Webhook != nil {
		webhookID = event.Webhook.ID
	}
	if webhookID == "" {
		return ErrUnknownWebhook
	}

	form, err := s.forms.GetByWebhookID(ctx, webhookID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUnknownWebhook
		}
		return err
	}
	if form.WebhookSecret == "" {
		return ErrUnknownWebhook
	}

	mac := hmac.New(sha256.New, []byte(form.WebhookSecret))
	mac.Write(payload)
	calculated := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(calculated), []byte(signature)) {
		return ErrBadSignature
	}

	for tableID, changes := range event.ChangedTablesByID {
		if tableID != form.TableID {
			continue
		}
		for recordID, change := range changes.ChangedRecordsByID {
			if change.Current == nil || !change.Current.Deleted {
				continue
			}
			if err := s.responses.MarkDeletedInAirtable(ctx, form.ID, recordID); err != nil {
				return fmt.Errorf("mark response deleted: %w", err)
			}
			s.logger.Info("response marked as deleted in airtable",
				zap.String("form_id", form.ID),
				zap.String("record_id", recordID),
			)
		}
	}

	return nil
}
