package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/formflow/formflow/airtable"
	"github.com/formflow/formflow/models"
	"github.com/formflow/formflow/repositories"
)

// ErrFormNotFound is returned when a referenced form is absent or not
// visible to the caller.
var ErrFormNotFound = errors.New("form not found")

// ValidationError carries the user-facing reasons a submission or form
// was rejected.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "validation failed"
	}
	return e.Problems[0]
}

// ProviderClient is the slice of the Airtable client the form lifecycle
// needs: record writes and the webhook pair created/removed with a form.
type ProviderClient interface {
	CreateRecord(ctx context.Context, accessToken, baseID, tableID string, fields map[string]interface{}) (string, error)
	CreateWebhook(ctx context.Context, accessToken, baseID, tableID, notificationURL string) (*airtable.Webhook, error)
	DeleteWebhook(ctx context.Context, accessToken, baseID, webhookID string) error
}

// CreateFormInput is the payload for creating a form.
type CreateFormInput struct {
	Title     string            `json:"title"`
	BaseID    string            `json:"baseId"`
	TableID   string            `json:"tableId"`
	TableName string            `json:"tableName"`
	Questions []models.Question `json:"questions"`
}

// FormService owns the form lifecycle: webhook-first creation, public
// reads, tolerant deletion and the submission write path.
type FormService interface {
	CreateForm(ctx context.Context, owner *models.User, input CreateFormInput) (*models.Form, error)
	ListForms(ctx context.Context, ownerID string) ([]models.FormSummary, error)
	GetPublicForm(ctx context.Context, formID string) (*models.Form, error)
	DeleteForm(ctx context.Context, owner *models.User, formID string) error
	SubmitForm(ctx context.Context, formID string, answers map[string]interface{}) error
	ListResponses(ctx context.Context, ownerID, formID string) ([]models.FormResponse, error)
}

type formService struct {
	forms      repositories.FormRepository
	responses  repositories.ResponseRepository
	users      repositories.UserRepository
	client     ProviderClient
	tokens     TokenService
	backendURL string
	logger     *zap.Logger
}

// NewFormService creates a new form service
func NewFormService(
	forms repositories.FormRepository,
	responses repositories.ResponseRepository,
	users repositories.UserRepository,
	client ProviderClient,
	tokens TokenService,
	backendURL string,
	logger *zap.Logger,
) FormService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &formService{
		forms:      forms,
		responses:  responses,
		users:      users,
		client:     client,
		tokens:     tokens,
		backendURL: backendURL,
		logger:     logger,
	}
}

// CreateForm registers the provider webhook first, then persists the
// form. A webhook registration failure aborts creation: form and webhook
// are created together or not at all.
func (s *formService) CreateForm(ctx context.Context, owner *models.User, input CreateFormInput) (*models.Form, error) {
	form := &models.Form{
		OwnerID:   owner.ID,
		Title:     input.Title,
		BaseID:    input.BaseID,
		TableID:   input.TableID,
		TableName: input.TableName,
		Questions: input.Questions,
	}
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	webhook, err := s.client.CreateWebhook(ctx, owner.AccessToken, input.BaseID, input.TableID, s.backendURL+"/webhooks/airtable")
	if err != nil {
		return nil, fmt.Errorf("register webhook: %w", err)
	}

	form.WebhookID = webhook.ID
	form.WebhookSecret = webhook.MACSecretBase64

	if err := s.forms.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("persist form: %w", err)
	}

	return form, nil
}

// ListForms returns the owner's form summaries
func (s *formService) ListForms(ctx context.Context, ownerID string) ([]models.FormSummary, error) {
	return s.forms.ListByOwner(ctx, ownerID)
}

// GetPublicForm returns a form for public rendering. Webhook fields and
// the owner id are excluded by serialization.
func (s *formService) GetPublicForm(ctx context.Context, formID string) (*models.Form, error) {
	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return form, nil
}

// DeleteForm removes the owner's form. Webhook deletion on the provider
// is best-effort: a failure there is logged and the form is deleted
// regardless.
func (s *formService) DeleteForm(ctx context.Context, owner *models.User, formID string) error {
	form, err := s.forms.GetByIDForOwner(ctx, formID, owner.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrFormNotFound
		}
		return err
	}

	if form.WebhookID != "" {
		if err := s.client.DeleteWebhook(ctx, owner.AccessToken, form.BaseID, form.WebhookID); err != nil {
			s.logger.Warn("failed to remove provider webhook",
				zap.String("form_id", form.ID),
				zap.String("webhook_id", form.WebhookID),
				zap.Error(err),
			)
		}
	}

	return s.forms.Delete(ctx, form.ID)
}

// SubmitForm validates a public submission against the form's questions,
// writes the record to the provider with the owner's token (refreshed
// inline if stale) and stores the response.
func (s *formService) SubmitForm(ctx context.Context, formID string, answers map[string]interface{}) error {
	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrFormNotFound
		}
		return err
	}
	if !form.IsActive {
		return ErrFormNotFound
	}

	if problems := validateAnswers(form, answers); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	owner, err := s.users.GetByID(ctx, form.OwnerID)
	if err != nil {
		return fmt.Errorf("load form owner: %w", err)
	}
	owner, err = s.tokens.EnsureFresh(ctx, owner)
	if err != nil {
		return fmt.Errorf("owner credentials: %w", err)
	}

	fields := make(map[string]interface{})
	for _, question := range form.Questions {
		if question.QuestionKey == "" {
			continue
		}
		if answer, ok := answers[question.QuestionKey]; ok {
			fields[question.QuestionKey] = answer
		}
	}

	recordID, err := s.client.CreateRecord(ctx, owner.AccessToken, form.BaseID, form.TableID, fields)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}

	response := &models.FormResponse{
		FormID:           form.ID,
		AirtableRecordID: recordID,
		Answers:          answers,
	}
	if err := s.responses.Create(ctx, response); err != nil {
		return fmt.Errorf("persist response: %w", err)
	}

	return nil
}

// ListResponses returns the stored responses of the owner's form.
func (s *formService) ListResponses(ctx context.Context, ownerID, formID string) ([]models.FormResponse, error) {
	if _, err := s.forms.GetByIDForOwner(ctx, formID, ownerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return s.responses.ListByForm(ctx, formID)
}

// validateAnswers enforces required questions, honoring conditional
// visibility: a hidden required question does not block submission.
func validateAnswers(form *models.Form, answers map[string]interface{}) []string {
	var problems []string
	for _, question := range form.Questions {
		if !question.Required || !question.Visible(answers) {
			continue
		}
		answer, ok := answers[question.QuestionKey]
		if !ok || answer == nil || answer == "" {
			problems = append(problems, fmt.Sprintf("%s is required", question.Label))
		}
	}
	return problems
}
