package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/formflow/formflow/airtable"
	"github.com/formflow/formflow/authenticator"
	"github.com/formflow/formflow/models"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) UpsertByAirtableID(ctx context.Context, airtableUserID, accessToken, refreshToken string, tokenExpiry time.Time) (*models.User, error) {
	args := m.Called(ctx, airtableUserID, accessToken, refreshToken, tokenExpiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepository) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, tokenExpiry time.Time) error {
	args := m.Called(ctx, id, accessToken, refreshToken, tokenExpiry)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepository) GetByAirtableUserID(ctx context.Context, airtableUserID string) (*models.User, error) {
	args := m.Called(ctx, airtableUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockFormRepository struct {
	mock.Mock
}

func (m *mockFormRepository) Create(ctx context.Context, form *models.Form) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *mockFormRepository) GetByID(ctx context.Context, id string) (*models.Form, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Form), args.Error(1)
}

func (m *mockFormRepository) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Form, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Form), args.Error(1)
}

func (m *mockFormRepository) GetByWebhookID(ctx context.Context, webhookID string) (*models.Form, error) {
	args := m.Called(ctx, webhookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Form), args.Error(1)
}

func (m *mockFormRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.FormSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FormSummary), args.Error(1)
}

func (m *mockFormRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockResponseRepository struct {
	mock.Mock
}

func (m *mockResponseRepository) Create(ctx context.Context, response *models.FormResponse) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *mockResponseRepository) ListByForm(ctx context.Context, formID string) ([]models.FormResponse, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FormResponse), args.Error(1)
}

func (m *mockResponseRepository) MarkDeletedInAirtable(ctx context.Context, formID, airtableRecordID string) error {
	args := m.Called(ctx, formID, airtableRecordID)
	return args.Error(0)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) AuthCodeURL(state, verifier string) string {
	args := m.Called(state, verifier)
	return args.String(0)
}

func (m *mockProvider) Exchange(ctx context.Context, code, verifier string) (*authenticator.Token, error) {
	args := m.Called(ctx, code, verifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authenticator.Token), args.Error(1)
}

func (m *mockProvider) Refresh(ctx context.Context, refreshToken string) (*authenticator.Token, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authenticator.Token), args.Error(1)
}

func (m *mockProvider) Identity(ctx context.Context, accessToken string) (*authenticator.Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authenticator.Identity), args.Error(1)
}

type mockProviderClient struct {
	mock.Mock
}

func (m *mockProviderClient) CreateRecord(ctx context.Context, accessToken, baseID, tableID string, fields map[string]interface{}) (string, error) {
	args := m.Called(ctx, accessToken, baseID, tableID, fields)
	return args.String(0), args.Error(1)
}

func (m *mockProviderClient) CreateWebhook(ctx context.Context, accessToken, baseID, tableID, notificationURL string) (*airtable.Webhook, error) {
	args := m.Called(ctx, accessToken, baseID, tableID, notificationURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*airtable.Webhook), args.Error(1)
}

func (m *mockProviderClient) DeleteWebhook(ctx context.Context, accessToken, baseID, webhookID string) error {
	args := m.Called(ctx, accessToken, baseID, webhookID)
	return args.Error(0)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) EnsureFresh(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
