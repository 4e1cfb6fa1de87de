package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/formflow/formflow/authenticator"
	"github.com/formflow/formflow/models"
	"github.com/formflow/formflow/services"
	"github.com/formflow/formflow/userctx"
)

// Function-backed stubs for the interfaces the controllers depend on.

type stubProvider struct {
	authCodeURL func(state, verifier string) string
	exchange    func(ctx context.Context, code, verifier string) (*authenticator.Token, error)
	refresh     func(ctx context.Context, refreshToken string) (*authenticator.Token, error)
	identity    func(ctx context.Context, accessToken string) (*authenticator.Identity, error)
}

func (s *stubProvider) AuthCodeURL(state, verifier string) string {
	if s.authCodeURL != nil {
		return s.authCodeURL(state, verifier)
	}
	return "https://provider.example.com/authorize?state=" + state
}

func (s *stubProvider) Exchange(ctx context.Context, code, verifier string) (*authenticator.Token, error) {
	return s.exchange(ctx, code, verifier)
}

func (s *stubProvider) Refresh(ctx context.Context, refreshToken string) (*authenticator.Token, error) {
	return s.refresh(ctx, refreshToken)
}

func (s *stubProvider) Identity(ctx context.Context, accessToken string) (*authenticator.Identity, error) {
	return s.identity(ctx, accessToken)
}

type stubUserRepo struct {
	upsert  func(ctx context.Context, airtableUserID, accessToken, refreshToken string, tokenExpiry time.Time) (*models.User, error)
	getByID func(ctx context.Context, id string) (*models.User, error)
}

func (s *stubUserRepo) UpsertByAirtableID(ctx context.Context, airtableUserID, accessToken, refreshToken string, tokenExpiry time.Time) (*models.User, error) {
	return s.upsert(ctx, airtableUserID, accessToken, refreshToken, tokenExpiry)
}

func (s *stubUserRepo) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, tokenExpiry time.Time) error {
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByID(ctx, id)
}

func (s *stubUserRepo) GetByAirtableUserID(ctx context.Context, airtableUserID string) (*models.User, error) {
	return nil, nil
}

type stubFormService struct {
	create        func(ctx context.Context, owner *models.User, input services.CreateFormInput) (*models.Form, error)
	list          func(ctx context.Context, ownerID string) ([]models.FormSummary, error)
	getPublic     func(ctx context.Context, formID string) (*models.Form, error)
	delete        func(ctx context.Context, owner *models.User, formID string) error
	submit        func(ctx context.Context, formID string, answers map[string]interface{}) error
	listResponses func(ctx context.Context, ownerID, formID string) ([]models.FormResponse, error)
}

func (s *stubFormService) CreateForm(ctx context.Context, owner *models.User, input services.CreateFormInput) (*models.Form, error) {
	return s.create(ctx, owner, input)
}

func (s *stubFormService) ListForms(ctx context.Context, ownerID string) ([]models.FormSummary, error) {
	return s.list(ctx, ownerID)
}

func (s *stubFormService) GetPublicForm(ctx context.Context, formID string) (*models.Form, error) {
	return s.getPublic(ctx, formID)
}

func (s *stubFormService) DeleteForm(ctx context.Context, owner *models.User, formID string) error {
	return s.delete(ctx, owner, formID)
}

func (s *stubFormService) SubmitForm(ctx context.Context, formID string, answers map[string]interface{}) error {
	return s.submit(ctx, formID, answers)
}

func (s *stubFormService) ListResponses(ctx context.Context, ownerID, formID string) ([]models.FormResponse, error) {
	return s.listResponses(ctx, ownerID, formID)
}

type stubWebhookService struct {
	handle func(ctx context.Context, payload []byte, signature string) error
}

func (s *stubWebhookService) HandleNotification(ctx context.Context, payload []byte, signature string) error {
	return s.handle(ctx, payload, signature)
}

// withUser attaches an authenticated user to the request, the way the
// auth middleware would.
func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(userctx.SetUser(r.Context(), user))
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func findCookie(recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
