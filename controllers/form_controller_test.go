package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/formflow/formflow/models"
	"github.com/formflow/formflow/services"
)

func testUser() *models.User {
	return &models.User{ID: "user-1", AirtableUserID: "usr_1", AccessToken: "access-1"}
}

func TestFormCreateValidationError(t *testing.T) {
	forms := &stubFormService{
		create: func(ctx context.Context, owner *models.User, input services.CreateFormInput) (*models.Form, error) {
			return nil, &services.ValidationError{Problems: []string{"Base ID is required"}}
		},
	}
	controller := NewFormController(forms, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/forms", strings.NewReader(`{"title":"x"}`))
	controller.Create(recorder, withUser(request, testUser()))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Base ID is required")
}

func TestFormCreateSuccess(t *testing.T) {
	forms := &stubFormService{
		create: func(ctx context.Context, owner *models.User, input services.CreateFormInput) (*models.Form, error) {
			assert.Equal(t, "user-1", owner.ID)
			return &models.Form{ID: "form-1", Title: input.Title, OwnerID: owner.ID,
				WebhookID: "ach123", WebhookSecret: "c2VjcmV0"}, nil
		},
	}
	controller := NewFormController(forms, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/forms",
		strings.NewReader(`{"title":"Contact us","baseId":"app1","tableId":"tbl1"}`))
	controller.Create(recorder, withUser(request, testUser()))

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "form-1")
	// Webhook credentials never leave the server.
	assert.NotContains(t, recorder.Body.String(), "ach123")
	assert.NotContains(t, recorder.Body.String(), "c2VjcmV0")
}

func TestFormCreateRequiresAuth(t *testing.T) {
	controller := NewFormController(&stubFormService{}, zap.NewNop())

	recorder := httptest.NewRecorder()
	controller.Create(recorder, httptest.NewRequest(http.MethodPost, "/forms", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestFormViewPublic(t *testing.T) {
	forms := &stubFormService{
		getPublic: func(ctx context.Context, formID string) (*models.Form, error) {
			assert.Equal(t, "form-1", formID)
			return &models.Form{ID: "form-1", Title: "Contact us", OwnerID: "user-1",
				WebhookSecret: "c2VjcmV0", IsActive: true}, nil
		},
	}
	controller := NewFormController(forms, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := withURLParam(httptest.NewRequest(http.MethodGet, "/forms/form-1", nil), "formId", "form-1")
	controller.View(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Contact us")
	assert.NotContains(t, recorder.Body.String(), "user-1")
	assert.NotContains(t, recorder.Body.String(), "c2VjcmV0")
}

func TestFormViewNotFound(t *testing.T) {
	forms := &stubFormService{
		getPublic: func(ctx context.Context, formID string) (*models.Form, error) {
			return nil, services.ErrFormNotFound
		},
	}
	controller := NewFormController(forms, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := withURLParam(httptest.NewRequest(http.MethodGet, "/forms/missing", nil), "formId", "missing")
	controller.View(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestFormSubmitStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"unknown form", services.ErrFormNotFound, http.StatusNotFound},
		{"validation", &services.ValidationError{Problems: []string{"Name is required"}}, http.StatusBadRequest},
		{"provider failure", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forms := &stubFormService{
				submit: func(ctx context.Context, formID string, answers map[string]interface{}) error {
					return tt.err
				},
			}
			controller := NewFormController(forms, zap.NewNop())

			recorder := httptest.NewRecorder()
			request := withURLParam(
				httptest.NewRequest(http.MethodPost, "/forms/form-1/submit",
					strings.NewReader(`{"answers":{"Name":"Jane"}}`)),
				"formId", "form-1")
			controller.Submit(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestFormSubmitRejectsMalformedBody(t *testing.T) {
	controller := NewFormController(&stubFormService{}, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := withURLParam(
		httptest.NewRequest(http.MethodPost, "/forms/form-1/submit", strings.NewReader("not json")),
		"formId", "form-1")
	controller.Submit(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestFormDelete(t *testing.T) {
	var deletedID string
	forms := &stubFormService{
		delete: func(ctx context.Context, owner *models.User, formID string) error {
			deletedID = formID
			return nil
		},
	}
	controller := NewFormController(forms, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := withURLParam(httptest.NewRequest(http.MethodDelete, "/forms/form-1", nil), "formId", "form-1")
	controller.Delete(recorder, withUser(request, testUser()))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "form-1", deletedID)
}

func TestFormResponses(t *testing.T) {
	forms := &stubFormService{
		listResponses: func(ctx context.Context, ownerID, formID string) ([]models.FormResponse, error) {
			require.Equal(t, "user-1", ownerID)
			return []models.FormResponse{{ID: "resp-1", FormID: formID, AirtableRecordID: "rec123"}}, nil
		},
	}
	controller := NewFormController(forms, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := withURLParam(httptest.NewRequest(http.MethodGet, "/forms/form-1/responses", nil), "formId", "form-1")
	controller.Responses(recorder, withUser(request, testUser()))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "rec123")
}
