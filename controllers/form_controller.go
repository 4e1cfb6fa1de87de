package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/formflow/formflow/services"
	"github.com/formflow/formflow/userctx"
)

// FormController exposes the form lifecycle endpoints.
type FormController struct {
	forms  services.FormService
	logger *zap.Logger
}

// NewFormController creates a new form controller
func NewFormController(forms services.FormService, logger *zap.Logger) *FormController {
	return &FormController{forms: forms, logger: logger}
}

// Create builds a form; the provider webhook is registered first and a
// registration failure aborts creation.
func (c *FormController) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input services.CreateFormInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	form, err := c.forms.CreateForm(r.Context(), user, input)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			respondError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		c.logger.Error("form creation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create form")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"form": form})
}

// List returns the caller's forms
func (c *FormController) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	forms, err := c.forms.ListForms(r.Context(), user.ID)
	if err != nil {
		c.logger.Error("form listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"forms": forms})
}

// View returns a form for public rendering; webhook fields and the
// owner id are excluded by serialization.
func (c *FormController) View(w http.ResponseWriter, r *http.Request) {
	form, err := c.forms.GetPublicForm(r.Context(), chi.URLParam(r, "formId"))
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			respondError(w, http.StatusNotFound, "Form not found")
			return
		}
		c.logger.Error("form lookup failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"form": form})
}

// Delete removes the caller's form; provider webhook removal is
// best-effort and never blocks the deletion.
func (c *FormController) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err := c.forms.DeleteForm(r.Context(), user, chi.URLParam(r, "formId"))
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			respondError(w, http.StatusNotFound, "Form not found")
			return
		}
		c.logger.Error("form deletion failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Form deleted successfully"})
}

// Submit accepts a public submission and relays it to the provider.
func (c *FormController) Submit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Answers map[string]interface{} `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := c.forms.SubmitForm(r.Context(), chi.URLParam(r, "formId"), body.Answers)
	if err != nil {
		var validationErr *services.ValidationError
		switch {
		case errors.Is(err, services.ErrFormNotFound):
			respondError(w, http.StatusNotFound, "Form not found")
		case errors.As(err, &validationErr):
			respondError(w, http.StatusBadRequest, validationErr.Error())
		default:
			c.logger.Error("form submission failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Form submitted successfully"})
}

// Responses returns the stored submissions of the caller's form.
func (c *FormController) Responses(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	responses, err := c.forms.ListResponses(r.Context(), user.ID, chi.URLParam(r, "formId"))
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			respondError(w, http.StatusNotFound, "Form not found")
			return
		}
		c.logger.Error("response listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"responses": responses})
}
