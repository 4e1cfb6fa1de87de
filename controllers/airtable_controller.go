package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/formflow/formflow/airtable"
	"github.com/formflow/formflow/userctx"
)

// AirtableController proxies metadata lookups to the provider using the
// caller's (already refreshed) access token.
type AirtableController struct {
	client *airtable.Client
	logger *zap.Logger
}

// NewAirtableController creates a new airtable controller
func NewAirtableController(client *airtable.Client, logger *zap.Logger) *AirtableController {
	return &AirtableController{client: client, logger: logger}
}

// Bases lists the bases visible to the connected account
func (c *AirtableController) Bases(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bases, err := c.client.ListBases(r.Context(), user.AccessToken)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch bases from Airtable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Bases fetched successfully",
		"bases":   bases,
	})
}

// Tables lists the tables of a base
func (c *AirtableController) Tables(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	baseID := chi.URLParam(r, "baseId")
	tables, err := c.client.ListTables(r.Context(), user.AccessToken, baseID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch tables")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"tables": tables})
}

// Fields lists the supported fields of a table
func (c *AirtableController) Fields(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tableID := chi.URLParam(r, "tableId")
	baseID := r.URL.Query().Get("baseId")
	if baseID == "" {
		respondError(w, http.StatusBadRequest, "baseId is required")
		return
	}
	if tableID == "" {
		respondError(w, http.StatusBadRequest, "tableId is required")
		return
	}

	fields, err := c.client.ListFields(r.Context(), user.AccessToken, baseID, tableID)
	if err != nil {
		if errors.Is(err, airtable.ErrTableNotFound) {
			respondError(w, http.StatusNotFound, "Table not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch fields")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"fields": fields})
}
