package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/formflow/formflow/models"
)

// ResponseRepository handles stored form submissions.
type ResponseRepository interface {
	Create(ctx context.Context, response *models.FormResponse) error
	ListByForm(ctx context.Context, formID string) ([]models.FormResponse, error)
	// MarkDeletedInAirtable flags the response matching the given Airtable
	// record as deleted on the provider side.
	MarkDeletedInAirtable(ctx context.Context, formID, airtableRecordID string) error
}

type responseRepository struct {
	db *sql.DB
}

// NewResponseRepository creates a new response repository
func NewResponseRepository(db *sql.DB) ResponseRepository {
	return &responseRepository{db: db}
}

// Create inserts a new response
func (r *responseRepository) Create(ctx context.Context, response *models.FormResponse) error {
	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	now := time.Now()
	response.CreatedAt = now
	response.UpdatedAt = now

	query := `
		INSERT INTO responses (id, form_id, airtable_record_id, answers, deleted_in_airtable, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		response.ID,
		response.FormID,
		response.AirtableRecordID,
		string(answers),
		response.DeletedInAirtable,
		response.CreatedAt,
		response.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}

	return nil
}

// ListByForm returns all responses for a form, newest first
func (r *responseRepository) ListByForm(ctx context.Context, formID string) ([]models.FormResponse, error) {
	query := `
		SELECT id, form_id, airtable_record_id, answers, deleted_in_airtable, created_at, updated_at
		FROM responses
		WHERE form_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	var responses []models.FormResponse
	for rows.Next() {
		var response models.FormResponse
		var answers string

		err := rows.Scan(
			&response.ID,
			&response.FormID,
			&response.AirtableRecordID,
			&answers,
			&response.DeletedInAirtable,
			&response.CreatedAt,
			&response.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}

		if err := json.Unmarshal([]byte(answers), &response.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers: %w", err)
		}

		responses = append(responses, response)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating responses: %w", err)
	}

	return responses, nil
}

// MarkDeletedInAirtable flags a response whose Airtable record was destroyed
func (r *responseRepository) MarkDeletedInAirtable(ctx context.Context, formID, airtableRecordID string) error {
	query := `
		UPDATE responses
		SET deleted_in_airtable = 1, updated_at = ?
		WHERE form_id = ? AND airtable_record_id = ?
	`

	_, err := r.db.ExecContext(ctx, query, time.Now(), formID, airtableRecordID)
	if err != nil {
		return fmt.Errorf("failed to mark response deleted: %w", err)
	}

	return nil
}
