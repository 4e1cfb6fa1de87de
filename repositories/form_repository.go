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

// FormRepository handles form persistence. Questions are stored as a
// JSON column; the webhook id/secret pair lives with the form it guards.
type FormRepository interface {
	Create(ctx context.Context, form *models.Form) error
	GetByID(ctx context.Context, id string) (*models.Form, error)
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Form, error)
	GetByWebhookID(ctx context.Context, webhookID string) (*models.Form, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.FormSummary, error)
	Delete(ctx context.Context, id string) error
}

type formRepository struct {
	db *sql.DB
}

// NewFormRepository creates a new form repository
func NewFormRepository(db *sql.DB) FormRepository {
	return &formRepository{db: db}
}

const formColumns = `id, owner_id, title, base_id, table_id, table_name, questions, webhook_id, webhook_secret, is_active, created_at, updated_at`

// Create inserts a new form
func (r *formRepository) Create(ctx context.Context, form *models.Form) error {
	questions, err := json.Marshal(form.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	if form.Title == "" {
		form.Title = "Untitled Form"
	}
	now := time.Now()
	form.CreatedAt = now
	form.UpdatedAt = now
	form.IsActive = true

	query := `
		INSERT INTO forms (id, owner_id, title, base_id, table_id, table_name, questions, webhook_id, webhook_secret, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		form.ID,
		form.OwnerID,
		form.Title,
		form.BaseID,
		form.TableID,
		form.TableName,
		string(questions),
		form.WebhookID,
		form.WebhookSecret,
		form.IsActive,
		form.CreatedAt,
		form.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}

	return nil
}

// GetByID retrieves a form by id
func (r *formRepository) GetByID(ctx context.Context, id string) (*models.Form, error) {
	query := `SELECT ` + formColumns + ` FROM forms WHERE id = ?`
	return r.scanForm(r.db.QueryRowContext(ctx, query, id))
}

// GetByIDForOwner retrieves a form only if it belongs to the given owner
func (r *formRepository) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Form, error) {
	query := `SELECT ` + formColumns + ` FROM forms WHERE id = ? AND owner_id = ?`
	return r.scanForm(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// GetByWebhookID retrieves the form guarded by the given provider webhook
func (r *formRepository) GetByWebhookID(ctx context.Context, webhookID string) (*models.Form, error) {
	query := `SELECT ` + formColumns + ` FROM forms WHERE webhook_id = ? AND webhook_id != ''`
	return r.scanForm(r.db.QueryRowContext(ctx, query, webhookID))
}

// ListByOwner returns summaries of the owner's forms, newest first
func (r *formRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.FormSummary, error) {
	query := `
		SELECT id, title, table_name, is_active, created_at
		FROM forms
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query forms: %w", err)
	}
	defer rows.Close()

	var forms []models.FormSummary
	for rows.Next() {
		var summary models.FormSummary
		if err := rows.Scan(&summary.ID, &summary.Title, &summary.TableName, &summary.IsActive, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan form summary: %w", err)
		}
		forms = append(forms, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forms: %w", err)
	}

	return forms, nil
}

// Delete removes a form; response rows cascade
func (r *formRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("form %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *formRepository) scanForm(row *sql.Row) (*models.Form, error) {
	var form models.Form
	var questions string

	err := row.Scan(
		&form.ID,
		&form.OwnerID,
		&form.Title,
		&form.BaseID,
		&form.TableID,
		&form.TableName,
		&questions,
		&form.WebhookID,
		&form.WebhookSecret,
		&form.IsActive,
		&form.CreatedAt,
		&form.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("form: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan form: %w", err)
	}

	if err := json.Unmarshal([]byte(questions), &form.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}

	return &form, nil
}
