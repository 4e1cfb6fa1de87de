package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/formflow/formflow/models"
)

// UserRepository is the credential store: it persists the per-user
// Airtable token triple.
type UserRepository interface {
	// UpsertByAirtableID creates or updates the user identified by the
	// stable provider user id, replacing the whole token triple.
	UpsertByAirtableID(ctx context.Context, airtableUserID, accessToken, refreshToken string, tokenExpiry time.Time) (*models.User, error)
	// UpdateTokens atomically replaces the token triple for a user.
	UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, tokenExpiry time.Time) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByAirtableUserID(ctx context.Context, airtableUserID string) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, airtable_user_id, access_token, refresh_token, token_expiry, created_at, updated_at`

// UpsertByAirtableID creates or updates a user keyed by their Airtable user id
func (r *userRepository) UpsertByAirtableID(ctx context.Context, airtableUserID, accessToken, refreshToken string, tokenExpiry time.Time) (*models.User, error) {
	query := `
		INSERT INTO users (id, airtable_user_id, access_token, refresh_token, token_expiry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(airtable_user_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_expiry = excluded.token_expiry,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		uuid.NewString(),
		airtableUserID,
		accessToken,
		refreshToken,
		tokenExpiry,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return r.GetByAirtableUserID(ctx, airtableUserID)
}

// UpdateTokens replaces the token triple as a unit
func (r *userRepository) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, tokenExpiry time.Time) error {
	query := `
		UPDATE users
		SET access_token = ?, refresh_token = ?, token_expiry = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, accessToken, refreshToken, tokenExpiry, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}

	return nil
}

// GetByID retrieves a user by internal id
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByAirtableUserID retrieves a user by their stable provider id
func (r *userRepository) GetByAirtableUserID(ctx context.Context, airtableUserID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE airtable_user_id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, airtableUserID))
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.AirtableUserID,
		&user.AccessToken,
		&user.RefreshToken,
		&user.TokenExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}
