package repositories

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Repositories struct holds all repository interfaces
type Repositories struct {
	Users     UserRepository
	Forms     FormRepository
	Responses ResponseRepository
	Audit     AuditRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db),
		Forms:     NewFormRepository(db),
		Responses: NewResponseRepository(db),
		Audit:     NewAuditRepository(db),
	}
}
