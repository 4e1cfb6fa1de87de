package models

import "time"

// AuditLogEntry represents a single HTTP mutation event
type AuditLogEntry struct {
	ID        int64
	Timestamp time.Time
	UserID    string
	Method    string
	Path      string
	UserAgent string
	IPAddress string
}
