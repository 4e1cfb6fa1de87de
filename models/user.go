package models

import (
	"time"
)

// User represents a connected Airtable account. The token triple
// (AccessToken, RefreshToken, TokenExpiry) is sensitive and is always
// written as a unit; it is never serialized to clients.
type User struct {
	ID             string    `json:"id" db:"id"`
	AirtableUserID string    `json:"airtableUserId" db:"airtable_user_id"`
	AccessToken    string    `json:"-" db:"access_token"`
	RefreshToken   string    `json:"-" db:"refresh_token"`
	TokenExpiry    time.Time `json:"-" db:"token_expiry"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// TokenFresh reports whether the access token is still valid beyond the
// given safety margin.
func (u *User) TokenFresh(margin time.Duration) bool {
	if u.AccessToken == "" {
		return false
	}
	return u.TokenExpiry.After(time.Now().Add(margin))
}
