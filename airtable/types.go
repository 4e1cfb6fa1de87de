package airtable

import "encoding/json"

// Base is one Airtable base visible to the connected account.
type Base struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PermissionLevel string `json:"permissionLevel,omitempty"`
}

// Table is one table inside a base.
type Table struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"fields,omitempty"`
}

// Field describes one column of a table. Options carries the raw
// provider options blob (select choices etc).
type Field struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Options json.RawMessage `json:"options,omitempty"`
}

// WhoAmI is the identity of the token holder.
type WhoAmI struct {
	ID     string   `json:"id"`
	Email  string   `json:"email,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// Webhook is the registration handle returned when a webhook is created.
// The MAC secret signs every notification delivered for it.
type Webhook struct {
	ID              string `json:"id"`
	MACSecretBase64 string `json:"macSecretBase64"`
	ExpirationTime  string `json:"expirationTime,omitempty"`
}

type basesResponse struct {
	Bases  []Base `json:"bases"`
	Offset string `json:"offset,omitempty"`
}

type tablesResponse struct {
	Tables []Table `json:"tables"`
}

type createRecordRequest struct {
	Fields map[string]interface{} `json:"fields"`
}

type createRecordResponse struct {
	ID string `json:"id"`
}

type createWebhookRequest struct {
	NotificationURL string               `json:"notificationUrl"`
	Specification   webhookSpecification `json:"specification"`
}

type webhookSpecification struct {
	Options webhookOptions `json:"options"`
}

type webhookOptions struct {
	Filters webhookFilters `json:"filters"`
}

type webhookFilters struct {
	DataTypes         []string `json:"dataTypes"`
	RecordChangeScope string   `json:"recordChangeScope,omitempty"`
}
