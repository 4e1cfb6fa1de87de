package models

import "time"

// FormResponse records one public submission and the Airtable record it
// created. DeletedInAirtable is set by the webhook listener when the
// provider reports the record was destroyed.
type FormResponse struct {
	ID                string                 `json:"id" db:"id"`
	FormID            string                 `json:"formId" db:"form_id"`
	AirtableRecordID  string                 `json:"airtableRecordId" db:"airtable_record_id"`
	Answers           map[string]interface{} `json:"answers"`
	DeletedInAirtable bool                   `json:"deletedInAirtable" db:"deleted_in_airtable"`
	CreatedAt         time.Time              `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time              `json:"updatedAt" db:"updated_at"`
}
