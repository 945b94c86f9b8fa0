package models

import (
	"encoding/json"

	"github.com/dmitrijs2005/recoverydesk/internal/timex"
)

// EmailTrigger is an ingested email awaiting conversion into a case.
type EmailTrigger struct {
	ID            int64           `json:"id"`
	From          string          `json:"email_from"`
	Subject       string          `json:"email_subject"`
	Body          string          `json:"email_body"`
	Processed     bool            `json:"processed"`
	VehicleID     *int64          `json:"vehicle_id"`
	ExtractedData json.RawMessage `json:"extracted_data,omitempty"`
	ReceivedAt    timex.Time      `json:"received_at"`
	ProcessedAt   timex.Time      `json:"processed_at"`
	ErrorMessage  string          `json:"error_message"`
}

// TriggerQuery is the query of GET /email-triggers. A nil Processed lists
// every trigger.
type TriggerQuery struct {
	Page      int
	PerPage   int
	Processed *bool
}

// TriggerPage is one page of GET /email-triggers.
type TriggerPage struct {
	Triggers    []EmailTrigger `json:"email_triggers"`
	Total       int            `json:"total"`
	Pages       int            `json:"pages"`
	CurrentPage int            `json:"current_page"`
}

// ProcessResult is the body of a successful POST /email-triggers/{id}/process.
type ProcessResult struct {
	Message   string        `json:"message"`
	VehicleID *int64        `json:"vehicle_id"`
	Trigger   *EmailTrigger `json:"email_trigger"`
}

// CheckNewResult is the body of POST /email-triggers/check-new.
type CheckNewResult struct {
	Message        string `json:"message"`
	ProcessedCount int    `json:"processed_count"`
}

// AutoProcessDetail is the outcome for one trigger of an auto-process run.
type AutoProcessDetail struct {
	TriggerID int64  `json:"trigger_id"`
	Message   string `json:"message"`
	Success   bool   `json:"success"`
	VehicleID *int64 `json:"vehicle_id,omitempty"`
}

// AutoProcessResult is the body of POST /email-triggers/auto-process.
type AutoProcessResult struct {
	Success int                 `json:"success"`
	Failed  int                 `json:"failed"`
	Details []AutoProcessDetail `json:"details"`
}
