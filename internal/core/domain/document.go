package domain

import "time"

// DocumentType enumerates the protocol documents produced by corporate actions.
type DocumentType string

const (
	DocBoardMeetingMinutes   DocumentType = "board_meeting_minutes"
	DocGeneralMeetingMinutes DocumentType = "general_meeting_minutes"
)

// DocumentStatus is the lifecycle state of a document.
type DocumentStatus string

const (
	DocDraft DocumentStatus = "DRAFT"
	DocFinal DocumentStatus = "FINAL"
)

// Document is a persisted protocol or filing produced by the wizard.
type Document struct {
	DocumentID string         `json:"documentID"`
	Type       DocumentType   `json:"type"`
	Title      string         `json:"title"`
	Date       time.Time      `json:"date"`
	Content    string         `json:"content"` // JSON-serialized action payload
	Status     DocumentStatus `json:"status"`
	Source     string         `json:"source"` // e.g. "wizard"
	AuditFields
}
