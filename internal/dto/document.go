package dto

import (
	"time"

	"github.com/egetab/compliance_backend/internal/core/domain"
)

// CreateDocumentRequest persists a new protocol document.
type CreateDocumentRequest struct {
	Type    domain.DocumentType `json:"type" binding:"required"`
	Title   string              `json:"title" binding:"required"`
	Date    time.Time           `json:"date" binding:"required"`
	Content string              `json:"content"`
	Source  string              `json:"source"`
}

// DocumentResponse mirrors a persisted document.
type DocumentResponse struct {
	DocumentID string    `json:"documentID"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Date       time.Time `json:"date"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"createdAt"`
	CreatedBy  string    `json:"createdBy"`
}

// ToDocumentResponse converts a domain.Document to its DTO.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: d.DocumentID,
		Type:       string(d.Type),
		Title:      d.Title,
		Date:       d.Date,
		Content:    d.Content,
		Status:     string(d.Status),
		Source:     d.Source,
		CreatedAt:  d.CreatedAt,
		CreatedBy:  d.CreatedBy,
	}
}
