package dto

import (
	"github.com/egetab/compliance_backend/internal/core/domain"
)

// SaveNotesRequest updates the free-text notes of a closing period.
type SaveNotesRequest struct {
	Notes string `json:"notes"`
}

// ClosingPeriodResponse is the checklist plus derived progress.
type ClosingPeriodResponse struct {
	Year     int                   `json:"year"`
	Month    int                   `json:"month"`
	Started  bool                  `json:"started"`
	Checks   []domain.ClosingCheck `json:"checks"`
	Notes    string                `json:"notes"`
	Progress domain.CheckProgress  `json:"progress"`
}

// ToClosingPeriodResponse converts a period and its progress to the DTO.
func ToClosingPeriodResponse(p *domain.ClosingPeriod, progress domain.CheckProgress) ClosingPeriodResponse {
	return ClosingPeriodResponse{
		Year:     p.Year,
		Month:    p.Month,
		Started:  p.Started,
		Checks:   p.Checks,
		Notes:    p.Notes,
		Progress: progress,
	}
}
