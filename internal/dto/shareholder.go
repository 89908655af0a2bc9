package dto

import (
	"time"

	"github.com/egetab/compliance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateShareholderRequest registers a new cap table entry.
type CreateShareholderRequest struct {
	Name       string `json:"name" binding:"required"`
	OrgNumber  string `json:"orgNumber"`
	ShareCount int64  `json:"shareCount" binding:"min=0"`
	ShareClass string `json:"shareClass" binding:"required,shareclass"`
}

// UpdateShareholderRequest patches an existing shareholder. Nil fields are
// left untouched.
type UpdateShareholderRequest struct {
	Name       *string `json:"name"`
	OrgNumber  *string `json:"orgNumber"`
	ShareCount *int64  `json:"shareCount"`
	ShareClass *string `json:"shareClass" binding:"omitempty,shareclass"`
}

// RegisterEquityIssueRequest books a new share issuance: the verification and
// the cap table change together.
type RegisterEquityIssueRequest struct {
	RecipientName string          `json:"recipientName" binding:"required"`
	ShareCount    int64           `json:"shareCount" binding:"required,gt=0"`
	TotalAmount   decimal.Decimal `json:"totalAmount" binding:"required"`
	ShareClass    string          `json:"shareClass" binding:"required,shareclass"`
	Date          time.Time       `json:"date" binding:"required"`
}

// ShareholderResponse mirrors a persisted shareholder plus derived fields.
type ShareholderResponse struct {
	ShareholderID string          `json:"shareholderID"`
	Name          string          `json:"name"`
	OrgNumber     string          `json:"orgNumber"`
	ShareCount    int64           `json:"shareCount"`
	ShareClass    string          `json:"shareClass"`
	Votes         int64           `json:"votes"`
	Percentage    decimal.Decimal `json:"percentage"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToShareholderResponse converts a domain.Shareholder; percentage is filled by
// callers that hold the full table.
func ToShareholderResponse(s *domain.Shareholder, percentage decimal.Decimal) ShareholderResponse {
	return ShareholderResponse{
		ShareholderID: s.ShareholderID,
		Name:          s.Name,
		OrgNumber:     s.OrgNumber,
		ShareCount:    s.ShareCount,
		ShareClass:    string(s.ShareClass),
		Votes:         s.Votes(),
		Percentage:    percentage,
		CreatedAt:     s.CreatedAt,
	}
}
