package dto

import (
	"time"

	"github.com/egetab/compliance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateVerificationRowRequest is one debit/credit line of a new verification.
type CreateVerificationRowRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	EmployeeID  string          `json:"employeeID"`
}

// EquityIssueMetadataRequest is the typed issuance payload attached to an
// equity issue verification.
type EquityIssueMetadataRequest struct {
	ShareCount    int64           `json:"shareCount" binding:"required,gt=0"`
	RecipientName string          `json:"recipientName" binding:"required"`
	ShareholderID string          `json:"shareholderID"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// CreateVerificationRequest creates a balanced verification with its rows.
type CreateVerificationRequest struct {
	Date        time.Time                      `json:"date" binding:"required"`
	Description string                         `json:"description" binding:"required"`
	SourceType  domain.VerificationSource      `json:"sourceType"`
	EquityIssue *EquityIssueMetadataRequest    `json:"equityIssue"`
	Rows        []CreateVerificationRowRequest `json:"rows" binding:"required,min=2,dive"`
}

// ListVerificationsParams carries pagination for listing verifications.
type ListVerificationsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// VerificationRowResponse mirrors a persisted row.
type VerificationRowResponse struct {
	RowID       string          `json:"rowID"`
	AccountCode string          `json:"accountCode"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	EmployeeID  string          `json:"employeeID,omitempty"`
}

// VerificationResponse mirrors a persisted verification.
type VerificationResponse struct {
	VerificationID string                    `json:"verificationID"`
	Date           time.Time                 `json:"date"`
	Description    string                    `json:"description"`
	SourceType     domain.VerificationSource `json:"sourceType"`
	Rows           []VerificationRowResponse `json:"rows"`
	CreatedAt      time.Time                 `json:"createdAt"`
	CreatedBy      string                    `json:"createdBy"`
}

// ListVerificationsResponse is a page of verifications with the next token.
type ListVerificationsResponse struct {
	Verifications []VerificationResponse `json:"verifications"`
	NextToken     *string                `json:"nextToken,omitempty"`
}

// ToVerificationResponse converts a domain.Verification to its DTO.
func ToVerificationResponse(v *domain.Verification) VerificationResponse {
	rows := make([]VerificationRowResponse, len(v.Rows))
	for i, r := range v.Rows {
		rows[i] = VerificationRowResponse{
			RowID:       r.RowID,
			AccountCode: r.AccountCode,
			Description: r.Description,
			Debit:       r.Debit,
			Credit:      r.Credit,
			EmployeeID:  r.EmployeeID,
		}
	}
	return VerificationResponse{
		VerificationID: v.VerificationID,
		Date:           v.Date,
		Description:    v.Description,
		SourceType:     v.SourceType,
		Rows:           rows,
		CreatedAt:      v.CreatedAt,
		CreatedBy:      v.CreatedBy,
	}
}

// ToVerificationResponses converts a slice of verifications.
func ToVerificationResponses(vs []domain.Verification) []VerificationResponse {
	responses := make([]VerificationResponse, len(vs))
	for i := range vs {
		responses[i] = ToVerificationResponse(&vs[i])
	}
	return responses
}
