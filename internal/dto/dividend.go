package dto

import (
	"github.com/egetab/compliance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EvaluateDividendRequest evaluates a proposed dividend for a tax year.
// SparatUtrymme is the carried allowance, supplied by the caller (typically
// from the prior year's K10).
type EvaluateDividendRequest struct {
	Year          int             `json:"year" binding:"required"`
	PlannedAmount decimal.Decimal `json:"plannedAmount"`
	SparatUtrymme decimal.Decimal `json:"sparatUtrymme"`
}

// DividendEvaluationResponse is the tax split plus the allowance figures that
// produced it.
type DividendEvaluationResponse struct {
	SchablonBelopp   decimal.Decimal           `json:"schablonBelopp"`
	SparatUtrymme    decimal.Decimal           `json:"sparatUtrymme"`
	TotalGransbelopp decimal.Decimal           `json:"totalGransbelopp"`
	Evaluation       domain.DividendEvaluation `json:"evaluation"`
}

// SplitDividendRequest distributes a dividend across the cap table.
type SplitDividendRequest struct {
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"required"`
}

// SplitDividendResponse lists per-shareholder allocations.
type SplitDividendResponse struct {
	TotalAmount decimal.Decimal                `json:"totalAmount"`
	Allocations []domain.ShareholderAllocation `json:"allocations"`
}
