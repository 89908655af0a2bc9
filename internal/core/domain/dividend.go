package domain

import "github.com/shopspring/decimal"

// AllowanceMethod selects how the gränsbelopp is computed under the 3:12 rules.
type AllowanceMethod string

const (
	// MethodSchablon is the simplified rule: 2.75 x IBB.
	MethodSchablon AllowanceMethod = "SCHABLON"
	// MethodHuvudregel is the payroll-based main rule.
	MethodHuvudregel AllowanceMethod = "HUVUDREGEL"
)

// DividendEvaluation is the tax split of a proposed dividend against the
// available gränsbelopp. All amounts are whole kronor.
type DividendEvaluation struct {
	PlannedAmount    decimal.Decimal `json:"plannedAmount"`
	TotalGransbelopp decimal.Decimal `json:"totalGransbelopp"`
	IsWithinLimit    bool            `json:"isWithinLimit"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`    // Capital tax on the full amount
	ExcessAmount     decimal.Decimal `json:"excessAmount"` // Portion above the allowance
	ExcessTax        decimal.Decimal `json:"excessTax"`    // Service-income tax on the excess
	NetAmount        decimal.Decimal `json:"netAmount"`
}

// ShareholderAllocation is one holder's slice of a distributed dividend.
type ShareholderAllocation struct {
	ShareholderID string          `json:"shareholderID"`
	Amount        decimal.Decimal `json:"amount"`
}
