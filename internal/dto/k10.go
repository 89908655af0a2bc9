package dto

import (
	"time"

	"github.com/egetab/compliance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateK10Request opens a draft K10 declaration for a shareholder and year.
// SavedAmount is the carried sparat utrymme after any statutory uprating,
// supplied externally.
type CreateK10Request struct {
	ShareholderID string          `json:"shareholderID" binding:"required"`
	Year          int             `json:"year" binding:"required"`
	Method        string          `json:"method" binding:"required,oneof=SCHABLON HUVUDREGEL"`
	SavedAmount   decimal.Decimal `json:"savedAmount"`
	UsedAmount    decimal.Decimal `json:"usedAmount"`
	// PayrollBase feeds huvudregeln; ignored for schablonmetoden.
	PayrollBase decimal.Decimal `json:"payrollBase"`
}

// K10Response mirrors a persisted K10 declaration.
type K10Response struct {
	DeclarationID string          `json:"declarationID"`
	ShareholderID string          `json:"shareholderID"`
	Year          int             `json:"year"`
	Status        string          `json:"status"`
	Deadline      time.Time       `json:"deadline"`
	Method        string          `json:"method"`
	Gransbelopp   decimal.Decimal `json:"gransbelopp"`
	UsedAmount    decimal.Decimal `json:"usedAmount"`
	SavedAmount   decimal.Decimal `json:"savedAmount"`
}

// ToK10Response converts a domain.K10Declaration to its DTO.
func ToK10Response(d *domain.K10Declaration) K10Response {
	return K10Response{
		DeclarationID: d.DeclarationID,
		ShareholderID: d.ShareholderID,
		Year:          d.Year,
		Status:        string(d.Status),
		Deadline:      d.Deadline,
		Method:        string(d.Method),
		Gransbelopp:   d.Gransbelopp,
		UsedAmount:    d.UsedAmount,
		SavedAmount:   d.SavedAmount,
	}
}
