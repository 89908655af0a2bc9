package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// K10Status indicates the filing state of a K10 declaration.
type K10Status string

const (
	K10Draft     K10Status = "DRAFT"
	K10Submitted K10Status = "SUBMITTED"
)

// K10Declaration records the qualified-shares dividend allowance computation for
// one shareholder and tax year. One record per (shareholder, year).
//
// SavedAmount is the sparat utrymme carried into the following year. Its
// statutory uprating (government borrowing rate + 3%) is supplied externally
// and never computed here.
type K10Declaration struct {
	DeclarationID string          `json:"declarationID"`
	ShareholderID string          `json:"shareholderID"`
	Year          int             `json:"year"`
	Status        K10Status       `json:"status"`
	Deadline      time.Time       `json:"deadline"`
	Method        AllowanceMethod `json:"method"`
	Gransbelopp   decimal.Decimal `json:"gransbelopp"`
	UsedAmount    decimal.Decimal `json:"usedAmount"`
	SavedAmount   decimal.Decimal `json:"savedAmount"`
	AuditFields
}
