package domain

// CheckType distinguishes manually toggled checks from checks derived from the
// ledger. Auto checks cannot be toggled.
type CheckType string

const (
	CheckManual CheckType = "MANUAL"
	CheckAuto   CheckType = "AUTO"
)

// Manual check identifiers.
const (
	CheckBankReconciled   = "bankReconciled"
	CheckVATReported      = "vatReported"
	CheckDeclarationsDone = "declarationsDone"
	// CheckAllCategorized is derived: true when the month has no rows on the
	// uncategorized account.
	CheckAllCategorized = "allCategorized"
)

// ClosingCheck is one checklist item for a monthly closing period.
type ClosingCheck struct {
	CheckID string    `json:"checkID"`
	Type    CheckType `json:"type"`
	Done    bool      `json:"done"`
}

// ClosingPeriod is the reconciliation checklist state for one calendar month.
// A period is created implicitly on first access with all checks false.
type ClosingPeriod struct {
	Year    int            `json:"year"`
	Month   int            `json:"month"` // 1-12
	Checks  []ClosingCheck `json:"checks"`
	Notes   string         `json:"notes"`
	Started bool           `json:"started"` // False for future months
	AuditFields
}

// CheckProgress counts completed checks over the merged manual+auto set.
type CheckProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// MonthlyReview is the financial summary served by the external monthly review
// API. Consumed, never produced.
type MonthlyReview struct {
	Financial MonthlyFinancials      `json:"financial"`
	Sections  []MonthlyReviewSection `json:"sections"`
}

type MonthlyFinancials struct {
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Result   float64 `json:"result"`
}

type MonthlyReviewSection struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}
