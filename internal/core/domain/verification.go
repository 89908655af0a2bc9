package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VerificationSource indicates how a verification entered the ledger.
type VerificationSource string

const (
	SourceManual      VerificationSource = "MANUAL"
	SourceEquityIssue VerificationSource = "EQUITY_ISSUE"
	SourceDividend    VerificationSource = "DIVIDEND"
	SourcePayroll     VerificationSource = "PAYROLL"
)

// Verification represents a single, balanced bookkeeping event ("verifikation")
// composed of multiple debit/credit rows. Immutable once created.
type Verification struct {
	VerificationID string             `json:"verificationID"` // Primary key (UUID)
	Date           time.Time          `json:"date"`           // Date the event occurred
	Description    string             `json:"description"`
	SourceType     VerificationSource `json:"sourceType"`
	// EquityIssue carries structured metadata for equity issuances. Preferred over
	// parsing the description; nil for legacy entries whose only source of truth
	// is the free text.
	EquityIssue *EquityIssueMetadata `json:"equityIssue,omitempty"`
	Rows        []VerificationRow    `json:"rows,omitempty"`
	AuditFields
}

// VerificationRow is a single line item within a verification, tagged with a
// BAS chart-of-accounts code. Exactly one of Debit/Credit is non-zero.
type VerificationRow struct {
	RowID          string          `json:"rowID"`
	VerificationID string          `json:"verificationID"`
	AccountCode    string          `json:"accountCode"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	// EmployeeID is the preferred association for reimbursement rows; empty for
	// legacy rows that rely on name matching against the description.
	EmployeeID string `json:"employeeID,omitempty"`
}

// EquityIssueMetadata is the structured record of a share issuance attached to
// its verification.
type EquityIssueMetadata struct {
	ShareCount    int64           `json:"shareCount"`
	RecipientName string          `json:"recipientName"`
	ShareholderID string          `json:"shareholderID,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// AccountRowView is a verification row paired with the context of its parent
// entry, as produced by account filtering.
type AccountRowView struct {
	VerificationID string          `json:"verificationID"`
	Date           time.Time       `json:"date"`
	EntryDescription string        `json:"entryDescription"`
	AccountCode    string          `json:"accountCode"`
	RowDescription string          `json:"rowDescription"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
}

// EmployeeBalance aggregates what the company owes an employee (account 2820)
// and their accumulated mileage reimbursements (account 7330).
type EmployeeBalance struct {
	EmployeeID   string          `json:"employeeID"`
	Name         string          `json:"name"`
	Balance      decimal.Decimal `json:"balance"`
	MileageTotal decimal.Decimal `json:"mileageTotal"`
}

// ShareTransaction is a derived view of an equity issuance, either from typed
// metadata or reconstructed from the verification text.
type ShareTransaction struct {
	VerificationID string          `json:"verificationID"`
	Date           time.Time       `json:"date"`
	ShareCount     int64           `json:"shareCount"`
	RecipientName  string          `json:"recipientName"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PricePerShare  decimal.Decimal `json:"pricePerShare"`
}
