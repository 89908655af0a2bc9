package domain

import "github.com/shopspring/decimal"

// ShareClass distinguishes voting power: class A carries ten votes per share,
// class B one.
type ShareClass string

const (
	ShareClassA ShareClass = "A"
	ShareClassB ShareClass = "B"
)

// VotesPerShare returns the statutory vote multiplier for the class.
func (c ShareClass) VotesPerShare() int64 {
	if c == ShareClassA {
		return 10
	}
	return 1
}

// Shareholder is one entry in the company's cap table. Ownership percentage is
// always derived from the full table, never stored.
type Shareholder struct {
	ShareholderID string     `json:"shareholderID"` // Primary key (UUID)
	Name          string     `json:"name"`
	OrgNumber     string     `json:"orgNumber"` // Personnummer or org.nr
	ShareCount    int64      `json:"shareCount"`
	ShareClass    ShareClass `json:"shareClass"`
	AuditFields
}

// Votes returns the voting power of this holding.
func (s Shareholder) Votes() int64 {
	return s.ShareCount * s.ShareClass.VotesPerShare()
}

// CapTableStats summarizes the registry.
type CapTableStats struct {
	TotalShares      int64 `json:"totalShares"`
	TotalVotes       int64 `json:"totalVotes"`
	ShareholderCount int   `json:"shareholderCount"`
}

// OwnershipShare is a shareholder's derived slice of the company.
type OwnershipShare struct {
	ShareholderID string          `json:"shareholderID"`
	Name          string          `json:"name"`
	ShareCount    int64           `json:"shareCount"`
	Percentage    decimal.Decimal `json:"percentage"`
}
