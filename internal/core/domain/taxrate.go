package domain

import "github.com/shopspring/decimal"

// TaxRates holds the statutory parameters for one tax year, supplied by the
// tax parameter store (seeded by migration, updated yearly).
type TaxRates struct {
	Year int `json:"year"`
	// IBB is the inkomstbasbelopp, the statutory income base amount.
	IBB decimal.Decimal `json:"ibb"`
	// CapitalTaxRate applies to dividends within the gränsbelopp (0.20).
	CapitalTaxRate decimal.Decimal `json:"capitalTaxRate"`
	// ServiceTaxRate approximates marginal tax on excess dividends (0.52).
	ServiceTaxRate decimal.Decimal `json:"serviceTaxRate"`
	// MileageRate is the tax-free reimbursement per kilometer.
	MileageRate decimal.Decimal `json:"mileageRate"`
	// SavedAllowanceUprate is the statutory uprating factor for sparat utrymme
	// (government borrowing rate + 3%). Exposed for callers; never applied here.
	SavedAllowanceUprate decimal.Decimal `json:"savedAllowanceUprate"`
}
