package services

import (
	"fmt"
	"sort"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Statutory defaults for the 3:12 rules. The per-year values live in the tax
// parameter store; these are the fallbacks the calculator is documented with.
var (
	schablonFactor        = decimal.RequireFromString("2.75")
	defaultCapitalTaxRate = decimal.RequireFromString("0.20")
	defaultServiceTaxRate = decimal.RequireFromString("0.52")
)

// roundKronor rounds to whole kronor, half away from zero.
func roundKronor(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// SchablonBelopp computes the simplified-rule allowance: 2.75 x IBB, rounded
// to whole kronor.
func SchablonBelopp(ibb decimal.Decimal) decimal.Decimal {
	return roundKronor(ibb.Mul(schablonFactor))
}

// HuvudregelBelopp computes the payroll-based main-rule allowance: half of the
// qualifying payroll base.
func HuvudregelBelopp(payrollBase decimal.Decimal) decimal.Decimal {
	return roundKronor(payrollBase.Div(decimal.NewFromInt(2)))
}

// TotalGransbelopp adds the carried sparat utrymme to the year's allowance.
func TotalGransbelopp(belopp decimal.Decimal, sparatUtrymme decimal.Decimal) decimal.Decimal {
	return belopp.Add(sparatUtrymme)
}

// EvaluateDividendPlan splits a proposed dividend into its capital-taxed and
// service-taxed portions against the available allowance.
//
// A zero planned amount is a valid no-op; negative amounts are rejected.
func EvaluateDividendPlan(plannedAmount, totalGransbelopp, capitalTaxRate, serviceTaxRate decimal.Decimal) (domain.DividendEvaluation, error) {
	if plannedAmount.IsNegative() {
		return domain.DividendEvaluation{}, fmt.Errorf("%w: planned dividend amount must not be negative", apperrors.ErrValidation)
	}

	excess := plannedAmount.Sub(totalGransbelopp)
	if excess.IsNegative() {
		excess = decimal.Zero
	}

	taxAmount := roundKronor(plannedAmount.Mul(capitalTaxRate))
	excessTax := roundKronor(excess.Mul(serviceTaxRate))

	return domain.DividendEvaluation{
		PlannedAmount:    plannedAmount,
		TotalGransbelopp: totalGransbelopp,
		IsWithinLimit:    plannedAmount.LessThanOrEqual(totalGransbelopp),
		TaxAmount:        taxAmount,
		ExcessAmount:     excess,
		ExcessTax:        excessTax,
		NetAmount:        plannedAmount.Sub(taxAmount).Sub(excessTax),
	}, nil
}

// PerShareSplit distributes a dividend across the cap table in proportion to
// share counts. Allocations are whole kronor and always sum exactly to the
// total: each holder gets the floor of their exact share, then the residual
// kronor are handed out in descending fractional-remainder order (ties broken
// by shareholder ID).
func PerShareSplit(total decimal.Decimal, shareholders []domain.Shareholder) ([]domain.ShareholderAllocation, error) {
	if total.IsNegative() {
		return nil, fmt.Errorf("%w: dividend total must not be negative", apperrors.ErrValidation)
	}

	allocations := make([]domain.ShareholderAllocation, len(shareholders))
	var totalShares int64
	for _, s := range shareholders {
		totalShares += s.ShareCount
	}
	if totalShares == 0 {
		for i, s := range shareholders {
			allocations[i] = domain.ShareholderAllocation{ShareholderID: s.ShareholderID, Amount: decimal.Zero}
		}
		return allocations, nil
	}

	type remainder struct {
		index int
		frac  decimal.Decimal
	}
	remainders := make([]remainder, len(shareholders))
	allocated := decimal.Zero
	totalSharesDec := decimal.NewFromInt(totalShares)
	for i, s := range shareholders {
		exact := total.Mul(decimal.NewFromInt(s.ShareCount)).Div(totalSharesDec)
		floor := exact.Floor()
		allocations[i] = domain.ShareholderAllocation{ShareholderID: s.ShareholderID, Amount: floor}
		remainders[i] = remainder{index: i, frac: exact.Sub(floor)}
		allocated = allocated.Add(floor)
	}

	sort.Slice(remainders, func(i, j int) bool {
		if !remainders[i].frac.Equal(remainders[j].frac) {
			return remainders[i].frac.GreaterThan(remainders[j].frac)
		}
		return allocations[remainders[i].index].ShareholderID < allocations[remainders[j].index].ShareholderID
	})

	residual := total.Sub(allocated)
	one := decimal.NewFromInt(1)
	for _, r := range remainders {
		if residual.LessThanOrEqual(decimal.Zero) {
			break
		}
		grant := one
		if residual.LessThan(one) {
			grant = residual
		}
		allocations[r.index].Amount = allocations[r.index].Amount.Add(grant)
		residual = residual.Sub(grant)
	}

	return allocations, nil
}

// OwnershipPercentages derives each holder's rounded percentage of the total
// share count. An empty table yields all-zero percentages.
func OwnershipPercentages(shareholders []domain.Shareholder) []domain.OwnershipShare {
	var totalShares int64
	for _, s := range shareholders {
		totalShares += s.ShareCount
	}
	// Guard against divide-by-zero; percentages are all zero anyway.
	denominator := totalShares
	if denominator == 0 {
		denominator = 1
	}

	hundred := decimal.NewFromInt(100)
	denomDec := decimal.NewFromInt(denominator)
	shares := make([]domain.OwnershipShare, len(shareholders))
	for i, s := range shareholders {
		pct := decimal.NewFromInt(s.ShareCount).Mul(hundred).Div(denomDec).Round(0)
		if totalShares == 0 {
			pct = decimal.Zero
		}
		shares[i] = domain.OwnershipShare{
			ShareholderID: s.ShareholderID,
			Name:          s.Name,
			ShareCount:    s.ShareCount,
			Percentage:    pct,
		}
	}
	return shares
}

// CapTableStats summarizes share and vote totals across the registry.
func CapTableStats(shareholders []domain.Shareholder) domain.CapTableStats {
	stats := domain.CapTableStats{ShareholderCount: len(shareholders)}
	for _, s := range shareholders {
		stats.TotalShares += s.ShareCount
		stats.TotalVotes += s.Votes()
	}
	return stats
}
