package services_test

import (
	"testing"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	"github.com/egetab/compliance_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSchablonBelopp(t *testing.T) {
	// 2.75 x 74300 = 204325
	result := services.SchablonBelopp(d("74300"))
	assert.True(t, d("204325").Equal(result), "expected 204325, got %s", result)
}

func TestHuvudregelBelopp(t *testing.T) {
	result := services.HuvudregelBelopp(d("850000"))
	assert.True(t, d("425000").Equal(result), "expected 425000, got %s", result)
}

func TestTotalGransbelopp_AddsSparatUtrymme(t *testing.T) {
	schablon := services.SchablonBelopp(d("74300"))
	total := services.TotalGransbelopp(schablon, d("45250"))
	assert.True(t, d("249575").Equal(total), "expected 249575, got %s", total)
}

func TestEvaluateDividendPlan_WithinLimit(t *testing.T) {
	eval, err := services.EvaluateDividendPlan(d("150000"), d("195250"), d("0.20"), d("0.52"))
	require.NoError(t, err)

	assert.True(t, eval.IsWithinLimit)
	assert.True(t, d("30000").Equal(eval.TaxAmount), "tax: %s", eval.TaxAmount)
	assert.True(t, eval.ExcessAmount.IsZero(), "excess: %s", eval.ExcessAmount)
	assert.True(t, eval.ExcessTax.IsZero(), "excess tax: %s", eval.ExcessTax)
	assert.True(t, d("120000").Equal(eval.NetAmount), "net: %s", eval.NetAmount)
}

func TestEvaluateDividendPlan_AboveLimit(t *testing.T) {
	eval, err := services.EvaluateDividendPlan(d("250000"), d("195250"), d("0.20"), d("0.52"))
	require.NoError(t, err)

	assert.False(t, eval.IsWithinLimit)
	assert.True(t, d("54750").Equal(eval.ExcessAmount), "excess: %s", eval.ExcessAmount)
	assert.True(t, d("28470").Equal(eval.ExcessTax), "excess tax: %s", eval.ExcessTax)
	assert.True(t, d("50000").Equal(eval.TaxAmount), "tax: %s", eval.TaxAmount)
	assert.True(t, d("171530").Equal(eval.NetAmount), "net: %s", eval.NetAmount)
}

func TestEvaluateDividendPlan_ZeroAmountIsValid(t *testing.T) {
	eval, err := services.EvaluateDividendPlan(decimal.Zero, d("195250"), d("0.20"), d("0.52"))
	require.NoError(t, err)
	assert.True(t, eval.IsWithinLimit)
	assert.True(t, eval.NetAmount.IsZero())
}

func TestEvaluateDividendPlan_NegativeAmountRejected(t *testing.T) {
	_, err := services.EvaluateDividendPlan(d("-1"), d("195250"), d("0.20"), d("0.52"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPerShareSplit_Proportional(t *testing.T) {
	shareholders := []domain.Shareholder{
		{ShareholderID: "a", ShareCount: 800},
		{ShareholderID: "b", ShareCount: 200},
	}

	allocations, err := services.PerShareSplit(d("100000"), shareholders)
	require.NoError(t, err)
	require.Len(t, allocations, 2)

	assert.True(t, d("80000").Equal(allocations[0].Amount), "a: %s", allocations[0].Amount)
	assert.True(t, d("20000").Equal(allocations[1].Amount), "b: %s", allocations[1].Amount)
}

func TestPerShareSplit_RemainderSumsToTotal(t *testing.T) {
	// 100 over three equal holders cannot divide evenly; the residual krona
	// goes to the lowest shareholder ID among equal remainders.
	shareholders := []domain.Shareholder{
		{ShareholderID: "a", ShareCount: 1},
		{ShareholderID: "b", ShareCount: 1},
		{ShareholderID: "c", ShareCount: 1},
	}

	allocations, err := services.PerShareSplit(d("100"), shareholders)
	require.NoError(t, err)
	require.Len(t, allocations, 3)

	sum := decimal.Zero
	for _, a := range allocations {
		sum = sum.Add(a.Amount)
	}
	assert.True(t, d("100").Equal(sum), "allocations must sum to the total, got %s", sum)
	assert.True(t, d("34").Equal(allocations[0].Amount), "a: %s", allocations[0].Amount)
	assert.True(t, d("33").Equal(allocations[1].Amount), "b: %s", allocations[1].Amount)
	assert.True(t, d("33").Equal(allocations[2].Amount), "c: %s", allocations[2].Amount)
}

func TestPerShareSplit_ZeroShares(t *testing.T) {
	shareholders := []domain.Shareholder{
		{ShareholderID: "a", ShareCount: 0},
		{ShareholderID: "b", ShareCount: 0},
	}

	allocations, err := services.PerShareSplit(d("1000"), shareholders)
	require.NoError(t, err)
	for _, a := range allocations {
		assert.True(t, a.Amount.IsZero())
	}
}

func TestPerShareSplit_NegativeTotalRejected(t *testing.T) {
	_, err := services.PerShareSplit(d("-500"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestOwnershipPercentages(t *testing.T) {
	shareholders := []domain.Shareholder{
		{ShareholderID: "a", Name: "Anna Svensson", ShareCount: 800},
		{ShareholderID: "b", Name: "Björn Larsson", ShareCount: 200},
	}

	shares := services.OwnershipPercentages(shareholders)
	require.Len(t, shares, 2)
	assert.True(t, d("80").Equal(shares[0].Percentage), "a: %s", shares[0].Percentage)
	assert.True(t, d("20").Equal(shares[1].Percentage), "b: %s", shares[1].Percentage)
}

func TestOwnershipPercentages_EmptyTable(t *testing.T) {
	shares := services.OwnershipPercentages(nil)
	assert.Empty(t, shares)
}

func TestCapTableStats_VoteWeighting(t *testing.T) {
	shareholders := []domain.Shareholder{
		{ShareholderID: "a", ShareCount: 100, ShareClass: domain.ShareClassA},
		{ShareholderID: "b", ShareCount: 100, ShareClass: domain.ShareClassB},
	}

	stats := services.CapTableStats(shareholders)
	assert.Equal(t, int64(200), stats.TotalShares)
	assert.Equal(t, int64(1100), stats.TotalVotes)
	assert.Equal(t, 2, stats.ShareholderCount)
}
