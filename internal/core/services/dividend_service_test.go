package services_test

import (
	"context"
	"testing"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/core/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/stretchr/testify/suite"
)

type DividendServiceTestSuite struct {
	suite.Suite
	mockTaxRates        *MockTaxRateService
	mockShareholderRepo *MockShareholderRepository
	service             portssvc.DividendSvcFacade
}

func (suite *DividendServiceTestSuite) SetupTest() {
	suite.mockTaxRates = new(MockTaxRateService)
	suite.mockShareholderRepo = new(MockShareholderRepository)
	suite.service = services.NewDividendService(suite.mockTaxRates, suite.mockShareholderRepo)
}

func (suite *DividendServiceTestSuite) TestEvaluateDividend_UsesYearParameters() {
	ctx := context.Background()
	suite.mockTaxRates.On("GetTaxRates", ctx, 2024).Return(taxRates2024(), nil).Once()

	resp, err := suite.service.EvaluateDividend(ctx, dto.EvaluateDividendRequest{
		Year:          2024,
		PlannedAmount: d("150000"),
		SparatUtrymme: d("45250"),
	})

	suite.Require().NoError(err)
	suite.True(d("204325").Equal(resp.SchablonBelopp), "schablon: %s", resp.SchablonBelopp)
	suite.True(d("249575").Equal(resp.TotalGransbelopp), "total: %s", resp.TotalGransbelopp)
	suite.True(resp.Evaluation.IsWithinLimit)
	suite.True(d("30000").Equal(resp.Evaluation.TaxAmount), "tax: %s", resp.Evaluation.TaxAmount)
	suite.mockTaxRates.AssertExpectations(suite.T())
}

func (suite *DividendServiceTestSuite) TestEvaluateDividend_UnknownYear() {
	ctx := context.Background()
	suite.mockTaxRates.On("GetTaxRates", ctx, 1999).Return(nil, apperrors.ErrValidation).Once()

	_, err := suite.service.EvaluateDividend(ctx, dto.EvaluateDividendRequest{Year: 1999, PlannedAmount: d("100")})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DividendServiceTestSuite) TestSplitDividend() {
	ctx := context.Background()
	shareholders := []domain.Shareholder{
		{ShareholderID: "a", ShareCount: 800},
		{ShareholderID: "b", ShareCount: 200},
	}
	suite.mockShareholderRepo.On("ListShareholders", ctx).Return(shareholders, nil).Once()

	allocations, err := suite.service.SplitDividend(ctx, d("100000"))

	suite.Require().NoError(err)
	suite.Require().Len(allocations, 2)
	suite.True(d("80000").Equal(allocations[0].Amount))
	suite.True(d("20000").Equal(allocations[1].Amount))
}

func TestDividendServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DividendServiceTestSuite))
}
