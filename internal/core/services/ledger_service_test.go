package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/core/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockVerificationRepository is a mock type for the VerificationRepository interface
type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) SaveVerification(ctx context.Context, verification domain.Verification, rows []domain.VerificationRow) error {
	args := m.Called(ctx, verification, rows)
	return args.Error(0)
}

func (m *MockVerificationRepository) FindVerificationByID(ctx context.Context, verificationID string) (*domain.Verification, error) {
	args := m.Called(ctx, verificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verification), args.Error(1)
}

func (m *MockVerificationRepository) ListVerifications(ctx context.Context, limit int, nextToken *string) ([]domain.Verification, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Verification), token, args.Error(2)
}

func (m *MockVerificationRepository) ListAllVerifications(ctx context.Context) ([]domain.Verification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Verification), args.Error(1)
}

func (m *MockVerificationRepository) ListVerificationsByMonth(ctx context.Context, year int, month time.Month) ([]domain.Verification, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Verification), args.Error(1)
}

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo *MockVerificationRepository
	service  portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockVerificationRepository)
	suite.service = services.NewLedgerService(suite.mockRepo)
}

// --- Test Cases ---

func balancedRows() []dto.CreateVerificationRowRequest {
	return []dto.CreateVerificationRowRequest{
		{AccountCode: "1930", Description: "Bank", Debit: d("500")},
		{AccountCode: "2081", Description: "Aktiekapital", Credit: d("500")},
	}
}

func (suite *LedgerServiceTestSuite) TestCreateVerification_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateVerificationRequest{
		Date:        time.Now().UTC(),
		Description: "Nyemission 500 aktier till Anna Svensson",
		Rows:        balancedRows(),
	}

	suite.mockRepo.On("SaveVerification", ctx, mock.AnythingOfType("domain.Verification"), mock.AnythingOfType("[]domain.VerificationRow")).Return(nil).Once()

	verification, err := suite.service.CreateVerification(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(verification)
	suite.NotEmpty(verification.VerificationID)
	suite.Equal(domain.SourceManual, verification.SourceType)
	suite.Equal(creatorUserID, verification.CreatedBy)
	suite.Len(verification.Rows, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateVerification_Unbalanced() {
	ctx := context.Background()
	req := dto.CreateVerificationRequest{
		Date:        time.Now().UTC(),
		Description: "Obalanserad post",
		Rows: []dto.CreateVerificationRowRequest{
			{AccountCode: "1930", Debit: d("500")},
			{AccountCode: "2081", Credit: d("400")},
		},
	}

	verification, err := suite.service.CreateVerification(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(verification)
	suite.ErrorIs(err, services.ErrVerificationUnbalanced)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveVerification")
}

func (suite *LedgerServiceTestSuite) TestCreateVerification_TooFewRows() {
	ctx := context.Background()
	req := dto.CreateVerificationRequest{
		Date:        time.Now().UTC(),
		Description: "En rad",
		Rows: []dto.CreateVerificationRowRequest{
			{AccountCode: "1930", Debit: d("500")},
		},
	}

	_, err := suite.service.CreateVerification(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrVerificationMinRows)
}

func (suite *LedgerServiceTestSuite) TestCreateVerification_SingleAccount() {
	ctx := context.Background()
	req := dto.CreateVerificationRequest{
		Date:        time.Now().UTC(),
		Description: "Samma konto",
		Rows: []dto.CreateVerificationRowRequest{
			{AccountCode: "1930", Debit: d("500")},
			{AccountCode: "1930", Credit: d("500")},
		},
	}

	_, err := suite.service.CreateVerification(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrVerificationMinAccounts)
}

func (suite *LedgerServiceTestSuite) TestCreateVerification_MissingDescription() {
	ctx := context.Background()
	req := dto.CreateVerificationRequest{
		Date: time.Now().UTC(),
		Rows: balancedRows(),
	}

	_, err := suite.service.CreateVerification(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestCreateVerification_NegativeRowAmount() {
	ctx := context.Background()
	req := dto.CreateVerificationRequest{
		Date:        time.Now().UTC(),
		Description: "Negativ rad",
		Rows: []dto.CreateVerificationRowRequest{
			{AccountCode: "1930", Debit: d("-500")},
			{AccountCode: "2081", Credit: d("-500")},
		},
	}

	_, err := suite.service.CreateVerification(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestDeriveEmployeeBalances_NameMatching() {
	ctx := context.Background()
	entries := []domain.Verification{
		{
			VerificationID: "v1",
			Description:    "Utlägg Anna Svensson",
			Rows: []domain.VerificationRow{
				{AccountCode: "2820", Credit: d("500")},
				{AccountCode: "6212", Debit: d("500")},
			},
		},
		{
			VerificationID: "v2",
			Description:    "Milersättning",
			Rows: []domain.VerificationRow{
				{AccountCode: "7330", Description: "Anna Svensson tjänsteresa", Debit: d("250")},
				{AccountCode: "2820", Description: "Anna Svensson tjänsteresa", Credit: d("250")},
			},
		},
	}
	suite.mockRepo.On("ListAllVerifications", ctx).Return(entries, nil).Once()

	employees := []domain.Employee{
		{EmployeeID: "e1", Name: "Anna Svensson"},
		{EmployeeID: "e2", Name: "Björn Larsson"},
	}

	balances, err := suite.service.DeriveEmployeeBalances(ctx, employees)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 2)
	suite.True(d("750").Equal(balances[0].Balance), "anna balance: %s", balances[0].Balance)
	suite.True(d("250").Equal(balances[0].MileageTotal), "anna mileage: %s", balances[0].MileageTotal)
	suite.True(balances[1].Balance.IsZero())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeriveShareTransactions_LegacyTextParsing() {
	ctx := context.Background()
	entries := []domain.Verification{
		{
			VerificationID: "v1",
			Description:    "Nyemission 500 aktier till Anna Svensson",
			SourceType:     domain.SourceManual,
			Rows: []domain.VerificationRow{
				{AccountCode: "1930", Debit: d("50000")},
				{AccountCode: "2081", Credit: d("50000")},
			},
		},
		{
			VerificationID: "v2",
			Description:    "Hyra januari",
			SourceType:     domain.SourceManual,
		},
	}
	suite.mockRepo.On("ListAllVerifications", ctx).Return(entries, nil).Once()

	transactions, err := suite.service.DeriveShareTransactions(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(transactions, 1)
	suite.Equal(int64(500), transactions[0].ShareCount)
	suite.Equal("Anna Svensson", transactions[0].RecipientName)
	suite.True(d("50000").Equal(transactions[0].TotalAmount))
	suite.True(d("100").Equal(transactions[0].PricePerShare))
}

func (suite *LedgerServiceTestSuite) TestDeriveShareTransactions_TypedMetadataPreferred() {
	ctx := context.Background()
	entries := []domain.Verification{
		{
			VerificationID: "v1",
			Description:    "Riktad emission",
			SourceType:     domain.SourceEquityIssue,
			EquityIssue: &domain.EquityIssueMetadata{
				ShareCount:    1000,
				RecipientName: "Björn Larsson",
				TotalAmount:   d("250000"),
			},
		},
	}
	suite.mockRepo.On("ListAllVerifications", ctx).Return(entries, nil).Once()

	transactions, err := suite.service.DeriveShareTransactions(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(transactions, 1)
	suite.Equal(int64(1000), transactions[0].ShareCount)
	suite.Equal("Björn Larsson", transactions[0].RecipientName)
	suite.True(d("250").Equal(transactions[0].PricePerShare))
}

func (suite *LedgerServiceTestSuite) TestCountUncategorizedRows() {
	ctx := context.Background()
	entries := []domain.Verification{
		{
			VerificationID: "v1",
			Rows: []domain.VerificationRow{
				{AccountCode: "2999", Debit: d("100")},
				{AccountCode: "1930", Credit: d("100")},
			},
		},
	}
	suite.mockRepo.On("ListVerificationsByMonth", ctx, 2025, time.March).Return(entries, nil).Once()

	count, err := suite.service.CountUncategorizedRows(ctx, 2025, 3)

	suite.Require().NoError(err)
	suite.Equal(1, count)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
