package services_test

import (
	"context"
	"fmt"
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

// MockShareholderRepository is a mock type for the ShareholderRepository interface
type MockShareholderRepository struct {
	mock.Mock
}

func (m *MockShareholderRepository) SaveShareholder(ctx context.Context, shareholder domain.Shareholder) error {
	args := m.Called(ctx, shareholder)
	return args.Error(0)
}

func (m *MockShareholderRepository) FindShareholderByID(ctx context.Context, shareholderID string) (*domain.Shareholder, error) {
	args := m.Called(ctx, shareholderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shareholder), args.Error(1)
}

func (m *MockShareholderRepository) FindShareholderByName(ctx context.Context, name string) (*domain.Shareholder, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shareholder), args.Error(1)
}

func (m *MockShareholderRepository) ListShareholders(ctx context.Context) ([]domain.Shareholder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shareholder), args.Error(1)
}

func (m *MockShareholderRepository) UpdateShareholder(ctx context.Context, shareholder domain.Shareholder) error {
	args := m.Called(ctx, shareholder)
	return args.Error(0)
}

func (m *MockShareholderRepository) AdjustShareCount(ctx context.Context, shareholderID string, delta int64, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, shareholderID, delta, updatedBy, updatedAt)
	return args.Error(0)
}

// MockLedgerService is a mock type for the LedgerSvcFacade interface
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateVerification(ctx context.Context, req dto.CreateVerificationRequest, creatorUserID string) (*domain.Verification, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verification), args.Error(1)
}

func (m *MockLedgerService) GetVerificationByID(ctx context.Context, verificationID string) (*domain.Verification, error) {
	args := m.Called(ctx, verificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verification), args.Error(1)
}

func (m *MockLedgerService) ListVerifications(ctx context.Context, params dto.ListVerificationsParams) (*dto.ListVerificationsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListVerificationsResponse), args.Error(1)
}

func (m *MockLedgerService) FilterRowsByAccount(ctx context.Context, accountCode string) ([]domain.AccountRowView, error) {
	args := m.Called(ctx, accountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountRowView), args.Error(1)
}

func (m *MockLedgerService) DeriveEmployeeBalances(ctx context.Context, employees []domain.Employee) ([]domain.EmployeeBalance, error) {
	args := m.Called(ctx, employees)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmployeeBalance), args.Error(1)
}

func (m *MockLedgerService) DeriveShareTransactions(ctx context.Context) ([]domain.ShareTransaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShareTransaction), args.Error(1)
}

func (m *MockLedgerService) CountUncategorizedRows(ctx context.Context, year int, month int) (int, error) {
	args := m.Called(ctx, year, month)
	return args.Int(0), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite Setup ---

type ShareholderServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockShareholderRepository
	mockLedger *MockLedgerService
	service    portssvc.ShareholderSvcFacade
}

func (suite *ShareholderServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockShareholderRepository)
	suite.mockLedger = new(MockLedgerService)
	suite.service = services.NewShareholderService(suite.mockRepo, suite.mockLedger)
}

// --- Test Cases ---

func (suite *ShareholderServiceTestSuite) TestAddShareholder_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateShareholderRequest{
		Name:       "Anna Svensson",
		OrgNumber:  "198001012345",
		ShareCount: 800,
		ShareClass: "A",
	}

	suite.mockRepo.On("SaveShareholder", ctx, mock.AnythingOfType("domain.Shareholder")).Return(nil).Once()

	shareholder, err := suite.service.AddShareholder(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(shareholder)
	suite.NotEmpty(shareholder.ShareholderID)
	suite.Equal(domain.ShareClassA, shareholder.ShareClass)
	suite.Equal(int64(800), shareholder.ShareCount)
	suite.Equal(creatorUserID, shareholder.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ShareholderServiceTestSuite) TestAddShareholder_NegativeCount() {
	ctx := context.Background()
	req := dto.CreateShareholderRequest{
		Name:       "Anna Svensson",
		ShareCount: -5,
		ShareClass: "A",
	}

	shareholder, err := suite.service.AddShareholder(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(shareholder)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveShareholder")
}

func (suite *ShareholderServiceTestSuite) TestAddShareholder_UnknownClass() {
	ctx := context.Background()
	req := dto.CreateShareholderRequest{
		Name:       "Anna Svensson",
		ShareCount: 10,
		ShareClass: "C",
	}

	_, err := suite.service.AddShareholder(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ShareholderServiceTestSuite) TestUpdateShareholder_PartialPatch() {
	ctx := context.Background()
	shareholderID := uuid.NewString()
	existing := &domain.Shareholder{
		ShareholderID: shareholderID,
		Name:          "Anna Svensson",
		ShareCount:    800,
		ShareClass:    domain.ShareClassA,
	}
	newName := "Anna Karlsson"

	suite.mockRepo.On("FindShareholderByID", ctx, shareholderID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateShareholder", ctx, mock.MatchedBy(func(s domain.Shareholder) bool {
		return s.Name == newName && s.ShareCount == 800
	})).Return(nil).Once()

	updated, err := suite.service.UpdateShareholder(ctx, shareholderID, dto.UpdateShareholderRequest{Name: &newName}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.Equal(int64(800), updated.ShareCount)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ShareholderServiceTestSuite) TestUpdateShareholder_EmptyPatchSkipsWrite() {
	ctx := context.Background()
	shareholderID := uuid.NewString()
	existing := &domain.Shareholder{ShareholderID: shareholderID, Name: "Anna Svensson"}

	suite.mockRepo.On("FindShareholderByID", ctx, shareholderID).Return(existing, nil).Once()

	updated, err := suite.service.UpdateShareholder(ctx, shareholderID, dto.UpdateShareholderRequest{}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("Anna Svensson", updated.Name)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateShareholder")
}

func (suite *ShareholderServiceTestSuite) TestRegisterEquityIssue_ExistingHolder() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	existing := &domain.Shareholder{
		ShareholderID: uuid.NewString(),
		Name:          "Anna Svensson",
		ShareCount:    800,
		ShareClass:    domain.ShareClassA,
	}
	req := dto.RegisterEquityIssueRequest{
		RecipientName: "Anna Svensson",
		ShareCount:    500,
		TotalAmount:   d("50000"),
		ShareClass:    "A",
		Date:          time.Now().UTC(),
	}

	suite.mockRepo.On("FindShareholderByName", ctx, "Anna Svensson").Return(existing, nil).Once()
	suite.mockRepo.On("AdjustShareCount", ctx, existing.ShareholderID, int64(500), creatorUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockLedger.On("CreateVerification", ctx, mock.MatchedBy(func(r dto.CreateVerificationRequest) bool {
		return r.SourceType == domain.SourceEquityIssue &&
			r.Description == fmt.Sprintf("Nyemission %d aktier till %s", 500, "Anna Svensson") &&
			r.EquityIssue != nil && r.EquityIssue.ShareholderID == existing.ShareholderID
	}), creatorUserID).Return(&domain.Verification{VerificationID: uuid.NewString()}, nil).Once()

	verification, err := suite.service.RegisterEquityIssue(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(verification)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveShareholder")
}

func (suite *ShareholderServiceTestSuite) TestRegisterEquityIssue_NewHolder() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.RegisterEquityIssueRequest{
		RecipientName: "Björn Larsson",
		ShareCount:    200,
		TotalAmount:   d("20000"),
		ShareClass:    "B",
		Date:          time.Now().UTC(),
	}

	suite.mockRepo.On("FindShareholderByName", ctx, "Björn Larsson").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveShareholder", ctx, mock.MatchedBy(func(s domain.Shareholder) bool {
		return s.Name == "Björn Larsson" && s.ShareCount == 200 && s.ShareClass == domain.ShareClassB
	})).Return(nil).Once()
	suite.mockLedger.On("CreateVerification", ctx, mock.AnythingOfType("dto.CreateVerificationRequest"), creatorUserID).
		Return(&domain.Verification{VerificationID: uuid.NewString()}, nil).Once()

	verification, err := suite.service.RegisterEquityIssue(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(verification)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRepo.AssertNotCalled(suite.T(), "AdjustShareCount")
}

func (suite *ShareholderServiceTestSuite) TestRegisterEquityIssue_NegativeAmount() {
	ctx := context.Background()
	req := dto.RegisterEquityIssueRequest{
		RecipientName: "Anna Svensson",
		ShareCount:    500,
		TotalAmount:   d("-1"),
		ShareClass:    "A",
	}

	_, err := suite.service.RegisterEquityIssue(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindShareholderByName")
}

func TestShareholderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ShareholderServiceTestSuite))
}
