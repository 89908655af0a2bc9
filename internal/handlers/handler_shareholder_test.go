package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/handlers"
	"github.com/egetab/compliance_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ShareholderService ---
type MockShareholderService struct {
	mock.Mock
}

func (m *MockShareholderService) AddShareholder(ctx context.Context, req dto.CreateShareholderRequest, creatorUserID string) (*domain.Shareholder, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shareholder), args.Error(1)
}

func (m *MockShareholderService) GetShareholderByID(ctx context.Context, shareholderID string) (*domain.Shareholder, error) {
	args := m.Called(ctx, shareholderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shareholder), args.Error(1)
}

func (m *MockShareholderService) ListShareholders(ctx context.Context) ([]domain.Shareholder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shareholder), args.Error(1)
}

func (m *MockShareholderService) UpdateShareholder(ctx context.Context, shareholderID string, req dto.UpdateShareholderRequest, updaterUserID string) (*domain.Shareholder, error) {
	args := m.Called(ctx, shareholderID, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shareholder), args.Error(1)
}

func (m *MockShareholderService) GetCapTableStats(ctx context.Context) (*domain.CapTableStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapTableStats), args.Error(1)
}

func (m *MockShareholderService) GetOwnershipPercentages(ctx context.Context) ([]domain.OwnershipShare, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OwnershipShare), args.Error(1)
}

func (m *MockShareholderService) RegisterEquityIssue(ctx context.Context, req dto.RegisterEquityIssueRequest, creatorUserID string) (*domain.Verification, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verification), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.ShareholderSvcFacade = (*MockShareholderService)(nil)

// --- Test Suite ---
type ShareholderHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockShareholderService
	jwtSecret   string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *ShareholderHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "compliance-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ShareholderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	// The shareclass binding tag is registered by main at startup; register it
	// here as well so request binding works under test.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("shareclass", func(fl validator.FieldLevel) bool {
			switch domain.ShareClass(fl.Field().String()) {
			case domain.ShareClassA, domain.ShareClassB:
				return true
			}
			return false
		})
	}

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockService = new(MockShareholderService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterShareholderRoutes(v1, suite.mockService)
}

// --- Test Cases ---

func (suite *ShareholderHandlerTestSuite) TestListShareholders_IncludesPercentages() {
	requestingUserID := uuid.NewString()
	shareholders := []domain.Shareholder{
		{ShareholderID: "a", Name: "Anna Svensson", ShareCount: 800, ShareClass: domain.ShareClassA},
		{ShareholderID: "b", Name: "Björn Larsson", ShareCount: 200, ShareClass: domain.ShareClassB},
	}
	ownership := []domain.OwnershipShare{
		{ShareholderID: "a", Percentage: decimal.NewFromInt(80)},
		{ShareholderID: "b", Percentage: decimal.NewFromInt(20)},
	}

	suite.mockService.On("ListShareholders", mock.Anything).Return(shareholders, nil).Once()
	suite.mockService.On("GetOwnershipPercentages", mock.Anything).Return(ownership, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/shareholders", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(requestingUserID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody []dto.ShareholderResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Require().Len(responseBody, 2)
	suite.Equal("Anna Svensson", responseBody[0].Name)
	suite.True(decimal.NewFromInt(80).Equal(responseBody[0].Percentage))
	suite.Equal(int64(8000), responseBody[0].Votes)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ShareholderHandlerTestSuite) TestCreateShareholder_Success() {
	requestingUserID := uuid.NewString()
	created := &domain.Shareholder{
		ShareholderID: uuid.NewString(),
		Name:          "Anna Svensson",
		ShareCount:    800,
		ShareClass:    domain.ShareClassA,
	}

	suite.mockService.On("AddShareholder", mock.Anything, mock.MatchedBy(func(r dto.CreateShareholderRequest) bool {
		return r.Name == "Anna Svensson" && r.ShareCount == 800
	}), requestingUserID).Return(created, nil).Once()

	body, _ := json.Marshal(dto.CreateShareholderRequest{
		Name:       "Anna Svensson",
		ShareCount: 800,
		ShareClass: "A",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/shareholders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(requestingUserID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var responseBody dto.ShareholderResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal(created.ShareholderID, responseBody.ShareholderID)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ShareholderHandlerTestSuite) TestCreateShareholder_Unauthorized() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/shareholders", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "AddShareholder")
}

func (suite *ShareholderHandlerTestSuite) TestGetShareholder_NotFound() {
	requestingUserID := uuid.NewString()
	shareholderID := uuid.NewString()

	suite.mockService.On("GetShareholderByID", mock.Anything, shareholderID).
		Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/shareholders/"+shareholderID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(requestingUserID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ShareholderHandlerTestSuite) TestRegisterEquityIssue_ValidationError() {
	requestingUserID := uuid.NewString()

	suite.mockService.On("RegisterEquityIssue", mock.Anything, mock.AnythingOfType("dto.RegisterEquityIssueRequest"), requestingUserID).
		Return(nil, apperrors.ErrValidation).Once()

	body, _ := json.Marshal(dto.RegisterEquityIssueRequest{
		RecipientName: "Anna Svensson",
		ShareCount:    500,
		TotalAmount:   decimal.NewFromInt(50000),
		ShareClass:    "A",
		Date:          time.Now().UTC(),
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/shareholders/equity-issues", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(requestingUserID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func TestShareholderHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ShareholderHandlerTestSuite))
}
