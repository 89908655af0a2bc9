package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/core/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockDocumentService is a mock type for the DocumentSvcFacade interface
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) AddDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) ListDocuments(ctx context.Context, docType *domain.DocumentType) ([]domain.Document, error) {
	args := m.Called(ctx, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentService) FinalizeDocument(ctx context.Context, documentID string, userID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

var _ portssvc.DocumentSvcFacade = (*MockDocumentService)(nil)

// MockRoadmapCreator is a mock type for the RoadmapCreator interface
type MockRoadmapCreator struct {
	mock.Mock
}

func (m *MockRoadmapCreator) CreateRoadmap(ctx context.Context, title string, description string, steps []domain.RoadmapStep) (*domain.Roadmap, error) {
	args := m.Called(ctx, title, description, steps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Roadmap), args.Error(1)
}

var _ portssvc.RoadmapCreator = (*MockRoadmapCreator)(nil)

// --- Test Suite Setup ---

type WizardServiceTestSuite struct {
	suite.Suite
	mockDocuments *MockDocumentService
	mockLedger    *MockLedgerService
	mockRoadmaps  *MockRoadmapCreator
	service       portssvc.WizardSvcFacade
}

func (suite *WizardServiceTestSuite) SetupTest() {
	suite.mockDocuments = new(MockDocumentService)
	suite.mockLedger = new(MockLedgerService)
	suite.mockRoadmaps = new(MockRoadmapCreator)
	suite.service = services.NewWizardService(suite.mockDocuments, suite.mockLedger, suite.mockRoadmaps)
}

// startAtPreview walks a fresh session to the preview step.
func (suite *WizardServiceTestSuite) startAtPreview(actionType domain.CorporateActionType, data domain.CorporateActionData) string {
	ctx := context.Background()
	session, err := suite.service.StartSession(ctx, uuid.NewString())
	suite.Require().NoError(err)

	_, err = suite.service.SelectAction(ctx, session.SessionID, actionType)
	suite.Require().NoError(err)

	_, err = suite.service.Configure(ctx, session.SessionID, data)
	suite.Require().NoError(err)
	return session.SessionID
}

// --- Test Cases ---

func (suite *WizardServiceTestSuite) TestStartSession_BeginsAtSelect() {
	session, err := suite.service.StartSession(context.Background(), uuid.NewString())
	suite.Require().NoError(err)
	suite.Equal(domain.StepSelect, session.Step)
	suite.NotEmpty(session.SessionID)
}

func (suite *WizardServiceTestSuite) TestSelectAction_UnknownType() {
	ctx := context.Background()
	session, err := suite.service.StartSession(ctx, uuid.NewString())
	suite.Require().NoError(err)

	_, err = suite.service.SelectAction(ctx, session.SessionID, "MERGER")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *WizardServiceTestSuite) TestConfigure_DividendRequiresTotal() {
	ctx := context.Background()
	session, err := suite.service.StartSession(ctx, uuid.NewString())
	suite.Require().NoError(err)
	_, err = suite.service.SelectAction(ctx, session.SessionID, domain.ActionDividend)
	suite.Require().NoError(err)

	_, err = suite.service.Configure(ctx, session.SessionID, domain.CorporateActionData{})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *WizardServiceTestSuite) TestBack_KeepsConfiguredData() {
	ctx := context.Background()
	total := d("100000")
	sessionID := suite.startAtPreview(domain.ActionDividend, domain.CorporateActionData{DividendTotal: &total})

	session, err := suite.service.Back(ctx, sessionID)
	suite.Require().NoError(err)
	suite.Equal(domain.StepConfigure, session.Step)
	suite.Require().NotNil(session.Data.DividendTotal)
	suite.True(total.Equal(*session.Data.DividendTotal))

	session, err = suite.service.Back(ctx, sessionID)
	suite.Require().NoError(err)
	suite.Equal(domain.StepSelect, session.Step)

	_, err = suite.service.Back(ctx, sessionID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidOperation)
}

func (suite *WizardServiceTestSuite) TestComplete_BoardChangeCreatesBoardMinutes() {
	ctx := context.Background()
	userID := uuid.NewString()
	sessionID := suite.startAtPreview(domain.ActionBoardChange, domain.CorporateActionData{
		BoardMembers: []domain.BoardMember{{Name: "Anna Svensson", Role: "Ordförande"}},
	})

	suite.mockDocuments.On("AddDocument", ctx, mock.MatchedBy(func(req dto.CreateDocumentRequest) bool {
		return req.Type == domain.DocBoardMeetingMinutes &&
			req.Source == "wizard" &&
			strings.HasPrefix(req.Title, "Styrelseändring - ")
	}), userID).Return(&domain.Document{DocumentID: uuid.NewString(), Type: domain.DocBoardMeetingMinutes}, nil).Once()

	result, err := suite.service.Complete(ctx, sessionID, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result.Document)
	suite.Nil(result.Roadmap)
	suite.Empty(result.VerificationID)
	suite.Equal(domain.StepComplete, result.Session.Step)
	suite.mockDocuments.AssertExpectations(suite.T())
}

func (suite *WizardServiceTestSuite) TestComplete_DocumentUsesConfiguredChangeDate() {
	ctx := context.Background()
	userID := uuid.NewString()
	changeDate := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	sessionID := suite.startAtPreview(domain.ActionBoardChange, domain.CorporateActionData{
		BoardMembers: []domain.BoardMember{{Name: "Anna Svensson", Role: "Ordförande"}},
		ChangeDate:   &changeDate,
	})

	suite.mockDocuments.On("AddDocument", ctx, mock.MatchedBy(func(req dto.CreateDocumentRequest) bool {
		return req.Date.Equal(changeDate) && req.Title == "Styrelseändring - 2024-01-15"
	}), userID).Return(&domain.Document{DocumentID: uuid.NewString(), Type: domain.DocBoardMeetingMinutes}, nil).Once()

	_, err := suite.service.Complete(ctx, sessionID, userID)

	suite.Require().NoError(err)
	suite.mockDocuments.AssertExpectations(suite.T())
}

func (suite *WizardServiceTestSuite) TestComplete_DocumentFallsBackToEffectiveDate() {
	ctx := context.Background()
	userID := uuid.NewString()
	effectiveDate := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	sessionID := suite.startAtPreview(domain.ActionCapitalChange, domain.CorporateActionData{
		Description:   "Nyemission 500 aktier",
		EffectiveDate: &effectiveDate,
	})

	suite.mockDocuments.On("AddDocument", ctx, mock.MatchedBy(func(req dto.CreateDocumentRequest) bool {
		return req.Date.Equal(effectiveDate)
	}), userID).Return(&domain.Document{DocumentID: uuid.NewString(), Type: domain.DocBoardMeetingMinutes}, nil).Once()

	_, err := suite.service.Complete(ctx, sessionID, userID)

	suite.Require().NoError(err)
	suite.mockDocuments.AssertExpectations(suite.T())
}

func (suite *WizardServiceTestSuite) TestComplete_DocumentDefaultsToToday() {
	ctx := context.Background()
	userID := uuid.NewString()
	sessionID := suite.startAtPreview(domain.ActionBoardChange, domain.CorporateActionData{
		BoardMembers: []domain.BoardMember{{Name: "Anna Svensson", Role: "Ordförande"}},
	})

	before := time.Now().UTC()
	suite.mockDocuments.On("AddDocument", ctx, mock.MatchedBy(func(req dto.CreateDocumentRequest) bool {
		return !req.Date.Before(before) && !req.Date.After(time.Now().UTC())
	}), userID).Return(&domain.Document{DocumentID: uuid.NewString(), Type: domain.DocBoardMeetingMinutes}, nil).Once()

	_, err := suite.service.Complete(ctx, sessionID, userID)

	suite.Require().NoError(err)
	suite.mockDocuments.AssertExpectations(suite.T())
}

func (suite *WizardServiceTestSuite) TestComplete_DividendBooksVerification() {
	ctx := context.Background()
	userID := uuid.NewString()
	total := d("100000")
	sessionID := suite.startAtPreview(domain.ActionDividend, domain.CorporateActionData{DividendTotal: &total})

	verificationID := uuid.NewString()
	suite.mockLedger.On("CreateVerification", ctx, mock.MatchedBy(func(req dto.CreateVerificationRequest) bool {
		if req.SourceType != domain.SourceDividend || len(req.Rows) != 2 {
			return false
		}
		return req.Rows[0].AccountCode == "2091" && total.Equal(req.Rows[0].Debit) &&
			req.Rows[1].AccountCode == "2898" && total.Equal(req.Rows[1].Credit)
	}), userID).Return(&domain.Verification{VerificationID: verificationID}, nil).Once()
	suite.mockDocuments.On("AddDocument", ctx, mock.MatchedBy(func(req dto.CreateDocumentRequest) bool {
		return req.Type == domain.DocGeneralMeetingMinutes
	}), userID).Return(&domain.Document{DocumentID: uuid.NewString(), Type: domain.DocGeneralMeetingMinutes}, nil).Once()

	result, err := suite.service.Complete(ctx, sessionID, userID)

	suite.Require().NoError(err)
	suite.Equal(verificationID, result.VerificationID)
	suite.Require().NotNil(result.Document)
	suite.mockLedger.AssertExpectations(suite.T())
	suite.mockDocuments.AssertExpectations(suite.T())
}

func (suite *WizardServiceTestSuite) TestComplete_RoadmapUsesFixedStepTemplate() {
	ctx := context.Background()
	userID := uuid.NewString()
	sessionID := suite.startAtPreview(domain.ActionRoadmap, domain.CorporateActionData{
		Title:       "Expansion till Norge",
		Description: "Etablera filial",
	})

	suite.mockRoadmaps.On("CreateRoadmap", ctx, "Expansion till Norge", "Etablera filial",
		mock.MatchedBy(func(steps []domain.RoadmapStep) bool {
			return len(steps) == 3 && steps[0].Title == "Planering"
		})).Return(&domain.Roadmap{RoadmapID: uuid.NewString(), Title: "Expansion till Norge"}, nil).Once()

	result, err := suite.service.Complete(ctx, sessionID, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result.Roadmap)
	suite.Nil(result.Document)
	suite.mockRoadmaps.AssertExpectations(suite.T())
	suite.mockDocuments.AssertNotCalled(suite.T(), "AddDocument")
}

func (suite *WizardServiceTestSuite) TestComplete_FailureLeavesSessionRetryable() {
	ctx := context.Background()
	userID := uuid.NewString()
	sessionID := suite.startAtPreview(domain.ActionRoadmap, domain.CorporateActionData{Title: "Plan"})

	suite.mockRoadmaps.On("CreateRoadmap", ctx, "Plan", "", mock.Anything).
		Return(nil, apperrors.ErrExternalService).Once()

	_, err := suite.service.Complete(ctx, sessionID, userID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrExternalService)

	// The session stays on preview so completion can be retried.
	session, err := suite.service.GetSession(ctx, sessionID)
	suite.Require().NoError(err)
	suite.Equal(domain.StepPreview, session.Step)

	suite.mockRoadmaps.On("CreateRoadmap", ctx, "Plan", "", mock.Anything).
		Return(&domain.Roadmap{RoadmapID: uuid.NewString()}, nil).Once()

	result, err := suite.service.Complete(ctx, sessionID, userID)
	suite.Require().NoError(err)
	suite.NotNil(result.Roadmap)
	suite.mockRoadmaps.AssertExpectations(suite.T())
}

func (suite *WizardServiceTestSuite) TestComplete_ConcurrentSubmissionsRunOnce() {
	ctx := context.Background()
	userID := uuid.NewString()
	sessionID := suite.startAtPreview(domain.ActionRoadmap, domain.CorporateActionData{Title: "Plan"})

	started := make(chan struct{})
	release := make(chan struct{})
	suite.mockRoadmaps.On("CreateRoadmap", ctx, "Plan", "", mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&domain.Roadmap{RoadmapID: uuid.NewString()}, nil).Once()

	firstDone := make(chan error, 1)
	go func() {
		_, err := suite.service.Complete(ctx, sessionID, userID)
		firstDone <- err
	}()

	// Wait until the first Complete holds the in-flight guard, then race a
	// second submission against it.
	<-started
	_, err := suite.service.Complete(ctx, sessionID, userID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidOperation)

	close(release)
	select {
	case err := <-firstDone:
		suite.NoError(err)
	case <-time.After(2 * time.Second):
		suite.FailNow("first completion did not finish")
	}

	suite.mockRoadmaps.AssertNumberOfCalls(suite.T(), "CreateRoadmap", 1)
}

func (suite *WizardServiceTestSuite) TestCancel_DiscardsSession() {
	ctx := context.Background()
	session, err := suite.service.StartSession(ctx, uuid.NewString())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Cancel(ctx, session.SessionID))

	_, err = suite.service.GetSession(ctx, session.SessionID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func TestWizardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WizardServiceTestSuite))
}
