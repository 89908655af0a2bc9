package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/middleware"
)

// wizardEntry wraps a session with its double-submission guard. The inFlight
// flag is held for the duration of one Complete call; concurrent calls on the
// same session see it set and bail out with ErrInvalidOperation.
type wizardEntry struct {
	session  *domain.WizardSession
	inFlight bool
}

// wizardService holds corporate action sessions in process memory. Sessions
// do not survive a restart; the flow is short-lived by design of the product,
// and nothing downstream exists until Complete.
type wizardService struct {
	mu       sync.Mutex
	sessions map[string]*wizardEntry

	documentSvc    portssvc.DocumentSvcFacade
	ledgerSvc      portssvc.LedgerSvcFacade
	roadmapCreator portssvc.RoadmapCreator
}

// NewWizardService creates a new WizardService.
func NewWizardService(documentSvc portssvc.DocumentSvcFacade, ledgerSvc portssvc.LedgerSvcFacade, roadmapCreator portssvc.RoadmapCreator) portssvc.WizardSvcFacade {
	return &wizardService{
		sessions:       make(map[string]*wizardEntry),
		documentSvc:    documentSvc,
		ledgerSvc:      ledgerSvc,
		roadmapCreator: roadmapCreator,
	}
}

var _ portssvc.WizardSvcFacade = (*wizardService)(nil)

// StartSession opens a new session at the action selection step.
func (s *wizardService) StartSession(ctx context.Context, creatorUserID string) (*domain.WizardSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session := &domain.WizardSession{
		SessionID: uuid.NewString(),
		Step:      domain.StepSelect,
		CreatedAt: time.Now().UTC(),
		CreatedBy: creatorUserID,
	}

	s.mu.Lock()
	s.sessions[session.SessionID] = &wizardEntry{session: session}
	s.mu.Unlock()

	logger.Info("Wizard session started", slog.String("session_id", session.SessionID))
	snapshot := *session
	return &snapshot, nil
}

func (s *wizardService) lookup(sessionID string) (*wizardEntry, error) {
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: wizard session %s", apperrors.ErrNotFound, sessionID)
	}
	return entry, nil
}

// GetSession returns a snapshot of the session state.
func (s *wizardService) GetSession(ctx context.Context, sessionID string) (*domain.WizardSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	snapshot := *entry.session
	return &snapshot, nil
}

// SelectAction picks the action type and advances to configuration.
func (s *wizardService) SelectAction(ctx context.Context, sessionID string, actionType domain.CorporateActionType) (*domain.WizardSession, error) {
	switch actionType {
	case domain.ActionBoardChange, domain.ActionDividend, domain.ActionCapitalChange,
		domain.ActionAuthorityFiling, domain.ActionStatuteChange, domain.ActionRoadmap:
	default:
		return nil, fmt.Errorf("%w: unknown corporate action type %q", apperrors.ErrValidation, actionType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if entry.session.Step != domain.StepSelect {
		return nil, fmt.Errorf("%w: cannot select action at step %s", apperrors.ErrInvalidOperation, entry.session.Step)
	}

	entry.session.ActionType = actionType
	entry.session.Step = domain.StepConfigure
	snapshot := *entry.session
	return &snapshot, nil
}

// validateActionData checks that the payload carries what the action type
// needs before the session may advance to preview.
func validateActionData(actionType domain.CorporateActionType, data domain.CorporateActionData) error {
	switch actionType {
	case domain.ActionBoardChange:
		if len(data.BoardMembers) == 0 {
			return fmt.Errorf("%w: board change requires at least one board member", apperrors.ErrValidation)
		}
	case domain.ActionDividend:
		if data.DividendTotal == nil {
			return fmt.Errorf("%w: dividend action requires a total amount", apperrors.ErrValidation)
		}
		if data.DividendTotal.IsNegative() {
			return fmt.Errorf("%w: dividend total must not be negative", apperrors.ErrValidation)
		}
	case domain.ActionCapitalChange, domain.ActionAuthorityFiling, domain.ActionStatuteChange:
		if data.Description == "" {
			return fmt.Errorf("%w: %s requires a description", apperrors.ErrValidation, actionType.Label())
		}
	case domain.ActionRoadmap:
		if data.Title == "" {
			return fmt.Errorf("%w: roadmap action requires a title", apperrors.ErrValidation)
		}
	}
	return nil
}

// Configure stores the payload and advances to preview.
func (s *wizardService) Configure(ctx context.Context, sessionID string, data domain.CorporateActionData) (*domain.WizardSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if entry.session.Step != domain.StepConfigure {
		return nil, fmt.Errorf("%w: cannot configure at step %s", apperrors.ErrInvalidOperation, entry.session.Step)
	}
	if err := validateActionData(entry.session.ActionType, data); err != nil {
		return nil, err
	}

	entry.session.Data = data
	entry.session.Step = domain.StepPreview
	snapshot := *entry.session
	return &snapshot, nil
}

// Back moves one step towards selection. Configured data survives stepping
// back so the user can adjust rather than retype.
func (s *wizardService) Back(ctx context.Context, sessionID string) (*domain.WizardSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	switch entry.session.Step {
	case domain.StepPreview:
		entry.session.Step = domain.StepConfigure
	case domain.StepConfigure:
		entry.session.Step = domain.StepSelect
	default:
		return nil, fmt.Errorf("%w: cannot go back from step %s", apperrors.ErrInvalidOperation, entry.session.Step)
	}

	snapshot := *entry.session
	return &snapshot, nil
}

// Cancel discards the session entirely.
func (s *wizardService) Cancel(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(sessionID); err != nil {
		return err
	}
	delete(s.sessions, sessionID)
	return nil
}

// Complete materializes the configured action. Only one Complete call per
// session can be in flight; a collaborator failure releases the guard and
// leaves the session on preview so completion can be retried.
func (s *wizardService) Complete(ctx context.Context, sessionID string, userID string) (*dto.WizardCompletionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	entry, err := s.lookup(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if entry.session.Step != domain.StepPreview {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot complete at step %s", apperrors.ErrInvalidOperation, entry.session.Step)
	}
	if entry.inFlight {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: completion already in progress for session %s", apperrors.ErrInvalidOperation, sessionID)
	}
	entry.inFlight = true
	work := *entry.session
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		entry.inFlight = false
		s.mu.Unlock()
	}()

	result, err := s.materialize(ctx, &work, userID)
	if err != nil {
		logger.Warn("Wizard completion failed",
			slog.String("session_id", sessionID),
			slog.String("action_type", string(work.ActionType)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.mu.Lock()
	entry.session.Step = domain.StepComplete
	result.Session = dto.ToWizardSessionResponse(entry.session)
	s.mu.Unlock()

	logger.Info("Wizard session completed",
		slog.String("session_id", sessionID),
		slog.String("action_type", string(work.ActionType)),
	)
	return result, nil
}

// defaultRoadmapSteps is the fixed plan template for roadmap actions.
func defaultRoadmapSteps() []domain.RoadmapStep {
	return []domain.RoadmapStep{
		{Title: "Planering", Description: "Definiera mål och omfattning"},
		{Title: "Förberedelser", Description: "Samla underlag och beslut"},
		{Title: "Genomförande", Description: "Utför och registrera ändringen"},
	}
}

func (s *wizardService) materialize(ctx context.Context, session *domain.WizardSession, userID string) (*dto.WizardCompletionResponse, error) {
	now := time.Now().UTC()
	result := &dto.WizardCompletionResponse{}

	switch session.ActionType {
	case domain.ActionRoadmap:
		roadmap, err := s.roadmapCreator.CreateRoadmap(ctx, session.Data.Title, session.Data.Description, defaultRoadmapSteps())
		if err != nil {
			return nil, fmt.Errorf("failed to create roadmap: %w", err)
		}
		result.Roadmap = roadmap
		return result, nil

	case domain.ActionDividend:
		total := *session.Data.DividendTotal
		description := fmt.Sprintf("Beslutad utdelning %s kr", total.String())
		verification, err := s.ledgerSvc.CreateVerification(ctx, dto.CreateVerificationRequest{
			Date:        now,
			Description: description,
			SourceType:  domain.SourceDividend,
			Rows: []dto.CreateVerificationRowRequest{
				{AccountCode: AccountRetainedEarnings, Description: description, Debit: total},
				{AccountCode: AccountDecidedDividend, Description: description, Credit: total},
			},
		}, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to book dividend verification: %w", err)
		}
		result.VerificationID = verification.VerificationID

		document, err := s.createActionDocument(ctx, session, domain.DocGeneralMeetingMinutes, now, userID)
		if err != nil {
			return nil, err
		}
		result.Document = document
		return result, nil

	default:
		document, err := s.createActionDocument(ctx, session, domain.DocBoardMeetingMinutes, now, userID)
		if err != nil {
			return nil, err
		}
		result.Document = document
		return result, nil
	}
}

// actionDocumentDate resolves the date the protocol document is issued for:
// the configured change date if set, else the effective date, else today.
func actionDocumentDate(data domain.CorporateActionData, now time.Time) time.Time {
	if data.ChangeDate != nil {
		return *data.ChangeDate
	}
	if data.EffectiveDate != nil {
		return *data.EffectiveDate
	}
	return now
}

// createActionDocument drafts the protocol document for the action, titled
// "<action label> - <date>" with the payload serialized as the content.
func (s *wizardService) createActionDocument(ctx context.Context, session *domain.WizardSession, docType domain.DocumentType, now time.Time, userID string) (*domain.Document, error) {
	content, err := json.Marshal(session.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize action payload: %w", err)
	}

	docDate := actionDocumentDate(session.Data, now)
	document, err := s.documentSvc.AddDocument(ctx, dto.CreateDocumentRequest{
		Type:    docType,
		Title:   fmt.Sprintf("%s - %s", session.ActionType.Label(), docDate.Format("2006-01-02")),
		Date:    docDate,
		Content: string(content),
		Source:  "wizard",
	}, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create action document: %w", err)
	}
	return document, nil
}
