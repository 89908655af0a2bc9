package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/middleware"
)

// notesDebounceInterval is how long after the last keystroke-driven save the
// notes actually hit storage.
const notesDebounceInterval = 500 * time.Millisecond

// pendingNotes is one debounced notes write keyed by (year, month).
type pendingNotes struct {
	timer     *time.Timer
	notes     string
	updatedBy string
}

type periodKey struct {
	year  int
	month int
}

// closingService tracks the monthly reconciliation checklist. Manual checks
// are stored; the allCategorized check is derived from the ledger on every
// read and never persisted.
type closingService struct {
	closingRepo   portsrepo.ClosingRepository
	ledgerSvc     portssvc.LedgerSvcFacade
	reviewFetcher portssvc.MonthlyReviewFetcher

	mu      sync.Mutex
	pending map[periodKey]*pendingNotes
	logger  *slog.Logger
}

// NewClosingService creates a new ClosingService.
func NewClosingService(closingRepo portsrepo.ClosingRepository, ledgerSvc portssvc.LedgerSvcFacade, reviewFetcher portssvc.MonthlyReviewFetcher, logger *slog.Logger) portssvc.ClosingSvcFacade {
	if logger == nil {
		logger = slog.Default()
	}
	return &closingService{
		closingRepo:   closingRepo,
		ledgerSvc:     ledgerSvc,
		reviewFetcher: reviewFetcher,
		pending:       make(map[periodKey]*pendingNotes),
		logger:        logger,
	}
}

var _ portssvc.ClosingSvcFacade = (*closingService)(nil)

func validatePeriod(year int, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be 1-12, got %d", apperrors.ErrValidation, month)
	}
	return nil
}

// isFutureMonth reports whether (year, month) is after the current calendar
// month. Future periods are never materialized.
func isFutureMonth(year int, month int, now time.Time) bool {
	if year > now.Year() {
		return true
	}
	return year == now.Year() && time.Month(month) > now.Month()
}

func emptyChecks() []domain.ClosingCheck {
	return []domain.ClosingCheck{
		{CheckID: domain.CheckBankReconciled, Type: domain.CheckManual},
		{CheckID: domain.CheckVATReported, Type: domain.CheckManual},
		{CheckID: domain.CheckDeclarationsDone, Type: domain.CheckManual},
		{CheckID: domain.CheckAllCategorized, Type: domain.CheckAuto},
	}
}

// GetPeriod returns the merged checklist for the month. A month with no stored
// state yet comes back with all manual checks false; the allCategorized check
// is recomputed from the ledger. Future months short-circuit without touching
// storage or the ledger.
func (s *closingService) GetPeriod(ctx context.Context, year int, month int) (*domain.ClosingPeriod, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	if isFutureMonth(year, month, time.Now().UTC()) {
		return &domain.ClosingPeriod{
			Year:    year,
			Month:   month,
			Checks:  emptyChecks(),
			Started: false,
		}, nil
	}

	period, err := s.loadPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if err := s.mergeAutoChecks(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

// loadPeriod fetches stored state or synthesizes a fresh started period.
func (s *closingService) loadPeriod(ctx context.Context, year int, month int) (*domain.ClosingPeriod, error) {
	period, err := s.closingRepo.FindPeriod(ctx, year, month)
	switch {
	case err == nil:
		period.Started = true
		return period, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return &domain.ClosingPeriod{
			Year:    year,
			Month:   month,
			Checks:  emptyChecks(),
			Started: true,
		}, nil
	default:
		return nil, fmt.Errorf("failed to load closing period %d-%02d: %w", year, month, err)
	}
}

// mergeAutoChecks recomputes the derived checks in place.
func (s *closingService) mergeAutoChecks(ctx context.Context, period *domain.ClosingPeriod) error {
	uncategorized, err := s.ledgerSvc.CountUncategorizedRows(ctx, period.Year, period.Month)
	if err != nil {
		return fmt.Errorf("failed to derive categorization check: %w", err)
	}
	for i := range period.Checks {
		if period.Checks[i].CheckID == domain.CheckAllCategorized {
			period.Checks[i].Type = domain.CheckAuto
			period.Checks[i].Done = uncategorized == 0
		}
	}
	return nil
}

// ToggleCheck flips a manual check and persists the period. Auto checks and
// future months are rejected.
func (s *closingService) ToggleCheck(ctx context.Context, year int, month int, checkID string, userID string) (*domain.ClosingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if isFutureMonth(year, month, now) {
		return nil, fmt.Errorf("%w: closing period %d-%02d has not started", apperrors.ErrInvalidOperation, year, month)
	}

	period, err := s.loadPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range period.Checks {
		if period.Checks[i].CheckID != checkID {
			continue
		}
		if period.Checks[i].Type == domain.CheckAuto {
			return nil, fmt.Errorf("%w: check %s is derived from the ledger and cannot be toggled", apperrors.ErrInvalidOperation, checkID)
		}
		period.Checks[i].Done = !period.Checks[i].Done
		found = true
	}
	if !found {
		return nil, fmt.Errorf("%w: unknown check %s", apperrors.ErrValidation, checkID)
	}

	if period.CreatedAt.IsZero() {
		period.CreatedAt = now
		period.CreatedBy = userID
	}
	period.LastUpdatedAt = now
	period.LastUpdatedBy = userID

	if err := s.closingRepo.UpsertPeriod(ctx, *period); err != nil {
		logger.Error("Failed to persist closing period", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save closing period %d-%02d: %w", year, month, err)
	}

	if err := s.mergeAutoChecks(ctx, period); err != nil {
		return nil, err
	}
	logger.Info("Closing check toggled",
		slog.Int("year", year), slog.Int("month", month), slog.String("check_id", checkID))
	return period, nil
}

// SaveNotes schedules a debounced write of the period notes. Rapid successive
// calls for the same month collapse into one write carrying the latest text.
func (s *closingService) SaveNotes(ctx context.Context, year int, month int, notes string, userID string) error {
	if err := validatePeriod(year, month); err != nil {
		return err
	}
	if isFutureMonth(year, month, time.Now().UTC()) {
		return fmt.Errorf("%w: closing period %d-%02d has not started", apperrors.ErrInvalidOperation, year, month)
	}

	key := periodKey{year: year, month: month}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[key]; ok {
		p.notes = notes
		p.updatedBy = userID
		p.timer.Reset(notesDebounceInterval)
		return nil
	}

	p := &pendingNotes{notes: notes, updatedBy: userID}
	p.timer = time.AfterFunc(notesDebounceInterval, func() {
		s.flushKey(key)
	})
	s.pending[key] = p
	return nil
}

// flushKey persists one pending write and removes it from the map.
func (s *closingService) flushKey(key periodKey) {
	s.mu.Lock()
	p, ok := s.pending[key]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	notes, updatedBy := p.notes, p.updatedBy
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writeNotes(ctx, key, notes, updatedBy); err != nil {
		s.logger.Error("Failed to persist debounced closing notes",
			slog.Int("year", key.year), slog.Int("month", key.month), slog.String("error", err.Error()))
	}
}

// writeNotes updates notes on an existing period, creating the period first
// when this month has no stored state yet.
func (s *closingService) writeNotes(ctx context.Context, key periodKey, notes string, updatedBy string) error {
	now := time.Now().UTC()
	err := s.closingRepo.UpdateNotes(ctx, key.year, key.month, notes, updatedBy, now)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	period := domain.ClosingPeriod{
		Year:   key.year,
		Month:  key.month,
		Checks: emptyChecks(),
		Notes:  notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     updatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: updatedBy,
		},
	}
	return s.closingRepo.UpsertPeriod(ctx, period)
}

// Flush persists every pending note write immediately. Called on shutdown so
// in-flight debounce windows don't lose text.
func (s *closingService) Flush() {
	s.mu.Lock()
	keys := make([]periodKey, 0, len(s.pending))
	for key, p := range s.pending {
		p.timer.Stop()
		keys = append(keys, key)
	}
	s.mu.Unlock()

	for _, key := range keys {
		s.flushKey(key)
	}
}

// GetMonthlyReview proxies the external monthly review API, future-guarded
// like GetPeriod.
func (s *closingService) GetMonthlyReview(ctx context.Context, year int, month int) (*domain.MonthlyReview, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	// Future months have no review yet; answer with an empty one and skip
	// the external call, mirroring GetPeriod's not-started short circuit.
	if isFutureMonth(year, month, time.Now().UTC()) {
		return &domain.MonthlyReview{}, nil
	}

	review, err := s.reviewFetcher.FetchMonthlyReview(ctx, year, month)
	if err != nil {
		logger.Warn("Monthly review fetch failed",
			slog.Int("year", year), slog.Int("month", month), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch monthly review: %w", err)
	}
	return review, nil
}
