package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/middleware"
)

// k10Service manages K10 declarations, one per shareholder and tax year.
type k10Service struct {
	k10Repo         portsrepo.K10Repository
	shareholderRepo portsrepo.ShareholderRepository
	taxRateSvc      portssvc.TaxRateSvcFacade
}

// NewK10Service creates a new K10Service.
func NewK10Service(k10Repo portsrepo.K10Repository, shareholderRepo portsrepo.ShareholderRepository, taxRateSvc portssvc.TaxRateSvcFacade) portssvc.K10SvcFacade {
	return &k10Service{
		k10Repo:         k10Repo,
		shareholderRepo: shareholderRepo,
		taxRateSvc:      taxRateSvc,
	}
}

var _ portssvc.K10SvcFacade = (*k10Service)(nil)

// k10Deadline is May 2 of the year following the income year, when the K10
// appendix is due with the personal income tax return.
func k10Deadline(year int) time.Time {
	return time.Date(year+1, time.May, 2, 0, 0, 0, 0, time.UTC)
}

// CreateDraft opens a draft declaration. The gränsbelopp is computed from the
// chosen method plus the externally supplied saved allowance. A second draft
// for the same (shareholder, year) is a duplicate.
func (s *k10Service) CreateDraft(ctx context.Context, req dto.CreateK10Request, creatorUserID string) (*domain.K10Declaration, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.shareholderRepo.FindShareholderByID(ctx, req.ShareholderID); err != nil {
		return nil, fmt.Errorf("failed to resolve shareholder %s: %w", req.ShareholderID, err)
	}

	if existing, err := s.k10Repo.FindK10(ctx, req.ShareholderID, req.Year); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: K10 for shareholder %s year %d already exists", apperrors.ErrDuplicate, req.ShareholderID, req.Year)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing K10: %w", err)
	}

	if req.SavedAmount.IsNegative() || req.UsedAmount.IsNegative() || req.PayrollBase.IsNegative() {
		return nil, fmt.Errorf("%w: K10 amounts must not be negative", apperrors.ErrValidation)
	}

	rates, err := s.taxRateSvc.GetTaxRates(ctx, req.Year)
	if err != nil {
		return nil, err
	}

	method := domain.AllowanceMethod(req.Method)
	var yearBelopp decimal.Decimal
	switch method {
	case domain.MethodSchablon:
		yearBelopp = SchablonBelopp(rates.IBB)
	case domain.MethodHuvudregel:
		yearBelopp = HuvudregelBelopp(req.PayrollBase)
	default:
		return nil, fmt.Errorf("%w: unknown allowance method %q", apperrors.ErrValidation, req.Method)
	}
	gransbelopp := TotalGransbelopp(yearBelopp, req.SavedAmount)

	// Using more than the gränsbelopp is allowed (the excess is taxed as
	// service income); the carried-forward allowance just bottoms out at zero.
	savedAmount := gransbelopp.Sub(req.UsedAmount)
	if savedAmount.IsNegative() {
		savedAmount = decimal.Zero
	}

	now := time.Now().UTC()
	declaration := domain.K10Declaration{
		DeclarationID: uuid.NewString(),
		ShareholderID: req.ShareholderID,
		Year:          req.Year,
		Status:        domain.K10Draft,
		Deadline:      k10Deadline(req.Year),
		Method:        method,
		Gransbelopp:   gransbelopp,
		UsedAmount:    req.UsedAmount,
		SavedAmount:   savedAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.k10Repo.SaveK10(ctx, declaration); err != nil {
		logger.Error("Failed to save K10 draft", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save K10 declaration: %w", err)
	}

	logger.Info("K10 draft created",
		slog.String("declaration_id", declaration.DeclarationID),
		slog.String("shareholder_id", req.ShareholderID),
		slog.Int("year", req.Year),
	)
	return &declaration, nil
}

// GetK10 retrieves the declaration for a shareholder and year.
func (s *k10Service) GetK10(ctx context.Context, shareholderID string, year int) (*domain.K10Declaration, error) {
	declaration, err := s.k10Repo.FindK10(ctx, shareholderID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to find K10 for shareholder %s year %d: %w", shareholderID, year, err)
	}
	return declaration, nil
}

// Submit transitions a draft to submitted. Submitting twice is a conflict.
func (s *k10Service) Submit(ctx context.Context, shareholderID string, year int, userID string) (*domain.K10Declaration, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	declaration, err := s.k10Repo.FindK10(ctx, shareholderID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to find K10 for shareholder %s year %d: %w", shareholderID, year, err)
	}

	if declaration.Status == domain.K10Submitted {
		return nil, fmt.Errorf("%w: K10 for shareholder %s year %d is already submitted", apperrors.ErrConflict, shareholderID, year)
	}

	declaration.Status = domain.K10Submitted
	declaration.LastUpdatedAt = time.Now().UTC()
	declaration.LastUpdatedBy = userID

	if err := s.k10Repo.UpdateK10(ctx, *declaration); err != nil {
		logger.Error("Failed to submit K10", slog.String("error", err.Error()), slog.String("declaration_id", declaration.DeclarationID))
		return nil, fmt.Errorf("failed to update K10 declaration: %w", err)
	}

	logger.Info("K10 submitted", slog.String("declaration_id", declaration.DeclarationID))
	return declaration, nil
}
