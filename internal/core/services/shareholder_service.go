package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/middleware"
)

// shareholderService is the authoritative cap table store.
type shareholderService struct {
	shareholderRepo portsrepo.ShareholderRepository
	ledgerSvc       portssvc.LedgerSvcFacade
}

// NewShareholderService creates a new ShareholderService.
func NewShareholderService(shareholderRepo portsrepo.ShareholderRepository, ledgerSvc portssvc.LedgerSvcFacade) portssvc.ShareholderSvcFacade {
	return &shareholderService{
		shareholderRepo: shareholderRepo,
		ledgerSvc:       ledgerSvc,
	}
}

var _ portssvc.ShareholderSvcFacade = (*shareholderService)(nil)

func parseShareClass(raw string) (domain.ShareClass, error) {
	switch domain.ShareClass(raw) {
	case domain.ShareClassA:
		return domain.ShareClassA, nil
	case domain.ShareClassB:
		return domain.ShareClassB, nil
	default:
		return "", fmt.Errorf("%w: share class must be A or B, got %q", apperrors.ErrValidation, raw)
	}
}

// AddShareholder registers a new cap table entry.
func (s *shareholderService) AddShareholder(ctx context.Context, req dto.CreateShareholderRequest, creatorUserID string) (*domain.Shareholder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.ShareCount < 0 {
		return nil, fmt.Errorf("%w: share count must not be negative", apperrors.ErrValidation)
	}
	shareClass, err := parseShareClass(req.ShareClass)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	shareholder := domain.Shareholder{
		ShareholderID: uuid.NewString(),
		Name:          req.Name,
		OrgNumber:     req.OrgNumber,
		ShareCount:    req.ShareCount,
		ShareClass:    shareClass,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.shareholderRepo.SaveShareholder(ctx, shareholder); err != nil {
		logger.Error("Failed to save shareholder", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save shareholder: %w", err)
	}

	logger.Info("Shareholder added", slog.String("shareholder_id", shareholder.ShareholderID))
	return &shareholder, nil
}

// GetShareholderByID retrieves a single shareholder.
func (s *shareholderService) GetShareholderByID(ctx context.Context, shareholderID string) (*domain.Shareholder, error) {
	shareholder, err := s.shareholderRepo.FindShareholderByID(ctx, shareholderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find shareholder %s: %w", shareholderID, err)
	}
	return shareholder, nil
}

// ListShareholders returns the full cap table.
func (s *shareholderService) ListShareholders(ctx context.Context) ([]domain.Shareholder, error) {
	shareholders, err := s.shareholderRepo.ListShareholders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shareholders: %w", err)
	}
	return shareholders, nil
}

// UpdateShareholder merges the patch into the existing record.
func (s *shareholderService) UpdateShareholder(ctx context.Context, shareholderID string, req dto.UpdateShareholderRequest, updaterUserID string) (*domain.Shareholder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	shareholder, err := s.shareholderRepo.FindShareholderByID(ctx, shareholderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Shareholder not found for update", slog.String("shareholder_id", shareholderID))
		}
		return nil, err
	}

	updated := false
	if req.Name != nil {
		shareholder.Name = *req.Name
		updated = true
	}
	if req.OrgNumber != nil {
		shareholder.OrgNumber = *req.OrgNumber
		updated = true
	}
	if req.ShareCount != nil {
		if *req.ShareCount < 0 {
			return nil, fmt.Errorf("%w: share count must not be negative", apperrors.ErrValidation)
		}
		shareholder.ShareCount = *req.ShareCount
		updated = true
	}
	if req.ShareClass != nil {
		shareClass, err := parseShareClass(*req.ShareClass)
		if err != nil {
			return nil, err
		}
		shareholder.ShareClass = shareClass
		updated = true
	}

	if !updated {
		return shareholder, nil
	}

	shareholder.LastUpdatedAt = time.Now().UTC()
	shareholder.LastUpdatedBy = updaterUserID

	if err := s.shareholderRepo.UpdateShareholder(ctx, *shareholder); err != nil {
		logger.Error("Failed to update shareholder", slog.String("error", err.Error()), slog.String("shareholder_id", shareholderID))
		return nil, fmt.Errorf("failed to update shareholder: %w", err)
	}

	logger.Info("Shareholder updated", slog.String("shareholder_id", shareholderID))
	return shareholder, nil
}

// GetCapTableStats summarizes share and vote totals.
func (s *shareholderService) GetCapTableStats(ctx context.Context) (*domain.CapTableStats, error) {
	shareholders, err := s.shareholderRepo.ListShareholders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shareholders: %w", err)
	}
	stats := CapTableStats(shareholders)
	return &stats, nil
}

// GetOwnershipPercentages recomputes ownership from share counts.
func (s *shareholderService) GetOwnershipPercentages(ctx context.Context) ([]domain.OwnershipShare, error) {
	shareholders, err := s.shareholderRepo.ListShareholders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shareholders: %w", err)
	}
	return OwnershipPercentages(shareholders), nil
}

// RegisterEquityIssue books the issuance verification (bank debit against
// share capital credit, with typed metadata) and creates or increments the
// recipient's holding. An existing holder is matched by exact name.
func (s *shareholderService) RegisterEquityIssue(ctx context.Context, req dto.RegisterEquityIssueRequest, creatorUserID string) (*domain.Verification, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.TotalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: issue amount must not be negative", apperrors.ErrValidation)
	}
	shareClass, err := parseShareClass(req.ShareClass)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	existing, err := s.shareholderRepo.FindShareholderByName(ctx, req.RecipientName)
	var shareholderID string
	switch {
	case err == nil:
		shareholderID = existing.ShareholderID
		if err := s.shareholderRepo.AdjustShareCount(ctx, shareholderID, req.ShareCount, creatorUserID, now); err != nil {
			logger.Error("Failed to adjust share count", slog.String("error", err.Error()), slog.String("shareholder_id", shareholderID))
			return nil, fmt.Errorf("failed to adjust share count: %w", err)
		}
	case errors.Is(err, apperrors.ErrNotFound):
		created, err := s.AddShareholder(ctx, dto.CreateShareholderRequest{
			Name:       req.RecipientName,
			ShareCount: req.ShareCount,
			ShareClass: string(shareClass),
		}, creatorUserID)
		if err != nil {
			return nil, err
		}
		shareholderID = created.ShareholderID
	default:
		return nil, fmt.Errorf("failed to look up recipient: %w", err)
	}

	description := fmt.Sprintf("Nyemission %d aktier till %s", req.ShareCount, req.RecipientName)
	verification, err := s.ledgerSvc.CreateVerification(ctx, dto.CreateVerificationRequest{
		Date:        req.Date,
		Description: description,
		SourceType:  domain.SourceEquityIssue,
		EquityIssue: &dto.EquityIssueMetadataRequest{
			ShareCount:    req.ShareCount,
			RecipientName: req.RecipientName,
			ShareholderID: shareholderID,
			TotalAmount:   req.TotalAmount,
		},
		Rows: []dto.CreateVerificationRowRequest{
			{AccountCode: AccountBank, Description: description, Debit: req.TotalAmount},
			{AccountCode: "2081", Description: "Aktiekapital", Credit: req.TotalAmount},
		},
	}, creatorUserID)
	if err != nil {
		logger.Error("Failed to book equity issue verification", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Equity issue registered",
		slog.String("shareholder_id", shareholderID),
		slog.Int64("share_count", req.ShareCount),
	)
	return verification, nil
}
