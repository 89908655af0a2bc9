package services

import (
	"context"

	"github.com/egetab/compliance_backend/internal/core/domain"
	"github.com/egetab/compliance_backend/internal/dto"
)

// ShareholderSvcFacade defines the authoritative cap table operations.
type ShareholderSvcFacade interface {
	AddShareholder(ctx context.Context, req dto.CreateShareholderRequest, creatorUserID string) (*domain.Shareholder, error)
	GetShareholderByID(ctx context.Context, shareholderID string) (*domain.Shareholder, error)
	ListShareholders(ctx context.Context) ([]domain.Shareholder, error)
	UpdateShareholder(ctx context.Context, shareholderID string, req dto.UpdateShareholderRequest, updaterUserID string) (*domain.Shareholder, error)
	GetCapTableStats(ctx context.Context) (*domain.CapTableStats, error)
	// GetOwnershipPercentages recomputes ownership from share counts on every
	// read; percentages are never stored.
	GetOwnershipPercentages(ctx context.Context) ([]domain.OwnershipShare, error)
	// RegisterEquityIssue books the issuance verification and creates or
	// increments the recipient's holding in one flow.
	RegisterEquityIssue(ctx context.Context, req dto.RegisterEquityIssueRequest, creatorUserID string) (*domain.Verification, error)
}
