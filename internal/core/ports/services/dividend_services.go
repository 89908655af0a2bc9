package services

import (
	"context"

	"github.com/egetab/compliance_backend/internal/core/domain"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// DividendSvcFacade evaluates dividend plans against the 3:12 allowance and
// splits distributions across the cap table.
type DividendSvcFacade interface {
	EvaluateDividend(ctx context.Context, req dto.EvaluateDividendRequest) (*dto.DividendEvaluationResponse, error)
	SplitDividend(ctx context.Context, total decimal.Decimal) ([]domain.ShareholderAllocation, error)
}

// K10SvcFacade manages the K10 declaration lifecycle, one record per
// shareholder and tax year.
type K10SvcFacade interface {
	CreateDraft(ctx context.Context, req dto.CreateK10Request, creatorUserID string) (*domain.K10Declaration, error)
	GetK10(ctx context.Context, shareholderID string, year int) (*domain.K10Declaration, error)
	Submit(ctx context.Context, shareholderID string, year int, userID string) (*domain.K10Declaration, error)
}

// TaxRateSvcFacade supplies statutory parameters per tax year.
type TaxRateSvcFacade interface {
	GetTaxRates(ctx context.Context, year int) (*domain.TaxRates, error)
}
