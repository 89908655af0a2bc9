package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/egetab/compliance_backend/internal/core/domain"
	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// dividendService evaluates dividend plans using the statutory parameters of
// the requested tax year and splits distributions across the cap table.
type dividendService struct {
	taxRateSvc      portssvc.TaxRateSvcFacade
	shareholderRepo portsrepo.ShareholderRepository
}

// NewDividendService creates a new DividendService.
func NewDividendService(taxRateSvc portssvc.TaxRateSvcFacade, shareholderRepo portsrepo.ShareholderRepository) portssvc.DividendSvcFacade {
	return &dividendService{
		taxRateSvc:      taxRateSvc,
		shareholderRepo: shareholderRepo,
	}
}

var _ portssvc.DividendSvcFacade = (*dividendService)(nil)

// EvaluateDividend computes the allowance for the year and the tax split of
// the planned amount against it.
func (s *dividendService) EvaluateDividend(ctx context.Context, req dto.EvaluateDividendRequest) (*dto.DividendEvaluationResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rates, err := s.taxRateSvc.GetTaxRates(ctx, req.Year)
	if err != nil {
		logger.Warn("Failed to fetch tax rates for dividend evaluation", slog.Int("year", req.Year), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch tax rates for year %d: %w", req.Year, err)
	}

	schablon := SchablonBelopp(rates.IBB)
	totalGransbelopp := TotalGransbelopp(schablon, req.SparatUtrymme)

	evaluation, err := EvaluateDividendPlan(req.PlannedAmount, totalGransbelopp, rates.CapitalTaxRate, rates.ServiceTaxRate)
	if err != nil {
		return nil, err
	}

	logger.Debug("Dividend plan evaluated",
		slog.Int("year", req.Year),
		slog.Bool("within_limit", evaluation.IsWithinLimit),
	)
	return &dto.DividendEvaluationResponse{
		SchablonBelopp:   schablon,
		SparatUtrymme:    req.SparatUtrymme,
		TotalGransbelopp: totalGransbelopp,
		Evaluation:       evaluation,
	}, nil
}

// SplitDividend distributes the total across current shareholders.
func (s *dividendService) SplitDividend(ctx context.Context, total decimal.Decimal) ([]domain.ShareholderAllocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	shareholders, err := s.shareholderRepo.ListShareholders(ctx)
	if err != nil {
		logger.Error("Failed to list shareholders for dividend split", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list shareholders: %w", err)
	}

	return PerShareSplit(total, shareholders)
}
