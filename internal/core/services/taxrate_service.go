package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/middleware"
)

// taxRateService serves statutory parameters from the seeded per-year store.
type taxRateService struct {
	taxRateRepo portsrepo.TaxRateRepository
}

// NewTaxRateService creates a new TaxRateService.
func NewTaxRateService(taxRateRepo portsrepo.TaxRateRepository) portssvc.TaxRateSvcFacade {
	return &taxRateService{taxRateRepo: taxRateRepo}
}

var _ portssvc.TaxRateSvcFacade = (*taxRateService)(nil)

// GetTaxRates returns the parameters for the year. An unseeded year is a
// validation error, not a silent fallback to another year's values.
func (s *taxRateService) GetTaxRates(ctx context.Context, year int) (*domain.TaxRates, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rates, err := s.taxRateRepo.FindTaxRatesByYear(ctx, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Tax rates not seeded for year", slog.Int("year", year))
			return nil, fmt.Errorf("%w: no tax parameters for year %d", apperrors.ErrValidation, year)
		}
		return nil, fmt.Errorf("failed to fetch tax rates for year %d: %w", year, err)
	}
	return rates, nil
}
