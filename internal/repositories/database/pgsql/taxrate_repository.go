package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
)

// PgxTaxRateRepository reads the per-year statutory parameters seeded by
// migration.
type PgxTaxRateRepository struct {
	BaseRepository
}

func newPgxTaxRateRepository(db *pgxpool.Pool) portsrepo.TaxRateRepository {
	return &PgxTaxRateRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.TaxRateRepository = (*PgxTaxRateRepository)(nil)

func (r *PgxTaxRateRepository) FindTaxRatesByYear(ctx context.Context, year int) (*domain.TaxRates, error) {
	query := `
		SELECT year, ibb, capital_tax_rate, service_tax_rate, mileage_rate, saved_allowance_uprate
		FROM tax_rates
		WHERE year = $1;
	`
	var rates domain.TaxRates
	err := r.Pool.QueryRow(ctx, query, year).Scan(
		&rates.Year,
		&rates.IBB,
		&rates.CapitalTaxRate,
		&rates.ServiceTaxRate,
		&rates.MileageRate,
		&rates.SavedAllowanceUprate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tax rates for year %d: %w", year, err)
	}
	return &rates, nil
}
