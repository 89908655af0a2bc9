package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
)

// PgxClosingRepository persists closing periods keyed by (year, month). The
// check list is stored as JSONB since the set of checks is small and read as a
// whole.
type PgxClosingRepository struct {
	BaseRepository
}

func newPgxClosingRepository(db *pgxpool.Pool) portsrepo.ClosingRepository {
	return &PgxClosingRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.ClosingRepository = (*PgxClosingRepository)(nil)

func (r *PgxClosingRepository) FindPeriod(ctx context.Context, year int, month int) (*domain.ClosingPeriod, error) {
	query := `
		SELECT year, month, checks, notes, created_at, created_by, last_updated_at, last_updated_by
		FROM closing_periods
		WHERE year = $1 AND month = $2;
	`
	var period domain.ClosingPeriod
	var checksJSON []byte
	err := r.Pool.QueryRow(ctx, query, year, month).Scan(
		&period.Year,
		&period.Month,
		&checksJSON,
		&period.Notes,
		&period.CreatedAt,
		&period.CreatedBy,
		&period.LastUpdatedAt,
		&period.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find closing period %d-%02d: %w", year, month, err)
	}

	if err := json.Unmarshal(checksJSON, &period.Checks); err != nil {
		return nil, fmt.Errorf("failed to decode closing checks: %w", err)
	}
	return &period, nil
}

func (r *PgxClosingRepository) UpsertPeriod(ctx context.Context, period domain.ClosingPeriod) error {
	checksJSON, err := json.Marshal(period.Checks)
	if err != nil {
		return fmt.Errorf("failed to encode closing checks: %w", err)
	}

	query := `
		INSERT INTO closing_periods (year, month, checks, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (year, month) DO UPDATE SET
			checks = EXCLUDED.checks,
			notes = EXCLUDED.notes,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err = r.Pool.Exec(ctx, query,
		period.Year,
		period.Month,
		checksJSON,
		period.Notes,
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert closing period %d-%02d: %w", period.Year, period.Month, err)
	}
	return nil
}

func (r *PgxClosingRepository) UpdateNotes(ctx context.Context, year int, month int, notes string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE closing_periods
		SET notes = $3, last_updated_at = $4, last_updated_by = $5
		WHERE year = $1 AND month = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, year, month, notes, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update notes for %d-%02d: %w", year, month, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
