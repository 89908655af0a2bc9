package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
)

type PgxShareholderRepository struct {
	BaseRepository
}

func newPgxShareholderRepository(db *pgxpool.Pool) portsrepo.ShareholderRepository {
	return &PgxShareholderRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.ShareholderRepository = (*PgxShareholderRepository)(nil)

const shareholderColumns = `
	shareholder_id, name, org_number, share_count, share_class,
	created_at, created_by, last_updated_at, last_updated_by`

func scanShareholder(row pgx.Row) (*domain.Shareholder, error) {
	var s domain.Shareholder
	err := row.Scan(
		&s.ShareholderID,
		&s.Name,
		&s.OrgNumber,
		&s.ShareCount,
		&s.ShareClass,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgxShareholderRepository) SaveShareholder(ctx context.Context, shareholder domain.Shareholder) error {
	query := `
		INSERT INTO shareholders (shareholder_id, name, org_number, share_count, share_class,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		shareholder.ShareholderID,
		shareholder.Name,
		shareholder.OrgNumber,
		shareholder.ShareCount,
		shareholder.ShareClass,
		shareholder.CreatedAt,
		shareholder.CreatedBy,
		shareholder.LastUpdatedAt,
		shareholder.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: shareholder already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save shareholder: %w", err)
	}
	return nil
}

func (r *PgxShareholderRepository) FindShareholderByID(ctx context.Context, shareholderID string) (*domain.Shareholder, error) {
	query := `SELECT ` + shareholderColumns + ` FROM shareholders WHERE shareholder_id = $1;`
	shareholder, err := scanShareholder(r.Pool.QueryRow(ctx, query, shareholderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shareholder %s: %w", shareholderID, err)
	}
	return shareholder, nil
}

func (r *PgxShareholderRepository) FindShareholderByName(ctx context.Context, name string) (*domain.Shareholder, error) {
	query := `SELECT ` + shareholderColumns + ` FROM shareholders WHERE name = $1 ORDER BY created_at LIMIT 1;`
	shareholder, err := scanShareholder(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shareholder by name: %w", err)
	}
	return shareholder, nil
}

func (r *PgxShareholderRepository) ListShareholders(ctx context.Context) ([]domain.Shareholder, error) {
	query := `SELECT ` + shareholderColumns + ` FROM shareholders ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query shareholders: %w", err)
	}
	defer rows.Close()

	var shareholders []domain.Shareholder
	for rows.Next() {
		s, err := scanShareholder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shareholder: %w", err)
		}
		shareholders = append(shareholders, *s)
	}
	return shareholders, rows.Err()
}

func (r *PgxShareholderRepository) UpdateShareholder(ctx context.Context, shareholder domain.Shareholder) error {
	query := `
		UPDATE shareholders
		SET name = $2, org_number = $3, share_count = $4, share_class = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE shareholder_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		shareholder.ShareholderID,
		shareholder.Name,
		shareholder.OrgNumber,
		shareholder.ShareCount,
		shareholder.ShareClass,
		shareholder.LastUpdatedAt,
		shareholder.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update shareholder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AdjustShareCount increments the holding in a single statement so concurrent
// issuances cannot lose an update.
func (r *PgxShareholderRepository) AdjustShareCount(ctx context.Context, shareholderID string, delta int64, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE shareholders
		SET share_count = share_count + $2, last_updated_at = $3, last_updated_by = $4
		WHERE shareholder_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, shareholderID, delta, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to adjust share count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
