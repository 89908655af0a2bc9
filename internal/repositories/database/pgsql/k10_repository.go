package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
)

type PgxK10Repository struct {
	BaseRepository
}

func newPgxK10Repository(db *pgxpool.Pool) portsrepo.K10Repository {
	return &PgxK10Repository{BaseRepository{Pool: db}}
}

var _ portsrepo.K10Repository = (*PgxK10Repository)(nil)

func (r *PgxK10Repository) SaveK10(ctx context.Context, declaration domain.K10Declaration) error {
	query := `
		INSERT INTO k10_declarations (declaration_id, shareholder_id, year, status, deadline,
			method, gransbelopp, used_amount, saved_amount,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		declaration.DeclarationID,
		declaration.ShareholderID,
		declaration.Year,
		declaration.Status,
		declaration.Deadline,
		declaration.Method,
		declaration.Gransbelopp,
		declaration.UsedAmount,
		declaration.SavedAmount,
		declaration.CreatedAt,
		declaration.CreatedBy,
		declaration.LastUpdatedAt,
		declaration.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on (shareholder_id, year)
			return fmt.Errorf("%w: K10 declaration already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save K10 declaration: %w", err)
	}
	return nil
}

func (r *PgxK10Repository) FindK10(ctx context.Context, shareholderID string, year int) (*domain.K10Declaration, error) {
	query := `
		SELECT declaration_id, shareholder_id, year, status, deadline,
			method, gransbelopp, used_amount, saved_amount,
			created_at, created_by, last_updated_at, last_updated_by
		FROM k10_declarations
		WHERE shareholder_id = $1 AND year = $2;
	`
	var d domain.K10Declaration
	err := r.Pool.QueryRow(ctx, query, shareholderID, year).Scan(
		&d.DeclarationID,
		&d.ShareholderID,
		&d.Year,
		&d.Status,
		&d.Deadline,
		&d.Method,
		&d.Gransbelopp,
		&d.UsedAmount,
		&d.SavedAmount,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.LastUpdatedAt,
		&d.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find K10 declaration: %w", err)
	}
	return &d, nil
}

func (r *PgxK10Repository) UpdateK10(ctx context.Context, declaration domain.K10Declaration) error {
	query := `
		UPDATE k10_declarations
		SET status = $2, method = $3, gransbelopp = $4, used_amount = $5, saved_amount = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE declaration_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		declaration.DeclarationID,
		declaration.Status,
		declaration.Method,
		declaration.Gransbelopp,
		declaration.UsedAmount,
		declaration.SavedAmount,
		declaration.LastUpdatedAt,
		declaration.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update K10 declaration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
