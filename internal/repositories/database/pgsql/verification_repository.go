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
	"github.com/egetab/compliance_backend/internal/utils/pagination"
)

type PgxVerificationRepository struct {
	BaseRepository
}

func newPgxVerificationRepository(db *pgxpool.Pool) portsrepo.VerificationRepository {
	return &PgxVerificationRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.VerificationRepository = (*PgxVerificationRepository)(nil)

const verificationColumns = `
	verification_id, date, description, source_type, equity_issue,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveVerification inserts the verification and its rows in one transaction.
// Rows are batched; the whole entry lands or nothing does.
func (r *PgxVerificationRepository) SaveVerification(ctx context.Context, verification domain.Verification, rows []domain.VerificationRow) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var equityIssueJSON []byte
	if verification.EquityIssue != nil {
		equityIssueJSON, err = json.Marshal(verification.EquityIssue)
		if err != nil {
			return fmt.Errorf("failed to encode equity issue metadata: %w", err)
		}
	}

	insertVerification := `
		INSERT INTO verifications (verification_id, date, description, source_type, equity_issue,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, insertVerification,
		verification.VerificationID,
		verification.Date,
		verification.Description,
		verification.SourceType,
		equityIssueJSON,
		verification.CreatedAt,
		verification.CreatedBy,
		verification.LastUpdatedAt,
		verification.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert verification: %w", err)
	}

	insertRow := `
		INSERT INTO verification_rows (row_id, verification_id, account_code, description, debit, credit, employee_id)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''));
	`
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(insertRow,
			row.RowID,
			row.VerificationID,
			row.AccountCode,
			row.Description,
			row.Debit,
			row.Credit,
			row.EmployeeID,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert verification row: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close row batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

func scanVerification(row pgx.Row) (*domain.Verification, error) {
	var v domain.Verification
	var equityIssueJSON []byte
	err := row.Scan(
		&v.VerificationID,
		&v.Date,
		&v.Description,
		&v.SourceType,
		&equityIssueJSON,
		&v.CreatedAt,
		&v.CreatedBy,
		&v.LastUpdatedAt,
		&v.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(equityIssueJSON) > 0 {
		var meta domain.EquityIssueMetadata
		if err := json.Unmarshal(equityIssueJSON, &meta); err != nil {
			return nil, fmt.Errorf("failed to decode equity issue metadata: %w", err)
		}
		v.EquityIssue = &meta
	}
	return &v, nil
}

// loadRows fetches rows for the given verification IDs and attaches them.
func (r *PgxVerificationRepository) loadRows(ctx context.Context, verifications []domain.Verification) error {
	if len(verifications) == 0 {
		return nil
	}
	ids := make([]string, len(verifications))
	index := make(map[string]int, len(verifications))
	for i := range verifications {
		ids[i] = verifications[i].VerificationID
		index[verifications[i].VerificationID] = i
	}

	query := `
		SELECT row_id, verification_id, account_code, description, debit, credit, COALESCE(employee_id, '')
		FROM verification_rows
		WHERE verification_id = ANY($1)
		ORDER BY row_id;
	`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query verification rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row domain.VerificationRow
		if err := rows.Scan(&row.RowID, &row.VerificationID, &row.AccountCode, &row.Description, &row.Debit, &row.Credit, &row.EmployeeID); err != nil {
			return fmt.Errorf("failed to scan verification row: %w", err)
		}
		if i, ok := index[row.VerificationID]; ok {
			verifications[i].Rows = append(verifications[i].Rows, row)
		}
	}
	return rows.Err()
}

func (r *PgxVerificationRepository) FindVerificationByID(ctx context.Context, verificationID string) (*domain.Verification, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications WHERE verification_id = $1;`
	verification, err := scanVerification(r.Pool.QueryRow(ctx, query, verificationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find verification %s: %w", verificationID, err)
	}

	entries := []domain.Verification{*verification}
	if err := r.loadRows(ctx, entries); err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// ListVerifications pages the ledger newest-first using a (date, created_at)
// keyset token.
func (r *PgxVerificationRepository) ListVerifications(ctx context.Context, limit int, nextToken *string) ([]domain.Verification, *string, error) {
	args := []interface{}{limit + 1}
	query := `SELECT ` + verificationColumns + ` FROM verifications`
	if nextToken != nil && *nextToken != "" {
		tokenDate, tokenCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` WHERE (date, created_at) < ($2, $3)`
		args = append(args, tokenDate, tokenCreatedAt)
	}
	query += ` ORDER BY date DESC, created_at DESC LIMIT $1;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query verifications: %w", err)
	}
	defer rows.Close()

	var verifications []domain.Verification
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan verification: %w", err)
		}
		verifications = append(verifications, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var next *string
	if len(verifications) > limit {
		verifications = verifications[:limit]
		last := verifications[len(verifications)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		next = &token
	}

	if err := r.loadRows(ctx, verifications); err != nil {
		return nil, nil, err
	}
	return verifications, next, nil
}

func (r *PgxVerificationRepository) listWhere(ctx context.Context, where string, args ...interface{}) ([]domain.Verification, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications ` + where + ` ORDER BY date ASC, created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query verifications: %w", err)
	}
	defer rows.Close()

	var verifications []domain.Verification
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verification: %w", err)
		}
		verifications = append(verifications, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadRows(ctx, verifications); err != nil {
		return nil, err
	}
	return verifications, nil
}

func (r *PgxVerificationRepository) ListAllVerifications(ctx context.Context) ([]domain.Verification, error) {
	return r.listWhere(ctx, "")
}

func (r *PgxVerificationRepository) ListVerificationsByMonth(ctx context.Context, year int, month time.Month) ([]domain.Verification, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return r.listWhere(ctx, "WHERE date >= $1 AND date < $2", start, end)
}
