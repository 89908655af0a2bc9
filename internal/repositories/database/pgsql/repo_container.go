package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		VerificationRepo: newPgxVerificationRepository(dbPool),
		ShareholderRepo:  newPgxShareholderRepository(dbPool),
		K10Repo:          newPgxK10Repository(dbPool),
		DocumentRepo:     newPgxDocumentRepository(dbPool),
		ClosingRepo:      newPgxClosingRepository(dbPool),
		TaxRateRepo:      newPgxTaxRateRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
