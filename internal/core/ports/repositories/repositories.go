package repositories

import (
	"context"
	"time"

	"github.com/egetab/compliance_backend/internal/core/domain"
)

// VerificationRepository defines persistence for verifications and their rows.
// Saving a verification persists its rows atomically. Verifications are
// append-only; there is no update or delete.
type VerificationRepository interface {
	SaveVerification(ctx context.Context, verification domain.Verification, rows []domain.VerificationRow) error
	FindVerificationByID(ctx context.Context, verificationID string) (*domain.Verification, error)
	// ListVerifications returns verifications (rows populated) ordered by date
	// descending, with token pagination. Returns the next token when more
	// results exist.
	ListVerifications(ctx context.Context, limit int, nextToken *string) ([]domain.Verification, *string, error)
	// ListAllVerifications returns the full ordered ledger, rows populated.
	// Derived views (balances, share transactions) consume this.
	ListAllVerifications(ctx context.Context) ([]domain.Verification, error)
	// ListVerificationsByMonth returns all verifications dated within the given
	// calendar month, rows populated.
	ListVerificationsByMonth(ctx context.Context, year int, month time.Month) ([]domain.Verification, error)
}

// ShareholderRepository defines persistence for the cap table.
type ShareholderRepository interface {
	SaveShareholder(ctx context.Context, shareholder domain.Shareholder) error
	FindShareholderByID(ctx context.Context, shareholderID string) (*domain.Shareholder, error)
	FindShareholderByName(ctx context.Context, name string) (*domain.Shareholder, error)
	ListShareholders(ctx context.Context) ([]domain.Shareholder, error)
	UpdateShareholder(ctx context.Context, shareholder domain.Shareholder) error
	// AdjustShareCount atomically increments the holder's share count in a
	// single statement so concurrent issuances cannot lose an update.
	AdjustShareCount(ctx context.Context, shareholderID string, delta int64, updatedBy string, updatedAt time.Time) error
}

// K10Repository defines persistence for K10 declarations.
type K10Repository interface {
	SaveK10(ctx context.Context, declaration domain.K10Declaration) error
	FindK10(ctx context.Context, shareholderID string, year int) (*domain.K10Declaration, error)
	UpdateK10(ctx context.Context, declaration domain.K10Declaration) error
}

// DocumentRepository defines persistence for protocol documents.
type DocumentRepository interface {
	SaveDocument(ctx context.Context, document domain.Document) error
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)
	ListDocuments(ctx context.Context, docType *domain.DocumentType) ([]domain.Document, error)
	UpdateDocumentStatus(ctx context.Context, documentID string, status domain.DocumentStatus, updatedBy string, updatedAt time.Time) error
}

// ClosingRepository defines persistence for monthly closing periods. Periods
// are keyed by (year, month) and created implicitly via upsert.
type ClosingRepository interface {
	FindPeriod(ctx context.Context, year int, month int) (*domain.ClosingPeriod, error)
	UpsertPeriod(ctx context.Context, period domain.ClosingPeriod) error
	UpdateNotes(ctx context.Context, year int, month int, notes string, updatedBy string, updatedAt time.Time) error
}

// TaxRateRepository defines read access to statutory tax parameters per year.
type TaxRateRepository interface {
	FindTaxRatesByYear(ctx context.Context, year int) (*domain.TaxRates, error)
}

// UserRepository defines persistence for users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime *time.Time) error
}

// RepositoryProvider bundles all repositories for service wiring.
type RepositoryProvider struct {
	VerificationRepo VerificationRepository
	ShareholderRepo  ShareholderRepository
	K10Repo          K10Repository
	DocumentRepo     DocumentRepository
	ClosingRepo      ClosingRepository
	TaxRateRepo      TaxRateRepository
	UserRepo         UserRepository
}
