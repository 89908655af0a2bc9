package services

import (
	"context"

	"github.com/egetab/compliance_backend/internal/core/domain"
	"github.com/egetab/compliance_backend/internal/dto"
)

// LedgerSvcFacade defines the verification store and its derived read views.
type LedgerSvcFacade interface {
	CreateVerification(ctx context.Context, req dto.CreateVerificationRequest, creatorUserID string) (*domain.Verification, error)
	GetVerificationByID(ctx context.Context, verificationID string) (*domain.Verification, error)
	ListVerifications(ctx context.Context, params dto.ListVerificationsParams) (*dto.ListVerificationsResponse, error)

	// FilterRowsByAccount returns all rows on the given account code with their
	// entry context, preserving ledger order.
	FilterRowsByAccount(ctx context.Context, accountCode string) ([]domain.AccountRowView, error)
	// DeriveEmployeeBalances aggregates reimbursement debt (2820) and mileage
	// (7330) per employee across the ledger.
	DeriveEmployeeBalances(ctx context.Context, employees []domain.Employee) ([]domain.EmployeeBalance, error)
	// DeriveShareTransactions reconstructs equity issuances from typed metadata
	// or, for legacy entries, from the verification text.
	DeriveShareTransactions(ctx context.Context) ([]domain.ShareTransaction, error)
	// CountUncategorizedRows counts rows on the uncategorized account within a
	// calendar month. The monthly closing auto check consumes this.
	CountUncategorizedRows(ctx context.Context, year int, month int) (int, error)
}
