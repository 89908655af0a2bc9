package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	ErrVerificationUnbalanced  = errors.New("verification rows do not balance: debits must equal credits")
	ErrVerificationMinRows     = errors.New("verification must have at least two rows")
	ErrVerificationMinAccounts = errors.New("verification must affect at least two different accounts")
	ErrDescriptionMissing      = errors.New("verification description is required")
)

// BAS chart-of-accounts codes the derived views depend on.
const (
	AccountEmployeeDebt     = "2820" // Short-term debt to employees
	AccountMileage          = "7330" // Mileage reimbursement expense
	AccountBank             = "1930" // Company bank account
	AccountUncategorized    = "2999" // Uncategorized / OBS account
	AccountRetainedEarnings = "2091" // Balanserad vinst
	AccountDecidedDividend  = "2898" // Beslutad utdelning
)

// ledgerService provides verification persistence and derived read views.
type ledgerService struct {
	verificationRepo portsrepo.VerificationRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(verificationRepo portsrepo.VerificationRepository) portssvc.LedgerSvcFacade {
	return &ledgerService{verificationRepo: verificationRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateRowBalance checks the double-entry invariant over the rows.
func validateRowBalance(rows []domain.VerificationRow) error {
	if len(rows) < 2 {
		return ErrVerificationMinRows
	}

	debitSum := decimal.Zero
	creditSum := decimal.Zero
	accountSet := make(map[string]struct{})
	for _, row := range rows {
		if row.Debit.IsNegative() || row.Credit.IsNegative() {
			return fmt.Errorf("%w: row amounts must not be negative on account %s", apperrors.ErrValidation, row.AccountCode)
		}
		debitSum = debitSum.Add(row.Debit)
		creditSum = creditSum.Add(row.Credit)
		accountSet[row.AccountCode] = struct{}{}
	}

	if len(accountSet) < 2 {
		return ErrVerificationMinAccounts
	}
	if !debitSum.Equal(creditSum) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			ErrVerificationUnbalanced, debitSum.String(), creditSum.String())
	}
	return nil
}

// CreateVerification validates and persists a new balanced verification with
// its rows. Verifications are immutable once created.
func (s *ledgerService) CreateVerification(ctx context.Context, req dto.CreateVerificationRequest, creatorUserID string) (*domain.Verification, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Description == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrDescriptionMissing)
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = domain.SourceManual
	}

	now := time.Now().UTC()
	verificationID := uuid.NewString()

	rows := make([]domain.VerificationRow, len(req.Rows))
	for i, rowReq := range req.Rows {
		rows[i] = domain.VerificationRow{
			RowID:          uuid.NewString(),
			VerificationID: verificationID,
			AccountCode:    rowReq.AccountCode,
			Description:    rowReq.Description,
			Debit:          rowReq.Debit,
			Credit:         rowReq.Credit,
			EmployeeID:     rowReq.EmployeeID,
		}
	}

	if err := validateRowBalance(rows); err != nil {
		return nil, err
	}

	verification := domain.Verification{
		VerificationID: verificationID,
		Date:           req.Date,
		Description:    req.Description,
		SourceType:     sourceType,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if req.EquityIssue != nil {
		verification.EquityIssue = &domain.EquityIssueMetadata{
			ShareCount:    req.EquityIssue.ShareCount,
			RecipientName: req.EquityIssue.RecipientName,
			ShareholderID: req.EquityIssue.ShareholderID,
			TotalAmount:   req.EquityIssue.TotalAmount,
		}
	}

	if err := s.verificationRepo.SaveVerification(ctx, verification, rows); err != nil {
		logger.Error("Failed to save verification", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save verification: %w", err)
	}

	logger.Info("Verification created", slog.String("verification_id", verificationID), slog.String("source_type", string(sourceType)))
	verification.Rows = rows
	return &verification, nil
}

// GetVerificationByID retrieves a verification with its rows.
func (s *ledgerService) GetVerificationByID(ctx context.Context, verificationID string) (*domain.Verification, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	verification, err := s.verificationRepo.FindVerificationByID(ctx, verificationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find verification", slog.String("error", err.Error()), slog.String("verification_id", verificationID))
		}
		return nil, fmt.Errorf("failed to find verification %s: %w", verificationID, err)
	}
	return verification, nil
}

// ListVerifications retrieves a token-paginated page of the ledger.
func (s *ledgerService) ListVerifications(ctx context.Context, params dto.ListVerificationsParams) (*dto.ListVerificationsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	verifications, nextToken, err := s.verificationRepo.ListVerifications(ctx, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list verifications", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve verifications: %w", err)
	}

	return &dto.ListVerificationsResponse{
		Verifications: dto.ToVerificationResponses(verifications),
		NextToken:     nextToken,
	}, nil
}

// FilterRowsByAccount returns all rows on the account with entry context.
func (s *ledgerService) FilterRowsByAccount(ctx context.Context, accountCode string) ([]domain.AccountRowView, error) {
	entries, err := s.verificationRepo.ListAllVerifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return FilterRowsByAccount(entries, accountCode), nil
}

// DeriveEmployeeBalances aggregates reimbursement debt and mileage totals.
func (s *ledgerService) DeriveEmployeeBalances(ctx context.Context, employees []domain.Employee) ([]domain.EmployeeBalance, error) {
	entries, err := s.verificationRepo.ListAllVerifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return DeriveEmployeeBalances(entries, employees), nil
}

// DeriveShareTransactions reconstructs the equity issuance history.
func (s *ledgerService) DeriveShareTransactions(ctx context.Context) ([]domain.ShareTransaction, error) {
	entries, err := s.verificationRepo.ListAllVerifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return DeriveShareTransactions(entries), nil
}

// CountUncategorizedRows counts rows on the OBS account within the month.
func (s *ledgerService) CountUncategorizedRows(ctx context.Context, year int, month int) (int, error) {
	entries, err := s.verificationRepo.ListVerificationsByMonth(ctx, year, time.Month(month))
	if err != nil {
		return 0, fmt.Errorf("failed to load ledger for %d-%02d: %w", year, month, err)
	}

	count := 0
	for _, entry := range entries {
		for _, row := range entry.Rows {
			if row.AccountCode == AccountUncategorized {
				count++
			}
		}
	}
	return count, nil
}
