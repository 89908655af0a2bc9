package services

import (
	"context"

	"github.com/egetab/compliance_backend/internal/core/domain"
)

// ClosingSvcFacade tracks the per-month reconciliation checklist.
type ClosingSvcFacade interface {
	// GetPeriod returns the checklist for (year, month). Future months
	// short-circuit to a not-started period without touching storage.
	GetPeriod(ctx context.Context, year int, month int) (*domain.ClosingPeriod, error)
	// ToggleCheck flips a manual check. Auto-derived checks are read-only.
	ToggleCheck(ctx context.Context, year int, month int, checkID string, userID string) (*domain.ClosingPeriod, error)
	// SaveNotes schedules a debounced write of the period notes. The write
	// lands after the debounce interval, or on Flush.
	SaveNotes(ctx context.Context, year int, month int, notes string, userID string) error
	// Flush persists all pending note writes immediately. Called on shutdown.
	Flush()
	// GetMonthlyReview proxies the external read-only monthly review API,
	// future-guarded like GetPeriod.
	GetMonthlyReview(ctx context.Context, year int, month int) (*domain.MonthlyReview, error)
}
