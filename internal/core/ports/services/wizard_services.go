package services

import (
	"context"

	"github.com/egetab/compliance_backend/internal/core/domain"
	"github.com/egetab/compliance_backend/internal/dto"
)

// WizardSvcFacade drives the four-stage corporate action flow. Sessions are
// ephemeral; cancelling discards them entirely.
type WizardSvcFacade interface {
	StartSession(ctx context.Context, creatorUserID string) (*domain.WizardSession, error)
	GetSession(ctx context.Context, sessionID string) (*domain.WizardSession, error)
	SelectAction(ctx context.Context, sessionID string, actionType domain.CorporateActionType) (*domain.WizardSession, error)
	Configure(ctx context.Context, sessionID string, data domain.CorporateActionData) (*domain.WizardSession, error)
	Back(ctx context.Context, sessionID string) (*domain.WizardSession, error)
	// Complete materializes the configured action into a roadmap or a draft
	// document (plus the dividend verification for dividend actions). Guarded
	// against double submission; a collaborator failure leaves the session on
	// preview so the caller can retry.
	Complete(ctx context.Context, sessionID string, userID string) (*dto.WizardCompletionResponse, error)
	Cancel(ctx context.Context, sessionID string) error
}
