package dto

import (
	"github.com/egetab/compliance_backend/internal/core/domain"
)

// SelectActionRequest picks the corporate action type for a session.
type SelectActionRequest struct {
	ActionType domain.CorporateActionType `json:"actionType" binding:"required"`
}

// ConfigureActionRequest stores the per-type payload.
type ConfigureActionRequest struct {
	Data domain.CorporateActionData `json:"data" binding:"required"`
}

// WizardSessionResponse mirrors a wizard session.
type WizardSessionResponse struct {
	SessionID  string                     `json:"sessionID"`
	ActionType domain.CorporateActionType `json:"actionType,omitempty"`
	Step       domain.WizardStep          `json:"step"`
	Data       domain.CorporateActionData `json:"data"`
}

// WizardCompletionResponse reports what Complete materialized. Exactly one of
// Document/Roadmap is set depending on the action type.
type WizardCompletionResponse struct {
	Session        WizardSessionResponse `json:"session"`
	Document       *domain.Document      `json:"document,omitempty"`
	Roadmap        *domain.Roadmap       `json:"roadmap,omitempty"`
	VerificationID string                `json:"verificationID,omitempty"`
}

// ToWizardSessionResponse converts a domain.WizardSession to its DTO.
func ToWizardSessionResponse(s *domain.WizardSession) WizardSessionResponse {
	return WizardSessionResponse{
		SessionID:  s.SessionID,
		ActionType: s.ActionType,
		Step:       s.Step,
		Data:       s.Data,
	}
}
