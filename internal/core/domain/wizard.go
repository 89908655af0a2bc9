package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CorporateActionType enumerates the registrable corporate actions.
type CorporateActionType string

const (
	ActionBoardChange     CorporateActionType = "BOARD_CHANGE"
	ActionDividend        CorporateActionType = "DIVIDEND"
	ActionCapitalChange   CorporateActionType = "CAPITAL_CHANGE"
	ActionAuthorityFiling CorporateActionType = "AUTHORITY_FILING"
	ActionStatuteChange   CorporateActionType = "STATUTE_CHANGE"
	ActionRoadmap         CorporateActionType = "ROADMAP"
)

// Label returns the human-readable Swedish label used in document titles.
func (t CorporateActionType) Label() string {
	switch t {
	case ActionBoardChange:
		return "Styrelseändring"
	case ActionDividend:
		return "Utdelning"
	case ActionCapitalChange:
		return "Kapitaländring"
	case ActionAuthorityFiling:
		return "Myndighetsärende"
	case ActionStatuteChange:
		return "Bolagsordningsändring"
	case ActionRoadmap:
		return "Färdplan"
	default:
		return string(t)
	}
}

// WizardStep is the state of a corporate action session.
type WizardStep string

const (
	StepSelect    WizardStep = "SELECT"
	StepConfigure WizardStep = "CONFIGURE"
	StepPreview   WizardStep = "PREVIEW"
	StepComplete  WizardStep = "COMPLETE"
)

// BoardMember is one entry in a board change payload.
type BoardMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// CorporateActionData is the per-type payload of a wizard session. Fields are
// populated according to the selected action type; unused fields stay zero.
type CorporateActionData struct {
	// BOARD_CHANGE
	BoardMembers []BoardMember `json:"boardMembers,omitempty"`
	ChangeDate   *time.Time    `json:"changeDate,omitempty"`
	// DIVIDEND
	DividendTotal *decimal.Decimal `json:"dividendTotal,omitempty"`
	// CAPITAL_CHANGE / AUTHORITY_FILING / STATUTE_CHANGE
	Description   string     `json:"description,omitempty"`
	EffectiveDate *time.Time `json:"effectiveDate,omitempty"`
	// ROADMAP
	Title string `json:"title,omitempty"`
}

// WizardSession is an ephemeral corporate action registration in progress.
// Sessions live in memory only; closing one discards it entirely.
type WizardSession struct {
	SessionID  string              `json:"sessionID"`
	ActionType CorporateActionType `json:"actionType,omitempty"`
	Step       WizardStep          `json:"step"`
	Data       CorporateActionData `json:"data"`
	CreatedAt  time.Time           `json:"createdAt"`
	CreatedBy  string              `json:"createdBy"`
}
