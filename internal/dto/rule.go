package dto

import "github.com/mtc-jordan/tazweed-wps/internal/core/domain"

// CreateRuleRequest defines a new declarative validation rule.
type CreateRuleRequest struct {
	Code     string            `json:"code" binding:"required"`
	Name     string            `json:"name" binding:"required"`
	Sequence int               `json:"sequence,omitempty"`
	Type     string            `json:"type" binding:"required,oneof=REQUIRED FORMAT RANGE UNIQUE REFERENCE CALCULATION BUSINESS COMPLIANCE"`
	Scope    string            `json:"scope" binding:"required,oneof=FILE LINE EMPLOYEE BANK_ACCOUNT"`
	Field    string            `json:"field,omitempty"`
	Params   domain.RuleParams `json:"params"`
	Severity string            `json:"severity" binding:"required,oneof=ERROR WARNING INFO"`
	Message  string            `json:"message" binding:"required"`
	HelpText string            `json:"helpText,omitempty"`
}

// UpdateRuleRequest toggles or reconfigures an existing rule.
type UpdateRuleRequest struct {
	Name     *string            `json:"name,omitempty"`
	Sequence *int               `json:"sequence,omitempty"`
	Params   *domain.RuleParams `json:"params,omitempty"`
	Severity *string            `json:"severity,omitempty"`
	Message  *string            `json:"message,omitempty"`
	HelpText *string            `json:"helpText,omitempty"`
	Active   *bool              `json:"active,omitempty"`
}
