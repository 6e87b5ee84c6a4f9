package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/models"
)

// ToModelRule converts a domain ValidationRule to its persisted form,
// serialising the parameter block to JSON.
func ToModelRule(d domain.ValidationRule) (models.ValidationRule, error) {
	params, err := json.Marshal(d.Params)
	if err != nil {
		return models.ValidationRule{}, fmt.Errorf("marshalling rule params for %s: %w", d.Code, err)
	}
	return models.ValidationRule{
		RuleID:      d.RuleID,
		Code:        d.Code,
		Name:        d.Name,
		Sequence:    d.Sequence,
		Type:        string(d.Type),
		Scope:       string(d.Scope),
		Field:       d.Field,
		Params:      params,
		Severity:    string(d.Severity),
		Message:     d.Message,
		HelpText:    d.HelpText,
		Active:      d.Active,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainRule converts a persisted rule row back to the domain form.
func ToDomainRule(m models.ValidationRule) (domain.ValidationRule, error) {
	var params domain.RuleParams
	if len(m.Params) > 0 {
		if err := json.Unmarshal(m.Params, &params); err != nil {
			return domain.ValidationRule{}, fmt.Errorf("unmarshalling rule params for %s: %w", m.Code, err)
		}
	}
	return domain.ValidationRule{
		RuleID:      m.RuleID,
		Code:        m.Code,
		Name:        m.Name,
		Sequence:    m.Sequence,
		Type:        domain.RuleType(m.Type),
		Scope:       domain.RuleScope(m.Scope),
		Field:       m.Field,
		Params:      params,
		Severity:    domain.Severity(m.Severity),
		Message:     m.Message,
		HelpText:    m.HelpText,
		Active:      m.Active,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelResult converts a domain ValidationResult header to its persisted form.
func ToModelResult(d domain.ValidationResult) models.ValidationResult {
	return models.ValidationResult{
		ResultID:    d.ResultID,
		BatchID:     d.BatchID,
		ValidatedAt: d.ValidatedAt,
		ValidatedBy: d.ValidatedBy,
		TotalRules:  d.TotalRules,
		Passed:      d.Passed,
		Failed:      d.Failed,
		Warnings:    d.Warnings,
		Status:      string(d.Status),
		CanSubmit:   d.CanSubmit,
	}
}

// ToDomainResult converts a persisted result header back to the domain form.
func ToDomainResult(m models.ValidationResult) domain.ValidationResult {
	return domain.ValidationResult{
		ResultID:    m.ResultID,
		BatchID:     m.BatchID,
		ValidatedAt: m.ValidatedAt,
		ValidatedBy: m.ValidatedBy,
		TotalRules:  m.TotalRules,
		Passed:      m.Passed,
		Failed:      m.Failed,
		Warnings:    m.Warnings,
		Status:      domain.ValidationStatus(m.Status),
		CanSubmit:   m.CanSubmit,
	}
}

// ToModelResultLine converts one rule outcome to its persisted form.
func ToModelResultLine(resultID string, d domain.ValidationResultLine) models.ValidationResultLine {
	return models.ValidationResultLine{
		ResultID:     resultID,
		RuleID:       d.RuleID,
		RuleCode:     d.RuleCode,
		RuleName:     d.RuleName,
		Field:        d.Field,
		Passed:       d.Passed,
		Severity:     string(d.Severity),
		Message:      d.Message,
		HelpText:     d.HelpText,
		LineID:       d.LineID,
		EmployeeID:   d.EmployeeID,
		EmployeeName: d.EmployeeName,
	}
}

// ToDomainResultLine converts a persisted outcome row back to the domain form.
func ToDomainResultLine(m models.ValidationResultLine) domain.ValidationResultLine {
	return domain.ValidationResultLine{
		RuleID:       m.RuleID,
		RuleCode:     m.RuleCode,
		RuleName:     m.RuleName,
		Field:        m.Field,
		Passed:       m.Passed,
		Severity:     domain.Severity(m.Severity),
		Message:      m.Message,
		HelpText:     m.HelpText,
		LineID:       m.LineID,
		EmployeeID:   m.EmployeeID,
		EmployeeName: m.EmployeeName,
	}
}
