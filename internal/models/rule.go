package models

import "time"

// ValidationRule is the persisted form of a declarative check.
// Params is the JSONB-encoded rule parameter block.
type ValidationRule struct {
	RuleID   string `db:"rule_id"`
	Code     string `db:"code"`
	Name     string `db:"name"`
	Sequence int    `db:"sequence"`
	Type     string `db:"rule_type"`
	Scope    string `db:"scope"`
	Field    string `db:"field_name"` // Nullable
	Params   []byte `db:"params"`     // JSONB
	Severity string `db:"severity"`
	Message  string `db:"message"`
	HelpText string `db:"help_text"` // Nullable
	Active   bool   `db:"active"`
	AuditFields
}

// ValidationResult is the persisted header of one evaluation run.
type ValidationResult struct {
	ResultID    string    `db:"result_id"`
	BatchID     string    `db:"batch_id"`
	ValidatedAt time.Time `db:"validated_at"`
	ValidatedBy string    `db:"validated_by"`
	TotalRules  int       `db:"total_rules"`
	Passed      int       `db:"passed"`
	Failed      int       `db:"failed"`
	Warnings    int       `db:"warnings"`
	Status      string    `db:"status"`
	CanSubmit   bool      `db:"can_submit"`
}

// ValidationResultLine is one recorded rule outcome within a run.
type ValidationResultLine struct {
	ResultID     string `db:"result_id"`
	RuleID       string `db:"rule_id"`
	RuleCode     string `db:"rule_code"`
	RuleName     string `db:"rule_name"`
	Field        string `db:"field_name"` // Nullable
	Passed       bool   `db:"passed"`
	Severity     string `db:"severity"`
	Message      string `db:"message"`     // Nullable
	HelpText     string `db:"help_text"`   // Nullable
	LineID       string `db:"line_id"`     // Nullable, empty means file header
	EmployeeID   string `db:"employee_id"` // Nullable
	EmployeeName string `db:"employee_name"` // Nullable
}
