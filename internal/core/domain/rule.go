package domain

// RuleType selects which check a validation rule performs.
type RuleType string

const (
	RuleRequired    RuleType = "REQUIRED"
	RuleFormat      RuleType = "FORMAT"
	RuleRange       RuleType = "RANGE"
	RuleUnique      RuleType = "UNIQUE"
	RuleReference   RuleType = "REFERENCE"
	RuleCalculation RuleType = "CALCULATION"
	RuleBusiness    RuleType = "BUSINESS"
	RuleCompliance  RuleType = "COMPLIANCE"
)

// RuleScope determines which records a rule is evaluated against.
type RuleScope string

const (
	ScopeFile        RuleScope = "FILE" // once, against the batch header
	ScopeLine        RuleScope = "LINE" // once per WpsLine
	ScopeEmployee    RuleScope = "EMPLOYEE"
	ScopeBankAccount RuleScope = "BANK_ACCOUNT"
)

// Severity of a failing rule. Severity belongs to the rule's configuration,
// never to the check itself.
type Severity string

const (
	SeverityError   Severity = "ERROR"   // blocks submission
	SeverityWarning Severity = "WARNING" // allows override
	SeverityInfo    Severity = "INFO"    // notification only
)

// RuleParams carries the parameters a rule type needs. Only the fields
// relevant to the rule's type are consulted.
type RuleParams struct {
	Pattern       string   `json:"pattern,omitempty"`       // FORMAT
	Min           *float64 `json:"min,omitempty"`           // RANGE
	Max           *float64 `json:"max,omitempty"`           // RANGE
	AllowedValues []string `json:"allowedValues,omitempty"` // FORMAT set membership
	ReferenceSet  string   `json:"referenceSet,omitempty"`  // REFERENCE collection name
	Check         string   `json:"check,omitempty"`         // CALCULATION/BUSINESS/COMPLIANCE check key
}

// ValidationRule is a reusable, declarative check over a batch or its lines.
// Evaluation is a pure function of (record, context); a rule never mutates
// the record it checks.
type ValidationRule struct {
	RuleID   string     `json:"ruleID"`
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Sequence int        `json:"sequence"`
	Type     RuleType   `json:"type"`
	Scope    RuleScope  `json:"scope"`
	Field    string     `json:"field,omitempty"` // target field name
	Params   RuleParams `json:"params"`
	Severity Severity   `json:"severity"`
	Message  string     `json:"message"`
	HelpText string     `json:"helpText,omitempty"`
	Active   bool       `json:"active"`
	AuditFields
}
