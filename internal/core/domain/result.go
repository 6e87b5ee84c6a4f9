package domain

import "time"

// ValidationStatus summarises one evaluation of a batch.
type ValidationStatus string

const (
	ValidationValid   ValidationStatus = "VALID"
	ValidationInvalid ValidationStatus = "INVALID"
	ValidationWarning ValidationStatus = "WARNING" // valid with warnings
)

// ValidationResultLine records the outcome of one rule against one record.
type ValidationResultLine struct {
	RuleID   string   `json:"ruleID"`
	RuleCode string   `json:"ruleCode"`
	RuleName string   `json:"ruleName"`
	Field    string   `json:"field,omitempty"`
	Passed   bool     `json:"passed"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message,omitempty"`
	HelpText string   `json:"helpText,omitempty"`

	// Record reference: empty LineID means the file header.
	LineID       string `json:"lineID,omitempty"`
	EmployeeID   string `json:"employeeID,omitempty"`
	EmployeeName string `json:"employeeName,omitempty"`
}

// ValidationResult is the outcome of evaluating all active rules against a batch.
// Prior results are retained for audit; the batch exposes only the latest.
type ValidationResult struct {
	ResultID    string                 `json:"resultID"`
	BatchID     string                 `json:"batchID"`
	ValidatedAt time.Time              `json:"validatedAt"`
	ValidatedBy string                 `json:"validatedBy"`
	TotalRules  int                    `json:"totalRules"`
	Passed      int                    `json:"passed"`
	Failed      int                    `json:"failed"` // error-severity failures
	Warnings    int                    `json:"warnings"`
	Status      ValidationStatus       `json:"status"`
	CanSubmit   bool                   `json:"canSubmit"`
	Lines       []ValidationResultLine `json:"lines,omitempty"`
}

// Finalize derives the counts, status and admissibility verdict from Lines.
// Admissibility is true iff zero failed error-severity rules; warnings never block.
func (r *ValidationResult) Finalize() {
	var errs, warns, passed int
	for _, l := range r.Lines {
		if l.Passed {
			passed++
			continue
		}
		switch l.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warns++
		}
	}
	r.TotalRules = len(r.Lines)
	r.Passed = passed
	r.Failed = errs
	r.Warnings = warns
	switch {
	case errs > 0:
		r.Status = ValidationInvalid
		r.CanSubmit = false
	case warns > 0:
		r.Status = ValidationWarning
		r.CanSubmit = true
	default:
		r.Status = ValidationValid
		r.CanSubmit = true
	}
}
