package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Submission is the persisted form of one transmission attempt record.
type Submission struct {
	SubmissionID string `db:"submission_id"`
	Reference    string `db:"reference"`
	BatchID      string `db:"batch_id"`
	ConnectionID string `db:"connection_id"`
	Type         string `db:"submission_type"`
	State        string `db:"state"`

	FileName string `db:"file_name"`
	FileHash string `db:"file_hash"`
	FileSize int    `db:"file_size"`

	BankReference       string `db:"bank_reference"`        // Nullable
	BankResponseCode    string `db:"bank_response_code"`    // Nullable
	BankResponseMessage string `db:"bank_response_message"` // Nullable

	RetryCount int    `db:"retry_count"`
	MaxRetries int    `db:"max_retries"`
	LastError  string `db:"last_error"` // Nullable

	SubmittedAt     *time.Time `db:"submitted_at"`     // Nullable
	ProcessingStart *time.Time `db:"processing_start"` // Nullable
	ProcessingEnd   *time.Time `db:"processing_end"`   // Nullable
	AuditFields
}

// ComplianceRecord is the persisted per-period WPS compliance snapshot.
type ComplianceRecord struct {
	RecordID         string          `db:"record_id"`
	PeriodMonth      int             `db:"period_month"`
	PeriodYear       int             `db:"period_year"`
	BatchID          string          `db:"batch_id"`
	TotalEmployees   int             `db:"total_employees"`
	EmployeesPaid    int             `db:"employees_paid"`
	EmployeesNotPaid int             `db:"employees_not_paid"`
	TotalSalaryDue   decimal.Decimal `db:"total_salary_due"`
	TotalSalaryPaid  decimal.Decimal `db:"total_salary_paid"`
	AuditFields
}

// Reconciliation is the persisted header of one reconciliation run.
type Reconciliation struct {
	ReconciliationID string    `db:"reconciliation_id"`
	BatchID          string    `db:"batch_id"`
	RunAt            time.Time `db:"run_at"`
	State            string    `db:"state"`

	TotalEmployees int             `db:"total_employees"`
	Matched        int             `db:"matched"`
	Unmatched      int             `db:"unmatched"`
	TotalWps       decimal.Decimal `db:"total_wps"`
	TotalBank      decimal.Decimal `db:"total_bank"`
	Difference     decimal.Decimal `db:"difference"`
	AuditFields
}

// ReconciliationLine is one per-employee match outcome within a run.
type ReconciliationLine struct {
	ReconciliationID string          `db:"reconciliation_id"`
	LineID           string          `db:"line_id"`
	EmployeeID       string          `db:"employee_id"`
	WpsAmount        decimal.Decimal `db:"wps_amount"`
	BankAmount       decimal.Decimal `db:"bank_amount"`
	State            string          `db:"state"`
}
