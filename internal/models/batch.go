package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WpsBatch is the persisted form of one monthly WPS submission.
// Totals are never stored; they are re-derived from the lines on read.
type WpsBatch struct {
	BatchID         string    `db:"batch_id"`
	Reference       string    `db:"reference"`
	EmployerID      string    `db:"employer_id"`
	EmployerRouting string    `db:"employer_routing"`
	EmployerAccount string    `db:"employer_account"`
	PeriodMonth     int       `db:"period_month"`
	PeriodYear      int       `db:"period_year"`
	SalaryDate      time.Time `db:"salary_date"`
	FileType        string    `db:"file_type"`
	State           string    `db:"state"`
	SIFFilename     string    `db:"sif_filename"` // Nullable
	SIFContent      []byte    `db:"sif_content"`  // Nullable
	Notes           string    `db:"notes"`
	AuditFields
}

// WpsLine is the persisted form of one employee's salary entry.
type WpsLine struct {
	LineID        string `db:"line_id"`
	BatchID       string `db:"batch_id"`
	EmployeeID    string `db:"employee_id"`
	EmiratesID    string `db:"emirates_id"`     // Nullable
	LabourCardNo  string `db:"labour_card_no"`  // Nullable
	BankCode      string `db:"bank_code"`       // Nullable
	AccountNumber string `db:"account_number"`  // Nullable
	IBAN          string `db:"iban"`            // Nullable
	DaysWorked    int    `db:"days_worked"`
	PaymentStatus string `db:"payment_status"`

	BasicSalary        decimal.Decimal `db:"basic_salary"`
	HousingAllowance   decimal.Decimal `db:"housing_allowance"`
	TransportAllowance decimal.Decimal `db:"transport_allowance"`
	OtherAllowance     decimal.Decimal `db:"other_allowance"`
	Overtime           decimal.Decimal `db:"overtime"`
	LeaveSalary        decimal.Decimal `db:"leave_salary"`
	Deductions         decimal.Decimal `db:"deductions"`
	NetSalary          decimal.Decimal `db:"net_salary"`
}
