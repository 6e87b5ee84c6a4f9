package domain

import "github.com/shopspring/decimal"

// EmployerScope narrows line assembly to one employer and, optionally, to a
// subset of its employees. Passed explicitly into every assembly call; there
// is no ambient company context.
type EmployerScope struct {
	CompanyID   string   `json:"companyID"`
	EmployeeIDs []string `json:"employeeIDs,omitempty"` // empty means all eligible
}

// PayrollFigures is one employee's resolved payroll input for a period.
// Allowance fields that the source contract does not carry arrive as zero;
// the assembler never probes for their presence.
type PayrollFigures struct {
	EmployeeID   string
	EmployeeName string
	EmiratesID   string
	LabourCardNo string
	DaysWorked   int

	Basic      decimal.Decimal
	Housing    decimal.Decimal
	Transport  decimal.Decimal
	Other      decimal.Decimal
	Overtime   decimal.Decimal
	Leave      decimal.Decimal
	Deductions decimal.Decimal
}

// EmployeeBankAccount is an employee's banking identifiers for WPS.
type EmployeeBankAccount struct {
	EmployeeID    string
	BankCode      string // WPS routing code
	AccountNumber string
	IBAN          string
}
