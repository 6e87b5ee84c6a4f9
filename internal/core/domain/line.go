package domain

import "github.com/shopspring/decimal"

// PaymentStatus tracks the per-employee outcome after bank reconciliation.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// WpsLine is one employee's salary entry in a WPS batch.
// Optional source fields (allowances not present on every contract) are
// resolved to zero at assembly time; downstream code never probes for them.
type WpsLine struct {
	LineID     string `json:"lineID"`
	BatchID    string `json:"batchID"`
	EmployeeID string `json:"employeeID"` // internal employee reference

	// Identification: Emirates ID preferred, labour card as fallback.
	EmiratesID   string `json:"emiratesID,omitempty"`
	LabourCardNo string `json:"labourCardNo,omitempty"`

	// Bank details. Empty when the employee has no resolvable bank account;
	// absence is a validation failure, never a silent skip.
	BankCode      string `json:"bankCode,omitempty"` // WPS routing code
	AccountNumber string `json:"accountNumber,omitempty"`
	IBAN          string `json:"iban,omitempty"`

	DaysWorked int `json:"daysWorked"`

	BasicSalary        decimal.Decimal `json:"basicSalary"`
	HousingAllowance   decimal.Decimal `json:"housingAllowance"`
	TransportAllowance decimal.Decimal `json:"transportAllowance"`
	OtherAllowance     decimal.Decimal `json:"otherAllowance"`
	Overtime           decimal.Decimal `json:"overtime"`
	LeaveSalary        decimal.Decimal `json:"leaveSalary"`
	Deductions         decimal.Decimal `json:"deductions"`
	NetSalary          decimal.Decimal `json:"netSalary"`

	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// WPSIdentifier returns the identifier that goes into the SDR: Emirates ID
// when present, otherwise the labour card number.
func (l *WpsLine) WPSIdentifier() string {
	if l.EmiratesID != "" {
		return l.EmiratesID
	}
	return l.LabourCardNo
}

// BankAccount returns the account identifier for the SDR, preferring the
// plain account number over the IBAN as the original filings did.
func (l *WpsLine) BankAccount() string {
	if l.AccountNumber != "" {
		return l.AccountNumber
	}
	return l.IBAN
}

// GrossSalary is the sum of all earning components.
func (l *WpsLine) GrossSalary() decimal.Decimal {
	return l.BasicSalary.
		Add(l.HousingAllowance).
		Add(l.TransportAllowance).
		Add(l.OtherAllowance).
		Add(l.Overtime).
		Add(l.LeaveSalary)
}

// ExpectedNet is gross minus deductions. NetSalary must equal this; the
// engine validates the reconciliation rather than silently correcting it.
func (l *WpsLine) ExpectedNet() decimal.Decimal {
	return l.GrossSalary().Sub(l.Deductions)
}

// NetReconciles reports whether the stored net salary matches the component sum.
func (l *WpsLine) NetReconciles() bool {
	return l.NetSalary.Equal(l.ExpectedNet())
}

// OtherAllowanceTotal is the summed "other allowance" column of the SDR:
// transport + other + overtime + leave.
func (l *WpsLine) OtherAllowanceTotal() decimal.Decimal {
	return l.TransportAllowance.
		Add(l.OtherAllowance).
		Add(l.Overtime).
		Add(l.LeaveSalary)
}
