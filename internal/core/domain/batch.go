package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BatchState indicates where a WPS batch is in its lifecycle.
type BatchState string

const (
	BatchDraft     BatchState = "DRAFT"
	BatchGenerated BatchState = "GENERATED" // SIF file produced
	BatchSubmitted BatchState = "SUBMITTED"
	BatchProcessed BatchState = "PROCESSED"
	BatchRejected  BatchState = "REJECTED"
	BatchCancelled BatchState = "CANCELLED"
)

// FileType distinguishes standard SIF files from non-SIF salary files.
type FileType string

const (
	FileTypeSIF    FileType = "SIF"
	FileTypeNonSIF FileType = "NON_SIF"
)

// Period identifies the salary month a batch covers.
type Period struct {
	Month int `json:"month"` // 1-12
	Year  int `json:"year"`  // 4 digits
}

// Valid reports whether the period is a real month/year pair.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= 1000 && p.Year <= 9999
}

// String renders the period as YYYYMM, the form used in SIF filenames.
func (p Period) String() string {
	return fmt.Sprintf("%04d%02d", p.Year, p.Month)
}

// WpsBatch is one monthly WPS submission for one employer.
// Totals are always derived from Lines, never stored authoritatively.
type WpsBatch struct {
	BatchID         string     `json:"batchID"`
	Reference       string     `json:"reference"` // e.g. WPS/2025/0042
	EmployerID      string     `json:"employerID"`
	EmployerRouting string     `json:"employerRouting"`
	EmployerAccount string     `json:"employerAccount"` // account number or IBAN
	Period          Period     `json:"period"`
	SalaryDate      time.Time  `json:"salaryDate"`
	FileType        FileType   `json:"fileType"`
	State           BatchState `json:"state"`
	SIFFilename     string     `json:"sifFilename,omitempty"`
	Lines           []WpsLine  `json:"lines,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	AuditFields
}

// BatchTotals holds the per-component sums over a batch's lines.
type BatchTotals struct {
	EmployeeCount int             `json:"employeeCount"`
	Basic         decimal.Decimal `json:"basic"`
	Housing       decimal.Decimal `json:"housing"`
	Transport     decimal.Decimal `json:"transport"`
	Other         decimal.Decimal `json:"other"`
	Overtime      decimal.Decimal `json:"overtime"`
	Leave         decimal.Decimal `json:"leave"`
	Deductions    decimal.Decimal `json:"deductions"`
	Net           decimal.Decimal `json:"net"`
}

// Totals re-derives all sums from the batch's lines.
func (b *WpsBatch) Totals() BatchTotals {
	t := BatchTotals{
		EmployeeCount: len(b.Lines),
		Basic:         decimal.Zero,
		Housing:       decimal.Zero,
		Transport:     decimal.Zero,
		Other:         decimal.Zero,
		Overtime:      decimal.Zero,
		Leave:         decimal.Zero,
		Deductions:    decimal.Zero,
		Net:           decimal.Zero,
	}
	for _, l := range b.Lines {
		t.Basic = t.Basic.Add(l.BasicSalary)
		t.Housing = t.Housing.Add(l.HousingAllowance)
		t.Transport = t.Transport.Add(l.TransportAllowance)
		t.Other = t.Other.Add(l.OtherAllowance)
		t.Overtime = t.Overtime.Add(l.Overtime)
		t.Leave = t.Leave.Add(l.LeaveSalary)
		t.Deductions = t.Deductions.Add(l.Deductions)
		t.Net = t.Net.Add(l.NetSalary)
	}
	return t
}

// SIFFileName returns the regulator-conventional filename for the batch.
func (b *WpsBatch) SIFFileName() string {
	return fmt.Sprintf("WPS_%s_%s.SIF", b.EmployerID, b.Period.String())
}

// IsTerminal reports whether the batch can no longer change.
func (s BatchState) IsTerminal() bool {
	return s == BatchProcessed || s == BatchCancelled
}

// CanResetToDraft reports whether the batch may be returned to draft.
// Only rejected or cancelled batches may be reworked.
func (b *WpsBatch) CanResetToDraft() bool {
	return b.State == BatchRejected || b.State == BatchCancelled
}
