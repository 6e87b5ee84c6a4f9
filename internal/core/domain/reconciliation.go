package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationState summarises a reconciliation run.
type ReconciliationState string

const (
	ReconciliationDraft       ReconciliationState = "DRAFT"
	ReconciliationReconciled  ReconciliationState = "RECONCILED"
	ReconciliationPartial     ReconciliationState = "PARTIAL"
	ReconciliationDiscrepancy ReconciliationState = "DISCREPANCY"
)

// ReconciliationLineState is the match outcome for one employee.
type ReconciliationLineState string

const (
	ReconLineMatched   ReconciliationLineState = "MATCHED"
	ReconLineUnmatched ReconciliationLineState = "UNMATCHED"
	ReconLineMismatch  ReconciliationLineState = "AMOUNT_MISMATCH"
)

// ReconciliationLine pairs a batch line with what the bank acknowledged paying.
type ReconciliationLine struct {
	LineID     string                  `json:"lineID"`
	EmployeeID string                  `json:"employeeID"`
	WpsAmount  decimal.Decimal         `json:"wpsAmount"`
	BankAmount decimal.Decimal         `json:"bankAmount"`
	State      ReconciliationLineState `json:"state"`
}

// Reconciliation matches a batch against a decoded bank acknowledgement file.
type Reconciliation struct {
	ReconciliationID string              `json:"reconciliationID"`
	BatchID          string              `json:"batchID"`
	RunAt            time.Time           `json:"runAt"`
	State            ReconciliationState `json:"state"`

	TotalEmployees int             `json:"totalEmployees"`
	Matched        int             `json:"matched"`
	Unmatched      int             `json:"unmatched"`
	TotalWps       decimal.Decimal `json:"totalWps"`
	TotalBank      decimal.Decimal `json:"totalBank"`
	Difference     decimal.Decimal `json:"difference"`

	Lines []ReconciliationLine `json:"lines,omitempty"`
	AuditFields
}

// Finalize derives the summary counts and overall state from Lines.
func (r *Reconciliation) Finalize() {
	r.TotalEmployees = len(r.Lines)
	r.Matched = 0
	r.TotalWps = decimal.Zero
	r.TotalBank = decimal.Zero
	for _, l := range r.Lines {
		if l.State == ReconLineMatched {
			r.Matched++
		}
		r.TotalWps = r.TotalWps.Add(l.WpsAmount)
		r.TotalBank = r.TotalBank.Add(l.BankAmount)
	}
	r.Unmatched = r.TotalEmployees - r.Matched
	r.Difference = r.TotalWps.Sub(r.TotalBank)
	switch {
	case r.TotalEmployees == 0 || r.Matched == 0:
		r.State = ReconciliationDiscrepancy
	case r.Unmatched == 0:
		r.State = ReconciliationReconciled
	default:
		r.State = ReconciliationPartial
	}
}
