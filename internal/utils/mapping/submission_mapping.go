package mapping

import (
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/models"
)

// ToModelSubmission converts a domain Submission to its persisted form.
func ToModelSubmission(d domain.Submission) models.Submission {
	return models.Submission{
		SubmissionID:        d.SubmissionID,
		Reference:           d.Reference,
		BatchID:             d.BatchID,
		ConnectionID:        d.ConnectionID,
		Type:                string(d.Type),
		State:               string(d.State),
		FileName:            d.FileName,
		FileHash:            d.FileHash,
		FileSize:            d.FileSize,
		BankReference:       d.BankReference,
		BankResponseCode:    d.BankResponseCode,
		BankResponseMessage: d.BankResponseMessage,
		RetryCount:          d.RetryCount,
		MaxRetries:          d.MaxRetries,
		LastError:           d.LastError,
		SubmittedAt:         d.SubmittedAt,
		ProcessingStart:     d.ProcessingStart,
		ProcessingEnd:       d.ProcessingEnd,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSubmission converts a persisted submission row back to the domain form.
func ToDomainSubmission(m models.Submission) domain.Submission {
	return domain.Submission{
		SubmissionID:        m.SubmissionID,
		Reference:           m.Reference,
		BatchID:             m.BatchID,
		ConnectionID:        m.ConnectionID,
		Type:                domain.SubmissionType(m.Type),
		State:               domain.SubmissionState(m.State),
		FileName:            m.FileName,
		FileHash:            m.FileHash,
		FileSize:            m.FileSize,
		BankReference:       m.BankReference,
		BankResponseCode:    m.BankResponseCode,
		BankResponseMessage: m.BankResponseMessage,
		RetryCount:          m.RetryCount,
		MaxRetries:          m.MaxRetries,
		LastError:           m.LastError,
		SubmittedAt:         m.SubmittedAt,
		ProcessingStart:     m.ProcessingStart,
		ProcessingEnd:       m.ProcessingEnd,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelComplianceRecord converts a domain ComplianceRecord to its persisted form.
func ToModelComplianceRecord(d domain.ComplianceRecord) models.ComplianceRecord {
	return models.ComplianceRecord{
		RecordID:         d.RecordID,
		PeriodMonth:      d.Period.Month,
		PeriodYear:       d.Period.Year,
		BatchID:          d.BatchID,
		TotalEmployees:   d.TotalEmployees,
		EmployeesPaid:    d.EmployeesPaid,
		EmployeesNotPaid: d.EmployeesNotPaid,
		TotalSalaryDue:   d.TotalSalaryDue,
		TotalSalaryPaid:  d.TotalSalaryPaid,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainComplianceRecord converts a persisted compliance row back to the domain form.
func ToDomainComplianceRecord(m models.ComplianceRecord) domain.ComplianceRecord {
	return domain.ComplianceRecord{
		RecordID:         m.RecordID,
		Period:           domain.Period{Month: m.PeriodMonth, Year: m.PeriodYear},
		BatchID:          m.BatchID,
		TotalEmployees:   m.TotalEmployees,
		EmployeesPaid:    m.EmployeesPaid,
		EmployeesNotPaid: m.EmployeesNotPaid,
		TotalSalaryDue:   m.TotalSalaryDue,
		TotalSalaryPaid:  m.TotalSalaryPaid,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelReconciliation converts a domain Reconciliation header to its persisted form.
func ToModelReconciliation(d domain.Reconciliation) models.Reconciliation {
	return models.Reconciliation{
		ReconciliationID: d.ReconciliationID,
		BatchID:          d.BatchID,
		RunAt:            d.RunAt,
		State:            string(d.State),
		TotalEmployees:   d.TotalEmployees,
		Matched:          d.Matched,
		Unmatched:        d.Unmatched,
		TotalWps:         d.TotalWps,
		TotalBank:        d.TotalBank,
		Difference:       d.Difference,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliation converts a persisted reconciliation header back to the domain form.
func ToDomainReconciliation(m models.Reconciliation) domain.Reconciliation {
	return domain.Reconciliation{
		ReconciliationID: m.ReconciliationID,
		BatchID:          m.BatchID,
		RunAt:            m.RunAt,
		State:            domain.ReconciliationState(m.State),
		TotalEmployees:   m.TotalEmployees,
		Matched:          m.Matched,
		Unmatched:        m.Unmatched,
		TotalWps:         m.TotalWps,
		TotalBank:        m.TotalBank,
		Difference:       m.Difference,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelReconciliationLine converts one match outcome to its persisted form.
func ToModelReconciliationLine(reconciliationID string, d domain.ReconciliationLine) models.ReconciliationLine {
	return models.ReconciliationLine{
		ReconciliationID: reconciliationID,
		LineID:           d.LineID,
		EmployeeID:       d.EmployeeID,
		WpsAmount:        d.WpsAmount,
		BankAmount:       d.BankAmount,
		State:            string(d.State),
	}
}

// ToDomainReconciliationLine converts a persisted match row back to the domain form.
func ToDomainReconciliationLine(m models.ReconciliationLine) domain.ReconciliationLine {
	return domain.ReconciliationLine{
		LineID:     m.LineID,
		EmployeeID: m.EmployeeID,
		WpsAmount:  m.WpsAmount,
		BankAmount: m.BankAmount,
		State:      domain.ReconciliationLineState(m.State),
	}
}
