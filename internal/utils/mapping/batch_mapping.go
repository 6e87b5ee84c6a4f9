package mapping

import (
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/models"
)

// ToModelBatch converts a domain WpsBatch to its persisted form. Lines travel
// separately; the model row never embeds them.
func ToModelBatch(d domain.WpsBatch) models.WpsBatch {
	return models.WpsBatch{
		BatchID:         d.BatchID,
		Reference:       d.Reference,
		EmployerID:      d.EmployerID,
		EmployerRouting: d.EmployerRouting,
		EmployerAccount: d.EmployerAccount,
		PeriodMonth:     d.Period.Month,
		PeriodYear:      d.Period.Year,
		SalaryDate:      d.SalaryDate,
		FileType:        string(d.FileType),
		State:           string(d.State),
		SIFFilename:     d.SIFFilename,
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBatch converts a persisted batch row back to the domain form.
func ToDomainBatch(m models.WpsBatch) domain.WpsBatch {
	return domain.WpsBatch{
		BatchID:         m.BatchID,
		Reference:       m.Reference,
		EmployerID:      m.EmployerID,
		EmployerRouting: m.EmployerRouting,
		EmployerAccount: m.EmployerAccount,
		Period:          domain.Period{Month: m.PeriodMonth, Year: m.PeriodYear},
		SalaryDate:      m.SalaryDate,
		FileType:        domain.FileType(m.FileType),
		State:           domain.BatchState(m.State),
		SIFFilename:     m.SIFFilename,
		Notes:           m.Notes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLine converts a domain WpsLine to its persisted form.
func ToModelLine(d domain.WpsLine) models.WpsLine {
	return models.WpsLine{
		LineID:             d.LineID,
		BatchID:            d.BatchID,
		EmployeeID:         d.EmployeeID,
		EmiratesID:         d.EmiratesID,
		LabourCardNo:       d.LabourCardNo,
		BankCode:           d.BankCode,
		AccountNumber:      d.AccountNumber,
		IBAN:               d.IBAN,
		DaysWorked:         d.DaysWorked,
		PaymentStatus:      string(d.PaymentStatus),
		BasicSalary:        d.BasicSalary,
		HousingAllowance:   d.HousingAllowance,
		TransportAllowance: d.TransportAllowance,
		OtherAllowance:     d.OtherAllowance,
		Overtime:           d.Overtime,
		LeaveSalary:        d.LeaveSalary,
		Deductions:         d.Deductions,
		NetSalary:          d.NetSalary,
	}
}

// ToDomainLine converts a persisted line row back to the domain form.
func ToDomainLine(m models.WpsLine) domain.WpsLine {
	return domain.WpsLine{
		LineID:             m.LineID,
		BatchID:            m.BatchID,
		EmployeeID:         m.EmployeeID,
		EmiratesID:         m.EmiratesID,
		LabourCardNo:       m.LabourCardNo,
		BankCode:           m.BankCode,
		AccountNumber:      m.AccountNumber,
		IBAN:               m.IBAN,
		DaysWorked:         m.DaysWorked,
		PaymentStatus:      domain.PaymentStatus(m.PaymentStatus),
		BasicSalary:        m.BasicSalary,
		HousingAllowance:   m.HousingAllowance,
		TransportAllowance: m.TransportAllowance,
		OtherAllowance:     m.OtherAllowance,
		Overtime:           m.Overtime,
		LeaveSalary:        m.LeaveSalary,
		Deductions:         m.Deductions,
		NetSalary:          m.NetSalary,
	}
}
