package domain

import "github.com/shopspring/decimal"

// ComplianceStatus grades a monthly compliance record.
type ComplianceStatus string

const (
	CompliantFull    ComplianceStatus = "COMPLIANT"
	CompliantPartial ComplianceStatus = "PARTIAL"
	NonCompliant     ComplianceStatus = "NON_COMPLIANT"
)

// ComplianceRecord is written when a batch reaches processed: it captures, per
// period, how many employees were paid through WPS and the salary amounts involved.
type ComplianceRecord struct {
	RecordID         string          `json:"recordID"`
	Period           Period          `json:"period"`
	BatchID          string          `json:"batchID"`
	TotalEmployees   int             `json:"totalEmployees"`
	EmployeesPaid    int             `json:"employeesPaid"`
	EmployeesNotPaid int             `json:"employeesNotPaid"`
	TotalSalaryDue   decimal.Decimal `json:"totalSalaryDue"`
	TotalSalaryPaid  decimal.Decimal `json:"totalSalaryPaid"`
	AuditFields
}

// ComplianceRate is the share of employees paid through WPS, in percent.
func (c *ComplianceRecord) ComplianceRate() decimal.Decimal {
	if c.TotalEmployees == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(c.EmployeesPaid)).
		Div(decimal.NewFromInt(int64(c.TotalEmployees))).
		Mul(decimal.NewFromInt(100))
}

// Status grades the record: 100% compliant, >=80% partial, below that non-compliant.
func (c *ComplianceRecord) Status() ComplianceStatus {
	rate := c.ComplianceRate()
	switch {
	case rate.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return CompliantFull
	case rate.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return CompliantPartial
	default:
		return NonCompliant
	}
}
