// Package sif implements the UAE WPS Salary Information File format: a pure,
// deterministic fixed-width text codec with no network or storage side effects.
package sif

// Record type literals.
const (
	RecordTypeEDR = "EDR"
	RecordTypeSDR = "SDR"
)

// Currency is the only currency WPS files carry.
const Currency = "AED"

// SalaryFrequencyMonthly is the only frequency the regulator accepts.
const SalaryFrequencyMonthly = "M"

// DefaultDaysWorked is used when a line does not carry an explicit day count.
const DefaultDaysWorked = 30

// EDR (employer header record) field widths. Total record width 91 bytes.
const (
	widthRecordType  = 3
	widthEmployerID  = 15
	widthRouting     = 9
	widthAccount     = 34
	widthMonth       = 2
	widthYear        = 4
	widthRecordCount = 6
	widthAmount      = 15
	widthCurrency    = 3

	// EDRWidth is the exact byte length of an employer header record.
	EDRWidth = widthRecordType + widthEmployerID + widthRouting + widthAccount +
		widthMonth + widthYear + widthRecordCount + widthAmount + widthCurrency
)

// SDR (per-employee detail record) field widths. Total record width 150 bytes.
const (
	widthEmployeeID = 15
	widthSalaryDate = 8
	widthFrequency  = 1
	widthDays       = 2

	// SDRWidth is the exact byte length of a salary detail record.
	SDRWidth = widthRecordType + widthEmployeeID + widthRouting + widthAccount +
		widthSalaryDate + widthFrequency + widthDays +
		5*widthAmount + widthCurrency
)
