package sif

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
)

var hundred = decimal.NewFromInt(100)

// padText left-justifies and space-pads a free-text field to its exact width,
// truncating overflow. Regulator files have hard column counts.
func padText(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padInt zero-pads a non-negative integer to its exact width. Overflow is a
// format error, never truncation: a mangled amount is worse than no file.
func padInt(v int64, width int) (string, error) {
	if v < 0 {
		return "", fmt.Errorf("%w: negative value %d in numeric field", apperrors.ErrFormat, v)
	}
	s := strconv.FormatInt(v, 10)
	if len(s) > width {
		return "", fmt.Errorf("%w: value %d exceeds field width %d", apperrors.ErrFormat, v, width)
	}
	return strings.Repeat("0", width-len(s)) + s, nil
}

// fils converts an AED amount to an integer count of fils (amount x 100).
// An amount whose fils component is non-integral is rejected, not rounded.
func fils(amount decimal.Decimal, field string) (int64, error) {
	v := amount.Mul(hundred)
	if !v.IsInteger() {
		return 0, fmt.Errorf("%w: %s amount %s has a non-integral fils component",
			apperrors.ErrFormat, field, amount.String())
	}
	if v.Sign() < 0 {
		return 0, fmt.Errorf("%w: %s amount %s is negative", apperrors.ErrFormat, field, amount.String())
	}
	return v.IntPart(), nil
}

// Encode renders a batch as a SIF file: one EDR followed by one SDR per line,
// in line order, each record newline-terminated. Header totals are re-derived
// from the lines and cross-checked; a cached total is never trusted.
func Encode(batch *domain.WpsBatch) ([]byte, error) {
	if batch.EmployerID == "" {
		return nil, fmt.Errorf("%w: employer ID is required", apperrors.ErrFormat)
	}
	if batch.EmployerAccount == "" {
		return nil, fmt.Errorf("%w: employer account is required", apperrors.ErrFormat)
	}
	if !batch.Period.Valid() {
		return nil, fmt.Errorf("%w: invalid salary period %02d/%04d",
			apperrors.ErrFormat, batch.Period.Month, batch.Period.Year)
	}
	if batch.SalaryDate.IsZero() {
		return nil, fmt.Errorf("%w: salary date is required", apperrors.ErrFormat)
	}

	var sb strings.Builder
	sb.Grow(EDRWidth + 1 + len(batch.Lines)*(SDRWidth+1))

	// Detail records first: the header needs the summed fils over all lines.
	totalNetFils := int64(0)
	records := make([]string, 0, len(batch.Lines))
	for i := range batch.Lines {
		rec, netFils, err := encodeSDR(&batch.Lines[i], batch.SalaryDate)
		if err != nil {
			return nil, err
		}
		totalNetFils += netFils
		records = append(records, rec)
	}

	// Cross-check against the independent derivation over domain totals.
	derived, err := fils(batch.Totals().Net, "total net")
	if err != nil {
		return nil, err
	}
	if derived != totalNetFils {
		return nil, fmt.Errorf("%w: header total %d fils disagrees with line sum %d fils",
			apperrors.ErrFormat, derived, totalNetFils)
	}

	header, err := encodeEDR(batch, len(records), totalNetFils)
	if err != nil {
		return nil, err
	}

	sb.WriteString(header)
	sb.WriteByte('\n')
	for _, rec := range records {
		sb.WriteString(rec)
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

func encodeEDR(batch *domain.WpsBatch, recordCount int, totalNetFils int64) (string, error) {
	count, err := padInt(int64(recordCount), widthRecordCount)
	if err != nil {
		return "", err
	}
	total, err := padInt(totalNetFils, widthAmount)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(EDRWidth)
	sb.WriteString(RecordTypeEDR)
	sb.WriteString(padText(batch.EmployerID, widthEmployerID))
	sb.WriteString(padText(batch.EmployerRouting, widthRouting))
	sb.WriteString(padText(batch.EmployerAccount, widthAccount))
	sb.WriteString(fmt.Sprintf("%02d", batch.Period.Month))
	sb.WriteString(fmt.Sprintf("%04d", batch.Period.Year))
	sb.WriteString(count)
	sb.WriteString(total)
	sb.WriteString(Currency)
	return sb.String(), nil
}

func encodeSDR(line *domain.WpsLine, salaryDate time.Time) (string, int64, error) {
	days := line.DaysWorked
	if days <= 0 {
		days = DefaultDaysWorked
	}
	daysField, err := padInt(int64(days), widthDays)
	if err != nil {
		return "", 0, err
	}

	netFils, err := fils(line.NetSalary, "net salary")
	if err != nil {
		return "", 0, err
	}

	amounts := make([]string, 0, 5)
	for _, a := range []struct {
		value decimal.Decimal
		field string
	}{
		{line.NetSalary, "net salary"},
		{line.BasicSalary, "basic salary"},
		{line.HousingAllowance, "housing allowance"},
		{line.OtherAllowanceTotal(), "other allowance"},
		{line.Deductions, "deductions"},
	} {
		f, err := fils(a.value, a.field)
		if err != nil {
			return "", 0, err
		}
		padded, err := padInt(f, widthAmount)
		if err != nil {
			return "", 0, err
		}
		amounts = append(amounts, padded)
	}

	var sb strings.Builder
	sb.Grow(SDRWidth)
	sb.WriteString(RecordTypeSDR)
	sb.WriteString(padText(line.WPSIdentifier(), widthEmployeeID))
	sb.WriteString(padText(line.BankCode, widthRouting))
	sb.WriteString(padText(line.BankAccount(), widthAccount))
	sb.WriteString(salaryDate.Format("20060102"))
	sb.WriteString(SalaryFrequencyMonthly)
	sb.WriteString(daysField)
	for _, a := range amounts {
		sb.WriteString(a)
	}
	sb.WriteString(Currency)
	return sb.String(), netFils, nil
}

// Header is a decoded EDR.
type Header struct {
	EmployerID      string
	EmployerRouting string
	EmployerAccount string
	Month           int
	Year            int
	RecordCount     int
	TotalNet        decimal.Decimal
}

// Record is a decoded SDR.
type Record struct {
	EmployeeID     string
	BankCode       string
	Account        string
	SalaryDate     time.Time
	DaysWorked     int
	NetSalary      decimal.Decimal
	BasicSalary    decimal.Decimal
	Housing        decimal.Decimal
	OtherAllowance decimal.Decimal
	Deductions     decimal.Decimal
}

// File is the decoded form of a SIF or bank acknowledgement file.
type File struct {
	Header  Header
	Records []Record
}

// Decode is the structural inverse of Encode: it slices fixed-width columns
// per the layout table and rejects any record whose length does not match.
func Decode(data []byte) (*File, error) {
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, fmt.Errorf("%w: empty file", apperrors.ErrFormat)
	}

	header, err := decodeEDR(lines[0])
	if err != nil {
		return nil, err
	}

	file := &File{Header: *header}
	for i, raw := range lines[1:] {
		rec, err := decodeSDR(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		file.Records = append(file.Records, *rec)
	}

	if header.RecordCount != len(file.Records) {
		return nil, fmt.Errorf("%w: header declares %d records, file carries %d",
			apperrors.ErrFormat, header.RecordCount, len(file.Records))
	}
	return file, nil
}

func decodeEDR(raw string) (*Header, error) {
	if len(raw) != EDRWidth {
		return nil, fmt.Errorf("%w: header record is %d bytes, want %d", apperrors.ErrFormat, len(raw), EDRWidth)
	}
	if raw[:widthRecordType] != RecordTypeEDR {
		return nil, fmt.Errorf("%w: first record is not an EDR", apperrors.ErrFormat)
	}

	cur := newCursor(raw, widthRecordType)
	h := &Header{
		EmployerID:      strings.TrimRight(cur.next(widthEmployerID), " "),
		EmployerRouting: strings.TrimRight(cur.next(widthRouting), " "),
		EmployerAccount: strings.TrimRight(cur.next(widthAccount), " "),
	}
	var err error
	if h.Month, err = atoiField(cur.next(widthMonth), "salary month"); err != nil {
		return nil, err
	}
	if h.Year, err = atoiField(cur.next(widthYear), "salary year"); err != nil {
		return nil, err
	}
	if h.RecordCount, err = atoiField(cur.next(widthRecordCount), "record count"); err != nil {
		return nil, err
	}
	totalFils, err := atoi64Field(cur.next(widthAmount), "total salary")
	if err != nil {
		return nil, err
	}
	h.TotalNet = decimal.NewFromInt(totalFils).Div(hundred)
	if c := cur.next(widthCurrency); c != Currency {
		return nil, fmt.Errorf("%w: unexpected currency %q", apperrors.ErrFormat, c)
	}
	return h, nil
}

func decodeSDR(raw string) (*Record, error) {
	if len(raw) != SDRWidth {
		return nil, fmt.Errorf("%w: detail record is %d bytes, want %d", apperrors.ErrFormat, len(raw), SDRWidth)
	}
	if raw[:widthRecordType] != RecordTypeSDR {
		return nil, fmt.Errorf("%w: detail record does not start with SDR", apperrors.ErrFormat)
	}

	cur := newCursor(raw, widthRecordType)
	r := &Record{
		EmployeeID: strings.TrimRight(cur.next(widthEmployeeID), " "),
		BankCode:   strings.TrimRight(cur.next(widthRouting), " "),
		Account:    strings.TrimRight(cur.next(widthAccount), " "),
	}

	date, err := time.Parse("20060102", cur.next(widthSalaryDate))
	if err != nil {
		return nil, fmt.Errorf("%w: bad salary date: %v", apperrors.ErrFormat, err)
	}
	r.SalaryDate = date

	if f := cur.next(widthFrequency); f != SalaryFrequencyMonthly {
		return nil, fmt.Errorf("%w: unsupported salary frequency %q", apperrors.ErrFormat, f)
	}
	if r.DaysWorked, err = atoiField(cur.next(widthDays), "days worked"); err != nil {
		return nil, err
	}

	for _, dst := range []*decimal.Decimal{
		&r.NetSalary, &r.BasicSalary, &r.Housing, &r.OtherAllowance, &r.Deductions,
	} {
		f, err := atoi64Field(cur.next(widthAmount), "amount")
		if err != nil {
			return nil, err
		}
		*dst = decimal.NewFromInt(f).Div(hundred)
	}
	if c := cur.next(widthCurrency); c != Currency {
		return nil, fmt.Errorf("%w: unexpected currency %q", apperrors.ErrFormat, c)
	}
	return r, nil
}

type cursor struct {
	s   string
	pos int
}

func newCursor(s string, start int) *cursor {
	return &cursor{s: s, pos: start}
}

func (c *cursor) next(width int) string {
	field := c.s[c.pos : c.pos+width]
	c.pos += width
	return field
}

func atoiField(s, field string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s %q", apperrors.ErrFormat, field, s)
	}
	return v, nil
}

func atoi64Field(s, field string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s %q", apperrors.ErrFormat, field, s)
	}
	return v, nil
}
