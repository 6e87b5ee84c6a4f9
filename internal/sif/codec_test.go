package sif_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/sif"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func sampleBatch() *domain.WpsBatch {
	return &domain.WpsBatch{
		BatchID:         "b-1",
		EmployerID:      "201234567890123",
		EmployerRouting: "102310101",
		EmployerAccount: "AE070331234567890123456",
		Period:          domain.Period{Month: 8, Year: 2025},
		SalaryDate:      time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC),
		Lines: []domain.WpsLine{
			{
				EmiratesID:         "784198712345678",
				BankCode:           "302620122",
				AccountNumber:      "1012003456789",
				DaysWorked:         30,
				BasicSalary:        d("5000.00"),
				HousingAllowance:   d("1250.00"),
				TransportAllowance: d("500.00"),
				NetSalary:          d("6750.00"),
			},
		},
	}
}

func TestEncode_SingleLine(t *testing.T) {
	data, err := sif.Encode(sampleBatch())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	edr, sdr := lines[0], lines[1]
	assert.Len(t, edr, sif.EDRWidth)
	assert.Len(t, sdr, sif.SDRWidth)

	assert.True(t, strings.HasPrefix(edr, "EDR201234567890123"))
	assert.Contains(t, edr, "082025")
	// Record count and total net salary in fils.
	assert.Contains(t, edr, "000001"+"000000000675000"+"AED")

	assert.True(t, strings.HasPrefix(sdr, "SDR784198712345678"))
	// Salary date, frequency, days worked.
	assert.Contains(t, sdr, "20250828"+"M"+"30")
	// Net salary field in fils.
	assert.Contains(t, sdr, "000000000675000")
	assert.True(t, strings.HasSuffix(sdr, "AED"))
}

func TestEncode_NonIntegralFils(t *testing.T) {
	batch := sampleBatch()
	batch.Lines[0].NetSalary = d("6750.005")
	batch.Lines[0].BasicSalary = d("5000.005")

	_, err := sif.Encode(batch)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFormat)
	assert.Contains(t, err.Error(), "non-integral fils")
}

func TestEncode_MissingHeaderFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.WpsBatch)
	}{
		{"missing employer ID", func(b *domain.WpsBatch) { b.EmployerID = "" }},
		{"missing employer account", func(b *domain.WpsBatch) { b.EmployerAccount = "" }},
		{"invalid period", func(b *domain.WpsBatch) { b.Period.Month = 13 }},
		{"zero salary date", func(b *domain.WpsBatch) { b.SalaryDate = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := sampleBatch()
			tt.mutate(batch)
			_, err := sif.Encode(batch)
			assert.ErrorIs(t, err, apperrors.ErrFormat)
		})
	}
}

func TestEncode_TruncatesOverlongText(t *testing.T) {
	batch := sampleBatch()
	batch.Lines[0].AccountNumber = strings.Repeat("9", 40) // wider than the 34-byte column

	data, err := sif.Encode(batch)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines[1], sif.SDRWidth)
}

func TestEncode_NegativeAmountRejected(t *testing.T) {
	batch := sampleBatch()
	batch.Lines[0].Deductions = d("-10.00")

	_, err := sif.Encode(batch)
	assert.ErrorIs(t, err, apperrors.ErrFormat)
}

func TestRoundTrip(t *testing.T) {
	batch := sampleBatch()
	batch.Lines = append(batch.Lines, domain.WpsLine{
		LabourCardNo:  "45678912",
		BankCode:      "101210101",
		IBAN:          "AE120260001015012345678",
		DaysWorked:    28,
		BasicSalary:   d("3000.00"),
		Overtime:      d("150.75"),
		Deductions:    d("100.00"),
		NetSalary:     d("3050.75"),
	})

	data, err := sif.Encode(batch)
	require.NoError(t, err)

	file, err := sif.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, batch.EmployerID, file.Header.EmployerID)
	assert.Equal(t, 8, file.Header.Month)
	assert.Equal(t, 2025, file.Header.Year)
	assert.Equal(t, 2, file.Header.RecordCount)
	assert.True(t, d("9800.75").Equal(file.Header.TotalNet))

	require.Len(t, file.Records, 2)
	first, second := file.Records[0], file.Records[1]
	assert.Equal(t, "784198712345678", first.EmployeeID)
	assert.True(t, d("6750.00").Equal(first.NetSalary))
	assert.Equal(t, "45678912", second.EmployeeID)
	assert.True(t, d("3050.75").Equal(second.NetSalary))
	assert.True(t, d("150.75").Equal(second.OtherAllowance))
	assert.Equal(t, 28, second.DaysWorked)
}

func TestDecode_RejectsBadLengths(t *testing.T) {
	data, err := sif.Encode(sampleBatch())
	require.NoError(t, err)

	// Chop one byte off the detail record.
	mangled := strings.Replace(string(data), "AED\n", "AE\n", 1)
	_, err = sif.Decode([]byte(mangled))
	assert.ErrorIs(t, err, apperrors.ErrFormat)
}

func TestDecode_RecordCountMismatch(t *testing.T) {
	data, err := sif.Encode(sampleBatch())
	require.NoError(t, err)

	lines := strings.SplitAfter(string(data), "\n")
	// Duplicate the detail record without touching the header count.
	mangled := lines[0] + lines[1] + lines[1]
	_, err = sif.Decode([]byte(mangled))
	assert.ErrorIs(t, err, apperrors.ErrFormat)
}

func TestEncode_Deterministic(t *testing.T) {
	batch := sampleBatch()
	a, err := sif.Encode(batch)
	require.NoError(t, err)
	b, err := sif.Encode(batch)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
