package domain_test

import (
	"testing"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestWpsLine_NetReconciles(t *testing.T) {
	tests := []struct {
		name string
		line domain.WpsLine
		want bool
	}{
		{
			name: "net equals components",
			line: domain.WpsLine{
				BasicSalary:        d("5000.00"),
				HousingAllowance:   d("1250.00"),
				TransportAllowance: d("500.00"),
				Deductions:         d("0"),
				NetSalary:          d("6750.00"),
			},
			want: true,
		},
		{
			name: "deductions bring net to zero",
			line: domain.WpsLine{
				BasicSalary: d("1000.00"),
				Deductions:  d("1000.00"),
				NetSalary:   d("0"),
			},
			want: true,
		},
		{
			name: "net off by one fil",
			line: domain.WpsLine{
				BasicSalary: d("5000.00"),
				NetSalary:   d("5000.01"),
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.line.NetReconciles())
		})
	}
}

func TestWpsLine_OtherAllowanceTotal(t *testing.T) {
	line := domain.WpsLine{
		TransportAllowance: d("500.00"),
		OtherAllowance:     d("100.50"),
		Overtime:           d("75.25"),
		LeaveSalary:        d("0"),
	}
	assert.True(t, d("675.75").Equal(line.OtherAllowanceTotal()))
}

func TestWpsLine_WPSIdentifier(t *testing.T) {
	line := domain.WpsLine{EmiratesID: "784199012345678", LabourCardNo: "12345678"}
	assert.Equal(t, "784199012345678", line.WPSIdentifier())

	line.EmiratesID = ""
	assert.Equal(t, "12345678", line.WPSIdentifier())
}

func TestWpsBatch_Totals(t *testing.T) {
	batch := domain.WpsBatch{
		Lines: []domain.WpsLine{
			{BasicSalary: d("5000"), NetSalary: d("5000")},
			{BasicSalary: d("3000"), Deductions: d("200"), NetSalary: d("2800")},
		},
	}
	totals := batch.Totals()
	assert.Equal(t, 2, totals.EmployeeCount)
	assert.True(t, d("8000").Equal(totals.Basic))
	assert.True(t, d("7800").Equal(totals.Net))
	assert.True(t, d("200").Equal(totals.Deductions))
}
