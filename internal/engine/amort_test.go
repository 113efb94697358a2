package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthlyPaymentClosedForm(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		months    int
	}{
		{"home style", 1000, 0.07, 12},
		{"personal style", 200, 0.12, 6},
		{"small home loan", 400, 0.07, 12},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MonthlyPaymentMicros(UnitsToMicros(tc.principal), tc.rate, tc.months)

			i := tc.rate / 12
			pow := math.Pow(1+i, float64(tc.months))
			want := tc.principal * i * pow / (pow - 1)
			assert.InDelta(t, want, MicrosToUnits(got), 1e-5)
		})
	}
}

func TestMonthlyPaymentKnownValue(t *testing.T) {
	got := MonthlyPaymentMicros(1_000*MicrosPerUnit, 0.07, 12)
	assert.InDelta(t, 86.6, MicrosToUnits(got), 0.2)
}

func TestMonthlyPaymentZeroRateSplitsEvenly(t *testing.T) {
	got := MonthlyPaymentMicros(1_200*MicrosPerUnit, 0, 12)
	assert.Equal(t, int64(100)*MicrosPerUnit, got)
}

func TestMonthlyPaymentBadTerm(t *testing.T) {
	assert.Equal(t, int64(0), MonthlyPaymentMicros(1_000*MicrosPerUnit, 0.07, 0))
}

func TestGrowDaily(t *testing.T) {
	got := growDaily(1_000*MicrosPerUnit, 0.10)
	want := int64(math.Round(1_000 * float64(MicrosPerUnit) * (1 + 0.10/365)))
	assert.Equal(t, want, got)
	assert.Greater(t, got, 1_000*MicrosPerUnit)
}

func TestDailyInstallmentIsThirtiethOfMonthly(t *testing.T) {
	monthly := MonthlyPaymentMicros(400*MicrosPerUnit, 0.07, 12)
	got := dailyInstallmentMicros(monthly)
	assert.Equal(t, int64(math.Round(float64(monthly)/30)), got)
}

func TestMicrosConversionRoundTrips(t *testing.T) {
	assert.Equal(t, int64(86_610_000), UnitsToMicros(86.61))
	assert.Equal(t, 86.61, MicrosToUnits(86_610_000))
}
