package engine

import "math"

// MonthlyPaymentMicros computes the fixed monthly installment for an
// equal-payment loan: P*i*(1+i)^n / ((1+i)^n - 1) with i the monthly rate.
// Computed once at origination and frozen into the Loan record.
func MonthlyPaymentMicros(principalMicros int64, annualRate float64, termMonths int) int64 {
	if termMonths <= 0 {
		return 0
	}
	i := annualRate / 12
	if i == 0 {
		return int64(math.Round(float64(principalMicros) / float64(termMonths)))
	}
	pow := math.Pow(1+i, float64(termMonths))
	payment := float64(principalMicros) * i * pow / (pow - 1)
	return int64(math.Round(payment))
}

// growDaily applies one day of compounding at the given annual rate,
// approximated as rate/365 per day.
func growDaily(valueMicros int64, annualRate float64) int64 {
	return int64(math.Round(float64(valueMicros) * (1 + annualRate/365)))
}

// dailyInstallmentMicros is the flat 30-day-month slice of a monthly
// payment applied on each daily pass.
func dailyInstallmentMicros(monthlyPaymentMicros int64) int64 {
	return int64(math.Round(float64(monthlyPaymentMicros) / daysPerMonth))
}
