package engine

import "time"

// AdvanceTo runs the daily pass for the given simulated timestamp. The pass
// is keyed to the simulated calendar day: if the day has already been
// processed the call is a no-op, so a UI or worker may call this at any
// cadence without double-applying interest. A timestamp on or before the
// last processed day is also a silent no-op, which lets replays from a
// persisted snapshot land harmlessly.
//
// In the default mode exactly one day's accrual and amortization is applied
// no matter how many simulated days elapsed since the last pass. With
// catch-up enabled every elapsed day is applied in order.
func (e *Engine) AdvanceTo(newGameTime time.Time) error {
	if newGameTime.IsZero() {
		// A zero timestamp is a caller bug, not user input.
		return ErrZeroTime
	}
	currentDay := StartOfDay(newGameTime)

	last := e.clock.LastProcessedDay
	if last != nil && !currentDay.After(StartOfDay(*last)) {
		return nil
	}

	steps := 1
	if e.catchUp && last != nil {
		steps = int(currentDay.Sub(StartOfDay(*last)) / (24 * time.Hour))
	}
	for i := 0; i < steps; i++ {
		e.applyDay()
	}

	e.clock.LastProcessedDay = &currentDay
	return nil
}

// applyDay applies one simulated day: mutual funds compound at their frozen
// annual rate over 365 days, each open loan amortizes by a 30th of its
// monthly payment, and the combined installment leaves the balance as a
// single debit. Fixed deposits are untouched; they realize value only at
// maturity.
func (e *Engine) applyDay() {
	for i := range e.account.Investments.MutualFundHoldings {
		h := &e.account.Investments.MutualFundHoldings[i]
		h.CurrentValueMicros = growDaily(h.CurrentValueMicros, h.Fund.ExpectedReturn)
	}

	var totalPaymentMicros int64
	for i := range e.account.Loans {
		loan := &e.account.Loans[i]
		if loan.RemainingMicros <= 0 {
			continue
		}
		daily := dailyInstallmentMicros(loan.MonthlyPaymentMicros)
		loan.RemainingMicros -= daily
		if loan.RemainingMicros < 0 {
			loan.RemainingMicros = 0
		}
		totalPaymentMicros += daily
	}

	// One combined debit, no per-loan transaction. The balance floor keeps
	// the no-negative-balance invariant even when installments outrun cash.
	e.account.BalanceMicros -= totalPaymentMicros
	if e.account.BalanceMicros < 0 {
		e.account.BalanceMicros = 0
	}
}
