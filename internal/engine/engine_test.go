package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsbank/internal/catalog"
)

var wallStart = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	snap := NewSnapshot(wallStart, DefaultSpeedMultiplier)
	opts = append([]Option{WithNow(func() time.Time { return wallStart })}, opts...)
	return New(snap, catalog.Default(), opts...)
}

func TestDepositAppendsTransaction(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Deposit(100*MicrosPerUnit))

	acct := e.Account()
	assert.Equal(t, int64(1_100)*MicrosPerUnit, acct.BalanceMicros)

	txs := e.Transactions(0)
	require.Len(t, txs, 1)
	assert.Equal(t, TxDeposit, txs[0].Kind)
	assert.Equal(t, int64(100)*MicrosPerUnit, txs[0].AmountMicros)
	assert.NotEmpty(t, txs[0].ID)
}

func TestWithdraw(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Withdraw(400*MicrosPerUnit))
	assert.Equal(t, int64(600)*MicrosPerUnit, e.Account().BalanceMicros)

	txs := e.Transactions(0)
	require.Len(t, txs, 1)
	assert.Equal(t, TxWithdraw, txs[0].Kind)
	assert.Equal(t, int64(-400)*MicrosPerUnit, txs[0].AmountMicros)
}

func TestRejectionsLeaveStateUntouched(t *testing.T) {
	tests := []struct {
		name string
		op   func(e *Engine) error
		want error
	}{
		{"negative withdraw", func(e *Engine) error { return e.Withdraw(-5 * MicrosPerUnit) }, ErrAmountNotPositive},
		{"zero deposit", func(e *Engine) error { return e.Deposit(0) }, ErrAmountNotPositive},
		{"overdraw", func(e *Engine) error { return e.Withdraw(5_000 * MicrosPerUnit) }, ErrInsufficientBalance},
		{"unknown fund", func(e *Engine) error { return e.BuyMutualFund(50*MicrosPerUnit, "nonexistent-id") }, ErrUnknownFund},
		{"unknown fd term", func(e *Engine) error { return e.OpenFixedDeposit(100*MicrosPerUnit, 7) }, ErrUnknownTerm},
		{"loan over amount cap", func(e *Engine) error { return e.TakeLoan(catalog.LoanPersonal, 500*MicrosPerUnit, 6) }, ErrAmountOverLimit},
		{"loan over term cap", func(e *Engine) error { return e.TakeLoan(catalog.LoanPersonal, 100*MicrosPerUnit, 9) }, ErrTermOverLimit},
		{"unknown loan product", func(e *Engine) error { return e.TakeLoan(catalog.LoanType("PAYDAY"), 100*MicrosPerUnit, 3) }, ErrUnknownLoanProduct},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t)
			before := e.Snapshot()

			err := tc.op(e)
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, e.Snapshot())
		})
	}
}

func TestOpenFixedDeposit(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Deposit(100*MicrosPerUnit))
	require.NoError(t, e.OpenFixedDeposit(500*MicrosPerUnit, 12))

	acct := e.Account()
	assert.Equal(t, int64(600)*MicrosPerUnit, acct.BalanceMicros)
	require.Len(t, acct.Investments.FixedDeposits, 1)

	fd := acct.Investments.FixedDeposits[0]
	assert.Equal(t, int64(500)*MicrosPerUnit, fd.PrincipalMicros)
	assert.Equal(t, 0.06, fd.InterestRate)
	assert.Equal(t, 12, fd.TermMonths)
	assert.Equal(t, 360*24*time.Hour, fd.MaturityDate.Sub(fd.StartDate))

	txs := e.Transactions(0)
	require.Len(t, txs, 2)
	assert.Equal(t, TxInvestment, txs[0].Kind)
	assert.Equal(t, int64(-500)*MicrosPerUnit, txs[0].AmountMicros)
}

func TestBuyMutualFundFreezesCatalogEntry(t *testing.T) {
	cat := catalog.Default()
	snap := NewSnapshot(wallStart, DefaultSpeedMultiplier)
	e := New(snap, cat, WithNow(func() time.Time { return wallStart }))

	require.NoError(t, e.BuyMutualFund(200*MicrosPerUnit, "growth-stars"))

	// Editing the catalog after purchase must not touch the holding.
	cat.MutualFunds[1].ExpectedReturn = 0.99

	acct := e.Account()
	require.Len(t, acct.Investments.MutualFundHoldings, 1)
	h := acct.Investments.MutualFundHoldings[0]
	assert.Equal(t, 0.15, h.Fund.ExpectedReturn)
	assert.Equal(t, int64(200)*MicrosPerUnit, h.CostBasisMicros)
	assert.Equal(t, h.CostBasisMicros, h.CurrentValueMicros)
	assert.Equal(t, int64(800)*MicrosPerUnit, acct.BalanceMicros)
}

func TestAddToEmergencyFund(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.AddToEmergencyFund(300*MicrosPerUnit))

	acct := e.Account()
	assert.Equal(t, int64(700)*MicrosPerUnit, acct.BalanceMicros)
	assert.Equal(t, int64(300)*MicrosPerUnit, acct.EmergencyFundMicros)

	txs := e.Transactions(0)
	require.Len(t, txs, 1)
	assert.Equal(t, TxWithdraw, txs[0].Kind)
	assert.Equal(t, int64(-300)*MicrosPerUnit, txs[0].AmountMicros)
}

func TestTakeLoan(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.TakeLoan(catalog.LoanHome, 400*MicrosPerUnit, 12))

	acct := e.Account()
	assert.Equal(t, int64(1_400)*MicrosPerUnit, acct.BalanceMicros)
	require.Len(t, acct.Loans, 1)

	loan := acct.Loans[0]
	assert.Equal(t, catalog.LoanHome, loan.Type)
	assert.Equal(t, int64(400)*MicrosPerUnit, loan.RemainingMicros)
	assert.Equal(t, 0.07, loan.InterestRate)
	assert.Equal(t, MonthlyPaymentMicros(400*MicrosPerUnit, 0.07, 12), loan.MonthlyPaymentMicros)
	assert.InDelta(t, 34.6, MicrosToUnits(loan.MonthlyPaymentMicros), 0.2)

	txs := e.Transactions(0)
	require.Len(t, txs, 1)
	assert.Equal(t, TxLoanDisbursement, txs[0].Kind)
	assert.Equal(t, int64(400)*MicrosPerUnit, txs[0].AmountMicros)
}

func TestEveryBalanceChangeHasMatchingTransactionSign(t *testing.T) {
	e := newTestEngine(t)

	ops := []func() error{
		func() error { return e.Deposit(50 * MicrosPerUnit) },
		func() error { return e.Withdraw(20 * MicrosPerUnit) },
		func() error { return e.OpenFixedDeposit(100*MicrosPerUnit, 6) },
		func() error { return e.BuyMutualFund(100*MicrosPerUnit, "safe-debt") },
		func() error { return e.AddToEmergencyFund(30 * MicrosPerUnit) },
		func() error { return e.TakeLoan(catalog.LoanPersonal, 150*MicrosPerUnit, 6) },
	}
	for _, op := range ops {
		before := e.Account().BalanceMicros
		txCount := len(e.Transactions(0))

		require.NoError(t, op())

		delta := e.Account().BalanceMicros - before
		txs := e.Transactions(0)
		require.Len(t, txs, txCount+1)
		assert.Equal(t, delta, txs[0].AmountMicros)
		assert.GreaterOrEqual(t, e.Account().BalanceMicros, int64(0))
	}
}

func TestTransactionsLimit(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, e.Deposit(1*MicrosPerUnit))
	}
	assert.Len(t, e.Transactions(3), 3)
	assert.Len(t, e.Transactions(0), 5)
	assert.Len(t, e.Transactions(10), 5)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Deposit(25*MicrosPerUnit))
	require.NoError(t, e.TakeLoan(catalog.LoanPersonal, 100*MicrosPerUnit, 6))
	before := e.Snapshot()

	require.NoError(t, e.Withdraw(10*MicrosPerUnit))
	e.Restore(before)

	assert.Equal(t, before, e.Snapshot())
}
