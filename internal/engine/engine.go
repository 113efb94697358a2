package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"kidsbank/internal/catalog"
)

// Engine is a single account's ledger. It has no internal locking: callers
// must serialize operations against one engine (the bank service does this
// with a per-account mutex). Every operation either fully applies and
// appends one audit transaction, or rejects with a typed error and leaves
// state untouched.
type Engine struct {
	account      Account
	transactions []Transaction
	clock        Clock
	catalog      *catalog.Catalog
	catchUp      bool
	nowFn        func() time.Time
}

type Option func(*Engine)

// WithCatchUp makes AdvanceTo apply one accrual step per elapsed simulated
// day instead of the single-step behavior.
func WithCatchUp(on bool) Option {
	return func(e *Engine) { e.catchUp = on }
}

// WithNow overrides the wall-clock source used to stamp transactions.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.nowFn = now }
}

func New(snap Snapshot, cat *catalog.Catalog, opts ...Option) *Engine {
	snap = snap.Clone()
	if snap.Clock.SpeedMultiplier <= 0 {
		snap.Clock.SpeedMultiplier = DefaultSpeedMultiplier
	}
	e := &Engine{
		account:      snap.Account,
		transactions: snap.Transactions,
		clock:        snap.Clock,
		catalog:      cat,
		nowFn:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GameTimeAt derives the simulated moment for a wall-clock instant.
func (e *Engine) GameTimeAt(wallNow time.Time) time.Time {
	return DeriveGameTime(e.clock.GameTime, wallNow, e.clock.SpeedMultiplier)
}

func (e *Engine) gameNow() time.Time {
	return e.GameTimeAt(e.nowFn())
}

// Account returns a copy of the current account state.
func (e *Engine) Account() Account {
	a := e.account
	a.Loans = append([]Loan(nil), e.account.Loans...)
	a.Investments.MutualFundHoldings = append([]MutualFundHolding(nil), e.account.Investments.MutualFundHoldings...)
	a.Investments.FixedDeposits = append([]FixedDeposit(nil), e.account.Investments.FixedDeposits...)
	return a
}

// Transactions returns up to limit audit records, newest first. A limit
// of zero or less returns everything.
func (e *Engine) Transactions(limit int) []Transaction {
	n := len(e.transactions)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]Transaction(nil), e.transactions[:n]...)
}

func (e *Engine) Clock() Clock {
	c := e.clock
	if e.clock.LastProcessedDay != nil {
		d := *e.clock.LastProcessedDay
		c.LastProcessedDay = &d
	}
	return c
}

// Snapshot returns a deep copy of the full state for checkpointing.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Account:      e.account,
		Transactions: e.transactions,
		Clock:        e.clock,
	}.Clone()
}

// Restore replaces the engine state wholesale, used by the bank service to
// roll back after a failed checkpoint write.
func (e *Engine) Restore(snap Snapshot) {
	snap = snap.Clone()
	e.account = snap.Account
	e.transactions = snap.Transactions
	e.clock = snap.Clock
}

func (e *Engine) appendTransaction(kind TransactionKind, amountMicros int64, description string) {
	e.transactions = append([]Transaction{{
		ID:           uuid.NewString(),
		Kind:         kind,
		AmountMicros: amountMicros,
		Timestamp:    e.gameNow(),
		Description:  description,
	}}, e.transactions...)
}

// Deposit credits liquid cash.
func (e *Engine) Deposit(amountMicros int64) error {
	if amountMicros <= 0 {
		return ErrAmountNotPositive
	}
	e.account.BalanceMicros += amountMicros
	e.appendTransaction(TxDeposit, amountMicros, "Cash Deposit")
	return nil
}

// Withdraw debits liquid cash.
func (e *Engine) Withdraw(amountMicros int64) error {
	if amountMicros <= 0 {
		return ErrAmountNotPositive
	}
	if amountMicros > e.account.BalanceMicros {
		return ErrInsufficientBalance
	}
	e.account.BalanceMicros -= amountMicros
	e.appendTransaction(TxWithdraw, -amountMicros, "Cash Withdrawal")
	return nil
}

// OpenFixedDeposit locks cash into a term deposit at the catalog rate for
// that term. Maturity is term x 30 days after the current game time.
func (e *Engine) OpenFixedDeposit(amountMicros int64, termMonths int) error {
	if amountMicros <= 0 {
		return ErrAmountNotPositive
	}
	if amountMicros > e.account.BalanceMicros {
		return ErrInsufficientBalance
	}
	tier, err := e.catalog.FDTierByTerm(termMonths)
	if err != nil {
		return err
	}
	start := e.gameNow()
	fd := FixedDeposit{
		ID:              uuid.NewString(),
		PrincipalMicros: amountMicros,
		InterestRate:    tier.InterestRate,
		StartDate:       start,
		MaturityDate:    start.Add(time.Duration(termMonths) * daysPerMonth * 24 * time.Hour),
		TermMonths:      termMonths,
	}
	e.account.BalanceMicros -= amountMicros
	e.account.Investments.FixedDeposits = append([]FixedDeposit{fd}, e.account.Investments.FixedDeposits...)
	e.appendTransaction(TxInvestment, -amountMicros, fmt.Sprintf("Created %d-month Fixed Deposit", termMonths))
	return nil
}

// BuyMutualFund opens a holding in the given fund; cost basis and current
// value both start at the purchase amount. The fund definition is copied
// into the holding.
func (e *Engine) BuyMutualFund(amountMicros int64, fundID string) error {
	fund, err := e.catalog.FundByID(fundID)
	if err != nil {
		return err
	}
	if amountMicros <= 0 {
		return ErrAmountNotPositive
	}
	if amountMicros > e.account.BalanceMicros {
		return ErrInsufficientBalance
	}
	h := MutualFundHolding{
		ID:                 uuid.NewString(),
		Fund:               fund,
		PurchaseDate:       e.gameNow(),
		CostBasisMicros:    amountMicros,
		CurrentValueMicros: amountMicros,
	}
	e.account.BalanceMicros -= amountMicros
	e.account.Investments.MutualFundHoldings = append([]MutualFundHolding{h}, e.account.Investments.MutualFundHoldings...)
	e.appendTransaction(TxInvestment, -amountMicros, fmt.Sprintf("Invested in %s", fund.Name))
	return nil
}

// AddToEmergencyFund moves cash from the balance into the emergency pool.
// Recorded as a withdrawal: it is an outflow from liquid cash.
func (e *Engine) AddToEmergencyFund(amountMicros int64) error {
	if amountMicros <= 0 {
		return ErrAmountNotPositive
	}
	if amountMicros > e.account.BalanceMicros {
		return ErrInsufficientBalance
	}
	e.account.BalanceMicros -= amountMicros
	e.account.EmergencyFundMicros += amountMicros
	e.appendTransaction(TxWithdraw, -amountMicros, "Added to Emergency Fund")
	return nil
}

// TakeLoan disburses a loan within the product's amount and term limits.
// The monthly payment is computed here and never recomputed.
func (e *Engine) TakeLoan(loanType catalog.LoanType, amountMicros int64, termMonths int) error {
	product, err := e.catalog.LoanProduct(loanType)
	if err != nil {
		return err
	}
	if amountMicros <= 0 {
		return ErrAmountNotPositive
	}
	if amountMicros > product.MaxAmountMicros {
		return ErrAmountOverLimit
	}
	if termMonths <= 0 || termMonths > product.MaxTermMonths {
		return ErrTermOverLimit
	}
	loan := Loan{
		ID:                   uuid.NewString(),
		Type:                 loanType,
		PrincipalMicros:      amountMicros,
		InterestRate:         product.InterestRate,
		StartDate:            e.gameNow(),
		TermMonths:           termMonths,
		MonthlyPaymentMicros: MonthlyPaymentMicros(amountMicros, product.InterestRate, termMonths),
		RemainingMicros:      amountMicros,
	}
	e.account.BalanceMicros += amountMicros
	e.account.Loans = append([]Loan{loan}, e.account.Loans...)
	e.appendTransaction(TxLoanDisbursement, amountMicros, fmt.Sprintf("%s Loan Disbursement", loanType))
	return nil
}
