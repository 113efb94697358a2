// Package engine is the simulation core: it owns the account ledger, the
// transaction history and the game clock, and applies the daily accrual and
// amortization pass as simulated time advances. All money is carried as
// int64 micros (1 currency unit = 1_000_000 micros); annual rates are
// float64 fractions.
package engine

import (
	"errors"
	"math"
	"time"

	"kidsbank/internal/catalog"
)

const (
	MicrosPerUnit = int64(1_000_000)

	// StarterBalanceMicros is the liquid cash a fresh account opens with.
	StarterBalanceMicros = int64(1_000) * MicrosPerUnit

	// DefaultSpeedMultiplier maps one real second to 720 game seconds,
	// i.e. one real hour is a game month.
	DefaultSpeedMultiplier = float64(720)

	// daysPerMonth is the flat month length used for fixed-deposit
	// maturities and daily loan installments.
	daysPerMonth = 30
)

var (
	ErrAmountNotPositive   = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAmountOverLimit     = errors.New("amount exceeds product limit")
	ErrTermOverLimit       = errors.New("term exceeds product limit")
	ErrZeroTime            = errors.New("zero game time")

	// Catalog misses surface unchanged so callers can match one way.
	ErrUnknownFund        = catalog.ErrUnknownFund
	ErrUnknownTerm        = catalog.ErrUnknownTerm
	ErrUnknownLoanProduct = catalog.ErrUnknownLoanProduct
)

func UnitsToMicros(v float64) int64 {
	return int64(math.Round(v * float64(MicrosPerUnit)))
}

func MicrosToUnits(v int64) float64 {
	return float64(v) / float64(MicrosPerUnit)
}

type TransactionKind string

const (
	TxDeposit          TransactionKind = "DEPOSIT"
	TxWithdraw         TransactionKind = "WITHDRAW"
	TxInvestment       TransactionKind = "INVESTMENT"
	TxInterest         TransactionKind = "INTEREST"
	TxLoanPayment      TransactionKind = "LOAN_PAYMENT"
	TxLoanDisbursement TransactionKind = "LOAN_DISBURSEMENT"
)

// Transaction is an immutable audit record. AmountMicros is signed:
// positive for inflows to liquid cash, negative for outflows.
type Transaction struct {
	ID           string          `json:"id"`
	Kind         TransactionKind `json:"kind"`
	AmountMicros int64           `json:"amount_micros"`
	Timestamp    time.Time       `json:"timestamp"`
	Description  string          `json:"description"`
}

// FixedDeposit is a term deposit. It is written once at creation and never
// mutated; its value is realized at MaturityDate, outside the daily pass.
type FixedDeposit struct {
	ID              string    `json:"id"`
	PrincipalMicros int64     `json:"principal_micros"`
	InterestRate    float64   `json:"interest_rate"`
	StartDate       time.Time `json:"start_date"`
	MaturityDate    time.Time `json:"maturity_date"`
	TermMonths      int       `json:"term_months"`
}

// MutualFundHolding is a position in a fund. Fund is a value copy of the
// catalog entry taken at purchase time: the holding keeps compounding at
// the rate it was bought at even if the catalog is edited later.
// CurrentValueMicros is the only mutable field and only the daily pass
// writes it.
type MutualFundHolding struct {
	ID                 string             `json:"id"`
	Fund               catalog.MutualFund `json:"fund"`
	PurchaseDate       time.Time          `json:"purchase_date"`
	CostBasisMicros    int64              `json:"cost_basis_micros"`
	CurrentValueMicros int64              `json:"current_value_micros"`
}

// Loan is a liability. MonthlyPaymentMicros is frozen at origination.
// RemainingMicros is decremented by the daily pass and floored at zero;
// a settled loan stays on the account.
type Loan struct {
	ID                   string           `json:"id"`
	Type                 catalog.LoanType `json:"type"`
	PrincipalMicros      int64            `json:"principal_micros"`
	InterestRate         float64          `json:"interest_rate"`
	StartDate            time.Time        `json:"start_date"`
	TermMonths           int              `json:"term_months"`
	MonthlyPaymentMicros int64            `json:"monthly_payment_micros"`
	RemainingMicros      int64            `json:"remaining_micros"`
}

func (l Loan) Settled() bool { return l.RemainingMicros <= 0 }

type Investments struct {
	MutualFundHoldings []MutualFundHolding `json:"mutual_fund_holdings"`
	FixedDeposits      []FixedDeposit      `json:"fixed_deposits"`
}

// Account is the player's financial state. Sequences are newest first.
type Account struct {
	BalanceMicros       int64       `json:"balance_micros"`
	SavingsMicros       int64       `json:"savings_micros"`
	EmergencyFundMicros int64       `json:"emergency_fund_micros"`
	Loans               []Loan      `json:"loans"`
	Investments         Investments `json:"investments"`
}

// Clock maps real time to simulated time. GameTime is the epoch anchor set
// when the account was created; the current simulated moment is always
// derived from it, never written back. LastProcessedDay de-duplicates the
// daily pass.
type Clock struct {
	GameTime         time.Time  `json:"game_time"`
	SpeedMultiplier  float64    `json:"speed_multiplier"`
	LastProcessedDay *time.Time `json:"last_processed_day,omitempty"`
}

// Snapshot is the engine state as checkpointed to and restored from the
// external store.
type Snapshot struct {
	Account      Account       `json:"account"`
	Transactions []Transaction `json:"transactions"`
	Clock        Clock         `json:"clock"`
}

// NewSnapshot is the state of a freshly opened account.
func NewSnapshot(now time.Time, speedMultiplier float64) Snapshot {
	if speedMultiplier <= 0 {
		speedMultiplier = DefaultSpeedMultiplier
	}
	return Snapshot{
		Account: Account{BalanceMicros: StarterBalanceMicros},
		Clock: Clock{
			GameTime:        now.UTC(),
			SpeedMultiplier: speedMultiplier,
		},
	}
}

func (s Snapshot) Clone() Snapshot {
	out := s
	out.Account.Loans = append([]Loan(nil), s.Account.Loans...)
	out.Account.Investments.MutualFundHoldings = append([]MutualFundHolding(nil), s.Account.Investments.MutualFundHoldings...)
	out.Account.Investments.FixedDeposits = append([]FixedDeposit(nil), s.Account.Investments.FixedDeposits...)
	out.Transactions = append([]Transaction(nil), s.Transactions...)
	if s.Clock.LastProcessedDay != nil {
		d := *s.Clock.LastProcessedDay
		out.Clock.LastProcessedDay = &d
	}
	return out
}
