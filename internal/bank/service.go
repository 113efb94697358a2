// Package bank runs one ledger engine per account on top of an external
// snapshot store. It enforces the single-writer discipline the engine
// requires: all operations against one account go through that account's
// mutex, and every successful operation is checkpointed to the store
// before the caller sees the result.
package bank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kidsbank/internal/catalog"
	"kidsbank/internal/engine"
	"kidsbank/internal/events"
	"kidsbank/internal/store"
)

type Service struct {
	store   store.Store
	pub     events.Publisher
	catalog *catalog.Catalog
	log     *slog.Logger

	speedMultiplier float64
	starterMicros   int64
	catchUp         bool
	nowFn           func() time.Time

	mapMu    sync.Mutex
	sessions map[string]*session
}

// session serializes every operation against one account's engine.
type session struct {
	mu  sync.Mutex
	eng *engine.Engine
}

type Option func(*Service)

// WithSpeedMultiplier sets the clock ratio for newly created accounts.
func WithSpeedMultiplier(m float64) Option {
	return func(s *Service) { s.speedMultiplier = m }
}

// WithStarterBalance sets the opening balance for newly created accounts.
func WithStarterBalance(micros int64) Option {
	return func(s *Service) { s.starterMicros = micros }
}

// WithCatchUp selects the multi-day accrual mode for every engine.
func WithCatchUp(on bool) Option {
	return func(s *Service) { s.catchUp = on }
}

// WithNow overrides the wall-clock source, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.nowFn = now }
}

func NewService(st store.Store, pub events.Publisher, cat *catalog.Catalog, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if pub == nil {
		pub = events.Nop{}
	}
	s := &Service{
		store:           st,
		pub:             pub,
		catalog:         cat,
		log:             logger,
		speedMultiplier: engine.DefaultSpeedMultiplier,
		starterMicros:   engine.StarterBalanceMicros,
		nowFn:           time.Now,
		sessions:        make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// EnsureAccount loads the account's snapshot into a live session, creating
// and persisting a starter snapshot for first-time players.
func (s *Service) EnsureAccount(ctx context.Context, accountID string) error {
	_, err := s.session(ctx, accountID)
	return err
}

func (s *Service) session(ctx context.Context, accountID string) (*session, error) {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	if sess, ok := s.sessions[accountID]; ok {
		return sess, nil
	}

	snap, err := s.store.Load(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		snap = engine.NewSnapshot(s.nowFn(), s.speedMultiplier)
		snap.Account.BalanceMicros = s.starterMicros
		if err := s.store.Save(ctx, accountID, snap); err != nil {
			return nil, fmt.Errorf("create account %s: %w", accountID, err)
		}
		s.log.Info("account created", "account_id", accountID, "balance_micros", snap.Account.BalanceMicros)
	} else if err != nil {
		return nil, fmt.Errorf("load account %s: %w", accountID, err)
	}

	sess := &session{eng: engine.New(snap, s.catalog,
		engine.WithCatchUp(s.catchUp),
		engine.WithNow(s.nowFn),
	)}
	s.sessions[accountID] = sess
	return sess, nil
}

// apply runs one engine operation under the account lock and checkpoints
// the result. A typed rejection from the engine passes straight through
// with nothing written. A failed checkpoint rolls the engine back to its
// pre-operation snapshot so memory never runs ahead of the store.
func (s *Service) apply(ctx context.Context, accountID string, op func(*engine.Engine) error) error {
	sess, err := s.session(ctx, accountID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	before := sess.eng.Snapshot()
	if err := op(sess.eng); err != nil {
		return err
	}
	after := sess.eng.Snapshot()

	if err := s.store.Save(ctx, accountID, after); err != nil {
		sess.eng.Restore(before)
		return fmt.Errorf("checkpoint account %s: %w", accountID, err)
	}

	s.publishNew(ctx, accountID, before.Transactions, after.Transactions)
	return nil
}

func (s *Service) publishNew(ctx context.Context, accountID string, before, after []engine.Transaction) {
	for i := len(after) - len(before) - 1; i >= 0; i-- {
		tx := after[i]
		err := s.pub.PublishTransaction(ctx, events.TransactionCompleted{
			AccountID:     accountID,
			TransactionID: tx.ID,
			Kind:          tx.Kind,
			AmountMicros:  tx.AmountMicros,
			Description:   tx.Description,
			OccurredAt:    tx.Timestamp,
		})
		if err != nil {
			s.log.Error("publish transaction failed", "account_id", accountID, "tx_id", tx.ID, "err", err)
		}
	}
}

func (s *Service) Deposit(ctx context.Context, accountID string, amountMicros int64) error {
	return s.apply(ctx, accountID, func(e *engine.Engine) error { return e.Deposit(amountMicros) })
}

func (s *Service) Withdraw(ctx context.Context, accountID string, amountMicros int64) error {
	return s.apply(ctx, accountID, func(e *engine.Engine) error { return e.Withdraw(amountMicros) })
}

func (s *Service) OpenFixedDeposit(ctx context.Context, accountID string, amountMicros int64, termMonths int) error {
	return s.apply(ctx, accountID, func(e *engine.Engine) error { return e.OpenFixedDeposit(amountMicros, termMonths) })
}

func (s *Service) BuyMutualFund(ctx context.Context, accountID string, amountMicros int64, fundID string) error {
	return s.apply(ctx, accountID, func(e *engine.Engine) error { return e.BuyMutualFund(amountMicros, fundID) })
}

func (s *Service) AddToEmergencyFund(ctx context.Context, accountID string, amountMicros int64) error {
	return s.apply(ctx, accountID, func(e *engine.Engine) error { return e.AddToEmergencyFund(amountMicros) })
}

func (s *Service) TakeLoan(ctx context.Context, accountID string, loanType catalog.LoanType, amountMicros int64, termMonths int) error {
	return s.apply(ctx, accountID, func(e *engine.Engine) error { return e.TakeLoan(loanType, amountMicros, termMonths) })
}

// Advance derives the simulated time for wallNow and runs the daily pass.
func (s *Service) Advance(ctx context.Context, accountID string, wallNow time.Time) error {
	return s.apply(ctx, accountID, func(e *engine.Engine) error {
		return e.AdvanceTo(e.GameTimeAt(wallNow))
	})
}

// Overview is the read surface for the presentation layer.
type Overview struct {
	AccountID       string         `json:"account_id"`
	Account         engine.Account `json:"account"`
	GameTime        time.Time      `json:"game_time"`
	SpeedMultiplier float64        `json:"speed_multiplier"`
}

func (s *Service) Overview(ctx context.Context, accountID string) (Overview, error) {
	sess, err := s.session(ctx, accountID)
	if err != nil {
		return Overview{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	clock := sess.eng.Clock()
	return Overview{
		AccountID:       accountID,
		Account:         sess.eng.Account(),
		GameTime:        sess.eng.GameTimeAt(s.nowFn()),
		SpeedMultiplier: clock.SpeedMultiplier,
	}, nil
}

func (s *Service) Transactions(ctx context.Context, accountID string, limit int) ([]engine.Transaction, error) {
	sess, err := s.session(ctx, accountID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.eng.Transactions(limit), nil
}

// TickAll advances every stored account to the simulated time implied by
// wallNow. Failures are logged per account and do not stop the sweep.
func (s *Service) TickAll(ctx context.Context, wallNow time.Time) error {
	ids, err := s.store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	for _, id := range ids {
		if err := s.Advance(ctx, id, wallNow); err != nil {
			s.log.Error("advance failed", "account_id", id, "err", err)
		}
	}
	return nil
}
