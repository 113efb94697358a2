package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kidsbank/internal/engine"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS game_states (
	id TEXT PRIMARY KEY,
	account JSONB NOT NULL,
	transactions JSONB NOT NULL,
	game_time TIMESTAMPTZ NOT NULL,
	speed_multiplier DOUBLE PRECISION NOT NULL,
	last_processed_day TIMESTAMPTZ,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps one game_states row per account, account and
// transaction history as JSONB and the clock in plain columns.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Load(ctx context.Context, accountID string) (engine.Snapshot, error) {
	var (
		accountRaw, txRaw []byte
		snap              engine.Snapshot
	)
	err := s.pool.QueryRow(ctx, `
		SELECT account, transactions, game_time, speed_multiplier, last_processed_day
		FROM game_states
		WHERE id = $1
	`, accountID).Scan(&accountRaw, &txRaw, &snap.Clock.GameTime, &snap.Clock.SpeedMultiplier, &snap.Clock.LastProcessedDay)
	if errors.Is(err, pgx.ErrNoRows) {
		return engine.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return engine.Snapshot{}, err
	}
	if err := json.Unmarshal(accountRaw, &snap.Account); err != nil {
		return engine.Snapshot{}, fmt.Errorf("decode account: %w", err)
	}
	if err := json.Unmarshal(txRaw, &snap.Transactions); err != nil {
		return engine.Snapshot{}, fmt.Errorf("decode transactions: %w", err)
	}
	return snap, nil
}

func (s *PostgresStore) Save(ctx context.Context, accountID string, snap engine.Snapshot) error {
	accountRaw, err := json.Marshal(snap.Account)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}
	txRaw, err := json.Marshal(snap.Transactions)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO game_states (id, account, transactions, game_time, speed_multiplier, last_processed_day, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			account = EXCLUDED.account,
			transactions = EXCLUDED.transactions,
			game_time = EXCLUDED.game_time,
			speed_multiplier = EXCLUDED.speed_multiplier,
			last_processed_day = EXCLUDED.last_processed_day,
			updated_at = now()
	`, accountID, accountRaw, txRaw, snap.Clock.GameTime, snap.Clock.SpeedMultiplier, snap.Clock.LastProcessedDay)
	return err
}

func (s *PostgresStore) ListAccounts(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM game_states ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
