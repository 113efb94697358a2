// Package store persists account snapshots. The engine never talks to a
// store directly; the bank service checkpoints engine snapshots through
// this interface after every operation.
package store

import (
	"context"
	"errors"

	"kidsbank/internal/engine"
)

var ErrNotFound = errors.New("snapshot not found")

type Store interface {
	// Load returns the snapshot for an account, or ErrNotFound.
	Load(ctx context.Context, accountID string) (engine.Snapshot, error)
	// Save upserts the snapshot for an account.
	Save(ctx context.Context, accountID string, snap engine.Snapshot) error
	// ListAccounts returns every account id with a stored snapshot.
	ListAccounts(ctx context.Context) ([]string, error)
	Close() error
}
