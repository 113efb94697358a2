// Package events publishes transaction audit records to interested
// consumers. Publishing is best effort and sits outside the engine's
// atomicity: a failed publish never rolls back a ledger operation.
package events

import (
	"context"
	"time"

	"kidsbank/internal/engine"
)

// TransactionCompleted is the payload emitted for every appended
// transaction.
type TransactionCompleted struct {
	AccountID     string                 `json:"account_id"`
	TransactionID string                 `json:"transaction_id"`
	Kind          engine.TransactionKind `json:"kind"`
	AmountMicros  int64                  `json:"amount_micros"`
	Description   string                 `json:"description"`
	OccurredAt    time.Time              `json:"occurred_at"`
}

type Publisher interface {
	PublishTransaction(ctx context.Context, event TransactionCompleted) error
	Close() error
}

// Nop drops every event; the default when no brokers are configured.
type Nop struct{}

func (Nop) PublishTransaction(ctx context.Context, event TransactionCompleted) error { return nil }
func (Nop) Close() error                                                             { return nil }
