package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsbank/internal/catalog"
	"kidsbank/internal/engine"
)

func sampleSnapshot(t *testing.T) engine.Snapshot {
	t.Helper()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	e := engine.New(engine.NewSnapshot(start, 720), catalog.Default(),
		engine.WithNow(func() time.Time { return start }))
	require.NoError(t, e.Deposit(100*engine.MicrosPerUnit))
	require.NoError(t, e.OpenFixedDeposit(500*engine.MicrosPerUnit, 12))
	require.NoError(t, e.BuyMutualFund(200*engine.MicrosPerUnit, "balanced-wealth"))
	require.NoError(t, e.TakeLoan(catalog.LoanPersonal, 150*engine.MicrosPerUnit, 6))
	require.NoError(t, e.AdvanceTo(start.Add(24*time.Hour)))
	return e.Snapshot()
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	snap := sampleSnapshot(t)

	_, err := m.Load(ctx, "acct-1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Save(ctx, "acct-1", snap))
	got, err := m.Load(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	ids, err := m.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"acct-1"}, ids)
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	snap := sampleSnapshot(t)
	require.NoError(t, m.Save(ctx, "acct-1", snap))

	got, err := m.Load(ctx, "acct-1")
	require.NoError(t, err)
	got.Account.BalanceMicros = 0
	got.Account.Loans[0].RemainingMicros = 0

	again, err := m.Load(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, snap.Account.BalanceMicros, again.Account.BalanceMicros)
	assert.Equal(t, snap.Account.Loans[0].RemainingMicros, again.Account.Loans[0].RemainingMicros)
}

func TestMemoryStoreFailSaves(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.FailSaves = errors.New("disk on fire")
	err := m.Save(ctx, "acct-1", sampleSnapshot(t))
	require.Error(t, err)
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	snap := sampleSnapshot(t)
	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	var got engine.Snapshot
	require.NoError(t, json.Unmarshal(raw, &got))
	require.NotNil(t, got.Clock.LastProcessedDay)
	assert.True(t, snap.Clock.LastProcessedDay.Equal(*got.Clock.LastProcessedDay))
	assert.Equal(t, snap.Account, got.Account)
	assert.Equal(t, snap.Clock.SpeedMultiplier, got.Clock.SpeedMultiplier)
	require.Len(t, got.Transactions, len(snap.Transactions))
	for i := range got.Transactions {
		assert.Equal(t, snap.Transactions[i].ID, got.Transactions[i].ID)
		assert.Equal(t, snap.Transactions[i].AmountMicros, got.Transactions[i].AmountMicros)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "kidsbank.db"))
	require.NoError(t, err)
	defer s.Close()

	snap := sampleSnapshot(t)
	require.NoError(t, s.Save(ctx, "acct-1", snap))
	require.NoError(t, s.Save(ctx, "acct-1", snap)) // upsert

	got, err := s.Load(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, snap.Account, got.Account)
	require.Len(t, got.Transactions, len(snap.Transactions))

	_, err = s.Load(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	ids, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"acct-1"}, ids)
}
