package fallback_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-scrapyard-ws/internal/fallback"
	"go-scrapyard-ws/internal/model"
)

func sampleTx(material, day string) model.Transaction {
	ts, _ := time.Parse("2006-01-02", day)
	t := model.Transaction{
		Type:       model.TypePurchase,
		Material:   material,
		Quantity:   decimal.NewFromInt(10),
		UnitPrice:  decimal.NewFromInt(2),
		TotalValue: decimal.NewFromInt(20),
		Timestamp:  ts,
	}
	t.ID = uuid.New()
	return t
}

func TestReplaceSnapshotBumpsVersion(t *testing.T) {
	s := fallback.NewStore()
	assert.True(t, s.Connected())
	assert.Zero(t, s.Version())

	v1 := s.ReplaceSnapshot([]model.Transaction{sampleTx("iron", "2026-01-10")}, nil)
	assert.Equal(t, uint64(1), v1)

	v2 := s.ReplaceSnapshot(nil, nil)
	assert.Equal(t, uint64(2), v2)
}

func TestSnapshotOrdering(t *testing.T) {
	s := fallback.NewStore()
	s.ReplaceSnapshot(
		[]model.Transaction{
			sampleTx("iron", "2026-01-10"),
			sampleTx("copper", "2026-01-15"),
			sampleTx("brass", "2026-01-12"),
		},
		[]model.InventoryItem{
			{Material: "copper"},
			{Material: "aluminum"},
		},
	)

	txs, items, version := s.Snapshot()
	require.Len(t, txs, 3)
	assert.Equal(t, "copper", txs[0].Material, "newest business timestamp first")
	assert.Equal(t, "brass", txs[1].Material)
	assert.Equal(t, "iron", txs[2].Material)

	require.Len(t, items, 2)
	assert.Equal(t, "aluminum", items[0].Material)
	assert.Equal(t, uint64(1), version)
}

func TestRecordLocal(t *testing.T) {
	s := fallback.NewStore()
	created := sampleTx("iron", "2026-01-10")

	v := s.RecordLocal(fallback.OpCreate, created)
	assert.Equal(t, uint64(1), v)
	assert.False(t, s.Connected(), "an offline write marks the store disconnected")
	assert.Equal(t, 1, s.PendingOutbox())

	got, ok := s.GetTransaction(created.ID)
	require.True(t, ok)
	assert.True(t, got.Unsynced, "offline writes are flagged until replayed")

	s.RecordLocal(fallback.OpDelete, created)
	_, ok = s.GetTransaction(created.ID)
	assert.False(t, ok, "delete entries remove the mirror row")
	assert.Equal(t, 2, s.PendingOutbox())
}

func TestCommitSnapshotStaleIsDiscarded(t *testing.T) {
	s := fallback.NewStore()
	since := s.Version()

	// A push lands while the slow refresh is still fetching.
	s.ReplaceSnapshot([]model.Transaction{sampleTx("copper", "2026-01-15")}, nil)

	ok := s.CommitSnapshot(since, []model.Transaction{sampleTx("iron", "2026-01-10")}, nil)
	assert.False(t, ok, "stale snapshot must not overwrite a newer one")

	txs, _, _ := s.Snapshot()
	require.Len(t, txs, 1)
	assert.Equal(t, "copper", txs[0].Material)
}

func TestCommitSnapshotCurrent(t *testing.T) {
	s := fallback.NewStore()
	since := s.Version()

	ok := s.CommitSnapshot(since, []model.Transaction{sampleTx("iron", "2026-01-10")}, nil)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), s.Version())
}

func TestBeginSyncIsExclusive(t *testing.T) {
	s := fallback.NewStore()

	require.True(t, s.BeginSync())
	assert.True(t, s.Syncing())
	assert.False(t, s.BeginSync(), "re-entrant refresh is a no-op")

	s.EndSync()
	assert.False(t, s.Syncing())
	assert.True(t, s.BeginSync())
	s.EndSync()
}

func TestDrainAndRequeue(t *testing.T) {
	s := fallback.NewStore()
	first := sampleTx("iron", "2026-01-10")
	second := sampleTx("copper", "2026-01-11")
	third := sampleTx("brass", "2026-01-12")

	s.RecordLocal(fallback.OpCreate, first)
	s.RecordLocal(fallback.OpCreate, second)

	entries := s.DrainOutbox()
	require.Len(t, entries, 2)
	assert.Equal(t, "iron", entries[0].Transaction.Material, "FIFO order")
	assert.Zero(t, s.PendingOutbox())

	// Replay failed partway: a new offline write arrived, then the failed
	// tail goes back to the front.
	s.RecordLocal(fallback.OpCreate, third)
	s.Requeue(entries[1:])

	requeued := s.DrainOutbox()
	require.Len(t, requeued, 2)
	assert.Equal(t, "copper", requeued[0].Transaction.Material)
	assert.Equal(t, "brass", requeued[1].Transaction.Material)
}
