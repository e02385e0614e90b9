package vector

import (
	"context"
	"testing"
	"time"

	"ai-journaling-be/internal/model"
	"ai-journaling-be/internal/repository/implementation"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *ScanStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.EntryEmbedding{}))
	return NewScanStore(implementation.NewEntryEmbeddingRepository(db), 3)
}

func TestScanStoreUpsertDimensionMismatch(t *testing.T) {
	store := newTestStore(t)
	err := store.Upsert(context.Background(), Record{
		EntryId:   uuid.New(),
		JournalId: uuid.New(),
		Vector:    []float32{0.1, 0.2}, // store configured for 3 dims
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DIMENSION_MISMATCH")
}

func TestScanStoreUpsertIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	journalId := uuid.New()
	rec := Record{
		EntryId:     uuid.New(),
		JournalId:   journalId,
		Vector:      []float32{0.1, 0.2, 0.3},
		FinalizedAt: time.Now(),
	}

	require.NoError(t, store.Upsert(ctx, rec))
	require.NoError(t, store.Upsert(ctx, rec))

	results, err := store.Query(ctx, journalId, []float32{0.1, 0.2, 0.3}, 10, 0.0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, rec.EntryId, results[0].EntryId)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestScanStoreQueryRespectsKAndThresholdAndJournal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	journalA := uuid.New()
	journalB := uuid.New()
	now := time.Now()

	vectors := []Record{
		{EntryId: uuid.New(), JournalId: journalA, Vector: []float32{1, 0, 0}, FinalizedAt: now},
		{EntryId: uuid.New(), JournalId: journalA, Vector: []float32{0.9, 0.1, 0}, FinalizedAt: now},
		{EntryId: uuid.New(), JournalId: journalA, Vector: []float32{0, 1, 0}, FinalizedAt: now},
		{EntryId: uuid.New(), JournalId: journalB, Vector: []float32{1, 0, 0}, FinalizedAt: now},
	}
	for _, rec := range vectors {
		require.NoError(t, store.Upsert(ctx, rec))
	}

	results, err := store.Query(ctx, journalA, []float32{1, 0, 0}, 2, 0.5)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(results), 2)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.5)
		assert.NotEqual(t, vectors[3].EntryId, r.EntryId, "must never cross journals")
	}
	// Highest score first
	require.Len(t, results, 2)
	assert.Equal(t, vectors[0].EntryId, results[0].EntryId)
	assert.Equal(t, vectors[1].EntryId, results[1].EntryId)
}

func TestScanStoreQueryEmptyJournal(t *testing.T) {
	store := newTestStore(t)
	results, err := store.Query(context.Background(), uuid.New(), []float32{1, 0, 0}, 3, 0.7)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScanStoreTieBrokenByRecency(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	journalId := uuid.New()
	older := Record{
		EntryId:     uuid.New(),
		JournalId:   journalId,
		Vector:      []float32{1, 0, 0},
		FinalizedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := Record{
		EntryId:     uuid.New(),
		JournalId:   journalId,
		Vector:      []float32{1, 0, 0},
		FinalizedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Upsert(ctx, older))
	require.NoError(t, store.Upsert(ctx, newer))

	results, err := store.Query(ctx, journalId, []float32{1, 0, 0}, 2, 0.0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, newer.EntryId, results[0].EntryId)
	assert.Equal(t, older.EntryId, results[1].EntryId)
}

func TestScanStoreRemoveAbsentIsNoop(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Remove(context.Background(), uuid.New()))
}
