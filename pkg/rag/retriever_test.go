package rag

import (
	"context"
	"testing"
	"time"

	"ai-journaling-be/internal/constant"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/model"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/implementation"
	"ai-journaling-be/internal/vector"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type countingEmbedder struct {
	calls  int
	vector []float32
	err    error
}

func (c *countingEmbedder) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.vector, nil
}

type retrieverFixture struct {
	retriever *Retriever
	embedder  *countingEmbedder
	store     vector.Store
	db        *gorm.DB
}

func newRetrieverFixture(t *testing.T) *retrieverFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Journal{}, &model.Entry{}, &model.EntryEmbedding{}))

	entryRepo := implementation.NewEntryRepository(db)
	store := vector.NewScanStore(implementation.NewEntryEmbeddingRepository(db), 3)
	embedder := &countingEmbedder{vector: []float32{1, 0, 0}}

	retriever := NewRetriever(embedder, store, entryRepo, logger.NewNopLogger(),
		Options{TopK: 3, MinScore: 0.5}, time.Minute)

	return &retrieverFixture{retriever: retriever, embedder: embedder, store: store, db: db}
}

func (f *retrieverFixture) addFinalizedEntry(t *testing.T, journalId uuid.UUID, summary string, vec []float32) *entity.Entry {
	t.Helper()
	ctx := context.Background()
	finalizedAt := time.Now()
	entry := &entity.Entry{
		Id:          uuid.New(),
		JournalId:   journalId,
		Status:      constant.EntryStatusFinalized,
		Summary:     &summary,
		FinalizedAt: &finalizedAt,
	}
	require.NoError(t, implementation.NewEntryRepository(f.db).Create(ctx, entry))
	require.NoError(t, f.store.Upsert(ctx, vector.Record{
		EntryId:     entry.Id,
		JournalId:   journalId,
		Vector:      vec,
		FinalizedAt: finalizedAt,
	}))
	return entry
}

func TestRetrieveDisabledJournalSkipsEmbedding(t *testing.T) {
	f := newRetrieverFixture(t)
	journal := &entity.Journal{Id: uuid.New(), RagEnabled: false}

	items := f.retriever.Retrieve(context.Background(), journal, "how was my week")

	assert.Empty(t, items)
	assert.Zero(t, f.embedder.calls, "embedding provider must not be called when retrieval is off")
}

func TestRetrieveReturnsRelevantSummaries(t *testing.T) {
	f := newRetrieverFixture(t)
	journalId := uuid.New()
	journal := &entity.Journal{Id: journalId, RagEnabled: true}

	relevant := f.addFinalizedEntry(t, journalId, "You felt proud after the race.", []float32{1, 0, 0})
	f.addFinalizedEntry(t, journalId, "You worried about the move.", []float32{0, 1, 0})

	items := f.retriever.Retrieve(context.Background(), journal, "tell me about the race")

	require.Len(t, items, 1)
	assert.Equal(t, relevant.Id, items[0].EntryId)
	assert.Equal(t, "You felt proud after the race.", items[0].Summary)
	assert.InDelta(t, 1.0, items[0].Score, 1e-9)
}

func TestRetrieveSkipsStaleVectors(t *testing.T) {
	f := newRetrieverFixture(t)
	journalId := uuid.New()
	journal := &entity.Journal{Id: journalId, RagEnabled: true}

	// A vector whose entry row was deleted must be dropped silently.
	require.NoError(t, f.store.Upsert(context.Background(), vector.Record{
		EntryId:     uuid.New(),
		JournalId:   journalId,
		Vector:      []float32{1, 0, 0},
		FinalizedAt: time.Now(),
	}))

	items := f.retriever.Retrieve(context.Background(), journal, "anything")
	assert.Empty(t, items)
}

func TestRetrieveDegradesWhenEmbeddingFails(t *testing.T) {
	f := newRetrieverFixture(t)
	journalId := uuid.New()
	journal := &entity.Journal{Id: journalId, RagEnabled: true}
	f.addFinalizedEntry(t, journalId, "You slept badly.", []float32{1, 0, 0})

	f.embedder.err = assert.AnError

	items := f.retriever.Retrieve(context.Background(), journal, "sleep")
	assert.Empty(t, items)
}

func TestRetrieveCachesQueryEmbedding(t *testing.T) {
	f := newRetrieverFixture(t)
	journalId := uuid.New()
	journal := &entity.Journal{Id: journalId, RagEnabled: true}
	f.addFinalizedEntry(t, journalId, "You started running again.", []float32{1, 0, 0})

	f.retriever.Retrieve(context.Background(), journal, "running")
	f.retriever.Retrieve(context.Background(), journal, "running")

	assert.Equal(t, 1, f.embedder.calls)
}
