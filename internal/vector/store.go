package vector

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one entry's embedding as held by a Store.
type Record struct {
	EntryId     uuid.UUID
	JournalId   uuid.UUID
	Vector      []float32
	FinalizedAt time.Time
}

// Result is a scored match from a similarity query.
type Result struct {
	EntryId uuid.UUID
	Score   float64
}

// Store holds embeddings for finalized entries and answers top-K cosine
// similarity queries scoped to a journal.
//
// Query results are sorted by score descending; exact ties are broken by the
// entry's finalized-at, most recent first, then by entry id so the order is
// total and reproducible. Results below minScore are excluded; an empty
// journal yields an empty slice, not an error.
type Store interface {
	Upsert(ctx context.Context, rec Record) error
	Remove(ctx context.Context, entryId uuid.UUID) error
	RemoveByJournal(ctx context.Context, journalId uuid.UUID) error
	Query(ctx context.Context, journalId uuid.UUID, query []float32, k int, minScore float64) ([]Result, error)
}
