package entity

import (
	"time"

	"github.com/google/uuid"
)

// EntryEmbedding is the vector-store record for one finalized entry.
// Exactly one vector per entry; FinalizedAt is denormalized from the entry
// so similarity ties can be broken by recency without a join.
type EntryEmbedding struct {
	EntryId     uuid.UUID
	JournalId   uuid.UUID
	Vector      []float32
	FinalizedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
