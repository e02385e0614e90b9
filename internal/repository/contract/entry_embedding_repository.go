package contract

import (
	"context"

	"ai-journaling-be/internal/entity"

	"github.com/google/uuid"
)

// EntryEmbeddingRepository is the persistence behind the linear-scan vector
// store. Upsert replaces by entry id; Remove of an absent row is a no-op.
type EntryEmbeddingRepository interface {
	Upsert(ctx context.Context, embedding *entity.EntryEmbedding) error
	Remove(ctx context.Context, entryId uuid.UUID) error
	RemoveByJournalId(ctx context.Context, journalId uuid.UUID) error
	FindByJournalId(ctx context.Context, journalId uuid.UUID) ([]*entity.EntryEmbedding, error)
	Exists(ctx context.Context, entryId uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}
