package contract

import (
	"context"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/repository/specification"

	"github.com/google/uuid"
)

// EntryRepository persists entries. Save is an upsert used for both message
// appends (draft bookkeeping) and the finalize transition. The implementation
// rejects any Save that would mutate an already-finalized entry.
type EntryRepository interface {
	Create(ctx context.Context, entry *entity.Entry) error
	Save(ctx context.Context, entry *entity.Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByJournalId(ctx context.Context, journalId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Entry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Entry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
