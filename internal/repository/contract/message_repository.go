package contract

import (
	"context"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/repository/specification"

	"github.com/google/uuid"
)

// MessageRepository appends and reads conversation messages. Messages are
// append-only; there is deliberately no update operation. Create rejects
// appends to finalized entries.
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	CreateBulk(ctx context.Context, messages []*entity.Message) error
	DeleteByEntryId(ctx context.Context, entryId uuid.UUID) error
	DeleteByJournalId(ctx context.Context, journalId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
