package contract

import (
	"context"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/repository/specification"

	"github.com/google/uuid"
)

type JournalRepository interface {
	Create(ctx context.Context, journal *entity.Journal) error
	Update(ctx context.Context, journal *entity.Journal) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Journal, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Journal, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
