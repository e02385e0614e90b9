package implementation

import (
	"context"
	"errors"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/mapper"
	"ai-journaling-be/internal/model"
	"ai-journaling-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntryEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EntryEmbeddingMapper
}

func NewEntryEmbeddingRepository(db *gorm.DB) contract.EntryEmbeddingRepository {
	return &EntryEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewEntryEmbeddingMapper(),
	}
}

// Upsert replaces the whole row on conflict so a concurrent query never sees
// a half-written vector: the write is a single statement.
func (r *EntryEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.EntryEmbedding) error {
	m, err := r.mapper.ToModel(embedding)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_id"}},
		UpdateAll: true,
	}).Create(m).Error
}

func (r *EntryEmbeddingRepositoryImpl) Remove(ctx context.Context, entryId uuid.UUID) error {
	// Deleting an absent row is a no-op, matching gorm semantics.
	return r.db.WithContext(ctx).Where("entry_id = ?", entryId).Delete(&model.EntryEmbedding{}).Error
}

func (r *EntryEmbeddingRepositoryImpl) RemoveByJournalId(ctx context.Context, journalId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("journal_id = ?", journalId).Delete(&model.EntryEmbedding{}).Error
}

func (r *EntryEmbeddingRepositoryImpl) FindByJournalId(ctx context.Context, journalId uuid.UUID) ([]*entity.EntryEmbedding, error) {
	var models []*model.EntryEmbedding
	err := r.db.WithContext(ctx).Where("journal_id = ?", journalId).Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.EntryEmbedding, 0, len(models))
	for _, m := range models {
		e, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func (r *EntryEmbeddingRepositoryImpl) Exists(ctx context.Context, entryId uuid.UUID) (bool, error) {
	var m model.EntryEmbedding
	err := r.db.WithContext(ctx).Where("entry_id = ?", entryId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *EntryEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EntryEmbedding{}).Count(&count).Error
	return count, err
}
