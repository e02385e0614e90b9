package implementation

import (
	"context"
	"errors"

	"ai-journaling-be/internal/apperr"
	"ai-journaling-be/internal/constant"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/mapper"
	"ai-journaling-be/internal/model"
	"ai-journaling-be/internal/repository/contract"
	"ai-journaling-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageMapper(),
	}
}

func (r *MessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// checkEntryMutable verifies the parent entry exists and is still a draft.
func (r *MessageRepositoryImpl) checkEntryMutable(ctx context.Context, entryId uuid.UUID) error {
	var entry model.Entry
	err := r.db.WithContext(ctx).Where("id = ?", entryId).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Newf(apperr.CodeStoreInconsistency, "message references missing entry %s", entryId)
		}
		return err
	}
	if entry.Status == constant.EntryStatusFinalized {
		return apperr.Newf(apperr.CodeEntryImmutable, "entry %s is finalized and accepts no new messages", entryId)
	}
	return nil
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	if err := r.checkEntryMutable(ctx, message.EntryId); err != nil {
		return err
	}
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) CreateBulk(ctx context.Context, messages []*entity.Message) error {
	if len(messages) == 0 {
		return nil
	}
	if err := r.checkEntryMutable(ctx, messages[0].EntryId); err != nil {
		return err
	}
	models := make([]*model.Message, len(messages))
	for i, msg := range messages {
		models[i] = r.mapper.ToModel(msg)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*messages[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *MessageRepositoryImpl) DeleteByEntryId(ctx context.Context, entryId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("entry_id = ?", entryId).Delete(&model.Message{}).Error
}

func (r *MessageRepositoryImpl) DeleteByJournalId(ctx context.Context, journalId uuid.UUID) error {
	subQuery := r.db.Table("entries").Select("id").Where("journal_id = ?", journalId)
	return r.db.WithContext(ctx).Where("entry_id IN (?)", subQuery).Delete(&model.Message{}).Error
}

func (r *MessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*model.Message
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
