package mapper

import (
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/model"
)

type EntryMapper struct{}

func NewEntryMapper() *EntryMapper {
	return &EntryMapper{}
}

func (m *EntryMapper) ToEntity(e *model.Entry) *entity.Entry {
	if e == nil {
		return nil
	}
	return &entity.Entry{
		Id:          e.Id,
		JournalId:   e.JournalId,
		Status:      e.Status,
		Summary:     e.Summary,
		CreatedAt:   e.CreatedAt,
		FinalizedAt: e.FinalizedAt,
	}
}

func (m *EntryMapper) ToModel(e *entity.Entry) *model.Entry {
	if e == nil {
		return nil
	}
	return &model.Entry{
		Id:          e.Id,
		JournalId:   e.JournalId,
		Status:      e.Status,
		Summary:     e.Summary,
		CreatedAt:   e.CreatedAt,
		FinalizedAt: e.FinalizedAt,
	}
}

func (m *EntryMapper) ToEntities(entries []*model.Entry) []*entity.Entry {
	entities := make([]*entity.Entry, len(entries))
	for i, e := range entries {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
