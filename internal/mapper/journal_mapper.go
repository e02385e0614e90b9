package mapper

import (
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/model"
)

type JournalMapper struct{}

func NewJournalMapper() *JournalMapper {
	return &JournalMapper{}
}

func (m *JournalMapper) ToEntity(j *model.Journal) *entity.Journal {
	if j == nil {
		return nil
	}
	return &entity.Journal{
		Id:          j.Id,
		Name:        j.Name,
		Description: j.Description,
		RagEnabled:  j.RagEnabled,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func (m *JournalMapper) ToModel(j *entity.Journal) *model.Journal {
	if j == nil {
		return nil
	}
	return &model.Journal{
		Id:          j.Id,
		Name:        j.Name,
		Description: j.Description,
		RagEnabled:  j.RagEnabled,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func (m *JournalMapper) ToEntities(journals []*model.Journal) []*entity.Journal {
	entities := make([]*entity.Journal, len(journals))
	for i, j := range journals {
		entities[i] = m.ToEntity(j)
	}
	return entities
}
