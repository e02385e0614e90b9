package mapper

import (
	"encoding/json"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/model"
)

type EntryEmbeddingMapper struct{}

func NewEntryEmbeddingMapper() *EntryEmbeddingMapper {
	return &EntryEmbeddingMapper{}
}

func (m *EntryEmbeddingMapper) ToEntity(e *model.EntryEmbedding) (*entity.EntryEmbedding, error) {
	if e == nil {
		return nil, nil
	}

	var vector []float32
	if len(e.Vector) > 0 {
		if err := json.Unmarshal(e.Vector, &vector); err != nil {
			return nil, err
		}
	}

	return &entity.EntryEmbedding{
		EntryId:     e.EntryId,
		JournalId:   e.JournalId,
		Vector:      vector,
		FinalizedAt: e.FinalizedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}, nil
}

func (m *EntryEmbeddingMapper) ToModel(e *entity.EntryEmbedding) (*model.EntryEmbedding, error) {
	if e == nil {
		return nil, nil
	}

	raw, err := json.Marshal(e.Vector)
	if err != nil {
		return nil, err
	}

	return &model.EntryEmbedding{
		EntryId:     e.EntryId,
		JournalId:   e.JournalId,
		Vector:      raw,
		FinalizedAt: e.FinalizedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}, nil
}
