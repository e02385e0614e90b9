package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EntryEmbedding persists one vector per finalized entry. The vector is a
// JSON-encoded float32 array so the same schema works on SQLite and Postgres;
// the Postgres-only pgvector column lives in its own store implementation.
type EntryEmbedding struct {
	EntryId     uuid.UUID `gorm:"type:uuid;primaryKey"`
	JournalId   uuid.UUID `gorm:"type:uuid;index;not null"`
	Vector      datatypes.JSON
	FinalizedAt time.Time `gorm:"index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (EntryEmbedding) TableName() string {
	return "entry_embeddings"
}
