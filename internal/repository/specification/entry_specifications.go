package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByJournalID struct {
	JournalID uuid.UUID
}

func (s ByJournalID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("journal_id = ?", s.JournalID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByEntryID struct {
	EntryID uuid.UUID
}

func (s ByEntryID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("entry_id = ?", s.EntryID)
}

// WithoutEmbedding selects entries that have no row in the vector store.
// Used by the re-embedding maintenance pass.
type WithoutEmbedding struct{}

func (s WithoutEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id NOT IN (?)", db.Session(&gorm.Session{NewDB: true}).Table("entry_embeddings").Select("entry_id"))
}
