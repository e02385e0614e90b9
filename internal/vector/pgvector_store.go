package vector

import (
	"context"
	"fmt"
	"time"

	"ai-journaling-be/internal/apperr"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgEntryEmbedding maps entry_embeddings with a native vector column.
// Only used when the Postgres backend is selected.
type pgEntryEmbedding struct {
	EntryId     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	JournalId   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Vector      pgvector.Vector `gorm:"type:vector(768)"`
	FinalizedAt time.Time       `gorm:"index"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (pgEntryEmbedding) TableName() string {
	return "entry_embeddings"
}

// PgvectorStore answers similarity queries in SQL via the pgvector extension.
// Cosine distance in pgvector is 1 - cosine_similarity, so similarity is
// computed as 1 - (vector <=> query). Ordering includes finalized_at and
// entry_id so tied scores come back in the same deterministic order the
// ScanStore produces.
type PgvectorStore struct {
	db   *gorm.DB
	dims int
}

func NewPgvectorStore(db *gorm.DB, dims int) *PgvectorStore {
	return &PgvectorStore{
		db:   db,
		dims: dims,
	}
}

// Migrate creates the table and the vector extension if missing.
func (s *PgvectorStore) Migrate() error {
	if err := s.db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable pgvector extension: %w", err)
	}
	return s.db.AutoMigrate(&pgEntryEmbedding{})
}

func (s *PgvectorStore) Upsert(ctx context.Context, rec Record) error {
	if len(rec.Vector) != s.dims {
		return apperr.Newf(apperr.CodeDimensionMismatch,
			"vector has %d dimensions, store is configured for %d", len(rec.Vector), s.dims)
	}
	m := &pgEntryEmbedding{
		EntryId:     rec.EntryId,
		JournalId:   rec.JournalId,
		Vector:      pgvector.NewVector(rec.Vector),
		FinalizedAt: rec.FinalizedAt,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_id"}},
		UpdateAll: true,
	}).Create(m).Error
}

func (s *PgvectorStore) Remove(ctx context.Context, entryId uuid.UUID) error {
	return s.db.WithContext(ctx).Where("entry_id = ?", entryId).Delete(&pgEntryEmbedding{}).Error
}

func (s *PgvectorStore) RemoveByJournal(ctx context.Context, journalId uuid.UUID) error {
	return s.db.WithContext(ctx).Where("journal_id = ?", journalId).Delete(&pgEntryEmbedding{}).Error
}

func (s *PgvectorStore) Query(ctx context.Context, journalId uuid.UUID, query []float32, k int, minScore float64) ([]Result, error) {
	if len(query) != s.dims {
		return nil, apperr.Newf(apperr.CodeDimensionMismatch,
			"query vector has %d dimensions, store is configured for %d", len(query), s.dims)
	}
	if k <= 0 {
		return []Result{}, nil
	}

	type row struct {
		EntryId    uuid.UUID
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector(query)

	err := s.db.WithContext(ctx).
		Table("entry_embeddings").
		Select("entry_id, 1 - (vector <=> ?) as similarity", queryVector).
		Where("journal_id = ?", journalId).
		Where("1 - (vector <=> ?) >= ?", queryVector, minScore).
		Order("similarity DESC, finalized_at DESC, entry_id ASC").
		Limit(k).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(rows))
	for i, r := range rows {
		results[i] = Result{EntryId: r.EntryId, Score: r.Similarity}
	}
	return results, nil
}
