package vector

import (
	"context"
	"sort"

	"ai-journaling-be/internal/apperr"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/repository/contract"

	"github.com/google/uuid"
)

// ScanStore is the linear-scan Store: vectors are persisted through the
// embedding repository and similarity is computed in-process over all
// vectors of the journal. Correctness baseline for any backend; the
// pgvector-backed store is the Postgres optimization of the same contract.
type ScanStore struct {
	repo contract.EntryEmbeddingRepository
	dims int
}

func NewScanStore(repo contract.EntryEmbeddingRepository, dims int) *ScanStore {
	return &ScanStore{
		repo: repo,
		dims: dims,
	}
}

func (s *ScanStore) Upsert(ctx context.Context, rec Record) error {
	if len(rec.Vector) != s.dims {
		return apperr.Newf(apperr.CodeDimensionMismatch,
			"vector has %d dimensions, store is configured for %d", len(rec.Vector), s.dims)
	}
	return s.repo.Upsert(ctx, &entity.EntryEmbedding{
		EntryId:     rec.EntryId,
		JournalId:   rec.JournalId,
		Vector:      rec.Vector,
		FinalizedAt: rec.FinalizedAt,
	})
}

func (s *ScanStore) Remove(ctx context.Context, entryId uuid.UUID) error {
	return s.repo.Remove(ctx, entryId)
}

func (s *ScanStore) RemoveByJournal(ctx context.Context, journalId uuid.UUID) error {
	return s.repo.RemoveByJournalId(ctx, journalId)
}

func (s *ScanStore) Query(ctx context.Context, journalId uuid.UUID, query []float32, k int, minScore float64) ([]Result, error) {
	if len(query) != s.dims {
		return nil, apperr.Newf(apperr.CodeDimensionMismatch,
			"query vector has %d dimensions, store is configured for %d", len(query), s.dims)
	}
	if k <= 0 {
		return []Result{}, nil
	}

	embeddings, err := s.repo.FindByJournalId(ctx, journalId)
	if err != nil {
		return nil, err
	}

	type scored struct {
		rec   *entity.EntryEmbedding
		score float64
	}

	candidates := make([]scored, 0, len(embeddings))
	for _, emb := range embeddings {
		score := CosineSimilarity(query, emb.Vector)
		if score >= minScore {
			candidates = append(candidates, scored{rec: emb, score: score})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if !candidates[i].rec.FinalizedAt.Equal(candidates[j].rec.FinalizedAt) {
			return candidates[i].rec.FinalizedAt.After(candidates[j].rec.FinalizedAt)
		}
		return candidates[i].rec.EntryId.String() < candidates[j].rec.EntryId.String()
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = Result{EntryId: c.rec.EntryId, Score: c.score}
	}
	return results, nil
}
