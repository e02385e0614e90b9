package rag

import (
	"context"
	"time"

	"ai-journaling-be/internal/constant"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/contract"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/vector"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Embedder is the slice of the embedding gateway the retriever needs.
type Embedder interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}

// ContextItem is one retrieved past entry, ready for prompt injection.
// Summaries only; raw messages and vectors never leave the stores.
type ContextItem struct {
	EntryId     uuid.UUID
	Summary     string
	Score       float64
	FinalizedAt *time.Time
}

type Options struct {
	TopK     int
	MinScore float64
}

// Retriever resolves past-entry context for conversational turns and for
// explicit searches. Turn retrieval is best-effort: infrastructure failures
// degrade to an empty context so the turn itself can proceed.
type Retriever struct {
	gateway    Embedder
	store      vector.Store
	entryRepo  contract.EntryRepository
	queryCache *gocache.Cache
	logger     logger.ILogger
	defaults   Options
}

func NewRetriever(
	gateway Embedder,
	store vector.Store,
	entryRepo contract.EntryRepository,
	log logger.ILogger,
	defaults Options,
	cacheTTL time.Duration,
) *Retriever {
	return &Retriever{
		gateway:    gateway,
		store:      store,
		entryRepo:  entryRepo,
		queryCache: gocache.New(cacheTTL, 2*cacheTTL),
		logger:     log,
		defaults:   defaults,
	}
}

// Retrieve returns up to TopK finalized-entry summaries relevant to the
// query. Journals with retrieval disabled short-circuit before any
// embedding call is made.
func (r *Retriever) Retrieve(ctx context.Context, journal *entity.Journal, query string) []ContextItem {
	if journal == nil || !journal.RagEnabled {
		return []ContextItem{}
	}

	items, err := r.Search(ctx, journal.Id, query)
	if err != nil {
		r.logger.Warn("rag.retriever", "retrieval failed, continuing without context", map[string]interface{}{
			"journal_id": journal.Id.String(),
			"error":      err.Error(),
		})
		return []ContextItem{}
	}
	return items
}

// Search runs the similarity query regardless of the journal's retrieval
// toggle. Unlike Retrieve, failures surface to the caller.
func (r *Retriever) Search(ctx context.Context, journalId uuid.UUID, query string) ([]ContextItem, error) {
	queryVector, err := r.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := r.store.Query(ctx, journalId, queryVector, r.defaults.TopK, r.defaults.MinScore)
	if err != nil {
		return nil, err
	}

	items := make([]ContextItem, 0, len(results))
	for _, res := range results {
		entry, err := r.entryRepo.FindOne(ctx, specification.ByID{ID: res.EntryId})
		if err != nil {
			return nil, err
		}
		// A vector whose entry is gone or not finalized is stale; skip it
		// rather than surface a half-deleted entry.
		if entry == nil || !entry.IsFinalized() || entry.Summary == nil {
			r.logger.Warn("rag.retriever", "dropping stale vector", map[string]interface{}{
				"entry_id": res.EntryId.String(),
			})
			continue
		}
		items = append(items, ContextItem{
			EntryId:     entry.Id,
			Summary:     *entry.Summary,
			Score:       res.Score,
			FinalizedAt: entry.FinalizedAt,
		})
	}
	return items, nil
}

func (r *Retriever) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if cached, found := r.queryCache.Get(query); found {
		return cached.([]float32), nil
	}

	vec, err := r.gateway.Generate(ctx, query, constant.EmbedTaskQuery)
	if err != nil {
		return nil, err
	}

	r.queryCache.Set(query, vec, gocache.DefaultExpiration)
	return vec, nil
}
