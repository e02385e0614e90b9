package conversation

import (
	"sync"

	"ai-journaling-be/internal/apperr"

	"github.com/google/uuid"
)

// Guard serializes operations per entry. A second submit, finish or cancel
// arriving while one is in flight is rejected instead of queued, so a slow
// model response cannot interleave with a finalize.
type Guard struct {
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func NewGuard() *Guard {
	return &Guard{
		inFlight: make(map[uuid.UUID]struct{}),
	}
}

func (g *Guard) Acquire(entryId uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[entryId]; busy {
		return apperr.New(apperr.CodeOperationInProgress, "another operation is in progress for this entry")
	}
	g.inFlight[entryId] = struct{}{}
	return nil
}

func (g *Guard) Release(entryId uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, entryId)
}
