package entity

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a single journal entry: an ordered conversation that is either a
// mutable draft or a finalized, immutable record. Summary and FinalizedAt are
// both nil while the entry is a draft and both set once finalized; the
// embedding vector lives in the vector store, keyed by entry id.
type Entry struct {
	Id          uuid.UUID
	JournalId   uuid.UUID
	Status      string // constant.EntryStatusDraft | constant.EntryStatusFinalized
	Summary     *string
	CreatedAt   time.Time
	FinalizedAt *time.Time
}

func (e *Entry) IsFinalized() bool {
	return e.Status == "finalized"
}
