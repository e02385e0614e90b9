package service

import "github.com/google/uuid"

// ReembedEntryJob asks the background worker to embed a finalized entry
// whose vector is missing, usually because the provider was down at
// finalize time.
type ReembedEntryJob struct {
	EntryId uuid.UUID `json:"entry_id"`
}
