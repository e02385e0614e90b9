package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartEntryRequest struct {
	JournalId uuid.UUID `json:"journal_id" validate:"required"`
}

type SubmitMessageRequest struct {
	EntryId uuid.UUID
	Content string `json:"content" validate:"required"`
}

type FinishEntryRequest struct {
	EntryId   uuid.UUID
	Confirmed bool `json:"confirmed"`
}

type CancelEntryRequest struct {
	EntryId   uuid.UUID
	Confirmed bool
}

type FinishEntryResponse struct {
	Id      uuid.UUID `json:"id"`
	Status  string    `json:"status"`
	Summary string    `json:"summary"`
	// Embedded is false when the entry was finalized without a vector and a
	// background re-embed was scheduled.
	Embedded bool `json:"embedded"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationResponse carries an entry with its ordered messages. Vectors
// never appear in any response payload.
type ConversationResponse struct {
	Id          uuid.UUID         `json:"id"`
	JournalId   uuid.UUID         `json:"journal_id"`
	Status      string            `json:"status"`
	Summary     *string           `json:"summary,omitempty"`
	Messages    []MessageResponse `json:"messages"`
	CreatedAt   time.Time         `json:"created_at"`
	FinalizedAt *time.Time        `json:"finalized_at,omitempty"`
}

type SearchEntriesRequest struct {
	JournalId uuid.UUID
	Query     string `json:"query" validate:"required"`
}

type SearchResultItem struct {
	EntryId     uuid.UUID  `json:"entry_id"`
	Summary     string     `json:"summary"`
	Score       float64    `json:"score"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
}

type SearchEntriesResponse struct {
	Results []SearchResultItem `json:"results"`
}

type ReembedMissingResponse struct {
	Scheduled int `json:"scheduled"`
}
