package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateJournalRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description"`
	RagEnabled  *bool  `json:"rag_enabled"`
}

type CreateJournalResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateJournalRequest struct {
	Id          uuid.UUID
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description"`
	RagEnabled  *bool  `json:"rag_enabled"`
}

type UpdateJournalResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowJournalResponse struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	RagEnabled  bool       `json:"rag_enabled"`
	EntryCount  int64      `json:"entry_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type ListJournalItem struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	RagEnabled  bool      `json:"rag_enabled"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListJournalResponse struct {
	Journals []ListJournalItem `json:"journals"`
}
