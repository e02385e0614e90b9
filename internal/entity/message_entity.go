package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is append-only: never mutated or reordered after creation.
type Message struct {
	Id        uuid.UUID
	EntryId   uuid.UUID
	Role      string // constant.MessageRoleUser | MessageRoleAssistant | MessageRoleSystemError
	Content   string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}
