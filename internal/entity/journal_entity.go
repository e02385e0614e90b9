package entity

import (
	"time"

	"github.com/google/uuid"
)

type Journal struct {
	Id          uuid.UUID
	Name        string
	Description string
	RagEnabled  bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
