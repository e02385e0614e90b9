package model

import (
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	JournalId   uuid.UUID `gorm:"type:uuid;index;not null"`
	Status      string    `gorm:"index;not null;default:draft"`
	Summary     *string   `gorm:"type:text"`
	CreatedAt   time.Time
	FinalizedAt *time.Time
}

func (Entry) TableName() string {
	return "entries"
}
