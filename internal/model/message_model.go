package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Message struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryId   uuid.UUID `gorm:"type:uuid;index;not null"`
	Role      string    `gorm:"not null"`
	Content   string    `gorm:"type:text"`
	Metadata  datatypes.JSON
	CreatedAt time.Time `gorm:"index"`
}

func (Message) TableName() string {
	return "messages"
}
