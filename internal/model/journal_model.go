package model

import (
	"time"

	"github.com/google/uuid"
)

type Journal struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	Description string
	RagEnabled  bool `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (Journal) TableName() string {
	return "journals"
}
