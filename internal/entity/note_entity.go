package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note is owned by the CRUD surface; this engine only reads it.
type Note struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string
	ContentMd string
	OwnerId   uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
