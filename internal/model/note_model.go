package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note mirrors the table written by the CRUD service. This engine never
// inserts or updates rows here.
type Note struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string         `gorm:"type:varchar(255);not null"`
	ContentMd string         `gorm:"type:text"`
	OwnerId   uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
