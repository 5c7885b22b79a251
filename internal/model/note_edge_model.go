package model

import (
	"time"

	"github.com/google/uuid"
)

// NoteEdge rows carry no soft delete: the engine retains REJECTED edges to
// block re-proposal, so nothing ever deletes them.
type NoteEdge struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_note_edges_pair,priority:1"`
	RelationType string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_note_edges_pair,priority:2"`
	FromId       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_note_edges_pair,priority:3"`
	ToId         uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_note_edges_pair,priority:4"`
	Weight       float64   `gorm:"not null"`
	Status       string    `gorm:"type:varchar(16);not null;index"`
	Origin       string    `gorm:"type:varchar(16);not null"`
	Reason       string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (NoteEdge) TableName() string {
	return "note_edges"
}
