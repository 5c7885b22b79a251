package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type NoteEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NoteId         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(128)"` // keep in sync with EMBEDDING_DIMENSION
	ContentHash    string          `gorm:"type:varchar(64);not null"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (NoteEmbedding) TableName() string {
	return "note_embeddings"
}
