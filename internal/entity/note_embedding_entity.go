package entity

import (
	"time"

	"github.com/google/uuid"
)

// NoteEmbedding holds one vector per note plus the fingerprint of the text
// it was derived from. A zero vector means the note had no embeddable text.
type NoteEmbedding struct {
	Id          uuid.UUID
	NoteId      uuid.UUID
	Vector      []float32
	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
