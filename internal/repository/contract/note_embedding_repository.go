package contract

import (
	"context"

	"portfolio-notes-be/internal/entity"
	"portfolio-notes-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteEmbeddingRepository interface {
	// Upsert creates the embedding row for a note or replaces the vector and
	// content hash if one already exists. note_id is unique per note.
	Upsert(ctx context.Context, embedding *entity.NoteEmbedding) error
	DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindAllByOwner joins through notes to return the owner's live
	// embeddings in note_id order. Soft-deleted notes and embeddings are
	// excluded.
	FindAllByOwner(ctx context.Context, ownerId uuid.UUID) ([]*entity.NoteEmbedding, error)
}
