package contract

import (
	"context"

	"portfolio-notes-be/internal/entity"
	"portfolio-notes-be/internal/repository/specification"
)

// NoteRepository is read-only: notes are written by the CRUD service, this
// engine only selects them.
type NoteRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
