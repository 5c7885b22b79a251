package contract

import (
	"context"

	"portfolio-notes-be/internal/entity"
	"portfolio-notes-be/internal/repository/specification"
)

type NoteEdgeRepository interface {
	Create(ctx context.Context, edge *entity.NoteEdge) error
	Update(ctx context.Context, edge *entity.NoteEdge) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteEdge, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteEdge, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
