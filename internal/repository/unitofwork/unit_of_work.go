package unitofwork

import (
	"context"

	"portfolio-notes-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NoteRepository() contract.NoteRepository
	NoteEmbeddingRepository() contract.NoteEmbeddingRepository
	NoteEdgeRepository() contract.NoteEdgeRepository
}
