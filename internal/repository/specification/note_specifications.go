package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByNoteID filters embedding rows by their note reference.
type ByNoteID struct {
	NoteID uuid.UUID
}

func (s ByNoteID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("note_id = ?", s.NoteID)
}

// ByNoteIDs filters embedding rows by a set of note references.
type ByNoteIDs struct {
	NoteIDs []uuid.UUID
}

func (s ByNoteIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("note_id IN ?", s.NoteIDs)
}
