package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByStatus filters edges by lifecycle status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByRelationType filters edges by relation tag.
type ByRelationType struct {
	RelationType string
}

func (s ByRelationType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("relation_type = ?", s.RelationType)
}

// TouchingNote matches edges on either side of the given note.
type TouchingNote struct {
	NoteID uuid.UUID
}

func (s TouchingNote) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("from_id = ? OR to_id = ?", s.NoteID, s.NoteID)
}
