package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	EdgeStatusPending   = "PENDING"
	EdgeStatusConfirmed = "CONFIRMED"
	EdgeStatusRejected  = "REJECTED"

	EdgeOriginAuto   = "AUTO"
	EdgeOriginManual = "MANUAL"

	RelationTypeSimilar = "SIMILAR"
)

// NoteEdge is a proposed or confirmed link between two of one owner's notes.
// The pair is canonicalized (FromId < ToId by uuid string order) so that an
// unordered pair maps to exactly one row per relation type and owner.
// Edges are never deleted: REJECTED rows block re-proposal.
type NoteEdge struct {
	Id           uuid.UUID
	OwnerId      uuid.UUID
	FromId       uuid.UUID
	ToId         uuid.UUID
	RelationType string
	Weight       float64
	Status       string
	Origin       string
	Reason       string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// CanonicalPair orders two note ids into the stored (from, to) direction.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() < b.String() {
		return a, b
	}
	return b, a
}

// Touches reports whether the edge involves the given note.
func (e *NoteEdge) Touches(noteId uuid.UUID) bool {
	return e.FromId == noteId || e.ToId == noteId
}
