package dto

import (
	"github.com/google/uuid"
)

type RebuildEmbeddingsRequest struct {
	// NoteIds, when set, selects exactly those notes; otherwise up to Limit
	// of the owner's notes are selected, most recently updated first.
	NoteIds []uuid.UUID `json:"note_ids"`
	Limit   int         `json:"limit" validate:"omitempty,min=1"`
}

type RebuildEmbeddingsResponse struct {
	// Scheduled counts notes whose embedding was actually recomputed and
	// persisted; unchanged notes are skipped and not counted.
	Scheduled int         `json:"scheduled"`
	NoteIds   []uuid.UUID `json:"note_ids"`
}

type SimilarNoteResponse struct {
	NoteId uuid.UUID `json:"note_id"`
	Title  string    `json:"title"`
	Score  float64   `json:"score"`
}

// EmbedNoteMessage is the payload on the embed-refresh queue.
type EmbedNoteMessage struct {
	NoteId uuid.UUID `json:"note_id"`
}
