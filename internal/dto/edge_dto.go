package dto

import (
	"time"

	"github.com/google/uuid"
)

type NoteEdgeResponse struct {
	Id           uuid.UUID  `json:"id"`
	FromId       uuid.UUID  `json:"from_id"`
	ToId         uuid.UUID  `json:"to_id"`
	RelationType string     `json:"relation_type"`
	Weight       float64    `json:"weight"`
	Status       string     `json:"status"`
	Origin       string     `json:"origin"`
	Reason       string     `json:"reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type EdgeActionRequest struct {
	EdgeId uuid.UUID `json:"edge_id" validate:"required"`
}

type GenerateCandidatesResponse struct {
	Created   int                 `json:"created"`
	Refreshed int                 `json:"refreshed"`
	Edges     []*NoteEdgeResponse `json:"edges"`
}
