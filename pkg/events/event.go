package events

import "time"

const (
	// NoteContentChanged is published by the notes surface whenever a note's
	// title or body changes. Payload carries "note_id".
	NoteContentChanged = "NOTE_CONTENT_CHANGED"

	// EdgeCandidatesGenerated is published after a candidate discovery run
	// creates new pending edges. Payload carries "owner_id" and "created".
	EdgeCandidatesGenerated = "EDGE_CANDIDATES_GENERATED"
)

// Event is the contract for everything crossing the bus.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used by publishers and reconstructed
// by subscribers.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewEvent builds a BaseEvent stamped with the current time.
func NewEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
