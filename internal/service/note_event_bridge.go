package service

import (
	"context"
	"encoding/json"
	"fmt"

	"portfolio-notes-be/internal/dto"
	"portfolio-notes-be/internal/pkg/logger"
	"portfolio-notes-be/pkg/events"
	pktNats "portfolio-notes-be/pkg/nats"

	"github.com/google/uuid"
)

// NoteEventBridge forwards NOTE_CONTENT_CHANGED events from the bus onto the
// in-process embed queue, so note edits made by the notes surface converge
// into the same refresh pipeline the rebuild endpoint uses.
type NoteEventBridge struct {
	subscriber       *pktNats.Subscriber
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewNoteEventBridge(sub *pktNats.Subscriber, publisherService IPublisherService, log logger.ILogger) *NoteEventBridge {
	return &NoteEventBridge{
		subscriber:       sub,
		publisherService: publisherService,
		logger:           log,
	}
}

// Start begins listening with a durable consumer.
func (b *NoteEventBridge) Start() {
	subject := fmt.Sprintf("events.%s", events.NoteContentChanged)
	err := b.subscriber.Subscribe(subject, "embed-bridge-worker", b.handleEvent)
	if err != nil {
		b.logger.Error("NoteEventBridge", "Failed to start note event bridge", map[string]interface{}{"error": err})
		return
	}
	b.logger.Info("NoteEventBridge", fmt.Sprintf("Bridge started, listening to %s", subject), nil)
}

func (b *NoteEventBridge) handleEvent(ctx context.Context, event events.Event) error {
	idStr, ok := event.Payload()["note_id"].(string)
	if !ok {
		b.logger.Warn("NoteEventBridge", "Event missing note_id, dropping", map[string]interface{}{"payload": event.Payload()})
		return nil
	}
	noteId, err := uuid.Parse(idStr)
	if err != nil {
		b.logger.Warn("NoteEventBridge", "Invalid note_id, dropping", map[string]interface{}{"note_id": idStr})
		return nil
	}

	payload, err := json.Marshal(dto.EmbedNoteMessage{NoteId: noteId})
	if err != nil {
		return err
	}
	return b.publisherService.Publish(ctx, payload)
}
