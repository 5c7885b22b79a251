package service

import (
	"context"
	"encoding/json"

	"portfolio-notes-be/internal/dto"
	"portfolio-notes-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embed queue and refreshes one note per message.
type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	embeddingService IEmbeddingService
	logger           logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	embeddingService IEmbeddingService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		embeddingService: embeddingService,
		logger:           log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.EmbedNoteMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed, retrying will not help
		return
	}

	cs.logger.Info("ConsumerService", "Refreshing note embedding", map[string]interface{}{"note_id": payload.NoteId})

	if err := cs.embeddingService.RefreshNote(ctx, payload.NoteId); err != nil {
		cs.logger.Error("ConsumerService", "Failed to refresh embedding", map[string]interface{}{
			"note_id": payload.NoteId,
			"error":   err.Error(),
		})
		msg.Nack() // retriable
		return
	}

	msg.Ack()
}
