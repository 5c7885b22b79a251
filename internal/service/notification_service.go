package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"portfolio-notes-be/internal/model"
	"portfolio-notes-be/internal/pkg/logger"
	"portfolio-notes-be/internal/repository"
	"portfolio-notes-be/pkg/events"
	pktNats "portfolio-notes-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	subject := fmt.Sprintf("events.%s", events.EdgeCandidatesGenerated)
	err := s.subscriber.Subscribe(subject, "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", fmt.Sprintf("Notification service started, listening to %s", subject), nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", event.EventType()), map[string]interface{}{"type": event.EventType()})

	payload := event.Payload()

	ownerStr, ok := payload["owner_id"].(string)
	if !ok {
		s.logger.Warn("NotificationService", "Event missing owner_id, dropping", map[string]interface{}{"payload": payload})
		return nil
	}
	ownerId, err := uuid.Parse(ownerStr)
	if err != nil {
		s.logger.Warn("NotificationService", "Invalid owner_id, dropping", map[string]interface{}{"owner_id": ownerStr})
		return nil
	}

	// JSON numbers arrive as float64.
	created := 0
	if c, ok := payload["created"].(float64); ok {
		created = int(c)
	}

	metaJSON, _ := json.Marshal(map[string]interface{}{
		"created": created,
	})

	notif := model.Notification{
		ID:        uuid.New(),
		UserID:    ownerId,
		TypeCode:  events.EdgeCandidatesGenerated,
		Title:     "New note connections found",
		Message:   fmt.Sprintf("%d candidate link(s) between your notes are waiting for review", created),
		Metadata:  datatypes.JSON(metaJSON),
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", "Error saving notification", map[string]interface{}{
			"user_id": ownerId,
			"error":   err,
		})
		return err // NATS will retry
	}

	if s.delivery != nil {
		s.delivery.Send(ownerId, notif)
	}

	return nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
