package bootstrap

import (
	"context"
	"log"

	"portfolio-notes-be/internal/config"
	"portfolio-notes-be/internal/controller"
	"portfolio-notes-be/internal/handler"
	"portfolio-notes-be/internal/pkg/logger"
	"portfolio-notes-be/internal/repository/implementation"
	"portfolio-notes-be/internal/repository/unitofwork"
	"portfolio-notes-be/internal/service"
	"portfolio-notes-be/internal/websocket"
	"portfolio-notes-be/pkg/embedding"

	pktNats "portfolio-notes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	EmbeddingController controller.IEmbeddingController
	NoteEdgeController  controller.INoteEdgeController

	// Background Services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Engine
	embedder := embedding.NewHashingEmbedder(cfg.Engine.EmbeddingDimension)

	embeddingService := service.NewEmbeddingService(
		uowFactory,
		embedder,
		service.EmbeddingServiceConfig{
			RebuildBatchCeiling: cfg.Engine.RebuildBatchCeiling,
			SimilarDefaultLimit: cfg.Engine.SimilarDefaultLimit,
			SimilarMaxLimit:     cfg.Engine.SimilarMaxLimit,
		},
		sysLogger,
	)

	var edgePublisher service.EventPublisher
	if natsPub != nil {
		edgePublisher = natsPub
	}
	edgeService := service.NewNoteEdgeService(
		uowFactory,
		embeddingService,
		edgePublisher,
		service.EdgeServiceConfig{
			SimilarityThreshold: cfg.Engine.SimilarityThreshold,
			PairScanCeiling:     cfg.Engine.PairScanCeiling,
		},
		sysLogger,
	)

	// 5. Embed Queue (in-process)
	publisherService := service.NewPublisherService(cfg.App.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EmbedTopic,
		embeddingService,
		sysLogger,
	)

	// 6. Event Bridges & Notification System
	if natsSub != nil {
		bridge := service.NewNoteEventBridge(natsSub, publisherService, sysLogger)
		go bridge.Start()
	}

	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	return &Container{
		EmbeddingController: controller.NewEmbeddingController(embeddingService),
		NoteEdgeController:  controller.NewNoteEdgeController(edgeService),

		ConsumerService: consumerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		Logger: sysLogger,
	}
}
