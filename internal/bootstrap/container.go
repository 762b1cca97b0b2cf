package bootstrap

import (
	"log"

	"notetree-be/internal/config"
	"notetree-be/internal/controller"
	"notetree-be/internal/pkg/logger"
	"notetree-be/internal/repository/unitofwork"
	"notetree-be/internal/service"
	"notetree-be/pkg/embedding"

	pktNats "notetree-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

// embedTopicName is the in-process queue carrying embedding tasks from the
// services to the consumer.
const embedTopicName = "note_embed_tasks"

type Container struct {
	// Controllers
	NoteController    controller.INoteController
	TrashController   controller.ITrashController
	VersionController controller.IVersionController
	SearchController  controller.ISearchController

	// Background services (run by main.go)
	ConsumerService service.IConsumerService

	// Shared infrastructure main.go must close on shutdown
	Logger    logger.ILogger
	NatsPub   *pktNats.Publisher
	EventsBus *gochannel.GoChannel
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// In-process task queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider selection
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// NATS lifecycle event bus. The app degrades to no external events when
	// the broker is unreachable.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Services
	publisherService := service.NewPublisherService(embedTopicName, pubSub)
	versionService := service.NewVersionService(uowFactory, publisherService, sysLogger)
	noteService := service.NewNoteService(uowFactory, publisherService, versionService, natsPub, sysLogger)
	trashService := service.NewTrashService(uowFactory, natsPub, sysLogger)
	searchService := service.NewSearchService(uowFactory, publisherService, embeddingProvider, cfg.Search, sysLogger)
	consumerService := service.NewConsumerService(pubSub, embedTopicName, uowFactory, embeddingProvider, sysLogger)

	return &Container{
		NoteController:    controller.NewNoteController(noteService),
		TrashController:   controller.NewTrashController(trashService),
		VersionController: controller.NewVersionController(versionService),
		SearchController:  controller.NewSearchController(searchService),
		ConsumerService:   consumerService,
		Logger:            sysLogger,
		NatsPub:           natsPub,
		EventsBus:         pubSub,
	}
}
