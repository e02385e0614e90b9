package bootstrap

import (
	"log"
	"time"

	"ai-journaling-be/internal/config"
	"ai-journaling-be/internal/controller"
	"ai-journaling-be/internal/conversation"
	"ai-journaling-be/internal/model"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/implementation"
	"ai-journaling-be/internal/repository/unitofwork"
	"ai-journaling-be/internal/service"
	"ai-journaling-be/internal/vector"
	"ai-journaling-be/pkg/database"
	"ai-journaling-be/pkg/embedding"
	"ai-journaling-be/pkg/llm/factory"
	"ai-journaling-be/pkg/rag"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	JournalController     controller.IJournalController
	EntryController       controller.IEntryController
	MaintenanceController controller.IMaintenanceController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	if err := migrate(db, cfg); err != nil {
		log.Fatalf("[FATAL] Failed to run migrations: %v", err)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	embedGateway := embedding.NewGateway(
		embeddingProvider,
		sysLogger,
		cfg.Ai.EmbedMaxAttempts,
		time.Duration(cfg.Ai.EmbedBackoffMs)*time.Millisecond,
	)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Vector Store
	vectorStore := newVectorStore(db, cfg)

	// 5. Retrieval
	retriever := rag.NewRetriever(
		embedGateway,
		vectorStore,
		implementation.NewEntryRepository(db),
		sysLogger,
		rag.Options{TopK: cfg.Retrieval.TopK, MinScore: cfg.Retrieval.MinScore},
		time.Duration(cfg.Retrieval.CacheTTLSec)*time.Second,
	)

	// 6. Services
	guard := conversation.NewGuard()
	publisherService := service.NewPublisherService(pubSub)
	journalService := service.NewJournalService(uowFactory, sysLogger)
	conversationService := service.NewConversationService(
		uowFactory,
		guard,
		retriever,
		llmProvider,
		embedGateway,
		vectorStore,
		publisherService,
		sysLogger,
	)
	maintenanceService := service.NewMaintenanceService(uowFactory, publisherService, sysLogger)
	consumerService := service.NewConsumerService(pubSub, uowFactory, embedGateway, vectorStore, sysLogger)

	// 7. Controllers
	return &Container{
		JournalController:     controller.NewJournalController(journalService),
		EntryController:       controller.NewEntryController(conversationService),
		MaintenanceController: controller.NewMaintenanceController(maintenanceService),
		ConsumerService:       consumerService,
	}
}

// newVectorStore picks the backend: the Postgres deployment gets SQL-side
// similarity through pgvector, everything else uses the in-process scan.
func newVectorStore(db *gorm.DB, cfg *config.Config) vector.Store {
	if cfg.Database.Driver == database.DriverPostgres {
		store := vector.NewPgvectorStore(db, cfg.Retrieval.EmbeddingDims)
		if err := store.Migrate(); err != nil {
			log.Fatalf("[FATAL] Failed to migrate pgvector store: %v", err)
		}
		return store
	}
	return vector.NewScanStore(
		implementation.NewEntryEmbeddingRepository(db),
		cfg.Retrieval.EmbeddingDims,
	)
}

func migrate(db *gorm.DB, cfg *config.Config) error {
	models := []interface{}{
		&model.Journal{},
		&model.Entry{},
		&model.Message{},
	}
	// The embeddings table for Postgres is created by the pgvector store so
	// the column gets the native vector type.
	if cfg.Database.Driver != database.DriverPostgres {
		models = append(models, &model.EntryEmbedding{})
	}
	return db.AutoMigrate(models...)
}
