package bootstrap

import (
	"log"
	"os"
	"path/filepath"

	"ksg-support-be/internal/config"
	"ksg-support-be/internal/controller"
	"ksg-support-be/internal/pkg/logger"
	"ksg-support-be/internal/repository/implementation"
	"ksg-support-be/internal/repository/memory"
	"ksg-support-be/internal/repository/unitofwork"
	"ksg-support-be/internal/service"
	"ksg-support-be/pkg/embedding"
	"ksg-support-be/pkg/llm/factory"
	"ksg-support-be/pkg/pdfx"
	"ksg-support-be/pkg/rag/answer"
	"ksg-support-be/pkg/rag/ingest"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController

	// Background services, run from main
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "openai" {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. RAG components
	ragLogger := initRagLogger()
	chunkIndex := implementation.NewChunkIndexRepository(db)

	pipeline := ingest.NewPipeline(
		pdfx.NewExtractor(),
		embeddingProvider,
		chunkIndex,
		ingest.Config{
			MaxChunkChars: cfg.Ingest.MaxChunkChars,
			ChunkOverlap:  cfg.Ingest.ChunkOverlap,
			MinChunkChars: cfg.Ingest.MinChunkChars,
			MinPageChars:  cfg.Ingest.MinPageChars,
			VectorDim:     cfg.Ai.VectorDim,
		},
		ragLogger,
	)

	answerEngine := answer.NewEngine(
		embeddingProvider,
		chunkIndex,
		llmProvider,
		cfg.Ai.AssistantName,
		cfg.Ingest.TopK,
		ragLogger,
	)

	ingestGuard := memory.NewIngestGuard()

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.IndexTopicName)
	documentService := service.NewDocumentService(
		uowFactory,
		pipeline,
		ingestGuard,
		publisherService,
		cfg.Ingest.UploadDir,
		sysLogger,
	)
	consumerService := service.NewConsumerService(pubSub, cfg.App.IndexTopicName, documentService, sysLogger)

	authService := service.NewAuthService(uowFactory, cfg.Auth)
	chatService := service.NewChatService(uowFactory, answerEngine)

	sysLogger.Info("bootstrap", "Container wired", map[string]interface{}{
		"embedding_provider": cfg.Ai.EmbeddingProvider,
		"llm_provider":       cfg.Ai.LLMProvider,
	})

	// 6. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		ChatController:     controller.NewChatController(chatService),
		DocumentController: controller.NewDocumentController(documentService),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}

func initRagLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
