package bootstrap

import (
	"context"
	"log"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/pkg/chat/stream"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/llm/factory"
	"ai-assistant-be/pkg/retrieval"
	"ai-assistant-be/pkg/websearch"

	pkgNats "ai-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
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

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(
			cfg.Keys.OpenAI,
			cfg.Ai.OpenAIBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Keys.OpenAI,
		cfg.Ai.OpenAIBaseURL,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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

	// In-memory thread cache
	threadCache := memory.NewThreadCacheRepository()

	// Every instance consumes thread deletions ephemerally so a delete on
	// one instance evicts the cached thread on all of them.
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else if err := natsSub.Subscribe(
		"chat.events.chat_thread_deleted",
		"",
		service.NewThreadCacheEvictor(threadCache, sysLogger),
	); err != nil {
		log.Printf("[WARN] Failed to subscribe to thread events: %v", err)
	}

	// 5. Domain Components
	retriever := retrieval.NewPgVectorRetriever(uowFactory, embeddingProvider, sysLogger)

	searchClient := websearch.NewBingClient(cfg.Keys.BingSearch)
	pageFetcher := websearch.NewPageFetcher()
	researcher := websearch.NewResearcher(searchClient, pageFetcher, rdb, sysLogger)

	modelPolicy := stream.ModelPolicy{
		DefaultModel:       cfg.Ai.LLMModel,
		FastModel:          cfg.Ai.LLMFastModel,
		AllowTierSelection: cfg.Ai.AllowTierSelection,
	}

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.ThreadTitleTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.ThreadTitleTopic,
		uowFactory,
		llmProvider,
		threadCache,
	)

	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		retriever,
		researcher,
		threadCache,
		publisherService,
		natsPub,
		cfg.Ai.AssistantName,
		modelPolicy,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		ChatController:  controller.NewChatController(chatService),
		ConsumerService: consumerService,
	}
}
