package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/llm"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService runs the background thread-title worker: once a thread has
// its first exchange, it asks the model for a short title and stores it.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	threadCache *memory.ThreadCacheRepository
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	threadCache *memory.ThreadCacheRepository,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		threadCache: threadCache,
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
	var payload dto.PublishThreadTitleMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Generating title for thread %s", payload.ChatThreadId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.ChatThreadRepository().FindOne(ctx, specification.ByID{ID: payload.ChatThreadId})
	if err != nil {
		log.Printf("[ERROR] Failed to get thread %s: %v", payload.ChatThreadId, err)
		msg.Nack()
		return
	}
	if thread == nil {
		log.Printf("[WARN] Thread not found: %s", payload.ChatThreadId)
		msg.Ack() // Thread deleted? Ack.
		return
	}

	firstMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatThreadID{ChatThreadID: payload.ChatThreadId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: 1},
	)
	if err != nil {
		log.Printf("[ERROR] Failed to load opening message for thread %s: %v", payload.ChatThreadId, err)
		msg.Nack()
		return
	}
	if len(firstMessages) == 0 {
		log.Printf("[WARN] Thread %s has no messages yet", payload.ChatThreadId)
		msg.Ack()
		return
	}

	title, err := cs.generateTitle(ctx, firstMessages[0].Content)
	if err != nil {
		log.Printf("[ERROR] Title generation failed for thread %s: %v", payload.ChatThreadId, err)
		msg.Nack()
		return
	}

	now := time.Now()
	thread.Title = title
	thread.UpdatedAt = &now
	if err := uow.ChatThreadRepository().Update(ctx, thread); err != nil {
		log.Printf("[ERROR] Failed to update thread title %s: %v", payload.ChatThreadId, err)
		msg.Nack()
		return
	}

	cs.threadCache.Delete(thread.Id.String())

	log.Printf("[SUCCESS] Thread %s titled %q", payload.ChatThreadId, title)
	msg.Ack()
}

func (cs *consumerService) generateTitle(ctx context.Context, openingMessage string) (string, error) {
	prompt := []llm.Message{
		{
			Role:    constant.ChatMessageRoleUser,
			Content: fmt.Sprintf(constant.ThreadTitlePrompt, openingMessage),
		},
	}

	raw, err := cs.llmProvider.Chat(ctx, prompt, llm.WithTemperature(0.3), llm.WithMaxTokens(60))
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"「」`))
	if title == "" {
		return constant.DefaultThreadTitle, nil
	}
	runes := []rune(title)
	if len(runes) > constant.ThreadTitleLimit {
		title = string(runes[:constant.ThreadTitleLimit])
	}
	return title, nil
}
