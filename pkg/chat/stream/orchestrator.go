package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/llm"
)

// ErrStreamInterrupted marks an exchange that died mid-generation. Nothing
// from the exchange is persisted in that case.
var ErrStreamInterrupted = errors.New("completion stream interrupted")

// Exchange is one admitted user turn, fully assembled and ready to run.
type Exchange struct {
	ThreadId uuid.UUID
	// Query is the user message to persist alongside the assistant reply.
	Query string
	// Prompt is the complete message list sent to the model: system prompt,
	// history window, then the query.
	Prompt []llm.Message
	// Grounding is stored with the assistant message for later citation
	// resolution. Empty for ungrounded modes.
	Grounding string
	Model     string
}

// Orchestrator runs exchanges: it serializes per thread, pumps the provider
// stream, and persists the user and assistant messages together only when
// the stream completes genuinely.
type Orchestrator struct {
	provider   llm.LLMProvider
	uowFactory unitofwork.RepositoryFactory
	locks      *KeyedLock
	log        logger.ILogger
}

func NewOrchestrator(provider llm.LLMProvider, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) *Orchestrator {
	return &Orchestrator{
		provider:   provider,
		uowFactory: uowFactory,
		locks:      NewKeyedLock(),
		log:        log,
	}
}

// Run starts the exchange and returns once the provider stream is open. The
// returned Completion delivers tokens; persistence happens after the last
// token, under the same per-thread lock. The exchange is detached from the
// caller's cancellation so a dropped client cannot strand a half-persisted
// turn.
func (o *Orchestrator) Run(ctx context.Context, ex *Exchange) (*Completion, error) {
	key := ex.ThreadId.String()
	o.locks.Lock(key)

	runCtx := context.WithoutCancel(ctx)

	opts := []llm.Option{llm.WithMaxTokens(constant.CompletionMaxTokens)}
	if ex.Model != "" {
		opts = append(opts, llm.WithModel(ex.Model))
	}
	providerStream, err := o.provider.ChatStream(runCtx, ex.Prompt, opts...)
	if err != nil {
		o.locks.Unlock(key)
		return nil, fmt.Errorf("open completion stream: %w", err)
	}

	completion := newCompletion()
	go o.pump(runCtx, ex, providerStream, completion, key)
	return completion, nil
}

func (o *Orchestrator) pump(ctx context.Context, ex *Exchange, providerStream llm.Stream, completion *Completion, key string) {
	defer o.locks.Unlock(key)
	defer providerStream.Close()

	var answer strings.Builder
	for {
		token, err := providerStream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			o.log.Error("Stream", "completion stream interrupted", map[string]interface{}{
				"thread_id": ex.ThreadId.String(),
				"error":     err.Error(),
			})
			completion.finish(fmt.Errorf("%w: %v", ErrStreamInterrupted, err))
			return
		}
		if token != "" {
			answer.WriteString(token)
			completion.tokens <- token
		}
	}

	if err := o.persist(ctx, ex, answer.String()); err != nil {
		o.log.Error("Stream", "failed to persist exchange", map[string]interface{}{
			"thread_id": ex.ThreadId.String(),
			"error":     err.Error(),
		})
		completion.finish(err)
		return
	}

	completion.finish(nil)
}

// persist writes the user and assistant messages in one transaction. Either
// both land or neither does.
func (o *Orchestrator) persist(ctx context.Context, ex *Exchange, answer string) error {
	uow := o.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin exchange transaction: %w", err)
	}

	userMessage := &entity.ChatMessage{
		Id:           uuid.New(),
		ChatThreadId: ex.ThreadId,
		Role:         constant.ChatMessageRoleUser,
		Content:      ex.Query,
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		uow.Rollback()
		return fmt.Errorf("persist user message: %w", err)
	}

	assistantMessage := &entity.ChatMessage{
		Id:           uuid.New(),
		ChatThreadId: ex.ThreadId,
		Role:         constant.ChatMessageRoleAssistant,
		Content:      answer,
		Context:      ex.Grounding,
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		uow.Rollback()
		return fmt.Errorf("persist assistant message: %w", err)
	}

	if err := uow.Commit(); err != nil {
		uow.Rollback()
		return fmt.Errorf("commit exchange: %w", err)
	}
	return nil
}
