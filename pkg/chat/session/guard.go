package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
)

// ErrInvalidSession means the inbound exchange cannot be admitted: no
// messages, a non-user final message, or an empty query.
var ErrInvalidSession = errors.New("invalid chat session")

// IsInvalidSession reports whether err is an admission failure.
func IsInvalidSession(err error) bool {
	return errors.Is(err, ErrInvalidSession)
}

// Guard admits an inbound exchange: it validates the message shape and
// resolves (or creates) the thread the exchange belongs to.
type Guard struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.ThreadCacheRepository
	log        logger.ILogger
}

func NewGuard(uowFactory unitofwork.RepositoryFactory, cache *memory.ThreadCacheRepository, log logger.ILogger) *Guard {
	return &Guard{
		uowFactory: uowFactory,
		cache:      cache,
		log:        log,
	}
}

// Admission is the outcome of admitting an exchange.
type Admission struct {
	Thread *entity.ChatThread
	// Query is the content of the final user message.
	Query string
	// Created reports whether this admission created the thread.
	Created bool
}

func (g *Guard) Admit(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*Admission, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("%w: no messages", ErrInvalidSession)
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != constant.ChatMessageRoleUser {
		return nil, fmt.Errorf("%w: final message must come from the user", ErrInvalidSession)
	}
	query := strings.TrimSpace(last.Content)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidSession)
	}

	thread, err := g.resolveThread(ctx, userId, req.Id)
	if err != nil {
		return nil, err
	}
	if thread != nil {
		return &Admission{Thread: thread, Query: query}, nil
	}

	thread, err = g.createThread(ctx, userId, req, query)
	if err != nil {
		return nil, err
	}
	return &Admission{Thread: thread, Query: query, Created: true}, nil
}

func (g *Guard) resolveThread(ctx context.Context, userId, threadId uuid.UUID) (*entity.ChatThread, error) {
	if cached, found := g.cache.Get(threadId.String()); found {
		if cached.UserId != userId {
			return nil, fmt.Errorf("%w: thread belongs to another user", ErrInvalidSession)
		}
		return cached, nil
	}

	uow := g.uowFactory.NewUnitOfWork(ctx)
	thread, err := uow.ChatThreadRepository().FindOne(ctx,
		specification.ByID{ID: threadId},
	)
	if err != nil {
		return nil, fmt.Errorf("resolve thread: %w", err)
	}
	if thread == nil {
		return nil, nil
	}
	if thread.UserId != userId {
		return nil, fmt.Errorf("%w: thread belongs to another user", ErrInvalidSession)
	}

	g.cache.Save(thread)
	return thread, nil
}

func (g *Guard) createThread(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest, query string) (*entity.ChatThread, error) {
	mode := req.ChatType
	if mode == "" {
		mode = constant.ChatModeSimple
	}

	thread := &entity.ChatThread{
		Id:      req.Id,
		UserId:  userId,
		Title:   deriveTitle(query),
		Mode:    mode,
		ChatDoc: req.ChatDoc,
	}

	uow := g.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatThreadRepository().Create(ctx, thread); err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}

	g.cache.Save(thread)
	g.log.Info("Session", "thread created", map[string]interface{}{
		"thread_id": thread.Id.String(),
		"mode":      thread.Mode,
	})
	return thread, nil
}

// deriveTitle uses the opening query as a provisional title, truncated to
// the title limit in runes.
func deriveTitle(query string) string {
	if query == "" {
		return constant.DefaultThreadTitle
	}
	runes := []rune(query)
	if len(runes) <= constant.ThreadTitleLimit {
		return query
	}
	return string(runes[:constant.ThreadTitleLimit])
}
