package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/chat/assembler"
	"ai-assistant-be/pkg/chat/history"
	"ai-assistant-be/pkg/chat/session"
	"ai-assistant-be/pkg/chat/stream"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/llm"
	pkgNats "ai-assistant-be/pkg/nats"
	"ai-assistant-be/pkg/retrieval"
	"ai-assistant-be/pkg/websearch"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IChatService defines the chat orchestration service interface
type IChatService interface {
	CreateThread(ctx context.Context, userId uuid.UUID) (*dto.CreateThreadResponse, error)
	GetAllThreads(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllThreadsResponse, error)
	GetThreadHistory(ctx context.Context, userId uuid.UUID, threadId uuid.UUID) ([]*dto.GetThreadHistoryResponse, error)
	DeleteThread(ctx context.Context, userId uuid.UUID, request *dto.DeleteThreadRequest) error
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*stream.Completion, error)
	ResolveCitation(ctx context.Context, userId uuid.UUID, chunkId uuid.UUID) (*dto.CitationChunkResponse, error)
}

// chatService coordinates admission, context assembly and streaming
type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	llmProvider      llm.LLMProvider
	retriever        retrieval.Retriever
	researcher       websearch.Researcher
	threadCache      *memory.ThreadCacheRepository
	publisherService IPublisherService
	eventPublisher   *pkgNats.Publisher
	log              logger.ILogger

	assistantName string
	modelPolicy   stream.ModelPolicy

	guard         *session.Guard
	historyWindow *history.Window
	orchestrator  *stream.Orchestrator
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	retriever retrieval.Retriever,
	researcher websearch.Researcher,
	threadCache *memory.ThreadCacheRepository,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
	assistantName string,
	modelPolicy stream.ModelPolicy,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		llmProvider:      llmProvider,
		retriever:        retriever,
		researcher:       researcher,
		threadCache:      threadCache,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,

		assistantName: assistantName,
		modelPolicy:   modelPolicy,

		guard:         session.NewGuard(uowFactory, threadCache, log),
		historyWindow: history.NewWindow(uowFactory),
		orchestrator:  stream.NewOrchestrator(llmProvider, uowFactory, log),
	}
}

// CreateThread creates an empty conversation thread
func (cs *chatService) CreateThread(ctx context.Context, userId uuid.UUID) (*dto.CreateThreadResponse, error) {
	thread := &entity.ChatThread{
		Id:     uuid.New(),
		UserId: userId,
		Title:  constant.DefaultThreadTitle,
		Mode:   constant.ChatModeSimple,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatThreadRepository().Create(ctx, thread); err != nil {
		return nil, err
	}
	cs.threadCache.Save(thread)

	cs.publishEvent(ctx, events.NewThreadCreatedEvent(thread.Id, userId, thread.Mode))

	return &dto.CreateThreadResponse{Id: thread.Id}, nil
}

// GetAllThreads retrieves all threads owned by the user
func (cs *chatService) GetAllThreads(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllThreadsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	threads, err := uow.ChatThreadRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllThreadsResponse, 0, len(threads))
	for _, t := range threads {
		response = append(response, &dto.GetAllThreadsResponse{
			Id:        t.Id,
			Title:     t.Title,
			Mode:      t.Mode,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}

	return response, nil
}

// GetThreadHistory retrieves the stored messages of one thread. Citations
// are parsed out of the inline markers in assistant messages.
func (cs *chatService) GetThreadHistory(ctx context.Context, userId uuid.UUID, threadId uuid.UUID) ([]*dto.GetThreadHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.ChatThreadRepository().FindOne(ctx,
		specification.ByID{ID: threadId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Thread not found or access denied.")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatThreadID{ChatThreadID: threadId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetThreadHistoryResponse, 0, len(messages))
	for _, msg := range messages {
		item := &dto.GetThreadHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}
		if msg.Role == constant.ChatMessageRoleAssistant {
			for _, c := range assembler.ParseMarkers(msg.Content) {
				item.Citations = append(item.Citations, dto.CitationDTO{Name: c.Name, Id: c.Id})
			}
			item.Content = assembler.StripMarkers(msg.Content)
		}
		response = append(response, item)
	}

	return response, nil
}

// DeleteThread removes a thread and all of its messages
func (cs *chatService) DeleteThread(ctx context.Context, userId uuid.UUID, request *dto.DeleteThreadRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.ChatThreadRepository().FindOne(ctx,
		specification.ByID{ID: request.ChatThreadId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if thread == nil {
		return fiber.NewError(fiber.StatusNotFound, "Thread not found or access denied.")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatThreadRepository().Delete(ctx, request.ChatThreadId); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteByChatThreadId(ctx, request.ChatThreadId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	cs.threadCache.Delete(request.ChatThreadId.String())
	cs.publishEvent(ctx, events.NewThreadDeletedEvent(request.ChatThreadId, userId))

	return nil
}

// SendChat admits the exchange, assembles its grounded context and starts
// the completion stream. Persistence happens inside the orchestrator, only
// when the stream finishes genuinely.
func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*stream.Completion, error) {
	admission, err := cs.guard.Admit(ctx, userId, request)
	if err != nil {
		if session.IsInvalidSession(err) {
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return nil, err
	}
	thread := admission.Thread

	mode := request.ChatType
	if mode == "" {
		mode = thread.Mode
	}
	if mode == "" {
		mode = constant.ChatModeSimple
	}

	hist, err := cs.historyWindow.Load(ctx, thread.Id)
	if err != nil {
		cs.log.Warn("ChatService", "history load failed, continuing without history", map[string]interface{}{
			"thread_id": thread.Id.String(),
			"error":     err.Error(),
		})
		hist = []llm.Message{}
	}

	strategy := cs.strategyFor(mode, thread, request)
	assembly, err := strategy.Assemble(ctx, admission.Query)
	if err != nil {
		return nil, err
	}

	model := cs.modelPolicy.Resolve(request.ChatAPIModel, mode)

	// Grounded modes replace the final user turn with the assembled context;
	// the persisted user message stays the bare query either way.
	userTurn := admission.Query
	if assembly.UserContent != "" {
		userTurn = assembly.UserContent
	}

	prompt := make([]llm.Message, 0, len(hist)+2)
	prompt = append(prompt, llm.Message{Role: constant.ChatMessageRoleSystem, Content: assembly.SystemPrompt})
	prompt = append(prompt, hist...)
	prompt = append(prompt, llm.Message{Role: constant.ChatMessageRoleUser, Content: userTurn})

	completion, err := cs.orchestrator.Run(ctx, &stream.Exchange{
		ThreadId:  thread.Id,
		Query:     admission.Query,
		Prompt:    prompt,
		Grounding: assembly.Grounding,
		Model:     model,
	})
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	go cs.afterExchange(completion, thread, userId, mode, model, admission.Created)

	return completion, nil
}

// afterExchange fires the post-persistence side effects: the exchange event
// and, for a brand new thread, the title generation request.
func (cs *chatService) afterExchange(completion *stream.Completion, thread *entity.ChatThread, userId uuid.UUID, mode, model string, created bool) {
	if err := completion.Err(); err != nil {
		return
	}

	ctx := context.Background()
	cs.publishEvent(ctx, events.NewExchangeRecordedEvent(thread.Id, userId, mode, model))

	if created {
		payload, err := json.Marshal(dto.PublishThreadTitleMessage{ChatThreadId: thread.Id})
		if err != nil {
			return
		}
		if err := cs.publisherService.Publish(ctx, payload); err != nil {
			cs.log.Warn("ChatService", "failed to request thread title", map[string]interface{}{
				"thread_id": thread.Id.String(),
				"error":     err.Error(),
			})
		}
	}
}

// ResolveCitation returns the source chunk behind a citation id
func (cs *chatService) ResolveCitation(ctx context.Context, userId uuid.UUID, chunkId uuid.UUID) (*dto.CitationChunkResponse, error) {
	fragment, err := cs.retriever.Lookup(ctx, chunkId)
	if err != nil {
		return nil, err
	}
	if fragment == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Citation source not found.")
	}

	return &dto.CitationChunkResponse{
		Id:      fragment.Id.String(),
		Source:  fragment.Source,
		Content: fragment.Content,
	}, nil
}

// strategyFor picks the context assembly strategy for the exchange mode.
func (cs *chatService) strategyFor(mode string, thread *entity.ChatThread, request *dto.SendChatRequest) assembler.Strategy {
	switch mode {
	case constant.ChatModeDoc:
		chatDoc := request.ChatDoc
		if chatDoc == "" {
			chatDoc = thread.ChatDoc
		}
		filter := retrieval.NewFilter().WithChatType(constant.ChatModeDoc)
		if chatDoc != "" && chatDoc != constant.ChatDocScopeAll {
			filter = filter.WithDeptName(chatDoc)
		}
		return assembler.NewDocumentStrategy(cs.retriever, filter, cs.assistantName, cs.log)

	case constant.ChatModeData:
		filter := retrieval.NewFilter().
			WithChatType(constant.ChatModeData).
			WithOwningThread(thread.Id)
		return assembler.NewDocumentStrategy(cs.retriever, filter, cs.assistantName, cs.log)

	case constant.ChatModeWeb:
		return assembler.NewWebStrategy(cs.researcher, cs.assistantName, cs.log)

	default:
		return assembler.NewSimpleStrategy(cs.assistantName)
	}
}

func (cs *chatService) publishEvent(ctx context.Context, evt events.Event) {
	if cs.eventPublisher == nil {
		return
	}
	// We log error but don't fail the request as events are auxiliary
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", evt.EventType(), err)
	}
}
