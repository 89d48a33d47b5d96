package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/llm"
)

// Window loads the slice of persisted history that accompanies a new
// exchange into the prompt: the most recent messages, oldest first.
type Window struct {
	uowFactory unitofwork.RepositoryFactory
	size       int
}

func NewWindow(uowFactory unitofwork.RepositoryFactory) *Window {
	return &Window{
		uowFactory: uowFactory,
		size:       constant.HistoryWindowSize,
	}
}

func (w *Window) Load(ctx context.Context, threadId uuid.UUID) ([]llm.Message, error) {
	uow := w.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatThreadID{ChatThreadID: threadId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: w.size},
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	// The query returns newest first; the prompt wants oldest first.
	window := make([]llm.Message, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		window = append(window, llm.Message{
			Role:    messages[i].Role,
			Content: messages[i].Content,
		})
	}
	return window, nil
}
