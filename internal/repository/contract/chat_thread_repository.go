package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatThreadRepository interface {
	Create(ctx context.Context, thread *entity.ChatThread) error
	Update(ctx context.Context, thread *entity.ChatThread) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatThread, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatThread, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
