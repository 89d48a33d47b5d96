package unitofwork

import (
	"context"

	"ai-assistant-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. Begin/Commit
// bracket writes that must land together (one exchange's two messages).
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatThreadRepository() contract.ChatThreadRepository
	ChatMessageRepository() contract.ChatMessageRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
}
