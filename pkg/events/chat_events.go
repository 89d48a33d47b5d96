package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeThreadCreated    = "CHAT_THREAD_CREATED"
	TypeThreadDeleted    = "CHAT_THREAD_DELETED"
	TypeExchangeRecorded = "CHAT_EXCHANGE_RECORDED"
)

// NewThreadCreatedEvent fires when a new conversation thread is admitted.
func NewThreadCreatedEvent(threadId, userId uuid.UUID, mode string) Event {
	return BaseEvent{
		Type: TypeThreadCreated,
		Data: map[string]interface{}{
			"thread_id": threadId.String(),
			"user_id":   userId.String(),
			"mode":      mode,
		},
		OccurredAt: time.Now(),
	}
}

// NewThreadDeletedEvent fires when a thread and its messages are removed.
func NewThreadDeletedEvent(threadId, userId uuid.UUID) Event {
	return BaseEvent{
		Type: TypeThreadDeleted,
		Data: map[string]interface{}{
			"thread_id": threadId.String(),
			"user_id":   userId.String(),
		},
		OccurredAt: time.Now(),
	}
}

// NewExchangeRecordedEvent fires after a user/assistant pair lands in storage.
func NewExchangeRecordedEvent(threadId, userId uuid.UUID, mode, model string) Event {
	return BaseEvent{
		Type: TypeExchangeRecorded,
		Data: map[string]interface{}{
			"thread_id": threadId.String(),
			"user_id":   userId.String(),
			"mode":      mode,
			"model":     model,
		},
		OccurredAt: time.Now(),
	}
}
