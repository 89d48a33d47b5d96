package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/events"
)

func TestThreadCacheEvictorDropsDeletedThread(t *testing.T) {
	cache := memory.NewThreadCacheRepository()
	thread := &entity.ChatThread{Id: uuid.New(), UserId: uuid.New(), Title: "社内規定の質問"}
	cache.Save(thread)

	evict := NewThreadCacheEvictor(cache, nopLogger{})
	if err := evict(context.Background(), events.NewThreadDeletedEvent(thread.Id, thread.UserId)); err != nil {
		t.Fatalf("evictor error = %v", err)
	}

	if _, found := cache.Get(thread.Id.String()); found {
		t.Error("deleted thread still cached after the eviction event")
	}
}

func TestThreadCacheEvictorToleratesMalformedPayload(t *testing.T) {
	evict := NewThreadCacheEvictor(memory.NewThreadCacheRepository(), nopLogger{})

	event := events.BaseEvent{
		Type:       events.TypeThreadDeleted,
		Data:       map[string]interface{}{"thread_id": 42},
		OccurredAt: time.Now(),
	}
	if err := evict(context.Background(), event); err != nil {
		t.Errorf("evictor error = %v, want malformed payloads ignored", err)
	}
}
