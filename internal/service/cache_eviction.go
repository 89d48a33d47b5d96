package service

import (
	"context"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/events"
	pkgNats "ai-assistant-be/pkg/nats"
)

// NewThreadCacheEvictor returns an event handler that drops a locally cached
// thread when a deletion lands elsewhere. Every instance consumes thread
// events ephemerally, so a delete on one instance cannot leave a stale
// thread in another instance's memory.
func NewThreadCacheEvictor(threadCache *memory.ThreadCacheRepository, log logger.ILogger) pkgNats.EventHandler {
	return func(_ context.Context, event events.Event) error {
		threadId, ok := event.Payload()["thread_id"].(string)
		if !ok || threadId == "" {
			return nil
		}
		threadCache.Delete(threadId)
		log.Debug("CacheEvictor", "evicted thread from local cache", map[string]interface{}{
			"thread_id": threadId,
		})
		return nil
	}
}
