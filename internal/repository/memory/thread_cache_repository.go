package memory

import (
	"time"

	"ai-assistant-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// ThreadCacheRepository keeps recently-touched thread records in memory so a
// busy conversation does not re-read its thread row on every exchange.
// Entries are invalidated on title updates and deletes.
type ThreadCacheRepository struct {
	cache *cache.Cache
}

func NewThreadCacheRepository() *ThreadCacheRepository {
	// Default expiration 1 hour, purge sweep every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ThreadCacheRepository{
		cache: c,
	}
}

func (r *ThreadCacheRepository) Save(thread *entity.ChatThread) {
	r.cache.Set(thread.Id.String(), thread, cache.DefaultExpiration)
}

func (r *ThreadCacheRepository) Get(threadID string) (*entity.ChatThread, bool) {
	if x, found := r.cache.Get(threadID); found {
		return x.(*entity.ChatThread), true
	}
	return nil, false
}

func (r *ThreadCacheRepository) Delete(threadID string) {
	r.cache.Delete(threadID)
}
