package websearch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/pkg/logger"
)

// PageResult is one search hit enriched with fetched page content. Excerpt
// falls back to the engine snippet when the page itself cannot be read.
type PageResult struct {
	Name    string `json:"name"`
	Url     string `json:"url"`
	Snippet string `json:"snippet"`
	Excerpt string `json:"excerpt"`
}

// Researcher runs a web search and enriches the top hits with page content.
type Researcher interface {
	Research(ctx context.Context, query string) ([]PageResult, error)
}

type webResearcher struct {
	search   SearchClient
	fetcher  PageFetcher
	cache    *redis.Client
	cacheTTL time.Duration
	log      logger.ILogger
}

// NewResearcher wires a search client and page fetcher together. The redis
// client may be nil, in which case results are not cached.
func NewResearcher(search SearchClient, fetcher PageFetcher, cache *redis.Client, log logger.ILogger) Researcher {
	return &webResearcher{
		search:   search,
		fetcher:  fetcher,
		cache:    cache,
		cacheTTL: 15 * time.Minute,
		log:      log,
	}
}

func (r *webResearcher) Research(ctx context.Context, query string) ([]PageResult, error) {
	if cached, ok := r.fromCache(ctx, query); ok {
		return cached, nil
	}

	hits, err := r.search.Search(ctx, query, constant.WebSearchTopN)
	if err != nil {
		return nil, err
	}
	if len(hits) > constant.WebSearchTopN {
		hits = hits[:constant.WebSearchTopN]
	}

	results := make([]PageResult, len(hits))
	g, gctx := errgroup.WithContext(ctx)
	for i, hit := range hits {
		i, hit := i, hit
		g.Go(func() error {
			excerpt := hit.Snippet
			content, fetchErr := r.fetcher.FetchText(gctx, hit.Url, constant.WebPageContentLimit)
			if fetchErr != nil {
				r.log.Warn("WebSearch", "page fetch failed, using snippet", map[string]interface{}{
					"url":   hit.Url,
					"error": fetchErr.Error(),
				})
			} else if content != "" {
				excerpt = truncateRunes(content, constant.WebPageExcerptLimit)
			}
			results[i] = PageResult{
				Name:    hit.Name,
				Url:     hit.Url,
				Snippet: hit.Snippet,
				Excerpt: excerpt,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.toCache(ctx, query, results)
	return results, nil
}

func (r *webResearcher) fromCache(ctx context.Context, query string) ([]PageResult, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, err := r.cache.Get(ctx, cacheKey(query)).Bytes()
	if err != nil {
		return nil, false
	}
	var results []PageResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false
	}
	return results, true
}

func (r *webResearcher) toCache(ctx context.Context, query string, results []PageResult) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(query), raw, r.cacheTTL).Err(); err != nil {
		r.log.Warn("WebSearch", "failed to cache search results", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func cacheKey(query string) string {
	return "websearch:" + query
}
