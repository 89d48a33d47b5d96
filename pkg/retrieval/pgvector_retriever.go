package retrieval

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/embedding"
)

// PgVectorRetriever embeds the query and runs a cosine similarity search
// against the document_chunks table.
type PgVectorRetriever struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
	log        logger.ILogger
}

func NewPgVectorRetriever(uowFactory unitofwork.RepositoryFactory, embedder embedding.EmbeddingProvider, log logger.ILogger) Retriever {
	return &PgVectorRetriever{
		uowFactory: uowFactory,
		embedder:   embedder,
		log:        log,
	}
}

func (r *PgVectorRetriever) Search(ctx context.Context, query string, filter Filter, limit int) ([]Fragment, error) {
	queryVector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, queryVector, limit, filter.Specifications()...)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	fragments := make([]Fragment, 0, len(scored))
	for _, s := range scored {
		if s.Chunk == nil {
			continue
		}
		fragments = append(fragments, Fragment{
			Id:      s.Chunk.Id,
			Source:  s.Chunk.Source,
			Content: s.Chunk.Content,
			Score:   s.Similarity,
		})
	}

	r.log.Debug("Retrieval", "similarity search completed", map[string]interface{}{
		"matches": len(fragments),
		"limit":   limit,
	})
	return fragments, nil
}

func (r *PgVectorRetriever) Lookup(ctx context.Context, id uuid.UUID) (*Fragment, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	chunk, err := uow.DocumentChunkRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, nil
	}
	return &Fragment{
		Id:      chunk.Id,
		Source:  chunk.Source,
		Content: chunk.Content,
	}, nil
}
