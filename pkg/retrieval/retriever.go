package retrieval

import (
	"context"

	"github.com/google/uuid"
)

// Fragment is one retrieved piece of source material, ready to be cited.
type Fragment struct {
	Id      uuid.UUID
	Source  string
	Content string
	Score   float64
}

// Retriever finds the fragments most similar to a query under a filter.
type Retriever interface {
	Search(ctx context.Context, query string, filter Filter, limit int) ([]Fragment, error)
	Lookup(ctx context.Context, id uuid.UUID) (*Fragment, error)
}
