package assembler

import "context"

// Citation is one {name, id} pair referenced by an answer.
type Citation struct {
	Name string `json:"name"`
	Id   string `json:"id"`
}

// Assembly is everything a completion request needs beyond the raw history.
// The persona goes to the system message; the grounded context rides the
// final user turn so it lands after the history window.
type Assembly struct {
	SystemPrompt string
	// UserContent replaces the bare query as the final user turn. Empty for
	// ungrounded modes, where the query is sent as-is.
	UserContent string
	// Grounding is persisted with the assistant message for later citation
	// resolution.
	Grounding string
	Citations []Citation
}

// Strategy builds the retrieval-augmented context for one mode. A strategy
// degrades to an ungrounded persona prompt when its source is unavailable;
// it does not fail the exchange.
type Strategy interface {
	Assemble(ctx context.Context, query string) (*Assembly, error)
}
