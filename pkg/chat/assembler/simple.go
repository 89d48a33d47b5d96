package assembler

import (
	"context"
	"fmt"

	"ai-assistant-be/internal/constant"
)

// SimpleStrategy is the conversational mode: persona only, no retrieval.
type SimpleStrategy struct {
	assistantName string
}

func NewSimpleStrategy(assistantName string) *SimpleStrategy {
	return &SimpleStrategy{assistantName: assistantName}
}

func (s *SimpleStrategy) Assemble(_ context.Context, _ string) (*Assembly, error) {
	return &Assembly{
		SystemPrompt: fmt.Sprintf(constant.SimplePersonaPromptTemplate, s.assistantName),
	}, nil
}
