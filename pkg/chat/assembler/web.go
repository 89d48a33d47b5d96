package assembler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/websearch"
)

// WebStrategy grounds the answer in live web search results.
type WebStrategy struct {
	researcher    websearch.Researcher
	assistantName string
	log           logger.ILogger
}

func NewWebStrategy(researcher websearch.Researcher, assistantName string, log logger.ILogger) *WebStrategy {
	return &WebStrategy{
		researcher:    researcher,
		assistantName: assistantName,
		log:           log,
	}
}

func (s *WebStrategy) Assemble(ctx context.Context, query string) (*Assembly, error) {
	results, err := s.researcher.Research(ctx, query)
	if err != nil {
		s.log.Warn("Assembler", "web research failed, answering ungrounded", map[string]interface{}{
			"error": err.Error(),
		})
		return ungroundedAssembly(s.assistantName), nil
	}
	if len(results) == 0 {
		return ungroundedAssembly(s.assistantName), nil
	}

	var block strings.Builder
	for i, result := range results {
		fmt.Fprintf(&block, "[%d]\n", i+1)
		fmt.Fprintf(&block, "タイトル: %s\n", result.Name)
		fmt.Fprintf(&block, "URL: %s\n", result.Url)
		fmt.Fprintf(&block, "スニペット: %s\n", result.Snippet)
		fmt.Fprintf(&block, "詳細コンテンツ抜粋: %s\n", result.Excerpt)
		block.WriteString("------\n")
	}

	// Search results ride the final user turn, after the history window.
	var userTurn strings.Builder
	fmt.Fprintf(&userTurn, "問い合わせ: %s\n\nWeb検索結果の概要:\n", query)
	userTurn.WriteString(block.String())
	userTurn.WriteString("\n")
	userTurn.WriteString(constant.WebAnswerDirective)

	groundingJSON, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("marshal grounding: %w", err)
	}

	return &Assembly{
		SystemPrompt: fmt.Sprintf(constant.WebPersonaPromptTemplate, s.assistantName),
		UserContent:  userTurn.String(),
		Grounding:    string(groundingJSON),
	}, nil
}
