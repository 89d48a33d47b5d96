package assembler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/retrieval"
)

// DocumentStrategy grounds the answer in the top similarity matches from the
// document index. The filter decides which partition of the index is visible.
type DocumentStrategy struct {
	retriever     retrieval.Retriever
	filter        retrieval.Filter
	assistantName string
	log           logger.ILogger
}

func NewDocumentStrategy(retriever retrieval.Retriever, filter retrieval.Filter, assistantName string, log logger.ILogger) *DocumentStrategy {
	return &DocumentStrategy{
		retriever:     retriever,
		filter:        filter,
		assistantName: assistantName,
		log:           log,
	}
}

type documentGrounding struct {
	Id      string  `json:"id"`
	Source  string  `json:"source"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

func (s *DocumentStrategy) Assemble(ctx context.Context, query string) (*Assembly, error) {
	fragments, err := s.retriever.Search(ctx, query, s.filter, constant.DocumentSearchLimit)
	if err != nil {
		s.log.Warn("Assembler", "document retrieval failed, answering ungrounded", map[string]interface{}{
			"error": err.Error(),
		})
		return ungroundedAssembly(s.assistantName), nil
	}
	if len(fragments) == 0 {
		return ungroundedAssembly(s.assistantName), nil
	}

	var block strings.Builder
	citations := make([]Citation, 0, len(fragments))
	grounding := make([]documentGrounding, 0, len(fragments))
	for i, frag := range fragments {
		content := stripLineBreaks(frag.Content)
		fmt.Fprintf(&block, "[%d] 文書名: %s 文書ID: %s\n", i+1, frag.Source, frag.Id)
		block.WriteString(content)
		block.WriteString("\n------\n")

		citations = append(citations, Citation{Name: frag.Source, Id: frag.Id.String()})
		grounding = append(grounding, documentGrounding{
			Id:      frag.Id.String(),
			Source:  frag.Source,
			Content: content,
			Score:   frag.Score,
		})
	}

	// The context block, answer rules and citation manifest travel in the
	// final user turn. The manifest enumerates the retrieved documents in
	// order so the model emits exactly these name/id pairs.
	var userTurn strings.Builder
	userTurn.WriteString(constant.DocAnswerRules)
	userTurn.WriteString("\n")
	userTurn.WriteString(constant.DocCitationDirectivePrefix)
	userTurn.WriteString(BuildMarker(citations))
	userTurn.WriteString("\n----------------\n参考文書:\n")
	userTurn.WriteString(block.String())
	userTurn.WriteString("----------------\n質問: ")
	userTurn.WriteString(query)

	groundingJSON, err := json.Marshal(grounding)
	if err != nil {
		return nil, fmt.Errorf("marshal grounding: %w", err)
	}

	return &Assembly{
		SystemPrompt: fmt.Sprintf(constant.SystemPersonaPromptTemplate, s.assistantName),
		UserContent:  userTurn.String(),
		Grounding:    string(groundingJSON),
		Citations:    citations,
	}, nil
}

func ungroundedAssembly(assistantName string) *Assembly {
	return &Assembly{
		SystemPrompt: fmt.Sprintf(constant.SimplePersonaPromptTemplate, assistantName),
	}
}

// stripLineBreaks flattens chunk content to one line so the numbered block
// stays readable to the model.
func stripLineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}
