package mapper

import (
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

// ToEntity drops the raw embedding vector: callers of the read side only
// need the chunk text and its labels.
func (m *DocumentMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}

	return &entity.DocumentChunk{
		Id:           c.Id,
		Source:       c.Source,
		ChatType:     c.ChatType,
		DeptName:     c.DeptName,
		ChatThreadId: c.ChatThreadId,
		Content:      c.Content,
		CreatedAt:    c.CreatedAt,
	}
}
