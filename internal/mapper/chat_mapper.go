package mapper

import (
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Thread Mappers

func (m *ChatMapper) ChatThreadToEntity(t *model.ChatThread) *entity.ChatThread {
	if t == nil {
		return nil
	}

	var deletedAt *time.Time
	if t.DeletedAt.Valid {
		d := t.DeletedAt.Time
		deletedAt = &d
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}

	return &entity.ChatThread{
		Id:        t.Id,
		UserId:    t.UserId,
		Title:     t.Title,
		Mode:      t.Mode,
		ChatDoc:   t.ChatDoc,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: t.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatThreadToModel(t *entity.ChatThread) *model.ChatThread {
	if t == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if t.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *t.DeletedAt, Valid: true}
	} else if t.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.ChatThread{
		Id:        t.Id,
		UserId:    t.UserId,
		Title:     t.Title,
		Mode:      t.Mode,
		ChatDoc:   t.ChatDoc,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var deletedAt *time.Time
	if msg.DeletedAt.Valid {
		d := msg.DeletedAt.Time
		deletedAt = &d
	}

	var updatedAt *time.Time
	if !msg.UpdatedAt.IsZero() {
		u := msg.UpdatedAt
		updatedAt = &u
	}

	return &entity.ChatMessage{
		Id:           msg.Id,
		ChatThreadId: msg.ChatThreadId,
		Role:         msg.Role,
		Content:      msg.Content,
		Context:      msg.Context,
		CreatedAt:    msg.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    msg.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if msg.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *msg.DeletedAt, Valid: true}
	} else if msg.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if msg.UpdatedAt != nil {
		updatedAt = *msg.UpdatedAt
	}

	return &model.ChatMessage{
		Id:           msg.Id,
		ChatThreadId: msg.ChatThreadId,
		Role:         msg.Role,
		Content:      msg.Content,
		Context:      msg.Context,
		CreatedAt:    msg.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}
