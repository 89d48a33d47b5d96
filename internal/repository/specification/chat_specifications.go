package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatThreadID struct {
	ChatThreadID uuid.UUID
}

func (s ByChatThreadID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_thread_id = ?", s.ChatThreadID)
}
