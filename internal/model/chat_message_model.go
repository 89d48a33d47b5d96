package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessage struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatThreadId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role         string    `gorm:"type:varchar(16);not null"`
	Content      string    `gorm:"type:text;not null"`
	// Context carries the grounding blob used to produce an assistant answer.
	// Citation ids inside the answer resolve against this exchange's context.
	Context   string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
