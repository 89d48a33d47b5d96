package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatThread struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title     string         `gorm:"type:text;not null"`
	Mode      string         `gorm:"type:varchar(16);not null;default:'simple'"`
	ChatDoc   string         `gorm:"type:text;not null;default:'all'"` // department/document-set selector
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ChatThread) TableName() string {
	return "chat_threads"
}
