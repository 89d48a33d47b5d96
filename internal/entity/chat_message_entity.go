package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id           uuid.UUID
	ChatThreadId uuid.UUID
	Role         string
	Content      string
	Context      string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
