package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentChunk struct {
	Id           uuid.UUID
	Source       string
	ChatType     string
	DeptName     string
	ChatThreadId *uuid.UUID
	Content      string
	CreatedAt    time.Time
}
