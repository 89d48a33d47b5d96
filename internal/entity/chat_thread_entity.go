package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatThread struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Mode      string
	ChatDoc   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
