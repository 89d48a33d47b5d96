package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateThreadResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllThreadsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Mode      string     `json:"mode"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetThreadHistoryResponse struct {
	Id        uuid.UUID     `json:"id"`
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	Citations []CitationDTO `json:"citations,omitempty"`
}

// CitationDTO mirrors the {name, id} pairs embedded in the citation marker.
type CitationDTO struct {
	Name string `json:"name"`
	Id   string `json:"id"`
}

// ChatMessageDTO is one user-visible message in the inbound request.
type ChatMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

type SendChatRequest struct {
	Id           uuid.UUID        `json:"id" validate:"required"`
	Messages     []ChatMessageDTO `json:"messages" validate:"required"`
	ChatType     string           `json:"chatType" validate:"omitempty,oneof=doc data web simple"`
	ChatDoc      string           `json:"chatDoc"`
	ChatAPIModel string           `json:"chatAPIModel"`
}

// PublishThreadTitleMessage asks the background worker to name a thread.
type PublishThreadTitleMessage struct {
	ChatThreadId uuid.UUID `json:"chat_thread_id"`
}

type DeleteThreadRequest struct {
	ChatThreadId uuid.UUID `json:"chat_thread_id" validate:"required"`
}

type CitationChunkResponse struct {
	Id      string `json:"id"`
	Source  string `json:"source"`
	Content string `json:"content"`
}
