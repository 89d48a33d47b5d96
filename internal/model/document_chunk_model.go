package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// DocumentChunk is one indexed fragment of a source document. Rows are
// written by the external ingestion pipeline; this service only reads them.
type DocumentChunk struct {
	Id           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Source       string          `gorm:"type:text;not null"`              // display name of the origin document
	ChatType     string          `gorm:"type:varchar(16);not null;index"` // "doc" | "data"
	DeptName     string          `gorm:"type:text;index"`
	ChatThreadId *uuid.UUID      `gorm:"type:uuid;index"` // set for thread-scoped ("data") uploads
	Content      string          `gorm:"type:text;not null"`
	Embedding    pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	DeletedAt    gorm.DeletedAt  `gorm:"index"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
