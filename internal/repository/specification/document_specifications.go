package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByChatType narrows the document index to one chat-type partition.
type ByChatType struct {
	ChatType string
}

func (s ByChatType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_type = ?", s.ChatType)
}

// ByDeptName narrows the document index to one department. The value is
// always bound as a parameter, never concatenated into the predicate.
type ByDeptName struct {
	DeptName string
}

func (s ByDeptName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("dept_name = ?", s.DeptName)
}

// ByOwningThread narrows thread-scoped document uploads.
type ByOwningThread struct {
	ChatThreadID uuid.UUID
}

func (s ByOwningThread) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_thread_id = ?", s.ChatThreadID)
}
