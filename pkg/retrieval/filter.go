package retrieval

import (
	"github.com/google/uuid"

	"ai-assistant-be/internal/repository/specification"
)

// Filter narrows a similarity search to a partition of the document index.
// Every field maps to a parameter-bound predicate, so user-supplied values
// (a department name, a thread id) stay data and never reach the query text.
type Filter struct {
	chatType     string
	deptName     string
	owningThread *uuid.UUID
}

func NewFilter() Filter {
	return Filter{}
}

func (f Filter) WithChatType(chatType string) Filter {
	f.chatType = chatType
	return f
}

func (f Filter) WithDeptName(deptName string) Filter {
	f.deptName = deptName
	return f
}

func (f Filter) WithOwningThread(threadId uuid.UUID) Filter {
	f.owningThread = &threadId
	return f
}

// Specifications renders the filter as repository specifications.
func (f Filter) Specifications() []specification.Specification {
	specs := make([]specification.Specification, 0, 3)
	if f.chatType != "" {
		specs = append(specs, specification.ByChatType{ChatType: f.chatType})
	}
	if f.deptName != "" {
		specs = append(specs, specification.ByDeptName{DeptName: f.deptName})
	}
	if f.owningThread != nil {
		specs = append(specs, specification.ByOwningThread{ChatThreadID: *f.owningThread})
	}
	return specs
}
