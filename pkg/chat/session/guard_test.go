package session

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
)

type fakeThreadRepo struct {
	threads map[uuid.UUID]*entity.ChatThread
	created []*entity.ChatThread
}

func newFakeThreadRepo() *fakeThreadRepo {
	return &fakeThreadRepo{threads: make(map[uuid.UUID]*entity.ChatThread)}
}

func (r *fakeThreadRepo) Create(_ context.Context, thread *entity.ChatThread) error {
	r.threads[thread.Id] = thread
	r.created = append(r.created, thread)
	return nil
}

func (r *fakeThreadRepo) Update(_ context.Context, thread *entity.ChatThread) error {
	r.threads[thread.Id] = thread
	return nil
}

func (r *fakeThreadRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.threads, id)
	return nil
}

func (r *fakeThreadRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ChatThread, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return r.threads[byId.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeThreadRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ChatThread, error) {
	return nil, nil
}

func (r *fakeThreadRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeUow struct {
	threads *fakeThreadRepo
}

func (u *fakeUow) Begin(_ context.Context) error { return nil }
func (u *fakeUow) Commit() error                 { return nil }
func (u *fakeUow) Rollback() error               { return nil }

func (u *fakeUow) ChatThreadRepository() contract.ChatThreadRepository { return u.threads }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return nil
}
func (u *fakeUow) DocumentChunkRepository() contract.DocumentChunkRepository {
	return nil
}

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork { return f.uow }

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func newGuardWithRepo(repo *fakeThreadRepo) *Guard {
	return NewGuard(&fakeUowFactory{uow: &fakeUow{threads: repo}}, memory.NewThreadCacheRepository(), nopLogger{})
}

func TestAdmitRejectsInvalidExchanges(t *testing.T) {
	tests := []struct {
		name     string
		messages []dto.ChatMessageDTO
	}{
		{
			name:     "no messages",
			messages: nil,
		},
		{
			name: "final message from assistant",
			messages: []dto.ChatMessageDTO{
				{Role: constant.ChatMessageRoleUser, Content: "質問"},
				{Role: constant.ChatMessageRoleAssistant, Content: "回答"},
			},
		},
		{
			name: "empty query",
			messages: []dto.ChatMessageDTO{
				{Role: constant.ChatMessageRoleUser, Content: "   "},
			},
		},
	}

	guard := newGuardWithRepo(newFakeThreadRepo())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := guard.Admit(context.Background(), uuid.New(), &dto.SendChatRequest{
				Id:       uuid.New(),
				Messages: tt.messages,
			})
			if !IsInvalidSession(err) {
				t.Errorf("Admit() error = %v, want ErrInvalidSession", err)
			}
		})
	}
}

func TestAdmitCreatesMissingThread(t *testing.T) {
	repo := newFakeThreadRepo()
	guard := newGuardWithRepo(repo)

	userId := uuid.New()
	threadId := uuid.New()
	admission, err := guard.Admit(context.Background(), userId, &dto.SendChatRequest{
		Id:       threadId,
		ChatType: constant.ChatModeDoc,
		ChatDoc:  "人事部",
		Messages: []dto.ChatMessageDTO{
			{Role: constant.ChatMessageRoleUser, Content: "有給休暇について教えて"},
		},
	})
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}

	if !admission.Created {
		t.Error("Created = false, want true for a new thread")
	}
	if admission.Query != "有給休暇について教えて" {
		t.Errorf("Query = %q", admission.Query)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created threads = %d, want 1", len(repo.created))
	}

	thread := repo.created[0]
	if thread.Id != threadId || thread.UserId != userId {
		t.Errorf("thread identity = (%s, %s), want (%s, %s)", thread.Id, thread.UserId, threadId, userId)
	}
	if thread.Mode != constant.ChatModeDoc || thread.ChatDoc != "人事部" {
		t.Errorf("thread mode/doc = (%q, %q)", thread.Mode, thread.ChatDoc)
	}
	if thread.Title != "有給休暇について教えて" {
		t.Errorf("thread title = %q", thread.Title)
	}
}

func TestAdmitTruncatesLongTitles(t *testing.T) {
	repo := newFakeThreadRepo()
	guard := newGuardWithRepo(repo)

	longQuery := strings.Repeat("あ", constant.ThreadTitleLimit+10)
	_, err := guard.Admit(context.Background(), uuid.New(), &dto.SendChatRequest{
		Id: uuid.New(),
		Messages: []dto.ChatMessageDTO{
			{Role: constant.ChatMessageRoleUser, Content: longQuery},
		},
	})
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}

	title := repo.created[0].Title
	if got := len([]rune(title)); got != constant.ThreadTitleLimit {
		t.Errorf("title length = %d runes, want %d", got, constant.ThreadTitleLimit)
	}
}

func TestAdmitResolvesExistingThread(t *testing.T) {
	repo := newFakeThreadRepo()
	userId := uuid.New()
	existing := &entity.ChatThread{Id: uuid.New(), UserId: userId, Title: "既存", Mode: constant.ChatModeSimple}
	repo.threads[existing.Id] = existing

	guard := newGuardWithRepo(repo)
	admission, err := guard.Admit(context.Background(), userId, &dto.SendChatRequest{
		Id: existing.Id,
		Messages: []dto.ChatMessageDTO{
			{Role: constant.ChatMessageRoleUser, Content: "続きの質問"},
		},
	})
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}

	if admission.Created {
		t.Error("Created = true for an existing thread")
	}
	if admission.Thread.Id != existing.Id {
		t.Errorf("Thread.Id = %s, want %s", admission.Thread.Id, existing.Id)
	}
	if len(repo.created) != 0 {
		t.Errorf("created threads = %d, want 0", len(repo.created))
	}
}

func TestAdmitRejectsForeignThread(t *testing.T) {
	repo := newFakeThreadRepo()
	owner := uuid.New()
	existing := &entity.ChatThread{Id: uuid.New(), UserId: owner}
	repo.threads[existing.Id] = existing

	guard := newGuardWithRepo(repo)
	_, err := guard.Admit(context.Background(), uuid.New(), &dto.SendChatRequest{
		Id: existing.Id,
		Messages: []dto.ChatMessageDTO{
			{Role: constant.ChatMessageRoleUser, Content: "質問"},
		},
	})
	if !IsInvalidSession(err) {
		t.Errorf("Admit() error = %v, want ErrInvalidSession", err)
	}
}
