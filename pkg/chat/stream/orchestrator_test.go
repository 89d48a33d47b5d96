package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/llm"
)

// --- fakes ---

type fakeStream struct {
	tokens []string
	finErr error // returned after the tokens run out; nil means genuine EOF
	idx    int
	closed bool
}

func (s *fakeStream) Recv() (string, error) {
	if s.idx < len(s.tokens) {
		token := s.tokens[s.idx]
		s.idx++
		return token, nil
	}
	if s.finErr != nil {
		return "", s.finErr
	}
	return "", io.EOF
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

type fakeProvider struct {
	stream  *fakeStream
	openErr error
	gotOpts *llm.Options
}

func (p *fakeProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return "", errors.New("not implemented")
}

func (p *fakeProvider) ChatStream(_ context.Context, _ []llm.Message, opts ...llm.Option) (llm.Stream, error) {
	p.gotOpts = llm.ApplyOptions(opts...)
	if p.openErr != nil {
		return nil, p.openErr
	}
	return p.stream, nil
}

type fakeMessageRepo struct {
	mu           sync.Mutex
	created      []*entity.ChatMessage
	failOnCreate bool
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOnCreate {
		return errors.New("insert failed")
	}
	r.created = append(r.created, msg)
	return nil
}

func (r *fakeMessageRepo) DeleteByChatThreadId(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeMessageRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ChatMessage, error) {
	return nil, nil
}

func (r *fakeMessageRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeUow struct {
	messages   *fakeMessageRepo
	began      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUow) Begin(_ context.Context) error { u.began = true; return nil }
func (u *fakeUow) Commit() error                 { u.committed = true; return nil }
func (u *fakeUow) Rollback() error               { u.rolledBack = true; return nil }

func (u *fakeUow) ChatThreadRepository() contract.ChatThreadRepository     { return nil }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository   { return u.messages }
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

func drain(c *Completion) string {
	var sb strings.Builder
	for token := range c.Tokens() {
		sb.WriteString(token)
	}
	return sb.String()
}

// --- tests ---

func TestRunDeliversTokensAndPersistsExchange(t *testing.T) {
	repo := &fakeMessageRepo{}
	uow := &fakeUow{messages: repo}
	provider := &fakeProvider{stream: &fakeStream{tokens: []string{"有給", "休暇は", "6ヶ月後です。"}}}
	o := NewOrchestrator(provider, &fakeUowFactory{uow: uow}, nopLogger{})

	ex := &Exchange{
		ThreadId:  uuid.New(),
		Query:     "有給休暇はいつから?",
		Prompt:    []llm.Message{{Role: constant.ChatMessageRoleUser, Content: "有給休暇はいつから?"}},
		Grounding: `[{"id":"doc-1","source":"HR規定"}]`,
	}

	completion, err := o.Run(context.Background(), ex)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := drain(completion)
	if got != "有給休暇は6ヶ月後です。" {
		t.Errorf("streamed answer = %q", got)
	}
	if err := completion.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}

	if len(repo.created) != 2 {
		t.Fatalf("persisted messages = %d, want 2", len(repo.created))
	}
	if repo.created[0].Role != constant.ChatMessageRoleUser || repo.created[0].Content != ex.Query {
		t.Errorf("first persisted message = %+v, want the user query", repo.created[0])
	}
	if repo.created[1].Role != constant.ChatMessageRoleAssistant {
		t.Errorf("second persisted role = %q, want assistant", repo.created[1].Role)
	}
	if repo.created[1].Content != "有給休暇は6ヶ月後です。" {
		t.Errorf("assistant content = %q", repo.created[1].Content)
	}
	if repo.created[1].Context != ex.Grounding {
		t.Errorf("assistant grounding = %q, want %q", repo.created[1].Context, ex.Grounding)
	}

	if !uow.began || !uow.committed {
		t.Errorf("transaction began=%v committed=%v, want both", uow.began, uow.committed)
	}
	if !provider.stream.closed {
		t.Error("provider stream was not closed")
	}
}

func TestRunCapsCompletionLength(t *testing.T) {
	provider := &fakeProvider{stream: &fakeStream{tokens: []string{"回答"}}}
	o := NewOrchestrator(provider, &fakeUowFactory{uow: &fakeUow{messages: &fakeMessageRepo{}}}, nopLogger{})

	completion, err := o.Run(context.Background(), &Exchange{
		ThreadId: uuid.New(),
		Query:    "質問",
		Prompt:   []llm.Message{{Role: constant.ChatMessageRoleUser, Content: "質問"}},
		Model:    "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	drain(completion)

	if provider.gotOpts.MaxTokens != constant.CompletionMaxTokens {
		t.Errorf("max tokens = %d, want %d", provider.gotOpts.MaxTokens, constant.CompletionMaxTokens)
	}
	if provider.gotOpts.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want the resolved model", provider.gotOpts.Model)
	}
}

func TestRunDoesNotPersistInterruptedStream(t *testing.T) {
	repo := &fakeMessageRepo{}
	uow := &fakeUow{messages: repo}
	provider := &fakeProvider{stream: &fakeStream{
		tokens: []string{"途中まで"},
		finErr: errors.New("connection reset"),
	}}
	o := NewOrchestrator(provider, &fakeUowFactory{uow: uow}, nopLogger{})

	completion, err := o.Run(context.Background(), &Exchange{
		ThreadId: uuid.New(),
		Query:    "質問",
		Prompt:   []llm.Message{{Role: constant.ChatMessageRoleUser, Content: "質問"}},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	drain(completion)
	if err := completion.Err(); !errors.Is(err, ErrStreamInterrupted) {
		t.Fatalf("Err() = %v, want ErrStreamInterrupted", err)
	}

	if len(repo.created) != 0 {
		t.Errorf("persisted messages = %d, want 0 after interruption", len(repo.created))
	}
	if uow.began {
		t.Error("transaction was opened for an interrupted exchange")
	}
}

func TestRunRollsBackOnPersistFailure(t *testing.T) {
	repo := &fakeMessageRepo{failOnCreate: true}
	uow := &fakeUow{messages: repo}
	provider := &fakeProvider{stream: &fakeStream{tokens: []string{"回答"}}}
	o := NewOrchestrator(provider, &fakeUowFactory{uow: uow}, nopLogger{})

	completion, err := o.Run(context.Background(), &Exchange{
		ThreadId: uuid.New(),
		Query:    "質問",
		Prompt:   []llm.Message{{Role: constant.ChatMessageRoleUser, Content: "質問"}},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	drain(completion)
	if err := completion.Err(); err == nil {
		t.Fatal("Err() = nil, want persistence failure")
	}

	if uow.committed {
		t.Error("transaction committed despite create failure")
	}
	if !uow.rolledBack {
		t.Error("transaction was not rolled back")
	}
}

func TestRunReleasesLockOnOpenFailure(t *testing.T) {
	provider := &fakeProvider{openErr: errors.New("model unavailable")}
	o := NewOrchestrator(provider, &fakeUowFactory{uow: &fakeUow{messages: &fakeMessageRepo{}}}, nopLogger{})

	threadId := uuid.New()
	if _, err := o.Run(context.Background(), &Exchange{ThreadId: threadId, Query: "q"}); err == nil {
		t.Fatal("Run() error = nil, want open failure")
	}

	// The thread must not stay locked after a failed open.
	o.locks.Lock(threadId.String())
	o.locks.Unlock(threadId.String())
}
