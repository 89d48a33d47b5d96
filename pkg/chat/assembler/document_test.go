package assembler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"ai-assistant-be/pkg/retrieval"
)

type fakeRetriever struct {
	fragments []retrieval.Fragment
	err       error
	gotFilter retrieval.Filter
	gotLimit  int
}

func (r *fakeRetriever) Search(_ context.Context, _ string, filter retrieval.Filter, limit int) ([]retrieval.Fragment, error) {
	r.gotFilter = filter
	r.gotLimit = limit
	if r.err != nil {
		return nil, r.err
	}
	return r.fragments, nil
}

func (r *fakeRetriever) Lookup(_ context.Context, _ uuid.UUID) (*retrieval.Fragment, error) {
	return nil, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func TestDocumentAssembleNumbersFragmentsInOrder(t *testing.T) {
	fragments := []retrieval.Fragment{
		{Id: uuid.New(), Source: "HR規定", Content: "有給休暇は\n入社6ヶ月後に付与。", Score: 0.92},
		{Id: uuid.New(), Source: "総務マニュアル", Content: "備品の申請は\r\n総務部まで。", Score: 0.85},
	}
	r := &fakeRetriever{fragments: fragments}
	s := NewDocumentStrategy(r, retrieval.NewFilter().WithChatType("doc"), "社内AIアシスタント", nopLogger{})

	got, err := s.Assemble(context.Background(), "有給休暇について")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	// The system prompt carries the persona only; the context block rides
	// the final user turn.
	if !strings.Contains(got.SystemPrompt, "社内AIアシスタント") {
		t.Error("persona missing from system prompt")
	}
	if strings.Contains(got.SystemPrompt, "参考文書") {
		t.Errorf("system prompt carries the context block:\n%s", got.SystemPrompt)
	}

	// Numbered entries appear in retrieval order, separated by the rule.
	idx1 := strings.Index(got.UserContent, "[1] 文書名: HR規定")
	idx2 := strings.Index(got.UserContent, "[2] 文書名: 総務マニュアル")
	if idx1 < 0 || idx2 < 0 || idx1 > idx2 {
		t.Errorf("numbered block out of order:\n%s", got.UserContent)
	}
	if !strings.Contains(got.UserContent, "------") {
		t.Error("missing fragment separator")
	}
	if strings.Contains(got.UserContent, "有給休暇は\n入社") {
		t.Error("fragment content kept its line breaks")
	}

	// The citation instruction enumerates the retrieved name/id pairs in
	// order, so the model is handed the exact manifest to emit.
	wantMarker := `{%citation items=[` +
		`{name:"HR規定",id:"` + fragments[0].Id.String() + `"},` +
		`{name:"総務マニュアル",id:"` + fragments[1].Id.String() + `"}]/%}`
	if !strings.Contains(got.UserContent, wantMarker) {
		t.Errorf("citation instruction does not enumerate the supplied pairs:\n%s\nwant substring:\n%s", got.UserContent, wantMarker)
	}
	if !strings.Contains(got.UserContent, "質問: 有給休暇について") {
		t.Error("user turn lost the question")
	}

	if len(got.Citations) != 2 {
		t.Fatalf("citations = %d, want 2", len(got.Citations))
	}
	for i, frag := range fragments {
		if got.Citations[i].Name != frag.Source || got.Citations[i].Id != frag.Id.String() {
			t.Errorf("citation[%d] = %+v, want (%s, %s)", i, got.Citations[i], frag.Source, frag.Id)
		}
	}

	// The persisted blob carries the fragment text that produced the answer.
	for _, want := range []string{"有給休暇は 入社6ヶ月後に付与。", "備品の申請は 総務部まで。"} {
		if !strings.Contains(got.Grounding, want) {
			t.Errorf("grounding blob lacks the fragment text %q; got %s", want, got.Grounding)
		}
	}
	if r.gotLimit != 10 {
		t.Errorf("search limit = %d, want 10", r.gotLimit)
	}
}

func TestDocumentAssembleDegradesOnRetrievalFailure(t *testing.T) {
	r := &fakeRetriever{err: errors.New("index unavailable")}
	s := NewDocumentStrategy(r, retrieval.NewFilter(), "社内AIアシスタント", nopLogger{})

	got, err := s.Assemble(context.Background(), "質問")
	if err != nil {
		t.Fatalf("Assemble() error = %v, want graceful degrade", err)
	}

	if len(got.Citations) != 0 {
		t.Errorf("citations = %d, want 0", len(got.Citations))
	}
	if got.Grounding != "" {
		t.Errorf("grounding = %q, want empty", got.Grounding)
	}
	if got.UserContent != "" {
		t.Errorf("user content = %q, want empty so the bare query is sent", got.UserContent)
	}
	if strings.Contains(got.SystemPrompt, "参考文書") {
		t.Error("degraded prompt still references documents")
	}
	if !strings.Contains(got.SystemPrompt, "社内AIアシスタント") {
		t.Error("degraded prompt lost the persona")
	}
}

func TestDocumentAssembleDegradesOnEmptyIndex(t *testing.T) {
	s := NewDocumentStrategy(&fakeRetriever{}, retrieval.NewFilter(), "アシスタント", nopLogger{})

	got, err := s.Assemble(context.Background(), "質問")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(got.Citations) != 0 || got.Grounding != "" || got.UserContent != "" {
		t.Errorf("empty index produced grounding: %+v", got)
	}
}

func TestDocumentAssembleHandlesManyFragments(t *testing.T) {
	var fragments []retrieval.Fragment
	for i := 0; i < 10; i++ {
		fragments = append(fragments, retrieval.Fragment{
			Id:      uuid.New(),
			Source:  fmt.Sprintf("文書%d", i+1),
			Content: fmt.Sprintf("内容%d", i+1),
		})
	}
	s := NewDocumentStrategy(&fakeRetriever{fragments: fragments}, retrieval.NewFilter(), "アシスタント", nopLogger{})

	got, err := s.Assemble(context.Background(), "質問")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(got.Citations) != 10 {
		t.Fatalf("citations = %d, want 10", len(got.Citations))
	}
	if !strings.Contains(got.UserContent, "[10] 文書名: 文書10") {
		t.Error("tenth fragment missing from the numbered block")
	}
	if !strings.Contains(got.UserContent, `{name:"文書10",id:"`+fragments[9].Id.String()+`"}`) {
		t.Error("tenth fragment missing from the citation manifest")
	}
}
