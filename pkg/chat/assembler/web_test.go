package assembler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-assistant-be/pkg/websearch"
)

type fakeResearcher struct {
	results []websearch.PageResult
	err     error
}

func (r *fakeResearcher) Research(_ context.Context, _ string) ([]websearch.PageResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.results, nil
}

func TestWebAssembleBuildsResultBlock(t *testing.T) {
	r := &fakeResearcher{results: []websearch.PageResult{
		{
			Name:    "天気予報 - 気象庁",
			Url:     "https://example.jp/weather",
			Snippet: "明日の天気",
			Excerpt: "明日は晴れ、最高気温は30度の見込みです。",
		},
		{
			Name:    "週間予報",
			Url:     "https://example.jp/weekly",
			Snippet: "週間の天気",
			Excerpt: "週末にかけて曇りがちです。",
		},
	}}
	s := NewWebStrategy(r, "社内AIアシスタント", nopLogger{})

	got, err := s.Assemble(context.Background(), "明日の天気は?")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if !strings.Contains(got.SystemPrompt, "社内AIアシスタント") {
		t.Error("persona missing from system prompt")
	}
	if strings.Contains(got.SystemPrompt, "タイトル:") {
		t.Errorf("system prompt carries the result block:\n%s", got.SystemPrompt)
	}

	for _, want := range []string{
		"問い合わせ: 明日の天気は?",
		"[1]",
		"タイトル: 天気予報 - 気象庁",
		"URL: https://example.jp/weather",
		"スニペット: 明日の天気",
		"詳細コンテンツ抜粋: 明日は晴れ、最高気温は30度の見込みです。",
		"[2]",
		"タイトル: 週間予報",
	} {
		if !strings.Contains(got.UserContent, want) {
			t.Errorf("user turn missing %q", want)
		}
	}

	if len(got.Citations) != 0 {
		t.Errorf("citations = %d, want 0 for web mode", len(got.Citations))
	}
	if !strings.Contains(got.Grounding, "https://example.jp/weather") {
		t.Error("grounding blob missing the result URL")
	}
}

func TestWebAssembleDegradesOnResearchFailure(t *testing.T) {
	s := NewWebStrategy(&fakeResearcher{err: errors.New("engine down")}, "アシスタント", nopLogger{})

	got, err := s.Assemble(context.Background(), "質問")
	if err != nil {
		t.Fatalf("Assemble() error = %v, want graceful degrade", err)
	}
	if strings.Contains(got.SystemPrompt, "Web検索結果") {
		t.Error("degraded prompt still references search results")
	}
	if got.UserContent != "" {
		t.Errorf("user content = %q, want empty so the bare query is sent", got.UserContent)
	}
	if got.Grounding != "" {
		t.Errorf("grounding = %q, want empty", got.Grounding)
	}
}

func TestSimpleAssembleUsesPersonaOnly(t *testing.T) {
	s := NewSimpleStrategy("社内AIアシスタント")

	got, err := s.Assemble(context.Background(), "こんにちは")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if !strings.Contains(got.SystemPrompt, "社内AIアシスタント") {
		t.Error("persona missing from prompt")
	}
	if got.Grounding != "" || len(got.Citations) != 0 {
		t.Error("simple mode produced grounding")
	}
}
