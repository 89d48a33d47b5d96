package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchTextExtractsReadableContent(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head><title>ページ</title><style>body{color:red}</style></head>
<body>
<nav>グローバルナビ</nav>
<main><h1>本文タイトル</h1><p>これが本文です。</p><script>alert("x")</script></main>
<footer>フッター</footer>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	f := NewPageFetcher()
	got, err := f.FetchText(context.Background(), srv.URL, 2000)
	if err != nil {
		t.Fatalf("FetchText() error = %v", err)
	}

	if !strings.Contains(got, "本文タイトル") || !strings.Contains(got, "これが本文です。") {
		t.Errorf("extracted text missing main content: %q", got)
	}
	if strings.Contains(got, "グローバルナビ") || strings.Contains(got, "フッター") {
		t.Errorf("extracted text includes chrome outside <main>: %q", got)
	}
	if strings.Contains(got, "alert") || strings.Contains(got, "color:red") {
		t.Errorf("extracted text includes script or style content: %q", got)
	}
}

func TestFetchTextFallsBackToBody(t *testing.T) {
	page := `<html><body><p>main要素のないページです。</p></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	f := NewPageFetcher()
	got, err := f.FetchText(context.Background(), srv.URL, 2000)
	if err != nil {
		t.Fatalf("FetchText() error = %v", err)
	}
	if !strings.Contains(got, "main要素のないページです。") {
		t.Errorf("body fallback failed: %q", got)
	}
}

func TestFetchTextTruncatesAtRuneLimit(t *testing.T) {
	long := strings.Repeat("あ", 3000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><main>" + long + "</main></body></html>"))
	}))
	defer srv.Close()

	f := NewPageFetcher()
	got, err := f.FetchText(context.Background(), srv.URL, 2000)
	if err != nil {
		t.Fatalf("FetchText() error = %v", err)
	}
	if n := len([]rune(got)); n != 2000 {
		t.Errorf("extracted length = %d runes, want 2000", n)
	}
}

func TestFetchTextRejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	f := NewPageFetcher()
	if _, err := f.FetchText(context.Background(), srv.URL, 2000); err == nil {
		t.Error("FetchText() accepted a non-HTML response")
	}
}

func TestFetchTextReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewPageFetcher()
	if _, err := f.FetchText(context.Background(), srv.URL, 2000); err == nil {
		t.Error("FetchText() ignored a 403 response")
	}
}
