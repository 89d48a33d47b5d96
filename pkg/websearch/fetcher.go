package websearch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// PageFetcher downloads a page and extracts its readable text.
type PageFetcher interface {
	FetchText(ctx context.Context, pageUrl string, limit int) (string, error)
}

type httpPageFetcher struct {
	client *http.Client
}

func NewPageFetcher() PageFetcher {
	return &httpPageFetcher{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *httpPageFetcher) FetchText(ctx context.Context, pageUrl string, limit int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageUrl, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ai-assistant-be/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: status %d for %s", resp.StatusCode, pageUrl)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") {
		return "", fmt.Errorf("fetch page: unsupported content type %s", contentType)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	text := extractText(doc)
	return truncateRunes(text, limit), nil
}

// extractText walks the parsed tree collecting visible text. Content inside
// a <main> or <article> element wins over the rest of the body when present.
func extractText(doc *html.Node) string {
	if region := findContentRegion(doc); region != nil {
		return collectText(region)
	}
	return collectText(doc)
}

func findContentRegion(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && (n.Data == "main" || n.Data == "article") {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findContentRegion(c); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "script", "style", "noscript", "iframe", "nav", "footer", "header":
				return
			}
		}
		if node.Type == html.TextNode {
			trimmed := strings.TrimSpace(node.Data)
			if trimmed != "" {
				sb.WriteString(trimmed)
				sb.WriteString(" ")
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
