package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SearchResult is one engine hit before any page content is fetched.
type SearchResult struct {
	Name    string `json:"name"`
	Url     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchClient queries a web search engine.
type SearchClient interface {
	Search(ctx context.Context, query string, count int) ([]SearchResult, error)
}

// BingClient implements SearchClient against the Bing Web Search v7 API.
type BingClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewBingClient(apiKey string) SearchClient {
	return &BingClient{
		apiKey:   apiKey,
		endpoint: "https://api.bing.microsoft.com/v7.0/search",
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type bingWebPage struct {
	Name    string `json:"name"`
	Url     string `json:"url"`
	Snippet string `json:"snippet"`
}

type bingResponse struct {
	WebPages struct {
		Value []bingWebPage `json:"value"`
	} `json:"webPages"`
}

func (c *BingClient) Search(ctx context.Context, query string, count int) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))
	params.Set("mkt", "ja-JP")

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bing search request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bing search error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed bingResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal bing response: %w", err)
	}

	results := make([]SearchResult, 0, len(parsed.WebPages.Value))
	for _, page := range parsed.WebPages.Value {
		results = append(results, SearchResult{
			Name:    page.Name,
			Url:     page.Url,
			Snippet: page.Snippet,
		})
	}
	return results, nil
}
