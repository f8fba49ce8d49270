// Package search wraps the two web-search APIs the pipelines use: Tavily
// for snippet results and Serper for raw Google result pages.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/logging"
)

const tavilyURL = "https://api.tavily.com/search"

type Result struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

type Options struct {
	MaxResults        int
	IncludeRawContent bool
	IncludeAnswer     bool
}

// Tavily is a minimal client for the Tavily search endpoint.
type Tavily struct {
	APIKey   string
	Endpoint string
	HTTP     *http.Client
	Log      *zap.Logger
}

func NewTavily(apiKey string, log *zap.Logger) *Tavily {
	return &Tavily{
		APIKey:   apiKey,
		Endpoint: tavilyURL,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		Log:      logging.OrNop(log),
	}
}

type tavilyRequest struct {
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeRawContent bool   `json:"include_raw_content"`
	IncludeAnswer     bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Results []Result `json:"results"`
}

// Search runs a basic-depth query. Failures are logged and yield no
// results, so callers treat "search broke" like "nothing found".
func (t *Tavily) Search(ctx context.Context, query string, opts Options) []Result {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 5
	}
	results, err := t.search(ctx, query, opts)
	if err != nil {
		t.Log.Warn("tavily search failed", zap.String("query", query), zap.Error(err))
		return nil
	}
	return results
}

func (t *Tavily) search(ctx context.Context, query string, opts Options) ([]Result, error) {
	body, err := json.Marshal(tavilyRequest{
		Query:             query,
		SearchDepth:       "basic",
		MaxResults:        opts.MaxResults,
		IncludeRawContent: opts.IncludeRawContent,
		IncludeAnswer:     opts.IncludeAnswer,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.APIKey)

	resp, err := t.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tavily returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}
	return out.Results, nil
}
