package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const serperURL = "https://google.serper.dev/search"

// Serper returns raw Google result JSON; the pipelines feed it to the model
// verbatim.
type Serper struct {
	APIKey   string
	Endpoint string
	HTTP     *http.Client
}

func NewSerper(apiKey string) *Serper {
	return &Serper{
		APIKey:   apiKey,
		Endpoint: serperURL,
		HTTP:     &http.Client{Timeout: 20 * time.Second},
	}
}

// SearchRaw never fails: a missing key or a failed call produces a short
// explanatory string in place of results.
func (s *Serper) SearchRaw(ctx context.Context, query string) string {
	if s.APIKey == "" {
		return fmt.Sprintf("Search skipped (no SERPER_API_KEY). Query: %s", query)
	}
	body, err := s.post(ctx, query)
	if err != nil {
		return fmt.Sprintf("Search error: %v", err)
	}
	return body
}

func (s *Serper) post(ctx context.Context, query string) (string, error) {
	payload, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("X-API-KEY", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return string(data), nil
}
