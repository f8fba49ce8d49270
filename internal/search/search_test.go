package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTavilySearch(t *testing.T) {
	var got tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tv-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"results":[{"url":"https://a.example","title":"A","content":"skills"}]}`))
	}))
	defer srv.Close()

	tv := NewTavily("tv-key", nil)
	tv.Endpoint = srv.URL

	results := tv.Search(context.Background(), "what skills", Options{})
	require.Len(t, results, 1)
	assert.Equal(t, "https://a.example", results[0].URL)
	assert.Equal(t, "skills", results[0].Content)

	assert.Equal(t, "what skills", got.Query)
	assert.Equal(t, "basic", got.SearchDepth)
	assert.Equal(t, 5, got.MaxResults)
	assert.False(t, got.IncludeRawContent)
}

func TestTavilyFailureYieldsNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tv := NewTavily("k", nil)
	tv.Endpoint = srv.URL
	assert.Empty(t, tv.Search(context.Background(), "q", Options{MaxResults: 3}))
}

func TestSerperSearchRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sp-key", r.Header.Get("X-API-KEY"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jobs in Pune", body["q"])
		_, _ = w.Write([]byte(`{"organic":[]}`))
	}))
	defer srv.Close()

	s := NewSerper("sp-key")
	s.Endpoint = srv.URL
	assert.Equal(t, `{"organic":[]}`, s.SearchRaw(context.Background(), "jobs in Pune"))
}

func TestSerperWithoutKey(t *testing.T) {
	s := NewSerper("")
	assert.Equal(t, "Search skipped (no SERPER_API_KEY). Query: q", s.SearchRaw(context.Background(), "q"))
}

func TestSerperErrorString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSerper("k")
	s.Endpoint = srv.URL
	out := s.SearchRaw(context.Background(), "q")
	assert.True(t, strings.HasPrefix(out, "Search error: "), out)
	assert.Contains(t, out, "403")
}
