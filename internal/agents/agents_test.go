package agents

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/careerkit/internal/config"
	"github.com/justsurfingit/careerkit/internal/llm"
	"github.com/justsurfingit/careerkit/internal/llm/llmtest"
	"github.com/justsurfingit/careerkit/internal/scrape"
	"github.com/justsurfingit/careerkit/internal/search"
)

func testEnv(t *testing.T, model llm.Model) *Env {
	t.Helper()
	cfg, err := config.FromEnv(testGetenv, "")
	require.NoError(t, err)
	return NewEnv(model, cfg, nil)
}

func testGetenv(key string) string {
	if key == "TAVILY_API_KEY" {
		return "tvly-test"
	}
	return ""
}

type fakeSearch struct {
	results []search.Result
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string, opts search.Options) []search.Result {
	f.queries = append(f.queries, fmt.Sprintf("%s|%d", query, opts.MaxResults))
	return f.results
}

type fakeSerper struct {
	mu      sync.Mutex
	queries []string
}

func (f *fakeSerper) SearchRaw(_ context.Context, query string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return "results for " + query
}

type fakePages struct {
	text string
	err  error
}

func (f fakePages) PageText(context.Context, string) (string, error) { return f.text, f.err }

type fakeFinder map[string][]scrape.Course

func (f fakeFinder) FindCourses(_ context.Context, query string) []scrape.Course { return f[query] }

type fakeFiles map[string][]byte

func (f fakeFiles) ReadFile(_ context.Context, ref string) ([]byte, error) {
	data, ok := f[ref]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: ref, Err: fs.ErrNotExist}
	}
	return data, nil
}

func (f fakeFiles) Text(ctx context.Context, ref string) (string, error) {
	data, err := f.ReadFile(ctx, ref)
	return string(data), err
}

func TestCertificate(t *testing.T) {
	model := llmtest.Texts(`{"certificate_name": "Google Data Analytics"}`, "You gained SQL.")
	searcher := &fakeSearch{results: []search.Result{
		{URL: "https://a.example", Content: "SQL and R"},
		{URL: "", Content: "dropped"},
		{URL: "https://b.example", Content: "Tableau"},
	}}
	c := &Certificate{Env: testEnv(t, model), Search: searcher, Files: fakeFiles{"cert.jpg": []byte("img")}}

	out, err := c.Run(context.Background(), "cert.jpg")
	require.NoError(t, err)
	assert.Equal(t, CertificateOutput{Summary: "You gained SQL."}, out)

	assert.Equal(t, []string{"what skills and knowledge are gained from completing the 'Google Data Analytics'|5"}, searcher.queries)

	require.Len(t, model.Requests, 2)
	vision := model.Requests[0]
	assert.True(t, vision.JSON)
	assert.Equal(t, 0.0, vision.Temperature)
	require.Len(t, vision.Messages[0].Parts, 2)
	assert.Equal(t, "image/jpeg", vision.Messages[0].Parts[1].MIMEType)

	summary := model.Requests[1]
	assert.Equal(t, 0.2, summary.Temperature)
	prompt := llmtest.PromptText(summary)
	assert.Contains(t, prompt, "Certificate Name: Google Data Analytics")
	assert.Contains(t, prompt, "Source URL: https://a.example\nSnippet: SQL and R\n\nSource URL: https://b.example\nSnippet: Tableau")
	assert.NotContains(t, prompt, "dropped")
}

func TestCertificateUnreadableImage(t *testing.T) {
	model := llmtest.Texts()
	c := &Certificate{Env: testEnv(t, model), Search: &fakeSearch{}, Files: fakeFiles{}}

	out, err := c.Run(context.Background(), "missing.png")
	require.NoError(t, err)
	assert.Equal(t, "Could not process image at: missing.png", out.Error)
	assert.Zero(t, model.Calls())
}

func TestCertificateNeedsTavilyKey(t *testing.T) {
	cfg, err := config.FromEnv(func(string) string { return "" }, "")
	require.NoError(t, err)
	model := llmtest.Texts()
	searcher := &fakeSearch{}
	c := &Certificate{Env: NewEnv(model, cfg, nil), Search: searcher, Files: fakeFiles{"c.png": []byte("x")}}

	_, err = c.Run(context.Background(), "c.png")
	assert.EqualError(t, err, "TAVILY_API_KEY not found in environment variables")
	assert.Zero(t, model.Calls())
	assert.Empty(t, searcher.queries)
}

func TestCertificateVisionFailure(t *testing.T) {
	model := llmtest.NewScripted(llmtest.Reply{Err: errors.New("quota")})
	searcher := &fakeSearch{}
	c := &Certificate{Env: testEnv(t, model), Search: searcher, Files: fakeFiles{"c.png": []byte("x")}}

	out, err := c.Run(context.Background(), "c.png")
	require.NoError(t, err)
	assert.Equal(t, "Could not generate summary because the certificate name could not be extracted from the image.", out.Summary)
	assert.Empty(t, searcher.queries)
	assert.Equal(t, 1, model.Calls())
}

func TestCertificateNoResults(t *testing.T) {
	model := llmtest.Texts("```json\n{\"certificate_name\": \"AWS Cloud Practitioner\"}\n```")
	c := &Certificate{Env: testEnv(t, model), Search: &fakeSearch{}, Files: fakeFiles{"c.png": []byte("x")}}

	out, err := c.Run(context.Background(), "c.png")
	require.NoError(t, err)
	assert.Equal(t, "Could not find any reliable information online about the skills gained from 'AWS Cloud Practitioner'.", out.Summary)
}

func TestCertificateSummaryFailure(t *testing.T) {
	model := llmtest.NewScripted(
		llmtest.Reply{Text: `{"certificate_name": "CKA"}`},
		llmtest.Reply{Err: errors.New("timeout")},
	)
	searcher := &fakeSearch{results: []search.Result{{URL: "u", Content: "c"}}}
	c := &Certificate{Env: testEnv(t, model), Search: searcher, Files: fakeFiles{"c.png": []byte("x")}}

	out, err := c.Run(context.Background(), "c.png")
	require.NoError(t, err)
	assert.Equal(t, "An error occurred while generating the final summary.", out.Summary)
}

func TestGitHub(t *testing.T) {
	model := llmtest.Texts("Personal GitHub Profile Review: octocat")
	g := &GitHub{Env: testEnv(t, model), Pages: fakePages{text: "octocat 8 repositories"}}

	out, err := g.Run(context.Background(), "https://github.com/octocat", "")
	require.NoError(t, err)
	assert.Equal(t, "Personal GitHub Profile Review: octocat", out.Analysis)

	req := model.Requests[0]
	assert.Equal(t, 0.0, req.Temperature)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, "Profile:\noctocat 8 repositories\n\nSpecific query: "+DefaultGitHubQuestion, req.Messages[1].Parts[0].Text)
}

func TestGitHubScrapeError(t *testing.T) {
	model := llmtest.Texts()
	g := &GitHub{Env: testEnv(t, model), Pages: fakePages{err: errors.New("404 Not Found")}}

	_, err := g.Run(context.Background(), "https://github.com/nobody", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher")
	assert.Zero(t, model.Calls())
}

func TestCareerRoles(t *testing.T) {
	model := llmtest.Texts("```json\n[{\"role\": \"Data Engineer\", \"market_trend\": \"High\"}]\n```")
	c := &CareerRoles{Env: testEnv(t, model)}

	out, err := c.Run(context.Background(),
		map[string]any{"location": "Pune"},
		map[string]any{"skills": []string{"Go", "R&D"}})
	require.NoError(t, err)
	require.Len(t, out.SuggestedRoles, 1)
	assert.Equal(t, "Data Engineer", out.SuggestedRoles[0].(map[string]any)["role"])

	req := model.Requests[0]
	assert.Equal(t, 0.4, req.Temperature)
	prompt := llmtest.PromptText(req)
	assert.Contains(t, prompt, `{"location":"Pune"}`)
	assert.Contains(t, prompt, `{"skills":["Go","R&D"]}`)
}

func TestCareerRolesEmbeddedArray(t *testing.T) {
	model := llmtest.Texts(`Here you go: [{"role": "SRE"}] hope it helps`)
	out, err := (&CareerRoles{Env: testEnv(t, model)}).Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"role": "SRE"}}, out.SuggestedRoles)
}

func TestCareerRolesSingleObject(t *testing.T) {
	model := llmtest.Texts("```json\n{\"role\": \"SRE\", \"skills_to_learn\": [\"Terraform\"]}\n```")
	out, err := (&CareerRoles{Env: testEnv(t, model)}).Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{
		"role":            "SRE",
		"skills_to_learn": []any{"Terraform"},
	}}, out.SuggestedRoles)
}

func TestCareerRolesUnparseable(t *testing.T) {
	model := llmtest.Texts("```\nI cannot help with that\n```")
	out, err := (&CareerRoles{Env: testEnv(t, model)}).Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{
		"error": "Failed to parse response",
		"raw":   "I cannot help with that",
	}}, out.SuggestedRoles)
}

func TestMarshalJSONKeepsHTML(t *testing.T) {
	assert.Equal(t, `{"a":"<b> & c"}`, marshalJSON(map[string]string{"a": "<b> & c"}))
	assert.Equal(t, "{\n  \"a\": 1\n}", marshalIndent(map[string]int{"a": 1}))
	assert.True(t, strings.HasPrefix(marshalJSON(nil), "null"))
}
