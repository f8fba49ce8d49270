package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/agents"
	"github.com/justsurfingit/careerkit/internal/app"
	"github.com/justsurfingit/careerkit/internal/config"
	"github.com/justsurfingit/careerkit/internal/llm"
	"github.com/justsurfingit/careerkit/internal/llm/llmtest"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func (r result) doc(t *testing.T) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &doc), r.stdout)
	return doc
}

// testConfig has only a search key; the model comes from the test.
func testConfig(path string) (*config.Config, error) {
	return config.FromEnv(func(key string) string {
		if key == "TAVILY_API_KEY" {
			return "tvly-test"
		}
		return ""
	}, path)
}

// run executes the CLI with model behind every pipeline. A nil model
// keeps the real client constructor.
func run(t *testing.T, model llm.Model, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := newCLI(strings.NewReader(stdin), &stdout, &stderr)
	c.loadConfig = testConfig
	if model != nil {
		c.newApp = func(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app.App, error) {
			return app.NewWithModel(ctx, cfg, model, log)
		}
	}
	root := newRootCmd(c)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestPersonalityInstructionsNeedNoModel(t *testing.T) {
	r := run(t, nil, "", "personality", "--instructions")
	require.NoError(t, r.err)
	assert.Equal(t, agents.PersonalityInstructions, r.doc(t)["instructions"])
}

func TestPersonality(t *testing.T) {
	model := llmtest.Texts("With an IAS profile you thrive.")
	r := run(t, model, "", "personality", "ias")
	require.NoError(t, r.err)
	assert.Equal(t, map[string]any{"summary": "With an IAS profile you thrive."}, r.doc(t))
}

func TestPersonalityInteractive(t *testing.T) {
	model := llmtest.Texts("Hands-on and curious.")
	r := run(t, model, " rce\n", "personality")
	require.NoError(t, r.err)
	assert.Equal(t, "Hands-on and curious.", r.doc(t)["summary"])
	assert.Contains(t, r.stderr, "Enter your code: ")
	require.Equal(t, 1, model.Calls())
	assert.Contains(t, llmtest.PromptText(model.Requests[0]), "*RCE*")
}

func TestPersonalityInvalidCode(t *testing.T) {
	model := llmtest.Texts()
	r := run(t, model, "", "personality", "xyz")
	require.NoError(t, r.err)
	assert.Equal(t, agents.ErrInvalidRIASEC.Error(), r.doc(t)["error"])
	assert.Zero(t, model.Calls())
}

func TestMissingAPIKeyIsErrorDocument(t *testing.T) {
	r := run(t, nil, "", "certificate")
	require.NoError(t, r.err)
	assert.Equal(t, "GOOGLE_API_KEY not found in environment variables", r.doc(t)["error"])
}

func TestCertificateWithoutTavilyKey(t *testing.T) {
	image := filepath.Join(t.TempDir(), "cert.png")
	require.NoError(t, os.WriteFile(image, []byte("\x89PNG\r\n\x1a\n"), 0o644))

	var stdout, stderr bytes.Buffer
	c := newCLI(strings.NewReader(""), &stdout, &stderr)
	c.loadConfig = func(path string) (*config.Config, error) {
		return config.FromEnv(func(key string) string {
			if key == "GOOGLE_API_KEY" {
				return "g-test"
			}
			return ""
		}, path)
	}
	model := llmtest.Texts()
	c.newApp = func(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app.App, error) {
		return app.NewWithModel(ctx, cfg, model, log)
	}
	root := newRootCmd(c)
	root.SetArgs([]string{"certificate", image})
	require.NoError(t, root.ExecuteContext(context.Background()))

	r := result{stdout: stdout.String()}
	assert.Equal(t, "TAVILY_API_KEY not found in environment variables", r.doc(t)["error"])
	assert.Zero(t, model.Calls())
}

func TestCareerRolesUsage(t *testing.T) {
	r := run(t, llmtest.Texts(), "", "career-roles", "{}")
	assert.True(t, errors.Is(r.err, errReported))
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "Usage: careerkit career-roles <job_analysis_json> <user_profile_json>")
}

func TestCareerRolesInvalidJSON(t *testing.T) {
	r := run(t, llmtest.Texts(), "", "career-roles", "{}", "{not json")
	assert.True(t, errors.Is(r.err, errReported))
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "Invalid JSON input: ")
}

func TestCareerRoles(t *testing.T) {
	model := llmtest.Texts("```json\n[{\"role\": \"Data Analyst\"}]\n```")
	r := run(t, model, "", "career-roles", `{"summary": {}}`, `{"skills": ["SQL"]}`)
	require.NoError(t, r.err)
	assert.Equal(t, []any{map[string]any{"role": "Data Analyst"}}, r.doc(t)["suggested_roles"])
	assert.Contains(t, llmtest.PromptText(model.Requests[0]), `{"skills":["SQL"]}`)
}

func TestSkillPathwayMissingDocument(t *testing.T) {
	r := run(t, llmtest.Texts(), "", "skill-pathway", "Data Engineer", filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.doc(t)["error"].(string), "Failed to load user document: "))
}

func TestPortfolioSavesRoadmap(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "profile.txt")
	require.NoError(t, os.WriteFile(profile, []byte("Final year CS student who likes data."), 0o644))
	saveDir := filepath.Join(dir, "out")

	model := llmtest.NewScripted(llmtest.Reply{Err: errors.New("model unavailable")})
	r := run(t, model, "", "portfolio", profile, "--save-dir", saveDir)
	require.NoError(t, r.err)

	guide := agents.PortfolioGuide(nil, nil)
	doc := r.doc(t)
	assert.Equal(t, guide, doc["final_guide"])
	assert.Equal(t, []any{}, doc["project_ideas"])

	md, err := os.ReadFile(filepath.Join(saveDir, portfolioMarkdownFile))
	require.NoError(t, err)
	assert.Equal(t, guide, string(md))

	data, err := os.ReadFile(filepath.Join(saveDir, portfolioJSONFile))
	require.NoError(t, err)
	assert.JSONEq(t, r.stdout, string(data))
}

func TestResumeMarkdown(t *testing.T) {
	image := filepath.Join(t.TempDir(), "cv.png")
	require.NoError(t, os.WriteFile(image, []byte("\x89PNG\r\n\x1a\n"), 0o644))

	model := llmtest.Texts(`{"name": "Asha"}`, "# Resume Review\n\nStrong **Go** skills.")
	r := run(t, model, "", "--format", "markdown", "resume", image)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Resume Review")
	assert.NotContains(t, r.stdout, "extracted_data")
}

func TestTranscriptMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.png")
	r := run(t, llmtest.Texts(), "", "transcript", path)
	require.NoError(t, r.err)
	assert.Equal(t, "Transcript file not found at '"+path+"'", r.doc(t)["error"])
}

func TestUnknownFormat(t *testing.T) {
	r := run(t, nil, "", "--format", "yaml", "personality", "--instructions")
	assert.Error(t, r.err)
	assert.False(t, errors.Is(r.err, errReported))
}

func TestWorkerNeedsRabbitMQ(t *testing.T) {
	r := run(t, llmtest.Texts(), "", "worker")
	assert.EqualError(t, r.err, "RABBITMQ_URL is not set")
}

func TestCoursesHelpNamesGapKeys(t *testing.T) {
	root := newRootCmd(newCLI(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}))
	cmd, _, err := root.Find([]string{"courses"})
	require.NoError(t, err)
	assert.Contains(t, cmd.Long, "missing_technical_skills")
	assert.Contains(t, cmd.Long, "missing_soft_skills")
}
