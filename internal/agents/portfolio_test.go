package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/careerkit/internal/llm/llmtest"
)

const (
	analysisReply = `{"name": "Asha", "current_role": "Backend Developer", "key_skills": ["Go", "SQL"],
"experience_summary": "Two years building APIs.", "inferred_goals": ["Become an SRE"]}`

	roadmapReply = "```json\n" + `{
  "intro_summary": "Three projects toward reliability work.",
  "foundation_project": {"step_title": "Step 1: The Foundation", "project_title": "Log Shipper",
    "project_description": "Ship logs.", "portfolio_value": "Shows pipelines.", "key_skills_to_learn": ["Kafka", "gRPC"]},
  "growth_project": {"step_title": "Step 2: Growth", "project_title": "Chaos Bench",
    "project_description": "Break things.", "portfolio_value": "Shows resilience.", "key_skills_to_learn": ["Kubernetes"]},
  "capstone_project": {"step_title": "Step 3: Capstone", "project_title": "SLO Platform",
    "project_description": "Track SLOs.", "portfolio_value": "Centerpiece.", "key_skills_to_learn": ["Prometheus"]}
}` + "\n```"
)

func TestPortfolio(t *testing.T) {
	model := llmtest.Texts(analysisReply, "```json\n[\"Log Shipper: ship logs\", \"Chaos Bench: break things\"]\n```", roadmapReply)
	p := &Portfolio{Env: testEnv(t, model)}

	out, err := p.Run(context.Background(), "Asha, backend developer, Go and SQL")
	require.NoError(t, err)

	require.NotNil(t, out.Analysis)
	assert.Equal(t, "Asha", out.Analysis.Name)
	assert.Equal(t, []string{"Log Shipper: ship logs", "Chaos Bench: break things"}, out.ProjectIdeas)
	require.NotNil(t, out.Roadmap)
	assert.Equal(t, "SLO Platform", out.Roadmap.CapstoneProject.ProjectTitle)

	assert.Contains(t, out.FinalGuide, "Hello Asha! Based on your profile as a *Backend Developer* with skills in *Go, SQL*")
	assert.Contains(t, out.FinalGuide, "your goals of **Become an SRE**.")
	assert.Contains(t, out.FinalGuide, "### Step 1: The Foundation: Log Shipper")
	assert.Contains(t, out.FinalGuide, "*Key Skills to Learn/Demonstrate:*\n- Kafka\n- gRPC")

	require.Len(t, model.Requests, 3)
	for _, req := range model.Requests {
		assert.Equal(t, 0.7, req.Temperature)
	}
	assert.Contains(t, llmtest.PromptText(model.Requests[0]), "Asha, backend developer, Go and SQL")
	assert.Contains(t, llmtest.PromptText(model.Requests[2]), "Log Shipper: ship logs\nChaos Bench: break things")
}

func TestPortfolioAnalysisFailure(t *testing.T) {
	model := llmtest.Texts("I could not read that profile.")
	out, err := (&Portfolio{Env: testEnv(t, model)}).Run(context.Background(), "")
	require.NoError(t, err)

	assert.Nil(t, out.Analysis)
	assert.Nil(t, out.Roadmap)
	assert.Equal(t, []string{}, out.ProjectIdeas)
	assert.Equal(t, portfolioApology, out.FinalGuide)
	assert.Equal(t, 1, model.Calls())
}

func TestPortfolioRoadmapFailure(t *testing.T) {
	model := llmtest.NewScripted(
		llmtest.Reply{Text: analysisReply},
		llmtest.Reply{Text: `["One: idea"]`},
		llmtest.Reply{Err: errors.New("overloaded")},
	)
	out, err := (&Portfolio{Env: testEnv(t, model)}).Run(context.Background(), "profile")
	require.NoError(t, err)
	assert.Equal(t, []string{"One: idea"}, out.ProjectIdeas)
	assert.Nil(t, out.Roadmap)
	assert.Equal(t, portfolioApology, out.FinalGuide)
}

func TestPortfolioBrainstormFailure(t *testing.T) {
	model := llmtest.Texts(analysisReply, "Here are some thoughts, no list.")
	_, err := (&Portfolio{Env: testEnv(t, model)}).Run(context.Background(), "profile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brainstorm_projects")
	assert.Equal(t, 2, model.Calls())
}

func TestPortfolioGuideNeedsBothParts(t *testing.T) {
	assert.Equal(t, portfolioApology, PortfolioGuide(&ProfileAnalysis{}, nil))
	assert.Equal(t, portfolioApology, PortfolioGuide(nil, &PortfolioRoadmap{}))
}
