package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/careerkit/internal/config"
	"github.com/justsurfingit/careerkit/internal/llm/llmtest"
)

func TestSkillPathway(t *testing.T) {
	model := llmtest.Texts(
		`{"technical_skills": ["Python"], "soft_skills": [], "education_level": "BTech", "experience_level": "Fresher", "interests": ["AI"]}`,
		"Sure! Requirements are below but not as JSON.",
		"```json\n{\"missing_technical_skills\": [\"PyTorch\"], \"missing_soft_skills\": [\"Mentoring\"]}\n```",
		`{"technical_pathway": [], "soft_skill_pathway": []}`,
		"Start with PyTorch.",
	)
	p := &SkillPathway{Env: testEnv(t, model)}

	out, err := p.Run(context.Background(), "", "I know Python and like AI.")
	require.NoError(t, err)

	assert.Equal(t, "BTech", out.UserProfile.(map[string]any)["education_level"])
	assert.Equal(t, map[string]any{
		"error": "Invalid JSON returned by model",
		"raw":   "Sure! Requirements are below but not as JSON.",
	}, out.CareerRequirements)
	assert.Equal(t, []any{"PyTorch"}, out.SkillGaps.(map[string]any)["missing_technical_skills"])
	assert.Equal(t, "Start with PyTorch.", out.FinalExplanation)

	require.Len(t, model.Requests, 5)
	assert.Contains(t, llmtest.PromptText(model.Requests[0]), "User document:\nI know Python and like AI.")
	assert.Contains(t, llmtest.PromptText(model.Requests[1]), "Target Career: "+DefaultTargetCareer)
	assert.Contains(t, llmtest.PromptText(model.Requests[2]), `"error": "Invalid JSON returned by model"`)
	assert.Contains(t, llmtest.PromptText(model.Requests[3]), `"missing_technical_skills": [`)

	for _, req := range model.Requests[:4] {
		assert.Equal(t, config.DefaultModel, req.Model)
		assert.Equal(t, 0.3, req.Temperature)
	}
	assert.Equal(t, config.DefaultProModel, model.Requests[4].Model)
}

func TestSkillPathwayStepError(t *testing.T) {
	model := llmtest.NewScripted(
		llmtest.Reply{Text: "{}"},
		llmtest.Reply{Text: "{}"},
		llmtest.Reply{Err: errors.New("deadline exceeded")},
	)
	_, err := (&SkillPathway{Env: testEnv(t, model)}).Run(context.Background(), "Data Analyst", "doc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gap_analyzer")
	assert.Equal(t, 3, model.Calls())
}
