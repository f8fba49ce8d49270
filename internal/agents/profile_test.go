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

func TestTextReport(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain object", `{"structured_profile": {"a": 1}, "text_report": "  Strong profile.  "}`, "Strong profile."},
		{"fenced", "```json\n{\"text_report\": \"Ready for internships.\"}\n```", "Ready for internships."},
		{"missing key", `{"structured_profile": {}}`, ""},
		{"not json", "The student is strong.", "The student is strong."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TextReport(tc.raw))
		})
	}
}

func TestStructuredProfile(t *testing.T) {
	assert.Equal(t, map[string]any{"a": float64(1)}, StructuredProfile(`{"structured_profile": {"a": 1}, "text_report": ""}`))
	assert.Equal(t, map[string]any{"structured_profile": nil, "x": float64(1)}, StructuredProfile(`{"structured_profile": null, "x": 1}`))
	assert.Equal(t, map[string]any{}, StructuredProfile("no json"))
}

func TestProfile(t *testing.T) {
	raw := `{"structured_profile": {"studentProfile": {}}, "text_report": "Good fit for data roles."}`
	model := llmtest.Texts(raw)
	p := &Profile{Env: testEnv(t, model)}

	out, err := p.Run(context.Background(), ProfileInput{
		Resume:      map[string]any{"extracted_data": "{}"},
		Personality: map[string]any{"summary": "IAS"},
	})
	require.NoError(t, err)
	assert.Equal(t, raw, out.RawResponse)
	assert.Equal(t, "Good fit for data roles.", out.TextReport)
	assert.Equal(t, map[string]any{"studentProfile": map[string]any{}}, out.StructuredProfile)

	req := model.Requests[0]
	assert.Equal(t, config.DefaultProModel, req.Model)
	assert.Equal(t, 0.0, req.Temperature)
	require.Len(t, req.Messages, 1)
	require.Len(t, req.Messages[0].Parts, 2)
	assert.Contains(t, req.Messages[0].Parts[0].Text, `"text_report": a concise human-readable summary`)
	assert.Contains(t, req.Messages[0].Parts[1].Text, "\"certificate\": null")
	assert.Contains(t, req.Messages[0].Parts[1].Text, "\"summary\": \"IAS\"")
}

func TestProfileModelError(t *testing.T) {
	model := llmtest.NewScripted(llmtest.Reply{Err: errors.New("503")})
	_, err := (&Profile{Env: testEnv(t, model)}).Run(context.Background(), ProfileInput{})
	require.Error(t, err)
}

func TestCoursePlan(t *testing.T) {
	model := llmtest.Texts("```json\n{\"courses\": [{\"title\": \"Deep Learning\"}], \"summary\": \"Go deep.\"}\n```")
	plan, err := (&CoursePlan{Env: testEnv(t, model)}).Run(context.Background(), "Strong in Python.")
	require.NoError(t, err)
	assert.Equal(t, "Go deep.", plan["summary"])
	assert.Contains(t, llmtest.PromptText(model.Requests[0]), "Student text report:\n\nStrong in Python.")
	assert.Equal(t, config.DefaultProModel, model.Requests[0].Model)
}

func TestCoursePlanNotJSON(t *testing.T) {
	model := llmtest.Texts("I recommend taking some courses.")
	plan, err := (&CoursePlan{Env: testEnv(t, model)}).Run(context.Background(), "report")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, plan)
}
