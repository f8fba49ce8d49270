package agents

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/careerkit/internal/llm"
	"github.com/justsurfingit/careerkit/internal/llm/llmtest"
)

func testSuite(t *testing.T, model llm.Model) *Suite {
	t.Helper()
	return NewSuite(testEnv(t, model), Deps{
		Search:  &fakeSearch{},
		Serper:  &fakeSerper{},
		Pages:   fakePages{text: "profile page"},
		Courses: fakeFinder{},
		Files:   fakeFiles{},
	})
}

func TestDispatchUnknownKind(t *testing.T) {
	_, err := testSuite(t, llmtest.Texts()).Dispatch(context.Background(), "horoscope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown pipeline "horoscope"`)
}

func TestDispatchInvalidInput(t *testing.T) {
	_, err := testSuite(t, llmtest.Texts()).Dispatch(context.Background(), KindGitHub, json.RawMessage(`{"url": 5}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid github input")
}

func TestDispatchRequiredFields(t *testing.T) {
	s := testSuite(t, llmtest.Texts())
	_, err := s.Dispatch(context.Background(), KindGitHub, json.RawMessage(`{}`))
	assert.EqualError(t, err, "github: url is required")
	_, err = s.Dispatch(context.Background(), KindProfile, nil)
	assert.EqualError(t, err, "profile: profile input is required")
}

func TestDispatchPersonality(t *testing.T) {
	out, err := testSuite(t, llmtest.Texts("With an SEC profile...")).
		Dispatch(context.Background(), KindPersonality, json.RawMessage(`{"code": "sec"}`))
	require.NoError(t, err)
	assert.Equal(t, PersonalityOutput{Summary: "With an SEC profile..."}, out)
}

func TestDispatchCoursesFromText(t *testing.T) {
	model := llmtest.Func(func(llm.Request) (string, error) { return "No courses found.", nil })
	out, err := testSuite(t, model).Dispatch(context.Background(), KindCourses, json.RawMessage(`{"text": "nothing useful"}`))
	require.NoError(t, err)

	courses, ok := out.(CoursesOutput)
	require.True(t, ok)
	assert.Len(t, courses.CourseDetails, len(DefaultGapSkills))
	assert.Contains(t, courses.CourseRecommendations, "### Machine Learning\nNo courses found.")
}

func TestDispatchCareerRolesDefaults(t *testing.T) {
	model := llmtest.Texts(`[]`)
	out, err := testSuite(t, model).Dispatch(context.Background(), KindCareerRoles,
		json.RawMessage(`{"job_analysis": {"location": "India"}}`))
	require.NoError(t, err)
	assert.Equal(t, CareerRolesOutput{SuggestedRoles: []any{}}, out)

	prompt := llmtest.PromptText(model.Requests[0])
	assert.Contains(t, prompt, `{"location":"India"}`)
	assert.Contains(t, prompt, "user's profile information:\n{}")
}

func TestKindsCoverDispatch(t *testing.T) {
	assert.Len(t, Kinds(), 12)
}
