package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/careerkit/internal/llm/llmtest"
	"github.com/justsurfingit/careerkit/internal/scrape"
)

func TestExtractSkillGaps(t *testing.T) {
	doc := `{
  "skill_gaps": {
    "missing_technical_skills": [
      "Docker",
      "SQL",
      "Kubernetes: cluster operations"
    ],
    "missing_soft_skills": ["Public speaking", "Art"]
  }
}`
	assert.Equal(t, []string{"Docker", "Kubernetes: cluster operations", "Public speaking"}, ExtractSkillGaps(doc))
}

func TestExtractSkillGapsDefaultsAndLimit(t *testing.T) {
	assert.Equal(t, DefaultGapSkills, ExtractSkillGaps("no gaps here"))
	assert.Equal(t, DefaultGapSkills, ExtractSkillGaps(`"missing_technical_skills": []`))

	many := `"missing_technical_skills": ["Alpha", "Bravo", "Charlie", "Delta", "Echoes", "Foxtrot"]`
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie", "Delta", "Echoes"}, ExtractSkillGaps(many))
}

func TestSkillQuery(t *testing.T) {
	cases := map[string]string{
		"Proficiency in Python: advanced":     "in python",
		"Machine Learning (ML)":               "machine learning",
		"CI/CD Pipelines & Deployment":        "ci/cd pipelines",
		"Docker":                              "docker",
		"Cloud Platforms, e.g. AWS":           "cloud platforms",
		"Hands-on Experience":                 "",
		"Deep Learning Frameworks. PyTorch":   "deep learning",
		"Data Structures and Algorithms Prep": "data structures",
	}
	for in, want := range cases {
		assert.Equal(t, want, SkillQuery(in), in)
	}
}

func TestCourses(t *testing.T) {
	finder := fakeFinder{
		"docker": {{Platform: "Coursera", Title: "Docker Basics", URL: "https://c/learn/docker"}},
		"public speaking": {
			{Platform: "Coursera", Title: "Speak Up", URL: "https://c/learn/speak"},
			{Platform: "Coursera", Title: "Presenting", URL: "https://c/learn/present"},
			{Platform: "Coursera", Title: "Third", URL: "https://c/learn/third"},
		},
	}
	model := llmtest.NewScripted(
		llmtest.Reply{Text: "  - *Coursera*: Docker Basics  \n"},
		llmtest.Reply{Err: errors.New("unavailable")},
	)
	c := &Courses{Env: testEnv(t, model), Finder: finder}

	out, err := c.Run(context.Background(), []string{"Docker", "Public speaking"})
	require.NoError(t, err)

	assert.Equal(t, "- *Coursera*: Docker Basics", out.CourseDetails["Docker"])
	assert.Equal(t,
		"- *Coursera*: Speak Up  \n    \n  https://c/learn/speak\n- *Coursera*: Presenting  \n    \n  https://c/learn/present",
		out.CourseDetails["Public speaking"])
	assert.Equal(t,
		"### Docker\n- *Coursera*: Docker Basics\n\n### Public speaking\n"+out.CourseDetails["Public speaking"],
		out.CourseRecommendations)

	require.Len(t, model.Requests, 2)
	assert.Equal(t, 0.0, model.Requests[0].Temperature)
	prompt := llmtest.PromptText(model.Requests[0])
	assert.Contains(t, prompt, "For 'docker', here is a list of scraped online courses")
	assert.Contains(t, prompt, `"title":"Docker Basics"`)
}

func TestCoursesNoResults(t *testing.T) {
	model := llmtest.Texts("No courses found.")
	c := &Courses{Env: testEnv(t, model), Finder: fakeFinder{}}

	out, err := c.Run(context.Background(), []string{"Rust"})
	require.NoError(t, err)
	assert.Equal(t, "### Rust\nNo courses found.", out.CourseRecommendations)
	assert.Contains(t, llmtest.PromptText(model.Requests[0]), "\n\n[]")
}

func TestFallbackCourses(t *testing.T) {
	assert.Empty(t, fallbackCourses(nil))
	got := fallbackCourses([]scrape.Course{{Platform: "Coursera", Title: "T", Desc: "D", URL: "U"}})
	assert.Equal(t, "- *Coursera*: T  \n  D  \n  U", got)
}
