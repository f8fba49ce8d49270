package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/llm"
)

const coursePlanPrompt = `You are a senior learning architect. Based on the following student profile summary, propose a prioritized list of 8-12 course recommendations with clear rationale.

Student text report:

%s


Return strict JSON with keys:
{
  "courses": [
    { "title": "", "level": "Beginner|Intermediate|Advanced", "provider": "", "topics": [], "why": "" }
  ],
  "summary": ""
}`

// CoursePlan proposes a prioritized course list from a profile report.
type CoursePlan struct {
	*Env
}

// Run returns {} when the model answer holds no JSON object.
func (c *CoursePlan) Run(ctx context.Context, textReport string) (map[string]any, error) {
	text, err := c.generate(ctx, "course-plan", llm.User(fmt.Sprintf(coursePlanPrompt, textReport)))
	if err != nil {
		return nil, err
	}
	plan, err := llm.ParseObject(text)
	if err != nil || plan == nil {
		c.Log.Warn("course plan was not JSON", zap.Error(err))
		return map[string]any{}, nil
	}
	return plan, nil
}
