package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/graph"
	"github.com/justsurfingit/careerkit/internal/llm"
)

const careerRolesPrompt = `You are an AI career advisor.

Here is the latest job market analysis:
%s

Here is the user's profile information:
%s

Based on both, suggest 5 possible career roles for this user.
- The roles can be from the job analysis or inferred from related domains.
- For each role, include:
    1. Role name
    2. Reason for recommendation
    3. Market trend (High / Medium / Low demand)
    4. Estimated salary range
    5. Skills to strengthen or learn next

Return valid JSON in this format (array of objects):
[
  {
    "role": "...",
    "reason": "...",
    "market_trend": "...",
    "salary_range": "...",
    "skills_to_learn": [...]
  }
]`

type CareerRolesOutput struct {
	SuggestedRoles []any `json:"suggested_roles"`
}

// CareerRoles suggests five roles from a market analysis and a profile.
type CareerRoles struct {
	*Env
}

type careerRolesState struct {
	jobAnalysis any
	userProfile any
	roles       []any
}

func (c *CareerRoles) Run(ctx context.Context, jobAnalysis, userProfile any) (CareerRolesOutput, error) {
	state := careerRolesState{jobAnalysis: jobAnalysis, userProfile: userProfile}
	g := graph.New[careerRolesState]("career-roles", c.Log).
		Then("CareerRoleSuggester", c.suggest)
	if err := g.Run(ctx, &state); err != nil {
		return CareerRolesOutput{}, err
	}
	if state.roles == nil {
		state.roles = []any{}
	}
	return CareerRolesOutput{SuggestedRoles: state.roles}, nil
}

func (c *CareerRoles) suggest(ctx context.Context, s *careerRolesState) error {
	prompt := fmt.Sprintf(careerRolesPrompt, marshalJSON(s.jobAnalysis), marshalJSON(s.userProfile))
	text, err := c.generate(ctx, "career-roles", llm.User(prompt))
	if err != nil {
		return err
	}

	// A single role object is kept whole rather than mined for an inner array.
	var role map[string]any
	if json.Unmarshal([]byte(llm.CleanJSON(text)), &role) == nil && role != nil {
		s.roles = []any{role}
		return nil
	}

	roles, err := llm.ParseArray(text)
	if err != nil {
		c.Log.Warn("could not parse suggested roles", zap.Error(err))
		roles = []any{map[string]any{"error": "Failed to parse response", "raw": llm.CleanJSON(text)}}
	}
	s.roles = roles
	return nil
}
