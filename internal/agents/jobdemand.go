package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/graph"
	"github.com/justsurfingit/careerkit/internal/llm"
)

const DefaultLocation = "Bangalore, India"

const (
	demandPrompt = `You are a data-driven analyst. Analyze job demand data for %s.
Data:
%s

Return valid JSON with:
{
    "total_job_openings_estimated": <int>,
    "top_5_in_demand_job_titles": [<list of 5>],
    "job_growth_trend": <string>,
    "industries_with_highest_demand": [<list>],
    "remote_vs_on_site_distribution": <string>
}`

	salaryPrompt = `You are a compensation analyst. Extract structured salary insights for %s.
Data:
%s

Return valid JSON with:
{
    "average_salary_ranges": [{role, currency, min_annual, max_annual, average_annual}],
    "highest_paying_roles": [{role, max_annual_inr}],
    "salary_variation_by_experience_level": [{role, experience_level, range}],
    "salary_growth_rate_yoy_percent": <float or null>,
    "cost_of_living_adjustment_factors": <string or null>
}`

	skillsPrompt = `You are a job skills analyst. Extract skill trends for %s.
Data:
%s

Return valid JSON with:
{
    "top_10_in_demand_technical_skills": [<list>],
    "top_10_in_demand_soft_skills": [<list>],
    "emerging_technologies": [<list>],
    "skills_with_highest_salary_premium": [<list>],
    "year_over_year_skill_growth_trends": [<list>]
}`

	marketSummaryPrompt = `Synthesize a strategic summary for %s based on:

JOB DEMAND: %s
SALARY: %s
SKILLS: %s

Return valid JSON with:
{
    "overview": <text>,
    "key_opportunities": <text>,
    "salary_competitiveness": <text>,
    "recommended_skills": <text>,
    "market_outlook": <text>,
    "recommendations": <text>
}`
)

// JobDemandOutput keeps whatever JSON the model produced for each
// section; sections that were not JSON are wrapped as {"raw_text": ...}.
type JobDemandOutput struct {
	Location      string `json:"location"`
	JobDemandData any    `json:"job_demand_data"`
	SalaryData    any    `json:"salary_data"`
	SkillsData    any    `json:"skills_data"`
	Summary       any    `json:"summary"`
}

// JobDemand analyzes the job market of a location: three searches with an
// analysis each, run in parallel, then a combined summary.
type JobDemand struct {
	*Env
	Serper RawSearcher
}

func (j *JobDemand) graph() *graph.Graph[JobDemandOutput] {
	return graph.New[JobDemandOutput]("job-demand", j.Log).
		Parallel(
			graph.Node[JobDemandOutput]{Name: "demand", Run: j.demand},
			graph.Node[JobDemandOutput]{Name: "salary", Run: j.salary},
			graph.Node[JobDemandOutput]{Name: "skills", Run: j.skills},
		).
		Then("summary", j.summarize)
}

func (j *JobDemand) Run(ctx context.Context, location string) (JobDemandOutput, error) {
	if location == "" {
		location = DefaultLocation
	}
	state := JobDemandOutput{
		Location:      location,
		JobDemandData: map[string]any{},
		SalaryData:    map[string]any{},
		SkillsData:    map[string]any{},
		Summary:       map[string]any{},
	}
	if err := j.graph().Run(ctx, &state); err != nil {
		return JobDemandOutput{}, err
	}

	j.Log.Info("job demand data", zap.Any("data", state.JobDemandData))
	j.Log.Info("salary data", zap.Any("data", state.SalaryData))
	j.Log.Info("skill trends", zap.Any("data", state.SkillsData))
	j.Log.Info("strategic summary", zap.Any("data", state.Summary))
	return state, nil
}

func (j *JobDemand) demand(ctx context.Context, s *JobDemandOutput) error {
	data := j.Serper.SearchRaw(ctx, fmt.Sprintf("current job demand %s 2025 software engineer data scientist", s.Location))
	out, err := j.analyze(ctx, fmt.Sprintf(demandPrompt, s.Location, data))
	if err != nil {
		return err
	}
	s.JobDemandData = out
	return nil
}

func (j *JobDemand) salary(ctx context.Context, s *JobDemandOutput) error {
	data := j.Serper.SearchRaw(ctx, fmt.Sprintf("average salary 2025 %s tech roles compensation", s.Location))
	out, err := j.analyze(ctx, fmt.Sprintf(salaryPrompt, s.Location, data))
	if err != nil {
		return err
	}
	s.SalaryData = out
	return nil
}

func (j *JobDemand) skills(ctx context.Context, s *JobDemandOutput) error {
	data := j.Serper.SearchRaw(ctx, fmt.Sprintf("emerging tech skills %s 2025 AI ML cloud", s.Location))
	out, err := j.analyze(ctx, fmt.Sprintf(skillsPrompt, s.Location, data))
	if err != nil {
		return err
	}
	s.SkillsData = out
	return nil
}

func (j *JobDemand) summarize(ctx context.Context, s *JobDemandOutput) error {
	prompt := fmt.Sprintf(marketSummaryPrompt, s.Location,
		marshalJSON(s.JobDemandData), marshalJSON(s.SalaryData), marshalJSON(s.SkillsData))
	out, err := j.analyze(ctx, prompt)
	if err != nil {
		return err
	}
	s.Summary = out
	return nil
}

func (j *JobDemand) analyze(ctx context.Context, prompt string) (any, error) {
	text, err := j.generate(ctx, "job-demand", llm.User(prompt))
	if err != nil {
		return nil, err
	}
	return parseJSONSafe(text), nil
}

// parseJSONSafe strips a code fence and parses any JSON value, keeping
// unparseable text under "raw_text".
func parseJSONSafe(text string) any {
	clean := llm.CleanJSON(text)
	var v any
	if err := json.Unmarshal([]byte(clean), &v); err != nil {
		return map[string]any{"raw_text": clean}
	}
	return v
}
