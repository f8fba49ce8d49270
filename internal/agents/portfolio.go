package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/graph"
	"github.com/justsurfingit/careerkit/internal/llm"
)

type ProfileAnalysis struct {
	Name              string   `json:"name"`
	CurrentRole       string   `json:"current_role"`
	KeySkills         []string `json:"key_skills"`
	ExperienceSummary string   `json:"experience_summary"`
	InferredGoals     []string `json:"inferred_goals"`
}

type ProjectStep struct {
	StepTitle          string   `json:"step_title"`
	ProjectTitle       string   `json:"project_title"`
	ProjectDescription string   `json:"project_description"`
	PortfolioValue     string   `json:"portfolio_value"`
	KeySkillsToLearn   []string `json:"key_skills_to_learn"`
}

type PortfolioRoadmap struct {
	IntroSummary      string      `json:"intro_summary"`
	FoundationProject ProjectStep `json:"foundation_project"`
	GrowthProject     ProjectStep `json:"growth_project"`
	CapstoneProject   ProjectStep `json:"capstone_project"`
}

type PortfolioOutput struct {
	Analysis     *ProfileAnalysis  `json:"analysis"`
	ProjectIdeas []string          `json:"project_ideas"`
	Roadmap      *PortfolioRoadmap `json:"roadmap"`
	FinalGuide   string            `json:"final_guide"`
}

const (
	portfolioApology = "Sorry, I was unable to generate a roadmap based on your profile. Please try again with a more detailed profile."

	analyzeProfileSystem = "You are a senior tech recruiter and career coach. Your task is to analyze the user's profile and extract key information. Pay close attention to their skills, experience level, and any hints about their career aspirations. Provide your analysis in the requested JSON format."
	analyzeProfileHuman  = "Here is the user's profile: \n\n%s\n\n%s"

	brainstormSystem = "You are a project incubator and a principal engineer. Based on the user's profile analysis, brainstorm 5-7 creative, high-impact project ideas that would effectively fill their portfolio gaps and help them reach their goals. Just provide a list of project titles and a 1-sentence description for each. Output a JSON list of strings."
	brainstormHuman  = "Here is the profile analysis:\n\n%s\n\nBrainstorm 5-7 project ideas. Format your response as a JSON list of strings, where each string is a project idea (e.g., 'AI-Powered Recipe App: A web app that suggests recipes based on available ingredients')."

	roadmapSystem = "You are a senior engineering manager and career mentor. Your task is to create a detailed, 3-step project roadmap for a developer. You will be given their profile analysis and a list of brainstormed project ideas.\n\n" +
		"Select 3 projects (you can refine the ideas from the list or create new ones inspired by it) and structure them as:\n" +
		"1.  *Foundation Project:* Leverages their current skills but adds 1-2 new concepts.\n" +
		"2.  *Growth Project:* A more complex project that directly bridges their current skills to their desired goals.\n" +
		"3.  *Capstone Project:* A large-scale, impressive project that synthesizes all their skills and would be a centerpiece of their portfolio.\n\n" +
		"For each project, provide a title, description, the specific value it adds to their portfolio, and the key new skills they will learn. Provide your response in the requested JSON format."
	roadmapHuman = "Profile Analysis:\n%s\n\nBrainstormed Ideas:\n%s\n\n%s"

	profileAnalysisSchema = `{
  "name": "User's name, if found (string)",
  "current_role": "User's current or most recent job title (string)",
  "key_skills": ["A list of core technical skills (e.g., 'Python', 'React', 'SQL')"],
  "experience_summary": "A 2-3 sentence summary of their experience (string)",
  "inferred_goals": ["Inferred career goals or areas they want to grow into (e.g., 'Move into Data Science', 'Become a Senior Full-Stack Developer')"]
}`

	projectStepSchema = `{
    "step_title": "Name of this roadmap step (e.g., 'Step 1: The Foundation')",
    "project_title": "A catchy title for the project",
    "project_description": "A 1-2 paragraph description of what the project is.",
    "portfolio_value": "Why this project is valuable for their portfolio (e.g., 'Demonstrates mastery of full-stack development and API integration')",
    "key_skills_to_learn": ["A list of new skills they will learn or solidify (e.g., 'GraphQL', 'Terraform', 'CI/CD Pipelines')"]
  }`
)

var roadmapSchema = fmt.Sprintf(`{
  "intro_summary": "A brief, encouraging intro to the roadmap, tied to their goals.",
  "foundation_project": %[1]s,
  "growth_project": %[1]s,
  "capstone_project": %[1]s
}`, projectStepSchema)

func formatInstructions(schema string) string {
	return "The output should be formatted as a JSON instance that conforms to the schema below. " +
		"Every field is required. Return only the JSON object.\n\n```\n" + schema + "\n```"
}

// Portfolio turns a profile into a three-project roadmap: analyze,
// brainstorm, plan, then render a Markdown guide.
type Portfolio struct {
	*Env
}

type portfolioState struct {
	profile  string
	analysis *ProfileAnalysis
	ideas    []string
	roadmap  *PortfolioRoadmap
	guide    string
}

func (p *Portfolio) graph() *graph.Graph[portfolioState] {
	return graph.New[portfolioState]("portfolio", p.Log).
		Then("analyze_profile", p.analyze).
		Then("brainstorm_projects", p.brainstorm).
		Then("generate_roadmap", p.plan).
		Then("compile_guide", p.compile)
}

// Run returns an error only when the brainstorm step fails; analysis and
// roadmap failures end in the apology guide.
func (p *Portfolio) Run(ctx context.Context, profile string) (PortfolioOutput, error) {
	state := portfolioState{profile: profile}
	if err := p.graph().Run(ctx, &state); err != nil {
		return PortfolioOutput{}, err
	}
	ideas := state.ideas
	if ideas == nil {
		ideas = []string{}
	}
	return PortfolioOutput{
		Analysis:     state.analysis,
		ProjectIdeas: ideas,
		Roadmap:      state.roadmap,
		FinalGuide:   state.guide,
	}, nil
}

func (p *Portfolio) analyze(ctx context.Context, s *portfolioState) error {
	p.Log.Info("analyzing profile")
	text, err := p.generate(ctx, "portfolio",
		llm.System(analyzeProfileSystem),
		llm.User(fmt.Sprintf(analyzeProfileHuman, s.profile, formatInstructions(profileAnalysisSchema))),
	)
	if err != nil {
		p.Log.Warn("error during profile analysis", zap.Error(err))
		return nil
	}
	var analysis ProfileAnalysis
	if err := llm.Decode(text, &analysis); err != nil {
		p.Log.Warn("error during profile analysis", zap.Error(err))
		return nil
	}
	s.analysis = &analysis
	return nil
}

func (p *Portfolio) brainstorm(ctx context.Context, s *portfolioState) error {
	p.Log.Info("brainstorming projects")
	if s.analysis == nil {
		s.ideas = []string{}
		return nil
	}
	text, err := p.generate(ctx, "portfolio",
		llm.System(brainstormSystem),
		llm.User(fmt.Sprintf(brainstormHuman, marshalJSON(s.analysis))),
	)
	if err != nil {
		return err
	}
	var ideas []string
	if err := llm.DecodeArray(text, &ideas); err != nil {
		return fmt.Errorf("parse project ideas: %w", err)
	}
	s.ideas = ideas
	return nil
}

func (p *Portfolio) plan(ctx context.Context, s *portfolioState) error {
	p.Log.Info("generating roadmap")
	if s.analysis == nil {
		return nil
	}
	text, err := p.generate(ctx, "portfolio",
		llm.System(roadmapSystem),
		llm.User(fmt.Sprintf(roadmapHuman, marshalJSON(s.analysis), strings.Join(s.ideas, "\n"), formatInstructions(roadmapSchema))),
	)
	if err != nil {
		p.Log.Warn("error during roadmap generation", zap.Error(err))
		return nil
	}
	var roadmap PortfolioRoadmap
	if err := llm.Decode(text, &roadmap); err != nil {
		p.Log.Warn("error during roadmap generation", zap.Error(err))
		return nil
	}
	s.roadmap = &roadmap
	return nil
}

func (p *Portfolio) compile(_ context.Context, s *portfolioState) error {
	p.Log.Info("compiling guide")
	s.guide = PortfolioGuide(s.analysis, s.roadmap)
	return nil
}

// PortfolioGuide renders the Markdown roadmap, or the apology message when
// either part is missing.
func PortfolioGuide(analysis *ProfileAnalysis, roadmap *PortfolioRoadmap) string {
	if analysis == nil || roadmap == nil {
		return portfolioApology
	}
	return fmt.Sprintf(`
# Your Personalized Portfolio Roadmap

Hello %s! Based on your profile as a *%s* with skills in *%s*, I've created a 3-step project roadmap to help you achieve your goals of **%s**.

%s

---

## 🚀 Your 3-Step Project Plan

%s

---

%s

---

%s

---

## Next Steps

Good luck! This roadmap is a guide. Feel free to adapt the projects to your interests. The most important thing is to start building and learning.
`,
		analysis.Name,
		analysis.CurrentRole,
		strings.Join(analysis.KeySkills, ", "),
		strings.Join(analysis.InferredGoals, ", "),
		roadmap.IntroSummary,
		formatProject(roadmap.FoundationProject),
		formatProject(roadmap.GrowthProject),
		formatProject(roadmap.CapstoneProject),
	)
}

func formatProject(p ProjectStep) string {
	skills := make([]string, len(p.KeySkillsToLearn))
	for i, skill := range p.KeySkillsToLearn {
		skills[i] = "- " + skill
	}
	return fmt.Sprintf(`
### %s: %s

*Description:*
%s

*Portfolio Value:*
%s

*Key Skills to Learn/Demonstrate:*
%s
`, p.StepTitle, p.ProjectTitle, p.ProjectDescription, p.PortfolioValue, strings.Join(skills, "\n"))
}
