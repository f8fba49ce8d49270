package agents

import (
	"context"
	"fmt"

	"github.com/justsurfingit/careerkit/internal/graph"
	"github.com/justsurfingit/careerkit/internal/llm"
)

const (
	DefaultTargetCareer = "Machine Learning Engineer"

	userProfileSystem = "You are an intelligent profile analyzer. Extract structured information from a user's background document."
	userProfileHuman  = `User document:
%s

Extract this information in JSON format:
{
  "technical_skills": [],
  "soft_skills": [],
  "education_level": "",
  "experience_level": "",
  "interests": []
}`

	careerAnalyzerSystem = "You are a career intelligence assistant. Analyze a given career and list essential technical and soft skills required in 2025."
	careerAnalyzerHuman  = `Target Career: %[1]s

Return in JSON:
{
  "career": "%[1]s",
  "required_technical_skills": [],
  "required_soft_skills": []
}`

	gapAnalyzerSystem = "You are a skill gap analyst. Compare a user's current skills with the required skills for the target career."
	gapAnalyzerHuman  = `User Profile:
%s

Career Requirements:
%s

Return JSON:
{
  "missing_technical_skills": [],
  "missing_soft_skills": []
}`

	pathwaySystem = "You are a professional skill development advisor. Create a progressive skill pathway to reach the target career."
	pathwayHuman  = `Target Career: %s

Missing Skills:
%s

Output JSON:
{
  "technical_pathway": [
    {"stage": "Beginner", "skills": [], "reasoning": ""},
    {"stage": "Intermediate", "skills": [], "reasoning": ""},
    {"stage": "Advanced", "skills": [], "reasoning": ""}
  ],
  "soft_skill_pathway": [
    {"stage": "Foundational", "skills": [], "reasoning": ""},
    {"stage": "Growth", "skills": [], "reasoning": ""}
  ]
}`

	explanationSystem = "You are a career mentor AI. Write a clear and motivating explanation of the recommended skill pathway."
	explanationHuman  = `User Profile:
%s

Skill Pathway:
%s

Generate a detailed explanation in human-readable paragraphs.`
)

type SkillPathwayOutput struct {
	UserProfile        any    `json:"user_profile"`
	CareerRequirements any    `json:"career_requirements"`
	SkillGaps          any    `json:"skill_gaps"`
	SkillPathway       any    `json:"skill_pathway"`
	FinalExplanation   string `json:"final_explanation"`
}

// SkillPathway plans the route from a user's background to a target
// career in five sequential steps; the last one uses the larger model.
type SkillPathway struct {
	*Env
}

type skillPathwayState struct {
	document string
	target   string
	out      SkillPathwayOutput
}

func (p *SkillPathway) graph() *graph.Graph[skillPathwayState] {
	return graph.New[skillPathwayState]("skill-pathway", p.Log).
		Then("user_profile_extractor", p.userProfile).
		Then("career_analyzer", p.careerAnalyzer).
		Then("gap_analyzer", p.gapAnalyzer).
		Then("pathway_builder", p.pathwayBuilder).
		Then("explanation_node", p.explain)
}

func (p *SkillPathway) Run(ctx context.Context, target, document string) (SkillPathwayOutput, error) {
	if target == "" {
		target = DefaultTargetCareer
	}
	state := skillPathwayState{document: document, target: target}
	if err := p.graph().Run(ctx, &state); err != nil {
		return SkillPathwayOutput{}, err
	}
	return state.out, nil
}

func (p *SkillPathway) userProfile(ctx context.Context, s *skillPathwayState) error {
	v, err := p.jsonStep(ctx, "skill-pathway", userProfileSystem, fmt.Sprintf(userProfileHuman, s.document))
	s.out.UserProfile = v
	return err
}

func (p *SkillPathway) careerAnalyzer(ctx context.Context, s *skillPathwayState) error {
	v, err := p.jsonStep(ctx, "skill-pathway", careerAnalyzerSystem, fmt.Sprintf(careerAnalyzerHuman, s.target))
	s.out.CareerRequirements = v
	return err
}

func (p *SkillPathway) gapAnalyzer(ctx context.Context, s *skillPathwayState) error {
	v, err := p.jsonStep(ctx, "skill-pathway", gapAnalyzerSystem,
		fmt.Sprintf(gapAnalyzerHuman, marshalIndent(s.out.UserProfile), marshalIndent(s.out.CareerRequirements)))
	s.out.SkillGaps = v
	return err
}

func (p *SkillPathway) pathwayBuilder(ctx context.Context, s *skillPathwayState) error {
	v, err := p.jsonStep(ctx, "skill-pathway", pathwaySystem,
		fmt.Sprintf(pathwayHuman, s.target, marshalIndent(s.out.SkillGaps)))
	s.out.SkillPathway = v
	return err
}

func (p *SkillPathway) explain(ctx context.Context, s *skillPathwayState) error {
	text, err := p.generate(ctx, "skill-pathway.explanation",
		llm.System(explanationSystem),
		llm.User(fmt.Sprintf(explanationHuman, marshalIndent(s.out.UserProfile), marshalIndent(s.out.SkillPathway))),
	)
	if err != nil {
		return err
	}
	s.out.FinalExplanation = text
	return nil
}

func (p *SkillPathway) jsonStep(ctx context.Context, step, system, human string) (any, error) {
	text, err := p.generate(ctx, step, llm.System(system), llm.User(human))
	if err != nil {
		return nil, err
	}
	return parseObjectOrError(text), nil
}

// parseObjectOrError never fails: unparseable output is kept next to an
// error marker so later steps still see it.
func parseObjectOrError(text string) any {
	v, err := llm.ParseObject(text)
	if err != nil {
		return map[string]any{"error": "Invalid JSON returned by model", "raw": text}
	}
	return v
}
