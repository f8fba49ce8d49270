package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Pipeline kinds accepted by Dispatch.
const (
	KindCertificate  = "certificate"
	KindGitHub       = "github"
	KindCareerRoles  = "career-roles"
	KindJobDemand    = "job-demand"
	KindPersonality  = "personality"
	KindCourses      = "courses"
	KindPortfolio    = "portfolio"
	KindResume       = "resume"
	KindTranscript   = "transcript"
	KindSkillPathway = "skill-pathway"
	KindProfile      = "profile"
	KindCoursePlan   = "course-plan"
)

// RunInput is the union of every pipeline's inputs; each kind reads the
// fields it needs.
type RunInput struct {
	Image       string          `json:"image,omitempty"`
	URL         string          `json:"url,omitempty"`
	Question    string          `json:"question,omitempty"`
	JobAnalysis json.RawMessage `json:"job_analysis,omitempty"`
	UserProfile json.RawMessage `json:"user_profile,omitempty"`
	Location    string          `json:"location,omitempty"`
	Code        string          `json:"code,omitempty"`
	Skills      []string        `json:"skills,omitempty"`
	Text        string          `json:"text,omitempty"`
	Target      string          `json:"target,omitempty"`
	Profile     *ProfileInput   `json:"profile,omitempty"`
}

// Kinds lists every pipeline Dispatch understands.
func Kinds() []string {
	return []string{KindCertificate, KindGitHub, KindCareerRoles, KindJobDemand, KindPersonality,
		KindCourses, KindPortfolio, KindResume, KindTranscript, KindSkillPathway, KindProfile, KindCoursePlan}
}

// Dispatch runs the pipeline named kind and returns its output document.
func (s *Suite) Dispatch(ctx context.Context, kind string, raw json.RawMessage) (any, error) {
	var in RunInput
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("invalid %s input: %w", kind, err)
		}
	}

	switch kind {
	case KindCertificate:
		return s.Certificate.Run(ctx, in.Image)
	case KindGitHub:
		if in.URL == "" {
			return nil, fmt.Errorf("github: url is required")
		}
		return s.GitHub.Run(ctx, in.URL, in.Question)
	case KindCareerRoles:
		var jobAnalysis, userProfile any
		if err := decodeRaw(in.JobAnalysis, &jobAnalysis); err != nil {
			return nil, fmt.Errorf("career-roles: job_analysis: %w", err)
		}
		if err := decodeRaw(in.UserProfile, &userProfile); err != nil {
			return nil, fmt.Errorf("career-roles: user_profile: %w", err)
		}
		return s.CareerRoles.Run(ctx, jobAnalysis, userProfile)
	case KindJobDemand:
		return s.JobDemand.Run(ctx, strings.TrimSpace(in.Location))
	case KindPersonality:
		return s.Personality.Run(ctx, in.Code), nil
	case KindCourses:
		skills := in.Skills
		if len(skills) == 0 {
			skills = ExtractSkillGaps(in.Text)
		}
		return s.Courses.Run(ctx, skills)
	case KindPortfolio:
		return s.Portfolio.Run(ctx, in.Text)
	case KindResume:
		return s.Resume.Run(ctx, in.Image)
	case KindTranscript:
		return s.Transcript.Run(ctx, in.Image)
	case KindSkillPathway:
		return s.SkillPathway.Run(ctx, in.Target, in.Text)
	case KindProfile:
		if in.Profile == nil {
			return nil, fmt.Errorf("profile: profile input is required")
		}
		return s.Profile.Run(ctx, *in.Profile)
	case KindCoursePlan:
		return s.CoursePlan.Run(ctx, in.Text)
	default:
		return nil, fmt.Errorf("unknown pipeline %q", kind)
	}
}

func decodeRaw(raw json.RawMessage, v *any) error {
	if len(raw) == 0 {
		*v = map[string]any{}
		return nil
	}
	return json.Unmarshal(raw, v)
}
