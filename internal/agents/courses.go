package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/graph"
	"github.com/justsurfingit/careerkit/internal/llm"
	"github.com/justsurfingit/careerkit/internal/scrape"
)

const (
	maxGapSkills = 5

	coursesSystemPrompt = "Select top 2 and format (platform, title, description, url)."
	coursesPrompt       = "For '%s', here is a list of scraped online courses " +
		"with platform, title, description, link. Pick the 2 most relevant and actionable. " +
		"Output in Markdown (platform, title, desc, url as requested)." +
		"\n\n" +
		"%s"
)

var (
	DefaultGapSkills = []string{"Python", "Machine Learning", "Communication", "Presentation"}

	technicalGaps = regexp.MustCompile(`(?s)"missing_technical_skills": \[(.*?)\]`)
	softGaps      = regexp.MustCompile(`(?s)"missing_soft_skills": \[(.*?)\]`)
	quoted        = regexp.MustCompile(`"([^"]+)"`)

	skillNoise = []string{"Proficiency", "Fundamentals", "Frameworks", "Development", "Deployment",
		"Experience", "Expertise", "Hands-on", "&"}
)

// ExtractSkillGaps pulls the missing technical and soft skills out of a
// skill-pathway document. It reads the text with regular expressions so
// that partly broken JSON still yields skills. At most five are returned.
func ExtractSkillGaps(text string) []string {
	var skills []string
	if m := technicalGaps.FindStringSubmatch(text); m != nil {
		skills = append(skills, quotedSkills(m[1])...)
	}
	if m := softGaps.FindStringSubmatch(text); m != nil {
		skills = append(skills, quotedSkills(m[1])...)
	}
	if len(skills) == 0 {
		skills = append([]string(nil), DefaultGapSkills...)
	}
	if len(skills) > maxGapSkills {
		skills = skills[:maxGapSkills]
	}
	return skills
}

func quotedSkills(list string) []string {
	var out []string
	for _, m := range quoted.FindAllStringSubmatch(list, -1) {
		if utf8.RuneCountInString(strings.TrimSpace(m[1])) <= 3 {
			continue
		}
		out = append(out, strings.Trim(m[1], "\", \n"))
	}
	return out
}

// SkillQuery shortens a skill description into a catalogue search term:
// cut at the first ':', '.', ',' or '(', drop filler words, keep two
// words, lower-case.
func SkillQuery(skill string) string {
	if i := strings.IndexAny(skill, ":.,("); i >= 0 {
		skill = skill[:i]
	}
	for _, noise := range skillNoise {
		skill = strings.ReplaceAll(skill, noise, "")
	}
	tokens := strings.Fields(skill)
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}
	return strings.ToLower(strings.Join(tokens, " "))
}

type CoursesOutput struct {
	CourseDetails         map[string]string `json:"course_details"`
	CourseRecommendations string            `json:"course_recommendations"`
}

// Courses finds catalogue courses for each skill gap and has the model
// pick and format the best two.
type Courses struct {
	*Env
	Finder CourseFinder
}

type coursesState struct {
	skills          []string
	order           []string
	details         map[string]string
	recommendations string
}

func (c *Courses) graph() *graph.Graph[coursesState] {
	return graph.New[coursesState]("courses", c.Log).
		Then("fetch_courses", c.fetch).
		Then("recommend_courses", c.recommend)
}

func (c *Courses) Run(ctx context.Context, skills []string) (CoursesOutput, error) {
	state := coursesState{skills: skills, details: map[string]string{}}
	if err := c.graph().Run(ctx, &state); err != nil {
		return CoursesOutput{}, err
	}
	return CoursesOutput{CourseDetails: state.details, CourseRecommendations: state.recommendations}, nil
}

func (c *Courses) fetch(ctx context.Context, s *coursesState) error {
	for _, skill := range s.skills {
		term := SkillQuery(skill)
		courses := c.Finder.FindCourses(ctx, term)
		if courses == nil {
			courses = []scrape.Course{}
		}
		c.Log.Info("scraped courses",
			zap.String("skill", skill),
			zap.String("search_term", term),
			zap.Int("courses", len(courses)))

		text, err := c.generate(ctx, "courses",
			llm.System(coursesSystemPrompt),
			llm.User(fmt.Sprintf(coursesPrompt, term, marshalJSON(courses))),
		)
		if err != nil {
			c.Log.Warn("course selection failed, using scraped list", zap.String("skill", skill), zap.Error(err))
			text = fallbackCourses(courses)
		} else {
			text = strings.TrimSpace(text)
		}
		if _, seen := s.details[skill]; !seen {
			s.order = append(s.order, skill)
		}
		s.details[skill] = text
	}
	return nil
}

func (c *Courses) recommend(_ context.Context, s *coursesState) error {
	sections := make([]string, 0, len(s.order))
	for _, skill := range s.order {
		sections = append(sections, fmt.Sprintf("### %s\n%s", skill, s.details[skill]))
	}
	s.recommendations = strings.Join(sections, "\n\n")
	return nil
}

func fallbackCourses(courses []scrape.Course) string {
	if len(courses) > 2 {
		courses = courses[:2]
	}
	lines := make([]string, 0, len(courses))
	for _, c := range courses {
		lines = append(lines, fmt.Sprintf("- *%s*: %s  \n  %s  \n  %s", c.Platform, c.Title, c.Desc, c.URL))
	}
	return strings.Join(lines, "\n")
}
