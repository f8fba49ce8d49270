package agents

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/llm"
)

const studentSchema = `{
  "studentProfile": {
    "personalInformation": {
      "name": "",
      "email": "",
      "phone": "",
      "location": "",
      "linkedin": "",
      "github": "",
      "summary": ""
    },
    "academicInformation": {
      "university": "",
      "degree": "",
      "branch": "",
      "yearOfStudy": "",
      "cgpa": "",
      "academicHistory": []
    },
    "skills": {
      "technicalSkills": [],
      "nonTechnicalSkills": [],
      "skillGaps": [],
      "skillInsights": ""
    },
    "projects": [],
    "achievements": [],
    "certifications": [],
    "personalityProfile": {
      "riasecType": "",
      "dominantTraits": [],
      "traitScores": {},
      "careerPersonalityFit": []
    },
    "githubAnalysis": {
      "username": "",
      "repositoriesAnalyzed": [],
      "languagesUsed": [],
      "contributionActivity": "",
      "githubInsights": ""
    },
    "careerRecommendations": {
      "suggestedCareerPaths": [],
      "recommendedCourses": [],
      "recommendedInternships": []
    },
    "portfolioSummary": {
      "strengths": [],
      "weaknesses": [],
      "overallEvaluation": "",
      "profileCompletenessScore": ""
    },
    "metadata": {
      "dataSources": ["Resume", "Transcript", "Certificates", "GitHub", "Personality Test"],
      "lastUpdated": "",
      "dataVersion": "v1.0"
    }
  }
}`

var profilePrompt = `You are an expert AI career and profile analysis system. You are provided with 5 datasets about a student:

1. Resume content
2. Academic transcript
3. Certificates and achievements
4. GitHub profile analysis
5. Personality assessment

Your job:
- Merge and summarize all information.
- Eliminate redundant or duplicate data.
- Output in TWO sections:
  1. "structured_profile": a detailed JSON matching this schema:
  ` + studentSchema + `
  2. "text_report": a concise human-readable summary of the student's strengths, profile, and career readiness.

Rules:
- Use exact JSON format (valid JSON).
- Fill as many fields as possible based on given input.
- If data is missing, leave values as empty strings or arrays.
- Ensure "structured_profile" and "text_report" are valid JSON keys.`

// ProfileInput holds the stored result documents of the five extractors.
// Missing ones are null.
type ProfileInput struct {
	Resume      any `json:"resume"`
	Transcript  any `json:"transcript"`
	Certificate any `json:"certificate"`
	GitHub      any `json:"github"`
	Personality any `json:"personality"`
}

type ProfileOutput struct {
	RawResponse       string `json:"rawResponse"`
	StructuredProfile any    `json:"structured_profile"`
	TextReport        string `json:"text_report"`
}

// Profile merges the five extractor results into one student profile.
type Profile struct {
	*Env
}

func (p *Profile) Run(ctx context.Context, in ProfileInput) (ProfileOutput, error) {
	msg := llm.Message{Role: llm.RoleUser, Parts: []llm.Part{
		{Text: profilePrompt},
		{Text: marshalIndent(in)},
	}}
	raw, err := p.generate(ctx, "profile", msg)
	if err != nil {
		return ProfileOutput{}, err
	}
	p.Log.Info("student profile generated", zap.Int("bytes", len(raw)))
	return ProfileOutput{
		RawResponse:       raw,
		StructuredProfile: StructuredProfile(raw),
		TextReport:        TextReport(raw),
	}, nil
}

type rawProfile struct {
	StructuredProfile any     `json:"structured_profile"`
	TextReport        *string `json:"text_report"`
}

// TextReport extracts text_report from a stored profile response. A
// response that is not JSON is returned whole; a JSON one without the key
// yields "".
func TextReport(raw string) string {
	var rp rawProfile
	if err := llm.Decode(raw, &rp); err != nil {
		return raw
	}
	if rp.TextReport == nil {
		return ""
	}
	return strings.TrimSpace(*rp.TextReport)
}

// StructuredProfile extracts structured_profile from a stored profile
// response, falling back to the whole object, or {} for non-JSON.
func StructuredProfile(raw string) any {
	obj, err := llm.ParseObject(raw)
	if err != nil {
		return map[string]any{}
	}
	if sp, ok := obj["structured_profile"]; ok && sp != nil {
		return sp
	}
	return obj
}
