package agents

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/justsurfingit/careerkit/internal/docs"
	"github.com/justsurfingit/careerkit/internal/graph"
	"github.com/justsurfingit/careerkit/internal/llm"
)

const (
	resumeExtractPrompt = `
You are a professional resume parsing expert.

From the given resume image, carefully extract *structured information* in pure JSON format with the following schema:

{
  "name": "",
  "email": "",
  "phone": "",
  "linkedin": "",
  "github": "",
  "education": [
    {
      "degree": "",
      "institution": "",
      "year_of_graduation": "",
      "gpa_or_percentage": ""
    }
  ],
  "skills": [],
  "projects": [
    {
      "title": "",
      "description": "",
      "technologies_used": []
    }
  ],
  "experience": [
    {
      "role": "",
      "organization": "",
      "duration": "",
      "achievements": ""
    }
  ],
  "certifications": [],
  "achievements": [],
  "career_objective": ""
}

Return only valid JSON without commentary or extra text.
`

	resumeAnalysisPrompt = `
You are a career and recruitment analyst.

Using this extracted resume data (JSON):
%s

Perform a deep analytical review of the candidate's profile and generate a *professional evaluation report* covering:

1. *Overall Summary*: A brief overview of the candidate.
2. *Skillset Evaluation*: Identify technical and soft skills, their balance, and relevance to the candidate's field.
3. *Education Analysis*: Comment on academic strengths and clarity of educational trajectory.
4. *Projects & Experience*: Highlight impactful projects or internships and assess their quality and industry relevance.
5. *Career Objective Assessment*: Evaluate how well it aligns with the skills and experiences shown.
6. *Strengths & Achievements*: Identify top qualities, achievements, and standout aspects.
7. *Improvement Areas*: Suggest missing skills, certifications, or areas to enhance for employability.
8. *Recommended Career Paths*: Suggest 2-3 potential roles or domains best suited for this candidate.
9. *Final Verdict*: A concise one-paragraph professional summary.

Write this as a structured, readable analytical report in natural English with bullet points and short paragraphs.
`

	transcriptExtractPrompt = `
You are an expert academic data extractor.
From the provided transcript image, extract all the following in JSON:
{
  "name": "",
  "registration_number": "",
  "semester_year": "",
  "gpa": "",
  "total_credits": "",
  "subjects": [
    {
      "course_code": "",
      "course_name": "",
      "credits": "",
      "grade": ""
    }
  ]
}
Return only valid JSON.
`

	transcriptAnalysisPrompt = `
You are an education analyst.
Given this extracted data (JSON):
%s

Generate an analytical report including:
- GPA and overall performance summary
- Top 3 best-performing subjects
- Any area of improvement
- Observations on credit and grading trends
- Possible academic strengths
`
)

var errNoExtraction = errors.New("model returned no extracted data")

type ImageReportOutput struct {
	ExtractedData string `json:"extracted_data,omitempty"`
	Analysis      string `json:"analysis,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ImageReport reads a document image into JSON and then writes an
// analytical report about it. The model text is returned as is.
type ImageReport struct {
	*Env
	Files FileSource

	name           string
	label          string
	extractPrompt  string
	analysisPrompt string
}

func NewResume(env *Env, files FileSource) *ImageReport {
	return &ImageReport{Env: env, Files: files, name: "resume", label: "Resume",
		extractPrompt: resumeExtractPrompt, analysisPrompt: resumeAnalysisPrompt}
}

func NewTranscript(env *Env, files FileSource) *ImageReport {
	return &ImageReport{Env: env, Files: files, name: "transcript", label: "Transcript",
		extractPrompt: transcriptExtractPrompt, analysisPrompt: transcriptAnalysisPrompt}
}

type imageReportState struct {
	image     docs.Image
	extracted string
	analysis  string
}

func (r *ImageReport) graph() *graph.Graph[imageReportState] {
	return graph.New[imageReportState](r.name, r.Log).
		Then("extract", r.extract).
		Then("analyze", r.analyze)
}

// Run reports a missing file in the output document; other failures are
// returned.
func (r *ImageReport) Run(ctx context.Context, imageRef string) (ImageReportOutput, error) {
	data, err := r.Files.ReadFile(ctx, imageRef)
	if errors.Is(err, fs.ErrNotExist) {
		return ImageReportOutput{Error: fmt.Sprintf("%s file not found at '%s'", r.label, imageRef)}, nil
	}
	if err != nil {
		return ImageReportOutput{}, fmt.Errorf("read %s: %w", imageRef, err)
	}

	state := imageReportState{image: docs.SniffImage(imageRef, data)}
	if err := r.graph().Run(ctx, &state); err != nil {
		return ImageReportOutput{}, err
	}
	return ImageReportOutput{ExtractedData: state.extracted, Analysis: state.analysis}, nil
}

func (r *ImageReport) extract(ctx context.Context, s *imageReportState) error {
	text, err := r.generate(ctx, r.name, llm.UserImage(r.extractPrompt, s.image.Data, s.image.MIMEType))
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errNoExtraction
	}
	s.extracted = text
	return nil
}

func (r *ImageReport) analyze(ctx context.Context, s *imageReportState) error {
	text, err := r.generate(ctx, r.name, llm.User(fmt.Sprintf(r.analysisPrompt, s.extracted)))
	if err != nil {
		return err
	}
	s.analysis = text
	return nil
}
