// Package agents implements the career-analysis pipelines. Each pipeline is
// a short graph of model calls, searches and scrapes over a private state
// struct, and returns a JSON-tagged output document.
package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/config"
	"github.com/justsurfingit/careerkit/internal/llm"
	"github.com/justsurfingit/careerkit/internal/logging"
	"github.com/justsurfingit/careerkit/internal/scrape"
	"github.com/justsurfingit/careerkit/internal/search"
)

type Searcher interface {
	Search(ctx context.Context, query string, opts search.Options) []search.Result
}

type RawSearcher interface {
	SearchRaw(ctx context.Context, query string) string
}

type PageFetcher interface {
	PageText(ctx context.Context, url string) (string, error)
}

type CourseFinder interface {
	FindCourses(ctx context.Context, query string) []scrape.Course
}

// FileSource reads document references (local paths or bucket keys).
type FileSource interface {
	ReadFile(ctx context.Context, ref string) ([]byte, error)
	Text(ctx context.Context, ref string) (string, error)
}

// Env is shared by every pipeline.
type Env struct {
	Model  llm.Model
	Config *config.Config
	Log    *zap.Logger
}

func NewEnv(model llm.Model, cfg *config.Config, log *zap.Logger) *Env {
	return &Env{Model: model, Config: cfg, Log: logging.OrNop(log)}
}

func (e *Env) request(step string, msgs ...llm.Message) llm.Request {
	return llm.NewRequest(e.Config.Agent(step), msgs...)
}

// generate runs one model call with the settings of step.
func (e *Env) generate(ctx context.Context, step string, msgs ...llm.Message) (string, error) {
	return e.Model.Generate(ctx, e.request(step, msgs...))
}

// Deps are the outside-world clients. Any of them may be nil when the
// pipelines that need them are not used.
type Deps struct {
	Search  Searcher
	Serper  RawSearcher
	Pages   PageFetcher
	Courses CourseFinder
	Files   FileSource
}

// Suite wires every pipeline to one Env.
type Suite struct {
	Certificate  *Certificate
	GitHub       *GitHub
	CareerRoles  *CareerRoles
	JobDemand    *JobDemand
	Personality  *Personality
	Courses      *Courses
	Portfolio    *Portfolio
	Resume       *ImageReport
	Transcript   *ImageReport
	SkillPathway *SkillPathway
	Profile      *Profile
	CoursePlan   *CoursePlan
}

func NewSuite(env *Env, deps Deps) *Suite {
	return &Suite{
		Certificate:  &Certificate{Env: env, Search: deps.Search, Files: deps.Files},
		GitHub:       &GitHub{Env: env, Pages: deps.Pages},
		CareerRoles:  &CareerRoles{Env: env},
		JobDemand:    &JobDemand{Env: env, Serper: deps.Serper},
		Personality:  &Personality{Env: env},
		Courses:      &Courses{Env: env, Finder: deps.Courses},
		Portfolio:    &Portfolio{Env: env},
		Resume:       NewResume(env, deps.Files),
		Transcript:   NewTranscript(env, deps.Files),
		SkillPathway: &SkillPathway{Env: env},
		Profile:      &Profile{Env: env},
		CoursePlan:   &CoursePlan{Env: env},
	}
}

// stepCause drops the step-name prefix the graph adds to node errors.
func stepCause(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}

// marshalJSON renders v the way prompts embed JSON: no HTML escaping, no
// trailing newline.
func marshalJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

func marshalIndent(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
