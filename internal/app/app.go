// Package app wires the model client, object storage, search and scrape
// clients into an agents.Suite. Shared by the API server, the CLI and the
// queue worker.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/agents"
	"github.com/justsurfingit/careerkit/internal/config"
	"github.com/justsurfingit/careerkit/internal/docs"
	"github.com/justsurfingit/careerkit/internal/llm"
	"github.com/justsurfingit/careerkit/internal/logging"
	"github.com/justsurfingit/careerkit/internal/scrape"
	"github.com/justsurfingit/careerkit/internal/search"
)

type App struct {
	Config *config.Config
	Log    *zap.Logger
	// Bucket is nil unless every R2 setting is present.
	Bucket *docs.R2
	Files  docs.Source
	Suite  *agents.Suite
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	log = logging.OrNop(log)
	model, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithModel(ctx, cfg, model, log)
}

// NewWithModel is New with a caller-supplied model client.
func NewWithModel(ctx context.Context, cfg *config.Config, model llm.Model, log *zap.Logger) (*App, error) {
	log = logging.OrNop(log)

	var bucket *docs.R2
	if cfg.R2.Enabled() {
		var err error
		bucket, err = docs.NewR2(ctx, cfg.R2)
		if err != nil {
			return nil, fmt.Errorf("r2 client: %w", err)
		}
	}

	fetcher := scrape.NewFetcher(log)
	if cfg.RenderPages {
		fetcher.Renderer = scrape.RodRenderer{}
	}

	files := docs.Source{R2: bucket}
	suite := agents.NewSuite(agents.NewEnv(model, cfg, log), agents.Deps{
		Search:  search.NewTavily(cfg.TavilyAPIKey, log),
		Serper:  search.NewSerper(cfg.SerperAPIKey),
		Pages:   fetcher,
		Courses: scrape.NewCourseFinder(fetcher),
		Files:   files,
	})
	return &App{Config: cfg, Log: log, Bucket: bucket, Files: files, Suite: suite}, nil
}
