// Package queue runs pipelines asynchronously from a RabbitMQ queue and
// publishes run status updates to a topic exchange.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/logging"
	"github.com/justsurfingit/careerkit/internal/models"
)

const (
	RunsQueue       = "agent_runs"
	UpdatesExchange = "run_updates"
)

// Job is the message body for one queued run.
type Job struct {
	ID     string          `json:"id"`
	Kind   string          `json:"kind"`
	UserID string          `json:"user_id"`
	Input  json.RawMessage `json:"input"`
}

func NewJob(run *models.Run) Job {
	job := Job{ID: run.ID, Kind: run.Kind, UserID: run.UserID}
	if run.Input != "" {
		job.Input = json.RawMessage(run.Input)
	}
	return job
}

// Update is published to run.<id> on every status change.
type Update struct {
	RunID     string    `json:"run_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Dispatcher interface {
	Dispatch(ctx context.Context, kind string, input json.RawMessage) (any, error)
}

type RunStore interface {
	MarkProcessing(id string) error
	Complete(id string, output any) error
	Fail(id string, runErr error) error
}

type Notifier interface {
	Notify(runID string, u Update) error
}

// Processor handles one queue message at a time: it runs the pipeline and
// keeps the stored run and its subscribers up to date.
type Processor struct {
	Pipelines Dispatcher
	Runs      RunStore
	Updates   Notifier
	Log       *zap.Logger
	Now       func() time.Time
}

func NewProcessor(pipelines Dispatcher, runs RunStore, updates Notifier, log *zap.Logger) *Processor {
	return &Processor{Pipelines: pipelines, Runs: runs, Updates: updates, Log: logging.OrNop(log), Now: time.Now}
}

// Handle returns the run error after it has been recorded.
func (p *Processor) Handle(ctx context.Context, body []byte) error {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		p.Log.Warn("error unmarshalling message body", zap.Error(err))
		if job.ID != "" {
			p.fail(job.ID, err)
		}
		return fmt.Errorf("decode job: %w", err)
	}
	p.Log.Info("processing run", zap.String("run_id", job.ID), zap.String("kind", job.Kind))

	if err := p.Runs.MarkProcessing(job.ID); err != nil {
		p.Log.Warn("failed to mark run processing", zap.String("run_id", job.ID), zap.Error(err))
	}
	p.notify(job.ID, models.RunProcessing, "run started")

	out, err := p.Pipelines.Dispatch(ctx, job.Kind, job.Input)
	if err != nil && ctx.Err() != nil {
		// Left in processing; the broker requeues it.
		p.Log.Info("run interrupted", zap.String("run_id", job.ID))
		return fmt.Errorf("run %s interrupted: %w", job.ID, ctx.Err())
	}
	if err != nil {
		p.Log.Warn("run failed", zap.String("run_id", job.ID), zap.Error(err))
		p.fail(job.ID, err)
		return err
	}

	if err := p.Runs.Complete(job.ID, out); err != nil {
		p.Log.Warn("failed to store run output", zap.String("run_id", job.ID), zap.Error(err))
		p.fail(job.ID, err)
		return err
	}
	p.notify(job.ID, models.RunCompleted, "run completed")
	return nil
}

func (p *Processor) fail(id string, runErr error) {
	if err := p.Runs.Fail(id, runErr); err != nil {
		p.Log.Warn("failed to mark run failed", zap.String("run_id", id), zap.Error(err))
	}
	p.notify(id, models.RunFailed, "run failed")
}

func (p *Processor) notify(id, status, message string) {
	if p.Updates == nil {
		return
	}
	u := Update{RunID: id, Status: status, Message: message, Timestamp: p.Now()}
	if err := p.Updates.Notify(id, u); err != nil {
		p.Log.Warn("failed to publish update", zap.String("run_id", id), zap.Error(err))
	}
}
