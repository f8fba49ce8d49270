// Package graph runs a pipeline as an ordered list of stages over a shared
// state value. A stage is one node, or several nodes that run concurrently
// and are joined before the next stage starts.
package graph

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/justsurfingit/careerkit/internal/logging"
)

// NodeFunc updates the state. Nodes in the same parallel stage must write
// disjoint fields.
type NodeFunc[S any] func(ctx context.Context, state *S) error

type Node[S any] struct {
	Name string
	Run  NodeFunc[S]
}

type Graph[S any] struct {
	name   string
	stages [][]Node[S]
	log    *zap.Logger
}

func New[S any](name string, log *zap.Logger) *Graph[S] {
	return &Graph[S]{name: name, log: logging.OrNop(log)}
}

// Then appends a sequential node.
func (g *Graph[S]) Then(name string, fn NodeFunc[S]) *Graph[S] {
	g.stages = append(g.stages, []Node[S]{{Name: name, Run: fn}})
	return g
}

// Parallel appends a fan-out stage; the next stage waits for all of them.
func (g *Graph[S]) Parallel(nodes ...Node[S]) *Graph[S] {
	if len(nodes) > 0 {
		g.stages = append(g.stages, nodes)
	}
	return g
}

// Nodes lists node names in execution order.
func (g *Graph[S]) Nodes() []string {
	var names []string
	for _, stage := range g.stages {
		for _, n := range stage {
			names = append(names, n.Name)
		}
	}
	return names
}

// Run executes every stage against state. The first node error stops the
// run and is returned wrapped with the node name.
func (g *Graph[S]) Run(ctx context.Context, state *S) error {
	for _, stage := range g.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(stage) == 1 {
			if err := g.runNode(ctx, stage[0], state); err != nil {
				return err
			}
			continue
		}

		eg, egCtx := errgroup.WithContext(ctx)
		for _, n := range stage {
			eg.Go(func() error {
				return g.runNode(egCtx, n, state)
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph[S]) runNode(ctx context.Context, n Node[S], state *S) error {
	start := time.Now()
	g.log.Debug("step started", zap.String("pipeline", g.name), zap.String("step", n.Name))
	if err := n.Run(ctx, state); err != nil {
		g.log.Warn("step failed",
			zap.String("pipeline", g.name),
			zap.String("step", n.Name),
			zap.Error(err))
		return fmt.Errorf("%s: %w", n.Name, err)
	}
	g.log.Debug("step finished",
		zap.String("pipeline", g.name),
		zap.String("step", n.Name),
		zap.Duration("took", time.Since(start)))
	return nil
}
