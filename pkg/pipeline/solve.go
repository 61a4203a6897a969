package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/magnet/pkg/layout"
	"github.com/matzehuels/magnet/pkg/observability"
	"github.com/matzehuels/magnet/pkg/scene"
)

// Build constructs the scene for doc with the run's logger and policy.
func Build(doc *scene.Document, opts Options) (*scene.Scene, error) {
	buildOpts := []scene.Option{scene.WithLogger(opts.Logger)}
	if opts.Policy != "" {
		buildOpts = append(buildOpts, scene.WithPolicy(opts.Policy))
	}
	return scene.Build(doc, buildOpts...)
}

// Solve lays sc out. Zero option sizes fall back to the scene's own.
func Solve(ctx context.Context, sc *scene.Scene, opts Options) (layout.Layout, error) {
	w, h := sc.Size()
	if opts.Width > 0 {
		w = opts.Width
	}
	if opts.Height > 0 {
		h = opts.Height
	}

	hooks := observability.Pipeline()
	n := sc.Stage.Len()
	hooks.OnSolveStart(ctx, n)
	start := time.Now()
	l, err := sc.SolveAt(w, h)
	hooks.OnSolveComplete(ctx, n, time.Since(start), err)
	return l, err
}
