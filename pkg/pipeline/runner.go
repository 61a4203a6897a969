package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnet/pkg/cache"
	"github.com/matzehuels/magnet/pkg/layout"
	"github.com/matzehuels/magnet/pkg/observability"
	"github.com/matzehuels/magnet/pkg/scene"
	"github.com/matzehuels/magnet/pkg/sink"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → solve → render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	doc, err := Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	hash, err := scene.Hash(doc)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.SceneHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ElementCount = len(doc.Elements)
	for _, el := range doc.Elements {
		if el.KindOf() == "view" {
			result.Stats.ViewCount++
		}
	}
	r.Logger.Debug("loaded scene",
		"name", doc.Name,
		"elements", result.Stats.ElementCount,
		"hash", hash[:12])

	// Stage 2: Solve
	solveStart := time.Now()
	l, sc, layoutHit, err := r.SolveWithCacheInfo(ctx, doc, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Layout = l
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.LayoutHit = layoutHit
	r.Logger.Info("solved layout",
		"blocks", len(l.Blocks),
		"size", fmt.Sprintf("%gx%g", l.FrameWidth, l.FrameHeight),
		"cached", layoutHit,
		"duration", result.Stats.SolveTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, sc, doc, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SolveWithCacheInfo returns the solved layout of doc. On a cache miss it
// also returns the built scene; on a hit the scene is nil.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, doc *scene.Document, sceneHash string, opts Options) (layout.Layout, *scene.Scene, bool, error) {
	r.applyLogger(&opts)
	key := r.Keyer.LayoutKey(sceneHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, "layout", key); ok {
			if l, err := sink.ParseJSON(data); err == nil {
				return l, nil, true, nil
			}
			// fall through and recompute unreadable entries
		}
	}

	sc, err := Build(doc, opts)
	if err != nil {
		return layout.Layout{}, nil, false, err
	}
	l, err := Solve(ctx, sc, opts)
	if err != nil {
		return layout.Layout{}, nil, false, err
	}
	if data, err := sink.RenderJSON(l); err == nil {
		r.set(ctx, "layout", key, data, cache.TTLLayout)
	}
	return l, sc, false, nil
}

// RenderWithCacheInfo renders every requested format, reusing cached
// artifacts. sc may be nil; it is rebuilt only when the pull graph has to
// be rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, sc *scene.Scene, doc *scene.Document, sceneHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	if err := ValidateStyle(opts.Style); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, hit, err := r.render(ctx, l, sc, doc, sceneHash, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, l layout.Layout, sc *scene.Scene, doc *scene.Document, sceneHash string, opts Options) (map[string][]byte, bool, error) {
	layoutData, err := sink.RenderJSON(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	keys := make(map[string]string, len(opts.Formats))
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		keyType := "artifact"
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if format == FormatDOT {
			keyType = "graph"
			key = r.Keyer.GraphKey(sceneHash, opts.GraphKeyOpts())
		}
		keys[format] = key

		if !opts.Refresh {
			if data, ok := r.get(ctx, keyType, key); ok {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(l, sceneHash, sub)
	if err != nil {
		return nil, false, err
	}
	if wantsFormat(missing, FormatDOT) {
		if sc == nil {
			if sc, err = r.rebuild(ctx, doc, opts); err != nil {
				return nil, false, err
			}
		}
		rendered[FormatDOT] = RenderGraph(sc.Stage, opts)
	}

	for format, data := range rendered {
		ttl, keyType := cache.TTLArtifact, "artifact"
		if format == FormatDOT {
			ttl, keyType = cache.TTLGraph, "graph"
		}
		r.set(ctx, keyType, keys[format], data, ttl)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// rebuild constructs the scene again after a layout cache hit. The detailed
// graph shows solved bounds, so the stage is solved in that case.
func (r *Runner) rebuild(ctx context.Context, doc *scene.Document, opts Options) (*scene.Scene, error) {
	sc, err := Build(doc, opts)
	if err != nil {
		return nil, err
	}
	if opts.Detailed {
		if _, err := Solve(ctx, sc, opts); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		return nil, false
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, ok
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
