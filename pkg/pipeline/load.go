package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/magnet/pkg/observability"
	"github.com/matzehuels/magnet/pkg/scene"
)

// Load reads the scene named by opts, or returns opts.Document.
func Load(ctx context.Context, opts Options) (*scene.Document, error) {
	if opts.Document != nil {
		return opts.Document, nil
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.Path)), ".")
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, format)
	start := time.Now()

	doc, err := scene.Load(opts.Path)

	count := 0
	if doc != nil {
		count = len(doc.Elements)
	}
	hooks.OnLoadComplete(ctx, format, count, time.Since(start), err)
	return doc, err
}
