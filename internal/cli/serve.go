package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/magnet/internal/server"
	"github.com/matzehuels/magnet/pkg/cache"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr      string
	redisURL  string
	mongoURI  string
	keyPrefix string
	noCache   bool
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Endpoints:
  POST /v1/layout           solve a scene, respond with layout JSON
  POST /v1/render/{format}  solve and render (svg, png, pdf, json)
  POST /v1/graph/{format}   pull graph (dot, svg, png, pdf)
  GET  /metrics             prometheus metrics
  GET  /healthz             liveness

Results are cached in the local cache directory by default, or in Redis
(--redis) or MongoDB (--mongo) when several instances share a cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for a shared cache (redis://host:6379/0)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for a shared cache (mongodb://host:27017)")
	cmd.Flags().StringVar(&opts.keyPrefix, "key-prefix", "", "namespace prefix for cache keys")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.MarkFlagsMutuallyExclusive("redis", "mongo", "no-cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cc, err := serveCache(ctx, opts)
	if err != nil {
		return err
	}

	var keyer cache.Keyer
	if opts.keyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, opts.keyPrefix)
	}

	srv := server.New(server.Config{Cache: cc, Keyer: keyer, Logger: c.Logger})
	defer srv.Close()
	return srv.ListenAndServe(ctx, opts.addr)
}

// serveCache opens the cache backend selected by the flags.
func serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	switch {
	case opts.redisURL != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: opts.redisURL, Prefix: appName + ":"})
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, nil
	case opts.mongoURI != "":
		mc, err := cache.NewMongoCache(ctx, cache.MongoConfig{URI: opts.mongoURI})
		if err != nil {
			return nil, fmt.Errorf("open mongo cache: %w", err)
		}
		return mc, nil
	}
	return newCache(opts.noCache)
}
