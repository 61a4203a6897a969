// Package cli implements the magnet command-line interface.
//
// # Commands
//
//   - layout: solve a scene and write its layout as JSON
//   - render: solve a scene and render SVG, PNG, PDF or JSON
//   - visualize: render a previously computed layout.json
//   - graph: draw the pull-target graph of a scene
//   - watch: re-render a scene whenever its file changes
//   - inspect: interactive terminal viewer that re-solves on resize
//   - serve: HTTP API
//   - cache: manage the local layout cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/magnet/pkg/buildinfo"
	"github.com/matzehuels/magnet/pkg/cache"
	"github.com/matzehuels/magnet/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "magnet"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Magnet lays out scenes with pull constraints",
		Long:         `Magnet solves declarative scenes of views, guidelines and barriers whose edges are pulled toward each other, and renders the resulting layout.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/magnet/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	formats := strings.Split(s, ",")
	for i, f := range formats {
		formats[i] = strings.TrimSpace(f)
	}
	return formats
}

// sceneFlags are the layout flags shared by the scene commands.
type sceneFlags struct {
	width   float64
	height  float64
	policy  string
	noCache bool
	refresh bool
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "stage width (default: the scene's)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "stage height (default: the scene's)")
	cmd.Flags().StringVar(&f.policy, "policy", "", "missing-target policy: strict, lenient (default: the scene's)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

func (f *sceneFlags) apply(opts *pipeline.Options) {
	opts.Width = f.width
	opts.Height = f.height
	opts.Policy = f.policy
	opts.Refresh = f.refresh
}

// baseName strips the extension from a scene path.
func baseName(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input))
}
