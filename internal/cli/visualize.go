package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/pipeline"
	"github.com/matzehuels/magnet/pkg/sink"
)

// visualizeCommand creates the visualize command for rendering a computed
// layout without re-solving.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		render  renderFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a computed layout",
		Long: `Render a computed layout.

The visualize command takes a layout.json file (produced by 'layout' or
'render -f json') and renders it to SVG, PNG or PDF. The layout already
contains all positions, so no scene is needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts pipeline.Options
			if err := render.apply(&opts); err != nil {
				return err
			}
			if slices.Contains(opts.Formats, pipeline.FormatDOT) {
				return errors.New(errors.ErrCodeInvalidFormat, "the pull graph needs the scene; use 'graph'")
			}
			return c.runVisualize(cmd.Context(), args[0], opts, render.output, noCache)
		},
	}

	render.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	l, err := sink.ParseJSON(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSyntax, err, "load layout %s", input)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, nil, nil, "", opts)
	if err != nil {
		return fmt.Errorf("visualize: %w", err)
	}

	views := len(l.Views())
	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		elements:  len(l.Blocks),
		views:     views,
		cacheHit:  cacheHit,
	})
}
