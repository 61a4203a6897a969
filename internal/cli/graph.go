package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/pipeline"
	"github.com/matzehuels/magnet/pkg/render/dot"
)

// graphCommand creates the graph command that draws which edges pull on
// which.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags      sceneFlags
		formatsStr string
		output     string
		detailed   bool
		horizontal bool
	)

	cmd := &cobra.Command{
		Use:   "graph [scene]",
		Short: "Draw the pull-target graph of a scene",
		Long: `Draw the pull-target graph of a scene.

Every element is a node; every pull is an edge from the pulled element to
its target, labelled with the edges involved. Strong pulls are drawn bold.
Output is Graphviz DOT source or SVG/PNG/PDF rendered with Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := []string{pipeline.FormatDOT}
			if formatsStr != "" {
				formats = parseFormats(formatsStr)
			}
			for _, f := range formats {
				switch f {
				case pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF:
				default:
					return errors.New(errors.ErrCodeInvalidFormat, "invalid graph format: %q (must be one of: dot, svg, png, pdf)", f)
				}
			}
			opts := pipeline.Options{
				Path:       args[0],
				Formats:    []string{pipeline.FormatDOT},
				Detailed:   detailed,
				Horizontal: horizontal,
			}
			flags.apply(&opts)
			return c.runGraph(cmd.Context(), opts, formats, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dot (default), svg, png, pdf (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with solved bounds and sizes")
	cmd.Flags().BoolVar(&horizontal, "horizontal", false, "lay the graph out left to right")
	return cmd
}

func (c *CLI) runGraph(ctx context.Context, opts pipeline.Options, formats []string, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	src := string(res.Artifacts[pipeline.FormatDOT])

	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		var data []byte
		switch f {
		case pipeline.FormatDOT:
			data = []byte(src)
		case pipeline.FormatSVG:
			data, err = dot.RenderSVG(src)
		case pipeline.FormatPNG:
			data, err = dot.RenderPNG(src, pipeline.DefaultScale)
		case pipeline.FormatPDF:
			data, err = dot.RenderPDF(src)
		}
		if err != nil {
			return fmt.Errorf("render graph %s: %w", f, err)
		}
		artifacts[f] = data
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   formats,
		input:     opts.Path,
		output:    output,
		suffix:    ".graph",
		elements:  res.Stats.ElementCount,
		views:     res.Stats.ViewCount,
		cacheHit:  res.CacheInfo.RenderHit,
	})
}
