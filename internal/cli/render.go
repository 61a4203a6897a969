package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/magnet/pkg/pipeline"
)

// renderFlags are the output flags shared by render, visualize and watch.
type renderFlags struct {
	formats     string
	output      string
	style       string
	margins     bool
	guides      bool
	interaction bool
	scale       float64
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&f.style, "style", pipeline.DefaultStyle, "visual style: simple (default), blueprint")
	cmd.Flags().BoolVar(&f.margins, "margins", false, "outline view margins")
	cmd.Flags().BoolVar(&f.guides, "guides", false, "draw guidelines and barriers")
	cmd.Flags().BoolVar(&f.interaction, "interaction", false, "add hover highlighting to the SVG")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
}

func (f *renderFlags) apply(opts *pipeline.Options) error {
	opts.Formats = parseFormats(f.formats)
	opts.Style = f.style
	opts.Margins = f.margins
	opts.Guides = f.guides
	opts.Interaction = f.interaction
	opts.Scale = f.scale
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	return pipeline.ValidateStyle(opts.Style)
}

// renderCommand creates the render command: scene in, artifacts out.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  sceneFlags
		render renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Solve a scene and render it to SVG, PNG, PDF or JSON",
		Long: `Solve a scene and render it.

PNG and PDF output is converted from SVG and requires rsvg-convert
(librsvg). Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Path: args[0]}
			flags.apply(&opts)
			if err := render.apply(&opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, render.output, flags.noCache)
		},
	}

	flags.register(cmd)
	render.register(cmd)
	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	var spinner *Spinner
	if slices.Contains(opts.Formats, pipeline.FormatPNG) || slices.Contains(opts.Formats, pipeline.FormatPDF) {
		spinner = newSpinnerWithContext(ctx, "Rendering "+opts.Path+"...")
		spinner.Start()
	}
	res, err := runner.Execute(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		printError("Render failed")
		return err
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: res.Artifacts,
		formats:   opts.Formats,
		input:     opts.Path,
		output:    output,
		elements:  res.Stats.ElementCount,
		views:     res.Stats.ViewCount,
		cacheHit:  res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit,
	})
}

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	suffix    string // appended to the base name, e.g. ".graph"
	elements  int
	views     int
	cacheHit  bool
}

// writeArtifacts writes one file per format. A single format with an
// explicit output is written to that exact path; otherwise output (or the
// input without its extension) is used as the base name.
func writeArtifacts(p artifactWriteParams) error {
	paths := artifactPaths(p.formats, p.input, p.output, p.suffix)
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		if err := os.WriteFile(paths[format], data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}

	printSuccess("Rendered %d file(s)", len(p.formats))
	for _, format := range p.formats {
		printFile(paths[format])
	}
	printStats(p.elements, p.views, p.cacheHit)
	return nil
}

func artifactPaths(formats []string, input, output, suffix string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := baseName(input) + suffix
	if output != "" {
		base = baseName(output)
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
