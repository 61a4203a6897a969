package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/magnet/pkg/layout"
	"github.com/matzehuels/magnet/pkg/pipeline"
)

// layoutCommand creates the layout command for solving scenes.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   sceneFlags
		output  string
		asTable bool
	)

	cmd := &cobra.Command{
		Use:   "layout [scene]",
		Short: "Solve a scene and write its layout",
		Long: `Solve a scene and write its layout.

The layout command reads a scene (YAML, TOML or JSON), solves it at the
scene's stage size or the given --width/--height, and writes the solved
blocks as JSON (same format as 'render -f json'). The layout can be turned
into SVG/PNG/PDF with 'visualize'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Path: args[0], Formats: []string{pipeline.FormatJSON}}
			flags.apply(&opts)
			return c.runLayout(cmd.Context(), opts, output, flags.noCache, asTable)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <scene>.layout.json, - for stdout)")
	cmd.Flags().BoolVar(&asTable, "table", false, "print the solved blocks as a table instead of writing JSON")

	return cmd
}

// runLayout solves the scene and writes or prints the layout.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache, asTable bool) error {
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

	if asTable {
		fmt.Fprintln(out, layoutTable(res.Layout))
		printStats(res.Stats.ElementCount, res.Stats.ViewCount, res.CacheInfo.LayoutHit)
		return nil
	}

	data := res.Artifacts[pipeline.FormatJSON]
	if output == "-" {
		_, err := out.Write(data)
		return err
	}
	if output == "" {
		output = baseName(opts.Path) + ".layout.json"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(res.Stats.ElementCount, res.Stats.ViewCount, res.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+output)
	return nil
}

// layoutTable renders the solved blocks as a bordered table.
func layoutTable(l layout.Layout) string {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	rows := make([][]string, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		rows = append(rows, []string{b.ID, b.Kind, num(b.Left), num(b.Top), num(b.Width()), num(b.Height()), b.Visibility})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Kind", "X", "Y", "W", "H", "Visibility").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col >= 2 && col <= 5:
				return lipgloss.NewStyle().Foreground(colorWhite).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	title := StyleTitle.Render(fmt.Sprintf("Stage %s × %s",
		strconv.FormatFloat(l.FrameWidth, 'f', -1, 64),
		strconv.FormatFloat(l.FrameHeight, 'f', -1, 64)))
	return title + "\n" + t.Render()
}
