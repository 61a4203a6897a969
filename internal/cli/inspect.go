package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/magnet/pkg/layout"
	"github.com/matzehuels/magnet/pkg/pipeline"
	"github.com/matzehuels/magnet/pkg/scene"
)

// Terminal cells are roughly twice as tall as wide.
const (
	defaultCellWidth  = 8.0
	defaultCellHeight = 16.0
)

// inspectCommand creates the interactive viewer.
func (c *CLI) inspectCommand() *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "inspect [scene]",
		Short: "Explore a scene interactively in the terminal",
		Long: `Explore a scene interactively in the terminal.

The stage is sized to the terminal and solved again whenever the window is
resized, which makes it easy to see how pulls, weights and percentages
respond to the available space.

Keys: tab/j next view, shift+tab/k previous, +/- zoom, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			sc, err := pipeline.Build(doc, pipeline.Options{Policy: policy, Logger: c.Logger})
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(newInspectModel(sc), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&policy, "policy", "", "missing-target policy: strict, lenient (default: the scene's)")
	return cmd
}

var (
	inspectBoxStyle      = lipgloss.NewStyle().Foreground(colorGray)
	inspectSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	inspectErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// inspectModel is the bubbletea model of the viewer.
type inspectModel struct {
	scene    *scene.Scene
	cellW    float64
	cellH    float64
	width    int
	height   int
	layout   layout.Layout
	err      error
	selected int
}

func newInspectModel(sc *scene.Scene) inspectModel {
	return inspectModel{scene: sc, cellW: defaultCellWidth, cellH: defaultCellHeight}
}

func (m inspectModel) Init() tea.Cmd { return nil }

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "j", "down":
			if n := len(m.layout.Views()); n > 0 {
				m.selected = (m.selected + 1) % n
			}
		case "shift+tab", "k", "up":
			if n := len(m.layout.Views()); n > 0 {
				m.selected = (m.selected - 1 + n) % n
			}
		case "+", "=":
			if m.cellW > 1 {
				m.cellW /= 2
				m.cellH /= 2
				m.solve()
			}
		case "-":
			m.cellW *= 2
			m.cellH *= 2
			m.solve()
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.solve()
	}
	return m, nil
}

// canvasRows leaves room for the header and the two footer lines.
func (m inspectModel) canvasRows() int { return max(m.height-3, 1) }

func (m *inspectModel) solve() {
	if m.width <= 0 {
		return
	}
	w := float64(m.width) * m.cellW
	h := float64(m.canvasRows()) * m.cellH
	m.layout, m.err = m.scene.SolveAt(w, h)
	if n := len(m.layout.Views()); m.selected >= n {
		m.selected = 0
	}
}

func (m inspectModel) View() string {
	if m.width <= 0 {
		return "sizing..."
	}
	var b strings.Builder

	name := m.scene.Doc.Name
	if name == "" {
		name = "scene"
	}
	b.WriteString(StyleTitle.Render(name))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %g×%g px  1 cell = %g×%g px",
		m.layout.FrameWidth, m.layout.FrameHeight, m.cellW, m.cellH)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(inspectErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	views := m.layout.Views()
	var current string
	if len(views) > 0 {
		current = views[m.selected].ID
	}
	for _, line := range drawASCII(m.layout, m.width, m.canvasRows(), m.cellW, m.cellH, current) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(views) > 0 {
		v := views[m.selected]
		b.WriteString(inspectSelectedStyle.Render(v.ID))
		b.WriteString(StyleDim.Render(fmt.Sprintf("  x %g  y %g  w %g  h %g",
			v.Left, v.Top, v.Width(), v.Height())))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab next · +/- zoom · q quit"))
	return b.String()
}

// drawASCII draws the visible views as boxes on a cols×rows character grid.
// The selected view is highlighted.
func drawASCII(l layout.Layout, cols, rows int, cellW, cellH float64, selected string) []string {
	grid := make([][]rune, rows)
	owner := make([][]string, rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cols))
		owner[y] = make([]string, cols)
	}
	set := func(x, y int, r rune, id string) {
		if x >= 0 && x < cols && y >= 0 && y < rows {
			grid[y][x] = r
			owner[y][x] = id
		}
	}

	for _, v := range l.Views() {
		if v.Hidden() {
			continue
		}
		x0 := int(math.Round(v.Left / cellW))
		x1 := int(math.Round(v.Right/cellW)) - 1
		y0 := int(math.Round(v.Top / cellH))
		y1 := int(math.Round(v.Bottom/cellH)) - 1
		if x1 < x0 || y1 < y0 {
			continue
		}
		if x1 == x0 || y1 == y0 {
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					set(x, y, '#', v.ID)
				}
			}
			continue
		}
		for x := x0 + 1; x < x1; x++ {
			set(x, y0, '-', v.ID)
			set(x, y1, '-', v.ID)
		}
		for y := y0 + 1; y < y1; y++ {
			set(x0, y, '|', v.ID)
			set(x1, y, '|', v.ID)
			for x := x0 + 1; x < x1; x++ {
				set(x, y, ' ', v.ID)
			}
		}
		for _, p := range [][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
			set(p[0], p[1], '+', v.ID)
		}
		if y1-y0 >= 2 {
			label := []rune(v.ID)
			if inner := x1 - x0 - 1; len(label) > inner {
				label = label[:inner]
			}
			for i, r := range label {
				set(x0+1+i, y0+1, r, v.ID)
			}
		}
	}

	lines := make([]string, rows)
	for y := range grid {
		if selected == "" {
			lines[y] = string(grid[y])
			continue
		}
		var b strings.Builder
		for x, r := range grid[y] {
			style := inspectBoxStyle
			if owner[y][x] == selected {
				style = inspectSelectedStyle
			}
			if r == ' ' {
				b.WriteRune(r)
				continue
			}
			b.WriteString(style.Render(string(r)))
		}
		lines[y] = b.String()
	}
	return lines
}
