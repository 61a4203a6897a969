package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/magnet/pkg/layout"
	"github.com/matzehuels/magnet/pkg/scene"
)

func TestDrawASCII(t *testing.T) {
	l := layout.Layout{
		FrameWidth:  80,
		FrameHeight: 64,
		Blocks: []layout.Block{
			{ID: "a", Kind: "view", Left: 0, Top: 0, Right: 80, Bottom: 48},
			{ID: "t", Kind: "view", Left: 0, Top: 48, Right: 24, Bottom: 64},
			{ID: "g", Kind: "guideline", Left: 40, Top: 0, Right: 40, Bottom: 64},
			{ID: "h", Kind: "view", Left: 0, Top: 0, Right: 80, Bottom: 64, Visibility: "hidden"},
		},
	}

	got := drawASCII(l, 10, 4, 8, 16, "")
	want := []string{
		"+--------+",
		"|a       |",
		"+--------+",
		"###       ",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDrawASCII_TruncatesLabel(t *testing.T) {
	l := layout.Layout{Blocks: []layout.Block{
		{ID: "avatar", Kind: "view", Left: 0, Top: 0, Right: 40, Bottom: 48},
	}}
	got := drawASCII(l, 5, 3, 8, 16, "")
	if got[1] != "|ava|" {
		t.Errorf("label line = %q, want %q", got[1], "|ava|")
	}
}

func TestInspectModel(t *testing.T) {
	doc, err := scene.Parse([]byte(cardYAML), scene.FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sc, err := scene.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var m tea.Model = newInspectModel(sc)
	if v := m.View(); v != "sizing..." {
		t.Errorf("View before size = %q", v)
	}

	m, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	im := m.(inspectModel)
	if im.err != nil {
		t.Fatalf("solve: %v", im.err)
	}
	if im.layout.FrameWidth != 320 {
		t.Errorf("FrameWidth = %v, want 320", im.layout.FrameWidth)
	}
	if name, _ := im.layout.Block("name"); name.Right != 308 {
		t.Errorf("name.Right = %v, want 308", name.Right)
	}

	view := m.View()
	for _, s := range []string{"card", "avat", "avatar"} {
		if !strings.Contains(view, s) {
			t.Errorf("View missing %q:\n%s", s, view)
		}
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if im := m.(inspectModel); im.selected != 1 {
		t.Errorf("selected after tab = %d, want 1", im.selected)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if im := m.(inspectModel); im.selected != 1 {
		t.Errorf("selected after wrap = %d, want 1", im.selected)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	if im := m.(inspectModel); im.layout.FrameWidth != 640 {
		t.Errorf("FrameWidth after zoom out = %v, want 640", im.layout.FrameWidth)
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd == nil {
		t.Error("q should quit")
	}
}
