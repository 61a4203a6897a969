package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/magnet/pkg/magnet"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func solvedStage(t *testing.T) *magnet.Stage {
	t.Helper()
	s := magnet.NewStage()

	header := magnet.NewView("header")
	header.SetWidth(magnet.Percent(50))
	header.SetHeight(magnet.Percent(20))
	header.SetMargin(magnet.Thickness{Left: 4})
	for _, p := range []magnet.Pole{magnet.PoleLeft, magnet.PoleTop} {
		if err := header.SetPull(p, magnet.Pull(magnet.StageID, p)); err != nil {
			t.Fatalf("SetPull: %v", err)
		}
	}

	gone := magnet.NewView("gone")
	gone.SetVisibility(magnet.Collapsed)

	mid, err := magnet.NewGuideline("mid", magnet.Horizontal, 0.5, 0)
	if err != nil {
		t.Fatalf("NewGuideline: %v", err)
	}

	if err := s.Add(header, gone, mid); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Layout(200, 100); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return s
}

func TestFromStage(t *testing.T) {
	l := FromStage(solvedStage(t), WithLabels(func(id string) string { return "label:" + id }))

	if !approx(l.FrameWidth, 200) || !approx(l.FrameHeight, 100) {
		t.Fatalf("frame = %vx%v, want 200x100", l.FrameWidth, l.FrameHeight)
	}
	if len(l.Blocks) != 3 {
		t.Fatalf("len(Blocks) = %d, want 3", len(l.Blocks))
	}
	for i, id := range []string{"header", "gone", "mid"} {
		if l.Blocks[i].ID != id {
			t.Errorf("Blocks[%d].ID = %q, want %q", i, l.Blocks[i].ID, id)
		}
	}

	header, ok := l.Block("header")
	if !ok {
		t.Fatal("header block missing")
	}
	if !approx(header.Left, 4) || !approx(header.Width(), 100) || !approx(header.Height(), 20) {
		t.Errorf("header = %+v, want left 4, 100x20", header)
	}
	if header.Label != "label:header" {
		t.Errorf("Label = %q", header.Label)
	}
	if header.Kind != "view" || header.Visibility != "visible" {
		t.Errorf("Kind, Visibility = %q, %q", header.Kind, header.Visibility)
	}

	mid, _ := l.Block("mid")
	if mid.Kind != "guideline" || !approx(mid.Left, 100) || !approx(mid.Height(), 100) {
		t.Errorf("mid = %+v, want guideline at x=100 spanning the frame", mid)
	}
	if mid.Label != "" {
		t.Errorf("guideline label = %q, want empty", mid.Label)
	}
}

func TestLayoutFilters(t *testing.T) {
	l := FromStage(solvedStage(t))

	views := l.Views()
	if len(views) != 1 || views[0].ID != "header" {
		t.Errorf("Views() = %+v, want only header", views)
	}
	guides := l.Guides()
	if len(guides) != 1 || guides[0].ID != "mid" {
		t.Errorf("Guides() = %+v, want only mid", guides)
	}
	if _, ok := l.Block("missing"); ok {
		t.Error("Block(missing) found")
	}
}
