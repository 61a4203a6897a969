package magnet

import (
	"math"
	"testing"
)

// fakeView is a host view with a fixed size, or wrapping text when
// textWidth is set.
type fakeView struct {
	size       Size
	textWidth  float64
	lineHeight float64
	vis        Visibility
	onArrange  func()

	measures int
	arranged []Rect
}

func (f *fakeView) Measure(w, h float64) Size {
	f.measures++
	if f.textWidth == 0 {
		return f.size
	}
	width := math.Min(f.textWidth, w)
	lines := math.Ceil(f.textWidth / width)
	return Size{Width: width, Height: lines * f.lineHeight}
}

func (f *fakeView) Visibility() Visibility { return f.vis }

func (f *fakeView) Arrange(r Rect) Size {
	f.arranged = append(f.arranged, r)
	if f.onArrange != nil {
		f.onArrange()
	}
	return Size{Width: r.Width, Height: r.Height}
}

type fakeHost map[string]*fakeView

func (h fakeHost) LookupView(id string) (HostView, bool) {
	v, ok := h[id]
	if !ok {
		return nil, false
	}
	return v, true
}

func sized(w, h float64) *fakeView { return &fakeView{size: Size{Width: w, Height: h}} }

const tolerance = 1e-6

func approx(a, b float64) bool { return math.Abs(a-b) < tolerance }

func mustPull(t *testing.T, v *View, edge Pole, target PullTarget) {
	t.Helper()
	if err := v.SetPull(edge, target); err != nil {
		t.Fatalf("SetPull(%s, %s): %v", edge, target, err)
	}
}

func mustAdd(t *testing.T, s *Stage, els ...Element) {
	t.Helper()
	if err := s.Add(els...); err != nil {
		t.Fatalf("Add: %v", err)
	}
}

func mustLayout(t *testing.T, s *Stage, w, h float64) {
	t.Helper()
	size, err := s.Measure(w, h)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if _, err := s.Arrange(Rect{Width: size.Width, Height: size.Height}); err != nil {
		t.Fatalf("Arrange: %v", err)
	}
}

func wantSpan(t *testing.T, v *View, left, right float64) {
	t.Helper()
	b := v.Bounds()
	if !approx(b.X, left) || !approx(b.Right(), right) {
		t.Errorf("%s = (%v, %v), want (%v, %v)", v.ID(), b.X, b.Right(), left, right)
	}
}

// horizontalChain links views left to right between the stage edges.
func horizontalChain(t *testing.T, strong bool, views ...*View) {
	t.Helper()
	link := func(p PullTarget) PullTarget {
		if strong {
			return p.Strong()
		}
		return p
	}
	for i, v := range views {
		if i == 0 {
			mustPull(t, v, PoleLeft, Pull(StageID, PoleLeft))
		} else {
			mustPull(t, v, PoleLeft, link(Pull(views[i-1].ID(), PoleRight)))
		}
		if i == len(views)-1 {
			mustPull(t, v, PoleRight, Pull(StageID, PoleRight))
		} else {
			mustPull(t, v, PoleRight, link(Pull(views[i+1].ID(), PoleLeft)))
		}
	}
}
