package magnet

import (
	"math"
	"testing"

	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/solver"
)

func TestStage_SideBySide(t *testing.T) {
	host := fakeHost{"A": sized(20, 40), "B": sized(40, 20)}
	s := NewStage(WithViewSource(host))

	a := NewView("A")
	a.SetMargin(Thickness{Left: 10, Top: 10})
	mustPull(t, a, PoleLeft, Pull(StageID, PoleLeft))
	mustPull(t, a, PoleTop, Pull(StageID, PoleTop))

	b := NewView("B")
	mustPull(t, b, PoleLeft, Pull("A", PoleRight))
	mustPull(t, b, PoleBottom, Pull("A", PoleBottom))

	mustAdd(t, s, a, b)
	mustLayout(t, s, 100, 100)

	tests := map[string]struct {
		view *View
		want Rect
	}{
		"A": {a, Rect{X: 10, Y: 10, Width: 20, Height: 40}},
		"B": {b, Rect{X: 30, Y: 30, Width: 40, Height: 20}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := tt.view.Bounds()
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) ||
				!approx(got.Width, tt.want.Width) || !approx(got.Height, tt.want.Height) {
				t.Errorf("Bounds() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if len(host["B"].arranged) != 1 {
		t.Fatalf("B arranged %d times, want 1", len(host["B"].arranged))
	}
	if r := host["B"].arranged[0]; !approx(r.X, 30) || !approx(r.Y, 30) {
		t.Errorf("B arranged at %+v, want origin (30, 30)", r)
	}
}

func TestStage_SoftChainSpreadsEvenly(t *testing.T) {
	host := fakeHost{"a": sized(20, 10), "b": sized(20, 10), "c": sized(20, 10)}
	s := NewStage(WithViewSource(host))
	a, b, c := NewView("a"), NewView("b"), NewView("c")
	horizontalChain(t, false, a, b, c)
	mustAdd(t, s, a, b, c)
	mustLayout(t, s, 100, 50)

	wantSpan(t, a, 10, 30)
	wantSpan(t, b, 40, 60)
	wantSpan(t, c, 70, 90)
}

func TestStage_SoftChainHeadBiasSpansChain(t *testing.T) {
	host := fakeHost{"a": sized(20, 10), "b": sized(20, 10), "c": sized(20, 10)}
	s := NewStage(WithViewSource(host))
	a, b, c := NewView("a"), NewView("b"), NewView("c")
	horizontalChain(t, false, a, b, c)
	if err := b.SetBias(Horizontal, 0); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, a, b, c)
	mustLayout(t, s, 100, 50)

	// b closes its own gap. The head splits the outer gaps against the
	// stage's right edge, and c keeps its gaps even, leaving three equal
	// gaps of 40/3.
	g := 40.0 / 3
	wantSpan(t, a, g, g+20)
	wantSpan(t, b, g+20, g+40)
	wantSpan(t, c, 2*g+40, 2*g+60)
}

func TestStage_WeightedChain(t *testing.T) {
	s := NewStage()
	a, b, c := NewView("a"), NewView("b"), NewView("c")
	a.SetWidth(Weight(3))
	b.SetWidth(Weight(1))
	c.SetWidth(Weight(1))
	horizontalChain(t, false, a, b, c)
	mustAdd(t, s, a, b, c)
	mustLayout(t, s, 100, 50)

	wantSpan(t, a, 0, 60)
	wantSpan(t, b, 60, 80)
	wantSpan(t, c, 80, 100)
}

func TestStage_PackChainIsCentered(t *testing.T) {
	host := fakeHost{"a": sized(20, 10), "b": sized(20, 10), "c": sized(20, 10)}
	s := NewStage(WithViewSource(host))
	a, b, c := NewView("a"), NewView("b"), NewView("c")
	horizontalChain(t, true, a, b, c)
	mustAdd(t, s, a, b, c)
	mustLayout(t, s, 100, 50)

	wantSpan(t, a, 20, 40)
	wantSpan(t, b, 40, 60)
	wantSpan(t, c, 60, 80)
}

func TestStage_PackChainBias(t *testing.T) {
	host := fakeHost{"a": sized(20, 10), "b": sized(20, 10)}
	s := NewStage(WithViewSource(host))
	a, b := NewView("a"), NewView("b")
	horizontalChain(t, true, a, b)
	if err := a.SetBias(Horizontal, 0.25); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, a, b)
	mustLayout(t, s, 100, 50)

	// 60px of slack, a quarter of it before the pack.
	wantSpan(t, a, 15, 35)
	wantSpan(t, b, 35, 55)
}

func TestStage_ChainMarginsCompose(t *testing.T) {
	host := fakeHost{"a": sized(20, 10), "b": sized(20, 10)}
	s := NewStage(WithViewSource(host))
	a, b := NewView("a"), NewView("b")
	a.SetMargin(Thickness{Right: 4})
	b.SetMargin(Thickness{Left: 6})
	horizontalChain(t, true, a, b)
	mustAdd(t, s, a, b)
	mustLayout(t, s, 100, 50)

	if gap := b.Bounds().X - a.Bounds().Right(); !approx(gap, 10) {
		t.Errorf("gap = %v, want 10", gap)
	}
	// Pack is 50 wide including margins, centered in 100.
	wantSpan(t, a, 25, 45)
	wantSpan(t, b, 55, 75)
}

func TestStage_BiasBetweenSoftPulls(t *testing.T) {
	tests := map[string]struct {
		bias  float64
		left  float64
		right float64
	}{
		"start":  {0, 0, 20},
		"center": {0.5, 40, 60},
		"end":    {1, 80, 100},
		"third":  {0.25, 20, 40},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewStage(WithViewSource(fakeHost{"v": sized(20, 10)}))
			v := NewView("v")
			mustPull(t, v, PoleLeft, Pull(StageID, PoleLeft))
			mustPull(t, v, PoleRight, Pull(StageID, PoleRight))
			if err := v.SetBias(Horizontal, tt.bias); err != nil {
				t.Fatal(err)
			}
			mustAdd(t, s, v)
			mustLayout(t, s, 100, 50)
			wantSpan(t, v, tt.left, tt.right)
		})
	}
}

func TestStage_StagePercentage(t *testing.T) {
	s := NewStage()
	v := NewView("v")
	v.SetWidth(Percent(25))
	v.SetHeight(Percent(50))
	mustPull(t, v, PoleLeft, Pull(StageID, PoleLeft))
	mustPull(t, v, PoleTop, Pull(StageID, PoleTop))
	mustAdd(t, s, v)
	mustLayout(t, s, 200, 80)

	b := v.Bounds()
	if !approx(b.Width, 50) || !approx(b.Height, 40) {
		t.Errorf("size = %vx%v, want 50x40", b.Width, b.Height)
	}
}

func TestStage_OtherAxisRatio(t *testing.T) {
	s := NewStage(WithViewSource(fakeHost{"v": sized(40, 10)}))
	v := NewView("v")
	v.SetHeight(Ratio(0.5))
	mustPull(t, v, PoleLeft, Pull(StageID, PoleLeft))
	mustPull(t, v, PoleTop, Pull(StageID, PoleTop))
	mustAdd(t, s, v)
	mustLayout(t, s, 200, 200)

	if h := v.Bounds().Height; !approx(h, 20) {
		t.Errorf("height = %v, want 20", h)
	}
}

func TestStage_ShrinkSettlesAtNaturalSize(t *testing.T) {
	s := NewStage(WithViewSource(fakeHost{"v": sized(30, 10)}))
	v := NewView("v")
	v.SetWidth(Auto().Shrinkable())
	mustPull(t, v, PoleLeft, Pull(StageID, PoleLeft))
	mustAdd(t, s, v)
	mustLayout(t, s, 100, 50)

	if w := v.Bounds().Width; !approx(w, 30) {
		t.Errorf("width = %v, want 30", w)
	}
}

func TestStage_RemeasuresWrappedContent(t *testing.T) {
	text := &fakeView{textWidth: 120, lineHeight: 10}
	host := fakeHost{"icon": sized(30, 10), "text": text}
	s := NewStage(WithViewSource(host))

	icon := NewView("icon")
	mustPull(t, icon, PoleLeft, Pull(StageID, PoleLeft))
	mustPull(t, icon, PoleTop, Pull(StageID, PoleTop))

	label := NewView("text")
	mustPull(t, label, PoleLeft, Pull("icon", PoleRight))
	mustPull(t, label, PoleRight, Pull(StageID, PoleRight))
	mustPull(t, label, PoleTop, Pull(StageID, PoleTop))

	mustAdd(t, s, icon, label)
	mustLayout(t, s, 80, 200)

	b := label.Bounds()
	if !approx(b.Width, 50) {
		t.Errorf("width = %v, want 50", b.Width)
	}
	if !approx(b.Height, 30) {
		t.Errorf("height = %v, want 30 (three lines)", b.Height)
	}
	if text.measures < 2 {
		t.Errorf("measures = %d, want a re-measure", text.measures)
	}
}

func TestStage_RemeasuresPercentWidth(t *testing.T) {
	text := &fakeView{textWidth: 120, lineHeight: 10}
	s := NewStage(WithViewSource(fakeHost{"text": text}))
	v := NewView("text")
	v.SetWidth(Percent(50))
	mustPull(t, v, PoleLeft, Pull(StageID, PoleLeft))
	mustPull(t, v, PoleTop, Pull(StageID, PoleTop))
	mustAdd(t, s, v)
	mustLayout(t, s, 200, 200)

	b := v.Bounds()
	if !approx(b.Width, 100) {
		t.Errorf("width = %v, want 100", b.Width)
	}
	if !approx(b.Height, 20) {
		t.Errorf("height = %v, want 20 (two lines)", b.Height)
	}
	if text.measures < 2 {
		t.Errorf("measures = %d, want a re-measure", text.measures)
	}
}

func TestStage_MeasureReportsContentExtent(t *testing.T) {
	s := NewStage(WithViewSource(fakeHost{"A": sized(20, 40)}))
	a := NewView("A")
	a.SetMargin(Thickness{Left: 10, Top: 10, Right: 5, Bottom: 5})
	mustPull(t, a, PoleLeft, Pull(StageID, PoleLeft))
	mustPull(t, a, PoleTop, Pull(StageID, PoleTop))
	mustAdd(t, s, a)

	size, err := s.Measure(math.Inf(1), math.Inf(1))
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if !approx(size.Width, 35) || !approx(size.Height, 55) {
		t.Errorf("Measure = %+v, want 35x55", size)
	}

	size, err = s.Measure(300, math.Inf(1))
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if !approx(size.Width, 300) || !approx(size.Height, 55) {
		t.Errorf("Measure = %+v, want 300x55", size)
	}
}

func TestStage_PassOrder(t *testing.T) {
	s := NewStage()
	if _, err := s.Arrange(Rect{Width: 10, Height: 10}); !errors.Is(err, errors.ErrCodePassOrder) {
		t.Fatalf("Arrange before Measure = %v, want PASS_ORDER", err)
	}

	if _, err := s.Measure(10, 10); err != nil {
		t.Fatal(err)
	}
	if s.PassState() != PassMeasured {
		t.Errorf("PassState = %s, want measured", s.PassState())
	}
	if _, err := s.Arrange(Rect{Width: 10, Height: 10}); err != nil {
		t.Fatal(err)
	}
	if s.PassState() != PassIdle {
		t.Errorf("PassState = %s, want idle", s.PassState())
	}
	if _, err := s.Arrange(Rect{Width: 10, Height: 10}); !errors.Is(err, errors.ErrCodePassOrder) {
		t.Errorf("second Arrange = %v, want PASS_ORDER", err)
	}
}

func TestStage_ArrangeOffsetsHostViews(t *testing.T) {
	host := fakeHost{"v": sized(10, 10)}
	s := NewStage(WithViewSource(host))
	v := NewView("v")
	mustPull(t, v, PoleLeft, Pull(StageID, PoleLeft))
	mustPull(t, v, PoleTop, Pull(StageID, PoleTop))
	mustAdd(t, s, v)

	if _, err := s.Measure(50, 50); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Arrange(Rect{X: 5, Y: 7, Width: 50, Height: 50}); err != nil {
		t.Fatal(err)
	}
	got := host["v"].arranged[0]
	if !approx(got.X, 5) || !approx(got.Y, 7) || !approx(got.Width, 10) {
		t.Errorf("arranged = %+v, want origin (5, 7) width 10", got)
	}
}

func TestStage_InfeasibleGroupPropagates(t *testing.T) {
	s := NewStage()
	v := NewView("v")
	mustAdd(t, s, v)
	mustLayout(t, s, 100, 100)
	before := s.ConstraintCount()

	err := v.lc.setConstraints("pin", func(*Stage) ([]*solver.Constraint, error) {
		return []*solver.Constraint{
			solver.NewConstraint(solver.Var(v.left), solver.Eq, solver.Const(5), solver.Required),
			solver.NewConstraint(solver.Var(v.left), solver.Eq, solver.Const(6), solver.Required),
		}, nil
	})
	if !errors.Is(err, errors.ErrCodeInfeasible) {
		t.Fatalf("setConstraints = %v, want INFEASIBLE", err)
	}
	if got := s.ConstraintCount(); got != before {
		t.Errorf("ConstraintCount = %d, want %d", got, before)
	}
	if _, err := s.Measure(100, 100); !errors.Is(err, errors.ErrCodeInfeasible) {
		t.Errorf("Measure = %v, want INFEASIBLE", err)
	}
}
