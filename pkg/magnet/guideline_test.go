package magnet

import (
	"testing"

	"github.com/matzehuels/magnet/pkg/errors"
)

func TestGuideline_Position(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		delta    float64
		want     float64
	}{
		{"half plus delta", 0.5, 5, 105},
		{"fifth minus delta", 0.2, -5, 35},
		{"start", 0, 0, 0},
		{"start with delta", 0, 12, 12},
		{"end", 1, 0, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStage()
			g, err := NewGuideline("g", Vertical, tt.fraction, tt.delta)
			if err != nil {
				t.Fatal(err)
			}
			mustAdd(t, s, g)
			mustLayout(t, s, 100, 200)

			top, _ := g.pole(PoleTop)
			bottom, _ := g.pole(PoleBottom)
			if !approx(top.Value(), tt.want) || !approx(bottom.Value(), tt.want) {
				t.Errorf("Top, Bottom = %v, %v, want %v", top.Value(), bottom.Value(), tt.want)
			}
		})
	}
}

func TestGuideline_WrongAxisPole(t *testing.T) {
	g, err := NewGuideline("g", Horizontal, 0.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.pole(PoleTop); !errors.Is(err, errors.ErrCodeInvalidPole) {
		t.Errorf("pole(Top) = %v, want INVALID_POLE", err)
	}
	if _, err := NewGuideline("h", Horizontal, 1.5, 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NewGuideline(1.5) = %v, want INVALID_INPUT", err)
	}
}

func TestGuideline_AnchorsViews(t *testing.T) {
	s := NewStage(WithViewSource(fakeHost{"v": sized(10, 10)}))
	g, err := NewGuideline("mid", Horizontal, 0.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	v := NewView("v")
	mustPull(t, v, PoleLeft, Pull("mid", PoleRight))
	mustAdd(t, s, v, g)
	mustLayout(t, s, 300, 100)
	wantSpan(t, v, 150, 160)

	if err := g.SetFraction(0.25); err != nil {
		t.Fatal(err)
	}
	mustLayout(t, s, 300, 100)
	wantSpan(t, v, 75, 85)
}

func TestBarrier_TracksOutermostMember(t *testing.T) {
	host := fakeHost{"a": sized(20, 10), "b": sized(50, 10), "c": sized(10, 10)}
	s := NewStage(WithViewSource(host))

	a, b, c := NewView("a"), NewView("b"), NewView("c")
	mustPull(t, a, PoleLeft, Pull(StageID, PoleLeft))
	mustPull(t, b, PoleLeft, Pull(StageID, PoleLeft))
	mustPull(t, c, PoleLeft, Pull("bar", PoleRight))
	bar := NewBarrier("bar", PoleRight, "a", "b")
	if err := bar.SetMargin(5); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, a, b, c, bar)
	mustLayout(t, s, 200, 100)

	if !approx(bar.Position(), 55) {
		t.Errorf("barrier = %v, want 55", bar.Position())
	}
	wantSpan(t, c, 55, 65)

	host["b"].vis = Collapsed
	mustLayout(t, s, 200, 100)
	if !approx(bar.Position(), 25) {
		t.Errorf("barrier with b collapsed = %v, want 25", bar.Position())
	}
	wantSpan(t, c, 25, 35)
}

func TestBarrier_LeadingSide(t *testing.T) {
	host := fakeHost{"a": sized(20, 10), "b": sized(30, 10)}
	s := NewStage(WithViewSource(host))
	a, b := NewView("a"), NewView("b")
	mustPull(t, a, PoleRight, Pull(StageID, PoleRight))
	mustPull(t, b, PoleRight, Pull(StageID, PoleRight))
	bar := NewBarrier("bar", PoleLeft, "a", "b")
	mustAdd(t, s, a, b, bar)
	mustLayout(t, s, 100, 100)

	if !approx(bar.Position(), 70) {
		t.Errorf("barrier = %v, want 70", bar.Position())
	}
}

func TestBarrier_UnknownMember(t *testing.T) {
	s := NewStage(WithViewSource(fakeHost{"ghost": sized(10, 10)}))
	mustAdd(t, s, NewBarrier("bar", PoleBottom, "ghost"))
	if _, err := s.Measure(100, 100); !errors.Is(err, errors.ErrCodeUndefinedTarget) {
		t.Errorf("Measure = %v, want UNDEFINED_TARGET", err)
	}

	// Without a host view the member is skipped.
	s = NewStage(WithViewSource(fakeHost{}))
	bar := NewBarrier("bar", PoleBottom, "ghost")
	mustAdd(t, s, bar)
	mustLayout(t, s, 100, 100)
	if !approx(bar.Position(), 0) {
		t.Errorf("barrier = %v, want 0", bar.Position())
	}
}

func TestStage_ConstraintChangesNeedLayout(t *testing.T) {
	s := NewStage(WithViewSource(fakeHost{"v": sized(10, 10)}))
	g, err := NewGuideline("mid", Horizontal, 0.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	v := NewView("v")
	mustPull(t, v, PoleLeft, Pull(StageID, PoleLeft))
	bar := NewBarrier("bar", PoleRight, "v")
	mustAdd(t, s, v, g, bar)

	tests := []struct {
		name   string
		change func() error
	}{
		{"guideline fraction", func() error { return g.SetFraction(0.25) }},
		{"guideline delta", func() error { return g.SetDelta(4) }},
		{"barrier margin", func() error { return bar.SetMargin(4) }},
		{"barrier members", func() error { return bar.SetMembers() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustLayout(t, s, 300, 100)
			if s.NeedsLayout() {
				t.Fatal("NeedsLayout after a full pass")
			}
			if err := tt.change(); err != nil {
				t.Fatal(err)
			}
			if !s.NeedsLayout() {
				t.Error("change did not request a layout")
			}
		})
	}
}

func TestStage_SetterDuringArrangeIsDeferred(t *testing.T) {
	host := fakeHost{"v": sized(10, 10)}
	s := NewStage(WithViewSource(host))
	g, err := NewGuideline("mid", Horizontal, 0.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	v := NewView("v")
	mustPull(t, v, PoleLeft, Pull("mid", PoleRight))
	mustAdd(t, s, v, g)

	host["v"].onArrange = func() {
		host["v"].onArrange = nil
		if s.PassState() != PassArranged {
			t.Errorf("PassState during host arrange = %s, want arranged", s.PassState())
		}
		if err := g.SetFraction(0.25); err != nil {
			t.Errorf("SetFraction: %v", err)
		}
	}
	mustLayout(t, s, 300, 100)

	if !g.lc.groups[groupGuide].pending {
		t.Error("guideline recomputed inside the pass")
	}
	if !s.NeedsLayout() {
		t.Error("deferred change did not request a layout")
	}
	wantSpan(t, v, 150, 160)

	mustLayout(t, s, 300, 100)
	wantSpan(t, v, 75, 85)
}
