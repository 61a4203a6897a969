package magnet

import (
	"time"

	"github.com/matzehuels/magnet/pkg/errors"
)

// PassState is the position of a stage in the measure/arrange protocol.
type PassState uint8

const (
	PassIdle PassState = iota
	PassMeasuring
	PassMeasured
	PassArranging
	PassArranged
)

var passStateNames = [...]string{"idle", "measuring", "measured", "arranging", "arranged"}

// String returns the state name.
func (p PassState) String() string {
	if int(p) < len(passStateNames) {
		return passStateNames[p]
	}
	return "unknown"
}

// PassState returns the current pass state.
func (s *Stage) PassState() PassState { return s.state }

// Measure runs the measure pass: it pushes the constraints into the solver,
// measures host views, applies pending constraint groups and solves. Shrink
// spans are biased toward zero. Infinite constraints are treated as
// Unbounded.
//
// The returned size is the constraint on bounded axes and the extent of the
// content on unbounded ones.
func (s *Stage) Measure(widthConstraint, heightConstraint float64) (Size, error) {
	start := time.Now()
	size, err := s.measure(widthConstraint, heightConstraint)
	s.hooks.OnMeasure(len(s.elements), size.Width, size.Height, time.Since(start), err)
	return size, err
}

func (s *Stage) measure(wc, hc float64) (Size, error) {
	if s.busy() {
		return Size{}, errors.New(errors.ErrCodePassOrder, "measure requested while %s", s.state)
	}
	s.state = PassMeasuring
	fail := func(err error) (Size, error) {
		s.state = PassIdle
		return Size{}, err
	}

	s.available = Size{Width: wc, Height: hc}
	if err := s.suggestBounds(bound(wc), bound(hc), 0, 0); err != nil {
		return fail(err)
	}
	for _, el := range s.elements {
		if err := el.prepare(s); err != nil {
			return fail(err)
		}
	}
	n, err := s.ApplyConstraints()
	if err != nil {
		return fail(err)
	}
	s.needsLayout = false
	if err := s.solve(); err != nil {
		return fail(err)
	}

	size := Size{Width: wc, Height: hc}
	if isUnbounded(wc) {
		size.Width = s.extent(Horizontal)
	}
	if isUnbounded(hc) {
		size.Height = s.extent(Vertical)
	}
	s.measured = size
	s.state = PassMeasured
	s.logger.Debug("measured", "width", size.Width, "height", size.Height, "groups", n, "constraints", s.ConstraintCount())
	return size, nil
}

// Arrange runs the arrange pass within bounds and arranges every host view
// that is not collapsed. Shrink spans settle at their natural size. Arrange
// must directly follow Measure.
func (s *Stage) Arrange(bounds Rect) (Size, error) {
	start := time.Now()
	size, err := s.arrange(bounds)
	s.hooks.OnArrange(len(s.elements), size.Width, size.Height, time.Since(start), err)
	return size, err
}

func (s *Stage) arrange(bounds Rect) (Size, error) {
	if s.state != PassMeasured {
		return Size{}, errors.New(errors.ErrCodePassOrder, "arrange requires a completed measure pass, stage is %s", s.state)
	}
	s.state = PassArranging
	fail := func(err error) (Size, error) {
		s.state = PassIdle
		return Size{}, err
	}

	w, h := bound(bounds.Width), bound(bounds.Height)
	if err := s.suggestBounds(w, h, w, h); err != nil {
		return fail(err)
	}
	if err := s.solve(); err != nil {
		return fail(err)
	}

	// Host views are arranged in PassArranged; setters they call are
	// deferred to the next pass.
	s.state = PassArranged
	for _, el := range s.elements {
		v, ok := el.(*View)
		if !ok || v.shown == Collapsed {
			continue
		}
		if host, ok := s.lookupView(v.id); ok {
			host.Arrange(v.Bounds().Offset(bounds.X, bounds.Y))
		}
	}
	s.state = PassIdle
	s.logger.Debug("arranged", "x", bounds.X, "y", bounds.Y, "width", w, "height", h)
	return Size{Width: w, Height: h}, nil
}

// Layout measures within width and height and arranges at the measured
// size.
func (s *Stage) Layout(width, height float64) (Size, error) {
	size, err := s.Measure(width, height)
	if err != nil {
		return Size{}, err
	}
	return s.Arrange(Rect{Width: size.Width, Height: size.Height})
}

func (s *Stage) suggestBounds(w, h, shrinkW, shrinkH float64) error {
	if err := s.adapter.suggest(s.right, w); err != nil {
		return err
	}
	if err := s.adapter.suggest(s.bottom, h); err != nil {
		return err
	}
	if err := s.adapter.suggest(s.shrink[Horizontal], shrinkW); err != nil {
		return err
	}
	return s.adapter.suggest(s.shrink[Vertical], shrinkH)
}

// solve fetches the solver's results, lets every element finalize against
// them and fetches again if any element changed its inputs.
func (s *Stage) solve() error {
	if _, err := s.adapter.fetch(); err != nil {
		return err
	}
	changed := false
	for _, el := range s.elements {
		c, err := el.finalize(s)
		if err != nil {
			return err
		}
		changed = changed || c
	}
	if changed {
		if _, err := s.adapter.fetch(); err != nil {
			return err
		}
	}
	return nil
}

// extent is the far edge of the outermost non-collapsed view, margins
// included.
func (s *Stage) extent(a Axis) float64 {
	var far float64
	for _, el := range s.elements {
		v, ok := el.(*View)
		if !ok || v.shown == Collapsed {
			continue
		}
		r := v.MarginBounds()
		edge := r.Right()
		if a == Vertical {
			edge = r.Bottom()
		}
		far = max(far, edge)
	}
	return min(far, Unbounded)
}
