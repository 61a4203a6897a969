package layout

import (
	"github.com/matzehuels/magnet/pkg/magnet"
)

// Layout is a solved stage: the frame and every element's block.
type Layout struct {
	FrameWidth  float64 `json:"width"`
	FrameHeight float64 `json:"height"`
	Blocks      []Block `json:"blocks"`
}

// Option configures [FromStage].
type Option func(*options)

type options struct {
	labels func(id string) string
}

// WithLabels sets a label lookup for view blocks.
func WithLabels(fn func(id string) string) Option {
	return func(o *options) { o.labels = fn }
}

// FromStage snapshots the current solution of s. Call it after a completed
// Measure/Arrange pass; before that the values are whatever the solver last
// produced.
func FromStage(s *magnet.Stage, opts ...Option) Layout {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	frame := s.Bounds()
	l := Layout{
		FrameWidth:  frame.Width,
		FrameHeight: frame.Height,
		Blocks:      make([]Block, 0, s.Len()),
	}
	for _, el := range s.Elements() {
		r := el.Bounds()
		b := Block{
			ID:     el.ID(),
			Kind:   el.Kind().String(),
			Left:   r.X,
			Top:    r.Y,
			Right:  r.Right(),
			Bottom: r.Bottom(),
		}
		if v, ok := el.(*magnet.View); ok {
			b.Margin = v.EffectiveMargin()
			b.Visibility = v.EffectiveVisibility().String()
			if o.labels != nil {
				b.Label = o.labels(b.ID)
			}
		}
		l.Blocks = append(l.Blocks, b)
	}
	return l
}

// Block returns the block with the given id.
func (l Layout) Block(id string) (Block, bool) {
	for _, b := range l.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// Views returns the view blocks that are drawn: not collapsed, not hidden.
func (l Layout) Views() []Block {
	var out []Block
	for _, b := range l.Blocks {
		if b.IsView() && !b.Collapsed() && !b.Hidden() {
			out = append(out, b)
		}
	}
	return out
}

// Guides returns guideline and barrier blocks.
func (l Layout) Guides() []Block {
	var out []Block
	for _, b := range l.Blocks {
		if !b.IsView() {
			out = append(out, b)
		}
	}
	return out
}
