package magnet

import (
	"math"
	"strings"

	"github.com/matzehuels/magnet/pkg/errors"
)

// Unbounded replaces infinite measure constraints so the solver stays
// well-posed.
const Unbounded = 100_000

// Axis is a layout direction.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

// String returns "horizontal" or "vertical".
func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Poles returns the leading and trailing pole of the axis.
func (a Axis) Poles() (near, far Pole) {
	if a == Vertical {
		return PoleTop, PoleBottom
	}
	return PoleLeft, PoleRight
}

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == Vertical {
		return Horizontal
	}
	return Vertical
}

// Pole names an edge of an element.
type Pole uint8

const (
	PoleLeft Pole = iota
	PoleTop
	PoleRight
	PoleBottom
)

var poleNames = [...]string{"Left", "Top", "Right", "Bottom"}

// String returns the pole name as used in pull-target strings.
func (p Pole) String() string {
	if int(p) < len(poleNames) {
		return poleNames[p]
	}
	return "Pole(?)"
}

// Axis returns the axis the pole lies on.
func (p Pole) Axis() Axis {
	if p == PoleTop || p == PoleBottom {
		return Vertical
	}
	return Horizontal
}

// IsLeading reports whether p is the near edge of its axis.
func (p Pole) IsLeading() bool {
	return p == PoleLeft || p == PoleTop
}

// Opposite returns the other pole on the same axis.
func (p Pole) Opposite() Pole {
	switch p {
	case PoleLeft:
		return PoleRight
	case PoleRight:
		return PoleLeft
	case PoleTop:
		return PoleBottom
	default:
		return PoleTop
	}
}

// ParsePole parses a pole name. Start and End are accepted as aliases of
// Left and Right.
func ParsePole(s string) (Pole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start":
		return PoleLeft, nil
	case "top":
		return PoleTop, nil
	case "right", "end":
		return PoleRight, nil
	case "bottom":
		return PoleBottom, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidPole, "unknown pole %q", s)
}

// Size is a width and height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Along returns the extent on axis a.
func (s Size) Along(a Axis) float64 {
	if a == Vertical {
		return s.Height
	}
	return s.Width
}

// Rect is an axis-aligned box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns X + Width.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns Y + Height.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Offset returns r moved by dx, dy.
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

func rectFromPoles(left, top, right, bottom float64) Rect {
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Thickness is a per-edge spacing.
type Thickness struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Uniform returns a thickness with the same value on every edge.
func Uniform(v float64) Thickness {
	return Thickness{Left: v, Top: v, Right: v, Bottom: v}
}

// Edge returns the thickness on the given pole.
func (t Thickness) Edge(p Pole) float64 {
	switch p {
	case PoleLeft:
		return t.Left
	case PoleTop:
		return t.Top
	case PoleRight:
		return t.Right
	default:
		return t.Bottom
	}
}

// Along returns the summed thickness of both edges on an axis.
func (t Thickness) Along(a Axis) float64 {
	if a == Vertical {
		return t.Top + t.Bottom
	}
	return t.Left + t.Right
}

// Visibility mirrors the host view's visibility.
type Visibility uint8

const (
	Visible Visibility = iota
	// Hidden views keep their space but are not drawn.
	Hidden
	// Collapsed views take no space, use their collapsed margin and are
	// ignored by barriers.
	Collapsed
)

// String returns the lower-case visibility name.
func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Collapsed:
		return "collapsed"
	default:
		return "visible"
	}
}

// ParseVisibility parses "visible", "hidden" or "collapsed" ("gone" is an
// alias of collapsed).
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "visible":
		return Visible, nil
	case "hidden", "invisible":
		return Hidden, nil
	case "collapsed", "gone":
		return Collapsed, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidSyntax, "unknown visibility %q", s)
}

// bound maps a measure constraint onto the solver range.
func bound(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v > Unbounded {
		return Unbounded
	}
	return max(0, v)
}

func isUnbounded(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v >= Unbounded
}
