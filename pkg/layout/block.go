package layout

import "github.com/matzehuels/magnet/pkg/magnet"

// Block is the solved box of a single stage element.
type Block struct {
	ID         string           `json:"id"`
	Kind       string           `json:"kind"`
	Label      string           `json:"label,omitempty"`
	Left       float64          `json:"left"`
	Top        float64          `json:"top"`
	Right      float64          `json:"right"`
	Bottom     float64          `json:"bottom"`
	Margin     magnet.Thickness `json:"margin"`
	Visibility string           `json:"visibility,omitempty"`
}

// Width returns the horizontal span of the block.
func (b Block) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the block.
func (b Block) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center point of the block.
func (b Block) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the block.
func (b Block) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Collapsed reports whether the block takes no space.
func (b Block) Collapsed() bool { return b.Visibility == magnet.Collapsed.String() }

// Hidden reports whether the block takes space but is not drawn.
func (b Block) Hidden() bool { return b.Visibility == magnet.Hidden.String() }

// IsView reports whether the block comes from a view element.
func (b Block) IsView() bool { return b.Kind == magnet.KindView.String() }

// Outer returns the block grown by its margin.
func (b Block) Outer() Block {
	o := b
	o.Left -= b.Margin.Left
	o.Top -= b.Margin.Top
	o.Right += b.Margin.Right
	o.Bottom += b.Margin.Bottom
	return o
}
