package layout

import (
	"testing"

	"github.com/matzehuels/magnet/pkg/magnet"
)

func TestBlockSpans(t *testing.T) {
	tests := []struct {
		name          string
		block         Block
		width, height float64
		cx, cy        float64
	}{
		{
			name:  "positive",
			block: Block{Left: 10, Right: 50, Top: 20, Bottom: 80},
			width: 40, height: 60, cx: 30, cy: 50,
		},
		{
			name:  "zero size",
			block: Block{Left: 10, Right: 10, Top: 5, Bottom: 5},
			width: 0, height: 0, cx: 10, cy: 5,
		},
		{
			name:  "from origin",
			block: Block{Right: 100, Bottom: 100},
			width: 100, height: 100, cx: 50, cy: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.Width(); got != tt.width {
				t.Errorf("Width() = %v, want %v", got, tt.width)
			}
			if got := tt.block.Height(); got != tt.height {
				t.Errorf("Height() = %v, want %v", got, tt.height)
			}
			if got := tt.block.CenterX(); got != tt.cx {
				t.Errorf("CenterX() = %v, want %v", got, tt.cx)
			}
			if got := tt.block.CenterY(); got != tt.cy {
				t.Errorf("CenterY() = %v, want %v", got, tt.cy)
			}
		})
	}
}

func TestBlockOuter(t *testing.T) {
	b := Block{Left: 10, Top: 10, Right: 30, Bottom: 50, Margin: magnet.Thickness{Left: 10, Top: 5, Right: 2, Bottom: 1}}
	o := b.Outer()
	if o.Left != 0 || o.Top != 5 || o.Right != 32 || o.Bottom != 51 {
		t.Errorf("Outer() = %+v", o)
	}
}
