package sink

import (
	"github.com/matzehuels/magnet/pkg/layout"
	"github.com/matzehuels/magnet/pkg/render"
)

// RenderPDF renders the layout as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(l layout.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(l, opts...))
}

// RenderPNG renders the layout as PNG at the given scale via SVG conversion.
func RenderPNG(l layout.Layout, scale float64, opts ...SVGOption) ([]byte, error) {
	if scale <= 0 {
		scale = 2.0
	}
	return render.ToPNG(RenderSVG(l, opts...), scale)
}
