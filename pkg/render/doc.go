// Package render converts rendered SVG into other formats.
//
// The [ToPDF] and [ToPNG] functions shell out to rsvg-convert (from librsvg).
// They are used by the layout sinks and by the pull-graph renderer in the
// [dot] subpackage.
//
//	svg := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// [dot]: github.com/matzehuels/magnet/pkg/render/dot
package render
