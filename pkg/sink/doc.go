// Package sink renders a solved [layout.Layout] into output formats.
//
// # Overview
//
// This package provides renderers for:
//
//   - SVG: boxes with labels, optional margin outlines and guide lines
//   - JSON: layout data export for external tools and caching
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// # SVG Output
//
//	svg := sink.RenderSVG(l,
//	    sink.WithStyle(sink.Blueprint{}),
//	    sink.WithMargins(),
//	    sink.WithGuides(),
//	)
//
// Collapsed and hidden views are never drawn. Hidden views still occupy
// space in the layout, which is visible when margins are shown.
//
// # SVG Options
//
//   - [WithStyle]: visual style ([Simple] or [Blueprint])
//   - [WithMargins]: outline each view's margin box
//   - [WithGuides]: draw guidelines and barriers as dashed lines
//   - [WithInteraction]: hover highlighting script
//
// # JSON Output
//
// [RenderJSON] writes the layout as pretty-printed JSON; [ParseJSON] reads it
// back, so a cached layout can be re-rendered without solving again.
package sink
