// Package layout snapshots a solved magnet stage into plain geometry.
//
// A [Layout] is what the output sinks consume: the frame size plus one
// [Block] per stage element, in stage registration order. It carries no
// reference to the stage or the solver, so it can be cached, serialized and
// rendered after the stage is gone.
//
//	if _, err := stage.Layout(800, 600); err != nil {
//	    return err
//	}
//	l := layout.FromStage(stage, layout.WithLabels(labels))
//
// # Block Coordinates
//
// Coordinates are stage coordinates with the origin at the top-left corner
// and y growing downwards:
//
//   - Left, Right: horizontal edges (Left <= Right)
//   - Top, Bottom: vertical edges (Top <= Bottom)
//   - Width(), Height(): spans
//   - CenterX(), CenterY(): midpoints
//
// Guidelines and barriers are zero-thickness blocks spanning the frame on the
// axis they do not position.
package layout
