// Package magnet lays out a flat set of elements on a stage by translating
// their relationships into linear constraints for an incremental Cassowary
// solver.
//
// # Elements
//
// A [Stage] holds three kinds of [Element]:
//
//   - [View]: a box backed by a host view, sized by a [SizeValue] per axis
//     and positioned by up to four [PullTarget]s, one per edge.
//   - [Guideline]: a zero-thickness line at a fraction of the stage span.
//   - [Barrier]: a zero-thickness line at the outermost edge of a group.
//
// Edges are pulled toward poles of other elements or of the stage (id
// "Stage"). A default pull bounds the edge, a strong pull forces contact.
// When both edges of an axis carry default pulls, the view sits between
// the targets at its bias. Two views that pull at each other form a chain
// link; margins add up along chains, and chains whose links are all strong
// are packed together and positioned as one.
//
// # Passes
//
// Layout runs in two passes. [Stage.Measure] pushes the available size into
// the solver, measures host views, applies pending constraints and solves;
// [Stage.Arrange] solves for the final box and arranges the host views:
//
//	stage := magnet.NewStage(magnet.WithViewSource(host))
//	title := magnet.NewView("title")
//	title.SetPull(magnet.PoleLeft, magnet.Pull(magnet.StageID, magnet.PoleLeft))
//	title.SetPull(magnet.PoleRight, magnet.Pull(magnet.StageID, magnet.PoleRight))
//	_ = stage.Add(title)
//
//	size, err := stage.Measure(400, math.Inf(1))
//	if err != nil {
//	    return err
//	}
//	_, err = stage.Arrange(magnet.Rect{Width: size.Width, Height: size.Height})
//
// Configuration mistakes (duplicate ids, unknown targets, malformed size
// strings) fail with coded errors from pkg/errors; conflicting required
// constraints fail with INFEASIBLE.
package magnet
