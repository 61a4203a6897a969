// Package dot draws the pull-target graph of a stage with Graphviz.
//
// Every element is a node; every pull is an edge from the pulling view to
// its target, labelled with the two poles. Strong pulls are bold. Barriers
// get dotted edges to their members and guidelines a dashed edge to the
// stage. The graph is a debugging aid: chains show up as edge pairs
// pointing at each other.
//
//	src := dot.ToDOT(stage, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(src)
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/magnet"
	"github.com/matzehuels/magnet/pkg/render"
)

// Options configures pull-graph rendering.
type Options struct {
	// Detailed adds the solved bounds and size values to node labels.
	Detailed bool
	// Horizontal lays the graph out left to right.
	Horizontal bool
}

// ToDOT converts the stage's pull targets to Graphviz DOT.
func ToDOT(s *magnet.Stage, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Horizontal {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, shape=doubleoctagon, fillcolor=lightgrey];\n", magnet.StageID, stageLabel(s, opts.Detailed))
	for _, el := range s.Elements() {
		fmt.Fprintf(&buf, "  %q [%s];\n", el.ID(), strings.Join(nodeAttrs(el, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, el := range s.Elements() {
		switch e := el.(type) {
		case *magnet.View:
			writePulls(&buf, e)
		case *magnet.Barrier:
			for _, m := range e.Members() {
				fmt.Fprintf(&buf, "  %q -> %q [style=dotted, arrowhead=none, label=%q];\n", e.ID(), m, e.Side().String())
			}
		case *magnet.Guideline:
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, label=%q];\n", e.ID(), magnet.StageID,
				strconv.FormatFloat(e.Fraction(), 'g', -1, 64))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writePulls(buf *bytes.Buffer, v *magnet.View) {
	for _, edge := range []magnet.Pole{magnet.PoleLeft, magnet.PoleTop, magnet.PoleRight, magnet.PoleBottom} {
		p, ok := v.Pull(edge)
		if !ok {
			continue
		}
		target := p.ElementID
		if strings.EqualFold(target, magnet.StageID) {
			target = magnet.StageID
		}
		attrs := []string{fmt.Sprintf("label=%q", edge.String()+"→"+p.Pole.String())}
		if p.Traction == magnet.TractionStrong {
			attrs = append(attrs, "style=bold", "color=\"#c0392b\"")
		}
		fmt.Fprintf(buf, "  %q -> %q [%s];\n", v.ID(), target, strings.Join(attrs, ", "))
	}
}

func stageLabel(s *magnet.Stage, detailed bool) string {
	if !detailed {
		return magnet.StageID
	}
	b := s.Bounds()
	return fmt.Sprintf("%s\n%gx%g", magnet.StageID, b.Width, b.Height)
}

func nodeAttrs(el magnet.Element, detailed bool) []string {
	label := el.ID()
	if detailed {
		b := el.Bounds()
		parts := []string{label, fmt.Sprintf("(%g, %g) %gx%g", b.X, b.Y, b.Width, b.Height)}
		if v, ok := el.(*magnet.View); ok {
			parts = append(parts, "w: "+v.Width().String(), "h: "+v.Height().String())
		}
		label = strings.Join(parts, "\n")
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch e := el.(type) {
	case *magnet.Guideline, *magnet.Barrier:
		attrs = append(attrs, "shape=note", "fillcolor=lightyellow")
	case *magnet.View:
		if e.EffectiveVisibility() == magnet.Collapsed {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the SVG scales like the layout sinks' output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}
