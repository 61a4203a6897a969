package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/magnet/pkg/layout"
)

const blockInteractionCSS = `
    .block { transition: stroke-width 0.2s ease; }
    .block.highlight { stroke-width: 4; }
    .block-text.highlight { font-weight: bold; }`

const blockInteractionJS = `
    function highlight(id) {
      document.querySelectorAll('.block').forEach(b => b.classList.toggle('highlight', b.id === 'block-' + id));
      document.querySelectorAll('.block-text').forEach(t => t.classList.toggle('highlight', t.dataset.block === id));
    }
    function clearHighlight() {
      document.querySelectorAll('.block, .block-text').forEach(el => el.classList.remove('highlight'));
    }
    document.querySelectorAll('.block').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.id.replace('block-', '')));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       Style
	margins     bool
	guides      bool
	interaction bool
}

// WithStyle sets the visual style (default [Simple]).
func WithStyle(s Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithMargins outlines each drawn view's margin box.
func WithMargins() SVGOption { return func(r *svgRenderer) { r.margins = true } }

// WithGuides draws guidelines and barriers.
func WithGuides() SVGOption { return func(r *svgRenderer) { r.guides = true } }

// WithInteraction embeds a hover-highlight script.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interaction = true } }

// RenderSVG renders the layout as a standalone SVG document. Blocks are
// drawn in layout order, so later elements paint over earlier ones.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: Simple{}}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := l.FrameWidth, l.FrameHeight
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)

	r.style.RenderDefs(&buf, w, h)

	views := l.Views()
	if r.margins {
		for _, b := range l.Blocks {
			if b.IsView() && !b.Collapsed() {
				r.style.RenderMargin(&buf, b)
			}
		}
	}
	for _, b := range views {
		r.style.RenderBlock(&buf, b)
	}
	if r.guides {
		for _, b := range l.Guides() {
			r.style.RenderGuide(&buf, b)
		}
	}
	for _, b := range views {
		r.style.RenderText(&buf, b)
	}

	if r.interaction {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", blockInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", blockInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
