package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/magnet/pkg/layout"
)

// Style defines the visual appearance of a rendered layout.
type Style interface {
	// RenderDefs writes SVG <defs> content and the background.
	RenderDefs(buf *bytes.Buffer, width, height float64)
	// RenderBlock writes the shape of a view block.
	RenderBlock(buf *bytes.Buffer, b layout.Block)
	// RenderMargin writes the outline of a view's margin box.
	RenderMargin(buf *bytes.Buffer, b layout.Block)
	// RenderGuide writes a guideline or barrier.
	RenderGuide(buf *bytes.Buffer, b layout.Block)
	// RenderText writes the label of a view block.
	RenderText(buf *bytes.Buffer, b layout.Block)
}

// Simple draws white boxes with dark outlines.
type Simple struct{}

func (Simple) RenderDefs(*bytes.Buffer, float64, float64) {}

func (Simple) RenderBlock(buf *bytes.Buffer, b layout.Block) {
	fmt.Fprintf(buf, `  <rect id="block-%s" class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="white" stroke="#333" stroke-width="1.5"/>`+"\n",
		EscapeXML(b.ID), b.Left, b.Top, b.Width(), b.Height())
}

func (Simple) RenderMargin(buf *bytes.Buffer, b layout.Block) {
	o := b.Outer()
	fmt.Fprintf(buf, `  <rect class="margin" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#f39c12" stroke-dasharray="2,2"/>`+"\n",
		o.Left, o.Top, o.Width(), o.Height())
}

func (Simple) RenderGuide(buf *bytes.Buffer, b layout.Block) {
	renderGuideLine(buf, b, "#3498db")
}

func (Simple) RenderText(buf *bytes.Buffer, b layout.Block) {
	renderLabel(buf, b, "#333")
}

// Blueprint draws light outlines on a dark blue background.
type Blueprint struct{}

func (Blueprint) RenderDefs(buf *bytes.Buffer, width, height float64) {
	buf.WriteString(`  <defs>
    <pattern id="grid" width="10" height="10" patternUnits="userSpaceOnUse">
      <path d="M 10 0 L 0 0 0 10" fill="none" stroke="#2a4d7a" stroke-width="0.5"/>
    </pattern>
  </defs>` + "\n")
	fmt.Fprintf(buf, `  <rect width="%.2f" height="%.2f" fill="#1b365d"/>`+"\n", width, height)
	fmt.Fprintf(buf, `  <rect width="%.2f" height="%.2f" fill="url(#grid)"/>`+"\n", width, height)
}

func (Blueprint) RenderBlock(buf *bytes.Buffer, b layout.Block) {
	fmt.Fprintf(buf, `  <rect id="block-%s" class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#24487a" stroke="#e8f1ff" stroke-width="1.5"/>`+"\n",
		EscapeXML(b.ID), b.Left, b.Top, b.Width(), b.Height())
}

func (Blueprint) RenderMargin(buf *bytes.Buffer, b layout.Block) {
	o := b.Outer()
	fmt.Fprintf(buf, `  <rect class="margin" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#9cc3ff" stroke-dasharray="2,2"/>`+"\n",
		o.Left, o.Top, o.Width(), o.Height())
}

func (Blueprint) RenderGuide(buf *bytes.Buffer, b layout.Block) {
	renderGuideLine(buf, b, "#ffd166")
}

func (Blueprint) RenderText(buf *bytes.Buffer, b layout.Block) {
	renderLabel(buf, b, "#e8f1ff")
}

// StyleByName returns the style registered under name.
func StyleByName(name string) (Style, bool) {
	switch name {
	case "", "simple":
		return Simple{}, true
	case "blueprint":
		return Blueprint{}, true
	}
	return nil, false
}

func renderGuideLine(buf *bytes.Buffer, b layout.Block, color string) {
	dash := "6,4"
	if b.Kind == "barrier" {
		dash = "2,3"
	}
	fmt.Fprintf(buf, `  <line id="guide-%s" class="guide" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-dasharray="%s"/>`+"\n",
		EscapeXML(b.ID), b.Left, b.Top, b.Right, b.Bottom, color, dash)
}

func renderLabel(buf *bytes.Buffer, b layout.Block, color string) {
	label := b.Label
	if label == "" {
		label = b.ID
	}
	size := FontSize(b.Width(), b.Height(), len(label))
	fmt.Fprintf(buf, `  <text class="block-text" data-block="%s" x="%.2f" y="%.2f" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		EscapeXML(b.ID), b.CenterX(), b.CenterY(), size, color, EscapeXML(TruncateLabel(label, b.Width(), size)))
}

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 24.0
)

// FontSize picks a label size that fits textLen characters in the box.
func FontSize(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// TruncateLabel shortens label with ".." when it does not fit width at
// fontSize.
func TruncateLabel(label string, width, fontSize float64) string {
	maxChars := max(3, int(width*fontWidthRatio/(fontSize*fontCharWidth)))
	r := []rune(label)
	if len(r) <= maxChars {
		return label
	}
	return string(r[:maxChars-2]) + ".."
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
