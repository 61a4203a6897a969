package scene

import (
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/matzehuels/magnet/pkg/magnet"
)

const (
	defaultCharWidth  = 7.0
	defaultLineHeight = 16.0
)

// Box is a simulated host view. Without text it reports its fixed content
// size. With text it word-wraps to the offered width and reports the
// wrapped extent, never narrower than the content width or shorter than the
// content height.
type Box struct {
	mu       sync.Mutex
	content  Content
	vis      magnet.Visibility
	arranged magnet.Rect
	measures int
}

// NewBox creates a visible box for c.
func NewBox(c Content) *Box {
	if c.CharWidth == 0 {
		c.CharWidth = defaultCharWidth
	}
	if c.LineHeight == 0 {
		c.LineHeight = defaultLineHeight
	}
	return &Box{content: c}
}

// Measure implements magnet.HostView.
func (b *Box) Measure(width, height float64) magnet.Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.measures++

	c := b.content
	if c.Text == "" {
		return magnet.Size{Width: c.Width, Height: c.Height}
	}

	maxChars := math.MaxInt
	if avail := width - 2*c.Padding; !math.IsInf(width, 1) && avail >= 0 {
		maxChars = max(1, int(math.Floor(avail/c.CharWidth+1e-9)))
	}
	lines := Wrap(c.Text, maxChars)
	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	return magnet.Size{
		Width:  max(c.Width, float64(longest)*c.CharWidth+2*c.Padding),
		Height: max(c.Height, float64(len(lines))*c.LineHeight+2*c.Padding),
	}
}

// Visibility implements magnet.HostView.
func (b *Box) Visibility() magnet.Visibility {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vis
}

// SetVisibility changes what the box reports at the next measure.
func (b *Box) SetVisibility(v magnet.Visibility) {
	b.mu.Lock()
	b.vis = v
	b.mu.Unlock()
}

// Arrange implements magnet.HostView.
func (b *Box) Arrange(r magnet.Rect) magnet.Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.arranged = r
	return magnet.Size{Width: r.Width, Height: r.Height}
}

// Arranged returns the rectangle of the last arrange call.
func (b *Box) Arranged() magnet.Rect {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.arranged
}

// Measures returns how often the box was measured.
func (b *Box) Measures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.measures
}

// Text returns the box text.
func (b *Box) Text() string { return b.content.Text }

// Wrap breaks text into lines of at most maxChars runes, breaking at
// whitespace and splitting words longer than a line.
func Wrap(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var cur []rune
	for _, w := range words {
		word := []rune(w)
		for len(word) > maxChars {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(word[:maxChars]))
			word = word[maxChars:]
		}
		switch {
		case len(word) == 0:
		case len(cur) == 0:
			cur = word
		case len(cur)+1+len(word) <= maxChars:
			cur = append(append(cur, ' '), word...)
		default:
			lines = append(lines, string(cur))
			cur = word
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

// Host resolves element ids to boxes. It implements magnet.ViewSource.
type Host struct {
	mu    sync.RWMutex
	boxes map[string]*Box
}

// NewHost creates an empty host.
func NewHost() *Host {
	return &Host{boxes: make(map[string]*Box)}
}

// Add registers a box under id, replacing any previous box.
func (h *Host) Add(id string, b *Box) {
	h.mu.Lock()
	h.boxes[strings.ToLower(id)] = b
	h.mu.Unlock()
}

// Box returns the box registered under id.
func (h *Host) Box(id string) (*Box, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	b, ok := h.boxes[strings.ToLower(id)]
	return b, ok
}

// LookupView implements magnet.ViewSource.
func (h *Host) LookupView(id string) (magnet.HostView, bool) {
	b, ok := h.Box(id)
	if !ok {
		return nil, false
	}
	return b, true
}
