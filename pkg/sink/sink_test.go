package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/magnet/pkg/layout"
	"github.com/matzehuels/magnet/pkg/magnet"
)

func testLayout() layout.Layout {
	return layout.Layout{
		FrameWidth:  200,
		FrameHeight: 100,
		Blocks: []layout.Block{
			{ID: "title", Kind: "view", Label: "Hello <world>", Left: 10, Top: 10, Right: 110, Bottom: 40,
				Margin: magnet.Thickness{Left: 10, Top: 10}, Visibility: "visible"},
			{ID: "gone", Kind: "view", Visibility: "collapsed"},
			{ID: "ghost", Kind: "view", Left: 120, Top: 10, Right: 150, Bottom: 40, Visibility: "hidden"},
			{ID: "mid", Kind: "guideline", Left: 100, Right: 100, Bottom: 100},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	tests := map[string]struct {
		opts    []SVGOption
		want    []string
		notWant []string
	}{
		"default": {
			want: []string{
				`viewBox="0 0 200.0 100.0"`,
				`id="block-title"`,
				`x="10.00" y="10.00" width="100.00" height="30.00"`,
				`Hello &lt;world&gt;`,
			},
			notWant: []string{`block-gone`, `block-ghost`, `class="margin"`, `class="guide"`, `<script`},
		},
		"margins": {
			opts: []SVGOption{WithMargins()},
			want: []string{`class="margin" x="0.00" y="0.00" width="110.00" height="40.00"`},
		},
		"guides": {
			opts: []SVGOption{WithGuides()},
			want: []string{`id="guide-mid"`, `x1="100.00" y1="0.00" x2="100.00" y2="100.00"`},
		},
		"blueprint": {
			opts: []SVGOption{WithStyle(Blueprint{})},
			want: []string{`<pattern id="grid"`, `fill="#24487a"`},
		},
		"interaction": {
			opts: []SVGOption{WithInteraction()},
			want: []string{`<script type="text/javascript">`, `.block.highlight`},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svg := string(RenderSVG(testLayout(), tt.opts...))
			if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
				t.Fatalf("RenderSVG() is not a complete svg document:\n%s", svg)
			}
			for _, w := range tt.want {
				if !strings.Contains(svg, w) {
					t.Errorf("RenderSVG() missing %q", w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(svg, w) {
					t.Errorf("RenderSVG() unexpectedly contains %q", w)
				}
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	l := testLayout()
	data, err := RenderJSON(l, WithJSONScene("abc123"), WithJSONPolicy("strict"))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	for _, want := range []string{`"scene": "abc123"`, `"policy": "strict"`, `"width": 200`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("RenderJSON() missing %q", want)
		}
	}

	back, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if back.FrameWidth != 200 || back.FrameHeight != 100 || len(back.Blocks) != len(l.Blocks) {
		t.Fatalf("ParseJSON() = %+v", back)
	}
	if back.Blocks[0] != l.Blocks[0] {
		t.Errorf("Blocks[0] = %+v, want %+v", back.Blocks[0], l.Blocks[0])
	}

	if _, err := ParseJSON([]byte("{")); err == nil {
		t.Error("ParseJSON(invalid) succeeded")
	}
}

func TestRenderJSON_EmptyLayout(t *testing.T) {
	data, err := RenderJSON(layout.Layout{})
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !strings.Contains(string(data), `"blocks": []`) {
		t.Errorf("RenderJSON() = %s, want empty blocks array", data)
	}
}

func TestTextHelpers(t *testing.T) {
	if got := FontSize(1000, 1000, 3); got != fontSizeMax {
		t.Errorf("FontSize(large box) = %v, want %v", got, fontSizeMax)
	}
	if got := FontSize(1, 1, 3); got != fontSizeMin {
		t.Errorf("FontSize(tiny box) = %v, want %v", got, fontSizeMin)
	}
	if got := TruncateLabel("short", 200, 10); got != "short" {
		t.Errorf("TruncateLabel(short) = %q", got)
	}
	if got := TruncateLabel("a-very-long-label", 30, 10); got != "a-.." {
		t.Errorf("TruncateLabel(long) = %q, want %q", got, "a-..")
	}
	if _, ok := StyleByName("blueprint"); !ok {
		t.Error("StyleByName(blueprint) not found")
	}
	if _, ok := StyleByName("neon"); ok {
		t.Error("StyleByName(neon) found")
	}
}
