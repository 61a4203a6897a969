package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/magnet/pkg/layout"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	scene  string
	policy string
}

// WithJSONScene records the scene hash the layout was computed from.
func WithJSONScene(hash string) JSONOption { return func(r *jsonRenderer) { r.scene = hash } }

// WithJSONPolicy records the missing-target policy used while solving.
func WithJSONPolicy(policy string) JSONOption { return func(r *jsonRenderer) { r.policy = policy } }

type jsonOutput struct {
	Scene  string         `json:"scene,omitempty"`
	Policy string         `json:"policy,omitempty"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Blocks []layout.Block `json:"blocks"`
}

// RenderJSON exports the layout as a pretty-printed JSON document.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{
		Scene:  r.scene,
		Policy: r.policy,
		Width:  l.FrameWidth,
		Height: l.FrameHeight,
		Blocks: l.Blocks,
	}
	if out.Blocks == nil {
		out.Blocks = []layout.Block{}
	}
	return json.MarshalIndent(out, "", "  ")
}

// ParseJSON reads a document written by [RenderJSON].
func ParseJSON(data []byte) (layout.Layout, error) {
	var in jsonOutput
	if err := json.Unmarshal(data, &in); err != nil {
		return layout.Layout{}, fmt.Errorf("parse layout json: %w", err)
	}
	return layout.Layout{
		FrameWidth:  in.Width,
		FrameHeight: in.Height,
		Blocks:      in.Blocks,
	}, nil
}
