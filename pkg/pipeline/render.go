package pipeline

import (
	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/layout"
	"github.com/matzehuels/magnet/pkg/magnet"
	"github.com/matzehuels/magnet/pkg/render/dot"
	"github.com/matzehuels/magnet/pkg/sink"
)

// Render generates layout artifacts in the requested formats. The dot
// format is skipped; it is rendered from the stage by [RenderGraph].
func Render(l layout.Layout, sceneHash string, opts Options) (map[string][]byte, error) {
	style, ok := sink.StyleByName(opts.Style)
	if !ok {
		return nil, ValidateStyle(opts.Style)
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.Margins {
		svgOpts = append(svgOpts, sink.WithMargins())
	}
	if opts.Guides {
		svgOpts = append(svgOpts, sink.WithGuides())
	}
	if opts.Interaction {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, opts.Scale, svgOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(l, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(l, sink.WithJSONScene(sceneHash), sink.WithJSONPolicy(opts.Policy))
		case FormatDOT:
			continue
		default:
			return nil, ValidateFormat(format)
		}
		if err != nil {
			return nil, wrapRender(format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderGraph renders the stage's pull graph as DOT source.
func RenderGraph(s *magnet.Stage, opts Options) []byte {
	return []byte(dot.ToDOT(s, dot.Options{Detailed: opts.Detailed, Horizontal: opts.Horizontal}))
}

func wrapRender(format string, err error) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, "render %s", format)
}

// wantsFormat reports whether formats contains f.
func wantsFormat(formats []string, f string) bool {
	for _, x := range formats {
		if x == f {
			return true
		}
	}
	return false
}
