package scene

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnet/pkg/anchor"
	"github.com/matzehuels/magnet/pkg/cache"
	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/layout"
	"github.com/matzehuels/magnet/pkg/magnet"
	"github.com/matzehuels/magnet/pkg/observability"
)

// Scene is a built document: the stage and the host that backs its views.
type Scene struct {
	Doc   *Document
	Stage *magnet.Stage
	Host  *Host
}

// Option configures [Build].
type Option func(*buildOptions)

type buildOptions struct {
	logger *log.Logger
	hooks  observability.LayoutHooks
	policy string
}

// WithLogger passes a logger to the stage.
func WithLogger(l *log.Logger) Option { return func(o *buildOptions) { o.logger = l } }

// WithHooks passes layout hooks to the stage.
func WithHooks(h observability.LayoutHooks) Option { return func(o *buildOptions) { o.hooks = h } }

// WithPolicy overrides the document's missing-target policy.
func WithPolicy(p string) Option { return func(o *buildOptions) { o.policy = p } }

// Build validates doc and constructs its stage. Elements are added in
// document order, so pulls may reference elements declared later.
func Build(doc *Document, opts ...Option) (*Scene, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	policyName := doc.Stage.Policy
	if o.policy != "" {
		policyName = o.policy
	}
	policy, err := magnet.ParseMissingTargetPolicy(policyName)
	if err != nil {
		return nil, err
	}

	host := NewHost()
	stageOpts := []magnet.Option{
		magnet.WithViewSource(host),
		magnet.WithMissingTargetPolicy(policy),
		magnet.WithLogger(o.logger),
	}
	if o.hooks != nil {
		stageOpts = append(stageOpts, magnet.WithHooks(o.hooks))
	}
	stage := magnet.NewStage(stageOpts...)

	els := make([]magnet.Element, 0, len(doc.Elements))
	for _, def := range doc.Elements {
		el, err := buildElement(def, host)
		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInvalidScene
			}
			return nil, errors.Wrap(code, err, "element %q", def.ID)
		}
		els = append(els, el)
	}
	if policy == magnet.MissingTargetStrict {
		if err := checkReferences(els); err != nil {
			return nil, err
		}
	}
	if err := stage.Add(els...); err != nil {
		return nil, err
	}
	return &Scene{Doc: doc, Stage: stage, Host: host}, nil
}

// checkReferences fails on pulls and barrier members naming an id the
// document never declares. The stage would only catch these while a host
// view exists for the id, and a scene's host holds views for its own
// elements alone.
func checkReferences(els []magnet.Element) error {
	ids := make(map[string]bool, len(els)+1)
	ids[strings.ToLower(magnet.StageID)] = true
	for _, el := range els {
		ids[strings.ToLower(el.ID())] = true
	}
	known := func(id string) bool { return ids[strings.ToLower(id)] }

	for _, el := range els {
		switch e := el.(type) {
		case *magnet.View:
			for edge := magnet.PoleLeft; edge <= magnet.PoleBottom; edge++ {
				if t, ok := e.Pull(edge); ok && !known(t.ElementID) {
					return errors.New(errors.ErrCodeUndefinedTarget,
						"%s edge of %q pulls unknown element %q", edge, e.ID(), t.ElementID)
				}
			}
		case *magnet.Barrier:
			for _, id := range e.Members() {
				if !known(id) {
					return errors.New(errors.ErrCodeUndefinedTarget,
						"barrier %q references unknown element %q", e.ID(), id)
				}
			}
		}
	}
	return nil
}

func buildElement(def Element, host *Host) (magnet.Element, error) {
	switch def.KindOf() {
	case "guideline":
		axis := magnet.Horizontal
		if strings.EqualFold(def.Axis, "vertical") {
			axis = magnet.Vertical
		}
		g, err := magnet.NewGuideline(def.ID, axis, def.Fraction, def.Delta)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "barrier":
		return buildBarrier(def)
	default:
		return buildView(def, host)
	}
}

func buildBarrier(def Element) (magnet.Element, error) {
	side, err := magnet.ParsePole(def.Side)
	if err != nil {
		return nil, err
	}
	b := magnet.NewBarrier(def.ID, side, def.Members...)
	if def.Margin != "" {
		m, err := strconv.ParseFloat(strings.TrimSpace(def.Margin), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "barrier margin %q", def.Margin)
		}
		if err := b.SetMargin(m); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func buildView(def Element, host *Host) (magnet.Element, error) {
	v := magnet.NewView(def.ID)

	if def.Width != "" {
		sv, err := magnet.ParseSizeValue(def.Width)
		if err != nil {
			return nil, err
		}
		v.SetWidth(sv)
	}
	if def.Height != "" {
		sv, err := magnet.ParseSizeValue(def.Height)
		if err != nil {
			return nil, err
		}
		v.SetHeight(sv)
	}
	if def.Margin != "" {
		t, err := magnet.ParseThickness(def.Margin)
		if err != nil {
			return nil, err
		}
		v.SetMargin(t)
	}
	if def.CollapsedMargin != "" {
		t, err := magnet.ParseThickness(def.CollapsedMargin)
		if err != nil {
			return nil, err
		}
		v.SetCollapsedMargin(t)
	}
	if def.Bias != nil {
		if def.Bias.Horizontal != nil {
			if err := v.SetBias(magnet.Horizontal, *def.Bias.Horizontal); err != nil {
				return nil, err
			}
		}
		if def.Bias.Vertical != nil {
			if err := v.SetBias(magnet.Vertical, *def.Bias.Vertical); err != nil {
				return nil, err
			}
		}
	}

	for edgeName, raw := range def.Pulls {
		edge, err := magnet.ParsePole(edgeName)
		if err != nil {
			return nil, err
		}
		target, err := magnet.ParsePullTarget(raw)
		if err != nil {
			return nil, err
		}
		if gm, ok := def.GoneMargins[edgeName]; ok {
			target = target.WithGoneMargin(gm)
		}
		if err := v.SetPull(edge, target); err != nil {
			return nil, err
		}
	}

	if len(def.Anchors) > 0 {
		set, err := anchor.ParseSet(def.Anchors)
		if err != nil {
			return nil, err
		}
		if err := anchor.Bind(v, set); err != nil {
			return nil, err
		}
	}

	vis := magnet.Visible
	if def.Visibility != "" {
		parsed, err := magnet.ParseVisibility(def.Visibility)
		if err != nil {
			return nil, err
		}
		vis = parsed
	}
	v.SetVisibility(vis)

	var content Content
	if def.Content != nil {
		content = *def.Content
	}
	box := NewBox(content)
	box.SetVisibility(vis)
	host.Add(def.ID, box)
	return v, nil
}

// Size returns the document's stage size, with unset axes unbounded.
func (s *Scene) Size() (width, height float64) {
	width, height = s.Doc.Stage.Width, s.Doc.Stage.Height
	if width <= 0 {
		width = magnet.Unbounded
	}
	if height <= 0 {
		height = magnet.Unbounded
	}
	return width, height
}

// Solve lays the scene out at the document's stage size.
func (s *Scene) Solve() (layout.Layout, error) {
	w, h := s.Size()
	return s.SolveAt(w, h)
}

// SolveAt lays the scene out within width and height.
func (s *Scene) SolveAt(width, height float64) (layout.Layout, error) {
	if _, err := s.Stage.Layout(width, height); err != nil {
		return layout.Layout{}, err
	}
	return layout.FromStage(s.Stage, layout.WithLabels(s.Label)), nil
}

// Label returns the text of the view's box, if any.
func (s *Scene) Label(id string) string {
	if b, ok := s.Host.Box(id); ok {
		return b.Text()
	}
	return ""
}

// Hash returns a content hash of the document, stable across the encoding
// it was loaded from.
func Hash(doc *Document) (string, error) {
	data, err := doc.Marshal(FormatJSON)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash scene")
	}
	return cache.Hash(data), nil
}
