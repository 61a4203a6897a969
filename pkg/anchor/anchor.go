// Package anchor translates ConstraintLayout-style anchors onto magnet pull
// targets.
//
// An anchor string has up to three "|"-separated fields:
//
//	"targetId[!] | margin | goneMargin"
//
// The target "parent" (or "Stage") references the stage. A trailing "!"
// forces contact with the target. The margin becomes the view's margin on
// the anchored edge; the gone margin replaces it while the target is
// collapsed.
//
//	set := anchor.Set{
//	    LeftToRightOf: anchor.MustParse("avatar | 8"),
//	    TopToTopOf:    anchor.MustParse("parent | 16"),
//	}
//	err := anchor.Bind(view, set)
package anchor

import (
	"strconv"
	"strings"

	"github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/magnet"
)

// ParentID is the anchor alias for the stage.
const ParentID = errors.ReservedParentID

// Anchor is one parsed anchor string.
type Anchor struct {
	TargetID   string
	Strong     bool
	Margin     float64
	GoneMargin *float64
}

// Parse parses "targetId[!] | margin | goneMargin". Margin fields are
// optional.
func Parse(s string) (*Anchor, error) {
	parts := strings.Split(s, "|")
	if len(parts) > 3 {
		return nil, errors.New(errors.ErrCodeInvalidSyntax, "anchor %q: too many fields", s)
	}

	target := strings.TrimSpace(parts[0])
	a := &Anchor{}
	if strings.HasSuffix(target, "!") {
		a.Strong = true
		target = strings.TrimSpace(strings.TrimSuffix(target, "!"))
	}
	if target == "" {
		return nil, errors.New(errors.ErrCodeInvalidSyntax, "anchor %q: missing target", s)
	}
	if strings.EqualFold(target, ParentID) {
		target = magnet.StageID
	}
	a.TargetID = target

	if len(parts) > 1 {
		m, err := parseMargin(s, parts[1])
		if err != nil {
			return nil, err
		}
		a.Margin = m
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		m, err := parseMargin(s, parts[2])
		if err != nil {
			return nil, err
		}
		a.GoneMargin = &m
	}
	return a, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) *Anchor {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func parseMargin(s, field string) (float64, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "anchor %q: margin %q", s, field)
	}
	return v, nil
}

// String renders the anchor in the syntax accepted by Parse.
func (a *Anchor) String() string {
	var b strings.Builder
	if strings.EqualFold(a.TargetID, magnet.StageID) {
		b.WriteString(ParentID)
	} else {
		b.WriteString(a.TargetID)
	}
	if a.Strong {
		b.WriteByte('!')
	}
	if a.Margin != 0 || a.GoneMargin != nil {
		b.WriteString(" | ")
		b.WriteString(strconv.FormatFloat(a.Margin, 'g', -1, 64))
	}
	if a.GoneMargin != nil {
		b.WriteString(" | ")
		b.WriteString(strconv.FormatFloat(*a.GoneMargin, 'g', -1, 64))
	}
	return b.String()
}

// Set holds the anchors of one view. At most one anchor per edge may be set.
type Set struct {
	LeftToLeftOf     *Anchor `json:"leftToLeftOf,omitempty" yaml:"leftToLeftOf,omitempty" toml:"leftToLeftOf,omitempty"`
	LeftToRightOf    *Anchor `json:"leftToRightOf,omitempty" yaml:"leftToRightOf,omitempty" toml:"leftToRightOf,omitempty"`
	RightToLeftOf    *Anchor `json:"rightToLeftOf,omitempty" yaml:"rightToLeftOf,omitempty" toml:"rightToLeftOf,omitempty"`
	RightToRightOf   *Anchor `json:"rightToRightOf,omitempty" yaml:"rightToRightOf,omitempty" toml:"rightToRightOf,omitempty"`
	TopToTopOf       *Anchor `json:"topToTopOf,omitempty" yaml:"topToTopOf,omitempty" toml:"topToTopOf,omitempty"`
	TopToBottomOf    *Anchor `json:"topToBottomOf,omitempty" yaml:"topToBottomOf,omitempty" toml:"topToBottomOf,omitempty"`
	BottomToTopOf    *Anchor `json:"bottomToTopOf,omitempty" yaml:"bottomToTopOf,omitempty" toml:"bottomToTopOf,omitempty"`
	BottomToBottomOf *Anchor `json:"bottomToBottomOf,omitempty" yaml:"bottomToBottomOf,omitempty" toml:"bottomToBottomOf,omitempty"`
}

// anchorKeys maps the attribute names used in scene files onto Set fields.
var anchorKeys = map[string]func(*Set) **Anchor{
	"lefttoleftof":     func(s *Set) **Anchor { return &s.LeftToLeftOf },
	"lefttorightof":    func(s *Set) **Anchor { return &s.LeftToRightOf },
	"righttoleftof":    func(s *Set) **Anchor { return &s.RightToLeftOf },
	"righttorightof":   func(s *Set) **Anchor { return &s.RightToRightOf },
	"toptotopof":       func(s *Set) **Anchor { return &s.TopToTopOf },
	"toptobottomof":    func(s *Set) **Anchor { return &s.TopToBottomOf },
	"bottomtotopof":    func(s *Set) **Anchor { return &s.BottomToTopOf },
	"bottomtobottomof": func(s *Set) **Anchor { return &s.BottomToBottomOf },
}

// ParseSet parses attribute/anchor-string pairs such as
// {"leftToRightOf": "avatar | 8"}. Attribute names are case-insensitive.
func ParseSet(attrs map[string]string) (Set, error) {
	var set Set
	for key, value := range attrs {
		field, ok := anchorKeys[strings.ToLower(key)]
		if !ok {
			return Set{}, errors.New(errors.ErrCodeInvalidSyntax, "unknown anchor attribute %q", key)
		}
		a, err := Parse(value)
		if err != nil {
			return Set{}, err
		}
		*field(&set) = a
	}
	return set, nil
}

type binding struct {
	edge   magnet.Pole
	anchor *Anchor
	target magnet.Pole
}

// edges pairs every anchor with the edge it constrains. Conflicting anchors
// on one edge are an error.
func (s Set) edges() ([]binding, error) {
	candidates := []binding{
		{magnet.PoleLeft, s.LeftToLeftOf, magnet.PoleLeft},
		{magnet.PoleLeft, s.LeftToRightOf, magnet.PoleRight},
		{magnet.PoleRight, s.RightToLeftOf, magnet.PoleLeft},
		{magnet.PoleRight, s.RightToRightOf, magnet.PoleRight},
		{magnet.PoleTop, s.TopToTopOf, magnet.PoleTop},
		{magnet.PoleTop, s.TopToBottomOf, magnet.PoleBottom},
		{magnet.PoleBottom, s.BottomToTopOf, magnet.PoleTop},
		{magnet.PoleBottom, s.BottomToBottomOf, magnet.PoleBottom},
	}
	var out []binding
	var used [4]bool
	for _, c := range candidates {
		if c.anchor == nil {
			continue
		}
		if used[c.edge] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "conflicting anchors on the %s edge", c.edge)
		}
		used[c.edge] = true
		out = append(out, c)
	}
	return out, nil
}

// Bind sets the pull targets and edge margins of v from set. Edges without
// an anchor keep their pulls and margins.
func Bind(v *magnet.View, set Set) error {
	bindings, err := set.edges()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "view %q", v.ID())
	}

	margin := v.Margin()
	for _, b := range bindings {
		pull := magnet.Pull(b.anchor.TargetID, b.target)
		if b.anchor.Strong {
			pull = pull.Strong()
		}
		if b.anchor.GoneMargin != nil {
			pull = pull.WithGoneMargin(*b.anchor.GoneMargin)
		}
		if err := v.SetPull(b.edge, pull); err != nil {
			return err
		}
		setEdge(&margin, b.edge, b.anchor.Margin)
	}
	v.SetMargin(margin)
	return nil
}

func setEdge(t *magnet.Thickness, p magnet.Pole, v float64) {
	switch p {
	case magnet.PoleLeft:
		t.Left = v
	case magnet.PoleTop:
		t.Top = v
	case magnet.PoleRight:
		t.Right = v
	default:
		t.Bottom = v
	}
}
