package magnet

import (
	"strconv"
	"strings"

	"github.com/matzehuels/magnet/pkg/errors"
)

// ParsePullTarget parses "elementId.Pole", with a trailing "!" for strong
// traction. The stage is referenced as "Stage".
//
//	ParsePullTarget("title.Bottom")  // default traction
//	ParsePullTarget("next.Left!")    // strong traction
func ParsePullTarget(s string) (PullTarget, error) {
	raw := strings.TrimSpace(s)
	var t PullTarget
	if strings.HasSuffix(raw, "!") {
		t.Traction = TractionStrong
		raw = strings.TrimSpace(strings.TrimSuffix(raw, "!"))
	}
	dot := strings.LastIndexByte(raw, '.')
	if dot <= 0 || dot == len(raw)-1 {
		return PullTarget{}, errors.New(errors.ErrCodeInvalidSyntax, "pull target %q: want elementId.Pole", s)
	}
	pole, err := ParsePole(raw[dot+1:])
	if err != nil {
		return PullTarget{}, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "pull target %q", s)
	}
	t.ElementID = strings.TrimSpace(raw[:dot])
	t.Pole = pole
	return t, nil
}

// ParseSizeValue parses a size string:
//
//	m, 2m, auto   measured content (times the multiplier)
//	50%           percentage of the stage span
//	*, 3*         weighted share of the chain span
//	r, 1.5r       ratio of the other axis span
//
// A trailing "~" selects shrink behavior.
func ParseSizeValue(s string) (SizeValue, error) {
	raw := strings.TrimSpace(s)
	var v SizeValue
	if strings.HasSuffix(raw, "~") {
		v.Behavior = BehaviorShrink
		raw = strings.TrimSpace(strings.TrimSuffix(raw, "~"))
	}
	if strings.EqualFold(raw, "auto") {
		raw = "m"
	}
	if raw == "" {
		return SizeValue{}, errors.New(errors.ErrCodeInvalidSyntax, "empty size value")
	}

	suffix := raw[len(raw)-1]
	number := raw[:len(raw)-1]
	switch suffix {
	case '%':
		v.Unit = StagePercentage
	case '*':
		v.Unit = ConstraintRatio
	case 'r', 'R':
		v.Unit = OtherAxisRatio
	case 'm', 'M':
		v.Unit = Measured
	default:
		return SizeValue{}, errors.New(errors.ErrCodeInvalidSyntax,
			"size value %q: want a %%, *, r or m suffix", s)
	}

	m := 1.0
	if number != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
		if err != nil {
			return SizeValue{}, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "size value %q", s)
		}
		m = f
	} else if v.Unit == StagePercentage {
		return SizeValue{}, errors.New(errors.ErrCodeInvalidSyntax, "size value %q: percentage needs a number", s)
	}
	if m < 0 {
		return SizeValue{}, errors.New(errors.ErrCodeInvalidSyntax, "size value %q: negative multiplier", s)
	}
	if v.Unit == StagePercentage {
		m /= 100
	}
	v.Multiplier = m
	return v, nil
}

// ParseThickness parses one value (all edges), two values (horizontal,
// vertical) or four values (left, top, right, bottom), separated by commas
// or spaces.
func ParseThickness(s string) (Thickness, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Thickness{}, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "thickness %q", s)
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return Uniform(vals[0]), nil
	case 2:
		return Thickness{Left: vals[0], Top: vals[1], Right: vals[0], Bottom: vals[1]}, nil
	case 4:
		return Thickness{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}, nil
	}
	return Thickness{}, errors.New(errors.ErrCodeInvalidSyntax, "thickness %q: want 1, 2 or 4 values", s)
}
