package solver

// Strength orders constraints by priority. Higher tiers always dominate
// lower tiers regardless of how many lower-tier constraints are violated.
type Strength float64

// Strength tiers.
var (
	Required = NewStrength(1000, 1000, 1000, 1)
	Strong   = NewStrength(1, 0, 0, 1)
	Medium   = NewStrength(0, 1, 0, 1)
	Weak     = NewStrength(0, 0, 1, 1)
)

// NewStrength composes a strength from strong, medium and weak components,
// each clipped to [0, 1000] after applying weight w.
func NewStrength(a, b, c, w float64) Strength {
	clip := func(v float64) float64 {
		return max(0, min(1000, v*w))
	}
	return Strength(clip(a)*1_000_000 + clip(b)*1_000 + clip(c))
}

// clip limits s to the [0, Required] range.
func (s Strength) clip() Strength {
	return max(0, min(Required, s))
}

// IsRequired reports whether s is the required tier.
func (s Strength) IsRequired() bool {
	return s >= Required
}

// String returns the tier name, or the raw value for composed strengths.
func (s Strength) String() string {
	switch s {
	case Required:
		return "required"
	case Strong:
		return "strong"
	case Medium:
		return "medium"
	case Weak:
		return "weak"
	}
	return formatFloat(float64(s))
}
