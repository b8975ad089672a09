package ruleset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CasterType names one of the two parallel power-point resource systems.
type CasterType string

const (
	// NonCaster marks rule rows for classes and archetypes that grant no casting.
	NonCaster CasterType = ""
	Tech      CasterType = "Tech"
	Force     CasterType = "Force"
)

// ParseCasterType maps a case-insensitive caster type name onto a CasterType.
// "none" and the empty string both map to NonCaster.
func ParseCasterType(s string) (CasterType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tech":
		return Tech, nil
	case "force":
		return Force, nil
	case "", "none":
		return NonCaster, nil
	default:
		return NonCaster, fmt.Errorf("unknown caster type %q", s)
	}
}

// Key returns the lower-case prefix used for result field paths ("tech", "force").
func (c CasterType) Key() string {
	return strings.ToLower(string(c))
}

// UnmarshalYAML accepts any casing of the caster type name.
func (c *CasterType) UnmarshalYAML(node *yaml.Node) error {
	ct, err := ParseCasterType(node.Value)
	if err != nil {
		return err
	}
	*c = ct
	return nil
}

// Ratio is an exact non-negative rational number. The zero value is 0.
//
// Caster ratios, effective caster levels, and blended tier levels are all
// Ratios so that thirds compare and sum without float drift.
type Ratio struct {
	num int
	den int
}

var (
	RatioNone      = Ratio{0, 1}
	RatioThird     = Ratio{1, 3}
	RatioHalf      = Ratio{1, 2}
	RatioTwoThirds = Ratio{2, 3}
	RatioFull      = Ratio{1, 1}
)

// maxSnapDenominator bounds the denominators tried when snapping a decimal
// ratio such as 0.333 back onto a fraction.
const maxSnapDenominator = 12

// snapTolerance is the largest distance a decimal may lie from the fraction
// it snaps to. Three-digit approximations such as 0.667 fall inside it.
const snapTolerance = 5e-3

// maxDecimalRatio bounds decimal ratios so snapped numerators fit an int.
const maxDecimalRatio = 1_000_000

// NewRatio returns num/den in lowest terms.
//
// Precondition: den must be non-zero.
func NewRatio(num, den int) Ratio {
	if den == 0 {
		panic("ruleset.NewRatio: precondition violated: zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	return Ratio{num: num / g, den: den / g}
}

// Int returns n as a Ratio.
func Int(n int) Ratio {
	return Ratio{num: n, den: 1}
}

func (r Ratio) norm() Ratio {
	if r.den == 0 {
		return RatioNone
	}
	return r
}

// Num returns the numerator in lowest terms.
func (r Ratio) Num() int { return r.norm().num }

// Den returns the denominator in lowest terms.
func (r Ratio) Den() int { return r.norm().den }

// Add returns r + o.
func (r Ratio) Add(o Ratio) Ratio {
	a, b := r.norm(), o.norm()
	return NewRatio(a.num*b.den+b.num*a.den, a.den*b.den)
}

// Mul returns r * n.
func (r Ratio) Mul(n int) Ratio {
	a := r.norm()
	return NewRatio(a.num*n, a.den)
}

// Cmp returns -1, 0, or +1 as r is less than, equal to, or greater than o.
func (r Ratio) Cmp(o Ratio) int {
	a, b := r.norm(), o.norm()
	lhs, rhs := a.num*b.den, b.num*a.den
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// Equal reports whether r and o denote the same value.
func (r Ratio) Equal(o Ratio) bool {
	return r.Cmp(o) == 0
}

// Floor returns the greatest integer not exceeding r.
func (r Ratio) Floor() int {
	a := r.norm()
	q := a.num / a.den
	if a.num%a.den != 0 && a.num < 0 {
		q--
	}
	return q
}

// Float64 returns the nearest float64 to r.
func (r Ratio) Float64() float64 {
	a := r.norm()
	return float64(a.num) / float64(a.den)
}

// String renders r as "n" or "n/d".
func (r Ratio) String() string {
	a := r.norm()
	if a.den == 1 {
		return strconv.Itoa(a.num)
	}
	return fmt.Sprintf("%d/%d", a.num, a.den)
}

// ParseRatio parses "n/d", an integer, or a decimal. A decimal snaps to the
// nearest fraction whose denominator is at most 12, preferring the smaller
// denominator on ties, and is rejected when that fraction is more than 0.005
// away.
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RatioNone, nil
	}
	if n, d, ok := strings.Cut(s, "/"); ok {
		num, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return RatioNone, fmt.Errorf("parsing ratio numerator %q: %w", s, err)
		}
		den, err := strconv.Atoi(strings.TrimSpace(d))
		if err != nil {
			return RatioNone, fmt.Errorf("parsing ratio denominator %q: %w", s, err)
		}
		if den == 0 {
			return RatioNone, fmt.Errorf("ratio %q has a zero denominator", s)
		}
		return NewRatio(num, den), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return RatioNone, fmt.Errorf("parsing ratio %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxDecimalRatio {
		return RatioNone, fmt.Errorf("ratio %q is not a finite value within ±%g", s, float64(maxDecimalRatio))
	}
	best, bestDiff := RatioNone, math.Inf(1)
	for den := 1; den <= maxSnapDenominator; den++ {
		num := math.Round(f * float64(den))
		// Strictly smaller keeps the lowest denominator on ties.
		if diff := math.Abs(f - num/float64(den)); diff < bestDiff {
			best, bestDiff = NewRatio(int(num), den), diff
		}
	}
	if bestDiff > snapTolerance {
		return RatioNone, fmt.Errorf("ratio %q is not within %g of a fraction with denominator <= %d", s, snapTolerance, maxSnapDenominator)
	}
	return best, nil
}

// UnmarshalYAML accepts "1/3", 0.5, or 0.333.
func (r *Ratio) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseRatio(node.Value)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalYAML writes the ratio in "n/d" form.
func (r Ratio) MarshalYAML() (any, error) {
	return r.String(), nil
}

// MarshalJSON writes the ratio as a JSON string in "n/d" form.
func (r Ratio) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
