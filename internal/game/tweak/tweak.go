// Package tweak provides the per-field override hook applied to every
// computed casting statistic.
package tweak

import "github.com/cory-johannsen/powercast/internal/game/character"

// Overrider substitutes a final value for a computed field. path is a dotted
// field path such as "techCasting.maxPoints".
//
// Implementations must be free of side effects on c.
type Overrider interface {
	Apply(c *character.Character, path string, value int) int
}

// Func adapts an ordinary function to the Overrider interface.
type Func func(c *character.Character, path string, value int) int

// Apply calls f.
func (f Func) Apply(c *character.Character, path string, value int) int {
	return f(c, path, value)
}

// None passes every value through unchanged.
var None Overrider = Func(func(_ *character.Character, _ string, value int) int {
	return value
})

// Manual applies the tweaks stored on the character record. An override
// replaces the computed value; otherwise the bonus is added.
var Manual Overrider = Func(func(c *character.Character, path string, value int) int {
	if c == nil {
		return value
	}
	tw, ok := c.Tweaks.Lookup(path)
	if !ok {
		return value
	}
	if tw.Override != nil {
		return *tw.Override
	}
	return value + tw.Bonus
})

// Chain applies each overrider in order, feeding each the previous result.
// Nil entries are skipped.
func Chain(overriders ...Overrider) Overrider {
	return Func(func(c *character.Character, path string, value int) int {
		for _, o := range overriders {
			if o == nil {
				continue
			}
			value = o.Apply(c, path, value)
		}
		return value
	})
}

// Path joins a section and field into a dotted tweak path.
func Path(section, field string) string {
	return section + "." + field
}
