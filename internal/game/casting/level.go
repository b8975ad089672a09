package casting

import (
	"github.com/cory-johannsen/powercast/internal/game/character"
	"github.com/cory-johannsen/powercast/internal/game/ruleset"
)

// CastingThreshold is the effective caster level at which a character gains a
// casting branch without knowing any powers.
var CastingThreshold = ruleset.NewRatio(3, 5)

// EffectiveLevel sums levels x ratio across class entries for ct.
//
// Postcondition: Returns a non-negative Ratio; single-class exceptions such as
// a first-level Guardian's Force level take precedence over the sum.
func EffectiveLevel(cat *ruleset.Catalog, classes []character.ClassEntry, ct ruleset.CasterType) ruleset.Ratio {
	if level, ok := casterLevelOverride(classes, ct); ok {
		return level
	}
	total := ruleset.RatioNone
	for _, e := range classes {
		total = total.Add(resolve(cat, e, ct).ratio().Mul(e.Levels))
	}
	return total
}

// reachesThreshold reports whether level is at least CastingThreshold.
func reachesThreshold(level ruleset.Ratio) bool {
	return level.Cmp(CastingThreshold) >= 0
}
