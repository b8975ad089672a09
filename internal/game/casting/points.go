package casting

import (
	"github.com/cory-johannsen/powercast/internal/game/character"
	"github.com/cory-johannsen/powercast/internal/game/ruleset"
)

type pointYield func(levels int) int

func perLevel(n int) pointYield {
	return func(levels int) int { return levels * n }
}

// halfRoundedUp is ceil(levels / 2) for non-negative levels.
func halfRoundedUp(levels int) int {
	return (levels + 1) / 2
}

// pointYields gives the power points each caster ratio grants per caster type.
// Tech yields about half of Force except at 2/3, where both yield 3 per level.
var pointYields = map[ruleset.Ratio]map[ruleset.CasterType]pointYield{
	ruleset.RatioThird: {
		ruleset.Tech:  halfRoundedUp,
		ruleset.Force: perLevel(1),
	},
	ruleset.RatioHalf: {
		ruleset.Tech:  perLevel(1),
		ruleset.Force: perLevel(2),
	},
	ruleset.RatioTwoThirds: {
		ruleset.Tech:  perLevel(3),
		ruleset.Force: perLevel(3),
	},
	ruleset.RatioFull: {
		ruleset.Tech:  perLevel(2),
		ruleset.Force: perLevel(4),
	},
}

// PowerPoints returns abilityBonus plus the points every class entry yields
// for ct. Ratios outside the yield table contribute nothing.
func PowerPoints(cat *ruleset.Catalog, classes []character.ClassEntry, abilityBonus int, ct ruleset.CasterType) int {
	total := abilityBonus
	for _, e := range classes {
		ratio := resolve(cat, e, ct).ratio()
		if yield, ok := pointYields[ratio][ct]; ok {
			total += yield(e.Levels)
		}
	}
	return total
}
