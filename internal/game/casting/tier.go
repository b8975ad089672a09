package casting

import (
	"fmt"

	"github.com/cory-johannsen/powercast/internal/game/character"
	"github.com/cory-johannsen/powercast/internal/game/ruleset"
)

// tierDivisor normalizes a class's tier potential against the reference
// progression: a class reaching tier 9 blends at one level per class level.
const tierDivisor = 9

// MaxPowerLevel returns the highest power tier the character can access for ct.
//
// A single class listed in ownTierTableClasses reads its own table at its
// level. Otherwise each entry contributes levels x potential / 9 to a blended
// level, whose floor (minimum 1) indexes the catalog's reference class table.
// Without a reference class, or with nothing blended, the result is 0.
//
// Postcondition: Returns an error wrapping ruleset.ErrLevelOutOfRange when a
// table lacks the row being read.
func MaxPowerLevel(cat *ruleset.Catalog, classes []character.ClassEntry, ct ruleset.CasterType) (int, error) {
	if e, ok := ownTierTableClass(classes); ok {
		c, ok := cat.Class(e.Name, ct)
		if !ok {
			return 0, nil
		}
		return c.MaxPowerLevel(e.Levels)
	}

	blended := ruleset.RatioNone
	for _, e := range classes {
		potential, err := resolve(cat, e, ct).potential()
		if err != nil {
			return 0, fmt.Errorf("tier potential of %q: %w", e.Name, err)
		}
		term := ruleset.NewRatio(e.Levels*potential, tierDivisor)
		if term.Cmp(ruleset.RatioNone) > 0 {
			blended = blended.Add(term)
		}
	}

	ref := cat.Reference()
	if ref == nil || blended.Cmp(ruleset.RatioNone) <= 0 {
		return 0, nil
	}
	return ref.MaxPowerLevel(max(1, blended.Floor()))
}
