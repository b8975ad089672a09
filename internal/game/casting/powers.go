package casting

import (
	"github.com/cory-johannsen/powercast/internal/game/character"
	"github.com/cory-johannsen/powercast/internal/game/ruleset"
)

// KnownPowers resolves the powers a character knows for ct: for each class
// entry its class list then its archetype list, then the custom list.
// Names missing from the catalog are dropped and returned in dropped, in the
// order encountered. Duplicates are kept.
func KnownPowers(cat *ruleset.Catalog, classes []character.ClassEntry, custom []string, ct ruleset.CasterType) (known []*ruleset.Power, dropped []string) {
	known = make([]*ruleset.Power, 0)
	add := func(names []string) {
		for _, name := range names {
			if p, ok := cat.Power(name); ok {
				known = append(known, p)
			} else {
				dropped = append(dropped, name)
			}
		}
	}
	for _, e := range classes {
		add(e.ClassPowers(ct))
		add(e.ArchetypePowers(ct))
	}
	add(custom)
	return known, dropped
}

// allForcePowerNames lists custom Force powers followed by every class entry's
// own Force power names, resolved or not.
func allForcePowerNames(c *character.Character) []string {
	names := make([]string, 0, len(c.CustomForcePowers))
	names = append(names, c.CustomForcePowers...)
	for _, e := range c.Classes {
		names = append(names, e.ForcePowers...)
	}
	return names
}
