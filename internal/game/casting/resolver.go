package casting

import (
	"github.com/cory-johannsen/powercast/internal/game/character"
	"github.com/cory-johannsen/powercast/internal/game/ruleset"
)

// potentialLevel is the level whose table row defines a class's tier potential.
const potentialLevel = 20

// rule is the casting rule that governs one class entry for one caster type.
// The archetype row, when present, overrides the class row.
type rule struct {
	class     *ruleset.Class
	archetype *ruleset.Archetype
}

// resolve looks up the class and archetype rows for e. Either may be nil.
func resolve(cat *ruleset.Catalog, e character.ClassEntry, ct ruleset.CasterType) rule {
	var r rule
	if c, ok := cat.Class(e.Name, ct); ok {
		r.class = c
	}
	if name := e.ArchetypeName(); name != "" {
		if a, ok := cat.Archetype(name, ct); ok {
			r.archetype = a
		}
	}
	return r
}

// ratio returns the archetype's ratio if it has a row, else the class's, else 0.
func (r rule) ratio() ruleset.Ratio {
	switch {
	case r.archetype != nil:
		return r.archetype.CasterRatio
	case r.class != nil:
		return r.class.CasterRatio
	default:
		return ruleset.RatioNone
	}
}

// potential returns the tier reachable at level 20: the archetype's own table
// when it has one, else the class table, else 0.
func (r rule) potential() (int, error) {
	if r.archetype != nil && r.archetype.HasTable() {
		return r.archetype.MaxPowerLevel(potentialLevel)
	}
	if r.class != nil {
		return r.class.MaxPowerLevel(potentialLevel)
	}
	return 0, nil
}
