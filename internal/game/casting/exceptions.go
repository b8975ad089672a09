package casting

import (
	"github.com/cory-johannsen/powercast/internal/game/character"
	"github.com/cory-johannsen/powercast/internal/game/ruleset"
)

// casterLevelException pins the effective caster level of a character whose
// only class entry matches class at exactly levels.
type casterLevelException struct {
	class      string
	levels     int
	casterType ruleset.CasterType
	level      ruleset.Ratio
}

var casterLevelExceptions = []casterLevelException{
	{class: "Guardian", levels: 1, casterType: ruleset.Force, level: ruleset.Int(1)},
}

// ownTierTableClasses read max power level from their own level table when
// taken as a single class, skipping multiclass blending.
var ownTierTableClasses = map[string]bool{
	"Sentinel": true,
}

func singleClass(classes []character.ClassEntry) (character.ClassEntry, bool) {
	if len(classes) != 1 {
		return character.ClassEntry{}, false
	}
	return classes[0], true
}

func casterLevelOverride(classes []character.ClassEntry, ct ruleset.CasterType) (ruleset.Ratio, bool) {
	e, ok := singleClass(classes)
	if !ok {
		return ruleset.RatioNone, false
	}
	for _, ex := range casterLevelExceptions {
		if ex.casterType == ct && ex.class == e.Name && ex.levels == e.Levels {
			return ex.level, true
		}
	}
	return ruleset.RatioNone, false
}

func ownTierTableClass(classes []character.ClassEntry) (character.ClassEntry, bool) {
	e, ok := singleClass(classes)
	if !ok || !ownTierTableClasses[e.Name] {
		return character.ClassEntry{}, false
	}
	return e, true
}
