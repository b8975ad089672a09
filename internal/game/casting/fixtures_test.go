package casting_test

import (
	"strconv"

	"github.com/cory-johannsen/powercast/internal/game/character"
	"github.com/cory-johannsen/powercast/internal/game/ruleset"
)

// progression builds a complete 1-20 level table from a tier function.
func progression(tier func(level int) int) map[int]map[string]string {
	t := make(map[int]map[string]string, 20)
	for lvl := 1; lvl <= 20; lvl++ {
		cell := "—"
		if n := tier(lvl); n > 0 {
			cell = ordinal(n)
		}
		t[lvl] = map[string]string{ruleset.MaxPowerLevelField: cell}
	}
	return t
}

func leveledTable(tier func(level int) int) map[int][]ruleset.TableEntry {
	t := make(map[int][]ruleset.TableEntry, 20)
	for lvl := 1; lvl <= 20; lvl++ {
		t[lvl] = []ruleset.TableEntry{
			{Key: "Powers Known", Value: strconv.Itoa(lvl)},
			{Key: ruleset.MaxPowerLevelField, Value: strconv.Itoa(tier(lvl))},
		}
	}
	return t
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return strconv.Itoa(n) + "th"
	}
}

func fullTier(level int) int      { return min(9, (level+1)/2) }
func twoThirdsTier(level int) int { return min(7, (level+2)/3) }
func halfTier(level int) int      { return min(5, level/4) }
func thirdTier(level int) int     { return level / 5 }

// newCatalog returns a small catalog with Consular as the reference class.
func newCatalog() *ruleset.Catalog {
	cat := ruleset.NewCatalog()
	for _, c := range []*ruleset.Class{
		{Name: "Consular", CasterType: ruleset.Force, CasterRatio: ruleset.RatioFull, LevelChanges: progression(fullTier)},
		{Name: "Engineer", CasterType: ruleset.Tech, CasterRatio: ruleset.RatioFull, LevelChanges: progression(fullTier)},
		{Name: "Sentinel", CasterType: ruleset.Force, CasterRatio: ruleset.RatioTwoThirds, LevelChanges: progression(twoThirdsTier)},
		{Name: "Guardian", CasterType: ruleset.Force, CasterRatio: ruleset.RatioHalf, LevelChanges: progression(halfTier)},
		{Name: "Scout", CasterType: ruleset.Tech, CasterRatio: ruleset.RatioThird, LevelChanges: progression(thirdTier)},
		{Name: "Fighter", CasterType: ruleset.NonCaster, LevelChanges: progression(func(int) int { return 0 })},
	} {
		cat.RegisterClass(c)
	}
	for _, a := range []*ruleset.Archetype{
		{Name: "Tactical Specialist", ClassName: "Fighter", CasterType: ruleset.Tech, CasterRatio: ruleset.RatioThird, LeveledTable: leveledTable(thirdTier)},
		{Name: "Way of the Sage", ClassName: "Guardian", CasterType: ruleset.Force, CasterRatio: ruleset.RatioTwoThirds},
		{Name: "Acquisitions Practice", ClassName: "Consular", CasterType: ruleset.NonCaster},
	} {
		cat.RegisterArchetype(a)
	}
	for _, p := range []*ruleset.Power{
		{Name: "Force Push", PowerType: ruleset.Force, Level: 0, ForceAlignment: "Universal"},
		{Name: "Saber Throw", PowerType: ruleset.Force, Level: 0, ForceAlignment: "Universal"},
		{Name: "Battle Meditation", PowerType: ruleset.Force, Level: 1, ForceAlignment: "Light"},
		{Name: "Force Lightning", PowerType: ruleset.Force, Level: 1, ForceAlignment: "Dark"},
		{Name: "Electroshock", PowerType: ruleset.Tech, Level: 0},
		{Name: "Tracker Droid Interface", PowerType: ruleset.Tech, Level: 1},
		{Name: "Overload", PowerType: ruleset.Tech, Level: 0},
		{Name: "Encrypted Message", PowerType: ruleset.Tech, Level: 0},
	} {
		cat.RegisterPower(p)
	}
	if err := cat.SetReference("Consular"); err != nil {
		panic(err)
	}
	return cat
}

func entry(name string, levels int) character.ClassEntry {
	return character.ClassEntry{Name: name, Levels: levels}
}

func withArchetype(e character.ClassEntry, archetype string) character.ClassEntry {
	e.Archetype = &character.ArchetypeChoice{Name: archetype}
	return e
}

func powerNames(powers []*ruleset.Power) []string {
	names := make([]string, 0, len(powers))
	for _, p := range powers {
		names = append(names, p.Name)
	}
	return names
}
