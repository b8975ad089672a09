// Package character defines the character record consumed by the casting
// calculator and pure helpers derived from it.
package character

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/powercast/internal/game/ruleset"
)

// ArchetypeChoice is the archetype picked for a class entry together with the
// powers it grants.
type ArchetypeChoice struct {
	Name        string   `yaml:"name" json:"name"`
	TechPowers  []string `yaml:"tech_powers" json:"techPowers,omitempty"`
	ForcePowers []string `yaml:"force_powers" json:"forcePowers,omitempty"`
}

// ClassEntry is one class a character has levels in.
//
// Precondition: Name must be non-empty and Levels must be >= 1.
type ClassEntry struct {
	Name        string           `yaml:"name" json:"name"`
	Levels      int              `yaml:"levels" json:"levels"`
	Archetype   *ArchetypeChoice `yaml:"archetype" json:"archetype,omitempty"`
	TechPowers  []string         `yaml:"tech_powers" json:"techPowers,omitempty"`
	ForcePowers []string         `yaml:"force_powers" json:"forcePowers,omitempty"`
}

// ArchetypeName returns the chosen archetype's name, or "" when none is chosen.
func (e ClassEntry) ArchetypeName() string {
	if e.Archetype == nil {
		return ""
	}
	return e.Archetype.Name
}

// ClassPowers returns the power names the class itself grants for ct.
func (e ClassEntry) ClassPowers(ct ruleset.CasterType) []string {
	switch ct {
	case ruleset.Tech:
		return e.TechPowers
	case ruleset.Force:
		return e.ForcePowers
	}
	return nil
}

// ArchetypePowers returns the power names the chosen archetype grants for ct.
func (e ClassEntry) ArchetypePowers(ct ruleset.CasterType) []string {
	if e.Archetype == nil {
		return nil
	}
	switch ct {
	case ruleset.Tech:
		return e.Archetype.TechPowers
	case ruleset.Force:
		return e.Archetype.ForcePowers
	}
	return nil
}

// HighLevelCasting records which once-per-rest high level power slots are spent.
type HighLevelCasting struct {
	Level6 bool `yaml:"level6" json:"level6"`
	Level7 bool `yaml:"level7" json:"level7"`
	Level8 bool `yaml:"level8" json:"level8"`
	Level9 bool `yaml:"level9" json:"level9"`
}

// CurrentStats holds the mutable counters tracked between rests.
type CurrentStats struct {
	TechPointsUsed   int              `yaml:"tech_points_used" json:"techPointsUsed"`
	ForcePointsUsed  int              `yaml:"force_points_used" json:"forcePointsUsed"`
	HighLevelCasting HighLevelCasting `yaml:"high_level_casting" json:"highLevelCasting"`
}

// Tweak is a manual adjustment to one computed field. Override replaces the
// computed value; otherwise Bonus is added to it.
type Tweak struct {
	Override *int `yaml:"override" json:"override,omitempty"`
	Bonus    int  `yaml:"bonus" json:"bonus,omitempty"`
}

// Tweaks maps a section ("techCasting") to field names ("maxPoints") to tweaks.
type Tweaks map[string]map[string]Tweak

// Lookup returns the tweak stored under a dotted path such as
// "forceCasting.lightSaveDC".
func (t Tweaks) Lookup(path string) (Tweak, bool) {
	section, field, ok := strings.Cut(path, ".")
	if !ok {
		return Tweak{}, false
	}
	tw, ok := t[section][field]
	return tw, ok
}

// Character is the raw character record. ID and the timestamps are set by the
// persistence layer; a zero ID marks a character loaded from a file.
type Character struct {
	ID   uuid.UUID `yaml:"id" json:"id"`
	Name string    `yaml:"name" json:"name"`

	Classes           []ClassEntry  `yaml:"classes" json:"classes"`
	Abilities         AbilityScores `yaml:"ability_scores" json:"abilityScores"`
	CurrentStats      CurrentStats  `yaml:"current_stats" json:"currentStats"`
	CustomTechPowers  []string      `yaml:"custom_tech_powers" json:"customTechPowers"`
	CustomForcePowers []string      `yaml:"custom_force_powers" json:"customForcePowers"`
	Tweaks            Tweaks        `yaml:"tweaks" json:"tweaks,omitempty"`

	CreatedAt time.Time `yaml:"-" json:"createdAt"`
	UpdatedAt time.Time `yaml:"-" json:"updatedAt"`
}

// CustomPowers returns the feat- or species-granted power names for ct.
func (c *Character) CustomPowers(ct ruleset.CasterType) []string {
	switch ct {
	case ruleset.Tech:
		return c.CustomTechPowers
	case ruleset.Force:
		return c.CustomForcePowers
	}
	return nil
}

// TotalLevel returns the sum of levels across all class entries.
func (c *Character) TotalLevel() int {
	total := 0
	for _, e := range c.Classes {
		total += e.Levels
	}
	return total
}
