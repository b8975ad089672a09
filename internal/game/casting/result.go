package casting

import (
	"encoding/json"

	"github.com/cory-johannsen/powercast/internal/game/character"
	"github.com/cory-johannsen/powercast/internal/game/ruleset"
)

// TechCasting is the Tech stat block.
type TechCasting struct {
	PointsUsed     int              `json:"pointsUsed"`
	MaxPoints      int              `json:"maxPoints"`
	AttackModifier int              `json:"attackModifier"`
	SaveDC         int              `json:"saveDC"`
	MaxPowerLevel  int              `json:"maxPowerLevel"`
	PowersKnown    []*ruleset.Power `json:"powersKnown"`
}

// ForceCasting is the Force stat block. Light powers key off Wisdom, dark off
// Charisma, and universal off the better of the two.
type ForceCasting struct {
	PointsUsed              int              `json:"pointsUsed"`
	MaxPoints               int              `json:"maxPoints"`
	LightAttackModifier     int              `json:"lightAttackModifier"`
	LightSaveDC             int              `json:"lightSaveDC"`
	DarkAttackModifier      int              `json:"darkAttackModifier"`
	DarkSaveDC              int              `json:"darkSaveDC"`
	UniversalAttackModifier int              `json:"universalAttackModifier"`
	UniversalSaveDC         int              `json:"universalSaveDC"`
	MaxPowerLevel           int              `json:"maxPowerLevel"`
	PowersKnown             []*ruleset.Power `json:"powersKnown"`
}

// DiagnosticKind names the catalog a missing reference was looked up in.
type DiagnosticKind string

const (
	MissingClass     DiagnosticKind = "class"
	MissingArchetype DiagnosticKind = "archetype"
	MissingPower     DiagnosticKind = "power"
)

// Diagnostic records reference data that could not be found. Missing data is
// never fatal: classes and archetypes contribute nothing and powers are dropped.
type Diagnostic struct {
	Kind       DiagnosticKind     `json:"kind"`
	Name       string             `json:"name"`
	CasterType ruleset.CasterType `json:"casterType,omitempty"`
}

// Result is the full casting summary. A nil branch means the character does
// not have that casting type and serializes as false.
type Result struct {
	TechCasting      *TechCasting               `json:"techCasting"`
	ForceCasting     *ForceCasting              `json:"forceCasting"`
	HighLevelCasting character.HighLevelCasting `json:"highLevelCasting"`
	AllForcePowers   []string                   `json:"allForcePowers"`
	Diagnostics      []Diagnostic               `json:"diagnostics,omitempty"`
}

// UnresolvedPowers returns the names of powers dropped from either branch.
func (r *Result) UnresolvedPowers() []string {
	var names []string
	for _, d := range r.Diagnostics {
		if d.Kind == MissingPower {
			names = append(names, d.Name)
		}
	}
	return names
}

// MarshalJSON writes an absent branch as false.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	out := struct {
		plain
		TechCasting  any `json:"techCasting"`
		ForceCasting any `json:"forceCasting"`
	}{plain: plain(r), TechCasting: false, ForceCasting: false}
	if r.TechCasting != nil {
		out.TechCasting = r.TechCasting
	}
	if r.ForceCasting != nil {
		out.ForceCasting = r.ForceCasting
	}
	return json.Marshal(out)
}
