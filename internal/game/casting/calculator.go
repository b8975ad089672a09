// Package casting computes a character's Tech and Force casting statistics
// from class levels, archetype choices, ability modifiers, and rule tables.
package casting

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/powercast/internal/game/character"
	"github.com/cory-johannsen/powercast/internal/game/ruleset"
	"github.com/cory-johannsen/powercast/internal/game/tweak"
)

const (
	techSection  = "techCasting"
	forceSection = "forceCasting"
	baseSaveDC   = 8
)

// Calculator computes casting summaries against a fixed rule catalog.
//
// Calculator holds no mutable state and is safe for concurrent use provided
// the injected Overrider is.
type Calculator struct {
	catalog   *ruleset.Catalog
	overrider tweak.Overrider
	logger    *zap.Logger
}

// NewCalculator creates a Calculator.
//
// Precondition: cat must be non-nil. A nil overrider passes values through;
// a nil logger discards diagnostics.
func NewCalculator(cat *ruleset.Catalog, overrider tweak.Overrider, logger *zap.Logger) *Calculator {
	if cat == nil {
		panic("casting.NewCalculator: precondition violated: catalog must be non-nil")
	}
	if overrider == nil {
		overrider = tweak.None
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{catalog: cat, overrider: overrider, logger: logger}
}

// Calculate builds the casting summary for c.
//
// Precondition: c must be non-nil; its class entries must each have Levels >= 1.
// Postcondition: Returns the Result, or an error wrapping
// ruleset.ErrLevelOutOfRange if a rule table lacks a required row. Missing
// classes, archetypes, and powers are reported in Result.Diagnostics.
func (calc *Calculator) Calculate(c *character.Character, mods character.AbilityModifiers, proficiency int) (*Result, error) {
	diags := calc.missingRules(c)

	tech, techDiags, err := calc.techCasting(c, mods, proficiency)
	if err != nil {
		return nil, fmt.Errorf("tech casting for %q: %w", c.Name, err)
	}
	force, forceDiags, err := calc.forceCasting(c, mods, proficiency)
	if err != nil {
		return nil, fmt.Errorf("force casting for %q: %w", c.Name, err)
	}
	diags = append(diags, techDiags...)
	diags = append(diags, forceDiags...)

	calc.logger.Debug("casting calculated",
		zap.String("character", c.Name),
		zap.Bool("tech", tech != nil),
		zap.Bool("force", force != nil),
		zap.Int("diagnostics", len(diags)),
	)

	return &Result{
		TechCasting:      tech,
		ForceCasting:     force,
		HighLevelCasting: c.CurrentStats.HighLevelCasting,
		AllForcePowers:   allForcePowerNames(c),
		Diagnostics:      diags,
	}, nil
}

func (calc *Calculator) techCasting(c *character.Character, mods character.AbilityModifiers, proficiency int) (*TechCasting, []Diagnostic, error) {
	const ct = ruleset.Tech
	bonus := mods.Intelligence

	maxPowerLevel, err := MaxPowerLevel(calc.catalog, c.Classes, ct)
	if err != nil {
		return nil, nil, err
	}
	known, diags := calc.knownPowers(c, ct)
	if !reachesThreshold(EffectiveLevel(calc.catalog, c.Classes, ct)) && len(known) == 0 {
		return nil, diags, nil
	}

	return &TechCasting{
		PointsUsed:     c.CurrentStats.TechPointsUsed,
		MaxPoints:      calc.tweak(c, techSection, "maxPoints", PowerPoints(calc.catalog, c.Classes, bonus, ct)),
		AttackModifier: calc.tweak(c, techSection, "attackModifier", bonus+proficiency),
		SaveDC:         calc.tweak(c, techSection, "saveDC", baseSaveDC+bonus+proficiency),
		MaxPowerLevel:  calc.tweak(c, techSection, "maxPowerLevel", maxPowerLevel),
		PowersKnown:    known,
	}, diags, nil
}

func (calc *Calculator) forceCasting(c *character.Character, mods character.AbilityModifiers, proficiency int) (*ForceCasting, []Diagnostic, error) {
	const ct = ruleset.Force
	light, dark := mods.Wisdom, mods.Charisma
	universal := max(light, dark)

	maxPowerLevel, err := MaxPowerLevel(calc.catalog, c.Classes, ct)
	if err != nil {
		return nil, nil, err
	}
	known, diags := calc.knownPowers(c, ct)
	if !reachesThreshold(EffectiveLevel(calc.catalog, c.Classes, ct)) && len(known) == 0 {
		return nil, diags, nil
	}

	return &ForceCasting{
		PointsUsed:              c.CurrentStats.ForcePointsUsed,
		MaxPoints:               calc.tweak(c, forceSection, "maxPoints", PowerPoints(calc.catalog, c.Classes, universal, ct)),
		LightAttackModifier:     calc.tweak(c, forceSection, "lightAttackModifier", light+proficiency),
		LightSaveDC:             calc.tweak(c, forceSection, "lightSaveDC", baseSaveDC+light+proficiency),
		DarkAttackModifier:      calc.tweak(c, forceSection, "darkAttackModifier", dark+proficiency),
		DarkSaveDC:              calc.tweak(c, forceSection, "darkSaveDC", baseSaveDC+dark+proficiency),
		UniversalAttackModifier: calc.tweak(c, forceSection, "universalAttackModifier", universal+proficiency),
		UniversalSaveDC:         calc.tweak(c, forceSection, "universalSaveDC", baseSaveDC+universal+proficiency),
		MaxPowerLevel:           calc.tweak(c, forceSection, "maxPowerLevel", maxPowerLevel),
		PowersKnown:             known,
	}, diags, nil
}

func (calc *Calculator) tweak(c *character.Character, section, field string, value int) int {
	return calc.overrider.Apply(c, tweak.Path(section, field), value)
}

// knownPowers resolves the powers for ct and reports each dropped name.
func (calc *Calculator) knownPowers(c *character.Character, ct ruleset.CasterType) ([]*ruleset.Power, []Diagnostic) {
	known, dropped := KnownPowers(calc.catalog, c.Classes, c.CustomPowers(ct), ct)
	diags := make([]Diagnostic, 0, len(dropped))
	for _, name := range dropped {
		calc.logger.Warn("power not found",
			zap.String("character", c.Name),
			zap.String("power", name),
			zap.String("caster_type", string(ct)),
		)
		diags = append(diags, Diagnostic{Kind: MissingPower, Name: name, CasterType: ct})
	}
	return known, diags
}

// missingRules reports class and archetype names with no rule row of any
// caster type. Each name is reported once.
func (calc *Calculator) missingRules(c *character.Character) []Diagnostic {
	var diags []Diagnostic
	seen := make(map[Diagnostic]bool)
	report := func(d Diagnostic) {
		if seen[d] {
			return
		}
		seen[d] = true
		calc.logger.Warn(string(d.Kind)+" not found",
			zap.String("character", c.Name),
			zap.String("name", d.Name),
		)
		diags = append(diags, d)
	}
	for _, e := range c.Classes {
		if !calc.catalog.HasClass(e.Name) {
			report(Diagnostic{Kind: MissingClass, Name: e.Name})
		}
		if name := e.ArchetypeName(); name != "" && !calc.catalog.HasArchetype(name) {
			report(Diagnostic{Kind: MissingArchetype, Name: name})
		}
	}
	return diags
}
