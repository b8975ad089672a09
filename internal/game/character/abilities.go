package character

// AbilityScores holds the six raw ability score values for a character.
type AbilityScores struct {
	Strength     int `yaml:"strength" json:"strength"`
	Dexterity    int `yaml:"dexterity" json:"dexterity"`
	Constitution int `yaml:"constitution" json:"constitution"`
	Intelligence int `yaml:"intelligence" json:"intelligence"`
	Wisdom       int `yaml:"wisdom" json:"wisdom"`
	Charisma     int `yaml:"charisma" json:"charisma"`
}

// AbilityModifiers holds the derived modifier for each ability.
type AbilityModifiers struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Modifier returns floor((score - 10) / 2).
func Modifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// Modifiers derives every ability modifier from the raw scores.
func (a AbilityScores) Modifiers() AbilityModifiers {
	return AbilityModifiers{
		Strength:     Modifier(a.Strength),
		Dexterity:    Modifier(a.Dexterity),
		Constitution: Modifier(a.Constitution),
		Intelligence: Modifier(a.Intelligence),
		Wisdom:       Modifier(a.Wisdom),
		Charisma:     Modifier(a.Charisma),
	}
}

// ProficiencyBonus returns the proficiency bonus for a total character level:
// +2 at levels 1-4, rising by one every four levels to +6 at 17-20.
func ProficiencyBonus(totalLevel int) int {
	if totalLevel < 1 {
		return 2
	}
	return 2 + (totalLevel-1)/4
}
