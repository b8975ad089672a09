package ruleset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Power is a single Tech or Force power from the power catalog.
type Power struct {
	Name           string     `yaml:"name" json:"name"`
	PowerType      CasterType `yaml:"power_type" json:"powerType"`
	Level          int        `yaml:"level" json:"level"`
	ForceAlignment string     `yaml:"force_alignment" json:"forceAlignment,omitempty"` // "Light", "Dark", "Universal"; empty for Tech
	CastingPeriod  string     `yaml:"casting_period" json:"castingPeriod,omitempty"`
	Range          string     `yaml:"range" json:"range,omitempty"`
	Duration       string     `yaml:"duration" json:"duration,omitempty"`
	Concentration  bool       `yaml:"concentration" json:"concentration"`
	Prerequisite   string     `yaml:"prerequisite" json:"prerequisite,omitempty"`
	Description    string     `yaml:"description" json:"description,omitempty"`
	ContentSource  string     `yaml:"content_source" json:"contentSource,omitempty"`
}

// LoadPowers reads all .yaml files in dir. Each file holds a sequence of powers.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns the powers in file then document order, or a non-nil error.
func LoadPowers(dir string) ([]*Power, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	var powers []*Power
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var batch []*Power
		if err := yaml.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("parsing power file %s: %w", path, err)
		}
		for i, p := range batch {
			if p == nil || p.Name == "" {
				return nil, fmt.Errorf("power file %s entry %d: name must not be empty", path, i)
			}
		}
		powers = append(powers, batch...)
	}
	return powers, nil
}
