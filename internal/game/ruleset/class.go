package ruleset

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// MaxPowerLevelField is the level-table column holding a class's highest
// accessible power tier.
const MaxPowerLevelField = "Max Power Level"

// ErrLevelOutOfRange is returned when a level table has no row for the
// requested level. Class and archetype tables are expected to cover 1-20, so
// this indicates corrupt reference data rather than bad user input.
var ErrLevelOutOfRange = errors.New("level outside rule table")

// Class is one casting row of a playable class. A class that casts both Tech
// and Force powers has two rows sharing a Name.
//
// Precondition: Name must be non-empty after loading.
type Class struct {
	Name         string                    `yaml:"name"`
	Description  string                    `yaml:"description"`
	CasterType   CasterType                `yaml:"caster_type"`
	CasterRatio  Ratio                     `yaml:"caster_ratio"`
	LevelChanges map[int]map[string]string `yaml:"level_changes"`
}

// Field returns the value of key in the level row.
//
// Postcondition: Returns ErrLevelOutOfRange if the table has no such row;
// a present row without key yields "".
func (c *Class) Field(level int, key string) (string, error) {
	row, ok := c.LevelChanges[level]
	if !ok {
		return "", fmt.Errorf("class %q level %d: %w", c.Name, level, ErrLevelOutOfRange)
	}
	return row[key], nil
}

// MaxPowerLevel returns the power tier listed for level.
func (c *Class) MaxPowerLevel(level int) (int, error) {
	v, err := c.Field(level, MaxPowerLevelField)
	if err != nil {
		return 0, err
	}
	return ParseTier(v), nil
}

// ParseTier reads the leading integer of a tier cell such as "3rd" or "9".
// Cells without leading digits ("—", "") are tier 0.
func ParseTier(s string) int {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		end = len(s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// LoadClasses reads all .yaml files in dir and parses each as a Class.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed classes (may be empty slice) or a non-nil error.
func LoadClasses(dir string) ([]*Class, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	classes := make([]*Class, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var c Class
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing class file %s: %w", path, err)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("class file %s: name must not be empty", path)
		}
		classes = append(classes, &c)
	}
	return classes, nil
}
