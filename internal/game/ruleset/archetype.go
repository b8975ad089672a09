package ruleset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TableEntry is one key/value cell of an archetype's leveled table.
type TableEntry struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Archetype is one casting row of a class archetype. When LeveledTable is
// present it replaces the parent class's level table for this caster type.
//
// Precondition: Name must be non-empty after loading.
type Archetype struct {
	Name         string               `yaml:"name"`
	ClassName    string               `yaml:"class_name"`
	Description  string               `yaml:"description"`
	CasterType   CasterType           `yaml:"caster_type"`
	CasterRatio  Ratio                `yaml:"caster_ratio"`
	LeveledTable map[int][]TableEntry `yaml:"leveled_table"`
}

// HasTable reports whether the archetype carries its own leveled table.
func (a *Archetype) HasTable() bool {
	return len(a.LeveledTable) > 0
}

// Field returns the value stored under key in the level row and whether the
// key was present.
//
// Postcondition: Returns ErrLevelOutOfRange if the table has no such row.
func (a *Archetype) Field(level int, key string) (string, bool, error) {
	row, ok := a.LeveledTable[level]
	if !ok {
		return "", false, fmt.Errorf("archetype %q level %d: %w", a.Name, level, ErrLevelOutOfRange)
	}
	for _, e := range row {
		if e.Key == key {
			return e.Value, true, nil
		}
	}
	return "", false, nil
}

// MaxPowerLevel returns the power tier in the level row, or 0 when the row
// has no Max Power Level cell.
func (a *Archetype) MaxPowerLevel(level int) (int, error) {
	v, ok, err := a.Field(level, MaxPowerLevelField)
	if err != nil || !ok {
		return 0, err
	}
	return ParseTier(v), nil
}

// LoadArchetypes reads all .yaml files in dir and parses each as an Archetype.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed archetypes (may be empty slice) or a non-nil error.
func LoadArchetypes(dir string) ([]*Archetype, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	archetypes := make([]*Archetype, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var a Archetype
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("parsing archetype file %s: %w", path, err)
		}
		if a.Name == "" {
			return nil, fmt.Errorf("archetype file %s: name must not be empty", path)
		}
		archetypes = append(archetypes, &a)
	}
	return archetypes, nil
}
