package character

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a single character record from a YAML file.
//
// Precondition: path must name a readable YAML file.
// Postcondition: Returns a Character whose class entries all have a name and
// at least one level, or a non-nil error.
func LoadFile(path string) (*Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var c Character
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing character file %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("character file %s: %w", path, err)
	}
	return &c, nil
}

// Validate checks the structural invariants of the class list.
func (c *Character) Validate() error {
	var errs []error
	for i, e := range c.Classes {
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("classes[%d]: name must not be empty", i))
		}
		if e.Levels < 1 {
			errs = append(errs, fmt.Errorf("classes[%d] %q: levels must be >= 1, got %d", i, e.Name, e.Levels))
		}
	}
	return errors.Join(errs...)
}
