package ruleset

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrUnknownClass is returned when a named class has no rule row at all.
var ErrUnknownClass = errors.New("unknown class")

type ruleKey struct {
	name       string
	casterType CasterType
}

// Catalog indexes the static rule tables: class and archetype rows keyed by
// (name, caster type), and powers keyed by name. It is read-only once built
// and safe for concurrent readers.
type Catalog struct {
	classes        map[ruleKey]*Class
	archetypes     map[ruleKey]*Archetype
	powers         map[string]*Power
	classNames     map[string]bool
	archetypeNames map[string]bool
	reference      *Class
}

// NewCatalog returns an empty Catalog.
//
// Postcondition: Returns a non-nil *Catalog ready to accept registrations.
func NewCatalog() *Catalog {
	return &Catalog{
		classes:        make(map[ruleKey]*Class),
		archetypes:     make(map[ruleKey]*Archetype),
		powers:         make(map[string]*Power),
		classNames:     make(map[string]bool),
		archetypeNames: make(map[string]bool),
	}
}

// RegisterClass adds a class row.
//
// Precondition: c must be non-nil with a non-empty Name.
// Postcondition: if called twice for the same (Name, CasterType), the last call wins.
func (cat *Catalog) RegisterClass(c *Class) {
	if c == nil {
		panic("Catalog.RegisterClass: precondition violated: class must be non-nil")
	}
	if c.Name == "" {
		panic("Catalog.RegisterClass: precondition violated: class name must be non-empty")
	}
	cat.classes[ruleKey{c.Name, c.CasterType}] = c
	cat.classNames[c.Name] = true
}

// RegisterArchetype adds an archetype row.
//
// Precondition: a must be non-nil with a non-empty Name.
// Postcondition: if called twice for the same (Name, CasterType), the last call wins.
func (cat *Catalog) RegisterArchetype(a *Archetype) {
	if a == nil {
		panic("Catalog.RegisterArchetype: precondition violated: archetype must be non-nil")
	}
	if a.Name == "" {
		panic("Catalog.RegisterArchetype: precondition violated: archetype name must be non-empty")
	}
	cat.archetypes[ruleKey{a.Name, a.CasterType}] = a
	cat.archetypeNames[a.Name] = true
}

// RegisterPower adds a power to the catalog.
//
// Precondition: p must be non-nil with a non-empty Name.
// Postcondition: the first power registered under a name is kept; later
// duplicates are ignored.
func (cat *Catalog) RegisterPower(p *Power) {
	if p == nil {
		panic("Catalog.RegisterPower: precondition violated: power must be non-nil")
	}
	if p.Name == "" {
		panic("Catalog.RegisterPower: precondition violated: power name must be non-empty")
	}
	if _, exists := cat.powers[p.Name]; exists {
		return
	}
	cat.powers[p.Name] = p
}

// Class returns the class row for name and caster type.
func (cat *Catalog) Class(name string, ct CasterType) (*Class, bool) {
	c, ok := cat.classes[ruleKey{name, ct}]
	return c, ok
}

// Archetype returns the archetype row for name and caster type.
func (cat *Catalog) Archetype(name string, ct CasterType) (*Archetype, bool) {
	a, ok := cat.archetypes[ruleKey{name, ct}]
	return a, ok
}

// Power returns the power with the given name.
func (cat *Catalog) Power(name string) (*Power, bool) {
	p, ok := cat.powers[name]
	return p, ok
}

// HasClass reports whether any row, casting or not, exists for the class name.
func (cat *Catalog) HasClass(name string) bool {
	return cat.classNames[name]
}

// HasArchetype reports whether any row exists for the archetype name.
func (cat *Catalog) HasArchetype(name string) bool {
	return cat.archetypeNames[name]
}

// SetReference designates the class whose level table calibrates multiclass
// max power level. The Force row is preferred, then Tech, then a non-casting row.
//
// Postcondition: Returns ErrUnknownClass if no row exists for name.
func (cat *Catalog) SetReference(name string) error {
	for _, ct := range []CasterType{Force, Tech, NonCaster} {
		if c, ok := cat.Class(name, ct); ok {
			cat.reference = c
			return nil
		}
	}
	return fmt.Errorf("reference class %q: %w", name, ErrUnknownClass)
}

// Reference returns the reference class, or nil when none is configured.
func (cat *Catalog) Reference() *Class {
	return cat.reference
}

// Counts returns the number of class rows, archetype rows, and powers.
func (cat *Catalog) Counts() (classes, archetypes, powers int) {
	return len(cat.classes), len(cat.archetypes), len(cat.powers)
}

// LoadCatalog loads dir/classes, dir/archetypes, and dir/powers into a new
// Catalog. An empty referenceClass leaves the catalog without a reference.
//
// Precondition: dir must contain the three subdirectories.
// Postcondition: Returns a populated Catalog or a non-nil error.
func LoadCatalog(dir, referenceClass string) (*Catalog, error) {
	classes, err := LoadClasses(filepath.Join(dir, "classes"))
	if err != nil {
		return nil, fmt.Errorf("loading classes: %w", err)
	}
	archetypes, err := LoadArchetypes(filepath.Join(dir, "archetypes"))
	if err != nil {
		return nil, fmt.Errorf("loading archetypes: %w", err)
	}
	powers, err := LoadPowers(filepath.Join(dir, "powers"))
	if err != nil {
		return nil, fmt.Errorf("loading powers: %w", err)
	}

	cat := NewCatalog()
	for _, c := range classes {
		cat.RegisterClass(c)
	}
	for _, a := range archetypes {
		cat.RegisterArchetype(a)
	}
	for _, p := range powers {
		cat.RegisterPower(p)
	}
	if referenceClass != "" {
		if err := cat.SetReference(referenceClass); err != nil {
			return nil, err
		}
	}
	return cat, nil
}
