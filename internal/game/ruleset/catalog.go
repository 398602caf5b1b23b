package ruleset

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	classesFile = "classes.yaml"
	skillsFile  = "skills.yaml"
)

//go:embed data/*.yaml
var embedded embed.FS

// Catalog is the immutable rules reference data. All accessors return copies.
type Catalog struct {
	classes     []ClassDefinition
	skills      []SkillDefinition
	classByName map[string]int
	skillByName map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the catalog compiled into the binary. It is parsed once.
//
// Postcondition: Returns a non-nil Catalog. Panics if the embedded data is invalid.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			panic(fmt.Sprintf("ruleset: embedded data: %v", err))
		}
		c, err := LoadCatalogFS(sub)
		if err != nil {
			panic(fmt.Sprintf("ruleset: embedded data: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadCatalog reads classes.yaml and skills.yaml from dir.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalog(dir string) (*Catalog, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	return LoadCatalogFS(os.DirFS(dir))
}

// LoadCatalogFS reads classes.yaml and skills.yaml from the root of fsys.
//
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFS(fsys fs.FS) (*Catalog, error) {
	var classes []ClassDefinition
	if err := readYAML(fsys, classesFile, &classes); err != nil {
		return nil, err
	}
	var skills []SkillDefinition
	if err := readYAML(fsys, skillsFile, &skills); err != nil {
		return nil, err
	}
	return NewCatalog(classes, skills)
}

func readYAML(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// NewCatalog validates and indexes class and skill definitions.
//
// Postcondition: Returns a Catalog, or an error listing every invalid entry:
// empty or duplicate names, and attributes outside the six known ones.
func NewCatalog(classes []ClassDefinition, skills []SkillDefinition) (*Catalog, error) {
	c := &Catalog{
		classes:     make([]ClassDefinition, 0, len(classes)),
		skills:      make([]SkillDefinition, 0, len(skills)),
		classByName: make(map[string]int, len(classes)),
		skillByName: make(map[string]int, len(skills)),
	}
	var errs []error

	for i, cls := range classes {
		if cls.Name == "" {
			errs = append(errs, fmt.Errorf("class %d: name must not be empty", i))
			continue
		}
		if _, dup := c.classByName[cls.Name]; dup {
			errs = append(errs, fmt.Errorf("class %q: duplicate name", cls.Name))
			continue
		}
		for a := range cls.Requirements {
			if !a.Valid() {
				errs = append(errs, fmt.Errorf("class %q: unknown attribute %q", cls.Name, a))
			}
		}
		c.classByName[cls.Name] = len(c.classes)
		c.classes = append(c.classes, cls.clone())
	}

	for i, sk := range skills {
		if sk.Name == "" {
			errs = append(errs, fmt.Errorf("skill %d: name must not be empty", i))
			continue
		}
		if _, dup := c.skillByName[sk.Name]; dup {
			errs = append(errs, fmt.Errorf("skill %q: duplicate name", sk.Name))
			continue
		}
		if !sk.Attribute.Valid() {
			errs = append(errs, fmt.Errorf("skill %q: unknown attribute %q", sk.Name, sk.Attribute))
		}
		c.skillByName[sk.Name] = len(c.skills)
		c.skills = append(c.skills, sk)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid ruleset: %w", errors.Join(errs...))
	}
	return c, nil
}

// AttributeNames returns the six attributes in display order.
func (c *Catalog) AttributeNames() []Attribute {
	return Attributes()
}

// ClassDefinitions returns every class in catalog order.
func (c *Catalog) ClassDefinitions() []ClassDefinition {
	out := make([]ClassDefinition, len(c.classes))
	for i, cls := range c.classes {
		out[i] = cls.clone()
	}
	return out
}

// SkillDefinitions returns every skill in catalog order.
func (c *Catalog) SkillDefinitions() []SkillDefinition {
	out := make([]SkillDefinition, len(c.skills))
	copy(out, c.skills)
	return out
}

// Class returns the named class.
//
// Postcondition: Returns the definition and true, or a zero value and false if unknown.
func (c *Catalog) Class(name string) (ClassDefinition, bool) {
	i, ok := c.classByName[name]
	if !ok {
		return ClassDefinition{}, false
	}
	return c.classes[i].clone(), true
}

// Skill returns the named skill.
//
// Postcondition: Returns the definition and true, or a zero value and false if unknown.
func (c *Catalog) Skill(name string) (SkillDefinition, bool) {
	i, ok := c.skillByName[name]
	if !ok {
		return SkillDefinition{}, false
	}
	return c.skills[i], true
}

// HasSkill reports whether name is a catalog skill.
func (c *Catalog) HasSkill(name string) bool {
	_, ok := c.skillByName[name]
	return ok
}
