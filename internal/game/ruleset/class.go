package ruleset

// ClassDefinition is a playable class and the minimum attribute scores it asks for.
// Requirements may name any subset of the attributes.
type ClassDefinition struct {
	Name         string            `yaml:"name"`
	Requirements map[Attribute]int `yaml:"requirements"`
}

// RequirementList returns the class requirements in attribute display order.
//
// Postcondition: Every returned entry has a key present in Requirements.
func (c ClassDefinition) RequirementList() []Requirement {
	out := make([]Requirement, 0, len(c.Requirements))
	for _, a := range attributeOrder {
		if minimum, ok := c.Requirements[a]; ok {
			out = append(out, Requirement{Attribute: a, Minimum: minimum})
		}
	}
	return out
}

// Requirement is a single attribute minimum of a class.
type Requirement struct {
	Attribute Attribute
	Minimum   int
}

func (c ClassDefinition) clone() ClassDefinition {
	reqs := make(map[Attribute]int, len(c.Requirements))
	for a, v := range c.Requirements {
		reqs[a] = v
	}
	return ClassDefinition{Name: c.Name, Requirements: reqs}
}
