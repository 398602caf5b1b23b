// Package character defines the character sheet model and the pure rules that
// govern it. Every operation takes a Sheet and returns a new one; nothing here
// holds state between calls.
package character

import (
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// Sheet is a character's allocatable state.
//
// Attributes holds exactly one entry per ruleset attribute and Skills exactly
// one entry per catalog skill. Neither map carries a per-entry floor.
type Sheet struct {
	Attributes map[ruleset.Attribute]int
	Skills     map[string]int
	// Class is the selected class name; empty means none selected.
	Class string
}

// Clone returns a deep copy of s.
func (s Sheet) Clone() Sheet {
	out := Sheet{
		Attributes: make(map[ruleset.Attribute]int, len(s.Attributes)),
		Skills:     make(map[string]int, len(s.Skills)),
		Class:      s.Class,
	}
	for a, v := range s.Attributes {
		out.Attributes[a] = v
	}
	for name, v := range s.Skills {
		out.Skills[name] = v
	}
	return out
}

// AttributeTotal is the sum of all attribute scores.
func (s Sheet) AttributeTotal() int {
	total := 0
	for _, v := range s.Attributes {
		total += v
	}
	return total
}

// SkillTotal is the sum of all allocated skill points.
func (s Sheet) SkillTotal() int {
	total := 0
	for _, v := range s.Skills {
		total += v
	}
	return total
}

// Score returns the score of a.
//
// Precondition: a must be a ruleset attribute present on the sheet.
func (s Sheet) Score(a ruleset.Attribute) int {
	v, ok := s.Attributes[a]
	if !ok {
		panic("Sheet.Score: precondition violated: unknown attribute " + string(a))
	}
	return v
}
