package character

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// BaseAttributeScore is the starting score of every attribute.
const BaseAttributeScore = 10

// NewSheet returns the default sheet: every attribute at 10, every catalog skill at 0,
// no class selected.
//
// Precondition: cat must be non-nil.
// Postcondition: Attribute total is 60 and skill total is 0.
func NewSheet(cat *ruleset.Catalog) Sheet {
	s := Sheet{
		Attributes: make(map[ruleset.Attribute]int, 6),
		Skills:     make(map[string]int),
	}
	for _, a := range cat.AttributeNames() {
		s.Attributes[a] = BaseAttributeScore
	}
	for _, sk := range cat.SkillDefinitions() {
		s.Skills[sk.Name] = 0
	}
	return s
}

// Record is the transport shape of a sheet: string-keyed attribute scores and
// skill points, as exchanged with the remote store.
type Record struct {
	Attributes  map[string]int `json:"attributes"`
	SkillPoints map[string]int `json:"skillPoints"`
}

// ToRecord converts s to its transport shape. The class selection is not transmitted.
func ToRecord(s Sheet) Record {
	rec := Record{
		Attributes:  make(map[string]int, len(s.Attributes)),
		SkillPoints: make(map[string]int, len(s.Skills)),
	}
	for a, v := range s.Attributes {
		rec.Attributes[string(a)] = v
	}
	for name, v := range s.Skills {
		rec.SkillPoints[name] = v
	}
	return rec
}

// FromRecord builds a complete sheet from a possibly partial record.
// Attributes and skills absent from rec keep their defaults; names unknown to
// the ruleset are rejected so the sheet never carries keys outside the catalog.
//
// Precondition: cat must be non-nil.
// Postcondition: Returns a Sheet with one entry per attribute and per catalog skill,
// or an error wrapping ErrUnknownAttribute and/or ErrUnknownSkill.
func FromRecord(cat *ruleset.Catalog, rec Record) (Sheet, error) {
	s := NewSheet(cat)
	var errs []error

	for _, name := range sortedKeys(rec.Attributes) {
		a := ruleset.Attribute(name)
		if !a.Valid() {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownAttribute, name))
			continue
		}
		s.Attributes[a] = rec.Attributes[name]
	}
	for _, name := range sortedKeys(rec.SkillPoints) {
		if !cat.HasSkill(name) {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownSkill, name))
			continue
		}
		s.Skills[name] = rec.SkillPoints[name]
	}

	if len(errs) > 0 {
		return Sheet{}, errors.Join(errs...)
	}
	return s, nil
}

// MissingKeys lists the attributes and skills that rec does not carry, for
// callers that want to report a partial record.
func MissingKeys(cat *ruleset.Catalog, rec Record) []string {
	var missing []string
	for _, a := range cat.AttributeNames() {
		if _, ok := rec.Attributes[string(a)]; !ok {
			missing = append(missing, string(a))
		}
	}
	for _, sk := range cat.SkillDefinitions() {
		if _, ok := rec.SkillPoints[sk.Name]; !ok {
			missing = append(missing, sk.Name)
		}
	}
	return missing
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
