package character

import (
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// MaxAttributePoints caps the sum of all attribute scores.
const MaxAttributePoints = 70

// Direction is the sign of a one-point adjustment.
type Direction int

const (
	Increment Direction = iota
	Decrement
)

func (d Direction) delta() int {
	if d == Increment {
		return 1
	}
	return -1
}

// String returns "+" or "-".
func (d Direction) String() string {
	if d == Increment {
		return "+"
	}
	return "-"
}

// AdjustAttribute moves attribute a by one point.
// An increment is refused once the attribute total has reached MaxAttributePoints.
// Decrements are always accepted, even below zero.
//
// Precondition: a must be one of the ruleset attributes.
// Postcondition: Returns a new Sheet, or the input unchanged and a *BudgetExceededError.
func AdjustAttribute(s Sheet, a ruleset.Attribute, dir Direction) (Sheet, error) {
	if !a.Valid() {
		panic("AdjustAttribute: precondition violated: unknown attribute " + string(a))
	}
	if dir == Increment {
		if total := s.AttributeTotal(); total >= MaxAttributePoints {
			return s, &BudgetExceededError{Pool: AttributePool, Total: total, Cap: MaxAttributePoints}
		}
	}
	out := s.Clone()
	out.Attributes[a] += dir.delta()
	return out, nil
}

// AdjustSkill moves the named skill by one point.
// An increment is refused once the skill total has reached SkillPointCap.
// Decrements are always accepted, even below zero.
//
// Precondition: skill must be a key of s.Skills.
// Postcondition: Returns a new Sheet, or the input unchanged and a *BudgetExceededError.
func AdjustSkill(s Sheet, skill string, dir Direction) (Sheet, error) {
	if _, ok := s.Skills[skill]; !ok {
		panic("AdjustSkill: precondition violated: unknown skill " + skill)
	}
	if dir == Increment {
		total, limit := s.SkillTotal(), SkillPointCap(s)
		if total >= limit {
			return s, &BudgetExceededError{Pool: SkillPool, Total: total, Cap: limit}
		}
	}
	out := s.Clone()
	out.Skills[skill] += dir.delta()
	return out, nil
}

// MeetsRequirements reports whether every attribute minimum of class is met by attrs.
// It is a display hint only; no operation is gated on it.
func MeetsRequirements(class ruleset.ClassDefinition, attrs map[ruleset.Attribute]int) bool {
	for a, minimum := range class.Requirements {
		if attrs[a] < minimum {
			return false
		}
	}
	return true
}

// MeetsClassRequirements looks the class up by name and applies MeetsRequirements.
//
// Precondition: className must be a catalog class.
func MeetsClassRequirements(cat *ruleset.Catalog, className string, attrs map[ruleset.Attribute]int) bool {
	class, ok := cat.Class(className)
	if !ok {
		panic("MeetsClassRequirements: precondition violated: unknown class " + className)
	}
	return MeetsRequirements(class, attrs)
}

// EligibleClasses returns the names of classes whose requirements attrs meet, in catalog order.
func EligibleClasses(cat *ruleset.Catalog, attrs map[ruleset.Attribute]int) []string {
	var out []string
	for _, class := range cat.ClassDefinitions() {
		if MeetsRequirements(class, attrs) {
			out = append(out, class.Name)
		}
	}
	return out
}

// SelectClass records className on a copy of s. Eligibility is not checked.
//
// Precondition: className must be a catalog class.
func SelectClass(cat *ruleset.Catalog, s Sheet, className string) Sheet {
	if _, ok := cat.Class(className); !ok {
		panic("SelectClass: precondition violated: unknown class " + className)
	}
	out := s.Clone()
	out.Class = className
	return out
}
