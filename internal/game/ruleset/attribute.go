// Package ruleset holds the static rules catalog: attributes, classes, and skills.
package ruleset

import (
	"fmt"
	"strings"
)

// Attribute names one of the six base character traits. The string value is
// also the key used on the wire.
type Attribute string

// The six attributes, in display order.
const (
	Strength     Attribute = "Strength"
	Dexterity    Attribute = "Dexterity"
	Constitution Attribute = "Constitution"
	Intelligence Attribute = "Intelligence"
	Wisdom       Attribute = "Wisdom"
	Charisma     Attribute = "Charisma"
)

var attributeOrder = [...]Attribute{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

// Attributes returns all attributes in display order.
//
// Postcondition: Returns a fresh slice of length 6.
func Attributes() []Attribute {
	out := make([]Attribute, len(attributeOrder))
	copy(out, attributeOrder[:])
	return out
}

// Valid reports whether a is one of the six attributes.
func (a Attribute) Valid() bool {
	for _, known := range attributeOrder {
		if a == known {
			return true
		}
	}
	return false
}

// Abbrev returns the three-letter label for a, e.g. "STR".
func (a Attribute) Abbrev() string {
	if !a.Valid() {
		return fmt.Sprintf("<%s>", string(a))
	}
	return strings.ToUpper(string(a)[:3])
}

// ParseAttribute resolves a case-insensitive full name or three-letter
// abbreviation to an Attribute.
//
// Postcondition: Returns the Attribute and true, or "" and false if s names no attribute.
func ParseAttribute(s string) (Attribute, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range attributeOrder {
		if s == strings.ToLower(string(a)) || s == strings.ToLower(a.Abbrev()) {
			return a, true
		}
	}
	return "", false
}
