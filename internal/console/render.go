package console

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// RenderSheet formats the attributes, classes, and skills sections.
// Classes whose requirements are met are drawn in red when color is on and
// tagged "(eligible)" otherwise.
func RenderSheet(cat *ruleset.Catalog, s character.Sheet, color bool) string {
	var b strings.Builder
	b.WriteString(renderAttributes(cat, s, color))
	b.WriteString(RenderClasses(cat, s, color))
	b.WriteString(renderSkills(cat, s, color))
	return b.String()
}

func renderAttributes(cat *ruleset.Catalog, s character.Sheet, color bool) string {
	var b strings.Builder
	b.WriteString(colorize(color, Bold, "Attributes"))
	fmt.Fprintf(&b, " (%d/%d points)\n", s.AttributeTotal(), character.MaxAttributePoints)
	for _, a := range cat.AttributeNames() {
		fmt.Fprintf(&b, "  %s: %d (Modifier: %d)\n", a, s.Attributes[a], character.Modifier(s.Attributes[a]))
	}
	return b.String()
}

// RenderClasses lists every class with its eligibility hint and marks the selected one.
func RenderClasses(cat *ruleset.Catalog, s character.Sheet, color bool) string {
	var b strings.Builder
	b.WriteString(colorize(color, Bold, "Classes"))
	b.WriteString("\n")
	for _, class := range cat.ClassDefinitions() {
		label := class.Name
		eligible := character.MeetsRequirements(class, s.Attributes)
		switch {
		case eligible && color:
			label = colorize(color, Red, label)
		case eligible:
			label += " (eligible)"
		}
		if class.Name == s.Class {
			label += " [selected]"
		}
		fmt.Fprintf(&b, "  %s\n", label)
	}
	return b.String()
}

// RenderRequirements lists the attribute minimums of a class.
func RenderRequirements(class ruleset.ClassDefinition, color bool) string {
	var b strings.Builder
	b.WriteString(colorize(color, Cyan, class.Name+" requirements"))
	b.WriteString("\n")
	for _, req := range class.RequirementList() {
		fmt.Fprintf(&b, "  %s: %d\n", req.Attribute, req.Minimum)
	}
	return b.String()
}

func renderSkills(cat *ruleset.Catalog, s character.Sheet, color bool) string {
	var b strings.Builder
	b.WriteString(colorize(color, Bold, "Skills"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Total skill points available: %d (spent %d)\n", character.SkillPointCap(s), s.SkillTotal())
	for _, sk := range cat.SkillDefinitions() {
		fmt.Fprintf(&b, "  %s: %d (Modifier: %s %d)\n",
			sk.Name, s.Skills[sk.Name], sk.Attribute.Abbrev(), character.SkillModifier(cat, s, sk.Name))
	}
	return b.String()
}
