package character

import "github.com/cory-johannsen/charsheet/internal/game/ruleset"

// Modifier returns the derived modifier for an ability score.
// Below 10 each point counts fully (score-10); from 10 up it is floor((score-10)/2).
func Modifier(score int) int {
	if score < 10 {
		return score - 10
	}
	return (score - 10) / 2
}

// AttributeModifier returns Modifier of the sheet's score for a.
//
// Precondition: a must be present on the sheet.
func AttributeModifier(s Sheet, a ruleset.Attribute) int {
	return Modifier(s.Score(a))
}

// SkillModifier returns the modifier displayed next to a skill, derived from
// its governing attribute.
//
// Precondition: skill must name a catalog skill.
func SkillModifier(cat *ruleset.Catalog, s Sheet, skill string) int {
	def, ok := cat.Skill(skill)
	if !ok {
		panic("SkillModifier: precondition violated: unknown skill " + skill)
	}
	return AttributeModifier(s, def.Attribute)
}

// SkillPointCap is the skill budget: 10 + 4 × the Intelligence modifier.
func SkillPointCap(s Sheet) int {
	return 10 + 4*AttributeModifier(s, ruleset.Intelligence)
}
