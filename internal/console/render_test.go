package console

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

func TestRenderSheet_Defaults(t *testing.T) {
	cat := ruleset.DefaultCatalog()
	out := RenderSheet(cat, character.NewSheet(cat), false)

	assert.Contains(t, out, "Attributes (60/70 points)")
	assert.Contains(t, out, "Strength: 10 (Modifier: 0)")
	assert.Contains(t, out, "Total skill points available: 10 (spent 0)")
	assert.Contains(t, out, "Sleight of Hand: 0 (Modifier: DEX 0)")
	assert.NotContains(t, out, "(eligible)")
}

func TestRenderClasses_EligiblePlain(t *testing.T) {
	cat := ruleset.DefaultCatalog()
	s := character.NewSheet(cat)
	s.Attributes[ruleset.Strength] = 14
	s.Class = "Wizard"

	out := RenderClasses(cat, s, false)
	assert.Contains(t, out, "  Barbarian (eligible)\n")
	assert.Contains(t, out, "  Wizard [selected]\n")
	assert.Contains(t, out, "  Bard\n")
}

func TestRenderClasses_EligibleInRed(t *testing.T) {
	cat := ruleset.DefaultCatalog()
	s := character.NewSheet(cat)
	s.Attributes[ruleset.Charisma] = 15

	out := RenderClasses(cat, s, true)
	assert.Contains(t, out, Red+"Bard"+Reset)
	assert.NotContains(t, out, Red+"Wizard")
}

func TestRenderRequirements(t *testing.T) {
	class, ok := ruleset.DefaultCatalog().Class("Wizard")
	assert.True(t, ok)
	out := RenderRequirements(class, false)
	assert.Contains(t, out, "Wizard requirements\n")
	assert.Contains(t, out, "  Intelligence: 14\n")
	assert.Contains(t, out, "  Strength: 9\n")
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "\033[31mdanger\033[0m", colorize(true, Red, "danger"))
	assert.Equal(t, "danger", colorize(false, Red, "danger"))
}
