package character_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

func defaultSheet() character.Sheet {
	return character.NewSheet(ruleset.DefaultCatalog())
}

func TestModifier_KnownValues(t *testing.T) {
	cases := map[int]int{
		0: -10, 8: -2, 9: -1, 10: 0, 11: 0, 12: 1, 13: 1, 15: 2, 20: 5,
	}
	for score, want := range cases {
		assert.Equal(t, want, character.Modifier(score), "score %d", score)
	}
}

// Property: below 10 the modifier is score-10, from 10 up it is floor((score-10)/2).
func TestProperty_Modifier_Branches(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		score := rapid.IntRange(-50, 100).Draw(rt, "score")
		got := character.Modifier(score)
		if score < 10 {
			if got != score-10 {
				rt.Fatalf("Modifier(%d) = %d, want %d", score, got, score-10)
			}
			return
		}
		if got*2 > score-10 || (got+1)*2 <= score-10 {
			rt.Fatalf("Modifier(%d) = %d is not floor((score-10)/2)", score, got)
		}
	})
}

// Property: the modifier never decreases as the score rises.
func TestProperty_Modifier_Monotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		score := rapid.IntRange(-50, 100).Draw(rt, "score")
		if character.Modifier(score+1) < character.Modifier(score) {
			rt.Fatalf("Modifier(%d) < Modifier(%d)", score+1, score)
		}
	})
}

func TestAdjustAttribute_Increment(t *testing.T) {
	s := defaultSheet()
	out, err := character.AdjustAttribute(s, ruleset.Strength, character.Increment)
	require.NoError(t, err)
	assert.Equal(t, 11, out.Attributes[ruleset.Strength])
	assert.Equal(t, 10, s.Attributes[ruleset.Strength], "input sheet must not be mutated")
}

func TestAdjustAttribute_StopsAtSeventy(t *testing.T) {
	s := defaultSheet()
	var err error
	for i := 0; i < 10; i++ {
		s, err = character.AdjustAttribute(s, ruleset.Dexterity, character.Increment)
		require.NoError(t, err, "increment %d", i+1)
	}
	assert.Equal(t, 70, s.AttributeTotal())

	out, err := character.AdjustAttribute(s, ruleset.Wisdom, character.Increment)
	require.Error(t, err)
	assert.True(t, errors.Is(err, character.ErrBudgetExceeded))
	var budget *character.BudgetExceededError
	require.ErrorAs(t, err, &budget)
	assert.Equal(t, character.AttributePool, budget.Pool)
	assert.Equal(t, 70, budget.Cap)
	assert.Equal(t, "A character can have up to 70 points in total attributes.", err.Error())
	assert.Equal(t, 70, out.AttributeTotal())
	assert.Equal(t, 10, out.Attributes[ruleset.Wisdom])
}

func TestAdjustAttribute_DecrementBelowZero(t *testing.T) {
	s := defaultSheet()
	var err error
	for i := 0; i < 12; i++ {
		s, err = character.AdjustAttribute(s, ruleset.Charisma, character.Decrement)
		require.NoError(t, err)
	}
	assert.Equal(t, -2, s.Attributes[ruleset.Charisma])
	assert.Equal(t, -12, character.AttributeModifier(s, ruleset.Charisma))
}

func TestAdjustAttribute_UnknownAttributePanics(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = character.AdjustAttribute(defaultSheet(), ruleset.Attribute("Luck"), character.Increment)
	})
}

func TestAdjustSkill_DefaultCapIsTen(t *testing.T) {
	s := defaultSheet()
	assert.Equal(t, 10, character.SkillPointCap(s))

	var err error
	for i := 0; i < 10; i++ {
		s, err = character.AdjustSkill(s, "Stealth", character.Increment)
		require.NoError(t, err, "increment %d", i+1)
	}
	out, err := character.AdjustSkill(s, "Stealth", character.Increment)
	require.ErrorIs(t, err, character.ErrBudgetExceeded)
	assert.Equal(t, "You need more skill points! Upgrade intelligence to get more.", err.Error())
	assert.Equal(t, 10, out.Skills["Stealth"])
}

func TestAdjustSkill_DecrementBelowZero(t *testing.T) {
	out, err := character.AdjustSkill(defaultSheet(), "Arcana", character.Decrement)
	require.NoError(t, err)
	assert.Equal(t, -1, out.Skills["Arcana"])
}

func TestAdjustSkill_UnknownSkillPanics(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = character.AdjustSkill(defaultSheet(), "Basket Weaving", character.Increment)
	})
}

func TestScenario_IntelligenceRaisesSkillCap(t *testing.T) {
	s := defaultSheet()
	var err error
	for i := 0; i < 5; i++ {
		s, err = character.AdjustAttribute(s, ruleset.Intelligence, character.Increment)
		require.NoError(t, err)
	}
	assert.Equal(t, 15, s.Attributes[ruleset.Intelligence])
	assert.Equal(t, 2, character.Modifier(15))
	assert.Equal(t, 18, character.SkillPointCap(s))
}

func TestSkillPointCap_LowIntelligenceGoesNegative(t *testing.T) {
	s := defaultSheet()
	s.Attributes[ruleset.Intelligence] = 6
	assert.Equal(t, -6, character.SkillPointCap(s))
	_, err := character.AdjustSkill(s, "History", character.Increment)
	assert.ErrorIs(t, err, character.ErrBudgetExceeded)
}

func TestSkillModifier_UsesGoverningAttribute(t *testing.T) {
	cat := ruleset.DefaultCatalog()
	s := defaultSheet()
	s.Attributes[ruleset.Dexterity] = 14
	s.Attributes[ruleset.Wisdom] = 7
	assert.Equal(t, 2, character.SkillModifier(cat, s, "Acrobatics"))
	assert.Equal(t, -3, character.SkillModifier(cat, s, "Survival"))
	assert.Equal(t, 0, character.SkillModifier(cat, s, "Arcana"))
}

func TestMeetsClassRequirements(t *testing.T) {
	cat := ruleset.DefaultCatalog()
	s := defaultSheet()
	assert.False(t, character.MeetsClassRequirements(cat, "Barbarian", s.Attributes))

	s.Attributes[ruleset.Strength] = 14
	assert.True(t, character.MeetsClassRequirements(cat, "Barbarian", s.Attributes))
	assert.Equal(t, []string{"Barbarian"}, character.EligibleClasses(cat, s.Attributes))

	s.Attributes[ruleset.Dexterity] = 8
	assert.False(t, character.MeetsClassRequirements(cat, "Barbarian", s.Attributes))
	assert.Empty(t, character.EligibleClasses(cat, s.Attributes))
}

func TestSelectClass_IgnoresEligibility(t *testing.T) {
	cat := ruleset.DefaultCatalog()
	s := defaultSheet()
	out := character.SelectClass(cat, s, "Wizard")
	assert.Equal(t, "Wizard", out.Class)
	assert.Equal(t, "", s.Class)
	assert.Panics(t, func() { character.SelectClass(cat, s, "Paladin") })
}

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "+", character.Increment.String())
	assert.Equal(t, "-", character.Decrement.String())
}

// Property: from the default sheet, accepted increments never push the attribute
// total past 70, and once at 70 every further increment is refused without change.
func TestProperty_AttributeTotalNeverExceedsCap(t *testing.T) {
	attrs := ruleset.Attributes()
	rapid.Check(t, func(rt *rapid.T) {
		s := defaultSheet()
		steps := rapid.IntRange(0, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			a := rapid.SampledFrom(attrs).Draw(rt, "attr")
			before := s.AttributeTotal()
			out, err := character.AdjustAttribute(s, a, character.Increment)
			if err != nil {
				if before < character.MaxAttributePoints {
					rt.Fatalf("increment refused at total %d", before)
				}
				if out.AttributeTotal() != before {
					rt.Fatalf("refused increment changed total %d -> %d", before, out.AttributeTotal())
				}
				continue
			}
			s = out
			if s.AttributeTotal() > character.MaxAttributePoints {
				rt.Fatalf("attribute total %d exceeds cap", s.AttributeTotal())
			}
		}
	})
}

// Property: a skill increment is accepted iff the skill total is below the cap.
func TestProperty_SkillIncrementAcceptedIffBelowCap(t *testing.T) {
	skills := ruleset.DefaultCatalog().SkillDefinitions()
	rapid.Check(t, func(rt *rapid.T) {
		s := defaultSheet()
		s.Attributes[ruleset.Intelligence] = rapid.IntRange(0, 30).Draw(rt, "int")
		for _, sk := range skills {
			s.Skills[sk.Name] = rapid.IntRange(0, 5).Draw(rt, "points_"+sk.Name)
		}
		name := rapid.SampledFrom(skills).Draw(rt, "skill").Name

		below := s.SkillTotal() < character.SkillPointCap(s)
		out, err := character.AdjustSkill(s, name, character.Increment)
		if below && err != nil {
			rt.Fatalf("increment refused with total %d < cap %d", s.SkillTotal(), character.SkillPointCap(s))
		}
		if !below {
			if !errors.Is(err, character.ErrBudgetExceeded) {
				rt.Fatalf("increment accepted with total %d >= cap %d", s.SkillTotal(), character.SkillPointCap(s))
			}
			if out.Skills[name] != s.Skills[name] {
				rt.Fatalf("refused increment changed %q", name)
			}
		}
	})
}

// Property: raising Intelligence never lowers the skill cap.
func TestProperty_SkillCapMonotonicInIntelligence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := defaultSheet()
		s.Attributes[ruleset.Intelligence] = rapid.IntRange(-20, 40).Draw(rt, "int")
		before := character.SkillPointCap(s)
		s.Attributes[ruleset.Intelligence]++
		if character.SkillPointCap(s) < before {
			rt.Fatalf("skill cap dropped from %d to %d", before, character.SkillPointCap(s))
		}
	})
}

// Property: decrements are never refused, whatever the sign of the result.
func TestProperty_DecrementAlwaysAccepted(t *testing.T) {
	skills := ruleset.DefaultCatalog().SkillDefinitions()
	rapid.Check(t, func(rt *rapid.T) {
		s := defaultSheet()
		s.Attributes[ruleset.Intelligence] = rapid.IntRange(-20, 40).Draw(rt, "int")
		a := rapid.SampledFrom(ruleset.Attributes()).Draw(rt, "attr")
		s.Attributes[a] = rapid.IntRange(-100, 100).Draw(rt, "score")
		name := rapid.SampledFrom(skills).Draw(rt, "skill").Name
		s.Skills[name] = rapid.IntRange(-100, 100).Draw(rt, "points")

		out, err := character.AdjustAttribute(s, a, character.Decrement)
		if err != nil || out.Attributes[a] != s.Attributes[a]-1 {
			rt.Fatalf("attribute decrement refused or wrong: %v", err)
		}
		out, err = character.AdjustSkill(s, name, character.Decrement)
		if err != nil || out.Skills[name] != s.Skills[name]-1 {
			rt.Fatalf("skill decrement refused or wrong: %v", err)
		}
	})
}

// Property: eligibility holds iff every required attribute meets its minimum.
func TestProperty_MeetsRequirements(t *testing.T) {
	cat := ruleset.DefaultCatalog()
	classes := cat.ClassDefinitions()
	rapid.Check(t, func(rt *rapid.T) {
		class := rapid.SampledFrom(classes).Draw(rt, "class")
		attrs := make(map[ruleset.Attribute]int)
		for _, a := range ruleset.Attributes() {
			attrs[a] = rapid.IntRange(5, 18).Draw(rt, string(a))
		}
		want := true
		for a, minimum := range class.Requirements {
			if attrs[a] < minimum {
				want = false
			}
		}
		if got := character.MeetsClassRequirements(cat, class.Name, attrs); got != want {
			rt.Fatalf("MeetsClassRequirements(%s) = %v, want %v", class.Name, got, want)
		}
	})
}
