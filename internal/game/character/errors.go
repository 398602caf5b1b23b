package character

import (
	"errors"
	"fmt"
)

// ErrBudgetExceeded is matched by every *BudgetExceededError.
var ErrBudgetExceeded = errors.New("budget exceeded")

// ErrUnknownAttribute is returned when a record names an attribute outside the ruleset.
var ErrUnknownAttribute = errors.New("unknown attribute")

// ErrUnknownSkill is returned when a record names a skill outside the catalog.
var ErrUnknownSkill = errors.New("unknown skill")

// Pool identifies which point budget an increment was checked against.
type Pool string

const (
	AttributePool Pool = "attribute"
	SkillPool     Pool = "skill"
)

// BudgetExceededError rejects an increment that would overrun a point pool.
// The sheet the increment was attempted on is unchanged.
type BudgetExceededError struct {
	Pool  Pool
	Total int
	Cap   int
}

func (e *BudgetExceededError) Error() string {
	switch e.Pool {
	case AttributePool:
		return fmt.Sprintf("A character can have up to %d points in total attributes.", e.Cap)
	case SkillPool:
		return "You need more skill points! Upgrade intelligence to get more."
	default:
		return fmt.Sprintf("%s budget exceeded: %d of %d", e.Pool, e.Total, e.Cap)
	}
}

// Is makes errors.Is(err, ErrBudgetExceeded) hold.
func (e *BudgetExceededError) Is(target error) bool {
	return target == ErrBudgetExceeded
}
