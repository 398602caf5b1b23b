package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// ErrBusy is returned when a load or save is started while another is in flight.
var ErrBusy = errors.New("another load or save is in progress")

// ErrStale is returned when the sheet was edited while a load was in flight;
// the loaded record is discarded and local edits are kept.
var ErrStale = errors.New("sheet was edited during load; loaded character discarded")

// Gateway is the remote persistence the Editor loads from and saves to.
type Gateway interface {
	Load(ctx context.Context) (character.Record, error)
	Save(ctx context.Context, rec character.Record) error
}

// Editor owns the current character sheet for one editing session.
// All methods are safe for concurrent use.
//
// Each adjustment checks its budget and applies against the same snapshot.
// At most one remote operation (load or save) runs at a time. Every local edit
// advances a generation counter; a load whose generation has moved on by the
// time its response arrives is discarded.
type Editor struct {
	cat    *ruleset.Catalog
	gw     Gateway
	logger *zap.Logger

	mu         sync.Mutex
	sheet      character.Sheet
	generation uint64
	inflight   string // "", "load" or "save"
}

// NewEditor starts a session on the default sheet.
//
// Precondition: cat, gw, and logger must be non-nil.
// Postcondition: Returns an Editor holding character.NewSheet(cat).
func NewEditor(cat *ruleset.Catalog, gw Gateway, logger *zap.Logger) *Editor {
	return &Editor{
		cat:    cat,
		gw:     gw,
		logger: logger.Named("session"),
		sheet:  character.NewSheet(cat),
	}
}

// Catalog returns the rules catalog the session was built with.
func (e *Editor) Catalog() *ruleset.Catalog { return e.cat }

// Sheet returns a copy of the current sheet.
func (e *Editor) Sheet() character.Sheet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sheet.Clone()
}

// AdjustAttribute applies character.AdjustAttribute to the current sheet.
//
// Postcondition: On success the session holds and returns the new sheet; on
// a budget refusal the session is unchanged and the error is returned.
func (e *Editor) AdjustAttribute(a ruleset.Attribute, dir character.Direction) (character.Sheet, error) {
	return e.apply(func(s character.Sheet) (character.Sheet, error) {
		return character.AdjustAttribute(s, a, dir)
	})
}

// AdjustSkill applies character.AdjustSkill to the current sheet.
//
// Postcondition: As AdjustAttribute.
func (e *Editor) AdjustSkill(skill string, dir character.Direction) (character.Sheet, error) {
	return e.apply(func(s character.Sheet) (character.Sheet, error) {
		return character.AdjustSkill(s, skill, dir)
	})
}

// SelectClass records the chosen class regardless of eligibility.
//
// Precondition: className must be a catalog class.
func (e *Editor) SelectClass(className string) character.Sheet {
	out, _ := e.apply(func(s character.Sheet) (character.Sheet, error) {
		return character.SelectClass(e.cat, s, className), nil
	})
	return out
}

// Reset restores the default sheet, keeping the selected class.
func (e *Editor) Reset() character.Sheet {
	out, _ := e.apply(func(s character.Sheet) (character.Sheet, error) {
		fresh := character.NewSheet(e.cat)
		fresh.Class = s.Class
		return fresh, nil
	})
	return out
}

func (e *Editor) apply(fn func(character.Sheet) (character.Sheet, error)) (character.Sheet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out, err := fn(e.sheet)
	if err != nil {
		return e.sheet.Clone(), err
	}
	e.sheet = out
	e.generation++
	return out.Clone(), nil
}

// Load replaces the sheet's attributes and skills with the stored character.
// Keys the store omits keep their defaults; the selected class is kept.
//
// Postcondition: Returns the new sheet, or an error that is ErrBusy, ErrStale,
// a gateway error, or a record error from character.FromRecord. On any error
// the session is unchanged.
func (e *Editor) Load(ctx context.Context) (character.Sheet, error) {
	gen, err := e.begin("load")
	if err != nil {
		return character.Sheet{}, err
	}
	rec, err := e.gw.Load(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inflight = ""
	if err != nil {
		return e.sheet.Clone(), err
	}
	loaded, err := character.FromRecord(e.cat, rec)
	if err != nil {
		return e.sheet.Clone(), fmt.Errorf("loaded character rejected: %w", err)
	}
	if e.generation != gen {
		e.logger.Info("discarding stale load",
			zap.Uint64("issued_generation", gen),
			zap.Uint64("current_generation", e.generation),
		)
		return e.sheet.Clone(), ErrStale
	}
	if missing := character.MissingKeys(e.cat, rec); len(missing) > 0 {
		e.logger.Warn("loaded character is partial; defaults applied",
			zap.Strings("missing", missing),
		)
	}
	loaded.Class = e.sheet.Class
	e.sheet = loaded
	e.generation++
	return loaded.Clone(), nil
}

// Save sends a snapshot of the current sheet to the store.
//
// Postcondition: Returns nil, ErrBusy, or a gateway error. The sheet is never modified.
func (e *Editor) Save(ctx context.Context) error {
	if _, err := e.begin("save"); err != nil {
		return err
	}
	e.mu.Lock()
	rec := character.ToRecord(e.sheet)
	e.mu.Unlock()

	err := e.gw.Save(ctx, rec)

	e.mu.Lock()
	e.inflight = ""
	e.mu.Unlock()
	return err
}

func (e *Editor) begin(op string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inflight != "" {
		return 0, fmt.Errorf("%s refused, %s running: %w", op, e.inflight, ErrBusy)
	}
	e.inflight = op
	return e.generation, nil
}
