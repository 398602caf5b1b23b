package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/store"
)

// SheetRepository persists one character record per slot as JSONB.
// It implements store.Repository for a fixed slot.
type SheetRepository struct {
	db   *pgxpool.Pool
	slot string
}

// NewSheetRepository creates a SheetRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool; slot must be non-empty.
func NewSheetRepository(db *pgxpool.Pool, slot string) *SheetRepository {
	if slot == "" {
		panic("NewSheetRepository: precondition violated: slot must be non-empty")
	}
	return &SheetRepository{db: db, slot: slot}
}

// Get returns the record stored in the repository's slot.
//
// Postcondition: Returns the record, or store.ErrNotFound if the slot was never written.
func (r *SheetRepository) Get(ctx context.Context) (character.Record, error) {
	var rec character.Record
	err := r.db.QueryRow(ctx, `
		SELECT attributes, skill_points
		FROM character_sheets WHERE slot = $1`,
		r.slot,
	).Scan(&rec.Attributes, &rec.SkillPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return character.Record{}, store.ErrNotFound
		}
		return character.Record{}, fmt.Errorf("querying character sheet: %w", err)
	}
	return rec, nil
}

// Put inserts or replaces the record in the repository's slot.
//
// Postcondition: A subsequent Get returns rec.
func (r *SheetRepository) Put(ctx context.Context, rec character.Record) error {
	attrs := rec.Attributes
	if attrs == nil {
		attrs = map[string]int{}
	}
	skills := rec.SkillPoints
	if skills == nil {
		skills = map[string]int{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO character_sheets (slot, attributes, skill_points)
		VALUES ($1, $2, $3)
		ON CONFLICT (slot) DO UPDATE
		SET attributes = EXCLUDED.attributes,
		    skill_points = EXCLUDED.skill_points,
		    updated_at = NOW()`,
		r.slot, attrs, skills,
	)
	if err != nil {
		return fmt.Errorf("saving character sheet: %w", err)
	}
	return nil
}
