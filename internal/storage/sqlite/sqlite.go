// Package sqlite provides a single-file SQLite backend for the character store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/store"
)

//go:embed schema.sql
var schema string

// Open opens the database file at path, creating it if needed, and ensures
// the character_sheets table exists.
//
// Precondition: path must be non-empty.
// Postcondition: Returns an open *sql.DB the caller must Close, or an error.
func Open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying sqlite schema: %w", err)
	}
	return db, nil
}

// SheetRepository stores one character record per slot as JSON text.
// It implements store.Repository for a fixed slot.
type SheetRepository struct {
	db   *sql.DB
	slot string
}

// NewSheetRepository creates a SheetRepository over db.
//
// Precondition: db must be open with the schema applied; slot must be non-empty.
func NewSheetRepository(db *sql.DB, slot string) *SheetRepository {
	if slot == "" {
		panic("NewSheetRepository: precondition violated: slot must be non-empty")
	}
	return &SheetRepository{db: db, slot: slot}
}

// Get returns the record stored in the repository's slot.
//
// Postcondition: Returns the record, or store.ErrNotFound if the slot was never written.
func (r *SheetRepository) Get(ctx context.Context) (character.Record, error) {
	var attrs, skills string
	err := r.db.QueryRowContext(ctx,
		`SELECT attributes, skill_points FROM character_sheets WHERE slot = ?`,
		r.slot,
	).Scan(&attrs, &skills)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return character.Record{}, store.ErrNotFound
		}
		return character.Record{}, fmt.Errorf("querying character sheet: %w", err)
	}
	var rec character.Record
	if err := json.Unmarshal([]byte(attrs), &rec.Attributes); err != nil {
		return character.Record{}, fmt.Errorf("decoding attributes: %w", err)
	}
	if err := json.Unmarshal([]byte(skills), &rec.SkillPoints); err != nil {
		return character.Record{}, fmt.Errorf("decoding skill points: %w", err)
	}
	return rec, nil
}

// Put inserts or replaces the record in the repository's slot.
//
// Postcondition: A subsequent Get returns rec.
func (r *SheetRepository) Put(ctx context.Context, rec character.Record) error {
	attrs, err := json.Marshal(nonNil(rec.Attributes))
	if err != nil {
		return fmt.Errorf("encoding attributes: %w", err)
	}
	skills, err := json.Marshal(nonNil(rec.SkillPoints))
	if err != nil {
		return fmt.Errorf("encoding skill points: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO character_sheets (slot, attributes, skill_points) VALUES (?, ?, ?) ON CONFLICT(slot) DO UPDATE SET attributes = excluded.attributes, skill_points = excluded.skill_points, updated_at = CURRENT_TIMESTAMP`,
		r.slot, string(attrs), string(skills),
	)
	if err != nil {
		return fmt.Errorf("saving character sheet: %w", err)
	}
	return nil
}

func nonNil(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
