// Package store serves the character endpoint: GET returns the stored record
// wrapped in {"body": ...}, POST replaces it.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/cory-johannsen/charsheet/internal/game/character"
)

// ErrNotFound is returned by Get before anything has been saved.
var ErrNotFound = errors.New("character not found")

// DefaultSlot names the record the store endpoint reads and writes in
// backends that can hold more than one.
const DefaultSlot = "default"

// Repository persists the single character record behind the endpoint.
type Repository interface {
	// Get returns the stored record or ErrNotFound.
	Get(ctx context.Context) (character.Record, error)
	// Put replaces the stored record.
	Put(ctx context.Context, rec character.Record) error
}

// MemoryRepository keeps the record in process memory.
// All methods are safe for concurrent use.
type MemoryRepository struct {
	mu  sync.RWMutex
	rec *character.Record
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Get implements Repository.
func (m *MemoryRepository) Get(_ context.Context) (character.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.rec == nil {
		return character.Record{}, ErrNotFound
	}
	return copyRecord(*m.rec), nil
}

// Put implements Repository.
func (m *MemoryRepository) Put(_ context.Context, rec character.Record) error {
	c := copyRecord(rec)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &c
	return nil
}

func copyRecord(rec character.Record) character.Record {
	out := character.Record{
		Attributes:  make(map[string]int, len(rec.Attributes)),
		SkillPoints: make(map[string]int, len(rec.SkillPoints)),
	}
	for k, v := range rec.Attributes {
		out.Attributes[k] = v
	}
	for k, v := range rec.SkillPoints {
		out.SkillPoints[k] = v
	}
	return out
}
