// Package redis provides a Redis backend for the character store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/store"
)

// NewClient builds a go-redis client from cfg and verifies it can reach the server.
//
// Precondition: cfg.Addr must be non-empty.
// Postcondition: Returns a connected client the caller must Close, or an error.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// SheetRepository stores the character record as JSON under a single key.
// It implements store.Repository.
type SheetRepository struct {
	client *goredis.Client
	key    string
}

// NewSheetRepository creates a SheetRepository over client.
//
// Precondition: client must be non-nil; key must be non-empty.
func NewSheetRepository(client *goredis.Client, key string) *SheetRepository {
	if client == nil || key == "" {
		panic("NewSheetRepository: precondition violated: client and key are required")
	}
	return &SheetRepository{client: client, key: key}
}

// Get returns the stored record.
//
// Postcondition: Returns the record, or store.ErrNotFound if the key is absent.
func (r *SheetRepository) Get(ctx context.Context) (character.Record, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return character.Record{}, store.ErrNotFound
		}
		return character.Record{}, fmt.Errorf("reading %s: %w", r.key, err)
	}
	var rec character.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return character.Record{}, fmt.Errorf("decoding %s: %w", r.key, err)
	}
	return rec, nil
}

// Put replaces the stored record.
//
// Postcondition: A subsequent Get returns rec.
func (r *SheetRepository) Put(ctx context.Context, rec character.Record) error {
	if rec.Attributes == nil {
		rec.Attributes = map[string]int{}
	}
	if rec.SkillPoints == nil {
		rec.SkillPoints = map[string]int{}
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding character: %w", err)
	}
	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", r.key, err)
	}
	return nil
}

// Health pings the server within timeout.
func (r *SheetRepository) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}
