// Package storage persists the ingredient density catalog.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/ottomeasure/internal/density"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.DensityStore = (*MemoryStore)(nil)
	_ domain.DensityStore = (*SQLiteStore)(nil)
)

// MemoryStore is an in-memory density store. Safe for concurrent access.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]domain.DensityEntry
	log     *logger.Logger
}

// NewMemoryStore creates an empty in-memory density store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	if log == nil {
		log = logger.Nop()
	}
	return &MemoryStore{
		entries: make(map[string]domain.DensityEntry),
		log:     log,
	}
}

// Upsert stores an entry, replacing any entry with the same name. A name
// or alias already claimed by another entry is rejected with
// domain.ErrAlreadyExists.
func (s *MemoryStore) Upsert(ctx context.Context, entry domain.DensityEntry) error {
	entry, err := normalizeEntry(entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make([]domain.DensityEntry, 0, len(s.entries))
	for _, e := range s.entries {
		existing = append(existing, e)
	}
	if err := checkClaims(existing, entry); err != nil {
		return err
	}

	s.log.Debug("upserting density %s (grams_per_cup=%g, dry=%t)", entry.Name, entry.GramsPerCup, entry.Dry)
	s.entries[nameKey(entry.Name)] = entry
	return nil
}

// Get retrieves an entry by name. Names compare case-insensitively.
func (s *MemoryStore) Get(ctx context.Context, name string) (*domain.DensityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[nameKey(name)]
	if !ok {
		s.log.Debug("density not found: %s", name)
		return nil, domain.ErrNotFound
	}
	e.Aliases = append([]string(nil), e.Aliases...)
	return &e, nil
}

// List returns all entries sorted by name.
func (s *MemoryStore) List(ctx context.Context) ([]domain.DensityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DensityEntry, 0, len(s.entries))
	for _, e := range s.entries {
		e.Aliases = append([]string(nil), e.Aliases...)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	s.log.Debug("listing densities, count=%d", len(out))
	return out, nil
}

// Delete removes an entry by name.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := nameKey(name)
	if _, ok := s.entries[k]; !ok {
		return domain.ErrNotFound
	}
	delete(s.entries, k)
	s.log.Debug("deleted density %s", name)
	return nil
}

// Seed inserts the entries store does not have yet. Entries already present
// by name are left untouched. It stops at the first failure.
func Seed(ctx context.Context, store domain.DensityStore, entries []domain.DensityEntry) error {
	for _, e := range entries {
		_, err := store.Get(ctx, e.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := store.Upsert(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// checkClaims rejects entry when one of its match keys belongs to a
// different stored entry. The entry being replaced does not count.
func checkClaims(existing []domain.DensityEntry, entry domain.DensityEntry) error {
	self := nameKey(entry.Name)
	owners := make(map[string]string)
	for _, e := range existing {
		if nameKey(e.Name) == self {
			continue
		}
		for _, k := range density.Keys(e) {
			owners[k] = e.Name
		}
	}
	for _, k := range density.Keys(entry) {
		if owner, taken := owners[k]; taken {
			return fmt.Errorf("density %q: %q already belongs to %q: %w", entry.Name, k, owner, domain.ErrAlreadyExists)
		}
	}
	return nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
