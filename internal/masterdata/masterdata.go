// Package masterdata holds the Item/Warehouse/Workstation master data used
// by the pre-validator to check that a parsed filter value actually refers
// to something real, and to suggest near matches when it doesn't.
package masterdata

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Source loads the three master-data sets from whatever backend is
// configured (file, database, remote service); masterdata.Store never
// talks to a backend directly.
type Source interface {
	LoadItems(ctx context.Context) ([]string, error)
	LoadWarehouses(ctx context.Context) ([]string, error)
	LoadWorkstations(ctx context.Context) ([]string, error)
}

// Stats reports operational visibility into the currently loaded sets.
type Stats struct {
	ItemCount        int
	WarehouseCount   int
	WorkstationCount int
	LastLoadedAt     time.Time
}

// Store is a lazily-loaded, force-reloadable in-memory master data set.
type Store struct {
	source Source

	mu           sync.RWMutex
	loaded       bool
	items        map[string]struct{}
	warehouses   map[string]struct{}
	workstations map[string]struct{}
	lastLoadedAt time.Time
}

// NewStore builds a Store backed by source. Nothing is loaded until
// EnsureLoaded is called.
func NewStore(source Source) *Store {
	return &Store{source: source}
}

// EnsureLoaded loads master data on first call and is a no-op on
// subsequent calls, unless force is true (the reload_on_request behavior),
// in which case it always reloads.
func (s *Store) EnsureLoaded(ctx context.Context, force bool) error {
	s.mu.RLock()
	alreadyLoaded := s.loaded
	s.mu.RUnlock()
	if alreadyLoaded && !force {
		return nil
	}

	items, err := s.source.LoadItems(ctx)
	if err != nil {
		return err
	}
	warehouses, err := s.source.LoadWarehouses(ctx)
	if err != nil {
		return err
	}
	workstations, err := s.source.LoadWorkstations(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = toSet(items)
	s.warehouses = toSet(warehouses)
	s.workstations = toSet(workstations)
	s.loaded = true
	s.lastLoadedAt = time.Now()
	return nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToUpper(v)] = struct{}{}
	}
	return set
}

// HasItem, HasWarehouse, HasWorkstation report membership, case-insensitive.
func (s *Store) HasItem(code string) bool        { return s.has(s.items, code) }
func (s *Store) HasWarehouse(code string) bool   { return s.has(s.warehouses, code) }
func (s *Store) HasWorkstation(code string) bool { return s.has(s.workstations, code) }

func (s *Store) has(set map[string]struct{}, code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := set[strings.ToUpper(code)]
	return ok
}

// SuggestItem, SuggestWarehouse, SuggestWorkstation return up to k fuzzy
// matches for code, via bidirectional case-insensitive substring
// containment, with no network round-trip.
func (s *Store) SuggestItem(code string, k int) []string        { return s.suggest(s.items, code, k) }
func (s *Store) SuggestWarehouse(code string, k int) []string    { return s.suggest(s.warehouses, code, k) }
func (s *Store) SuggestWorkstation(code string, k int) []string  { return s.suggest(s.workstations, code, k) }

func (s *Store) suggest(set map[string]struct{}, code string, k int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Suggest(lo.Keys(set), code, k)
}

// Stats returns a snapshot of the currently loaded counts.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		ItemCount:        len(s.items),
		WarehouseCount:   len(s.warehouses),
		WorkstationCount: len(s.workstations),
		LastLoadedAt:     s.lastLoadedAt,
	}
}

// Suggest returns up to k candidates from pool whose uppercased text
// contains query (or which query contains), bounded without needing any
// remote call. Exported standalone so the pre-validator can reuse the same
// matching rule against ad hoc candidate lists (e.g. intent names).
func Suggest(pool []string, query string, k int) []string {
	if k <= 0 {
		return nil
	}
	q := strings.ToUpper(query)
	var matches []string
	for _, candidate := range pool {
		c := strings.ToUpper(candidate)
		if strings.Contains(c, q) || strings.Contains(q, c) {
			matches = append(matches, candidate)
			if len(matches) >= k {
				break
			}
		}
	}
	return matches
}
