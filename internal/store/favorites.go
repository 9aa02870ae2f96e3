package store

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/glasscast/weathercore/internal/weather"
)

var (
	// ErrNotFound is returned when no favorite exists for a given id.
	ErrNotFound = errors.New("favorite not found")

	// ErrDuplicate is returned when a location with the same name is
	// already favorited.
	ErrDuplicate = errors.New("location already favorited")
)

// Favorites is a concurrency-safe in-memory store of favorited
// locations. It owns the IsFavorite flag; nothing else in the core
// mutates a Location after construction. Duplicate detection is by
// case-insensitive name.
type Favorites struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]weather.Location
}

// NewFavorites creates an empty favorites store.
func NewFavorites() *Favorites {
	return &Favorites{
		byID: make(map[uuid.UUID]weather.Location),
	}
}

// Add marks the location as a favorite and stores it. A zero id gets a
// fresh identity.
func (f *Favorites) Add(loc weather.Location) (weather.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.byID {
		if strings.EqualFold(existing.Name, loc.Name) {
			return weather.Location{}, ErrDuplicate
		}
	}

	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}
	loc.IsFavorite = true
	f.byID[loc.ID] = loc
	return loc, nil
}

// Remove deletes a favorite by id.
func (f *Favorites) Remove(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// Get returns a favorite by id.
func (f *Favorites) Get(id uuid.UUID) (weather.Location, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	loc, ok := f.byID[id]
	if !ok {
		return weather.Location{}, ErrNotFound
	}
	return loc, nil
}

// List returns all favorites sorted by name.
func (f *Favorites) List() []weather.Location {
	f.mu.RLock()
	defer f.mu.RUnlock()

	locs := make([]weather.Location, 0, len(f.byID))
	for _, loc := range f.byID {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool {
		return strings.ToLower(locs[i].Name) < strings.ToLower(locs[j].Name)
	})
	return locs
}
