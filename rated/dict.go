// Package rated provides a thread-safe dictionary that pairs every value
// with a mutable numeric rating and keeps its keys ordered from highest to
// lowest rating.
package rated

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Entry is a single key/value pair in rating order.
type Entry[V any] struct {
	Key   string
	Value V
}

// Rating assigns a score to an existing key.
type Rating struct {
	Key   string
	Score float64
}

// Dict stores values under string keys and keeps a rating per key.
// Keys are ordered highest rating first; ties keep the relative order they
// had before the last Rate call (stable sort). A key inserted via Set or
// Update starts with rating 0 and is appended at the end of the order.
//
// All methods are safe for concurrent use. Every mutating operation holds
// an exclusive lock for its full duration, so Rate and Update are atomic
// with respect to concurrent readers.
type Dict[V any] struct {
	mu      sync.RWMutex
	values  map[string]V
	ratings map[string]float64
	order   []string // keys, highest rating first
}

// NewDict creates an empty rated dictionary.
func NewDict[V any]() *Dict[V] {
	return &Dict[V]{
		values:  make(map[string]V),
		ratings: make(map[string]float64),
	}
}

// Set inserts or replaces the value for key. A new key gets rating 0 and is
// appended at the end of the rating order; replacing a value never touches
// the existing rating.
func (d *Dict[V]) Set(key string, value V) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.set(key, value)
}

// set inserts without locking. Callers must hold d.mu.
func (d *Dict[V]) set(key string, value V) {
	if _, exists := d.values[key]; !exists {
		d.ratings[key] = 0
		d.order = append(d.order, key)
	}
	d.values[key] = value
}

// SetDefault inserts value under key only if the key is absent. It returns
// the value that ends up stored and whether the insert happened. The check
// and the insert happen under one lock acquisition.
func (d *Dict[V]) SetDefault(key string, value V) (V, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, exists := d.values[key]; exists {
		return existing, false
	}
	d.set(key, value)
	return value, true
}

// Get returns the value for key. Returns ErrNotFound if the key is absent.
func (d *Dict[V]) Get(key string) (V, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	value, exists := d.values[key]
	if !exists {
		var zero V
		return zero, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return value, nil
}

// Delete removes key from both the values and the ratings. Returns
// ErrNotFound if the key is absent.
func (d *Dict[V]) Delete(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.values[key]; !exists {
		return fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	delete(d.values, key)
	delete(d.ratings, key)
	if i := slices.Index(d.order, key); i >= 0 {
		d.order = slices.Delete(d.order, i, i+1)
	}
	return nil
}

// Contains reports whether key is present.
func (d *Dict[V]) Contains(key string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, exists := d.values[key]
	return exists
}

// Size returns the number of entries.
func (d *Dict[V]) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.values)
}

// KeysByRating returns the keys ordered highest rating first. The result is
// a snapshot taken under the lock; later mutations do not affect it.
func (d *Dict[V]) KeysByRating() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.order)
}

// Rating returns the current rating for key. Returns ErrNotFound if the key
// is absent.
func (d *Dict[V]) Rating(key string) (float64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rating, exists := d.ratings[key]
	if !exists {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return rating, nil
}

// Update bulk-inserts from source, which may be a map[string]V or an
// ordered []Entry[V]. Each pair goes through the same insert logic as Set,
// so already-present keys keep their rating. Map sources are applied in
// sorted key order to keep the resulting insertion order deterministic.
// Returns ErrInvalidSource for any other source type.
func (d *Dict[V]) Update(source any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch src := source.(type) {
	case map[string]V:
		keys := make([]string, 0, len(src))
		for key := range src {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			d.set(key, src[key])
		}
	case []Entry[V]:
		for _, entry := range src {
			d.set(entry.Key, entry.Value)
		}
	default:
		return fmt.Errorf("%w: %T", ErrInvalidSource, source)
	}
	return nil
}

// Rate merges the supplied ratings into the rating table and re-sorts the
// whole order, highest rating first. The sort is stable: keys whose rating
// did not change relative to each other keep their prior relative order.
//
// ratings may be a map[string]float64 or an ordered []Rating. Every key
// must already be present; otherwise Rate returns an UnexpectedKeyError and
// leaves the dict completely untouched, including the ratings that would
// have been valid.
func (d *Dict[V]) Rate(ratings any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var pairs []Rating
	switch src := ratings.(type) {
	case map[string]float64:
		pairs = make([]Rating, 0, len(src))
		for key, score := range src {
			pairs = append(pairs, Rating{Key: key, Score: score})
		}
	case []Rating:
		pairs = src
	default:
		return fmt.Errorf("%w: %T", ErrInvalidSource, ratings)
	}

	// Validate everything before mutating anything: all-or-nothing.
	for _, pair := range pairs {
		if _, exists := d.values[pair.Key]; !exists {
			return &UnexpectedKeyError{Key: pair.Key}
		}
	}

	for _, pair := range pairs {
		d.ratings[pair.Key] = pair.Score
	}
	sort.SliceStable(d.order, func(i, j int) bool {
		return d.ratings[d.order[i]] > d.ratings[d.order[j]]
	})
	return nil
}

// Top returns the n highest-rated entries in descending rating order.
// Top(0) returns an empty slice. Returns ErrOutOfRange when n is negative
// or exceeds the population.
func (d *Dict[V]) Top(n int) ([]Entry[V], error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if n < 0 || n > len(d.order) {
		return nil, fmt.Errorf("%w: requested %d of %d", ErrOutOfRange, n, len(d.order))
	}
	return d.entries(n), nil
}

// Ranked returns every entry in descending rating order.
func (d *Dict[V]) Ranked() []Entry[V] {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.entries(len(d.order))
}

// entries copies the first n ordered entries. Callers must hold d.mu.
func (d *Dict[V]) entries(n int) []Entry[V] {
	result := make([]Entry[V], 0, n)
	for _, key := range d.order[:n] {
		result = append(result, Entry[V]{Key: key, Value: d.values[key]})
	}
	return result
}

// HighestRated returns the single highest-rated value. Returns ErrEmpty if
// the dict has no entries.
func (d *Dict[V]) HighestRated() (V, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.order) == 0 {
		var zero V
		return zero, ErrEmpty
	}
	return d.values[d.order[0]], nil
}
