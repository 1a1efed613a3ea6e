// Package paint holds the authoritative collection of painted cells.
package paint

import (
	"github.com/aretw0/paintboard/pkg/domain"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Set is the set of currently painted coordinates, keyed by domain.CoordinateKey.
// Iteration follows insertion order so rendering is deterministic.
// Not safe for concurrent use.
type Set struct {
	cells *orderedmap.OrderedMap[domain.CoordinateKey, domain.Coordinate]
}

// NewSet creates an empty set, optionally seeded with cells in order.
func NewSet(cells ...domain.Coordinate) *Set {
	s := &Set{cells: orderedmap.New[domain.CoordinateKey, domain.Coordinate]()}
	for _, c := range cells {
		s.Add(c)
	}
	return s
}

// Contains reports whether a coordinate with the same value is present.
func (s *Set) Contains(c domain.Coordinate) bool {
	_, ok := s.cells.Get(c.Key())
	return ok
}

// Add inserts c. Adding a present coordinate is a no-op and keeps its position.
func (s *Set) Add(c domain.Coordinate) {
	if s.Contains(c) {
		return
	}
	s.cells.Set(c.Key(), c)
}

// Remove deletes c. No-op if absent.
func (s *Set) Remove(c domain.Coordinate) {
	s.cells.Delete(c.Key())
}

// List returns the painted coordinates in insertion order.
func (s *Set) List() []domain.Coordinate {
	out := make([]domain.Coordinate, 0, s.cells.Len())
	for pair := s.cells.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Len returns the number of painted cells.
func (s *Set) Len() int {
	return s.cells.Len()
}

// Clone returns an independent copy with the same order.
func (s *Set) Clone() *Set {
	return NewSet(s.List()...)
}

// Equal reports whether both sets hold the same coordinates, ignoring order.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for pair := s.cells.Oldest(); pair != nil; pair = pair.Next() {
		if !other.Contains(pair.Value) {
			return false
		}
	}
	return true
}
