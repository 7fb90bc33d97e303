package voxel

import (
	"fmt"
	"sort"
	"sync"
)

// Store is the authoritative sparse voxel grid for one session.
// It maps grid keys to voxels and never holds a voxel that was out of bounds
// when it was added. Safe for concurrent use; every mutation takes the write lock.
type Store struct {
	mu       sync.RWMutex
	voxels   map[Key]Voxel
	gridSize int
	clock    Clock
}

// NewStore creates an empty store for a cubic grid of side gridSize.
// Returns ErrInvalidGridSize if gridSize is not positive.
func NewStore(gridSize int, clock Clock) (*Store, error) {
	if gridSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGridSize, gridSize)
	}
	if clock == nil {
		return nil, fmt.Errorf("clock cannot be nil")
	}

	return &Store{
		voxels:   make(map[Key]Voxel),
		gridSize: gridSize,
		clock:    clock,
	}, nil
}

// GridSize returns the side length of the grid.
func (s *Store) GridSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gridSize
}

// Count returns the number of occupied cells.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.voxels)
}

// AddVoxel places a voxel at (x,y,z), overwriting any voxel already there.
// Returns false and leaves the store unchanged if the cell is out of bounds.
func (s *Store) AddVoxel(x, y, z int, color Color) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !InBounds(x, y, z, s.gridSize) {
		return false
	}

	s.voxels[GridKey(x, y, z)] = Voxel{
		Color:       color,
		TimestampMs: s.clock.NowMs(),
	}
	return true
}

// RemoveVoxel deletes the voxel at (x,y,z) if present.
// Always returns true; removing an empty cell is not an error.
func (s *Store) RemoveVoxel(x, y, z int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.voxels, GridKey(x, y, z))
	return true
}

// GetVoxelAt returns the voxel at (x,y,z) and whether one exists.
func (s *Store) GetVoxelAt(x, y, z int) (Voxel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.voxels[GridKey(x, y, z)]
	return v, ok
}

// ClearAll empties the store.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.voxels = make(map[Key]Voxel)
}

// Resize changes the grid size. Existing voxels are discarded.
func (s *Store) Resize(gridSize int) error {
	if gridSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGridSize, gridSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gridSize = gridSize
	s.voxels = make(map[Key]Voxel)
	return nil
}

// ExportVoxels returns one record per occupied cell, sorted by x, then y, then z.
func (s *Store) ExportVoxels() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Record, 0, len(s.voxels))
	for k, v := range s.voxels {
		// Keys are only ever written by GridKey, so they always parse
		x, y, z, err := ParseKey(k)
		if err != nil {
			continue
		}
		records = append(records, Record{
			X:           x,
			Y:           y,
			Z:           z,
			Color:       v.Color,
			TimestampMs: v.TimestampMs,
		})
	}

	SortRecords(records)
	return records
}

// ImportVoxels replaces the entire content of the store with records.
// Records with a zero timestamp are stamped with the current time.
// Records are trusted: cells outside the grid are kept as-is. The import is
// all-or-nothing; a record with an invalid colour rejects the whole batch.
func (s *Store) ImportVoxels(records []Record) error {
	now := s.clock.NowMs()

	next := make(map[Key]Voxel, len(records))
	for i, r := range records {
		if err := r.Color.Validate(); err != nil {
			return fmt.Errorf("record %d at %s: %w", i, r.Cell(), err)
		}
		ts := r.TimestampMs
		if ts == 0 {
			ts = now
		}
		next[GridKey(r.X, r.Y, r.Z)] = Voxel{Color: r.Color, TimestampMs: ts}
	}

	s.mu.Lock()
	s.voxels = next
	s.mu.Unlock()

	return nil
}

// SortRecords orders records by x, then y, then z.
func SortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
}
