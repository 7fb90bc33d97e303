// Package clock provides the single millisecond time source shared by the
// gesture pipeline, the debouncer and the voxel store.
package clock

import (
	"sync"
	"time"
)

// Clock supplies monotonic millisecond timestamps.
type Clock interface {
	NowMs() int64
}

// System is a Clock anchored to the wall clock at construction and advanced
// by Go's monotonic clock, so its readings are comparable to Unix
// milliseconds but never jump backwards.
type System struct {
	base time.Time
}

// NewSystem returns a System clock anchored at the current time.
func NewSystem() *System {
	return &System{base: time.Now()}
}

// NowMs implements Clock.
func (s *System) NowMs() int64 {
	return s.base.UnixMilli() + time.Since(s.base).Milliseconds()
}

// Manual is a Clock that only moves when told to. Used by tests and by
// replays, where time comes from the recorded frame timestamps.
type Manual struct {
	mu  sync.Mutex
	now int64
}

// NewManual returns a Manual clock reading startMs.
func NewManual(startMs int64) *Manual {
	return &Manual{now: startMs}
}

// NowMs implements Clock.
func (m *Manual) NowMs() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to ms. Moving backwards is ignored.
func (m *Manual) Set(ms int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ms > m.now {
		m.now = ms
	}
}

// Advance moves the clock forward by d milliseconds and returns the new reading.
func (m *Manual) Advance(d int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.now += d
	}
	return m.now
}
