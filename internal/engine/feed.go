package engine

import (
	"context"
	"sync"

	"github.com/dyluth/pinch/internal/gesture"
	"github.com/dyluth/pinch/internal/spatial"
)

// Sample is one captured hand observation. A nil Hand means no hand was
// visible.
type Sample struct {
	Hand *gesture.Hand
}

// Feed hands samples from a capture goroutine to a single processing
// goroutine. It holds at most one sample: an unconsumed sample is replaced by
// a newer one and counted as dropped.
type Feed struct {
	mu      sync.Mutex
	pending Sample
	has     bool
	closed  bool
	dropped int

	ready chan struct{}
	done  chan struct{}

	onFrame func(Frame)
}

// NewFeed creates a feed. onFrame, if non-nil, is called with every processed
// frame from the Run goroutine.
func NewFeed(onFrame func(Frame)) *Feed {
	return &Feed{
		ready:   make(chan struct{}, 1),
		done:    make(chan struct{}),
		onFrame: onFrame,
	}
}

// Offer queues a sample without blocking. Returns false once the feed is
// closed.
func (f *Feed) Offer(s Sample) bool {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	if f.has {
		f.dropped++
	}
	f.pending = s
	f.has = true
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
	return true
}

// Close stops the feed. A sample already queued is still processed.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.done)
}

// Dropped returns how many samples were replaced before being processed.
func (f *Feed) Dropped() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}

func (f *Feed) take() (Sample, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.has {
		return Sample{}, false
	}
	s := f.pending
	f.pending = Sample{}
	f.has = false
	return s, true
}

// Run processes samples through s one at a time until ctx is cancelled or
// the feed is closed. It returns ctx.Err() on cancellation and nil on close.
func (f *Feed) Run(ctx context.Context, s *Session, cam spatial.RayCaster) error {
	process := func() {
		sample, ok := f.take()
		if !ok {
			return
		}
		frame := s.Process(sample.Hand, cam)
		if f.onFrame != nil {
			f.onFrame(frame)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.ready:
			process()
		case <-f.done:
			process()
			return nil
		}
	}
}
