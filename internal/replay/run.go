package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/pinch/internal/clock"
	"github.com/dyluth/pinch/internal/engine"
	"github.com/dyluth/pinch/internal/spatial"
)

// Summary reports what a replay did.
type Summary struct {
	Read    int // frames read from the recording
	Frames  int // frames processed by the session
	Actions int // frames on which an action fired
	Dropped int // frames replaced before processing
}

// Run replays r through s synchronously. Before each frame clk is set to its
// reading at the start of the replay plus the frame's timestamp. The session
// must have been created with clk. Nothing is dropped. onFrame may be nil.
func Run(s *engine.Session, clk *clock.Manual, r *Reader, cam spatial.RayCaster, onFrame func(engine.Frame)) (Summary, error) {
	var sum Summary
	base := clk.NowMs()
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return sum, nil
		}
		if err != nil {
			return sum, err
		}
		sum.Read++

		applyControls(s, f, r.Line())
		clk.Set(base + f.TMs)
		frame := s.Process(f.Hand, cam)
		if frame.Fired {
			sum.Actions++
		}
		sum.Frames++
		if onFrame != nil {
			onFrame(frame)
		}
	}
}

// Stream replays r through s in real time via an engine.Feed, sleeping
// between frames for the recorded gap divided by speed. The session should
// use a system clock. Frames the session is too slow for are dropped, as
// with live capture. onFrame may be nil.
func Stream(ctx context.Context, s *engine.Session, r *Reader, cam spatial.RayCaster, speed float64, onFrame func(engine.Frame)) (Summary, error) {
	if speed <= 0 {
		return Summary{}, fmt.Errorf("speed must be positive, got %v", speed)
	}

	var sum Summary
	feed := engine.NewFeed(func(f engine.Frame) {
		sum.Frames++
		if f.Fired {
			sum.Actions++
		}
		if onFrame != nil {
			onFrame(f)
		}
	})

	runErr := make(chan error, 1)
	go func() { runErr <- feed.Run(ctx, s, cam) }()

	readErr := produce(ctx, s, r, feed, speed, &sum.Read)
	feed.Close()

	err := <-runErr
	sum.Dropped = feed.Dropped()
	if readErr != nil {
		return sum, readErr
	}
	return sum, err
}

func produce(ctx context.Context, s *engine.Session, r *Reader, feed *engine.Feed, speed float64, read *int) error {
	var prevT int64
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if *read > 0 {
			gap := time.Duration(float64(f.TMs-prevT) / speed * float64(time.Millisecond))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(gap):
			}
		}
		prevT = f.TMs
		*read++

		applyControls(s, f, r.Line())
		feed.Offer(engine.Sample{Hand: f.Hand})
	}
}

func applyControls(s *engine.Session, f Frame, line int) {
	if f.Mode != "" {
		// Parsed by the reader, so always valid
		_ = s.SetMode(f.Mode)
	}
	if f.Color != nil && !s.SelectColor(*f.Color) {
		engine.Logf("[Replay] line %d: ignoring unknown colour preset %d", line, *f.Color)
	}
}
