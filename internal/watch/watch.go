// Package watch follows a saved world: it waits for a world to appear and
// streams save/clear events as they are published.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/pinch/pkg/voxel"
)

// PollInterval is how often PollForWorld retries.
const PollInterval = 200 * time.Millisecond

// OutputFormat selects how events are written.
type OutputFormat string

const (
	// OutputFormatDefault is one human-readable line per event
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSON is one JSON event per line
	OutputFormatJSON OutputFormat = "json"
)

// PollForWorld polls until a world is saved for the client's session.
// Returns an error if timeout elapses first.
func PollForWorld(ctx context.Context, client *voxel.Client, timeout time.Duration) (*voxel.World, error) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	timeoutCh := time.After(timeout)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timeoutCh:
			return nil, fmt.Errorf("timeout waiting for world '%s' after %v", client.Session(), timeout)

		case <-ticker.C:
			w, err := client.LoadWorld(ctx)
			if err != nil {
				if voxel.IsNotFound(err) {
					continue
				}
				return nil, fmt.Errorf("failed to load world: %w", err)
			}
			return w, nil
		}
	}
}

// StreamEvents subscribes to world events and writes each one to w until ctx
// is cancelled or the subscription ends. ready, if non-nil, is closed once
// the subscription is active.
func StreamEvents(ctx context.Context, client *voxel.Client, format OutputFormat, w io.Writer, ready chan<- struct{}) error {
	sub, err := client.SubscribeWorldEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to world events: %w", err)
	}
	defer sub.Close()

	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-sub.Errors():
			if !ok {
				return nil
			}
			// Undecodable messages are skipped; JSON output stays parseable
			if format == OutputFormatDefault {
				fmt.Fprintf(w, "⚠️  skipping event: %v\n", err)
			}

		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := FormatEvent(w, ev, format); err != nil {
				return err
			}
		}
	}
}

// FormatEvent writes one event in the given format.
func FormatEvent(w io.Writer, ev *voxel.WorldEvent, format OutputFormat) error {
	switch format {
	case OutputFormatJSON:
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err

	case OutputFormatDefault:
		ts := time.UnixMilli(ev.TimestampMs).UTC().Format("15:04:05")
		switch ev.Type {
		case voxel.WorldEventSaved:
			_, err := fmt.Fprintf(w, "[%s] 💾 World '%s' saved: %d voxels on a %d grid\n", ts, ev.Session, ev.VoxelCount, ev.GridSize)
			return err
		case voxel.WorldEventCleared:
			_, err := fmt.Fprintf(w, "[%s] 🧹 World '%s' cleared\n", ts, ev.Session)
			return err
		default:
			_, err := fmt.Fprintf(w, "[%s] World '%s': %s\n", ts, ev.Session, ev.Type)
			return err
		}
	}
	return fmt.Errorf("unknown output format: %s", format)
}
