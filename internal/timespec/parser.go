// Package timespec parses the --since and --until flags used to filter
// voxels by placement time.
package timespec

import (
	"fmt"
	"time"
)

// Parse parses a time specification into Unix milliseconds relative to the
// current time. See ParseAt.
func Parse(spec string) (int64, error) {
	return ParseAt(spec, time.Now())
}

// ParseAt parses a time specification into Unix milliseconds.
// Supports:
//   - Go durations ("90s", "10m", "1h30m"), meaning that long before now
//   - RFC3339 timestamps ("2025-10-29T13:00:00Z")
//   - raw Unix milliseconds as written in world files ("1700000000000")
func ParseAt(spec string, now time.Time) (int64, error) {
	if spec == "" {
		return 0, fmt.Errorf("empty time specification")
	}

	if t, err := time.Parse(time.RFC3339, spec); err == nil {
		return t.UnixMilli(), nil
	}

	if d, err := time.ParseDuration(spec); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("negative duration: %s", spec)
		}
		return now.Add(-d).UnixMilli(), nil
	}

	var ms int64
	if _, err := fmt.Sscanf(spec, "%d", &ms); err == nil && fmt.Sprint(ms) == spec {
		return ms, nil
	}

	return 0, fmt.Errorf("invalid time specification: %s (use a duration like '10m', RFC3339 like '2025-10-29T13:00:00Z', or Unix milliseconds)", spec)
}

// ParseRange parses --since and --until into a millisecond range.
// Zero means no bound on that end. since must be before until when both are
// given.
func ParseRange(since, until string, now time.Time) (int64, int64, error) {
	var sinceMs, untilMs int64
	var err error

	if since != "" {
		sinceMs, err = ParseAt(since, now)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid --since: %w", err)
		}
	}

	if until != "" {
		untilMs, err = ParseAt(until, now)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid --until: %w", err)
		}
	}

	if sinceMs > 0 && untilMs > 0 && sinceMs >= untilMs {
		return 0, 0, fmt.Errorf("--since must be before --until")
	}

	return sinceMs, untilMs, nil
}
