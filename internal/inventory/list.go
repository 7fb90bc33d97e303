package inventory

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/dyluth/pinch/pkg/voxel"
)

// OutputFormat specifies how ListWorld renders voxels.
type OutputFormat string

const (
	// OutputFormatDefault is a human-readable table
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSONL is one JSON voxel record per line
	OutputFormatJSONL OutputFormat = "jsonl"

	// OutputFormatWorld is the full world file format
	OutputFormatWorld OutputFormat = "world"
)

// ParseFormat converts a --output flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case "", OutputFormatDefault:
		return OutputFormatDefault, nil
	case OutputFormatJSONL, OutputFormatWorld:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format '%s' (valid: 'default', 'jsonl' or 'world')", s)
}

// FilterCriteria narrows a listing. All set filters must match.
type FilterCriteria struct {
	Color   voxel.Color // exact colour, empty = no filter
	Layer   *int        // y layer, nil = no filter
	SinceMs int64       // placed at or after, 0 = no filter
	UntilMs int64       // placed at or before, 0 = no filter
}

// Matches reports whether r passes every filter.
func (fc *FilterCriteria) Matches(r voxel.Record) bool {
	if fc == nil {
		return true
	}
	if fc.Color != "" && r.Color != fc.Color {
		return false
	}
	if fc.Layer != nil && r.Y != *fc.Layer {
		return false
	}
	if fc.SinceMs > 0 && r.TimestampMs < fc.SinceMs {
		return false
	}
	if fc.UntilMs > 0 && r.TimestampMs > fc.UntilMs {
		return false
	}
	return true
}

// Filter returns the records that match fc, preserving order.
func Filter(records []voxel.Record, fc *FilterCriteria) []voxel.Record {
	out := make([]voxel.Record, 0, len(records))
	for _, r := range records {
		if fc.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// ColorCount is the number of voxels painted one colour.
type ColorCount struct {
	Color voxel.Color
	Count int
}

// CountColors tallies voxels per colour, most used first, ties by colour.
func CountColors(records []voxel.Record) []ColorCount {
	counts := make(map[voxel.Color]int)
	for _, r := range records {
		counts[r.Color]++
	}

	out := make([]ColorCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, ColorCount{Color: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Color < out[j].Color
	})
	return out
}

// ListWorld loads the world from p, applies filters and writes it in format.
// Voxels are listed in (x, y, z) order.
func ListWorld(ctx context.Context, p voxel.Persister, worldName string, format OutputFormat, filters *FilterCriteria, nowMs int64, w io.Writer) error {
	world, err := p.LoadWorld(ctx)
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}

	records := Filter(world.Voxels, filters)
	voxel.SortRecords(records)

	switch format {
	case OutputFormatDefault:
		FormatTable(w, records, worldName, nowMs)
	case OutputFormatJSONL:
		if err := FormatJSONL(w, records); err != nil {
			return fmt.Errorf("failed to format JSONL output: %w", err)
		}
	case OutputFormatWorld:
		filtered := *world
		filtered.Voxels = records
		if err := FormatWorld(w, &filtered); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	return nil
}
