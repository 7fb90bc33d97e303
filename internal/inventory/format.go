// Package inventory lists the voxels of a saved world for the CLI.
package inventory

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/pinch/pkg/voxel"
)

// FormatTable writes voxels as a table with columns X, Y, Z, COLOR and AGE.
// AGE is relative to nowMs. Returns the number of voxels written.
func FormatTable(w io.Writer, voxels []voxel.Record, worldName string, nowMs int64) int {
	if len(voxels) == 0 {
		fmt.Fprintf(w, "No voxels found in world '%s'\n", worldName)
		return 0
	}

	fmt.Fprintf(w, "Voxels in world '%s':\n\n", worldName)

	fmt.Fprintf(w, "%4s %4s %4s  %-8s %s\n", "X", "Y", "Z", "COLOR", "AGE")
	fmt.Fprintf(w, "%4s %4s %4s  %-8s %s\n", "----", "----", "----", "--------", "--------")

	for _, r := range voxels {
		fmt.Fprintf(w, "%4d %4d %4d  %-8s %s\n", r.X, r.Y, r.Z, r.Color, formatAge(r.TimestampMs, nowMs))
	}

	noun := "voxel"
	if len(voxels) != 1 {
		noun = "voxels"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(voxels), noun)

	return len(voxels)
}

// FormatJSONL writes one compact JSON record per line, for piping into jq.
func FormatJSONL(w io.Writer, voxels []voxel.Record) error {
	for _, r := range voxels {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal voxel to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// FormatWorld writes a whole world in the pretty-printed file format.
func FormatWorld(w io.Writer, world *voxel.World) error {
	data, err := voxel.EncodeWorld(world, true)
	if err != nil {
		return fmt.Errorf("failed to encode world: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// FormatColorCounts writes how many voxels use each colour, most used first.
func FormatColorCounts(w io.Writer, voxels []voxel.Record) {
	for _, cc := range CountColors(voxels) {
		fmt.Fprintf(w, "%-8s %d\n", cc.Color, cc.Count)
	}
}

// formatAge renders the time since tsMs as "5s ago", "3m ago" and so on.
// Unknown or future timestamps render as "-".
func formatAge(tsMs, nowMs int64) string {
	if tsMs == 0 || tsMs > nowMs {
		return "-"
	}

	diff := time.Duration(nowMs-tsMs) * time.Millisecond
	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
