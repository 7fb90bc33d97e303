package inventory

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dyluth/pinch/pkg/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAge(t *testing.T) {
	const now = int64(10_000_000_000)

	tests := []struct {
		name     string
		ts       int64
		expected string
	}{
		{"unknown", 0, "-"},
		{"future", now + 1, "-"},
		{"seconds", now - 5_000, "5s ago"},
		{"minutes", now - 3*60_000, "3m ago"},
		{"hours", now - 2*3_600_000, "2h ago"},
		{"days", now - 3*86_400_000, "3d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatAge(tt.ts, now))
		})
	}
}

func TestFormatTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		n := FormatTable(&buf, nil, "studio", 0)
		assert.Equal(t, 0, n)
		assert.Equal(t, "No voxels found in world 'studio'\n", buf.String())
	})

	t.Run("rows and count", func(t *testing.T) {
		var buf bytes.Buffer
		n := FormatTable(&buf, []voxel.Record{
			{X: 1, Y: 0, Z: 1, Color: "#4F46E5", TimestampMs: 55_000},
			{X: 12, Y: 0, Z: 3, Color: "#EF4444", TimestampMs: 0},
		}, "studio", 60_000)
		assert.Equal(t, 2, n)

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 8)
		assert.Equal(t, "Voxels in world 'studio':", lines[0])
		assert.Equal(t, "   X    Y    Z  COLOR    AGE", lines[2])
		assert.Equal(t, "   1    0    1  #4F46E5  5s ago", lines[4])
		assert.Equal(t, "  12    0    3  #EF4444  -", lines[5])
		assert.Equal(t, "2 voxels found", lines[7])
	})

	t.Run("singular", func(t *testing.T) {
		var buf bytes.Buffer
		FormatTable(&buf, []voxel.Record{{Color: "#4F46E5"}}, "w", 0)
		assert.Contains(t, buf.String(), "\n1 voxel found\n")
	})
}

func TestFormatJSONL(t *testing.T) {
	var buf bytes.Buffer
	records := []voxel.Record{
		{X: 1, Y: 0, Z: 1, Color: "#4F46E5", TimestampMs: 100},
		{X: 2, Y: 0, Z: 2, Color: "#EF4444", TimestampMs: 200},
	}
	require.NoError(t, FormatJSONL(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"x":1,"y":0,"z":1,"color":"#4F46E5","timestamp":100}`, lines[0])

	var got voxel.Record
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &got))
	assert.Equal(t, records[1], got)
}

func TestFormatWorld(t *testing.T) {
	var buf bytes.Buffer
	world := &voxel.World{Version: "1.0", GridSize: 16, TimestampMs: 5}
	require.NoError(t, FormatWorld(&buf, world))

	decoded, err := voxel.DecodeWorld(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, decoded.Voxels)
	assert.Contains(t, buf.String(), "\"voxels\": []")
}

func TestFormatColorCounts(t *testing.T) {
	var buf bytes.Buffer
	FormatColorCounts(&buf, []voxel.Record{
		{Color: "#EF4444"},
		{X: 1, Color: "#4F46E5"},
		{X: 2, Color: "#EF4444"},
		{X: 3, Color: "#10B981"},
	})
	assert.Equal(t, "#EF4444  2\n#10B981  1\n#4F46E5  1\n", buf.String())
}
