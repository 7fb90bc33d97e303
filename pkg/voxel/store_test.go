package voxel

import (
	"sync"
	"testing"

	"github.com/dyluth/pinch/internal/clock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, gridSize int) (*Store, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(1000)
	s, err := NewStore(gridSize, clk)
	require.NoError(t, err)
	return s, clk
}

func TestNewStore(t *testing.T) {
	t.Run("rejects non-positive grid size", func(t *testing.T) {
		_, err := NewStore(0, clock.NewManual(0))
		assert.ErrorIs(t, err, ErrInvalidGridSize)
	})

	t.Run("rejects nil clock", func(t *testing.T) {
		_, err := NewStore(16, nil)
		assert.Error(t, err)
	})

	t.Run("starts empty", func(t *testing.T) {
		s, _ := newTestStore(t, 16)
		assert.Equal(t, 0, s.Count())
		assert.Equal(t, 16, s.GridSize())
		assert.Empty(t, s.ExportVoxels())
	})
}

func TestStoreScenario(t *testing.T) {
	s, _ := newTestStore(t, 16)
	red := MustParseColor("#FF0000")

	assert.True(t, s.AddVoxel(3, 0, 5, red))
	assert.Equal(t, 1, s.Count())

	assert.False(t, s.AddVoxel(20, 0, 5, MustParseColor("#00FF00")))
	assert.Equal(t, 1, s.Count())

	v, ok := s.GetVoxelAt(3, 0, 5)
	require.True(t, ok)
	assert.Equal(t, red, v.Color)

	s.ClearAll()
	assert.Equal(t, 0, s.Count())
}

func TestAddVoxel(t *testing.T) {
	t.Run("out of bounds never grows the store", func(t *testing.T) {
		s, _ := newTestStore(t, 8)
		blue := MustParseColor("#0000FF")
		for _, c := range []Cell{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}, {8, 0, 0}, {0, 8, 0}, {0, 0, 8}, {100, 100, 100}} {
			assert.False(t, s.AddVoxel(c.X, c.Y, c.Z, blue), "cell %s", c)
		}
		assert.Equal(t, 0, s.Count())
	})

	t.Run("re-adding overwrites without growing", func(t *testing.T) {
		s, clk := newTestStore(t, 8)
		require.True(t, s.AddVoxel(1, 1, 1, MustParseColor("#111111")))
		clk.Advance(50)
		require.True(t, s.AddVoxel(1, 1, 1, MustParseColor("#222222")))

		assert.Equal(t, 1, s.Count())
		v, ok := s.GetVoxelAt(1, 1, 1)
		require.True(t, ok)
		assert.Equal(t, Color("#222222"), v.Color)
		assert.Equal(t, int64(1050), v.TimestampMs)
	})

	t.Run("stamps with the store clock", func(t *testing.T) {
		s, clk := newTestStore(t, 8)
		clk.Set(4242)
		s.AddVoxel(0, 0, 0, MustParseColor("#ABCDEF"))
		v, _ := s.GetVoxelAt(0, 0, 0)
		assert.Equal(t, int64(4242), v.TimestampMs)
	})
}

func TestRemoveVoxel(t *testing.T) {
	t.Run("removes an occupied cell", func(t *testing.T) {
		s, _ := newTestStore(t, 8)
		s.AddVoxel(2, 0, 2, MustParseColor("#FFFFFF"))
		assert.True(t, s.RemoveVoxel(2, 0, 2))
		_, ok := s.GetVoxelAt(2, 0, 2)
		assert.False(t, ok)
		assert.Equal(t, 0, s.Count())
	})

	t.Run("absent cell is an idempotent no-op", func(t *testing.T) {
		s, _ := newTestStore(t, 8)
		s.AddVoxel(2, 0, 2, MustParseColor("#FFFFFF"))
		before := s.ExportVoxels()

		assert.True(t, s.RemoveVoxel(5, 0, 5))
		assert.True(t, s.RemoveVoxel(-3, 99, 0))

		assert.Equal(t, 1, s.Count())
		if diff := cmp.Diff(before, s.ExportVoxels()); diff != "" {
			t.Errorf("store changed (-before +after):\n%s", diff)
		}
	})
}

func TestResize(t *testing.T) {
	s, _ := newTestStore(t, 8)
	s.AddVoxel(7, 7, 7, MustParseColor("#FFFFFF"))

	require.NoError(t, s.Resize(32))
	assert.Equal(t, 32, s.GridSize())
	assert.Equal(t, 0, s.Count())
	assert.True(t, s.AddVoxel(31, 0, 31, MustParseColor("#FFFFFF")))

	assert.ErrorIs(t, s.Resize(-1), ErrInvalidGridSize)
	assert.Equal(t, 32, s.GridSize())
}

func TestExportVoxels_SortedAndStable(t *testing.T) {
	s, _ := newTestStore(t, 16)
	c := MustParseColor("#4F46E5")
	s.AddVoxel(5, 0, 1, c)
	s.AddVoxel(1, 2, 3, c)
	s.AddVoxel(1, 0, 9, c)
	s.AddVoxel(1, 0, 2, c)

	want := []Record{
		{X: 1, Y: 0, Z: 2, Color: c, TimestampMs: 1000},
		{X: 1, Y: 0, Z: 9, Color: c, TimestampMs: 1000},
		{X: 1, Y: 2, Z: 3, Color: c, TimestampMs: 1000},
		{X: 5, Y: 0, Z: 1, Color: c, TimestampMs: 1000},
	}

	for i := 0; i < 3; i++ {
		if diff := cmp.Diff(want, s.ExportVoxels()); diff != "" {
			t.Fatalf("export mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestImportVoxels(t *testing.T) {
	t.Run("export then import into a fresh store is identical", func(t *testing.T) {
		src, _ := newTestStore(t, 16)
		src.AddVoxel(0, 0, 0, MustParseColor("#EF4444"))
		src.AddVoxel(3, 0, 5, MustParseColor("#10B981"))
		src.AddVoxel(15, 15, 15, MustParseColor("#F59E0B"))

		dst, _ := newTestStore(t, 16)
		require.NoError(t, dst.ImportVoxels(src.ExportVoxels()))

		if diff := cmp.Diff(src.ExportVoxels(), dst.ExportVoxels()); diff != "" {
			t.Errorf("round-trip mismatch (-src +dst):\n%s", diff)
		}
	})

	t.Run("replaces existing content", func(t *testing.T) {
		s, _ := newTestStore(t, 16)
		s.AddVoxel(9, 9, 9, MustParseColor("#FFFFFF"))

		require.NoError(t, s.ImportVoxels([]Record{{X: 1, Y: 0, Z: 1, Color: "#000000", TimestampMs: 7}}))

		assert.Equal(t, 1, s.Count())
		_, ok := s.GetVoxelAt(9, 9, 9)
		assert.False(t, ok)
	})

	t.Run("missing timestamps are stamped with now", func(t *testing.T) {
		s, clk := newTestStore(t, 16)
		clk.Set(5000)

		require.NoError(t, s.ImportVoxels([]Record{
			{X: 1, Y: 0, Z: 1, Color: "#000000"},
			{X: 2, Y: 0, Z: 2, Color: "#000000", TimestampMs: 99},
		}))

		v1, _ := s.GetVoxelAt(1, 0, 1)
		v2, _ := s.GetVoxelAt(2, 0, 2)
		assert.Equal(t, int64(5000), v1.TimestampMs)
		assert.Equal(t, int64(99), v2.TimestampMs)
	})

	t.Run("out-of-bounds records are accepted", func(t *testing.T) {
		s, _ := newTestStore(t, 4)
		require.NoError(t, s.ImportVoxels([]Record{{X: 10, Y: -1, Z: 2, Color: "#123456", TimestampMs: 1}}))
		_, ok := s.GetVoxelAt(10, -1, 2)
		assert.True(t, ok)
	})

	t.Run("invalid colour rejects the whole import", func(t *testing.T) {
		s, _ := newTestStore(t, 16)
		s.AddVoxel(4, 0, 4, MustParseColor("#FFFFFF"))
		before := s.ExportVoxels()

		err := s.ImportVoxels([]Record{
			{X: 1, Y: 0, Z: 1, Color: "#000000"},
			{X: 2, Y: 0, Z: 2, Color: "red"},
		})
		assert.ErrorIs(t, err, ErrInvalidColor)
		assert.Equal(t, before, s.ExportVoxels())
	})
}

func TestStoreConcurrentAccess(t *testing.T) {
	s, _ := newTestStore(t, 16)
	c := MustParseColor("#3B82F6")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AddVoxel(i, 0, i, c)
			s.GetVoxelAt(i, 0, i)
			s.ExportVoxels()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16, s.Count())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff00aa")
	require.NoError(t, err)
	assert.Equal(t, Color("#FF00AA"), c)

	for _, bad := range []string{"", "ff00aa", "#ff00a", "#ff00aag", "#GG0000", "red"} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, ErrInvalidColor, "input %q", bad)
	}

	assert.Panics(t, func() { MustParseColor("nope") })
}
