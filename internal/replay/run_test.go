package replay

import (
	"context"
	"testing"
	"time"

	"github.com/dyluth/pinch/internal/clock"
	"github.com/dyluth/pinch/internal/engine"
	"github.com/dyluth/pinch/internal/mode"
	"github.com/dyluth/pinch/pkg/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManualSession(t *testing.T) (*engine.Session, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(0)
	opts := engine.DefaultOptions()
	opts.Clock = clk
	s, err := engine.NewSession(opts)
	require.NoError(t, err)
	return s, clk
}

func TestRun_HoldAndRepeat(t *testing.T) {
	s, clk := newManualSession(t)
	hand := pinchHand()
	buf := recording(t,
		Frame{TMs: 0, Hand: hand},
		Frame{TMs: 100, Hand: hand},
		Frame{TMs: 200, Hand: hand},
		Frame{TMs: 300, Hand: hand},
		Frame{TMs: 520, Hand: hand},
		Frame{TMs: 600},
	)

	sum, err := Run(s, clk, NewReader(buf), downCaster{}, nil)
	require.NoError(t, err)

	assert.Equal(t, Summary{Read: 6, Frames: 6, Actions: 2}, sum)
	assert.Equal(t, 1, s.VoxelCount())
	assert.Equal(t, int64(600), clk.NowMs())

	v := s.Voxels()[0]
	assert.Equal(t, voxel.Cell{X: 8, Y: 0, Z: 8}, v.Cell())
	assert.Equal(t, int64(520), v.TimestampMs)
}

func TestRun_ReportsEveryFrame(t *testing.T) {
	s, clk := newManualSession(t)
	hand := pinchHand()
	buf := recording(t,
		Frame{TMs: 0, Hand: hand},
		Frame{TMs: 200, Hand: hand},
		Frame{TMs: 300, Hand: hand},
		Frame{TMs: 500, Hand: hand},
		Frame{TMs: 510},
	)

	var frames []engine.Frame
	sum, err := Run(s, clk, NewReader(buf), downCaster{}, func(f engine.Frame) {
		frames = append(frames, f)
	})
	require.NoError(t, err)

	require.Len(t, frames, sum.Frames)
	var firedAt []int64
	for _, f := range frames {
		if f.Fired {
			firedAt = append(firedAt, f.AtMs)
		}
	}
	assert.Equal(t, []int64{200, 500}, firedAt)
	assert.Nil(t, frames[4].Cursor, "no hand, no cursor")
}

func TestRun_AppliesControls(t *testing.T) {
	s, clk := newManualSession(t)
	hand := pinchHand()
	buf := recording(t,
		Frame{TMs: 0, Hand: hand, Color: intPtr(1)},
		Frame{TMs: 200, Hand: hand},
		Frame{TMs: 300, Mode: mode.Delete, Color: intPtr(42)},
	)

	sum, err := Run(s, clk, NewReader(buf), downCaster{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Actions)
	assert.Equal(t, voxel.Color("#EF4444"), s.Voxels()[0].Color)
	assert.Equal(t, mode.Delete, s.Mode())
	assert.Equal(t, voxel.Color("#EF4444"), s.Color(), "unknown preset is ignored")
}

func TestRun_StopsAtBadLine(t *testing.T) {
	s, clk := newManualSession(t)
	buf := recording(t, Frame{TMs: 0}, Frame{TMs: 10})
	buf.WriteString("{\"t\": 5}\n")

	sum, err := Run(s, clk, NewReader(buf), downCaster{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Equal(t, 2, sum.Frames)
}

func TestStream_RealTime(t *testing.T) {
	opts := engine.DefaultOptions()
	s, err := engine.NewSession(opts)
	require.NoError(t, err)

	hand := pinchHand()
	buf := recording(t,
		Frame{TMs: 0, Hand: hand},
		Frame{TMs: 250, Hand: hand},
		Frame{TMs: 260, Hand: hand},
	)

	var frames []engine.Frame
	sum, err := Stream(context.Background(), s, NewReader(buf), downCaster{}, 1, func(f engine.Frame) {
		frames = append(frames, f)
	})
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Read)
	assert.Equal(t, sum.Read, sum.Frames+sum.Dropped)
	assert.Len(t, frames, sum.Frames)
	assert.Equal(t, 1, sum.Actions)
	assert.Equal(t, 1, s.VoxelCount())
}

func TestStream_RejectsBadSpeed(t *testing.T) {
	s, _ := newManualSession(t)
	_, err := Stream(context.Background(), s, NewReader(recording(t)), downCaster{}, 0, nil)
	assert.Error(t, err)
}

func TestStream_Cancel(t *testing.T) {
	s, _ := newManualSession(t)
	buf := recording(t, Frame{TMs: 0}, Frame{TMs: 60_000})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	sum, err := Stream(ctx, s, NewReader(buf), downCaster{}, 1, nil)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Equal(t, 1, sum.Read)
}

func TestRun_OffsetsFromClockStart(t *testing.T) {
	clk := clock.NewManual(1_000_000)
	opts := engine.DefaultOptions()
	opts.Clock = clk
	s, err := engine.NewSession(opts)
	require.NoError(t, err)

	hand := pinchHand()
	buf := recording(t, Frame{TMs: 0, Hand: hand}, Frame{TMs: 200, Hand: hand})

	sum, err := Run(s, clk, NewReader(buf), downCaster{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Actions)
	assert.Equal(t, int64(1_000_200), s.Voxels()[0].TimestampMs)
}
