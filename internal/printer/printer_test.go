package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture redirects Out and ErrOut to buffers with colour disabled
func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr, prevNoColor := Out, ErrOut, color.NoColor
	Out, ErrOut, color.NoColor = &out, &errOut, true
	t.Cleanup(func() {
		Out, ErrOut, color.NoColor = prevOut, prevErr, prevNoColor
	})
	return &out, &errOut
}

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		_, errOut := capture(t)
		err := Error("Load failed", "No world saved", nil)
		require.Error(t, err)
		assert.Equal(t, "Load failed", err.Error())
		assert.Equal(t, "Load failed\n\nNo world saved\n", errOut.String())
	})

	t.Run("single suggestion printed bare", func(t *testing.T) {
		_, errOut := capture(t)
		Error("Load failed", "No world saved", []string{"Run: pinch replay first"})
		assert.Contains(t, errOut.String(), "\nRun: pinch replay first\n")
		assert.NotContains(t, errOut.String(), "Either:")
	})

	t.Run("multiple suggestions numbered", func(t *testing.T) {
		_, errOut := capture(t)
		Error("Import failed", "Bad file", []string{"Fix the JSON", "Export again"})
		assert.Contains(t, errOut.String(), "Either:\n  1. Fix the JSON\n  2. Export again\n")
	})
}

func TestErrorWithContext_KeepsOrder(t *testing.T) {
	_, errOut := capture(t)
	err := ErrorWithContext("Redis unreachable", "", [][2]string{
		{"addr", "localhost:6379"},
		{"session", "studio"},
	}, nil)

	assert.Equal(t, "Redis unreachable", err.Error())
	assert.Equal(t, "Redis unreachable\n\n\n  addr: localhost:6379\n  session: studio\n", errOut.String())
}

func TestSuccessAndWarning_Prefixes(t *testing.T) {
	out, _ := capture(t)

	Success("saved %d voxels\n", 3)
	Success("✓ already prefixed\n")
	Warning("world is empty\n")

	assert.Equal(t, "✓ saved 3 voxels\n✓ already prefixed\n⚠️  world is empty\n", out.String())
}

func TestStepAndPlain(t *testing.T) {
	out, _ := capture(t)

	Step("replaying %s\n", "demo.jsonl")
	Heading("World")
	Println("a", "b")
	Printf("%d\n", 7)
	Info("done\n")

	assert.Equal(t, "→ replaying demo.jsonl\nWorld\na b\n7\ndone\n", out.String())
}

func TestSwatch(t *testing.T) {
	capture(t)

	assert.Equal(t, "   #4F46E5", Swatch("#4F46E5"))
	assert.Equal(t, "red", Swatch("red"), "unparseable colours fall back to text")
	assert.Equal(t, "#GG0000", Swatch("#GG0000"))
}

func TestBadge(t *testing.T) {
	capture(t)

	assert.Equal(t, " BUILD ", Badge("build"))
	assert.Equal(t, " DELETE ", Badge("delete"))
}

func TestRGB(t *testing.T) {
	r, g, b, ok := rgb("#10B981")
	require.True(t, ok)
	assert.Equal(t, []int{0x10, 0xB9, 0x81}, []int{r, g, b})
}
