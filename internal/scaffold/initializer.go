// Package scaffold creates a starter pinch project: a pinch.yml and an
// example hand recording to replay.
package scaffold

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dyluth/pinch/internal/config"
	"github.com/dyluth/pinch/internal/gesture"
	"github.com/dyluth/pinch/internal/mode"
	"github.com/dyluth/pinch/internal/replay"
	"github.com/google/uuid"
)

const (
	// ConfigFile is the config file created in the project directory
	ConfigFile = config.DefaultPath
	// RecordingsDir holds example recordings
	RecordingsDir = "recordings"
	// ExampleRecording is the example recording's file name
	ExampleRecording = "example.jsonl"
)

const configHeader = `# pinch configuration
# Every field except version is optional; omitted fields use the defaults
# shown here.
`

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Content     []byte
	Permissions os.FileMode
}

// Initialize creates the project files in dir. With force, existing files are
// replaced.
func Initialize(dir string, force bool) error {
	if force {
		if err := handleForce(dir); err != nil {
			return err
		}
	}

	files, err := projectFiles()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(dir, RecordingsDir), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", RecordingsDir, err)
	}

	for _, file := range files {
		path := filepath.Join(dir, file.Path)
		if err := os.WriteFile(path, file.Content, file.Permissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}

	return validateCreatedFiles(dir)
}

// handleForce removes the files Initialize would create
func handleForce(dir string) error {
	for _, name := range []string{ConfigFile, filepath.Join(RecordingsDir, ExampleRecording)} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("⚠️  Removing existing %s...\n", name)
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", name, err)
			}
		}
	}
	return nil
}

// projectFiles renders pinch.yml with a fresh session name and the example
// recording
func projectFiles() ([]FileInfo, error) {
	cfg := config.Default()
	cfg.Persistence.Session = NewSessionName()

	body, err := cfg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", ConfigFile, err)
	}

	var rec bytes.Buffer
	if err := WriteExampleRecording(&rec); err != nil {
		return nil, err
	}

	return []FileInfo{
		{
			Path:        ConfigFile,
			Content:     append([]byte(configHeader), body...),
			Permissions: 0644,
		},
		{
			Path:        filepath.Join(RecordingsDir, ExampleRecording),
			Content:     rec.Bytes(),
			Permissions: 0644,
		},
	}, nil
}

// NewSessionName returns a random session name like "world-1a2b3c4d".
func NewSessionName() string {
	return "world-" + uuid.New().String()[:8]
}

// WriteExampleRecording writes a short recording at 30 frames per second:
// a pinch held just below screen centre, a second pinch further right in red,
// then a fist in delete mode over the first cell. The hand leaves the frame
// between gestures.
func WriteExampleRecording(w io.Writer) error {
	const frameMs = 33
	rw := replay.NewWriter(w)

	var t int64
	emit := func(f replay.Frame, frames int) error {
		for i := 0; i < frames; i++ {
			f.TMs = t
			if err := rw.Write(f); err != nil {
				return err
			}
			// Controls apply once
			f.Mode, f.Color = "", nil
			t += frameMs
		}
		return nil
	}

	red := 1
	steps := []struct {
		frame  replay.Frame
		frames int
	}{
		{replay.Frame{Hand: exampleHand(0.5, 0.55, false)}, 10},
		{replay.Frame{}, 5},
		{replay.Frame{Hand: exampleHand(0.6, 0.55, false), Color: &red}, 10},
		{replay.Frame{}, 5},
		{replay.Frame{Hand: exampleHand(0.5, 0.55, true), Mode: mode.Delete}, 10},
		{replay.Frame{}, 3},
	}
	for _, s := range steps {
		if err := emit(s.frame, s.frames); err != nil {
			return fmt.Errorf("failed to write example recording: %w", err)
		}
	}
	return nil
}

// exampleHand pinches, or makes a fist, with the index fingertip at (x, y).
func exampleHand(x, y float64, fist bool) *gesture.Hand {
	var h gesture.Hand
	wristDy := 0.25
	if fist {
		wristDy = 0.05
	}
	for i := range h {
		h[i] = gesture.Landmark{X: x, Y: y + wristDy}
	}
	h[gesture.IndexTip] = gesture.Landmark{X: x, Y: y}
	if fist {
		h[gesture.ThumbTip] = gesture.Landmark{X: x - 0.3, Y: y + wristDy}
	} else {
		h[gesture.ThumbTip] = gesture.Landmark{X: x + 0.01, Y: y}
	}
	return &h
}

// validateCreatedFiles checks the written config loads and the recording
// parses
func validateCreatedFiles(dir string) error {
	if _, err := config.Load(filepath.Join(dir, ConfigFile)); err != nil {
		return fmt.Errorf("created %s is invalid: %w", ConfigFile, err)
	}

	f, err := os.Open(filepath.Join(dir, RecordingsDir, ExampleRecording))
	if err != nil {
		return fmt.Errorf("failed to open created recording: %w", err)
	}
	defer f.Close()

	r := replay.NewReader(f)
	for {
		if _, err := r.Next(); err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("created recording is invalid: %w", err)
		}
	}
}

// PrintSuccess prints the created files and next steps
func PrintSuccess(w io.Writer) {
	fmt.Fprintln(w, "\n✅ Successfully initialized pinch project!")
	fmt.Fprintln(w, "\nCreated:")
	fmt.Fprintf(w, "  ✓ %s\n", ConfigFile)
	fmt.Fprintf(w, "  ✓ %s\n", filepath.Join(RecordingsDir, ExampleRecording))
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintf(w, "  1. Replay the example: pinch replay %s --save\n", filepath.Join(RecordingsDir, ExampleRecording))
	fmt.Fprintln(w, "  2. Inspect the result:  pinch show")
	fmt.Fprintf(w, "  3. Tune gestures and camera in %s\n", ConfigFile)
}
