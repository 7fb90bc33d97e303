// Package replay reads recorded hand-landmark streams and drives a session
// with them.
//
// A recording is JSONL, one frame per line:
//
//	{"t": 0, "landmarks": [[0.5, 0.6, 0.0], ... 21 entries]}
//	{"t": 33, "landmarks": null}
//	{"t": 66, "landmarks": [...], "mode": "delete", "color": 3}
//
// t is milliseconds and must not decrease. A null or missing landmarks field
// means no hand was visible. mode and color are optional control inputs
// applied before the frame is processed; color is a preset index.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dyluth/pinch/internal/gesture"
	"github.com/dyluth/pinch/internal/mode"
)

// maxLineBytes bounds a single recorded frame.
const maxLineBytes = 1 << 20

// Frame is one recorded sample.
type Frame struct {
	TMs  int64
	Hand *gesture.Hand
	// Mode is empty when the frame does not change the mode.
	Mode mode.Mode
	// Color is nil when the frame does not select a preset.
	Color *int
}

type frameJSON struct {
	T         *int64      `json:"t"`
	Landmarks [][]float64 `json:"landmarks"`
	Mode      string      `json:"mode,omitempty"`
	Color     *int        `json:"color,omitempty"`
}

// Reader decodes frames from a JSONL recording.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	lastT   int64
	started bool
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{scanner: scanner}
}

// Next returns the next frame, or io.EOF when the recording ends. Blank
// lines and lines starting with # are skipped. Errors name the line number.
func (r *Reader) Next() (Frame, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		f, err := r.decode([]byte(text))
		if err != nil {
			return Frame{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return f, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Frame{}, fmt.Errorf("line %d: failed to read recording: %w", r.line+1, err)
	}
	return Frame{}, io.EOF
}

// Line returns the number of the last line read.
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) decode(data []byte) (Frame, error) {
	var raw frameJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Frame{}, fmt.Errorf("invalid JSON: %w", err)
	}

	if raw.T == nil {
		return Frame{}, fmt.Errorf("missing required field 't'")
	}
	if r.started && *raw.T < r.lastT {
		return Frame{}, fmt.Errorf("timestamp %d is before previous %d", *raw.T, r.lastT)
	}

	f := Frame{TMs: *raw.T, Color: raw.Color}

	if raw.Mode != "" {
		m, err := mode.Parse(raw.Mode)
		if err != nil {
			return Frame{}, err
		}
		f.Mode = m
	}

	if raw.Landmarks != nil {
		landmarks := make([]gesture.Landmark, 0, len(raw.Landmarks))
		for i, p := range raw.Landmarks {
			if len(p) != 3 {
				return Frame{}, fmt.Errorf("landmark %d: expected [x, y, z], got %d values", i, len(p))
			}
			landmarks = append(landmarks, gesture.Landmark{X: p[0], Y: p[1], Z: p[2]})
		}
		hand, err := gesture.NewHand(landmarks)
		if err != nil {
			return Frame{}, err
		}
		f.Hand = hand
	}

	r.lastT = f.TMs
	r.started = true
	return f, nil
}

// Writer encodes frames as a JSONL recording.
type Writer struct {
	enc *json.Encoder
}

// NewWriter returns a Writer that appends to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Write appends one frame.
func (w *Writer) Write(f Frame) error {
	t := f.TMs
	raw := frameJSON{T: &t, Mode: string(f.Mode), Color: f.Color}
	if f.Hand != nil {
		raw.Landmarks = make([][]float64, 0, gesture.LandmarkCount)
		for _, l := range f.Hand {
			raw.Landmarks = append(raw.Landmarks, []float64{l.X, l.Y, l.Z})
		}
	}
	if err := w.enc.Encode(raw); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}
