// Package engine wires gesture classification, spatial mapping, debouncing
// and the voxel store into a per-session editing pipeline.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dyluth/pinch/internal/clock"
	"github.com/dyluth/pinch/internal/debounce"
	"github.com/dyluth/pinch/internal/gesture"
	"github.com/dyluth/pinch/internal/mode"
	"github.com/dyluth/pinch/internal/spatial"
	"github.com/dyluth/pinch/pkg/voxel"
)

// Options configures a Session.
type Options struct {
	GridSize int
	// VoxelSize is the edge length of a cell in world units. Zero means 1.
	VoxelSize float64
	// Thresholds tune the classifier. The zero value means the defaults.
	Thresholds gesture.Thresholds
	// Policy sets the hold and cooldown. The zero value means
	// debounce.DefaultPolicy().
	Policy debounce.Policy
	// Palette lists the presets for SelectColor. Empty means Presets.
	Palette []voxel.Color
	// Color is the starting paint colour. Empty means DefaultColor.
	Color voxel.Color
	// Mode is the starting mode. Empty means build.
	Mode mode.Mode
	// Clock is shared by the debouncer and the store. Nil means the system clock.
	Clock clock.Clock
}

// DefaultOptions returns the calibrated defaults on a 16-cell grid.
func DefaultOptions() Options {
	return Options{
		GridSize:   16,
		VoxelSize:  1,
		Thresholds: gesture.DefaultThresholds(),
		Policy:     debounce.DefaultPolicy(),
		Color:      DefaultColor,
		Mode:       mode.Build,
	}
}

// Frame is the outcome of processing one hand sample.
type Frame struct {
	Gesture    gesture.Gesture
	Cursor     *voxel.Cell
	Mode       mode.Mode
	Fired      bool
	VoxelCount int
	AtMs       int64
}

// Snapshot is a consistent view of everything a renderer needs.
type Snapshot struct {
	Mode       mode.Mode
	Gesture    gesture.Gesture
	Cursor     *voxel.Cell
	Color      voxel.Color
	GridSize   int
	VoxelCount int
	State      debounce.State
	Voxels     []voxel.Record
}

// Stats counts processed frames and actions taken.
type Stats struct {
	Frames  int
	Actions int
}

// Session owns one voxel world and the pipeline that edits it. All methods
// are safe for concurrent use; frame processing, persistence and the control
// surface serialise on a single lock.
type Session struct {
	mu sync.Mutex

	clock      clock.Clock
	store      *voxel.Store
	classifier *gesture.Classifier
	mapper     *spatial.Mapper
	debouncer  *debounce.Debouncer
	controller *Controller
	palette    *Palette

	mode    mode.Mode
	gesture gesture.Gesture
	cursor  *voxel.Cell
	stats   Stats
}

// NewSession builds a session from opts.
func NewSession(opts Options) (*Session, error) {
	if opts.Clock == nil {
		opts.Clock = clock.NewSystem()
	}
	if opts.Thresholds == (gesture.Thresholds{}) {
		opts.Thresholds = gesture.DefaultThresholds()
	}
	if opts.Policy == (debounce.Policy{}) {
		opts.Policy = debounce.DefaultPolicy()
	}
	if opts.VoxelSize <= 0 {
		opts.VoxelSize = 1
	}
	if opts.Mode == "" {
		opts.Mode = mode.Build
	}
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("invalid mode: %q", opts.Mode)
	}

	store, err := voxel.NewStore(opts.GridSize, opts.Clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	palette, err := NewPalette(opts.Palette)
	if err != nil {
		return nil, err
	}

	color := DefaultColor
	if opts.Color != "" {
		color, err = voxel.ParseColor(string(opts.Color))
		if err != nil {
			return nil, fmt.Errorf("invalid starting colour: %w", err)
		}
	}

	controller := NewController(store, color)
	return &Session{
		clock:      opts.Clock,
		store:      store,
		classifier: gesture.NewClassifier(opts.Thresholds),
		mapper:     spatial.NewMapper(opts.GridSize, opts.VoxelSize),
		debouncer:  debounce.New(opts.Policy, controller),
		controller: controller,
		palette:    palette,
		mode:       opts.Mode,
		gesture:    gesture.Absent,
	}, nil
}

// Process runs one frame: classify the hand, map the fingertip to a cell,
// debounce, and dispatch. A nil hand means no hand was seen.
func (s *Session) Process(hand *gesture.Hand, cam spatial.RayCaster) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.NowMs()
	res := s.classifier.Classify(hand)
	s.gesture = res.Gesture

	s.cursor = nil
	cell, ok := s.mapper.Map(res.Position, cam)
	if ok {
		s.cursor = &cell
	}

	fired := s.debouncer.Observe(debounce.Input{
		Gesture:   res.Gesture,
		Cell:      cell,
		HasTarget: ok,
		Mode:      s.mode,
		NowMs:     now,
	})

	s.stats.Frames++
	if fired {
		s.stats.Actions++
	}

	return Frame{
		Gesture:    res.Gesture,
		Cursor:     s.cursorCopy(),
		Mode:       s.mode,
		Fired:      fired,
		VoxelCount: s.store.Count(),
		AtMs:       now,
	}
}

func (s *Session) cursorCopy() *voxel.Cell {
	if s.cursor == nil {
		return nil
	}
	c := *s.cursor
	return &c
}

// Voxels returns every placed voxel sorted by position.
func (s *Session) Voxels() []voxel.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ExportVoxels()
}

// Cursor returns the cell under the fingertip in the last frame, or nil.
func (s *Session) Cursor() *voxel.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorCopy()
}

// Mode returns the current mode.
func (s *Session) Mode() mode.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Gesture returns the gesture seen in the last frame.
func (s *Session) Gesture() gesture.Gesture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gesture
}

// VoxelCount returns the number of placed voxels.
func (s *Session) VoxelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Count()
}

// Color returns the current paint colour.
func (s *Session) Color() voxel.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Color()
}

// GridSize returns the grid side length.
func (s *Session) GridSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.GridSize()
}

// Stats returns frame and action counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Palette returns the session's presets.
func (s *Session) Palette() []voxel.Color {
	return s.palette.Colors()
}

// Snapshot returns every output in one consistent read.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Mode:       s.mode,
		Gesture:    s.gesture,
		Cursor:     s.cursorCopy(),
		Color:      s.controller.Color(),
		GridSize:   s.store.GridSize(),
		VoxelCount: s.store.Count(),
		State:      s.debouncer.State(),
		Voxels:     s.store.ExportVoxels(),
	}
}

// ToggleMode switches between build and delete and returns the new mode.
func (s *Session) ToggleMode() mode.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = s.mode.Toggle()
	Logf("[Session] mode: %s", s.mode)
	return s.mode
}

// SetMode sets the mode explicitly.
func (s *Session) SetMode(m mode.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("invalid mode: %q", m)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	return nil
}

// RequestClear empties the world if it has voxels and confirm approves.
// confirm receives the current voxel count and is called without the
// session lock held; a nil confirm approves. Returns whether the world was
// cleared.
func (s *Session) RequestClear(confirm func(count int) bool) bool {
	count := s.VoxelCount()
	if count == 0 {
		return false
	}
	if confirm != nil && !confirm(count) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearAll()
	Logf("[Session] cleared %d voxels", count)
	return true
}

// SelectColor switches to the preset at index. Out-of-range indices are
// ignored and return false.
func (s *Session) SelectColor(index int) bool {
	c, ok := s.palette.At(index)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controller.SetColor(c)
	return true
}

// SetColor switches to a custom #RRGGBB colour.
func (s *Session) SetColor(c voxel.Color) error {
	parsed, err := voxel.ParseColor(string(c))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controller.SetColor(parsed)
	return nil
}

// Resize changes the grid size. The world is emptied.
func (s *Session) Resize(gridSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Resize(gridSize); err != nil {
		return err
	}
	s.mapper = spatial.NewMapper(gridSize, s.mapper.VoxelSize)
	s.cursor = nil
	s.debouncer.Reset()
	return nil
}

// World snapshots the store in the persisted format.
func (s *Session) World() *voxel.World {
	s.mu.Lock()
	defer s.mu.Unlock()
	return voxel.NewWorld(s.store, s.clock.NowMs())
}

// Save writes the world to p. No frame is processed while the save runs.
func (s *Session) Save(ctx context.Context, p voxel.Persister) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := voxel.NewWorld(s.store, s.clock.NowMs())
	if err := p.SaveWorld(ctx, w); err != nil {
		return fmt.Errorf("failed to save world: %w", err)
	}
	Logf("[Session] saved %d voxels", len(w.Voxels))
	return nil
}

// Load replaces the world with the one held by p. On any error the current
// world is left untouched.
func (s *Session) Load(ctx context.Context, p voxel.Persister) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := p.LoadWorld(ctx)
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}
	if err := voxel.ApplyWorld(s.store, w); err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}
	Logf("[Session] loaded %d voxels", len(w.Voxels))
	return nil
}

// ExportToFile writes the world to a timestamped file in dir and returns its
// path.
func (s *Session) ExportToFile(ctx context.Context, dir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.NowMs()
	path := filepath.Join(dir, voxel.ExportFileName(now))
	if err := voxel.NewFileStore(path).SaveWorld(ctx, voxel.NewWorld(s.store, now)); err != nil {
		return "", fmt.Errorf("failed to export world: %w", err)
	}
	Logf("[Session] exported world to %s", path)
	return path, nil
}

// ImportFromFile replaces the world with the contents of a world file.
func (s *Session) ImportFromFile(ctx context.Context, path string) error {
	if err := s.Load(ctx, voxel.NewFileStore(path)); err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}
	return nil
}
