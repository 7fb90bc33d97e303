package config

import (
	"fmt"
	"os"

	"github.com/dyluth/pinch/internal/clock"
	"github.com/dyluth/pinch/internal/debounce"
	"github.com/dyluth/pinch/internal/engine"
	"github.com/dyluth/pinch/internal/gesture"
	"github.com/dyluth/pinch/internal/spatial"
	"github.com/dyluth/pinch/pkg/voxel"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "pinch.yml"

// DefaultPalette returns the engine's built-in presets as config strings.
func DefaultPalette() []string {
	palette := make([]string, len(engine.Presets))
	for i, c := range engine.Presets {
		palette[i] = string(c)
	}
	return palette
}

// PinchConfig represents the top-level pinch.yml configuration
type PinchConfig struct {
	Version      string             `yaml:"version"`
	GridSize     int                `yaml:"grid_size,omitempty"`
	VoxelSize    float64            `yaml:"voxel_size,omitempty"`
	Gesture      *GestureConfig     `yaml:"gesture,omitempty"`
	Debounce     *DebounceConfig    `yaml:"debounce,omitempty"`
	Camera       *CameraConfig      `yaml:"camera,omitempty"`
	Palette      []string           `yaml:"palette,omitempty"`
	DefaultColor string             `yaml:"default_color,omitempty"`
	Persistence  *PersistenceConfig `yaml:"persistence,omitempty"`
}

// GestureConfig overrides classifier thresholds
type GestureConfig struct {
	PinchThreshold    *float64 `yaml:"pinch_threshold,omitempty"`
	ExtendedThreshold *float64 `yaml:"extended_threshold,omitempty"`
}

// DebounceConfig overrides hold and cooldown timings
type DebounceConfig struct {
	HoldMs     *int64 `yaml:"hold_ms,omitempty"`
	CooldownMs *int64 `yaml:"cooldown_ms,omitempty"`
}

// CameraConfig describes the perspective camera used for replays
type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`
	Up       [3]float64 `yaml:"up"`
	FOV      float64    `yaml:"fov"`    // Vertical field of view in degrees
	Aspect   float64    `yaml:"aspect"` // Viewport width / height
}

// PersistenceConfig specifies where worlds are saved
type PersistenceConfig struct {
	RedisAddr string `yaml:"redis_addr,omitempty"`
	Session   string `yaml:"session,omitempty"`
	ExportDir string `yaml:"export_dir,omitempty"`
}

// Default returns a fully populated configuration with the calibrated defaults
func Default() *PinchConfig {
	cfg := &PinchConfig{Version: "1.0"}
	if err := cfg.Validate(); err != nil {
		// Defaults are constants; failing here is a programming error
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

// Validate performs strict validation on the configuration and fills in
// defaults for every omitted section
func (c *PinchConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.GridSize == 0 {
		c.GridSize = 16
	}
	if c.GridSize < 0 {
		return fmt.Errorf("grid_size must be positive, got %d", c.GridSize)
	}

	if c.VoxelSize == 0 {
		c.VoxelSize = 1
	}
	if c.VoxelSize < 0 {
		return fmt.Errorf("voxel_size must be positive, got %v", c.VoxelSize)
	}

	if err := c.validateGesture(); err != nil {
		return err
	}
	if err := c.validateDebounce(); err != nil {
		return err
	}
	if err := c.validateCamera(); err != nil {
		return err
	}
	if err := c.validatePalette(); err != nil {
		return err
	}

	if c.Persistence == nil {
		c.Persistence = &PersistenceConfig{}
	}
	if c.Persistence.RedisAddr == "" {
		c.Persistence.RedisAddr = "localhost:6379"
	}
	if c.Persistence.Session == "" {
		c.Persistence.Session = "default"
	}
	if c.Persistence.ExportDir == "" {
		c.Persistence.ExportDir = "."
	}

	return nil
}

func (c *PinchConfig) validateGesture() error {
	defaults := gesture.DefaultThresholds()
	if c.Gesture == nil {
		c.Gesture = &GestureConfig{}
	}
	if c.Gesture.PinchThreshold == nil {
		c.Gesture.PinchThreshold = &defaults.Pinch
	}
	if c.Gesture.ExtendedThreshold == nil {
		c.Gesture.ExtendedThreshold = &defaults.Extended
	}

	if *c.Gesture.PinchThreshold <= 0 {
		return fmt.Errorf("gesture.pinch_threshold must be > 0, got %v", *c.Gesture.PinchThreshold)
	}
	if *c.Gesture.ExtendedThreshold <= 0 {
		return fmt.Errorf("gesture.extended_threshold must be > 0, got %v", *c.Gesture.ExtendedThreshold)
	}
	return nil
}

func (c *PinchConfig) validateDebounce() error {
	defaults := debounce.DefaultPolicy()
	if c.Debounce == nil {
		c.Debounce = &DebounceConfig{}
	}
	if c.Debounce.HoldMs == nil {
		c.Debounce.HoldMs = &defaults.HoldMs
	}
	if c.Debounce.CooldownMs == nil {
		c.Debounce.CooldownMs = &defaults.CooldownMs
	}

	if *c.Debounce.HoldMs < 0 {
		return fmt.Errorf("debounce.hold_ms must be >= 0, got %d", *c.Debounce.HoldMs)
	}
	if *c.Debounce.CooldownMs < 0 {
		return fmt.Errorf("debounce.cooldown_ms must be >= 0, got %d", *c.Debounce.CooldownMs)
	}
	// A zero policy is read by the engine as "use the defaults"
	if *c.Debounce.HoldMs == 0 && *c.Debounce.CooldownMs == 0 {
		return fmt.Errorf("debounce.hold_ms and debounce.cooldown_ms cannot both be 0")
	}
	return nil
}

func (c *PinchConfig) validateCamera() error {
	if c.Camera == nil {
		// Matches the original scene: looking at the origin from (12, 12, 12)
		c.Camera = &CameraConfig{
			Position: [3]float64{12, 12, 12},
			Target:   [3]float64{0, 0, 0},
			Up:       [3]float64{0, 1, 0},
			FOV:      50,
			Aspect:   640.0 / 480.0,
		}
		return nil
	}

	if c.Camera.Up == [3]float64{} {
		c.Camera.Up = [3]float64{0, 1, 0}
	}
	if c.Camera.FOV == 0 {
		c.Camera.FOV = 50
	}
	if c.Camera.Aspect == 0 {
		c.Camera.Aspect = 640.0 / 480.0
	}

	if c.Camera.FOV < 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera.fov must be in (0, 180), got %v", c.Camera.FOV)
	}
	if c.Camera.Aspect < 0 {
		return fmt.Errorf("camera.aspect must be positive, got %v", c.Camera.Aspect)
	}
	if c.Camera.Position == c.Camera.Target {
		return fmt.Errorf("camera.position and camera.target must differ")
	}
	return nil
}

func (c *PinchConfig) validatePalette() error {
	if len(c.Palette) == 0 {
		c.Palette = DefaultPalette()
	}
	for i, s := range c.Palette {
		if _, err := voxel.ParseColor(s); err != nil {
			return fmt.Errorf("palette[%d]: %w", i, err)
		}
	}

	if c.DefaultColor == "" {
		c.DefaultColor = c.Palette[0]
	}
	if _, err := voxel.ParseColor(c.DefaultColor); err != nil {
		return fmt.Errorf("default_color: %w", err)
	}
	return nil
}

// Thresholds returns the classifier thresholds. Call after Validate.
func (c *PinchConfig) Thresholds() gesture.Thresholds {
	return gesture.Thresholds{
		Pinch:    *c.Gesture.PinchThreshold,
		Extended: *c.Gesture.ExtendedThreshold,
	}
}

// Policy returns the debounce policy. Call after Validate.
func (c *PinchConfig) Policy() debounce.Policy {
	return debounce.Policy{
		HoldMs:     *c.Debounce.HoldMs,
		CooldownMs: *c.Debounce.CooldownMs,
	}
}

// Colors returns the palette as parsed colours. Call after Validate.
func (c *PinchConfig) Colors() []voxel.Color {
	colors := make([]voxel.Color, 0, len(c.Palette))
	for _, s := range c.Palette {
		colors = append(colors, voxel.MustParseColor(s))
	}
	return colors
}

// NewCamera builds the configured camera. Call after Validate.
func (c *PinchConfig) NewCamera() (*spatial.Camera, error) {
	vec := func(v [3]float64) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }
	cam, err := spatial.NewCamera(vec(c.Camera.Position), vec(c.Camera.Target), vec(c.Camera.Up), c.Camera.FOV, c.Camera.Aspect)
	if err != nil {
		return nil, fmt.Errorf("invalid camera: %w", err)
	}
	return cam, nil
}

// SessionOptions converts the configuration into engine options using clk.
// Call after Validate.
func (c *PinchConfig) SessionOptions(clk clock.Clock) engine.Options {
	return engine.Options{
		GridSize:   c.GridSize,
		VoxelSize:  c.VoxelSize,
		Thresholds: c.Thresholds(),
		Policy:     c.Policy(),
		Palette:    c.Colors(),
		Color:      voxel.Color(c.DefaultColor),
		Clock:      clk,
	}
}

// Load reads and validates pinch.yml from the specified path
func Load(path string) (*PinchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config PinchConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads path if it exists and returns Default() otherwise
func LoadOrDefault(path string) (*PinchConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Marshal renders the configuration as YAML
func (c *PinchConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
