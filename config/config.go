// Package config provides configuration loading and access for the simulator.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulator configuration parameters.
type Config struct {
	Screen     ScreenConfig    `yaml:"screen"`
	Temporal   TemporalConfig  `yaml:"temporal"`
	Gaze       GazeConfig      `yaml:"gaze"`
	Phosphenes PhospheneConfig `yaml:"phosphenes"`
	Stimulus   StimulusConfig  `yaml:"stimulus"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings. Width/Height are also the
// resolution of the activation and render fields.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TemporalConfig holds the per-frame activation dynamics parameters.
type TemporalConfig struct {
	InputEffect    float64 `yaml:"input_effect"`    // stimulation -> activation gain
	IntensityDecay float64 `yaml:"intensity_decay"` // activation carry-over per frame, [0,1)
	TraceIncrease  float64 `yaml:"trace_increase"`  // stimulation -> trace gain
	TraceDecay     float64 `yaml:"trace_decay"`     // trace carry-over per frame, [0,1)
}

// GazeConfig holds gaze mode flags and the fixed per-eye center
// references used when a mode flag is off.
type GazeConfig struct {
	Assisted    bool        `yaml:"assisted"` // sampling position follows live gaze
	Locked      bool        `yaml:"locked"`   // output position follows live gaze
	LeftCenter  PointConfig `yaml:"left_center"`
	RightCenter PointConfig `yaml:"right_center"`
}

// PointConfig is a normalized 2D point.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PhospheneConfig holds phosphene layout generation parameters.
// If LayoutFile is set, the layout is loaded from CSV instead.
type PhospheneConfig struct {
	Cols           int     `yaml:"cols"`
	Rows           int     `yaml:"rows"`
	Size           float64 `yaml:"size"`            // nominal radius, normalized units
	SizeJitter     float64 `yaml:"size_jitter"`     // +/- fraction of Size
	PositionJitter float64 `yaml:"position_jitter"` // +/- normalized offset per axis
	LayoutFile     string  `yaml:"layout_file"`
}

// StimulusConfig holds demo stimulus source parameters.
type StimulusConfig struct {
	Source      string  `yaml:"source"`       // "targets" or "bar"
	Targets     int     `yaml:"targets"`      // moving target count
	TargetSpeed float64 `yaml:"target_speed"` // normalized units per second
	TargetSize  float64 `yaml:"target_size"`  // normalized radius
	Disparity   float64 `yaml:"disparity"`    // horizontal left/right stereo offset
	BarWidth    float64 `yaml:"bar_width"`    // drifting bar width, normalized
	BarSpeed    float64 `yaml:"bar_speed"`    // drifting bar speed, units per second
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // frames per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulator cannot run with.
// Degenerate values fail here, at initialization, never per-frame.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("config: screen resolution must be positive, got %dx%d",
			c.Screen.Width, c.Screen.Height)
	}
	if c.Temporal.IntensityDecay < 0 || c.Temporal.IntensityDecay >= 1 {
		return fmt.Errorf("config: intensity_decay must be in [0,1), got %g",
			c.Temporal.IntensityDecay)
	}
	if c.Temporal.TraceDecay < 0 || c.Temporal.TraceDecay >= 1 {
		return fmt.Errorf("config: trace_decay must be in [0,1), got %g",
			c.Temporal.TraceDecay)
	}
	if c.Phosphenes.LayoutFile == "" {
		if c.Phosphenes.Cols < 1 || c.Phosphenes.Rows < 1 {
			return fmt.Errorf("config: phosphene grid must be at least 1x1, got %dx%d",
				c.Phosphenes.Cols, c.Phosphenes.Rows)
		}
		if c.Phosphenes.Size <= 0 {
			return fmt.Errorf("config: phosphene size must be positive, got %g",
				c.Phosphenes.Size)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
