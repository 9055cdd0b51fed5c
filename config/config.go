// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/bowshot/sim"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Launch    PointConfig     `yaml:"launch"`
	Target    BoxConfig       `yaml:"target"`
	Arrow     SizeConfig      `yaml:"arrow"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	MissBand  MissBandConfig  `yaml:"miss_band"`
	Autopilot AutopilotConfig `yaml:"autopilot"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// WorldConfig holds playfield dimensions.
// The playfield can be larger than the window; the camera fits it in.
type WorldConfig struct {
	Width  int `yaml:"width"`  // 0 = use screen width
	Height int `yaml:"height"` // 0 = use screen height
}

// PointConfig is a fixed world coordinate.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// BoxConfig is an axis-aligned box anchored at its top-left corner.
type BoxConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SizeConfig is a width/height pair.
type SizeConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds flight constants.
type PhysicsConfig struct {
	Gravity         float64 `yaml:"gravity"`          // units per tick squared
	VelocityDivisor float64 `yaml:"velocity_divisor"` // pull distance / divisor = launch speed
}

// ScoringConfig holds the award per hit.
type ScoringConfig struct {
	Award int `yaml:"award"`
}

// MissBandConfig bounds the per-tick fall-out threshold, drawn from [min, max).
type MissBandConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// AutopilotConfig drives the scripted archer used in headless runs.
type AutopilotConfig struct {
	IntervalTicks int     `yaml:"interval_ticks"` // ticks spent aiming before each release
	Jitter        float64 `yaml:"jitter"`         // stddev of pointer noise, world units
	GridSteps     int     `yaml:"grid_steps"`     // sweep resolution per axis for the aim solver
	MaxEvals      int     `yaml:"max_evals"`      // Nelder-Mead evaluation cap
	MaxPull       float64 `yaml:"max_pull"`       // largest pointer offset searched from the bow
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW32  float32 // effective world width as float32
	WorldH32  float32 // effective world height as float32
	ScreenW32 float32
	ScreenH32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
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
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports configuration that would make the game unplayable.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return errors.New("screen dimensions must be positive")
	}
	if c.World.Width < 0 || c.World.Height < 0 {
		return errors.New("world dimensions must not be negative")
	}
	if c.Telemetry.StatsWindow <= 0 {
		return errors.New("telemetry.stats_window must be positive")
	}
	if c.Autopilot.IntervalTicks < 0 || c.Autopilot.GridSteps < 2 || c.Autopilot.MaxPull <= 0 {
		return errors.New("autopilot needs interval_ticks >= 0, grid_steps >= 2 and max_pull > 0")
	}
	return c.SimParams().Validate()
}

// SimParams converts the session constants into simulator parameters.
func (c *Config) SimParams() sim.Params {
	return sim.Params{
		LaunchPoint:     sim.Vec2{X: c.Launch.X, Y: c.Launch.Y},
		TargetZone:      sim.Rect{X: c.Target.X, Y: c.Target.Y, W: c.Target.Width, H: c.Target.Height},
		ArrowSize:       sim.Vec2{X: c.Arrow.Width, Y: c.Arrow.Height},
		Gravity:         c.Physics.Gravity,
		VelocityDivisor: c.Physics.VelocityDivisor,
		Award:           c.Scoring.Award,
		MissBandMin:     c.MissBand.Min,
		MissBandMax:     c.MissBand.Max,
	}
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)
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
