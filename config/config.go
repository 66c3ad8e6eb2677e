// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
// Values are read once at startup and treated as immutable for the run.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the simulation domain extents in world units.
// The domain is the axis-aligned rectangle [-Width/2, Width/2] x [-Height/2, Height/2].
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// FluidConfig holds the SPH fluid parameters.
type FluidConfig struct {
	Mass               float64 `yaml:"mass"`                // per-particle mass, uniform
	SmoothingRadius    float64 `yaml:"smoothing_radius"`    // kernel support radius
	TargetDensity      float64 `yaml:"target_density"`      // rest density; pressure is zero here
	PressureMultiplier float64 `yaml:"pressure_multiplier"` // equation-of-state stiffness
	Kernel             string  `yaml:"kernel"`              // "poly6" or "spiky"
}

// PhysicsConfig holds integration and contact parameters.
type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity"`         // downward acceleration magnitude
	Damping        float64 `yaml:"damping"`         // velocity retention per tick, (0, 1]
	Restitution    float64 `yaml:"restitution"`     // collision elasticity, [0, 1]
	ParticleRadius float64 `yaml:"particle_radius"` // contact radius, uniform
	MinDT          float64 `yaml:"min_dt"`          // floor for host-supplied frame time
	GridCellSize   float64 `yaml:"grid_cell_size"`  // spatial hash cell size (raised to smoothing radius)
}

// SpawnConfig holds initial particle placement parameters.
type SpawnConfig struct {
	GridSize int     `yaml:"grid_size"` // initial block is GridSize x GridSize particles
	Spacing  float64 `yaml:"spacing"`   // lattice spacing in world units
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Mass            float32 // Fluid.Mass as float32
	SmoothingRadius float32 // Fluid.SmoothingRadius as float32
	TargetDensity   float32 // Fluid.TargetDensity as float32
	Stiffness       float32 // Fluid.PressureMultiplier as float32
	Gravity         float32 // Physics.Gravity as float32
	Damping         float32 // Physics.Damping as float32
	Restitution     float32 // Physics.Restitution as float32
	ParticleRadius  float32 // Physics.ParticleRadius as float32
	MinDT           float32 // Physics.MinDT as float32
	CellSize        float32 // effective grid cell size, >= smoothing radius
	HalfWidth       float32 // World.Width / 2
	HalfHeight      float32 // World.Height / 2
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
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations the physics kernel cannot run with.
func (c *Config) validate() error {
	if c.Fluid.SmoothingRadius <= 0 {
		return fmt.Errorf("fluid.smoothing_radius must be positive, got %v", c.Fluid.SmoothingRadius)
	}
	if c.Fluid.Mass <= 0 {
		return fmt.Errorf("fluid.mass must be positive, got %v", c.Fluid.Mass)
	}
	if c.Physics.Damping <= 0 || c.Physics.Damping > 1 {
		return fmt.Errorf("physics.damping must be in (0, 1], got %v", c.Physics.Damping)
	}
	if c.Physics.Restitution < 0 || c.Physics.Restitution > 1 {
		return fmt.Errorf("physics.restitution must be in [0, 1], got %v", c.Physics.Restitution)
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world dimensions must be positive, got %vx%v", c.World.Width, c.World.Height)
	}
	switch c.Fluid.Kernel {
	case "poly6", "spiky":
	default:
		return fmt.Errorf("fluid.kernel must be \"poly6\" or \"spiky\", got %q", c.Fluid.Kernel)
	}

	// Collision candidates come from the same grid as the density pass; pair
	// enumeration over adjacent cells is only complete when the contact
	// diameter fits in one cell.
	cellSize := c.Physics.GridCellSize
	if cellSize < c.Fluid.SmoothingRadius {
		cellSize = c.Fluid.SmoothingRadius
	}
	if 2*c.Physics.ParticleRadius > cellSize {
		return fmt.Errorf("physics.particle_radius %v too large for grid cell size %v", c.Physics.ParticleRadius, cellSize)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Mass = float32(c.Fluid.Mass)
	c.Derived.SmoothingRadius = float32(c.Fluid.SmoothingRadius)
	c.Derived.TargetDensity = float32(c.Fluid.TargetDensity)
	c.Derived.Stiffness = float32(c.Fluid.PressureMultiplier)
	c.Derived.Gravity = float32(c.Physics.Gravity)
	c.Derived.Damping = float32(c.Physics.Damping)
	c.Derived.Restitution = float32(c.Physics.Restitution)
	c.Derived.ParticleRadius = float32(c.Physics.ParticleRadius)
	c.Derived.MinDT = float32(c.Physics.MinDT)
	c.Derived.HalfWidth = float32(c.World.Width / 2)
	c.Derived.HalfHeight = float32(c.World.Height / 2)

	// Neighbor search over a 3x3 cell block is only complete when a cell
	// spans at least the smoothing radius.
	cellSize := float32(c.Physics.GridCellSize)
	if cellSize < c.Derived.SmoothingRadius {
		cellSize = c.Derived.SmoothingRadius
	}
	c.Derived.CellSize = cellSize
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
