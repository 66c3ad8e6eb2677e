// Package sim owns the particle store and runs the per-tick physics pipeline.
package sim

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ripple/camera"
	"github.com/pthm-cable/ripple/components"
	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/fluid"
	"github.com/pthm-cable/ripple/telemetry"
)

// Options configures a simulation run.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string
	Headless  bool
}

// Simulation holds the particle store and the physics pipeline stages.
//
// Tick order: grid rebuild, density, pressure forces, integration, boundary,
// collisions. Each stage reads only the previous stage's fully committed
// output; no stage observes partially updated state from the same tick.
type Simulation struct {
	world *ecs.World
	rng   *rand.Rand

	// Particle store access
	particleMapper *ecs.Map3[components.Position, components.Velocity, components.Particle]
	particleFilter *ecs.Filter2[components.Position, components.Velocity]
	posMap         *ecs.Map1[components.Position]
	velMap         *ecs.Map1[components.Velocity]

	// Pipeline stages
	grid       *fluid.SpatialGrid
	density    *fluid.DensityField
	solver     *fluid.PressureSolver
	integrator *fluid.Integrator
	boundary   *fluid.Boundary
	collisions *fluid.CollisionResolver

	// Parallel density/force evaluation
	parallel *parallelState

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool

	// Viewport (nil in headless mode)
	camera *camera.Camera

	// State
	tick          int32
	paused        bool
	particleCount int
}

// New creates a simulation from the global config and spawns the initial
// particle block.
func New(opts Options) (*Simulation, error) {
	cfg := config.Cfg()
	d := &cfg.Derived

	kernel, err := fluid.KernelByName(cfg.Fluid.Kernel)
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()

	s := &Simulation{
		world:          world,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		particleMapper: ecs.NewMap3[components.Position, components.Velocity, components.Particle](world),
		particleFilter: ecs.NewFilter2[components.Position, components.Velocity](world),
		posMap:         ecs.NewMap1[components.Position](world),
		velMap:         ecs.NewMap1[components.Velocity](world),
		grid:           fluid.NewSpatialGrid(2*d.HalfWidth, 2*d.HalfHeight, d.CellSize),
		density:        fluid.NewDensityField(kernel, d.Mass, d.SmoothingRadius),
		solver:         fluid.NewPressureSolver(kernel, d.Mass, d.SmoothingRadius, d.TargetDensity, d.Stiffness),
		integrator:     fluid.NewIntegrator(d.Gravity, d.Damping, d.MinDT),
		boundary:       fluid.NewBoundary(d.HalfWidth, d.HalfHeight, d.Damping),
		collisions:     fluid.NewCollisionResolver(d.ParticleRadius, d.Restitution, d.Damping),
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
	}
	s.parallel = newParallelState()

	if !opts.Headless {
		s.camera = camera.New(
			float32(cfg.Screen.Width), float32(cfg.Screen.Height),
			2*d.HalfWidth, 2*d.HalfHeight,
		)
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, err
		}
		s.output = om
		if err := om.WriteConfig(cfg); err != nil {
			return nil, err
		}
	}

	s.SpawnGrid(cfg.Spawn.GridSize, float32(cfg.Spawn.Spacing))

	slog.Info("simulation created",
		"particles", s.particleCount,
		"kernel", cfg.Fluid.Kernel,
		"smoothing_radius", d.SmoothingRadius,
		"cell_size", d.CellSize,
	)

	return s, nil
}

// Step advances the simulation by one tick using the host's elapsed frame
// time in seconds. The value may be arbitrarily small or large; it is clamped
// to a positive floor before use. A paused simulation does not run the
// pipeline at all — not even a dt=0 tick.
func (s *Simulation) Step(elapsedSeconds float64) {
	if s.paused {
		return
	}

	dt := s.integrator.ClampDT(float32(elapsedSeconds))

	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseGrid)
	s.rebuildGrid()

	// Density then forces, with a barrier between: the force pass must only
	// ever read a fully committed density cache.
	s.perf.StartPhase(telemetry.PhaseDensity)
	s.computeDensities()

	s.perf.StartPhase(telemetry.PhaseForces)
	s.computeForces(dt)

	s.perf.StartPhase(telemetry.PhaseBoundary)
	s.enforceBounds()

	s.perf.StartPhase(telemetry.PhaseCollisions)
	contacts := s.collisions.Resolve(s.grid, s.velMap)
	s.collector.RecordContacts(contacts)

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.collectStats(dt)

	s.perf.EndTick()
	s.tick++
}

// rebuildGrid reindexes all particles from their current positions.
// The grid is a value object rebuilt every tick, never patched in place.
func (s *Simulation) rebuildGrid() {
	s.grid.Clear()
	count := 0

	query := s.particleFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		s.grid.Insert(query.Entity(), pos.X, pos.Y)
		count++
	}
	s.particleCount = count
}

// enforceBounds clamps every particle to the domain rectangle.
func (s *Simulation) enforceBounds() {
	query := s.particleFilter.Query()
	for query.Next() {
		pos, vel := query.Get()
		if s.boundary.Enforce(pos, vel) {
			s.collector.RecordBoundaryHit()
		}
	}
}

// collectStats samples densities and speeds and rolls the stats window.
func (s *Simulation) collectStats(dt float32) {
	s.collector.Advance(float64(dt))
	if !s.collector.WindowDone() {
		return
	}

	densities := make([]float64, 0, s.particleCount)
	speeds := make([]float64, 0, s.particleCount)

	query := s.particleFilter.Query()
	for query.Next() {
		_, vel := query.Get()
		if d, ok := s.density.Get(query.Entity()); ok {
			densities = append(densities, float64(d))
		}
		speeds = append(speeds, float64(fluid.Speed(vel.X, vel.Y)))
	}

	stats := s.collector.EndWindow(s.tick, s.particleCount, densities, speeds)

	if s.logStats {
		stats.LogStats()
		s.perf.Stats().LogStats()
	}
	if s.output != nil {
		if err := s.output.WriteStats(stats); err != nil {
			slog.Error("writing stats", "error", err)
		}
		if err := s.output.WritePerf(s.perf.Stats(), s.tick); err != nil {
			slog.Error("writing perf", "error", err)
		}
	}
}

// TogglePause flips the paused state.
func (s *Simulation) TogglePause() {
	s.paused = !s.paused
}

// Paused reports whether the pipeline is suspended.
func (s *Simulation) Paused() bool {
	return s.paused
}

// Tick returns the current tick count.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// ParticleCount returns the number of particles in the store.
func (s *Simulation) ParticleCount() int {
	return s.particleCount
}

// Density returns the cached density for a particle, if present this tick.
func (s *Simulation) Density(e ecs.Entity) (float32, bool) {
	return s.density.Get(e)
}

// Close flushes and releases telemetry outputs. The particle store and grid
// hold no persistent resources.
func (s *Simulation) Close() error {
	s.parallel.stopWorkers()
	if s.output != nil {
		return s.output.Close()
	}
	return nil
}
