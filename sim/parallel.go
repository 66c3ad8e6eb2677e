package sim

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ripple/components"
	"github.com/pthm-cable/ripple/fluid"
)

// parallelThreshold is the minimum particle count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// phase identifies which pass a work chunk belongs to. Density and force
// evaluation are embarrassingly parallel across particles, but the force pass
// must never start before the whole density pass has committed.
type phase int

const (
	phaseDensity phase = iota
	phaseForce
)

// particleSnapshot captures read-only state for parallel processing.
type particleSnapshot struct {
	Entity  ecs.Entity
	Pos     components.Position
	Vel     components.Velocity
	Density float32 // filled by the density pass
}

// intent captures computed outputs to apply after the force pass. Anomaly
// flags ride along so workers never touch the shared collector.
type intent struct {
	Pos       components.Position
	Vel       components.Velocity
	AccelOK   bool // false when the pressure result was not finite
	CacheMiss bool // true when the density cache had no entry
}

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	Neighbors []fluid.Neighbor
}

// workChunk represents a range of particles for a worker to process.
type workChunk struct {
	start, end int
	dt         float32
	phase      phase
}

// parallelState holds resources for parallel two-phase evaluation.
type parallelState struct {
	snapshots  []particleSnapshot
	intents    []intent
	scratches  []workerScratch
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState() *parallelState {
	numWorkers := runtime.GOMAXPROCS(0)
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i].Neighbors = make([]fluid.Neighbor, 0, 64)
	}
	return &parallelState{
		numWorkers: numWorkers,
		scratches:  scratches,
		snapshots:  make([]particleSnapshot, 0, 512),
		intents:    make([]intent, 0, 512),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(s *Simulation) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(s, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(s *Simulation, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			switch chunk.phase {
			case phaseDensity:
				s.computeDensityChunk(chunk.start, chunk.end, scratch)
			case phaseForce:
				s.computeForceChunk(chunk.start, chunk.end, scratch, chunk.dt)
			}
			p.doneChan <- struct{}{}
		}
	}
}

// computeDensities snapshots the store, evaluates density per particle, and
// commits the results to the density cache. The commit is single-threaded so
// the cache is never observed half-populated.
func (s *Simulation) computeDensities() {
	// Build snapshots (single-threaded).
	s.parallel.snapshots = s.parallel.snapshots[:0]

	query := s.particleFilter.Query()
	for query.Next() {
		pos, vel := query.Get()
		s.parallel.snapshots = append(s.parallel.snapshots, particleSnapshot{
			Entity: query.Entity(),
			Pos:    *pos,
			Vel:    *vel,
		})
	}

	n := len(s.parallel.snapshots)
	if n == 0 {
		s.density.Reset()
		return
	}

	s.dispatch(n, 0, phaseDensity)

	// Commit pass: every particle in the store gets a cache entry before any
	// force computation reads it.
	s.density.Reset()
	for i := range s.parallel.snapshots {
		snap := &s.parallel.snapshots[i]
		s.density.Set(snap.Entity, snap.Density)
	}
}

// computeForces evaluates pressure accelerations against the committed
// density cache and integrates into intents, then applies them in a single
// deterministic pass.
func (s *Simulation) computeForces(dt float32) {
	n := len(s.parallel.snapshots)
	if n == 0 {
		return
	}

	if cap(s.parallel.intents) < n {
		s.parallel.intents = make([]intent, n)
	}
	s.parallel.intents = s.parallel.intents[:n]

	s.dispatch(n, dt, phaseForce)
	s.applyIntents()
}

// dispatch runs a pass over all snapshots, single-threaded for small counts,
// chunked across the worker pool otherwise. It returns only after every chunk
// finishes — the barrier between the density and force passes.
func (s *Simulation) dispatch(n int, dt float32, ph phase) {
	if n < parallelThreshold {
		scratch := &s.parallel.scratches[0]
		switch ph {
		case phaseDensity:
			s.computeDensityChunk(0, n, scratch)
		case phaseForce:
			s.computeForceChunk(0, n, scratch, dt)
		}
		return
	}

	if !s.parallel.running {
		s.parallel.startWorkers(s)
	}

	numWorkers := s.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		s.parallel.workChan <- workChunk{start: start, end: end, dt: dt, phase: ph}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-s.parallel.doneChan
	}
}

// computeDensityChunk evaluates smoothed density for a range of snapshots.
// Workers only read the grid and write disjoint snapshot slots.
func (s *Simulation) computeDensityChunk(i0, i1 int, scratch *workerScratch) {
	for i := i0; i < i1; i++ {
		snap := &s.parallel.snapshots[i]
		scratch.Neighbors = s.grid.NeighborsInto(scratch.Neighbors[:0], snap.Pos.X, snap.Pos.Y)
		snap.Density = s.density.At(scratch.Neighbors)
	}
}

// computeForceChunk evaluates pressure acceleration and integrates a range of
// snapshots into intents. Pure math over read-only state.
func (s *Simulation) computeForceChunk(i0, i1 int, scratch *workerScratch, dt float32) {
	for i := i0; i < i1; i++ {
		snap := &s.parallel.snapshots[i]
		out := &s.parallel.intents[i]

		rho, ok := s.density.Get(snap.Entity)
		if !ok {
			// Store and cache diverged; leave the particle as it is this tick.
			out.Pos = snap.Pos
			out.Vel = snap.Vel
			out.AccelOK = false
			out.CacheMiss = true
			continue
		}

		scratch.Neighbors = s.grid.NeighborsInto(scratch.Neighbors[:0], snap.Pos.X, snap.Pos.Y)
		ax, ay, accelOK := s.solver.Acceleration(rho, scratch.Neighbors)

		out.Pos, out.Vel = s.integrator.Advance(snap.Pos, snap.Vel, ax, ay, accelOK, dt)
		out.AccelOK = accelOK
		out.CacheMiss = false
	}
}

// applyIntents writes computed results back to the particle store.
// Single-threaded, preserving determinism.
func (s *Simulation) applyIntents() {
	for i := range s.parallel.snapshots {
		snap := &s.parallel.snapshots[i]
		out := &s.parallel.intents[i]

		if out.CacheMiss {
			s.collector.RecordCacheMiss()
		} else if !out.AccelOK {
			s.collector.RecordNonFinite()
		}

		pos := s.posMap.Get(snap.Entity)
		vel := s.velMap.Get(snap.Entity)
		if pos == nil || vel == nil {
			continue
		}

		*pos = out.Pos
		*vel = out.Vel
	}
}
