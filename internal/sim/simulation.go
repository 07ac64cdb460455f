// Package sim ties the planet and the lifeform population together and
// advances them one tick at a time. The simulation thread calls Tick while
// the input/UI thread may concurrently place lifeforms; every population
// mutation is serialized behind one mutex, held tick-wide by Tick and
// per-insert by PlaceLifeform.
package sim

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/PixelGuys/Stella-Dei/internal/geom"
	"github.com/PixelGuys/Stella-Dei/internal/life"
	"github.com/PixelGuys/Stella-Dei/internal/mesh"
	"github.com/PixelGuys/Stella-Dei/internal/planet"
)

// TickOptions parameterizes one simulation tick. DT is real seconds
// elapsed; TimeScale stretches it into game seconds.
type TickOptions struct {
	SolarDirection geom.Vec3
	SolarConstant  float32
	Conductivity   float32
	TimeScale      float32
	DT             float32
}

// Stats is an aggregate snapshot used for periodic reporting.
type Stats struct {
	Tick            uint64
	GameTime        float32
	MeanTemperature float64
	TotalWater      float64
	Population      int
}

// Simulation owns the surface state, the neighbor graph, and the lifeform
// population.
type Simulation struct {
	mu         sync.Mutex
	planet     *planet.Planet
	population []*life.Lifeform
	gameTime   float32
	tick       uint64
	rng        *rand.Rand // seeds per-lifeform random streams
}

// New wraps a generated planet into a simulation. The seed feeds the
// per-lifeform random streams, independent of the terrain seed.
func New(p *planet.Planet, seed int64) *Simulation {
	return &Simulation{
		planet: p,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Planet exposes the surface state for rendering and UI readouts.
// Treat everything reachable from it as read-only outside the tick.
func (s *Simulation) Planet() *planet.Planet { return s.planet }

// GameTime reports the accumulated game seconds.
func (s *Simulation) GameTime() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameTime
}

// CurrentTick reports the number of completed ticks.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Lifeforms returns a copy of the live population list. The pointers stay
// owned by the simulation; callers read, never mutate.
func (s *Simulation) Lifeforms() []*life.Lifeform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*life.Lifeform(nil), s.population...)
}

// NearestVertexTo returns the mesh vertex closest to a 3D point. Consumed
// by input handling for point selection and lifeform placement.
func (s *Simulation) NearestVertexTo(point geom.Vec3) uint32 {
	return s.planet.NearestVertex(point)
}

// NeighborsOf returns the fixed-width adjacency of a vertex.
func (s *Simulation) NeighborsOf(id uint32) mesh.Neighborhood {
	return s.planet.Neighbors(id)
}

// PlaceLifeform inserts a lifeform at a position, the sole externally
// triggered population mutation outside the tick. Returns the new
// lifeform's handle.
func (s *Simulation) PlaceLifeform(kind life.Kind, position geom.Vec3, gameTime float32) (uuid.UUID, error) {
	if kind != life.KindRabbit {
		return uuid.Nil, fmt.Errorf("unknown lifeform kind %d", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l := life.New(kind, position, gameTime, s.rng.Int63())
	s.population = append(s.population, l)
	return l.ID, nil
}

// Restore replaces the population and clock wholesale, used when resuming
// from a snapshot.
func (s *Simulation) Restore(population []*life.Lifeform, gameTime float32, tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.population = population
	s.gameTime = gameTime
	s.tick = tick
}

// Tick advances climate, hydrology, and every lifeform by one step. Runs
// to completion synchronously; the caller controls the rate.
func (s *Simulation) Tick(opts TickOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gameDT := opts.DT * opts.TimeScale

	s.planet.StepClimate(planet.ClimateOptions{
		SolarDirection: opts.SolarDirection,
		SolarConstant:  opts.SolarConstant,
		Conductivity:   opts.Conductivity,
		DT:             gameDT,
	})
	s.planet.StepHydrology(planet.HydrologyOptions{DT: gameDT})

	s.gameTime += gameDT
	s.tick++
	s.updateLifeforms(gameDT)
}

// updateLifeforms advances the population with index-based iteration and
// deferred birth/death queues: the slice never grows or shrinks during the
// pass, so no update can invalidate another's position in it.
func (s *Simulation) updateLifeforms(gameDT float32) {
	tc := life.Tick{
		Planet:     s.planet,
		Population: s.population,
		GameTime:   s.gameTime,
		DT:         gameDT,
	}

	var births []*life.Lifeform
	dead := make([]bool, len(s.population))

	for i := 0; i < len(s.population); i++ {
		born, died := s.population[i].Update(&tc)
		if born != nil {
			births = append(births, born)
		}
		dead[i] = died
	}

	// Deaths compact in place preserving order; births append afterward.
	kept := s.population[:0]
	for i, l := range s.population {
		if !dead[i] {
			kept = append(kept, l)
		}
	}
	s.population = append(kept, births...)
}

// Snapshot gathers aggregate statistics under the lock.
func (s *Simulation) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	temps := s.planet.Temperature()
	var sum float64
	for _, t := range temps {
		sum += float64(t)
	}
	mean := 0.0
	if len(temps) > 0 {
		mean = sum / float64(len(temps))
	}

	return Stats{
		Tick:            s.tick,
		GameTime:        s.gameTime,
		MeanTemperature: mean,
		TotalWater:      s.planet.TotalWater(),
		Population:      len(s.population),
	}
}
