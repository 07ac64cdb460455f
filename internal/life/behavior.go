package life

import (
	"github.com/PixelGuys/Stella-Dei/internal/geom"
	"github.com/PixelGuys/Stella-Dei/internal/mesh"
	"github.com/PixelGuys/Stella-Dei/internal/planet"
)

// Tick carries the shared context one lifeform update reads. Population is
// the live agent list; updates may mutate other members (courtship writes
// the target's state and threshold) but never grow or shrink the slice.
// Births and deaths are returned to the caller and applied after the pass.
type Tick struct {
	Planet     *planet.Planet
	Population []*Lifeform
	GameTime   float32
	DT         float32
}

// Update advances one lifeform by one tick: death checks, the state
// machine, then ballistic integration. It returns a newborn to append to
// the population (or nil) and whether this lifeform died.
func (l *Lifeform) Update(tc *Tick) (born *Lifeform, died bool) {
	if l.shouldDie(tc.Planet, tc.GameTime) {
		return nil, true
	}

	// Attractiveness relaxes toward its floor; rejections push it back up.
	l.Threshold -= thresholdDecay * tc.DT
	if l.Threshold < thresholdFloor {
		l.Threshold = thresholdFloor
	}

	switch l.State.Kind {
	case StateWandering:
		l.updateWandering(tc)
	case StateMovingToVertex:
		l.updateMovingToVertex(tc)
	case StateGestating:
		if born = l.updateGestating(tc); born != nil {
			// The population grows when the caller appends the newborn;
			// nothing after this point may touch the agent list.
			if l.rng.Float32() < birthDeathChance {
				return born, true
			}
			l.integrate(tc.Planet, tc.DT)
			return born, false
		}
	}

	l.integrate(tc.Planet, tc.DT)
	return nil, false
}

// updateWandering picks the lifeform's next concern, in priority order:
// escape bad temperature, court a nearby partner, otherwise roam.
func (l *Lifeform) updateWandering(tc *Tick) {
	p := tc.Planet
	nearest := p.NearestVertex(l.Position)
	temp := p.Temperature()[nearest]

	if temp > heatThreshold {
		if target, ok := l.seekNeighbor(p, nearest, false); ok {
			l.State = State{Kind: StateMovingToVertex, TargetVertex: target}
			return
		}
	}
	if temp < coldThreshold {
		if target, ok := l.seekNeighbor(p, nearest, true); ok {
			l.State = State{Kind: StateMovingToVertex, TargetVertex: target}
			return
		}
	}

	if l.courtship(tc) {
		return
	}

	// Roam: a random non-flooded neighbor, bounded retries.
	neighbors := p.Neighbors(nearest)
	for try := 0; try < wanderRetries; try++ {
		candidate := neighbors[l.rng.Intn(mesh.MaxNeighbors)]
		if candidate == mesh.NoNeighbor {
			continue
		}
		if p.WaterElevation()[candidate] > deepWaterDepth {
			continue
		}
		l.State = State{Kind: StateMovingToVertex, TargetVertex: candidate}
		return
	}
}

// seekNeighbor scans the neighbor stencil for a non-flooded vertex that is
// colder (or warmer) than the current one. Ties are broken by a small
// random jitter on the comparison so herds do not all pick the same exit.
func (l *Lifeform) seekNeighbor(p *planet.Planet, from uint32, warmer bool) (uint32, bool) {
	temp := p.Temperature()
	best := mesh.NoNeighbor
	bestTemp := temp[from]

	for _, j := range p.Neighbors(from) {
		if j == mesh.NoNeighbor {
			continue
		}
		if p.WaterElevation()[j] > deepWaterDepth {
			continue
		}
		candidate := temp[j] + (l.rng.Float32()-0.5)*temperatureJitter
		if warmer {
			if candidate > bestTemp {
				bestTemp = candidate
				best = j
			}
		} else {
			if candidate < bestTemp {
				bestTemp = candidate
				best = j
			}
		}
	}

	if best == mesh.NoNeighbor {
		return 0, false
	}
	return best, true
}

// courtship scans for partners. Within the close radius a mature lifeform
// rolls against the target's threshold: success risks impregnating the
// target, failure hardens it. Within the far radius an easy target is worth
// approaching. Reports whether any partner interaction happened.
func (l *Lifeform) courtship(tc *Tick) bool {
	if l.Age(tc.GameTime) < maturityAge {
		return false
	}

	spacing := tc.Planet.MeanSpacing()
	closeRadius := spacing * closeRadiusFactor
	farRadius := spacing * farRadiusFactor

	for _, other := range tc.Population {
		if other == l || other.Kind != l.Kind {
			continue
		}
		if other.State.Kind != StateWandering || other.Age(tc.GameTime) < maturityAge {
			continue
		}

		d := l.Position.Distance(other.Position)
		switch {
		case d < closeRadius:
			if l.rng.Float32() > other.Threshold {
				if l.rng.Float32() < impregnationChance {
					other.State = State{Kind: StateGestating, GestationStart: tc.GameTime}
				}
			} else {
				other.Threshold += rejectionPenalty
				if other.Threshold > 1 {
					other.Threshold = 1
				}
			}
			return true
		case d < farRadius && other.Threshold < approachThreshold:
			l.Velocity = other.Position.Sub(l.Position).Normalize().Scale(l.moveSpeed(tc.Planet))
			return true
		}
	}
	return false
}

// updateMovingToVertex steers at fixed speed toward the target vertex and
// reverts to wandering on arrival.
func (l *Lifeform) updateMovingToVertex(tc *Tick) {
	p := tc.Planet
	target := p.SurfacePosition(l.State.TargetVertex)

	if l.Position.Distance(target) < p.MeanSpacing()*arrivalRadiusFactor {
		l.State = State{Kind: StateWandering}
		l.Velocity = geom.Vec3{}
		return
	}
	l.Velocity = target.Sub(l.Position).Normalize().Scale(l.moveSpeed(p))
}

// updateGestating resolves the birth once the gestation period elapses:
// a newborn appears at the parent's current vertex and the parent reverts
// to wandering with its threshold reset.
func (l *Lifeform) updateGestating(tc *Tick) *Lifeform {
	if tc.GameTime-l.State.GestationStart <= gestationDuration {
		return nil
	}

	p := tc.Planet
	at := p.SurfacePosition(p.NearestVertex(l.Position))
	child := New(l.Kind, at, tc.GameTime, l.rng.Int63())

	l.State = State{Kind: StateWandering}
	l.Threshold = 1
	return child
}

func (l *Lifeform) moveSpeed(p *planet.Planet) float32 {
	return p.MeanSpacing() * moveSpeedFactor
}
