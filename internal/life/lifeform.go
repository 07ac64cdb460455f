// Package life provides the lifeform data model and the per-tick state
// machine that drives movement, courtship, gestation, and death on the
// planet surface.
package life

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/PixelGuys/Stella-Dei/internal/geom"
	"github.com/PixelGuys/Stella-Dei/internal/planet"
)

// Kind enumerates lifeform species. A single variant exists today; the
// enum keeps spawn and rendering code ready for more.
type Kind uint8

const (
	KindRabbit Kind = iota
)

// StateKind tags the lifeform state variant.
type StateKind uint8

const (
	StateWandering StateKind = iota
	StateMovingToVertex
	StateGestating
)

// State is the tagged state of one lifeform. Exactly one payload field is
// meaningful, selected by Kind.
type State struct {
	Kind           StateKind
	TargetVertex   uint32  // StateMovingToVertex: destination vertex id
	GestationStart float32 // StateGestating: game time the pregnancy began
}

// Behavior constants, in game seconds and Kelvin. Distances scale with the
// planet's mean vertex spacing so behavior is subdivision independent.
const (
	maxAge            = 2000.0
	maturityAge       = 100.0
	gestationDuration = 250.0

	heatThreshold  = 330.0 // Flee above this surface temperature
	coldThreshold  = 260.0 // Seek warmth below this
	scorchingDeath = 370.0
	freezingPoint  = 273.15
	deepWaterDepth = 0.15 // km of water that drowns above freezing

	moveSpeedFactor     = 0.2  // fraction of mean spacing per game second
	arrivalRadiusFactor = 0.1  // fraction of mean spacing
	closeRadiusFactor   = 1.5  // courtship contact range
	farRadiusFactor     = 4.0  // courtship approach range
	gravityPull         = 0.05 // km/s² toward the planet center

	impregnationChance = 0.1
	birthDeathChance   = 0.05 // parent mortality when the birth resolves
	rejectionPenalty   = 0.15 // threshold rise after a failed courtship
	thresholdFloor     = 0.1
	thresholdDecay     = 0.001 // per game second, toward the floor
	approachThreshold  = 0.3   // targets below this invite an approach
	temperatureJitter  = 0.5   // Kelvin noise on neighbor comparisons
	wanderRetries      = 6
)

// Lifeform is one autonomous agent. Position and velocity are continuous,
// never snapped to a vertex; vertex ids held in the state are
// back-references into the planet mesh, not ownership.
type Lifeform struct {
	ID       uuid.UUID
	Kind     Kind
	Position geom.Vec3
	Velocity geom.Vec3
	State    State
	BornAt   float32 // Game time of birth

	// Threshold a suitor's roll must beat. Decays toward a floor with time
	// and rises when the lifeform rejects a mating attempt.
	Threshold float32

	rng *rand.Rand
}

// New creates a lifeform at the given position with its own random stream.
func New(kind Kind, position geom.Vec3, gameTime float32, seed int64) *Lifeform {
	return &Lifeform{
		ID:        uuid.New(),
		Kind:      kind,
		Position:  position,
		State:     State{Kind: StateWandering},
		BornAt:    gameTime,
		Threshold: 1,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Age reports the lifeform's age in game seconds.
func (l *Lifeform) Age(gameTime float32) float32 {
	return gameTime - l.BornAt
}

// shouldDie evaluates the death conditions against the local surface state:
// drowning in deep unfrozen water, scorching heat, and old age.
func (l *Lifeform) shouldDie(p *planet.Planet, gameTime float32) bool {
	if l.Age(gameTime) > maxAge {
		return true
	}

	nearest := p.NearestVertex(l.Position)
	temp := p.Temperature()[nearest]
	if temp > scorchingDeath {
		return true
	}
	if p.WaterElevation()[nearest] > deepWaterDepth && temp > freezingPoint {
		return true
	}
	return false
}

// integrate applies ballistic motion and the planetary-gravity correction:
// on contact the lifeform is clamped to the local terrain height with its
// velocity zeroed, otherwise velocity is pulled toward the planet center.
func (l *Lifeform) integrate(p *planet.Planet, dt float32) {
	l.Position = l.Position.Add(l.Velocity.Scale(dt))

	nearest := p.NearestVertex(l.Position)
	terrain := p.Radius() + p.Elevation()[nearest]

	if l.Position.Length() <= terrain {
		l.Position = l.Position.Normalize().Scale(terrain)
		l.Velocity = geom.Vec3{}
	} else {
		down := l.Position.Normalize().Scale(-gravityPull * dt)
		l.Velocity = l.Velocity.Add(down)
	}
}
