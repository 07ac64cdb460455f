package life

import (
	"testing"

	"github.com/PixelGuys/Stella-Dei/internal/planet"
)

// dryPlanet generates a small planet with all water drained so surface
// conditions never drown a lifeform mid-test.
func dryPlanet() *planet.Planet {
	p := planet.Generate(planet.SmallTestConfig())
	for i := 0; i < p.NumVertices(); i++ {
		p.SetWaterElevation(uint32(i), 0)
	}
	return p
}

func TestMaxAgeDeath(t *testing.T) {
	p := dryPlanet()
	l := New(KindRabbit, p.SurfacePosition(0), 0, 1)

	tc := &Tick{Planet: p, Population: []*Lifeform{l}, GameTime: maxAge + 1, DT: 1}
	born, died := l.Update(tc)
	if !died {
		t.Fatal("lifeform past max age survived the tick")
	}
	if born != nil {
		t.Fatal("dying lifeform produced a birth")
	}
}

func TestScorchingDeath(t *testing.T) {
	p := dryPlanet()
	home := uint32(0)
	p.SetTemperature(home, scorchingDeath+50)

	l := New(KindRabbit, p.SurfacePosition(home), 0, 1)
	tc := &Tick{Planet: p, Population: []*Lifeform{l}, GameTime: 1, DT: 1}
	if _, died := l.Update(tc); !died {
		t.Fatal("lifeform on scorching ground survived")
	}
}

func TestDrowningOnlyAboveFreezing(t *testing.T) {
	p := dryPlanet()
	home := uint32(0)
	p.SetWaterElevation(home, deepWaterDepth*2)

	p.SetTemperature(home, freezingPoint+10)
	warm := New(KindRabbit, p.SurfacePosition(home), 0, 1)
	tc := &Tick{Planet: p, Population: []*Lifeform{warm}, GameTime: 1, DT: 1}
	if _, died := warm.Update(tc); !died {
		t.Fatal("lifeform in deep unfrozen water survived")
	}

	// Frozen over: the same depth is survivable ice.
	p.SetTemperature(home, freezingPoint-10)
	cold := New(KindRabbit, p.SurfacePosition(home), 0, 2)
	// Keep it from wandering into warmer flooded ground mid-test.
	cold.State = State{Kind: StateMovingToVertex, TargetVertex: home}
	tc = &Tick{Planet: p, Population: []*Lifeform{cold}, GameTime: 1, DT: 1}
	if _, died := cold.Update(tc); died {
		t.Fatal("lifeform on frozen water drowned")
	}
}

func TestGestationResolvesToOneBirth(t *testing.T) {
	p := dryPlanet()
	l := New(KindRabbit, p.SurfacePosition(3), 0, 1)
	l.State = State{Kind: StateGestating, GestationStart: 0}

	tc := &Tick{Planet: p, Population: []*Lifeform{l}, GameTime: gestationDuration + 1, DT: 1}
	born, died := l.Update(tc)
	if born == nil {
		t.Fatal("elapsed gestation produced no birth")
	}
	if born.State.Kind != StateWandering {
		t.Fatalf("newborn state = %d, want wandering", born.State.Kind)
	}
	if born.BornAt != gestationDuration+1 {
		t.Fatalf("newborn born at %f, want %f", born.BornAt, float32(gestationDuration+1))
	}
	if !died {
		if l.State.Kind != StateWandering {
			t.Fatalf("parent state = %d after birth, want wandering", l.State.Kind)
		}
		if l.Threshold != 1 {
			t.Fatalf("parent threshold = %f after birth, want reset to 1", l.Threshold)
		}
	}
}

func TestGestationNotYetDue(t *testing.T) {
	p := dryPlanet()
	l := New(KindRabbit, p.SurfacePosition(3), 0, 1)
	l.State = State{Kind: StateGestating, GestationStart: 100}

	tc := &Tick{Planet: p, Population: []*Lifeform{l}, GameTime: 150, DT: 1}
	born, died := l.Update(tc)
	if born != nil || died {
		t.Fatal("gestation resolved early")
	}
	if l.State.Kind != StateGestating {
		t.Fatal("gestating lifeform left the state before term")
	}
}

func TestThresholdDecaysTowardFloor(t *testing.T) {
	p := dryPlanet()
	l := New(KindRabbit, p.SurfacePosition(5), 0, 1)

	tc := &Tick{Planet: p, Population: []*Lifeform{l}, GameTime: 1, DT: 1}
	l.Update(tc)
	if l.Threshold >= 1 {
		t.Fatalf("threshold = %f after a tick, want decay below 1", l.Threshold)
	}

	l.Threshold = thresholdFloor
	tc.GameTime = 2
	l.Update(tc)
	if l.Threshold < thresholdFloor {
		t.Fatalf("threshold = %f, decayed below its floor %f", l.Threshold, float32(thresholdFloor))
	}
}

func TestWanderMoveCycleTerminates(t *testing.T) {
	p := dryPlanet()
	l := New(KindRabbit, p.SurfacePosition(7), 0, 99)

	sawMoving := false
	backToWandering := false
	for step := 0; step < 500; step++ {
		tc := &Tick{
			Planet:     p,
			Population: []*Lifeform{l},
			GameTime:   float32(step),
			DT:         1,
		}
		if _, died := l.Update(tc); died {
			t.Fatalf("lifeform died unexpectedly at step %d", step)
		}
		switch l.State.Kind {
		case StateMovingToVertex:
			sawMoving = true
		case StateWandering:
			if sawMoving {
				backToWandering = true
			}
		}
		if backToWandering {
			return
		}
	}
	t.Fatalf("wander/move/wander cycle did not complete in bound (moving seen: %v)", sawMoving)
}

func TestCourtshipEventuallyImpregnates(t *testing.T) {
	p := dryPlanet()
	home := uint32(9)
	p.SetTemperature(home, 300) // comfortable, so wandering goes to courtship
	at := p.SurfacePosition(home)

	// Both born long ago so both are mature.
	suitor := New(KindRabbit, at, -500, 7)
	target := New(KindRabbit, at, -500, 8)
	population := []*Lifeform{suitor, target}

	for step := 0; step < 1000; step++ {
		tc := &Tick{
			Planet:     p,
			Population: population,
			GameTime:   float32(step),
			DT:         0, // freeze motion and threshold decay; courtship only
		}
		suitor.State = State{Kind: StateWandering}
		target.Threshold = thresholdFloor // maximally easy to court
		suitor.Update(tc)
		if target.State.Kind == StateGestating {
			return
		}
	}
	t.Fatal("courtship never impregnated an easy target in 1000 attempts")
}
