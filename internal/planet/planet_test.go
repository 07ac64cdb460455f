package planet

import (
	"math"
	"slices"
	"testing"

	"github.com/PixelGuys/Stella-Dei/internal/geom"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := SmallTestConfig()

	a := Generate(cfg)
	b := Generate(cfg)

	if !slices.Equal(a.Elevation(), b.Elevation()) {
		t.Fatal("elevation not deterministic for identical configs")
	}
	if !slices.Equal(a.WaterElevation(), b.WaterElevation()) {
		t.Fatal("water not deterministic for identical configs")
	}
	if !slices.Equal(a.Temperature(), b.Temperature()) {
		t.Fatal("temperature not deterministic for identical configs")
	}

	cfg.Seed = 7
	c := Generate(cfg)
	if slices.Equal(a.Elevation(), c.Elevation()) {
		t.Fatal("different seeds should produce different terrain")
	}
}

func TestGenerateInitialState(t *testing.T) {
	p := Generate(SmallTestConfig())

	if p.NumVertices() != 162 {
		t.Fatalf("depth 2 planet has %d vertices, want 162", p.NumVertices())
	}
	if p.MeanSpacing() <= 0 {
		t.Fatalf("mean spacing = %f, want > 0", p.MeanSpacing())
	}
	for i := 0; i < p.NumVertices(); i++ {
		if w := p.WaterElevation()[i]; w < 0 {
			t.Fatalf("vertex %d generated with negative water %f", i, w)
		}
		if k := p.Temperature()[i]; k < 0 {
			t.Fatalf("vertex %d generated with negative temperature %f", i, k)
		}
	}
}

func TestRadiativePureCooling(t *testing.T) {
	p := Generate(SmallTestConfig())
	for i := range p.temperature {
		p.temperature[i] = 300
		p.water[i] = 0
	}

	p.StepClimate(ClimateOptions{
		SolarDirection: geom.V3(0, 0, 1),
		SolarConstant:  0,
		Conductivity:   1,
		DT:             10,
	})

	// Flat temperature field: no gradient, so every change is radiative.
	for i, k := range p.Temperature() {
		if k >= 300 {
			t.Fatalf("vertex %d at %f K did not cool under pure radiation", i, k)
		}
	}
}

func TestDiffusionHotToCold(t *testing.T) {
	p := Generate(SmallTestConfig())
	for i := range p.temperature {
		p.temperature[i] = 300
	}
	hot := uint32(20) // hexagonal vertex, full 6-neighbor stencil
	p.temperature[hot] = 400

	adjacent := p.Neighbors(hot)

	// Conductivity large enough that a neighbor's conductive gain dominates
	// its radiative loss at these temperatures.
	spacing := p.MeanSpacing()
	p.StepClimate(ClimateOptions{
		SolarDirection: geom.V3(0, 0, 1),
		SolarConstant:  0,
		Conductivity:   100 * spacing * spacing,
		DT:             1,
	})

	temp := p.Temperature()
	if temp[hot] >= 400 {
		t.Fatalf("hot vertex stayed at %f K, want < 400", temp[hot])
	}
	for i := 0; i < p.NumVertices(); i++ {
		id := uint32(i)
		switch {
		case id == hot:
		case adjacent.Contains(id):
			if temp[id] <= 300 {
				t.Fatalf("neighbor %d at %f K did not warm from the gradient", id, temp[id])
			}
		default:
			// Non-adjacent vertices see no gradient and only radiate.
			if temp[id] >= 300 {
				t.Fatalf("non-adjacent vertex %d at %f K, want strictly below 300", id, temp[id])
			}
		}
	}
}

func TestHydrologyConservesWater(t *testing.T) {
	p := Generate(SmallTestConfig())

	before := p.TotalWater()
	p.StepHydrology(HydrologyOptions{DT: 1})
	after := p.TotalWater()

	if math.Abs(before-after) > 1e-3 {
		t.Fatalf("water total drifted from %f to %f in a closed tick", before, after)
	}
	for i, w := range p.WaterElevation() {
		if w < 0 {
			t.Fatalf("vertex %d went to negative water %f", i, w)
		}
	}
}

func TestHydrologyFlowsDownhill(t *testing.T) {
	p := Generate(SmallTestConfig())
	for i := range p.elevation {
		p.elevation[i] = 0
		p.water[i] = 0
	}
	center := uint32(30)
	p.water[center] = 1

	p.StepHydrology(HydrologyOptions{DT: 1})

	water := p.WaterElevation()
	if water[center] >= 1 {
		t.Fatalf("flooded vertex kept %f km of water, want < 1", water[center])
	}
	for _, j := range p.Neighbors(center) {
		if water[j] <= 0 {
			t.Fatalf("neighbor %d received no water", j)
		}
	}
	if math.Abs(p.TotalWater()-1) > 1e-4 {
		t.Fatalf("total water %f after redistribution, want 1", p.TotalWater())
	}
}

func TestNearestVertex(t *testing.T) {
	p := Generate(SmallTestConfig())

	for _, id := range []uint32{0, 11, 42, 161} {
		point := p.VertexDirection(id).Scale(p.Radius())
		if got := p.NearestVertex(point); got != id {
			t.Fatalf("nearest to vertex %d resolved to %d", id, got)
		}
	}

	// A point nudged off a vertex still resolves to it.
	point := p.VertexDirection(50).Scale(p.Radius() * 1.01)
	if got := p.NearestVertex(point); got != 50 {
		t.Fatalf("nudged point resolved to %d, want 50", got)
	}
}
