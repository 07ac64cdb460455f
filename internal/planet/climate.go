package planet

import (
	"github.com/PixelGuys/Stella-Dei/internal/geom"
	"github.com/PixelGuys/Stella-Dei/internal/mesh"
)

// Thermal constants. Physical-ish approximations tuned for qualitative,
// stable behavior rather than climate accuracy.
const (
	stefanBoltzmann = 5.67e-8 // W/(m²·K⁴)
	emissivity      = 0.6
	slabThickness   = 0.5  // km of crust participating in heat exchange
	rockDensity     = 2900 // kg per unit volume of slab
	specificHeat    = 0.8  // heat energy per unit mass per Kelvin

	// Heat stored per Kelvin in a unit surface area of slab.
	heatCapacityPerArea = rockDensity * specificHeat * slabThickness
)

// ClimateOptions parameterizes one thermal step.
type ClimateOptions struct {
	SolarDirection geom.Vec3 // Unit vector pointing toward the sun
	SolarConstant  float32   // Incoming flux on a fully lit surface
	Conductivity   float32   // Inter-vertex thermal conductivity
	DT             float32   // Step length in game seconds
}

// StepClimate advances every vertex's temperature by one tick: neighbor
// diffusion, solar heating on the day side, and Stefan–Boltzmann radiative
// loss. All reads come from the live buffer, all writes go to scratch, and
// the buffers are swapped at the end, so the update behaves as if every
// vertex advanced simultaneously from the same prior state.
func (p *Planet) StepClimate(opts ClimateOptions) {
	temp := p.temperature
	next := p.temperatureScratch

	for i, t := range temp {
		if t < 0 {
			t = 0
		}
		next[i] = t
	}

	// Per-cell heat capacity from the mean vertex-covered area; the contact
	// cross-section between two cells spans one edge length of slab.
	contactArea := p.meanSpacing * slabThickness
	heatCapacity := heatCapacityPerArea * p.meanSpacing * p.meanSpacing

	for i := range temp {
		ti := temp[i]
		for _, j := range p.neighbors[i] {
			if j == mesh.NoNeighbor {
				continue
			}
			tj := temp[j]
			// Heat flows strictly from hotter to colder; processing an edge
			// only from its hotter end visits each transfer exactly once.
			if ti <= tj {
				continue
			}
			dist := p.vertices[i].Scale(p.cfg.Radius).Distance(p.vertices[j].Scale(p.cfg.Radius))
			if dist <= 0 {
				continue
			}
			heatFlow := opts.Conductivity * contactArea * (ti - tj) / dist
			delta := heatFlow * opts.DT / heatCapacity
			next[i] -= delta
			next[j] += delta
		}

		// Solar input on the day side only.
		if cos := p.vertices[i].Dot(opts.SolarDirection); cos > 0 {
			next[i] += opts.SolarConstant * cos * opts.DT / heatCapacityPerArea
		}

		// Radiative loss, fourth power of the prior temperature.
		t4 := ti * ti * ti * ti
		next[i] -= emissivity * stefanBoltzmann * t4 * opts.DT / heatCapacityPerArea
	}

	p.temperature, p.temperatureScratch = p.temperatureScratch, p.temperature
}
