// Package planet holds the per-vertex surface state of the simulated world
// and the climate and hydrology steps that advance it. State lives in
// parallel arrays indexed by mesh vertex id; the dynamic quantities are
// double-buffered so one step reads a consistent prior snapshot and writes
// only scratch.
package planet

import (
	"log/slog"
	"math"
	"os"

	"github.com/chewxy/math32"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/PixelGuys/Stella-Dei/internal/geom"
	"github.com/PixelGuys/Stella-Dei/internal/mesh"
)

// GenConfig holds planet generation parameters.
type GenConfig struct {
	SubdivisionDepth int     // Icosphere subdivision level (0–7 practical)
	Radius           float32 // Planet radius in km
	Seed             int64   // Noise seed (0 = fixed default)
	SeaLevel         float32 // Elevation below which basins start flooded, km
	MaxElevation     float32 // Peak terrain height above datum, km
}

// DefaultGenConfig returns an earth-ish starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		SubdivisionDepth: 5,
		Radius:           6371,
		Seed:             42,
		SeaLevel:         5.0,
		MaxElevation:     10.0,
	}
}

// SmallTestConfig returns a tiny planet for rapid iteration and tests.
func SmallTestConfig() GenConfig {
	return GenConfig{
		SubdivisionDepth: 2,
		Radius:           6371,
		Seed:             42,
		SeaLevel:         5.0,
		MaxElevation:     10.0,
	}
}

// Planet is the mutable substrate the simulation operates on. Elevation is
// static baseline terrain; water elevation and temperature evolve each tick
// through their scratch buffers.
type Planet struct {
	cfg GenConfig

	vertices  []geom.Vec3         // Unit-sphere directions, immutable
	indices   []uint32            // Triangle list, kept for rendering
	neighbors []mesh.Neighborhood // Fixed-width adjacency, immutable

	elevation []float32 // km above datum, set once at generation

	water        []float32 // km of water column, dynamic
	waterScratch []float32

	temperature        []float32 // Kelvin, dynamic
	temperatureScratch []float32

	meanSpacing float32 // Mean inter-vertex distance in km at planet radius
}

// Generate builds the mesh, the neighbor graph, and the initial surface
// state. Elevation and water come from one 2D noise field sampled in
// spherical coordinates, temperature from a second field. Identical configs
// produce identical planets.
func Generate(cfg GenConfig) *Planet {
	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	ico := mesh.BuildIcosphere(cfg.SubdivisionDepth)
	n := ico.NumVertices()

	p := &Planet{
		cfg:                cfg,
		vertices:           ico.Vertices,
		indices:            ico.Indices,
		neighbors:          mesh.BuildNeighbors(n, ico.Indices),
		elevation:          make([]float32, n),
		water:              make([]float32, n),
		waterScratch:       make([]float32, n),
		temperature:        make([]float32, n),
		temperatureScratch: make([]float32, n),
	}
	p.meanSpacing = p.computeMeanSpacing()

	elevNoise := opensimplex.NewNormalized(seed)
	tempNoise := opensimplex.NewNormalized(seed + 1)

	for i, dir := range p.vertices {
		lat := math.Asin(float64(dir.Y))
		lon := math.Atan2(float64(dir.Z), float64(dir.X))

		elev := float32(octaveNoise(elevNoise, lon, lat, 4, 1.2, 0.5)) * cfg.MaxElevation
		p.elevation[i] = elev

		// Basins below sea level start flooded to the sea surface.
		if elev < cfg.SeaLevel {
			p.water[i] = cfg.SeaLevel - elev
		}

		t := octaveNoise(tempNoise, lon, lat, 3, 1.0, 0.5)
		p.temperature[i] = 220 + float32(t)*100
	}

	return p
}

// octaveNoise layers multiple noise frequencies, normalized to [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// computeMeanSpacing averages the edge length over every populated neighbor
// slot, scaled to the planet radius.
func (p *Planet) computeMeanSpacing() float32 {
	var total float64
	var count int
	for i, nb := range p.neighbors {
		for _, j := range nb {
			if j == mesh.NoNeighbor {
				continue
			}
			total += float64(p.vertices[i].Distance(p.vertices[j]))
			count++
		}
	}
	if count == 0 {
		return 0
	}
	// Each undirected edge is visited from both ends; the average is the same.
	return float32(total/float64(count)) * p.cfg.Radius
}

// NumVertices reports the number of mesh vertices.
func (p *Planet) NumVertices() int { return len(p.vertices) }

// Radius reports the planet radius in km.
func (p *Planet) Radius() float32 { return p.cfg.Radius }

// MeanSpacing reports the mean inter-vertex distance in km.
func (p *Planet) MeanSpacing() float32 { return p.meanSpacing }

// Config returns the generation parameters the planet was built with.
func (p *Planet) Config() GenConfig { return p.cfg }

// VertexDirection returns the immutable unit-sphere direction of a vertex.
func (p *Planet) VertexDirection(id uint32) geom.Vec3 { return p.vertices[id] }

// SurfacePosition returns the terrain surface point of a vertex: its
// direction scaled to the planet radius plus baseline elevation.
func (p *Planet) SurfacePosition(id uint32) geom.Vec3 {
	return p.vertices[id].Scale(p.cfg.Radius + p.elevation[id])
}

// Indices exposes the triangle index list for rendering. Read-only.
func (p *Planet) Indices() []uint32 { return p.indices }

// Neighbors returns the fixed-width adjacency list of a vertex. Unused
// slots hold mesh.NoNeighbor.
func (p *Planet) Neighbors(id uint32) mesh.Neighborhood { return p.neighbors[id] }

// Elevation exposes the static terrain heights by vertex id. Read-only.
func (p *Planet) Elevation() []float32 { return p.elevation }

// WaterElevation exposes the live water column heights by vertex id.
// Read-only; the slice identity changes after each hydrology sub-iteration.
func (p *Planet) WaterElevation() []float32 { return p.water }

// Temperature exposes the live temperatures in Kelvin by vertex id.
// Read-only; the slice identity changes after each climate step.
func (p *Planet) Temperature() []float32 { return p.temperature }

// SetTemperature overwrites one vertex's temperature. Debug/tooling hook.
func (p *Planet) SetTemperature(id uint32, kelvin float32) {
	p.temperature[id] = kelvin
}

// SetElevation overwrites one vertex's baseline terrain height.
// Debug/tooling hook.
func (p *Planet) SetElevation(id uint32, km float32) {
	p.elevation[id] = km
}

// SetWaterElevation overwrites one vertex's water column. A negative value
// is an invariant violation. Debug/tooling hook.
func (p *Planet) SetWaterElevation(id uint32, km float32) {
	if km < 0 {
		fatalInvariant("negative water assignment",
			"vertex", id,
			"amount", km,
		)
	}
	p.water[id] = km
}

// AddWater pours water onto one vertex. Negative amounts are an invariant
// violation. Debug/tooling hook; the sole external water injection point.
func (p *Planet) AddWater(id uint32, km float32) {
	if km < 0 {
		fatalInvariant("negative water injection",
			"vertex", id,
			"amount", km,
		)
	}
	p.water[id] += km
}

// TotalWater sums the water column over all vertices, in km. Accumulated in
// float64 so tests can compare across steps without drift.
func (p *Planet) TotalWater() float64 {
	var total float64
	for _, w := range p.water {
		total += float64(w)
	}
	return total
}

// NearestVertex returns the id of the vertex closest to a point by
// euclidean distance. Linear scan; used for point selection and lifeform
// placement, never on a per-vertex hot path.
func (p *Planet) NearestVertex(point geom.Vec3) uint32 {
	best := uint32(0)
	bestDist := float32(math32.MaxFloat32)
	for i, dir := range p.vertices {
		d := dir.Scale(p.cfg.Radius).SquaredDistance(point)
		if d < bestDist {
			bestDist = d
			best = uint32(i)
		}
	}
	return best
}

// fatalInvariant reports an unrecoverable simulation defect with full
// context and terminates the process. Continuing after a broken invariant
// risks unbounded divergence of the shared state.
func fatalInvariant(msg string, args ...any) {
	slog.Error("simulation invariant violated: "+msg, args...)
	os.Exit(1)
}
