// Package mesh builds the subdivided icosphere the planet simulation runs
// on, and derives the fixed-degree neighbor graph the climate and hydrology
// stencils iterate over.
package mesh

import (
	"github.com/chewxy/math32"

	"github.com/PixelGuys/Stella-Dei/internal/geom"
)

// Icosphere holds the unit-sphere vertex positions and the triangle index
// list of a subdivided icosahedron. VertexCount(k) = 10*4^k + 2.
type Icosphere struct {
	Vertices []geom.Vec3
	Indices  []uint32
}

// NumVertices reports the number of mesh vertices.
func (m *Icosphere) NumVertices() int { return len(m.Vertices) }

// NumTriangles reports the number of mesh triangles.
func (m *Icosphere) NumTriangles() int { return len(m.Indices) / 3 }

// BuildIcosphere subdivides a regular icosahedron depth times, normalizing
// every inserted edge midpoint onto the unit sphere. Midpoints are shared
// between the two triangles adjacent to an edge, so the output contains no
// duplicate vertices. The construction is fully deterministic.
func BuildIcosphere(depth int) *Icosphere {
	vertices := icosahedronVertices()
	indices := append([]uint32(nil), icosahedronIndices[:]...)

	for level := 0; level < depth; level++ {
		// One midpoint per undirected edge, keyed by the packed index pair.
		midpoints := make(map[uint64]uint32, len(indices))
		next := make([]uint32, 0, len(indices)*4)

		midpoint := func(a, b uint32) uint32 {
			key := edgeKey(a, b)
			if id, ok := midpoints[key]; ok {
				return id
			}
			id := uint32(len(vertices))
			vertices = append(vertices, vertices[a].Midpoint(vertices[b]).Normalize())
			midpoints[key] = id
			return id
		}

		for i := 0; i < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			ab := midpoint(a, b)
			bc := midpoint(b, c)
			ca := midpoint(c, a)

			next = append(next,
				a, ab, ca,
				b, bc, ab,
				c, ca, bc,
				ab, bc, ca,
			)
		}
		indices = next
	}

	return &Icosphere{Vertices: vertices, Indices: indices}
}

// edgeKey packs an unordered vertex pair into a single map key.
func edgeKey(a, b uint32) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

// icosahedronVertices returns the 12 vertices of a regular icosahedron on
// the unit sphere: three orthogonal golden rectangles.
func icosahedronVertices() []geom.Vec3 {
	t := (1 + math32.Sqrt(5)) / 2

	raw := []geom.Vec3{
		{X: -1, Y: t, Z: 0}, {X: 1, Y: t, Z: 0}, {X: -1, Y: -t, Z: 0}, {X: 1, Y: -t, Z: 0},
		{X: 0, Y: -1, Z: t}, {X: 0, Y: 1, Z: t}, {X: 0, Y: -1, Z: -t}, {X: 0, Y: 1, Z: -t},
		{X: t, Y: 0, Z: -1}, {X: t, Y: 0, Z: 1}, {X: -t, Y: 0, Z: -1}, {X: -t, Y: 0, Z: 1},
	}

	vertices := make([]geom.Vec3, 0, 12)
	for _, v := range raw {
		vertices = append(vertices, v.Normalize())
	}
	return vertices
}

// icosahedronIndices lists the 20 triangular faces of the base icosahedron.
var icosahedronIndices = [60]uint32{
	0, 11, 5,
	0, 5, 1,
	0, 1, 7,
	0, 7, 10,
	0, 10, 11,
	1, 5, 9,
	5, 11, 4,
	11, 10, 2,
	10, 7, 6,
	7, 1, 8,
	3, 9, 4,
	3, 4, 2,
	3, 2, 6,
	3, 6, 8,
	3, 8, 9,
	4, 9, 5,
	2, 4, 11,
	6, 2, 10,
	8, 6, 7,
	9, 8, 1,
}
