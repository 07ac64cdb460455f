package mesh

// MaxNeighbors is the fixed neighbor capacity per vertex. Subdivided
// icosahedron vertices have degree 6 except the 12 original icosahedron
// vertices, which have degree 5.
const MaxNeighbors = 6

// NoNeighbor marks an unused neighbor slot. It is distinct from every real
// vertex id so stencil loops can skip it without risking confusion with a
// genuine self-loop.
const NoNeighbor = ^uint32(0)

// Neighborhood is the fixed-width adjacency list of one vertex. Slots are
// filled in triangle-list insertion order; unfilled slots hold NoNeighbor.
type Neighborhood [MaxNeighbors]uint32

// Degree reports the number of populated neighbor slots.
func (n Neighborhood) Degree() int {
	d := 0
	for _, id := range n {
		if id != NoNeighbor {
			d++
		}
	}
	return d
}

// Contains reports whether id occupies one of the populated slots.
func (n Neighborhood) Contains(id uint32) bool {
	for _, v := range n {
		if v == id {
			return true
		}
	}
	return false
}

// BuildNeighbors derives per-vertex adjacency from a triangle index list.
// Every pair of vertices sharing a triangle edge is recorded as mutually
// adjacent exactly once; edges shared by two triangles are deduplicated.
func BuildNeighbors(vertexCount int, indices []uint32) []Neighborhood {
	neighbors := make([]Neighborhood, vertexCount)
	for i := range neighbors {
		for s := range neighbors[i] {
			neighbors[i][s] = NoNeighbor
		}
	}

	link := func(a, b uint32) {
		if neighbors[a].Contains(b) {
			return
		}
		for s := range neighbors[a] {
			if neighbors[a][s] == NoNeighbor {
				neighbors[a][s] = b
				return
			}
		}
		// A subdivided icosahedron never exceeds degree 6; reaching here
		// means the index list is not one.
		panic("mesh: vertex degree exceeds 6")
	}

	for i := 0; i < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		link(a, b)
		link(b, a)
		link(b, c)
		link(c, b)
		link(c, a)
		link(a, c)
	}

	return neighbors
}
