package planet

import "github.com/PixelGuys/Stella-Dei/internal/mesh"

// Hydrology constants. Two sub-iterations per tick keep the explicit scheme
// stable without an implicit solver.
const (
	hydrologyIterations = 2

	// Fraction of the height difference a single transfer may move. Flow
	// decelerates as the two surfaces equalize, which prevents oscillation.
	equalizationRate = 0.25

	// Game seconds over which a vertex would share its whole column.
	waterShareTime = 12.0

	// Ceiling on the per-iteration outflow fraction so the sender can never
	// be drained below zero regardless of the time scale.
	maxShareFraction = 0.9
)

// HydrologyOptions parameterizes one water redistribution step.
type HydrologyOptions struct {
	DT float32 // Step length in game seconds
}

// StepHydrology redistributes water downhill. Each vertex proposes a share
// of its own column toward every lower neighbor; the amount actually moved
// shrinks with the remaining height difference. Senders only ever debit
// themselves and credit neighbors in scratch, so the pass is order
// independent. A negative water column or a negative transfer is an
// unrecoverable logic fault and terminates the process.
func (p *Planet) StepHydrology(opts HydrologyOptions) {
	share := opts.DT / waterShareTime
	if share > maxShareFraction {
		share = maxShareFraction
	}
	if share <= 0 {
		return
	}

	for iter := 0; iter < hydrologyIterations; iter++ {
		water := p.water
		next := p.waterScratch
		copy(next, water)

		for i, wi := range water {
			if wi < 0 {
				fatalInvariant("negative water elevation",
					"vertex", i,
					"water", wi,
					"iteration", iter,
				)
			}
			if wi == 0 {
				continue
			}

			hi := p.elevation[i] + wi
			shared := wi * share / mesh.MaxNeighbors
			var sent float32

			for _, j := range p.neighbors[i] {
				if j == mesh.NoNeighbor {
					continue
				}
				hj := p.elevation[j] + water[j]
				if hi <= hj {
					continue
				}
				amount := (hi - hj) * equalizationRate
				if amount > shared {
					amount = shared
				}
				if amount < 0 {
					fatalInvariant("negative water transfer",
						"from", i,
						"to", j,
						"amount", amount,
						"senderHeight", hi,
						"receiverHeight", hj,
					)
				}
				next[j] += amount
				sent += amount
			}

			next[i] -= sent
			if next[i] < 0 {
				fatalInvariant("water column drained below zero",
					"vertex", i,
					"water", wi,
					"sent", sent,
					"result", next[i],
				)
			}
		}

		p.water, p.waterScratch = p.waterScratch, p.water
	}
}
