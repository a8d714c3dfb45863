// Package growth expands the captured region of a grid outward from its
// active frontier, preferring neighbours that lead towards valuable cells.
package growth

import (
	"math"
	"slices"

	"apviz/internal/core"
	prng "apviz/pkg/core"
)

// selectionScale turns a squared value into an urn weight.
const selectionScale = 1000

// Result summarises one growth step.
type Result struct {
	Active     int
	DeadEnds   int
	Candidates int
	Committed  int
}

type candidate struct {
	source *core.Cell
	target *core.Cell
	value  float64
}

// Grow runs one growth step on g in place. Auto opacity should be current
// before calling, since cell values are weighted by opacity, and must be
// recomputed afterwards.
func Grow(g *core.Grid, cfg Config) Result {
	cfg = cfg.Normalize()
	rng := prng.NewRNG(cfg.Seed)

	var active []*core.Cell
	for i := range g.Cells {
		if g.Cells[i].Active {
			active = append(active, &g.Cells[i])
		}
	}
	res := Result{Active: len(active)}
	if len(active) == 0 {
		return res
	}
	// Visiting in grid order would always favour the top-left frontier.
	prng.Shuffle(rng, active)

	strength := (1 - cfg.Randomness) * selectionScale
	candidates := make([]candidate, 0, len(active))
	for _, cell := range active {
		neighbors := growableNeighbors(g, cell)
		if len(neighbors) == 0 {
			cell.Active = false
			res.DeadEnds++
			continue
		}
		values := ValueMap(g, cell, cfg.ValuePly, cfg.ValueDropoff)

		prng.Shuffle(rng, neighbors)
		urn := prng.NewUrn[*core.Cell](rng)
		for _, n := range neighbors {
			v := values[n]
			urn.Add(n, v*v*strength+1)
		}
		pick, _ := urn.Pick()
		candidates = append(candidates, candidate{source: cell, target: pick, value: values[pick]})
	}
	res.Candidates = len(candidates)

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case a.value < b.value:
			return -1
		case a.value > b.value:
			return 1
		}
		return 0
	})

	limit := int(math.Floor(float64(len(active)) * cfg.Proportion))
	if cfg.NumCellsToGrow > 0 && cfg.NumCellsToGrow < limit {
		limit = cfg.NumCellsToGrow
	}
	for len(candidates) > 0 && res.Committed < limit {
		item := candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]
		item.target.Active = true
		item.target.Captured = true
		if !rng.Chance(cfg.BranchLikelihood) {
			item.source.Active = false
		}
		res.Committed++
	}
	return res
}

// growableNeighbors returns the Moore neighbours that can be captured: not
// walls, not negative, not already captured.
func growableNeighbors(g *core.Grid, cell *core.Cell) []*core.Cell {
	all := core.Neighbors(g, cell)
	out := all[:0]
	for _, n := range all {
		if n.Wall || n.Value < 0 || n.Captured {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ValueMap scores every cell within plies rings of center by backward
// induction: the outermost ring holds only local value, and each inner ring
// adds (1-dropoff) of the value already resolved on its outer neighbours.
// Walls, negative and captured cells score zero and pass nothing inward.
func ValueMap(g *core.Grid, center *core.Cell, plies int, dropoff float64) map[*core.Cell]float64 {
	out := make(map[*core.Cell]float64)
	for ply := plies; ply > 0; ply-- {
		for _, cell := range core.RingCells(g, center, ply) {
			v := 0.0
			if !cell.Wall {
				v = cell.Opacity() * cell.Value
			}
			wall := cell.Wall || v < 0 || cell.Captured
			if wall {
				v = 0
			}
			if ply != plies && !wall {
				outer := 0.0
				for _, n := range core.OuterNeighbors(g, cell, center) {
					outer += out[n]
				}
				v += outer * (1 - dropoff)
			}
			out[cell] = v
		}
	}
	return out
}
