// Package opacity derives each cell's auto opacity: full for highlighted,
// captured and active cells, and a distance-based glow around captured cells.
package opacity

import (
	"math"

	"apviz/internal/core"
)

const (
	// DefaultPeak is the glow assigned at distance zero.
	DefaultPeak = 1.0
	// DimmedPeak steps the whole glow down so the nearest neighbours never
	// look captured.
	DimmedPeak = 0.75
)

// Apply recomputes AutoOpacity for every cell of g using DefaultPeak.
func Apply(g *core.Grid) {
	ApplyPeak(g, DefaultPeak)
}

// ApplyPeak recomputes AutoOpacity for every cell of g. A neighbour within
// AdjacentPossibleSteps of a captured cell gets peak - distance/farthest,
// where farthest is the diagonal one step past the radius. Each cell keeps
// the highest value any source assigns it.
func ApplyPeak(g *core.Grid, peak float64) {
	for i := range g.Cells {
		g.Cells[i].AutoOpacity = 0
	}
	steps := g.AdjacentPossibleSteps
	farthest := math.Sqrt2 * float64(steps+1)
	for i := range g.Cells {
		cell := &g.Cells[i]
		if !cell.Highlighted && !cell.Captured && !cell.Active {
			continue
		}
		cell.AutoOpacity = 1
		if !cell.Captured {
			continue
		}
		rect := core.TrimRect(g, core.Rect{
			R0: cell.Row - steps,
			C0: cell.Col - steps,
			R1: cell.Row + steps,
			C1: cell.Col + steps,
		})
		for r := rect.R0; r <= rect.R1; r++ {
			for c := rect.C0; c <= rect.C1; c++ {
				n := g.At(r, c)
				if n == cell {
					continue
				}
				dr, dc := float64(n.Row-cell.Row), float64(n.Col-cell.Col)
				v := peak - math.Sqrt(dr*dr+dc*dc)/farthest
				if n.AutoOpacity > v {
					continue
				}
				n.AutoOpacity = v
			}
		}
	}
}
