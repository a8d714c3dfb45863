// Package generation synthesises a value field: a random subset of key cells
// is drawn from weighted value bins, and every other reachable cell takes the
// most common value among its already resolved neighbours.
package generation

import (
	"maps"
	"math"
	"slices"
	"strconv"

	"apviz/internal/core"
	prng "apviz/pkg/core"
)

// binsPerSign is the number of bins on each side of zero.
const binsPerSign = 5

// Bin is one generated value, or a wall.
type Bin struct {
	Value float64
	Wall  bool
}

// less orders bins by value with walls after every number.
func (b Bin) less(o Bin) bool {
	if b.Wall != o.Wall {
		return o.Wall
	}
	return b.Value < o.Value
}

// Bins returns the value bins from 1 down to -1 followed by the wall bin.
func Bins() []Bin {
	step := 1.0 / binsPerSign
	out := make([]Bin, 0, 2*binsPerSign+2)
	for i := 0; i <= 2*binsPerSign; i++ {
		out = append(out, Bin{Value: roundSignificant(1-float64(i)*step, 3)})
	}
	return append(out, Bin{Wall: true})
}

// Weight resolves the proportion for b: an exact numeric key wins over the
// special key the bin falls under.
func (p Proportions) Weight(b Bin) float64 {
	if b.Wall {
		return p[KeyWall]
	}
	for _, k := range slices.Sorted(maps.Keys(p)) {
		if f, err := strconv.ParseFloat(k, 64); err == nil && f == b.Value {
			return p[k]
		}
	}
	special := KeyPositive
	switch {
	case b.Value == 1:
		special = KeyMax
	case b.Value == -1:
		special = KeyMin
	case b.Value == 0:
		special = KeyZero
	case b.Value < 0:
		special = KeyNegative
	}
	return p[special]
}

// Result summarises a generation run.
type Result struct {
	KeyCells   int
	Propagated int
	Unresolved int
}

// Generate overwrites every cell value of g. Cells that propagation never
// reaches keep core.UnresolvedValue.
func Generate(g *core.Grid, cfg Config) Result {
	props := DefaultProportions()
	for k, v := range cfg.Proportions {
		props[k] = v
	}
	rng := prng.NewRNG(cfg.Seed)
	urn := prng.NewUrn[Bin](rng)
	for _, b := range Bins() {
		urn.Add(b, props.Weight(b))
	}

	for i := range g.Cells {
		g.Cells[i].Wall = false
		g.Cells[i].Value = core.UnresolvedValue
	}

	var res Result
	var queue []*core.Cell
	for i := range g.Cells {
		if rng.Float64() > cfg.KeyCellProportion {
			continue
		}
		b, ok := urn.Pick()
		if !ok {
			continue
		}
		cell := &g.Cells[i]
		setBin(cell, b)
		res.KeyCells++
		queue = append(queue, core.RingCells(g, cell, 1)...)
	}

	for head := 0; head < len(queue); head++ {
		cell := queue[head]
		if !cell.Unresolved() {
			continue
		}
		setBin(cell, mode(core.RingCells(g, cell, 1)))
		res.Propagated++
		for _, n := range core.RingCells(g, cell, 1) {
			if n.Unresolved() {
				queue = append(queue, n)
			}
		}
	}

	for i := range g.Cells {
		if g.Cells[i].Unresolved() {
			res.Unresolved++
		}
	}
	return res
}

// mode returns the most frequent bin among resolved neighbours. Ties go to
// the lowest value, and numbers beat walls.
func mode(neighbors []*core.Cell) Bin {
	counts := make(map[Bin]int, len(neighbors))
	for _, n := range neighbors {
		if n.Unresolved() {
			continue
		}
		counts[binOf(n)]++
	}
	var best Bin
	bestCount := 0
	for b, c := range counts {
		if c > bestCount || (c == bestCount && b.less(best)) {
			best, bestCount = b, c
		}
	}
	return best
}

func binOf(c *core.Cell) Bin {
	if c.Wall {
		return Bin{Wall: true}
	}
	return Bin{Value: c.Value}
}

func setBin(c *core.Cell, b Bin) {
	c.Wall = b.Wall
	c.Value = 0
	if !b.Wall {
		c.Value = b.Value
	}
}

func roundSignificant(v float64, digits int) float64 {
	if v == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', digits, 64), 64)
	if err != nil || math.IsNaN(f) {
		return v
	}
	return f
}
