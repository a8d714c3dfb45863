package growth

import (
	"math"
	"slices"
	"testing"

	"apviz/internal/core"
	prng "apviz/pkg/core"
)

func sized(rows, cols int) *core.Grid {
	g := core.NewGrid()
	g.Resize(rows, cols)
	return g
}

func captured(g *core.Grid) int {
	n := 0
	for _, c := range g.Cells {
		if c.Captured {
			n++
		}
	}
	return n
}

func TestGrowWithoutActiveCellsIsNoop(t *testing.T) {
	g := sized(4, 4)
	g.At(1, 1).Captured = true
	before := slices.Clone(g.Cells)

	res := Grow(g, DefaultConfig())
	if res != (Result{}) {
		t.Fatalf("unexpected result %+v", res)
	}
	if !slices.Equal(before, g.Cells) {
		t.Fatal("grid changed without active cells")
	}
}

func TestGrowRespectsNumCellsToGrow(t *testing.T) {
	g := sized(8, 8)
	for _, rc := range [][2]int{{1, 1}, {1, 6}, {6, 1}, {6, 6}} {
		c := g.At(rc[0], rc[1])
		c.Active, c.Captured = true, true
	}
	cfg := DefaultConfig()
	cfg.NumCellsToGrow = 2

	res := Grow(g, cfg)
	if res.Committed != 2 {
		t.Fatalf("committed %d, want 2", res.Committed)
	}
	if got := captured(g); got != 6 {
		t.Fatalf("captured %d cells, want 6", got)
	}
}

func TestGrowRespectsProportion(t *testing.T) {
	g := sized(8, 8)
	for _, rc := range [][2]int{{1, 1}, {1, 6}, {6, 1}} {
		c := g.At(rc[0], rc[1])
		c.Active, c.Captured = true, true
	}
	cfg := DefaultConfig()
	cfg.Proportion = 0.5

	res := Grow(g, cfg)
	// floor(3 * 0.5) = 1
	if res.Committed != 1 {
		t.Fatalf("committed %d, want 1", res.Committed)
	}
	if got := captured(g); got != 4 {
		t.Fatalf("captured %d cells, want 4", got)
	}
}

func TestGrowDeactivatesDeadEnds(t *testing.T) {
	g := sized(3, 3)
	for i := range g.Cells {
		g.Cells[i].Wall = true
	}
	center := g.At(1, 1)
	center.Wall = false
	center.Active, center.Captured = true, true

	res := Grow(g, DefaultConfig())
	if res.DeadEnds != 1 || res.Committed != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if center.Active {
		t.Fatal("dead end should be deactivated")
	}
}

func TestGrowFollowsOnlyOpening(t *testing.T) {
	g := sized(3, 3)
	for i := range g.Cells {
		g.Cells[i].Value = -1
	}
	open := g.At(0, 2)
	open.Value = 0.5
	center := g.At(1, 1)
	center.Value = 0
	center.Active, center.Captured = true, true

	res := Grow(g, DefaultConfig())
	if res.Committed != 1 {
		t.Fatalf("committed %d, want 1", res.Committed)
	}
	if !open.Captured || !open.Active {
		t.Fatal("the only growable neighbour should be captured and active")
	}
	if center.Active {
		t.Fatal("source should stop being active with zero branch likelihood")
	}
}

func TestGrowBranchesWhenCertain(t *testing.T) {
	g := sized(3, 3)
	center := g.At(1, 1)
	center.Active, center.Captured = true, true
	cfg := DefaultConfig()
	cfg.BranchLikelihood = 1

	Grow(g, cfg)
	if !center.Active {
		t.Fatal("source should stay active with branch likelihood 1")
	}
}

func TestGrowDeterministic(t *testing.T) {
	build := func() *core.Grid {
		g := sized(10, 10)
		for i := range g.Cells {
			g.Cells[i].Value = float64(i%7) / 7
		}
		for _, rc := range [][2]int{{2, 2}, {7, 7}, {2, 7}} {
			c := g.At(rc[0], rc[1])
			c.Active, c.Captured = true, true
		}
		return g
	}
	cfg := DefaultConfig()
	cfg.Seed = prng.StringSeed("repeatable")

	a, b := build(), build()
	for step := 0; step < 5; step++ {
		Grow(a, cfg)
		Grow(b, cfg)
	}
	if !slices.Equal(a.Cells, b.Cells) {
		t.Fatal("same seed produced different growth")
	}
}

func TestValueMapBackwardInduction(t *testing.T) {
	g := sized(1, 4)
	for i := range g.Cells {
		g.Cells[i].Value = 1
		g.Cells[i].FillOpacity = core.Some(1)
	}
	center := g.At(0, 0)
	values := ValueMap(g, center, 2, 0.5)

	if got := values[g.At(0, 2)]; got != 1 {
		t.Fatalf("outer ring value = %v, want 1", got)
	}
	if got := values[g.At(0, 1)]; got != 1.5 {
		t.Fatalf("inner ring value = %v, want 1.5", got)
	}
	if _, ok := values[g.At(0, 3)]; ok {
		t.Fatal("cells beyond the ply limit must not be scored")
	}
}

func TestValueMapTreatsCapturedAsWall(t *testing.T) {
	g := sized(1, 4)
	for i := range g.Cells {
		g.Cells[i].Value = 1
		g.Cells[i].FillOpacity = core.Some(1)
	}
	g.At(0, 1).Captured = true
	values := ValueMap(g, g.At(0, 0), 2, 0)
	if got := values[g.At(0, 1)]; got != 0 {
		t.Fatalf("captured cell scored %v", got)
	}
}

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{
		"seed":              "abc",
		"randomness":        "2",
		"num_cells_to_grow": "3",
		"value_ply":         "-1",
	})
	if c.Seed != prng.StringSeed("abc") || c.Randomness != 1 || c.NumCellsToGrow != 3 || c.ValuePly != 8 {
		t.Fatalf("unexpected config %+v", c)
	}
	if p, ok := c.Parameters().Lookup("randomness"); !ok || p.Value != "1" {
		t.Fatalf("parameters missing randomness: %+v", p)
	}
	if math.IsNaN(FromMap(nil).ValueDropoff) {
		t.Fatal("defaults broken")
	}
}
