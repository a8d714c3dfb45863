package opacity

import (
	"math"
	"testing"

	"apviz/internal/core"
)

func sized(rows, cols, steps int) *core.Grid {
	g := core.NewGrid()
	g.Resize(rows, cols)
	g.AdjacentPossibleSteps = steps
	return g
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

func TestCapturedGlowRadiusOne(t *testing.T) {
	g := sized(2, 3, 1)
	g.At(0, 0).Captured = true
	Apply(g)

	want := map[[2]int]float64{
		{0, 0}: 1,
		{0, 1}: 1 - 1/math.Sqrt(8),
		{1, 0}: 1 - 1/math.Sqrt(8),
		{1, 1}: 0.5,
		{0, 2}: 0,
		{1, 2}: 0,
	}
	for rc, v := range want {
		got := g.At(rc[0], rc[1]).AutoOpacity
		if !approx(got, v) {
			t.Errorf("cell %v autoOpacity = %v, want %v", rc, got, v)
		}
	}
}

func TestCapturedGlowRadiusTwo(t *testing.T) {
	g := sized(2, 3, 2)
	g.At(0, 0).Captured = true
	Apply(g)

	d := math.Sqrt(18)
	want := map[[2]int]float64{
		{0, 0}: 1,
		{0, 1}: 1 - 1/d,
		{1, 0}: 1 - 1/d,
		{1, 1}: 1 - math.Sqrt(2)/d,
		{0, 2}: 1 - 2/d,
		{1, 2}: 1 - math.Sqrt(5)/d,
	}
	for rc, v := range want {
		if got := g.At(rc[0], rc[1]).AutoOpacity; !approx(got, v) {
			t.Errorf("cell %v autoOpacity = %v, want %v", rc, got, v)
		}
	}
}

func TestDimmedPeak(t *testing.T) {
	g := sized(2, 3, 1)
	g.At(0, 0).Captured = true
	ApplyPeak(g, DimmedPeak)
	if got := g.At(1, 1).AutoOpacity; !approx(got, 0.25) {
		t.Fatalf("diagonal neighbour = %v, want 0.25", got)
	}
	if got := g.At(0, 0).AutoOpacity; got != 1 {
		t.Fatalf("captured cell = %v, want 1", got)
	}
}

func TestHighlightedAndActiveDoNotGlow(t *testing.T) {
	g := sized(3, 3, 2)
	g.At(1, 1).Highlighted = true
	g.At(0, 0).Active = true
	Apply(g)
	for _, c := range g.Cells {
		lit := (c.Row == 1 && c.Col == 1) || (c.Row == 0 && c.Col == 0)
		if lit && c.AutoOpacity != 1 {
			t.Errorf("cell %d,%d should be fully opaque", c.Row, c.Col)
		}
		if !lit && c.AutoOpacity != 0 {
			t.Errorf("cell %d,%d should have no glow, got %v", c.Row, c.Col, c.AutoOpacity)
		}
	}
}

func TestGlowKeepsMaximum(t *testing.T) {
	g := sized(1, 5, 2)
	g.At(0, 0).Captured = true
	g.At(0, 4).Captured = true
	g.At(0, 3).AutoOpacity = 42 // stale value must be cleared first
	Apply(g)
	near := g.At(0, 3).AutoOpacity
	if !approx(near, 1-1/math.Sqrt(18)) {
		t.Fatalf("neighbour of second source = %v", near)
	}
	mid := g.At(0, 2).AutoOpacity
	if !approx(mid, 1-2/math.Sqrt(18)) {
		t.Fatalf("midpoint = %v", mid)
	}
}

func TestEmptyGrid(t *testing.T) {
	g := core.NewGrid()
	Apply(g)
}
