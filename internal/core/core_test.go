package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newSizedGrid(rows, cols int) *Grid {
	g := NewGrid()
	g.Resize(rows, cols)
	return g
}

func coords(cells []*Cell) [][2]int {
	out := make([][2]int, len(cells))
	for i, c := range cells {
		out[i] = [2]int{c.Row, c.Col}
	}
	return out
}

func TestResolveReferences(t *testing.T) {
	g := newSizedGrid(2, 3)

	all, err := Resolve(g, Ref{})
	if err != nil {
		t.Fatalf("resolve empty ref: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("empty ref resolved %d cells, want 6", len(all))
	}
	for i, c := range all {
		if g.Index(c.Row, c.Col) != i {
			t.Fatalf("cells not row-major: %v", coords(all))
		}
	}

	one, err := Resolve(g, Ref{0, 1})
	if err != nil {
		t.Fatalf("resolve point: %v", err)
	}
	if len(one) != 1 || one[0].Row != 0 || one[0].Col != 1 {
		t.Fatalf("point resolved to %v", coords(one))
	}

	rect, err := Resolve(g, Ref{0, 0, 1, 2})
	if err != nil {
		t.Fatalf("resolve rect: %v", err)
	}
	if len(rect) != 6 {
		t.Fatalf("full rect resolved %d cells", len(rect))
	}

	for _, bad := range []Ref{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 3}, {2, 0}, {-1, 0}, {0, -1}} {
		_, err := Resolve(g, bad)
		if !errors.Is(err, ErrReference) {
			t.Errorf("Resolve(%v) error = %v, want reference error", bad, err)
		}
	}

	if _, err := Resolve(g, Ref{1, 2, 3}); !errors.Is(err, ErrValidation) {
		t.Fatalf("three item ref error = %v, want validation error", err)
	}
}

func TestResolveAliasesGrid(t *testing.T) {
	g := newSizedGrid(2, 2)
	cells, err := Resolve(g, Ref{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	cells[0].Highlighted = true
	if !g.At(1, 1).Highlighted {
		t.Fatal("resolved cells must point into the grid")
	}
}

func TestTrimClampsToGrid(t *testing.T) {
	g := newSizedGrid(2, 3)
	got, err := Trim(g, Ref{-2, -2, 4, 1})
	if err != nil {
		t.Fatal(err)
	}
	want := Rect{0, 0, 1, 1}
	if got != want {
		t.Fatalf("Trim = %v, want %v", got, want)
	}
}

func TestRingCells(t *testing.T) {
	g := newSizedGrid(5, 5)
	center := g.At(2, 2)

	if ring := RingCells(g, center, 0); len(ring) != 1 || ring[0] != center {
		t.Fatal("ply 0 should be the center only")
	}
	ring1 := RingCells(g, center, 1)
	if len(ring1) != 8 {
		t.Fatalf("ply 1 has %d cells", len(ring1))
	}
	want := [][2]int{{1, 1}, {1, 2}, {1, 3}, {2, 3}, {3, 3}, {3, 2}, {3, 1}, {2, 1}}
	for i, c := range coords(ring1) {
		if c != want[i] {
			t.Fatalf("ring order %v, want %v", coords(ring1), want)
		}
	}
	if ring2 := RingCells(g, center, 2); len(ring2) != 16 {
		t.Fatalf("ply 2 has %d cells", len(ring2))
	}

	corner := g.At(0, 0)
	if ring := RingCells(g, corner, 1); len(ring) != 3 {
		t.Fatalf("corner ring has %d cells, want 3", len(ring))
	}
	for _, c := range RingCells(g, center, 2) {
		if RingPly(c, center) != 2 {
			t.Fatalf("cell %d,%d has ply %d", c.Row, c.Col, RingPly(c, center))
		}
	}
}

func TestOuterNeighbors(t *testing.T) {
	g := newSizedGrid(5, 5)
	center := g.At(2, 2)
	cell := g.At(1, 2)
	outer := OuterNeighbors(g, cell, center)
	if len(outer) != 3 {
		t.Fatalf("outer neighbours %v", coords(outer))
	}
	for _, n := range outer {
		if RingPly(n, center) != 2 {
			t.Fatalf("neighbour %d,%d not on outer ring", n.Row, n.Col)
		}
	}
}

func TestDefaultCells(t *testing.T) {
	g := newSizedGrid(2, 3)
	if len(g.Cells) != 6 {
		t.Fatalf("got %d cells", len(g.Cells))
	}
	for i, c := range g.Cells {
		if c.Row*3+c.Col != i {
			t.Fatalf("cell %d at %d,%d", i, c.Row, c.Col)
		}
		if c.Value != 0 || c.Wall || c.AutoOpacity != 0 || c.Highlighted || c.Captured || c.Active || c.Scale != 1 {
			t.Fatalf("cell %d not default: %+v", i, c)
		}
		if c.FillOpacity.Set || c.StrokeOpacity.Set {
			t.Fatalf("cell %d has explicit opacity", i)
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	g := newSizedGrid(1, 2)
	g.Tag, g.HasTag = "capture", true
	snap := g.Freeze()

	cells := snap.Cells()
	cells[0].Captured = true
	if c, _ := snap.Cell(0, 0); c.Captured {
		t.Fatal("mutating a copy leaked into the snapshot")
	}

	next := snap.Thaw()
	next.Cells[1].Active = true
	if c, _ := snap.Cell(0, 1); c.Active {
		t.Fatal("thawed grid aliases the snapshot")
	}
	if next.HasTag {
		t.Fatal("thawed grid inherited the capture tag")
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	g := newSizedGrid(1, 2)
	g.Cells[0].Wall = true
	g.Cells[1].FillOpacity = Some(0.5)
	data, err := json.Marshal(g.Freeze())
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Rows  int              `json:"rows"`
		Cells []map[string]any `json:"cells"`
		Gif   *string          `json:"gif"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Rows != 1 || len(decoded.Cells) != 2 {
		t.Fatalf("unexpected payload %s", data)
	}
	if v, ok := decoded.Cells[0]["value"]; !ok || v != nil {
		t.Fatalf("wall should encode value null: %s", data)
	}
	if _, ok := decoded.Cells[0]["fillOpacity"]; ok {
		t.Fatalf("unset opacity should be omitted: %s", data)
	}
	if decoded.Cells[1]["fillOpacity"] != 0.5 {
		t.Fatalf("fill opacity lost: %s", data)
	}
	if decoded.Gif != nil {
		t.Fatal("untagged frame should not encode gif")
	}
	if !strings.Contains(string(data), `"captured":{"r":0`) {
		t.Fatalf("palette missing from payload: %s", data)
	}
}

func TestErrorKinds(t *testing.T) {
	err := Statef("frame", "missing size")
	if !errors.Is(err, ErrState) || errors.Is(err, ErrReference) {
		t.Fatalf("kind mismatch: %v", err)
	}
	var ce *Error
	if !errors.As(err, &ce) || ce.Op != "frame" {
		t.Fatalf("errors.As failed: %v", err)
	}
}

func TestFixedStep(t *testing.T) {
	now := time.Unix(0, 0)
	fs := NewFixedStep(4)
	fs.now = func() time.Time { return now }

	if fs.ShouldStep() {
		t.Fatal("first call should only prime the clock")
	}
	now = now.Add(100 * time.Millisecond)
	if fs.ShouldStep() {
		t.Fatal("stepped before the interval elapsed")
	}
	now = now.Add(200 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("should step after 300ms at 4fps")
	}
	fs.Restart()
	if fs.ShouldStep() {
		t.Fatal("restart should drop accumulated time")
	}
}

func TestParameterSnapshotLookup(t *testing.T) {
	snap := ParameterSnapshot{Groups: []ParameterGroup{{
		Name:   "Grid",
		Params: []Parameter{IntParam("rows", "Rows", 2), FloatParam("scale", "Scale", 1.5)},
	}}}
	p, ok := snap.Lookup("scale")
	if !ok || p.Value != "1.5" || p.Type != ParamTypeFloat {
		t.Fatalf("lookup returned %+v", p)
	}
	if !strings.Contains(snap.String(), "Rows") {
		t.Fatalf("listing missing label: %q", snap.String())
	}
}
