package render

import (
	"bytes"
	"image/png"
	"testing"

	"apviz/internal/color"
	"apviz/internal/core"
)

func snapshot(rows, cols int, edit func(g *core.Grid)) *core.Snapshot {
	g := core.NewGrid()
	g.Resize(rows, cols)
	if edit != nil {
		edit(g)
	}
	return g.Freeze()
}

func TestFillColor(t *testing.T) {
	p := color.Default
	cases := []struct {
		name string
		cell core.Cell
		want [3]int
	}{
		{"zero", core.Cell{Value: 0}, p[color.Zero].RGB},
		{"max", core.Cell{Value: 1}, p[color.Positive].RGB},
		{"clamped", core.Cell{Value: 5}, p[color.Positive].RGB},
		{"min", core.Cell{Value: -1}, p[color.Negative].RGB},
		{"wall", core.Cell{Wall: true, Value: 1}, p[color.Empty].RGB},
	}
	for _, tc := range cases {
		got := FillColor(tc.cell, p)
		if [3]int{int(got.R), int(got.G), int(got.B)} != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}

	half := FillColor(core.Cell{Value: 0.5, AutoOpacity: 0.5}, p)
	// #FFFFFF halfway to #38761D.
	if half.R != 156 || half.G != 187 || half.B != 142 || half.A != 128 {
		t.Fatalf("half value = %v", half)
	}
	explicit := FillColor(core.Cell{FillOpacity: core.Some(1), AutoOpacity: 0.2}, p)
	if explicit.A != 255 {
		t.Fatalf("explicit fill opacity should win, alpha %d", explicit.A)
	}
}

func TestStrokeColor(t *testing.T) {
	p := color.Default
	if _, ok := StrokeColor(core.Cell{}, p); ok {
		t.Fatal("plain cell should have no stroke")
	}
	c, ok := StrokeColor(core.Cell{Highlighted: true, AutoOpacity: 1}, p)
	if !ok || c.R != 255 || c.A != 255 {
		t.Fatalf("highlighted stroke = %v", c)
	}
	c, ok = StrokeColor(core.Cell{Highlighted: true, Captured: true, AutoOpacity: 1}, p)
	if !ok || c.R != 0 || c.G != 0 || c.B != 0 {
		t.Fatalf("captured should win over highlighted, got %v", c)
	}
}

func TestCellRGBA(t *testing.T) {
	p := color.Default
	bg := Background(p)
	if got := CellRGBA(core.Cell{}, p); got != bg {
		t.Fatalf("transparent cell should show background, got %v", got)
	}
	got := CellRGBA(core.Cell{Value: 1, FillOpacity: core.Some(1)}, p)
	if got.R != 0x38 || got.G != 0x76 || got.B != 0x1D {
		t.Fatalf("opaque cell = %v", got)
	}
}

func TestDrawLayout(t *testing.T) {
	snap := snapshot(2, 3, func(g *core.Grid) {
		g.Cells[0].Value = 1
		g.Cells[0].FillOpacity = core.Some(1)
	})
	o := Options{CellSize: 10, Margin: 1, Stroke: 2}
	img := Draw(snap, o)
	if b := img.Bounds(); b.Dx() != 36 || b.Dy() != 24 {
		t.Fatalf("bounds = %v", b)
	}
	center := img.RGBAAt(6, 6)
	if center.R != 0x38 || center.G != 0x76 || center.B != 0x1D {
		t.Fatalf("filled cell center = %v", center)
	}
	if got := img.RGBAAt(18, 6); got != Background(color.Default) {
		t.Fatalf("transparent cell center = %v", got)
	}
	if got := img.RGBAAt(0, 0); got != Background(color.Default) {
		t.Fatalf("margin = %v", got)
	}

	o.Caption = "frame 0"
	if b := Draw(snap, o).Bounds(); b.Dy() != 24+captionHeight {
		t.Fatalf("caption strip missing: %v", b)
	}
}

func TestDrawEmptyFrame(t *testing.T) {
	img := Draw(snapshot(0, 0, nil), DefaultOptions())
	if !img.Bounds().Empty() {
		t.Fatalf("empty frame bounds = %v", img.Bounds())
	}
}

func TestEncodePNG(t *testing.T) {
	snap := snapshot(3, 4, nil)
	var buf bytes.Buffer
	if err := EncodePNG(&buf, snap, DefaultOptions()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := DefaultOptions().Bounds(snap)
	if img.Bounds() != want {
		t.Fatalf("bounds = %v, want %v", img.Bounds(), want)
	}
}
