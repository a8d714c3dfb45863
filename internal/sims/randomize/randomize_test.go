package randomize

import (
	"encoding/json"
	"errors"
	"testing"

	"apviz/internal/core"
	prng "apviz/pkg/core"
)

func sized(rows, cols int) *core.Grid {
	g := core.NewGrid()
	g.Resize(rows, cols)
	return g
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	if err := json.Unmarshal([]byte(`{"name":"scale"}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Min != 0 || c.Max != 1 || c.Relative || len(c.Cells) != 0 || c.Seed.Value != "seed" {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if err := json.Unmarshal([]byte(`{"name":"scale","max":0,"min":-2,"cells":[1,1],"seed":true}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Max != 0 || c.Min != -2 || !c.Seed.Random || len(c.Cells) != 2 {
		t.Fatalf("explicit fields not honoured: %+v", c)
	}
}

func TestApplyWithinRange(t *testing.T) {
	g := sized(4, 4)
	cfg := DefaultConfig()
	cfg.Name = "scale"
	cfg.Min, cfg.Max = 2, 3
	if err := Apply(g, cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	for _, c := range g.Cells {
		if c.Scale < 2 || c.Scale >= 3 {
			t.Fatalf("scale %v outside [2,3)", c.Scale)
		}
	}
}

func TestApplyDeterministic(t *testing.T) {
	a, b := sized(3, 3), sized(3, 3)
	cfg := DefaultConfig()
	cfg.Name = "velocity"
	cfg.Seed = prng.StringSeed("wind")
	if err := Apply(a, cfg); err != nil {
		t.Fatal(err)
	}
	if err := Apply(b, cfg); err != nil {
		t.Fatal(err)
	}
	for i := range a.Cells {
		if a.Cells[i] != b.Cells[i] {
			t.Fatalf("cell %d differs between identical runs", i)
		}
	}
}

func TestConsistentModeSharesDraw(t *testing.T) {
	g := sized(2, 3)
	cfg := DefaultConfig()
	cfg.Name = "opacity"
	if err := Apply(g, cfg); err != nil {
		t.Fatal(err)
	}
	for _, c := range g.Cells {
		if !c.FillOpacity.Set || !c.StrokeOpacity.Set || c.FillOpacity.Value != c.StrokeOpacity.Value {
			t.Fatalf("fill and stroke should share one draw: %+v", c)
		}
	}
}

func TestIndependentModeDrawsPerProperty(t *testing.T) {
	g := sized(3, 3)
	cfg := DefaultConfig()
	cfg.Name = "velocity"
	if err := Apply(g, cfg); err != nil {
		t.Fatal(err)
	}
	same := 0
	for _, c := range g.Cells {
		if c.VelocityX == c.VelocityY {
			same++
		}
	}
	if same == len(g.Cells) {
		t.Fatal("velocity components should be drawn independently")
	}
}

func TestBooleanClampAndRound(t *testing.T) {
	g := sized(2, 2)
	cfg := DefaultConfig()
	cfg.Name = "highlighted"
	cfg.Min, cfg.Max = 5, 6
	if err := Apply(g, cfg); err != nil {
		t.Fatal(err)
	}
	for _, c := range g.Cells {
		if !c.Highlighted {
			t.Fatal("values above 1 should clamp to true")
		}
	}
	cfg.Min, cfg.Max = -3, -2
	if err := Apply(g, cfg); err != nil {
		t.Fatal(err)
	}
	for _, c := range g.Cells {
		if c.Highlighted {
			t.Fatal("values below 0 should clamp to false")
		}
	}
}

func TestActiveSetsCaptured(t *testing.T) {
	g := sized(1, 2)
	cfg := DefaultConfig()
	cfg.Name = "active"
	cfg.Min, cfg.Max = 1, 1
	if err := Apply(g, cfg); err != nil {
		t.Fatal(err)
	}
	for _, c := range g.Cells {
		if !c.Active || !c.Captured {
			t.Fatalf("active randomize should set active and captured: %+v", c)
		}
	}
}

func TestRelative(t *testing.T) {
	g := sized(1, 3)
	g.Cells[0].Value = 0.5
	g.Cells[1].Wall = true
	g.Cells[2].Value = -1
	cfg := DefaultConfig()
	cfg.Name = "value"
	cfg.Min, cfg.Max = 0.25, 0.25
	cfg.Relative = true
	if err := Apply(g, cfg); err != nil {
		t.Fatal(err)
	}
	want := []float64{0.75, 0.25, -0.75}
	for i, w := range want {
		if g.Cells[i].Wall || g.Cells[i].Value != w {
			t.Fatalf("cell %d = %+v, want %v", i, g.Cells[i], w)
		}
	}
}

func TestRelativeOnUnsetOpacityFails(t *testing.T) {
	g := sized(1, 1)
	cfg := DefaultConfig()
	cfg.Name = "fillOpacity"
	cfg.Relative = true
	if err := Apply(g, cfg); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestApplyErrors(t *testing.T) {
	g := sized(2, 2)
	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"unknown name", Config{Name: "bogus", Max: 1}, core.ErrValidation},
		{"activeOnly", Config{Name: "activeOnly", Max: 1}, core.ErrValidation},
		{"out of bounds", Config{Name: "scale", Max: 1, Cells: core.Ref{5, 5}}, core.ErrReference},
		{"bad arity", Config{Name: "scale", Max: 1, Cells: core.Ref{1}}, core.ErrValidation},
	}
	for _, tc := range cases {
		if err := Apply(g, tc.cfg); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}
