package app

import (
	"flag"
	"io"
	"strconv"
	"testing"

	"apviz/internal/command"
	"apviz/internal/frame"
)

func TestConfigParse(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("viewer", flag.ContinueOnError)
	if err := cfg.Parse(fs, []string{"-fps", "5", "-frame", "-1", "-dimmed", "frames.yaml"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Script != "frames.yaml" || cfg.FPS != 5 || cfg.Index != -1 || !cfg.Dimmed {
		t.Fatalf("config = %+v", cfg)
	}
	if len(cfg.FrameOptions()) != 1 {
		t.Fatal("dimmed should add a frame option")
	}
	if o := cfg.RenderOptions(); o.CellSize != 24 || o.Margin != 2 || o.Stroke != 3 {
		t.Fatalf("render options = %+v", o)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := map[string][]string{
		"missing script": {},
		"zero fps":       {"-fps", "0", "a.json"},
		"zero cell":      {"-cell", "0", "a.json"},
		"negative hud":   {"-hud", "-1", "a.json"},
	}
	for name, args := range cases {
		fs := flag.NewFlagSet("viewer", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		if err := NewConfig().Parse(fs, args); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func player(t *testing.T, n int, index int, loop bool) *Player {
	t.Helper()
	items, err := command.Decode([]byte(`[{"setSize": [1, 1], "repeat": ` + strconv.Itoa(n) + `}]`))
	if err != nil {
		t.Fatal(err)
	}
	return NewPlayer(frame.New(items), index, 2, loop)
}

func TestPlayerNavigation(t *testing.T) {
	p := player(t, 3, 0, false)
	if !p.Next() || !p.Next() || p.Next() {
		t.Fatal("next should stop at the last frame")
	}
	if p.Index() != 2 {
		t.Fatalf("index = %d", p.Index())
	}
	p.Prev()
	p.Prev()
	if p.Prev() || p.Index() != 0 {
		t.Fatalf("prev should stop at the first frame, index %d", p.Index())
	}
	p.Seek(7)
	if p.Index() != 2 {
		t.Fatalf("seek past the end = %d", p.Index())
	}
	if player(t, 3, -1, false).Index() != 2 {
		t.Fatal("negative start should select the last frame")
	}
}

func TestPlayerAutoplay(t *testing.T) {
	p := player(t, 2, 0, false)
	p.Toggle()
	p.advance()
	if p.Index() != 1 || !p.Playing() {
		t.Fatalf("after one step: index %d playing %v", p.Index(), p.Playing())
	}
	p.advance()
	if p.Playing() {
		t.Fatal("playback should stop at the last frame")
	}

	l := player(t, 2, 1, true)
	l.Toggle()
	l.advance()
	if l.Index() != 0 || !l.Playing() {
		t.Fatalf("looping: index %d playing %v", l.Index(), l.Playing())
	}
}
