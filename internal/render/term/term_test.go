package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"apviz/internal/command"
	"apviz/internal/frame"
	"apviz/internal/render"
)

func frames(t *testing.T, src string) *frame.Collection {
	t.Helper()
	items, err := command.Decode([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return frame.New(items)
}

func screen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	s.SetSize(40, 12)
	t.Cleanup(s.Fini)
	return s
}

func TestDrawCells(t *testing.T) {
	c := frames(t, `[{"setSize": [1, 3], "captured": [[true, [0, 0]]], "highlighted": [[true, [0, 2]]], "value": [[1, [0, 1]]], "opacity": [[1, [0, 1]]]}]`)
	snap, err := c.ByIndex(0).Data()
	if err != nil {
		t.Fatal(err)
	}
	s := screen(t)
	Draw(s, snap, 0, 0)

	if r, _, _, _ := s.GetContent(0, 0); r != glyphCaptured {
		t.Fatalf("captured glyph = %q", r)
	}
	if r, _, _, _ := s.GetContent(4, 0); r != glyphHighlighted {
		t.Fatalf("highlighted glyph = %q", r)
	}
	_, _, style, _ := s.GetContent(2, 0)
	_, bg, _ := style.Decompose()
	cell, _ := snap.Cell(0, 1)
	want := render.CellRGBA(cell, snap.Colors())
	if bg != tcell.NewRGBColor(int32(want.R), int32(want.G), int32(want.B)) {
		t.Fatalf("background = %v, want %v", bg, want)
	}
}

func TestViewerNavigation(t *testing.T) {
	c := frames(t, `[{"setSize": [2, 2]}, {"name": "b"}, {"name": "c"}]`)
	s := screen(t)

	v := NewViewer(s, c, -1)
	if v.Index() != 2 {
		t.Fatalf("negative index should select the last frame, got %d", v.Index())
	}
	v.Seek(0)
	s.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	s.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	v.Run()
	if v.Index() != 1 {
		t.Fatalf("index after navigation = %d, want 1", v.Index())
	}
}

func TestViewerShowsErrors(t *testing.T) {
	c := frames(t, `[{"value": [[1, []]]}]`)
	s := screen(t)
	v := NewViewer(s, c, 0)
	v.Render()
	if r, _, _, _ := s.GetContent(0, 0); r != 'f' {
		t.Fatalf("expected the error text on screen, got %q", r)
	}
}
