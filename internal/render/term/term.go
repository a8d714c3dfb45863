// Package term draws frames on a character terminal. Each cell takes two
// columns so the grid keeps a roughly square aspect.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"apviz/internal/core"
	"apviz/internal/frame"
	"apviz/internal/render"
)

// Glyphs marking cell state on top of the fill.
const (
	glyphCaptured    = '#'
	glyphActive      = '*'
	glyphHighlighted = '+'
)

func rgb(r, g, b uint8) tcell.Color {
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Draw paints snap with its top-left corner at (x, y).
func Draw(screen tcell.Screen, snap *core.Snapshot, x, y int) {
	palette := snap.Colors()
	for _, c := range snap.Cells() {
		fill := render.CellRGBA(c, palette)
		style := tcell.StyleDefault.Background(rgb(fill.R, fill.G, fill.B))
		glyph := ' '
		if stroke, ok := render.StrokeColor(c, palette); ok && stroke.A > 0 {
			style = style.Foreground(rgb(stroke.R, stroke.G, stroke.B))
			switch {
			case c.Captured:
				glyph = glyphCaptured
			case c.Active:
				glyph = glyphActive
			default:
				glyph = glyphHighlighted
			}
		}
		screen.SetContent(x+c.Col*2, y+c.Row, glyph, nil, style)
		screen.SetContent(x+c.Col*2+1, y+c.Row, ' ', nil, style)
	}
}

// Status writes a single line of text at row y.
func Status(screen tcell.Screen, y int, text string) {
	style := tcell.StyleDefault
	for i, r := range text {
		screen.SetContent(i, y, r, nil, style)
	}
}

// Viewer steps through a collection on a terminal screen.
type Viewer struct {
	screen tcell.Screen
	frames *frame.Collection
	index  int
}

// NewViewer starts at index; a negative index selects the last frame.
func NewViewer(screen tcell.Screen, frames *frame.Collection, index int) *Viewer {
	v := &Viewer{screen: screen, frames: frames}
	v.Seek(index)
	return v
}

// Index is the frame currently shown.
func (v *Viewer) Index() int { return v.index }

// Seek moves to index, clamped to the collection.
func (v *Viewer) Seek(index int) {
	n := v.frames.Len()
	if index < 0 || index >= n {
		index = n - 1
	}
	v.index = max(index, 0)
}

// Render redraws the current frame and its status line.
func (v *Viewer) Render() {
	v.screen.Clear()
	f := v.frames.ByIndex(v.index)
	if f == nil {
		Status(v.screen, 0, "no frames")
		v.screen.Show()
		return
	}
	snap, err := f.Data()
	if err != nil {
		Status(v.screen, 0, err.Error())
		v.screen.Show()
		return
	}
	Draw(v.screen, snap, 0, 0)
	status := fmt.Sprintf("frame %d/%d", v.index+1, v.frames.Len())
	if name := f.Name(); name != "" {
		status += " " + name
	}
	if tag, ok := snap.Tag(); ok {
		status += fmt.Sprintf(" [gif %q]", tag)
	}
	Status(v.screen, snap.Rows()+1, status)
	v.screen.Show()
}

// Run handles keys until q or Esc: n or right arrow advances, p or left arrow
// goes back.
func (v *Viewer) Run() {
	v.Render()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			v.screen.Sync()
			v.Render()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
				return
			case ev.Key() == tcell.KeyRight, ev.Rune() == 'n':
				if v.index < v.frames.Len()-1 {
					v.index++
				}
				v.Render()
			case ev.Key() == tcell.KeyLeft, ev.Rune() == 'p':
				if v.index > 0 {
					v.index--
				}
				v.Render()
			}
		}
	}
}
