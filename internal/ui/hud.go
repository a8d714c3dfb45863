//go:build ebiten

package ui

import (
	"image/color"

	"apviz/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the parameter panel to the right of the frame view.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int

	params *core.ParameterSnapshot
	err    error
	status string
}

// NewHUD constructs a HUD of the given panel width.
func NewHUD(width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{width: width}
}

// Update replaces the parameters shown. A non-nil err is shown instead.
func (h *HUD) Update(params *core.ParameterSnapshot, err error) {
	if h == nil {
		return
	}
	h.params, h.err = params, err
}

// SetStatus sets the first panel line.
func (h *HUD) SetStatus(s string) {
	if h != nil {
		h.status = s
	}
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		if h.panel != nil {
			h.panel.Dispose()
		}
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	cols := (h.width - 2*panelPadding) / glyphWidth
	y := panelPadding + headerBaseline
	for i, line := range Lines(h.params, h.err, h.status, cols) {
		if y > height-panelPadding {
			break
		}
		c := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if i == 0 {
			c = color.RGBA{R: 200, G: 200, B: 210, A: 255}
		}
		if h.err != nil && i > 0 {
			c = color.RGBA{R: 235, G: 120, B: 110, A: 255}
		}
		text.Draw(h.panel, line, face, panelPadding, y, c)
		y += lineHeight
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

const (
	panelPadding   = 12
	lineHeight     = 16
	headerBaseline = 6
)
