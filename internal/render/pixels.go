package render

import (
	stdcolor "image/color"
	"math"

	"apviz/internal/color"
	"apviz/internal/core"
)

// FillColor returns the straight-alpha fill of a cell: the empty color for
// walls, otherwise the zero color blended towards the positive or negative
// color by the magnitude of the value. Alpha is the effective fill opacity.
func FillColor(c core.Cell, p color.Palette) stdcolor.NRGBA {
	rgb := p[color.Empty].RGB
	if !c.Wall {
		v := min(max(c.Value, -1), 1)
		target := p[color.Positive].RGB
		if v < 0 {
			target = p[color.Negative].RGB
		}
		base := p[color.Zero].RGB
		for i := range rgb {
			rgb[i] = int(math.Round(float64(base[i]) + math.Abs(v)*float64(target[i]-base[i])))
		}
	}
	return nrgba(rgb, c.Opacity())
}

// StrokeColor returns the outline of a cell and whether it has one. Captured
// and active cells take the captured color over the highlighted one.
func StrokeColor(c core.Cell, p color.Palette) (stdcolor.NRGBA, bool) {
	alpha := c.StrokeOpacity.Or(c.AutoOpacity)
	switch {
	case c.Captured || c.Active:
		return nrgba(p[color.Captured].RGB, alpha*p[color.Captured].A), true
	case c.Highlighted:
		return nrgba(p[color.Highlighted].RGB, alpha*p[color.Highlighted].A), true
	}
	return stdcolor.NRGBA{}, false
}

// CellRGBA flattens the fill of a cell over the background color. Character
// cell renderers use it where circles cannot be drawn.
func CellRGBA(c core.Cell, p color.Palette) stdcolor.RGBA {
	fill := FillColor(c, p)
	bg := Background(p)
	a := float64(fill.A) / 255
	mix := func(f, b uint8) uint8 {
		return uint8(math.Round(float64(f)*a + float64(b)*(1-a)))
	}
	return stdcolor.RGBA{R: mix(fill.R, bg.R), G: mix(fill.G, bg.G), B: mix(fill.B, bg.B), A: 255}
}

// Background returns the opaque background color of the palette.
func Background(p color.Palette) stdcolor.RGBA {
	rgb := p[color.Background].RGB
	return stdcolor.RGBA{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2]), A: 255}
}

func nrgba(rgb [3]int, alpha float64) stdcolor.NRGBA {
	alpha = min(max(alpha, 0), 1)
	return stdcolor.NRGBA{
		R: uint8(rgb[0]),
		G: uint8(rgb[1]),
		B: uint8(rgb[2]),
		A: uint8(math.Round(alpha * 255)),
	}
}
