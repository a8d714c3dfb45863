package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"apviz/internal/color"
	"apviz/internal/core"
)

// Options controls the raster layout of a frame.
type Options struct {
	// CellSize is the diameter of a cell in pixels before the frame scale.
	CellSize int
	// Margin is the gap on each side of a cell.
	Margin int
	// Stroke is the outline width.
	Stroke int
	// Caption, when set, is printed on a strip below the grid.
	Caption string
}

const captionHeight = 18

// DefaultOptions returns the layout used by the command line tools.
func DefaultOptions() Options {
	return Options{CellSize: 24, Margin: 2, Stroke: 3}
}

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

// Bounds returns the image size for a frame.
func (o Options) Bounds(snap *core.Snapshot) image.Rectangle {
	pitch := o.pitch(snap)
	h := snap.Rows() * pitch
	if o.Caption != "" {
		h += captionHeight
	}
	return image.Rect(0, 0, snap.Cols()*pitch, h)
}

func (o Options) cell(snap *core.Snapshot) float64 {
	return math.Max(1, math.Round(float64(o.CellSize)*snap.Scale()))
}

func (o Options) pitch(snap *core.Snapshot) int {
	return int(o.cell(snap)) + 2*o.Margin
}

// Draw rasterizes the frame: one circle per cell on the background color,
// shifted by its offsets and sized by its scale.
func Draw(snap *core.Snapshot, o Options) *image.RGBA {
	palette := snap.Colors()
	bounds := o.Bounds(snap)
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, image.NewUniform(Background(palette)), image.Point{}, draw.Src)
	if bounds.Empty() {
		return img
	}
	if o.Caption != "" {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(palette[color.Zero].NRGBA()),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(o.Margin+2, bounds.Dy()-5),
		}
		d.DrawString(o.Caption)
	}

	size := o.cell(snap)
	pitch := float64(o.pitch(snap))
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	for _, c := range snap.Cells() {
		cx := float64(c.Col)*pitch + pitch/2 + c.OffsetX*snap.Scale()
		cy := float64(c.Row)*pitch + pitch/2 + c.OffsetY*snap.Scale()
		r := size / 2 * c.Scale
		if r <= 0 {
			continue
		}
		fill := FillColor(c, palette)
		if fill.A > 0 {
			z.Reset(bounds.Dx(), bounds.Dy())
			circle(z, cx, cy, r, false)
			z.Draw(img, bounds, image.NewUniform(fill), image.Point{})
		}
		stroke, ok := StrokeColor(c, palette)
		if !ok || stroke.A == 0 || o.Stroke <= 0 {
			continue
		}
		z.Reset(bounds.Dx(), bounds.Dy())
		circle(z, cx, cy, r, false)
		if inner := r - float64(o.Stroke); inner > 0 {
			circle(z, cx, cy, inner, true)
		}
		z.Draw(img, bounds, image.NewUniform(stroke), image.Point{})
	}
	return img
}

// circle adds a closed circular path. Reversed paths cut holes.
func circle(z *vector.Rasterizer, cx, cy, r float64, reverse bool) {
	k := r * kappa
	p := func(x, y float64) (float32, float32) { return float32(cx + x), float32(cy + y) }
	z.MoveTo(p(r, 0))
	if !reverse {
		cube(z, p, r, k, k, r, 0, r)
		cube(z, p, -k, r, -r, k, -r, 0)
		cube(z, p, -r, -k, -k, -r, 0, -r)
		cube(z, p, k, -r, r, -k, r, 0)
	} else {
		cube(z, p, r, -k, k, -r, 0, -r)
		cube(z, p, -k, -r, -r, -k, -r, 0)
		cube(z, p, -r, k, -k, r, 0, r)
		cube(z, p, k, r, r, k, r, 0)
	}
	z.ClosePath()
}

func cube(z *vector.Rasterizer, p func(x, y float64) (float32, float32), x1, y1, x2, y2, x3, y3 float64) {
	ax, ay := p(x1, y1)
	bx, by := p(x2, y2)
	cx, cy := p(x3, y3)
	z.CubeTo(ax, ay, bx, by, cx, cy)
}

// EncodePNG draws the frame and writes it as PNG.
func EncodePNG(w io.Writer, snap *core.Snapshot, o Options) error {
	if err := png.Encode(w, Draw(snap, o)); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}
