//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"apviz/internal/core"
)

// GridPainter keeps an ebiten image in sync with the last drawn snapshot.
type GridPainter struct {
	opts Options
	img  *ebiten.Image
	last *core.Snapshot
	w, h int
}

// NewGridPainter returns a painter using opts for the raster layout.
func NewGridPainter(opts Options) *GridPainter {
	return &GridPainter{opts: opts}
}

// Blit draws snap onto dst, rasterizing again only when snap changes.
func (gp *GridPainter) Blit(dst *ebiten.Image, snap *core.Snapshot) {
	if snap == nil {
		return
	}
	if snap != gp.last {
		rgba := Draw(snap, gp.opts)
		b := rgba.Bounds()
		gp.last = snap
		gp.w, gp.h = b.Dx(), b.Dy()
		if b.Empty() {
			return
		}
		if gp.img == nil || gp.img.Bounds().Dx() != gp.w || gp.img.Bounds().Dy() != gp.h {
			if gp.img != nil {
				gp.img.Dispose()
			}
			gp.img = ebiten.NewImage(gp.w, gp.h)
		}
		gp.img.WritePixels(rgba.Pix)
	}
	if gp.img == nil || gp.w == 0 || gp.h == 0 {
		return
	}
	dst.DrawImage(gp.img, &ebiten.DrawImageOptions{})
}

// Size returns the dimensions of the last drawn frame.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
