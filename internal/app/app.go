//go:build ebiten

package app

import (
	"fmt"

	"apviz/internal/frame"
	"apviz/internal/render"
	"apviz/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a frame collection to the ebiten.Game interface.
type Game struct {
	player  *Player
	painter *render.GridPainter
	hud     *ui.HUD
	opts    render.Options
	hudW    int
}

// New constructs a Game over frames.
func New(frames *frame.Collection, cfg *Config) *Game {
	opts := cfg.RenderOptions()
	g := &Game{
		player:  NewPlayer(frames, cfg.Index, cfg.FPS, cfg.Loop),
		painter: render.NewGridPainter(opts),
		hud:     ui.NewHUD(cfg.HUDWidth),
		opts:    opts,
		hudW:    cfg.HUDWidth,
	}
	if cfg.Autoplay {
		g.player.Toggle()
	}
	return g
}

// Update handles key input and autoplay.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.player.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) || inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.player.Next()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.player.Prev()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.player.Seek(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		g.player.Seek(-1)
	}
	g.player.Tick()

	f := g.player.Frame()
	if f == nil {
		g.hud.Update(nil, fmt.Errorf("no frames"))
		return nil
	}
	params, err := f.Parameters()
	g.hud.Update(&params, err)
	g.hud.SetStatus(g.status())
	return nil
}

func (g *Game) status() string {
	s := fmt.Sprintf("%d/%d", g.player.Index()+1, g.player.Len())
	if g.player.Playing() {
		s += " playing"
	}
	return s
}

// Draw renders the current frame and the parameter panel.
func (g *Game) Draw(screen *ebiten.Image) {
	if f := g.player.Frame(); f != nil {
		if snap, err := f.Data(); err == nil {
			g.painter.Blit(screen, snap)
		}
	}
	w, h := g.painter.Size()
	g.hud.Draw(screen, w, max(h, ui.MinHeight))
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.painter.Size()
	if w == 0 || h == 0 {
		if f := g.player.Frame(); f != nil {
			if snap, err := f.Data(); err == nil {
				b := g.opts.Bounds(snap)
				w, h = b.Dx(), b.Dy()
			}
		}
	}
	if w == 0 || h == 0 {
		w, h = g.opts.CellSize*4, g.opts.CellSize*4
	}
	return w + g.hudW, max(h, ui.MinHeight)
}
