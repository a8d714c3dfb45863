//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"apviz/internal/app"
	"apviz/internal/frame"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	if err := cfg.Parse(flag.CommandLine, os.Args[1:]); err != nil {
		log.Fatal(err)
	}

	frames, err := frame.Load(cfg.Script, cfg.FrameOptions()...)
	if err != nil {
		log.Fatal(err)
	}

	game := app.New(frames, cfg)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("apviz: " + filepath.Base(cfg.Script))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
