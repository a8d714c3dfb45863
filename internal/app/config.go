package app

import (
	"errors"
	"flag"
	"fmt"

	"apviz/internal/frame"
	"apviz/internal/render"
	"apviz/internal/sims/opacity"
)

// Config represents the command-line parameters for the viewers.
type Config struct {
	Script   string
	Index    int
	FPS      int
	Autoplay bool
	Loop     bool
	Dimmed   bool
	CellSize int
	HUDWidth int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Index: 0, FPS: 2, CellSize: 24, HUDWidth: 280}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Index, "frame", c.Index, "frame to show first (-1 for the last)")
	fs.IntVar(&c.FPS, "fps", c.FPS, "autoplay rate in frames per second")
	fs.BoolVar(&c.Autoplay, "play", c.Autoplay, "start playing immediately")
	fs.BoolVar(&c.Loop, "loop", c.Loop, "wrap to the first frame after the last")
	fs.BoolVar(&c.Dimmed, "dimmed", c.Dimmed, "use the dimmed proximity peak for adjacent cells")
	fs.IntVar(&c.CellSize, "cell", c.CellSize, "cell diameter in pixels")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels (0 hides it)")
}

// Parse binds c to fs, parses args and takes the script path from the first
// positional argument.
func (c *Config) Parse(fs *flag.FlagSet, args []string) error {
	c.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.Script = fs.Arg(0)
	return c.Validate()
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Script == "":
		return errors.New("missing command file")
	case c.FPS <= 0:
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	case c.CellSize <= 0:
		return fmt.Errorf("cell size must be positive, got %d", c.CellSize)
	case c.HUDWidth < 0:
		return fmt.Errorf("hud width must not be negative, got %d", c.HUDWidth)
	}
	return nil
}

// FrameOptions returns the collection options implied by c.
func (c *Config) FrameOptions() []frame.Option {
	if c.Dimmed {
		return []frame.Option{frame.WithProximityPeak(opacity.DimmedPeak)}
	}
	return nil
}

// RenderOptions returns the raster layout implied by c.
func (c *Config) RenderOptions() render.Options {
	o := render.DefaultOptions()
	o.CellSize = c.CellSize
	o.Margin = max(1, c.CellSize/12)
	o.Stroke = max(1, c.CellSize/8)
	return o
}
