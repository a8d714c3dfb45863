package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"apviz/internal/export"
	"apviz/internal/frame"
	"apviz/internal/render"
	"apviz/internal/render/term"
	"apviz/internal/server"
	"apviz/internal/sims/opacity"
)

const usage = `usage: framectl <command> [flags] <file>

commands:
  inspect   print frames as JSON
  params    print the parameters of a frame
  png       render a frame to PNG
  export    store tagged frames in a SQLite database
  serve     serve frames over HTTP
  term      step through frames in the terminal
`

type common struct {
	verbose bool
	dimmed  bool
	quiet   bool
	logger  *slog.Logger
}

func (c *common) bind(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
	fs.BoolVar(&c.dimmed, "dimmed", false, "use the dimmed proximity peak for adjacent cells")
}

func (c *common) load(fs *flag.FlagSet) (*frame.Collection, error) {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if c.quiet {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if fs.NArg() != 1 {
		return nil, errors.New("expected exactly one command file")
	}
	opts := []frame.Option{frame.WithLogger(c.logger)}
	if c.dimmed {
		opts = append(opts, frame.WithProximityPeak(opacity.DimmedPeak))
	}
	return frame.Load(fs.Arg(0), opts...)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	commands := map[string]func([]string) error{
		"inspect": inspect,
		"params":  params,
		"png":     renderPNG,
		"export":  exportFrames,
		"serve":   serve,
		"term":    runTerm,
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err := run(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "framectl %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

// pick returns the frame at index, or the last frame for a negative index.
func pick(c *frame.Collection, index int) (*frame.Frame, error) {
	if index < 0 {
		index = c.Len() - 1
	}
	f := c.ByIndex(index)
	if f == nil {
		return nil, fmt.Errorf("frame %d out of range [0, %d)", index, c.Len())
	}
	return f, nil
}

func inspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	var c common
	c.bind(fs)
	index := fs.Int("frame", -1, "frame to print (-1 for the last)")
	all := fs.Bool("all", false, "print every frame")
	fs.Parse(args)
	frames, err := c.load(fs)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if *all {
		for i := range frames.Len() {
			snap, err := frames.ByIndex(i).Data()
			if err != nil {
				return err
			}
			if err := enc.Encode(snap); err != nil {
				return err
			}
		}
		return nil
	}
	f, err := pick(frames, *index)
	if err != nil {
		return err
	}
	snap, err := f.Data()
	if err != nil {
		return err
	}
	return enc.Encode(snap)
}

func params(args []string) error {
	fs := flag.NewFlagSet("params", flag.ExitOnError)
	var c common
	c.bind(fs)
	index := fs.Int("frame", -1, "frame to describe (-1 for the last)")
	fs.Parse(args)
	frames, err := c.load(fs)
	if err != nil {
		return err
	}
	f, err := pick(frames, *index)
	if err != nil {
		return err
	}
	p, err := f.Parameters()
	if err != nil {
		return err
	}
	fmt.Print(p.String())
	return nil
}

func renderPNG(args []string) error {
	fs := flag.NewFlagSet("png", flag.ExitOnError)
	var c common
	c.bind(fs)
	index := fs.Int("frame", -1, "frame to render (-1 for the last)")
	out := fs.String("o", "frame.png", "output file")
	cell := fs.Int("cell", render.DefaultOptions().CellSize, "cell diameter in pixels")
	caption := fs.Bool("caption", false, "print the frame index and name below the grid")
	fs.Parse(args)
	frames, err := c.load(fs)
	if err != nil {
		return err
	}
	f, err := pick(frames, *index)
	if err != nil {
		return err
	}
	snap, err := f.Data()
	if err != nil {
		return err
	}
	opts := render.DefaultOptions()
	opts.CellSize = *cell
	if *caption {
		opts.Caption = fmt.Sprintf("%d %s", f.Index(), f.Name())
	}
	w, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := render.EncodePNG(w, snap, opts); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	c.logger.Info("wrote png", "path", *out, "frame", f.Index())
	return nil
}

func exportFrames(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	var c common
	c.bind(fs)
	db := fs.String("db", "frames.db", "SQLite database path")
	all := fs.Bool("all", false, "store every frame, not only tagged ones")
	fs.Parse(args)
	frames, err := c.load(fs)
	if err != nil {
		return err
	}
	store, err := export.Open(*db, c.logger)
	if err != nil {
		return err
	}
	defer store.Close()
	run, err := store.Export(context.Background(), filepath.Base(fs.Arg(0)), frames, export.Options{All: *all, Render: render.DefaultOptions()})
	if err != nil {
		return err
	}
	fmt.Println(run.ID)
	return nil
}

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var c common
	c.bind(fs)
	addr := fs.String("addr", ":8080", "listen address")
	db := fs.String("db", "", "optional SQLite database of stored exports")
	fs.Parse(args)
	frames, err := c.load(fs)
	if err != nil {
		return err
	}
	var store *export.Store
	if *db != "" {
		if store, err = export.Open(*db, c.logger); err != nil {
			return err
		}
		defer store.Close()
	}

	svc := server.New(frames, store, render.DefaultOptions(), c.logger)
	srv := &http.Server{Addr: *addr, Handler: svc.Router(), ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errc := make(chan error, 1)
	go func() {
		c.logger.Info("listening", "addr", *addr, "frames", frames.Len())
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.logger.Info("shutting down")
	return srv.Shutdown(shutdown)
}

func runTerm(args []string) error {
	fs := flag.NewFlagSet("term", flag.ExitOnError)
	var c common
	c.bind(fs)
	index := fs.Int("frame", 0, "frame to show first (-1 for the last)")
	fs.Parse(args)
	// Log lines would scribble over the screen.
	c.quiet = true
	frames, err := c.load(fs)
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	term.NewViewer(screen, frames, *index).Run()
	return nil
}
