// Package frame evaluates an authored command list into a sequence of
// read-only grid snapshots. Each frame derives from the frame before it, or
// from an earlier named checkpoint, and is computed on first read.
package frame

import (
	"log/slog"
	"sync"

	"apviz/internal/command"
	"apviz/internal/sims/opacity"
)

// Option configures a Collection.
type Option func(*Collection)

// WithLogger sets the logger used for evaluation events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collection) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithProximityPeak sets the auto opacity given to cells right next to a
// captured cell. See opacity.DefaultPeak and opacity.DimmedPeak.
func WithProximityPeak(peak float64) Option {
	return func(c *Collection) { c.peak = peak }
}

// Collection is an index-addressed set of lazily evaluated frames. It is
// safe for concurrent readers; evaluation itself is serialised.
type Collection struct {
	items  []command.Item
	frames []*Frame

	logger *slog.Logger
	peak   float64

	mu sync.Mutex
}

// New expands items (dropping disabled ones and repeating the rest) and
// returns a collection over the result.
func New(items []command.Item, opts ...Option) *Collection {
	c := &Collection{
		logger: slog.New(slog.DiscardHandler),
		peak:   opacity.DefaultPeak,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.items = command.Expand(items)
	c.frames = make([]*Frame, len(c.items))
	return c
}

// Load reads a JSON or YAML command file.
func Load(path string, opts ...Option) (*Collection, error) {
	items, err := command.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(items, opts...), nil
}

// Len is the number of frames after expansion.
func (c *Collection) Len() int { return len(c.items) }

// ByIndex returns the frame at index, or nil when out of range.
func (c *Collection) ByIndex(index int) *Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byIndex(index)
}

// ByName returns the first frame carrying name, or nil.
func (c *Collection) ByName(name string) *Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byName(name)
}

func (c *Collection) byIndex(index int) *Frame {
	if index < 0 || index >= len(c.items) {
		return nil
	}
	if c.frames[index] == nil {
		c.frames[index] = &Frame{c: c, index: index, item: c.items[index]}
	}
	return c.frames[index]
}

func (c *Collection) byName(name string) *Frame {
	for i, item := range c.items {
		if item.Name == name {
			return c.byIndex(i)
		}
	}
	return nil
}
