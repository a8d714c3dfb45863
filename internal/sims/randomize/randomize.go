// Package randomize perturbs cell properties with seeded uniform draws.
package randomize

import (
	"encoding/json"
	"math"

	"apviz/internal/core"
	prng "apviz/pkg/core"
)

// Config is one randomize item.
type Config struct {
	// Name is the cell command whose properties are randomized, e.g. "opacity".
	Name     string    `json:"name"`
	Seed     prng.Seed `json:"seed"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Relative bool      `json:"relative"`
	Cells    core.Ref  `json:"cells"`
}

// DefaultConfig returns the defaults applied to missing fields.
func DefaultConfig() Config {
	return Config{Seed: prng.StringSeed("seed"), Min: 0, Max: 1, Cells: core.Ref{}}
}

// UnmarshalJSON fills only the fields present in data; absent ones keep the
// defaults, so an explicit max of 0 is honoured.
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	p := plain(DefaultConfig())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Config(p)
	return nil
}

// Parameters exposes the config for the HUD and the inspector.
func (c Config) Parameters() core.ParameterGroup {
	return core.ParameterGroup{Name: "Randomize " + c.Name, Params: []core.Parameter{
		core.StringParam("seed", "Seed", c.Seed.String()),
		core.FloatParam("min", "Min", c.Min),
		core.FloatParam("max", "Max", c.Max),
		core.BoolParam("relative", "Relative", c.Relative),
	}}
}

// Apply randomizes the configured properties on every referenced cell.
func Apply(g *core.Grid, cfg Config) error {
	const op = "randomize"
	kind, ok := core.CellCommandByName(cfg.Name)
	if !ok || !kind.Randomizable() {
		return core.Validationf(op, "%q is not a randomizable property", cfg.Name)
	}
	cells, err := core.Resolve(g, cfg.Cells)
	if err != nil {
		return err
	}

	var groups [][]core.Property
	if kind.RandomMode() == core.RandomIndependent {
		for _, p := range kind.Properties() {
			groups = append(groups, []core.Property{p})
		}
	} else {
		groups = append(groups, kind.Properties())
	}

	rng := prng.NewRNG(cfg.Seed)
	for _, cell := range cells {
		for _, group := range groups {
			val := (cfg.Max-cfg.Min)*rng.Float64() + cfg.Min
			for _, p := range group {
				if err := assign(cell, p, val, cfg.Relative); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func assign(cell *core.Cell, p core.Property, val float64, relative bool) error {
	if relative {
		orig, null := p.Get(cell)
		if null && p != core.PropValue {
			return core.Validationf("randomize", "relative draw on unset property of cell %d,%d", cell.Row, cell.Col)
		}
		if !null {
			val += orig
		}
	}
	if p.Bool() {
		val = math.Round(min(max(val, 0), 1))
	}
	p.Set(cell, val, false)
	return nil
}
