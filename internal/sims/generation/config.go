package generation

import (
	"maps"
	"slices"
	"strconv"

	"apviz/internal/core"
	prng "apviz/pkg/core"
)

// Special proportion keys. Any other key must parse as a number and matches
// the bin with exactly that value.
const (
	KeyMax      = "max"
	KeyMin      = "min"
	KeyZero     = "zero"
	KeyPositive = "positive"
	KeyNegative = "negative"
	KeyWall     = "null"
)

// Proportions maps special or numeric keys to relative weights.
type Proportions map[string]float64

// DefaultProportions returns a fresh copy of the standard weights.
func DefaultProportions() Proportions {
	return Proportions{
		KeyMax:      100,
		KeyMin:      15,
		KeyPositive: 100,
		KeyNegative: 5,
		KeyWall:     15,
		KeyZero:     25,
	}
}

// Config controls field generation.
type Config struct {
	Seed prng.Seed `json:"seed"`
	// KeyCellProportion in [0,1] is the chance each cell is seeded directly.
	KeyCellProportion float64     `json:"keyCellProportion"`
	Proportions       Proportions `json:"proportions"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Seed:              prng.StringSeed("seed"),
		KeyCellProportion: 0.6,
		Proportions:       DefaultProportions(),
	}
}

// FromMap populates the config from a string map. Keys prefixed with
// "proportion." set individual weights, e.g. proportion.max=50.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["seed"]; ok {
		if v == "true" {
			c.Seed = prng.Unseeded()
		} else {
			c.Seed = prng.StringSeed(v)
		}
	}
	if v, ok := cfg["key_cell_proportion"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.KeyCellProportion = parsed
		}
	}
	for k, v := range cfg {
		const prefix = "proportion."
		if len(k) <= len(prefix) || k[:len(prefix)] != prefix {
			continue
		}
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Proportions[k[len(prefix):]] = parsed
		}
	}
	return c
}

// Parameters exposes the config for the HUD and the inspector.
func (c Config) Parameters() core.ParameterSnapshot {
	params := []core.Parameter{
		core.StringParam("seed", "Seed", c.Seed.String()),
		core.FloatParam("key_cell_proportion", "Key cell proportion", c.KeyCellProportion),
	}
	for _, k := range slices.Sorted(maps.Keys(c.Proportions)) {
		params = append(params, core.FloatParam("proportion."+k, "Proportion "+k, c.Proportions[k]))
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{Name: "Generation", Params: params}}}
}
