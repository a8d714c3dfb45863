package growth

import (
	"strconv"

	"apviz/internal/core"
	prng "apviz/pkg/core"
)

// Config controls one growth step.
type Config struct {
	Seed prng.Seed `json:"seed"`

	// Randomness in [0,1] flattens the preference for high-value neighbours.
	Randomness float64 `json:"randomness"`
	// Proportion in [0,1] of active cells that may grow this step.
	Proportion float64 `json:"proportion"`
	// NumCellsToGrow caps commits per step; 0 means no cap.
	NumCellsToGrow int `json:"numCellsToGrow"`

	// ValuePly is how many rings outward the value map looks.
	ValuePly int `json:"valuePly"`
	// ValueDropoff in [0,1] is how much outer value is lost per ring inward.
	ValueDropoff float64 `json:"valueDropoff"`
	// BranchLikelihood in [0,1] is the chance a source stays active after growing.
	BranchLikelihood float64 `json:"branchLikelihood"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Seed:             prng.StringSeed("seed"),
		Randomness:       0.1,
		Proportion:       1.0,
		NumCellsToGrow:   0,
		ValuePly:         8,
		ValueDropoff:     0.75,
		BranchLikelihood: 0.0,
	}
}

// Normalize clamps every field into its legal range.
func (c Config) Normalize() Config {
	c.Randomness = clamp01(c.Randomness)
	c.Proportion = clamp01(c.Proportion)
	c.ValueDropoff = clamp01(c.ValueDropoff)
	c.BranchLikelihood = clamp01(c.BranchLikelihood)
	if c.NumCellsToGrow < 0 {
		c.NumCellsToGrow = 0
	}
	if c.ValuePly < 0 {
		c.ValuePly = 0
	}
	return c
}

// FromMap populates the config from a string map (flag-style key/value pairs).
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
	if v, ok := cfg["randomness"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Randomness = parsed
		}
	}
	if v, ok := cfg["proportion"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Proportion = parsed
		}
	}
	if v, ok := cfg["num_cells_to_grow"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.NumCellsToGrow = parsed
		}
	}
	if v, ok := cfg["value_ply"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.ValuePly = parsed
		}
	}
	if v, ok := cfg["value_dropoff"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.ValueDropoff = parsed
		}
	}
	if v, ok := cfg["branch_likelihood"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.BranchLikelihood = parsed
		}
	}
	return c.Normalize()
}

// Parameters exposes the config for the HUD and the inspector.
func (c Config) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Growth",
		Params: []core.Parameter{
			core.StringParam("seed", "Seed", c.Seed.String()),
			core.FloatParam("randomness", "Randomness", c.Randomness),
			core.FloatParam("proportion", "Proportion", c.Proportion),
			core.IntParam("num_cells_to_grow", "Cells to grow", c.NumCellsToGrow),
			core.IntParam("value_ply", "Value ply", c.ValuePly),
			core.FloatParam("value_dropoff", "Value dropoff", c.ValueDropoff),
			core.FloatParam("branch_likelihood", "Branch likelihood", c.BranchLikelihood),
		},
	}}}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
