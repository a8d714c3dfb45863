// Package sweep runs growth over generated fields for many parameter
// combinations in parallel and ranks the outcomes.
package sweep

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"apviz/internal/core"
	"apviz/internal/sims/generation"
	"apviz/internal/sims/growth"
	"apviz/internal/sims/opacity"
	prng "apviz/pkg/core"
)

// Scenario is one growth run: a field generated with Field, then Steps growth
// steps from a single active cell at the centre.
type Scenario struct {
	Rows, Cols int
	Steps      int
	Seed       string
	Growth     growth.Config
	Field      generation.Config
}

func (s Scenario) String() string {
	return fmt.Sprintf("seed=%s randomness=%.2f branch=%.2f proportion=%.2f ply=%d dropoff=%.2f",
		s.Seed, s.Growth.Randomness, s.Growth.BranchLikelihood, s.Growth.Proportion, s.Growth.ValuePly, s.Growth.ValueDropoff)
}

// Outcome measures a finished scenario.
type Outcome struct {
	Scenario Scenario
	// StepsRun stops short of Steps when the frontier dies out.
	StepsRun int
	Captured int
	DeadEnds int
	// Value is the sum of captured numeric values.
	Value float64
	// Reach is the furthest captured cell from the start, in cells.
	Reach float64
}

// Matrix crosses base with every randomness, branch likelihood and seed.
func Matrix(base Scenario, randomness, branch []float64, seeds []string) []Scenario {
	var out []Scenario
	for _, r := range randomness {
		for _, b := range branch {
			for _, seed := range seeds {
				s := base
				s.Seed = seed
				s.Growth.Randomness = r
				s.Growth.BranchLikelihood = b
				out = append(out, s)
			}
		}
	}
	return out
}

// Run executes one scenario.
func Run(s Scenario) Outcome {
	g := core.NewGrid()
	g.Resize(s.Rows, s.Cols)
	out := Outcome{Scenario: s}
	if len(g.Cells) == 0 {
		return out
	}
	field := s.Field
	field.Seed = prng.StringSeed(s.Seed + "/field")
	generation.Generate(g, field)
	// Unreached cells would otherwise dominate the value map.
	for i := range g.Cells {
		if g.Cells[i].Unresolved() {
			g.Cells[i].Value = 0
		}
	}

	start := g.At(s.Rows/2, s.Cols/2)
	start.Wall = false
	start.Value = 0
	start.Active = true
	start.Captured = true

	cfg := s.Growth
	for step := range s.Steps {
		opacity.Apply(g)
		cfg.Seed = prng.StringSeed(fmt.Sprintf("%s/grow/%d", s.Seed, step))
		res := growth.Grow(g, cfg)
		out.DeadEnds += res.DeadEnds
		out.StepsRun = step + 1
		if res.Committed == 0 {
			break
		}
	}

	for i := range g.Cells {
		c := &g.Cells[i]
		if !c.Captured {
			continue
		}
		out.Captured++
		if c.Numeric() {
			out.Value += c.Value
		}
		out.Reach = math.Max(out.Reach, math.Hypot(float64(c.Row-start.Row), float64(c.Col-start.Col)))
	}
	return out
}

// Sweep runs every scenario on workers goroutines and returns the outcomes
// ranked by captured value, then by captured count. Cancelling ctx stops
// handing out new scenarios.
func Sweep(ctx context.Context, scenarios []Scenario, workers int) []Outcome {
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan Scenario)
	results := make(chan Outcome)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				results <- Run(s)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, s := range scenarios {
			select {
			case jobs <- s:
			case <-ctx.Done():
				return
			}
		}
	}()

	var all []Outcome
	for res := range results {
		all = append(all, res)
	}
	Rank(all)
	return all
}

// Rank sorts outcomes best first. Ties fall back to the scenario text so the
// order does not depend on scheduling.
func Rank(all []Outcome) {
	slices.SortFunc(all, func(a, b Outcome) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Captured, a.Captured); c != 0 {
			return c
		}
		return cmp.Compare(a.Scenario.String(), b.Scenario.String())
	})
}
