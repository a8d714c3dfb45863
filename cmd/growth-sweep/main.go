package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"apviz/internal/sims/generation"
	"apviz/internal/sims/growth"
	"apviz/internal/sweep"
)

// kvList collects repeatable key=value flags.
type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*l = append(*l, value)
	return nil
}

func (l kvList) Map() map[string]string {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		k, v, _ := strings.Cut(kv, "=")
		out[k] = v
	}
	return out
}

// floatList parses a comma-separated list of numbers.
type floatList []float64

func (l *floatList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (l *floatList) Set(value string) error {
	*l = (*l)[:0]
	for _, part := range strings.Split(value, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return err
		}
		*l = append(*l, v)
	}
	return nil
}

func main() {
	rows := flag.Int("rows", 24, "grid rows")
	cols := flag.Int("cols", 24, "grid columns")
	steps := flag.Int("steps", 40, "growth steps per scenario")
	seeds := flag.Int("seeds", 8, "seeds per parameter combination")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	top := flag.Int("top", 5, "results to print")
	verbose := flag.Bool("v", false, "log every outcome")
	randomness := floatList{0, 0.1, 0.25, 0.5, 1}
	branch := floatList{0, 0.1, 0.25, 0.5}
	var growthSet, fieldSet kvList
	flag.Var(&randomness, "randomness", "comma-separated randomness values")
	flag.Var(&branch, "branch", "comma-separated branch likelihood values")
	flag.Var(&growthSet, "set", "growth override in key=value form (repeatable)")
	flag.Var(&fieldSet, "field", "field generation override in key=value form (repeatable)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	base := sweep.Scenario{
		Rows:   *rows,
		Cols:   *cols,
		Steps:  *steps,
		Growth: growth.FromMap(growthSet.Map()),
		Field:  generation.FromMap(fieldSet.Map()),
	}
	seedNames := make([]string, *seeds)
	for i := range seedNames {
		seedNames[i] = "sweep-" + strconv.Itoa(i)
	}
	scenarios := sweep.Matrix(base, randomness, branch, seedNames)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("sweeping", "scenarios", len(scenarios), "workers", *workers, "steps", *steps)
	start := time.Now()
	all := sweep.Sweep(ctx, scenarios, *workers)
	if ctx.Err() != nil {
		logger.Warn("interrupted", "finished", len(all), "scenarios", len(scenarios))
	}
	for _, res := range all {
		logger.Debug("outcome", "scenario", res.Scenario.String(), "value", res.Value, "captured", res.Captured)
	}

	fmt.Printf("\nTop %d results (elapsed %s):\n", min(*top, len(all)), time.Since(start).Round(time.Millisecond))
	for i := 0; i < len(all) && i < *top; i++ {
		res := all[i]
		fmt.Printf("%2d) value=%.2f captured=%d reach=%.2f steps=%d deadEnds=%d %s\n",
			i+1, res.Value, res.Captured, res.Reach, res.StepsRun, res.DeadEnds, res.Scenario)
	}
}
