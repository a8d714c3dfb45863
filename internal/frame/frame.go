package frame

import (
	"fmt"
	"log/slog"

	"apviz/internal/command"
	"apviz/internal/core"
	"apviz/internal/sims/generation"
	"apviz/internal/sims/growth"
	"apviz/internal/sims/opacity"
	"apviz/internal/sims/randomize"
)

// Frame is one entry of a Collection.
type Frame struct {
	c     *Collection
	index int
	item  command.Item

	// Set only after a successful evaluation.
	cmd  *command.Command
	data *core.Snapshot
}

func (f *Frame) Index() int          { return f.index }
func (f *Frame) Name() string        { return f.item.Name }
func (f *Frame) Description() string { return f.item.Description }

// Data returns the evaluated snapshot, computing it on first use. A failed
// evaluation is not cached; the next call evaluates again.
func (f *Frame) Data() (*core.Snapshot, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	return f.evaluate()
}

// Command returns the parsed command of this frame.
func (f *Frame) Command() (*command.Command, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if f.cmd != nil {
		return f.cmd, nil
	}
	cmd, err := command.Parse(f.item.Raw)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", f.index, err)
	}
	return cmd, nil
}

func (f *Frame) evaluate() (*core.Snapshot, error) {
	if f.data != nil {
		return f.data, nil
	}
	cmd, err := command.Parse(f.item.Raw)
	if err != nil {
		return nil, f.fail(err)
	}
	g, err := f.base(cmd)
	if err != nil {
		return nil, err
	}
	if err := f.apply(g, cmd); err != nil {
		return nil, f.fail(err)
	}
	f.cmd = cmd
	f.data = g.Freeze()
	f.c.logger.Debug("frame computed",
		slog.Int("index", f.index),
		slog.String("name", f.item.Name),
		slog.Int("rows", f.data.Rows()),
		slog.Int("cols", f.data.Cols()),
		slog.Int("captured", f.data.Count(func(c core.Cell) bool { return c.Captured })),
	)
	return f.data, nil
}

func (f *Frame) fail(err error) error {
	err = fmt.Errorf("frame %d: %w", f.index, err)
	f.c.logger.Warn("frame failed", slog.Int("index", f.index), slog.Any("err", err))
	return err
}

// base returns a private copy of the grid this frame derives from. Errors
// from other frames are returned unchanged.
func (f *Frame) base(cmd *command.Command) (*core.Grid, error) {
	var from *Frame
	switch {
	case cmd.ResetTo != "":
		from = f.c.byName(cmd.ResetTo)
		if from == nil {
			return nil, f.fail(core.Referencef("resetTo", "no frame named %q", cmd.ResetTo))
		}
		if from.index >= f.index {
			return nil, f.fail(core.Referencef("resetTo", "frame %q (%d) is not before frame %d", cmd.ResetTo, from.index, f.index))
		}
	case f.index > 0:
		from = f.c.byIndex(f.index - 1)
	default:
		return core.NewGrid(), nil
	}
	snap, err := from.evaluate()
	if err != nil {
		return nil, err
	}
	return snap.Thaw(), nil
}

func (f *Frame) apply(g *core.Grid, cmd *command.Command) error {
	if cmd.HasTag {
		g.Tag, g.HasTag = cmd.Tag, true
	}
	if cmd.Size == nil && f.index == 0 {
		return core.Statef("setSize", "the first frame must set a size")
	}
	if cmd.Size != nil {
		g.Resize(cmd.Size.Rows, cmd.Size.Cols)
	}
	if cmd.AdjacentPossibleSteps != nil {
		g.AdjacentPossibleSteps = *cmd.AdjacentPossibleSteps
	}
	if cmd.Scale != nil {
		g.Scale = *cmd.Scale
	}
	if cmd.Colors != nil {
		g.Colors = g.Colors.Apply(*cmd.Colors)
	}

	for _, ref := range cmd.Reset {
		cells, err := core.Resolve(g, ref)
		if err != nil {
			return err
		}
		for _, c := range cells {
			c.ResetProperties()
		}
	}
	for _, rc := range cmd.Randomize {
		if err := randomize.Apply(g, rc); err != nil {
			return err
		}
	}
	if cmd.Generate != nil {
		res := generation.Generate(g, *cmd.Generate)
		f.c.logger.Debug("field generated", slog.Int("index", f.index),
			slog.Int("key_cells", res.KeyCells), slog.Int("unresolved", res.Unresolved))
	}

	for k := range core.NumCellCommands {
		for _, a := range cmd.Cells[k] {
			cells, err := core.Resolve(g, a.Ref)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			for _, c := range cells {
				for _, p := range k.Properties() {
					p.Set(c, a.Value, a.Null)
				}
			}
		}
	}

	for _, n := range cmd.Nudges {
		cells, err := core.Resolve(g, n.Ref)
		if err != nil {
			return fmt.Errorf("nudge: %w", err)
		}
		for _, c := range cells {
			c.OffsetX += n.DX
			c.OffsetY += n.DY
		}
	}
	if cmd.Move {
		for i := range g.Cells {
			g.Cells[i].OffsetX += g.Cells[i].VelocityX
			g.Cells[i].OffsetY += g.Cells[i].VelocityY
		}
	}
	if cmd.Grow != nil {
		opacity.ApplyPeak(g, f.c.peak)
		res := growth.Grow(g, *cmd.Grow)
		f.c.logger.Debug("grown", slog.Int("index", f.index),
			slog.Int("active", res.Active), slog.Int("committed", res.Committed))
	}
	opacity.ApplyPeak(g, f.c.peak)
	return nil
}

// Parameters describes the frame for the HUD and the inspector.
func (f *Frame) Parameters() (core.ParameterSnapshot, error) {
	snap, err := f.Data()
	if err != nil {
		return core.ParameterSnapshot{}, err
	}
	cmd := f.cmd
	tag, tagged := snap.Tag()
	params := []core.Parameter{
		core.IntParam("index", "Index", f.index),
		core.StringParam("name", "Name", f.item.Name),
		core.IntParam("rows", "Rows", snap.Rows()),
		core.IntParam("cols", "Cols", snap.Cols()),
		core.IntParam("adjacent_possible_steps", "Adjacent possible steps", snap.AdjacentPossibleSteps()),
		core.FloatParam("scale", "Scale", snap.Scale()),
		core.IntParam("captured", "Captured cells", snap.Count(func(c core.Cell) bool { return c.Captured })),
		core.IntParam("active", "Active cells", snap.Count(func(c core.Cell) bool { return c.Active })),
	}
	if tagged {
		params = append(params, core.StringParam("gif", "Capture tag", tag))
	}
	out := core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name:    "Frame",
		Params:  params,
		Summary: f.item.Description,
	}}}
	if cmd.Grow != nil {
		out = out.Merge(cmd.Grow.Parameters())
	}
	if cmd.Generate != nil {
		out = out.Merge(cmd.Generate.Parameters())
	}
	for _, rc := range cmd.Randomize {
		out.Groups = append(out.Groups, rc.Parameters())
	}
	return out, nil
}
