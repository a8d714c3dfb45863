package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"apviz/internal/color"
	"apviz/internal/core"
	"apviz/internal/sims/generation"
	"apviz/internal/sims/growth"
	"apviz/internal/sims/randomize"
)

// Assignment is one [value, reference] pair of a cell command. Bool payloads
// are stored as 0 or 1.
type Assignment struct {
	Value float64
	Null  bool
	Ref   core.Ref
}

// Nudge shifts the offsets of the referenced cells.
type Nudge struct {
	DX, DY float64
	Ref    core.Ref
}

// Command is a validated command object.
type Command struct {
	Name        string
	Description string

	// ResetTo names an earlier frame to rebase onto; empty means the
	// previous frame.
	ResetTo string

	Tag    string
	HasTag bool

	Size                  *core.Size
	AdjacentPossibleSteps *int
	Scale                 *float64
	Colors                *color.Overrides

	Reset     []core.Ref
	Randomize []randomize.Config
	Generate  *generation.Config

	// Cells is indexed by core.CellCommand; entries are applied in index
	// order.
	Cells [core.NumCellCommands][]Assignment

	Nudges []Nudge
	Move   bool
	Grow   *growth.Config
}

// Parse validates a raw command object.
func Parse(raw json.RawMessage) (*Command, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, core.Validationf("command", "expected an object: %v", err)
	}
	cmd := &Command{}
	steps := []struct {
		key   string
		parse func(json.RawMessage) error
	}{
		{"name", func(r json.RawMessage) error { return optionalString(r, &cmd.Name) }},
		{"description", func(r json.RawMessage) error { return optionalString(r, &cmd.Description) }},
		{"resetTo", cmd.parseResetTo},
		{"gif", cmd.parseTag},
		{"setSize", cmd.parseSize},
		{"setAdjacentPossibleSteps", cmd.parseSteps},
		{"setScale", cmd.parseScale},
		{"setColors", cmd.parseColors},
		{"reset", cmd.parseReset},
		{"randomize", cmd.parseRandomize},
		{"generate", cmd.parseGenerate},
		{"nudge", cmd.parseNudge},
		{"move", cmd.parseMove},
		{"grow", cmd.parseGrow},
	}
	for _, s := range steps {
		r, ok := fields[s.key]
		if !ok {
			continue
		}
		if err := s.parse(r); err != nil {
			return nil, wrap(s.key, err)
		}
	}
	for k := range core.NumCellCommands {
		r, ok := fields[k.Name()]
		if !ok || !present(r) {
			continue
		}
		list, err := parseAssignments(k, r)
		if err != nil {
			return nil, wrap(k.Name(), err)
		}
		cmd.Cells[k] = list
	}
	return cmd, nil
}

func wrap(key string, err error) error {
	var ce *core.Error
	if errors.As(err, &ce) {
		return err
	}
	return core.Validationf(key, "%v", err)
}

func (c *Command) parseResetTo(r json.RawMessage) error {
	if !truthy(r) {
		return nil
	}
	if err := json.Unmarshal(r, &c.ResetTo); err != nil {
		return fmt.Errorf("expected a frame name")
	}
	return nil
}

func (c *Command) parseTag(r json.RawMessage) error {
	var v any
	if err := json.Unmarshal(r, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
	case bool:
		if t {
			c.Tag, c.HasTag = "", true
		}
	case string:
		c.Tag, c.HasTag = t, true
	case map[string]any:
		name, _ := t["name"].(string)
		c.Tag, c.HasTag = name, true
	default:
		return fmt.Errorf("expected true, a string or an object")
	}
	return nil
}

func (c *Command) parseSize(r json.RawMessage) error {
	if !present(r) {
		return nil
	}
	var dims []json.Number
	if err := json.Unmarshal(r, &dims); err != nil {
		return fmt.Errorf("expected [rows, cols]")
	}
	if len(dims) != 2 {
		return fmt.Errorf("expected 2 items, got %d", len(dims))
	}
	rows, err1 := dims[0].Int64()
	cols, err2 := dims[1].Int64()
	if err1 != nil || err2 != nil {
		return fmt.Errorf("rows and cols must be integers")
	}
	c.Size = &core.Size{Rows: int(rows), Cols: int(cols)}
	return nil
}

func (c *Command) parseSteps(r json.RawMessage) error {
	var f float64
	if err := json.Unmarshal(r, &f); err != nil || !present(r) {
		return fmt.Errorf("expected a number")
	}
	if f > MaxCount {
		return fmt.Errorf("must be at most %d, got %g", MaxCount, f)
	}
	n := int(math.Floor(max(f, 0) + 0.5))
	c.AdjacentPossibleSteps = &n
	return nil
}

func (c *Command) parseScale(r json.RawMessage) error {
	var f float64
	if err := json.Unmarshal(r, &f); err != nil || !present(r) {
		return fmt.Errorf("expected a number")
	}
	f = max(f, 0)
	c.Scale = &f
	return nil
}

func (c *Command) parseColors(r json.RawMessage) error {
	var m map[string]any
	if err := json.Unmarshal(r, &m); err != nil || m == nil {
		return fmt.Errorf("expected an object")
	}
	var o color.Overrides
	for name, v := range m {
		slot, ok := color.SlotByName(name)
		if !ok {
			return fmt.Errorf("unknown color key %q", name)
		}
		if v == nil {
			o[slot] = color.Override{Kind: color.Reset}
			continue
		}
		col, err := color.Parse(v)
		if err != nil {
			return fmt.Errorf("invalid color for %s: %w", name, err)
		}
		o[slot] = color.Override{Kind: color.Set, Color: col}
	}
	c.Colors = &o
	return nil
}

func (c *Command) parseReset(r json.RawMessage) error {
	if !present(r) {
		return nil
	}
	var refs []json.RawMessage
	if err := json.Unmarshal(r, &refs); err != nil {
		return fmt.Errorf("expected a list of cell references")
	}
	for _, ref := range refs {
		parsed, err := parseRef(ref)
		if err != nil {
			return err
		}
		c.Reset = append(c.Reset, parsed)
	}
	return nil
}

func (c *Command) parseRandomize(r json.RawMessage) error {
	if !truthy(r) {
		return nil
	}
	var list []randomize.Config
	if trimmedIsArray(r) {
		if err := json.Unmarshal(r, &list); err != nil {
			return err
		}
	} else {
		var one randomize.Config
		if err := json.Unmarshal(r, &one); err != nil {
			return err
		}
		list = append(list, one)
	}
	c.Randomize = list
	return nil
}

func (c *Command) parseGenerate(r json.RawMessage) error {
	if !truthy(r) {
		return nil
	}
	cfg := generation.DefaultConfig()
	if trimmedIs(r, '{') {
		if err := json.Unmarshal(r, &cfg); err != nil {
			return err
		}
	}
	c.Generate = &cfg
	return nil
}

func (c *Command) parseGrow(r json.RawMessage) error {
	if !truthy(r) {
		return nil
	}
	cfg := growth.DefaultConfig()
	if trimmedIs(r, '{') {
		if err := json.Unmarshal(r, &cfg); err != nil {
			return err
		}
	}
	cfg = cfg.Normalize()
	c.Grow = &cfg
	return nil
}

func (c *Command) parseMove(r json.RawMessage) error {
	if !truthy(r) {
		return nil
	}
	if string(r) != "true" {
		return fmt.Errorf("must be true")
	}
	c.Move = true
	return nil
}

func (c *Command) parseNudge(r json.RawMessage) error {
	if !present(r) {
		return nil
	}
	var pairs []json.RawMessage
	if err := json.Unmarshal(r, &pairs); err != nil {
		return fmt.Errorf("must be an array")
	}
	for _, p := range pairs {
		var parts []json.RawMessage
		if err := json.Unmarshal(p, &parts); err != nil {
			return fmt.Errorf("each nudge must be an array")
		}
		if len(parts) != 2 {
			return fmt.Errorf("each nudge expects 2 items, got %d", len(parts))
		}
		var offset []float64
		if err := json.Unmarshal(parts[0], &offset); err != nil || len(offset) != 2 {
			return fmt.Errorf("the first item of a nudge must be [dx, dy]")
		}
		ref, err := parseRef(parts[1])
		if err != nil {
			return err
		}
		c.Nudges = append(c.Nudges, Nudge{DX: offset[0], DY: offset[1], Ref: ref})
	}
	return nil
}

func parseAssignments(k core.CellCommand, r json.RawMessage) ([]Assignment, error) {
	var pairs []json.RawMessage
	if err := json.Unmarshal(r, &pairs); err != nil {
		return nil, fmt.Errorf("expected a list of [value, cells] pairs")
	}
	out := make([]Assignment, 0, len(pairs))
	for _, p := range pairs {
		var parts []json.RawMessage
		if err := json.Unmarshal(p, &parts); err != nil || len(parts) != 2 {
			return nil, fmt.Errorf("each entry must be a [value, cells] pair")
		}
		a, err := parseValue(k, parts[0])
		if err != nil {
			return nil, err
		}
		if a.Ref, err = parseRef(parts[1]); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func parseValue(k core.CellCommand, r json.RawMessage) (Assignment, error) {
	if !present(r) {
		if !k.Nullable() {
			return Assignment{}, fmt.Errorf("null is not allowed")
		}
		return Assignment{Null: true}, nil
	}
	if k.Bool() {
		var b bool
		if err := json.Unmarshal(r, &b); err != nil {
			return Assignment{}, fmt.Errorf("expected a boolean value")
		}
		if b {
			return Assignment{Value: 1}, nil
		}
		return Assignment{}, nil
	}
	var f float64
	if err := json.Unmarshal(r, &f); err != nil {
		return Assignment{}, fmt.Errorf("expected a numeric value")
	}
	return Assignment{Value: f}, nil
}

func parseRef(r json.RawMessage) (core.Ref, error) {
	var ref core.Ref
	if err := json.Unmarshal(r, &ref); err != nil || ref == nil {
		return nil, fmt.Errorf("cell reference must be a list of integers")
	}
	switch len(ref) {
	case 0, 2, 4:
		return ref, nil
	}
	return nil, fmt.Errorf("cell reference expects 0, 2 or 4 items, got %d", len(ref))
}

func trimmedIsArray(r json.RawMessage) bool { return trimmedIs(r, '[') }

// trimmedIs reports whether the first non-space byte of r is open.
func trimmedIs(r json.RawMessage, open byte) bool {
	for _, b := range r {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b == open
	}
	return false
}
