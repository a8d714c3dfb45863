package core

// Property is a single settable cell property.
type Property uint8

const (
	PropHighlighted Property = iota
	PropCaptured
	PropActive
	PropValue
	PropFillOpacity
	PropStrokeOpacity
	PropScale
	PropOffsetX
	PropOffsetY
	PropVelocityX
	PropVelocityY
)

// Bool reports whether the property is a flag.
func (p Property) Bool() bool {
	return p == PropHighlighted || p == PropCaptured || p == PropActive
}

// Nullable reports whether null is a legal assignment: a null value makes a
// wall, a null opacity falls back to auto opacity.
func (p Property) Nullable() bool {
	return p == PropValue || p == PropFillOpacity || p == PropStrokeOpacity
}

// Get reads the property as a number. Flags read as 0 or 1; walls and unset
// opacities read as null.
func (p Property) Get(c *Cell) (v float64, null bool) {
	switch p {
	case PropHighlighted:
		return b2f(c.Highlighted), false
	case PropCaptured:
		return b2f(c.Captured), false
	case PropActive:
		return b2f(c.Active), false
	case PropValue:
		return c.Value, c.Wall
	case PropFillOpacity:
		return c.FillOpacity.Value, !c.FillOpacity.Set
	case PropStrokeOpacity:
		return c.StrokeOpacity.Value, !c.StrokeOpacity.Set
	case PropScale:
		return c.Scale, false
	case PropOffsetX:
		return c.OffsetX, false
	case PropOffsetY:
		return c.OffsetY, false
	case PropVelocityX:
		return c.VelocityX, false
	case PropVelocityY:
		return c.VelocityY, false
	}
	return 0, true
}

// Set assigns the property. Flags are set when v is non-zero.
func (p Property) Set(c *Cell, v float64, null bool) {
	switch p {
	case PropHighlighted:
		c.Highlighted = v != 0
	case PropCaptured:
		c.Captured = v != 0
	case PropActive:
		c.Active = v != 0
	case PropValue:
		c.Wall = null
		c.Value = 0
		if !null {
			c.Value = v
		}
	case PropFillOpacity:
		c.FillOpacity = opt(v, null)
	case PropStrokeOpacity:
		c.StrokeOpacity = opt(v, null)
	case PropScale:
		c.Scale = v
	case PropOffsetX:
		c.OffsetX = v
	case PropOffsetY:
		c.OffsetY = v
	case PropVelocityX:
		c.VelocityX = v
	case PropVelocityY:
		c.VelocityY = v
	}
}

// RandomMode says how a randomize pass spreads draws over a command's
// properties.
type RandomMode uint8

const (
	// RandomSingle draws once per cell; the command has one logical property.
	RandomSingle RandomMode = iota
	// RandomConsistent draws once per cell and applies it to every property.
	RandomConsistent
	// RandomIndependent draws once per property per cell.
	RandomIndependent
)

// CellCommand is one entry of the per-cell command table. The constants are
// declared in application order: later kinds override earlier ones on
// overlapping cells.
type CellCommand uint8

const (
	CmdHighlighted CellCommand = iota
	CmdCaptured
	CmdActiveOnly
	CmdActive
	CmdValue
	CmdOpacity
	CmdFillOpacity
	CmdStrokeOpacity
	CmdScale
	CmdOffsetX
	CmdOffsetY
	CmdVelocityX
	CmdVelocityY
	CmdVelocity

	NumCellCommands
)

type cellCommandInfo struct {
	name  string
	props []Property
	mode  RandomMode
}

var cellCommandTable = [NumCellCommands]cellCommandInfo{
	CmdHighlighted:   {"highlighted", []Property{PropHighlighted}, RandomSingle},
	CmdCaptured:      {"captured", []Property{PropCaptured}, RandomSingle},
	CmdActiveOnly:    {"activeOnly", []Property{PropActive}, RandomSingle},
	CmdActive:        {"active", []Property{PropActive, PropCaptured}, RandomSingle},
	CmdValue:         {"value", []Property{PropValue}, RandomSingle},
	CmdOpacity:       {"opacity", []Property{PropFillOpacity, PropStrokeOpacity}, RandomConsistent},
	CmdFillOpacity:   {"fillOpacity", []Property{PropFillOpacity}, RandomSingle},
	CmdStrokeOpacity: {"strokeOpacity", []Property{PropStrokeOpacity}, RandomSingle},
	CmdScale:         {"scale", []Property{PropScale}, RandomSingle},
	CmdOffsetX:       {"offsetX", []Property{PropOffsetX}, RandomSingle},
	CmdOffsetY:       {"offsetY", []Property{PropOffsetY}, RandomSingle},
	CmdVelocityX:     {"velocityX", []Property{PropVelocityX}, RandomSingle},
	CmdVelocityY:     {"velocityY", []Property{PropVelocityY}, RandomSingle},
	CmdVelocity:      {"velocity", []Property{PropVelocityX, PropVelocityY}, RandomIndependent},
}

// Name is the wire name of the command.
func (k CellCommand) Name() string { return cellCommandTable[k].name }

// Properties lists the cell properties the command writes.
func (k CellCommand) Properties() []Property { return cellCommandTable[k].props }

// RandomMode reports how randomize spreads draws over the properties.
func (k CellCommand) RandomMode() RandomMode { return cellCommandTable[k].mode }

// Randomizable reports whether randomize accepts this command name.
func (k CellCommand) Randomizable() bool { return k != CmdActiveOnly }

// Bool reports whether the command takes boolean payloads.
func (k CellCommand) Bool() bool { return cellCommandTable[k].props[0].Bool() }

// Nullable reports whether the command accepts null payloads.
func (k CellCommand) Nullable() bool { return cellCommandTable[k].props[0].Nullable() }

func (k CellCommand) String() string { return k.Name() }

// CellCommandByName resolves a wire name.
func CellCommandByName(name string) (CellCommand, bool) {
	for i, s := range cellCommandTable {
		if s.name == name {
			return CellCommand(i), true
		}
	}
	return 0, false
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func opt(v float64, null bool) OptFloat {
	if null {
		return OptFloat{}
	}
	return Some(v)
}
