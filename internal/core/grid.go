package core

import (
	"apviz/internal/color"
)

// UnresolvedValue marks a cell that field generation never reached.
const UnresolvedValue = 1<<53 - 1

// DefaultAdjacentPossibleSteps is the proximity radius of a fresh sequence.
const DefaultAdjacentPossibleSteps = 3

// OptFloat is a float that may be absent.
type OptFloat struct {
	Value float64
	Set   bool
}

// Some returns a present OptFloat.
func Some(v float64) OptFloat { return OptFloat{Value: v, Set: true} }

// Or returns the value when present and fallback otherwise.
func (o OptFloat) Or(fallback float64) float64 {
	if o.Set {
		return o.Value
	}
	return fallback
}

// Cell is one grid position. Row and Col never change after creation.
type Cell struct {
	Row int
	Col int

	// Value is only meaningful when Wall is false.
	Value float64
	Wall  bool

	Highlighted bool
	Captured    bool
	Active      bool

	Scale float64

	// Unset opacities fall back to AutoOpacity when drawn.
	FillOpacity   OptFloat
	StrokeOpacity OptFloat
	AutoOpacity   float64

	OffsetX   float64
	OffsetY   float64
	VelocityX float64
	VelocityY float64
}

// DefaultCell returns a cell at (row, col) with every property at its default.
func DefaultCell(row, col int) Cell {
	c := Cell{Row: row, Col: col}
	c.ResetProperties()
	return c
}

// ResetProperties restores every property except the coordinates.
func (c *Cell) ResetProperties() {
	*c = Cell{Row: c.Row, Col: c.Col, Scale: 1}
}

// Unresolved reports whether generation left this cell without a value.
func (c *Cell) Unresolved() bool {
	return !c.Wall && c.Value == UnresolvedValue
}

// Numeric reports whether the cell holds a usable value.
func (c *Cell) Numeric() bool {
	return !c.Wall && c.Value != UnresolvedValue
}

// Opacity is the effective fill opacity.
func (c *Cell) Opacity() float64 {
	return c.FillOpacity.Or(c.AutoOpacity)
}

// Grid is an exclusively owned, mutable frame under construction. Cells are
// stored row-major.
type Grid struct {
	Rows int
	Cols int

	AdjacentPossibleSteps int
	Scale                 float64
	Colors                color.Palette

	Tag    string
	HasTag bool

	Cells []Cell
}

// NewGrid returns the empty grid a sequence starts from.
func NewGrid() *Grid {
	return &Grid{
		AdjacentPossibleSteps: DefaultAdjacentPossibleSteps,
		Scale:                 1,
		Colors:                color.Default,
		Cells:                 []Cell{},
	}
}

// Resize replaces every cell with defaults for the new dimensions.
func (g *Grid) Resize(rows, cols int) {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	g.Rows, g.Cols = rows, cols
	g.Cells = make([]Cell, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Cells = append(g.Cells, DefaultCell(r, c))
		}
	}
}

// Index returns the linear slice index for (row, col).
func (g *Grid) Index(row, col int) int { return row*g.Cols + col }

// InBounds reports whether (row, col) lies on the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// At returns the cell at (row, col) or nil when out of bounds.
func (g *Grid) At(row, col int) *Cell {
	if !g.InBounds(row, col) {
		return nil
	}
	return &g.Cells[g.Index(row, col)]
}

// Clone returns a deep copy that shares nothing with g.
func (g *Grid) Clone() *Grid {
	out := *g
	out.Cells = make([]Cell, len(g.Cells))
	copy(out.Cells, g.Cells)
	return &out
}

// Freeze publishes the grid. g must not be used afterwards.
func (g *Grid) Freeze() *Snapshot {
	return &Snapshot{g: g}
}
