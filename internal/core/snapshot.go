package core

import (
	"encoding/json"

	"apviz/internal/color"
)

// Snapshot is a published, read-only frame. It exposes copies only, so
// nothing reachable from a Snapshot can be mutated by its readers.
type Snapshot struct {
	g *Grid
}

func (s *Snapshot) Rows() int                  { return s.g.Rows }
func (s *Snapshot) Cols() int                  { return s.g.Cols }
func (s *Snapshot) AdjacentPossibleSteps() int { return s.g.AdjacentPossibleSteps }
func (s *Snapshot) Scale() float64             { return s.g.Scale }
func (s *Snapshot) Colors() color.Palette      { return s.g.Colors }
func (s *Snapshot) Len() int                   { return len(s.g.Cells) }

// Tag returns the capture tag and whether this frame carries one.
func (s *Snapshot) Tag() (string, bool) { return s.g.Tag, s.g.HasTag }

// Cell returns a copy of the cell at (row, col).
func (s *Snapshot) Cell(row, col int) (Cell, bool) {
	c := s.g.At(row, col)
	if c == nil {
		return Cell{}, false
	}
	return *c, true
}

// CellAt returns a copy of the i-th cell in row-major order.
func (s *Snapshot) CellAt(i int) Cell { return s.g.Cells[i] }

// Cells returns a copy of every cell in row-major order.
func (s *Snapshot) Cells() []Cell {
	out := make([]Cell, len(s.g.Cells))
	copy(out, s.g.Cells)
	return out
}

// Count returns the number of cells matching pred.
func (s *Snapshot) Count(pred func(Cell) bool) int {
	n := 0
	for _, c := range s.g.Cells {
		if pred(c) {
			n++
		}
	}
	return n
}

// Thaw returns a mutable copy to derive a new frame from. The copy never
// carries the capture tag.
func (s *Snapshot) Thaw() *Grid {
	g := s.g.Clone()
	g.Tag, g.HasTag = "", false
	return g
}

type cellJSON struct {
	Row           int      `json:"row"`
	Col           int      `json:"col"`
	OffsetX       float64  `json:"offsetX"`
	OffsetY       float64  `json:"offsetY"`
	VelocityX     float64  `json:"velocityX"`
	VelocityY     float64  `json:"velocityY"`
	Value         *float64 `json:"value"`
	Highlighted   bool     `json:"highlighted"`
	Captured      bool     `json:"captured"`
	Active        bool     `json:"active"`
	Scale         float64  `json:"scale"`
	FillOpacity   *float64 `json:"fillOpacity,omitempty"`
	StrokeOpacity *float64 `json:"strokeOpacity,omitempty"`
	AutoOpacity   float64  `json:"autoOpacity"`
}

type snapshotJSON struct {
	Rows                  int           `json:"rows"`
	Cols                  int           `json:"cols"`
	AdjacentPossibleSteps int           `json:"adjacentPossibleSteps"`
	Colors                color.Palette `json:"colors"`
	Scale                 float64       `json:"scale"`
	Cells                 []cellJSON    `json:"cells"`
	Gif                   *string       `json:"gif,omitempty"`
}

// MarshalJSON encodes a cell in the authored wire shape: walls have a null
// value and unset opacities are omitted.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(toCellJSON(c))
}

func toCellJSON(c Cell) cellJSON {
	out := cellJSON{
		Row:         c.Row,
		Col:         c.Col,
		OffsetX:     c.OffsetX,
		OffsetY:     c.OffsetY,
		VelocityX:   c.VelocityX,
		VelocityY:   c.VelocityY,
		Highlighted: c.Highlighted,
		Captured:    c.Captured,
		Active:      c.Active,
		Scale:       c.Scale,
		AutoOpacity: c.AutoOpacity,
	}
	if !c.Wall {
		v := c.Value
		out.Value = &v
	}
	if c.FillOpacity.Set {
		v := c.FillOpacity.Value
		out.FillOpacity = &v
	}
	if c.StrokeOpacity.Set {
		v := c.StrokeOpacity.Value
		out.StrokeOpacity = &v
	}
	return out
}

// MarshalJSON encodes the expanded frame.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{
		Rows:                  s.g.Rows,
		Cols:                  s.g.Cols,
		AdjacentPossibleSteps: s.g.AdjacentPossibleSteps,
		Colors:                s.g.Colors,
		Scale:                 s.g.Scale,
		Cells:                 make([]cellJSON, len(s.g.Cells)),
	}
	for i, c := range s.g.Cells {
		out.Cells[i] = toCellJSON(c)
	}
	if s.g.HasTag {
		tag := s.g.Tag
		out.Gif = &tag
	}
	return json.Marshal(out)
}
