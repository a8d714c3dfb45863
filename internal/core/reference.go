package core

import "fmt"

// Ref is an authored cell reference: empty for the whole grid, [row, col] for
// one cell, or an inclusive [r0, c0, r1, c1] rectangle.
type Ref []int

// Rect is an expanded, inclusive rectangle.
type Rect struct {
	R0, C0, R1, C1 int
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d,%d,%d]", r.R0, r.C0, r.R1, r.C1)
}

// Expand converts ref to a rectangle without checking bounds.
func Expand(g *Grid, ref Ref) (Rect, error) {
	switch len(ref) {
	case 0:
		return Rect{0, 0, g.Rows - 1, g.Cols - 1}, nil
	case 2:
		return Rect{ref[0], ref[1], ref[0], ref[1]}, nil
	case 4:
		return Rect{ref[0], ref[1], ref[2], ref[3]}, nil
	default:
		return Rect{}, Validationf("cell reference", "expected 0, 2 or 4 items, got %d", len(ref))
	}
}

// Resolve returns the referenced cells in row-major order. The rectangle
// must lie entirely on the grid and must not be inverted.
func Resolve(g *Grid, ref Ref) ([]*Cell, error) {
	rect, err := Expand(g, ref)
	if err != nil {
		return nil, err
	}
	return ResolveRect(g, rect)
}

// ResolveRect is Resolve for an already expanded rectangle.
func ResolveRect(g *Grid, rect Rect) ([]*Cell, error) {
	const op = "cell reference"
	switch {
	case rect.R0 < 0 || rect.R0 >= g.Rows:
		return nil, Referencef(op, "row %d is out of bounds in %v", rect.R0, rect)
	case rect.R1 < 0 || rect.R1 >= g.Rows:
		return nil, Referencef(op, "row %d is out of bounds in %v", rect.R1, rect)
	case rect.C0 < 0 || rect.C0 >= g.Cols:
		return nil, Referencef(op, "col %d is out of bounds in %v", rect.C0, rect)
	case rect.C1 < 0 || rect.C1 >= g.Cols:
		return nil, Referencef(op, "col %d is out of bounds in %v", rect.C1, rect)
	case rect.R1 < rect.R0:
		return nil, Referencef(op, "end row must not precede start row in %v", rect)
	case rect.C1 < rect.C0:
		return nil, Referencef(op, "end col must not precede start col in %v", rect)
	}
	out := make([]*Cell, 0, (rect.R1-rect.R0+1)*(rect.C1-rect.C0+1))
	for r := rect.R0; r <= rect.R1; r++ {
		for c := rect.C0; c <= rect.C1; c++ {
			out = append(out, &g.Cells[g.Index(r, c)])
		}
	}
	return out, nil
}

// Trim expands ref and clamps it to the grid edges instead of failing.
func Trim(g *Grid, ref Ref) (Rect, error) {
	rect, err := Expand(g, ref)
	if err != nil {
		return Rect{}, err
	}
	return TrimRect(g, rect), nil
}

// TrimRect clamps rect to the grid edges.
func TrimRect(g *Grid, rect Rect) Rect {
	rect.R0 = max(rect.R0, 0)
	rect.C0 = max(rect.C0, 0)
	rect.R1 = min(rect.R1, g.Rows-1)
	rect.C1 = min(rect.C1, g.Cols-1)
	return rect
}
