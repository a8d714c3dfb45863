package core

// RingCells returns the on-grid cells exactly ply steps (Chebyshev distance)
// from center, walking clockwise from the top-left corner. Ply 0 is the
// center itself.
func RingCells(g *Grid, center *Cell, ply int) []*Cell {
	if ply == 0 {
		return []*Cell{center}
	}
	out := make([]*Cell, 0, 8*ply)
	add := func(r, c int) {
		if n := g.At(r, c); n != nil {
			out = append(out, n)
		}
	}
	top, bottom := center.Row-ply, center.Row+ply
	left, right := center.Col-ply, center.Col+ply
	for c := left; c <= right; c++ {
		add(top, c)
	}
	for r := top + 1; r <= bottom-1; r++ {
		add(r, right)
	}
	for c := right; c >= left; c-- {
		add(bottom, c)
	}
	for r := bottom - 1; r > top; r-- {
		add(r, left)
	}
	return out
}

// RingPly returns the ring distance of cell from center.
func RingPly(cell, center *Cell) int {
	return max(abs(cell.Row-center.Row), abs(cell.Col-center.Col))
}

// OuterNeighbors returns the immediate neighbours of cell that lie on a ring
// strictly farther from center than cell itself.
func OuterNeighbors(g *Grid, cell, center *Cell) []*Cell {
	ply := RingPly(cell, center)
	ring := RingCells(g, cell, 1)
	out := ring[:0:0]
	for _, n := range ring {
		if RingPly(n, center) > ply {
			out = append(out, n)
		}
	}
	return out
}

// Neighbors returns the on-grid Moore neighbours of cell in row-major order.
func Neighbors(g *Grid, cell *Cell) []*Cell {
	out := make([]*Cell, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if n := g.At(cell.Row+dr, cell.Col+dc); n != nil {
				out = append(out, n)
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
