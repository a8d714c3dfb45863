package core

// Size describes the dimensions of a frame grid.
type Size struct {
	Rows int
	Cols int
}

// Area is the number of cells a grid of this size holds.
func (s Size) Area() int { return s.Rows * s.Cols }
