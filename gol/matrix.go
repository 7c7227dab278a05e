package gol

import "fmt"

// NextState applies the Game of Life rule to a cell with the given number of
// live neighbours. With exactly two the cell keeps its current state
func NextState(current Code, live int) Code {
	switch {
	case live < 2 || live > 3:
		return Dead
	case live == 2:
		return ToOwned(current)
	default:
		return Alive
	}
}

// Count live cells among the eight surrounding a strip cell
func liveNeighbours(cells [][]Code, y, x int) int {
	live := 0
	for dy := -1; dy <= 1; dy++ {
		row := cells[y+dy]
		for dx := -1; dx <= 1; dx++ {
			if (dy != 0 || dx != 0) && IsAlive(row[x+dx]) {
				live++
			}
		}
	}
	return live
}

// Check a strip has the shape Split produces
func validateStrip(s Strip) error {
	height, width := s.Height(), s.Width()
	if height < 1 || width < 1 {
		return fmt.Errorf("%w: strip %d is %dx%d", ErrMalformedStrip, s.Index, len(s.Cells), width+2)
	}
	for y, row := range s.Cells {
		if len(row) != width+2 {
			return fmt.Errorf("%w: strip %d row %d has %d cells, want %d",
				ErrMalformedStrip, s.Index, y, len(row), width+2)
		}
		if IsWritable(row[0]) || IsWritable(row[width+1]) {
			return fmt.Errorf("%w: strip %d row %d has a writable edge", ErrMalformedStrip, s.Index, y)
		}
		if y == 0 || y == height+1 {
			continue
		}
		for x := 1; x <= width; x++ {
			if !IsWritable(row[x]) {
				return fmt.Errorf("%w: strip %d cell (%d,%d) is %v", ErrMalformedStrip, s.Index, y, x, row[x])
			}
		}
	}
	return nil
}

// Update computes the next state of every interior cell of the strip.
// Edge columns and ring rows are only read; the strip itself is not modified
func Update(s Strip) (Result, error) {

	if err := validateStrip(s); err != nil {
		return Result{}, err
	}

	height, width := s.Height(), s.Width()
	result := Result{
		Index:  s.Index,
		Height: height,
		Width:  width,
		Cells:  make([]Code, 0, height*width),
	}

	// Row-major over the interior only
	for y := 1; y <= height; y++ {
		for x := 1; x <= width; x++ {
			live := liveNeighbours(s.Cells, y, x)
			result.Cells = append(result.Cells, NextState(s.Cells[y][x], live))
		}
	}
	return result, nil
}
