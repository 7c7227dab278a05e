package gol

import (
	"fmt"

	"cogentcore.org/core/base/randx"
)

// Grid is a (Height+2)x(Width+2) array of cell codes: a one-cell ring of
// ForeignDead around a Height x Width interior of owned cells
type Grid struct {
	Height int
	Width  int
	Cells  [][]Code
}

// Make a 2D slice of codes sharing one backing array
func makeCells(rows, cols int, fill Code) [][]Code {
	data := make([]Code, rows*cols)
	for i := range data {
		data[i] = fill
	}
	cells := make([][]Code, rows)
	for y := 0; y != rows; y++ {
		cells[y] = data[y*cols : (y+1)*cols]
	}
	return cells
}

// NewGrid allocates a grid whose interior is Uninitialised and stamps the ring
func NewGrid(height, width int) (Grid, error) {
	if height < 1 || width < 1 {
		return Grid{}, fmt.Errorf("%w: grid %dx%d", ErrConfig, height, width)
	}
	g := Grid{
		Height: height,
		Width:  width,
		Cells:  makeCells(height+2, width+2, Uninitialised),
	}
	g.stampRing()
	return g, nil
}

func (g Grid) stampRing() {
	for y := 0; y != g.Height+2; y++ {
		g.Cells[y][0] = ForeignDead
		g.Cells[y][g.Width+1] = ForeignDead
	}
	for x := 0; x != g.Width+2; x++ {
		g.Cells[0][x] = ForeignDead
		g.Cells[g.Height+1][x] = ForeignDead
	}
}

// Randomize sets every interior cell to Dead or Alive with equal probability
func Randomize(g Grid, rnd randx.Rand) {
	for y := 1; y <= g.Height; y++ {
		for x := 1; x <= g.Width; x++ {
			g.Cells[y][x] = Code(rnd.Intn(2))
		}
	}
}

// GridFromRows builds a grid from rows of '0' and '1' characters
func GridFromRows(rows []string) (Grid, error) {
	if len(rows) == 0 {
		return Grid{}, fmt.Errorf("%w: no rows", ErrConfig)
	}
	g, err := NewGrid(len(rows), len(rows[0]))
	if err != nil {
		return Grid{}, err
	}
	for y, row := range rows {
		if len(row) != g.Width {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, y, len(row), g.Width)
		}
		for x, ch := range []byte(row) {
			switch ch {
			case '0':
				g.Cells[y+1][x+1] = Dead
			case '1':
				g.Cells[y+1][x+1] = Alive
			default:
				return Grid{}, fmt.Errorf("%w: row %d has cell %q", ErrMalformedGrid, y, ch)
			}
		}
	}
	return g, nil
}

// Rows returns the interior as rows of '0' and '1' characters
func (g Grid) Rows() []string {
	rows := make([]string, g.Height)
	line := make([]byte, g.Width)
	for y := 1; y <= g.Height; y++ {
		for x := 1; x <= g.Width; x++ {
			line[x-1] = g.Cells[y][x].String()[0]
		}
		rows[y-1] = string(line)
	}
	return rows
}

// Clone returns a deep copy of the grid
func (g Grid) Clone() Grid {
	cells := makeCells(len(g.Cells), g.Width+2, Uninitialised)
	for y := range g.Cells {
		copy(cells[y], g.Cells[y])
	}
	return Grid{Height: g.Height, Width: g.Width, Cells: cells}
}

// Equal reports whether both grids have the same shape and codes
func (g Grid) Equal(other Grid) bool {
	if g.Height != other.Height || g.Width != other.Width || len(g.Cells) != len(other.Cells) {
		return false
	}
	for y := range g.Cells {
		if len(g.Cells[y]) != len(other.Cells[y]) {
			return false
		}
		for x := range g.Cells[y] {
			if g.Cells[y][x] != other.Cells[y][x] {
				return false
			}
		}
	}
	return true
}

// Alive counts live interior cells
func (g Grid) Alive() int {
	count := 0
	for y := 1; y <= g.Height; y++ {
		for x := 1; x <= g.Width; x++ {
			if g.Cells[y][x] == Alive {
				count++
			}
		}
	}
	return count
}

// Validate checks the ring is intact and every interior cell is writable
func (g Grid) Validate() error {
	if g.Height < 1 || g.Width < 1 || len(g.Cells) != g.Height+2 {
		return fmt.Errorf("%w: %d rows for height %d", ErrMalformedGrid, len(g.Cells), g.Height)
	}
	for y, row := range g.Cells {
		if len(row) != g.Width+2 {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, y, len(row), g.Width+2)
		}
		for x, c := range row {
			ring := y == 0 || y == g.Height+1 || x == 0 || x == g.Width+1
			if ring && c != ForeignDead {
				return fmt.Errorf("%w: ring cell (%d,%d) is %v", ErrMalformedGrid, y, x, c)
			}
			if !ring && !IsWritable(c) {
				return fmt.Errorf("%w: interior cell (%d,%d) is %v", ErrMalformedGrid, y, x, c)
			}
		}
	}
	return nil
}
