// Definitions of types that are shared across coordinator and workers

package gol

// Span is one vertical strip of the grid interior
type Span struct {
	Index int // Strip index (worker rank - 1)
	Start int // First interior column covered by the strip (0-based, master column Start+1)
	Width int // Number of interior columns in the strip
}

// End returns the first interior column after the strip
func (s Span) End() int {
	return s.Start + s.Width
}

// Strip is the grid-shaped payload owned by one worker for one generation.
// Cells has height+2 rows and width+2 columns; the two edge columns are
// foreign copies of the master's neighbouring columns
type Strip struct {
	Index int
	Cells [][]Code
}

// Height returns the number of interior rows in the strip
func (s Strip) Height() int {
	return len(s.Cells) - 2
}

// Width returns the number of interior columns in the strip
func (s Strip) Width() int {
	if len(s.Cells) == 0 {
		return -2
	}
	return len(s.Cells[0]) - 2
}

// Result holds the next-state codes a worker computed for its strip interior,
// row-major, Height*Width entries of Dead or Alive
type Result struct {
	Index  int
	Height int
	Width  int
	Cells  []Code
}

// Row returns the r-th interior row of the result
func (r Result) Row(row int) []Code {
	return r.Cells[row*r.Width : (row+1)*r.Width]
}
