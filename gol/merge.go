package gol

import "fmt"

// Merge rebuilds the next-generation grid from one result per strip.
// results[i] must be the result of strip i; arrival order plays no part
func Merge(height, width int, results []Result) (Grid, error) {

	spans, err := StripLayout(width, len(results))
	if err != nil {
		return Grid{}, err
	}

	// Check every result against its span before touching the grid
	for i, span := range spans {
		result := results[i]
		if result.Index != span.Index {
			return Grid{}, fmt.Errorf("%w: slot %d holds strip %d", ErrMalformedResult, i, result.Index)
		}
		if result.Height != height || result.Width != span.Width || len(result.Cells) != height*span.Width {
			return Grid{}, fmt.Errorf("%w: strip %d is %dx%d with %d cells, want %dx%d",
				ErrMalformedResult, i, result.Height, result.Width, len(result.Cells), height, span.Width)
		}
		for _, c := range result.Cells {
			if !IsWritable(c) {
				return Grid{}, fmt.Errorf("%w: strip %d holds code %v", ErrMalformedResult, i, c)
			}
		}
	}

	g, err := NewGrid(height, width)
	if err != nil {
		return Grid{}, err
	}

	// Interleave the row slices of each strip in strip order
	for y := 0; y != height; y++ {
		row := g.Cells[y+1]
		for i, span := range spans {
			copy(row[span.Start+1:span.End()+1], results[i].Row(y))
		}
	}
	return g, nil
}
