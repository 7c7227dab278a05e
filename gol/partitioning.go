package gol

import "fmt"

// StripLayout divides an interior of the given width into p vertical strips.
// Every strip is floor(width/p) columns wide except the last, which also takes
// the remainder. Split and Merge both derive their column ranges from here
func StripLayout(width, p int) ([]Span, error) {
	if p <= 0 {
		return nil, fmt.Errorf("%w: %d strips", ErrConfig, p)
	}
	if width < p {
		return nil, fmt.Errorf("%w: width %d cannot hold %d strips", ErrConfig, width, p)
	}

	baseWidth := width / p
	lastWidth := width - baseWidth*(p-1)

	spans := make([]Span, p)
	for i := 0; i != p; i++ {
		spans[i] = Span{Index: i, Start: i * baseWidth, Width: baseWidth}
	}
	spans[p-1].Width = lastWidth
	return spans, nil
}

// Split carves the interior of g into p strips, each padded with the two
// neighbouring master columns re-encoded as foreign cells
func Split(g Grid, p int) ([]Strip, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	spans, err := StripLayout(g.Width, p)
	if err != nil {
		return nil, err
	}

	strips := make([]Strip, len(spans))
	for i, span := range spans {
		cells := makeCells(g.Height+2, span.Width+2, Uninitialised)
		// Master columns just outside the strip
		left := span.Start
		right := span.End() + 1
		for y := 0; y != g.Height+2; y++ {
			row := g.Cells[y]
			cells[y][0] = ToForeign(row[left])
			copy(cells[y][1:span.Width+1], row[left+1:right])
			cells[y][span.Width+1] = ToForeign(row[right])
		}
		strips[i] = Strip{Index: span.Index, Cells: cells}
	}
	return strips, nil
}
