package gol

import (
	"fmt"
	"strconv"
)

// PGM boards are binary greymaps (P5): one byte per interior cell,
// 255 alive and 0 dead, rows top to bottom

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

// Split off the magic number, width, height and maxval fields
func pgmHeader(data []byte) (fields [4]string, body []byte, err error) {
	for i := range fields {
		start := 0
		for start < len(data) && isSpace(data[start]) {
			start++
		}
		end := start
		for end < len(data) && !isSpace(data[end]) {
			end++
		}
		if start == end {
			return fields, nil, fmt.Errorf("%w: pgm header is missing field %d", ErrMalformedGrid, i)
		}
		fields[i] = string(data[start:end])
		data = data[end:]
	}

	// Exactly one whitespace byte separates the header from the pixels
	if len(data) == 0 {
		return fields, nil, fmt.Errorf("%w: pgm has no pixel data", ErrMalformedGrid)
	}
	return fields, data[1:], nil
}

func readPGM(data []byte) (Grid, error) {

	fields, pixels, err := pgmHeader(data)
	if err != nil {
		return Grid{}, err
	}
	if fields[0] != "P5" {
		return Grid{}, fmt.Errorf("%w: not a pgm file", ErrMalformedGrid)
	}
	width, errWidth := strconv.Atoi(fields[1])
	height, errHeight := strconv.Atoi(fields[2])
	if errWidth != nil || errHeight != nil {
		return Grid{}, fmt.Errorf("%w: pgm size %q x %q", ErrMalformedGrid, fields[1], fields[2])
	}
	if fields[3] != "255" {
		return Grid{}, fmt.Errorf("%w: pgm maxval %s, want 255", ErrMalformedGrid, fields[3])
	}
	if width < 1 || height < 1 || len(pixels) != width*height {
		return Grid{}, fmt.Errorf("%w: %d pixels for a %dx%d pgm", ErrMalformedGrid, len(pixels), width, height)
	}

	g, err := NewGrid(height, width)
	if err != nil {
		return Grid{}, err
	}
	for i, pixel := range pixels {
		var c Code
		switch pixel {
		case 0:
			c = Dead
		case 255:
			c = Alive
		default:
			return Grid{}, fmt.Errorf("%w: pgm pixel %d is %d", ErrMalformedGrid, i, pixel)
		}
		g.Cells[i/width+1][i%width+1] = c
	}
	return g, nil
}

func writePGM(g Grid) []byte {

	data := fmt.Appendf(nil, "P5\n%d %d\n255\n", g.Width, g.Height)
	for y := 1; y <= g.Height; y++ {
		for x := 1; x <= g.Width; x++ {
			if IsAlive(g.Cells[y][x]) {
				data = append(data, 255)
			} else {
				data = append(data, 0)
			}
		}
	}
	return data
}
