package gol

import (
	"encoding/binary"
	"fmt"
)

// Strip payload layout:
//
//	uvarint index | uvarint rows | uvarint cols | rows*cols codes, 4 per byte
//
// Result payload layout:
//
//	uvarint index | uvarint height | uvarint width | height*width cells, 8 per byte

// Read the three uvarint header fields shared by both payloads
func readHeader(data []byte) (fields [3]int, body []byte, err error) {
	for i := range fields {
		value, n := binary.Uvarint(data)
		if n <= 0 || value > uint64(^uint32(0)) {
			return fields, nil, fmt.Errorf("%w: bad header field %d", ErrMalformedPayload, i)
		}
		fields[i] = int(value)
		data = data[n:]
	}
	return fields, data, nil
}

// EncodeStrip packs a strip into its binary payload
func EncodeStrip(s Strip) ([]byte, error) {

	rows := len(s.Cells)
	cols := 0
	if rows != 0 {
		cols = len(s.Cells[0])
	}

	data := make([]byte, 0, 3*binary.MaxVarintLen32+(rows*cols+3)/4)
	data = binary.AppendUvarint(data, uint64(s.Index))
	data = binary.AppendUvarint(data, uint64(rows))
	data = binary.AppendUvarint(data, uint64(cols))

	body := make([]byte, (rows*cols+3)/4)
	i := 0
	for y, row := range s.Cells {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: strip %d row %d has %d cells, want %d", ErrMalformedStrip, s.Index, y, len(row), cols)
		}
		for x, c := range row {
			if c > ForeignAlive {
				return nil, fmt.Errorf("%w: strip %d cell (%d,%d) is %v", ErrMalformedStrip, s.Index, y, x, c)
			}
			body[i/4] |= byte(c) << ((i % 4) * 2)
			i++
		}
	}
	return append(data, body...), nil
}

// DecodeStrip unpacks a strip payload
func DecodeStrip(data []byte) (Strip, error) {

	fields, body, err := readHeader(data)
	if err != nil {
		return Strip{}, err
	}
	index, rows, cols := fields[0], fields[1], fields[2]

	// Every strip has a ring row above and below and two edge columns
	if rows < 3 || cols < 3 {
		return Strip{}, fmt.Errorf("%w: %dx%d strip", ErrMalformedPayload, rows, cols)
	}
	if rows > len(body)*4/cols {
		return Strip{}, fmt.Errorf("%w: %dx%d strip in %d bytes", ErrMalformedPayload, rows, cols, len(body))
	}
	if len(body) != (rows*cols+3)/4 {
		return Strip{}, fmt.Errorf("%w: %dx%d strip in %d bytes", ErrMalformedPayload, rows, cols, len(body))
	}

	cells := makeCells(rows, cols, Uninitialised)
	for i := 0; i != rows*cols; i++ {
		cells[i/cols][i%cols] = Code(body[i/4]>>((i%4)*2)) & 3
	}
	return Strip{Index: index, Cells: cells}, nil
}

// EncodeResult packs a result into its binary payload, one bit per cell
func EncodeResult(r Result) ([]byte, error) {

	if len(r.Cells) != r.Height*r.Width {
		return nil, fmt.Errorf("%w: strip %d has %d cells for %dx%d", ErrMalformedResult, r.Index, len(r.Cells), r.Height, r.Width)
	}

	data := make([]byte, 0, 3*binary.MaxVarintLen32+len(r.Cells)/8+1)
	data = binary.AppendUvarint(data, uint64(r.Index))
	data = binary.AppendUvarint(data, uint64(r.Height))
	data = binary.AppendUvarint(data, uint64(r.Width))

	body := make([]byte, (len(r.Cells)+7)/8)
	for i, c := range r.Cells {
		if !IsWritable(c) {
			return nil, fmt.Errorf("%w: strip %d cell %d is %v", ErrMalformedResult, r.Index, i, c)
		}
		body[i/8] |= byte(c) << (i % 8)
	}
	return append(data, body...), nil
}

// DecodeResult unpacks a result payload
func DecodeResult(data []byte) (Result, error) {

	fields, body, err := readHeader(data)
	if err != nil {
		return Result{}, err
	}
	index, height, width := fields[0], fields[1], fields[2]

	if height < 1 || width < 1 {
		return Result{}, fmt.Errorf("%w: %dx%d result", ErrMalformedPayload, height, width)
	}
	if height > len(body)*8/width {
		return Result{}, fmt.Errorf("%w: %dx%d result in %d bytes", ErrMalformedPayload, height, width, len(body))
	}
	size := height * width
	if len(body) != (size+7)/8 {
		return Result{}, fmt.Errorf("%w: %dx%d result in %d bytes", ErrMalformedPayload, height, width, len(body))
	}

	cells := make([]Code, size)
	for i := range cells {
		cells[i] = Code(body[i/8]>>(i%8)) & 1
	}
	return Result{Index: index, Height: height, Width: width, Cells: cells}, nil
}
