package gol

import "errors"

var (
	// ErrConfig reports grid dimensions or a strip count that cannot be laid out
	ErrConfig = errors.New("invalid configuration")

	// ErrMalformedGrid reports a master grid with a broken ring or a non-writable interior
	ErrMalformedGrid = errors.New("malformed grid")

	// ErrMalformedStrip reports a strip that does not have the shape Split produces
	ErrMalformedStrip = errors.New("malformed strip")

	// ErrMalformedResult reports a result that does not fit the strip layout
	ErrMalformedResult = errors.New("malformed result")

	// ErrMalformedPayload reports a binary payload that cannot be decoded
	ErrMalformedPayload = errors.New("malformed payload")
)
