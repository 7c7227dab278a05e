package gol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripPayload(t *testing.T) {
	g, err := GridFromRows([]string{
		"1100101",
		"0110011",
		"1010100",
	})
	require.NoError(t, err)
	strips, err := Split(g, 2)
	require.NoError(t, err)

	for _, strip := range strips {
		data, err := EncodeStrip(strip)
		require.NoError(t, err)
		decoded, err := DecodeStrip(data)
		require.NoError(t, err)
		assert.Equal(t, strip, decoded)
	}
}

func TestResultPayload(t *testing.T) {
	result := Result{Index: 4, Height: 3, Width: 3, Cells: codes("101" + "110" + "001")}
	data, err := EncodeResult(result)
	require.NoError(t, err)

	// Header plus nine cells in two bytes
	assert.Len(t, data, 3+2)

	decoded, err := DecodeResult(data)
	require.NoError(t, err)
	assert.Equal(t, result, decoded)
}

func TestEncodeRejects(t *testing.T) {
	_, err := EncodeStrip(Strip{Cells: [][]Code{{Uninitialised}}})
	assert.ErrorIs(t, err, ErrMalformedStrip)

	_, err = EncodeResult(Result{Height: 1, Width: 2, Cells: codes("1")})
	assert.ErrorIs(t, err, ErrMalformedResult)

	_, err = EncodeResult(Result{Height: 1, Width: 1, Cells: []Code{ForeignAlive}})
	assert.ErrorIs(t, err, ErrMalformedResult)
}

func TestDecodeRejects(t *testing.T) {
	result, err := EncodeResult(Result{Index: 0, Height: 2, Width: 8, Cells: codes("1010101001010101")})
	require.NoError(t, err)
	strip, err := EncodeStrip(Strip{Index: 1, Cells: [][]Code{{2, 2, 2}, {2, 1, 3}, {2, 2, 2}}})
	require.NoError(t, err)

	tests := map[string]struct {
		data   []byte
		decode func([]byte) error
	}{
		"empty result":      {nil, decodeResultErr},
		"truncated result":  {result[:len(result)-1], decodeResultErr},
		"padded result":     {append(append([]byte{}, result...), 0), decodeResultErr},
		"huge result":       {[]byte{0, 0xff, 0xff, 0x03, 0xff, 0xff, 0x03, 1}, decodeResultErr},
		"empty strip":       {[]byte{}, decodeStripErr},
		"truncated strip":   {strip[:len(strip)-1], decodeStripErr},
		"bad varint":        {[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, decodeStripErr},
		"columnless strip":  {[]byte{0, 0x80, 0x80, 0x80, 0x08, 0}, decodeStripErr},
		"rowless strip":     {[]byte{0, 0, 3}, decodeStripErr},
		"no ring rows":      {[]byte{0, 1, 3, 0}, decodeStripErr},
		"no edge columns":   {[]byte{0, 3, 2, 0, 0}, decodeStripErr},
		"columnless result": {[]byte{0, 0x80, 0x80, 0x80, 0x08, 0}, decodeResultErr},
	}
	for name, test := range tests {
		assert.ErrorIs(t, test.decode(test.data), ErrMalformedPayload, name)
	}
}

func decodeResultErr(data []byte) error {
	_, err := DecodeResult(data)
	return err
}

func decodeStripErr(data []byte) error {
	_, err := DecodeStrip(data)
	return err
}
