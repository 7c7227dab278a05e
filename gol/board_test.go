package gol

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardFiles(t *testing.T) {
	g, err := GridFromRows([]string{"0110", "1001", "0000"})
	require.NoError(t, err)

	for _, name := range []string{"board.toml", "board.yaml", "board.yml", "board.pgm"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, SaveBoard(path, g))
		loaded, err := LoadBoard(path)
		require.NoError(t, err, name)
		assert.True(t, g.Equal(loaded), name)
	}
}

func TestLoadBoardHandWritten(t *testing.T) {
	dir := t.TempDir()

	toml := filepath.Join(dir, "glider.toml")
	require.NoError(t, os.WriteFile(toml, []byte("height = 3\nwidth = 3\nrows = [\"010\", \"001\", \"111\"]\n"), 0o644))
	g, err := LoadBoard(toml)
	require.NoError(t, err)
	assert.Equal(t, 5, g.Alive())

	yaml := filepath.Join(dir, "blinker.yaml")
	require.NoError(t, os.WriteFile(yaml, []byte("height: 1\nwidth: 3\nrows:\n  - \"111\"\n"), 0o644))
	g, err = LoadBoard(yaml)
	require.NoError(t, err)
	assert.Equal(t, []string{"111"}, g.Rows())
}

func TestLoadBoardRejects(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadBoard(filepath.Join(dir, "board.json"))
	assert.Error(t, err)

	_, err = LoadBoard(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	mismatch := filepath.Join(dir, "mismatch.toml")
	require.NoError(t, os.WriteFile(mismatch, []byte("height = 2\nwidth = 3\nrows = [\"010\"]\n"), 0o644))
	_, err = LoadBoard(mismatch)
	assert.ErrorIs(t, err, ErrMalformedGrid)
}

func TestPGMBoard(t *testing.T) {
	g, err := GridFromRows([]string{"101", "010"})
	require.NoError(t, err)
	assert.Equal(t, []byte("P5\n3 2\n255\n\xff\x00\xff\x00\xff\x00"), writePGM(g))

	loaded, err := readPGM([]byte("P5 3\t2\n255\n\xff\x00\xff\x00\xff\x00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "010"}, loaded.Rows())

	for name, data := range map[string]string{
		"magic":     "P2\n1 1\n255\n\x00",
		"maxval":    "P5\n1 1\n1\n\x00",
		"size":      "P5\nx 1\n255\n\x00",
		"short":     "P5\n2 1\n255\n\x00",
		"grey":      "P5\n1 1\n255\n\x80",
		"no pixels": "P5\n1 1\n255",
	} {
		_, err := readPGM([]byte(data))
		assert.ErrorIs(t, err, ErrMalformedGrid, name)
	}
}
