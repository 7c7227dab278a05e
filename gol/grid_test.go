package gol

import (
	"testing"

	"cogentcore.org/core/base/randx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridStampsRing(t *testing.T) {
	g, err := NewGrid(3, 5)
	require.NoError(t, err)
	require.Len(t, g.Cells, 5)

	for y, row := range g.Cells {
		require.Len(t, row, 7)
		for x, c := range row {
			if y == 0 || y == 4 || x == 0 || x == 6 {
				assert.Equal(t, ForeignDead, c, "ring cell (%d,%d)", y, x)
			} else {
				assert.Equal(t, Uninitialised, c, "interior cell (%d,%d)", y, x)
			}
		}
	}
	assert.ErrorIs(t, g.Validate(), ErrMalformedGrid)
}

func TestNewGridRejectsEmpty(t *testing.T) {
	_, err := NewGrid(0, 4)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = NewGrid(4, 0)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestRandomize(t *testing.T) {
	g, err := NewGrid(20, 30)
	require.NoError(t, err)
	Randomize(g, randx.NewSysRand(7))
	require.NoError(t, g.Validate())

	// Same seed, same board
	again, _ := NewGrid(20, 30)
	Randomize(again, randx.NewSysRand(7))
	assert.True(t, g.Equal(again))

	// Both states should turn up on a 600 cell board
	alive := g.Alive()
	assert.Greater(t, alive, 0)
	assert.Less(t, alive, 600)
}

func TestGridFromRows(t *testing.T) {
	g, err := GridFromRows([]string{"010", "001"})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Height)
	assert.Equal(t, 3, g.Width)
	assert.Equal(t, Alive, g.Cells[1][2])
	assert.Equal(t, Alive, g.Cells[2][3])
	assert.Equal(t, 2, g.Alive())
	assert.Equal(t, []string{"010", "001"}, g.Rows())

	_, err = GridFromRows([]string{"01", "0"})
	assert.ErrorIs(t, err, ErrMalformedGrid)
	_, err = GridFromRows([]string{"02"})
	assert.ErrorIs(t, err, ErrMalformedGrid)
}

func TestCloneIsDeep(t *testing.T) {
	g, err := GridFromRows([]string{"11", "00"})
	require.NoError(t, err)
	c := g.Clone()
	assert.True(t, g.Equal(c))
	c.Cells[1][1] = Dead
	assert.False(t, g.Equal(c))
	assert.Equal(t, Alive, g.Cells[1][1])
}
