package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/core/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"uk.ac.bris.cs/stripgol/gol"
)

const checkerboard = `height = 4
width = 4
rows = ["1010", "0101", "1010", "0101"]
`

const checkerboardOutput = "1 0 1 0 \n0 1 0 1 \n1 0 1 0 \n0 1 0 1 \n" +
	"--------------------\n" +
	"0 1 1 0 \n1 0 0 1 \n1 0 0 1 \n0 1 1 0 \n"

func defaultConfig(t *testing.T) *Config {
	c := &Config{}
	require.NoError(t, cli.SetFromDefaults(c))
	return c
}

func writeBoard(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "board.toml")
	require.NoError(t, os.WriteFile(path, []byte(checkerboard), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	c := defaultConfig(t)
	assert.Equal(t, 100, c.Height)
	assert.Equal(t, 100, c.Width)
	assert.Equal(t, 2, c.Processes)
	assert.Equal(t, 1, c.Generations)
	assert.Equal(t, TransportTCP, c.Transport)
	assert.Equal(t, "localhost:2002", c.Addr)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"single process", func(c *Config) { c.Processes = 1 }},
		{"no rows", func(c *Config) { c.Height = 0 }},
		{"no columns", func(c *Config) { c.Width = 0 }},
		{"more workers than columns", func(c *Config) { c.Width = 3; c.Processes = 5 }},
		{"negative generations", func(c *Config) { c.Generations = -1 }},
		{"negative timeout", func(c *Config) { c.Timeout = -1 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := defaultConfig(t)
			test.modify(c)
			assert.ErrorIs(t, c.Validate(), gol.ErrConfig)
		})
	}
}

func TestValidateWorker(t *testing.T) {
	c := defaultConfig(t)
	c.Processes = 3
	for rank, ok := range []bool{false, true, true, false} {
		c.Rank = rank
		if ok {
			assert.NoError(t, c.ValidateWorker(), "rank %d", rank)
		} else {
			assert.ErrorIs(t, c.ValidateWorker(), gol.ErrConfig, "rank %d", rank)
		}
	}
	c.Rank = 1
	c.Transport = "udp"
	assert.ErrorIs(t, c.ValidateWorker(), gol.ErrConfig)
}

func TestInitialBoard(t *testing.T) {
	c := defaultConfig(t)
	c.Height, c.Width, c.Seed = 12, 9, 5

	first, err := c.InitialBoard()
	require.NoError(t, err)
	second, err := c.InitialBoard()
	require.NoError(t, err)
	assert.True(t, first.Equal(second), "same seed, same board")
	assert.Equal(t, 12, first.Height)
	assert.Equal(t, 9, first.Width)

	// The board file decides the dimensions
	c.Board = writeBoard(t)
	g, err := c.InitialBoard()
	require.NoError(t, err)
	assert.Equal(t, []string{"1010", "0101", "1010", "0101"}, g.Rows())

	c.Processes = 6
	_, err = c.InitialBoard()
	assert.ErrorIs(t, err, gol.ErrConfig)
}

func TestRunLocal(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := defaultConfig(t)
	c.Processes = 3
	c.Board = writeBoard(t)
	c.Save = filepath.Join(t.TempDir(), "final.yaml")

	var out bytes.Buffer
	require.NoError(t, c.runLocal(ctx, &out))
	assert.Equal(t, checkerboardOutput, out.String())

	saved, err := gol.LoadBoard(c.Save)
	require.NoError(t, err)
	assert.Equal(t, []string{"0110", "1001", "1001", "0110"}, saved.Rows())
}

func TestRunNetworked(t *testing.T) {
	for _, tr := range []string{TransportTCP, TransportWebSocket} {
		t.Run(tr, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			require.NoError(t, err)

			c := defaultConfig(t)
			c.Processes = 3
			c.Board = writeBoard(t)
			c.Transport = tr
			c.Addr = ln.Addr().String()
			c.Timeout = 5

			var out bytes.Buffer
			group, gctx := errgroup.WithContext(ctx)
			group.Go(func() error { return c.serve(gctx, ln, &out) })
			for rank := 1; rank != c.Processes; rank++ {
				worker := *c
				worker.Rank = rank
				group.Go(func() error {
					if err := worker.runWorker(gctx); err != nil {
						return fmt.Errorf("rank %d: %w", rank, err)
					}
					return nil
				})
			}
			require.NoError(t, group.Wait())
			assert.Equal(t, checkerboardOutput, out.String())
		})
	}
}
