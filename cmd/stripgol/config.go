package main

import (
	"fmt"
	"io"
	"time"

	"cogentcore.org/core/base/randx"

	"uk.ac.bris.cs/stripgol/gol"
	"uk.ac.bris.cs/stripgol/process"
)

// Transports a networked run can use
const (
	TransportTCP       = "tcp"
	TransportWebSocket = "ws"
)

// Config is the configuration of every stripgol command
type Config struct {

	// Height is the number of interior rows of a random board
	Height int `default:"100" cmd:"local,coordinator"`

	// Width is the number of interior columns of a random board
	Width int `default:"100" cmd:"local,coordinator"`

	// Processes is the number of processes in the run, coordinator included
	Processes int `default:"2" flag:"n,processes"`

	// Generations is the number of generations to compute
	Generations int `default:"1" flag:"g,generations" cmd:"local,coordinator"`

	// Seed seeds the random board; 0 picks a seed from the clock
	Seed int64 `cmd:"local,coordinator"`

	// Board is a TOML or YAML board file to start from instead of a random board
	Board string `cmd:"local,coordinator"`

	// Save is a TOML or YAML file the final board is written to
	Save string `cmd:"local,coordinator"`

	// Colour highlights live cells when printing to a terminal
	Colour bool `cmd:"local,coordinator"`

	// Timeout is the number of seconds a generation may take; 0 waits forever
	Timeout int `cmd:"local,coordinator"`

	// Transport is the network transport, tcp or ws
	Transport string `default:"tcp" cmd:"coordinator,worker"`

	// Addr is the address the coordinator listens on and workers dial
	Addr string `default:"localhost:2002" cmd:"coordinator,worker"`

	// Rank is the rank of this worker, 1 to processes-1
	Rank int `cmd:"worker"`
}

// Validate checks the settings a coordinator depends on before any
// connection is made
func (c *Config) Validate() error {

	if c.Processes < 2 {
		return fmt.Errorf("%w: %d processes leave no workers", gol.ErrConfig, c.Processes)
	}
	if c.Generations < 0 {
		return fmt.Errorf("%w: %d generations", gol.ErrConfig, c.Generations)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout of %d seconds", gol.ErrConfig, c.Timeout)
	}

	// A board file brings its own dimensions, checked once loaded
	if c.Board != "" {
		return nil
	}
	if c.Height < 1 || c.Width < 1 {
		return fmt.Errorf("%w: grid %dx%d", gol.ErrConfig, c.Height, c.Width)
	}
	_, err := gol.StripLayout(c.Width, c.Processes-1)
	return err
}

// ValidateWorker checks the settings a worker depends on
func (c *Config) ValidateWorker() error {
	if c.Processes < 2 {
		return fmt.Errorf("%w: %d processes leave no workers", gol.ErrConfig, c.Processes)
	}
	if c.Rank < 1 || c.Rank >= c.Processes {
		return fmt.Errorf("%w: worker rank %d of %d processes", gol.ErrConfig, c.Rank, c.Processes)
	}
	return c.validateTransport()
}

func (c *Config) validateTransport() error {
	switch c.Transport {
	case TransportTCP, TransportWebSocket:
		return nil
	default:
		return fmt.Errorf("%w: unknown transport %q", gol.ErrConfig, c.Transport)
	}
}

// InitialBoard loads the board file or generates a random board, and checks
// it can be laid out over the workers
func (c *Config) InitialBoard() (gol.Grid, error) {

	var g gol.Grid
	var err error
	if c.Board != "" {
		g, err = gol.LoadBoard(c.Board)
	} else {
		g, err = gol.NewGrid(c.Height, c.Width)
		if err == nil {
			seed := c.Seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			gol.Randomize(g, randx.NewSysRand(seed))
		}
	}
	if err != nil {
		return gol.Grid{}, err
	}

	if _, err := gol.StripLayout(g.Width, c.Processes-1); err != nil {
		return gol.Grid{}, err
	}
	return g, nil
}

// Options returns the process options of a run printing to out
func (c *Config) Options(g gol.Grid, out io.Writer) process.Options {
	return process.Options{
		Initial:     g,
		Generations: c.Generations,
		Timeout:     time.Duration(c.Timeout) * time.Second,
		Printer:     gol.NewPrinter(out, c.Colour),
	}
}

// SaveBoard writes g to the save file, if one is set
func (c *Config) SaveBoard(g gol.Grid) error {
	if c.Save == "" {
		return nil
	}
	return gol.SaveBoard(c.Save, g)
}
