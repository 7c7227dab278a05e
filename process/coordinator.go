package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"uk.ac.bris.cs/stripgol/gol"
	"uk.ac.bris.cs/stripgol/transport"
)

// Coordinator owns the master grid. Every generation it splits the grid into
// one strip per worker, hands them out and merges the results
type Coordinator struct {
	comm  transport.Comm
	opts  Options
	log   *slog.Logger
	final gol.Grid
}

// NewCoordinator returns the coordinator for rank 0 of comm
func NewCoordinator(comm transport.Comm, opts Options) (*Coordinator, error) {
	if comm.Rank() != 0 {
		return nil, fmt.Errorf("%w: coordinator needs rank 0, got %d", gol.ErrConfig, comm.Rank())
	}
	if comm.Size() < 2 {
		return nil, fmt.Errorf("%w: %d processes leave no workers", gol.ErrConfig, comm.Size())
	}
	if opts.Generations < 0 {
		return nil, fmt.Errorf("%w: %d generations", gol.ErrConfig, opts.Generations)
	}
	return &Coordinator{comm: comm, opts: opts, log: opts.logger(0)}, nil
}

func (c *Coordinator) Role() Role { return RoleCoordinator }

// Workers returns the number of strips per generation
func (c *Coordinator) Workers() int {
	return c.comm.Size() - 1
}

// Final returns the grid left by the last completed Run
func (c *Coordinator) Final() gol.Grid {
	return c.final
}

// Bound ctx by the per-generation timeout, if any
func (c *Coordinator) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.Timeout > 0 {
		return context.WithTimeout(ctx, c.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// Turn a failed exchange with rank into a liveness fault where it is one
func unavailable(rank int, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, transport.ErrClosed) {
		return &WorkerUnavailableError{Rank: rank, Err: err}
	}
	return err
}

// Step computes the generation after g
func (c *Coordinator) Step(ctx context.Context, g gol.Grid) (gol.Grid, error) {

	workers := c.Workers()
	strips, err := gol.Split(g, workers)
	if err != nil {
		return gol.Grid{}, err
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	// Results are stored by strip index, whatever order they arrive in
	results := make([]gol.Result, workers)
	group, gctx := errgroup.WithContext(ctx)
	for i, strip := range strips {
		rank := i + 1
		group.Go(func() error {
			payload, err := gol.EncodeStrip(strip)
			if err != nil {
				return err
			}
			if err := c.comm.Send(gctx, rank, transport.Message{Kind: transport.KindStrip, Payload: payload}); err != nil {
				return unavailable(rank, err)
			}
			c.log.Debug("strip sent", "strip", i, "bytes", len(payload))

			msg, err := c.comm.Receive(gctx, rank)
			if err != nil {
				return unavailable(rank, err)
			}
			if msg.Kind != transport.KindResult {
				return fmt.Errorf("%w: rank %d sent a %v message", gol.ErrMalformedPayload, rank, msg.Kind)
			}
			result, err := gol.DecodeResult(msg.Payload)
			if err != nil {
				return fmt.Errorf("result from rank %d: %w", rank, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return gol.Grid{}, err
	}
	return gol.Merge(g.Height, g.Width, results)
}

// Evolve computes n generations from g, reusing the same strip layout
func (c *Coordinator) Evolve(ctx context.Context, g gol.Grid, n int) (gol.Grid, error) {

	if _, err := gol.StripLayout(g.Width, c.Workers()); err != nil {
		return gol.Grid{}, err
	}

	for generation := 1; generation <= n; generation++ {
		start := time.Now()
		next, err := c.Step(ctx, g)
		if err != nil {
			return gol.Grid{}, fmt.Errorf("generation %d: %w", generation, err)
		}
		g = next
		c.log.Info("generation complete", "generation", generation, "alive", g.Alive(), "elapsed", time.Since(start))
	}
	return g, nil
}

// Run prints the initial board, evolves it, prints the separator and the
// final board, then stops every worker
func (c *Coordinator) Run(ctx context.Context) error {

	g := c.opts.Initial

	// Fail before any message if the grid cannot be laid out
	if _, err := gol.StripLayout(g.Width, c.Workers()); err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}
	c.log.Info("run started", "height", g.Height, "width", g.Width,
		"workers", c.Workers(), "generations", c.opts.Generations)

	if err := c.print(g); err != nil {
		return err
	}

	final, err := c.Evolve(ctx, g, c.opts.Generations)
	if err != nil {
		return err
	}
	c.final = final

	if c.opts.Printer != nil {
		if err := c.opts.Printer.Separator(); err != nil {
			return err
		}
	}
	if err := c.print(final); err != nil {
		return err
	}
	return c.stop(ctx)
}

func (c *Coordinator) print(g gol.Grid) error {
	if c.opts.Printer == nil {
		return nil
	}
	return c.opts.Printer.Board(g)
}

// Tell every worker the run is over
func (c *Coordinator) stop(ctx context.Context) error {

	ctx, cancel := c.bound(ctx)
	defer cancel()

	group, gctx := errgroup.WithContext(ctx)
	for rank := 1; rank <= c.Workers(); rank++ {
		group.Go(func() error {
			if err := c.comm.Send(gctx, rank, transport.Message{Kind: transport.KindStop}); err != nil {
				return unavailable(rank, err)
			}
			return nil
		})
	}
	return group.Wait()
}
