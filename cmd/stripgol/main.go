// Command stripgol computes Game of Life generations by splitting the board
// into vertical strips, one per worker process
package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/logx"
	"cogentcore.org/core/cli"
	"golang.org/x/sync/errgroup"

	"uk.ac.bris.cs/stripgol/process"
	"uk.ac.bris.cs/stripgol/transport"
)

func main() {
	opts := cli.DefaultOptions("stripgol", "Strip-decomposed Game of Life over a coordinator and worker processes.")
	opts.DefaultFiles = []string{"stripgol.toml"}
	cli.Run(opts, &Config{}, Local, Coordinator, Worker)
}

// Log to stderr at the verbosity chosen on the command line
func setupLogging() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logx.UserLevel})
	slog.SetDefault(slog.New(handler))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// Local runs the coordinator and every worker in this process
func Local(c *Config) error {
	setupLogging()
	ctx, cancel := signalContext()
	defer cancel()
	return c.runLocal(ctx, os.Stdout)
}

// Coordinator waits for the workers to connect and runs rank 0
func Coordinator(c *Config) error {
	setupLogging()
	ctx, cancel := signalContext()
	defer cancel()

	if err := c.Validate(); err != nil {
		return err
	}
	if err := c.validateTransport(); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return err
	}
	return c.serve(ctx, ln, os.Stdout)
}

// Worker connects to the coordinator and serves strips until stopped
func Worker(c *Config) error {
	setupLogging()
	ctx, cancel := signalContext()
	defer cancel()
	return c.runWorker(ctx)
}

func (c *Config) runLocal(ctx context.Context, out io.Writer) error {

	if err := c.Validate(); err != nil {
		return err
	}
	g, err := c.InitialBoard()
	if err != nil {
		return err
	}

	var coordinator *process.Coordinator
	group, gctx := errgroup.WithContext(ctx)
	for _, comm := range transport.NewLocal(c.Processes) {
		proc, err := process.New(comm, c.Options(g, out))
		if err != nil {
			return err
		}
		if p, ok := proc.(*process.Coordinator); ok {
			coordinator = p
		}
		group.Go(func() error {
			defer func() { errors.Log(comm.Close()) }()
			return proc.Run(gctx)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return c.SaveBoard(coordinator.Final())
}

// Run the coordinator over the workers that connect to ln
func (c *Config) serve(ctx context.Context, ln net.Listener, out io.Writer) error {

	g, err := c.InitialBoard()
	if err != nil {
		ln.Close()
		return err
	}

	var comm transport.Comm
	if c.Transport == TransportWebSocket {
		comm, err = transport.AcceptWebSocket(ctx, ln, c.Processes)
	} else {
		comm, err = transport.AcceptTCP(ctx, ln, c.Processes)
	}
	if err != nil {
		return err
	}
	defer func() { errors.Log(comm.Close()) }()

	coordinator, err := process.NewCoordinator(comm, c.Options(g, out))
	if err != nil {
		return err
	}
	if err := coordinator.Run(ctx); err != nil {
		return err
	}
	return c.SaveBoard(coordinator.Final())
}

func (c *Config) runWorker(ctx context.Context) error {

	if err := c.ValidateWorker(); err != nil {
		return err
	}

	var comm transport.Comm
	var err error
	if c.Transport == TransportWebSocket {
		comm, err = transport.DialWebSocket(ctx, transport.WebSocketURL(c.Addr), c.Rank, c.Processes)
	} else {
		comm, err = transport.DialTCP(ctx, c.Addr, c.Rank, c.Processes)
	}
	if err != nil {
		return err
	}
	defer func() { errors.Log(comm.Close()) }()

	worker, err := process.NewWorker(comm, process.Options{})
	if err != nil {
		return err
	}
	return worker.Run(ctx)
}
