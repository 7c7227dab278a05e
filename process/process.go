// Package process runs the two roles of a strip-decomposed Game of Life
// generation over a transport.Comm: rank 0 coordinates, every other rank
// updates one strip per generation
package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"uk.ac.bris.cs/stripgol/gol"
	"uk.ac.bris.cs/stripgol/transport"
)

// Role of a process, fixed by its rank at startup
type Role int

// Role enumerations
const (
	RoleCoordinator Role = iota
	RoleWorker
)

func (r Role) String() string {
	if r == RoleCoordinator {
		return "coordinator"
	}
	return "worker"
}

// RoleOf returns the role taken by rank
func RoleOf(rank int) Role {
	if rank == 0 {
		return RoleCoordinator
	}
	return RoleWorker
}

// Process is one rank of a run
type Process interface {
	Role() Role
	Run(ctx context.Context) error
}

// Options configure a run. Only the coordinator reads Initial, Generations,
// Timeout and Printer
type Options struct {
	Initial     gol.Grid      // Board of generation 0
	Generations int           // Number of generations to compute
	Timeout     time.Duration // Bound on one generation, 0 waits forever
	Printer     *gol.Printer  // Nil disables board output
	Logger      *slog.Logger  // Nil uses slog.Default
}

func (opts Options) logger(rank int) *slog.Logger {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("rank", rank)
}

// ErrWorkerUnavailable matches every WorkerUnavailableError
var ErrWorkerUnavailable = errors.New("worker unavailable")

// WorkerUnavailableError reports a worker that did not take its strip or
// return its result in time, or whose connection was lost
type WorkerUnavailableError struct {
	Rank int
	Err  error
}

func (e *WorkerUnavailableError) Error() string {
	return fmt.Sprintf("worker %d unavailable: %v", e.Rank, e.Err)
}

func (e *WorkerUnavailableError) Is(target error) bool {
	return target == ErrWorkerUnavailable
}

func (e *WorkerUnavailableError) Unwrap() error {
	return e.Err
}

// New returns the process for the rank comm belongs to
func New(comm transport.Comm, opts Options) (Process, error) {
	if RoleOf(comm.Rank()) == RoleCoordinator {
		c, err := NewCoordinator(comm, opts)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	w, err := NewWorker(comm, opts)
	if err != nil {
		return nil, err
	}
	return w, nil
}
