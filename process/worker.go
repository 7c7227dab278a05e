package process

import (
	"context"
	"fmt"
	"log/slog"

	"uk.ac.bris.cs/stripgol/gol"
	"uk.ac.bris.cs/stripgol/transport"
)

// Worker updates the strip it is handed each generation and returns the
// result to the coordinator
type Worker struct {
	comm transport.Comm
	log  *slog.Logger
	done int // generations computed
}

// NewWorker returns the worker for a non-zero rank of comm
func NewWorker(comm transport.Comm, opts Options) (*Worker, error) {
	if comm.Rank() < 1 || comm.Rank() >= comm.Size() {
		return nil, fmt.Errorf("%w: worker rank %d of %d", gol.ErrConfig, comm.Rank(), comm.Size())
	}
	return &Worker{comm: comm, log: opts.logger(comm.Rank())}, nil
}

func (w *Worker) Role() Role { return RoleWorker }

// Generations returns the number of strips the worker has updated
func (w *Worker) Generations() int {
	return w.done
}

// Run serves strips from the coordinator until it sends a stop message.
// A strip that cannot be decoded or updated ends the worker with the error
func (w *Worker) Run(ctx context.Context) error {

	for {
		msg, err := w.comm.Receive(ctx, 0)
		if err != nil {
			return err
		}

		switch msg.Kind {
		case transport.KindStop:
			w.log.Info("stopped", "generations", w.done)
			return nil
		case transport.KindStrip:
		default:
			return fmt.Errorf("%w: unexpected %v message", gol.ErrMalformedPayload, msg.Kind)
		}

		// Decode, update and send back
		strip, err := gol.DecodeStrip(msg.Payload)
		if err != nil {
			return err
		}
		result, err := gol.Update(strip)
		if err != nil {
			return err
		}
		payload, err := gol.EncodeResult(result)
		if err != nil {
			return err
		}
		if err := w.comm.Send(ctx, 0, transport.Message{Kind: transport.KindResult, Payload: payload}); err != nil {
			return err
		}
		w.done++
		w.log.Debug("strip updated", "strip", strip.Index, "generation", w.done)
	}
}
