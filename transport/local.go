package transport

import (
	"context"
	"fmt"
	"sync"
)

// Shared state of an in-process run
type localWorld struct {
	size  int
	boxes [][]chan Message // boxes[src][dest], unbuffered so sends rendezvous
	done  []chan struct{}  // closed when a rank closes its comm
	once  []sync.Once
}

type localComm struct {
	world *localWorld
	rank  int
}

// NewLocal connects size in-process ranks with unbuffered channels.
// Element i of the returned slice is the Comm for rank i
func NewLocal(size int) []Comm {
	world := &localWorld{
		size:  size,
		boxes: make([][]chan Message, size),
		done:  make([]chan struct{}, size),
		once:  make([]sync.Once, size),
	}
	for src := 0; src != size; src++ {
		world.boxes[src] = make([]chan Message, size)
		for dest := 0; dest != size; dest++ {
			world.boxes[src][dest] = make(chan Message)
		}
		world.done[src] = make(chan struct{})
	}

	comms := make([]Comm, size)
	for rank := range comms {
		comms[rank] = &localComm{world: world, rank: rank}
	}
	return comms
}

func (c *localComm) Rank() int { return c.rank }

func (c *localComm) Size() int { return c.world.size }

func (c *localComm) check(peer int) error {
	if peer < 0 || peer >= c.world.size || peer == c.rank {
		return fmt.Errorf("%w: rank %d of %d", ErrBadRank, peer, c.world.size)
	}
	return nil
}

func (c *localComm) Send(ctx context.Context, dest int, msg Message) error {
	if err := c.check(dest); err != nil {
		return err
	}
	select {
	case c.world.boxes[c.rank][dest] <- msg:
		return nil
	case <-c.world.done[c.rank]:
		return ErrClosed
	case <-c.world.done[dest]:
		return fmt.Errorf("%w: rank %d", ErrClosed, dest)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *localComm) Receive(ctx context.Context, src int) (Message, error) {
	if err := c.check(src); err != nil {
		return Message{}, err
	}
	select {
	case msg := <-c.world.boxes[src][c.rank]:
		return msg, nil
	case <-c.world.done[c.rank]:
		return Message{}, ErrClosed
	case <-c.world.done[src]:
		return Message{}, fmt.Errorf("%w: rank %d", ErrClosed, src)
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (c *localComm) Close() error {
	c.world.once[c.rank].Do(func() { close(c.world.done[c.rank]) })
	return nil
}
