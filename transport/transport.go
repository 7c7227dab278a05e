// Package transport provides blocking point-to-point message passing between
// the ranks of a run. Rank 0 is the coordinator, ranks 1..Size()-1 are workers
package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
)

// Kind is the one-byte type prefix of every message
type Kind byte

// Message type enumerations
const (
	KindHello Kind = iota
	KindStrip
	KindResult
	KindStop
)

func (k Kind) String() string {
	switch k {
	case KindHello:
		return "hello"
	case KindStrip:
		return "strip"
	case KindResult:
		return "result"
	case KindStop:
		return "stop"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

// Message is one unit of communication between two ranks
type Message struct {
	Kind    Kind
	Payload []byte
}

// Comm is the communication capability handed to a process at startup
type Comm interface {
	// Rank returns the rank of this process
	Rank() int

	// Size returns the number of processes, coordinator included
	Size() int

	// Send blocks until dest has taken the message or ctx ends
	Send(ctx context.Context, dest int, msg Message) error

	// Receive blocks until a message from src arrives or ctx ends.
	// Messages from one source are delivered in the order they were sent
	Receive(ctx context.Context, src int) (Message, error)

	// Close releases the connections held by this rank
	Close() error
}

var (
	// ErrClosed reports a message exchange with a closed or lost peer
	ErrClosed = errors.New("transport closed")

	// ErrBadRank reports a rank the topology has no link to
	ErrBadRank = errors.New("no such rank")

	// ErrHandshake reports a worker that did not introduce itself properly
	ErrHandshake = errors.New("bad handshake")
)

// Hello payload: uvarint rank | uvarint size
func encodeHello(rank, size int) []byte {
	data := binary.AppendUvarint(nil, uint64(rank))
	return binary.AppendUvarint(data, uint64(size))
}

func decodeHello(msg Message) (rank, size int, err error) {
	if msg.Kind != KindHello {
		return 0, 0, fmt.Errorf("%w: got %v message", ErrHandshake, msg.Kind)
	}
	r, n := binary.Uvarint(msg.Payload)
	if n <= 0 {
		return 0, 0, fmt.Errorf("%w: bad rank", ErrHandshake)
	}
	s, m := binary.Uvarint(msg.Payload[n:])
	if m <= 0 || n+m != len(msg.Payload) {
		return 0, 0, fmt.Errorf("%w: bad size", ErrHandshake)
	}
	if r > 1<<20 || s > 1<<20 {
		return 0, 0, fmt.Errorf("%w: rank %d of %d out of range", ErrHandshake, r, s)
	}
	return int(r), int(s), nil
}
