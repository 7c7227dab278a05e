package transport

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"
)

const (
	// Largest payload accepted from the network
	maxPayload = 64 << 20

	// Time a new connection has to introduce itself
	handshakeTimeout = 10 * time.Second

	// Pause between attempts to reach the coordinator
	redialInterval = time.Second
)

// A link carries messages to and from one remote rank
type link interface {
	writeMessage(ctx context.Context, msg Message) error
	readMessage() (Message, error)
	setReadDeadline(t time.Time) error
	Close() error
	String() string
}

// Structure representing the connection to one remote rank
type peer struct {
	rank  int
	link  link
	mutex sync.Mutex // synchronise writing functions
	inbox chan Message
	done  chan struct{}
	err   error // read error, valid once inbox is closed
}

func newPeer(rank int, l link) *peer {
	p := &peer{
		rank:  rank,
		link:  l,
		inbox: make(chan Message),
		done:  make(chan struct{}),
	}
	go p.monitor()
	return p
}

// Repeatedly read messages from the link until it fails or the peer is closed
func (p *peer) monitor() {

	defer close(p.inbox)

	for {
		msg, err := p.link.readMessage()
		if err != nil {
			p.err = err
			select {
			case <-p.done:
			default:
				slog.Debug("link closed", "rank", p.rank, "addr", p.link.String(), "err", err)
			}
			return
		}
		select {
		case p.inbox <- msg:
		case <-p.done:
			return
		}
	}
}

// Star topology: the coordinator holds one peer per worker, a worker holds
// a single peer for the coordinator
type star struct {
	rank  int
	size  int
	peers map[int]*peer
	once  sync.Once
}

func newStar(rank, size int) *star {
	return &star{rank: rank, size: size, peers: make(map[int]*peer)}
}

func (s *star) Rank() int { return s.rank }

func (s *star) Size() int { return s.size }

func (s *star) peer(rank int) (*peer, error) {
	p, ok := s.peers[rank]
	if !ok {
		return nil, fmt.Errorf("%w: rank %d has no link to rank %d", ErrBadRank, s.rank, rank)
	}
	return p, nil
}

// Send writes the message to the peer's connection. The context deadline
// bounds the write and cancellation interrupts it; a peer whose write was cut
// short is left with a partial frame and should be closed
func (s *star) Send(ctx context.Context, dest int, msg Message) error {
	p, err := s.peer(dest)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if err := p.link.writeMessage(ctx, msg); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: rank %d: %v", ErrClosed, dest, err)
	}
	return nil
}

func (s *star) Receive(ctx context.Context, src int) (Message, error) {
	p, err := s.peer(src)
	if err != nil {
		return Message{}, err
	}
	select {
	case msg, ok := <-p.inbox:
		if !ok {
			return Message{}, fmt.Errorf("%w: rank %d: %v", ErrClosed, src, p.err)
		}
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (s *star) Close() error {
	var first error
	s.once.Do(func() {
		for _, p := range s.peers {
			close(p.done)
			if err := p.link.Close(); err != nil && first == nil {
				first = err
			}
		}
	})
	return first
}

// Outcome of a worker introducing itself
type hello struct {
	rank int
	link link
	err  error
}

// Read and check the hello message of a newly connected worker
func handshake(l link, size int) hello {
	l.setReadDeadline(time.Now().Add(handshakeTimeout))
	defer l.setReadDeadline(time.Time{})

	msg, err := l.readMessage()
	if err != nil {
		return hello{link: l, err: fmt.Errorf("%w: %v", ErrHandshake, err)}
	}
	rank, claimed, err := decodeHello(msg)
	if err != nil {
		return hello{link: l, err: err}
	}
	if claimed != size {
		return hello{link: l, err: fmt.Errorf("%w: worker expects %d processes, coordinator has %d", ErrHandshake, claimed, size)}
	}
	if rank < 1 || rank >= size {
		return hello{link: l, err: fmt.Errorf("%w: worker rank %d of %d", ErrBadRank, rank, size)}
	}
	return hello{rank: rank, link: l}
}

// Collect one link for every worker rank
func collect(ctx context.Context, size int, hellos <-chan hello) (*star, error) {

	s := newStar(0, size)
	for len(s.peers) != size-1 {
		select {
		case h := <-hellos:
			if h.err != nil {
				slog.Warn("worker rejected", "addr", h.link.String(), "err", h.err)
				h.link.Close()
				continue
			}
			if _, ok := s.peers[h.rank]; ok {
				slog.Warn("worker rejected", "addr", h.link.String(), "rank", h.rank, "err", "rank already registered")
				h.link.Close()
				continue
			}
			s.peers[h.rank] = newPeer(h.rank, h.link)
			slog.Info("worker registered", "rank", h.rank, "addr", h.link.String())
		case <-ctx.Done():
			s.Close()
			return nil, ctx.Err()
		}
	}
	return s, nil
}

// Introduce this worker to the coordinator over an established link
func join(ctx context.Context, l link, rank, size int) (Comm, error) {
	err := l.writeMessage(ctx, Message{Kind: KindHello, Payload: encodeHello(rank, size)})
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("%w: %v", ErrHandshake, err)
	}
	s := newStar(rank, size)
	s.peers[0] = newPeer(0, l)
	slog.Info("registered with coordinator", "rank", rank, "addr", l.String())
	return s, nil
}

func checkWorkerRank(rank, size int) error {
	if rank < 1 || rank >= size {
		return fmt.Errorf("%w: worker rank %d of %d", ErrBadRank, rank, size)
	}
	return nil
}

// Keep trying to reach the coordinator until dial succeeds or ctx ends
func redial[T any](ctx context.Context, addr string, dial func(context.Context) (T, error)) (T, error) {
	for {
		conn, err := dial(ctx)
		if err == nil {
			return conn, nil
		}
		slog.Info("coordinator not reachable", "addr", addr, "err", err)
		select {
		case <-time.After(redialInterval):
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Frames on a TCP link: kind byte | uvarint payload length | payload
type tcpLink struct {
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
}

func newTCPLink(conn net.Conn) *tcpLink {
	return &tcpLink{
		conn:   conn,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
	}
}

func (l *tcpLink) writeMessage(ctx context.Context, msg Message) error {

	deadline, _ := ctx.Deadline()
	if err := l.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}

	// Cancellation expires the deadline so a blocked write returns
	stop := context.AfterFunc(ctx, func() { l.conn.SetWriteDeadline(time.Now()) })
	defer stop()

	// Write type of message
	if err := l.writer.WriteByte(byte(msg.Kind)); err != nil {
		return err
	}

	// Write length of payload
	var lengthBytes [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lengthBytes[:], uint64(len(msg.Payload)))
	if _, err := l.writer.Write(lengthBytes[:n]); err != nil {
		return err
	}

	// Write payload
	if _, err := l.writer.Write(msg.Payload); err != nil {
		return err
	}
	return l.writer.Flush()
}

func (l *tcpLink) readMessage() (Message, error) {
	kind, err := l.reader.ReadByte()
	if err != nil {
		return Message{}, err
	}
	length, err := binary.ReadUvarint(l.reader)
	if err != nil {
		return Message{}, err
	}
	if length > maxPayload {
		return Message{}, fmt.Errorf("payload of %d bytes exceeds %d", length, maxPayload)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(l.reader, payload); err != nil {
		return Message{}, err
	}
	return Message{Kind: Kind(kind), Payload: payload}, nil
}

func (l *tcpLink) setReadDeadline(t time.Time) error {
	return l.conn.SetReadDeadline(t)
}

func (l *tcpLink) Close() error {
	return l.conn.Close()
}

func (l *tcpLink) String() string {
	return l.conn.RemoteAddr().String()
}

// AcceptTCP waits on ln until every worker rank of a size-process run has
// connected and introduced itself, and returns the coordinator's Comm.
// ln is closed on return
func AcceptTCP(ctx context.Context, ln net.Listener, size int) (Comm, error) {

	hellos := make(chan hello)
	stop := make(chan struct{})
	defer close(stop)
	defer ln.Close()

	// Accept connection requests from worker nodes
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				h := handshake(newTCPLink(conn), size)
				select {
				case hellos <- h:
				case <-stop:
					conn.Close()
				}
			}()
		}
	}()

	slog.Info("waiting for workers", "addr", ln.Addr().String(), "workers", size-1)
	return collect(ctx, size, hellos)
}

// DialTCP connects worker rank to the coordinator at addr, retrying until
// the coordinator answers or ctx ends
func DialTCP(ctx context.Context, addr string, rank, size int) (Comm, error) {

	if err := checkWorkerRank(rank, size); err != nil {
		return nil, err
	}

	var dialer net.Dialer
	conn, err := redial(ctx, addr, func(ctx context.Context) (net.Conn, error) {
		return dialer.DialContext(ctx, "tcp", addr)
	})
	if err != nil {
		return nil, err
	}
	return join(ctx, newTCPLink(conn), rank, size)
}
