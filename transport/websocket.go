package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketPath is the endpoint workers connect to
const WebSocketPath = "/ws"

// WebSocketURL returns the URL of the coordinator endpoint at addr
func WebSocketURL(addr string) string {
	return "ws://" + addr + WebSocketPath
}

// One binary WebSocket message per Message: kind byte | payload
type wsLink struct {
	conn *websocket.Conn
}

func newWSLink(conn *websocket.Conn) *wsLink {
	conn.SetReadLimit(maxPayload + 1)
	return &wsLink{conn: conn}
}

func (l *wsLink) writeMessage(ctx context.Context, msg Message) error {
	deadline, _ := ctx.Deadline()
	if err := l.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}

	// The websocket writer resets the socket deadline on every frame, so
	// cancellation closes the socket instead
	stop := context.AfterFunc(ctx, func() { l.conn.UnderlyingConn().Close() })
	defer stop()

	data := make([]byte, 0, len(msg.Payload)+1)
	data = append(data, byte(msg.Kind))
	data = append(data, msg.Payload...)
	return l.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (l *wsLink) readMessage() (Message, error) {
	typ, data, err := l.conn.ReadMessage()
	if err != nil {
		return Message{}, err
	}
	if typ != websocket.BinaryMessage || len(data) == 0 {
		return Message{}, errors.New("expected a non-empty binary message")
	}
	return Message{Kind: Kind(data[0]), Payload: data[1:]}, nil
}

func (l *wsLink) setReadDeadline(t time.Time) error {
	return l.conn.SetReadDeadline(t)
}

func (l *wsLink) Close() error {
	l.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return l.conn.Close()
}

func (l *wsLink) String() string {
	return l.conn.RemoteAddr().String()
}

// AcceptWebSocket serves WebSocketPath on ln until every worker rank of a
// size-process run has connected and introduced itself, and returns the
// coordinator's Comm. The HTTP server and ln are closed on return; the
// upgraded connections stay open
func AcceptWebSocket(ctx context.Context, ln net.Listener, size int) (Comm, error) {

	hellos := make(chan hello)
	stop := make(chan struct{})
	defer close(stop)

	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc(WebSocketPath, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "addr", r.RemoteAddr, "err", err)
			return
		}
		h := handshake(newWSLink(conn), size)
		select {
		case hellos <- h:
		case <-stop:
			h.link.Close()
		}
	})

	server := &http.Server{Handler: mux}
	defer server.Close()
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("websocket server stopped", "err", err)
		}
	}()

	slog.Info("waiting for workers", "addr", ln.Addr().String(), "path", WebSocketPath, "workers", size-1)
	return collect(ctx, size, hellos)
}

// DialWebSocket connects worker rank to the coordinator endpoint at url,
// retrying until the coordinator answers or ctx ends
func DialWebSocket(ctx context.Context, url string, rank, size int) (Comm, error) {

	if err := checkWorkerRank(rank, size); err != nil {
		return nil, err
	}

	conn, err := redial(ctx, url, func(ctx context.Context) (*websocket.Conn, error) {
		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil && resp != nil {
			err = fmt.Errorf("%w (HTTP %s)", err, resp.Status)
		}
		return conn, err
	})
	if err != nil {
		return nil, err
	}
	return join(ctx, newWSLink(conn), rank, size)
}
