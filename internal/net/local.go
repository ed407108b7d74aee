package net

import (
	"errors"
	"time"

	"github.com/gosettlers/server/internal/message"
)

// ErrLocalClosed is returned by LocalClient calls after either end closes.
var ErrLocalClosed = errors.New("net: local connection closed")

// localTransport is the server end of an in-process connection. Robots and
// tests speak the full protocol through it without a socket.
type localTransport struct {
	in     chan []byte // client -> server
	out    chan []byte // server -> client
	closed chan struct{}
	name   string
}

func (t *localTransport) ReadPayload() ([]byte, error) {
	select {
	case data, ok := <-t.in:
		if !ok {
			return nil, ErrLocalClosed
		}
		return data, nil
	case <-t.closed:
		return nil, ErrLocalClosed
	}
}

func (t *localTransport) WritePayload(data []byte, _ time.Time) error {
	select {
	case t.out <- data:
		return nil
	case <-t.closed:
		return ErrLocalClosed
	}
}

func (t *localTransport) Close() error {
	select {
	case <-t.closed:
	default:
		close(t.closed)
	}
	return nil
}

func (t *localTransport) RemoteAddr() string {
	return "local:" + t.name
}

// LocalClient is the client end of an in-process connection.
type LocalClient struct {
	tr *localTransport
}

// ConnectLocal attaches an in-process connection to the server, as if a
// client with the given name had connected. Returns nil when the server is
// at its connection limit.
func (s *Server) ConnectLocal(name string) *LocalClient {
	tr := &localTransport{
		in:     make(chan []byte, 64),
		out:    make(chan []byte, 64),
		closed: make(chan struct{}),
		name:   name,
	}
	if s.adopt(tr) == nil {
		return nil
	}
	return &LocalClient{tr: tr}
}

// Send delivers one message to the server. Blocks if the server's read
// side is behind, mirroring TCP backpressure.
func (c *LocalClient) Send(m message.Message) error {
	select {
	case c.tr.in <- message.Encode(m):
		return nil
	case <-c.tr.closed:
		return ErrLocalClosed
	}
}

// Recv blocks until the server sends a message or the timeout passes.
func (c *LocalClient) Recv(timeout time.Duration) (message.Message, error) {
	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}
	select {
	case data := <-c.tr.out:
		return message.Decode(data)
	case <-c.tr.closed:
		return nil, ErrLocalClosed
	case <-timer:
		return nil, errors.New("net: recv timeout")
	}
}

// TryRecv returns the next pending message without blocking, or nil.
func (c *LocalClient) TryRecv() (message.Message, error) {
	select {
	case data := <-c.tr.out:
		return message.Decode(data)
	default:
		return nil, nil
	}
}

func (c *LocalClient) Close() {
	c.tr.Close()
}
