package net

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/gosettlers/server/internal/message"
)

// Server accepts TCP connections, wraps them into Conns and keeps the live
// connection registry. WebSocket and in-process connections register
// through the same registry so server-wide broadcasts reach everyone.
type Server struct {
	listener net.Listener
	nextID   atomic.Uint64
	d        Dispatcher
	opt      Options
	maxConns int

	mu    sync.Mutex
	conns map[uint64]*Conn

	closeCh chan struct{}
	log     *zap.Logger
}

func NewServer(bindAddr string, d Dispatcher, opt Options, maxConns int, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: ln,
		d:        d,
		opt:      opt,
		maxConns: maxConns,
		conns:    make(map[uint64]*Conn),
		closeCh:  make(chan struct{}),
		log:      log,
	}, nil
}

// AcceptLoop runs in its own goroutine until Shutdown.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}
		s.adopt(&tcpTransport{conn: conn})
	}
}

// adopt registers a transport as a live connection and starts its
// goroutines. Shared by the TCP, WebSocket and local entry points.
func (s *Server) adopt(tr transport) *Conn {
	if s.maxConns > 0 && s.Count() >= s.maxConns {
		s.log.Warn("connection limit reached, rejecting", zap.String("addr", tr.RemoteAddr()))
		tr.Close()
		return nil
	}

	id := s.nextID.Add(1)
	c := newConn(id, tr, s.tracked(), s.opt, s.log)

	s.mu.Lock()
	s.conns[id] = c
	s.mu.Unlock()

	s.log.Info("client connected", zap.Uint64("conn", id), zap.String("addr", c.RemoteAddr()))
	c.Start()
	return c
}

// tracked wraps the dispatcher so the registry drops connections on
// disconnect before the application sees the event.
func (s *Server) tracked() Dispatcher {
	return &trackedDispatcher{s: s}
}

type trackedDispatcher struct {
	s *Server
}

func (t *trackedDispatcher) HandleMessage(c *Conn, m message.Message) {
	t.s.d.HandleMessage(c, m)
}

func (t *trackedDispatcher) HandleDisconnect(c *Conn) {
	t.s.mu.Lock()
	delete(t.s.conns, c.ID)
	t.s.mu.Unlock()
	t.s.log.Info("client disconnected", zap.Uint64("conn", c.ID))
	t.s.d.HandleDisconnect(c)
}

func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// ForEach calls fn for every live connection. Used by server-wide text
// broadcasts and the admin shutdown notice.
func (s *Server) ForEach(fn func(*Conn)) {
	s.mu.Lock()
	list := make([]*Conn, 0, len(s.conns))
	for _, c := range s.conns {
		list = append(list, c)
	}
	s.mu.Unlock()
	for _, c := range list {
		fn(c)
	}
}

// Addr returns the TCP listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Shutdown stops accepting and closes every live connection. Waits up to
// grace for writer queues to drain before the close.
func (s *Server) Shutdown(grace time.Duration) {
	close(s.closeCh)
	s.listener.Close()

	deadline := time.Now().Add(grace)
	s.ForEach(func(c *Conn) {
		for len(c.OutQueue) > 0 && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		c.Close()
	})
}

// tcpTransport frames payloads over a TCP stream.
type tcpTransport struct {
	conn net.Conn
}

func (t *tcpTransport) ReadPayload() ([]byte, error) {
	return ReadFrame(t.conn)
}

func (t *tcpTransport) WritePayload(data []byte, deadline time.Time) error {
	t.conn.SetWriteDeadline(deadline)
	return WriteFrame(t.conn, data)
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

func (t *tcpTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}
