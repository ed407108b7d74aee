// Package net owns the transports and per-connection plumbing: TCP frames,
// WebSocket frames, in-process pipes for robots, and the read/write/ping
// goroutines behind each connection.
package net

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/gosettlers/server/internal/message"
)

// transport carries one encoded message payload per frame, whatever the
// underlying medium.
type transport interface {
	ReadPayload() ([]byte, error)
	WritePayload(data []byte, deadline time.Time) error
	Close() error
	RemoteAddr() string
}

// Dispatcher consumes inbound traffic from connections. HandleMessage runs
// on the connection's read goroutine; anything slow belongs elsewhere.
type Dispatcher interface {
	HandleMessage(c *Conn, m message.Message)
	HandleDisconnect(c *Conn)
}

// Options are the per-connection tunables, taken from config.
type Options struct {
	OutQueueSize int
	WriteTimeout time.Duration
	PingInterval time.Duration // 0 disables keepalive pings
	PingSlack    time.Duration
}

// Conn is a single client connection. Inbound messages are decoded on the
// read goroutine and handed to the Dispatcher; outbound payloads go through
// OutQueue to a dedicated writer goroutine, so Send never blocks on I/O.
type Conn struct {
	ID uint64

	tr   transport
	d    Dispatcher
	opt  Options
	addr string

	OutQueue chan []byte

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	lastRx    atomic.Int64 // unix nano of the last inbound frame

	mu       sync.Mutex
	version  int
	feats    message.Features
	locale   language.Tag
	nickname string
	account  string
	authed   bool

	log *zap.Logger
}

func newConn(id uint64, tr transport, d Dispatcher, opt Options, log *zap.Logger) *Conn {
	c := &Conn{
		ID:       id,
		tr:       tr,
		d:        d,
		opt:      opt,
		addr:     tr.RemoteAddr(),
		OutQueue: make(chan []byte, opt.OutQueueSize),
		closeCh:  make(chan struct{}),
		locale:   language.Und,
		log:      log.With(zap.Uint64("conn", id)),
	}
	c.lastRx.Store(time.Now().UnixNano())
	return c
}

// Start launches the reader, writer and keepalive goroutines.
func (c *Conn) Start() {
	go c.readLoop()
	go c.writeLoop()
	if c.opt.PingInterval > 0 {
		go c.pingLoop()
	}
}

func (c *Conn) RemoteAddr() string { return c.addr }

// SetHandshake records the negotiated protocol version, feature set and
// locale from the VERSION exchange.
func (c *Conn) SetHandshake(version int, feats message.Features, locale language.Tag) {
	c.mu.Lock()
	c.version = version
	c.feats = feats
	c.locale = locale
	c.mu.Unlock()
}

// Version is 0 until the VERSION handshake completes.
func (c *Conn) Version() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

func (c *Conn) Features() message.Features {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feats
}

func (c *Conn) Locale() language.Tag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locale
}

func (c *Conn) Nickname() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nickname
}

// SetAuthenticated latches the connection's identity; the nickname cannot
// change afterwards.
func (c *Conn) SetAuthenticated(nickname, account string) {
	c.mu.Lock()
	c.nickname = nickname
	c.account = account
	c.authed = true
	c.mu.Unlock()
}

func (c *Conn) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authed
}

func (c *Conn) Account() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.account
}

// Send encodes and queues one message.
func (c *Conn) Send(m message.Message) {
	c.SendRaw(message.Encode(m))
}

// SendRaw queues a pre-encoded payload. Broadcasts encode once and fan the
// same bytes out to every member. Non-blocking: a full queue means the
// client stopped draining, so the connection is dropped.
func (c *Conn) SendRaw(data []byte) {
	if c.closed.Load() {
		return
	}
	select {
	case c.OutQueue <- data:
	default:
		c.log.Warn("out queue full, dropping slow connection")
		c.Close()
	}
}

// Close shuts the connection down. The Dispatcher's HandleDisconnect fires
// exactly once, from the read goroutine's exit path.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.closeCh)
		c.tr.Close()
	})
}

func (c *Conn) IsClosed() bool {
	return c.closed.Load()
}

// readLoop reads frames, decodes them and dispatches inline. Malformed
// payloads are logged and dropped; the connection survives them.
func (c *Conn) readLoop() {
	defer func() {
		c.Close()
		c.d.HandleDisconnect(c)
	}()

	for {
		select {
		case <-c.closeCh:
			return
		default:
		}

		payload, err := c.tr.ReadPayload()
		if err != nil {
			if !c.closed.Load() {
				c.log.Debug("read error", zap.Error(err))
			}
			return
		}
		c.lastRx.Store(time.Now().UnixNano())

		m, err := message.Decode(payload)
		if err != nil {
			c.log.Warn("bad payload dropped", zap.Error(err))
			continue
		}
		c.d.HandleMessage(c, m)
	}
}

// writeLoop drains OutQueue to the transport.
func (c *Conn) writeLoop() {
	defer c.Close()

	for {
		select {
		case data := <-c.OutQueue:
			deadline := time.Now().Add(c.opt.WriteTimeout)
			if err := c.tr.WritePayload(data, deadline); err != nil {
				if !c.closed.Load() {
					c.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-c.closeCh:
			return
		}
	}
}

// pingLoop sends a keepalive on each interval and drops connections that
// have been silent for a full interval plus slack. The slack absorbs clock
// skew and slow round trips so healthy clients are not logged as stale.
func (c *Conn) pingLoop() {
	t := time.NewTicker(c.opt.PingInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			idle := time.Since(time.Unix(0, c.lastRx.Load()))
			if idle > c.opt.PingInterval+c.opt.PingSlack {
				c.log.Info("idle connection timed out", zap.Duration("idle", idle))
				c.Close()
				return
			}
			c.Send(&message.ServerPing{SleepTime: int(c.opt.PingInterval / time.Millisecond)})
		case <-c.closeCh:
			return
		}
	}
}
