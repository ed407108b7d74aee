package net

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gosettlers/server/internal/message"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0x01, 0x02, 0x03, 0x04}

	require.NoError(t, WriteFrame(&buf, payload))
	assert.Equal(t, []byte{6, 0}, buf.Bytes()[:2], "length includes the header")

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFrameInvalidLength(t *testing.T) {
	// Declared length smaller than the header itself.
	_, err := ReadFrame(bytes.NewReader([]byte{1, 0}))
	assert.Error(t, err)

	// Header promises more payload than the stream holds.
	_, err = ReadFrame(bytes.NewReader([]byte{10, 0, 0xAA}))
	assert.Error(t, err)
}

type testDispatcher struct {
	msgs chan message.Message
	gone chan *Conn
}

func newTestDispatcher() *testDispatcher {
	return &testDispatcher{
		msgs: make(chan message.Message, 16),
		gone: make(chan *Conn, 16),
	}
}

func (d *testDispatcher) HandleMessage(c *Conn, m message.Message) {
	d.msgs <- m
	if _, ok := m.(*message.RollDice); ok {
		c.Send(&message.StatusMessage{Code: message.StatusOK})
	}
}

func (d *testDispatcher) HandleDisconnect(c *Conn) {
	d.gone <- c
}

func testServer(t *testing.T, d Dispatcher) *Server {
	t.Helper()
	opt := Options{OutQueueSize: 16, WriteTimeout: time.Second}
	s, err := NewServer("127.0.0.1:0", d, opt, 0, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Shutdown(time.Second) })
	return s
}

func TestLocalConnDispatch(t *testing.T) {
	d := newTestDispatcher()
	s := testServer(t, d)

	cli := s.ConnectLocal("test")
	require.NotNil(t, cli)
	assert.Equal(t, 1, s.Count())

	require.NoError(t, cli.Send(&message.RollDice{Game: "g"}))

	got := <-d.msgs
	roll, ok := got.(*message.RollDice)
	require.True(t, ok)
	assert.Equal(t, "g", roll.Game)

	reply, err := cli.Recv(time.Second)
	require.NoError(t, err)
	st, ok := reply.(*message.StatusMessage)
	require.True(t, ok)
	assert.Equal(t, message.StatusOK, st.Code)
}

func TestDisconnectNotifiesOnce(t *testing.T) {
	d := newTestDispatcher()
	s := testServer(t, d)

	cli := s.ConnectLocal("test")
	require.NotNil(t, cli)
	cli.Close()

	select {
	case <-d.gone:
	case <-time.After(time.Second):
		t.Fatal("no disconnect notification")
	}
	assert.Eventually(t, func() bool { return s.Count() == 0 }, time.Second, 10*time.Millisecond)

	select {
	case <-d.gone:
		t.Fatal("disconnect delivered twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestConnectionLimit(t *testing.T) {
	d := newTestDispatcher()
	opt := Options{OutQueueSize: 16, WriteTimeout: time.Second}
	s, err := NewServer("127.0.0.1:0", d, opt, 1, zap.NewNop())
	require.NoError(t, err)
	defer s.Shutdown(time.Second)

	first := s.ConnectLocal("a")
	require.NotNil(t, first)
	assert.Nil(t, s.ConnectLocal("b"), "second connection exceeds the limit")
}

func TestHandshakeState(t *testing.T) {
	d := newTestDispatcher()
	s := testServer(t, d)
	cli := s.ConnectLocal("test")
	require.NotNil(t, cli)

	require.NoError(t, cli.Send(&message.Version{Number: 2700}))
	<-d.msgs
	var conn *Conn
	s.ForEach(func(c *Conn) { conn = c })
	require.NotNil(t, conn)

	assert.Equal(t, 0, conn.Version(), "unset before the handshake is recorded")
	assert.False(t, conn.Authenticated())

	conn.SetAuthenticated("alice", "acct")
	assert.True(t, conn.Authenticated())
	assert.Equal(t, "alice", conn.Nickname())
}
