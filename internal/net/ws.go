package net

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSServer exposes the same message protocol over WebSocket for browser
// clients. Each encoded message travels as one binary WebSocket frame; the
// 2-byte length header is unnecessary because WebSocket frames carry their
// own length.
type WSServer struct {
	srv *Server
	hs  *http.Server
	log *zap.Logger
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Game auth happens in-protocol, not at the HTTP layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewWSServer(bindAddr string, srv *Server, log *zap.Logger) *WSServer {
	w := &WSServer{srv: srv, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", w.handleUpgrade)
	w.hs = &http.Server{Addr: bindAddr, Handler: mux}
	return w
}

// ListenAndServe runs in its own goroutine until Shutdown.
func (w *WSServer) ListenAndServe() error {
	err := w.hs.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (w *WSServer) Shutdown(ctx context.Context) error {
	return w.hs.Shutdown(ctx)
}

func (w *WSServer) handleUpgrade(rw http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	w.srv.adopt(&wsTransport{ws: ws})
}

type wsTransport struct {
	ws *websocket.Conn
}

func (t *wsTransport) ReadPayload() ([]byte, error) {
	for {
		kind, data, err := t.ws.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind == websocket.BinaryMessage {
			return data, nil
		}
		// Text and control frames are not part of the protocol; skip them.
	}
}

func (t *wsTransport) WritePayload(data []byte, deadline time.Time) error {
	t.ws.SetWriteDeadline(deadline)
	return t.ws.WriteMessage(websocket.BinaryMessage, data)
}

func (t *wsTransport) Close() error {
	return t.ws.Close()
}

func (t *wsTransport) RemoteAddr() string {
	return t.ws.RemoteAddr().String()
}
