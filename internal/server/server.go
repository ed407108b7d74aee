// Package server assembles the full game server from its parts: catalog,
// account store, scenario scripts, message handler, TCP and WebSocket
// listeners, drone bots and the maintenance tickers. Embedders use it
// directly; cmd/gosettlersd is a thin wrapper.
package server

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gosettlers/server/internal/bot"
	"github.com/gosettlers/server/internal/catalog"
	"github.com/gosettlers/server/internal/config"
	"github.com/gosettlers/server/internal/game"
	"github.com/gosettlers/server/internal/handler"
	"github.com/gosettlers/server/internal/net"
	"github.com/gosettlers/server/internal/persist"
	"github.com/gosettlers/server/internal/scripting"
)

// Server is one running game server instance.
type Server struct {
	cfg *config.Config
	log *zap.Logger

	cat      *catalog.Catalog
	accounts persist.Store
	h        *handler.Handler
	srv      *net.Server
	ws       *net.WSServer

	stop chan struct{}
}

// StartServer boots a server from the config: opens the account store,
// loads scenario scripts, binds the listeners and starts the maintenance
// tickers. The returned server is accepting connections.
func StartServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	cat := catalog.New()
	if dir := cfg.Server.ScenarioScripts; dir != "" {
		if err := scripting.LoadScenarios(dir, cat, log); err != nil {
			return nil, err
		}
	}

	accounts, err := persist.Open(ctx, cfg.Database, cfg.Server.RequirePassword, log)
	if err != nil {
		return nil, fmt.Errorf("server: account store: %w", err)
	}

	h := handler.New(handler.Deps{
		Registry: game.NewRegistry(),
		Catalog:  cat,
		Accounts: accounts,
		Cfg:      cfg,
		Log:      log,
	})

	opt := net.Options{
		OutQueueSize: cfg.Network.OutQueueSize,
		WriteTimeout: cfg.Network.WriteTimeout,
		PingInterval: cfg.Network.PingInterval,
		PingSlack:    cfg.Network.PingSlack,
	}
	srv, err := net.NewServer(cfg.Network.BindAddress, h, opt, cfg.Server.MaxConnections, log)
	if err != nil {
		accounts.Close()
		return nil, fmt.Errorf("server: listen %s: %w", cfg.Network.BindAddress, err)
	}
	h.AttachConns(srv)
	h.SetBotSpawner(func(nickname, gameName string, seat int) {
		if _, err := bot.Join(srv, nickname, gameName, seat, cfg.Game.BotPause, log); err != nil {
			log.Warn("bot spawn failed", zap.String("game", gameName), zap.Error(err))
		}
	})

	s := &Server{
		cfg:      cfg,
		log:      log,
		cat:      cat,
		accounts: accounts,
		h:        h,
		srv:      srv,
		stop:     make(chan struct{}),
	}

	go srv.AcceptLoop()
	if addr := cfg.Network.WSBindAddr; addr != "" {
		s.ws = net.NewWSServer(addr, srv, log)
		go func() {
			if err := s.ws.ListenAndServe(); err != nil {
				log.Error("websocket listener failed", zap.Error(err))
			}
		}()
	}
	go s.tick()

	log.Info("server up",
		zap.String("name", cfg.Server.Name),
		zap.String("addr", srv.Addr().String()),
		zap.String("ws", cfg.Network.WSBindAddr))
	return s, nil
}

// RegisterScenario adds a scenario to the catalog. Must be called before
// clients ask for scenario info; intended for embedders, right after
// StartServer.
func (s *Server) RegisterScenario(sc *catalog.Scenario) error {
	return s.cat.AddScenario(sc)
}

// Addr returns the TCP listener's address, useful with a ":0" bind.
func (s *Server) Addr() string {
	return s.srv.Addr().String()
}

// ConnectLocal attaches an in-process client, for embedders and tests.
func (s *Server) ConnectLocal(name string) *net.LocalClient {
	return s.srv.ConnectLocal(name)
}

// tick drives the expiry sweep and the force-end-turn timer.
func (s *Server) tick() {
	sweep := s.cfg.Game.ExpireSweep
	if sweep <= 0 {
		sweep = time.Minute
	}
	t := time.NewTicker(sweep)
	defer t.Stop()
	for {
		select {
		case now := <-t.C:
			s.h.SweepExpired(now)
			s.h.ForceExpiredTurns(now)
		case <-s.stop:
			return
		}
	}
}

// Shutdown stops the listeners, drains the send queues for up to grace
// and closes every connection and the account store.
func (s *Server) Shutdown(grace time.Duration) {
	close(s.stop)
	if s.ws != nil {
		ctx, cancel := context.WithTimeout(context.Background(), grace)
		s.ws.Shutdown(ctx)
		cancel()
	}
	s.srv.Shutdown(grace)
	s.accounts.Close()
	s.log.Info("server stopped")
}
