// Package handler is the application layer between the network and the
// rules core. It authenticates connections, runs the lobby, and drives
// each game's state machine under the game lock, fanning the results out
// to the table's members in each client's protocol dialect.
package handler

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/gosettlers/server/internal/catalog"
	"github.com/gosettlers/server/internal/config"
	"github.com/gosettlers/server/internal/game"
	"github.com/gosettlers/server/internal/message"
	"github.com/gosettlers/server/internal/net"
	"github.com/gosettlers/server/internal/persist"
)

// nowFunc is swapped out by turn-timer tests.
var nowFunc = time.Now

// ConnSet enumerates the live connections for lobby-wide broadcasts.
// *net.Server satisfies it.
type ConnSet interface {
	ForEach(fn func(*net.Conn))
}

// Deps are the handler's collaborators, wired at boot.
type Deps struct {
	Registry *game.Registry
	Catalog  *catalog.Catalog
	Accounts persist.Store
	Cfg      *config.Config
	Log      *zap.Logger
}

// table pairs a game with its connection membership and the option string
// it was created from. Membership is guarded by the handler mutex; the
// rest only changes under the game lock.
type table struct {
	name    string
	g       *game.Game
	optsStr string
	minVer  int

	members []*net.Conn

	vote        *resetVote
	turnStarted time.Time

	// Start deferred until awaiting spawned drones have sat down.
	pendingStart *net.Conn
	awaiting     int
}

// Handler implements net.Dispatcher. Lock order: the game lock comes
// first; the handler mutex is leaf-level and guards only the table map
// and membership lists.
type Handler struct {
	reg      *game.Registry
	cat      *catalog.Catalog
	accounts persist.Store
	cfg      *config.Config
	log      *zap.Logger

	conns ConnSet // set by AttachConns once the server exists

	spawnBot func(nickname, game string, seat int)
	botSeq   atomic.Uint64

	mu      sync.Mutex
	tables  map[string]*table
	inGames map[uint64]map[string]bool // conn id -> joined game names
}

func New(d Deps) *Handler {
	return &Handler{
		reg:      d.Registry,
		cat:      d.Catalog,
		accounts: d.Accounts,
		cfg:      d.Cfg,
		log:      d.Log,
		tables:   make(map[string]*table),
		inGames:  make(map[uint64]map[string]bool),
	}
}

// AttachConns hooks up the connection registry after the server is
// constructed; the server needs the dispatcher first.
func (h *Handler) AttachConns(cs ConnSet) {
	h.conns = cs
}

// SetBotSpawner installs the drone factory used to fill vacant unlocked
// seats when a game is started. Without one, games start as seated.
func (h *Handler) SetBotSpawner(fn func(nickname, game string, seat int)) {
	h.spawnBot = fn
}

// HandleMessage runs on the connection's read goroutine. A panic in one
// handler drops the message, not the server.
func (h *Handler) HandleMessage(c *net.Conn, m message.Message) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("handler panic",
				zap.Any("panic", r),
				zap.String("nickname", c.Nickname()),
				zap.Stack("stack"))
		}
	}()

	if c.Version() == 0 {
		// Nothing is valid before the VERSION exchange.
		if v, ok := m.(*message.Version); ok {
			h.handleVersion(c, v)
		}
		return
	}

	switch msg := m.(type) {
	case *message.Version, *message.ServerPing:
		return
	case *message.GameOptionGetDefaults:
		h.handleOptionDefaults(c)
		return
	case *message.GameOptionGetInfos:
		h.handleOptionInfos(c, msg)
		return
	case *message.ScenarioInfo:
		h.handleScenarioInfo(c, msg)
		return
	case *message.AuthRequest:
		h.handleAuth(c, msg)
		return
	}

	if !c.Authenticated() {
		c.Send(&message.StatusMessage{Code: message.StatusNotAllowed,
			Text: "authenticate before doing that"})
		return
	}

	switch msg := m.(type) {
	case *message.NewGameWithOptionsRequest:
		h.handleNewGame(c, msg.Game, msg.Opts)
	case *message.NewGame:
		h.handleNewGame(c, msg.Game, "")
	case *message.JoinGame:
		h.handleJoinGame(c, msg)
	case *message.LeaveGame:
		h.handleLeaveGame(c, msg.Game)
	case *message.DeleteGame:
		h.handleDeleteGame(c, msg.Game)
	case *message.Games, *message.GamesWithOptions:
		h.sendGameList(c)
	default:
		if ig, ok := m.(message.InGame); ok {
			h.handleInGame(c, ig)
			return
		}
		h.log.Debug("unhandled message", zap.Uint16("tag", uint16(m.Tag())))
	}
}

// handleInGame routes a game-scoped message under its game's lock.
func (h *Handler) handleInGame(c *net.Conn, m message.InGame) {
	t := h.table(m.GameName())
	if t == nil {
		c.Send(&message.StatusMessage{Code: message.StatusGameNotFound,
			Text: "no such game: " + m.GameName()})
		return
	}
	g := h.gameOf(t)
	g.Lock()
	defer g.Unlock()
	if h.gameOf(t) != g {
		// The board was reset while we waited for the lock; the message
		// was aimed at the dead instance.
		return
	}

	cst := &caster{h: h, t: t}
	switch msg := m.(type) {
	case *message.SitDown:
		h.handleSitDown(cst, c, msg)
	case *message.ChangeFace:
		h.handleChangeFace(cst, c, msg)
	case *message.SetSeatLock:
		h.handleSetSeatLock(cst, c, msg)
	case *message.StartGame:
		h.handleStartGame(cst, c)
	case *message.GameTextMsg:
		h.handleGameText(cst, c, msg)

	case *message.RollDice:
		h.handleRollDice(cst, c)
	case *message.EndTurn:
		h.handleEndTurn(cst, c)
	case *message.Discard:
		h.handleDiscard(cst, c, msg)
	case *message.MoveRobber:
		h.handleMoveRobber(cst, c, msg)
	case *message.ChoosePlayer:
		h.handleChoosePlayer(cst, c, msg)

	case *message.BuildRequest:
		h.handleBuildRequest(cst, c, msg)
	case *message.CancelBuildRequest:
		h.handleCancelBuild(cst, c, msg)
	case *message.PutPiece:
		h.handlePutPiece(cst, c, msg)
	case *message.MovePiece:
		h.handleMovePiece(cst, c, msg)
	case *message.UndoPutPiece:
		h.handleUndo(cst, c)
	case *message.DebugFreePlace:
		h.handleDebugFreePlace(cst, c, msg)

	case *message.MakeOffer:
		h.handleMakeOffer(cst, c, msg)
	case *message.AcceptOffer:
		h.handleAcceptOffer(cst, c, msg)
	case *message.RejectOffer:
		h.handleRejectOffer(cst, c)
	case *message.ClearOffer:
		h.handleClearOffer(cst, c)
	case *message.BankTrade:
		h.handleBankTrade(cst, c, msg)

	case *message.BuyDevCardRequest:
		h.handleBuyDevCard(cst, c)
	case *message.PlayDevCardRequest:
		h.handlePlayDevCard(cst, c, msg)
	case *message.PickResources:
		h.handlePickResources(cst, c, msg)
	case *message.PickResourceType:
		h.handlePickResourceType(cst, c, msg)

	case *message.SimpleRequest:
		h.handleSimpleRequest(cst, c, msg)
	case *message.ResetBoardRequest:
		h.handleResetRequest(cst, c)
	case *message.ResetBoardVote:
		h.handleResetVote(cst, c, msg)

	default:
		h.log.Debug("unhandled game message",
			zap.String("game", t.name), zap.Uint16("tag", uint16(m.Tag())))
	}
}

// HandleDisconnect synthesizes a leave from every game the connection had
// joined.
func (h *Handler) HandleDisconnect(c *net.Conn) {
	h.mu.Lock()
	var names []string
	for name := range h.inGames[c.ID] {
		names = append(names, name)
	}
	delete(h.inGames, c.ID)
	h.mu.Unlock()

	for _, name := range names {
		if t := h.table(name); t != nil {
			h.leaveTable(c, t, true)
		}
	}
	if c.Authenticated() {
		h.log.Info("player disconnected", zap.String("nickname", c.Nickname()))
	}
}

func (h *Handler) table(name string) *table {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tables[name]
}

// gameOf reads a table's current game instance. Board resets swap it, so
// the pointer is guarded by the handler mutex.
func (h *Handler) gameOf(t *table) *game.Game {
	h.mu.Lock()
	defer h.mu.Unlock()
	return t.g
}

// addMember requires the caller to hold the game lock.
func (h *Handler) addMember(t *table, c *net.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, m := range t.members {
		if m == c {
			return
		}
	}
	t.members = append(t.members, c)
	set := h.inGames[c.ID]
	if set == nil {
		set = make(map[string]bool)
		h.inGames[c.ID] = set
	}
	set[t.name] = true
}

// removeMember reports how many members remain.
func (h *Handler) removeMember(t *table, c *net.Conn) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, m := range t.members {
		if m == c {
			t.members = append(t.members[:i], t.members[i+1:]...)
			break
		}
	}
	if set := h.inGames[c.ID]; set != nil {
		delete(set, t.name)
	}
	return len(t.members)
}

func (h *Handler) memberNames(t *table) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(t.members))
	for _, m := range t.members {
		out = append(out, m.Nickname())
	}
	return out
}

// dropTable removes the table and tells the lobby. Must not be called
// with any game lock held; the registry lock comes first.
func (h *Handler) dropTable(name string) {
	h.reg.Delete(name)
	h.mu.Lock()
	delete(h.tables, name)
	h.mu.Unlock()
	h.lobbyCast(&message.DeleteGame{Game: name})
}

// SweepExpired destroys finished games past their grace period. Run from
// the boot-time ticker.
func (h *Handler) SweepExpired(now time.Time) {
	for _, name := range h.reg.SweepExpired(now, h.cfg.Game.ExpireAfterOver) {
		h.mu.Lock()
		t := h.tables[name]
		delete(h.tables, name)
		h.mu.Unlock()
		if t != nil {
			h.log.Info("expired game removed", zap.String("game", name))
		}
		h.lobbyCast(&message.DeleteGame{Game: name})
	}
}

// ForceExpiredTurns ends turns that outlived the turn timer. Run from the
// boot-time ticker.
func (h *Handler) ForceExpiredTurns(now time.Time) {
	timeout := h.cfg.Game.TurnTimeout
	if timeout <= 0 {
		return
	}
	h.mu.Lock()
	list := make([]*table, 0, len(h.tables))
	for _, t := range h.tables {
		list = append(list, t)
	}
	h.mu.Unlock()

	for _, t := range list {
		g := h.gameOf(t)
		g.Lock()
		if h.gameOf(t) != g || !g.Started || g.State == game.StateGameOver ||
			t.turnStarted.IsZero() || now.Sub(t.turnStarted) < timeout {
			g.Unlock()
			continue
		}
		h.log.Info("turn timed out", zap.String("game", t.name),
			zap.Int("seat", g.CurrentPlayer))
		cst := &caster{h: h, t: t}
		cst.toAll(&message.GameServerText{Game: t.name,
			Text: g.Players[g.CurrentPlayer].Nickname + " took too long; ending the turn."})
		res := g.ForceEndTurn()
		h.emitTurnChange(cst, res)
		g.Unlock()
	}
}
