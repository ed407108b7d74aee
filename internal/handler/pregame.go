package handler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gosettlers/server/internal/data"
	"github.com/gosettlers/server/internal/game"
	"github.com/gosettlers/server/internal/message"
	"github.com/gosettlers/server/internal/net"
)

// handleSitDown claims a seat for the sender. The nickname on the wire is
// ignored; the latched connection identity wins.
func (h *Handler) handleSitDown(cst *caster, c *net.Conn, m *message.SitDown) {
	g := cst.t.g
	if !g.SitDown(m.Seat, c.Nickname(), m.Robot) {
		c.Send(&message.StatusMessage{Code: message.StatusNotAllowed,
			Text: "that seat is not available"})
		return
	}
	cst.toAll(&message.SitDown{Game: cst.t.name,
		Nickname: c.Nickname(), Seat: m.Seat, Robot: m.Robot})

	if m.Robot && cst.t.pendingStart != nil {
		cst.t.awaiting--
		if cst.t.awaiting <= 0 {
			starter := cst.t.pendingStart
			cst.t.pendingStart = nil
			h.startGame(cst, starter)
		}
	}
}

// handleChangeFace relays a face change for the sender's own seat.
func (h *Handler) handleChangeFace(cst *caster, c *net.Conn, m *message.ChangeFace) {
	g := cst.t.g
	seat := cst.seatOf(c)
	if seat < 0 || seat != m.Seat {
		return
	}
	g.Players[seat].Face = m.Face
	cst.toAll(&message.ChangeFace{Game: cst.t.name, Seat: seat, Face: m.Face})
}

// handleSetSeatLock lets any seated player adjust the lock array before
// the game starts; afterwards only vacant-robot markers may change.
func (h *Handler) handleSetSeatLock(cst *caster, c *net.Conn, m *message.SetSeatLock) {
	g := cst.t.g
	if cst.seatOf(c) < 0 || len(m.Locks) != len(g.SeatLocks) {
		return
	}
	for i, l := range m.Locks {
		g.SeatLocks[i] = int(l)
	}
	cst.toAll(&message.SetSeatLock{Game: cst.t.name, Locks: m.Locks})
}

// handleStartGame fills vacant unlocked seats with drones, then seeds the
// board. When drones are owed, the actual start waits in handleSitDown
// until the last one is seated.
func (h *Handler) handleStartGame(cst *caster, c *net.Conn) {
	g := cst.t.g
	if g.Started || cst.t.pendingStart != nil {
		return
	}
	if cst.seatOf(c) < 0 {
		c.Send(&message.StatusMessage{Code: message.StatusNotAllowed,
			Text: "sit down before starting the game"})
		return
	}

	var vacant []int
	for _, p := range g.Players {
		if p.Vacant() && g.SeatLocks[p.Seat] == game.SeatUnlocked {
			vacant = append(vacant, p.Seat)
		}
	}
	if h.spawnBot != nil && len(vacant) > 0 {
		cst.t.pendingStart = c
		cst.t.awaiting = len(vacant)
		cst.serverText("Fetching robot players...")
		for _, seat := range vacant {
			nick := fmt.Sprintf("Droid-%d", h.botSeq.Add(1))
			go h.spawnBot(nick, cst.t.name, seat)
		}
		return
	}
	h.startGame(cst, c)
}

// startGame seeds the board and opens initial placement. Locked vacant
// seats stay vacant; the sequence replays the fresh board to every member.
func (h *Handler) startGame(cst *caster, c *net.Conn) {
	g := cst.t.g
	if g.SeatedCount() < 2 {
		c.Send(&message.StatusMessage{Code: message.StatusNotAllowed,
			Text: "need at least 2 players to start"})
		return
	}

	tpl := data.Pick(g.Opts.MaxPlayers, g.Opts.SeaBoard)
	if err := g.Start(tpl); err != nil {
		h.log.Error("board generation failed", zap.String("game", cst.t.name), zap.Error(err))
		c.Send(&message.StatusMessage{Code: message.StatusNotAllowed,
			Text: "could not generate a board for these options"})
		return
	}

	name := cst.t.name
	cst.toAll(&message.StartGame{Game: name})
	cst.toAll(boardLayoutMsg(name, g))
	cst.toAll(&message.PotentialSettlements{Game: name, Seat: -1, Nodes: potentialNodes(g)})
	for _, p := range g.Players {
		cst.toAll(seatElements(name, g, p))
	}
	cst.toAll(&message.GameElements{Game: name,
		Elements: []int{message.GameElemDevCardCount, message.GameElemCurrentPlayer},
		Amounts:  []int{len(g.DevCardDeck), g.CurrentPlayer}})
	cst.toAll(&message.FirstPlayer{Game: name, Seat: g.FirstPlayer})
	cst.announceTurn()

	h.log.Info("game started", zap.String("game", name),
		zap.Int("players", g.SeatedCount()), zap.Int("first", g.FirstPlayer))
}

// announceTurn broadcasts the turn owner and state, stamps the turn timer
// and prompts for a roll when one is due.
func (cst *caster) announceTurn() {
	g := cst.t.g
	cst.toAll(&message.Turn{Game: cst.t.name, Seat: g.CurrentPlayer, State: int(g.State)})
	cst.t.turnStarted = nowFunc()
	if g.State == game.StateRollOrCard {
		cst.toAll(&message.RollDicePrompt{Game: cst.t.name, Seat: g.CurrentPlayer})
	}
}

// handleGameText relays table chat under the sender's nickname.
func (h *Handler) handleGameText(cst *caster, c *net.Conn, m *message.GameTextMsg) {
	if m.Text == "" {
		return
	}
	cst.toAll(&message.GameTextMsg{Game: cst.t.name, Nickname: c.Nickname(), Text: m.Text})
}
