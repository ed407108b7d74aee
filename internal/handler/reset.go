package handler

import (
	"go.uber.org/zap"

	"github.com/gosettlers/server/internal/game"
	"github.com/gosettlers/server/internal/message"
	"github.com/gosettlers/server/internal/net"
)

// resetVote tracks a pending board-reset vote. Robots never vote; the
// requester's yes is implicit.
type resetVote struct {
	requester int
	pending   map[int]bool // human seats that have not voted yet
}

// handleResetRequest opens a reset vote, or resets immediately when the
// requester is the only human at the table.
func (h *Handler) handleResetRequest(cst *caster, c *net.Conn) {
	g := cst.t.g
	seat := cst.seatOf(c)
	if seat < 0 {
		cst.decline(c, message.DeclineNotInGame, "sit down before asking for a reset")
		return
	}
	if cst.t.vote != nil {
		cst.decline(c, message.DeclineOther, "a reset vote is already underway")
		return
	}

	pending := make(map[int]bool)
	for _, p := range g.Players {
		if !p.Vacant() && !p.Robot && p.Seat != seat {
			pending[p.Seat] = true
		}
	}
	if len(pending) == 0 {
		h.approveReset(cst, seat)
		return
	}

	cst.t.vote = &resetVote{requester: seat, pending: pending}
	cst.toAll(&message.ResetBoardVote{Game: cst.t.name, Seat: seat, Yes: true})
	cst.serverText(nickAt(g, seat) + " wants to start the game over. Vote yes or no.")
}

func (h *Handler) handleResetVote(cst *caster, c *net.Conn, m *message.ResetBoardVote) {
	vote := cst.t.vote
	seat := cst.seatOf(c)
	if vote == nil || seat < 0 || !vote.pending[seat] {
		cst.decline(c, message.DeclineWrongState, "there is no reset vote waiting for you")
		return
	}
	delete(vote.pending, seat)
	cst.toAll(&message.ResetBoardVote{Game: cst.t.name, Seat: seat, Yes: m.Yes})

	g := cst.t.g
	if !m.Yes {
		cst.t.vote = nil
		cst.toAll(&message.ResetBoardAuth{Game: cst.t.name,
			Requester: vote.requester, Approved: false})
		cst.serverText(nickAt(g, seat) + " voted no. The game continues.")
		return
	}
	if len(vote.pending) == 0 {
		cst.t.vote = nil
		h.approveReset(cst, vote.requester)
	}
}

// seatSnapshot is one occupied seat carried across a board reset.
type seatSnapshot struct {
	seat  int
	nick  string
	robot bool
	face  int
}

// approveReset announces the outcome and schedules the swap. The swap
// runs off this goroutine because it needs the registry lock, which must
// never be taken while a game lock is held.
func (h *Handler) approveReset(cst *caster, requester int) {
	g := cst.t.g
	cst.toAll(&message.ResetBoardAuth{Game: cst.t.name,
		Requester: requester, Approved: true})
	cst.serverText("The board will be reset.")

	var seats []seatSnapshot
	for _, p := range g.Players {
		if p.Vacant() {
			continue
		}
		if p.Robot && g.SeatLocks[p.Seat] == game.SeatClearOnReset {
			continue
		}
		seats = append(seats, seatSnapshot{seat: p.Seat, nick: p.Nickname,
			robot: p.Robot, face: p.Face})
	}
	locks := make([]int, len(g.SeatLocks))
	copy(locks, g.SeatLocks)

	go h.resetTable(cst.t, g, seats, locks)
}

// resetTable swaps a fresh game instance into the table and replays the
// join sequence to every member. Locks the old instance first so every
// in-flight handler drains before the pointer moves.
func (h *Handler) resetTable(t *table, old *game.Game, seats []seatSnapshot, locks []int) {
	fresh := h.reg.Replace(t.name, old.Opts)
	practice := old.IsPractice

	old.Lock()
	h.mu.Lock()
	t.g = fresh
	h.mu.Unlock()
	old.Unlock()

	fresh.Lock()
	defer fresh.Unlock()
	fresh.IsPractice = practice
	copy(fresh.SeatLocks, locks)
	for _, s := range seats {
		fresh.SitDown(s.seat, s.nick, s.robot)
		fresh.Players[s.seat].Face = s.face
	}

	cst := &caster{h: h, t: t}
	for _, c := range cst.members() {
		h.sendJoinData(cst, c)
	}
	for _, s := range seats {
		cst.toAll(&message.SitDown{Game: t.name, Nickname: s.nick,
			Seat: s.seat, Robot: s.robot})
	}
	h.log.Info("board reset", zap.String("game", t.name), zap.Int("seats", len(seats)))
}
