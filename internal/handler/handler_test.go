package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gosettlers/server/internal/catalog"
	"github.com/gosettlers/server/internal/config"
	"github.com/gosettlers/server/internal/game"
	"github.com/gosettlers/server/internal/message"
	"github.com/gosettlers/server/internal/net"
	"github.com/gosettlers/server/internal/persist"
)

const recvTimeout = 2 * time.Second

func newTestServer(t *testing.T) (*Handler, *net.Server) {
	t.Helper()
	cfg := config.Defaults()
	accounts, err := persist.Open(context.Background(), cfg.Database, false, zap.NewNop())
	require.NoError(t, err)
	h := New(Deps{
		Registry: game.NewRegistry(),
		Catalog:  catalog.New(),
		Accounts: accounts,
		Cfg:      cfg,
		Log:      zap.NewNop(),
	})
	srv, err := net.NewServer("127.0.0.1:0",
		h, net.Options{OutQueueSize: 256, WriteTimeout: time.Second}, 0, zap.NewNop())
	require.NoError(t, err)
	h.AttachConns(srv)
	t.Cleanup(func() { srv.Shutdown(100 * time.Millisecond) })
	return h, srv
}

type client struct {
	t    *testing.T
	nick string
	lc   *net.LocalClient
}

func (c *client) send(m message.Message) {
	c.t.Helper()
	require.NoError(c.t, c.lc.Send(m))
}

// expect requires the very next message to be of type T.
func expect[T message.Message](c *client) T {
	c.t.Helper()
	m, err := c.lc.Recv(recvTimeout)
	require.NoError(c.t, err)
	v, ok := m.(T)
	require.True(c.t, ok, "%s: unexpected message %T %+v", c.nick, m, m)
	return v
}

// until skips messages until one of type T arrives.
func until[T message.Message](c *client) T {
	c.t.Helper()
	deadline := time.Now().Add(recvTimeout)
	for time.Now().Before(deadline) {
		m, err := c.lc.Recv(time.Until(deadline))
		require.NoError(c.t, err)
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	c.t.Fatalf("%s: message %T never arrived", c.nick, zero)
	return zero
}

// connect performs the VERSION exchange at the given client version.
func connect(t *testing.T, srv *net.Server, nick string, version int) *client {
	t.Helper()
	lc := srv.ConnectLocal(nick)
	require.NotNil(t, lc)
	c := &client{t: t, nick: nick, lc: lc}
	c.send(&message.Version{Number: version,
		VerStr: message.VersionString(version), Build: "test", Locale: "en_US"})
	v := expect[*message.Version](c)
	assert.Equal(t, message.VersionCurrent, v.Number)
	return c
}

// login connects and authenticates at the current version.
func login(t *testing.T, srv *net.Server, nick string) *client {
	t.Helper()
	c := connect(t, srv, nick, message.VersionCurrent)
	c.send(&message.AuthRequest{Role: "P", Nickname: nick, Scheme: 1})
	st := expect[*message.StatusMessage](c)
	require.Equal(t, message.StatusOK, st.Code)
	expect[*message.GamesWithOptions](c)
	return c
}

func TestHandshakeAndWelcome(t *testing.T) {
	_, srv := newTestServer(t)
	c := connect(t, srv, "alice", message.VersionCurrent)

	c.send(&message.AuthRequest{Role: "P", Nickname: "alice", Scheme: 1})
	st := expect[*message.StatusMessage](c)
	assert.Equal(t, message.StatusOK, st.Code)
	assert.Contains(t, st.Text, "alice")
	expect[*message.GamesWithOptions](c)
}

func TestHandshakeRejectsOldClient(t *testing.T) {
	_, srv := newTestServer(t)
	lc := srv.ConnectLocal("old")
	require.NotNil(t, lc)
	c := &client{t: t, nick: "old", lc: lc}

	c.send(&message.Version{Number: 1000, VerStr: "1.0.0"})
	expect[*message.Version](c)
	st := expect[*message.StatusMessage](c)
	assert.Equal(t, message.StatusVersionTooLow, st.Code)
	expect[*message.RejectConnection](c)
}

func TestAuthNicknameTaken(t *testing.T) {
	_, srv := newTestServer(t)
	login(t, srv, "alice")

	c := connect(t, srv, "alice2", message.VersionCurrent)
	c.send(&message.AuthRequest{Role: "P", Nickname: "alice", Scheme: 1})
	st := expect[*message.StatusMessage](c)
	assert.Equal(t, message.StatusNicknameTaken, st.Code)
}

func TestAuthBadNicknameFormat(t *testing.T) {
	_, srv := newTestServer(t)
	c := connect(t, srv, "bad", message.VersionCurrent)
	c.send(&message.AuthRequest{Role: "P", Nickname: "no spaces here", Scheme: 1})
	st := expect[*message.StatusMessage](c)
	assert.Equal(t, message.StatusNicknameFormat, st.Code)
}

func TestAuthWrongPassword(t *testing.T) {
	h, srv := newTestServer(t)
	c := connect(t, srv, "alice", message.VersionCurrent)
	c.send(&message.AuthRequest{Role: "P", Nickname: "alice", Scheme: 1, Password: "pw1"})
	st := expect[*message.StatusMessage](c)
	require.Equal(t, message.StatusOK, st.Code)
	expect[*message.GamesWithOptions](c)
	c.lc.Close()
	require.Eventually(t, func() bool { return !h.nicknameInUse("alice") },
		time.Second, 10*time.Millisecond)

	c2 := connect(t, srv, "alice2", message.VersionCurrent)
	c2.send(&message.AuthRequest{Role: "P", Nickname: "alice", Scheme: 1, Password: "pw2"})
	st = expect[*message.StatusMessage](c2)
	assert.Equal(t, message.StatusPasswordWrong, st.Code)
}

func TestOptionInfosTerminated(t *testing.T) {
	_, srv := newTestServer(t)
	c := connect(t, srv, "opts", message.VersionCurrent)

	c.send(&message.GameOptionGetInfos{})
	seen := 0
	for {
		info := expect[*message.GameOptionInfo](c)
		if info.Key == "-" {
			break
		}
		assert.NotEqual(t, byte('_'), info.Key[0], "hidden options must not be published")
		seen++
	}
	assert.Greater(t, seen, 5)
}

func TestScenarioInfoTerminated(t *testing.T) {
	_, srv := newTestServer(t)
	c := connect(t, srv, "scen", message.VersionCurrent)

	c.send(&message.ScenarioInfo{Keys: []string{"?"}})
	keys := map[string]bool{}
	for {
		info := expect[*message.ScenarioInfo](c)
		if info.Key == "-" {
			break
		}
		keys[info.Key] = true
	}
	assert.True(t, keys["SC_NSHO"])
}

func TestCreateAndJoinSequence(t *testing.T) {
	_, srv := newTestServer(t)
	c := login(t, srv, "alice")

	c.send(&message.NewGameWithOptionsRequest{Game: "g1", Opts: "PL=4,VP=t10,BC=t3"})
	created := expect[*message.NewGameWithOptions](c)
	assert.Equal(t, "g1", created.Game)

	c.send(&message.JoinGame{Nickname: "alice", Game: "g1"})

	auth := expect[*message.JoinGameAuth](c)
	assert.Equal(t, "g1", auth.Game)
	assert.False(t, auth.BoardSized)

	locks := expect[*message.SetSeatLock](c)
	require.Len(t, locks.Locks, 4)
	for _, l := range locks.Locks {
		assert.Equal(t, message.SeatLockState(game.SeatUnlocked), l)
	}

	// No board yet, so the layout message is absent.
	pot := expect[*message.PotentialSettlements](c)
	assert.Equal(t, -1, pot.Seat)
	assert.Empty(t, pot.Nodes)

	ge := expect[*message.GameElements](c)
	require.Len(t, ge.Elements, 6)
	assert.Equal(t, message.GameElemUnjoinable, ge.Elements[5])
	assert.Equal(t, -1, ge.Amounts[5])

	for seat := 0; seat < 4; seat++ {
		pe := expect[*message.PlayerElements](c)
		assert.Equal(t, seat, pe.Seat)
		assert.Equal(t, message.ElemSet, pe.Action)
		require.GreaterOrEqual(t, len(pe.Elements), 3)
		assert.Equal(t, message.ElemRoads, pe.Elements[0])
		assert.Equal(t, 15, pe.Amounts[0])
		assert.Equal(t, 5, pe.Amounts[1])
		assert.Equal(t, 4, pe.Amounts[2])
	}

	members := expect[*message.GameMembers](c)
	assert.Equal(t, []string{"alice"}, members.Members)
	gs := expect[*message.GameState](c)
	assert.Equal(t, int(game.StateNewGame), gs.State)
	joined := expect[*message.JoinGame](c)
	assert.Equal(t, "alice", joined.Nickname)
}

func TestCreateDuplicateGame(t *testing.T) {
	_, srv := newTestServer(t)
	c := login(t, srv, "alice")
	c.send(&message.NewGameWithOptionsRequest{Game: "g1", Opts: "PL=4"})
	expect[*message.NewGameWithOptions](c)

	c.send(&message.NewGameWithOptionsRequest{Game: "g1", Opts: "PL=4"})
	st := expect[*message.StatusMessage](c)
	assert.Equal(t, message.StatusGameExists, st.Code)
}

// startedGame brings up a 2-human game on locked extra seats and returns
// the clients indexed by seat.
func startedGame(t *testing.T, h *Handler, srv *net.Server) (seats map[int]*client, g *game.Game) {
	t.Helper()
	alice := login(t, srv, "alice")
	bob := login(t, srv, "bob")

	alice.send(&message.NewGameWithOptionsRequest{Game: "g1", Opts: "PL=4"})
	until[*message.NewGameWithOptions](alice)
	until[*message.NewGameWithOptions](bob)

	alice.send(&message.JoinGame{Nickname: "alice", Game: "g1"})
	until[*message.JoinGame](alice)
	bob.send(&message.JoinGame{Nickname: "bob", Game: "g1"})
	until[*message.JoinGame](bob)
	until[*message.JoinGame](alice)

	alice.send(&message.SitDown{Game: "g1", Seat: 0})
	until[*message.SitDown](alice)
	until[*message.SitDown](bob)
	bob.send(&message.SitDown{Game: "g1", Seat: 1})
	until[*message.SitDown](alice)
	until[*message.SitDown](bob)

	// Keep the other seats out of play so no drones are owed.
	alice.send(&message.SetSeatLock{Game: "g1", Locks: []message.SeatLockState{
		game.SeatUnlocked, game.SeatUnlocked, game.SeatLocked, game.SeatLocked}})
	until[*message.SetSeatLock](alice)
	until[*message.SetSeatLock](bob)

	alice.send(&message.StartGame{Game: "g1"})
	until[*message.StartGame](alice)
	until[*message.StartGame](bob)
	expect[*message.BoardLayout](alice)
	pot := expect[*message.PotentialSettlements](alice)
	assert.NotEmpty(t, pot.Nodes)

	turnA := until[*message.Turn](alice)
	turnB := until[*message.Turn](bob)
	require.Equal(t, turnA.Seat, turnB.Seat)
	require.Equal(t, int(game.StateStart1A), turnA.State)

	g = h.reg.Get("g1")
	require.NotNil(t, g)
	return map[int]*client{0: alice, 1: bob}, g
}

func TestStartGameOpensPlacement(t *testing.T) {
	h, srv := newTestServer(t)
	seats, g := startedGame(t, h, srv)

	g.Lock()
	cur := g.CurrentPlayer
	state := g.State
	g.Unlock()
	require.Equal(t, game.StateStart1A, state)
	require.Contains(t, seats, cur)
}

func TestPlacementDeclines(t *testing.T) {
	h, srv := newTestServer(t)
	seats, g := startedGame(t, h, srv)

	g.Lock()
	cur := g.CurrentPlayer
	g.Unlock()
	other := 1 - cur

	// Wrong piece type for the settlement phase.
	seats[cur].send(&message.PutPiece{Game: "g1", Seat: cur,
		Piece: game.PieceCity, Coord: 0x23})
	dec := until[*message.DeclinePlayerRequest](seats[cur])
	assert.Equal(t, message.DeclineWrongState, dec.Reason)

	// Not this seat's move at all.
	seats[other].send(&message.PutPiece{Game: "g1", Seat: other,
		Piece: game.PieceSettlement, Coord: 0x23})
	dec = until[*message.DeclinePlayerRequest](seats[other])
	assert.Equal(t, message.DeclineNotYourTurn, dec.Reason)

	// An illegal coordinate draws the location reject.
	seats[cur].send(&message.PutPiece{Game: "g1", Seat: cur,
		Piece: game.PieceSettlement, Coord: -5})
	dec = until[*message.DeclinePlayerRequest](seats[cur])
	assert.Equal(t, message.DeclineLocationIllegal, dec.Reason)
}

// playInitialPlacement drives both seats through the start phases using
// the rules core to pick legal coordinates.
func playInitialPlacement(t *testing.T, seats map[int]*client, g *game.Game) {
	t.Helper()
	for i := 0; i < 30; i++ {
		g.Lock()
		state := g.State
		cur := g.CurrentPlayer
		var piece, coord int
		switch state {
		case game.StateStart1A, game.StateStart2A, game.StateStart3A:
			piece = game.PieceSettlement
			nodes := g.PotentialSettlements(cur)
			require.NotEmpty(t, nodes)
			coord = nodes[0]
		case game.StateStart1B, game.StateStart2B, game.StateStart3B:
			piece = game.PieceRoad
			edges := g.PotentialRoads(cur)
			require.NotEmpty(t, edges)
			coord = edges[0]
		default:
			g.Unlock()
			require.Equal(t, game.StateRollOrCard, state)
			return
		}
		g.Unlock()

		seats[cur].send(&message.PutPiece{Game: "g1", Seat: cur, Piece: piece, Coord: coord})
		put := until[*message.PutPiece](seats[cur])
		require.Equal(t, piece, put.Piece)
		until[*message.PutPiece](seats[1-cur])
	}
	t.Fatal("initial placement did not finish")
}

func TestInitialPlacementThenRoll(t *testing.T) {
	h, srv := newTestServer(t)
	seats, g := startedGame(t, h, srv)
	playInitialPlacement(t, seats, g)

	g.Lock()
	cur := g.CurrentPlayer
	g.Unlock()

	prompt := until[*message.RollDicePrompt](seats[cur])
	assert.Equal(t, cur, prompt.Seat)

	seats[cur].send(&message.RollDice{Game: "g1"})
	dice := until[*message.DiceResult](seats[cur])
	assert.GreaterOrEqual(t, dice.Sum, 2)
	assert.LessOrEqual(t, dice.Sum, 12)
	// Both the 7 path and the payout path settle on a state broadcast.
	until[*message.GameState](seats[1-cur])
}

func TestRollOutOfTurnDeclined(t *testing.T) {
	h, srv := newTestServer(t)
	seats, g := startedGame(t, h, srv)

	g.Lock()
	cur := g.CurrentPlayer
	g.Unlock()

	seats[1-cur].send(&message.RollDice{Game: "g1"})
	dec := until[*message.DeclinePlayerRequest](seats[1-cur])
	assert.Equal(t, message.DeclineNotYourTurn, dec.Reason)
}

func TestChatRelay(t *testing.T) {
	h, srv := newTestServer(t)
	seats, _ := startedGame(t, h, srv)

	seats[0].send(&message.GameTextMsg{Game: "g1", Nickname: "spoofed", Text: "hello"})
	msg := until[*message.GameTextMsg](seats[1])
	assert.Equal(t, "alice", msg.Nickname, "sender identity comes from the connection")
	assert.Equal(t, "hello", msg.Text)
}

func TestLeaveDropsEmptyGame(t *testing.T) {
	h, srv := newTestServer(t)
	alice := login(t, srv, "alice")
	bob := login(t, srv, "bob")

	alice.send(&message.NewGameWithOptionsRequest{Game: "g2", Opts: "PL=4"})
	until[*message.NewGameWithOptions](alice)
	until[*message.NewGameWithOptions](bob)
	alice.send(&message.JoinGame{Nickname: "alice", Game: "g2"})
	until[*message.JoinGame](alice)

	alice.send(&message.LeaveGame{Nickname: "alice", Game: "g2"})
	del := until[*message.DeleteGame](bob)
	assert.Equal(t, "g2", del.Game)
	assert.Eventually(t, func() bool { return h.reg.Get("g2") == nil },
		time.Second, 10*time.Millisecond)
}

func TestDisconnectSynthesizesLeave(t *testing.T) {
	h, srv := newTestServer(t)
	seats, _ := startedGame(t, h, srv)

	seats[0].lc.Close()
	leave := until[*message.LeaveGame](seats[1])
	assert.Equal(t, "alice", leave.Nickname)
	assert.Eventually(t, func() bool {
		g := h.reg.Get("g1")
		if g == nil {
			return false
		}
		g.Lock()
		defer g.Unlock()
		return g.SeatOf("alice") < 0
	}, time.Second, 10*time.Millisecond)
}

func TestResetVoteApproved(t *testing.T) {
	h, srv := newTestServer(t)
	seats, g := startedGame(t, h, srv)

	seats[1].send(&message.ResetBoardRequest{Game: "g1"})
	vote := until[*message.ResetBoardVote](seats[0])
	assert.Equal(t, 1, vote.Seat)
	assert.True(t, vote.Yes)

	seats[0].send(&message.ResetBoardVote{Game: "g1", Yes: true})
	auth := until[*message.ResetBoardAuth](seats[1])
	assert.True(t, auth.Approved)
	assert.Equal(t, 1, auth.Requester)

	// The replayed join sequence announces the fresh, unstarted instance.
	until[*message.JoinGameAuth](seats[0])
	gs := until[*message.GameState](seats[0])
	assert.Equal(t, int(game.StateNewGame), gs.State)
	until[*message.SitDown](seats[0])

	assert.Eventually(t, func() bool { return h.reg.Get("g1") != g },
		time.Second, 10*time.Millisecond)
}

func TestResetVoteRejected(t *testing.T) {
	h, srv := newTestServer(t)
	seats, _ := startedGame(t, h, srv)

	seats[1].send(&message.ResetBoardRequest{Game: "g1"})
	until[*message.ResetBoardVote](seats[0])

	seats[0].send(&message.ResetBoardVote{Game: "g1", Yes: false})
	auth := until[*message.ResetBoardAuth](seats[1])
	assert.False(t, auth.Approved)
	g := h.reg.Get("g1")
	require.NotNil(t, g)
	g.Lock()
	assert.True(t, g.Started, "a rejected vote must not touch the game")
	g.Unlock()
}

func TestLegacyClientFallbacks(t *testing.T) {
	_, srv := newTestServer(t)

	old := connect(t, srv, "old", message.VersionMin)
	old.send(&message.AuthRequest{Role: "P", Nickname: "old", Scheme: 1})
	st := expect[*message.StatusMessage](old)
	require.Equal(t, message.StatusOK, st.Code)
	// Pre-options clients get the bare name list.
	expect[*message.Games](old)

	old.send(&message.NewGame{Game: "g3"})
	expect[*message.NewGame](old)

	old.send(&message.JoinGame{Nickname: "old", Game: "g3"})
	expect[*message.JoinGameAuth](old)
	expect[*message.SetSeatLock](old)
	expect[*message.PotentialSettlements](old)
	// The element batches unroll into their per-element forms.
	expect[*message.DevCardCount](old)
	expect[*message.PlayerElement](old)
}

func TestDroneFillAndStart(t *testing.T) {
	h, srv := newTestServer(t)
	h.SetBotSpawner(func(nickname, gameName string, seat int) {
		lc := srv.ConnectLocal(nickname)
		if lc == nil {
			return
		}
		lc.Send(&message.Version{Number: message.VersionCurrent})
		lc.Send(&message.AuthRequest{Role: "P", Nickname: nickname, Scheme: 1})
		lc.Send(&message.JoinGame{Nickname: nickname, Game: gameName})
		lc.Send(&message.SitDown{Game: gameName, Nickname: nickname, Seat: seat, Robot: true})
		go func() {
			for {
				if _, err := lc.Recv(0); err != nil {
					return
				}
			}
		}()
	})

	alice := login(t, srv, "alice")
	alice.send(&message.NewGameWithOptionsRequest{Game: "g4", Opts: "PL=4"})
	until[*message.NewGameWithOptions](alice)
	alice.send(&message.JoinGame{Nickname: "alice", Game: "g4"})
	until[*message.JoinGame](alice)
	alice.send(&message.SitDown{Game: "g4", Seat: 0})
	until[*message.SitDown](alice)

	alice.send(&message.StartGame{Game: "g4"})
	start := until[*message.StartGame](alice)
	assert.Equal(t, "g4", start.Game)

	g := h.reg.Get("g4")
	require.NotNil(t, g)
	g.Lock()
	defer g.Unlock()
	assert.True(t, g.Started)
	assert.Equal(t, 4, g.SeatedCount(), "drones fill every unlocked seat")
	for seat := 1; seat < 4; seat++ {
		assert.True(t, g.Players[seat].Robot)
	}
}
