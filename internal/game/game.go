package game

import (
	"math/rand"
	"sync"
	"time"
)

// nowFunc is swapped out by tests that exercise table expiry.
var nowFunc = time.Now

// Seat lock states, wire-visible via SETSEATLOCK.
const (
	SeatUnlocked = iota
	SeatLocked
	SeatClearOnReset
)

// Options are the game-relevant effects of the option catalog, resolved by
// the lobby before the game is created.
type Options struct {
	MaxPlayers           int
	SixPlayerBoard       bool
	SpecialBuildOnly5or6 bool
	SeaBoard             bool
	RobberNoDesert       bool
	NoSevensRounds       int // 0 = off
	NoSevensUntilCity    bool
	BreakClumps          int // 0 = off
	NoTrading            bool
	VictoryPoints        int
	Scenario             string
	BoardHW              int

	FogHexes         bool
	ClothVillages    bool
	PirateFortresses bool
	ForgottenTribe   bool
	Wonders          bool
	ThirdPlacement   bool
	NoLongestRoadVP  bool
	SVPAnyIsland     bool
	SVPEachIsland    bool

	FullyObservable bool
	VPObservable    bool
}

// DefaultOptions is the classic 4-player game.
func DefaultOptions() Options {
	return Options{MaxPlayers: 4, VictoryPoints: 10, BreakClumps: 4}
}

// startingUndos is granted per player when undo support is on; kept small
// so undo stays a misclick fixer, not a search tool.
const startingUndos = 7

// Game is one table: board, seats, state machine position and the few
// cross-cutting counters. All access happens under Lock.
type Game struct {
	mu sync.Mutex

	Name    string
	Opts    Options
	Board   *Board
	Players []*Player

	State         State
	CurrentPlayer int
	FirstPlayer   int
	RoundCount    int
	DiceResult    int

	DevCardDeck []int

	LargestArmyPlayer int
	LongestRoadPlayer int

	SeatLocks []int

	IsPractice bool
	IsBotsOnly bool
	Started    bool

	DebugFreePlace bool

	// Robbery subflow scratch.
	RobberyVictims []int
	RobbingCloth   bool

	// Road Building card: free placements left this turn.
	FreeRoads int

	// Special Building Phase bookkeeping.
	specialBuildReturnTo int

	// N7C: set once any city exists.
	cityBuilt bool

	// Undo support.
	LastAction *Action

	CreatedAt  time.Time
	FinishedAt time.Time // zero until GAME_OVER

	rng *rand.Rand
}

// New creates an empty table with all seats vacant.
func New(name string, opts Options, rng *rand.Rand) *Game {
	if opts.MaxPlayers == 0 {
		opts.MaxPlayers = 4
	}
	if opts.VictoryPoints == 0 {
		opts.VictoryPoints = 10
	}
	g := &Game{
		Name:              name,
		Opts:              opts,
		State:             StateNewGame,
		CurrentPlayer:     -1,
		FirstPlayer:       -1,
		LargestArmyPlayer: -1,
		LongestRoadPlayer: -1,
		SeatLocks:         make([]int, opts.MaxPlayers),
		CreatedAt:         time.Now(),
		rng:               rng,
	}
	for seat := 0; seat < opts.MaxPlayers; seat++ {
		g.Players = append(g.Players, newPlayer(seat, opts.SeaBoard, startingUndos))
	}
	return g
}

// Lock acquires the game's exclusive lock. Lock order: registry before
// game; a handler holding this lock must not touch the registry or any
// other game's lock.
func (g *Game) Lock()   { g.mu.Lock() }
func (g *Game) Unlock() { g.mu.Unlock() }

// Player returns the seat's player, or nil for out-of-range seats.
func (g *Game) Player(seat int) *Player {
	if seat < 0 || seat >= len(g.Players) {
		return nil
	}
	return g.Players[seat]
}

// SeatOf finds the seat holding the nickname, or -1.
func (g *Game) SeatOf(nickname string) int {
	for _, p := range g.Players {
		if !p.Vacant() && p.Nickname == nickname {
			return p.Seat
		}
	}
	return -1
}

// SitDown claims a seat. Fails if the game started and the seat belongs to
// someone else, if the seat is locked, or if the nickname already sits
// elsewhere.
func (g *Game) SitDown(seat int, nickname string, robot bool) bool {
	p := g.Player(seat)
	if p == nil {
		return false
	}
	if !p.Vacant() && p.Nickname != nickname {
		// A human may replace a departed robot's seat unless locked.
		if !p.Robot || g.SeatLocks[seat] == SeatLocked {
			return false
		}
	}
	if p.Vacant() && g.SeatLocks[seat] == SeatLocked {
		return false
	}
	if cur := g.SeatOf(nickname); cur >= 0 && cur != seat {
		return false
	}
	p.Nickname = nickname
	p.Robot = robot
	return true
}

// StandUp vacates the player's seat. Pre-game the seat empties fully;
// in-game the seat keeps its pieces for a robot to take over.
func (g *Game) StandUp(nickname string) int {
	seat := g.SeatOf(nickname)
	if seat < 0 {
		return -1
	}
	p := g.Players[seat]
	if !g.Started {
		g.Players[seat] = newPlayer(seat, g.Opts.SeaBoard, startingUndos)
		return seat
	}
	p.Nickname = ""
	p.Robot = false
	return seat
}

// SeatedCount counts occupied seats.
func (g *Game) SeatedCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.Vacant() {
			n++
		}
	}
	return n
}

// Start seeds the board, deals the deck, picks a random first player and
// enters initial placement.
func (g *Game) Start(tpl *BoardTemplate) error {
	board, err := GenerateBoard(tpl, g.Opts, g.rng)
	if err != nil {
		return err
	}
	g.Board = board
	g.DevCardDeck = NewDeck(g.Opts.MaxPlayers > 4, g.rng)
	g.Started = true

	seated := []int{}
	for _, p := range g.Players {
		if !p.Vacant() {
			seated = append(seated, p.Seat)
		}
	}
	g.FirstPlayer = seated[g.rng.Intn(len(seated))]
	g.CurrentPlayer = g.FirstPlayer
	g.State = StateStart1A
	return nil
}

// nextSeat returns the next occupied seat after from, wrapping.
func (g *Game) nextSeat(from int) int {
	for i := 1; i <= len(g.Players); i++ {
		seat := (from + i) % len(g.Players)
		if !g.Players[seat].Vacant() {
			return seat
		}
	}
	return from
}

// prevSeat returns the previous occupied seat before from, wrapping.
func (g *Game) prevSeat(from int) int {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		seat := (from - i + n) % n
		if !g.Players[seat].Vacant() {
			return seat
		}
	}
	return from
}

// lastPlacementSeat is the seat that places last in a forward rotation,
// which is the seat before the first player.
func (g *Game) lastPlacementSeat() int {
	return g.prevSeat(g.FirstPlayer)
}

// startTurn enters ROLL_OR_CARD for the given seat, clearing its per-turn
// flags and promoting dev cards.
func (g *Game) startTurn(seat int) {
	g.CurrentPlayer = seat
	g.Players[seat].resetTurnFlags()
	g.State = StateRollOrCard
	if seat == g.FirstPlayer {
		g.RoundCount++
	}
}

// specialBuildPending finds the next seat after from that asked for the
// Special Building Phase, or -1.
func (g *Game) specialBuildPending(from int) int {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if seat == g.specialBuildReturnTo {
			// Wrapped past the turn owner; everyone had their chance.
			return -1
		}
		if p := g.Players[seat]; !p.Vacant() && p.AskedSpecialBuild {
			return seat
		}
	}
	return -1
}

// WinnerSeat returns the seat that reached the victory target, or -1. VP
// cards count; only the current player can win (cards reveal on their
// turn).
func (g *Game) WinnerSeat() int {
	if g.CurrentPlayer < 0 {
		return -1
	}
	p := g.Players[g.CurrentPlayer]
	if g.totalVP(p) >= g.Opts.VictoryPoints {
		return p.Seat
	}
	return -1
}

func (g *Game) totalVP(p *Player) int {
	vp := p.PublicVP() + p.DevCards.VPCount()
	if g.LargestArmyPlayer == p.Seat {
		vp += 2
	}
	if g.LongestRoadPlayer == p.Seat && !g.Opts.NoLongestRoadVP {
		vp += 2
	}
	return vp
}

// Scores returns each seat's visible-from-the-server total VP.
func (g *Game) Scores() []int {
	out := make([]int, len(g.Players))
	for i, p := range g.Players {
		out[i] = g.totalVP(p)
	}
	return out
}

// Expired reports whether the table should be destroyed at time now.
func (g *Game) Expired(now time.Time, grace time.Duration) bool {
	return !g.FinishedAt.IsZero() && now.Sub(g.FinishedAt) > grace
}
