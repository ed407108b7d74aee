// Package bot implements the built-in drone players. A drone is not an
// AI: it speaks the full client protocol over an in-process connection,
// places its starting pieces, rolls, discards and ends its turns, so
// humans can fill empty seats in practice games. Decline hints from the
// server (an echoed CANCELBUILDREQUEST) drive its retry behavior.
package bot

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gosettlers/server/internal/game"
	"github.com/gosettlers/server/internal/message"
	"github.com/gosettlers/server/internal/net"
)

// Corner-adjacent nodes differ by one of these deltas; see the board
// coordinate scheme in the game package.
var nodeNeighborDeltas = [4]int{+0x11, -0x11, +0x0F, -0x0F}

// Bot is one drone player. All fields past the connection are owned by
// the run loop goroutine.
type Bot struct {
	cl    *net.LocalClient
	log   *zap.Logger
	name  string
	game  string
	pause time.Duration

	seat    int
	current int
	state   int
	hand    [6]int

	candidates []int // settlement candidates from the last broadcast
	candIdx    int
	lastNode   int // own most recent settlement
	edgeTries  []int
	edgeIdx    int
	actedState int // last state acted on, to dedupe TURN+GAMESTATE

	hexes     []int
	hexTypes  []int
	robberHex int
}

// Join connects a drone to the server, seats it at the table and starts
// its message loop.
func Join(srv *net.Server, nickname, gameName string, seat int, pause time.Duration, log *zap.Logger) (*Bot, error) {
	cl := srv.ConnectLocal(nickname)
	if cl == nil {
		return nil, fmt.Errorf("bot: server refused connection for %s", nickname)
	}
	b := &Bot{
		cl:    cl,
		log:   log.With(zap.String("bot", nickname), zap.String("game", gameName)),
		name:  nickname,
		game:  gameName,
		pause: pause,
		seat:  seat,
		current:    -1,
		actedState: -1,
		robberHex:  -1,
	}

	b.send(&message.Version{Number: message.VersionCurrent,
		VerStr: message.VersionString(message.VersionCurrent), Build: "bot"})
	b.send(&message.AuthRequest{Role: "P", Nickname: nickname, Scheme: 1})
	b.send(&message.JoinGame{Nickname: nickname, Game: gameName})
	b.send(&message.SitDown{Game: gameName, Nickname: nickname, Seat: seat, Robot: true})

	go b.run()
	return b, nil
}

func (b *Bot) Close() { b.cl.Close() }

func (b *Bot) send(m message.Message) {
	if err := b.cl.Send(m); err != nil {
		b.log.Debug("send failed", zap.Error(err))
	}
}

func (b *Bot) run() {
	for {
		m, err := b.cl.Recv(0)
		if err != nil {
			return
		}
		b.handle(m)
	}
}

func (b *Bot) handle(m message.Message) {
	switch msg := m.(type) {
	case *message.Turn:
		b.current, b.state = msg.Seat, msg.State
		b.actedState = -1
		b.act()
	case *message.SetTurn:
		b.current = msg.Seat
	case *message.GameState:
		b.state = msg.State
		b.act()

	case *message.RollDicePrompt:
		if msg.Seat == b.seat {
			b.wait()
			b.send(&message.RollDice{Game: b.game})
		}
	case *message.DiscardRequest:
		b.discard(msg.Count)
	case *message.ChoosePlayerRequest:
		for seat, ok := range msg.Choices {
			if ok {
				b.send(&message.ChoosePlayer{Game: b.game, Seat: seat})
				break
			}
		}

	case *message.PlayerElements:
		if msg.Seat == b.seat {
			for i, e := range msg.Elements {
				b.applyElement(msg.Action, e, msg.Amounts[i])
			}
		}
	case *message.PlayerElement:
		if msg.Seat == b.seat {
			b.applyElement(msg.Action, msg.Element, msg.Amount)
		}
	case *message.DiceResultResources:
		for i, seat := range msg.Seats {
			if seat != b.seat {
				continue
			}
			for r := 0; r < message.UnknownResource; r++ {
				b.hand[r] += msg.Gains[i][r]
			}
		}

	case *message.BoardLayout:
		b.hexes, b.hexTypes, b.robberHex = msg.HexCoords, msg.HexTypes, msg.RobberHex
	case *message.BoardLayout2:
		b.hexes, b.hexTypes, b.robberHex = msg.HexCoords, msg.HexTypes, msg.RobberHex
	case *message.MoveRobber:
		if msg.Hex >= 0 {
			b.robberHex = msg.Hex
		}
	case *message.PotentialSettlements:
		b.candidates, b.candIdx = msg.Nodes, 0
	case *message.PutPiece:
		if msg.Seat == b.seat && msg.Piece == game.PieceSettlement {
			b.lastNode = msg.Coord
			b.edgeTries = nil
		}
	case *message.CancelBuildRequest:
		b.retry(msg.Piece)
	}
}

func (b *Bot) applyElement(action, element, amount int) {
	if element < 0 || element >= message.UnknownResource {
		return
	}
	switch action {
	case message.ElemSet:
		b.hand[element] = amount
	case message.ElemGain:
		b.hand[element] += amount
	case message.ElemLose:
		b.hand[element] -= amount
		if b.hand[element] < 0 {
			b.hand[element] = 0
		}
	}
}

// act reacts to the state machine when it is this drone's move. Rolls
// are driven by ROLLDICEPROMPT instead, and discards by DISCARDREQUEST.
func (b *Bot) act() {
	if b.current != b.seat || b.state == b.actedState {
		return
	}
	b.actedState = b.state

	switch game.State(b.state) {
	case game.StateStart1A, game.StateStart2A, game.StateStart3A,
		game.StatePlacingSettlement:
		b.wait()
		b.placeSettlement()
	case game.StateStart1B, game.StateStart2B, game.StateStart3B,
		game.StatePlacingRoad, game.StatePlacingFreeRoad1, game.StatePlacingFreeRoad2:
		b.wait()
		b.placeRoad()
	case game.StatePlacingRobber, game.StateWaitingForRobberOrPirate:
		b.wait()
		b.moveRobber()
	case game.StatePlay1:
		b.wait()
		b.send(&message.EndTurn{Game: b.game})
	}
}

// retry advances to the next candidate after a decline hint.
func (b *Bot) retry(piece int) {
	switch piece {
	case game.PieceSettlement:
		b.candIdx++
		b.placeSettlement()
	case game.PieceRoad:
		b.edgeIdx++
		b.placeRoad()
	}
}

func (b *Bot) placeSettlement() {
	if b.candIdx >= len(b.candidates) {
		b.log.Debug("no settlement candidate left")
		return
	}
	b.send(&message.PutPiece{Game: b.game, Seat: b.seat,
		Piece: game.PieceSettlement, Coord: b.candidates[b.candIdx]})
}

// placeRoad tries the edges around the drone's latest settlement.
func (b *Bot) placeRoad() {
	if b.edgeTries == nil {
		b.edgeIdx = 0
		for _, d := range nodeNeighborDeltas {
			if n := b.lastNode + d; n > 0 {
				b.edgeTries = append(b.edgeTries, game.EdgeCoord(b.lastNode, n))
			}
		}
	}
	if b.edgeIdx >= len(b.edgeTries) {
		b.log.Debug("no road candidate left", zap.Int("node", b.lastNode))
		return
	}
	b.send(&message.PutPiece{Game: b.game, Seat: b.seat,
		Piece: game.PieceRoad, Coord: b.edgeTries[b.edgeIdx]})
}

// moveRobber parks the robber on the first producing hex it is not
// already on.
func (b *Bot) moveRobber() {
	for i, h := range b.hexes {
		t := b.hexTypes[i]
		if h == b.robberHex || t < game.HexClay || t == game.HexWater || t == game.HexFog {
			continue
		}
		b.send(&message.MoveRobber{Game: b.game, Seat: b.seat, Hex: h})
		return
	}
}

// discard gives up the requested number of cards from the largest piles.
func (b *Bot) discard(count int) {
	var set message.ResourceSet
	hand := b.hand
	for n := 0; n < count; n++ {
		best := -1
		for r := 0; r < message.UnknownResource; r++ {
			if best < 0 || hand[r] > hand[best] {
				best = r
			}
		}
		if hand[best] == 0 {
			break
		}
		hand[best]--
		set[best]++
	}
	b.send(&message.Discard{Game: b.game, Set: set})
}

func (b *Bot) wait() {
	if b.pause > 0 {
		time.Sleep(b.pause)
	}
}
