package handler

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/gosettlers/server/internal/game"
	"github.com/gosettlers/server/internal/message"
	"github.com/gosettlers/server/internal/net"
)

// resourceElements builds a PLAYERELEMENTS batch from the non-zero known
// slots of a resource set.
func resourceElements(name string, seat, action int, rs game.Resources) *message.PlayerElements {
	m := &message.PlayerElements{Game: name, Seat: seat, Action: action}
	for r := 0; r < game.Unknown; r++ {
		if rs[r] != 0 {
			m.Elements = append(m.Elements, r)
			m.Amounts = append(m.Amounts, rs[r])
		}
	}
	return m
}

// handElements is the exact-hand SET batch sent only to the hand's owner
// (or to everyone in fully observable games).
func handElements(name string, g *game.Game, seat int) *message.PlayerElements {
	p := g.Players[seat]
	m := &message.PlayerElements{Game: name, Seat: seat, Action: message.ElemSet}
	for r := 0; r < game.Unknown; r++ {
		m.Elements = append(m.Elements, r)
		m.Amounts = append(m.Amounts, p.Resources[r])
	}
	return m
}

func (h *Handler) handleRollDice(cst *caster, c *net.Conn) {
	g := cst.t.g
	seat := cst.seatOf(c)
	if !g.CanRollDice(seat) {
		cst.decline(c, message.DeclineNotYourTurn, "you can't roll the dice right now")
		return
	}
	name := cst.t.name
	res := g.RollDice()
	cst.toAll(&message.DiceResult{Game: name, Sum: res.Sum})

	if res.Sum == 7 {
		cst.toAll(&message.GameState{Game: name, State: int(g.State)})
		if len(res.Discarders) > 0 {
			cst.serverText(nickAt(g, seat) + " rolled a 7; discards are due.")
			for _, ds := range res.Discarders {
				cst.toSeat(ds, &message.DiscardRequest{Game: name, Count: g.Players[ds].NeedsToDiscard})
			}
		} else {
			cst.serverText(nickAt(g, seat) + " will move the robber.")
		}
		return
	}

	cst.emitRollGains(res)
	for _, node := range res.EmptyVillages {
		cst.serverText("The village at " + strconv.Itoa(node) + " has run out of cloth.")
	}
	for _, clothSeat := range res.ClothSeats {
		cst.toAll(&message.PlayerElement{Game: name, Seat: clothSeat,
			Action: message.ElemGain, Element: message.ElemScenarioCloth, Amount: 1})
	}
	if g.State == game.StateWaitingForPickGoldResource {
		for _, p := range g.Players {
			if p.NeedsGoldPicks > 0 {
				cst.serverText(p.Nickname + " picks " + strconv.Itoa(p.NeedsGoldPicks) + " gold hex resources.")
			}
		}
	}
	cst.toAll(&message.GameState{Game: name, State: int(g.State)})
}

// emitRollGains publishes who got what from a roll: one bundled message
// for current clients, text plus per-resource deltas for older ones, and
// an exact hand refresh to each gainer.
func (cst *caster) emitRollGains(res game.RollResult) {
	g := cst.t.g
	var seats []int
	for seat := range res.Gains {
		seats = append(seats, seat)
	}
	if len(seats) == 0 {
		return
	}
	sortInts(seats)

	m := &message.DiceResultResources{Game: cst.t.name}
	for _, s := range seats {
		m.Seats = append(m.Seats, s)
		m.Totals = append(m.Totals, g.Players[s].Resources.Total())
		m.Gains = append(m.Gains, message.ResourceSet(res.Gains[s]))
	}
	cst.toAll(m)

	for _, s := range seats {
		if g.Opts.FullyObservable {
			cst.toAll(handElements(cst.t.name, g, s))
		} else {
			cst.toSeat(s, handElements(cst.t.name, g, s))
		}
	}
}

func (h *Handler) handleDiscard(cst *caster, c *net.Conn, m *message.Discard) {
	g := cst.t.g
	seat := cst.seatOf(c)
	rs := game.Resources(m.Set)
	if !g.CanDiscard(seat, rs) {
		cst.decline(c, message.DeclineWrongState, "that is not a legal discard")
		return
	}
	name := cst.t.name
	done := g.Discard(seat, rs)

	if g.Opts.FullyObservable {
		cst.toAll(resourceElements(name, seat, message.ElemLose, rs))
	} else {
		cst.toSeat(seat, resourceElements(name, seat, message.ElemLose, rs))
		cst.toAllExceptSeat(seat, &message.PlayerElement{Game: name, Seat: seat,
			Action: message.ElemLose, Element: message.UnknownResource, Amount: rs.Total()})
	}
	cst.serverText(nickAt(g, seat) + " discarded " + strconv.Itoa(rs.Total()) + " resources.")

	if done {
		cst.toAll(&message.GameState{Game: name, State: int(g.State)})
		cst.serverText(nickAt(g, g.CurrentPlayer) + " will move the robber.")
	}
}

// handleMoveRobber handles both pieces: a negated hex moves the pirate.
func (h *Handler) handleMoveRobber(cst *caster, c *net.Conn, m *message.MoveRobber) {
	g := cst.t.g
	seat := cst.seatOf(c)
	hex, pirate := m.Hex, false
	if hex < 0 {
		hex, pirate = -hex, true
	}

	var res game.MoveRobberResult
	if pirate {
		if !g.CanMovePirate(seat, hex) {
			cst.decline(c, message.DeclineLocationIllegal, "the pirate cannot go there")
			return
		}
		res = g.MovePirate(seat, hex)
	} else {
		if !g.CanMoveRobber(seat, hex) {
			cst.decline(c, message.DeclineLocationIllegal, "the robber cannot go there")
			return
		}
		res = g.MoveRobber(seat, hex)
	}
	cst.toAll(&message.MoveRobber{Game: cst.t.name, Seat: seat, Hex: m.Hex})
	cst.afterRobberMove(seat, res)
}

func (cst *caster) afterRobberMove(seat int, res game.MoveRobberResult) {
	g := cst.t.g
	name := cst.t.name
	switch {
	case res.ChooseClothOrResource, len(res.Victims) > 1:
		cst.toAll(&message.GameState{Game: name, State: int(g.State)})
		choices := make([]bool, len(g.Players))
		for _, v := range res.Victims {
			choices[v] = true
		}
		cst.toSeat(seat, &message.ChoosePlayerRequest{Game: name, Choices: choices})
	case res.Stolen:
		kind := message.RobResource
		if res.Kind == 1 {
			kind = message.RobCloth
		}
		cst.reportRobbery(seat, res.StolenFrom, kind, res.Resource, 1)
		cst.emitPostRobberyState()
	default:
		cst.serverText(nickAt(g, seat) + " found no one to rob.")
		cst.emitPostRobberyState()
	}
}

// reportRobbery tells everyone a steal happened; only the thief, the
// victim and fully-observable tables learn the exact resource. Cloth is
// public either way since cloth counts are open.
func (cst *caster) reportRobbery(thief, victim, kind, rsrc, amount int) {
	g := cst.t.g
	name := cst.t.name
	exact := &message.ReportRobbery{Game: name, Perp: thief, Victim: victim,
		Kind: kind, Rsrc: rsrc, Amount: amount}
	masked := *exact
	masked.Rsrc = message.UnknownResource

	for _, c := range cst.members() {
		seat := g.SeatOf(c.Nickname())
		if kind == message.RobCloth || g.Opts.FullyObservable || seat == thief || seat == victim {
			cst.send(c, exact)
		} else {
			cst.send(c, &masked)
		}
	}

	if kind == message.RobCloth {
		cst.toAll(
			&message.PlayerElement{Game: name, Seat: thief, Action: message.ElemSet,
				Element: message.ElemScenarioCloth, Amount: g.Players[thief].Cloth},
			&message.PlayerElement{Game: name, Seat: victim, Action: message.ElemSet,
				Element: message.ElemScenarioCloth, Amount: g.Players[victim].Cloth})
		return
	}
	cst.toAll(
		&message.ResourceCount{Game: name, Seat: thief, Count: g.Players[thief].Resources.Total()},
		&message.ResourceCount{Game: name, Seat: victim, Count: g.Players[victim].Resources.Total()})
}

// emitPostRobberyState returns the table to wherever the robbery
// interrupted it, re-prompting the roll for a pre-roll knight.
func (cst *caster) emitPostRobberyState() {
	g := cst.t.g
	cst.toAll(&message.GameState{Game: cst.t.name, State: int(g.State)})
	if g.State == game.StateRollOrCard {
		cst.toAll(&message.RollDicePrompt{Game: cst.t.name, Seat: g.CurrentPlayer})
	}
}

// handleChoosePlayer resolves a victim choice. A negated-minus-one seat
// asks to rob cloth instead of a resource.
func (h *Handler) handleChoosePlayer(cst *caster, c *net.Conn, m *message.ChoosePlayer) {
	g := cst.t.g
	seat := cst.seatOf(c)
	victim, robCloth := m.Seat, false
	if victim < 0 {
		victim, robCloth = -victim-1, true
	}

	switch g.State {
	case game.StateWaitingForRobClothOrResource:
		if !g.CanChooseRobClothOrResource(seat) || len(g.RobberyVictims) == 0 {
			cst.decline(c, message.DeclineWrongState, "there is no rob choice pending")
			return
		}
		victim = g.RobberyVictims[0]
	case game.StateWaitingForRobChoosePlayer:
		if !g.CanChoosePlayer(seat, victim) {
			cst.decline(c, message.DeclineOther, "you cannot rob that player")
			return
		}
	default:
		cst.decline(c, message.DeclineWrongState, "there is no robbery pending")
		return
	}

	steal := g.ChoosePlayer(seat, victim, robCloth)
	kind := message.RobResource
	if steal.Kind == 1 {
		kind = message.RobCloth
	}
	if steal.Amount > 0 {
		cst.reportRobbery(seat, victim, kind, steal.Resource, steal.Amount)
	}
	cst.emitPostRobberyState()
}

func (h *Handler) handleEndTurn(cst *caster, c *net.Conn) {
	g := cst.t.g
	seat := cst.seatOf(c)
	if !g.CanEndTurn(seat) {
		reason := message.DeclineWrongState
		if g.CurrentPlayer != seat {
			reason = message.DeclineNotYourTurn
		}
		cst.decline(c, reason, "you cannot end the turn now")
		return
	}
	res := g.EndTurn()
	cst.toAll(&message.ClearOffer{Game: cst.t.name, Seat: -1})
	h.emitTurnChange(cst, res)
}

// emitTurnChange publishes the outcome of an EndTurn or ForceEndTurn.
func (h *Handler) emitTurnChange(cst *caster, res game.EndTurnResult) {
	g := cst.t.g
	name := cst.t.name
	switch {
	case res.GameOver:
		cst.toAll(&message.GameState{Game: name, State: int(game.StateGameOver)})
		cst.serverText(nickAt(g, res.Winner) + " has won the game!")
		cst.emitGameStats()
		h.log.Info("game over", zap.String("game", name), zap.Int("winner", res.Winner))
	case res.SpecialBuilding:
		cst.toAll(
			&message.GameState{Game: name, State: int(game.StateSpecialBuilding)},
			&message.SetTurn{Game: name, Seat: res.NextSeat})
		cst.t.turnStarted = nowFunc()
	default:
		cst.toAll(&message.SetPlayedDevCard{Game: name, Seat: res.NextSeat, Played: false})
		cst.announceTurn()
	}
}

// emitGameStats closes the game out: public scores for everyone, each
// player's own lifetime roll income to themselves.
func (cst *caster) emitGameStats() {
	g := cst.t.g
	name := cst.t.name
	robots := make([]bool, len(g.Players))
	for i, p := range g.Players {
		robots[i] = p.Robot
	}
	cst.toAll(&message.GameStats{Game: name, Scores: g.Scores(), Robots: robots})
	for _, p := range g.Players {
		if p.Vacant() {
			continue
		}
		counts := make([]int, game.Unknown)
		for r := 0; r < game.Unknown; r++ {
			counts[r] = p.ResourceStats[r]
		}
		cst.toSeat(p.Seat, &message.PlayerStats{Game: name, Kind: 1, Counts: counts})
	}
}

func (h *Handler) handleBuildRequest(cst *caster, c *net.Conn, m *message.BuildRequest) {
	g := cst.t.g
	seat := cst.seatOf(c)
	name := cst.t.name

	if m.Piece < 0 {
		// Special Building Phase request.
		if !g.CanAskSpecialBuild(seat) {
			cst.decline(c, message.DeclineWrongState, "you cannot ask to special build")
			return
		}
		g.AskSpecialBuild(seat)
		cst.toAll(&message.PlayerElement{Game: name, Seat: seat,
			Action: message.ElemSet, Element: message.ElemAskSpecialBuild, Amount: 1})
		return
	}

	if !g.CanBuildPiece(seat, m.Piece) {
		reason := message.DeclineInsufficient
		if !g.Started || g.CurrentPlayer != seat {
			reason = message.DeclineNotYourTurn
		}
		cst.declineBuild(c, seat, m.Piece, reason, "you cannot build that now")
		return
	}
	g.BeginBuild(seat, m.Piece)
	cst.toAll(resourceElements(name, seat, message.ElemLose, game.PieceCost(m.Piece)))
	cst.toAll(&message.GameState{Game: name, State: int(g.State)})
}

// placingStateFor maps a piece type to the build state it occupies.
func placingStateFor(piece int) game.State {
	switch piece {
	case game.PieceRoad:
		return game.StatePlacingRoad
	case game.PieceSettlement:
		return game.StatePlacingSettlement
	case game.PieceCity:
		return game.StatePlacingCity
	case game.PieceShip:
		return game.StatePlacingShip
	}
	return game.StateNewGame
}

func (h *Handler) handleCancelBuild(cst *caster, c *net.Conn, m *message.CancelBuildRequest) {
	g := cst.t.g
	seat := cst.seatOf(c)
	if g.CurrentPlayer != seat || g.State != placingStateFor(m.Piece) {
		cst.decline(c, message.DeclineWrongState, "there is no build to cancel")
		return
	}
	g.CancelBuild(seat, m.Piece)
	cst.toAll(resourceElements(cst.t.name, seat, message.ElemGain, game.PieceCost(m.Piece)))
	cst.toAll(&message.GameState{Game: cst.t.name, State: int(g.State)})
}

// stateAllowsPiece checks that the state machine is waiting for exactly
// this piece type from this seat.
func stateAllowsPiece(g *game.Game, seat, piece int) bool {
	if g.DebugFreePlace && g.IsPractice {
		return true
	}
	if !g.Started || g.CurrentPlayer != seat {
		return false
	}
	switch g.State {
	case game.StateStart1A, game.StateStart2A, game.StateStart3A:
		return piece == game.PieceSettlement
	case game.StateStart1B, game.StateStart2B, game.StateStart3B,
		game.StatePlacingFreeRoad1, game.StatePlacingFreeRoad2:
		return piece == game.PieceRoad || (g.Opts.SeaBoard && piece == game.PieceShip)
	case game.StatePlacingRoad:
		return piece == game.PieceRoad
	case game.StatePlacingSettlement:
		return piece == game.PieceSettlement
	case game.StatePlacingCity:
		return piece == game.PieceCity
	case game.StatePlacingShip:
		return piece == game.PieceShip
	}
	return false
}

func (h *Handler) handlePutPiece(cst *caster, c *net.Conn, m *message.PutPiece) {
	g := cst.t.g
	seat := cst.seatOf(c)
	if !stateAllowsPiece(g, seat, m.Piece) {
		reason := message.DeclineWrongState
		if g.CurrentPlayer != seat {
			reason = message.DeclineNotYourTurn
		}
		cst.declineBuild(c, seat, m.Piece, reason, "you cannot place that now")
		return
	}
	if !g.CanPlacePiece(seat, m.Piece, m.Coord) {
		cst.declineBuild(c, seat, m.Piece, message.DeclineLocationIllegal,
			"you cannot place that there")
		return
	}
	res := g.PutPiece(seat, m.Piece, m.Coord)
	cst.emitPutPiece(seat, m.Piece, m.Coord, res)
}

// emitPutPiece publishes a committed placement and all its side effects.
func (cst *caster) emitPutPiece(seat, piece, coord int, res game.PutPieceResult) {
	g := cst.t.g
	name := cst.t.name

	cst.toAll(&message.PutPiece{Game: name, Seat: seat, Piece: piece, Coord: coord})
	for _, hx := range res.RevealedHexes {
		cst.toAll(&message.RevealFogHex{Game: name, Hex: hx,
			HexType: g.Board.HexType[hx], DiceNum: g.Board.DiceNum[hx]})
	}
	if res.InitialGains.Total() > 0 {
		cst.toAll(resourceElements(name, seat, message.ElemGain, res.InitialGains))
		cst.serverText(nickAt(g, seat) + " gets " +
			describeSet(message.ResourceSet(res.InitialGains)) + ".")
	}
	if res.GoldPicksOwed > 0 {
		cst.serverText(nickAt(g, seat) + " picks " +
			strconv.Itoa(res.GoldPicksOwed) + " gold hex resources.")
	}
	if res.LongestRoadChanged {
		cst.toAll(&message.GameElements{Game: name,
			Elements: []int{message.GameElemLongestRoad},
			Amounts:  []int{g.LongestRoadPlayer}})
	}
	if a := g.LastAction; a != nil {
		cst.toAll(&message.SetLastAction{Game: name, Seat: seat,
			Action: a.Type, V1: a.P1, V2: a.P2})
	}
	if res.TurnAdvanced {
		cst.announceTurn()
	} else {
		cst.toAll(&message.GameState{Game: name, State: int(g.State)})
	}
}

func (h *Handler) handleMovePiece(cst *caster, c *net.Conn, m *message.MovePiece) {
	g := cst.t.g
	seat := cst.seatOf(c)
	if m.Piece != game.PieceShip || !g.CanMoveShip(seat, m.FromCoord, m.ToCoord) {
		cst.declineBuild(c, seat, m.Piece, message.DeclineLocationIllegal,
			"that ship cannot move there")
		return
	}
	res := g.MoveShip(seat, m.FromCoord, m.ToCoord)
	name := cst.t.name
	cst.toAll(&message.MovePiece{Game: name, Seat: seat,
		Piece: game.PieceShip, FromCoord: m.FromCoord, ToCoord: m.ToCoord})
	for _, hx := range res.RevealedHexes {
		cst.toAll(&message.RevealFogHex{Game: name, Hex: hx,
			HexType: g.Board.HexType[hx], DiceNum: g.Board.DiceNum[hx]})
	}
	if res.LongestRoadChanged {
		cst.toAll(&message.GameElements{Game: name,
			Elements: []int{message.GameElemLongestRoad},
			Amounts:  []int{g.LongestRoadPlayer}})
	}
	if a := g.LastAction; a != nil {
		cst.toAll(&message.SetLastAction{Game: name, Seat: seat,
			Action: a.Type, V1: a.P1, V2: a.P2})
	}
	cst.toAll(&message.GameState{Game: name, State: int(g.State)})
}

func (h *Handler) handleUndo(cst *caster, c *net.Conn) {
	g := cst.t.g
	seat := cst.seatOf(c)
	name := cst.t.name
	if !g.CanUndo(seat) {
		cst.decline(c, message.DeclineOther, "nothing can be taken back")
		c.Send(&message.SimpleAction{Game: name, Seat: seat, Act: message.ActUndoCannot})
		return
	}
	u := g.Undo(seat)
	a := u.Action
	switch a.Type {
	case game.ActionPutPiece:
		cst.toAll(&message.UndoPutPiece{Game: name, Seat: seat, Piece: a.P1, Coord: a.P2})
		if a.Cost.Total() > 0 {
			cst.toAll(resourceElements(name, seat, message.ElemGain, a.Cost))
		}
		if a.RS1.Total() > 0 {
			// Initial-placement payout goes back to the bank.
			cst.toAll(resourceElements(name, seat, message.ElemLose, a.RS1))
		}
	case game.ActionMoveShip:
		cst.toAll(&message.UndoPutPiece{Game: name, Seat: seat,
			Piece: game.PieceShip, Coord: a.P1, FromCoord: a.P2})
	case game.ActionBankTrade:
		// Broadcast the reverse trade.
		cst.toAll(&message.BankTrade{Game: name, Seat: seat,
			Give: message.ResourceSet(a.RS2), Get: message.ResourceSet(a.RS1)})
	}
	if u.LongestRoadChanged {
		cst.toAll(&message.GameElements{Game: name,
			Elements: []int{message.GameElemLongestRoad},
			Amounts:  []int{g.LongestRoadPlayer}})
	}
	cst.toAll(&message.PlayerElement{Game: name, Seat: seat,
		Action: message.ElemSet, Element: message.ElemNumUndosRemaining,
		Amount: u.UndosRemaining})
	cst.toAll(&message.GameState{Game: name, State: int(g.State)})
}

// handleDebugFreePlace toggles or uses free placement on practice tables.
func (h *Handler) handleDebugFreePlace(cst *caster, c *net.Conn, m *message.DebugFreePlace) {
	g := cst.t.g
	if !g.IsPractice {
		cst.decline(c, message.DeclineOther, "free placement needs a practice game")
		return
	}
	seat := cst.seatOf(c)
	if seat < 0 {
		return
	}
	if m.Coord == 0 {
		g.DebugFreePlace = m.On
		cst.toAll(&message.DebugFreePlace{Game: cst.t.name, Seat: seat, On: m.On})
		return
	}
	if !g.DebugFreePlace {
		cst.decline(c, message.DeclineWrongState, "free placement is off")
		return
	}
	res := g.PutPiece(seat, m.Piece, m.Coord)
	cst.emitPutPiece(seat, m.Piece, m.Coord, res)
}

func (h *Handler) handleSimpleRequest(cst *caster, c *net.Conn, m *message.SimpleRequest) {
	g := cst.t.g
	seat := cst.seatOf(c)
	name := cst.t.name

	switch m.Req {
	case message.ReqAttackPirateFortress:
		if !g.CanAttackPirateFortress(seat) {
			cst.decline(c, message.DeclineWrongState, "you cannot attack a fortress now")
			return
		}
		res := g.AttackPirateFortress(seat)
		switch {
		case res.Conquered:
			cst.toAll(
				&message.RemovePiece{Game: name, Seat: -1, Piece: message.PieceVillage, Coord: res.Node},
				&message.PutPiece{Game: name, Seat: seat, Piece: game.PieceSettlement, Coord: res.Node})
			cst.serverText(nickAt(g, seat) + " has conquered the pirate fortress!")
		case res.Win:
			strength := 0
			if f := g.Board.Fortresses[res.Node]; f != nil {
				strength = f.Strength
			}
			cst.toAll(&message.PieceValue{Game: name, Piece: message.PieceFortress,
				Coord: res.Node, Value: strength})
			cst.serverText(nickAt(g, seat) + " won the battle; the fortress weakens.")
		default:
			cst.serverText(nickAt(g, seat) + " lost the battle and " +
				strconv.Itoa(res.ShipsLost) + " ships.")
			cst.toAll(&message.PlayerElement{Game: name, Seat: seat,
				Action: message.ElemSet, Element: message.ElemShips,
				Amount: g.Players[seat].PiecesRemaining[game.PieceShip]})
		}
	case message.ReqShipRouteStatus:
		// No per-request tracking; answer with the currently closed set.
		c.Send(&message.SetShipRouteClosed{Game: name, Closed: false})
	default:
		cst.decline(c, message.DeclineOther, "unsupported request")
	}
}
