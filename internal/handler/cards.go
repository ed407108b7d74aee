package handler

import (
	"strconv"

	"github.com/gosettlers/server/internal/game"
	"github.com/gosettlers/server/internal/message"
	"github.com/gosettlers/server/internal/net"
)

func (h *Handler) handleBuyDevCard(cst *caster, c *net.Conn) {
	g := cst.t.g
	seat := cst.seatOf(c)
	if !g.CanBuyDevCard(seat) {
		cst.decline(c, message.DeclineInsufficient, "you cannot buy a development card now")
		if p := g.Player(seat); p != nil && p.Robot {
			c.Send(&message.DevCardAction{Game: cst.t.name, Seat: seat,
				Action: message.DevCardCannotPlay, CardType: message.CardUnknown})
		}
		return
	}
	name := cst.t.name
	cardType, remaining := g.BuyDevCard(seat)

	cst.toAll(resourceElements(name, seat, message.ElemLose, game.DevCardCost()))
	cst.toAll(&message.GameElements{Game: name,
		Elements: []int{message.GameElemDevCardCount},
		Amounts:  []int{remaining}})

	// Only the buyer learns the card; everyone else sees an unknown draw.
	drawn := &message.DevCardAction{Game: name, Seat: seat,
		Action: message.DevCardDraw, CardType: cardType}
	if g.Opts.FullyObservable {
		cst.toAll(drawn)
	} else {
		cst.toSeat(seat, drawn)
		masked := *drawn
		masked.CardType = message.CardUnknown
		cst.toAllExceptSeat(seat, &masked)
	}

	cst.toAll(&message.SimpleAction{Game: name, Seat: seat, Act: message.ActDevCardBought,
		V1: remaining})
	cst.serverText(nickAt(g, seat) + " bought a development card.")
	if remaining == 0 {
		cst.serverText("There are no more development cards.")
	} else {
		cst.serverText("There are " + strconv.Itoa(remaining) + " cards left.")
	}
}

func (h *Handler) handlePlayDevCard(cst *caster, c *net.Conn, m *message.PlayDevCardRequest) {
	g := cst.t.g
	seat := cst.seatOf(c)
	cardType := message.CardTypeFromVersion(m.CardType, c.Version())

	ok := false
	switch cardType {
	case game.CardKnight:
		ok = g.CanPlayKnight(seat)
	case game.CardRoads:
		ok = g.CanPlayRoadBuilding(seat)
	case game.CardDisc:
		ok = g.CanPlayDiscovery(seat)
	case game.CardMono:
		ok = g.CanPlayMonopoly(seat)
	}
	if !ok {
		cst.decline(c, message.DeclineWrongState, "you cannot play that card now")
		if p := g.Player(seat); p != nil && p.Robot {
			c.Send(&message.DevCardAction{Game: cst.t.name, Seat: seat,
				Action: message.DevCardCannotPlay, CardType: cardType})
		}
		return
	}

	name := cst.t.name
	switch cardType {
	case game.CardKnight:
		prevArmy := g.LargestArmyPlayer
		g.PlayKnight(seat)
		cst.serverText(nickAt(g, seat) + " played a Soldier card.")
		cst.toAll(
			&message.DevCardAction{Game: name, Seat: seat,
				Action: message.DevCardPlay, CardType: game.CardKnight},
			&message.SetPlayedDevCard{Game: name, Seat: seat, Played: true},
			&message.PlayerElement{Game: name, Seat: seat,
				Action: message.ElemGain, Element: message.ElemNumKnights, Amount: 1})
		if g.LargestArmyPlayer != prevArmy {
			cst.toAll(&message.GameElements{Game: name,
				Elements: []int{message.GameElemLargestArmy},
				Amounts:  []int{g.LargestArmyPlayer}})
		}
		cst.toAll(&message.GameState{Game: name, State: int(g.State)})
		cst.serverText(nickAt(g, seat) + " will move the robber.")

	case game.CardRoads:
		g.PlayRoadBuilding(seat)
		cst.serverText(nickAt(g, seat) + " played a Road Building card.")
		cst.toAll(
			&message.DevCardAction{Game: name, Seat: seat,
				Action: message.DevCardPlay, CardType: game.CardRoads},
			&message.SetPlayedDevCard{Game: name, Seat: seat, Played: true},
			&message.GameState{Game: name, State: int(g.State)})
		if g.FreeRoads == 1 {
			cst.serverText(nickAt(g, seat) + " may place one road.")
		} else {
			cst.serverText(nickAt(g, seat) + " may place 2 roads.")
		}

	case game.CardDisc:
		g.PlayDiscovery(seat)
		cst.serverText(nickAt(g, seat) + " played a Year of Plenty card.")
		cst.toAll(
			&message.DevCardAction{Game: name, Seat: seat,
				Action: message.DevCardPlay, CardType: game.CardDisc},
			&message.SetPlayedDevCard{Game: name, Seat: seat, Played: true},
			&message.GameState{Game: name, State: int(g.State)})

	case game.CardMono:
		g.PlayMonopoly(seat)
		cst.serverText(nickAt(g, seat) + " played a Monopoly card.")
		cst.toAll(
			&message.DevCardAction{Game: name, Seat: seat,
				Action: message.DevCardPlay, CardType: game.CardMono},
			&message.SetPlayedDevCard{Game: name, Seat: seat, Played: true},
			&message.GameState{Game: name, State: int(g.State)})
	}
}

// handlePickResources resolves both pick states: Year of Plenty and gold
// hex picks, which share the wire message.
func (h *Handler) handlePickResources(cst *caster, c *net.Conn, m *message.PickResources) {
	g := cst.t.g
	seat := cst.seatOf(c)
	rs := game.Resources(m.Set)
	name := cst.t.name

	switch g.State {
	case game.StateWaitingForDiscovery:
		if !g.CanPickDiscovery(seat, rs) {
			cst.decline(c, message.DeclineWrongState, "pick 2 resources from the bank")
			return
		}
		g.PickDiscovery(seat, rs)
		cst.toAll(resourceElements(name, seat, message.ElemGain, rs))
		cst.serverText(nickAt(g, seat) + " received " + describeSet(m.Set) + " from the bank.")
		cst.toAll(&message.GameState{Game: name, State: int(g.State)})

	case game.StateWaitingForPickGoldResource, game.StateStartsWaitingPickGold:
		if !g.CanPickGoldHexResources(seat, rs) {
			cst.decline(c, message.DeclineWrongState, "that is not a legal gold hex pick")
			return
		}
		turnAdvanced := g.PickGoldResources(seat, rs)
		cst.toAll(resourceElements(name, seat, message.ElemGain, rs))
		cst.serverText(nickAt(g, seat) + " has picked " + describeSet(m.Set) + ".")
		if turnAdvanced {
			cst.announceTurn()
		} else {
			cst.toAll(&message.GameState{Game: name, State: int(g.State)})
		}

	default:
		cst.decline(c, message.DeclineWrongState, "there is nothing to pick")
	}
}

// handlePickResourceType resolves a Monopoly pick: every other player
// hands over all cards of the named resource.
func (h *Handler) handlePickResourceType(cst *caster, c *net.Conn, m *message.PickResourceType) {
	g := cst.t.g
	seat := cst.seatOf(c)
	if !g.CanPickMonopoly(seat, m.Rsrc) {
		cst.decline(c, message.DeclineWrongState, "that is not a legal monopoly pick")
		return
	}
	name := cst.t.name
	taken := g.DoMonopoly(seat, m.Rsrc)

	total := 0
	for victim, n := range taken {
		total += n
		// A SET on the victim keeps hidden-hand clients honest even when
		// their tracked count had drifted.
		cst.toAll(&message.PlayerElement{Game: name, Seat: victim,
			Action: message.ElemSet, Element: m.Rsrc,
			Amount: g.Players[victim].Resources[m.Rsrc]})
	}
	cst.toAll(&message.PlayerElement{Game: name, Seat: seat,
		Action: message.ElemGain, Element: m.Rsrc, Amount: total})

	cst.serverText(nickAt(g, seat) + " monopolized " +
		strconv.Itoa(total) + " " + game.ResourceName(m.Rsrc) + ".")
	cst.toAll(&message.GameState{Game: name, State: int(g.State)})
}
