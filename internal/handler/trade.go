package handler

import (
	"github.com/gosettlers/server/internal/game"
	"github.com/gosettlers/server/internal/message"
	"github.com/gosettlers/server/internal/net"
)

// handleMakeOffer records and relays a trade offer. The offer's FromSeat
// on the wire is ignored; the sender's seat wins.
func (h *Handler) handleMakeOffer(cst *caster, c *net.Conn, m *message.MakeOffer) {
	g := cst.t.g
	seat := cst.seatOf(c)
	if seat < 0 || g.Opts.NoTrading || g.State != game.StatePlay1 {
		cst.decline(c, message.DeclineWrongState, "trading is not possible now")
		return
	}
	give := game.Resources(m.Offer.Give)
	get := game.Resources(m.Offer.Get)
	if give.Total() == 0 || give[game.Unknown] != 0 || get[game.Unknown] != 0 ||
		!g.Players[seat].Resources.Contains(give) {
		cst.decline(c, message.DeclineInsufficient, "you cannot offer what you do not have")
		return
	}

	to := make([]bool, len(g.Players))
	for i := range to {
		if i != seat && i < len(m.Offer.ToSeats) {
			to[i] = m.Offer.ToSeats[i]
		}
	}
	g.Players[seat].Offer = &game.Offer{FromSeat: seat, ToSeats: to, Give: give, Get: get}

	out := m.Offer
	out.FromSeat = seat
	out.ToSeats = to
	cst.toAll(&message.MakeOffer{Game: cst.t.name, Offer: out})
}

// handleAcceptOffer commits a trade: the sender accepts the named seat's
// standing offer.
func (h *Handler) handleAcceptOffer(cst *caster, c *net.Conn, m *message.AcceptOffer) {
	g := cst.t.g
	accepting := cst.seatOf(c)
	offering := m.Offering
	if !g.CanMakeTrade(offering, accepting) {
		cst.decline(c, message.DeclineOther, "that trade cannot be made")
		return
	}
	give, get := g.MakeTrade(offering, accepting)
	name := cst.t.name
	cst.toAll(&message.AcceptOffer{Game: name,
		Accepting: accepting, Offering: offering,
		ToOfferer:  message.ResourceSet(get),
		ToAccepter: message.ResourceSet(give)})
	cst.serverText(nickAt(g, accepting) + " gave " + nickAt(g, offering) + " " +
		describeSet(message.ResourceSet(get)) + " for " +
		describeSet(message.ResourceSet(give)) + ".")
	cst.toAll(&message.ClearOffer{Game: name, Seat: -1})
}

// handleRejectOffer relays a rejection so offerers stop waiting.
func (h *Handler) handleRejectOffer(cst *caster, c *net.Conn) {
	seat := cst.seatOf(c)
	if seat < 0 {
		return
	}
	cst.toAll(&message.RejectOffer{Game: cst.t.name, Seat: seat})
}

// handleClearOffer withdraws the sender's own standing offer.
func (h *Handler) handleClearOffer(cst *caster, c *net.Conn) {
	g := cst.t.g
	seat := cst.seatOf(c)
	if seat < 0 || g.Players[seat].Offer == nil {
		return
	}
	g.Players[seat].Offer = nil
	cst.toAll(&message.ClearOffer{Game: cst.t.name, Seat: seat})
}

func (h *Handler) handleBankTrade(cst *caster, c *net.Conn, m *message.BankTrade) {
	g := cst.t.g
	seat := cst.seatOf(c)
	give := game.Resources(m.Give)
	get := game.Resources(m.Get)
	if !g.CanMakeBankTrade(seat, give, get) {
		cst.decline(c, message.DeclineInsufficient, "the bank will not take that trade")
		return
	}
	g.BankTrade(seat, give, get)
	name := cst.t.name
	cst.toAll(&message.BankTrade{Game: name, Give: m.Give, Get: m.Get, Seat: seat})
	if a := g.LastAction; a != nil && a.Type == game.ActionBankTrade {
		cst.toAll(&message.SetLastAction{Game: name, Seat: seat, Action: a.Type})
	}
}
