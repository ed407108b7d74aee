package handler

import (
	"strconv"

	"github.com/gosettlers/server/internal/game"
	"github.com/gosettlers/server/internal/message"
	"github.com/gosettlers/server/internal/net"
)

// caster fans messages out to one table's members, translating each
// message into the recipient's protocol dialect. Callers hold the game
// lock for the whole emission batch so every member sees the same
// snapshot.
type caster struct {
	h *Handler
	t *table
}

func (cst *caster) members() []*net.Conn {
	cst.h.mu.Lock()
	defer cst.h.mu.Unlock()
	out := make([]*net.Conn, len(cst.t.members))
	copy(out, cst.t.members)
	return out
}

func (cst *caster) toAll(msgs ...message.Message) {
	members := cst.members()
	for _, m := range msgs {
		if !needsPerConn(m) {
			// Same bytes for everyone: encode once.
			data := message.Encode(m)
			for _, c := range members {
				c.SendRaw(data)
			}
			continue
		}
		for _, c := range members {
			cst.send(c, m)
		}
	}
}

func (cst *caster) toConn(c *net.Conn, msgs ...message.Message) {
	for _, m := range msgs {
		cst.send(c, m)
	}
}

func (cst *caster) toSeat(seat int, msgs ...message.Message) {
	if c := cst.connForSeat(seat); c != nil {
		cst.toConn(c, msgs...)
	}
}

func (cst *caster) toAllExceptSeat(seat int, msgs ...message.Message) {
	skip := cst.connForSeat(seat)
	for _, c := range cst.members() {
		if c == skip {
			continue
		}
		for _, m := range msgs {
			cst.send(c, m)
		}
	}
}

// connForSeat maps a seat to its member connection via the nickname.
// Robot seats driven by in-process clients resolve the same way.
func (cst *caster) connForSeat(seat int) *net.Conn {
	p := cst.t.g.Player(seat)
	if p == nil || p.Vacant() {
		return nil
	}
	for _, c := range cst.members() {
		if c.Nickname() == p.Nickname {
			return c
		}
	}
	return nil
}

func (cst *caster) seatOf(c *net.Conn) int {
	return cst.t.g.SeatOf(c.Nickname())
}

// needsPerConn reports whether any supported client dialect encodes the
// message differently, which forces per-recipient translation.
func needsPerConn(m message.Message) bool {
	if message.MinVersion(m.Tag()) > message.VersionMin {
		return true
	}
	switch msg := m.(type) {
	case *message.DevCardAction:
		return true
	case *message.ClearOffer:
		return msg.Seat < 0
	}
	return false
}

// send delivers one message to one connection, downgrading it for older
// protocol versions where an older encoding exists.
func (cst *caster) send(c *net.Conn, m message.Message) {
	v := c.Version()

	switch msg := m.(type) {
	case *message.DevCardAction:
		if v < message.VersionDevCardRenumber {
			cp := *msg
			cp.CardType = message.CardTypeForVersion(msg.CardType, v)
			c.Send(&cp)
			return
		}
	case *message.ClearOffer:
		if msg.Seat < 0 && v < message.VersionCompactTrades {
			for seat := range cst.t.g.Players {
				c.Send(&message.ClearOffer{Game: cst.t.name, Seat: seat})
			}
			return
		}
	}

	if v >= message.MinVersion(m.Tag()) {
		c.Send(m)
		return
	}
	for _, fb := range cst.fallbackFor(m) {
		c.Send(fb)
	}
}

// fallbackFor renders a modern message in the pre-threshold encoding.
// Messages with no older equivalent return nothing and are withheld.
func (cst *caster) fallbackFor(m message.Message) []message.Message {
	name := cst.t.name
	g := cst.t.g

	switch msg := m.(type) {
	case *message.PlayerElements:
		out := make([]message.Message, 0, len(msg.Elements))
		for i, e := range msg.Elements {
			out = append(out, &message.PlayerElement{Game: name, Seat: msg.Seat,
				Action: msg.Action, Element: e, Amount: msg.Amounts[i]})
		}
		return out

	case *message.GameElements:
		var out []message.Message
		for i, e := range msg.Elements {
			switch e {
			case message.GameElemDevCardCount:
				out = append(out, &message.DevCardCount{Game: name, Count: msg.Amounts[i]})
			case message.GameElemCurrentPlayer:
				if msg.Amounts[i] >= 0 {
					out = append(out, &message.SetTurn{Game: name, Seat: msg.Amounts[i]})
				}
			}
			// The road/army awards and the unjoinable flag have no
			// pre-batch encoding; old clients track those themselves.
		}
		return out

	case *message.DeclinePlayerRequest:
		return []message.Message{&message.GameServerText{Game: name, Text: msg.Text}}

	case *message.ReportRobbery:
		// The generic rendering never names the loot, so no redaction
		// decision is needed here.
		loot := "a resource"
		if msg.Kind == message.RobCloth {
			loot = "a cloth"
		}
		return []message.Message{&message.GameServerText{Game: name,
			Text: nickAt(g, msg.Perp) + " stole " + loot + " from " + nickAt(g, msg.Victim) + "."}}

	case *message.AcceptOffer:
		// Pre-compact clients reconstruct the trade from four element
		// deltas per resource moved.
		var out []message.Message
		for r := 0; r < message.UnknownResource; r++ {
			if n := msg.ToAccepter[r]; n > 0 {
				out = append(out,
					&message.PlayerElement{Game: name, Seat: msg.Offering,
						Action: message.ElemLose, Element: r, Amount: n},
					&message.PlayerElement{Game: name, Seat: msg.Accepting,
						Action: message.ElemGain, Element: r, Amount: n})
			}
			if n := msg.ToOfferer[r]; n > 0 {
				out = append(out,
					&message.PlayerElement{Game: name, Seat: msg.Accepting,
						Action: message.ElemLose, Element: r, Amount: n},
					&message.PlayerElement{Game: name, Seat: msg.Offering,
						Action: message.ElemGain, Element: r, Amount: n})
			}
		}
		return out

	case *message.BankTrade:
		out := []message.Message{}
		for r := 0; r < message.UnknownResource; r++ {
			if n := msg.Give[r]; n > 0 {
				out = append(out, &message.PlayerElement{Game: name, Seat: msg.Seat,
					Action: message.ElemLose, Element: r, Amount: n})
			}
			if n := msg.Get[r]; n > 0 {
				out = append(out, &message.PlayerElement{Game: name, Seat: msg.Seat,
					Action: message.ElemGain, Element: r, Amount: n})
			}
		}
		return append(out, &message.BankTrade{Game: name, Give: msg.Give, Get: msg.Get, Seat: msg.Seat})

	case *message.DiceResultResources:
		var out []message.Message
		for i, seat := range msg.Seats {
			text := nickAt(g, seat) + " gets " + describeSet(msg.Gains[i]) + "."
			out = append(out, &message.GameServerText{Game: name, Text: text})
			for r := 0; r < message.UnknownResource; r++ {
				if n := msg.Gains[i][r]; n > 0 {
					out = append(out, &message.PlayerElement{Game: name, Seat: seat,
						Action: message.ElemGain, Element: r, Amount: n})
				}
			}
			out = append(out, &message.ResourceCount{Game: name, Seat: seat, Count: msg.Totals[i]})
		}
		return out

	case *message.GamesWithOptions:
		return []message.Message{&message.Games{Names: msg.Names}}
	case *message.NewGameWithOptions:
		return []message.Message{&message.NewGame{Game: msg.Game}}
	}

	return nil
}

// decline rejects a player's request: a typed reason for current clients,
// the keyed server text for older ones.
func (cst *caster) decline(c *net.Conn, reason int, text string) {
	if c == nil {
		return
	}
	if c.Version() >= message.VersionTypedRejects {
		c.Send(&message.DeclinePlayerRequest{Game: cst.t.name, Reason: reason, Text: text})
		return
	}
	c.Send(&message.GameServerText{Game: cst.t.name, Text: text})
}

// declineBuild adds the robot hint: drones treat the echoed cancel as
// "stop waiting for that placement".
func (cst *caster) declineBuild(c *net.Conn, seat, piece, reason int, text string) {
	cst.decline(c, reason, text)
	if p := cst.t.g.Player(seat); p != nil && p.Robot {
		c.Send(&message.CancelBuildRequest{Game: cst.t.name, Piece: piece})
	}
}

func (cst *caster) serverText(text string) {
	cst.toAll(&message.GameServerText{Game: cst.t.name, Text: text})
}

func nickAt(g *game.Game, seat int) string {
	if p := g.Player(seat); p != nil && !p.Vacant() {
		return p.Nickname
	}
	return "nobody"
}

// describeSet renders a resource set as "1 clay, 2 wheat".
func describeSet(rs message.ResourceSet) string {
	out := ""
	for r := 0; r < message.UnknownResource; r++ {
		if rs[r] == 0 {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += strconv.Itoa(rs[r]) + " " + game.ResourceName(r)
	}
	if out == "" {
		return "nothing"
	}
	return out
}

// lobbyCast sends to every live connection, with the pre-options lobby
// fallbacks applied.
func (h *Handler) lobbyCast(m message.Message) {
	if h.conns == nil {
		return
	}
	h.conns.ForEach(func(c *net.Conn) {
		if !c.Authenticated() {
			return
		}
		h.lobbySend(c, m)
	})
}

func (h *Handler) lobbySend(c *net.Conn, m message.Message) {
	if c.Version() >= message.MinVersion(m.Tag()) {
		c.Send(m)
		return
	}
	switch msg := m.(type) {
	case *message.GamesWithOptions:
		c.Send(&message.Games{Names: msg.Names})
	case *message.NewGameWithOptions:
		c.Send(&message.NewGame{Game: msg.Game})
	}
}
