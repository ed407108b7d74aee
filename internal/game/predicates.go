package game

// Piece build costs.
var pieceCost = map[int]Resources{
	PieceRoad:       {1, 0, 0, 0, 1, 0},
	PieceSettlement: {1, 0, 1, 1, 1, 0},
	PieceCity:       {0, 3, 0, 2, 0, 0},
	PieceShip:       {0, 0, 1, 0, 1, 0},
}

var devCardCost = Resources{0, 1, 1, 1, 0, 0}

// PieceCost returns the build cost for a piece type.
func PieceCost(piece int) Resources {
	return pieceCost[piece]
}

// DevCardCost returns the development card price.
func DevCardCost() Resources {
	return devCardCost
}

func (g *Game) isCurrent(seat int) bool {
	return g.Started && seat == g.CurrentPlayer
}

// buildState reports whether seat may initiate builds right now: its own
// PLAY1, or its slot of the Special Building Phase.
func (g *Game) buildState(seat int) bool {
	if !g.isCurrent(seat) {
		return false
	}
	return g.State == StatePlay1 || g.State == StateSpecialBuilding
}

func (g *Game) CanRollDice(seat int) bool {
	return g.isCurrent(seat) && g.State == StateRollOrCard
}

func (g *Game) CanEndTurn(seat int) bool {
	if !g.isCurrent(seat) {
		return false
	}
	return g.State == StatePlay1 || g.State == StateSpecialBuilding
}

func (g *Game) CanDiscard(seat int, rs Resources) bool {
	if g.State != StateWaitingForDiscards {
		return false
	}
	p := g.Player(seat)
	return p != nil && p.NeedsToDiscard > 0 &&
		rs.Total() == p.NeedsToDiscard && p.Resources.Contains(rs)
}

func (g *Game) CanMoveRobber(seat, hex int) bool {
	if !g.isCurrent(seat) {
		return false
	}
	if g.State != StatePlacingRobber && g.State != StateWaitingForRobberOrPirate {
		return false
	}
	t, ok := g.Board.HexType[hex]
	if !ok || hex == g.Board.Robber || t == HexWater || t == HexFog {
		return false
	}
	if g.Opts.RobberNoDesert && t == HexDesert {
		return false
	}
	return true
}

func (g *Game) CanMovePirate(seat, hex int) bool {
	if !g.isCurrent(seat) || !g.Board.Sea {
		return false
	}
	if g.State != StatePlacingPirate && g.State != StateWaitingForRobberOrPirate {
		return false
	}
	return g.Board.HexType[hex] == HexWater && hex != g.Board.Pirate
}

func (g *Game) CanChoosePlayer(seat, victim int) bool {
	if !g.isCurrent(seat) || g.State != StateWaitingForRobChoosePlayer {
		return false
	}
	for _, v := range g.RobberyVictims {
		if v == victim {
			return true
		}
	}
	return false
}

func (g *Game) CanChooseRobClothOrResource(seat int) bool {
	return g.isCurrent(seat) && g.State == StateWaitingForRobClothOrResource
}

// CanBuildPiece checks affordability and stock for a BUILDREQUEST; location
// legality is checked at placement time.
func (g *Game) CanBuildPiece(seat, piece int) bool {
	if !g.buildState(seat) {
		return false
	}
	p := g.Player(seat)
	if p == nil || p.PiecesRemaining[piece] == 0 {
		return false
	}
	if piece == PieceShip && !g.Board.Sea {
		return false
	}
	cost, ok := pieceCost[piece]
	return ok && p.Resources.Contains(cost)
}

func (g *Game) CanBuyDevCard(seat int) bool {
	if !g.buildState(seat) || len(g.DevCardDeck) == 0 {
		return false
	}
	p := g.Player(seat)
	return p != nil && p.Resources.Contains(devCardCost)
}

// canPlayCard is the shared gate for playing a non-VP dev card.
func (g *Game) canPlayCard(seat, cardType int) bool {
	if !g.isCurrent(seat) {
		return false
	}
	if g.State != StateRollOrCard && g.State != StatePlay1 {
		return false
	}
	p := g.Player(seat)
	if p == nil || p.PlayedDevCard {
		return false
	}
	return p.DevCards.Count(CardOld, cardType) > 0
}

func (g *Game) CanPlayKnight(seat int) bool { return g.canPlayCard(seat, CardKnight) }

func (g *Game) CanPlayRoadBuilding(seat int) bool {
	if !g.canPlayCard(seat, CardRoads) {
		return false
	}
	p := g.Player(seat)
	return p.PiecesRemaining[PieceRoad] > 0 || p.PiecesRemaining[PieceShip] > 0
}

func (g *Game) CanPlayDiscovery(seat int) bool { return g.canPlayCard(seat, CardDisc) }
func (g *Game) CanPlayMonopoly(seat int) bool  { return g.canPlayCard(seat, CardMono) }

// CanMakeTrade checks an offer from offSeat that accSeat wants to accept.
func (g *Game) CanMakeTrade(offSeat, accSeat int) bool {
	if g.Opts.NoTrading || g.State != StatePlay1 {
		return false
	}
	off, acc := g.Player(offSeat), g.Player(accSeat)
	if off == nil || acc == nil || off.Offer == nil {
		return false
	}
	o := off.Offer
	if accSeat >= len(o.ToSeats) || !o.ToSeats[accSeat] {
		return false
	}
	return off.Resources.Contains(o.Give) && acc.Resources.Contains(o.Get)
}

func (g *Game) CanMakeBankTrade(seat int, give, get Resources) bool {
	if !g.isCurrent(seat) || g.State != StatePlay1 {
		return false
	}
	p := g.Player(seat)
	if p == nil || !p.Resources.Contains(give) || get.Total() == 0 {
		return false
	}
	if give[Unknown] != 0 || get[Unknown] != 0 {
		return false
	}
	// Each given resource type must trade at that type's port ratio, and
	// the credits earned must exactly cover the requested set.
	credits := 0
	for r := 0; r < Unknown; r++ {
		if give[r] == 0 {
			continue
		}
		ratio := g.Board.PortRatio(seat, r)
		if give[r]%ratio != 0 {
			return false
		}
		credits += give[r] / ratio
	}
	return credits == get.Total()
}

func (g *Game) CanPickGoldHexResources(seat int, rs Resources) bool {
	if g.State != StateWaitingForPickGoldResource && g.State != StateStartsWaitingPickGold {
		return false
	}
	p := g.Player(seat)
	return p != nil && p.NeedsGoldPicks > 0 && rs.Total() == p.NeedsGoldPicks && rs[Unknown] == 0
}

func (g *Game) CanPickDiscovery(seat int, rs Resources) bool {
	return g.isCurrent(seat) && g.State == StateWaitingForDiscovery &&
		rs.Total() == 2 && rs[Unknown] == 0
}

func (g *Game) CanPickMonopoly(seat, resource int) bool {
	return g.isCurrent(seat) && g.State == StateWaitingForMonopoly &&
		resource >= 0 && resource < Unknown
}

// CanAskSpecialBuild: 6-player boards let a non-current seat request the
// Special Building Phase between turns.
func (g *Game) CanAskSpecialBuild(seat int) bool {
	if !g.Started || len(g.Players) < 5 && !g.Opts.SixPlayerBoard {
		return false
	}
	if g.Opts.SpecialBuildOnly5or6 && g.SeatedCount() < 5 {
		return false
	}
	if g.State.initial() || g.State == StateNewGame || g.State >= StateAlmostOver {
		return false
	}
	p := g.Player(seat)
	return p != nil && !p.Vacant() && seat != g.CurrentPlayer && !p.AskedSpecialBuild
}

func (g *Game) CanAttackPirateFortress(seat int) bool {
	if !g.Opts.PirateFortresses || !g.buildState(seat) {
		return false
	}
	p := g.Player(seat)
	if p == nil {
		return false
	}
	// The player's ship must touch their fortress node.
	for _, f := range g.Board.Fortresses {
		for _, e := range g.Board.nodeEdges[f.Node] {
			if sp := g.Board.EdgePiece(e); sp != nil && sp.Type == PieceShip && sp.Owner == seat {
				return true
			}
		}
	}
	return false
}

func (g *Game) CanUndo(seat int) bool {
	p := g.Player(seat)
	return p != nil && p.UndosRemaining > 0 && g.LastAction != nil &&
		g.LastAction.Seat == seat && g.isCurrent(seat)
}

// CanPlacePiece validates a location for the piece the seat is placing.
func (g *Game) CanPlacePiece(seat, piece, coord int) bool {
	if g.DebugFreePlace && g.IsPractice {
		return true
	}
	switch piece {
	case PieceSettlement:
		return g.canPlaceSettlement(seat, coord)
	case PieceCity:
		p := g.Board.NodePiece(coord)
		return p != nil && p.Type == PieceSettlement && p.Owner == seat
	case PieceRoad:
		return g.canPlaceRoad(seat, coord)
	case PieceShip:
		return g.canPlaceShip(seat, coord)
	}
	return false
}

func (g *Game) canPlaceSettlement(seat, node int) bool {
	if !g.Board.NodeOnLand(node) || g.Board.NodePiece(node) != nil {
		return false
	}
	// Distance rule: no piece on any adjacent node.
	for _, nb := range g.Board.NodeNeighbors(node) {
		if g.Board.NodePiece(nb) != nil {
			return false
		}
	}
	if g.State.initial() {
		return true
	}
	// Must touch the player's own road or ship.
	for _, e := range g.Board.nodeEdges[node] {
		if p := g.Board.EdgePiece(e); p != nil && p.Owner == seat {
			return true
		}
	}
	return false
}

func (g *Game) canPlaceRoad(seat, edge int) bool {
	if !g.Board.EdgeOnLand(edge) || g.Board.EdgePiece(edge) != nil {
		return false
	}
	if g.State.initial() {
		// Initial road attaches to the settlement just placed.
		p := g.Player(seat)
		if p == nil || p.LastSettlement < 0 {
			return false
		}
		n1, n2 := EdgeNodes(edge)
		return n1 == p.LastSettlement || n2 == p.LastSettlement
	}
	return g.edgeConnectsToNetwork(seat, edge, PieceRoad)
}

func (g *Game) canPlaceShip(seat, edge int) bool {
	if !g.Board.Sea || !g.Board.EdgeOnWater(edge) || g.Board.EdgePiece(edge) != nil {
		return false
	}
	if g.Board.shipAdjacentToPirate(edge) {
		return false
	}
	return g.edgeConnectsToNetwork(seat, edge, PieceShip)
}

// edgeConnectsToNetwork checks that an edge touches the seat's network at
// one of its endpoints: the seat's settlement/city, or a same-kind edge
// piece whose junction node isn't an opponent's settlement. Roads and
// ships only connect through a settlement or city.
func (g *Game) edgeConnectsToNetwork(seat, edge, kind int) bool {
	n1, n2 := EdgeNodes(edge)
	for _, n := range [2]int{n1, n2} {
		if np := g.Board.NodePiece(n); np != nil {
			if np.Owner == seat && (np.Type == PieceSettlement || np.Type == PieceCity) {
				return true
			}
			// Opponent piece blocks continuing through this node.
			continue
		}
		for _, e := range g.Board.nodeEdges[n] {
			if e == edge {
				continue
			}
			if ep := g.Board.EdgePiece(e); ep != nil && ep.Owner == seat && ep.Type == kind {
				return true
			}
		}
	}
	return false
}

// CanMoveShip: the ship must be an open-route end piece not adjacent to
// the pirate, moving to a legal new edge.
func (g *Game) CanMoveShip(seat, from, to int) bool {
	if !g.buildState(seat) || from == to {
		return false
	}
	p := g.Board.EdgePiece(from)
	if p == nil || p.Type != PieceShip || p.Owner != seat {
		return false
	}
	if g.Board.ShipRouteClosed(from) || g.Board.shipAdjacentToPirate(from) {
		return false
	}
	if !g.shipIsRouteEnd(seat, from) {
		return false
	}
	// Validate the destination as if the ship were lifted off the board.
	g.Board.RemoveEdgePiece(from)
	ok := g.canPlaceShip(seat, to)
	g.Board.PutEdgePiece(p)
	return ok
}

// shipIsRouteEnd reports whether the ship sits at an open end of its
// route: an endpoint with no further own edge piece and no own building
// anchoring it.
func (g *Game) shipIsRouteEnd(seat, edge int) bool {
	n1, n2 := EdgeNodes(edge)
	for _, n := range [2]int{n1, n2} {
		if np := g.Board.NodePiece(n); np != nil && np.Owner == seat &&
			(np.Type == PieceSettlement || np.Type == PieceCity) {
			continue
		}
		extended := false
		for _, e := range g.Board.nodeEdges[n] {
			if e == edge {
				continue
			}
			if ep := g.Board.EdgePiece(e); ep != nil && ep.Owner == seat {
				extended = true
				break
			}
		}
		if !extended {
			return true
		}
	}
	return false
}

// PotentialSettlements lists every node where the seat could currently
// place a settlement.
func (g *Game) PotentialSettlements(seat int) []int {
	var out []int
	for n := range g.Board.validNodes {
		if g.canPlaceSettlement(seat, n) {
			out = append(out, n)
		}
	}
	return out
}

// PotentialRoads lists every edge where the seat could place a road.
func (g *Game) PotentialRoads(seat int) []int {
	var out []int
	for e := range g.Board.validEdges {
		if g.canPlaceRoad(seat, e) {
			out = append(out, e)
		}
	}
	return out
}
