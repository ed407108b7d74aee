package game

// RollResult is everything one dice roll produced.
type RollResult struct {
	DiceA, DiceB int
	Sum          int

	// Non-7 rolls.
	Gains      map[int]Resources // seat -> exact resources gained
	GoldPicks  map[int]int       // seat -> free picks owed by gold hexes
	ClothSeats []int             // seats that received cloth this roll
	EmptyVillages []int          // village nodes that ran out of cloth

	// Sum == 7.
	Discarders []int // seats that must discard
}

// RollDice commits one roll and distributes its effects. Caller checked
// CanRollDice.
func (g *Game) RollDice() RollResult {
	var a, b int
	for {
		a, b = g.rng.Intn(6)+1, g.rng.Intn(6)+1
		if a+b != 7 {
			break
		}
		if g.Opts.NoSevensRounds > 0 && g.RoundCount <= g.Opts.NoSevensRounds {
			continue // re-roll: no 7s in the opening rounds
		}
		if g.Opts.NoSevensUntilCity && !g.cityBuilt {
			continue
		}
		break
	}
	res := RollResult{DiceA: a, DiceB: b, Sum: a + b}
	g.DiceResult = res.Sum

	if res.Sum == 7 {
		for _, p := range g.Players {
			if !p.Vacant() && p.Resources.Total() > 7 {
				p.NeedsToDiscard = p.Resources.Total() / 2
				res.Discarders = append(res.Discarders, p.Seat)
			}
		}
		if len(res.Discarders) > 0 {
			g.State = StateWaitingForDiscards
		} else {
			g.State = g.robberPlacementState()
		}
		return res
	}

	res.Gains = make(map[int]Resources)
	res.GoldPicks = make(map[int]int)
	for h, num := range g.Board.DiceNum {
		if num != res.Sum || h == g.Board.Robber {
			continue
		}
		t := g.Board.HexType[h]
		for _, n := range g.Board.NodesAtHex(h) {
			np := g.Board.NodePiece(n)
			if np == nil || np.Owner < 0 {
				continue
			}
			mult := 0
			switch np.Type {
			case PieceSettlement:
				mult = 1
			case PieceCity:
				mult = 2
			}
			if mult == 0 {
				continue
			}
			if t == HexGold {
				res.GoldPicks[np.Owner] += mult
				continue
			}
			if r := hexResource(t); r >= 0 {
				var gain Resources
				gain[r] = mult
				cur := res.Gains[np.Owner]
				cur.Add(gain)
				res.Gains[np.Owner] = cur
			}
		}
	}
	for seat, gain := range res.Gains {
		p := g.Players[seat]
		p.Resources.Add(gain)
		p.RolledThisTurn = gain
		p.ResourceStats.Add(gain)
	}
	for seat, n := range res.GoldPicks {
		g.Players[seat].NeedsGoldPicks += n
	}

	if g.Opts.ClothVillages {
		res.ClothSeats, res.EmptyVillages = g.distributeCloth(res.Sum)
	}

	if len(res.GoldPicks) > 0 {
		g.State = StateWaitingForPickGoldResource
	} else {
		g.State = StatePlay1
	}
	return res
}

// distributeCloth pays one cloth from each village matching the roll to
// every player built on the village's neighbor nodes.
func (g *Game) distributeCloth(sum int) (seats []int, empty []int) {
	for _, v := range g.Board.Villages {
		if v.DiceNum != sum || v.Cloth == 0 {
			continue
		}
		for _, nb := range g.Board.NodeNeighbors(v.Node) {
			np := g.Board.NodePiece(nb)
			if np == nil || np.Owner < 0 || v.Cloth == 0 {
				continue
			}
			if np.Type != PieceSettlement && np.Type != PieceCity {
				continue
			}
			v.Cloth--
			g.Players[np.Owner].Cloth++
			seats = append(seats, np.Owner)
		}
		if v.Cloth == 0 {
			empty = append(empty, v.Node)
		}
	}
	return seats, empty
}

// robberPlacementState: sea boards offer robber-or-pirate choice.
func (g *Game) robberPlacementState() State {
	if g.Board != nil && g.Board.Sea {
		return StateWaitingForRobberOrPirate
	}
	return StatePlacingRobber
}

// Discard commits one seat's discard. Reports whether all demanded
// discards are now done; when true the state has advanced to robber
// placement. Caller checked CanDiscard.
func (g *Game) Discard(seat int, rs Resources) bool {
	p := g.Players[seat]
	p.Resources.Subtract(rs)
	p.NeedsToDiscard = 0
	for _, q := range g.Players {
		if q.NeedsToDiscard > 0 {
			return false
		}
	}
	g.State = g.robberPlacementState()
	return true
}

// MoveRobberResult describes the robbery subflow entered after a move.
type MoveRobberResult struct {
	Victims []int
	// Set when exactly one victim was robbed immediately.
	Stolen     bool
	StolenFrom int
	Resource   int
	Kind       int // 0 resource, 1 cloth
	// Set when the single victim has both cloth and resources (SC_CLVI),
	// so the mover must choose which to rob.
	ChooseClothOrResource bool
}

// MoveRobber commits the robber move and resolves the victim set. Caller
// checked CanMoveRobber.
func (g *Game) MoveRobber(seat, hex int) MoveRobberResult {
	g.Board.Robber = hex
	return g.resolveRobbery(seat, g.victimsAtHex(hex, seat))
}

// MovePirate commits the pirate move; victims are owners of ships on the
// hex's edges.
func (g *Game) MovePirate(seat, hex int) MoveRobberResult {
	g.Board.Pirate = hex
	seen := map[int]bool{}
	var victims []int
	corners := g.Board.NodesAtHex(hex)
	for i := range corners {
		e := EdgeCoord(corners[i], corners[(i+1)%6])
		if p := g.Board.EdgePiece(e); p != nil && p.Type == PieceShip && p.Owner != seat {
			if !seen[p.Owner] && g.Players[p.Owner].Resources.Total() > 0 {
				seen[p.Owner] = true
				victims = append(victims, p.Owner)
			}
		}
	}
	return g.resolveRobbery(seat, victims)
}

func (g *Game) victimsAtHex(hex, seat int) []int {
	seen := map[int]bool{}
	var victims []int
	for _, n := range g.Board.NodesAtHex(hex) {
		np := g.Board.NodePiece(n)
		if np == nil || np.Owner < 0 || np.Owner == seat || seen[np.Owner] {
			continue
		}
		if np.Type != PieceSettlement && np.Type != PieceCity {
			continue
		}
		p := g.Players[np.Owner]
		if p.Resources.Total() > 0 || (g.Opts.ClothVillages && p.Cloth > 0) {
			seen[np.Owner] = true
			victims = append(victims, np.Owner)
		}
	}
	return victims
}

func (g *Game) resolveRobbery(seat int, victims []int) MoveRobberResult {
	res := MoveRobberResult{Victims: victims}
	switch len(victims) {
	case 0:
		g.afterRobbery()
	case 1:
		v := g.Players[victims[0]]
		if g.Opts.ClothVillages && v.Cloth > 0 && v.Resources.Total() > 0 {
			res.ChooseClothOrResource = true
			g.RobberyVictims = victims
			g.State = StateWaitingForRobClothOrResource
			return res
		}
		steal := g.StealFrom(seat, victims[0], v.Resources.Total() == 0)
		res.Stolen, res.StolenFrom = true, victims[0]
		res.Resource, res.Kind = steal.Resource, steal.Kind
		g.afterRobbery()
	default:
		g.RobberyVictims = victims
		g.State = StateWaitingForRobChoosePlayer
	}
	return res
}

// StealResult is one committed robbery.
type StealResult struct {
	Kind     int // 0 resource, 1 cloth
	Resource int
	Amount   int
}

// StealFrom moves one random resource (or one cloth) from victim to thief.
func (g *Game) StealFrom(thief, victim int, cloth bool) StealResult {
	t, v := g.Players[thief], g.Players[victim]
	if cloth {
		if v.Cloth > 0 {
			v.Cloth--
			t.Cloth++
		}
		return StealResult{Kind: 1, Amount: 1}
	}
	total := v.Resources.KnownTotal()
	if total == 0 {
		return StealResult{Resource: -1}
	}
	pick := g.rng.Intn(total)
	for r := 0; r < Unknown; r++ {
		pick -= v.Resources[r]
		if pick < 0 {
			v.Resources[r]--
			t.Resources[r]++
			return StealResult{Resource: r, Amount: 1}
		}
	}
	return StealResult{Resource: -1}
}

// ChoosePlayer commits the steal against the chosen victim. robCloth picks
// cloth over a resource when both are available.
func (g *Game) ChoosePlayer(seat, victim int, robCloth bool) StealResult {
	g.RobberyVictims = nil
	cloth := robCloth && g.Players[victim].Cloth > 0
	if !cloth && g.Players[victim].Resources.Total() == 0 {
		cloth = g.Players[victim].Cloth > 0
	}
	steal := g.StealFrom(seat, victim, cloth)
	g.afterRobbery()
	return steal
}

// afterRobbery returns the turn to where the robber flow interrupted it:
// ROLL_OR_CARD for a pre-roll knight, PLAY1 otherwise.
func (g *Game) afterRobbery() {
	if g.DiceResult == 0 {
		g.State = StateRollOrCard
	} else {
		g.State = StatePlay1
	}
}

// PlayKnight commits a knight card. Returns true when Largest Army changed
// hands. Caller checked CanPlayKnight.
func (g *Game) PlayKnight(seat int) bool {
	p := g.Players[seat]
	p.DevCards.Remove(CardOld, CardKnight)
	p.PlayedDevCard = true
	p.PlayedKnights++
	changed := g.recomputeLargestArmy()
	g.State = g.robberPlacementState()
	return changed
}

// recomputeLargestArmy applies the strict-majority rule: three or more
// knights, strictly more than every other player. Ties keep the holder.
func (g *Game) recomputeLargestArmy() bool {
	best, bestSeat := 2, -1
	for _, p := range g.Players {
		if p.PlayedKnights > best {
			best, bestSeat = p.PlayedKnights, p.Seat
		} else if p.PlayedKnights == best {
			bestSeat = -1 // tie at the top
		}
	}
	if bestSeat < 0 || bestSeat == g.LargestArmyPlayer {
		// Holder keeps the award through ties.
		if g.LargestArmyPlayer >= 0 && g.Players[g.LargestArmyPlayer].PlayedKnights >= 3 {
			return false
		}
		if bestSeat < 0 {
			return false
		}
	}
	if g.Players[bestSeat].PlayedKnights < 3 {
		return false
	}
	g.LargestArmyPlayer = bestSeat
	return true
}

// PlayRoadBuilding grants up to two free road/ship placements.
func (g *Game) PlayRoadBuilding(seat int) {
	p := g.Players[seat]
	p.DevCards.Remove(CardOld, CardRoads)
	p.PlayedDevCard = true
	g.FreeRoads = 2
	if p.PiecesRemaining[PieceRoad]+p.PiecesRemaining[PieceShip] < 2 {
		g.FreeRoads = 1
	}
	g.State = StatePlacingFreeRoad1
}

func (g *Game) PlayDiscovery(seat int) {
	p := g.Players[seat]
	p.DevCards.Remove(CardOld, CardDisc)
	p.PlayedDevCard = true
	g.State = StateWaitingForDiscovery
}

func (g *Game) PlayMonopoly(seat int) {
	p := g.Players[seat]
	p.DevCards.Remove(CardOld, CardMono)
	p.PlayedDevCard = true
	g.State = StateWaitingForMonopoly
}

// PickDiscovery grants the two chosen free resources. Caller checked
// CanPickDiscovery.
func (g *Game) PickDiscovery(seat int, rs Resources) {
	g.Players[seat].Resources.Add(rs)
	g.State = StatePlay1
}

// DoMonopoly transfers every unit of the resource from all other players.
// Returns the per-seat amounts taken.
func (g *Game) DoMonopoly(seat, resource int) map[int]int {
	taken := map[int]int{}
	total := 0
	for _, p := range g.Players {
		if p.Seat == seat || p.Vacant() {
			continue
		}
		n := p.Resources[resource]
		if n > 0 {
			p.Resources[resource] = 0
			taken[p.Seat] = n
			total += n
		}
	}
	g.Players[seat].Resources[resource] += total
	g.State = StatePlay1
	return taken
}

// PickGoldResources grants the owed free picks. Returns true when no
// player is owed picks anymore, advancing the state.
func (g *Game) PickGoldResources(seat int, rs Resources) bool {
	p := g.Players[seat]
	p.Resources.Add(rs)
	p.NeedsGoldPicks = 0
	for _, q := range g.Players {
		if q.NeedsGoldPicks > 0 {
			return false
		}
	}
	if g.State == StateStartsWaitingPickGold {
		g.advanceInitialPlacement(seat)
	} else {
		g.State = StatePlay1
	}
	return true
}

// BuyDevCard draws the top card into the buyer's NEW hand. Caller checked
// CanBuyDevCard.
func (g *Game) BuyDevCard(seat int) (cardType, remaining int) {
	p := g.Players[seat]
	p.Resources.Subtract(devCardCost)
	cardType = g.DevCardDeck[len(g.DevCardDeck)-1]
	g.DevCardDeck = g.DevCardDeck[:len(g.DevCardDeck)-1]
	if IsVPCard(cardType) {
		p.DevCards.Add(CardKept, cardType)
	} else {
		p.DevCards.Add(CardNew, cardType)
	}
	return cardType, len(g.DevCardDeck)
}

// BeginBuild deducts the cost and enters the matching placing state.
// Caller checked CanBuildPiece.
func (g *Game) BeginBuild(seat, piece int) {
	g.Players[seat].Resources.Subtract(pieceCost[piece])
	switch piece {
	case PieceRoad:
		g.State = StatePlacingRoad
	case PieceSettlement:
		g.State = StatePlacingSettlement
	case PieceCity:
		g.State = StatePlacingCity
	case PieceShip:
		g.State = StatePlacingShip
	}
}

// CancelBuild re-credits the cost and returns to PLAY1.
func (g *Game) CancelBuild(seat, piece int) {
	g.Players[seat].Resources.Add(pieceCost[piece])
	g.State = StatePlay1
}

// PutPieceResult reports placement side effects the handler must emit.
type PutPieceResult struct {
	LongestRoadChanged bool
	RevealedHexes      []int // fog hexes uncovered by this placement
	InitialGains       Resources
	GoldPicksOwed      int  // second-settlement gold picks (initial phase)
	TurnAdvanced       bool // initial phase rotated to the next placer
}

// PutPiece commits a placement. Caller validated state, ownership and
// location. Handles initial-phase rotation, free-road counting, fog
// reveal and the longest-road recompute.
func (g *Game) PutPiece(seat, piece, coord int) PutPieceResult {
	var res PutPieceResult
	p := g.Players[seat]

	switch piece {
	case PieceSettlement:
		g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: seat, Coord: coord})
		p.PiecesRemaining[PieceSettlement]--
		p.PiecesPlaced[PieceSettlement]++
		p.LastSettlement = coord
		res.RevealedHexes = g.revealAround(coord)
		if g.State == StateStart2A || g.State == StateStart3A {
			res.InitialGains, res.GoldPicksOwed = g.initialSettlementGains(seat, coord)
		}
	case PieceCity:
		g.Board.RemoveNodePiece(coord)
		g.Board.PutNodePiece(&Piece{Type: PieceCity, Owner: seat, Coord: coord})
		p.PiecesRemaining[PieceCity]--
		p.PiecesPlaced[PieceCity]++
		p.PiecesRemaining[PieceSettlement]++
		p.PiecesPlaced[PieceSettlement]--
		g.cityBuilt = true
	case PieceRoad, PieceShip:
		g.Board.PutEdgePiece(&Piece{Type: piece, Owner: seat, Coord: coord})
		p.PiecesRemaining[piece]--
		p.PiecesPlaced[piece]++
		n1, n2 := EdgeNodes(coord)
		res.RevealedHexes = append(g.revealAround(n1), g.revealAround(n2)...)
		res.LongestRoadChanged = g.recomputeLongestRoad()
	}

	act := &Action{Type: ActionPutPiece, Seat: seat, P1: piece, P2: coord, Prev: g.State, RS1: res.InitialGains}
	switch g.State {
	case StatePlacingRoad, StatePlacingSettlement, StatePlacingCity, StatePlacingShip:
		act.Cost = pieceCost[piece]
	}
	if res.GoldPicksOwed > 0 {
		// Gold picks are irreversible once granted; this placement cannot
		// be taken back.
		act = nil
	}
	g.recordAction(act)

	switch g.State {
	case StateStart1A, StateStart2A, StateStart3A:
		g.State++ // matching B state: place the road
	case StateStart1B, StateStart2B, StateStart3B:
		if res.GoldPicksOwed > 0 {
			g.State = StateStartsWaitingPickGold
		} else {
			g.advanceInitialPlacement(seat)
			res.TurnAdvanced = true
		}
	case StatePlacingFreeRoad1:
		if g.FreeRoads > 1 {
			g.FreeRoads--
			g.State = StatePlacingFreeRoad2
		} else {
			g.FreeRoads = 0
			g.State = StatePlay1
		}
	case StatePlacingFreeRoad2:
		g.FreeRoads = 0
		g.State = StatePlay1
	case StatePlacingRoad, StatePlacingSettlement, StatePlacingCity, StatePlacingShip:
		g.State = StatePlay1
	}
	return res
}

// revealAround uncovers fog hexes adjacent to a node a piece just touched.
func (g *Game) revealAround(node int) []int {
	if len(g.Board.Fog) == 0 {
		return nil
	}
	var out []int
	for _, h := range g.Board.HexesAtNode(node) {
		if _, _, ok := g.Board.RevealFog(h); ok {
			out = append(out, h)
		}
	}
	return out
}

// initialSettlementGains pays the second (and third) initial settlement's
// adjacent hex resources; gold hexes owe picks instead.
func (g *Game) initialSettlementGains(seat, node int) (Resources, int) {
	var gains Resources
	gold := 0
	for _, h := range g.Board.HexesAtNode(node) {
		t := g.Board.HexType[h]
		if t == HexGold {
			gold++
			continue
		}
		if r := hexResource(t); r >= 0 {
			gains[r]++
		}
	}
	g.Players[seat].Resources.Add(gains)
	g.Players[seat].ResourceStats.Add(gains)
	g.Players[seat].NeedsGoldPicks += gold
	return gains, gold
}

// advanceInitialPlacement rotates the placement order after a road commit:
// round 1 forward, round 2 reverse (the last placer goes twice), optional
// round 3 forward again, then the first real turn.
func (g *Game) advanceInitialPlacement(seat int) {
	switch g.State {
	case StateStart1B, StateStartsWaitingPickGold:
		if g.State == StateStartsWaitingPickGold {
			// Resolve which round the gold pick interrupted.
			g.resumeAfterStartGold(seat)
			return
		}
		if seat == g.lastPlacementSeat() {
			g.State = StateStart2A // same seat places again, reversed
		} else {
			g.CurrentPlayer = g.nextSeat(seat)
			g.State = StateStart1A
		}
	case StateStart2B:
		if seat == g.FirstPlayer {
			if g.Opts.ThirdPlacement {
				g.State = StateStart3A
			} else {
				g.startTurn(g.FirstPlayer)
			}
		} else {
			g.CurrentPlayer = g.prevSeat(seat)
			g.State = StateStart2A
		}
	case StateStart3B:
		if seat == g.lastPlacementSeat() {
			g.startTurn(g.FirstPlayer)
		} else {
			g.CurrentPlayer = g.nextSeat(seat)
			g.State = StateStart3A
		}
	}
}

// resumeAfterStartGold continues the rotation that a gold-hex pick paused.
// The pick always follows a START2A/START3A settlement, so the seat still
// owes its road.
func (g *Game) resumeAfterStartGold(seat int) {
	if g.Opts.ThirdPlacement && g.Players[seat].PiecesPlaced[PieceSettlement] >= 3 {
		g.State = StateStart3B
	} else {
		g.State = StateStart2B
	}
}

// MoveShip relocates an open-route end ship. Caller checked CanMoveShip.
func (g *Game) MoveShip(seat, from, to int) PutPieceResult {
	var res PutPieceResult
	g.Board.RemoveEdgePiece(from)
	g.Board.PutEdgePiece(&Piece{Type: PieceShip, Owner: seat, Coord: to})
	n1, n2 := EdgeNodes(to)
	res.RevealedHexes = append(g.revealAround(n1), g.revealAround(n2)...)
	res.LongestRoadChanged = g.recomputeLongestRoad()
	g.recordAction(&Action{Type: ActionMoveShip, Seat: seat, P1: from, P2: to, Prev: StatePlay1})
	g.State = StatePlay1
	return res
}

// MakeTrade commits an accepted offer. Caller checked CanMakeTrade.
func (g *Game) MakeTrade(offSeat, accSeat int) (give, get Resources) {
	off, acc := g.Players[offSeat], g.Players[accSeat]
	o := off.Offer
	off.Resources.Subtract(o.Give)
	acc.Resources.Add(o.Give)
	acc.Resources.Subtract(o.Get)
	off.Resources.Add(o.Get)
	g.ClearOffers()
	return o.Give, o.Get
}

// BankTrade commits a bank/port trade. Caller checked CanMakeBankTrade.
func (g *Game) BankTrade(seat int, give, get Resources) {
	p := g.Players[seat]
	p.Resources.Subtract(give)
	p.Resources.Add(get)
	g.recordAction(&Action{Type: ActionBankTrade, Seat: seat, RS1: give, RS2: get, Prev: StatePlay1})
}

// ClearOffers drops every player's active offer.
func (g *Game) ClearOffers() {
	for _, p := range g.Players {
		p.Offer = nil
	}
}

// AskSpecialBuild flags the seat for the Special Building Phase.
func (g *Game) AskSpecialBuild(seat int) {
	g.Players[seat].AskedSpecialBuild = true
}

// EndTurnResult tells the handler what the turn change produced.
type EndTurnResult struct {
	SpecialBuilding bool // entered or continued the Special Building Phase
	NextSeat        int
	GameOver        bool
	Winner          int
}

// EndTurn commits the current player's end of turn, or ends one seat's
// special-build slot. Caller checked CanEndTurn.
func (g *Game) EndTurn() EndTurnResult {
	g.ClearOffers()
	g.FreeRoads = 0
	g.LastAction = nil

	if winner := g.WinnerSeat(); winner >= 0 {
		g.finish()
		return EndTurnResult{GameOver: true, Winner: winner}
	}

	if g.State == StateSpecialBuilding {
		g.Players[g.CurrentPlayer].AskedSpecialBuild = false
		if next := g.specialBuildPending(g.CurrentPlayer); next >= 0 {
			g.CurrentPlayer = next
			return EndTurnResult{SpecialBuilding: true, NextSeat: next}
		}
		next := g.nextSeat(g.specialBuildReturnTo)
		g.startTurn(next)
		return EndTurnResult{NextSeat: next}
	}

	ending := g.CurrentPlayer
	if next := g.specialBuildPending(ending); next >= 0 {
		g.specialBuildReturnTo = ending
		g.CurrentPlayer = next
		g.State = StateSpecialBuilding
		return EndTurnResult{SpecialBuilding: true, NextSeat: next}
	}
	next := g.nextSeat(ending)
	g.startTurn(next)
	return EndTurnResult{NextSeat: next}
}

// ForceEndTurn resolves a turn that timed out, discharging any pending
// obligation with a neutral legal choice before ending the turn.
func (g *Game) ForceEndTurn() EndTurnResult {
	switch g.State {
	case StateWaitingForDiscards:
		for _, p := range g.Players {
			if p.NeedsToDiscard > 0 {
				g.Discard(p.Seat, g.autoDiscard(p))
			}
		}
		// Robber still must move; fall through to a forced move.
		g.forceRobber()
	case StatePlacingRobber, StateWaitingForRobberOrPirate:
		g.forceRobber()
	case StatePlacingPirate:
		if hexes := g.Board.PirateHexes(); len(hexes) > 0 {
			g.MovePirate(g.CurrentPlayer, hexes[g.rng.Intn(len(hexes))])
		}
	case StateWaitingForRobChoosePlayer:
		if len(g.RobberyVictims) > 0 {
			g.ChoosePlayer(g.CurrentPlayer, g.RobberyVictims[0], false)
		}
	case StateWaitingForRobClothOrResource:
		if len(g.RobberyVictims) > 0 {
			g.ChoosePlayer(g.CurrentPlayer, g.RobberyVictims[0], false)
		}
	case StateWaitingForDiscovery:
		g.State = StatePlay1 // forfeit the picks
	case StateWaitingForMonopoly:
		g.DoMonopoly(g.CurrentPlayer, Clay)
	case StateWaitingForPickGoldResource, StateStartsWaitingPickGold:
		for _, p := range g.Players {
			if p.NeedsGoldPicks > 0 {
				var rs Resources
				rs[Clay] = p.NeedsGoldPicks
				g.PickGoldResources(p.Seat, rs)
			}
		}
	case StatePlacingRoad, StatePlacingSettlement, StatePlacingCity, StatePlacingShip:
		g.State = StatePlay1 // cost already deducted; placement forfeited
	case StatePlacingFreeRoad1, StatePlacingFreeRoad2:
		g.FreeRoads = 0
		g.State = StatePlay1
	case StateRollOrCard:
		g.RollDice()
		return g.ForceEndTurn()
	}
	if g.State != StatePlay1 && g.State != StateSpecialBuilding {
		g.State = StatePlay1
	}
	return g.EndTurn()
}

func (g *Game) forceRobber() {
	hexes := g.Board.RobbableHexes(g.Opts.RobberNoDesert)
	if len(hexes) > 0 {
		g.MoveRobber(g.CurrentPlayer, hexes[g.rng.Intn(len(hexes))])
	} else {
		g.afterRobbery()
	}
}

// autoDiscard picks a half-hand discard for an unresponsive player,
// draining the most plentiful types first.
func (g *Game) autoDiscard(p *Player) Resources {
	var rs Resources
	need := p.NeedsToDiscard
	hand := p.Resources
	for need > 0 {
		best := -1
		for r := 0; r < NumResourceTypes; r++ {
			if best < 0 || hand[r] > hand[best] {
				best = r
			}
		}
		if hand[best] == 0 {
			break
		}
		hand[best]--
		rs[best]++
		need--
	}
	return rs
}

// FortressAttackResult is one pirate-fortress battle.
type FortressAttackResult struct {
	Node      int
	Roll      int
	Win       bool
	Conquered bool // fortress strength hit zero and became a settlement
	ShipsLost int
}

// AttackPirateFortress resolves one attack: the player's d6 plus warships
// against the fortress die. Caller checked CanAttackPirateFortress.
func (g *Game) AttackPirateFortress(seat int) FortressAttackResult {
	p := g.Players[seat]
	var f *Fortress
	for _, cand := range g.Board.Fortresses {
		for _, e := range g.Board.nodeEdges[cand.Node] {
			if sp := g.Board.EdgePiece(e); sp != nil && sp.Type == PieceShip && sp.Owner == seat {
				f = cand
			}
		}
	}
	res := FortressAttackResult{Node: f.Node, Roll: g.rng.Intn(6) + 1}
	defense := g.rng.Intn(6) + 1
	if res.Roll+p.Warships > defense {
		res.Win = true
		f.Strength--
		if f.Strength == 0 {
			res.Conquered = true
			delete(g.Board.Fortresses, f.Node)
			g.Board.RemoveNodePiece(f.Node)
			g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: seat, Coord: f.Node})
			p.PiecesRemaining[PieceSettlement]--
			p.PiecesPlaced[PieceSettlement]++
			p.SpecialVP++
		}
	} else {
		// A repelled attack costs the two ships nearest the fortress.
		for _, e := range g.Board.nodeEdges[f.Node] {
			if sp := g.Board.EdgePiece(e); sp != nil && sp.Type == PieceShip && sp.Owner == seat {
				g.Board.RemoveEdgePiece(e)
				p.PiecesRemaining[PieceShip]++
				p.PiecesPlaced[PieceShip]--
				res.ShipsLost++
			}
		}
	}
	return res
}

// finish moves the game to GAME_OVER and stamps the expiry clock.
func (g *Game) finish() {
	g.State = StateGameOver
	g.FinishedAt = nowFunc()
}
