package game

// recomputeLongestRoad rescans every player's road network and reassigns
// the Longest Road award. Returns true when the holder changed.
//
// Award rules: five or more segments, strictly longer than everyone else.
// The current holder keeps the award through ties; if the holder's road
// breaks below every rival but nobody strictly exceeds five, the award is
// set aside.
func (g *Game) recomputeLongestRoad() bool {
	for _, p := range g.Players {
		p.LongestRoadLen = g.longestRoadFor(p.Seat)
	}

	holder := g.LongestRoadPlayer
	best, bestSeat, tied := 4, -1, false
	for _, p := range g.Players {
		if p.LongestRoadLen > best {
			best, bestSeat, tied = p.LongestRoadLen, p.Seat, false
		} else if p.LongestRoadLen == best && bestSeat >= 0 {
			tied = true
			if p.Seat == holder {
				bestSeat = holder
			}
		}
	}

	newHolder := -1
	switch {
	case bestSeat < 0:
		newHolder = -1
	case !tied || bestSeat == holder:
		newHolder = bestSeat
	case tied && holder >= 0 && g.Players[holder].LongestRoadLen == best:
		newHolder = holder
	default:
		newHolder = -1 // tie with no incumbent: nobody gets it
	}

	if newHolder == holder {
		return false
	}
	g.LongestRoadPlayer = newHolder
	return true
}

// longestRoadFor finds the longest simple path over one seat's roads and
// ships. A road joins a ship only at the seat's own settlement or city,
// and an opponent's settlement or city cuts the path at that node.
func (g *Game) longestRoadFor(seat int) int {
	b := g.Board
	var edges []int
	for e, p := range b.edgePiece {
		if p.Owner == seat {
			edges = append(edges, e)
		}
	}
	if len(edges) == 0 {
		return 0
	}

	used := make(map[int]bool, len(edges))
	best := 0
	for _, e := range edges {
		n1, n2 := EdgeNodes(e)
		used[e] = true
		if l := 1 + g.walkRoad(seat, e, n1, used); l > best {
			best = l
		}
		if l := 1 + g.walkRoad(seat, e, n2, used); l > best {
			best = l
		}
		used[e] = false
	}
	return best
}

// walkRoad extends the path from node n, having just traversed edge from.
func (g *Game) walkRoad(seat, from, n int, used map[int]bool) int {
	b := g.Board
	np := b.NodePiece(n)
	if np != nil && np.Owner >= 0 && np.Owner != seat &&
		(np.Type == PieceSettlement || np.Type == PieceCity) {
		return 0
	}
	ownBuilding := np != nil && np.Owner == seat &&
		(np.Type == PieceSettlement || np.Type == PieceCity)

	fromType := b.EdgePiece(from).Type
	best := 0
	for _, e := range b.nodeEdges[n] {
		if e == from || used[e] {
			continue
		}
		ep := b.EdgePiece(e)
		if ep == nil || ep.Owner != seat {
			continue
		}
		if ep.Type != fromType && !ownBuilding {
			continue
		}
		used[e] = true
		far := otherEnd(e, n)
		if l := 1 + g.walkRoad(seat, e, far, used); l > best {
			best = l
		}
		used[e] = false
	}
	return best
}

func otherEnd(e, n int) int {
	n1, n2 := EdgeNodes(e)
	if n1 == n {
		return n2
	}
	return n1
}
