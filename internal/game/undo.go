package game

// Undoable action types.
const (
	ActionPutPiece = iota
	ActionMoveShip
	ActionBankTrade
)

// Action is the last reversible thing a player did. Only the most recent
// action can be taken back, and only by its own seat on its own turn.
type Action struct {
	Type int
	Seat int
	P1   int // piece type / from-edge
	P2   int // coord / to-edge
	P3   int
	Cost Resources // refunded on undo; zero for free placements
	RS1  Resources
	RS2  Resources
	Prev State // state to restore
}

func (g *Game) recordAction(a *Action) {
	g.LastAction = a
}

// UndoResult tells the handler which board effects to re-broadcast.
type UndoResult struct {
	Action             *Action
	LongestRoadChanged bool
	UndosRemaining     int
}

// Undo reverses the last action. Caller checked CanUndo.
func (g *Game) Undo(seat int) UndoResult {
	a := g.LastAction
	g.LastAction = nil
	p := g.Players[seat]
	p.UndosRemaining--

	res := UndoResult{Action: a, UndosRemaining: p.UndosRemaining}
	switch a.Type {
	case ActionPutPiece:
		res.LongestRoadChanged = g.undoPutPiece(p, a)
	case ActionMoveShip:
		g.Board.RemoveEdgePiece(a.P2)
		g.Board.PutEdgePiece(&Piece{Type: PieceShip, Owner: seat, Coord: a.P1})
		res.LongestRoadChanged = g.recomputeLongestRoad()
		g.State = a.Prev
	case ActionBankTrade:
		p.Resources.Add(a.RS1)
		p.Resources.Subtract(a.RS2)
	}
	return res
}

func (g *Game) undoPutPiece(p *Player, a *Action) bool {
	piece, coord := a.P1, a.P2
	changed := false
	switch piece {
	case PieceSettlement:
		g.Board.RemoveNodePiece(coord)
		p.PiecesRemaining[PieceSettlement]++
		p.PiecesPlaced[PieceSettlement]--
		p.Resources.Subtract(a.RS1) // initial-placement gains come back
	case PieceCity:
		g.Board.RemoveNodePiece(coord)
		g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: p.Seat, Coord: coord})
		p.PiecesRemaining[PieceCity]++
		p.PiecesPlaced[PieceCity]--
		p.PiecesRemaining[PieceSettlement]--
		p.PiecesPlaced[PieceSettlement]++
		g.cityBuilt = g.anyCityOnBoard()
	case PieceRoad, PieceShip:
		g.Board.RemoveEdgePiece(coord)
		p.PiecesRemaining[piece]++
		p.PiecesPlaced[piece]--
		changed = g.recomputeLongestRoad()
	}
	p.Resources.Add(a.Cost)

	switch a.Prev {
	case StatePlacingFreeRoad1:
		// The free-road counter was consumed; give it back.
		g.FreeRoads++
		g.State = a.Prev
	case StatePlacingFreeRoad2:
		g.FreeRoads = 1
		g.State = a.Prev
	case StatePlacingRoad, StatePlacingSettlement, StatePlacingCity, StatePlacingShip:
		// The cost came back too, so the whole build is off.
		g.State = StatePlay1
	default:
		g.State = a.Prev
		if a.Prev.initial() {
			g.CurrentPlayer = a.Seat
		}
	}
	return changed
}

func (g *Game) anyCityOnBoard() bool {
	for _, p := range g.Board.nodePiece {
		if p.Type == PieceCity {
			return true
		}
	}
	return false
}
