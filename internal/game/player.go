package game

// Starting piece allotments.
var startingPieces = map[int]int{
	PieceRoad:       15,
	PieceSettlement: 5,
	PieceCity:       4,
	PieceShip:       15,
}

// Player is one seat's state. Seats exist from game creation; a seat is
// vacant until someone sits, and a vacant robot seat keeps its pieces so a
// rejoining human can take it over.
type Player struct {
	Seat     int
	Nickname string
	Robot    bool
	Face     int

	Resources       Resources
	RolledThisTurn  Resources // reset each roll, feeds DICERESULTRESOURCES
	ResourceStats   Resources // lifetime income from rolls, for the game-over recap
	DevCards        DevCardInventory
	PiecesRemaining map[int]int
	PiecesPlaced    map[int]int

	Offer *Offer // at most one active

	PlayedDevCard     bool
	PlayedKnights     int
	AskedSpecialBuild bool
	NeedsToDiscard    int
	NeedsGoldPicks    int
	Warships          int
	Cloth             int
	SpecialVP         int
	ScenarioEvents    int // bitmask of one-time scenario awards
	UndosRemaining    int
	LastSettlement    int

	// Longest-road cache, recomputed by the board scan.
	LongestRoadLen int
}

// Offer is one player's active trade offer.
type Offer struct {
	FromSeat int
	ToSeats  []bool
	Give     Resources
	Get      Resources
}

func newPlayer(seat int, hasShips bool, undos int) *Player {
	p := &Player{
		Seat:            seat,
		Nickname:        "",
		PiecesRemaining: make(map[int]int),
		PiecesPlaced:    make(map[int]int),
		UndosRemaining:  undos,
		LastSettlement:  -1,
	}
	for t, n := range startingPieces {
		if t == PieceShip && !hasShips {
			continue
		}
		p.PiecesRemaining[t] = n
	}
	return p
}

// Vacant reports whether nobody (human or robot) holds the seat.
func (p *Player) Vacant() bool {
	return p.Nickname == ""
}

// PublicVP counts the victory points every observer can see, before the
// longest-road and largest-army bonuses the game tracks.
func (p *Player) PublicVP() int {
	return p.PiecesPlaced[PieceSettlement] + 2*p.PiecesPlaced[PieceCity] + p.SpecialVP
}

// resetTurnFlags runs at the start of the player's turn.
func (p *Player) resetTurnFlags() {
	p.PlayedDevCard = false
	p.DevCards.PromoteNew()
	p.RolledThisTurn = Resources{}
}
