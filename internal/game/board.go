package game

// Hex terrain types.
const (
	HexDesert = iota
	HexClay
	HexOre
	HexSheep
	HexWheat
	HexWood
	HexWater
	HexGold
	HexFog // placeholder until revealed
)

// Piece types. Values are wire-visible via PUTPIECE.
const (
	PieceRoad = iota
	PieceSettlement
	PieceCity
	PieceShip
	PieceFortress
	PieceVillage
)

// Port types. 0 is the generic 3:1 port; 1..5 are 2:1 ports keyed by the
// resource index plus one.
const (
	Port3to1 = 0
	PortClay = Clay + 1
	PortOre  = Ore + 1
	PortSheep = Sheep + 1
	PortWheat = Wheat + 1
	PortWood = Wood + 1
)

// hexResource maps producing terrain to its resource, or -1.
func hexResource(hexType int) int {
	switch hexType {
	case HexClay:
		return Clay
	case HexOre:
		return Ore
	case HexSheep:
		return Sheep
	case HexWheat:
		return Wheat
	case HexWood:
		return Wood
	}
	return -1
}

// Piece is one placed piece. Owner -1 marks neutral pieces (villages, the
// forgotten tribe's ports).
type Piece struct {
	Type  int
	Owner int
	Coord int
}

// Port is a trade port touching two coastal nodes.
type Port struct {
	Type  int
	Nodes [2]int
}

// Village is a neutral cloth-trade village (SC_CLVI).
type Village struct {
	Node    int
	DiceNum int
	Cloth   int
}

// Fortress is a pirate fortress to be conquered (SC_PIRI).
type Fortress struct {
	Node     int
	Owner    int // seat whose path leads here
	Strength int
}

// Board coordinates are single ints of the form 0xRC (row<<4 | col). Each
// hex owns six corner nodes at fixed offsets; the same node value is
// reached from every hex that shares the corner, so node identity needs no
// normalization. An edge is (minNode<<8 | maxNode).
//
// Corner offsets, clockwise from the upper-left corner.
var cornerRing = [6]int{0x01, 0x12, 0x23, 0x32, 0x21, 0x10}

// hexNeighborOffsets are the six adjacent hex offsets.
var hexNeighborOffsets = [6]int{+0x02, +0x22, +0x20, -0x02, -0x22, -0x20}

// EdgeCoord builds the canonical edge id for two adjacent nodes.
func EdgeCoord(a, b int) int {
	if a > b {
		a, b = b, a
	}
	return a<<8 | b
}

// EdgeNodes splits an edge id back into its two nodes.
func EdgeNodes(e int) (int, int) {
	return e >> 8, e & 0xFF
}

// Board is the playing surface plus all placed pieces.
type Board struct {
	Sea           bool
	Width, Height int

	HexType map[int]int
	DiceNum map[int]int
	Robber  int
	Pirate  int // -1 when absent

	Fog        map[int]int // fogged hex -> real type, removed on reveal
	FogDiceNum map[int]int

	Ports      []Port
	Villages   map[int]*Village
	Fortresses map[int]*Fortress

	nodePiece map[int]*Piece
	edgePiece map[int]*Piece

	closedRoutes map[int]bool // ship edges on closed routes

	// Geometry, built once from the land+water hex set.
	nodesAtHex  map[int][6]int
	hexesAtNode map[int][]int
	nodeEdges   map[int][]int
	validNodes  map[int]bool
	validEdges  map[int]bool
}

// newBoard builds an empty board over the given hex set. Water hexes count
// toward geometry so ships have edges to sail.
func newBoard(sea bool, width, height int, hexTypes map[int]int) *Board {
	b := &Board{
		Sea:          sea,
		Width:        width,
		Height:       height,
		HexType:      hexTypes,
		DiceNum:      make(map[int]int),
		Robber:       -1,
		Pirate:       -1,
		Fog:          make(map[int]int),
		FogDiceNum:   make(map[int]int),
		Villages:     make(map[int]*Village),
		Fortresses:   make(map[int]*Fortress),
		nodePiece:    make(map[int]*Piece),
		edgePiece:    make(map[int]*Piece),
		closedRoutes: make(map[int]bool),
		nodesAtHex:   make(map[int][6]int),
		hexesAtNode:  make(map[int][]int),
		nodeEdges:    make(map[int][]int),
		validNodes:   make(map[int]bool),
		validEdges:   make(map[int]bool),
	}
	for h := range hexTypes {
		var corners [6]int
		for i, off := range cornerRing {
			corners[i] = h + off
		}
		b.nodesAtHex[h] = corners
		for _, n := range corners {
			b.hexesAtNode[n] = append(b.hexesAtNode[n], h)
			b.validNodes[n] = true
		}
		for i := range corners {
			e := EdgeCoord(corners[i], corners[(i+1)%6])
			if !b.validEdges[e] {
				b.validEdges[e] = true
				n1, n2 := EdgeNodes(e)
				b.nodeEdges[n1] = append(b.nodeEdges[n1], e)
				b.nodeEdges[n2] = append(b.nodeEdges[n2], e)
			}
		}
	}
	return b
}

// LandHexes returns every hex that produces or could produce (fog included).
func (b *Board) LandHexes() []int {
	var out []int
	for h, t := range b.HexType {
		if t != HexWater {
			out = append(out, h)
		}
	}
	return out
}

// hexIsLand includes fog: a fogged hex might be land, so it blocks pirate
// placement and counts for coastal checks only after reveal.
func (b *Board) hexIsLand(h int) bool {
	t, ok := b.HexType[h]
	return ok && t != HexWater
}

// NodeOnLand reports whether a settlement may geometrically sit here: at
// least one adjacent hex is land.
func (b *Board) NodeOnLand(n int) bool {
	if !b.validNodes[n] {
		return false
	}
	for _, h := range b.hexesAtNode[n] {
		if b.hexIsLand(h) {
			return true
		}
	}
	return false
}

// EdgeOnLand reports whether a road may run here.
func (b *Board) EdgeOnLand(e int) bool {
	if !b.validEdges[e] {
		return false
	}
	n1, n2 := EdgeNodes(e)
	for _, h := range b.hexesAtNode[n1] {
		if b.hexIsLand(h) && hexHasNode(b.nodesAtHex[h], n2) {
			return true
		}
	}
	return false
}

// EdgeOnWater reports whether a ship may sail here: the edge borders at
// least one water hex.
func (b *Board) EdgeOnWater(e int) bool {
	if !b.validEdges[e] {
		return false
	}
	n1, n2 := EdgeNodes(e)
	for _, h := range b.hexesAtNode[n1] {
		if b.HexType[h] == HexWater && hexHasNode(b.nodesAtHex[h], n2) {
			return true
		}
	}
	return false
}

func hexHasNode(corners [6]int, n int) bool {
	for _, c := range corners {
		if c == n {
			return true
		}
	}
	return false
}

// edgesSharingHex reports whether an edge borders the given hex.
func (b *Board) edgeBordersHex(e, h int) bool {
	n1, n2 := EdgeNodes(e)
	corners := b.nodesAtHex[h]
	return hexHasNode(corners, n1) && hexHasNode(corners, n2)
}

// NodeNeighbors returns the up-to-three adjacent nodes.
func (b *Board) NodeNeighbors(n int) []int {
	var out []int
	for _, e := range b.nodeEdges[n] {
		n1, n2 := EdgeNodes(e)
		if n1 == n {
			out = append(out, n2)
		} else {
			out = append(out, n1)
		}
	}
	return out
}

// HexesAtNode returns the hexes sharing this corner.
func (b *Board) HexesAtNode(n int) []int {
	return b.hexesAtNode[n]
}

// NodesAtHex returns the hex's six corners.
func (b *Board) NodesAtHex(h int) [6]int {
	return b.nodesAtHex[h]
}

// NodePiece returns the settlement/city/village/fortress at n, or nil.
func (b *Board) NodePiece(n int) *Piece {
	return b.nodePiece[n]
}

// EdgePiece returns the road or ship on e, or nil.
func (b *Board) EdgePiece(e int) *Piece {
	return b.edgePiece[e]
}

// PutNodePiece places without legality checks; callers validate first.
func (b *Board) PutNodePiece(p *Piece) {
	b.nodePiece[p.Coord] = p
}

func (b *Board) PutEdgePiece(p *Piece) {
	b.edgePiece[p.Coord] = p
}

func (b *Board) RemoveNodePiece(n int) {
	delete(b.nodePiece, n)
}

func (b *Board) RemoveEdgePiece(e int) {
	delete(b.edgePiece, e)
}

// PortRatio returns the best trade ratio the seat has for the resource:
// 2 with a matching 2:1 port, 3 with any 3:1 port, else 4.
func (b *Board) PortRatio(seat, resource int) int {
	ratio := 4
	for _, port := range b.Ports {
		if !b.seatTouchesPort(seat, port) {
			continue
		}
		if port.Type == Port3to1 && ratio > 3 {
			ratio = 3
		}
		if port.Type == resource+1 {
			return 2
		}
	}
	return ratio
}

func (b *Board) seatTouchesPort(seat int, port Port) bool {
	for _, n := range port.Nodes {
		if p := b.nodePiece[n]; p != nil && p.Owner == seat &&
			(p.Type == PieceSettlement || p.Type == PieceCity) {
			return true
		}
	}
	return false
}

// RevealFog uncovers a fogged hex, returning its real type and dice number.
// Returns false if the hex is not fogged.
func (b *Board) RevealFog(h int) (hexType, diceNum int, ok bool) {
	real, fogged := b.Fog[h]
	if !fogged {
		return 0, 0, false
	}
	delete(b.Fog, h)
	b.HexType[h] = real
	if d, hasNum := b.FogDiceNum[h]; hasNum {
		delete(b.FogDiceNum, h)
		b.DiceNum[h] = d
		diceNum = d
	}
	return real, diceNum, true
}

// RobbableHexes lists the land hexes the robber may move to. The robber
// cannot stay put, and with noDesert set it cannot enter desert hexes.
func (b *Board) RobbableHexes(noDesert bool) []int {
	var out []int
	for h, t := range b.HexType {
		if h == b.Robber || t == HexWater || t == HexFog {
			continue
		}
		if noDesert && t == HexDesert {
			continue
		}
		out = append(out, h)
	}
	return out
}

// PirateHexes lists the water hexes the pirate may move to.
func (b *Board) PirateHexes() []int {
	var out []int
	for h, t := range b.HexType {
		if h != b.Pirate && t == HexWater {
			out = append(out, h)
		}
	}
	return out
}

// CloseShipRoute marks edges as a closed route; ships on them are fixed.
func (b *Board) CloseShipRoute(edges []int) {
	for _, e := range edges {
		b.closedRoutes[e] = true
	}
}

func (b *Board) ShipRouteClosed(e int) bool {
	return b.closedRoutes[e]
}

// shipAdjacentToPirate blocks placing or moving a ship on an edge that
// borders the pirate's hex.
func (b *Board) shipAdjacentToPirate(e int) bool {
	return b.Pirate >= 0 && b.edgeBordersHex(e, b.Pirate)
}
