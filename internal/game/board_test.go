package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeCoordCanonical(t *testing.T) {
	e := EdgeCoord(0x45, 0x34)
	assert.Equal(t, EdgeCoord(0x34, 0x45), e)
	n1, n2 := EdgeNodes(e)
	assert.Equal(t, 0x34, n1)
	assert.Equal(t, 0x45, n2)
}

func TestCornerSharing(t *testing.T) {
	b := newBoard(false, 7, 7, map[int]int{0x33: HexWheat, 0x35: HexWood})

	// Adjacent hexes reach their shared corners as the same node value.
	assert.ElementsMatch(t, []int{0x33, 0x35}, b.HexesAtNode(0x45))
	assert.ElementsMatch(t, []int{0x33, 0x35}, b.HexesAtNode(0x56))

	// A shared corner has neighbors from both hexes' rings.
	assert.ElementsMatch(t, []int{0x34, 0x56, 0x36}, b.NodeNeighbors(0x45))
}

func testTemplate() *BoardTemplate {
	coords := []int{
		0x33, 0x35, 0x37,
		0x53, 0x55, 0x57, 0x59,
		0x73, 0x75, 0x77, 0x79, 0x7B,
		0x93, 0x95, 0x97, 0x99,
		0xB3, 0xB5, 0xB7,
	}
	tpl := &BoardTemplate{Key: "test4", Width: 0x10, Height: 0x10, MinPlayers: 3, MaxPlayers: 4}
	for _, c := range coords {
		typ := "wheat"
		if c == 0x77 {
			typ = "desert"
		}
		tpl.Hexes = append(tpl.Hexes, TemplateHex{Coord: c, Type: typ})
	}
	tpl.Tokens = []int{5, 2, 6, 3, 8, 10, 9, 12, 11, 4, 8, 10, 9, 4, 5, 6, 3, 11}
	return tpl
}

func TestGenerateBoard(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	b, err := GenerateBoard(testTemplate(), Options{}, rng)
	require.NoError(t, err)

	assert.Equal(t, 0x77, b.Robber, "robber starts on the desert")
	assert.NotContains(t, b.DiceNum, 0x77, "desert carries no token")
	assert.Len(t, b.DiceNum, 18)
	assert.Equal(t, HexWheat, b.HexType[0x33])
	assert.Equal(t, -1, b.Pirate)
}

func TestGenerateBoardBadTemplate(t *testing.T) {
	tpl := testTemplate()
	tpl.Hexes[0].Type = "lava"
	_, err := GenerateBoard(tpl, Options{}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestRobbableHexes(t *testing.T) {
	b := newBoard(false, 7, 7, map[int]int{0x33: HexWheat, 0x35: HexDesert, 0x37: HexWater})
	b.Robber = 0x33
	assert.ElementsMatch(t, []int{0x35}, b.RobbableHexes(false))
	assert.Empty(t, b.RobbableHexes(true), "no-desert rule leaves nowhere to go")
}

func TestRevealFog(t *testing.T) {
	b := newBoard(false, 7, 7, map[int]int{0x33: HexFog})
	b.Fog[0x33] = HexWood
	b.FogDiceNum[0x33] = 6

	hexType, dice, ok := b.RevealFog(0x33)
	require.True(t, ok)
	assert.Equal(t, HexWood, hexType)
	assert.Equal(t, 6, dice)
	assert.Equal(t, HexWood, b.HexType[0x33])
	assert.Equal(t, 6, b.DiceNum[0x33])

	_, _, ok = b.RevealFog(0x33)
	assert.False(t, ok, "a hex reveals once")
}

func TestPortRatio(t *testing.T) {
	b := newBoard(false, 7, 7, map[int]int{0x33: HexWheat})
	b.Ports = []Port{
		{Type: Port3to1, Nodes: [2]int{0x43, 0x34}},
		{Type: PortWheat, Nodes: [2]int{0x56, 0x65}},
	}

	assert.Equal(t, 4, b.PortRatio(0, Wheat), "no buildings, no ports")

	b.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 0, Coord: 0x43})
	assert.Equal(t, 3, b.PortRatio(0, Wheat))
	assert.Equal(t, 3, b.PortRatio(0, Ore))

	b.PutNodePiece(&Piece{Type: PieceCity, Owner: 0, Coord: 0x56})
	assert.Equal(t, 2, b.PortRatio(0, Wheat))
	assert.Equal(t, 3, b.PortRatio(0, Ore))
	assert.Equal(t, 4, b.PortRatio(1, Wheat))
}
