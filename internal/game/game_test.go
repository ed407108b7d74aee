package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBoard() *Board {
	types := map[int]int{
		0x33: HexWheat, 0x35: HexWood, 0x37: HexSheep,
		0x53: HexClay, 0x55: HexDesert, 0x57: HexOre,
	}
	b := newBoard(false, 7, 7, types)
	b.DiceNum[0x33] = 8
	b.DiceNum[0x35] = 6
	b.DiceNum[0x37] = 5
	b.DiceNum[0x53] = 9
	b.DiceNum[0x57] = 10
	b.Robber = 0x55
	return b
}

// testGame builds a started mid-game table, skipping initial placement.
func testGame(t *testing.T, seats int) *Game {
	t.Helper()
	g := New("unit", DefaultOptions(), rand.New(rand.NewSource(11)))
	names := []string{"ada", "ben", "cho", "dee"}
	for i := 0; i < seats; i++ {
		require.True(t, g.SitDown(i, names[i], false))
	}
	g.Board = testBoard()
	g.DevCardDeck = NewDeck(false, g.rng)
	g.Started = true
	g.FirstPlayer = 0
	g.CurrentPlayer = 0
	g.State = StateRollOrCard
	return g
}

// rollUntil rolls until the wanted sum comes up, discarding the side
// effects of the misses.
func rollUntil(t *testing.T, g *Game, sum int) RollResult {
	t.Helper()
	for i := 0; i < 20000; i++ {
		g.State = StateRollOrCard
		g.DiceResult = 0
		res := g.RollDice()
		if res.Sum == sum {
			return res
		}
		for _, p := range g.Players {
			p.NeedsToDiscard = 0
			p.NeedsGoldPicks = 0
		}
		g.RobberyVictims = nil
	}
	t.Fatalf("sum %d never rolled", sum)
	return RollResult{}
}

func TestSitDownRules(t *testing.T) {
	g := New("t", DefaultOptions(), rand.New(rand.NewSource(1)))

	require.True(t, g.SitDown(0, "ada", false))
	assert.False(t, g.SitDown(1, "ada", false), "one seat per nickname")
	assert.False(t, g.SitDown(0, "ben", false), "taken seat")

	g.SeatLocks[2] = SeatLocked
	assert.False(t, g.SitDown(2, "ben", false), "locked seat")

	require.True(t, g.SitDown(3, "bot1", true))
	assert.True(t, g.SitDown(3, "ben", false), "humans may take a robot seat")
	g.SeatLocks[3] = SeatLocked
	assert.False(t, g.SitDown(3, "cho", false))
}

func TestStandUpBeforeStart(t *testing.T) {
	g := New("t", DefaultOptions(), rand.New(rand.NewSource(1)))
	require.True(t, g.SitDown(1, "ada", false))
	g.Players[1].Resources[Wood] = 3

	assert.Equal(t, 1, g.StandUp("ada"))
	assert.True(t, g.Players[1].Vacant())
	assert.Equal(t, 0, g.Players[1].Resources.Total(), "pre-game seats reset fully")
	assert.Equal(t, -1, g.StandUp("nobody"))
}

func TestInitialPlacementSnake(t *testing.T) {
	g := New("t", DefaultOptions(), rand.New(rand.NewSource(5)))
	g.Opts.BreakClumps = 0
	for i, n := range []string{"ada", "ben", "cho"} {
		require.True(t, g.SitDown(i, n, false))
	}
	require.NoError(t, g.Start(testTemplate()))
	g.FirstPlayer = 0
	g.CurrentPlayer = 0

	place := func(seat int) {
		t.Helper()
		require.Equal(t, seat, g.CurrentPlayer)

		var node int
		for _, n := range g.PotentialSettlements(seat) {
			for _, h := range g.Board.HexesAtNode(n) {
				if g.Board.HexType[h] == HexWheat {
					node = n
				}
			}
			if node != 0 {
				break
			}
		}
		require.NotZero(t, node, "no legal settlement node left")
		require.True(t, g.CanPlacePiece(seat, PieceSettlement, node))
		g.PutPiece(seat, PieceSettlement, node)

		var edge int
		for _, e := range g.Board.nodeEdges[node] {
			if g.CanPlacePiece(seat, PieceRoad, e) {
				edge = e
				break
			}
		}
		require.NotZero(t, edge)
		g.PutPiece(seat, PieceRoad, edge)
	}

	require.Equal(t, StateStart1A, g.State)
	place(0)
	place(1)
	place(2)

	// Round two reverses: the last placer goes again, and the second
	// settlement pays out its adjacent hexes.
	require.Equal(t, StateStart2A, g.State)
	require.Equal(t, 2, g.CurrentPlayer)
	place(2)
	gained := g.Players[2].Resources
	assert.Greater(t, gained[Wheat], 0)
	assert.Equal(t, gained[Wheat], gained.Total())

	place(1)
	place(0)

	assert.Equal(t, StateRollOrCard, g.State)
	assert.Equal(t, 0, g.CurrentPlayer)
	assert.Equal(t, 1, g.RoundCount)
	for _, p := range g.Players[:3] {
		assert.Equal(t, 2, p.PiecesPlaced[PieceSettlement])
		assert.Equal(t, 2, p.PiecesPlaced[PieceRoad])
	}
}

func TestRollDistributesResources(t *testing.T) {
	g := testGame(t, 3)
	// Node 0x43 touches only the wheat hex rolled on 8.
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 1, Coord: 0x43})

	res := rollUntil(t, g, 8)
	require.Contains(t, res.Gains, 1)
	assert.Equal(t, 1, res.Gains[1][Wheat])
	assert.Equal(t, 1, g.Players[1].Resources[Wheat])
	assert.Equal(t, StatePlay1, g.State)

	// A city doubles the payout.
	g.Board.PutNodePiece(&Piece{Type: PieceCity, Owner: 1, Coord: 0x43})
	res = rollUntil(t, g, 8)
	assert.Equal(t, 2, res.Gains[1][Wheat])
}

func TestRobberBlocksPayout(t *testing.T) {
	g := testGame(t, 3)
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 1, Coord: 0x43})
	g.Board.Robber = 0x33

	res := rollUntil(t, g, 8)
	assert.NotContains(t, res.Gains, 1)
}

func TestSevenDiscardAndRobbery(t *testing.T) {
	g := testGame(t, 3)
	g.Players[1].Resources = Resources{3, 2, 2, 1, 1, 0} // nine cards

	res := rollUntil(t, g, 7)
	assert.Equal(t, []int{1}, res.Discarders)
	require.Equal(t, StateWaitingForDiscards, g.State)
	assert.Equal(t, 4, g.Players[1].NeedsToDiscard)

	assert.False(t, g.CanDiscard(1, Resources{3, 0, 0, 0, 0, 0}), "must discard exactly half")
	discard := Resources{2, 1, 1, 0, 0, 0}
	require.True(t, g.CanDiscard(1, discard))
	require.True(t, g.Discard(1, discard))
	require.Equal(t, StatePlacingRobber, g.State)

	// Rob the lone settlement owner on the wheat hex.
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 1, Coord: 0x43})
	require.True(t, g.CanMoveRobber(0, 0x33))
	assert.False(t, g.CanMoveRobber(0, 0x55), "robber may not stay put")

	before := g.Players[1].Resources.Total()
	mr := g.MoveRobber(0, 0x33)
	require.True(t, mr.Stolen)
	assert.Equal(t, 1, mr.StolenFrom)
	assert.Equal(t, before-1, g.Players[1].Resources.Total())
	assert.Equal(t, 1, g.Players[0].Resources.Total())
	assert.Equal(t, StatePlay1, g.State)
}

func TestRobberyMultipleVictims(t *testing.T) {
	g := testGame(t, 3)
	g.Players[1].Resources[Wood] = 1
	g.Players[2].Resources[Clay] = 1
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 1, Coord: 0x43})
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 2, Coord: 0x56})
	g.State = StatePlacingRobber
	g.DiceResult = 7

	mr := g.MoveRobber(0, 0x33)
	assert.False(t, mr.Stolen)
	assert.ElementsMatch(t, []int{1, 2}, mr.Victims)
	require.Equal(t, StateWaitingForRobChoosePlayer, g.State)

	assert.False(t, g.CanChoosePlayer(0, 0))
	require.True(t, g.CanChoosePlayer(0, 2))
	steal := g.ChoosePlayer(0, 2, false)
	assert.Equal(t, Clay, steal.Resource)
	assert.Equal(t, 1, g.Players[0].Resources[Clay])
	assert.Equal(t, StatePlay1, g.State)
}

func TestGoldHexPayout(t *testing.T) {
	g := testGame(t, 3)
	g.Board.HexType[0x37] = HexGold
	// Node 0x38 touches only the gold hex rolled on 5.
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 2, Coord: 0x38})

	res := rollUntil(t, g, 5)
	assert.Equal(t, 1, res.GoldPicks[2])
	require.Equal(t, StateWaitingForPickGoldResource, g.State)

	pick := Resources{0, 1, 0, 0, 0, 0}
	require.True(t, g.CanPickGoldHexResources(2, pick))
	assert.True(t, g.PickGoldResources(2, pick))
	assert.Equal(t, 1, g.Players[2].Resources[Ore])
	assert.Equal(t, StatePlay1, g.State)
}

func TestBuildAndCancel(t *testing.T) {
	g := testGame(t, 3)
	g.State = StatePlay1
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 0, Coord: 0x43})
	p := g.Players[0]
	p.Resources = PieceCost(PieceRoad)

	assert.False(t, g.CanBuildPiece(1, PieceRoad), "not their turn")
	require.True(t, g.CanBuildPiece(0, PieceRoad))
	g.BeginBuild(0, PieceRoad)
	assert.Equal(t, 0, p.Resources.Total())
	assert.Equal(t, StatePlacingRoad, g.State)

	g.CancelBuild(0, PieceRoad)
	assert.Equal(t, PieceCost(PieceRoad), p.Resources)
	assert.Equal(t, StatePlay1, g.State)

	g.BeginBuild(0, PieceRoad)
	edge := EdgeCoord(0x43, 0x34)
	require.True(t, g.CanPlacePiece(0, PieceRoad, edge))
	g.PutPiece(0, PieceRoad, edge)
	assert.NotNil(t, g.Board.EdgePiece(edge))
	assert.Equal(t, 14, p.PiecesRemaining[PieceRoad])
	assert.Equal(t, StatePlay1, g.State)
}

func TestUndoPutPiece(t *testing.T) {
	g := testGame(t, 3)
	g.State = StatePlay1
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 0, Coord: 0x43})
	p := g.Players[0]
	p.Resources = PieceCost(PieceRoad)

	g.BeginBuild(0, PieceRoad)
	edge := EdgeCoord(0x43, 0x34)
	g.PutPiece(0, PieceRoad, edge)

	assert.False(t, g.CanUndo(1))
	require.True(t, g.CanUndo(0))
	res := g.Undo(0)
	assert.Nil(t, g.Board.EdgePiece(edge))
	assert.Equal(t, PieceCost(PieceRoad), p.Resources, "cost refunded")
	assert.Equal(t, 15, p.PiecesRemaining[PieceRoad])
	assert.Equal(t, startingUndos-1, res.UndosRemaining)
	assert.Equal(t, StatePlay1, g.State)
	assert.False(t, g.CanUndo(0), "only the most recent action")
}

func TestSettlementDistanceRule(t *testing.T) {
	g := testGame(t, 3)
	g.State = StatePlacingSettlement
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 1, Coord: 0x45})
	g.Board.PutEdgePiece(&Piece{Type: PieceRoad, Owner: 0, Coord: EdgeCoord(0x34, 0x45)})

	assert.False(t, g.CanPlacePiece(0, PieceSettlement, 0x34), "adjacent to a settlement")
	assert.False(t, g.CanPlacePiece(0, PieceSettlement, 0x45), "occupied")

	g.Board.RemoveNodePiece(0x45)
	assert.True(t, g.CanPlacePiece(0, PieceSettlement, 0x34))
	assert.False(t, g.CanPlacePiece(0, PieceSettlement, 0x43), "no road of ours touches it")
}

func TestLongestRoadAward(t *testing.T) {
	g := testGame(t, 3)
	ring := []int{0x34, 0x45, 0x56, 0x65, 0x54, 0x43}
	for i := 0; i < 5; i++ {
		g.Board.PutEdgePiece(&Piece{Type: PieceRoad, Owner: 0, Coord: EdgeCoord(ring[i], ring[i+1])})
	}

	assert.True(t, g.recomputeLongestRoad())
	assert.Equal(t, 0, g.LongestRoadPlayer)
	assert.Equal(t, 5, g.Players[0].LongestRoadLen)
	assert.Equal(t, 2, g.Scores()[0], "longest road is worth two points")

	// An opponent settlement mid-chain cuts the road below five.
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 1, Coord: 0x56})
	assert.True(t, g.recomputeLongestRoad())
	assert.Equal(t, -1, g.LongestRoadPlayer)
	assert.Equal(t, 3, g.Players[0].LongestRoadLen)
}

func TestLongestRoadTieKeepsHolder(t *testing.T) {
	g := testGame(t, 3)
	ring := []int{0x34, 0x45, 0x56, 0x65, 0x54, 0x43}
	for i := 0; i < 5; i++ {
		g.Board.PutEdgePiece(&Piece{Type: PieceRoad, Owner: 0, Coord: EdgeCoord(ring[i], ring[i+1])})
	}
	require.True(t, g.recomputeLongestRoad())

	ring2 := []int{0x58, 0x69, 0x7A, 0x89, 0x78, 0x67}
	for i := 0; i < 5; i++ {
		g.Board.PutEdgePiece(&Piece{Type: PieceRoad, Owner: 1, Coord: EdgeCoord(ring2[i], ring2[i+1])})
	}
	assert.False(t, g.recomputeLongestRoad(), "equal length does not take the award")
	assert.Equal(t, 0, g.LongestRoadPlayer)

	g.Board.PutEdgePiece(&Piece{Type: PieceRoad, Owner: 1, Coord: EdgeCoord(ring2[5], ring2[0])})
	assert.True(t, g.recomputeLongestRoad())
	assert.Equal(t, 1, g.LongestRoadPlayer)
}

func TestLargestArmy(t *testing.T) {
	g := testGame(t, 3)
	g.Players[0].PlayedKnights = 2
	assert.False(t, g.recomputeLargestArmy(), "needs three knights")

	g.Players[0].PlayedKnights = 3
	assert.True(t, g.recomputeLargestArmy())
	assert.Equal(t, 0, g.LargestArmyPlayer)

	g.Players[1].PlayedKnights = 3
	assert.False(t, g.recomputeLargestArmy(), "tie keeps the holder")

	g.Players[1].PlayedKnights = 4
	assert.True(t, g.recomputeLargestArmy())
	assert.Equal(t, 1, g.LargestArmyPlayer)
}

func TestBankTradeRatios(t *testing.T) {
	g := testGame(t, 2)
	g.State = StatePlay1
	g.Board.Ports = []Port{{Type: Port3to1, Nodes: [2]int{0x43, 0x34}}}
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 0, Coord: 0x43})

	g.Players[0].Resources[Wheat] = 4
	g.Players[1].Resources[Wheat] = 4

	give3 := Resources{0, 0, 0, 3, 0, 0}
	give4 := Resources{0, 0, 0, 4, 0, 0}
	getOre := Resources{0, 1, 0, 0, 0, 0}

	assert.True(t, g.CanMakeBankTrade(0, give3, getOre), "3:1 port")
	assert.False(t, g.CanMakeBankTrade(0, give4, getOre), "remainder is not tradeable")
	assert.False(t, g.CanMakeBankTrade(1, give3, getOre), "no port, 4:1 only")

	g.BankTrade(0, give3, getOre)
	assert.Equal(t, 1, g.Players[0].Resources[Wheat])
	assert.Equal(t, 1, g.Players[0].Resources[Ore])
}

func TestPlayerTrade(t *testing.T) {
	g := testGame(t, 3)
	g.State = StatePlay1
	give := Resources{0, 0, 0, 2, 0, 0}
	get := Resources{0, 0, 0, 0, 1, 0}
	g.Players[0].Resources[Wheat] = 2
	g.Players[1].Resources[Wood] = 1
	g.Players[0].Offer = &Offer{FromSeat: 0, ToSeats: []bool{false, true, false}, Give: give, Get: get}

	assert.False(t, g.CanMakeTrade(0, 2), "offer was not addressed to this seat")
	require.True(t, g.CanMakeTrade(0, 1))

	g.MakeTrade(0, 1)
	assert.Equal(t, 1, g.Players[0].Resources[Wood])
	assert.Equal(t, 2, g.Players[1].Resources[Wheat])
	assert.Nil(t, g.Players[0].Offer, "offers clear after a trade")
}

func TestDevCardFlow(t *testing.T) {
	g := testGame(t, 3)
	g.State = StatePlay1
	p := g.Players[0]
	p.Resources = devCardCost

	require.True(t, g.CanBuyDevCard(0))
	deckBefore := len(g.DevCardDeck)
	cardType, remaining := g.BuyDevCard(0)
	assert.Equal(t, deckBefore-1, remaining)
	assert.Equal(t, 1, p.DevCards.CountType(cardType))
	assert.Equal(t, 0, p.Resources.Total())

	if !IsVPCard(cardType) {
		assert.False(t, g.canPlayCard(0, cardType), "cards bought this turn wait a turn")
	}

	p.DevCards.Add(CardOld, CardKnight)
	require.True(t, g.CanPlayKnight(0))
	g.DiceResult = 6
	g.PlayKnight(0)
	assert.Equal(t, 1, p.PlayedKnights)
	assert.Equal(t, StatePlacingRobber, g.State)
	assert.False(t, g.CanPlayKnight(0), "one card per turn")
}

func TestMonopoly(t *testing.T) {
	g := testGame(t, 3)
	g.State = StatePlay1
	g.Players[0].DevCards.Add(CardOld, CardMono)
	g.Players[1].Resources[Wood] = 3
	g.Players[2].Resources[Wood] = 2

	require.True(t, g.CanPlayMonopoly(0))
	g.PlayMonopoly(0)
	require.Equal(t, StateWaitingForMonopoly, g.State)

	taken := g.DoMonopoly(0, Wood)
	assert.Equal(t, map[int]int{1: 3, 2: 2}, taken)
	assert.Equal(t, 5, g.Players[0].Resources[Wood])
	assert.Equal(t, 0, g.Players[1].Resources[Wood])
	assert.Equal(t, StatePlay1, g.State)
}

func TestDiscovery(t *testing.T) {
	g := testGame(t, 3)
	g.State = StatePlay1
	g.Players[0].DevCards.Add(CardOld, CardDisc)

	require.True(t, g.CanPlayDiscovery(0))
	g.PlayDiscovery(0)

	pick := Resources{1, 0, 0, 1, 0, 0}
	assert.False(t, g.CanPickDiscovery(0, Resources{1, 1, 1, 0, 0, 0}))
	require.True(t, g.CanPickDiscovery(0, pick))
	g.PickDiscovery(0, pick)
	assert.Equal(t, 2, g.Players[0].Resources.Total())
}

func TestRoadBuildingCard(t *testing.T) {
	g := testGame(t, 3)
	g.State = StatePlay1
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 0, Coord: 0x43})
	g.Players[0].DevCards.Add(CardOld, CardRoads)

	require.True(t, g.CanPlayRoadBuilding(0))
	g.PlayRoadBuilding(0)
	require.Equal(t, StatePlacingFreeRoad1, g.State)
	assert.Equal(t, 2, g.FreeRoads)

	g.PutPiece(0, PieceRoad, EdgeCoord(0x43, 0x34))
	require.Equal(t, StatePlacingFreeRoad2, g.State)
	g.PutPiece(0, PieceRoad, EdgeCoord(0x34, 0x45))
	assert.Equal(t, StatePlay1, g.State)
	assert.Equal(t, 13, g.Players[0].PiecesRemaining[PieceRoad])
	assert.Equal(t, 0, g.Players[0].Resources.Total(), "free roads cost nothing")
}

func TestEndTurnRotation(t *testing.T) {
	g := testGame(t, 3)
	g.State = StatePlay1
	g.RoundCount = 1

	res := g.EndTurn()
	assert.Equal(t, 1, res.NextSeat)
	assert.Equal(t, StateRollOrCard, g.State)
	assert.Equal(t, 1, g.RoundCount)

	g.State = StatePlay1
	g.EndTurn()
	g.State = StatePlay1
	res = g.EndTurn()
	assert.Equal(t, 0, res.NextSeat)
	assert.Equal(t, 2, g.RoundCount, "back to the first player starts a round")
}

func TestSpecialBuildingPhase(t *testing.T) {
	g := New("t", Options{MaxPlayers: 6, SixPlayerBoard: true, VictoryPoints: 10}, rand.New(rand.NewSource(9)))
	for i, n := range []string{"ada", "ben", "cho"} {
		require.True(t, g.SitDown(i, n, false))
	}
	g.Board = testBoard()
	g.Started = true
	g.FirstPlayer = 0
	g.CurrentPlayer = 0
	g.State = StatePlay1

	assert.False(t, g.CanAskSpecialBuild(0), "the current player just builds")
	require.True(t, g.CanAskSpecialBuild(2))
	g.AskSpecialBuild(2)

	res := g.EndTurn()
	assert.True(t, res.SpecialBuilding)
	assert.Equal(t, 2, res.NextSeat)
	require.Equal(t, StateSpecialBuilding, g.State)
	assert.True(t, g.CanEndTurn(2))

	res = g.EndTurn()
	assert.False(t, res.SpecialBuilding)
	assert.Equal(t, 1, res.NextSeat, "play resumes after the turn owner")
	assert.Equal(t, StateRollOrCard, g.State)
	assert.False(t, g.Players[2].AskedSpecialBuild)
}

func TestWinOnEndTurn(t *testing.T) {
	g := testGame(t, 3)
	g.State = StatePlay1
	p := g.Players[0]
	p.PiecesPlaced[PieceSettlement] = 2
	p.PiecesPlaced[PieceCity] = 4

	res := g.EndTurn()
	assert.True(t, res.GameOver)
	assert.Equal(t, 0, res.Winner)
	assert.Equal(t, StateGameOver, g.State)
	assert.False(t, g.FinishedAt.IsZero())
}

func TestForceEndTurn(t *testing.T) {
	g := testGame(t, 3)

	res := g.ForceEndTurn()
	assert.False(t, res.GameOver)
	assert.Equal(t, 1, g.CurrentPlayer)
	assert.Equal(t, StateRollOrCard, g.State)

	// A stalled build forfeits the placement but ends cleanly.
	g.State = StatePlacingSettlement
	g.ForceEndTurn()
	assert.Equal(t, 2, g.CurrentPlayer)
	assert.Equal(t, StateRollOrCard, g.State)
}

func TestClothVillages(t *testing.T) {
	g := testGame(t, 3)
	g.Opts.ClothVillages = true
	g.Board.Villages[0x45] = &Village{Node: 0x45, DiceNum: 6, Cloth: 2}
	g.Board.PutNodePiece(&Piece{Type: PieceVillage, Owner: -1, Coord: 0x45})
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 0, Coord: 0x34})
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 1, Coord: 0x56})

	seats, empty := g.distributeCloth(6)
	assert.ElementsMatch(t, []int{0, 1}, seats)
	assert.Equal(t, []int{0x45}, empty)
	assert.Equal(t, 1, g.Players[0].Cloth)
	assert.Equal(t, 1, g.Players[1].Cloth)
	assert.Equal(t, 0, g.Board.Villages[0x45].Cloth)

	seats, _ = g.distributeCloth(6)
	assert.Empty(t, seats, "an empty village pays nobody")
}

func TestShipPlacementAndMove(t *testing.T) {
	g := New("t", Options{MaxPlayers: 3, SeaBoard: true, VictoryPoints: 10}, rand.New(rand.NewSource(2)))
	for i, n := range []string{"ada", "ben", "cho"} {
		require.True(t, g.SitDown(i, n, false))
	}
	g.Board = newBoard(true, 7, 7, map[int]int{0x33: HexWheat, 0x35: HexWater})
	g.Started = true
	g.FirstPlayer = 0
	g.CurrentPlayer = 0
	g.State = StatePlay1
	g.Board.PutNodePiece(&Piece{Type: PieceSettlement, Owner: 0, Coord: 0x45})

	landEdge := EdgeCoord(0x34, 0x45)
	assert.False(t, g.CanPlacePiece(0, PieceShip, landEdge), "ships need water")

	s1 := EdgeCoord(0x45, 0x36)
	s2 := EdgeCoord(0x36, 0x47)
	require.True(t, g.CanPlacePiece(0, PieceShip, s1))
	g.PutPiece(0, PieceShip, s1)
	require.True(t, g.CanPlacePiece(0, PieceShip, s2))
	g.PutPiece(0, PieceShip, s2)

	dest := EdgeCoord(0x45, 0x56)
	assert.False(t, g.CanMoveShip(0, s1, dest), "mid-route ships are fixed")
	require.True(t, g.CanMoveShip(0, s2, dest))

	g.Board.Pirate = 0x35
	assert.False(t, g.CanMoveShip(0, s2, dest), "the pirate freezes adjacent ships")
	g.Board.Pirate = -1

	g.MoveShip(0, s2, dest)
	assert.Nil(t, g.Board.EdgePiece(s2))
	require.NotNil(t, g.Board.EdgePiece(dest))
	assert.Equal(t, 0, g.Board.EdgePiece(dest).Owner)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	g := r.Create("alpha", DefaultOptions())
	require.NotNil(t, g)
	assert.Nil(t, r.Create("alpha", DefaultOptions()), "names are unique")
	require.NotNil(t, r.Create("beta", DefaultOptions()))

	assert.Equal(t, []string{"alpha", "beta"}, r.Names())
	assert.Same(t, g, r.Get("alpha"))
	assert.Nil(t, r.Get("missing"))

	r.Delete("beta")
	assert.Nil(t, r.Get("beta"))
}

func TestRegistrySweepExpired(t *testing.T) {
	r := NewRegistry()
	g := r.Create("done", DefaultOptions())
	r.Create("live", DefaultOptions())
	g.FinishedAt = time.Now().Add(-2 * time.Hour)

	dead := r.SweepExpired(time.Now(), time.Hour)
	assert.Equal(t, []string{"done"}, dead)
	assert.Nil(t, r.Get("done"))
	assert.NotNil(t, r.Get("live"))
}
