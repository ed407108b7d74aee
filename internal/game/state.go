// Package game is the rules core: board, players, pieces, the turn state
// machine and its legality predicates. Everything here is pure state and
// CPU-only transitions; the caller holds the game lock and owns all I/O.
package game

// State is the turn/phase state machine position. Values are wire-visible
// via GAMESTATE and must stay stable.
type State int

const (
	StateNewGame State = 0

	// Initial placement. 1A/2A place settlements, 1B/2B roads; 3A/3B only
	// with the third-initial-placement scenario flag.
	StateStart1A              State = 5
	StateStart1B              State = 6
	StateStart2A              State = 10
	StateStart2B              State = 11
	StateStart3A              State = 12
	StateStart3B              State = 13
	StateStartsWaitingPickGold State = 14

	StateRollOrCard State = 15
	StatePlay1      State = 20

	StatePlacingRoad       State = 30
	StatePlacingSettlement State = 31
	StatePlacingCity       State = 32
	StatePlacingRobber     State = 33
	StatePlacingPirate     State = 34
	StatePlacingShip       State = 35
	StatePlacingFreeRoad1  State = 40
	StatePlacingFreeRoad2  State = 41
	StatePlacingInvItem    State = 42

	StateWaitingForDiscards           State = 50
	StateWaitingForRobChoosePlayer    State = 51
	StateWaitingForDiscovery          State = 52
	StateWaitingForMonopoly           State = 53
	StateWaitingForRobberOrPirate     State = 54
	StateWaitingForRobClothOrResource State = 55
	StateWaitingForPickGoldResource   State = 56

	StateSpecialBuilding State = 100

	StateAlmostOver State = 900
	StateGameOver   State = 1000
)

func (s State) String() string {
	switch s {
	case StateNewGame:
		return "NEW_GAME"
	case StateStart1A:
		return "START1A"
	case StateStart1B:
		return "START1B"
	case StateStart2A:
		return "START2A"
	case StateStart2B:
		return "START2B"
	case StateStart3A:
		return "START3A"
	case StateStart3B:
		return "START3B"
	case StateStartsWaitingPickGold:
		return "STARTS_WAITING_FOR_PICK_GOLD_RESOURCE"
	case StateRollOrCard:
		return "ROLL_OR_CARD"
	case StatePlay1:
		return "PLAY1"
	case StatePlacingRoad:
		return "PLACING_ROAD"
	case StatePlacingSettlement:
		return "PLACING_SETTLEMENT"
	case StatePlacingCity:
		return "PLACING_CITY"
	case StatePlacingRobber:
		return "PLACING_ROBBER"
	case StatePlacingPirate:
		return "PLACING_PIRATE"
	case StatePlacingShip:
		return "PLACING_SHIP"
	case StatePlacingFreeRoad1:
		return "PLACING_FREE_ROAD1"
	case StatePlacingFreeRoad2:
		return "PLACING_FREE_ROAD2"
	case StatePlacingInvItem:
		return "PLACING_INV_ITEM"
	case StateWaitingForDiscards:
		return "WAITING_FOR_DISCARDS"
	case StateWaitingForRobChoosePlayer:
		return "WAITING_FOR_ROB_CHOOSE_PLAYER"
	case StateWaitingForDiscovery:
		return "WAITING_FOR_DISCOVERY"
	case StateWaitingForMonopoly:
		return "WAITING_FOR_MONOPOLY"
	case StateWaitingForRobberOrPirate:
		return "WAITING_FOR_ROBBER_OR_PIRATE"
	case StateWaitingForRobClothOrResource:
		return "WAITING_FOR_ROB_CLOTH_OR_RESOURCE"
	case StateWaitingForPickGoldResource:
		return "WAITING_FOR_PICK_GOLD_RESOURCE"
	case StateSpecialBuilding:
		return "SPECIAL_BUILDING"
	case StateAlmostOver:
		return "ALMOST_OVER"
	case StateGameOver:
		return "GAME_OVER"
	}
	return "UNKNOWN"
}

// initial reports whether s is one of the initial-placement states.
func (s State) initial() bool {
	return s >= StateStart1A && s <= StateStartsWaitingPickGold
}
