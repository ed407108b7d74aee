package message

// Resource type constants, used as indexes into ResourceSet and as element
// ids in PLAYERELEMENT. UnknownResource hides the exact type from observers.
const (
	Clay = iota
	Ore
	Sheep
	Wheat
	Wood
	UnknownResource
)

// PLAYERELEMENT / PLAYERELEMENTS action kinds.
const (
	ElemSet = iota + 100
	ElemGain
	ElemLose
)

// PLAYERELEMENT element ids beyond the resource types above.
const (
	ElemRoads             = 10 // pieces remaining
	ElemSettlements       = 11
	ElemCities            = 12
	ElemShips             = 13
	ElemNumKnights        = 15
	ElemPlayedDevCardFlag = 16
	ElemAskSpecialBuild   = 17
	ElemResourceCount     = 18 // total hand size
	ElemScenarioCloth     = 19
	ElemScenarioWarships  = 20
	ElemNumUndosRemaining = 21
)

// GAMEELEMENTS element ids.
const (
	GameElemDevCardCount = 2
	GameElemRoundCount   = 3
	GameElemCurrentPlayer = 4
	GameElemLargestArmy  = 5
	GameElemLongestRoad  = 6
	GameElemUnjoinable   = 7 // -1 marker sent on join: no more info coming
)

// Development card types (current numbering, clients >= VersionDevCardRenumber).
const (
	CardUnknown = iota
	CardKnight
	CardRoads
	CardDisc
	CardMono
	CardCap   // VP: Capitol
	CardLib   // VP: Library
	CardUniv  // VP: University
	CardTemple // VP: Temple
	CardChapel // VP: Chapel
)

// Legacy dev card numbering used by clients below VersionDevCardRenumber.
// Only KNIGHT/ROADS/UNKNOWN differ; the rest map identically.
const (
	legacyCardKnight  = 9
	legacyCardRoads   = 1
	legacyCardUnknown = 0
)

// CardTypeForVersion maps a current card-type constant to the value a client
// of the given negotiated version expects.
func CardTypeForVersion(cardType, version int) int {
	if version >= VersionDevCardRenumber {
		return cardType
	}
	switch cardType {
	case CardKnight:
		return legacyCardKnight
	case CardRoads:
		return legacyCardRoads
	case CardUnknown:
		return legacyCardUnknown
	default:
		return cardType
	}
}

// CardTypeFromVersion is the inverse of CardTypeForVersion for inbound
// messages from old clients.
func CardTypeFromVersion(wire, version int) int {
	if version >= VersionDevCardRenumber {
		return wire
	}
	switch wire {
	case legacyCardKnight:
		return CardKnight
	case legacyCardRoads:
		return CardRoads
	case legacyCardUnknown:
		return CardUnknown
	default:
		return wire
	}
}

// DEVCARDACTION action kinds.
const (
	DevCardDraw = iota
	DevCardPlay
	DevCardAddNew
	DevCardAddOld
	DevCardCannotPlay // bot hint on an illegal play attempt
)

// Piece types for PUTPIECE and friends. -1 in a BUILDREQUEST asks for the
// Special Building Phase.
const (
	PieceRoad = iota
	PieceSettlement
	PieceCity
	PieceShip
	PieceFortress
	PieceVillage
)

// REPORTROBBERY loot kinds.
const (
	RobResource = iota
	RobCloth
)

// SIMPLEREQUEST request ids.
const (
	ReqAttackPirateFortress = iota + 1
	ReqPlacePort
	ReqShipRouteStatus
)

// SIMPLEACTION action ids.
const (
	ActDevCardBought = iota + 1
	ActTradePortRemoved
	ActBoardEdgeMarked
	ActUndoCannot
)

// STATUSMESSAGE status codes.
const (
	StatusOK = iota
	StatusNicknameTaken
	StatusNicknameFormat
	StatusPasswordWrong
	StatusVersionTooLow
	StatusGameFull
	StatusGameNotFound
	StatusGameExists
	StatusNotAllowed
)

// DECLINEPLAYERREQUEST reason codes.
const (
	DeclineNotYourTurn = iota + 1
	DeclineWrongState
	DeclineInsufficient
	DeclineLocationIllegal
	DeclineNotInGame
	DeclineOther
)
