// Package message defines the closed catalog of wire messages exchanged
// between server and clients, and their binary codec. One encoded message
// travels per transport frame; framing itself lives in internal/net.
package message

import (
	"fmt"
)

// Tag identifies a message kind on the wire.
type Tag uint16

const (
	// Lobby / handshake
	TagVersion Tag = 1000 + iota
	TagStatusMessage
	TagRejectConnection
	TagServerPing
	TagGames
	TagGamesWithOptions
	TagNewGame
	TagNewGameWithOptions
	TagNewGameWithOptionsRequest
	TagDeleteGame
	TagJoinGame
	TagJoinGameAuth
	TagLeaveGame
	TagGameMembers
	TagGameOptionGetDefaults
	TagGameOptionGetInfos
	TagGameOptionInfo
	TagScenarioInfo
	TagAuthRequest

	// Game setup
	TagStartGame
	TagSitDown
	TagChangeFace
	TagSetSeatLock
	TagBoardLayout
	TagBoardLayout2
	TagPotentialSettlements
	TagPlayerElement
	TagPlayerElements
	TagGameElements
	TagResourceCount

	// Turn flow
	TagTurn
	TagSetTurn
	TagFirstPlayer
	TagGameState
	TagRollDicePrompt
	TagRollDice
	TagDiceResult
	TagDiceResultResources
	TagEndTurn

	// Building
	TagBuildRequest
	TagCancelBuildRequest
	TagPutPiece
	TagMovePiece
	TagUndoPutPiece
	TagRemovePiece
	TagDebugFreePlace

	// Robber / robbery
	TagMoveRobber
	TagChoosePlayerRequest
	TagChoosePlayer
	TagReportRobbery
	TagDiscardRequest
	TagDiscard

	// Trade
	TagMakeOffer
	TagAcceptOffer
	TagRejectOffer
	TagClearOffer
	TagClearTradeMsg
	TagBankTrade

	// Development cards
	TagBuyDevCardRequest
	TagPlayDevCardRequest
	TagDevCardAction
	TagDevCardCount
	TagSetPlayedDevCard
	TagPickResources
	TagPickResourceType

	// Scenario extras
	TagRevealFogHex
	TagPieceValue
	TagInventoryItemAction
	TagSetSpecialItem
	TagSimpleRequest
	TagSimpleAction
	TagSetShipRouteClosed
	TagSetLastAction

	// Text / observability
	TagGameServerText
	TagGameTextMsg
	TagBcastTextMsg
	TagGameStats
	TagPlayerStats
	TagDeclinePlayerRequest
	TagResetBoardRequest
	TagResetBoardVote
	TagResetBoardAuth
)

// Message is one wire message. The codec is bijective: for every well-formed
// message m, Decode(Encode(m)) reproduces m.
type Message interface {
	Tag() Tag
	encode(w *Writer)
	decode(r *Reader)
}

// InGame is implemented by game-scoped messages; the server core routes them
// to the named game's handler.
type InGame interface {
	Message
	GameName() string
}

// factories builds an empty message for each tag during decode.
var factories = map[Tag]func() Message{}

func register(t Tag, fn func() Message) {
	if _, dup := factories[t]; dup {
		panic(fmt.Sprintf("message: duplicate tag %d", t))
	}
	factories[t] = fn
}

// Encode serializes m to a single payload (tag + fields).
func Encode(m Message) []byte {
	w := NewWriter(m.Tag())
	m.encode(w)
	return w.Bytes()
}

// Decode parses one payload. Unknown tags and truncated payloads are
// reported as errors; the caller drops the message and keeps the session.
func Decode(data []byte) (Message, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("message: short payload (%d bytes)", len(data))
	}
	r := NewReader(data)
	fn, ok := factories[r.Tag()]
	if !ok {
		return nil, fmt.Errorf("message: unknown tag %d", r.Tag())
	}
	m := fn()
	m.decode(r)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("message: decode tag %d: %w", r.Tag(), err)
	}
	return m, nil
}

// minVersions lists kinds that old clients cannot receive; the broadcaster
// substitutes fallback encodings below these thresholds.
var minVersions = map[Tag]int{
	TagGamesWithOptions:    VersionGameOptions,
	TagNewGameWithOptions:  VersionGameOptions,
	TagPlayerElements:      VersionBatchElements,
	TagGameElements:        VersionBatchElements,
	TagDiceResultResources: VersionDiceResultResources,
	TagDeclinePlayerRequest: VersionTypedRejects,
	TagAcceptOffer:          VersionCompactTrades, // compact form; older clients get elements
	TagBankTrade:            VersionCompactTrades,
	TagSimpleRequest:        VersionSimple,
	TagSimpleAction:         VersionSimple,
	TagReportRobbery:        VersionReportRobbery,
	TagUndoPutPiece:         VersionUndo,
	TagSetLastAction:        VersionUndo,
}

// MinVersion returns the lowest client version that can receive t directly.
func MinVersion(t Tag) int {
	if v, ok := minVersions[t]; ok {
		return v
	}
	return VersionMin
}
