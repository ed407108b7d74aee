package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, m Message) Message {
	t.Helper()
	out, err := Decode(Encode(m))
	require.NoError(t, err)
	require.Equal(t, m.Tag(), out.Tag())
	return out
}

func TestRoundTrip(t *testing.T) {
	// One message per structural shape: plain fields, string lists, int
	// lists, nested offer, resource-set lists, bool arrays, lock arrays.
	for _, m := range []Message{
		&Version{Number: 2700, VerStr: "2.7.0", Build: "JM20260801", Feats: "6pl;sb;sc=2700", Locale: "en_US"},
		&GamesWithOptions{Names: []string{"alpha", "beta"}, Opts: []string{"PL=4,VP=t10", ""}},
		&JoinGame{Nickname: "robot 1", Password: "", Host: "-", Game: "alpha"},
		&SetSeatLock{Game: "alpha", Locks: []SeatLockState{SeatUnlocked, SeatLocked, SeatClearOnReset, SeatUnlocked}},
		&BoardLayout2{
			Game: "sea", Width: 16, Height: 18,
			HexCoords: []int{0x33, 0x35}, HexTypes: []int{1, 6}, DiceNums: []int{5, 9},
			RobberHex: 0x55, PirateHex: -1,
			PortTypes: []int{0, 3}, PortNodes: []int{0x34, 0x45, 0x67, 0x78},
			FogHexes:  []int{0x97},
			PartNames: []string{"CV"}, PartValues: []string{"0x96"},
		},
		&MakeOffer{Game: "alpha", Offer: TradeOffer{
			FromSeat: 2,
			ToSeats:  []bool{true, false, false, true},
			Give:     ResourceSet{1, 0, 0, 0, 1, 0},
			Get:      ResourceSet{0, 2, 0, 0, 0, 0},
		}},
		&DiceResultResources{
			Game:  "alpha",
			Seats: []int{0, 3}, Totals: []int{5, 8},
			Gains: []ResourceSet{{1, 0, 0, 0, 0, 0}, {0, 0, 2, 0, 0, 0}},
		},
		&ChoosePlayerRequest{Game: "alpha", Choices: []bool{false, true, true, false}, CanRobNone: true},
		&MoveRobber{Game: "alpha", Seat: 1, Hex: -0x77},
		&GameStats{Game: "alpha", Scores: []int{10, 7, 4, 6}, Robots: []bool{false, true, true, false}},
		&DeclinePlayerRequest{Game: "alpha", Reason: DeclineNotYourTurn, V1: 2, Text: ""},
	} {
		out := roundTrip(t, m)
		assert.Equal(t, m, out)
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)

	_, err = Decode([]byte{0xFF, 0xFF})
	assert.Error(t, err, "unknown tag")

	// Truncate a valid payload mid-string.
	full := Encode(&JoinGame{Nickname: "somebody", Game: "alpha"})
	_, err = Decode(full[:len(full)-3])
	assert.ErrorIs(t, err, ErrTruncated)

	// A hostile count prefix must not allocate or panic.
	w := NewWriter(TagGames)
	w.WriteH(0xFFFF)
	_, err = Decode(w.Bytes())
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestReaderStickyError(t *testing.T) {
	r := NewReader(Encode(&ServerPing{SleepTime: 1000}))
	r.ReadD()
	require.NoError(t, r.Err())

	// Everything after the first overrun reads as zero.
	assert.Equal(t, 0, r.ReadD())
	assert.Equal(t, "", r.ReadS())
	assert.ErrorIs(t, r.Err(), ErrTruncated)
}

func TestInGameRouting(t *testing.T) {
	m, err := Decode(Encode(&EndTurn{Game: "alpha"}))
	require.NoError(t, err)
	ig, ok := m.(InGame)
	require.True(t, ok)
	assert.Equal(t, "alpha", ig.GameName())

	// Lobby messages must not be game-routable.
	m, err = Decode(Encode(&AuthRequest{Role: "P", Nickname: "n"}))
	require.NoError(t, err)
	_, ok = m.(InGame)
	assert.False(t, ok)
}

func TestMinVersion(t *testing.T) {
	assert.Equal(t, VersionMin, MinVersion(TagPutPiece))
	assert.Equal(t, VersionBatchElements, MinVersion(TagPlayerElements))
	assert.Equal(t, VersionUndo, MinVersion(TagUndoPutPiece))
	assert.Equal(t, VersionReportRobbery, MinVersion(TagReportRobbery))
}

func TestCardTypeForVersion(t *testing.T) {
	// The knight/roads/unknown triple swapped values in the renumber.
	assert.Equal(t, 9, CardTypeForVersion(CardKnight, 1199))
	assert.Equal(t, 1, CardTypeForVersion(CardRoads, 1199))
	assert.Equal(t, CardKnight, CardTypeForVersion(CardKnight, VersionDevCardRenumber))
	assert.Equal(t, CardCap, CardTypeForVersion(CardCap, 1199), "VP cards kept their numbers")

	for _, c := range []int{CardUnknown, CardKnight, CardRoads, CardDisc, CardMono, CardCap} {
		for _, v := range []int{1100, 1999, 2000, 2700} {
			assert.Equal(t, c, CardTypeFromVersion(CardTypeForVersion(c, v), v))
		}
	}
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "2.7.0", VersionString(VersionCurrent))
	assert.Equal(t, "1.1.0", VersionString(VersionMin))
}

func TestParseFeatures(t *testing.T) {
	f := ParseFeatures("6pl;sb;sc=2700")
	assert.True(t, f.Has(Feat6Player))
	assert.True(t, f.Has(FeatSeaBoard))
	assert.Equal(t, "2700", f.Value(FeatScenario))
	assert.False(t, f.Has("nope"))
	assert.Equal(t, "6pl;sb;sc=2700", f.String())

	assert.Empty(t, ParseFeatures(""))
}
