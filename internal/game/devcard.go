package game

import "math/rand"

// Development card types. Numbering matches the current wire constants.
const (
	CardUnknown = iota
	CardKnight
	CardRoads
	CardDisc
	CardMono
	CardCap
	CardLib
	CardUniv
	CardTemple
	CardChapel
	NumCardTypes
)

// Card ages. NEW cards were bought this turn and cannot be played until
// promoted on the next turn; KEPT holds the VP cards, which are never
// played and never promoted.
const (
	CardNew = iota
	CardOld
	CardKept
)

// IsVPCard reports whether a card type is a victory-point card.
func IsVPCard(t int) bool {
	return t >= CardCap && t <= CardChapel
}

// DevCardInventory is one player's hand of development cards, partitioned
// by age and type.
type DevCardInventory struct {
	counts [3][NumCardTypes]int
}

func (inv *DevCardInventory) Add(age, cardType int) {
	inv.counts[age][cardType]++
}

// Remove takes one card of the given age and type; reports false if none.
func (inv *DevCardInventory) Remove(age, cardType int) bool {
	if inv.counts[age][cardType] == 0 {
		return false
	}
	inv.counts[age][cardType]--
	return true
}

func (inv *DevCardInventory) Count(age, cardType int) int {
	return inv.counts[age][cardType]
}

// CountType sums a card type across all ages.
func (inv *DevCardInventory) CountType(cardType int) int {
	return inv.counts[CardNew][cardType] + inv.counts[CardOld][cardType] + inv.counts[CardKept][cardType]
}

// Total counts every card in the hand.
func (inv *DevCardInventory) Total() int {
	n := 0
	for age := range inv.counts {
		for _, c := range inv.counts[age] {
			n += c
		}
	}
	return n
}

// VPCount counts held victory-point cards.
func (inv *DevCardInventory) VPCount() int {
	n := 0
	for t := CardCap; t <= CardChapel; t++ {
		n += inv.CountType(t)
	}
	return n
}

// PromoteNew moves every NEW card to OLD. Called on each TURN transition.
func (inv *DevCardInventory) PromoteNew() {
	for t := 0; t < NumCardTypes; t++ {
		inv.counts[CardOld][t] += inv.counts[CardNew][t]
		inv.counts[CardNew][t] = 0
	}
}

// deckComposition is the classic 25-card deck; the 6-player deck adds 9.
var deckComposition = map[int]int{
	CardKnight: 14,
	CardRoads:  2,
	CardDisc:   2,
	CardMono:   2,
	CardCap:    1,
	CardLib:    1,
	CardUniv:   1,
	CardTemple: 1,
	CardChapel: 1,
}

var deckExtra6Player = map[int]int{
	CardKnight: 6,
	CardRoads:  1,
	CardDisc:   1,
	CardMono:   1,
}

// NewDeck builds and shuffles the development card deck.
func NewDeck(sixPlayer bool, rng *rand.Rand) []int {
	var deck []int
	for t, n := range deckComposition {
		for i := 0; i < n; i++ {
			deck = append(deck, t)
		}
	}
	if sixPlayer {
		for t, n := range deckExtra6Player {
			for i := 0; i < n; i++ {
				deck = append(deck, t)
			}
		}
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}
