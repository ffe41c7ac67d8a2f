package blackjack

import (
	"slices"

	"github.com/lox/blackjack/internal/deck"
)

// PairResult grades the Perfect Pairs side bet
type PairResult int

const (
	NoPair PairResult = iota
	MixedPair
	ColouredPair
	PerfectPair
)

// String returns the name announced for the result
func (p PairResult) String() string {
	switch p {
	case MixedPair:
		return "Mixed Pair"
	case ColouredPair:
		return "Coloured Pair"
	case PerfectPair:
		return "Perfect Pair"
	default:
		return "No Pair"
	}
}

// Multiplier is the amount paid per unit staked; zero loses the stake.
func (p PairResult) Multiplier() int {
	switch p {
	case MixedPair:
		return 5
	case ColouredPair:
		return 12
	case PerfectPair:
		return 30
	default:
		return 0
	}
}

// GradePerfectPairs grades the player's first two cards.
func GradePerfectPairs(a, b deck.Card) PairResult {
	switch {
	case a.Rank != b.Rank:
		return NoPair
	case a.Suit == b.Suit:
		return PerfectPair
	case a.IsRed() == b.IsRed():
		return ColouredPair
	default:
		return MixedPair
	}
}

// ThreeCardResult grades the 21+3 side bet
type ThreeCardResult int

const (
	NoThreeCardHand ThreeCardResult = iota
	Flush
	Straight
	ThreeOfAKind
	StraightFlush
	SuitedTrips
)

// String returns the name announced for the result
func (r ThreeCardResult) String() string {
	switch r {
	case Flush:
		return "Flush"
	case Straight:
		return "Straight"
	case ThreeOfAKind:
		return "Three of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case SuitedTrips:
		return "Suited Three of a Kind"
	default:
		return "Nothing"
	}
}

// Multiplier is the amount paid per unit staked; zero loses the stake.
func (r ThreeCardResult) Multiplier() int {
	switch r {
	case Flush:
		return 5
	case Straight:
		return 10
	case ThreeOfAKind:
		return 30
	case StraightFlush:
		return 40
	case SuitedTrips:
		return 100
	default:
		return 0
	}
}

// GradeTwentyOnePlusThree grades the player's two cards with the dealer's up-card
// as a three-card poker hand.
func GradeTwentyOnePlusThree(a, b, up deck.Card) ThreeCardResult {
	cards := [3]deck.Card{a, b, up}
	trips := a.Rank == b.Rank && b.Rank == up.Rank
	flush := a.Suit == b.Suit && b.Suit == up.Suit
	run := isRun(cards)

	switch {
	case trips && flush:
		return SuitedTrips
	case run && flush:
		return StraightFlush
	case trips:
		return ThreeOfAKind
	case run:
		return Straight
	case flush:
		return Flush
	default:
		return NoThreeCardHand
	}
}

// isRun checks for three consecutive ranks with the Ace played low (1) or high (14).
func isRun(cards [3]deck.Card) bool {
	low := make([]int, 0, 3)
	high := make([]int, 0, 3)
	for _, c := range cards {
		h := int(c.Rank)
		l := h
		if c.Rank == deck.Ace {
			l = 1
		}
		low = append(low, l)
		high = append(high, h)
	}
	return consecutive(low) || consecutive(high)
}

func consecutive(values []int) bool {
	slices.Sort(values)
	distinct := values[0] != values[1] && values[1] != values[2]
	return distinct && values[2]-values[0] == 2
}
