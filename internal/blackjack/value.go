package blackjack

import "github.com/lox/blackjack/internal/deck"

// BlackjackTotal is the best total that wins outright
const BlackjackTotal = 21

// Totals are the three sums of a card sequence.
//
// Soft counts every Ace as 1. Hard counts one Ace as 11 when any Ace is present.
// Best is Hard unless that busts, then Soft.
type Totals struct {
	Hard int
	Soft int
	Best int
}

// Evaluate computes the totals of cards.
func Evaluate(cards []deck.Card) Totals {
	soft := 0
	hasAce := false
	for _, c := range cards {
		soft += c.SoftValue()
		if c.IsAce() {
			hasAce = true
		}
	}

	hard := soft
	if hasAce {
		hard = soft + 10
	}

	best := hard
	if hard > BlackjackTotal {
		best = soft
	}
	return Totals{Hard: hard, Soft: soft, Best: best}
}

// IsBust reports whether the best total is over 21
func (t Totals) IsBust() bool {
	return t.Best > BlackjackTotal
}

// IsSoft reports whether the best total counts an Ace as 11
func (t Totals) IsSoft() bool {
	return t.Hard != t.Soft && t.Best == t.Hard
}

// IsNatural reports whether cards are a two-card 21.
func IsNatural(cards []deck.Card) bool {
	return len(cards) == 2 && Evaluate(cards).Best == BlackjackTotal
}
