package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Spades
	Clubs
)

// Suits lists every suit in shoe construction order
var Suits = [...]Suit{Hearts, Diamonds, Spades, Clubs}

// String returns the symbol for a suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Spades:
		return "♠"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Name returns the suit's English name
func (s Suit) Name() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Spades:
		return "Spades"
	case Clubs:
		return "Clubs"
	default:
		return "Unknown"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank in shoe construction order
var Ranks = [...]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// String returns the face printed on the card
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// HardValue is the blackjack primary value: Ace 11, faces 10, otherwise pips.
func (r Rank) HardValue() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

// SoftValue is the blackjack secondary value: Ace 1, otherwise HardValue.
func (r Rank) SoftValue() int {
	if r == Ace {
		return 1
	}
	return r.HardValue()
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the string representation of a card (e.g., "A♠", "10♥")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Long returns the long form used in prompts, e.g. "10 of Hearts"
func (c Card) Long() string {
	return c.Rank.String() + " of " + c.Suit.Name()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// HardValue returns the card's primary blackjack value
func (c Card) HardValue() int {
	return c.Rank.HardValue()
}

// SoftValue returns the card's secondary blackjack value
func (c Card) SoftValue() int {
	return c.Rank.SoftValue()
}

// ParseCard parses shorthand like "As", "10h", "Td" or "q♣".
func ParseCard(s string) (Card, error) {
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	runes := []rune(s)
	suitPart := string(runes[len(runes)-1])
	rankPart := strings.ToUpper(string(runes[:len(runes)-1]))

	var suit Suit
	switch suitPart {
	case "h", "H", "♥":
		suit = Hearts
	case "d", "D", "♦":
		suit = Diamonds
	case "s", "S", "♠":
		suit = Spades
	case "c", "C", "♣":
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}

	var rank Rank
	switch rankPart {
	case "A":
		rank = Ace
	case "K":
		rank = King
	case "Q":
		rank = Queen
	case "J":
		rank = Jack
	case "T", "10":
		rank = Ten
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = Rank(rankPart[0] - '0')
	default:
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}

	return NewCard(rank, suit), nil
}

// ParseCards parses a space or comma separated list such as "As 10h, 7c".
// Two-character tokens may also be run together: "AsKd7c".
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	cards := []Card{}
	for _, field := range fields {
		tokens, err := splitRunTogether(field)
		if err != nil {
			return nil, err
		}
		for _, tok := range tokens {
			card, err := ParseCard(tok)
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// MustParseCards is ParseCards for tests and fixtures; it panics on bad input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

func splitRunTogether(field string) ([]string, error) {
	runes := []rune(field)
	var out []string
	for i := 0; i < len(runes); {
		// "10x" is the only three-rune token
		if runes[i] == '1' && i+2 < len(runes) && runes[i+1] == '0' {
			out = append(out, string(runes[i:i+3]))
			i += 3
			continue
		}
		if i+1 >= len(runes) {
			return nil, fmt.Errorf("invalid card list %q", field)
		}
		out = append(out, string(runes[i:i+2]))
		i += 2
	}
	return out, nil
}
