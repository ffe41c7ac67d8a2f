package deck

import (
	"errors"
	rand "math/rand/v2"
)

// CardsPerDeck is the size of one standard deck
const CardsPerDeck = 52

// ErrShoeExhausted is returned when a refill produced no cards to deal.
var ErrShoeExhausted = errors.New("shoe exhausted")

// Source builds the card sequence for a fresh shoe.
type Source interface {
	Fill(decks int) []Card
}

// NewDecks returns decks standard decks in construction order (suit by suit, 2 through Ace).
func NewDecks(decks int) []Card {
	cards := make([]Card, 0, decks*CardsPerDeck)
	for range decks {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				cards = append(cards, NewCard(rank, suit))
			}
		}
	}
	return cards
}

// ShuffledSource produces shuffled multi-deck shoes from an explicit RNG.
type ShuffledSource struct {
	rng    *rand.Rand
	passes int
}

// NewShuffledSource shuffles each fresh shoe passes times (minimum one).
func NewShuffledSource(rng *rand.Rand, passes int) *ShuffledSource {
	if rng == nil {
		panic("rng is required for a shuffled source")
	}
	if passes < 1 {
		passes = 1
	}
	return &ShuffledSource{rng: rng, passes: passes}
}

// Fill implements Source
func (s *ShuffledSource) Fill(decks int) []Card {
	cards := NewDecks(decks)
	for range s.passes {
		s.rng.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})
	}
	return cards
}

// Passes reports how many times each fresh shoe is shuffled
func (s *ShuffledSource) Passes() int {
	return s.passes
}

// OrderedSource produces unshuffled shoes. Useful as a deterministic fallback in tests.
type OrderedSource struct{}

// Fill implements Source
func (OrderedSource) Fill(decks int) []Card {
	return NewDecks(decks)
}

// Shoe is the ordered, consumable sequence of cards dealt from the front.
//
// A Shoe has a single owner; Draw refills before popping so a card is never
// taken from an empty shoe.
type Shoe struct {
	cards       []Card
	decks       int
	source      Source
	refillBelow int
	refills     int
}

// NewShoe builds a shoe of decks decks from source. It is refilled whenever
// fewer than half of a fresh shoe's cards remain.
func NewShoe(decks int, source Source) *Shoe {
	if decks < 1 {
		panic("a shoe needs at least one deck")
	}
	s := &Shoe{
		decks:       decks,
		source:      source,
		refillBelow: decks * CardsPerDeck / 2,
	}
	s.cards = source.Fill(decks)
	return s
}

// NewStackedShoe returns a shoe that deals exactly the given cards in order.
// It never asks for a refill until it is empty, then falls back to one ordered deck.
func NewStackedShoe(cards ...Card) *Shoe {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Shoe{
		cards:  stacked,
		decks:  1,
		source: OrderedSource{},
	}
}

// NeedsRefill reports whether the shoe has fallen below its refill threshold.
func (s *Shoe) NeedsRefill() bool {
	return len(s.cards) == 0 || len(s.cards) < s.refillBelow
}

// Refill replaces the remaining cards with a fresh shoe from the source.
func (s *Shoe) Refill() error {
	cards := s.source.Fill(s.decks)
	if len(cards) == 0 {
		return ErrShoeExhausted
	}
	s.cards = cards
	s.refills++
	return nil
}

// Draw removes and returns the front card, refilling first if the shoe is empty.
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		if err := s.Refill(); err != nil {
			return Card{}, err
		}
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card, nil
}

// Peek returns the front card without removing it
func (s *Shoe) Peek() (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}
	return s.cards[0], true
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Decks returns the number of decks in a fresh shoe
func (s *Shoe) Decks() int {
	return s.decks
}

// Refills counts how many times the shoe has been replaced
func (s *Shoe) Refills() int {
	return s.refills
}

// Source returns where refills come from
func (s *Shoe) Source() Source {
	return s.source
}
