package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack/internal/deck"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		cards string
		want  Totals
	}{
		{"10c As", Totals{Hard: 21, Soft: 11, Best: 21}},
		{"10c 6d Ks", Totals{Hard: 26, Soft: 26, Best: 26}},
		{"Ah Ad", Totals{Hard: 12, Soft: 2, Best: 12}},
		{"Ah Ad 9c", Totals{Hard: 21, Soft: 11, Best: 21}},
		{"As 6c Td", Totals{Hard: 27, Soft: 17, Best: 17}},
		{"2c 5d", Totals{Hard: 7, Soft: 7, Best: 7}},
		{"As 6c", Totals{Hard: 17, Soft: 7, Best: 17}},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(deck.MustParseCards(tt.cards)))
		})
	}
}

func TestEvaluate_AceInvariants(t *testing.T) {
	for _, a := range deck.Ranks {
		for _, b := range deck.Ranks {
			for _, c := range deck.Ranks {
				cards := []deck.Card{
					deck.NewCard(a, deck.Hearts),
					deck.NewCard(b, deck.Clubs),
					deck.NewCard(c, deck.Spades),
				}
				got := Evaluate(cards)
				hasAce := a == deck.Ace || b == deck.Ace || c == deck.Ace
				if hasAce {
					assert.Equal(t, got.Soft+10, got.Hard, "%v", cards)
				} else {
					assert.Equal(t, got.Soft, got.Hard, "%v", cards)
					assert.Equal(t, got.Hard, got.Best, "%v", cards)
				}
				if got.Hard <= BlackjackTotal {
					assert.Equal(t, got.Hard, got.Best)
				} else {
					assert.Equal(t, got.Soft, got.Best)
				}
			}
		}
	}
}

func TestTotals_Flags(t *testing.T) {
	assert.True(t, Evaluate(deck.MustParseCards("As 6c")).IsSoft())
	assert.False(t, Evaluate(deck.MustParseCards("As 6c Td")).IsSoft())
	assert.True(t, Evaluate(deck.MustParseCards("Ts 6c Kd")).IsBust())
	assert.False(t, Evaluate(deck.MustParseCards("As Ac Ad")).IsBust())

	assert.True(t, IsNatural(deck.MustParseCards("As Kd")))
	assert.False(t, IsNatural(deck.MustParseCards("7s 7d 7c")))
	assert.False(t, IsNatural(deck.MustParseCards("Ts 9d")))
}
