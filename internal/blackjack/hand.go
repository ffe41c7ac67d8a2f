package blackjack

import (
	"fmt"
	"math"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Status is the lifecycle state of a hand. Every status except StatusActive is terminal.
type Status int

const (
	StatusActive Status = iota
	StatusStand
	StatusStandInsurance
	StatusStandBlackjack
	StatusBust
	StatusExited
)

// String returns the string representation of a status
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusStand:
		return "stand"
	case StatusStandInsurance:
		return "stand_insurance"
	case StatusStandBlackjack:
		return "stand_blackjack"
	case StatusBust:
		return "bust"
	case StatusExited:
		return "exit"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition can leave this status
func (s Status) IsTerminal() bool {
	return s != StatusActive
}

// BetKind names a wager slot on a hand
type BetKind int

const (
	BetMain BetKind = iota
	BetBlackjack
	BetInsurance
	BetSideLeft
	BetSideRight
	numBetKinds
)

// BetKinds lists every wager slot in display order
var BetKinds = [...]BetKind{BetMain, BetBlackjack, BetInsurance, BetSideLeft, BetSideRight}

// String returns the string representation of a bet kind
func (k BetKind) String() string {
	switch k {
	case BetMain:
		return "main"
	case BetBlackjack:
		return "blackjack"
	case BetInsurance:
		return "insurance"
	case BetSideLeft:
		return "side_left"
	case BetSideRight:
		return "side_right"
	default:
		return "unknown"
	}
}

// Ledger holds one amount per BetKind. The key set is fixed; only amounts change.
type Ledger [numBetKinds]int

// Total sums every slot
func (l Ledger) Total() int {
	total := 0
	for _, v := range l {
		total += v
	}
	return total
}

// String formats non-zero slots, e.g. "main=20 side_left=10"
func (l Ledger) String() string {
	var parts []string
	for _, k := range BetKinds {
		if l[k] != 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", k, l[k]))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// Hand is one player or dealer hand for a single round.
type Hand struct {
	Name      string
	Cards     []deck.Card
	Status    Status
	Blackjack bool
	Bets      Ledger
	Winnings  Ledger
	Doubled   bool
	FromSplit bool

	decisions int
}

// NewHand creates an active hand with an empty ledger
func NewHand(name string) *Hand {
	return &Hand{Name: name, Cards: make([]deck.Card, 0, 4)}
}

// Totals evaluates the hand's cards
func (h *Hand) Totals() Totals {
	return Evaluate(h.Cards)
}

// Decisions counts the decisions already applied to this hand
func (h *Hand) Decisions() int {
	return h.decisions
}

// IsPair reports whether the hand is two cards of equal blackjack value
func (h *Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].HardValue() == h.Cards[1].HardValue()
}

func (h *Hand) add(c deck.Card) Totals {
	h.Cards = append(h.Cards, c)
	return h.Totals()
}

func (h *Hand) markBlackjack() {
	h.Status = StatusStandBlackjack
	h.Blackjack = true
	h.Bets[BetBlackjack] = h.Bets[BetMain]
}

// View returns an immutable snapshot of the hand
func (h *Hand) View() HandView {
	cards := make([]deck.Card, len(h.Cards))
	copy(cards, h.Cards)
	return HandView{
		Name:      h.Name,
		Cards:     cards,
		Totals:    h.Totals(),
		Status:    h.Status,
		Blackjack: h.Blackjack,
		Bets:      h.Bets,
		Winnings:  h.Winnings,
		Doubled:   h.Doubled,
	}
}

// String returns a compact representation for logs
func (h *Hand) String() string {
	cards := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		cards[i] = c.String()
	}
	return fmt.Sprintf("%s [%s] (%d)", h.Name, strings.Join(cards, " "), h.Totals().Best)
}

// HandView is a read-only copy of a hand handed to agents and event subscribers
type HandView struct {
	Name      string
	Cards     []deck.Card
	Totals    Totals
	Status    Status
	Blackjack bool
	Bets      Ledger
	Winnings  Ledger
	Doubled   bool
}

// Player carries the bankroll across rounds and the one or two live hands of the current round.
type Player struct {
	Balance        int
	InitialBalance int
	MaxBalance     int
	Previous       Wager
	Hands          []*Hand
}

// NewPlayer creates a player with a deposited balance
func NewPlayer(balance int) *Player {
	return &Player{
		Balance:        balance,
		InitialBalance: balance,
		MaxBalance:     balance,
	}
}

// Net returns winnings since the deposit
func (p *Player) Net() int {
	return p.Balance - p.InitialBalance
}

func (p *Player) credit(delta int) {
	p.Balance += delta
}

func (p *Player) recordHigh() {
	if p.Balance > p.MaxBalance {
		p.MaxBalance = p.Balance
	}
}

// scale multiplies a stake by a fractional payoff, rounding to the nearest chip.
func scale(stake int, payoff float64) int {
	return int(math.Round(float64(stake) * payoff))
}
