package blackjack

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// PayoffTable holds the payoff for each wager category in one round.
// Blackjack is additive on a won main bet; SideLeft and SideRight are set by
// the side-bet graders when the round is dealt.
type PayoffTable struct {
	Blackjack float64
	Insurance float64
	SideLeft  int
	SideRight int
}

// DefaultPayoffs returns the house payoffs before side bets are graded
func DefaultPayoffs() PayoffTable {
	return PayoffTable{Blackjack: 0.5, Insurance: 2.0}
}

// Rules are the table limits and payoffs the engine runs with.
type Rules struct {
	Decks              int
	ShufflePasses      int
	MinBet             int
	BetUnit            int
	InsuranceThreshold float64 // insurance is offered when balance >= threshold * main bet
	Payoffs            PayoffTable
}

// DefaultRules returns the house rules: 8 decks, minimum 10 in steps of 10.
func DefaultRules() Rules {
	return Rules{
		Decks:              8,
		ShufflePasses:      3,
		MinBet:             10,
		BetUnit:            10,
		InsuranceThreshold: 1.5,
		Payoffs:            DefaultPayoffs(),
	}
}

// Validate checks the rules are playable
func (r Rules) Validate() error {
	if r.Decks < 1 {
		return fmt.Errorf("decks must be positive, got %d", r.Decks)
	}
	if r.MinBet < 1 {
		return fmt.Errorf("minimum bet must be at least 1, got %d", r.MinBet)
	}
	if r.BetUnit < 1 {
		return fmt.Errorf("bet unit must be at least 1, got %d", r.BetUnit)
	}
	if r.Payoffs.Blackjack < 0 || r.Payoffs.Insurance < 0 || r.InsuranceThreshold < 0 {
		return fmt.Errorf("payoffs and thresholds cannot be negative")
	}
	return nil
}

// Action is a decision a provider can return. Which actions are valid depends on the prompt.
type Action int

const (
	Hit Action = iota + 1
	Stand
	Double
	Split
	Exit
	Insure
	DeclineInsurance
	ConfirmExit
	CancelExit
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	case Exit:
		return "exit"
	case Insure:
		return "insure"
	case DeclineInsurance:
		return "decline_insurance"
	case ConfirmExit:
		return "confirm_exit"
	case CancelExit:
		return "cancel_exit"
	default:
		return "unknown"
	}
}

// Prompt identifies which question a DecisionRequest asks
type Prompt int

const (
	PromptPlay Prompt = iota
	PromptInsurance
	PromptConfirmExit
)

// String returns the string representation of a prompt
func (p Prompt) String() string {
	switch p {
	case PromptPlay:
		return "play"
	case PromptInsurance:
		return "insurance"
	case PromptConfirmExit:
		return "confirm_exit"
	default:
		return "unknown"
	}
}

// Legality is the set of actions currently allowed, plus why the rest were refused.
type Legality struct {
	Allowed []Action
	Denied  map[Action]error
}

// Allows reports whether a is in the allowed set
func (l Legality) Allows(a Action) bool {
	for _, allowed := range l.Allowed {
		if allowed == a {
			return true
		}
	}
	return false
}

// Reason returns why a is not allowed, or nil when it is
func (l Legality) Reason(a Action) error {
	if l.Allows(a) {
		return nil
	}
	if err, ok := l.Denied[a]; ok {
		return err
	}
	return fmt.Errorf("%w: %s", ErrIllegalAction, a)
}

// Legal gates the play decision for an active hand.
//
// Hit, Stand and Exit are always offered. Double needs the first decision of an
// unsplit round and a balance covering twice the main bet. Split additionally
// needs a pair.
func Legal(h *Hand, balance int, splitDone bool) Legality {
	l := Legality{
		Allowed: []Action{Hit, Stand},
		Denied:  map[Action]error{},
	}

	covers := balance >= 2*h.Bets[BetMain]
	first := len(h.Cards) == 2 && h.decisions == 0

	switch {
	case splitDone:
		l.Denied[Double] = fmt.Errorf("%w: cannot double down after splitting", ErrAlreadySplit)
	case !first:
		l.Denied[Double] = ErrNotFirstDecision
	case !covers:
		l.Denied[Double] = fmt.Errorf("%w: %w: double down needs %d, balance %d", ErrIllegalAction, ErrInsufficientBalance, 2*h.Bets[BetMain], balance)
	default:
		l.Allowed = append(l.Allowed, Double)
	}

	switch {
	case splitDone:
		l.Denied[Split] = ErrAlreadySplit
	case !first:
		l.Denied[Split] = ErrNotFirstDecision
	case !h.IsPair():
		l.Denied[Split] = ErrNotAPair
	case !covers:
		l.Denied[Split] = fmt.Errorf("%w: %w: split needs %d, balance %d", ErrIllegalAction, ErrInsufficientBalance, 2*h.Bets[BetMain], balance)
	default:
		l.Allowed = append(l.Allowed, Split)
	}

	l.Allowed = append(l.Allowed, Exit)
	return l
}

// DealerStandsOn is the total at which the dealer stops drawing, soft or hard
const DealerStandsOn = 17

// DealerShouldDraw reports whether the dealer takes another card. Soft 17 draws.
func DealerShouldDraw(dealer []deck.Card) bool {
	return Evaluate(dealer).Best < DealerStandsOn
}

// DealerPlays reports whether the dealer draws at all: only when some hand is
// neither bust nor a natural blackjack.
func DealerPlays(hands []*Hand) bool {
	for _, h := range hands {
		if h.Status != StatusBust && h.Status != StatusStandBlackjack {
			return true
		}
	}
	return false
}
