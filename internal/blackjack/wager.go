package blackjack

import (
	"fmt"
	"strconv"
	"strings"
)

// RepeatToken is the wager input that repeats the previous round's bets
const RepeatToken = "r"

// Wager is the stake a player places before the deal.
type Wager struct {
	Main      int
	SideLeft  int // Perfect Pairs
	SideRight int // 21+3
	Repeat    bool
}

// Total is the amount the wager puts at risk
func (w Wager) Total() int {
	return w.Main + w.SideLeft + w.SideRight
}

// IsZero reports whether no bet was ever placed
func (w Wager) IsZero() bool {
	return w.Total() == 0 && !w.Repeat
}

// String formats the wager like the input it parses from
func (w Wager) String() string {
	if w.Repeat {
		return RepeatToken
	}
	return fmt.Sprintf("%d,%d,%d", w.Main, w.SideLeft, w.SideRight)
}

// ParseWager parses "main", "main,left,right" or the repeat token.
// Spaces are ignored. Amount checks happen in Validate.
func ParseWager(input string) (Wager, error) {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(input), " ", ""))
	if s == RepeatToken {
		return Wager{Repeat: true}, nil
	}

	fields := strings.Split(s, ",")
	if len(fields) != 1 && len(fields) != 3 {
		return Wager{}, fmt.Errorf("%w: expected main or main,left,right, got %q", ErrInvalidWager, input)
	}

	amounts := make([]int, 3)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Wager{}, fmt.Errorf("%w: %q is not a whole number", ErrInvalidWager, f)
		}
		amounts[i] = n
	}
	return Wager{Main: amounts[0], SideLeft: amounts[1], SideRight: amounts[2]}, nil
}

// Validate checks the wager against the table limits and the balance.
func (w Wager) Validate(balance int, rules Rules) error {
	if w.Repeat {
		return fmt.Errorf("%w: repeat must be resolved first", ErrInvalidWager)
	}
	if w.SideLeft < 0 || w.SideRight < 0 || w.Main < 0 {
		return ErrNegativeBet
	}
	if w.Main < rules.MinBet {
		return fmt.Errorf("%w (minimum %d)", ErrBelowMinimum, rules.MinBet)
	}
	for _, amount := range []int{w.Main, w.SideLeft, w.SideRight} {
		if amount%rules.BetUnit != 0 {
			return fmt.Errorf("%w (%d is not a multiple of %d)", ErrNotMultiple, amount, rules.BetUnit)
		}
	}
	if w.Total() > balance {
		return fmt.Errorf("%w: wager %d, balance %d", ErrInsufficientBalance, w.Total(), balance)
	}
	return nil
}

// ResolveWager expands a repeat request against the previous wager and validates the result.
func ResolveWager(w, previous Wager, balance int, rules Rules) (Wager, error) {
	if w.Repeat {
		if previous.Total() == 0 {
			return Wager{}, ErrNoPreviousBet
		}
		if previous.Total() > balance {
			return Wager{}, fmt.Errorf("%w: repeating needs %d, balance %d", ErrInsufficientBalance, previous.Total(), balance)
		}
		w = previous
		w.Repeat = false
	}
	if err := w.Validate(balance, rules); err != nil {
		return Wager{}, err
	}
	return w, nil
}

// CanRepeat reports whether previous can be placed again with balance
func CanRepeat(previous Wager, balance int) bool {
	return previous.Total() > 0 && previous.Total() <= balance
}
