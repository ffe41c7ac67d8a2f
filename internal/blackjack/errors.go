package blackjack

import (
	"errors"
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Wager errors. All wrap ErrInvalidWager.
var (
	ErrInvalidWager        = errors.New("invalid wager")
	ErrBelowMinimum        = fmt.Errorf("%w: main bet below table minimum", ErrInvalidWager)
	ErrNotMultiple         = fmt.Errorf("%w: bets must be multiples of the bet unit", ErrInvalidWager)
	ErrNegativeBet         = fmt.Errorf("%w: side bets cannot be negative", ErrInvalidWager)
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoPreviousBet       = fmt.Errorf("%w: no previous bet to repeat", ErrInvalidWager)
)

// Decision errors. Denials in a Legality wrap ErrIllegalAction.
var (
	ErrIllegalAction    = errors.New("action not currently allowed")
	ErrNotAPair         = fmt.Errorf("%w: cards are not a pair", ErrIllegalAction)
	ErrAlreadySplit     = fmt.Errorf("%w: hand has already been split", ErrIllegalAction)
	ErrNotFirstDecision = fmt.Errorf("%w: only allowed on the first two cards", ErrIllegalAction)
)

// ErrLeaveTable is returned by a Bettor to end the session.
var ErrLeaveTable = errors.New("player left the table")

// ErrShoeExhausted is re-exported from the deck package.
var ErrShoeExhausted = deck.ErrShoeExhausted
