package blackjack

import (
	"context"

	"github.com/lox/blackjack/internal/deck"
)

// DecisionRequest is the read-only context an Agent decides on.
type DecisionRequest struct {
	RoundID        string
	Prompt         Prompt
	Hand           HandView
	HandCount      int // 2 after a split
	DealerUp       deck.Card
	Balance        int
	InsuranceStake int // only set for PromptInsurance
	Legality       Legality
	Rejected       error // why the previous answer to this prompt was refused, if it was
}

// Agent represents any entity (human or bot) that answers decision prompts.
// Agents receive snapshots and return an action; the engine applies it.
type Agent interface {
	// Decide returns one of req.Legality.Allowed
	Decide(ctx context.Context, req DecisionRequest) (Action, error)
}

// AgentFunc adapts a function to the Agent interface
type AgentFunc func(ctx context.Context, req DecisionRequest) (Action, error)

// Decide calls f
func (f AgentFunc) Decide(ctx context.Context, req DecisionRequest) (Action, error) {
	return f(ctx, req)
}

// WagerRequest is the context a Bettor places a bet on.
type WagerRequest struct {
	Round     int
	Balance   int
	Previous  Wager
	CanRepeat bool
	Rules     Rules
	Rejected  error
	Attempted Wager // the wager Rejected refers to
}

// Bettor supplies the wager for each round. Returning ErrLeaveTable ends the session.
type Bettor interface {
	Bet(ctx context.Context, req WagerRequest) (Wager, error)
}

// BettorFunc adapts a function to the Bettor interface
type BettorFunc func(ctx context.Context, req WagerRequest) (Wager, error)

// Bet calls f
func (f BettorFunc) Bet(ctx context.Context, req WagerRequest) (Wager, error) {
	return f(ctx, req)
}

func insuranceLegality() Legality {
	return Legality{Allowed: []Action{Insure, DeclineInsurance}}
}

func confirmLegality() Legality {
	return Legality{Allowed: []Action{ConfirmExit, CancelExit}}
}

// fallbackFor is the action applied when an agent keeps answering outside the allowed set.
func fallbackFor(p Prompt) Action {
	switch p {
	case PromptInsurance:
		return DeclineInsurance
	case PromptConfirmExit:
		return CancelExit
	default:
		return Stand
	}
}
