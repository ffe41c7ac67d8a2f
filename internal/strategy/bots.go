package strategy

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
)

// AlwaysStand stands on every hand and declines insurance
type AlwaysStand struct{}

// Decide implements blackjack.Agent
func (AlwaysStand) Decide(_ context.Context, req blackjack.DecisionRequest) (blackjack.Action, error) {
	switch req.Prompt {
	case blackjack.PromptInsurance:
		return blackjack.DeclineInsurance, nil
	case blackjack.PromptConfirmExit:
		return blackjack.CancelExit, nil
	default:
		return blackjack.Stand, nil
	}
}

// Random picks uniformly among the allowed actions. It never exits the game.
type Random struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandom creates a random agent drawing from rng
func NewRandom(rng *rand.Rand, logger *log.Logger) *Random {
	return &Random{rng: rng, logger: logger.WithPrefix("random")}
}

// Decide implements blackjack.Agent
func (r *Random) Decide(_ context.Context, req blackjack.DecisionRequest) (blackjack.Action, error) {
	if req.Prompt == blackjack.PromptConfirmExit {
		return blackjack.CancelExit, nil
	}

	choices := slices.DeleteFunc(slices.Clone(req.Legality.Allowed), func(a blackjack.Action) bool {
		return a == blackjack.Exit
	})
	if len(choices) == 0 {
		return blackjack.Stand, nil
	}

	action := choices[r.rng.IntN(len(choices))]
	r.logger.Debug("Random decision", "prompt", req.Prompt, "action", action)
	return action, nil
}

// FlatBettor stakes the same wager every round. When the balance can no longer
// cover the side bets it drops them, and it leaves once the main bet is unaffordable.
type FlatBettor struct {
	Wager blackjack.Wager
}

// NewFlatBettor creates a bettor staking main, left and right every round
func NewFlatBettor(main, left, right int) *FlatBettor {
	return &FlatBettor{Wager: blackjack.Wager{Main: main, SideLeft: left, SideRight: right}}
}

// Bet implements blackjack.Bettor
func (f *FlatBettor) Bet(_ context.Context, req blackjack.WagerRequest) (blackjack.Wager, error) {
	w := f.Wager
	if w.Total() > req.Balance {
		w = blackjack.Wager{Main: w.Main}
	}
	if w.Main > req.Balance {
		return blackjack.Wager{}, blackjack.ErrLeaveTable
	}
	return w, nil
}

// Names lists the agents New can build
var Names = []string{"basic", "stand", "random"}

// New builds the named agent. rng is only used by the random agent.
func New(name string, rng *rand.Rand, logger *log.Logger) (blackjack.Agent, error) {
	switch name {
	case "basic":
		return NewBasicStrategy(logger), nil
	case "stand":
		return AlwaysStand{}, nil
	case "random":
		return NewRandom(rng, logger), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want one of %v)", name, Names)
	}
}
