package blackjack

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

// ScriptedAgent answers prompts from a fixed script and records every request.
// Once the script runs out it stands, declines insurance and cancels exits.
type ScriptedAgent struct {
	actions  []Action
	index    int
	Requests []DecisionRequest
}

func NewScriptedAgent(actions ...Action) *ScriptedAgent {
	return &ScriptedAgent{actions: actions}
}

func (s *ScriptedAgent) Decide(_ context.Context, req DecisionRequest) (Action, error) {
	s.Requests = append(s.Requests, req)
	if s.index >= len(s.actions) {
		return fallbackFor(req.Prompt), nil
	}
	action := s.actions[s.index]
	s.index++
	return action, nil
}

// Prompts returns the prompt of each recorded request in order
func (s *ScriptedAgent) Prompts() []Prompt {
	prompts := make([]Prompt, len(s.Requests))
	for i, r := range s.Requests {
		prompts[i] = r.Prompt
	}
	return prompts
}

// ScriptedBettor places the given wagers in order, then leaves the table
type ScriptedBettor struct {
	wagers   []Wager
	index    int
	Requests []WagerRequest
}

func NewScriptedBettor(wagers ...Wager) *ScriptedBettor {
	return &ScriptedBettor{wagers: wagers}
}

func (s *ScriptedBettor) Bet(_ context.Context, req WagerRequest) (Wager, error) {
	s.Requests = append(s.Requests, req)
	if s.index >= len(s.wagers) {
		return Wager{}, ErrLeaveTable
	}
	w := s.wagers[s.index]
	s.index++
	return w, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// newStackedEngine returns an engine dealing exactly cards, in deal order:
// player, dealer, player, dealer, then draws.
func newStackedEngine(t *testing.T, cards string, opts ...Option) (*Engine, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	opts = append([]Option{WithEventBus(bus), WithClock(quartz.NewMock(t))}, opts...)
	return NewEngine(deck.NewStackedShoe(deck.MustParseCards(cards)...), DefaultRules(), testLogger(), opts...), rec
}

func hand(t *testing.T, cards string) *Hand {
	t.Helper()
	h := NewHand("Hand #1")
	parsed, err := deck.ParseCards(cards)
	require.NoError(t, err)
	h.Cards = parsed
	return h
}
