package blackjack

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
)

// DefaultMaxAttempts is how many times a prompt is asked before the engine
// applies the fallback action.
const DefaultMaxAttempts = 3

// Engine plays rounds against one shoe. It is not safe for concurrent use;
// run one Engine per table.
type Engine struct {
	shoe        *deck.Shoe
	rules       Rules
	logger      *log.Logger
	bus         EventBus
	clock       quartz.Clock
	nextID      func() string
	maxAttempts int
	rounds      int
}

// Option configures an Engine
type Option func(*Engine)

// WithEventBus publishes round events to bus
func WithEventBus(bus EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithClock sets the clock used for event timestamps
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithRoundIDs sets the round identifier generator
func WithRoundIDs(next func() string) Option {
	return func(e *Engine) { e.nextID = next }
}

// WithMaxAttempts sets how often an illegal answer is re-requested before falling back
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// NewEngine creates an engine dealing from shoe under rules.
func NewEngine(shoe *deck.Shoe, rules Rules, logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		shoe:        shoe,
		rules:       rules,
		logger:      logger.WithPrefix("engine"),
		bus:         NewEventBus(),
		clock:       quartz.NewReal(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.nextID == nil {
		e.nextID = func() string { return strconv.Itoa(e.rounds) }
	}
	return e
}

// EventBus returns the bus events are published to
func (e *Engine) EventBus() EventBus {
	return e.bus
}

// Rules returns the rules the engine plays by
func (e *Engine) Rules() Rules {
	return e.rules
}

// Shoe returns the shoe the engine deals from
func (e *Engine) Shoe() *deck.Shoe {
	return e.shoe
}

// RoundResult contains the results of a completed round
type RoundResult struct {
	ID               string
	Number           int
	Wager            Wager
	Hands            []HandView
	Dealer           HandView
	Payoffs          PayoffTable
	Outcomes         []Outcome
	Net              int
	Balance          int
	Exited           bool
	DealerPlayed     bool
	InsuranceOffered bool
	InsuranceTaken   bool
	Split            bool
	Fallbacks        int
}

// Blackjacks counts hands paid as naturals
func (r *RoundResult) Blackjacks() int {
	n := 0
	for _, h := range r.Hands {
		if h.Blackjack {
			n++
		}
	}
	return n
}

// round is the state of one round in progress
type round struct {
	id      string
	player  *Player
	dealer  *Hand
	agent   Agent
	payoffs PayoffTable
	result  *RoundResult
	logger  *log.Logger
}

func (r *round) dealerUp() deck.Card {
	return r.dealer.Cards[0]
}

// PlayRound plays one complete round for player with an already resolved wager.
//
// Side-bet and insurance winnings are applied to the balance as they settle.
// Main and blackjack winnings are applied once every hand is settled. An agent
// error aborts the round and is returned; balance changes already applied stay.
func (e *Engine) PlayRound(ctx context.Context, player *Player, wager Wager, agent Agent) (*RoundResult, error) {
	if err := wager.Validate(player.Balance, e.rules); err != nil {
		return nil, err
	}

	if e.shoe.NeedsRefill() {
		if err := e.shoe.Refill(); err != nil {
			return nil, fmt.Errorf("refill shoe: %w", err)
		}
		e.publishRefill()
	}

	e.rounds++
	id := e.nextID()
	r := &round{
		id:      id,
		player:  player,
		dealer:  NewHand("Dealer"),
		agent:   agent,
		payoffs: e.rules.Payoffs,
		logger:  e.logger.With("round", id),
	}
	r.payoffs.SideLeft, r.payoffs.SideRight = 0, 0
	r.result = &RoundResult{ID: id, Number: e.rounds, Wager: wager}

	first := NewHand("Hand #1")
	first.Bets[BetMain] = wager.Main
	first.Bets[BetSideLeft] = wager.SideLeft
	first.Bets[BetSideRight] = wager.SideRight
	player.Hands = []*Hand{first}
	player.Previous = wager

	e.bus.Publish(RoundStartEvent{stamp: e.now(), RoundID: id, Round: e.rounds, Balance: player.Balance, Wager: wager})
	r.logger.Debug("Starting round", "wager", wager.String(), "balance", player.Balance)

	for i := 0; i < 2; i++ {
		if err := e.deal(first); err != nil {
			return nil, err
		}
		if err := e.deal(r.dealer); err != nil {
			return nil, err
		}
	}
	e.bus.Publish(InitialDealEvent{stamp: e.now(), RoundID: id, Player: first.View(), DealerUp: r.dealerUp()})
	r.logger.Debug("Dealt", "player", first.String(), "dealer_up", r.dealerUp().String())

	e.settleSideBets(r, first)

	if r.dealerUp().IsAce() {
		if err := e.offerInsurance(ctx, r, first); err != nil {
			return nil, err
		}
	}

	if first.Status == StatusActive {
		if IsNatural(first.Cards) {
			first.markBlackjack()
			e.handDone(r, first)
		} else if err := e.playHand(ctx, r, first, false); err != nil {
			return nil, err
		}
	} else {
		e.handDone(r, first)
	}

	if r.exited() {
		e.forfeitAll(r)
	} else {
		if err := e.dealerTurn(r); err != nil {
			return nil, err
		}
		for _, h := range player.Hands {
			out := Settle(h, r.dealer, r.payoffs)
			r.result.Outcomes = append(r.result.Outcomes, out)
			e.bus.Publish(HandSettledEvent{stamp: e.now(), RoundID: id, Hand: h.View(), Dealer: r.dealer.View(), Outcome: out})
			r.logger.Debug("Settled hand", "hand", h.Name, "result", out.Result, "reason", out.Reason, "net", out.Net())
		}
	}

	return e.finish(r), nil
}

func (e *Engine) now() stamp {
	return stamp{at: e.clock.Now()}
}

func (e *Engine) deal(h *Hand) error {
	c, err := e.shoe.Draw()
	if err != nil {
		return fmt.Errorf("deal to %s: %w", h.Name, err)
	}
	h.add(c)
	return nil
}

func (e *Engine) publishRefill() {
	passes := 0
	if s, ok := e.shoe.Source().(*deck.ShuffledSource); ok {
		passes = s.Passes()
	}
	e.bus.Publish(ShoeRefilledEvent{
		stamp:     e.now(),
		Decks:     e.shoe.Decks(),
		Passes:    passes,
		Remaining: e.shoe.Remaining(),
		Refills:   e.shoe.Refills(),
	})
	e.logger.Debug("Refilled shoe", "decks", e.shoe.Decks(), "cards", e.shoe.Remaining())
}

func (e *Engine) settleSideBets(r *round, h *Hand) {
	if stake := h.Bets[BetSideLeft]; stake > 0 {
		grade := GradePerfectPairs(h.Cards[0], h.Cards[1])
		r.payoffs.SideLeft = grade.Multiplier()
		e.settleSideBet(r, h, BetSideLeft, grade.String(), r.payoffs.SideLeft)
	}
	if stake := h.Bets[BetSideRight]; stake > 0 {
		grade := GradeTwentyOnePlusThree(h.Cards[0], h.Cards[1], r.dealerUp())
		r.payoffs.SideRight = grade.Multiplier()
		e.settleSideBet(r, h, BetSideRight, grade.String(), r.payoffs.SideRight)
	}
}

func (e *Engine) settleSideBet(r *round, h *Hand, kind BetKind, grade string, multiplier int) {
	stake := h.Bets[kind]
	win := -stake
	if multiplier > 0 {
		win = stake * multiplier
	}
	h.Winnings[kind] = win
	r.player.credit(win)
	e.bus.Publish(SideBetEvent{
		stamp:      e.now(),
		RoundID:    r.id,
		Kind:       kind,
		Grade:      grade,
		Multiplier: multiplier,
		Stake:      stake,
		Winnings:   win,
	})
	r.logger.Debug("Side bet settled", "bet", kind, "grade", grade, "winnings", win)
}

func (e *Engine) offerInsurance(ctx context.Context, r *round, h *Hand) error {
	dealerBlackjack := r.dealer.Cards[1].HardValue() == 10
	stake := h.Bets[BetMain] / 2
	required := float64(h.Bets[BetMain]) * e.rules.InsuranceThreshold

	if float64(r.player.Balance) < required {
		e.bus.Publish(InsuranceUnavailableEvent{
			stamp:           e.now(),
			RoundID:         r.id,
			Required:        int(required),
			Balance:         r.player.Balance,
			DealerBlackjack: dealerBlackjack,
		})
		if dealerBlackjack {
			h.Status = StatusStandInsurance
		}
		return nil
	}

	r.result.InsuranceOffered = true
	action, err := e.ask(ctx, r, DecisionRequest{
		Prompt:         PromptInsurance,
		Hand:           h.View(),
		InsuranceStake: stake,
		Legality:       insuranceLegality(),
	})
	if err != nil {
		return err
	}

	taken := action == Insure
	win := 0
	if taken {
		r.result.InsuranceTaken = true
		h.Bets[BetInsurance] = stake
		win = -stake
		if dealerBlackjack {
			win = scale(stake, r.payoffs.Insurance)
		}
		h.Winnings[BetInsurance] = win
		r.player.credit(win)
	}
	if dealerBlackjack {
		h.Status = StatusStandInsurance
	}

	e.bus.Publish(InsuranceEvent{
		stamp:           e.now(),
		RoundID:         r.id,
		Taken:           taken,
		Stake:           stake,
		DealerBlackjack: dealerBlackjack,
		Winnings:        win,
	})
	r.logger.Debug("Insurance", "taken", taken, "dealer_blackjack", dealerBlackjack, "winnings", win)
	return nil
}

// playHand drives one hand until it reaches a terminal status.
func (e *Engine) playHand(ctx context.Context, r *round, h *Hand, splitDone bool) error {
	for h.Status == StatusActive {
		action, fallback, err := e.decide(ctx, r, h, splitDone)
		if err != nil {
			return err
		}

		switch action {
		case Hit:
			h.decisions++
			if err := e.deal(h); err != nil {
				return err
			}
			switch t := h.Totals(); {
			case t.IsBust():
				h.Status = StatusBust
			case t.Best == BlackjackTotal:
				h.Status = StatusStand
			}
		case Double:
			h.decisions++
			h.Bets[BetMain] *= 2
			h.Doubled = true
			if err := e.deal(h); err != nil {
				return err
			}
			h.Status = StatusStand
			if h.Totals().IsBust() {
				h.Status = StatusBust
			}
		case Stand:
			h.decisions++
			h.Status = StatusStand
		case Exit:
			h.Status = StatusExited
		case Split:
			e.publishAction(r, h, action, fallback)
			return e.split(ctx, r, h)
		default:
			return fmt.Errorf("%w: %s", ErrIllegalAction, action)
		}

		e.publishAction(r, h, action, fallback)
	}

	e.handDone(r, h)
	return nil
}

func (e *Engine) publishAction(r *round, h *Hand, action Action, fallback bool) {
	e.bus.Publish(PlayerActionEvent{stamp: e.now(), RoundID: r.id, Action: action, Hand: h.View(), Fallback: fallback})
	r.logger.Debug("Player action", "hand", h.Name, "action", action, "cards", h.String())
}

func (e *Engine) handDone(r *round, h *Hand) {
	e.bus.Publish(HandDoneEvent{stamp: e.now(), RoundID: r.id, Hand: h.View()})
}

// split moves the second card to a new hand, deals one card to each and plays them in order.
func (e *Engine) split(ctx context.Context, r *round, first *Hand) error {
	r.result.Split = true
	aces := first.Cards[0].IsAce()

	second := NewHand("Hand #2")
	second.Bets[BetMain] = first.Bets[BetMain]
	second.Cards = append(second.Cards, first.Cards[1])
	first.Cards = first.Cards[:1]
	first.FromSplit, second.FromSplit = true, true
	r.player.Hands = append(r.player.Hands, second)

	if err := e.deal(first); err != nil {
		return err
	}
	if err := e.deal(second); err != nil {
		return err
	}
	e.bus.Publish(SplitEvent{stamp: e.now(), RoundID: r.id, Hands: []HandView{first.View(), second.View()}})
	r.logger.Debug("Split", "first", first.String(), "second", second.String())

	for _, h := range r.player.Hands {
		switch {
		case aces, h.Totals().Best == BlackjackTotal:
			// split hands never count as blackjack
			h.Status = StatusStand
			e.handDone(r, h)
		default:
			if err := e.playHand(ctx, r, h, true); err != nil {
				return err
			}
		}
		if h.Status == StatusExited {
			for _, other := range r.player.Hands {
				if !other.Status.IsTerminal() {
					other.Status = StatusExited
				}
			}
			return nil
		}
	}
	return nil
}

// decide asks for a play decision, resolving Exit through its confirmation.
// A cancelled exit asks the original question again. An agent that never
// answers the confirmation stands rather than being asked forever.
func (e *Engine) decide(ctx context.Context, r *round, h *Hand, splitDone bool) (Action, bool, error) {
	for {
		req := DecisionRequest{
			Prompt:   PromptPlay,
			Hand:     h.View(),
			Legality: Legal(h, r.player.Balance, splitDone),
		}
		before := r.result.Fallbacks
		action, err := e.ask(ctx, r, req)
		if err != nil {
			return 0, false, err
		}
		if action != Exit {
			return action, r.result.Fallbacks > before, nil
		}

		before = r.result.Fallbacks
		confirm, err := e.ask(ctx, r, DecisionRequest{
			Prompt:   PromptConfirmExit,
			Hand:     h.View(),
			Legality: confirmLegality(),
		})
		if err != nil {
			return 0, false, err
		}
		if confirm == ConfirmExit {
			return Exit, false, nil
		}
		if r.result.Fallbacks > before {
			r.logger.Warn("Exit never confirmed, standing", "hand", h.Name)
			return Stand, true, nil
		}
		r.logger.Debug("Exit cancelled", "hand", h.Name)
	}
}

// ask sends req to the round's agent until it answers with an allowed action.
// After maxAttempts refusals the prompt's fallback action is applied.
func (e *Engine) ask(ctx context.Context, r *round, req DecisionRequest) (Action, error) {
	req.RoundID = r.id
	req.DealerUp = r.dealerUp()
	req.Balance = r.player.Balance
	req.HandCount = len(r.player.Hands)

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		action, err := r.agent.Decide(ctx, req)
		if err != nil {
			return 0, fmt.Errorf("%s decision for %s: %w", req.Prompt, req.Hand.Name, err)
		}
		if req.Legality.Allows(action) {
			return action, nil
		}
		req.Rejected = req.Legality.Reason(action)
		r.logger.Warn("Agent returned disallowed action", "prompt", req.Prompt, "action", action, "error", req.Rejected)
	}

	fallback := fallbackFor(req.Prompt)
	r.result.Fallbacks++
	r.logger.Error("Agent kept returning disallowed actions, applying fallback",
		"prompt", req.Prompt, "hand", req.Hand.Name, "fallback", fallback)
	return fallback, nil
}

func (r *round) exited() bool {
	for _, h := range r.player.Hands {
		if h.Status == StatusExited {
			return true
		}
	}
	return false
}

// forfeitAll loses the main bet on every hand; the dealer does not play.
func (e *Engine) forfeitAll(r *round) {
	r.result.Exited = true
	for _, h := range r.player.Hands {
		h.Status = StatusExited
		out := forfeit(h)
		r.result.Outcomes = append(r.result.Outcomes, out)
		e.bus.Publish(HandSettledEvent{stamp: e.now(), RoundID: r.id, Hand: h.View(), Dealer: r.dealer.View(), Outcome: out})
	}
	r.logger.Info("Player exited, bets forfeited")
}

func (e *Engine) dealerTurn(r *round) error {
	draws := DealerPlays(r.player.Hands)
	e.bus.Publish(DealerRevealEvent{stamp: e.now(), RoundID: r.id, Dealer: r.dealer.View(), Draws: draws})
	if !draws {
		return nil
	}

	r.result.DealerPlayed = true
	for DealerShouldDraw(r.dealer.Cards) {
		if err := e.deal(r.dealer); err != nil {
			return err
		}
		card := r.dealer.Cards[len(r.dealer.Cards)-1]
		e.bus.Publish(DealerDrawEvent{stamp: e.now(), RoundID: r.id, Card: card, Dealer: r.dealer.View()})
		r.logger.Debug("Dealer draws", "card", card.String(), "total", r.dealer.Totals().Best)
	}
	return nil
}

// finish applies main and blackjack winnings and closes the round.
func (e *Engine) finish(r *round) *RoundResult {
	res := r.result
	for _, h := range r.player.Hands {
		r.player.credit(h.Winnings[BetMain] + h.Winnings[BetBlackjack])
		res.Net += h.Winnings.Total()
		res.Hands = append(res.Hands, h.View())
	}
	r.player.recordHigh()
	r.player.Hands = r.player.Hands[:1]

	res.Dealer = r.dealer.View()
	res.Payoffs = r.payoffs
	res.Balance = r.player.Balance

	e.bus.Publish(RoundEndEvent{stamp: e.now(), Result: res})
	r.logger.Info("Round complete", "net", res.Net, "balance", res.Balance, "hands", len(res.Hands))
	return res
}
