package blackjack

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// DefaultMaxWagerAttempts bounds how often a bettor is re-asked after an invalid wager
const DefaultMaxWagerAttempts = 10

// StopReason says why a session ended
type StopReason string

const (
	StopLeft       StopReason = "left the table"
	StopExited     StopReason = "exited during a round"
	StopBroke      StopReason = "balance below minimum bet"
	StopRoundLimit StopReason = "round limit reached"
)

// Summary is the end-of-session report
type Summary struct {
	Rounds         int
	InitialBalance int
	FinalBalance   int
	MaxBalance     int
	Net            int
	Stopped        StopReason
	Results        []*RoundResult
}

// Table runs a session of rounds for one player until they leave, exit, or go broke.
type Table struct {
	engine        *Engine
	player        *Player
	agent         Agent
	bettor        Bettor
	logger        *log.Logger
	maxRounds     int
	wagerAttempts int
	keepResults   bool
}

// TableOption configures a Table
type TableOption func(*Table)

// WithMaxRounds stops the session after n rounds; 0 means no limit
func WithMaxRounds(n int) TableOption {
	return func(t *Table) { t.maxRounds = n }
}

// WithWagerAttempts sets how often an invalid wager is re-requested
func WithWagerAttempts(n int) TableOption {
	return func(t *Table) {
		if n > 0 {
			t.wagerAttempts = n
		}
	}
}

// WithoutResults stops the Summary from retaining every RoundResult
func WithoutResults() TableOption {
	return func(t *Table) { t.keepResults = false }
}

// NewTable seats player at the engine's table.
func NewTable(engine *Engine, player *Player, agent Agent, bettor Bettor, logger *log.Logger, opts ...TableOption) *Table {
	t := &Table{
		engine:        engine,
		player:        player,
		agent:         agent,
		bettor:        bettor,
		logger:        logger.WithPrefix("table"),
		wagerAttempts: DefaultMaxWagerAttempts,
		keepResults:   true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Player returns the seated player
func (t *Table) Player() *Player {
	return t.player
}

// Run plays rounds until the session ends and returns its summary. Errors from
// the bettor, the agent, or the shoe end the session and are returned along
// with the summary so far.
func (t *Table) Run(ctx context.Context) (Summary, error) {
	summary := Summary{InitialBalance: t.player.InitialBalance}
	rules := t.engine.Rules()

	finish := func(reason StopReason, err error) (Summary, error) {
		summary.Stopped = reason
		summary.FinalBalance = t.player.Balance
		summary.MaxBalance = t.player.MaxBalance
		summary.Net = t.player.Net()
		t.logger.Info("Session over", "reason", reason, "rounds", summary.Rounds, "net", summary.Net)
		return summary, err
	}

	for {
		if t.player.Balance < rules.MinBet {
			return finish(StopBroke, nil)
		}
		if t.maxRounds > 0 && summary.Rounds >= t.maxRounds {
			return finish(StopRoundLimit, nil)
		}

		wager, err := t.wager(ctx, summary.Rounds+1)
		if errors.Is(err, ErrLeaveTable) {
			return finish(StopLeft, nil)
		}
		if err != nil {
			return finish("", err)
		}

		result, err := t.engine.PlayRound(ctx, t.player, wager, t.agent)
		if err != nil {
			return finish("", fmt.Errorf("round %d: %w", summary.Rounds+1, err))
		}
		summary.Rounds++
		if t.keepResults {
			summary.Results = append(summary.Results, result)
		}
		if result.Exited {
			return finish(StopExited, nil)
		}
	}
}

func (t *Table) wager(ctx context.Context, round int) (Wager, error) {
	req := WagerRequest{
		Round:     round,
		Balance:   t.player.Balance,
		Previous:  t.player.Previous,
		CanRepeat: CanRepeat(t.player.Previous, t.player.Balance),
		Rules:     t.engine.Rules(),
	}

	var lastErr error
	for attempt := 0; attempt < t.wagerAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Wager{}, err
		}
		w, err := t.bettor.Bet(ctx, req)
		if err != nil {
			return Wager{}, err
		}
		resolved, err := ResolveWager(w, t.player.Previous, t.player.Balance, req.Rules)
		if err == nil {
			return resolved, nil
		}
		lastErr = err
		req.Rejected = err
		req.Attempted = w
		t.logger.Warn("Wager rejected", "wager", w.String(), "error", err)
	}
	return Wager{}, fmt.Errorf("no valid wager after %d attempts: %w", t.wagerAttempts, lastErr)
}
