// Package simulator plays many bot sessions in parallel and aggregates the
// per-round results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/strategy"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions  int
	Rounds    int // per session
	Seed      int64
	Strategy  string
	Bet       int
	SideLeft  int
	SideRight int
	Balance   int // deposit per session; sessions end early when broke
	Rules     blackjack.Rules
	Parallel  int // 0 means one goroutine per session
	Timeout   time.Duration
	Logger    *log.Logger
}

// DefaultConfig returns a config for basic strategy at the minimum bet
func DefaultConfig() Config {
	rules := blackjack.DefaultRules()
	return Config{
		Sessions: 4,
		Rounds:   1000,
		Strategy: "basic",
		Bet:      rules.MinBet,
		Balance:  1_000_000,
		Rules:    rules,
		Timeout:  time.Minute,
	}
}

// Validate checks the config before any session starts
func (c Config) Validate() error {
	if c.Sessions <= 0 {
		return fmt.Errorf("sessions must be positive, got %d", c.Sessions)
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	w := blackjack.Wager{Main: c.Bet, SideLeft: c.SideLeft, SideRight: c.SideRight}
	if err := w.Validate(c.Balance, c.Rules); err != nil {
		return fmt.Errorf("bet %s: %w", w, err)
	}
	return nil
}

// Simulator runs blackjack sessions for a bot
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays every session and returns the merged statistics. Sessions are
// merged in index order so a seed always reproduces the same Values.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if _, err := strategy.New(s.config.Strategy, nil, s.config.Logger); err != nil {
		return nil, err
	}
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	results := make([]*statistics.Statistics, s.config.Sessions)
	g, ctx := errgroup.WithContext(ctx)
	if s.config.Parallel > 0 {
		g.SetLimit(s.config.Parallel)
	}
	for i := range results {
		g.Go(func() error {
			stats, err := s.session(ctx, i)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i, randutil.Derive(s.config.Seed, i), err)
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("simulation timed out after %v: %w", s.config.Timeout, err)
		}
		return nil, err
	}

	total := &statistics.Statistics{}
	for _, stats := range results {
		total.Merge(stats)
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return total, nil
}

// session plays one table to completion with its own shoe and bot
func (s *Simulator) session(ctx context.Context, n int) (*statistics.Statistics, error) {
	cfg := s.config
	seed := randutil.Derive(cfg.Seed, n)
	rng := randutil.New(seed)
	logger := cfg.Logger.With("session", n)

	agent, err := strategy.New(cfg.Strategy, rng, logger)
	if err != nil {
		return nil, err
	}
	shoe := deck.NewShoe(cfg.Rules.Decks, deck.NewShuffledSource(rng, cfg.Rules.ShufflePasses))
	engine := blackjack.NewEngine(shoe, cfg.Rules, logger)

	stats := &statistics.Statistics{}
	engine.EventBus().Subscribe(blackjack.SubscriberFunc(func(ev blackjack.Event) {
		if end, ok := ev.(blackjack.RoundEndEvent); ok {
			stats.Add(Convert(end.Result, cfg.Bet, seed))
		}
	}))

	table := blackjack.NewTable(engine, blackjack.NewPlayer(cfg.Balance),
		agent, strategy.NewFlatBettor(cfg.Bet, cfg.SideLeft, cfg.SideRight), logger,
		blackjack.WithMaxRounds(cfg.Rounds), blackjack.WithoutResults())
	summary, err := table.Run(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Session finished", "rounds", summary.Rounds, "net", summary.Net, "stopped", summary.Stopped)
	return stats, nil
}

// Convert turns an engine round result into a statistics record in units of unit.
func Convert(res *blackjack.RoundResult, unit int, seed int64) statistics.RoundResult {
	u := float64(unit)
	out := statistics.RoundResult{
		Net:            float64(res.Net) / u,
		Seed:           seed,
		Split:          res.Split,
		InsuranceTaken: res.InsuranceTaken,
		Exited:         res.Exited,
		Blackjack:      res.Blackjacks() > 0,
	}
	for _, h := range res.Hands {
		staked := h.Bets.Total() - h.Bets[blackjack.BetBlackjack]
		out.Staked += float64(staked) / u
		out.MainNet += float64(h.Winnings[blackjack.BetMain]+h.Winnings[blackjack.BetBlackjack]) / u
		out.SideNet += float64(h.Winnings[blackjack.BetSideLeft]+h.Winnings[blackjack.BetSideRight]) / u
		out.InsuranceNet += float64(h.Winnings[blackjack.BetInsurance]) / u
		if h.Doubled {
			out.Doubled = true
		}
		if h.Winnings[blackjack.BetInsurance] > 0 {
			out.InsuranceWon = true
		}
		for _, kind := range []blackjack.BetKind{blackjack.BetSideLeft, blackjack.BetSideRight} {
			if h.Winnings[kind] > 0 {
				out.SideBetHits++
			}
		}
	}
	for _, o := range res.Outcomes {
		switch o.Result {
		case blackjack.Win:
			out.Wins++
		case blackjack.Lose:
			out.Losses++
		default:
			out.Pushes++
		}
		if o.Reason == blackjack.ReasonPlayerBust {
			out.Busts++
		}
	}
	return out
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, sessions, rounds int, agent string, seed int64, logger *log.Logger) (*statistics.Statistics, error) {
	cfg := DefaultConfig()
	cfg.Sessions = sessions
	cfg.Rounds = rounds
	cfg.Strategy = agent
	cfg.Seed = seed
	cfg.Logger = logger
	return New(cfg).Run(ctx)
}

// WriteSummary prints a comprehensive summary of simulation results
func WriteSummary(w io.Writer, stats *statistics.Statistics, label string) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS for %s ===\n", label)
	fmt.Fprintf(w, "Rounds played: %d (%d hands)\n", stats.Rounds, stats.Hands)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f units/round\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.4f units/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f units\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f units\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] units/round\n", low, high)
	fmt.Fprintf(w, "Return: %.3f%% of amount staked\n", 100*stats.Return())
	fmt.Fprintf(w, "Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	fmt.Fprintf(w, "Biggest win: %.2f, biggest loss: %.2f\n", stats.MaxWin, stats.MaxLoss)

	fmt.Fprintf(w, "\n=== PROFIT SOURCE ANALYSIS ===\n")
	fmt.Fprintf(w, "Main: %.2f, Side bets: %.2f, Insurance: %.2f\n", stats.MainNet, stats.SideNet, stats.InsuranceNet)
	fmt.Fprintf(w, "Sanity check: %.2f + %.2f + %.2f = %.2f (should equal %.2f)\n",
		stats.MainNet, stats.SideNet, stats.InsuranceNet,
		stats.MainNet+stats.SideNet+stats.InsuranceNet, stats.AllNet)

	fmt.Fprintf(w, "\n=== HAND ANALYSIS ===\n")
	if stats.Hands > 0 {
		hands := float64(stats.Hands)
		fmt.Fprintf(w, "Wins: %d (%.1f%%), Losses: %d (%.1f%%), Pushes: %d (%.1f%%)\n",
			stats.Wins, 100*float64(stats.Wins)/hands,
			stats.Losses, 100*float64(stats.Losses)/hands,
			stats.Pushes, 100*float64(stats.Pushes)/hands)
	}
	fmt.Fprintf(w, "Blackjacks: %.1f%%, Busts: %d, Doubles: %.1f%%, Splits: %.1f%%\n",
		100*stats.Rate(stats.Blackjacks), stats.Busts, 100*stats.Rate(stats.Doubles), 100*stats.Rate(stats.Splits))
	fmt.Fprintf(w, "Insurance: %d taken, %d won; side bet hits: %d; exits: %d\n",
		stats.InsuranceTaken, stats.InsuranceWon, stats.SideBetHits, stats.Exits)
}

// Run is shorthand for New(cfg).Run(ctx)
func Run(ctx context.Context, cfg Config) (*statistics.Statistics, error) {
	return New(cfg).Run(ctx)
}
