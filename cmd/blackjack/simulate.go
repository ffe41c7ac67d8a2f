package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd runs bot sessions in parallel and prints aggregate results
type SimulateCmd struct {
	shared.LogFlags `embed:""`

	Rules     string        `env:"BLACKJACK_RULES" type:"path" default:"blackjack.hcl" help:"HCL rules file (defaults apply when missing)"`
	Strategy  string        `short:"s" enum:"${strategies}" default:"basic" help:"Bot strategy: ${enum}"`
	Rounds    int           `short:"n" default:"10000" help:"Rounds per session"`
	Sessions  int           `default:"8" help:"Independent sessions, each with its own shoe"`
	Parallel  int           `default:"0" help:"Sessions run at once (0 for all)"`
	Seed      *int64        `env:"BLACKJACK_SEED" help:"Deterministic base seed (optional)"`
	Bet       int           `default:"10" help:"Main bet per round"`
	SideLeft  int           `name:"perfect-pairs" default:"0" help:"Perfect Pairs side bet per round"`
	SideRight int           `name:"twenty-one-plus-three" default:"0" help:"21+3 side bet per round"`
	Balance   int           `default:"1000000" help:"Bankroll per session"`
	Timeout   time.Duration `default:"10m" help:"Abort the whole simulation after this long"`
	Out       string        `type:"path" help:"Also write a JSON report to this file"`
}

func (c *SimulateCmd) Run() error {
	logger, closeLog, err := shared.SetupLogger(c.LogFlags, false)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	cfg, err := config.Load(c.Rules)
	if err != nil {
		return err
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	seed := randutil.Seed(c.Seed)
	logger.Info("Starting simulation",
		"strategy", c.Strategy,
		"sessions", c.Sessions,
		"rounds", c.Rounds,
		"seed", seed)

	// Engines log every round at info; keep that out of a long run unless debugging
	sessionLogger := logger.With()
	if !c.Debug {
		sessionLogger.SetLevel(log.WarnLevel)
	}

	start := time.Now()
	simCfg := simulator.Config{
		Sessions:  c.Sessions,
		Rounds:    c.Rounds,
		Seed:      seed,
		Strategy:  c.Strategy,
		Bet:       c.Bet,
		SideLeft:  c.SideLeft,
		SideRight: c.SideRight,
		Balance:   c.Balance,
		Rules:     cfg.Rules(),
		Parallel:  c.Parallel,
		Timeout:   c.Timeout,
		Logger:    sessionLogger,
	}
	stats, err := simulator.Run(ctx, simCfg)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	simulator.WriteSummary(os.Stdout, stats, fmt.Sprintf("%s bot (seed %d)", c.Strategy, seed))
	if c.Out != "" {
		if err := simulator.WriteReport(c.Out, simulator.NewReport(simCfg, stats)); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Out)
	}
	logger.Info("Simulation complete", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
