package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/roundid"
)

// PlayCmd seats a human at the table
type PlayCmd struct {
	shared.LogFlags `embed:""`

	Rules   string        `env:"BLACKJACK_RULES" type:"path" default:"blackjack.hcl" help:"HCL rules file (defaults apply when missing)"`
	Seed    *int64        `env:"BLACKJACK_SEED" help:"Deterministic shoe seed (optional)"`
	Balance int           `env:"BLACKJACK_BALANCE" help:"Starting balance; prompts when unset"`
	Decks   int           `env:"BLACKJACK_DECKS" help:"Override the number of decks in the shoe"`
	Pace    time.Duration `env:"BLACKJACK_PACE" default:"1s" help:"Unit delay between dealt cards (0 disables)"`
	NoColor bool          `env:"NO_COLOR" help:"Disable colours"`
}

func (c *PlayCmd) Run() error {
	logger, closeLog, err := shared.SetupLogger(c.LogFlags, true)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	cfg, err := config.Load(c.Rules)
	if err != nil {
		return err
	}
	if c.Decks > 0 {
		cfg.Table.Decks = c.Decks
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	rules := cfg.Rules()

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	seed := randutil.Seed(c.Seed)
	logger.Info("Shuffling shoe", "seed", seed, "decks", rules.Decks)

	renderer := console.NewRenderer(os.Stdout, c.NoColor)
	styles := console.NewStyles(renderer)
	pacer := console.NewPacer(quartz.NewReal(), c.Pace)
	go func() {
		<-ctx.Done()
		pacer.Stop()
	}()

	fmt.Println(styles.Header.Render(" ♠ ♥ Welcome to TakeMyMoney BlackJack ♦ ♣ "))
	player := console.NewPlayer(os.Stdin, os.Stdout, styles, logger)

	balance := c.Balance
	if balance == 0 {
		balance, err = player.Deposit(ctx, cfg.Table.MinDeposit)
		if err != nil {
			return err
		}
	}
	if err := cfg.CheckDeposit(balance); err != nil {
		return err
	}

	shoe := deck.NewShoe(rules.Decks, deck.NewShuffledSource(randutil.New(seed), rules.ShufflePasses))
	fmt.Printf("\nPlaying with %d decks in shoe\n", shoe.Decks())

	ids := roundid.NewGenerator(nil)
	engine := blackjack.NewEngine(shoe, rules, logger, blackjack.WithRoundIDs(ids.Next))
	engine.EventBus().Subscribe(console.NewSink(os.Stdout, styles, pacer))

	table := blackjack.NewTable(engine, blackjack.NewPlayer(balance), player, player, logger, blackjack.WithoutResults())
	summary, err := table.Run(ctx)
	if errors.Is(err, console.ErrInputClosed) || errors.Is(err, context.Canceled) {
		logger.Debug("Session interrupted", "error", err)
		err = nil
	}
	writeSessionSummary(os.Stdout, styles, summary)
	return err
}

// writeSessionSummary prints the end-of-session report
func writeSessionSummary(w io.Writer, styles console.Styles, s blackjack.Summary) {
	fmt.Fprintf(w, "\n%s\n", styles.Header.Render(" SESSION OVER "))
	if s.Stopped != "" {
		fmt.Fprintf(w, "Reason: %s\n", s.Stopped)
	}
	fmt.Fprintf(w, "Rounds played: %d\n", s.Rounds)
	fmt.Fprintf(w, "Initial balance: $%d\n", s.InitialBalance)
	fmt.Fprintf(w, "Maximum balance: $%d\n", s.MaxBalance)
	fmt.Fprintf(w, "Final balance: $%d\n", s.FinalBalance)
	fmt.Fprintf(w, "Net winnings: %s\n", styles.Money(s.Net))
}
