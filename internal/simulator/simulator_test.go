package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Sessions = 3
	cfg.Rounds = 50
	cfg.Seed = 12345
	cfg.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
	return cfg
}

func TestNew(t *testing.T) {
	sim := New(Config{Sessions: 2, Rounds: 10, Strategy: "stand"})
	require.NotNil(t, sim)
	assert.NotNil(t, sim.config.Logger, "a discard logger is installed")
	assert.Equal(t, "stand", sim.config.Strategy)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, testConfig().Validate())

	cfg := testConfig()
	cfg.Sessions = 0
	assert.Error(t, cfg.Validate())

	cfg = testConfig()
	cfg.Bet = 15
	assert.ErrorIs(t, cfg.Validate(), blackjack.ErrNotMultiple)

	cfg = testConfig()
	cfg.Balance = 5
	assert.Error(t, cfg.Validate())
}

func TestSimulator_Run(t *testing.T) {
	cfg := testConfig()
	stats, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, cfg.Sessions*cfg.Rounds, stats.Rounds)
	assert.GreaterOrEqual(t, stats.Hands, stats.Rounds)
	assert.True(t, stats.IsLedgerBalanced())
	assert.Zero(t, stats.SideNet, "no side bets were placed")
	assert.Zero(t, stats.Exits, "bots never exit")
	require.NoError(t, stats.Validate())
}

func TestSimulator_RunIsReproducible(t *testing.T) {
	cfg := testConfig()
	cfg.Strategy = "random"

	first, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	second, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Values, second.Values)

	cfg.Seed++
	third, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.Values, third.Values)
}

func TestSimulator_SideBets(t *testing.T) {
	cfg := testConfig()
	cfg.SideLeft = 10
	cfg.SideRight = 10
	cfg.Rounds = 200

	stats, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, stats.SideNet)
	assert.Greater(t, stats.Staked, float64(stats.Rounds)*3-1e-9)
	require.NoError(t, stats.Validate())
}

func TestSimulator_UnknownStrategy(t *testing.T) {
	cfg := testConfig()
	cfg.Strategy = "martingale"
	_, err := New(cfg).Run(context.Background())
	assert.ErrorContains(t, err, "unknown strategy")
}

func TestSimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testConfig()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSimulation_Convenience(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
	stats, err := RunSimulation(context.Background(), 2, 20, "stand", 7, logger)
	require.NoError(t, err)
	assert.Equal(t, 40, stats.Rounds)
	assert.Zero(t, stats.Doubles, "stand never doubles")
	assert.Zero(t, stats.Busts, "stand never busts")
}

func TestConvert(t *testing.T) {
	res := &blackjack.RoundResult{
		Net:   40,
		Split: true,
		Hands: []blackjack.HandView{
			{
				Name:     "Hand #1",
				Doubled:  true,
				Bets:     blackjack.Ledger{20, 0, 0, 10, 0},
				Winnings: blackjack.Ledger{20, 0, 0, 30, 0},
			},
			{
				Name:     "Hand #2",
				Bets:     blackjack.Ledger{10, 0, 0, 0, 0},
				Winnings: blackjack.Ledger{-10, 0, 0, 0, 0},
			},
		},
		Outcomes: []blackjack.Outcome{
			{Hand: "Hand #1", Result: blackjack.Win, Reason: blackjack.ReasonHigher},
			{Hand: "Hand #2", Result: blackjack.Lose, Reason: blackjack.ReasonPlayerBust},
		},
	}
	got := Convert(res, 10, 99)
	assert.Equal(t, 4.0, got.Net)
	assert.Equal(t, 4.0, got.Staked)
	assert.Equal(t, 1.0, got.MainNet)
	assert.Equal(t, 3.0, got.SideNet)
	assert.Zero(t, got.InsuranceNet)
	assert.Equal(t, 1, got.Wins)
	assert.Equal(t, 1, got.Losses)
	assert.Equal(t, 1, got.Busts)
	assert.Equal(t, 1, got.SideBetHits)
	assert.True(t, got.Doubled)
	assert.True(t, got.Split)
	assert.Equal(t, int64(99), got.Seed)
}

func TestWriteSummary(t *testing.T) {
	stats, err := New(testConfig()).Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteSummary(&buf, stats, "basic")
	out := buf.String()
	assert.Contains(t, out, "=== FINAL RESULTS for basic ===")
	assert.Contains(t, out, "Rounds played: 150")
	assert.Contains(t, out, "Sanity check")
}
