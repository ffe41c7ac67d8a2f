package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, blackjack.DefaultRules(), cfg.Rules())
	assert.Equal(t, 10, cfg.Table.MinDeposit)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
table {
  decks          = 6
  shuffle_passes = 5
  min_bet        = 25
  bet_unit       = 5
}

payoffs {
  blackjack = 0.2
}
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	rules := cfg.Rules()
	assert.Equal(t, 6, rules.Decks)
	assert.Equal(t, 5, rules.ShufflePasses)
	assert.Equal(t, 25, rules.MinBet)
	assert.Equal(t, 5, rules.BetUnit)
	assert.Equal(t, 0.2, rules.Payoffs.Blackjack)
	assert.Equal(t, 2.0, rules.Payoffs.Insurance, "unset payoffs keep their default")
	assert.Equal(t, 1.5, rules.InsuranceThreshold)
	assert.Equal(t, 25, cfg.Table.MinDeposit, "deposit minimum follows the bet minimum")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "empty file is all defaults",
			src:  ``,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, blackjack.DefaultRules(), c.Rules())
			},
		},
		{
			name: "zero payoff is kept",
			src:  "payoffs {\n  insurance = 0\n}\n",
			check: func(t *testing.T, c *Config) {
				assert.Zero(t, c.Rules().Payoffs.Insurance)
				assert.Equal(t, 0.5, c.Rules().Payoffs.Blackjack)
			},
		},
		{
			name:    "negative decks",
			src:     "table {\n  decks = -1\n}\n",
			wantErr: "decks must be positive",
		},
		{
			name:    "negative payoff",
			src:     "payoffs {\n  blackjack = -0.5\n}\n",
			wantErr: "cannot be negative",
		},
		{
			name:    "deposit below minimum bet",
			src:     "table {\n  min_bet = 50\n  min_deposit = 20\n}\n",
			wantErr: "min deposit",
		},
		{
			name:    "unknown attribute",
			src:     "table {\n  seats = 6\n}\n",
			wantErr: "failed to decode HCL",
		},
		{
			name:    "syntax error",
			src:     "table {",
			wantErr: "failed to parse HCL file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.src), "test.hcl")
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestCheckDeposit(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.CheckDeposit(10))
	assert.ErrorContains(t, cfg.CheckDeposit(9), "below the minimum of 10")
}
