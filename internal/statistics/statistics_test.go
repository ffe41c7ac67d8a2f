package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.5))
	assert.Zero(t, stats.Return())
	assert.Error(t, stats.Validate(), "no rounds is not a valid result")
}

func TestStatistics_SingleRound(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{
		Net:       1.5,
		Staked:    1,
		MainNet:   1.5,
		Seed:      12345,
		Wins:      1,
		Blackjack: true,
	})

	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 1.5, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Equal(t, 1.5, stats.Median())
	assert.Equal(t, 1, stats.Blackjacks)
	assert.Equal(t, 1.5, stats.Return())
	assert.Equal(t, 1.5, stats.MaxWin)
	assert.True(t, stats.IsLedgerBalanced())
	require.NoError(t, stats.Validate())
}

func TestStatistics_MultipleRounds(t *testing.T) {
	stats := &Statistics{}
	results := []RoundResult{
		{Net: 1, Staked: 1, MainNet: 1, Wins: 1},
		{Net: -2, Staked: 2, MainNet: -2, Losses: 1, Doubled: true},
		{Net: 3, Staked: 2, MainNet: 2, SideNet: 1, Wins: 2, Split: true, SideBetHits: 1},
		{Net: 0, Staked: 1, MainNet: 0, Pushes: 1},
		{Net: -1, Staked: 1.5, MainNet: 0, InsuranceNet: -0.5, SideNet: -0.5, Pushes: 1, InsuranceTaken: true},
	}
	for _, r := range results {
		stats.Add(r)
	}

	assert.Equal(t, 5, stats.Rounds)
	assert.Equal(t, 6, stats.Hands)
	assert.InDelta(t, 0.2, stats.Mean(), 1e-9)
	assert.InDelta(t, 3.7, stats.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(3.7), stats.StdDev(), 1e-9)
	assert.Equal(t, 0.0, stats.Median())
	assert.Equal(t, -2.0, stats.Percentile(0))
	assert.Equal(t, 3.0, stats.Percentile(1))
	assert.InDelta(t, 1.0/7.5, stats.Return(), 1e-9)
	assert.Equal(t, 3.0, stats.MaxWin)
	assert.Equal(t, -2.0, stats.MaxLoss)
	assert.Equal(t, 1, stats.Doubles)
	assert.Equal(t, 1, stats.Splits)
	assert.Equal(t, 1, stats.InsuranceTaken)
	assert.Equal(t, 0.4, stats.Rate(stats.Splits+stats.Doubles))

	low, high := stats.ConfidenceInterval95()
	assert.Less(t, low, stats.Mean())
	assert.Greater(t, high, stats.Mean())
	require.NoError(t, stats.Validate())
}

func TestStatistics_Merge(t *testing.T) {
	all := &Statistics{}
	left := &Statistics{}
	right := &Statistics{}

	results := []RoundResult{
		{Net: 1, Staked: 1, MainNet: 1, Wins: 1},
		{Net: -1, Staked: 1, MainNet: -1, Losses: 1, Busts: 1},
		{Net: 1.5, Staked: 1, MainNet: 1.5, Wins: 1, Blackjack: true},
		{Net: -3, Staked: 3, MainNet: -2, SideNet: -1, Losses: 1},
	}
	for i, r := range results {
		all.Add(r)
		if i < 2 {
			left.Add(r)
		} else {
			right.Add(r)
		}
	}

	left.Merge(right)
	assert.Equal(t, all.Rounds, left.Rounds)
	assert.InDelta(t, all.Mean(), left.Mean(), 1e-9)
	assert.InDelta(t, all.Variance(), left.Variance(), 1e-9)
	assert.Equal(t, all.Values, left.Values)
	assert.Equal(t, all.Busts, left.Busts)
	assert.Equal(t, all.Blackjacks, left.Blackjacks)
	assert.Equal(t, all.MaxLoss, left.MaxLoss)
	require.NoError(t, left.Validate())
}

func TestStatistics_ValidateLedger(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Net: 2, MainNet: 1, Wins: 1})
	assert.ErrorContains(t, stats.Validate(), "ledger mismatch")
}
