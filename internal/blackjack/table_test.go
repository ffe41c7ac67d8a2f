package blackjack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Run(t *testing.T) {
	t.Run("plays until the bettor leaves", func(t *testing.T) {
		engine, _ := newStackedEngine(t, "As 9d Kc 8h Ts 9c 9h 8d")
		bettor := NewScriptedBettor(Wager{Main: 20}, Wager{Repeat: true})
		table := NewTable(engine, NewPlayer(100), NewScriptedAgent(), bettor, testLogger())

		summary, err := table.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, StopLeft, summary.Stopped)
		assert.Equal(t, 2, summary.Rounds)
		assert.Equal(t, 100, summary.InitialBalance)
		assert.Equal(t, 150, summary.FinalBalance)
		assert.Equal(t, 150, summary.MaxBalance)
		assert.Equal(t, 50, summary.Net)
		assert.Len(t, summary.Results, 2)

		require.Len(t, bettor.Requests, 3)
		assert.False(t, bettor.Requests[0].CanRepeat)
		assert.True(t, bettor.Requests[1].CanRepeat)
		assert.Equal(t, Wager{Main: 20}, bettor.Requests[1].Previous)
		assert.Equal(t, 130, bettor.Requests[1].Balance)
	})

	t.Run("stops when the balance is below the minimum", func(t *testing.T) {
		engine, _ := newStackedEngine(t, "Ts 9d 2c 8h")
		bettor := NewScriptedBettor(Wager{Main: 20}, Wager{Main: 20})
		table := NewTable(engine, NewPlayer(20), NewScriptedAgent(Stand), bettor, testLogger())

		summary, err := table.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StopBroke, summary.Stopped)
		assert.Equal(t, 0, summary.FinalBalance)
		assert.Len(t, bettor.Requests, 1)
	})

	t.Run("exit ends the session", func(t *testing.T) {
		engine, _ := newStackedEngine(t, "Ts 9d 2c 8h")
		bettor := NewScriptedBettor(Wager{Main: 20}, Wager{Main: 20})
		table := NewTable(engine, NewPlayer(100), NewScriptedAgent(Exit, ConfirmExit), bettor, testLogger())

		summary, err := table.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StopExited, summary.Stopped)
		assert.Equal(t, 80, summary.FinalBalance)
		assert.Equal(t, -20, summary.Net)
	})

	t.Run("invalid wager is requested again", func(t *testing.T) {
		engine, _ := newStackedEngine(t, "Ts 9c 9h 8d")
		bettor := NewScriptedBettor(Wager{Main: 25}, Wager{Repeat: true}, Wager{Main: 20})
		table := NewTable(engine, NewPlayer(100), NewScriptedAgent(), bettor, testLogger())

		summary, err := table.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Rounds)
		require.Len(t, bettor.Requests, 4)
		assert.ErrorIs(t, bettor.Requests[1].Rejected, ErrNotMultiple)
		assert.ErrorIs(t, bettor.Requests[2].Rejected, ErrNoPreviousBet)
	})

	t.Run("gives up after repeated invalid wagers", func(t *testing.T) {
		engine, _ := newStackedEngine(t, "Ts 9c 9h 8d")
		bettor := BettorFunc(func(context.Context, WagerRequest) (Wager, error) {
			return Wager{Main: 5}, nil
		})
		table := NewTable(engine, NewPlayer(100), NewScriptedAgent(), bettor, testLogger(), WithWagerAttempts(2))

		_, err := table.Run(context.Background())
		assert.ErrorIs(t, err, ErrBelowMinimum)
	})

	t.Run("round limit", func(t *testing.T) {
		engine, _ := newStackedEngine(t, "Ts 9c 9h 8d")
		bettor := BettorFunc(func(context.Context, WagerRequest) (Wager, error) {
			return Wager{Main: 10}, nil
		})
		table := NewTable(engine, NewPlayer(100), NewScriptedAgent(), bettor, testLogger(), WithMaxRounds(1), WithoutResults())

		summary, err := table.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StopRoundLimit, summary.Stopped)
		assert.Equal(t, 1, summary.Rounds)
		assert.Empty(t, summary.Results)
	})
}
