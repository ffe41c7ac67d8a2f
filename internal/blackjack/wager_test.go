package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWager(t *testing.T) {
	tests := []struct {
		input   string
		want    Wager
		wantErr bool
	}{
		{input: "20", want: Wager{Main: 20}},
		{input: " 20 , 10 , 0 ", want: Wager{Main: 20, SideLeft: 10, SideRight: 0}},
		{input: "20,10,30", want: Wager{Main: 20, SideLeft: 10, SideRight: 30}},
		{input: "r", want: Wager{Repeat: true}},
		{input: "R", want: Wager{Repeat: true}},
		{input: "20,10", wantErr: true},
		{input: "twenty", wantErr: true},
		{input: "", wantErr: true},
		{input: "20,x,0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWager(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWager)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWager_Validate(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name    string
		wager   Wager
		balance int
		err     error
	}{
		{"main only", Wager{Main: 20}, 100, nil},
		{"all in", Wager{Main: 50, SideLeft: 30, SideRight: 20}, 100, nil},
		{"below minimum", Wager{Main: 0, SideLeft: 10}, 100, ErrBelowMinimum},
		{"not a multiple", Wager{Main: 25}, 100, ErrNotMultiple},
		{"side not a multiple", Wager{Main: 20, SideRight: 5}, 100, ErrNotMultiple},
		{"negative side", Wager{Main: 20, SideLeft: -10}, 100, ErrNegativeBet},
		{"over balance", Wager{Main: 60, SideLeft: 30, SideRight: 20}, 100, ErrInsufficientBalance},
		{"unresolved repeat", Wager{Repeat: true}, 100, ErrInvalidWager},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.wager.Validate(tt.balance, rules)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestResolveWager(t *testing.T) {
	rules := DefaultRules()
	previous := Wager{Main: 20, SideLeft: 10}

	got, err := ResolveWager(Wager{Repeat: true}, previous, 100, rules)
	require.NoError(t, err)
	assert.Equal(t, previous, got)

	_, err = ResolveWager(Wager{Repeat: true}, Wager{}, 100, rules)
	assert.ErrorIs(t, err, ErrNoPreviousBet)

	_, err = ResolveWager(Wager{Repeat: true}, previous, 20, rules)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	got, err = ResolveWager(Wager{Main: 40}, previous, 100, rules)
	require.NoError(t, err)
	assert.Equal(t, Wager{Main: 40}, got)

	assert.True(t, CanRepeat(previous, 30))
	assert.False(t, CanRepeat(previous, 29))
	assert.False(t, CanRepeat(Wager{}, 100))
}
