// Package strategy provides automated players: decision agents and bettors
// that need no terminal.
package strategy

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
)

// play is a cell of the strategy chart
type play int

const (
	hit play = iota
	stand
	double      // double, otherwise hit
	doubleStand // double, otherwise stand
	split
)

// BasicStrategy plays the standard multi-deck chart for a dealer standing on
// all 17s with no doubling after a split. It never takes insurance and never exits.
type BasicStrategy struct {
	logger *log.Logger
}

// NewBasicStrategy creates a basic strategy agent
func NewBasicStrategy(logger *log.Logger) *BasicStrategy {
	return &BasicStrategy{logger: logger.WithPrefix("basic")}
}

// Decide implements blackjack.Agent
func (b *BasicStrategy) Decide(_ context.Context, req blackjack.DecisionRequest) (blackjack.Action, error) {
	switch req.Prompt {
	case blackjack.PromptInsurance:
		return blackjack.DeclineInsurance, nil
	case blackjack.PromptConfirmExit:
		return blackjack.CancelExit, nil
	}

	up := req.DealerUp.HardValue()
	p := chart(req.Hand.Cards, req.Hand.Totals, up, req.Legality.Allows(blackjack.Split))
	action := resolve(p, req.Legality)

	b.logger.Debug("Chart decision", "hand", req.Hand.Totals.Best, "soft", req.Hand.Totals.IsSoft(), "up", up, "action", action)
	return action, nil
}

// resolve maps a chart cell onto what is currently allowed
func resolve(p play, legal blackjack.Legality) blackjack.Action {
	switch p {
	case split:
		return blackjack.Split
	case double:
		if legal.Allows(blackjack.Double) {
			return blackjack.Double
		}
		return blackjack.Hit
	case doubleStand:
		if legal.Allows(blackjack.Double) {
			return blackjack.Double
		}
		return blackjack.Stand
	case stand:
		return blackjack.Stand
	default:
		return blackjack.Hit
	}
}

func chart(cards []deck.Card, totals blackjack.Totals, up int, canSplit bool) play {
	if canSplit && len(cards) == 2 {
		if p, ok := pairPlay(cards[0].HardValue(), up); ok {
			return p
		}
	}
	if totals.IsSoft() {
		return softPlay(totals.Best, up)
	}
	return hardPlay(totals.Best, up)
}

func between(up, lo, hi int) bool {
	return up >= lo && up <= hi
}

// pairPlay returns the split decision for a pair of value v; ok is false when
// the pair should be played as a plain total.
func pairPlay(v, up int) (play, bool) {
	switch v {
	case 11, 8:
		return split, true
	case 9:
		if up == 7 || up == 10 || up == 11 {
			return stand, true
		}
		return split, true
	case 7:
		if up <= 7 {
			return split, true
		}
	case 6:
		if between(up, 3, 6) {
			return split, true
		}
	case 3, 2:
		if between(up, 4, 7) {
			return split, true
		}
	}
	return hit, false
}

func softPlay(total, up int) play {
	switch {
	case total >= 19:
		return stand
	case total == 18:
		switch {
		case between(up, 3, 6):
			return doubleStand
		case up <= 8:
			return stand
		default:
			return hit
		}
	case total == 17:
		if between(up, 3, 6) {
			return double
		}
	case total >= 15:
		if between(up, 4, 6) {
			return double
		}
	case total >= 13:
		if between(up, 5, 6) {
			return double
		}
	}
	return hit
}

func hardPlay(total, up int) play {
	switch {
	case total >= 17:
		return stand
	case total >= 13:
		if up <= 6 {
			return stand
		}
	case total == 12:
		if between(up, 4, 6) {
			return stand
		}
	case total == 11:
		if up <= 10 {
			return double
		}
	case total == 10:
		if up <= 9 {
			return double
		}
	case total == 9:
		if between(up, 3, 6) {
			return double
		}
	}
	return hit
}
