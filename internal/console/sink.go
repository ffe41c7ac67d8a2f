package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
)

// Sink renders round events to a terminal. It subscribes to the engine's
// event bus and never feeds anything back into the round.
type Sink struct {
	w      io.Writer
	styles Styles
	pacer  *Pacer
}

// NewSink creates a sink writing to w. pacer may be nil.
func NewSink(w io.Writer, styles Styles, pacer *Pacer) *Sink {
	return &Sink{w: w, styles: styles, pacer: pacer}
}

// OnEvent implements blackjack.EventSubscriber
func (s *Sink) OnEvent(event blackjack.Event) {
	switch e := event.(type) {
	case blackjack.ShoeRefilledEvent:
		s.printf("\n%s\n", s.styles.Header.Render(fmt.Sprintf(" NEW SHOE. Playing with %d decks in shoe ", e.Decks)))
		if e.Passes > 0 {
			s.printf("%s\n", s.styles.Info.Render(fmt.Sprintf("Shoe shuffled %d times", e.Passes)))
		}

	case blackjack.RoundStartEvent:
		s.printf("\n%s\n", s.styles.Header.Render(fmt.Sprintf(" Round %d ", e.Round)))
		s.printf("Bets: main $%d, left sidebet $%d, right sidebet $%d\n", e.Wager.Main, e.Wager.SideLeft, e.Wager.SideRight)
		s.printf("\nBets closed. Dealing hand ...\n")
		s.pacer.Pause(1.5)

	case blackjack.InitialDealEvent:
		s.dealerUp(e.DealerUp)
		s.hand("Player", e.Player)

	case blackjack.SideBetEvent:
		s.sideBet(e)

	case blackjack.InsuranceEvent:
		if e.Taken {
			s.printf("%s\n", s.styles.Actions.Render(fmt.Sprintf("Insurance bought for $%d", e.Stake)))
			s.pacer.Pause(1.5)
		}
		switch {
		case e.Taken && e.DealerBlackjack:
			s.printf("\nDealer has Blackjack. Insurance %s %s\n", s.styles.Success.Render("WON."), s.styles.Money(e.Winnings))
		case e.Taken:
			s.printf("\nDealer doesn't have Blackjack. Insurance %s %s\n", s.styles.Error.Render("LOST."), s.styles.Money(e.Winnings))
		case e.DealerBlackjack:
			s.printf("\nDealer has Blackjack.\n")
		}

	case blackjack.InsuranceUnavailableEvent:
		s.printf("\n%s\n", s.styles.Warning.Render(fmt.Sprintf(
			"Dealer has an Ace. Insufficient balance for buying insurance (Required $%d, Balance $%d)", e.Required, e.Balance)))
		if e.DealerBlackjack {
			s.printf("\nDealer has Blackjack.\n")
		}
		s.pacer.Pause(1.5)

	case blackjack.PlayerActionEvent:
		s.action(e)

	case blackjack.SplitEvent:
		if len(e.Hands) > 0 && len(e.Hands[0].Cards) > 0 {
			s.printf("\n%s\n", s.styles.Actions.Render(fmt.Sprintf("Splitting %s ...", plural(e.Hands[0].Cards[0].Rank))))
		}
		for _, h := range e.Hands {
			s.hand("Player "+h.Name, h)
		}
		s.pacer.Pause(3)

	case blackjack.HandDoneEvent:
		switch e.Hand.Status {
		case blackjack.StatusStandBlackjack:
			s.printf("\n%s\n", s.styles.Success.Render(e.Hand.Name+": Player has got Blackjack."))
		case blackjack.StatusBust:
			s.pacer.Pause(2)
			s.printf("\n%s\n", s.styles.Error.Render(e.Hand.Name+": Player has busted."))
		case blackjack.StatusStand:
			s.printf("\n%s: Player has stood.\n", e.Hand.Name)
		}

	case blackjack.DealerRevealEvent:
		s.pacer.Pause(2)
		s.printf("\n%s\n", s.styles.Header.Render(" REVEALING DEALER'S CARDS "))
		s.hand("Dealer", e.Dealer)

	case blackjack.DealerDrawEvent:
		s.pacer.Pause(1)
		s.printf("Dealer draws %s (Sum: %s)\n", s.styles.Card(e.Card), sum(e.Dealer.Totals))

	case blackjack.HandSettledEvent:
		s.settled(e)

	case blackjack.RoundEndEvent:
		res := e.Result
		s.printf("\nRound net %s. Balance: $%d\n", s.styles.Money(res.Net), res.Balance)
		if res.Fallbacks > 0 {
			s.printf("%s\n", s.styles.Warning.Render(fmt.Sprintf("%d decision(s) defaulted after invalid answers", res.Fallbacks)))
		}
	}
}

func (s *Sink) printf(format string, args ...any) {
	fmt.Fprintf(s.w, format, args...)
}

func (s *Sink) dealerUp(up deck.Card) {
	s.printf("\nDealer:\n%s, <hidden card> (Sum: %d)\n", s.styles.Card(up), up.HardValue())
}

func (s *Sink) hand(label string, h blackjack.HandView) {
	s.printf("\n%s:\n%s (Sum: %s)\n", s.styles.Hand.Render(label), s.styles.Cards(h.Cards), sum(h.Totals))
}

func (s *Sink) sideBet(e blackjack.SideBetEvent) {
	name := "Left sidebet"
	if e.Kind == blackjack.BetSideRight {
		name = "Right sidebet"
	}
	if e.Multiplier == 0 {
		s.printf("\n%s %s\n", name, s.styles.Error.Render("LOST"))
		return
	}
	s.printf("\n%s %s %s\n", name, s.styles.Success.Render("WON."), s.styles.Actions.Render(strings.ToUpper(e.Grade)+" !!"))
	s.printf("You win $%d\n", e.Winnings)
}

func (s *Sink) action(e blackjack.PlayerActionEvent) {
	if e.Fallback {
		s.printf("%s\n", s.styles.Warning.Render(fmt.Sprintf("No valid answer given, defaulting to %s", e.Action)))
	}
	switch e.Action {
	case blackjack.Double:
		s.printf("\n%s\nTotal bet doubled to: $%d\n", s.styles.Actions.Render("DOUBLE DOWN"), e.Hand.Bets[blackjack.BetMain])
		s.pacer.Pause(2)
		s.hand("Player "+e.Hand.Name, e.Hand)
	case blackjack.Hit:
		s.hand("Player "+e.Hand.Name, e.Hand)
	}
}

func (s *Sink) settled(e blackjack.HandSettledEvent) {
	var msg string
	switch e.Outcome.Reason {
	case blackjack.ReasonPlayerBust:
		msg = "Player has busted. Dealer wins."
	case blackjack.ReasonDealerBust:
		msg = "Dealer has busted. Player wins."
	case blackjack.ReasonHigher:
		msg = "Player wins."
	case blackjack.ReasonNaturalPayout:
		msg = "Player has Blackjack. Dealer has a lower hand. Player wins."
	case blackjack.ReasonLower:
		msg = "Player has a lower hand. Dealer wins."
	case blackjack.ReasonPushBlackjack:
		msg = "Dealer has Blackjack. Push."
	case blackjack.ReasonPush:
		msg = "Push."
	case blackjack.ReasonExitForfeit:
		msg = "Player exited. Bet forfeited."
	default:
		msg = string(e.Outcome.Reason)
	}
	s.printf("\n%s: %s %s\n", s.styles.Hand.Render(e.Hand.Name), msg, s.styles.Money(e.Outcome.Net()))
}

// sum formats a total the way the table calls it, "7/17" while an Ace still counts 11
func sum(t blackjack.Totals) string {
	if t.IsSoft() {
		return fmt.Sprintf("%d/%d", t.Soft, t.Hard)
	}
	return fmt.Sprintf("%d", t.Best)
}

func plural(r deck.Rank) string {
	switch r {
	case deck.Ace:
		return "Aces"
	case deck.King:
		return "Kings"
	case deck.Queen:
		return "Queens"
	case deck.Jack:
		return "Jacks"
	}
	words := [...]string{"Twos", "Threes", "Fours", "Fives", "Sixes", "Sevens", "Eights", "Nines", "Tens"}
	if r >= deck.Two && r <= deck.Ten {
		return words[r-deck.Two]
	}
	return r.String() + "s"
}
