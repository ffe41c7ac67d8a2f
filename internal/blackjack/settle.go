package blackjack

// Result is the main-bet outcome of a settled hand
type Result int

const (
	Lose Result = iota - 1
	Push
	Win
)

// String returns the string representation of a result
func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Lose:
		return "lose"
	default:
		return "push"
	}
}

// Reason explains a settlement result
type Reason string

const (
	ReasonPlayerBust    Reason = "player bust"
	ReasonDealerBust    Reason = "dealer bust"
	ReasonHigher        Reason = "player higher"
	ReasonLower         Reason = "dealer higher"
	ReasonPush          Reason = "push"
	ReasonPushBlackjack Reason = "push against dealer blackjack"
	ReasonExitForfeit   Reason = "forfeited on exit"
	ReasonNaturalPayout Reason = "blackjack"
)

// Outcome is the settlement of one hand
type Outcome struct {
	Hand        string
	Result      Result
	Reason      Reason
	PlayerTotal int
	DealerTotal int
	Main        int
	Blackjack   int
}

// Net is the main plus blackjack winnings
func (o Outcome) Net() int {
	return o.Main + o.Blackjack
}

// Settle scores a terminal player hand against the final dealer hand and
// writes the main and blackjack winnings to the hand. Insurance and side-bet
// winnings are left untouched.
func Settle(h *Hand, dealer *Hand, payoffs PayoffTable) Outcome {
	player := h.Totals().Best
	house := dealer.Totals().Best

	out := Outcome{Hand: h.Name, PlayerTotal: player, DealerTotal: house}

	switch {
	case player > BlackjackTotal:
		out.Result, out.Reason = Lose, ReasonPlayerBust
	case house > BlackjackTotal:
		out.Result, out.Reason = Win, ReasonDealerBust
	case player > house:
		out.Result, out.Reason = Win, ReasonHigher
	case player < house:
		out.Result, out.Reason = Lose, ReasonLower
	default:
		out.Result, out.Reason = Push, ReasonPush
		if h.Status == StatusStandInsurance {
			out.Reason = ReasonPushBlackjack
		}
	}

	switch out.Result {
	case Win:
		out.Main = h.Bets[BetMain]
		if h.Blackjack {
			out.Blackjack = scale(h.Bets[BetBlackjack], payoffs.Blackjack)
			if out.Reason == ReasonHigher {
				out.Reason = ReasonNaturalPayout
			}
		}
	case Lose:
		out.Main = -h.Bets[BetMain]
	}

	h.Winnings[BetMain] = out.Main
	h.Winnings[BetBlackjack] = out.Blackjack
	return out
}

// forfeit scores a hand abandoned by Exit
func forfeit(h *Hand) Outcome {
	h.Winnings[BetMain] = -h.Bets[BetMain]
	h.Winnings[BetBlackjack] = 0
	return Outcome{
		Hand:        h.Name,
		Result:      Lose,
		Reason:      ReasonExitForfeit,
		PlayerTotal: h.Totals().Best,
		Main:        h.Winnings[BetMain],
	}
}
