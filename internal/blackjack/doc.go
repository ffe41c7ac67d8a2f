// Package blackjack implements single-seat blackjack round resolution.
//
// The main type is Engine, which owns the shoe and plays one round at a time:
// dealing, side-bet grading, the insurance offer, the player's hand state
// machine (including one split), the dealer's fixed draw policy and
// settlement of every wager.
//
// # Basic Usage
//
//	shoe := deck.NewShoe(8, deck.NewShuffledSource(randutil.New(42), 3))
//	engine := blackjack.NewEngine(shoe, blackjack.DefaultRules(), logger)
//	player := blackjack.NewPlayer(100)
//	result, err := engine.PlayRound(ctx, player, blackjack.Wager{Main: 20}, agent)
//
// Table wraps an Engine with a Bettor and an Agent and loops rounds until the
// player leaves, exits, or can no longer cover the minimum bet.
//
// # Rules
//
// The engine plays exactly one rule set: a single split is allowed (split Aces
// receive one card each and stand), doubling is only offered on the first
// decision of an unsplit hand, and the dealer draws while below 17, soft 17
// included. Main, blackjack bonus, insurance, Perfect Pairs and 21+3 wagers
// are settled.
//
// # Deterministic Testing
//
// Stack the shoe to control every card:
//
//	shoe := deck.NewStackedShoe(deck.MustParseCards("As 6d Kh 10c")...)
//
// Player and dealer are dealt alternately, player first.
package blackjack
