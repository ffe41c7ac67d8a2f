package blackjack

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a round event type with type safety
type EventType string

// EventType constants for round domain events
const (
	EventTypeRoundStart           EventType = "round_start"
	EventTypeShoeRefilled         EventType = "shoe_refilled"
	EventTypeInitialDeal          EventType = "initial_deal"
	EventTypeSideBet              EventType = "side_bet"
	EventTypeInsurance            EventType = "insurance"
	EventTypeInsuranceUnavailable EventType = "insurance_unavailable"
	EventTypePlayerAction         EventType = "player_action"
	EventTypeSplit                EventType = "split"
	EventTypeHandDone             EventType = "hand_done"
	EventTypeDealerReveal         EventType = "dealer_reveal"
	EventTypeDealerDraw           EventType = "dealer_draw"
	EventTypeHandSettled          EventType = "hand_settled"
	EventTypeRoundEnd             EventType = "round_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event represents anything that happens during a round
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

type stamp struct {
	at time.Time
}

func (s stamp) Timestamp() time.Time { return s.at }

// RoundStartEvent is published once the wager is accepted
type RoundStartEvent struct {
	stamp
	RoundID string
	Round   int
	Balance int
	Wager   Wager
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }

// ShoeRefilledEvent is published when the shoe is rebuilt before a round
type ShoeRefilledEvent struct {
	stamp
	Decks     int
	Passes    int
	Remaining int
	Refills   int
}

func (e ShoeRefilledEvent) EventType() EventType { return EventTypeShoeRefilled }

// InitialDealEvent carries the player's two cards and the dealer's up-card
type InitialDealEvent struct {
	stamp
	RoundID  string
	Player   HandView
	DealerUp deck.Card
}

func (e InitialDealEvent) EventType() EventType { return EventTypeInitialDeal }

// SideBetEvent is published when a side bet is graded and settled
type SideBetEvent struct {
	stamp
	RoundID    string
	Kind       BetKind
	Grade      string
	Multiplier int
	Stake      int
	Winnings   int
}

func (e SideBetEvent) EventType() EventType { return EventTypeSideBet }

// InsuranceEvent reports the insurance decision and its settlement
type InsuranceEvent struct {
	stamp
	RoundID         string
	Taken           bool
	Stake           int
	DealerBlackjack bool
	Winnings        int
}

func (e InsuranceEvent) EventType() EventType { return EventTypeInsurance }

// InsuranceUnavailableEvent is published when the dealer shows an Ace but the balance cannot cover insurance
type InsuranceUnavailableEvent struct {
	stamp
	RoundID         string
	Required        int
	Balance         int
	DealerBlackjack bool
}

func (e InsuranceUnavailableEvent) EventType() EventType { return EventTypeInsuranceUnavailable }

// PlayerActionEvent is published after a play decision is applied
type PlayerActionEvent struct {
	stamp
	RoundID  string
	Action   Action
	Hand     HandView
	Fallback bool
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }

// SplitEvent carries both hands after each received its second card
type SplitEvent struct {
	stamp
	RoundID string
	Hands   []HandView
}

func (e SplitEvent) EventType() EventType { return EventTypeSplit }

// HandDoneEvent is published when a player hand reaches a terminal status
type HandDoneEvent struct {
	stamp
	RoundID string
	Hand    HandView
}

func (e HandDoneEvent) EventType() EventType { return EventTypeHandDone }

// DealerRevealEvent is published when the hole card is turned over
type DealerRevealEvent struct {
	stamp
	RoundID string
	Dealer  HandView
	Draws   bool
}

func (e DealerRevealEvent) EventType() EventType { return EventTypeDealerReveal }

// DealerDrawEvent is published for each card the dealer takes
type DealerDrawEvent struct {
	stamp
	RoundID string
	Card    deck.Card
	Dealer  HandView
}

func (e DealerDrawEvent) EventType() EventType { return EventTypeDealerDraw }

// HandSettledEvent is published per hand, in hand order
type HandSettledEvent struct {
	stamp
	RoundID string
	Hand    HandView
	Dealer  HandView
	Outcome Outcome
}

func (e HandSettledEvent) EventType() EventType { return EventTypeHandSettled }

// RoundEndEvent carries the full round result after the balance is updated
type RoundEndEvent struct {
	stamp
	Result *RoundResult
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }

// EventSubscriber can subscribe to round events
type EventSubscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(event Event)

// OnEvent calls f
func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event Event)
}

// SimpleEventBus is a basic synchronous in-memory event bus.
// Subscribers run on the engine goroutine and must return promptly.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{subscribers: make([]EventSubscriber, 0)}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Func subscribers
// cannot be compared and are never removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if _, ok := subscriber.(SubscriberFunc); ok {
		return
	}
	for i, sub := range bus.subscribers {
		if _, ok := sub.(SubscriberFunc); ok {
			continue
		}
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event Event) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// Recorder is an EventSubscriber that keeps every event, for tests and replays
type Recorder struct {
	Events []Event
}

// OnEvent appends the event
func (r *Recorder) OnEvent(event Event) {
	r.Events = append(r.Events, event)
}

// Types returns the recorded event types in order
func (r *Recorder) Types() []EventType {
	types := make([]EventType, len(r.Events))
	for i, e := range r.Events {
		types[i] = e.EventType()
	}
	return types
}
