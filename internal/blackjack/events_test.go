package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleEventBus(t *testing.T) {
	bus := NewEventBus()
	first := &Recorder{}
	second := &Recorder{}
	var seen []EventType

	bus.Subscribe(first)
	bus.Subscribe(second)
	bus.Subscribe(SubscriberFunc(func(e Event) { seen = append(seen, e.EventType()) }))

	bus.Publish(RoundStartEvent{RoundID: "a"})
	bus.Unsubscribe(second)
	bus.Publish(RoundEndEvent{})

	assert.Equal(t, []EventType{EventTypeRoundStart, EventTypeRoundEnd}, first.Types())
	assert.Equal(t, []EventType{EventTypeRoundStart}, second.Types())
	assert.Equal(t, []EventType{EventTypeRoundStart, EventTypeRoundEnd}, seen)
}
