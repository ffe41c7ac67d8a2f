package console

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Pacer spaces out console output so a human can follow the deal.
// A zero delay disables pacing.
type Pacer struct {
	clock quartz.Clock
	delay time.Duration

	once sync.Once
	done chan struct{}
}

// NewPacer creates a pacer whose unit pause is delay
func NewPacer(clock quartz.Clock, delay time.Duration) *Pacer {
	return &Pacer{clock: clock, delay: delay, done: make(chan struct{})}
}

// Pause blocks for units times the pacer's delay, or until Stop
func (p *Pacer) Pause(units float64) {
	if p == nil || p.delay <= 0 || units <= 0 {
		return
	}
	fired, stop := p.after(time.Duration(units * float64(p.delay)))
	defer stop()

	select {
	case <-fired:
	case <-p.done:
	}
}

// Stop releases any pending and future pauses
func (p *Pacer) Stop() {
	p.once.Do(func() { close(p.done) })
}

func (p *Pacer) after(d time.Duration) (<-chan struct{}, func() bool) {
	fired := make(chan struct{})
	timer := p.clock.AfterFunc(d, func() {
		close(fired)
	}, "pacer")
	return fired, timer.Stop
}
