// Package politeness centralizes the jittered delay formula used
// around every inner-page fetch, block transition, detail fetch, and
// comment page: base + rand([0, 0.5*base]).
package politeness

import (
	"math/rand"
	"time"
)

// Delay is a jittered sleep source, independently seeded so
// concurrently-running engine instances never share mutable state.
type Delay struct {
	rng       *rand.Rand
	sleepFunc func(time.Duration)
}

// New creates a Delay with the process clock as its entropy source.
func New() *Delay {
	return &Delay{
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		sleepFunc: time.Sleep,
	}
}

// NewWithSleep creates a Delay that calls sleepFunc instead of
// time.Sleep, letting tests observe or skip the wait.
func NewWithSleep(sleepFunc func(time.Duration)) *Delay {
	d := New()
	d.sleepFunc = sleepFunc
	return d
}

// Sleep blocks for base plus a uniform random jitter in [0, 0.5*base].
func (d *Delay) Sleep(base time.Duration) {
	d.sleepFunc(d.jittered(base))
}

func (d *Delay) jittered(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	extra := time.Duration(d.rng.Int63n(int64(base)/2 + 1))
	return base + extra
}

const (
	// BetweenListingFetches is the base delay between inner-page
	// fetches and between pagination blocks.
	BetweenListingFetches = 1000 * time.Millisecond
	// BetweenDetailFetches is the base delay around every post detail
	// fetch.
	BetweenDetailFetches = 1000 * time.Millisecond
	// BetweenCommentPages is the base delay between comment pages.
	BetweenCommentPages = 2000 * time.Millisecond
)
