// Package pacer adapts the delay between frames to how fast the animation moves.
package pacer

import (
	"math"
	"time"
)

const (
	// FastThreshold is the per-frame advance above which frames are drawn
	// more often.
	FastThreshold = 1.0
	// IdleThreshold is the per-frame advance below which the delay returns to
	// its base value.
	IdleThreshold = 0.1

	// MinDelay bounds how far the delay can shrink.
	MinDelay = time.Millisecond
)

// Pacer tracks the current frame delay. It is not safe for concurrent use.
type Pacer struct {
	base  time.Duration
	delay time.Duration
}

// New creates a pacer resting at the base delay.
func New(base time.Duration) *Pacer {
	return &Pacer{base: base, delay: base}
}

// Delay returns the current frame delay.
func (p *Pacer) Delay() time.Duration {
	return p.delay
}

// Base returns the resting delay.
func (p *Pacer) Base() time.Duration {
	return p.base
}

// Update derives the next delay from the advances of the frame just drawn.
// If either advance exceeds FastThreshold the delay is divided by the larger
// one. If both are under IdleThreshold the delay resets to the base. Between
// the two thresholds the delay is left alone.
func (p *Pacer) Update(up, down float64) time.Duration {
	fastest := math.Max(up, down)
	switch {
	case fastest > FastThreshold:
		next := time.Duration(float64(p.delay) / fastest)
		if next < MinDelay {
			next = MinDelay
		}
		p.delay = min(next, p.delay)
	case up < IdleThreshold && down < IdleThreshold:
		p.delay = p.base
	}
	return p.delay
}
