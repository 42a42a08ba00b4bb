// Package stats samples network interface byte counters and turns them into
// throughput readings.
package stats

import "time"

// Sample is a snapshot of cumulative byte counters summed over every
// enumerated interface.
type Sample struct {
	// Sent is the total number of bytes transmitted.
	Sent uint64
	// Received is the total number of bytes received.
	Received uint64
	// Interfaces is the number of interfaces that contributed to the totals.
	Interfaces int
}

// Speed is a throughput reading in bytes per second.
type Speed struct {
	// Up is the transmit rate.
	Up uint64
	// Down is the receive rate.
	Down uint64
}

// Reading is the outcome of a single estimator update.
type Reading struct {
	Speed   Speed
	Sample  Sample
	Elapsed time.Duration
	// Held is true when the elapsed time was too short to compute a rate and
	// the previous speed was kept.
	Held bool
}
