package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
)

// Estimator converts consecutive samples into a single-interval average
// throughput. It is not safe for concurrent use.
type Estimator struct {
	source Source

	last     Sample
	lastTime time.Time
	primed   bool
	speed    Speed
}

// NewEstimator creates an estimator reading from the given source.
func NewEstimator(source Source) *Estimator {
	return &Estimator{source: source}
}

// Prime records a baseline sample without producing a speed. If the sample
// fails the estimator stays unprimed and the next Update retries the baseline.
func (e *Estimator) Prime(ctx context.Context, now time.Time) {
	sample, err := e.source.Sample(ctx)
	if err != nil {
		slog.Debug("Failed to take baseline sample", "error", err)
		return
	}
	e.last = sample
	e.lastTime = now
	e.primed = true
}

// Update takes a fresh sample and recomputes the speed from the interval
// since the previous update. When less than a millisecond has elapsed the
// previous speed is kept. A failed sample counts as an interval without
// traffic; the counter and time baselines both stay at the last good sample,
// so the next good delta is divided by the time it actually spans.
func (e *Estimator) Update(ctx context.Context, now time.Time) Reading {
	if !e.primed {
		e.Prime(ctx, now)
		return Reading{Speed: e.speed, Sample: e.last, Held: true}
	}

	elapsed := now.Sub(e.lastTime)
	elapsedMs := elapsed.Milliseconds()

	sample, err := e.source.Sample(ctx)
	if err != nil {
		slog.Debug("Failed to sample interface counters", "error", err)
		if elapsedMs > 0 {
			e.speed = Speed{}
		}
		return Reading{Speed: e.speed, Sample: e.last, Elapsed: elapsed, Held: elapsedMs <= 0}
	}
	e.lastTime = now

	held := true
	if elapsedMs > 0 {
		ms := uint64(elapsedMs)
		e.speed = Speed{
			Up:   saturatingDelta(sample.Sent, e.last.Sent) * 1000 / ms,
			Down: saturatingDelta(sample.Received, e.last.Received) * 1000 / ms,
		}
		held = false
	}
	e.last = sample

	slog.Debug("Sampled interface counters",
		"interfaces", sample.Interfaces,
		"sent", humanize.Bytes(sample.Sent),
		"received", humanize.Bytes(sample.Received),
		"elapsed", elapsed,
		"held", held,
	)

	return Reading{Speed: e.speed, Sample: sample, Elapsed: elapsed, Held: held}
}

// Speed returns the most recently computed speed.
func (e *Estimator) Speed() Speed {
	return e.speed
}

// saturatingDelta returns cur-prev, or zero when the counter went backwards
// (interface reset or removal).
func saturatingDelta(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}
