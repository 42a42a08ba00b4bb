// Package animation maps throughput onto the phase of an animated icon.
package animation

import (
	"math"
	"time"
)

// Coefficients weight the linear and logarithmic terms of the advance formula.
type Coefficients struct {
	Lin   float64
	Log10 float64
}

// Advance returns how far a phase moves for the given speed (bytes/sec) over
// the given frame duration:
//
//	(Lin*speed + Log10*log10(speed+1)) * elapsed_ns
//
// Scaling by the frame duration keeps the perceived animation rate
// independent of how often frames are drawn.
func Advance(c Coefficients, speed uint64, elapsed time.Duration) float64 {
	s := float64(speed)
	return (c.Lin*s + c.Log10*math.Log10(s+1)) * float64(elapsed.Nanoseconds())
}

// Wrap reduces v into [0, n). Non-finite values wrap to zero.
func Wrap(v float64, n int) float64 {
	size := float64(n)
	r := math.Mod(v, size)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	if r < 0 {
		r += size
	}
	if r >= size {
		// -tiny + size rounds up to size.
		r = 0
	}
	return r
}

// DownIndex selects the glyph for the download direction (forward order).
func DownIndex(phase float64, n int) int {
	return int(math.Floor(phase)) % n
}

// UpIndex selects the glyph for the upload direction (reverse order).
func UpIndex(phase float64, n int) int {
	return n - 1 - DownIndex(phase, n)
}

// SplitGlyphs splits an icon list into one glyph per rune.
func SplitGlyphs(s string) []string {
	glyphs := make([]string, 0, len(s))
	for _, r := range s {
		glyphs = append(glyphs, string(r))
	}
	return glyphs
}
