package animation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		name     string
		c        Coefficients
		speed    uint64
		elapsed  time.Duration
		expected float64
	}{
		{"zero speed", Coefficients{Lin: 1, Log10: 1}, 0, time.Second, 0},
		{"zero elapsed", Coefficients{Lin: 1, Log10: 1}, 1000, 0, 0},
		{"linear only", Coefficients{Lin: 1e-12}, 1000, time.Second, 1},
		{"log only", Coefficients{Log10: 1e-9}, 999, time.Second, 3},
		{"both terms", Coefficients{Lin: 1e-12, Log10: 1e-9}, 999, time.Second, 0.999 + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Advance(tt.c, tt.speed, tt.elapsed), 1e-9)
		})
	}
}

func TestAdvance_NonNegative(t *testing.T) {
	c := Coefficients{Lin: 1e-16, Log10: 1e-10}
	speeds := []uint64{0, 1, 9, 1000, 1 << 20, 1 << 40, math.MaxUint64}
	durations := []time.Duration{0, time.Nanosecond, time.Millisecond, time.Second, time.Hour}

	for _, s := range speeds {
		for _, d := range durations {
			assert.GreaterOrEqual(t, Advance(c, s, d), 0.0, "speed=%d elapsed=%s", s, d)
		}
	}
}

func TestAdvance_FrameDurationIndependent(t *testing.T) {
	c := Coefficients{Lin: 1e-14, Log10: 1e-11}
	const speed = 125_000

	// Two half-length frames move as far as one full-length frame.
	half := Advance(c, speed, 500*time.Millisecond)
	full := Advance(c, speed, time.Second)
	assert.InDelta(t, full, 2*half, 1e-12)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		n        int
		expected float64
	}{
		{"in range", 1.5, 4, 1.5},
		{"exactly n", 4, 4, 0},
		{"above n", 9.25, 4, 1.25},
		{"negative", -0.5, 4, 3.5},
		{"single glyph", 7.75, 1, 0.75},
		{"infinite", math.Inf(1), 4, 0},
		{"not a number", math.NaN(), 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Wrap(tt.v, tt.n), 1e-12)
		})
	}
}

func TestWrap_AlwaysInRange(t *testing.T) {
	values := []float64{0, 0.1, 0.999999, 1, 3.5, 12.999, 1e9 + 0.5, -1e-18, -3.25, 1e300}
	for n := 1; n <= 13; n++ {
		for _, v := range values {
			got := Wrap(v, n)
			assert.GreaterOrEqual(t, got, 0.0, "v=%v n=%d", v, n)
			assert.Less(t, got, float64(n), "v=%v n=%d", v, n)
		}
	}
}

func TestIndices(t *testing.T) {
	const n = 4
	tests := []struct {
		phase float64
		down  int
		up    int
	}{
		{0, 0, 3},
		{0.99, 0, 3},
		{1, 1, 2},
		{2.5, 2, 1},
		{3.999, 3, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.down, DownIndex(tt.phase, n), "down phase=%v", tt.phase)
		assert.Equal(t, tt.up, UpIndex(tt.phase, n), "up phase=%v", tt.phase)
	}
}

func TestSplitGlyphs(t *testing.T) {
	assert.Equal(t, []string{"▁", "▃", "▄", "▅"}, SplitGlyphs("▁▃▄▅"))
	assert.Equal(t, []string{"a", "b"}, SplitGlyphs("ab"))
	assert.Empty(t, SplitGlyphs(""))
}
