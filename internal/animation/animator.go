package animation

import (
	"errors"
	"time"

	"github.com/shini4i/netspeedbar/internal/stats"
)

// ErrNoGlyphs is returned when an animator is created without glyphs.
var ErrNoGlyphs = errors.New("animation requires at least one glyph")

// Options configures an Animator.
type Options struct {
	// Glyphs is the frame set in download order. Index 0 is the bottom of the
	// download sequence.
	Glyphs []string
	// Coefficients drive the per-frame advance.
	Coefficients Coefficients
	// Combine prefixes the static glyphs to the animated ones.
	Combine bool
	// UpIcon and DownIcon are the static directional glyphs.
	UpIcon   string
	DownIcon string
}

// Advances holds the per-direction phase increase of one frame.
type Advances struct {
	Up   float64
	Down float64
}

// Max returns the larger of the two advances.
func (a Advances) Max() float64 {
	return max(a.Up, a.Down)
}

// Animator holds the up and down phases. It is not safe for concurrent use.
type Animator struct {
	opts Options
	up   float64
	down float64
}

// NewAnimator creates an animator with both phases at zero.
func NewAnimator(opts Options) (*Animator, error) {
	if len(opts.Glyphs) == 0 {
		return nil, ErrNoGlyphs
	}
	glyphs := make([]string, len(opts.Glyphs))
	copy(glyphs, opts.Glyphs)
	opts.Glyphs = glyphs
	return &Animator{opts: opts}, nil
}

// Step advances both phases for a frame of the given duration at the given
// speed and returns the applied advances.
func (a *Animator) Step(speed stats.Speed, elapsed time.Duration) Advances {
	adv := Advances{
		Up:   Advance(a.opts.Coefficients, speed.Up, elapsed),
		Down: Advance(a.opts.Coefficients, speed.Down, elapsed),
	}
	a.Add(adv)
	return adv
}

// Add moves both phases by the given amounts and wraps them into [0, N).
func (a *Animator) Add(adv Advances) {
	n := len(a.opts.Glyphs)
	a.up = Wrap(a.up+adv.Up, n)
	a.down = Wrap(a.down+adv.Down, n)
}

// Phases returns the current up and down phases.
func (a *Animator) Phases() (up, down float64) {
	return a.up, a.down
}

// Glyphs returns the glyphs to display for the current phases.
func (a *Animator) Glyphs() (up, down string) {
	n := len(a.opts.Glyphs)
	up = a.opts.Glyphs[UpIndex(a.up, n)]
	down = a.opts.Glyphs[DownIndex(a.down, n)]
	if a.opts.Combine {
		up = a.opts.UpIcon + up
		down = a.opts.DownIcon + down
	}
	return up, down
}
