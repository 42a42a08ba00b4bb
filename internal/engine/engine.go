// Package engine drives the status line: it samples counters, advances the
// icon animation, renders a line and paces the next frame.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/shini4i/netspeedbar/internal/animation"
	"github.com/shini4i/netspeedbar/internal/config"
	"github.com/shini4i/netspeedbar/internal/pacer"
	"github.com/shini4i/netspeedbar/internal/stats"
)

// ErrNoSource is returned when an engine is created without a counter source.
var ErrNoSource = errors.New("engine requires a counter source")

// Options configures an Engine.
type Options struct {
	// Config is validated by New and must not change afterwards.
	Config *config.Config

	// Source provides the interface byte counters.
	Source stats.Source

	// Output receives one status line per frame.
	// Default: os.Stdout
	Output io.Writer

	// Clock drives time and sleeping.
	// Default: SystemClock()
	Clock Clock
}

// Frame describes one rendered frame.
type Frame struct {
	// Line is the status line without the trailing newline.
	Line string

	UpGlyph   string
	DownGlyph string
	Speed     stats.Speed

	// Sampled is true when the counters were re-read this frame.
	Sampled bool
	// Held is true when a sample was taken but too little time had passed to
	// compute a new speed.
	Held bool

	// Advances and phases are zero when animation is disabled.
	Advances  animation.Advances
	UpPhase   float64
	DownPhase float64

	// Delay is the wait before the next frame.
	Delay time.Duration
}

// Engine owns all per-process loop state. It is not safe for concurrent use.
type Engine struct {
	cfg   *config.Config
	out   io.Writer
	clock Clock

	estimator *stats.Estimator
	animator  *animation.Animator // nil when animation is disabled
	pacer     *pacer.Pacer

	refreshCounter uint32
	lastFrame      time.Time
	started        bool
}

// New validates the configuration and creates an engine.
func New(opts Options) (*Engine, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%w: missing configuration", config.ErrInvalidConfig)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Source == nil {
		return nil, ErrNoSource
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}

	cfg := opts.Config
	e := &Engine{
		cfg:       cfg,
		out:       opts.Output,
		clock:     opts.Clock,
		estimator: stats.NewEstimator(opts.Source),
		pacer:     pacer.New(cfg.RefreshInterval()),
	}

	if cfg.AnimatedIcons {
		animator, err := animation.NewAnimator(animation.Options{
			Glyphs: animation.SplitGlyphs(cfg.AnimatedIconList),
			Coefficients: animation.Coefficients{
				Lin:   cfg.SpeedMultiplierLin,
				Log10: cfg.SpeedMultiplierLog10,
			},
			Combine:  cfg.CombineIcons,
			UpIcon:   cfg.UpIcon,
			DownIcon: cfg.DownIcon,
		})
		if err != nil {
			return nil, fmt.Errorf("create animator: %w", err)
		}
		e.animator = animator
	}

	return e, nil
}

// Start records the baseline sample and the reference frame time.
// Step calls it on first use.
func (e *Engine) Start(ctx context.Context, now time.Time) {
	e.estimator.Prime(ctx, now)
	e.lastFrame = now
	// The first sample lands on the first frame whose counter is a multiple
	// of NRefresh, one full cadence after the baseline.
	e.refreshCounter = e.cfg.NRefresh - 1
	e.started = true
}

// Step computes one frame at the given instant and returns it along with the
// delay before the next one.
func (e *Engine) Step(ctx context.Context, now time.Time) Frame {
	if !e.started {
		e.Start(ctx, now)
	}

	var frame Frame
	if e.refreshCounter%e.cfg.NRefresh == 0 {
		reading := e.estimator.Update(ctx, now)
		e.refreshCounter = 0
		frame.Sampled = true
		frame.Held = reading.Held
	}
	frame.Speed = e.estimator.Speed()

	frame.UpGlyph, frame.DownGlyph = e.cfg.UpIcon, e.cfg.DownIcon
	if e.animator != nil {
		frame.Advances = e.animator.Step(frame.Speed, now.Sub(e.lastFrame))
		frame.UpPhase, frame.DownPhase = e.animator.Phases()
		frame.UpGlyph, frame.DownGlyph = e.animator.Glyphs()
	}

	frame.Line = FormatLine(frame.UpGlyph, frame.Speed.Up, frame.DownGlyph, frame.Speed.Down)
	e.lastFrame = now

	if e.animator != nil {
		frame.Delay = e.pacer.Update(frame.Advances.Up, frame.Advances.Down)
	} else {
		frame.Delay = e.pacer.Base()
	}

	e.refreshCounter++
	return frame
}

// Run renders frames until ctx is canceled or the output fails. Cancellation
// is not an error.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("Status line started",
		"interval", e.cfg.RefreshInterval(),
		"nrefresh", e.cfg.NRefresh,
		"animated", e.cfg.AnimatedIcons,
	)
	defer slog.Info("Status line stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}

		frame := e.Step(ctx, e.clock.Now())
		if _, err := io.WriteString(e.out, frame.Line+"\n"); err != nil {
			return fmt.Errorf("write status line: %w", err)
		}

		if err := e.clock.Sleep(ctx, frame.Delay); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("wait for next frame: %w", err)
		}
	}
}

// FormatLine renders a status line with both speeds right-aligned in
// ten-character fields.
func FormatLine(upGlyph string, up uint64, downGlyph string, down uint64) string {
	return fmt.Sprintf("%s %10s %s %10s", upGlyph, stats.FormatBitRate(up), downGlyph, stats.FormatBitRate(down))
}
