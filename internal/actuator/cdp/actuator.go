package cdp

import (
	"context"
	"fmt"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/ghostwriter/internal/session"
)

// runActionsFunc executes chromedp actions against the session tab. Kept as
// a function value so the actuator can be exercised without a browser.
type runActionsFunc func(ctx context.Context, actions ...chromedp.Action) error

const (
	driftStep      = 50 * time.Millisecond
	driftFrequency = 0.8

	// Resting point the idle cursor wanders around.
	restX = 420.0
	restY = 300.0
)

// Actuator emits raw key events into one tab. It is driven from a single
// goroutine and is not safe for concurrent use.
type Actuator struct {
	run     runActionsFunc
	log     *zap.Logger
	limiter *rate.Limiter

	// Idle mouse drift state.
	noiseX     *perlin.Perlin
	noiseY     *perlin.Perlin
	noiseT     float64
	drift      float64
	driftAfter time.Duration

	// Runes typed through Input.insertText have no key to release.
	inserted map[rune]int
}

var (
	_ session.Actuator       = (*Actuator)(nil)
	_ session.SkipSuppressor = (*Actuator)(nil)
)

func newActuator(run runActionsFunc, cfg Config, log *zap.Logger) *Actuator {
	// Drift is cosmetic, so its noise is deliberately not tied to the
	// session seed.
	seed := time.Now().UnixNano()
	return &Actuator{
		run:        run,
		log:        log,
		limiter:    rate.NewLimiter(rate.Limit(cfg.MaxEventsPerSec), 1),
		noiseX:     perlin.NewPerlin(2.0, 2.0, 3, seed),
		noiseY:     perlin.NewPerlin(2.0, 2.0, 3, seed+1),
		drift:      cfg.DriftAmplitude,
		driftAfter: time.Second,
		inserted:   make(map[rune]int),
	}
}

// SuppressSkips reports true. Whatever the actuator types into will be read
// or submitted, so the driver must type skipped characters instead of
// dropping them.
func (a *Actuator) SuppressSkips() bool { return true }

// Press dispatches the keyDown (and char) events for ch. Runes outside the
// physical keymap fall back to Input.insertText, which pastes the character
// without a key event.
func (a *Actuator) Press(ctx context.Context, ch rune) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}

	params, err := kb.Encode(ch)
	if err != nil {
		a.inserted[ch]++
		if err := a.run(ctx, input.InsertText(string(ch))); err != nil {
			return fmt.Errorf("failed to insert %q: %w", ch, err)
		}
		return nil
	}

	down := make([]chromedp.Action, 0, 2)
	for _, p := range params {
		if p.Type != input.KeyUp {
			down = append(down, p)
		}
	}
	if err := a.run(ctx, down...); err != nil {
		return fmt.Errorf("failed to press %q: %w", ch, err)
	}
	return nil
}

// Release dispatches the keyUp event for ch. Inserted runes release to
// nothing.
func (a *Actuator) Release(ctx context.Context, ch rune) error {
	if n := a.inserted[ch]; n > 0 {
		a.inserted[ch] = n - 1
		return nil
	}

	params, err := kb.Encode(ch)
	if err != nil {
		return nil
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}

	up := make([]chromedp.Action, 0, 1)
	for _, p := range params {
		if p.Type == input.KeyUp {
			up = append(up, p)
		}
	}
	if err := a.run(ctx, up...); err != nil {
		return fmt.Errorf("failed to release %q: %w", ch, err)
	}
	return nil
}

// DeleteBackward holds the backspace key down for the given duration so a
// correction burst keeps its human pacing on the wire.
func (a *Actuator) DeleteBackward(ctx context.Context, hold time.Duration) error {
	params, err := kb.Encode('\b')
	if err != nil {
		return fmt.Errorf("backspace missing from keymap: %w", err)
	}
	var down, up []chromedp.Action
	for _, p := range params {
		if p.Type == input.KeyUp {
			up = append(up, p)
		} else {
			down = append(down, p)
		}
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := a.run(ctx, down...); err != nil {
		return fmt.Errorf("failed to press backspace: %w", err)
	}
	if err := sleep(ctx, hold); err != nil {
		return err
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := a.run(ctx, up...); err != nil {
		return fmt.Errorf("failed to release backspace: %w", err)
	}
	return nil
}

// Wait idles for d. Pauses long enough to read as "thinking" get filled with
// small perlin-noise cursor motion, the way a hand resting on a mouse never
// holds perfectly still.
func (a *Actuator) Wait(ctx context.Context, d time.Duration) error {
	if a.drift <= 0 || d < a.driftAfter {
		return sleep(ctx, d)
	}
	return a.idleDrift(ctx, d)
}

func (a *Actuator) idleDrift(ctx context.Context, d time.Duration) error {
	deadline := time.Now().Add(d)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		step := driftStep
		if step > remaining {
			step = remaining
		}
		if err := sleep(ctx, step); err != nil {
			return err
		}

		a.noiseT += step.Seconds()
		move := input.DispatchMouseEvent(input.MouseMoved,
			restX+a.noiseX.Noise1D(a.noiseT*driftFrequency)*a.drift,
			restY+a.noiseY.Noise1D(a.noiseT*driftFrequency)*a.drift,
		)
		if err := a.run(ctx, move); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Drift is decoration. Finish the wait without it.
			a.log.Debug("Idle mouse drift failed, waiting plainly", zap.Error(err))
			return sleep(ctx, time.Until(deadline))
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
