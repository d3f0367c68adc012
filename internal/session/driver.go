// Package session drives one full typing session. The Driver walks the text
// word by word, asks the dynamics engine for timing and the typo engine for
// slips, acts everything out against an Actuator, and records a replayable
// transcript with a closing report.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostwriter/api/schemas"
	"github.com/xkilldash9x/ghostwriter/internal/dynamics"
	"github.com/xkilldash9x/ghostwriter/internal/keyboard"
	"github.com/xkilldash9x/ghostwriter/internal/profile"
	"github.com/xkilldash9x/ghostwriter/internal/typos"
)

// minWaitMs is the shortest sleep the driver schedules. Anything below this
// is indistinguishable from actuator dispatch jitter.
const minWaitMs = 2.0

// ErrNoWords is returned when a session is started over text or a word
// source that yields nothing typeable.
var ErrNoWords = errors.New("session: no words to type")

// WordSource reveals words one at a time. Next returns io.EOF once the
// source is drained; other errors abort the session. It is the same shape
// as the text package sources, declared here so the driver does not care
// where words come from.
type WordSource interface {
	Next(ctx context.Context) (string, error)
}

// Driver runs typing sessions against an Actuator. It owns the random
// stream, the per-session engines, and the transcript under construction.
// A Driver runs one session at a time; it is not safe for concurrent use.
type Driver struct {
	profile *profile.Profile
	layout  *keyboard.Layout
	act     Actuator
	logger  *zap.Logger
	rng     *rand.Rand
	seed    int64
	policy  SkipPolicy

	// Per-run state, rebuilt by reset.
	dyn  *dynamics.Engine
	errs *typos.Engine

	// prevHold is the hold duration of the last typed key. It already
	// passed as key-down time, so it is subtracted from the next
	// keyDown-to-keyDown budget.
	prevHold float64

	// held tracks a key left down by a rollover keystroke.
	held    rune
	hasHeld bool

	events []schemas.TimedKeystroke

	// pendingMs is wait time already acted out but not yet attributed to
	// an event; the next recorded event absorbs it as its delay.
	pendingMs float64
	elapsedMs float64

	corrections     int
	errorsInjected  int
	errorsByType    map[schemas.ErrorType]int
	skipsSuppressed int
}

// Option adjusts a Driver at construction.
type Option func(*Driver)

// WithSeed derives the session's random stream from a fixed seed, making
// the run reproducible.
func WithSeed(seed int64) Option {
	return func(d *Driver) {
		d.seed = seed
		d.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRandom supplies a live random stream together with the seed it was
// created from. Sharing one stream between profile construction and the
// driver lets a (wpm, seed) pair fully determine a session.
func WithRandom(rng *rand.Rand, seed int64) Option {
	return func(d *Driver) {
		d.seed = seed
		d.rng = rng
	}
}

// WithLayout replaces the default QWERTY layout.
func WithLayout(layout *keyboard.Layout) Option {
	return func(d *Driver) {
		d.layout = layout
	}
}

// WithSkipPolicy overrides the skip handling inferred from the actuator.
func WithSkipPolicy(p SkipPolicy) Option {
	return func(d *Driver) {
		d.policy = p
	}
}

// New builds a Driver over the given actuator and persona. With no options
// the random stream is seeded from the clock and the layout is QWERTY. If
// the actuator implements SkipSuppressor and asks for it, skipped
// characters are typed normally instead of dropped; WithSkipPolicy wins
// over the capability either way.
func New(act Actuator, p *profile.Profile, logger *zap.Logger, opts ...Option) (*Driver, error) {
	if act == nil {
		return nil, fmt.Errorf("session: nil actuator")
	}
	if p == nil {
		return nil, fmt.Errorf("session: nil profile")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("session: bad profile: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := time.Now().UnixNano()
	d := &Driver{
		profile: p,
		layout:  keyboard.QWERTY(),
		act:     act,
		logger:  logger.With(zap.String("component", "session")),
		rng:     rand.New(rand.NewSource(seed)),
		seed:    seed,
		policy:  SkipEnact,
	}
	if s, ok := act.(SkipSuppressor); ok && s.SuppressSkips() {
		d.policy = SkipSuppress
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// NewTestDriver wires a Driver with a fixed seed and a nop logger. The
// profile is drawn from the same stream the driver then types with, so the
// (wpm, seed) pair pins the whole session.
func NewTestDriver(act Actuator, wpm float64, seed int64) (*Driver, error) {
	rng := rand.New(rand.NewSource(seed))
	p, err := profile.New(wpm, rng)
	if err != nil {
		return nil, err
	}
	return New(act, p, zap.NewNop(), WithRandom(rng, seed))
}

// Run types text against the actuator and returns the finished transcript.
// Words are whitespace separated; one space is typed between words and none
// after the last. Run may be called again on the same Driver; each call is
// a fresh session continuing the same random stream.
func (d *Driver) Run(ctx context.Context, text string) (*schemas.Transcript, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, ErrNoWords
	}

	d.reset(len(words))
	started := time.Now().UTC()
	d.logger.Info("session starting",
		zap.Int("words", len(words)),
		zap.Float64("target_wpm", d.profile.TargetWPM),
		zap.Int64("seed", d.seed),
		zap.Stringer("skip_policy", d.policy))

	for i, word := range words {
		if err := d.typeWord(ctx, word, i, i == len(words)-1); err != nil {
			return nil, fmt.Errorf("session: word %d %q: %w", i, word, err)
		}
	}
	return d.finish(ctx, started, words)
}

// RunSource types words as a source reveals them. The word count is unknown
// up front, so the session pacing arc stays neutral; everything else matches
// Run. A context cancellation while waiting on the source ends the session
// cleanly with whatever was typed, so tailing a live file and interrupting
// it still yields a transcript. Cancellation mid-word aborts as usual.
func (d *Driver) RunSource(ctx context.Context, src WordSource) (*schemas.Transcript, error) {
	d.reset(0)
	started := time.Now().UTC()
	d.logger.Info("session starting",
		zap.Float64("target_wpm", d.profile.TargetWPM),
		zap.Int64("seed", d.seed),
		zap.Stringer("skip_policy", d.policy))

	var words []string
	for {
		word, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, context.Canceled) && len(words) > 0 {
				d.logger.Info("source interrupted, closing session",
					zap.Int("words_typed", len(words)))
				break
			}
			return nil, fmt.Errorf("session: word source: %w", err)
		}
		if word == "" {
			continue
		}
		// The inter-word space precedes each word after the first, instead
		// of trailing the one before it. The keystroke stream is identical;
		// it just means a word in hand is always typed to completion.
		if len(words) > 0 {
			if err := d.spaceAndBreath(ctx); err != nil {
				return nil, fmt.Errorf("session: word %d gap: %w", len(words), err)
			}
		}
		if err := d.typeWord(ctx, word, len(words), true); err != nil {
			return nil, fmt.Errorf("session: word %d %q: %w", len(words), word, err)
		}
		words = append(words, word)
	}
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	return d.finish(ctx, started, words)
}

// finish lifts any held key, builds the report, and assembles the
// transcript for a completed session.
func (d *Driver) finish(ctx context.Context, started time.Time, words []string) (*schemas.Transcript, error) {
	if err := d.releaseHeld(ctx); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	report := d.buildReport(id, len(words))
	d.logger.Info("session finished",
		zap.String("session_id", id),
		zap.Float64("realized_wpm", report.RealizedWPM),
		zap.Float64("key_consistency", report.KeyConsistency),
		zap.Int("errors_injected", report.ErrorsInjected),
		zap.Int("corrections", report.Corrections))

	return &schemas.Transcript{
		ID:        id,
		CreatedAt: started,
		TargetWPM: d.profile.TargetWPM,
		Seed:      d.seed,
		Layout:    d.layout.Name(),
		Text:      strings.Join(words, " "),
		Events:    d.events,
		Report:    report,
	}, nil
}

func (d *Driver) reset(totalWords int) {
	d.dyn = dynamics.New(d.profile, d.layout, d.rng, d.logger, totalWords)
	d.errs = typos.New(d.profile, d.layout, d.rng)
	d.prevHold = 0
	d.held, d.hasHeld = 0, false
	d.events = nil
	d.pendingMs, d.elapsedMs = 0, 0
	d.corrections, d.errorsInjected, d.skipsSuppressed = 0, 0, 0
	d.errorsByType = make(map[schemas.ErrorType]int)
}

// typeWord acts out one word: error checks per character, the characters
// themselves, then the trailing space unless this is the last word.
func (d *Driver) typeWord(ctx context.Context, word string, wordIndex int, last bool) error {
	d.dyn.WordBoundary()
	d.dyn.SetWordContext(word)
	d.prevHold = 0

	chars := []rune(word)
	i := 0
	for i < len(chars) {
		if err := ctx.Err(); err != nil {
			return err
		}
		ch := chars[i]

		prev, hasPrev := d.dyn.PrevChar()
		if d.errs.ShouldMakeError(ch, i, word, wordIndex, prev, hasPrev) {
			next, handled, err := d.enactError(ctx, d.errs.PickType(i, word), chars, i, word)
			if err != nil {
				return err
			}
			if handled {
				i = next
				continue
			}
		}

		if err := d.keystroke(ctx, ch, i); err != nil {
			return err
		}
		i++
	}

	if err := d.releaseHeld(ctx); err != nil {
		return err
	}
	if last {
		return nil
	}
	return d.spaceAndBreath(ctx)
}

// keystroke acts one in-order character, possibly rolling it over the
// previous key.
func (d *Driver) keystroke(ctx context.Context, ch rune, index int) error {
	delay := d.dyn.ComputeDelay(ch)
	hold := d.dyn.ComputeHold(ch)
	iki := math.Max(minWaitMs, delay-d.prevHold)

	// The rollover draw is consumed even when position zero rules it out,
	// keeping the stream stable across word boundaries.
	rollover := d.dyn.ShouldOverlap()
	if rollover && index > 0 {
		return d.rolloverKeystroke(ctx, ch, iki, hold)
	}

	if err := d.typeChar(ctx, ch, iki, hold, false); err != nil {
		return err
	}
	d.prevHold = hold
	return nil
}

// rolloverKeystroke presses ch while the previous key is still down and
// releases the old key after the overlap window. The new key stays down
// until the next keystroke or the word boundary lifts it.
func (d *Driver) rolloverKeystroke(ctx context.Context, ch rune, iki, hold float64) error {
	ov := d.dyn.OverlapDuration()
	if err := d.pause(ctx, math.Max(minWaitMs, iki-ov)); err != nil {
		return err
	}
	if err := d.act.Press(ctx, ch); err != nil {
		return err
	}
	d.record(schemas.EventPress, string(ch), hold, false)
	if err := d.holdWait(ctx, ov); err != nil {
		return err
	}
	if err := d.releaseHeld(ctx); err != nil {
		return err
	}
	if err := d.holdWait(ctx, math.Max(minWaitMs, hold-ov)); err != nil {
		return err
	}
	d.held, d.hasHeld = ch, true
	d.prevHold = hold
	return nil
}

// spaceAndBreath types the inter-word space and occasionally takes a longer
// thinking pause. The space bypasses the delay pipeline entirely, so the
// hand model still remembers the last letter of the word.
func (d *Driver) spaceAndBreath(ctx context.Context) error {
	gap := d.profile.BaseInterval * d.profile.SpaceGap.Sample(d.rng)
	hold := d.dyn.ComputeHold(' ')
	if err := d.typeChar(ctx, ' ', math.Max(minWaitMs, gap-d.prevHold), hold, false); err != nil {
		return err
	}
	if d.rng.Float64() < d.profile.ThinkChance {
		think := d.profile.BaseInterval * d.profile.ThinkPause.Sample(d.rng)
		return d.pause(ctx, think)
	}
	return nil
}

// enactError runs the protocol for kind at position i. handled reports
// whether the protocol consumed the position; when false the caller types
// the character normally (transposition at the last character, whole-word
// typos past the first character, suppressed skips, unknown kinds).
func (d *Driver) enactError(ctx context.Context, kind schemas.ErrorType, chars []rune, i int, word string) (next int, handled bool, err error) {
	switch kind {
	case schemas.ErrorCommonTypo:
		if i != 0 {
			return 0, false, nil
		}
		return d.enactCommonTypo(ctx, chars, word)
	case schemas.ErrorTranspose:
		if i >= len(chars)-1 {
			return 0, false, nil
		}
		return d.enactTranspose(ctx, chars, i)
	case schemas.ErrorAdjacent:
		return d.enactAdjacent(ctx, chars, i)
	case schemas.ErrorConfusion:
		return d.enactConfusion(ctx, chars, i)
	case schemas.ErrorDoubleTap:
		return d.enactDoubleTap(ctx, chars, i)
	case schemas.ErrorSkip:
		return d.enactSkip(ctx, chars, i)
	default:
		d.logger.Warn("unhandled error type, typing normally",
			zap.String("error_type", string(kind)))
		return 0, false, nil
	}
}

// enactCommonTypo types a whole misspelled rendition of the word, then
// usually erases it and retypes the word correctly.
func (d *Driver) enactCommonTypo(ctx context.Context, chars []rune, word string) (int, bool, error) {
	spelling, ok := d.errs.TypoSpelling(word)
	if !ok {
		return 0, false, nil
	}
	if err := d.releaseHeld(ctx); err != nil {
		return 0, false, err
	}
	d.prevHold = 0
	d.countError(schemas.ErrorCommonTypo)

	for _, tc := range spelling {
		if err := d.typePlain(ctx, tc, false); err != nil {
			return 0, false, err
		}
	}

	if d.errs.ShouldCorrect() {
		if err := d.pause(ctx, d.profile.CorrectionReact.Sample(d.rng)); err != nil {
			return 0, false, err
		}
		d.prevHold = 0
		total := utf8.RuneCountInString(spelling)
		if d.errs.ShouldOverBackspace() {
			total++
		}
		for n := 0; n < total; n++ {
			if err := d.backspace(ctx, true); err != nil {
				return 0, false, err
			}
		}
		d.dyn.ResetCharInWord()
		d.prevHold = 0
		for _, cc := range chars {
			if err := d.typePlain(ctx, cc, true); err != nil {
				return 0, false, err
			}
		}
		d.corrections++
	}
	// The typo replaced the whole word, corrected or not.
	return len(chars), true, nil
}

// enactTranspose types the current and next characters swapped. Detection
// may lag a few characters past the swap before the backspace burst.
func (d *Driver) enactTranspose(ctx context.Context, chars []rune, i int) (int, bool, error) {
	if err := d.releaseHeld(ctx); err != nil {
		return 0, false, err
	}
	d.countError(schemas.ErrorTranspose)

	if err := d.typePlain(ctx, chars[i+1], false); err != nil {
		return 0, false, err
	}
	if err := d.typePlain(ctx, chars[i], false); err != nil {
		return 0, false, err
	}

	if !d.errs.ShouldCorrect() {
		return i + 2, true, nil
	}

	extra := 0
	if d.errs.ShouldDelayNotice() && i+2 < len(chars) {
		n := d.errs.DelayedCharCount()
		if lim := len(chars) - i - 2; n > lim {
			n = lim
		}
		for k := 0; k < n; k++ {
			if err := d.typePlain(ctx, chars[i+2+k], false); err != nil {
				return 0, false, err
			}
		}
		extra = n
	}

	if err := d.fixTail(ctx, chars, i, 2, extra); err != nil {
		return 0, false, err
	}
	return i + 2 + extra, true, nil
}

// enactAdjacent hits a neighboring key instead of the intended one.
func (d *Driver) enactAdjacent(ctx context.Context, chars []rune, i int) (int, bool, error) {
	if err := d.releaseHeld(ctx); err != nil {
		return 0, false, err
	}
	d.countError(schemas.ErrorAdjacent)

	if err := d.typePlain(ctx, d.errs.AdjacentTypo(chars[i]), false); err != nil {
		return 0, false, err
	}

	if !d.errs.ShouldCorrect() {
		return i + 1, true, nil
	}

	extra := 0
	if d.errs.ShouldDelayNotice() && i+1 < len(chars) {
		n := d.errs.DelayedCharCount()
		if lim := len(chars) - i - 1; n > lim {
			n = lim
		}
		for k := 0; k < n; k++ {
			if err := d.typePlain(ctx, chars[i+1+k], false); err != nil {
				return 0, false, err
			}
		}
		extra = n
	}

	if err := d.fixTail(ctx, chars, i, 1, extra); err != nil {
		return 0, false, err
	}
	return i + 1 + extra, true, nil
}

// enactConfusion substitutes a mentally confused character. Correction is a
// single quick backspace and an immediate retype; the hand model keeps the
// wrong key as its previous position either way.
func (d *Driver) enactConfusion(ctx context.Context, chars []rune, i int) (int, bool, error) {
	if err := d.releaseHeld(ctx); err != nil {
		return 0, false, err
	}
	d.countError(schemas.ErrorConfusion)

	ch := chars[i]
	wrong := d.errs.ConfusionTypo(ch)
	delay := d.dyn.ComputeDelay(wrong)
	hold := d.dyn.ComputeHold(wrong)
	if err := d.typeChar(ctx, wrong, math.Max(minWaitMs, delay-d.prevHold), hold, false); err != nil {
		return 0, false, err
	}

	if !d.errs.ShouldCorrect() {
		d.prevHold = hold
		return i + 1, true, nil
	}

	if err := d.pause(ctx, d.profile.CorrectionReact.Sample(d.rng)); err != nil {
		return 0, false, err
	}
	if err := d.backspace(ctx, true); err != nil {
		return 0, false, err
	}
	fixHold := d.dyn.ComputeHold(ch)
	if err := d.typeChar(ctx, ch, 0, fixHold, true); err != nil {
		return 0, false, err
	}
	d.prevHold = fixHold
	d.corrections++
	return i + 1, true, nil
}

// enactDoubleTap bounces the key: the intended press plus an accidental
// second tap after a short finger-scaled gap.
func (d *Driver) enactDoubleTap(ctx context.Context, chars []rune, i int) (int, bool, error) {
	if err := d.releaseHeld(ctx); err != nil {
		return 0, false, err
	}
	d.countError(schemas.ErrorDoubleTap)

	ch := chars[i]
	delay := d.dyn.ComputeDelay(ch)
	hold := d.dyn.ComputeHold(ch)
	if err := d.typeChar(ctx, ch, math.Max(minWaitMs, delay-d.prevHold), hold, false); err != nil {
		return 0, false, err
	}

	mult := keyboard.HoldMultiplier(d.layout.FingerOf(ch))
	gap := math.Max(minWaitMs, d.profile.BaseInterval*0.25*mult+d.rng.NormFloat64()*15)
	hold2 := d.dyn.ComputeHold(ch)
	if err := d.typeChar(ctx, ch, gap, hold2, false); err != nil {
		return 0, false, err
	}

	if d.errs.ShouldCorrect() {
		if err := d.pause(ctx, d.profile.CorrectionReact.Sample(d.rng)); err != nil {
			return 0, false, err
		}
		if err := d.backspace(ctx, false); err != nil {
			return 0, false, err
		}
		d.prevHold = 0
		d.corrections++
	} else {
		d.prevHold = hold2
	}
	return i + 1, true, nil
}

// enactSkip drops the character entirely. Under SkipSuppress the character
// is handed back to the normal path and only the suppression is counted.
func (d *Driver) enactSkip(ctx context.Context, chars []rune, i int) (int, bool, error) {
	if d.policy == SkipSuppress {
		d.skipsSuppressed++
		return 0, false, nil
	}
	d.countError(schemas.ErrorSkip)
	d.dyn.MarkTyped(chars[i])
	d.record(schemas.EventSkip, string(chars[i]), 0, false)
	return i + 1, true, nil
}

// fixTail reacts, backspaces over the wrong entry plus any delayed-notice
// overshoot, and retypes the correct run. wrong is how many mistyped
// characters precede the overshoot; over-deleting pulls the retype start
// one position left.
func (d *Driver) fixTail(ctx context.Context, chars []rune, i, wrong, extra int) error {
	if err := d.pause(ctx, d.profile.CorrectionReact.Sample(d.rng)); err != nil {
		return err
	}
	d.prevHold = 0

	total := wrong + extra
	over := d.errs.ShouldOverBackspace()
	if over {
		total++
	}
	d.logger.Debug("correcting", zap.Int("backspaces", total), zap.Bool("overshot", over))
	for n := 0; n < total; n++ {
		if err := d.backspace(ctx, true); err != nil {
			return err
		}
	}

	start := i
	if over {
		start = i - 1
		if start < 0 {
			start = 0
		}
	}
	for ci := start; ci < i+wrong+extra; ci++ {
		if ci >= len(chars) {
			break
		}
		if err := d.typePlain(ctx, chars[ci], true); err != nil {
			return err
		}
	}
	d.corrections++
	return nil
}

// typePlain computes fresh timing for ch and types it as a simple
// press/release, budgeting the previous hold out of the gap.
func (d *Driver) typePlain(ctx context.Context, ch rune, correction bool) error {
	delay := d.dyn.ComputeDelay(ch)
	hold := d.dyn.ComputeHold(ch)
	if err := d.typeChar(ctx, ch, math.Max(minWaitMs, delay-d.prevHold), hold, correction); err != nil {
		return err
	}
	d.prevHold = hold
	return nil
}

// typeChar waits out the pre-key delay, then presses and releases ch. Any
// rolled-over key is released first. A zero delay presses immediately.
func (d *Driver) typeChar(ctx context.Context, ch rune, delayMs, holdMs float64, correction bool) error {
	if err := d.pause(ctx, delayMs); err != nil {
		return err
	}
	if err := d.releaseHeld(ctx); err != nil {
		return err
	}
	if err := d.act.Press(ctx, ch); err != nil {
		return err
	}
	if err := d.holdWait(ctx, holdMs); err != nil {
		return err
	}
	if err := d.act.Release(ctx, ch); err != nil {
		return err
	}
	d.record(schemas.EventPress, string(ch), holdMs, correction)
	return nil
}

// backspace performs one corrective deletion. gapAfter adds the
// inter-backspace gap that paces a multi-backspace burst.
func (d *Driver) backspace(ctx context.Context, gapAfter bool) error {
	hold := d.dyn.ComputeHold('a')
	if err := d.act.DeleteBackward(ctx, duration(hold)); err != nil {
		return err
	}
	d.elapsedMs += hold
	d.record(schemas.EventDelete, "", hold, true)
	if !gapAfter {
		return nil
	}
	return d.pause(ctx, d.profile.BackspaceDelay.Sample(d.rng))
}

// releaseHeld lifts the rolled-over key if one is down.
func (d *Driver) releaseHeld(ctx context.Context) error {
	if !d.hasHeld {
		return nil
	}
	ch := d.held
	d.hasHeld = false
	return d.act.Release(ctx, ch)
}

// pause sleeps through the actuator and banks the time toward the next
// recorded event's delay.
func (d *Driver) pause(ctx context.Context, ms float64) error {
	if ms <= 0 {
		return nil
	}
	if err := d.act.Wait(ctx, duration(ms)); err != nil {
		return err
	}
	d.elapsedMs += ms
	d.pendingMs += ms
	return nil
}

// holdWait sleeps through a key-down window that already belongs to the
// current event.
func (d *Driver) holdWait(ctx context.Context, ms float64) error {
	if ms <= 0 {
		return nil
	}
	if err := d.act.Wait(ctx, duration(ms)); err != nil {
		return err
	}
	d.elapsedMs += ms
	return nil
}

// record appends one transcript event, folding any waited-but-unattributed
// time into its delay.
func (d *Driver) record(kind schemas.EventKind, char string, holdMs float64, correction bool) {
	d.events = append(d.events, schemas.TimedKeystroke{
		Char:       char,
		Kind:       kind,
		DelayMs:    d.pendingMs,
		HoldMs:     holdMs,
		Correction: correction,
	})
	d.pendingMs = 0
}

func (d *Driver) countError(kind schemas.ErrorType) {
	d.errorsInjected++
	d.errorsByType[kind]++
}

func (d *Driver) buildReport(id string, words int) schemas.SessionReport {
	keyCons := 0.0
	if spacings := d.dyn.KeySpacings(); len(spacings) > 0 {
		keyCons = profile.ConsistencyOf(spacings)
	}
	holdCons := 0.0
	if durations := d.dyn.KeyDurations(); len(durations) > 0 {
		holdCons = profile.ConsistencyOf(durations)
	}
	realized := 0.0
	if d.elapsedMs > 0 {
		realized = float64(words) / (d.elapsedMs / 60000.0)
	}
	byType := d.errorsByType
	if len(byType) == 0 {
		byType = nil
	}
	return schemas.SessionReport{
		SessionID:         id,
		TargetWPM:         d.profile.TargetWPM,
		RealizedWPM:       round2(realized),
		TargetConsistency: round2(d.profile.TargetConsistency),
		KeyConsistency:    round2(keyCons),
		HoldConsistency:   round2(holdCons),
		TotalKeystrokes:   d.dyn.TotalChars(),
		Corrections:       d.corrections,
		ErrorsInjected:    d.errorsInjected,
		ErrorsByType:      byType,
		SkipsSuppressed:   d.skipsSuppressed,
		ElapsedMs:         round2(d.elapsedMs),
		Words:             words,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func duration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
