// Package dynamics turns a typing persona into concrete keystroke timing.
//
// The engine models the anatomical and cognitive structure of real typing:
// per-finger speeds, row travel, same-finger conflicts, hand alternation,
// bigram habits, warm-up, fatigue, motor chunking, pacing across the text,
// rhythmic drift, and serially correlated noise. All randomness flows
// through a single injected source, so a seeded engine replays exactly.
//
// An Engine belongs to one typing session on one goroutine. It is not safe
// for concurrent use.
package dynamics

import (
	"math"
	"math/rand"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostwriter/internal/keyboard"
	"github.com/xkilldash9x/ghostwriter/internal/profile"
)

// minDelayMs is the floor for any inter-key interval. Below this the
// automation transport cannot keep distinct events apart.
const minDelayMs = 2.0

// fatigueRampWords is how many words fatigue takes to reach its plateau
// once it sets in.
const fatigueRampWords = 60.0

// Engine generates inter-key delays and hold durations for one session.
// All values are in milliseconds.
type Engine struct {
	profile *profile.Profile
	layout  *keyboard.Layout
	rng     *rand.Rand
	logger  *zap.Logger

	totalWords int

	keySpacings  []float64
	keyDurations []float64

	prevChar   rune
	prevFinger int
	prevRow    int
	hasPrev    bool

	wordCount  int
	charInWord int
	totalChars int

	currentWord    string
	currentWordLen int
	wordDifficulty float64

	ar1Residual  float64
	lastDelay    float64
	hasLastDelay bool
}

// New builds an engine for a session of roughly totalWords words. The word
// count drives the pacing curve; pass 0 when the length is unknown to
// disable pacing.
func New(p *profile.Profile, layout *keyboard.Layout, rng *rand.Rand, logger *zap.Logger, totalWords int) *Engine {
	return &Engine{
		profile:    p,
		layout:     layout,
		rng:        rng,
		logger:     logger.Named("dynamics"),
		totalWords: totalWords,
	}
}

// ComputeDelay returns the interval in milliseconds between the previous
// keystroke and the one for ch, then advances the hand model.
func (e *Engine) ComputeDelay(ch rune) float64 {
	p := e.profile
	base := p.BaseInterval

	finger := e.layout.FingerOf(ch)
	row := e.layout.RowOf(ch)

	base *= keyboard.SpeedMultiplier(finger)

	// Travel cost between rows.
	if e.hasPrev {
		if dist := keyboard.RowDistance(e.prevRow, row); dist > 0 {
			base *= 1.0 + float64(dist)*uniform(0.06, 0.14, e.rng)
		}
	}

	// Finger conflicts are mutually exclusive; the most specific relation
	// wins so penalties never compound.
	sameKey := e.hasPrev && unicode.ToLower(e.prevChar) == unicode.ToLower(ch)
	sameFingerBigram := e.hasPrev && e.layout.SameFingerPair(e.prevChar, ch)
	sameFinger := e.hasPrev && finger == e.prevFinger && finger != keyboard.ThumbFinger

	switch {
	case sameKey:
		base *= uniform(1.25, 1.45, e.rng) * math.Pow(keyboard.HoldMultiplier(finger), 0.3)
	case sameFingerBigram:
		base *= uniform(1.18, 1.38, e.rng)
	case sameFinger:
		base *= uniform(1.12, 1.30, e.rng)
	case e.hasPrev && !keyboard.SameHand(finger, e.prevFinger):
		base *= uniform(0.85, 0.95, e.rng)
	case e.hasPrev:
		base *= uniform(0.96, 1.08, e.rng)
	}

	// Practiced letter pairs run on their own clock. This is a speed
	// lookup, not a penalty, so it stacks with the relation above.
	if e.hasPrev {
		bigram := string([]rune{unicode.ToLower(e.prevChar), unicode.ToLower(ch)})
		if speed, ok := p.BigramSpeeds[bigram]; ok {
			base *= speed * uniform(0.93, 1.07, e.rng)
		}
	}

	// Cognitive pause before a word, scaled by how awkward the word is.
	if e.charInWord == 0 {
		base *= p.WordStartExtra.Sample(e.rng)
		base *= 1.0 + e.wordDifficulty*p.DifficultyPauseScale*uniform(0.3, 0.7, e.rng)
	}

	// Warm-up decays linearly but jitters, real hands do not settle
	// smoothly.
	if e.wordCount < p.WarmupWords {
		progress := float64(e.wordCount) / float64(p.WarmupWords)
		smooth := p.WarmupSlowdown - (p.WarmupSlowdown-1.0)*progress
		base *= math.Max(1.0, smooth+e.rng.NormFloat64()*0.08)
	}

	if e.wordCount > p.FatigueOnsetWords {
		progress := math.Min(1.0, float64(e.wordCount-p.FatigueOnsetWords)/fatigueRampWords)
		base *= 1.0 + (p.FatigueMax-1.0)*progress
	}

	// Overlearned words fire as single motor programs once started; short
	// words burst regardless.
	if keyboard.IsMotorChunk(e.currentWord) && e.charInWord > 0 {
		base *= p.ChunkSpeedup
	} else if e.currentWordLen <= p.BurstMaxLen {
		base *= p.BurstSpeedup
	}

	// Pacing across the session: slow start, fast middle, deceleration
	// over the final stretch.
	if e.totalWords > 0 {
		progress := float64(e.wordCount) / float64(e.totalWords)
		sigmoid := 1.0 / (1.0 + math.Exp(-12*(progress-0.25)))
		endDecel := 1.0 + (p.FlowDecel-1.0)*math.Max(0, progress-0.85)/0.15
		base *= (1.0 - (1.0-p.FlowAccel)*sigmoid) * endDecel
	}

	if p.RhythmPeriod > 0 {
		phase := 2 * math.Pi * float64(e.totalChars) / p.RhythmPeriod
		base *= 1.0 + p.RhythmAmplitude*math.Sin(phase)
	}

	// Noise scales with the current base rather than the profile base so
	// the coefficient of variation survives the per-key multipliers.
	sigma := base * (p.ExGaussSigma / p.BaseInterval)
	tau := base * (p.ExGaussTau / p.BaseInterval)
	delay := exGaussian(base, sigma, tau, e.rng)

	// Serial correlation: a slow keystroke drags the next one.
	innovation := delay - base
	e.ar1Residual = p.AR1Phi*e.ar1Residual + innovation
	delay = base + e.ar1Residual

	delay = math.Max(minDelayMs, math.Min(delay, p.BaseInterval*2.0))

	e.keySpacings = append(e.keySpacings, delay)
	e.lastDelay = delay
	e.hasLastDelay = true

	e.prevChar = ch
	e.prevFinger = finger
	e.prevRow = row
	e.hasPrev = true
	e.charInWord++
	e.totalChars++

	e.logger.Debug("keystroke timed",
		zap.String("char", string(ch)),
		zap.Int("finger", finger),
		zap.Int("row", row),
		zap.Float64("delay_ms", delay))

	return delay
}

// ComputeHold returns how long the key for ch stays down, in milliseconds.
// Holds are right-skewed and correlate with the most recent delay, fast
// passages produce clipped holds.
func (e *Engine) ComputeHold(ch rune) float64 {
	p := e.profile
	finger := e.layout.FingerOf(ch)

	baseHold := p.HoldMean * keyboard.HoldMultiplier(finger)

	// Log-normal with the mean pinned to baseHold.
	ratio := p.HoldSigma / baseHold
	muLn := math.Log(baseHold) - 0.5*ratio*ratio
	hold := logNormal(muLn, math.Max(0.05, ratio), e.rng)

	switch e.layout.RowOf(ch) {
	case keyboard.HomeRow:
		hold *= uniform(0.88, 0.97, e.rng)
	case keyboard.NumberRow:
		hold *= uniform(1.05, 1.20, e.rng)
	}

	// The space bar gets a flat, practiced tap of its own.
	if ch == ' ' {
		hold = logNormal(math.Log(p.HoldMean*0.80), math.Max(0.05, p.HoldSigma*0.5/baseHold), e.rng)
	}

	if e.hasLastDelay {
		speedRatio := e.lastDelay / p.BaseInterval
		hold *= 0.4 + 0.6*math.Min(1.5, speedRatio)
	}

	hold = math.Max(p.HoldMin, math.Min(hold, p.HoldMax))
	e.keyDurations = append(e.keyDurations, hold)
	return hold
}

// ShouldOverlap reports whether the next keystroke should go down before
// the previous key has come up.
func (e *Engine) ShouldOverlap() bool {
	return e.rng.Float64() < e.profile.OverlapChance
}

// OverlapDuration draws how long both keys stay down together, in
// milliseconds.
func (e *Engine) OverlapDuration() float64 {
	return e.profile.OverlapTime.Sample(e.rng)
}

// SetWordContext installs the word about to be typed so chunking and
// difficulty pauses can see it.
func (e *Engine) SetWordContext(word string) {
	e.currentWord = word
	e.currentWordLen = utf8.RuneCountInString(word)
	e.wordDifficulty = e.layout.WordDifficulty(word)
}

// WordBoundary moves the engine onto the next word: the in-word position
// rewinds and the word count advances. Call it before the word's first
// character.
func (e *Engine) WordBoundary() {
	e.charInWord = 0
	e.wordCount++
}

// ResetCharInWord restarts the in-word position without advancing the word
// count. Used when a word is wiped and retyped from the beginning.
func (e *Engine) ResetCharInWord() {
	e.charInWord = 0
}

// MarkTyped advances the hand model for a character that produced no
// keystroke of its own, so the next delay still sees the true previous
// key.
func (e *Engine) MarkTyped(ch rune) {
	e.prevChar = ch
	e.prevFinger = e.layout.FingerOf(ch)
	e.prevRow = e.layout.RowOf(ch)
	e.hasPrev = true
	e.charInWord++
}

// PrevChar returns the last character the hand model saw, if any.
func (e *Engine) PrevChar() (rune, bool) {
	return e.prevChar, e.hasPrev
}

// SetTotalWords updates the expected word count mid-session, for sources
// that reveal text lazily. The pacing curve adapts to the new horizon.
func (e *Engine) SetTotalWords(n int) {
	e.totalWords = n
}

// WordCount returns how many words have been completed.
func (e *Engine) WordCount() int {
	return e.wordCount
}

// TotalChars returns how many timed keystrokes have been produced.
func (e *Engine) TotalChars() int {
	return e.totalChars
}

// KeySpacings returns the recorded inter-key intervals in milliseconds.
// The slice is owned by the engine.
func (e *Engine) KeySpacings() []float64 {
	return e.keySpacings
}

// KeyDurations returns the recorded hold times in milliseconds. The slice
// is owned by the engine.
func (e *Engine) KeyDurations() []float64 {
	return e.keyDurations
}
