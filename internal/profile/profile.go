// Package profile builds the per-session persona that every other typing
// component reads from: base interval, noise shape, hold distribution, error
// rates, and the session-randomized bigram speed table. Every randomized
// field is drawn exactly once at construction so a session is internally
// consistent without repeating across sessions.
package profile

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/xkilldash9x/ghostwriter/api/schemas"
)

const (
	// charsPerWord is the conversion between words-per-minute and
	// keystrokes: the usual five-character word.
	charsPerWord = 5

	// referenceWPM anchors the speed-dependent corrections.
	referenceWPM = 110

	// minHoldMs is the hard floor on key hold duration.
	minHoldMs = 25.0
)

// Span is an inclusive-exclusive uniform range [Lo, Hi).
type Span struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// Sample draws a uniform value from the span.
func (s Span) Sample(rng *rand.Rand) float64 {
	return s.Lo + rng.Float64()*(s.Hi-s.Lo)
}

// IntSpan is an inclusive integer range.
type IntSpan struct {
	Lo int `json:"lo" yaml:"lo"`
	Hi int `json:"hi" yaml:"hi"`
}

// Sample draws a uniform integer from [Lo, Hi].
func (s IntSpan) Sample(rng *rand.Rand) int {
	if s.Hi <= s.Lo {
		return s.Lo
	}
	return s.Lo + rng.Intn(s.Hi-s.Lo+1)
}

// Profile is the immutable persona for one typing session. Fields are
// exported for the engine and driver to read; nothing mutates a Profile
// after New returns. All durations are in milliseconds.
type Profile struct {
	TargetWPM float64 `json:"target_wpm"`

	// BaseInterval is the nominal keyDown-to-keyDown interval, already
	// inflated by the speed correction.
	BaseInterval float64 `json:"base_interval_ms"`

	// TargetConsistency and TargetDispersion size the noise parameters;
	// they are aimed for, not enforced.
	TargetConsistency float64 `json:"target_consistency"`
	TargetDispersion  float64 `json:"target_dispersion"`

	// Key hold distribution.
	HoldMean  float64 `json:"hold_mean_ms"`
	HoldSigma float64 `json:"hold_sigma_ms"`
	HoldMin   float64 `json:"hold_min_ms"`
	HoldMax   float64 `json:"hold_max_ms"`

	// Ex-Gaussian noise: Gaussian core sigma and exponential tail tau.
	ExGaussSigma float64 `json:"exgauss_sigma_ms"`
	ExGaussTau   float64 `json:"exgauss_tau_ms"`

	// Error model.
	TypoChance          float64                       `json:"typo_chance"`
	LeaveMistakeChance  float64                       `json:"leave_mistake_chance"`
	ErrorWeights        map[schemas.ErrorType]float64 `json:"error_weights"`
	DelayedNoticeChance float64                       `json:"delayed_notice_chance"`
	DelayedNoticeChars  IntSpan                       `json:"delayed_notice_chars"`
	OverBackspaceChance float64                       `json:"over_backspace_chance"`

	// Word boundary timing.
	WordStartExtra Span    `json:"word_start_extra"`
	SpaceGap       Span    `json:"space_gap"`
	ThinkChance    float64 `json:"think_chance"`
	ThinkPause     Span    `json:"think_pause"`

	// Warm-up and fatigue arcs, in words.
	WarmupWords       int     `json:"warmup_words"`
	WarmupSlowdown    float64 `json:"warmup_slowdown"`
	FatigueMax        float64 `json:"fatigue_max"`
	FatigueOnsetWords int     `json:"fatigue_onset_words"`

	// Burst typing.
	BurstMaxLen  int     `json:"burst_max_len"`
	BurstSpeedup float64 `json:"burst_speedup"`
	ChunkSpeedup float64 `json:"chunk_speedup"`

	// Correction pacing (milliseconds).
	CorrectionReact Span `json:"correction_react_ms"`
	BackspaceDelay  Span `json:"backspace_delay_ms"`

	// Key rollover.
	OverlapChance float64 `json:"overlap_chance"`
	OverlapTime   Span    `json:"overlap_time_ms"`

	// Serial correlation and slow modulation.
	AR1Phi          float64 `json:"ar1_phi"`
	RhythmAmplitude float64 `json:"rhythm_amplitude"`
	RhythmPeriod    float64 `json:"rhythm_period"`
	FlowAccel       float64 `json:"flow_accel"`
	FlowDecel       float64 `json:"flow_decel"`

	DifficultyPauseScale float64 `json:"difficulty_pause_scale"`

	// BigramSpeeds is the session-randomized fast/slow pair table.
	BigramSpeeds map[string]float64 `json:"bigram_speeds"`
}

// ConsistencyBand returns the consistency range personas of the given speed
// are drawn from. Faster typists are steadier.
func ConsistencyBand(targetWPM float64) Span {
	switch {
	case targetWPM < 80:
		return Span{50, 65}
	case targetWPM < 120:
		return Span{60, 75}
	case targetWPM < 160:
		return Span{68, 82}
	default:
		return Span{72, 85}
	}
}

// New draws a complete persona for the given target speed. The draw order is
// fixed; with a seeded rng the same speed always yields the same persona.
func New(targetWPM float64, rng *rand.Rand) (*Profile, error) {
	if targetWPM <= 0 {
		return nil, fmt.Errorf("profile: target wpm must be positive, got %.1f", targetWPM)
	}

	p := &Profile{TargetWPM: targetWPM}

	// Nominal interval, inflated because word-start pauses and space gaps
	// consume part of the budget. The correction approaches a ceiling as
	// speed grows.
	raw := 60000.0 / (targetWPM * charsPerWord)
	speedRatio := math.Min(2.0, targetWPM/referenceWPM)
	p.BaseInterval = raw * math.Min(1.25, 1.04+0.10*speedRatio)

	p.TargetConsistency = ConsistencyBand(targetWPM).Sample(rng)
	p.TargetDispersion = DispersionFromConsistency(p.TargetConsistency)

	// Hold sits inside the interval, roughly 40-55% of it.
	p.HoldMean = p.BaseInterval * Span{0.40, 0.55}.Sample(rng)
	p.HoldSigma = p.HoldMean * Span{0.25, 0.40}.Sample(rng)
	p.HoldMin = minHoldMs
	p.HoldMax = p.BaseInterval * 1.5

	p.ExGaussSigma = p.BaseInterval * Span{0.08, 0.15}.Sample(rng)
	p.ExGaussTau = p.BaseInterval * Span{0.05, 0.12}.Sample(rng)

	// Error rate rises gently with speed and plateaus at 100 WPM; fast
	// typists are skilled, not sloppy.
	errorFactor := 0.8 + 0.2*math.Min(1.0, targetWPM/100)
	p.TypoChance = 0.018 * errorFactor
	p.LeaveMistakeChance = Span{0.08, 0.15}.Sample(rng)

	speedFactor := math.Max(0.5, speedRatio)
	p.ErrorWeights = map[schemas.ErrorType]float64{
		schemas.ErrorAdjacent:  0.45,
		schemas.ErrorTranspose: 0.15 + 0.05*speedFactor,
		schemas.ErrorConfusion: 0.15,
		schemas.ErrorDoubleTap: 0.10 + 0.02*speedFactor,
		schemas.ErrorSkip:      0.06 + 0.02*speedFactor,
	}

	p.DelayedNoticeChance = 0.30
	p.DelayedNoticeChars = IntSpan{1, 3}
	p.OverBackspaceChance = 0.12

	p.WordStartExtra = Span{1.05, 1.25}
	p.SpaceGap = Span{0.75, 1.30}
	p.ThinkChance = 0.04
	p.ThinkPause = Span{2.0, 5.0}

	p.WarmupWords = IntSpan{2, 5}.Sample(rng)
	p.WarmupSlowdown = Span{1.10, 1.30}.Sample(rng)
	p.FatigueMax = Span{1.10, 1.30}.Sample(rng)
	p.FatigueOnsetWords = IntSpan{40, 70}.Sample(rng)

	p.BurstMaxLen = 4
	p.BurstSpeedup = Span{0.72, 0.85}.Sample(rng)
	p.ChunkSpeedup = Span{0.62, 0.78}.Sample(rng)

	p.CorrectionReact = Span{100, 350}
	p.BackspaceDelay = Span{30, 90}

	p.OverlapChance = math.Min(0.40, targetWPM/500)
	p.OverlapTime = Span{5, 35}

	p.AR1Phi = Span{0.10, 0.30}.Sample(rng)
	p.RhythmAmplitude = Span{0.02, 0.05}.Sample(rng)
	p.RhythmPeriod = Span{12, 25}.Sample(rng)
	p.FlowAccel = Span{0.92, 0.97}.Sample(rng)
	p.FlowDecel = Span{1.02, 1.08}.Sample(rng)

	p.DifficultyPauseScale = Span{0.3, 0.8}.Sample(rng)

	p.BigramSpeeds = generateBigramSpeeds(rng)

	return p, nil
}

// Validate checks a profile for internally consistent parameters. Hand-built
// profiles (tests, replays) go through the same gate as sampled ones.
func (p *Profile) Validate() error {
	if p.BaseInterval <= 0 {
		return fmt.Errorf("profile: base interval %.3fms not positive", p.BaseInterval)
	}
	if p.HoldMax < p.HoldMin {
		return fmt.Errorf("profile: hold ceiling %.1fms below floor %.1fms", p.HoldMax, p.HoldMin)
	}
	if p.TypoChance < 0 || p.TypoChance > 1 {
		return fmt.Errorf("profile: typo chance %.3f outside [0,1]", p.TypoChance)
	}
	if p.AR1Phi < 0 || p.AR1Phi >= 1 {
		return fmt.Errorf("profile: ar1 phi %.3f outside [0,1)", p.AR1Phi)
	}
	for et, w := range p.ErrorWeights {
		if w < 0 {
			return fmt.Errorf("profile: negative weight %.3f for error type %s", w, et)
		}
	}
	return nil
}
