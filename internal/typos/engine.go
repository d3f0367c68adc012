// Package typos decides when a simulated typist slips and what the slip
// looks like. Error pressure depends on where the character sits in its
// word, which finger owns the key, and how deep into the session the
// typist is. The kind of slip is drawn from per-persona weights.
//
// Like the timing engine, an Engine serves one session on one goroutine.
package typos

import (
	"math"
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xkilldash9x/ghostwriter/api/schemas"
	"github.com/xkilldash9x/ghostwriter/internal/keyboard"
	"github.com/xkilldash9x/ghostwriter/internal/profile"
)

// weightOrder fixes the draw order over the weighted slip kinds so a
// seeded session replays identically. Whole-word typos are gated
// separately and never appear here.
var weightOrder = []schemas.ErrorType{
	schemas.ErrorAdjacent,
	schemas.ErrorTranspose,
	schemas.ErrorConfusion,
	schemas.ErrorDoubleTap,
	schemas.ErrorSkip,
}

// Engine draws error decisions for one session.
type Engine struct {
	profile *profile.Profile
	layout  *keyboard.Layout
	rng     *rand.Rand
}

// New builds an error engine sharing the session's random stream.
func New(p *profile.Profile, layout *keyboard.Layout, rng *rand.Rand) *Engine {
	return &Engine{profile: p, layout: layout, rng: rng}
}

// ShouldMakeError reports whether a slip happens at this position. The
// base chance is shaped by position in the word (almost never the first
// character, peaking a few keys in), by pinky and number-row keys, by
// long words, by session fatigue, and by awkward same-finger row jumps
// from the previous key.
func (e *Engine) ShouldMakeError(ch rune, charIndex int, word string, wordIndex int, prev rune, hasPrev bool) bool {
	chance := e.profile.TypoChance

	switch {
	case charIndex == 0:
		chance *= 0.05
	case charIndex <= 2:
		chance *= 0.5
	case charIndex <= 5:
		chance *= 1.5
	}

	finger := e.layout.FingerOf(ch)
	if finger == 0 || finger == 7 {
		chance *= 1.5
	}
	if e.layout.RowOf(ch) == keyboard.NumberRow {
		chance *= 1.8
	}

	if utf8.RuneCountInString(word) > 6 && charIndex > 3 {
		chance *= 1.2
	}

	if wordIndex > 40 {
		chance *= 1.0 + math.Min(0.3, float64(wordIndex-40)/200)
	}

	if hasPrev {
		prevFinger := e.layout.FingerOf(prev)
		if prevFinger == finger && prevFinger != keyboard.ThumbFinger &&
			e.layout.RowOf(prev) != e.layout.RowOf(ch) {
			chance *= 1.6
		}
	}

	return e.rng.Float64() < chance
}

// PickType chooses which kind of slip to make. At the first character of
// a word with a known misspelling there is a small chance of committing
// to the whole wrong word; the chance shrinks with speed because fast
// typists rarely substitute words. Otherwise the persona's weights
// decide.
func (e *Engine) PickType(charIndex int, word string) schemas.ErrorType {
	if charIndex == 0 {
		if _, ok := commonTypos[strings.ToLower(word)]; ok {
			rate := 0.06
			if wpm := e.profile.TargetWPM; wpm > 100 {
				rate = math.Max(0.01, 0.06-0.001*(wpm-100))
			}
			if e.rng.Float64() < rate {
				return schemas.ErrorCommonTypo
			}
		}
	}

	var total float64
	for _, et := range weightOrder {
		total += e.profile.ErrorWeights[et]
	}

	r := e.rng.Float64() * total
	var cumulative float64
	for _, et := range weightOrder {
		cumulative += e.profile.ErrorWeights[et]
		if r < cumulative {
			return et
		}
	}
	return weightOrder[len(weightOrder)-1]
}

// TypoSpelling draws one of the known misspellings for word. The second
// return is false when the word has none.
func (e *Engine) TypoSpelling(word string) (string, bool) {
	spellings, ok := commonTypos[strings.ToLower(word)]
	if !ok {
		return "", false
	}
	return spellings[e.rng.Intn(len(spellings))], true
}

// AdjacentTypo returns a physically neighboring key for ch, preserving
// case. Characters without a mapped neighborhood slip to an arbitrary
// letter.
func (e *Engine) AdjacentTypo(ch rune) rune {
	var wrong rune
	if neighbors := e.layout.Neighbors(ch); neighbors != "" {
		candidates := []rune(neighbors)
		wrong = candidates[e.rng.Intn(len(candidates))]
	} else {
		wrong = rune(fallbackLetters[e.rng.Intn(len(fallbackLetters))])
	}
	if unicode.IsUpper(ch) {
		return unicode.ToUpper(wrong)
	}
	return wrong
}

// ConfusionTypo returns the letter the typist mixes ch up with, falling
// back to a neighboring key when no confusion pair exists.
func (e *Engine) ConfusionTypo(ch rune) rune {
	wrong, ok := confusionPairs[unicode.ToLower(ch)]
	if !ok {
		return e.AdjacentTypo(ch)
	}
	if unicode.IsUpper(ch) {
		return unicode.ToUpper(wrong)
	}
	return wrong
}

// ShouldCorrect reports whether the typist notices and fixes the slip.
func (e *Engine) ShouldCorrect() bool {
	return e.rng.Float64() > e.profile.LeaveMistakeChance
}

// ShouldDelayNotice reports whether the slip goes unnoticed for a few
// more keystrokes.
func (e *Engine) ShouldDelayNotice() bool {
	return e.rng.Float64() < e.profile.DelayedNoticeChance
}

// DelayedCharCount draws how many characters get typed before the slip
// registers.
func (e *Engine) DelayedCharCount() int {
	return e.profile.DelayedNoticeChars.Sample(e.rng)
}

// ShouldOverBackspace reports whether the correction wipes one character
// too many.
func (e *Engine) ShouldOverBackspace() bool {
	return e.rng.Float64() < e.profile.OverBackspaceChance
}
