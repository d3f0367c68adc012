package keyboard

import (
	"strings"
	"unicode"
)

// motorChunks are short, overlearned words a practiced typist fires as a
// single motor program rather than letter by letter.
var motorChunks = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "has": {}, "his": {}, "how": {},
	"its": {}, "may": {}, "new": {}, "now": {}, "old": {}, "see": {},
	"way": {}, "who": {}, "did": {}, "get": {}, "let": {}, "say": {},
	"she": {}, "too": {}, "use": {}, "is": {}, "it": {}, "he": {},
	"we": {}, "do": {}, "no": {}, "so": {}, "up": {}, "if": {},
	"my": {}, "as": {}, "at": {}, "be": {}, "by": {}, "go": {},
	"in": {}, "me": {}, "of": {}, "on": {}, "or": {}, "to": {},
	"a": {}, "i": {},
}

// IsMotorChunk reports whether a word is typed as a single learned unit.
func IsMotorChunk(word string) bool {
	_, ok := motorChunks[strings.ToLower(word)]
	return ok
}

// letterFreq holds approximate English letter frequencies in percent,
// used for word difficulty scoring.
var letterFreq = map[rune]float64{
	'e': 13, 't': 9.1, 'a': 8.2, 'o': 7.5, 'i': 7.0, 'n': 6.7, 's': 6.3,
	'h': 6.1, 'r': 6.0, 'd': 4.3, 'l': 4.0, 'c': 2.8, 'u': 2.8, 'm': 2.4,
	'w': 2.4, 'f': 2.2, 'g': 2.0, 'y': 2.0, 'p': 1.9, 'b': 1.5, 'v': 1.0,
	'k': 0.8, 'j': 0.15, 'x': 0.15, 'q': 0.10, 'z': 0.07,
}

// letterFrequency returns the frequency for a letter, with a low default so
// unmapped characters (digits, punctuation) read as rare.
func letterFrequency(r rune) float64 {
	if f, ok := letterFreq[unicode.ToLower(r)]; ok {
		return f
	}
	return 0.5
}

// WordDifficulty scores a word from 0 (trivial) to 2 (very hard), combining
// length beyond three characters, letter rarity, and the number of
// same-finger bigrams under this layout.
func (l *Layout) WordDifficulty(word string) float64 {
	if word == "" {
		return 0
	}

	runes := []rune(strings.ToLower(word))

	length := float64(len(runes)-3) * 0.08
	if length < 0 {
		length = 0
	}

	var rarity float64
	for _, r := range runes {
		if d := 5.0 - letterFrequency(r); d > 0 {
			rarity += d * 0.02
		}
	}

	var bigrams float64
	for i := 0; i < len(runes)-1; i++ {
		if l.SameFingerPair(runes[i], runes[i+1]) {
			bigrams += 0.08
		}
	}

	score := length + rarity + bigrams
	if score > 2.0 {
		score = 2.0
	}
	return score
}
