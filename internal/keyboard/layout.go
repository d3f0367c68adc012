// Package keyboard models the physical side of typing: which finger strikes
// which key, key rows, hand alternation, and the derived difficulty of words.
// All lookups are pure and fall back to a neutral home-row key for characters
// the layout does not map.
package keyboard

import "unicode"

// Finger indices: 0-3 left pinky through left index, 4-7 right index through
// right pinky, 8 the thumb (space bar).
const (
	ThumbFinger = 8

	// defaultFinger and defaultRow are the explicit fallback for unmapped
	// characters: finger 5 and the home row both carry 1.0 multipliers.
	defaultFinger = 5
	defaultRow    = 2
)

// Rows: 0 number, 1 top, 2 home, 3 bottom, 4 space.
const (
	NumberRow = 0
	TopRow    = 1
	HomeRow   = 2
	BottomRow = 3
	SpaceRow  = 4
)

// fingerSpeed scales the base inter-key interval per striking finger.
// Pinkies are slow, index fingers fast, the thumb fastest.
var fingerSpeed = [9]float64{1.35, 1.15, 1.00, 0.90, 0.90, 1.00, 1.15, 1.35, 0.75}

// fingerHold scales key hold duration per finger.
var fingerHold = [9]float64{1.25, 1.12, 1.00, 0.88, 0.88, 1.00, 1.12, 1.25, 0.80}

// SpeedMultiplier returns the per-finger travel speed factor, 1.0 for
// out-of-range fingers.
func SpeedMultiplier(finger int) float64 {
	if finger < 0 || finger >= len(fingerSpeed) {
		return 1.0
	}
	return fingerSpeed[finger]
}

// HoldMultiplier returns the per-finger hold duration factor, 1.0 for
// out-of-range fingers.
func HoldMultiplier(finger int) float64 {
	if finger < 0 || finger >= len(fingerHold) {
		return 1.0
	}
	return fingerHold[finger]
}

// SameHand reports whether two fingers belong to the same hand. The thumb is
// shared and never counts as same-hand with anything.
func SameHand(f1, f2 int) bool {
	if f1 == ThumbFinger || f2 == ThumbFinger {
		return false
	}
	return (f1 <= 3 && f2 <= 3) || (f1 >= 4 && f2 >= 4)
}

// RowDistance returns the absolute row travel between two keys.
func RowDistance(r1, r2 int) int {
	if r1 > r2 {
		return r1 - r2
	}
	return r2 - r1
}

// Layout binds characters to fingers, rows, physical neighbors, and the
// same-finger bigram set. A Layout is immutable once handed to an engine.
type Layout struct {
	name       string
	fingers    map[rune]int
	rows       map[rune]int
	neighbors  map[rune]string
	sameFinger map[string]struct{}
}

// Name returns the layout identifier ("qwerty" for the default).
func (l *Layout) Name() string { return l.name }

// FingerOf returns the finger index for a character, lowercased first.
// Unmapped characters resolve to the neutral finger, never to zero.
func (l *Layout) FingerOf(r rune) int {
	if f, ok := l.fingers[unicode.ToLower(r)]; ok {
		return f
	}
	return defaultFinger
}

// RowOf returns the key row for a character, home row when unmapped.
func (l *Layout) RowOf(r rune) int {
	if row, ok := l.rows[unicode.ToLower(r)]; ok {
		return row
	}
	return defaultRow
}

// SameFingerPair reports whether typing prev then next uses the same finger
// on two distinct keys of the same column group.
func (l *Layout) SameFingerPair(prev, next rune) bool {
	_, ok := l.sameFinger[string([]rune{unicode.ToLower(prev), unicode.ToLower(next)})]
	return ok
}

// Neighbors returns the physically adjacent keys for a character in a fixed
// order, or an empty string when none are mapped.
func (l *Layout) Neighbors(r rune) string {
	return l.neighbors[unicode.ToLower(r)]
}

// QWERTY builds the standard US layout. Each call returns an independent
// instance so XML overlays can mutate their own copy.
func QWERTY() *Layout {
	l := &Layout{
		name: "qwerty",
		fingers: map[rune]int{
			'q': 0, 'a': 0, 'z': 0, '1': 0, '`': 0,
			'w': 1, 's': 1, 'x': 1, '2': 1,
			'e': 2, 'd': 2, 'c': 2, '3': 2,
			'r': 3, 'f': 3, 'v': 3, 't': 3, 'g': 3, 'b': 3, '4': 3, '5': 3,
			'y': 4, 'h': 4, 'n': 4, 'u': 4, 'j': 4, 'm': 4, '6': 4, '7': 4,
			'i': 5, 'k': 5, ',': 5, '8': 5,
			'o': 6, 'l': 6, '.': 6, '9': 6,
			'p': 7, ';': 7, '/': 7, '0': 7, '-': 7, '=': 7, '[': 7, ']': 7,
			'\'': 7, '\\': 7,
			' ': 8,
		},
		rows: map[rune]int{
			'`': 0, '1': 0, '2': 0, '3': 0, '4': 0, '5': 0,
			'6': 0, '7': 0, '8': 0, '9': 0, '0': 0, '-': 0, '=': 0,
			'q': 1, 'w': 1, 'e': 1, 'r': 1, 't': 1, 'y': 1,
			'u': 1, 'i': 1, 'o': 1, 'p': 1, '[': 1, ']': 1, '\\': 1,
			'a': 2, 's': 2, 'd': 2, 'f': 2, 'g': 2, 'h': 2,
			'j': 2, 'k': 2, 'l': 2, ';': 2, '\'': 2,
			'z': 3, 'x': 3, 'c': 3, 'v': 3, 'b': 3, 'n': 3,
			'm': 3, ',': 3, '.': 3, '/': 3,
			' ': 4,
		},
		neighbors: map[rune]string{
			'a': "sqwz", 'b': "vghn", 'c': "xdfv", 'd': "serfcx", 'e': "wsdfr",
			'f': "dertgcv", 'g': "frtyhhbv", 'h': "gtyjnb", 'i': "ujko",
			'j': "hyuknm", 'k': "juilm", 'l': "kop", 'm': "njk", 'n': "bhjm",
			'o': "iklp", 'p': "ol", 'q': "wa", 'r': "edft", 's': "awedxz",
			't': "rfgy", 'u': "yhji", 'v': "cfgb", 'w': "qase", 'x': "zsdc",
			'y': "tghu", 'z': "asx",
		},
	}
	l.rebuildSameFinger([]columnGroup{
		{0, "qaz"}, {1, "wsx"}, {2, "edc"}, {3, "rfvtgb"},
		{4, "yhnujm"}, {5, "ik,"}, {6, "ol."}, {7, "p;/'-=[]\\"},
	})
	return l
}

// columnGroup names the keys one finger owns, used to precompute the
// same-finger bigram set.
type columnGroup struct {
	finger int
	keys   string
}

func (l *Layout) rebuildSameFinger(groups []columnGroup) {
	l.sameFinger = make(map[string]struct{})
	for _, g := range groups {
		keys := []rune(g.keys)
		for _, a := range keys {
			for _, b := range keys {
				if a != b {
					l.sameFinger[string([]rune{a, b})] = struct{}{}
				}
			}
		}
	}
}
