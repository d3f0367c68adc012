package profile

import "math/rand"

// Bigram tables: letter pairs with known strong timing signatures. The
// multipliers themselves are drawn per session so no two sessions share a
// bigram fingerprint. Slices, not maps, so the draw order is stable.
var fastBigrams = []string{
	"th", "he", "in", "er", "an", "on", "en", "at", "ou", "ed",
	"is", "it", "al", "ar", "or", "ti", "te", "st", "se", "le",
	"ng", "io", "re", "nd", "ha", "to", "of",
}

var slowBigrams = []string{
	"bf", "zx", "qp", "pq", "xz", "fb", "mj", "jm", "vb", "bv",
	"ce", "ec", "nu", "un", "my", "ym", "br", "rb", "gr", "rg",
	"az", "za", "sx", "xs", "dc", "cd", "fv", "vf", "gt", "tg",
	"hy", "yh", "ju", "uj", "ki", "ik", "lo", "ol",
}

func generateBigramSpeeds(rng *rand.Rand) map[string]float64 {
	speeds := make(map[string]float64, len(fastBigrams)+len(slowBigrams))
	for _, pair := range fastBigrams {
		speeds[pair] = Span{0.55, 0.80}.Sample(rng)
	}
	for _, pair := range slowBigrams {
		speeds[pair] = Span{1.25, 1.80}.Sample(rng)
	}
	return speeds
}
