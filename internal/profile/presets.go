package profile

import (
	"fmt"
	"math/rand"
	"strings"
)

// Preset names a skill tier; the concrete WPM is drawn from the tier's band
// at construction time.
type Preset string

const (
	PresetCasual  Preset = "casual"
	PresetAverage Preset = "average"
	PresetFast    Preset = "fast"
	PresetPro     Preset = "pro"
	PresetGodlike Preset = "godlike"
)

var presetBands = map[Preset]Span{
	PresetCasual:  {75, 95},
	PresetAverage: {95, 115},
	PresetFast:    {115, 135},
	PresetPro:     {130, 155},
	PresetGodlike: {155, 190},
}

// Presets returns the known tiers in ascending speed order.
func Presets() []Preset {
	return []Preset{PresetCasual, PresetAverage, PresetFast, PresetPro, PresetGodlike}
}

// ParsePreset resolves a user-supplied tier name.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := presetBands[p]; !ok {
		return "", fmt.Errorf("profile: unknown preset %q (want one of casual, average, fast, pro, godlike)", s)
	}
	return p, nil
}

// Band returns the WPM range of a tier.
func (p Preset) Band() (Span, error) {
	band, ok := presetBands[p]
	if !ok {
		return Span{}, fmt.Errorf("profile: unknown preset %q", string(p))
	}
	return band, nil
}

// NewFromPreset draws a WPM inside the tier band, then builds the persona.
func NewFromPreset(preset Preset, rng *rand.Rand) (*Profile, error) {
	band, err := preset.Band()
	if err != nil {
		return nil, err
	}
	return New(band.Sample(rng), rng)
}
