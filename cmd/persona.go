// File: cmd/persona.go
package cmd

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/xkilldash9x/ghostwriter/internal/config"
	"github.com/xkilldash9x/ghostwriter/internal/keyboard"
	"github.com/xkilldash9x/ghostwriter/internal/profile"
)

// newPersona draws a session profile from the resolved configuration. The
// returned rng is the stream the profile was drawn from; handing the same
// stream to the session driver pins the whole run to the seed.
func newPersona(cfg *config.Config) (*profile.Profile, *rand.Rand, int64, error) {
	seed := cfg.Session.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	p, err := personaFrom(cfg, rng)
	if err != nil {
		return nil, nil, 0, err
	}
	return p, rng, seed, nil
}

// personaFrom draws a profile from the given stream. A preset, when named,
// wins over the plain target speed.
func personaFrom(cfg *config.Config, rng *rand.Rand) (*profile.Profile, error) {
	if cfg.Session.Preset != "" {
		preset, err := profile.ParsePreset(cfg.Session.Preset)
		if err != nil {
			return nil, err
		}
		return profile.NewFromPreset(preset, rng)
	}
	return profile.New(cfg.Session.TargetWPM, rng)
}

// resolveLayout maps the configured layout name or keymap file to a
// keyboard layout.
func resolveLayout(cfg *config.Config) (*keyboard.Layout, error) {
	if cfg.Session.LayoutFile != "" {
		return keyboard.LoadLayoutXML(cfg.Session.LayoutFile)
	}
	switch strings.ToLower(cfg.Session.Layout) {
	case "", "qwerty":
		return keyboard.QWERTY(), nil
	default:
		return nil, fmt.Errorf("unknown layout %q; built-in layouts: qwerty (set session.layout_file for a custom keymap)", cfg.Session.Layout)
	}
}
