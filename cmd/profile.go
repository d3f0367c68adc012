// File: cmd/profile.go
package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/ghostwriter/internal/config"
	"github.com/xkilldash9x/ghostwriter/internal/profile"
)

// personaDump is the JSON envelope for a sampled persona. The seed lives
// here rather than on the profile because the profile is pure output of
// the draw, not part of it.
type personaDump struct {
	Seed    int64            `json:"seed"`
	Preset  string           `json:"preset,omitempty"`
	Persona *profile.Profile `json:"persona"`
}

// newProfileCmd creates and configures the `profile` command.
func newProfileCmd() *cobra.Command {
	var jsonOut bool

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Sample a persona and print it without typing anything",
		Long: `Draws the persona a typing session would use with the current settings
and prints it. Useful for inspecting what a seed or preset actually
produces before committing to a session. The same --seed always prints
the same persona.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runProfile(cfg, jsonOut, cmd.OutOrStdout())
		},
	}

	profileCmd.Flags().BoolVar(&jsonOut, "json", false, "emit the persona as JSON")

	return profileCmd
}

// runProfile contains the core, testable logic of the profile command.
func runProfile(cfg *config.Config, jsonOut bool, out io.Writer) error {
	prof, _, seed, err := newPersona(cfg)
	if err != nil {
		return err
	}

	if jsonOut {
		dump := personaDump{Seed: seed, Preset: cfg.Session.Preset, Persona: prof}
		data, err := json.MarshalIndent(dump, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal persona: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	printPersona(out, prof, seed, cfg.Session.Preset)
	return nil
}

// printPersona renders the human-readable persona table.
func printPersona(out io.Writer, p *profile.Profile, seed int64, preset string) {
	if preset != "" {
		fmt.Fprintf(out, "persona (seed %d, preset %s)\n", seed, preset)
	} else {
		fmt.Fprintf(out, "persona (seed %d)\n", seed)
	}

	fmt.Fprintf(out, "  %-18s %.1f wpm\n", "target speed", p.TargetWPM)
	fmt.Fprintf(out, "  %-18s %.1f ms\n", "base interval", p.BaseInterval)
	fmt.Fprintf(out, "  %-18s %.1f%% (dispersion %.3f)\n", "consistency aim", p.TargetConsistency, p.TargetDispersion)
	fmt.Fprintf(out, "  %-18s %.1f ms mean, %.1f ms sigma, %.0f-%.0f ms clamp\n",
		"key hold", p.HoldMean, p.HoldSigma, p.HoldMin, p.HoldMax)
	fmt.Fprintf(out, "  %-18s sigma %.1f ms, tail %.1f ms, ar1 phi %.2f\n",
		"interval noise", p.ExGaussSigma, p.ExGaussTau, p.AR1Phi)
	fmt.Fprintf(out, "  %-18s %.1f%% over %.0f words\n",
		"rhythm swing", p.RhythmAmplitude*100, p.RhythmPeriod)
	fmt.Fprintf(out, "  %-18s %d words at %.2fx\n", "warm-up", p.WarmupWords, p.WarmupSlowdown)
	fmt.Fprintf(out, "  %-18s %.2fx after %d words\n", "fatigue", p.FatigueMax, p.FatigueOnsetWords)
	fmt.Fprintf(out, "  %-18s %d keys at %.2fx, chunks %.2fx\n",
		"bursts", p.BurstMaxLen, p.BurstSpeedup, p.ChunkSpeedup)
	fmt.Fprintf(out, "  %-18s %.2f%% per key, %.0f%% left standing\n",
		"typo chance", p.TypoChance*100, p.LeaveMistakeChance*100)
	fmt.Fprintf(out, "  %-18s %.0f%%\n", "key overlap", p.OverlapChance*100)

	// Error mix, heaviest first.
	type weighted struct {
		name   string
		weight float64
	}
	mix := make([]weighted, 0, len(p.ErrorWeights))
	for et, w := range p.ErrorWeights {
		mix = append(mix, weighted{string(et), w})
	}
	sort.Slice(mix, func(i, j int) bool {
		if mix[i].weight != mix[j].weight {
			return mix[i].weight > mix[j].weight
		}
		return mix[i].name < mix[j].name
	})
	fmt.Fprintf(out, "  %-18s", "error mix")
	for i, m := range mix {
		if i > 0 {
			fmt.Fprint(out, ",")
		}
		fmt.Fprintf(out, " %s %.0f%%", m.name, m.weight*100)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-18s %d pairs\n", "bigram table", len(p.BigramSpeeds))
}
