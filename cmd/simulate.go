// File: cmd/simulate.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"runtime"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/xkilldash9x/ghostwriter/api/schemas"
	"github.com/xkilldash9x/ghostwriter/internal/actuator/collect"
	"github.com/xkilldash9x/ghostwriter/internal/config"
	"github.com/xkilldash9x/ghostwriter/internal/observability"
	"github.com/xkilldash9x/ghostwriter/internal/profile"
	"github.com/xkilldash9x/ghostwriter/internal/session"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// defaultCorpus is the text simulated sessions type when the caller does
// not supply one. Long enough to cover warm-up and reach into the fatigue
// window for most personas.
const defaultCorpus = `few things reveal a person like the way they type under mild pressure
the hands settle into a rhythm that speeds through familiar words and
hesitates at rare ones while small slips appear and vanish under quick
corrections the pace builds through the middle of a passage then eases
off near the end as attention drifts toward whatever comes next and the
final words land slower and more deliberate than the first ones did`

// calibrationTolerance widens the target consistency band when judging the
// realized mean, since corrections and pauses drag realized values a few
// points off the sampled target.
const calibrationTolerance = 3.0

// simulateOptions collects the flag values of the `simulate` command.
type simulateOptions struct {
	sessions int
	jsonOut  bool
	text     string
	file     string
}

// simulationSummary aggregates the distribution of many offline sessions.
type simulationSummary struct {
	Sessions             int                       `json:"sessions"`
	BaseSeed             int64                     `json:"base_seed"`
	Preset               string                    `json:"preset,omitempty"`
	MeanTargetWPM        float64                   `json:"mean_target_wpm"`
	MeanWPM              float64                   `json:"mean_wpm"`
	StdDevWPM            float64                   `json:"stddev_wpm"`
	MeanKeyConsistency   float64                   `json:"mean_key_consistency"`
	StdDevKeyConsistency float64                   `json:"stddev_key_consistency"`
	MeanHoldConsistency  float64                   `json:"mean_hold_consistency"`
	TotalKeystrokes      int                       `json:"total_keystrokes"`
	TotalErrors          int                       `json:"total_errors"`
	TotalCorrections     int                       `json:"total_corrections"`
	ErrorRatePerKey      float64                   `json:"error_rate_per_key"`
	ErrorsByType         map[schemas.ErrorType]int `json:"errors_by_type"`
	BandLow              float64                   `json:"band_low"`
	BandHigh             float64                   `json:"band_high"`
	Calibrated           bool                      `json:"calibrated"`
}

// newSimulateCmd creates and configures the `simulate` command.
func newSimulateCmd() *cobra.Command {
	var opts simulateOptions

	simCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run offline Monte Carlo sessions and report the statistics",
		Long: `Runs many typing sessions against a recording actuator, each with an
independent seed, and aggregates the realized speed and consistency
distributions. The closing calibration check verifies that the mean
realized consistency stays inside the band personas of this speed are
drawn from.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("sessions") {
				cfg.Simulate.Runs = opts.sessions
			}
			if cfg.Simulate.Runs <= 0 {
				return fmt.Errorf("--sessions must be a positive integer, got %d", cfg.Simulate.Runs)
			}
			if opts.text != "" && opts.file != "" {
				return fmt.Errorf("--text and --file are mutually exclusive")
			}

			return runSimulate(ctx, logger, cfg, opts, cmd.OutOrStdout())
		},
	}

	simCmd.Flags().IntVarP(&opts.sessions, "sessions", "n", 0, "number of sessions to simulate (overrides config)")
	simCmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit the summary as JSON")
	simCmd.Flags().StringVar(&opts.text, "text", "", "text each session types (defaults to a built-in passage)")
	simCmd.Flags().StringVar(&opts.file, "file", "", "file with the text each session types")

	return simCmd
}

// runSimulate contains the core, testable logic of the simulate command.
func runSimulate(ctx context.Context, logger *zap.Logger, cfg *config.Config, opts simulateOptions, out io.Writer) error {
	corpus := defaultCorpus
	switch {
	case opts.text != "":
		corpus = opts.text
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", opts.file, err)
		}
		corpus = string(data)
	}

	layout, err := resolveLayout(cfg)
	if err != nil {
		return err
	}

	baseSeed := cfg.Session.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	concurrency := cfg.Simulate.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	runs := cfg.Simulate.Runs

	logger.Info("Starting simulation",
		zap.Int("sessions", runs),
		zap.Int("concurrency", concurrency),
		zap.Int64("base_seed", baseSeed))
	started := time.Now()

	// Sessions log through a quieter lens; fifty start/finish lines drown
	// the summary.
	sessionLogger := logger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))

	reports := make([]schemas.SessionReport, runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := 0; i < runs; i++ {
		g.Go(func() error {
			seed := baseSeed + int64(i)
			rng := rand.New(rand.NewSource(seed))
			prof, err := personaFrom(cfg, rng)
			if err != nil {
				return err
			}
			driver, err := session.New(collect.New(), prof, sessionLogger,
				session.WithRandom(rng, seed), session.WithLayout(layout))
			if err != nil {
				return err
			}
			tr, err := driver.Run(gctx, corpus)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i, seed, err)
			}
			reports[i] = tr.Report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	summary := summarize(reports, baseSeed, cfg.Session.Preset)
	logger.Info("Simulation finished",
		zap.Int("sessions", runs),
		zap.Duration("took", time.Since(started).Round(time.Millisecond)),
		zap.Float64("mean_wpm", summary.MeanWPM),
		zap.Float64("mean_key_consistency", summary.MeanKeyConsistency),
		zap.Bool("calibrated", summary.Calibrated))

	if opts.jsonOut {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize summary: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	printSummary(out, summary)
	return nil
}

// summarize folds per-session reports into the cross-session distribution
// summary and runs the calibration check.
func summarize(reports []schemas.SessionReport, baseSeed int64, preset string) simulationSummary {
	n := len(reports)
	wpms := make([]float64, n)
	keys := make([]float64, n)
	holds := make([]float64, n)
	targets := make([]float64, n)

	s := simulationSummary{
		Sessions:     n,
		BaseSeed:     baseSeed,
		Preset:       preset,
		ErrorsByType: make(map[schemas.ErrorType]int),
	}
	for i, rep := range reports {
		wpms[i] = rep.RealizedWPM
		keys[i] = rep.KeyConsistency
		holds[i] = rep.HoldConsistency
		targets[i] = rep.TargetWPM
		s.TotalKeystrokes += rep.TotalKeystrokes
		s.TotalErrors += rep.ErrorsInjected
		s.TotalCorrections += rep.Corrections
		for kind, count := range rep.ErrorsByType {
			s.ErrorsByType[kind] += count
		}
	}

	s.MeanTargetWPM = stat.Mean(targets, nil)
	s.MeanWPM = stat.Mean(wpms, nil)
	s.MeanKeyConsistency = stat.Mean(keys, nil)
	s.MeanHoldConsistency = stat.Mean(holds, nil)
	if n > 1 {
		s.StdDevWPM = stat.StdDev(wpms, nil)
		s.StdDevKeyConsistency = stat.StdDev(keys, nil)
	}
	if s.TotalKeystrokes > 0 {
		s.ErrorRatePerKey = float64(s.TotalErrors) / float64(s.TotalKeystrokes)
	}

	band := profile.ConsistencyBand(s.MeanTargetWPM)
	s.BandLow, s.BandHigh = band.Lo, band.Hi
	s.Calibrated = s.MeanKeyConsistency >= band.Lo-calibrationTolerance &&
		s.MeanKeyConsistency <= band.Hi+calibrationTolerance
	return s
}

// printSummary renders the human-readable table.
func printSummary(out io.Writer, s simulationSummary) {
	fmt.Fprintf(out, "sessions           %d\n", s.Sessions)
	fmt.Fprintf(out, "base seed          %d\n", s.BaseSeed)
	if s.Preset != "" {
		fmt.Fprintf(out, "preset             %s\n", s.Preset)
	}
	fmt.Fprintf(out, "target wpm         %.1f mean\n", s.MeanTargetWPM)
	fmt.Fprintf(out, "realized wpm       %.1f ± %.1f\n", s.MeanWPM, s.StdDevWPM)
	fmt.Fprintf(out, "key consistency    %.1f%% ± %.1f\n", s.MeanKeyConsistency, s.StdDevKeyConsistency)
	fmt.Fprintf(out, "hold consistency   %.1f%%\n", s.MeanHoldConsistency)
	fmt.Fprintf(out, "keystrokes         %d\n", s.TotalKeystrokes)
	fmt.Fprintf(out, "errors             %d (%.2f%% of keystrokes), %d corrected\n",
		s.TotalErrors, 100*s.ErrorRatePerKey, s.TotalCorrections)
	kinds := make([]string, 0, len(s.ErrorsByType))
	for kind := range s.ErrorsByType {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(out, "  %-16s %d\n", kind, s.ErrorsByType[schemas.ErrorType(kind)])
	}
	verdict := "OK"
	if !s.Calibrated {
		verdict = "DRIFTED"
	}
	fmt.Fprintf(out, "calibration        %s (band %.0f-%.0f%%, mean %.1f%%)\n",
		verdict, s.BandLow, s.BandHigh, s.MeanKeyConsistency)
}
