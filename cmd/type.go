// File: cmd/type.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostwriter/api/schemas"
	"github.com/xkilldash9x/ghostwriter/internal/actuator/cdp"
	"github.com/xkilldash9x/ghostwriter/internal/actuator/term"
	"github.com/xkilldash9x/ghostwriter/internal/config"
	"github.com/xkilldash9x/ghostwriter/internal/observability"
	"github.com/xkilldash9x/ghostwriter/internal/session"
	"github.com/xkilldash9x/ghostwriter/internal/store"
	"github.com/xkilldash9x/ghostwriter/internal/text"
)

// typeOptions collects the flag values of the `type` command.
type typeOptions struct {
	url      string
	selector string
	text     string
	file     string
	html     string
	follow   string
	dryRun   bool
	out      string
}

// sourceCount reports how many text sources the caller named. Exactly one
// is required.
func (o typeOptions) sourceCount() int {
	n := 0
	for _, s := range []string{o.text, o.file, o.html, o.follow} {
		if s != "" {
			n++
		}
	}
	return n
}

// newTypeCmd creates and configures the `type` command.
func newTypeCmd() *cobra.Command {
	var opts typeOptions

	typeCmd := &cobra.Command{
		Use:   "type",
		Short: "Type text into a browser field or the terminal in real time",
		Long: `Types the given text with human timing and errors. With --url a real
Chrome tab is driven over the DevTools protocol and the keystrokes land in
the focused --selector element; without it (or with --dry-run) the session
renders to the terminal. --follow tails a growing file and types words as
they are appended.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}

			switch n := opts.sourceCount(); {
			case n == 0:
				return fmt.Errorf("no text to type: pass one of --text, --file, --html, or --follow")
			case n > 1:
				return fmt.Errorf("--text, --file, --html, and --follow are mutually exclusive")
			}

			return runType(ctx, logger, cfg, opts, cmd.OutOrStdout())
		},
	}

	typeCmd.Flags().StringVar(&opts.url, "url", "", "page to open in the driven browser")
	typeCmd.Flags().StringVar(&opts.selector, "selector", "", "CSS selector of the element to focus before typing")
	typeCmd.Flags().StringVar(&opts.text, "text", "", "text to type, inline")
	typeCmd.Flags().StringVar(&opts.file, "file", "", "plain text file to type")
	typeCmd.Flags().StringVar(&opts.html, "html", "", "HTML document whose visible text is typed")
	typeCmd.Flags().StringVar(&opts.follow, "follow", "", "tail this file and type words as they are appended")
	typeCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "render to the terminal instead of a browser")
	typeCmd.Flags().StringVarP(&opts.out, "out", "o", "", "archive the transcript to this path ("+store.ArchiveExt+")")

	return typeCmd
}

// runType contains the core, testable logic of the type command.
func runType(ctx context.Context, logger *zap.Logger, cfg *config.Config, opts typeOptions, out io.Writer) error {
	prof, rng, seed, err := newPersona(cfg)
	if err != nil {
		return err
	}
	layout, err := resolveLayout(cfg)
	if err != nil {
		return err
	}

	var act session.Actuator
	if opts.url != "" && !opts.dryRun {
		bcfg := cdp.Config{
			URL:               opts.url,
			Selector:          opts.selector,
			Headless:          cfg.Browser.Headless,
			UserAgent:         cfg.Browser.UserAgent,
			MaxEventsPerSec:   cfg.Browser.MaxEventsPerSec,
			DriftAmplitude:    cfg.Browser.DriftAmplitude,
			NavigationTimeout: cfg.Browser.NavigationTimeout,
		}
		browser, err := cdp.Launch(ctx, bcfg, logger)
		if err != nil {
			return fmt.Errorf("failed to launch browser: %w", err)
		}
		defer browser.Close()
		act = browser.Actuator()
	} else {
		act = term.New(out)
	}

	driver, err := session.New(act, prof, logger,
		session.WithRandom(rng, seed), session.WithLayout(layout))
	if err != nil {
		return err
	}

	var tr *schemas.Transcript
	if opts.follow != "" {
		src, err := text.NewFollowSource(opts.follow, logger)
		if err != nil {
			return fmt.Errorf("failed to follow %s: %w", opts.follow, err)
		}
		defer src.Close()
		tr, err = driver.RunSource(ctx, src)
		if err != nil {
			return typeRunError(err)
		}
	} else {
		body, err := gatherText(opts)
		if err != nil {
			return err
		}
		tr, err = driver.Run(ctx, body)
		if err != nil {
			return typeRunError(err)
		}
	}

	fmt.Fprintln(out)
	printReport(out, tr.Report)

	if opts.out != "" {
		path, err := store.SaveArchive(opts.out, tr)
		if err != nil {
			return fmt.Errorf("failed to archive transcript: %w", err)
		}
		logger.Info("Transcript archived", zap.String("path", path))
	}

	if cfg.Database.URL != "" {
		// A finished session should survive a flaky database.
		if err := persistTranscript(ctx, cfg, logger, tr); err != nil {
			logger.Error("Failed to persist transcript", zap.Error(err))
		}
	}
	return nil
}

// typeRunError rewrites the handful of session failures that deserve a
// friendlier message.
func typeRunError(err error) error {
	if errors.Is(err, session.ErrNoWords) {
		return fmt.Errorf("nothing to type: the source produced no words")
	}
	return err
}

// gatherText resolves the bounded text sources into one string of words.
func gatherText(opts typeOptions) (string, error) {
	switch {
	case opts.text != "":
		return opts.text, nil
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", opts.file, err)
		}
		return string(data), nil
	case opts.html != "":
		f, err := os.Open(opts.html)
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", opts.html, err)
		}
		defer f.Close()
		src, err := text.NewHTMLSource(f)
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", opts.html, err)
		}
		return strings.Join(src.Words(), " "), nil
	}
	return "", fmt.Errorf("no text source configured")
}

// persistTranscript opens a connection pool for the configured DSN and
// writes the transcript through the store.
func persistTranscript(ctx context.Context, cfg *config.Config, logger *zap.Logger, tr *schemas.Transcript) error {
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	st, err := store.New(ctx, pool, logger)
	if err != nil {
		return err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := st.SaveTranscript(ctx, tr); err != nil {
		return err
	}
	logger.Info("Transcript persisted", zap.String("session_id", tr.ID))
	return nil
}

// printReport renders the closing session summary.
func printReport(out io.Writer, rep schemas.SessionReport) {
	fmt.Fprintf(out, "session %s\n", rep.SessionID)
	fmt.Fprintf(out, "  words             %d\n", rep.Words)
	fmt.Fprintf(out, "  keystrokes        %d\n", rep.TotalKeystrokes)
	fmt.Fprintf(out, "  elapsed           %s\n", rep.Elapsed().Round(10*time.Millisecond))
	fmt.Fprintf(out, "  realized wpm      %.1f (target %.1f)\n", rep.RealizedWPM, rep.TargetWPM)
	fmt.Fprintf(out, "  key consistency   %.1f%% (target %.1f%%)\n", rep.KeyConsistency, rep.TargetConsistency)
	fmt.Fprintf(out, "  hold consistency  %.1f%%\n", rep.HoldConsistency)
	fmt.Fprintf(out, "  errors injected   %d (%d corrected)\n", rep.ErrorsInjected, rep.Corrections)
	if len(rep.ErrorsByType) > 0 {
		kinds := make([]string, 0, len(rep.ErrorsByType))
		for kind := range rep.ErrorsByType {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(out, "    %-15s %d\n", kind, rep.ErrorsByType[schemas.ErrorType(kind)])
		}
	}
	if rep.SkipsSuppressed > 0 {
		fmt.Fprintf(out, "  skips suppressed  %d\n", rep.SkipsSuppressed)
	}
}
