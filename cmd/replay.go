// File: cmd/replay.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostwriter/api/schemas"
	"github.com/xkilldash9x/ghostwriter/internal/actuator/collect"
	"github.com/xkilldash9x/ghostwriter/internal/actuator/term"
	"github.com/xkilldash9x/ghostwriter/internal/config"
	"github.com/xkilldash9x/ghostwriter/internal/observability"
	"github.com/xkilldash9x/ghostwriter/internal/session"
	"github.com/xkilldash9x/ghostwriter/internal/store"
)

// transcriptStore is the slice of the store the replay command needs. The
// interface keeps a live PostgreSQL pool out of the command tests.
type transcriptStore interface {
	GetTranscript(ctx context.Context, id string) (*schemas.Transcript, error)
	ListSessions(ctx context.Context, limit int) ([]schemas.SessionSummary, error)
}

// storeProvider creates a transcript store and a cleanup to release it.
type storeProvider interface {
	Create(ctx context.Context, cfg *config.Config) (transcriptStore, func(), error)
}

// defaultStoreProvider is the production provider backed by the configured
// PostgreSQL DSN.
type defaultStoreProvider struct{}

// NewStoreProvider returns the production store provider.
func NewStoreProvider() storeProvider {
	return &defaultStoreProvider{}
}

// Create connects to PostgreSQL and wraps the pool in a store. The store
// constructor pings, so a bad DSN fails here and not on first use.
func (p *defaultStoreProvider) Create(ctx context.Context, cfg *config.Config) (transcriptStore, func(), error) {
	logger := observability.GetLogger()
	if cfg.Database.URL == "" {
		return nil, nil, fmt.Errorf("database URL is not configured (GHOSTWRITER_DATABASE_URL)")
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	st, err := store.New(ctx, pool, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	cleanup := func() {
		pool.Close()
		logger.Debug("Database connection pool closed (via replay cleanup).")
	}
	return st, cleanup, nil
}

// replayOptions collects the flag values of the `replay` command.
type replayOptions struct {
	input  string
	id     string
	dryRun bool
}

// newReplayCmd creates and configures the `replay` command.
func newReplayCmd(provider storeProvider) *cobra.Command {
	var opts replayOptions

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-emit a recorded transcript with its exact timing",
		Long: `Replays a transcript from an archive file or the session store against
the terminal, reproducing the recorded delays and corrections keystroke
for keystroke. No randomness is involved; the same transcript always
plays back identically. --dry-run verifies the transcript and prints its
summary without waiting out the schedule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if (opts.input == "") == (opts.id == "") {
				return fmt.Errorf("pass exactly one of --input or --id")
			}

			return runReplay(ctx, logger, cfg, opts, provider, cmd.OutOrStdout())
		},
	}

	replayCmd.Flags().StringVarP(&opts.input, "input", "i", "", "transcript archive to replay ("+store.ArchiveExt+" or .json)")
	replayCmd.Flags().StringVar(&opts.id, "id", "", "stored session ID to replay (needs a configured database)")
	replayCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "verify and summarize without acting out the timing")

	return replayCmd
}

// runReplay contains the core, testable logic of the replay command.
func runReplay(ctx context.Context, logger *zap.Logger, cfg *config.Config, opts replayOptions, provider storeProvider, out io.Writer) error {
	tr, err := loadTranscript(ctx, cfg, opts, provider)
	if err != nil {
		return err
	}

	logger.Info("Replaying transcript",
		zap.String("session_id", tr.ID),
		zap.Int("events", len(tr.Events)),
		zap.Bool("dry_run", opts.dryRun))

	if opts.dryRun {
		rec := collect.New()
		if err := session.Replay(ctx, rec, tr); err != nil {
			return fmt.Errorf("transcript does not replay cleanly: %w", err)
		}
		fmt.Fprintf(out, "replay of session %s verified\n", tr.ID)
		fmt.Fprintf(out, "  events     %d (%d presses, %d deletions)\n",
			len(tr.Events), rec.Presses(), rec.Deletes())
		fmt.Fprintf(out, "  duration   %s simulated\n", tr.Report.Elapsed().Round(10*time.Millisecond))
		fmt.Fprintf(out, "  typed text %q\n", rec.Output())
		return nil
	}

	if err := session.Replay(ctx, term.New(out), tr); err != nil {
		return err
	}
	fmt.Fprintln(out)
	printReport(out, tr.Report)
	return nil
}

// loadTranscript fetches the transcript named by the flags, from disk or
// from the session store.
func loadTranscript(ctx context.Context, cfg *config.Config, opts replayOptions, provider storeProvider) (*schemas.Transcript, error) {
	if opts.input != "" {
		tr, err := store.LoadArchive(opts.input)
		if err != nil {
			return nil, fmt.Errorf("failed to load archive: %w", err)
		}
		return tr, nil
	}

	st, cleanup, err := provider.Create(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	tr, err := st.GetTranscript(ctx, opts.id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w\n%s", err, recentSessionsHint(ctx, st))
		}
		return nil, err
	}
	return tr, nil
}

// recentSessionsHint lists stored sessions so a mistyped ID is easy to fix.
func recentSessionsHint(ctx context.Context, st transcriptStore) string {
	summaries, err := st.ListSessions(ctx, 5)
	if err != nil || len(summaries) == 0 {
		return "no stored sessions found"
	}
	hint := "recent sessions:"
	for _, s := range summaries {
		hint += fmt.Sprintf("\n  %s  %s  %.0f wpm  %d keys",
			s.ID, s.CreatedAt.Format(time.RFC3339), s.RealizedWPM, s.Keystrokes)
	}
	return hint
}
