package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"
	"github.com/xkilldash9x/ghostwriter/api/schemas"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrSessionNotFound is returned when a transcript lookup misses. Callers
// can branch on it to distinguish a bad ID from a broken database.
var ErrSessionNotFound = errors.New("session not found")

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Store provides a PostgreSQL implementation of transcript persistence.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

const (
	sqlCreateSessions = `
        CREATE TABLE IF NOT EXISTS sessions (
            id              TEXT PRIMARY KEY,
            created_at      TIMESTAMPTZ NOT NULL,
            target_wpm      DOUBLE PRECISION NOT NULL,
            seed            BIGINT NOT NULL,
            layout          TEXT NOT NULL,
            body            TEXT NOT NULL DEFAULT '',
            realized_wpm    DOUBLE PRECISION NOT NULL,
            key_consistency DOUBLE PRECISION NOT NULL,
            keystrokes      INTEGER NOT NULL,
            report          JSONB NOT NULL
        );
    `
	sqlCreateKeystrokes = `
        CREATE TABLE IF NOT EXISTS keystrokes (
            session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
            seq        INTEGER NOT NULL,
            char       TEXT NOT NULL,
            kind       TEXT NOT NULL,
            delay_ms   DOUBLE PRECISION NOT NULL,
            hold_ms    DOUBLE PRECISION NOT NULL,
            correction BOOLEAN NOT NULL DEFAULT FALSE,
            PRIMARY KEY (session_id, seq)
        );
    `
)

// EnsureSchema creates the session and keystroke tables when they do not
// exist yet. Safe to call on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, ddl := range []string{sqlCreateSessions, sqlCreateKeystrokes} {
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// SaveTranscript persists a transcript and its keystroke stream in a single
// transaction. The session row carries the headline report columns so that
// listings never have to unpack the JSON report.
func (s *Store) SaveTranscript(ctx context.Context, t *schemas.Transcript) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid transcript: %w", err)
	}

	reportJSON, err := json.Marshal(t.Report)
	if err != nil {
		return fmt.Errorf("failed to serialize session report: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback after Commit returns pgx.ErrTxClosed, which is expected.
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	sqlInsertSession := `
        INSERT INTO sessions (id, created_at, target_wpm, seed, layout, body, realized_wpm, key_consistency, keystrokes, report)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	createdAtUTC := t.CreatedAt.UTC()
	_, err = tx.Exec(ctx, sqlInsertSession,
		t.ID, createdAtUTC, t.TargetWPM, t.Seed, t.Layout, t.Text,
		t.Report.RealizedWPM, t.Report.KeyConsistency, t.Report.TotalKeystrokes,
		reportJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session %s: %w", t.ID, err)
	}

	if len(t.Events) > 0 {
		if err := s.persistEvents(ctx, tx, t.ID, t.Events); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Debug("Persisted transcript",
		zap.String("session_id", t.ID),
		zap.Int("events", len(t.Events)))
	return nil
}

func (s *Store) persistEvents(ctx context.Context, tx pgx.Tx, sessionID string, events []schemas.TimedKeystroke) error {
	rows := make([][]interface{}, len(events))
	for i, ev := range events {
		rows[i] = []interface{}{
			sessionID, i,
			ev.Char, string(ev.Kind),
			ev.DelayMs, ev.HoldMs, ev.Correction,
		}
	}

	copyCount, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"keystrokes"},
		[]string{"session_id", "seq", "char", "kind", "delay_ms", "hold_ms", "correction"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy keystrokes: %w", err)
	}
	if int(copyCount) != len(events) {
		return fmt.Errorf("mismatch in copied keystroke count: expected %d, got %d", len(events), copyCount)
	}

	return nil
}

// GetTranscript loads one stored session with its full keystroke stream,
// ordered by sequence number.
func (s *Store) GetTranscript(ctx context.Context, id string) (*schemas.Transcript, error) {
	sqlGetSession := `
        SELECT created_at, target_wpm, seed, layout, body, report
        FROM sessions
        WHERE id = $1;
    `
	t := &schemas.Transcript{ID: id}
	var reportJSON []byte
	err := s.pool.QueryRow(ctx, sqlGetSession, id).Scan(
		&t.CreatedAt, &t.TargetWPM, &t.Seed, &t.Layout, &t.Text, &reportJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
		}
		return nil, fmt.Errorf("failed to query session %s: %w", id, err)
	}
	if err := json.Unmarshal(reportJSON, &t.Report); err != nil {
		return nil, fmt.Errorf("failed to decode report for session %s: %w", id, err)
	}

	sqlGetEvents := `
        SELECT char, kind, delay_ms, hold_ms, correction
        FROM keystrokes
        WHERE session_id = $1
        ORDER BY seq ASC;
    `
	rows, err := s.pool.Query(ctx, sqlGetEvents, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query keystrokes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev schemas.TimedKeystroke
		var kindStr string
		if err := rows.Scan(&ev.Char, &kindStr, &ev.DelayMs, &ev.HoldMs, &ev.Correction); err != nil {
			return nil, fmt.Errorf("failed to scan keystroke row: %w", err)
		}
		ev.Kind = schemas.EventKind(kindStr)
		t.Events = append(t.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return t, nil
}

// ListSessions returns the most recently created sessions, newest first.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]schemas.SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
        SELECT id, created_at, target_wpm, realized_wpm, key_consistency, keystrokes
        FROM sessions
        ORDER BY created_at DESC
        LIMIT $1;
    `
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var summaries []schemas.SessionSummary
	for rows.Next() {
		var sum schemas.SessionSummary
		err := rows.Scan(
			&sum.ID, &sum.CreatedAt, &sum.TargetWPM,
			&sum.RealizedWPM, &sum.KeyConsistency, &sum.Keystrokes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return summaries, nil
}
