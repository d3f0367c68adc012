// File: cmd/type_test.go
package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/ghostwriter/internal/store"
)

func TestTypeCmd_RequiresOneSource(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		_, err := executeCommand(t, "type", "--dry-run")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no text to type")
	})

	t.Run("two sources", func(t *testing.T) {
		_, err := executeCommand(t, "type", "--dry-run", "--text", "hi", "--file", "words.txt")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})
}

func TestTypeCmd_BlankTextHasNoWords(t *testing.T) {
	_, err := executeCommand(t, "type", "--dry-run", "--text", "   ")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to type")
}

func TestTypeCmd_DryRunTypesAndArchives(t *testing.T) {
	// A dry run renders against the terminal actuator, so a short word at a
	// high speed keeps the real sleeps negligible.
	archive := filepath.Join(t.TempDir(), "run")

	out, err := executeCommand(t, "type", "--dry-run",
		"--text", "hi", "--wpm", "400", "--seed", "42", "--out", archive)

	require.NoError(t, err)
	assert.Contains(t, out, "session ")
	assert.Contains(t, out, "realized wpm")
	assert.Contains(t, out, "key consistency")

	tr, err := store.LoadArchive(archive + store.ArchiveExt)
	require.NoError(t, err)
	assert.Equal(t, "hi", tr.Text)
	assert.Equal(t, int64(42), tr.Seed)
	assert.InDelta(t, 400.0, tr.TargetWPM, 0.001)
	assert.NotEmpty(t, tr.Events)
}

func TestTypeCmd_FileSource(t *testing.T) {
	t.Run("reads the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "words.txt")
		require.NoError(t, os.WriteFile(path, []byte("hi\n"), 0o644))

		out, err := executeCommand(t, "type", "--dry-run",
			"--file", path, "--wpm", "400", "--seed", "7")

		require.NoError(t, err)
		assert.Contains(t, out, "realized wpm")
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := executeCommand(t, "type", "--dry-run",
			"--file", filepath.Join(t.TempDir(), "absent.txt"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})
}

func TestTypeCmd_HTMLSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	page := `<html><head><style>body{color:red}</style></head><body><h1>hi</h1></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(page), 0o644))

	out, err := executeCommand(t, "type", "--dry-run",
		"--html", path, "--wpm", "400", "--seed", "7")

	require.NoError(t, err)
	assert.Contains(t, out, "realized wpm")
}

func TestTypeCmd_FollowEndsCleanlyOnInterrupt(t *testing.T) {
	// The tailed file already holds a full line; after typing it the session
	// idles on the source until the context ends, which closes the session
	// with everything typed so far.
	dir := t.TempDir()
	feed := filepath.Join(dir, "feed.txt")
	require.NoError(t, os.WriteFile(feed, []byte("hello there\n"), 0o644))
	archive := filepath.Join(dir, "followed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	timer := time.AfterFunc(3*time.Second, cancel)
	defer timer.Stop()

	out, err := executeCommandContext(t, ctx, "type", "--dry-run",
		"--follow", feed, "--wpm", "400", "--seed", "11", "--out", archive)

	require.NoError(t, err)
	assert.Contains(t, out, "realized wpm")

	tr, err := store.LoadArchive(archive + store.ArchiveExt)
	require.NoError(t, err)
	assert.Equal(t, "hello there", tr.Text)
	assert.Equal(t, 2, tr.Report.Words)
}
