package text

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

// verifyNoTailLeaks checks for leaked goroutines while ignoring the tail
// package's process-global inotify tracker, which starts once and never
// stops by design.
func verifyNoTailLeaks(t *testing.T) {
	goleak.VerifyNone(t,
		goleak.IgnoreTopFunction("github.com/hpcloud/tail/watch.(*InotifyTracker).run"),
		goleak.IgnoreAnyFunction("gopkg.in/fsnotify%2ev1.(*Watcher).readEvents"),
	)
}

// nextWithin bounds a Next call so a broken follower fails the test instead
// of hanging it.
func nextWithin(t *testing.T, src WordSource) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return src.Next(ctx)
}

func TestFollowSourceDeliversAppendedWords(t *testing.T) {
	defer verifyNoTailLeaks(t)

	path := filepath.Join(t.TempDir(), "feed.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha beta\n"), 0o644))

	src, err := NewFollowSource(path, zap.NewNop())
	require.NoError(t, err)
	defer src.Close()

	// Existing content first.
	for _, want := range []string{"alpha", "beta"} {
		w, err := nextWithin(t, src)
		require.NoError(t, err)
		assert.Equal(t, want, w)
	}

	// Then appended lines, in order.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("gamma delta\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	for _, want := range []string{"gamma", "delta"} {
		w, err := nextWithin(t, src)
		require.NoError(t, err)
		assert.Equal(t, want, w)
	}
}

func TestFollowSourceBlocksUntilCancel(t *testing.T) {
	defer verifyNoTailLeaks(t)

	path := filepath.Join(t.TempDir(), "feed.txt")
	require.NoError(t, os.WriteFile(path, []byte("only\n"), 0o644))

	src, err := NewFollowSource(path, zap.NewNop())
	require.NoError(t, err)
	defer src.Close()

	w, err := nextWithin(t, src)
	require.NoError(t, err)
	assert.Equal(t, "only", w)

	// The file is drained; Next blocks until the context ends.
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err = src.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFollowSourceBuffersPartialLines(t *testing.T) {
	defer verifyNoTailLeaks(t)

	path := filepath.Join(t.TempDir(), "feed.txt")
	require.NoError(t, os.WriteFile(path, []byte("one two\nthree four\n"), 0o644))

	src, err := NewFollowSource(path, zap.NewNop())
	require.NoError(t, err)
	defer src.Close()

	// Words from the first line drain before the second line is touched.
	var got []string
	for i := 0; i < 4; i++ {
		w, err := nextWithin(t, src)
		require.NoError(t, err)
		got = append(got, w)
	}
	assert.Equal(t, []string{"one", "two", "three", "four"}, got)
}

func TestFollowSourceMissingFile(t *testing.T) {
	_, err := NewFollowSource(filepath.Join(t.TempDir(), "absent.txt"), nil)
	require.ErrorContains(t, err, "tail")
}
