package text

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hpcloud/tail"
	"go.uber.org/zap"
)

// FollowSource tails a growing file and feeds its words to a session as
// they land, existing content first. Next blocks until a word arrives, the
// tailer shuts down, or the context ends.
type FollowSource struct {
	t      *tail.Tail
	logger *zap.Logger
	queue  []string
}

// NewFollowSource begins tailing path from the start of the file, following
// appends and reopening across rotations. Close the source once the session
// finishes.
func NewFollowSource(path string, logger *zap.Logger) (*FollowSource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("text: tail %s: %w", path, err)
	}
	return &FollowSource{t: t, logger: logger.Named("follow")}, nil
}

func (f *FollowSource) Next(ctx context.Context) (string, error) {
	for {
		if len(f.queue) > 0 {
			w := f.queue[0]
			f.queue = f.queue[1:]
			return w, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case line, ok := <-f.t.Lines:
			if !ok {
				return "", io.EOF
			}
			if line.Err != nil {
				return "", fmt.Errorf("text: tail: %w", line.Err)
			}
			f.queue = strings.Fields(line.Text)
		}
	}
}

// Close stops the tailer and releases its watches.
func (f *FollowSource) Close() error {
	err := f.t.Stop()
	f.t.Cleanup()
	return err
}
