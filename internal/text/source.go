// Package text supplies word streams for typing sessions: fixed slices,
// arbitrary readers, the visible text of HTML documents, and growing files
// followed live.
package text

import (
	"bufio"
	"context"
	"io"
)

// WordSource reveals words one at a time. Next returns io.EOF once the
// stream is exhausted; sources backed by live data may block in Next until
// a word arrives or ctx is done.
type WordSource interface {
	Next(ctx context.Context) (string, error)
}

// SliceSource serves a fixed word list in order.
type SliceSource struct {
	words []string
	pos   int
}

// NewSliceSource wraps an already-tokenized word list. The slice is not
// copied; the caller must not mutate it while the source is in use.
func NewSliceSource(words []string) *SliceSource {
	return &SliceSource{words: words}
}

func (s *SliceSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.pos >= len(s.words) {
		return "", io.EOF
	}
	w := s.words[s.pos]
	s.pos++
	return w, nil
}

// ReaderSource tokenizes an io.Reader into whitespace-separated words as it
// reads, so arbitrarily large inputs never load fully into memory.
type ReaderSource struct {
	scanner *bufio.Scanner
}

func NewReaderSource(r io.Reader) *ReaderSource {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &ReaderSource{scanner: sc}
}

func (s *ReaderSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
