// Package term renders a session onto an io.Writer in real time. Every pause
// the driver schedules becomes an actual sleep, so watching the output feels
// like watching someone type. Corrective backspaces erase with the usual
// "\b \b" shuffle, which works on any terminal that honors backspace.
package term

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Actuator writes keystrokes to a terminal-like writer.
type Actuator struct {
	w io.Writer
}

// New returns an actuator writing to w.
func New(w io.Writer) *Actuator {
	return &Actuator{w: w}
}

// Press writes the character immediately.
func (a *Actuator) Press(ctx context.Context, ch rune) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(a.w, "%c", ch); err != nil {
		return fmt.Errorf("terminal write failed: %w", err)
	}
	return nil
}

// Release is a no-op; the terminal has no concept of a held key.
func (a *Actuator) Release(_ context.Context, _ rune) error {
	return nil
}

// DeleteBackward erases the previous character, then holds through the
// key-down window so a burst of corrections stays visibly paced.
func (a *Actuator) DeleteBackward(ctx context.Context, hold time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := io.WriteString(a.w, "\b \b"); err != nil {
		return fmt.Errorf("terminal write failed: %w", err)
	}
	return sleep(ctx, hold)
}

// Wait sleeps for the requested duration.
func (a *Actuator) Wait(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
