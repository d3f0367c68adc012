// Package collect provides an offline actuator that captures what a session
// would have produced without emitting anything. Waits return immediately, so
// a multi-minute session collapses to however long the math takes. It backs
// dry runs and Monte Carlo simulation batches.
package collect

import (
	"context"
	"time"
)

// Actuator records presses into an editable buffer the way a text field
// would. It is not safe for concurrent use; each session gets its own.
type Actuator struct {
	buf     []rune
	presses int
	deletes int
	waits   int
	waited  time.Duration
}

// New returns an empty collector.
func New() *Actuator {
	return &Actuator{}
}

// Press appends the character to the buffer.
func (a *Actuator) Press(ctx context.Context, ch rune) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.buf = append(a.buf, ch)
	a.presses++
	return nil
}

// Release is a no-op; the buffer edit happens on press.
func (a *Actuator) Release(_ context.Context, _ rune) error {
	return nil
}

// DeleteBackward removes the last buffered character, if any.
func (a *Actuator) DeleteBackward(ctx context.Context, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(a.buf) > 0 {
		a.buf = a.buf[:len(a.buf)-1]
	}
	a.deletes++
	return nil
}

// Wait tallies the requested idle time without sleeping.
func (a *Actuator) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.waits++
	a.waited += d
	return nil
}

// Output returns the buffer as it stands: the text a reader of the target
// field would see after all corrections.
func (a *Actuator) Output() string {
	return string(a.buf)
}

// Presses returns how many character keys were pressed.
func (a *Actuator) Presses() int { return a.presses }

// Deletes returns how many corrective backspaces were performed.
func (a *Actuator) Deletes() int { return a.deletes }

// Waited returns the total idle time the session requested.
func (a *Actuator) Waited() time.Duration { return a.waited }
