package session

import (
	"context"
	"time"
)

// Actuator is the output side of a session: something that can press and
// release keys and wait between them. The driver owns every timing and
// sequencing decision; an actuator only executes what it is told, when it
// is told, which keeps one session reproducible across very different
// backends (browser, terminal, in-memory capture).
//
// Implementations must tolerate Release for a key that is not down and must
// honor context cancellation in Wait.
type Actuator interface {
	// Press pushes a character key down without releasing it.
	Press(ctx context.Context, ch rune) error

	// Release lifts a previously pressed key.
	Release(ctx context.Context, ch rune) error

	// DeleteBackward performs one corrective backspace, holding the key
	// down for the given duration.
	DeleteBackward(ctx context.Context, hold time.Duration) error

	// Wait idles for the given duration. Offline actuators may return
	// immediately; live ones sleep.
	Wait(ctx context.Context, d time.Duration) error
}

// SkipSuppressor is an optional Actuator capability. Backends whose output
// must end up containing the exact source text (a browser form that will be
// submitted, a shell command line) return true, and the driver then types
// skipped characters normally instead of dropping them.
type SkipSuppressor interface {
	SuppressSkips() bool
}

// SkipPolicy is what the driver does when the error model asks for a
// skipped character.
type SkipPolicy int

const (
	// SkipEnact drops the character from the output, the way a
	// distracted human loses letters.
	SkipEnact SkipPolicy = iota

	// SkipSuppress types the character normally and counts the
	// suppression in the session report.
	SkipSuppress
)

func (p SkipPolicy) String() string {
	if p == SkipSuppress {
		return "suppress"
	}
	return "enact"
}
