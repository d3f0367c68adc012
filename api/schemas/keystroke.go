package schemas

import (
	"fmt"
	"time"
)

// -- Keystroke Event Schemas --

// EventKind classifies a single entry in a session transcript.
type EventKind string

const (
	// EventPress is a normal character keystroke (press + timed release).
	EventPress EventKind = "press"
	// EventDelete is a corrective backspace.
	EventDelete EventKind = "delete"
	// EventSkip marks a character the simulation decided to omit. It carries
	// timing state but produced no actuator event.
	EventSkip EventKind = "skip"
)

// ErrorType identifies one of the injectable typing error variants.
type ErrorType string

const (
	ErrorAdjacent   ErrorType = "adjacent"
	ErrorTranspose  ErrorType = "transpose"
	ErrorConfusion  ErrorType = "confusion"
	ErrorDoubleTap  ErrorType = "double_tap"
	ErrorSkip       ErrorType = "skip"
	ErrorCommonTypo ErrorType = "common_typo"
)

// AllErrorTypes returns every defined error variant. Used to verify that
// weight maps and correction protocols stay exhaustive.
func AllErrorTypes() []ErrorType {
	return []ErrorType{
		ErrorAdjacent,
		ErrorTranspose,
		ErrorConfusion,
		ErrorDoubleTap,
		ErrorSkip,
		ErrorCommonTypo,
	}
}

// TimedKeystroke is the atomic output unit of a typing session: one character
// (or deletion) with its schedule. DelayMs is the wait before this key goes
// down, measured from the completion of the previous event; HoldMs is how
// long the key stays down.
type TimedKeystroke struct {
	Char       string    `json:"char"`
	Kind       EventKind `json:"kind"`
	DelayMs    float64   `json:"delay_ms"`
	HoldMs     float64   `json:"hold_ms"`
	Correction bool      `json:"correction,omitempty"`
}

// Delay returns the press delay as a time.Duration.
func (k TimedKeystroke) Delay() time.Duration {
	return time.Duration(k.DelayMs * float64(time.Millisecond))
}

// Hold returns the hold duration as a time.Duration.
func (k TimedKeystroke) Hold() time.Duration {
	return time.Duration(k.HoldMs * float64(time.Millisecond))
}

// Validate checks structural sanity of a single keystroke entry.
func (k TimedKeystroke) Validate() error {
	switch k.Kind {
	case EventPress, EventDelete, EventSkip:
	default:
		return fmt.Errorf("schemas: unknown event kind %q", k.Kind)
	}
	if k.Kind != EventDelete && k.Char == "" {
		return fmt.Errorf("schemas: %s event with empty char", k.Kind)
	}
	if k.DelayMs < 0 {
		return fmt.Errorf("schemas: negative delay %.3fms", k.DelayMs)
	}
	if k.HoldMs < 0 {
		return fmt.Errorf("schemas: negative hold %.3fms", k.HoldMs)
	}
	return nil
}
