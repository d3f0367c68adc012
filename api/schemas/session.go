package schemas

import (
	"fmt"
	"time"
)

// -- Session Result Schemas --

// SessionReport summarizes the realized statistics of one typing session.
// Consistency values use the same 0-100 scale the engine calibrates against.
type SessionReport struct {
	SessionID         string            `json:"session_id"`
	TargetWPM         float64           `json:"target_wpm"`
	RealizedWPM       float64           `json:"realized_wpm"`
	TargetConsistency float64           `json:"target_consistency"`
	KeyConsistency    float64           `json:"key_consistency"`
	HoldConsistency   float64           `json:"hold_consistency"`
	TotalKeystrokes   int               `json:"total_keystrokes"`
	Corrections       int               `json:"corrections"`
	ErrorsInjected    int               `json:"errors_injected"`
	ErrorsByType      map[ErrorType]int `json:"errors_by_type,omitempty"`
	SkipsSuppressed   int               `json:"skips_suppressed,omitempty"`
	ElapsedMs         float64           `json:"elapsed_ms"`
	Words             int               `json:"words"`
}

// Elapsed returns the simulated session length as a time.Duration.
func (r SessionReport) Elapsed() time.Duration {
	return time.Duration(r.ElapsedMs * float64(time.Millisecond))
}

// Transcript is the full record of a session: identity, provenance, every
// timed keystroke in order, and the closing report. A transcript replayed
// against any actuator reproduces the session without consulting an RNG.
type Transcript struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	TargetWPM float64          `json:"target_wpm"`
	Seed      int64            `json:"seed"`
	Layout    string           `json:"layout"`
	Text      string           `json:"text,omitempty"`
	Events    []TimedKeystroke `json:"events"`
	Report    SessionReport    `json:"report"`
}

// Validate checks the transcript and every event in it.
func (t *Transcript) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("schemas: transcript missing id")
	}
	if t.TargetWPM <= 0 {
		return fmt.Errorf("schemas: transcript target wpm %.1f not positive", t.TargetWPM)
	}
	for i, ev := range t.Events {
		if err := ev.Validate(); err != nil {
			return fmt.Errorf("schemas: event %d: %w", i, err)
		}
	}
	return nil
}

// SessionSummary is the condensed listing row for stored sessions.
type SessionSummary struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	TargetWPM      float64   `json:"target_wpm"`
	RealizedWPM    float64   `json:"realized_wpm"`
	KeyConsistency float64   `json:"key_consistency"`
	Keystrokes     int       `json:"keystrokes"`
}
