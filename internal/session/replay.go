package session

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/xkilldash9x/ghostwriter/api/schemas"
)

// Replay acts a recorded transcript back out against an actuator. No
// randomness is involved; every wait comes straight from the events, so the
// same transcript produces the same cadence on any backend.
func Replay(ctx context.Context, act Actuator, t *schemas.Transcript) error {
	if act == nil {
		return fmt.Errorf("session: nil actuator")
	}
	if t == nil {
		return fmt.Errorf("session: nil transcript")
	}
	if err := t.Validate(); err != nil {
		return err
	}

	for i := range t.Events {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := &t.Events[i]
		if ev.DelayMs > 0 {
			if err := act.Wait(ctx, ev.Delay()); err != nil {
				return err
			}
		}
		switch ev.Kind {
		case schemas.EventPress:
			ch, _ := utf8.DecodeRuneInString(ev.Char)
			if err := act.Press(ctx, ch); err != nil {
				return fmt.Errorf("session: replay event %d: %w", i, err)
			}
			if ev.HoldMs > 0 {
				if err := act.Wait(ctx, ev.Hold()); err != nil {
					return err
				}
			}
			if err := act.Release(ctx, ch); err != nil {
				return fmt.Errorf("session: replay event %d: %w", i, err)
			}
		case schemas.EventDelete:
			if err := act.DeleteBackward(ctx, ev.Hold()); err != nil {
				return fmt.Errorf("session: replay event %d: %w", i, err)
			}
		case schemas.EventSkip:
			// Nothing was pressed; the wait above preserves cadence.
		}
	}
	return nil
}
