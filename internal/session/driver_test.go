package session

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/ghostwriter/api/schemas"
	"github.com/xkilldash9x/ghostwriter/internal/keyboard"
	"github.com/xkilldash9x/ghostwriter/internal/profile"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptActuator records the call sequence without sleeping. The driver is
// single-goroutine, so no locking is needed.
type scriptActuator struct {
	ops       []string
	waits     int
	waitTotal time.Duration
	failOnOp  int // 1-based press/release/delete count to fail at, 0 disables
}

func (a *scriptActuator) op(name string) error {
	a.ops = append(a.ops, name)
	if a.failOnOp > 0 && len(a.ops) >= a.failOnOp {
		return errors.New("actuator failure")
	}
	return nil
}

func (a *scriptActuator) Press(_ context.Context, ch rune) error {
	return a.op("press:" + string(ch))
}

func (a *scriptActuator) Release(_ context.Context, ch rune) error {
	return a.op("release:" + string(ch))
}

func (a *scriptActuator) DeleteBackward(_ context.Context, _ time.Duration) error {
	return a.op("delete")
}

func (a *scriptActuator) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.waits++
	a.waitTotal += d
	return nil
}

// pressed reconstructs the text the actuator saw, presses only.
func (a *scriptActuator) pressed() string {
	var b strings.Builder
	for _, op := range a.ops {
		if rest, ok := strings.CutPrefix(op, "press:"); ok {
			b.WriteString(rest)
		}
	}
	return b.String()
}

func (a *scriptActuator) deletes() int {
	n := 0
	for _, op := range a.ops {
		if op == "delete" {
			n++
		}
	}
	return n
}

// suppressingActuator asks the driver to type skipped characters instead of
// dropping them.
type suppressingActuator struct {
	scriptActuator
}

func (a *suppressingActuator) SuppressSkips() bool { return true }

// quietProfile returns a persona with the stochastic surfaces the test does
// not exercise switched off.
func quietProfile(t *testing.T, seed int64, mutate func(*profile.Profile)) *profile.Profile {
	t.Helper()
	p, err := profile.New(90, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	p.TypoChance = 0
	p.OverlapChance = 0
	p.ThinkChance = 0
	if mutate != nil {
		mutate(p)
	}
	return p
}

// protocolDriver builds a driver with per-run state already initialized so
// the error protocols can be invoked directly.
func protocolDriver(t *testing.T, act Actuator, mutate func(*profile.Profile)) *Driver {
	t.Helper()
	p := quietProfile(t, 7, func(p *profile.Profile) {
		p.LeaveMistakeChance = 0
		p.DelayedNoticeChance = 0
		p.OverBackspaceChance = 0
		if mutate != nil {
			mutate(p)
		}
	})
	d, err := New(act, p, zaptest.NewLogger(t), WithSeed(11))
	require.NoError(t, err)
	d.reset(1)
	return d
}

func TestNewValidation(t *testing.T) {
	p := quietProfile(t, 1, nil)

	_, err := New(nil, p, nil)
	require.ErrorContains(t, err, "nil actuator")

	_, err = New(&scriptActuator{}, nil, nil)
	require.ErrorContains(t, err, "nil profile")

	bad := *p
	bad.BaseInterval = -1
	_, err = New(&scriptActuator{}, &bad, nil)
	require.ErrorContains(t, err, "bad profile")

	d, err := New(&scriptActuator{}, p, nil, WithSeed(3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.seed)
	assert.Equal(t, SkipEnact, d.policy)
}

func TestSkipPolicyFromActuatorCapability(t *testing.T) {
	p := quietProfile(t, 1, nil)

	d, err := New(&suppressingActuator{}, p, nil)
	require.NoError(t, err)
	assert.Equal(t, SkipSuppress, d.policy)

	// An explicit option wins over the capability.
	d, err = New(&suppressingActuator{}, p, nil, WithSkipPolicy(SkipEnact))
	require.NoError(t, err)
	assert.Equal(t, SkipEnact, d.policy)
}

func TestRunTypesCleanText(t *testing.T) {
	act := &scriptActuator{}
	p := quietProfile(t, 2, nil)
	d, err := New(act, p, zaptest.NewLogger(t), WithSeed(21))
	require.NoError(t, err)

	text := "the quick brown fox"
	tr, err := d.Run(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, text, act.pressed())
	assert.Zero(t, act.deletes())
	require.NoError(t, tr.Validate())
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, "qwerty", tr.Layout)
	assert.Equal(t, int64(21), tr.Seed)
	assert.Equal(t, text, tr.Text)

	require.Len(t, tr.Events, len(text))
	for i, ev := range tr.Events {
		assert.Equal(t, schemas.EventPress, ev.Kind, "event %d", i)
		assert.False(t, ev.Correction, "event %d", i)
		assert.GreaterOrEqual(t, ev.DelayMs, minWaitMs, "event %d", i)
		assert.GreaterOrEqual(t, ev.HoldMs, p.HoldMin, "event %d", i)
		assert.LessOrEqual(t, ev.HoldMs, p.HoldMax, "event %d", i)
	}

	rep := tr.Report
	assert.Equal(t, 4, rep.Words)
	// Spaces bypass the delay pipeline, so only letters count.
	assert.Equal(t, 16, rep.TotalKeystrokes)
	assert.Zero(t, rep.ErrorsInjected)
	assert.Zero(t, rep.Corrections)
	assert.Greater(t, rep.RealizedWPM, 0.0)
	assert.Greater(t, rep.ElapsedMs, 0.0)
	assert.Greater(t, rep.KeyConsistency, 0.0)
	assert.LessOrEqual(t, rep.KeyConsistency, 100.0)
}

func TestThinkPauseLandsOnNextKeystroke(t *testing.T) {
	act := &scriptActuator{}
	p := quietProfile(t, 3, func(p *profile.Profile) {
		p.ThinkChance = 1
	})
	d, err := New(act, p, zaptest.NewLogger(t), WithSeed(5))
	require.NoError(t, err)

	tr, err := d.Run(context.Background(), "ab cd")
	require.NoError(t, err)

	// a, b, space, c, d: the pause after the space lands on c's delay.
	require.Len(t, tr.Events, 5)
	assert.Equal(t, " ", tr.Events[2].Char)
	assert.Greater(t, tr.Events[3].DelayMs, 2*p.BaseInterval)
}

func TestRolloverInterleavesPressAndRelease(t *testing.T) {
	act := &scriptActuator{}
	p := quietProfile(t, 4, func(p *profile.Profile) {
		p.OverlapChance = 1
	})
	d, err := New(act, p, zaptest.NewLogger(t), WithSeed(9))
	require.NoError(t, err)

	tr, err := d.Run(context.Background(), "hello")
	require.NoError(t, err)

	want := []string{
		"press:h", "release:h",
		"press:e",
		"press:l", "release:e",
		"press:l", "release:l",
		"press:o", "release:l",
		"release:o",
	}
	assert.Equal(t, want, act.ops)
	require.Len(t, tr.Events, 5)
	for _, ev := range tr.Events {
		assert.Equal(t, schemas.EventPress, ev.Kind)
	}
}

func TestSkipPolicyThroughRun(t *testing.T) {
	rig := func(p *profile.Profile) {
		p.TypoChance = 1
		p.ErrorWeights = map[schemas.ErrorType]float64{schemas.ErrorSkip: 1}
	}

	t.Run("enact drops characters", func(t *testing.T) {
		act := &scriptActuator{}
		d, err := New(act, quietProfile(t, 6, rig), zaptest.NewLogger(t), WithSeed(30))
		require.NoError(t, err)

		tr, err := d.Run(context.Background(), "abcdef")
		require.NoError(t, err)

		skips := 0
		for _, ev := range tr.Events {
			if ev.Kind == schemas.EventSkip {
				skips++
				assert.Zero(t, ev.HoldMs)
			}
		}
		// Error weighting saturates from the fourth character on.
		assert.GreaterOrEqual(t, skips, 3)
		assert.Equal(t, len("abcdef"), len(act.pressed())+skips)
		assert.Equal(t, skips, tr.Report.ErrorsInjected)
		assert.Equal(t, skips, tr.Report.ErrorsByType[schemas.ErrorSkip])
		assert.Zero(t, tr.Report.SkipsSuppressed)
	})

	t.Run("suppress keeps the text intact", func(t *testing.T) {
		act := &suppressingActuator{}
		d, err := New(act, quietProfile(t, 6, rig), zaptest.NewLogger(t), WithSeed(30))
		require.NoError(t, err)

		tr, err := d.Run(context.Background(), "abcdef")
		require.NoError(t, err)

		assert.Equal(t, "abcdef", act.pressed())
		assert.GreaterOrEqual(t, tr.Report.SkipsSuppressed, 3)
		assert.Zero(t, tr.Report.ErrorsInjected)
		assert.Empty(t, tr.Report.ErrorsByType)
	})
}

func TestTransposeProtocol(t *testing.T) {
	act := &scriptActuator{}
	d := protocolDriver(t, act, nil)
	d.dyn.WordBoundary()
	d.dyn.SetWordContext("arc")

	next, handled, err := d.enactError(context.Background(), schemas.ErrorTranspose, []rune("arc"), 0, "arc")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, 2, next)

	want := []string{
		"press:r", "release:r",
		"press:a", "release:a",
		"delete", "delete",
		"press:a", "release:a",
		"press:r", "release:r",
	}
	assert.Equal(t, want, act.ops)
	assert.Equal(t, 1, d.corrections)
	assert.Equal(t, 1, d.errorsByType[schemas.ErrorTranspose])

	// Swapped pair, two deletions, then the corrected pair.
	kinds := make([]schemas.EventKind, 0, len(d.events))
	for _, ev := range d.events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []schemas.EventKind{
		schemas.EventPress, schemas.EventPress,
		schemas.EventDelete, schemas.EventDelete,
		schemas.EventPress, schemas.EventPress,
	}, kinds)
	assert.True(t, d.events[4].Correction)
	assert.True(t, d.events[5].Correction)
}

func TestTransposeAtLastCharFallsThrough(t *testing.T) {
	d := protocolDriver(t, &scriptActuator{}, nil)

	_, handled, err := d.enactError(context.Background(), schemas.ErrorTranspose, []rune("arc"), 2, "arc")
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Zero(t, d.errorsInjected)
}

func TestTransposeDelayedNotice(t *testing.T) {
	act := &scriptActuator{}
	d := protocolDriver(t, act, func(p *profile.Profile) {
		p.DelayedNoticeChance = 1
		p.DelayedNoticeChars = profile.IntSpan{Lo: 2, Hi: 2}
	})
	d.dyn.WordBoundary()
	d.dyn.SetWordContext("abcdef")

	next, handled, err := d.enactError(context.Background(), schemas.ErrorTranspose, []rune("abcdef"), 0, "abcdef")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, 4, next)

	// Swap b/a, keep typing c and d before noticing, erase all four,
	// retype them correctly.
	assert.Equal(t, "bacdabcd", act.pressed())
	assert.Equal(t, 4, act.deletes())
}

func TestTransposeOverBackspaceRetypesFromEarlier(t *testing.T) {
	act := &scriptActuator{}
	d := protocolDriver(t, act, func(p *profile.Profile) {
		p.OverBackspaceChance = 1
	})
	d.dyn.WordBoundary()
	d.dyn.SetWordContext("arc")

	next, handled, err := d.enactError(context.Background(), schemas.ErrorTranspose, []rune("arc"), 1, "arc")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, 3, next)

	// One deletion too many eats the char before the swap, so the retype
	// starts a position earlier.
	assert.Equal(t, "crarc", act.pressed())
	assert.Equal(t, 3, act.deletes())
}

func TestAdjacentProtocol(t *testing.T) {
	act := &scriptActuator{}
	d := protocolDriver(t, act, nil)
	d.dyn.WordBoundary()
	d.dyn.SetWordContext("ab")

	next, handled, err := d.enactError(context.Background(), schemas.ErrorAdjacent, []rune("ab"), 0, "ab")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, 1, next)

	pressed := []rune(act.pressed())
	require.Len(t, pressed, 2)
	wrong := pressed[0]
	assert.NotEqual(t, 'a', wrong)
	assert.True(t, strings.ContainsRune(keyboard.QWERTY().Neighbors('a'), wrong),
		"wrong key %q should neighbor 'a'", wrong)
	assert.Equal(t, 'a', pressed[1])
	assert.Equal(t, 1, act.deletes())
	assert.Equal(t, 1, d.corrections)
}

func TestConfusionProtocol(t *testing.T) {
	act := &scriptActuator{}
	d := protocolDriver(t, act, nil)
	d.dyn.WordBoundary()
	d.dyn.SetWordContext("bat")

	next, handled, err := d.enactError(context.Background(), schemas.ErrorConfusion, []rune("bat"), 0, "bat")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, 1, next)

	// b confuses with v, one quick backspace, immediate retype.
	assert.Equal(t, []string{
		"press:v", "release:v",
		"delete",
		"press:b", "release:b",
	}, act.ops)

	require.Len(t, d.events, 3)
	del, fix := d.events[1], d.events[2]
	assert.Equal(t, schemas.EventDelete, del.Kind)
	assert.InDelta(t, 225, del.DelayMs, 125, "reaction pause lands on the deletion")
	assert.True(t, fix.Correction)
	assert.InDelta(t, 60, fix.DelayMs, 30, "retype follows after only the backspace gap")
}

func TestConfusionLeftUncorrected(t *testing.T) {
	act := &scriptActuator{}
	d := protocolDriver(t, act, func(p *profile.Profile) {
		p.LeaveMistakeChance = 1
	})
	d.dyn.WordBoundary()
	d.dyn.SetWordContext("bat")

	next, handled, err := d.enactError(context.Background(), schemas.ErrorConfusion, []rune("bat"), 0, "bat")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, 1, next)
	assert.Equal(t, []string{"press:v", "release:v"}, act.ops)
	assert.Zero(t, d.corrections)
	assert.Greater(t, d.prevHold, 0.0)
}

func TestDoubleTapProtocol(t *testing.T) {
	act := &scriptActuator{}
	d := protocolDriver(t, act, nil)
	d.dyn.WordBoundary()
	d.dyn.SetWordContext("add")

	next, handled, err := d.enactError(context.Background(), schemas.ErrorDoubleTap, []rune("add"), 0, "add")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, 1, next)

	assert.Equal(t, []string{
		"press:a", "release:a",
		"press:a", "release:a",
		"delete",
	}, act.ops)
	assert.Zero(t, d.prevHold)
	assert.Equal(t, 1, d.corrections)

	// The bounce gap is short, nothing like a deliberate keystroke.
	require.Len(t, d.events, 3)
	assert.Less(t, d.events[1].DelayMs, d.profile.BaseInterval)
}

func TestCommonTypoProtocol(t *testing.T) {
	act := &scriptActuator{}
	d := protocolDriver(t, act, nil)
	d.dyn.WordBoundary()
	d.dyn.SetWordContext("the")

	next, handled, err := d.enactError(context.Background(), schemas.ErrorCommonTypo, []rune("the"), 0, "the")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, 3, next)

	pressed := act.pressed()
	require.True(t, strings.HasSuffix(pressed, "the"), "corrected word retyped, got %q", pressed)
	misspelled := strings.TrimSuffix(pressed, "the")
	assert.NotEmpty(t, misspelled)
	assert.NotEqual(t, "the", misspelled)
	assert.Equal(t, len(misspelled), act.deletes())
	assert.Equal(t, 1, d.corrections)
	assert.Equal(t, 1, d.errorsByType[schemas.ErrorCommonTypo])
}

func TestCommonTypoOnlyAtWordStart(t *testing.T) {
	d := protocolDriver(t, &scriptActuator{}, nil)

	_, handled, err := d.enactError(context.Background(), schemas.ErrorCommonTypo, []rune("the"), 1, "the")
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestEnactErrorCoversEveryType(t *testing.T) {
	for _, kind := range schemas.AllErrorTypes() {
		t.Run(string(kind), func(t *testing.T) {
			d := protocolDriver(t, &scriptActuator{}, nil)
			d.dyn.WordBoundary()
			d.dyn.SetWordContext("their")

			_, _, err := d.enactError(context.Background(), kind, []rune("their"), 1, "their")
			require.NoError(t, err)
		})
	}

	// Unknown kinds degrade to a normal keystroke instead of panicking.
	d := protocolDriver(t, &scriptActuator{}, nil)
	d.dyn.WordBoundary()
	d.dyn.SetWordContext("their")
	_, handled, err := d.enactError(context.Background(), schemas.ErrorType("smudge"), []rune("their"), 1, "their")
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestTranscriptDeterminism(t *testing.T) {
	run := func(seed int64) *schemas.Transcript {
		d, err := NewTestDriver(&scriptActuator{}, 95, seed)
		require.NoError(t, err)
		tr, err := d.Run(context.Background(), "pack my box with five dozen liquor jugs")
		require.NoError(t, err)
		return tr
	}

	a, b := run(42), run(42)
	assert.Empty(t, cmp.Diff(a.Events, b.Events))
	assert.Equal(t, a.Report.ElapsedMs, b.Report.ElapsedMs)
	assert.Equal(t, a.Report.ErrorsInjected, b.Report.ErrorsInjected)

	c := run(43)
	assert.NotEmpty(t, cmp.Diff(a.Events, c.Events))
}

func TestReplayMatchesLiveSession(t *testing.T) {
	live := &scriptActuator{}
	p := quietProfile(t, 8, func(p *profile.Profile) {
		p.TypoChance = 1
	})
	d, err := New(live, p, zaptest.NewLogger(t), WithSeed(77))
	require.NoError(t, err)

	tr, err := d.Run(context.Background(), "sphinx of black quartz judge my vow")
	require.NoError(t, err)

	back := &scriptActuator{}
	require.NoError(t, Replay(context.Background(), back, tr))

	assert.Equal(t, live.ops, back.ops)
	assert.InDelta(t, float64(live.waitTotal), float64(back.waitTotal), float64(time.Millisecond))
}

func TestReplayRejectsBadTranscript(t *testing.T) {
	err := Replay(context.Background(), &scriptActuator{}, nil)
	require.ErrorContains(t, err, "nil transcript")

	err = Replay(context.Background(), nil, &schemas.Transcript{})
	require.ErrorContains(t, err, "nil actuator")

	bad := &schemas.Transcript{ID: "x", TargetWPM: 90, Events: []schemas.TimedKeystroke{{Kind: "warp"}}}
	err = Replay(context.Background(), &scriptActuator{}, bad)
	require.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d, err := NewTestDriver(&scriptActuator{}, 90, 1)
	require.NoError(t, err)
	_, err = d.Run(ctx, "never typed")
	require.ErrorIs(t, err, context.Canceled)
}

// queueSource hands out a fixed word list, then io.EOF.
type queueSource struct {
	words []string
	i     int
}

func (s *queueSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.i >= len(s.words) {
		return "", io.EOF
	}
	w := s.words[s.i]
	s.i++
	return w, nil
}

// cancelingSource delivers its words, then cancels the session and blocks
// the way a drained live tail would.
type cancelingSource struct {
	queueSource
	cancel context.CancelFunc
}

func (s *cancelingSource) Next(ctx context.Context) (string, error) {
	if s.i < len(s.words) {
		w := s.words[s.i]
		s.i++
		return w, nil
	}
	s.cancel()
	<-ctx.Done()
	return "", ctx.Err()
}

func TestRunSourceTypesAllWords(t *testing.T) {
	act := &scriptActuator{}
	p := quietProfile(t, 4, nil)
	d, err := New(act, p, zaptest.NewLogger(t), WithSeed(31))
	require.NoError(t, err)

	src := &queueSource{words: []string{"words", "as", "they", "come"}}
	tr, err := d.RunSource(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, "words as they come", act.pressed())
	assert.Equal(t, "words as they come", tr.Text)
	require.NoError(t, tr.Validate())
	assert.Equal(t, 4, tr.Report.Words)
}

func TestRunSourceEndsCleanlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	act := &scriptActuator{}
	p := quietProfile(t, 5, nil)
	d, err := New(act, p, zaptest.NewLogger(t), WithSeed(33))
	require.NoError(t, err)

	src := &cancelingSource{
		queueSource: queueSource{words: []string{"hello", "world"}},
		cancel:      cancel,
	}
	tr, err := d.RunSource(ctx, src)
	require.NoError(t, err, "interrupting an idle source should not lose the session")

	assert.Equal(t, "hello world", tr.Text)
	assert.Equal(t, "hello world", act.pressed())
	assert.Equal(t, 2, tr.Report.Words)
}

func TestRunSourceEmpty(t *testing.T) {
	d, err := NewTestDriver(&scriptActuator{}, 90, 1)
	require.NoError(t, err)

	_, err = d.RunSource(context.Background(), &queueSource{})
	require.ErrorIs(t, err, ErrNoWords)

	_, err = d.Run(context.Background(), "   ")
	require.ErrorIs(t, err, ErrNoWords)
}

func TestRunSourcePropagatesSourceError(t *testing.T) {
	d, err := NewTestDriver(&scriptActuator{}, 90, 1)
	require.NoError(t, err)

	src := &failingSource{after: 1}
	_, err = d.RunSource(context.Background(), src)
	require.ErrorContains(t, err, "word source")
	require.ErrorContains(t, err, "tail torn")
}

type failingSource struct {
	after int
	i     int
}

func (s *failingSource) Next(context.Context) (string, error) {
	if s.i < s.after {
		s.i++
		return "ok", nil
	}
	return "", errors.New("tail torn")
}

func TestRunWrapsActuatorFailure(t *testing.T) {
	act := &scriptActuator{failOnOp: 3}
	d, err := NewTestDriver(act, 90, 1)
	require.NoError(t, err)

	_, err = d.Run(context.Background(), "the quick fox")
	require.ErrorContains(t, err, "actuator failure")
	require.ErrorContains(t, err, "word 0")
}

func TestCasualBandCalibration(t *testing.T) {
	if testing.Short() {
		t.Skip("calibration sweep")
	}

	text := "the quick brown fox jumps over the lazy dog while " +
		"pack my box with five dozen liquor jugs and then " +
		"sphinx of black quartz judge my vow"

	const sessions = 200
	var keySum, holdSum, ratioSum float64
	for i := 0; i < sessions; i++ {
		wpm := float64(75 + i%21)
		d, err := NewTestDriver(&scriptActuator{}, wpm, int64(1000+i))
		require.NoError(t, err)

		tr, err := d.Run(context.Background(), text)
		require.NoError(t, err)

		rep := tr.Report
		require.Greater(t, rep.KeyConsistency, 5.0, "session %d", i)
		require.Less(t, rep.KeyConsistency, 99.5, "session %d", i)
		keySum += rep.KeyConsistency
		holdSum += rep.HoldConsistency
		ratioSum += rep.RealizedWPM / rep.TargetWPM
	}

	meanKey := keySum / sessions
	meanHold := holdSum / sessions
	meanRatio := ratioSum / sessions

	// Casual personas target the 50-65 consistency band; realized values
	// drift a little wider once corrections and pauses land.
	assert.Greater(t, meanKey, 45.0)
	assert.Less(t, meanKey, 70.0)
	assert.Greater(t, meanHold, 10.0)
	assert.Less(t, meanHold, 99.0)
	assert.Greater(t, meanRatio, 0.45)
	assert.Less(t, meanRatio, 1.05)
}
