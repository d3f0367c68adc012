package schemas

import (
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimedKeystrokeDurations(t *testing.T) {
	k := TimedKeystroke{Char: "a", Kind: EventPress, DelayMs: 102.5, HoldMs: 48.25}
	assert.Equal(t, 102500*time.Microsecond, k.Delay())
	assert.Equal(t, 48250*time.Microsecond, k.Hold())
}

func TestTimedKeystrokeValidate(t *testing.T) {
	tests := []struct {
		name    string
		ev      TimedKeystroke
		wantErr bool
	}{
		{"valid press", TimedKeystroke{Char: "a", Kind: EventPress, DelayMs: 100, HoldMs: 40}, false},
		{"valid delete", TimedKeystroke{Kind: EventDelete, DelayMs: 60, HoldMs: 35, Correction: true}, false},
		{"valid skip", TimedKeystroke{Char: "x", Kind: EventSkip}, false},
		{"unknown kind", TimedKeystroke{Char: "a", Kind: "mash"}, true},
		{"press without char", TimedKeystroke{Kind: EventPress, DelayMs: 100}, true},
		{"negative delay", TimedKeystroke{Char: "a", Kind: EventPress, DelayMs: -1}, true},
		{"negative hold", TimedKeystroke{Char: "a", Kind: EventPress, HoldMs: -1}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.ev.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTranscriptValidate(t *testing.T) {
	tr := &Transcript{
		ID:        "b1946ac9-4931-4b63-9a5d-1f04b0f0cb0e",
		TargetWPM: 105,
		Events: []TimedKeystroke{
			{Char: "h", Kind: EventPress, DelayMs: 110, HoldMs: 45},
			{Char: "i", Kind: EventPress, DelayMs: 95, HoldMs: 50},
		},
	}
	require.NoError(t, tr.Validate())

	tr.Events = append(tr.Events, TimedKeystroke{Kind: "bogus"})
	err := tr.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event 2")

	assert.Error(t, (&Transcript{TargetWPM: 100}).Validate())
	assert.Error(t, (&Transcript{ID: "x", TargetWPM: 0}).Validate())
}

func TestTranscriptJSONRoundTrip(t *testing.T) {
	json := jsoniter.ConfigCompatibleWithStandardLibrary

	in := &Transcript{
		ID:        "0b342a19-6162-47ad-b8e5-02fdb02ff6d6",
		TargetWPM: 92,
		Seed:      42,
		Layout:    "qwerty",
		Events: []TimedKeystroke{
			{Char: "t", Kind: EventPress, DelayMs: 131.2, HoldMs: 52.8},
			{Kind: EventDelete, DelayMs: 64, HoldMs: 38, Correction: true},
		},
		Report: SessionReport{
			SessionID:       "0b342a19-6162-47ad-b8e5-02fdb02ff6d6",
			TargetWPM:       92,
			RealizedWPM:     89.4,
			TotalKeystrokes: 2,
			ErrorsByType:    map[ErrorType]int{ErrorAdjacent: 1},
		},
	}

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out Transcript
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in.Events, out.Events)
	assert.Equal(t, in.Report.ErrorsByType, out.Report.ErrorsByType)
	assert.Equal(t, in.Seed, out.Seed)
}

func TestAllErrorTypesCoversConstants(t *testing.T) {
	seen := make(map[ErrorType]bool)
	for _, et := range AllErrorTypes() {
		seen[et] = true
	}
	assert.Len(t, seen, 6, "duplicate entries in AllErrorTypes")
	for _, et := range []ErrorType{
		ErrorAdjacent, ErrorTranspose, ErrorConfusion,
		ErrorDoubleTap, ErrorSkip, ErrorCommonTypo,
	} {
		assert.True(t, seen[et], "missing %s", et)
	}
}
