package keyboard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const qwertzOverlay = `<?xml version="1.0"?>
<layout name="qwertz">
  <key char="z" finger="4" row="1" neighbors="tghu"/>
  <key char="y" finger="0" row="3" neighbors="asx"/>
  <column finger="4">zhnujm</column>
  <column finger="0">qay</column>
</layout>`

func TestParseLayoutXMLOverrides(t *testing.T) {
	l, err := ParseLayoutXML([]byte(qwertzOverlay))
	require.NoError(t, err)

	assert.Equal(t, "qwertz", l.Name())

	// Swapped keys take the overridden positions.
	assert.Equal(t, 4, l.FingerOf('z'))
	assert.Equal(t, TopRow, l.RowOf('z'))
	assert.Equal(t, "tghu", l.Neighbors('z'))
	assert.Equal(t, 0, l.FingerOf('y'))
	assert.Equal(t, BottomRow, l.RowOf('y'))

	// Columns replaced the same-finger set: zh is now one finger, yh is not.
	assert.True(t, l.SameFingerPair('z', 'h'))
	assert.True(t, l.SameFingerPair('a', 'y'))
	assert.False(t, l.SameFingerPair('y', 'h'))

	// Untouched keys keep their QWERTY assignments.
	assert.Equal(t, 3, l.FingerOf('t'))
	assert.Equal(t, HomeRow, l.RowOf('f'))
}

func TestParseLayoutXMLKeepsPairsWithoutColumns(t *testing.T) {
	l, err := ParseLayoutXML([]byte(`<layout name="tweak"><key char="q" finger="1"/></layout>`))
	require.NoError(t, err)

	assert.Equal(t, 1, l.FingerOf('q'))
	assert.True(t, l.SameFingerPair('e', 'd'), "QWERTY pair set survives when no columns are declared")
}

func TestParseLayoutXMLRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not xml", `{"layout": "qwerty"}`},
		{"wrong root", `<keymap name="x"/>`},
		{"multi-rune char", `<layout><key char="ab" finger="1"/></layout>`},
		{"missing char", `<layout><key finger="1"/></layout>`},
		{"finger out of range", `<layout><key char="a" finger="9"/></layout>`},
		{"negative finger", `<layout><key char="a" finger="-1"/></layout>`},
		{"row out of range", `<layout><key char="a" row="7"/></layout>`},
		{"column bad finger", `<layout><column finger="x">abc</column></layout>`},
		{"column without keys", `<layout><column finger="2">  </column></layout>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLayoutXML([]byte(tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadLayoutXMLFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qwertz.xml")
	require.NoError(t, os.WriteFile(path, []byte(qwertzOverlay), 0o644))

	l, err := LoadLayoutXML(path)
	require.NoError(t, err)
	assert.Equal(t, "qwertz", l.Name())

	_, err = LoadLayoutXML(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}
