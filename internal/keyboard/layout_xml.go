package keyboard

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// LoadLayoutXML reads a keymap overlay and applies it on top of QWERTY.
//
// Document shape:
//
//	<layout name="qwertz">
//	  <key char="z" finger="4" row="1" neighbors="tghu"/>
//	  <key char="y" finger="0" row="3"/>
//	  <column finger="4">zhnujm</column>
//	</layout>
//
// <key> overrides finger/row/neighbor assignments for one character. If any
// <column> elements are present they replace the entire same-finger bigram
// set (and assign their finger to every listed key); otherwise the QWERTY
// pair set is kept. Malformed documents are an error, never a silent
// fallback.
func LoadLayoutXML(path string) (*Layout, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("keyboard: read layout %s: %w", path, err)
	}
	return parseLayout(doc, path)
}

// ParseLayoutXML is the in-memory variant of LoadLayoutXML.
func ParseLayoutXML(data []byte) (*Layout, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("keyboard: parse layout: %w", err)
	}
	return parseLayout(doc, "inline")
}

func parseLayout(doc *etree.Document, origin string) (*Layout, error) {
	root := doc.SelectElement("layout")
	if root == nil {
		return nil, fmt.Errorf("keyboard: %s: missing <layout> root element", origin)
	}

	l := QWERTY()
	if name := root.SelectAttrValue("name", ""); name != "" {
		l.name = name
	}

	for _, el := range root.SelectElements("key") {
		char := el.SelectAttrValue("char", "")
		if utf8.RuneCountInString(char) != 1 {
			return nil, fmt.Errorf("keyboard: %s: <key> needs a single-character char attribute, got %q", origin, char)
		}
		r := unicode.ToLower([]rune(char)[0])

		if v := el.SelectAttrValue("finger", ""); v != "" {
			f, err := strconv.Atoi(v)
			if err != nil || f < 0 || f > ThumbFinger {
				return nil, fmt.Errorf("keyboard: %s: key %q: finger %q out of range 0-8", origin, char, v)
			}
			l.fingers[r] = f
		}
		if v := el.SelectAttrValue("row", ""); v != "" {
			row, err := strconv.Atoi(v)
			if err != nil || row < NumberRow || row > SpaceRow {
				return nil, fmt.Errorf("keyboard: %s: key %q: row %q out of range 0-4", origin, char, v)
			}
			l.rows[r] = row
		}
		if v := el.SelectAttrValue("neighbors", ""); v != "" {
			l.neighbors[r] = strings.ToLower(v)
		}
	}

	columns := root.SelectElements("column")
	if len(columns) == 0 {
		return l, nil
	}

	groups := make([]columnGroup, 0, len(columns))
	for _, el := range columns {
		v := el.SelectAttrValue("finger", "")
		f, err := strconv.Atoi(v)
		if err != nil || f < 0 || f > ThumbFinger {
			return nil, fmt.Errorf("keyboard: %s: <column> finger %q out of range 0-8", origin, v)
		}
		keys := strings.ToLower(strings.TrimSpace(el.Text()))
		if keys == "" {
			return nil, fmt.Errorf("keyboard: %s: <column> for finger %d lists no keys", origin, f)
		}
		for _, r := range keys {
			l.fingers[r] = f
		}
		groups = append(groups, columnGroup{finger: f, keys: keys})
	}
	l.rebuildSameFinger(groups)

	return l, nil
}
