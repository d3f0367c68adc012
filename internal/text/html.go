package text

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// skippedElements never contribute visible text.
var skippedElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
	"head":     {},
	"iframe":   {},
}

// HTMLSource serves the visible text of an HTML document as words in
// document order. Script, style, and head subtrees are dropped.
type HTMLSource struct {
	words []string
	pos   int
}

// NewHTMLSource parses the document eagerly. Malformed markup is repaired
// the way browsers repair it, so parse errors only surface for broken
// readers.
func NewHTMLSource(r io.Reader) (*HTMLSource, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("text: parse html: %w", err)
	}
	var b strings.Builder
	collectText(doc, &b)
	return &HTMLSource{words: strings.Fields(b.String())}, nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		if _, skip := skippedElements[n.Data]; skip {
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func (s *HTMLSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.pos >= len(s.words) {
		return "", io.EOF
	}
	w := s.words[s.pos]
	s.pos++
	return w, nil
}

// Words returns the full extracted word list, mostly for previews.
func (s *HTMLSource) Words() []string {
	return s.words
}
