package command

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Reader walks the words of one input line. The first word is the verb.
type Reader struct {
	line  string
	words []string
	off   int
}

// NewReader normalises the line to NFC and splits it on white space.
func NewReader(line string) *Reader {
	line = norm.NFC.String(strings.TrimSpace(line))
	return &Reader{line: line, words: strings.FieldsFunc(line, unicode.IsSpace), off: 1}
}

// Verb returns the case-folded first word, or "" for a blank line.
func (r *Reader) Verb() string {
	if len(r.words) == 0 {
		return ""
	}
	return cases.Fold().String(r.words[0])
}

// Next returns the next word, or "" when none remain.
func (r *Reader) Next() string {
	if r.off >= len(r.words) {
		return ""
	}
	w := r.words[r.off]
	r.off++
	return w
}

// Rest returns the unread words joined by single spaces and consumes them.
// Filler words such as "the" and "to" at the front are dropped.
func (r *Reader) Rest() string {
	for r.off < len(r.words) && fillers[cases.Fold().String(r.words[r.off])] {
		r.off++
	}
	if r.off >= len(r.words) {
		return ""
	}
	s := strings.Join(r.words[r.off:], " ")
	r.off = len(r.words)
	return s
}

// Raw returns the line after the verb exactly as typed, for payloads such
// as JSON that must keep their spacing.
func (r *Reader) Raw() string {
	if len(r.words) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(r.line, r.words[0]))
}

// Remaining returns the number of unread words.
func (r *Reader) Remaining() int {
	return len(r.words) - r.off
}

var fillers = map[string]bool{
	"the": true, "a": true, "an": true, "to": true, "at": true, "with": true, "up": true, "on": true,
}
