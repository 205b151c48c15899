package segment

import (
	"unicode"
	"unicode/utf8"
)

// SentencePolicy breaks at sentence-like punctuation and newlines, and
// treats blank lines as hard paragraph boundaries. It is the default step
// policy for prose.
type SentencePolicy struct{}

// NextBreak scans forward from pos for the next sentence-like break. A break
// sits just past a run of terminal punctuation (plus any closing quotes or
// brackets) followed by whitespace, or right before a newline. Leading
// whitespace is skipped first, so the returned offset always covers content.
func (SentencePolicy) NextBreak(src TextSource, pos int) int {
	text := src.ReadRange(pos, src.Len())

	i := 0
	for i < len(text) {
		r, w := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += w
	}

	for i < len(text) {
		r, w := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '\n':
			return pos + i
		case isTerminal(r):
			j := i + w
			for j < len(text) {
				r2, w2 := utf8.DecodeRuneInString(text[j:])
				if !isTerminal(r2) && !isCloser(r2) {
					break
				}
				j += w2
			}
			if j >= len(text) {
				return pos + j
			}
			// punctuation inside a word (decimals, versions, URLs)
			// is not a break
			if r2, _ := utf8.DecodeRuneInString(text[j:]); unicode.IsSpace(r2) {
				return pos + j
			}
			i = j
		default:
			i += w
		}
	}
	return src.Len()
}

// HardBreak reports whether a paragraph boundary, a blank line or the end of
// the document, follows pos before any further content.
func (SentencePolicy) HardBreak(src TextSource, pos int) bool {
	if pos >= src.Len() {
		return true
	}
	text := src.ReadRange(pos, src.Len())
	newlines := 0
	for i := 0; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '\n':
			newlines++
			if newlines >= 2 {
				return true
			}
		case !unicode.IsSpace(r):
			return false
		}
		i += w
	}
	return true
}

// Accept keeps any segment that covers at least one byte, which makes the
// produced bounds strictly increasing.
func (SentencePolicy) Accept(b Bounds) bool { return b.End > b.Start }

// HeadingPolicy segments like SentencePolicy but additionally treats
// markdown-style headings as hard boundaries, so structured documents pause
// before each section.
type HeadingPolicy struct {
	SentencePolicy
}

// HardBreak reports a paragraph boundary or an upcoming heading line.
func (p HeadingPolicy) HardBreak(src TextSource, pos int) bool {
	if p.SentencePolicy.HardBreak(src, pos) {
		return true
	}
	text := src.ReadRange(pos, src.Len())
	sawNewline := false
	for i := 0; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '\n':
			sawNewline = true
		case !unicode.IsSpace(r):
			return sawNewline && r == '#'
		}
		i += w
	}
	return true
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’':
		return true
	}
	return false
}
