// Package segment computes ordered, bounded speech units from a document.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinLength is the minimum segment length, in bytes, below which
// adjacent units are merged into one segment.
const DefaultMinLength = 20

// TextSource is the read-only document surface the segmenter walks.
type TextSource interface {
	// ReadRange returns the text between start (inclusive) and end
	// (exclusive), clamped to the document extents.
	ReadRange(start, end int) string

	// Len returns the document length in bytes.
	Len() int
}

// Bounds is an ordered pair of byte offsets describing one speech unit.
// Start is inclusive, End exclusive, and Start <= End always holds.
type Bounds struct {
	Start int
	End   int
}

// Len returns the segment length in bytes.
func (b Bounds) Len() int { return b.End - b.Start }

// StepPolicy decides where speech units break. Policies are pure with
// respect to the document and may be swapped per document type.
type StepPolicy interface {
	// NextBreak returns the offset just past the next unit boundary at or
	// after pos. Returning a value <= pos means no further boundary exists.
	NextBreak(src TextSource, pos int) int

	// HardBreak reports whether pos sits at a hard structural boundary,
	// such as a paragraph break or the end of the document.
	HardBreak(src TextSource, pos int) bool

	// Accept reports whether a candidate segment should be included.
	Accept(b Bounds) bool
}

// Segmenter produces ordered, non-overlapping segment bounds on demand.
// It holds no position of its own, so callers may restart from any offset.
type Segmenter struct {
	src    TextSource
	policy StepPolicy
	minLen int
}

// New creates a Segmenter over src. A nil policy falls back to
// SentencePolicy and a non-positive minLen to DefaultMinLength.
func New(src TextSource, policy StepPolicy, minLen int) *Segmenter {
	if policy == nil {
		policy = SentencePolicy{}
	}
	if minLen <= 0 {
		minLen = DefaultMinLength
	}
	return &Segmenter{src: src, policy: policy, minLen: minLen}
}

// NextBounds returns up to count segment bounds starting at pos. The result
// is ordered, pairwise non-overlapping, and strictly increasing in start
// offset. An empty result means no segment remains before document end.
func (s *Segmenter) NextBounds(pos, count int) []Bounds {
	var out []Bounds
	for len(out) < count {
		b, ok := s.next(pos)
		if !ok || !s.policy.Accept(b) {
			break
		}
		out = append(out, b)
		pos = b.End
	}
	return out
}

// HardBreakAt reports whether a hard structural boundary follows pos.
func (s *Segmenter) HardBreakAt(pos int) bool {
	return s.policy.HardBreak(s.src, pos)
}

// next computes a single segment starting at or after pos. The tentative end
// is extended past unit breaks until the segment reaches the minimum length
// or a hard boundary, so no segment is sub-minimum unless it is the last one
// before document end.
func (s *Segmenter) next(pos int) (Bounds, bool) {
	start := s.skipSpace(pos)
	if start >= s.src.Len() {
		return Bounds{}, false
	}

	end := start
	for {
		next := s.policy.NextBreak(s.src, end)
		if next <= end {
			next = s.src.Len()
		}
		end = next
		if end >= s.src.Len() {
			end = s.src.Len()
			break
		}
		if end-start >= s.minLen || s.policy.HardBreak(s.src, end) {
			break
		}
	}

	end = s.trimTrailingSpace(start, end)
	if end <= start {
		return Bounds{}, false
	}
	return Bounds{Start: start, End: end}, true
}

// skipSpace advances pos past whitespace and newlines.
func (s *Segmenter) skipSpace(pos int) int {
	if pos < 0 {
		pos = 0
	}
	text := s.src.ReadRange(pos, s.src.Len())
	for i := 0; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			return pos + i
		}
		i += w
	}
	return s.src.Len()
}

func (s *Segmenter) trimTrailingSpace(start, end int) int {
	text := s.src.ReadRange(start, end)
	return start + len(strings.TrimRightFunc(text, unicode.IsSpace))
}
