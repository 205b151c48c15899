package segment

import (
	"reflect"
	"testing"
)

// stringSource adapts a plain string to the TextSource interface.
type stringSource string

func (s stringSource) ReadRange(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return ""
	}
	return string(s[start:end])
}

func (s stringSource) Len() int { return len(s) }

func textOf(src TextSource, b Bounds) string {
	return src.ReadRange(b.Start, b.End)
}

// TestNextBoundsMergesShortSentences checks that two sub-minimum sentences
// merge into a single segment.
func TestNextBoundsMergesShortSentences(t *testing.T) {
	src := stringSource("Hello world. This is fine.")
	seg := New(src, SentencePolicy{}, 20)

	bounds := seg.NextBounds(0, 5)
	if len(bounds) != 1 {
		t.Fatalf("NextBounds returned %d segments, want 1: %v", len(bounds), bounds)
	}
	if got := textOf(src, bounds[0]); got != "Hello world. This is fine." {
		t.Errorf("segment text = %q, want the merged sentence", got)
	}
}

// TestNextBoundsSplitsLongSentences checks that sentences at or above the
// minimum stay separate.
func TestNextBoundsSplitsLongSentences(t *testing.T) {
	src := stringSource("This first sentence is long enough. And so is this second sentence here.")
	seg := New(src, SentencePolicy{}, 20)

	bounds := seg.NextBounds(0, 5)
	if len(bounds) != 2 {
		t.Fatalf("NextBounds returned %d segments, want 2: %v", len(bounds), bounds)
	}
	if got := textOf(src, bounds[0]); got != "This first sentence is long enough." {
		t.Errorf("first segment = %q", got)
	}
	if got := textOf(src, bounds[1]); got != "And so is this second sentence here." {
		t.Errorf("second segment = %q", got)
	}
}

// TestNextBoundsHardBreakStopsMerging checks that a paragraph break accepts a
// sub-minimum segment instead of merging across the break.
func TestNextBoundsHardBreakStopsMerging(t *testing.T) {
	src := stringSource("Tiny one.\n\nNext paragraph is long enough here.")
	seg := New(src, SentencePolicy{}, 20)

	bounds := seg.NextBounds(0, 5)
	if len(bounds) != 2 {
		t.Fatalf("NextBounds returned %d segments, want 2: %v", len(bounds), bounds)
	}
	if got := textOf(src, bounds[0]); got != "Tiny one." {
		t.Errorf("first segment = %q, want %q", got, "Tiny one.")
	}
	if !seg.HardBreakAt(bounds[0].End) {
		t.Error("expected a hard break after the first segment")
	}
	if seg.HardBreakAt(bounds[1].Start) {
		t.Error("did not expect a hard break at the second segment start")
	}
}

// TestNextBoundsProperties checks ordering invariants across documents and
// policies: pairwise non-overlapping, strictly increasing starts, and no
// sub-minimum segment except the last.
func TestNextBoundsProperties(t *testing.T) {
	docs := []string{
		"One. Two. Three. Four. Five. Six. Seven. Eight. Nine. Ten.",
		"A longer paragraph that keeps going for a while. It has several sentences in it. Some are short. Ok.\n\nAnother paragraph follows after the break, also with enough text to split. The end.",
		"  \n\n  Leading whitespace everywhere.\nThen a line.\nAnd another line after that one.",
		"No terminal punctuation at all just a stream of words that never stops until the document ends",
	}
	policies := map[string]StepPolicy{
		"sentence": SentencePolicy{},
		"heading":  HeadingPolicy{},
	}

	for name, policy := range policies {
		for di, doc := range docs {
			src := stringSource(doc)
			seg := New(src, policy, 20)
			bounds := seg.NextBounds(0, 50)

			for i, b := range bounds {
				if b.End <= b.Start {
					t.Errorf("%s/doc%d: segment %d not increasing: %+v", name, di, i, b)
				}
				if i > 0 && b.Start < bounds[i-1].End {
					t.Errorf("%s/doc%d: segment %d overlaps previous: %+v then %+v",
						name, di, i, bounds[i-1], b)
				}
				if i < len(bounds)-1 && b.Len() < 20 && !seg.HardBreakAt(b.End) {
					t.Errorf("%s/doc%d: non-final segment %d below minimum without hard break: %q",
						name, di, i, textOf(src, b))
				}
			}
		}
	}
}

// TestNextBoundsExhausted checks the completion signal.
func TestNextBoundsExhausted(t *testing.T) {
	src := stringSource("Only one sentence lives here.")
	seg := New(src, SentencePolicy{}, 20)

	bounds := seg.NextBounds(0, 3)
	if len(bounds) != 1 {
		t.Fatalf("NextBounds returned %d segments, want 1", len(bounds))
	}
	if rest := seg.NextBounds(bounds[0].End, 3); len(rest) != 0 {
		t.Errorf("expected no segments past document end, got %v", rest)
	}
	if rest := seg.NextBounds(src.Len()+100, 3); len(rest) != 0 {
		t.Errorf("expected no segments past out-of-range position, got %v", rest)
	}
}

// TestNextBoundsRestartable checks that the segmenter is pure with respect
// to position: re-invoking from the same offset yields the same bounds.
func TestNextBoundsRestartable(t *testing.T) {
	src := stringSource("First sentence is long enough here. Second sentence is long enough too.")
	seg := New(src, SentencePolicy{}, 20)

	first := seg.NextBounds(0, 2)
	second := seg.NextBounds(0, 2)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("NextBounds not restartable: %v then %v", first, second)
	}

	fromMiddle := seg.NextBounds(first[0].End, 1)
	if len(fromMiddle) != 1 || !reflect.DeepEqual(fromMiddle[0], first[1]) {
		t.Errorf("restart from middle = %v, want %v", fromMiddle, first[1])
	}
}

// TestNextBoundsSkipsLeadingWhitespace checks the initial whitespace skip.
func TestNextBoundsSkipsLeadingWhitespace(t *testing.T) {
	src := stringSource("\n\n   The real start is further in, past the blanks.")
	seg := New(src, SentencePolicy{}, 20)

	bounds := seg.NextBounds(0, 1)
	if len(bounds) != 1 {
		t.Fatalf("NextBounds returned %d segments, want 1", len(bounds))
	}
	if got := textOf(src, bounds[0]); got != "The real start is further in, past the blanks." {
		t.Errorf("segment text = %q", got)
	}
}

// TestSentencePolicyNextBreak exercises boundary detection directly.
func TestSentencePolicyNextBreak(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  int
		want string // text up to the returned break
	}{
		{"simple", "One two. Three.", 0, "One two."},
		{"decimal is not a break", "Pi is 3.14 exactly. More", 0, "Pi is 3.14 exactly."},
		{"closing quote swallowed", `He said "stop." Then left.`, 0, `He said "stop."`},
		{"newline breaks", "line one\nline two.", 0, "line one"},
		{"question mark", "Really? Yes.", 0, "Really?"},
	}

	policy := SentencePolicy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := stringSource(tt.text)
			end := policy.NextBreak(src, tt.pos)
			if got := src.ReadRange(tt.pos, end); got != tt.want {
				t.Errorf("NextBreak covered %q, want %q", got, tt.want)
			}
		})
	}
}

// TestHeadingPolicyHardBreak checks the heading-aware boundary.
func TestHeadingPolicyHardBreak(t *testing.T) {
	src := stringSource("Intro paragraph text here.\n# Section\nBody of the section follows.")
	end := len("Intro paragraph text here.")

	if (SentencePolicy{}).HardBreak(src, end) {
		t.Error("sentence policy should not see a hard break before the heading")
	}
	if !(HeadingPolicy{}).HardBreak(src, end) {
		t.Error("heading policy should see a hard break before the heading")
	}
}
