package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/readaloud/speech"
)

const testDoc = "line one\nline two\nline three\nline four\nline five"

func TestDocViewLineFor(t *testing.T) {
	d := newDocView("test.txt", testDoc)

	tests := []struct {
		pos  int
		want int
	}{
		{0, 0},
		{7, 0},
		{9, 1},  // first byte of "line two"
		{17, 1}, // its trailing newline
		{18, 2},
		{len(testDoc) - 1, 4},
	}
	for _, tt := range tests {
		if got := d.lineFor(tt.pos); got != tt.want {
			t.Errorf("lineFor(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestDocViewVisibility(t *testing.T) {
	d := newDocView("test.txt", testDoc)
	d.setViewport(1, 2) // lines 1 and 2 visible

	if d.IsVisible(0) {
		t.Error("line 0 should be above the viewport")
	}
	if !d.IsVisible(9) || !d.IsVisible(18) {
		t.Error("lines 1 and 2 should be visible")
	}
	if d.IsVisible(29) {
		t.Error("line 3 should be below the viewport")
	}
}

func TestDocViewScrollIntoView(t *testing.T) {
	d := newDocView("test.txt", testDoc)
	d.setViewport(0, 2)

	var got []scrollToMsg
	d.send = func(msg tea.Msg) {
		if m, ok := msg.(scrollToMsg); ok {
			got = append(got, m)
		}
	}

	// minimal scroll down to line 3
	d.ScrollIntoView(29, false)
	if len(got) != 1 || got[0].top != 2 {
		t.Fatalf("minimal scroll sent %v, want top 2", got)
	}

	// centering puts the target in the middle
	d.ScrollIntoView(29, true)
	if len(got) != 2 || got[1].top != 2 {
		t.Fatalf("centered scroll sent %v, want top 2", got)
	}

	// centering near the start clamps to zero
	d.ScrollIntoView(0, true)
	if got[len(got)-1].top != 0 {
		t.Errorf("clamped scroll sent top %d, want 0", got[len(got)-1].top)
	}
}

func TestDocViewRenderWithoutMarker(t *testing.T) {
	d := newDocView("test.txt", testDoc)
	if got := d.render(); got != testDoc {
		t.Errorf("render() without marker altered the text:\n%q", got)
	}
}

func TestDocViewMarkerLifecycle(t *testing.T) {
	d := newDocView("test.txt", testDoc)

	refreshes := 0
	d.send = func(msg tea.Msg) {
		if _, ok := msg.(refreshMsg); ok {
			refreshes++
		}
	}

	d.MoveMarker(9, 17, speech.MarkerStyle{Color: "yellow"})
	if !d.marker.active {
		t.Error("marker not active after MoveMarker")
	}
	d.RemoveMarker()
	if d.marker.active {
		t.Error("marker active after RemoveMarker")
	}
	if refreshes != 2 {
		t.Errorf("sent %d refreshes, want 2", refreshes)
	}
}

func TestDocViewReload(t *testing.T) {
	d := newDocView("test.txt", testDoc)
	d.SetCursor(20)
	d.MoveMarker(9, 17, speech.MarkerStyle{})
	d.setViewport(3, 2)

	d.reload("fresh text\nsecond line")

	if d.Cursor() != 0 {
		t.Errorf("cursor = %d after reload, want 0", d.Cursor())
	}
	if d.marker.active {
		t.Error("marker survived reload")
	}
	if got := d.ReadRange(0, d.Len()); got != "fresh text\nsecond line" {
		t.Errorf("text after reload = %q", got)
	}
	if d.lineFor(11) != 1 {
		t.Error("line index not rebuilt on reload")
	}
}
