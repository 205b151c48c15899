package ui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// refreshMsg asks the model to re-render the document, typically after
// the marker moved.
type refreshMsg struct{}

// scrollToMsg moves the viewport to a new top line.
type scrollToMsg struct {
	top int
}

// sessionStartedMsg reports that a reading session began.
type sessionStartedMsg struct{}

// sessionEndedMsg reports the outcome of a reading session. A nil err
// means the document was read to the end or the session was interrupted.
type sessionEndedMsg struct {
	err error
}

// fileChangedMsg reports that the document changed on disk.
type fileChangedMsg struct{}

// reloadedMsg carries freshly read document text.
type reloadedMsg struct {
	text string
	err  error
}

// reloadCmd re-reads the document from disk.
func reloadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return reloadedMsg{err: err}
		}
		return reloadedMsg{text: string(data)}
	}
}
