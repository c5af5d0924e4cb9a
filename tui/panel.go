// Package tui provides the note editor: a textarea whose every edit is
// mirrored over the live channel, a read-only view of the last mirrored
// text, and a log panel standing in for the console.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/notakers/mirror"
	"github.com/linanwx/notakers/submit"
)

// Panel is a composable TUI region with its own state, update logic, and view.
// The root App model orchestrates panels without knowing their internals.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// LogLineMsg carries a single log line from the logger writer.
type LogLineMsg struct{ Line string }

// MirrorMsg carries one inbound mirror payload.
type MirrorMsg struct{ Text string }

// MirrorStateMsg reports a mirror connection state change.
type MirrorStateMsg struct{ State mirror.State }

// SubmitResultMsg is emitted when a submission attempt finishes. Its
// outcome has already been logged.
type SubmitResultMsg struct {
	Attempt submit.Attempt
	Result  *submit.Result
	Err     error
}

// copyResultMsg reports a clipboard copy.
type copyResultMsg struct{ err error }
