package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// EditorPanel holds the edit buffer in a multi-line textarea with a one-line
// status bar underneath.
type EditorPanel struct {
	input  textarea.Model
	status string
}

// NewEditorPanel creates a focused, unbounded textarea.
func NewEditorPanel(placeholder string) *EditorPanel {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.Focus()
	return &EditorPanel{input: ta}
}

func (p *EditorPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *EditorPanel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		p.input.View(),
		statusStyle.Render(p.status),
	)
}

func (p *EditorPanel) SetSize(width, height int) {
	p.input.SetWidth(width)
	p.input.SetHeight(max(height-1, 1))
}

// Value returns the edit buffer.
func (p *EditorPanel) Value() string { return p.input.Value() }

// SetStatus replaces the status bar text.
func (p *EditorPanel) SetStatus(s string) { p.status = s }
