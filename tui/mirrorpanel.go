package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var mirrorTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// MirrorPanel shows the most recent inbound mirror payload, read-only.
// Each payload replaces the previous one; nothing is kept.
type MirrorPanel struct {
	viewport viewport.Model
	text     string
	width    int
}

// NewMirrorPanel creates an empty mirror panel.
func NewMirrorPanel() *MirrorPanel {
	vp := viewport.New(0, 0)
	vp.SetContent("")
	return &MirrorPanel{viewport: vp}
}

func (p *MirrorPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case MirrorMsg:
		p.text = msg.Text
		p.render()
		return p, nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *MirrorPanel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		mirrorTitleStyle.Render("Real-time Text"),
		p.viewport.View(),
	)
}

func (p *MirrorPanel) SetSize(width, height int) {
	p.width = width
	p.viewport.Width = width
	p.viewport.Height = max(height-1, 1)
	p.render()
}

// Text returns the displayed payload.
func (p *MirrorPanel) Text() string { return p.text }

func (p *MirrorPanel) render() {
	content := p.text
	if p.width > 0 {
		content = lipgloss.NewStyle().Width(p.width).Render(content)
	}
	p.viewport.SetContent(content)
	p.viewport.GotoTop()
}
