package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultMaxLogLines = 500

var (
	logLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	logSavedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	logLevelStyles = map[string]lipgloss.Style{
		"DEBUG": lipgloss.NewStyle().Faint(true),
		"WARN":  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"ERROR": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// logLevel extracts the level from a slog text line ("level=WARN ...").
func logLevel(line string) string {
	i := strings.Index(line, "level=")
	if i < 0 {
		return ""
	}
	rest := line[i+len("level="):]
	if j := strings.IndexByte(rest, ' '); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

// styleLogLine colours a line by level. Saved notes are highlighted so a
// submission outcome is easy to spot among mirror chatter.
func styleLogLine(line string) string {
	if strings.Contains(line, `msg="note saved"`) {
		return logSavedStyle.Render(line)
	}
	if st, ok := logLevelStyles[logLevel(line)]; ok {
		return st.Render(line)
	}
	return logLineStyle.Render(line)
}

// LogPanel displays log output in a scrollable viewport.
type LogPanel struct {
	viewport viewport.Model
	lines    []string
	maxLines int
}

// NewLogPanel creates a log panel.
func NewLogPanel() *LogPanel {
	vp := viewport.New(0, 0)
	vp.SetContent("")
	return &LogPanel{
		viewport: vp,
		maxLines: defaultMaxLogLines,
	}
}

func (p *LogPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case LogLineMsg:
		line := strings.TrimRight(msg.Line, "\n")
		p.lines = append(p.lines, styleLogLine(line))
		if len(p.lines) > p.maxLines {
			p.lines = p.lines[len(p.lines)-p.maxLines:]
		}
		p.viewport.SetContent(strings.Join(p.lines, "\n"))
		p.viewport.GotoBottom()
		return p, nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *LogPanel) View() string {
	return p.viewport.View()
}

func (p *LogPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
}

// Len returns the number of retained log lines.
func (p *LogPanel) Len() int { return len(p.lines) }
