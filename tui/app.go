package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/notakers/logger"
	"github.com/linanwx/notakers/mirror"
	"github.com/linanwx/notakers/submit"
)

const (
	defaultEditorRatio = 0.45
	defaultMirrorRatio = 0.3
)

var (
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Sender forwards the edit buffer over the live channel. Send reports
// whether the text was sent; *mirror.Channel implements it.
type Sender interface {
	Send(text string) bool
}

// SubmitFunc performs one submission attempt.
type SubmitFunc func(ctx context.Context, text string) (*submit.Result, error)

// Deps are the collaborators of the editor.
type Deps struct {
	Mirror      Sender
	Submit      SubmitFunc
	Copy        func(text string) error
	Tokens      TokenCounter // optional
	TokenLimit  int
	Placeholder string
}

// App is the root bubbletea model. It owns the edit buffer and the mirror
// display text; both are only touched inside Update.
type App struct {
	ctx  context.Context
	deps Deps

	editor *EditorPanel
	mirror *MirrorPanel
	logs   *LogPanel

	width, height int
	state         mirror.State
}

// NewApp creates the root model. ctx bounds in-flight submissions.
func NewApp(ctx context.Context, deps Deps) *App {
	a := &App{
		ctx:    ctx,
		deps:   deps,
		editor: NewEditorPanel(deps.Placeholder),
		mirror: NewMirrorPanel(),
		logs:   NewLogPanel(),
		state:  mirror.StateConnecting,
	}
	a.refreshStatus()
	return a
}

func (a *App) Init() tea.Cmd {
	return textarea.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.recalcLayout()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return a, tea.Quit
		case "ctrl+s":
			return a, a.submitCmd()
		case "ctrl+y":
			return a, a.copyCmd()
		}
		before := a.editor.Value()
		_, cmd := a.editor.Update(msg)
		if after := a.editor.Value(); after != before {
			a.onEdit(after)
		}
		return a, cmd

	case MirrorMsg:
		_, cmd := a.mirror.Update(msg)
		return a, cmd

	case MirrorStateMsg:
		a.state = msg.State
		a.refreshStatus()
		return a, nil

	case LogLineMsg:
		_, cmd := a.logs.Update(msg)
		return a, cmd

	case SubmitResultMsg:
		// Outcome is already logged; the editor does not react to it.
		return a, nil

	case copyResultMsg:
		return a, nil

	default:
		_, cmd := a.editor.Update(msg)
		return a, cmd
	}
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "initializing..."
	}
	sep := separatorStyle.Render(strings.Repeat("─", a.width))
	help := helpStyle.Render("ctrl+s submit · ctrl+y copy real-time text · esc quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		a.editor.View(),
		help,
		sep,
		a.mirror.View(),
		sep,
		a.logs.View(),
	)
}

// Buffer returns the edit buffer.
func (a *App) Buffer() string { return a.editor.Value() }

// MirrorText returns the displayed mirror payload.
func (a *App) MirrorText() string { return a.mirror.Text() }

// onEdit forwards the whole buffer. A closed or connecting channel drops
// the send without complaint.
func (a *App) onEdit(buffer string) {
	if a.deps.Mirror != nil {
		a.deps.Mirror.Send(buffer)
	}
	a.refreshStatus()
}

func (a *App) submitCmd() tea.Cmd {
	if a.deps.Submit == nil {
		return nil
	}
	text := a.editor.Value()
	attempt := submit.NewAttempt(text)
	ctx, fn := a.ctx, a.deps.Submit
	return func() tea.Msg {
		res, err := fn(ctx, text)
		attempt.LogOutcome(res, err)
		return SubmitResultMsg{Attempt: attempt, Result: res, Err: err}
	}
}

func (a *App) copyCmd() tea.Cmd {
	if a.deps.Copy == nil {
		return nil
	}
	text, fn := a.mirror.Text(), a.deps.Copy
	return func() tea.Msg {
		err := fn(text)
		if err != nil {
			logger.Warn("copy failed", "err", err)
		} else {
			logger.Info("copied real-time text", "bytes", len(text))
		}
		return copyResultMsg{err: err}
	}
}

func (a *App) refreshStatus() {
	parts := []string{"mirror: " + a.state.String()}
	if a.deps.Tokens != nil {
		n := a.deps.Tokens.Count(a.editor.Value())
		if a.deps.TokenLimit > 0 {
			parts = append(parts, fmt.Sprintf("tokens: %d/%d", n, a.deps.TokenLimit))
		} else {
			parts = append(parts, fmt.Sprintf("tokens: %d", n))
		}
	}
	a.editor.SetStatus(strings.Join(parts, "  "))
}

func (a *App) recalcLayout() {
	const helpH = 1
	const sepLines = 2

	usable := max(a.height-helpH-sepLines, 3)
	editorH := max(int(float64(usable)*defaultEditorRatio), 2)
	mirrorH := max(int(float64(usable)*defaultMirrorRatio), 2)
	logH := max(usable-editorH-mirrorH, 1)

	a.editor.SetSize(a.width, editorH)
	a.mirror.SetSize(a.width, mirrorH)
	a.logs.SetSize(a.width, logH)
}
