package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/notakers/logger"
	"github.com/linanwx/notakers/mirror"
	"github.com/linanwx/notakers/submit"
)

const logBufferSize = 256

// Options configures Run.
type Options struct {
	MirrorURL     string
	SubmitURL     string
	Placeholder   string
	TokenEncoding string
	TokenLimit    int

	// ProgramOptions are applied after the defaults (alt screen, ctx).
	ProgramOptions []tea.ProgramOption
}

// Run mounts the editor: it opens the mirror channel, runs the TUI until the
// user quits, then closes the channel exactly once.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	deps := Deps{
		Submit:      submit.NewClient(submit.Config{URL: opts.SubmitURL}).Submit,
		Copy:        CopyToClipboard,
		TokenLimit:  opts.TokenLimit,
		Placeholder: opts.Placeholder,
	}
	if opts.TokenEncoding != "" {
		tc, err := NewTokenCounter(opts.TokenEncoding)
		if err != nil {
			logger.Warn("token counter disabled", "err", err)
		} else {
			deps.Tokens = tc
		}
	}

	// The program must exist before the channel can deliver to it.
	var program *tea.Program
	ch := mirror.New(mirror.Config{
		URL:       opts.MirrorURL,
		OnMessage: func(text string) { program.Send(MirrorMsg{Text: text}) },
		OnState:   func(s mirror.State) { program.Send(MirrorStateMsg{State: s}) },
	})
	deps.Mirror = ch

	app := NewApp(ctx, deps)
	popts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOptions...)
	program = tea.NewProgram(app, popts...)

	lw := newLogWriter(program)
	logger.Intercept(lw)
	defer func() {
		logger.Restore()
		lw.stop()
	}()

	// Teardown belongs to Close, so a cancelled ctx must not cut the
	// connection before the close handshake.
	ch.Open(context.WithoutCancel(ctx))
	logger.Info("editor started", "mirror", opts.MirrorURL, "submit", opts.SubmitURL)

	_, err := program.Run()
	_ = ch.Close()
	// A cancelled ctx kills the program; that is a normal exit, a panic is not.
	if err != nil && (errors.Is(err, tea.ErrProgramPanic) || !errors.Is(err, tea.ErrProgramKilled)) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// logWriter turns log output into LogLineMsgs. Lines are queued and pumped
// from a separate goroutine because logging happens inside Update too, and
// Program.Send would block the event loop it is called from.
type logWriter struct {
	program *tea.Program
	lines   chan string
	done    chan struct{}
	once    sync.Once
}

func newLogWriter(p *tea.Program) *logWriter {
	w := &logWriter{
		program: p,
		lines:   make(chan string, logBufferSize),
		done:    make(chan struct{}),
	}
	go w.pump()
	return w
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		select {
		case w.lines <- string(line):
		case <-w.done:
			return len(p), nil
		default:
			// Panel is behind; the file log still has the line.
		}
	}
	return len(p), nil
}

func (w *logWriter) pump() {
	for {
		select {
		case <-w.done:
			return
		case line := <-w.lines:
			w.program.Send(LogLineMsg{Line: line})
		}
	}
}

func (w *logWriter) stop() {
	w.once.Do(func() { close(w.done) })
}
