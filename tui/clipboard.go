package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// CopyToClipboard writes text to the system clipboard, falling back to an
// OSC52 escape sequence on the controlling terminal (useful over SSH).
func CopyToClipboard(text string) error {
	sysErr := clipboard.WriteAll(text)
	if sysErr == nil {
		return nil
	}
	oscErr := writeOSC52(text)
	if oscErr == nil {
		return nil
	}
	return fmt.Errorf("system clipboard: %v; osc52: %v", sysErr, oscErr)
}

func writeOSC52(text string) error {
	term := strings.TrimSpace(os.Getenv("TERM"))
	if term == "" || strings.EqualFold(term, "dumb") {
		return errors.New("terminal does not support OSC52")
	}
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open /dev/tty: %w", err)
	}
	defer tty.Close()
	return writeOSC52Sequence(tty, text, term, os.Getenv("TMUX") != "")
}

func writeOSC52Sequence(w io.Writer, text, term string, inTmux bool) error {
	seq := osc52.New(text)
	switch {
	case inTmux:
		seq = seq.Tmux()
	case strings.HasPrefix(strings.ToLower(term), "screen"):
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(w)
	return err
}
