package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/linanwx/notakers/config"
	"github.com/linanwx/notakers/tui"
)

var editCmd = &cobra.Command{
	Use:     "edit",
	Short:   "Open the note editor (default)",
	GroupID: "notes",
	Long: `Open the note editor.

The editor connects to the mirror endpoint once at start and sends the full
note on every edit while connected. Text broadcast by the server replaces the
"Real-time Text" panel. There is no reconnect: if the connection drops the
panel keeps its last text.

Keys:
  ctrl+s   submit the note
  ctrl+y   copy the real-time text
  esc      quit`,
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, tui.Options{
		MirrorURL:     cfg.Server.MirrorURL,
		SubmitURL:     cfg.Server.SubmitURL,
		Placeholder:   cfg.Editor.Placeholder,
		TokenEncoding: cfg.Editor.TokenEncoding,
		TokenLimit:    cfg.Editor.TokenLimit,
	})
}
