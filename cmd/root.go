// Package cmd implements the notakers command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linanwx/notakers/config"
	"github.com/linanwx/notakers/logger"
)

var configDirFlag string

var rootCmd = &cobra.Command{
	Use:   "notakers",
	Short: "Terminal note editor with live mirroring",
	Long: `notakers is a terminal note editor. Every edit is streamed to the notes
server over a WebSocket, the server's broadcast is shown as real-time text,
and ctrl+s submits the whole note for structuring.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if !cmd.Flags().Changed("config-dir") {
			return nil
		}
		config.SetConfigDir(configDirFlag)
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		if err := logger.Init(cfg.BuildLoggerConfig(), dir); err != nil {
			fmt.Fprintln(os.Stderr, "logger init error:", err)
		}
		return nil
	},
	RunE: runEdit,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Config directory (default ~/.notakers)")
	rootCmd.AddGroup(&cobra.Group{ID: "notes", Title: "Note Commands:"})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
