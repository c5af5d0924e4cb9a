package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/linanwx/notakers/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create the notakers configuration",
	Long:  `Create the configuration directory and config.yaml, asking for the notes server address.`,
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	cfg := config.DefaultConfig()
	server := "localhost:8000"
	secure := false
	level := cfg.Logging.Level

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Notes server address").
				Description("host:port of the server providing /ws, /submit_note and /notes.").
				Validate(validateHostPort).
				Value(&server),
			huh.NewConfirm().
				Title("Use TLS (wss/https)?").
				Value(&secure),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("info", "info"),
					huh.NewOption("debug", "debug"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&level),
		),
	).Run()
	if err != nil {
		return err
	}

	cfg.Server = serverConfigFor(strings.TrimSpace(server), secure)
	cfg.Logging.Level = level
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("notakers initialized successfully!")
	fmt.Println()
	fmt.Println("  Config:", configPath)
	fmt.Println("  Mirror:", cfg.Server.MirrorURL)
	fmt.Println("  Submit:", cfg.Server.SubmitURL)
	fmt.Println()
	fmt.Println("Run 'notakers' to start writing.")
	return nil
}

func validateHostPort(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("server address is required")
	}
	if strings.Contains(s, "://") || strings.Contains(s, "/") {
		return fmt.Errorf("enter host:port only, without scheme or path")
	}
	return nil
}

func serverConfigFor(hostPort string, secure bool) config.ServerConfig {
	ws, web := "ws", "http"
	if secure {
		ws, web = "wss", "https"
	}
	return config.ServerConfig{
		MirrorURL: ws + "://" + hostPort + "/ws",
		SubmitURL: web + "://" + hostPort + "/submit_note",
		NotesURL:  web + "://" + hostPort + "/notes",
	}
}
