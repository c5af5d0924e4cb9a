// notakers is a terminal note editor that mirrors every edit to a notes
// server and submits finished notes for structuring.
package main

import (
	"fmt"
	"os"

	"github.com/linanwx/notakers/cmd"
	"github.com/linanwx/notakers/config"
	"github.com/linanwx/notakers/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error, using defaults:", err)
		cfg = config.DefaultConfig()
	}
	dir, err := config.ConfigDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config dir error, relative log paths use the working directory:", err)
	}
	if err := logger.Init(cfg.BuildLoggerConfig(), dir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	cmd.Execute()
}
