package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linanwx/notakers/config"
	"github.com/linanwx/notakers/notemd"
	"github.com/linanwx/notakers/notes"
)

var notesCmd = &cobra.Command{
	Use:     "notes",
	Short:   "List saved notes",
	GroupID: "notes",
	RunE:    runNotes,
}

var (
	notesRaw     bool
	notesOutline bool
)

func init() {
	notesCmd.Flags().BoolVar(&notesRaw, "raw", false, "Print the stored Markdown as is")
	notesCmd.Flags().BoolVar(&notesOutline, "outline", false, "Print only each note's headings")
	rootCmd.AddCommand(notesCmd)
}

func runNotes(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	list, err := notes.NewClient(cfg.Server.NotesURL, nil).List(context.Background())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No notes saved yet.")
		return nil
	}
	printNotes(cmd.OutOrStdout(), list, notesRaw, notesOutline, notemd.Terminal())
	return nil
}

func printNotes(w io.Writer, list []notes.Note, raw, outline bool, st notemd.Styles) {
	for i, n := range list {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "#%d\n", n.ID)
		switch {
		case raw:
			fmt.Fprintln(w, strings.TrimRight(n.Text, "\n"))
		case outline:
			for _, h := range notemd.Headings(n.Text) {
				fmt.Fprintf(w, "  %s\n", h)
			}
		default:
			fmt.Fprintln(w, notemd.Render(n.Text, st))
		}
	}
}
