package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linanwx/notakers/config"
	"github.com/linanwx/notakers/submit"
)

var submitCmd = &cobra.Command{
	Use:     "submit",
	Short:   "Submit a note without opening the editor",
	GroupID: "notes",
	Long: `Submit a note once, the same way ctrl+s does in the editor.

Examples:
  notakers submit --text "meeting notes"
  notakers submit --file lecture.txt
  cat lecture.txt | notakers submit --file -`,
	RunE: runSubmit,
}

var (
	submitText string
	submitFile string
)

func init() {
	submitCmd.Flags().StringVar(&submitText, "text", "", "Note text")
	submitCmd.Flags().StringVar(&submitFile, "file", "", "Read the note from a file ('-' for stdin)")
	submitCmd.MarkFlagsMutuallyExclusive("text", "file")
	submitCmd.MarkFlagsOneRequired("text", "file")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	text, err := readNote(cmd.InOrStdin())
	if err != nil {
		return err
	}

	client := submit.NewClient(submit.Config{URL: cfg.Server.SubmitURL})
	attempt := submit.NewAttempt(text)
	res, err := client.Submit(context.Background(), text)
	attempt.LogOutcome(res, err)
	if err != nil {
		return err
	}

	msg := res.Message()
	if msg == "" {
		msg = "note submitted"
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func readNote(stdin io.Reader) (string, error) {
	if submitFile == "" {
		return submitText, nil
	}
	var (
		data []byte
		err  error
	)
	if strings.TrimSpace(submitFile) == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(submitFile)
	}
	if err != nil {
		return "", fmt.Errorf("read note: %w", err)
	}
	return string(data), nil
}
