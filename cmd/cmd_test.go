package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/linanwx/notakers/config"
	"github.com/linanwx/notakers/notemd"
	"github.com/linanwx/notakers/notes"
)

func TestServerConfigFor(t *testing.T) {
	plain := serverConfigFor("localhost:8000", false)
	if plain.MirrorURL != "ws://localhost:8000/ws" ||
		plain.SubmitURL != "http://localhost:8000/submit_note" ||
		plain.NotesURL != "http://localhost:8000/notes" {
		t.Fatalf("serverConfigFor(plain) = %+v", plain)
	}
	tls := serverConfigFor("notes.example.com", true)
	if !strings.HasPrefix(tls.MirrorURL, "wss://") || !strings.HasPrefix(tls.SubmitURL, "https://") {
		t.Fatalf("serverConfigFor(tls) = %+v", tls)
	}
	cfg := config.DefaultConfig()
	cfg.Server = tls
	if err := cfg.Validate(); err != nil {
		t.Fatalf("generated config should validate: %v", err)
	}
}

func TestValidateHostPort(t *testing.T) {
	if err := validateHostPort("localhost:8000"); err != nil {
		t.Fatalf("validateHostPort() error = %v", err)
	}
	for _, bad := range []string{"", "  ", "http://localhost:8000", "localhost:8000/ws"} {
		if validateHostPort(bad) == nil {
			t.Errorf("validateHostPort(%q) should fail", bad)
		}
	}
}

func TestPrintNotesModes(t *testing.T) {
	list := []notes.Note{
		{ID: 1, Text: "Your Great Note:\n\n## Intro\n\n- point\n"},
		{ID: 2, Text: "plain"},
	}

	var buf bytes.Buffer
	printNotes(&buf, list, false, false, notemd.Plain())
	out := buf.String()
	if !strings.Contains(out, "#1\n") || !strings.Contains(out, "• point") || !strings.Contains(out, "#2\nplain") {
		t.Fatalf("rendered notes = %q", out)
	}

	buf.Reset()
	printNotes(&buf, list, true, false, notemd.Plain())
	if !strings.Contains(buf.String(), "## Intro") {
		t.Fatalf("raw mode should keep Markdown: %q", buf.String())
	}

	buf.Reset()
	printNotes(&buf, list, false, true, notemd.Plain())
	if buf.String() != "#1\n  Intro\n\n#2\n" {
		t.Fatalf("outline = %q", buf.String())
	}
}

func TestSubmitCommandPostsFile(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.FormValue("text")
		_, _ = w.Write([]byte(`{"message":"Note saved successfully"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	raw := "server:\n  submitURL: " + srv.URL + "/submit_note\nlogging:\n  enabled: false\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	notePath := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(notePath, []byte("from a file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		config.SetConfigDir("")
		submitText, submitFile = "", ""
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config-dir", dir, "submit", "--file", notePath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("submit command error = %v", err)
	}
	if got != "from a file\n" {
		t.Fatalf("server got %q", got)
	}
	if !strings.Contains(out.String(), "Note saved successfully") {
		t.Fatalf("output = %q", out.String())
	}
}
