package submit

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tidwall/sjson"

	"github.com/linanwx/notakers/logger"
)

func TestSubmitSendsMultipartTextField(t *testing.T) {
	var gotMethod, gotPath, gotText string
	var gotParts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotParts = len(r.MultipartForm.Value)
		gotText = r.FormValue("text")
		body, _ := sjson.Set("", "message", "Note saved successfully")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL + "/submit_note"})
	res, err := c.Submit(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/submit_note" {
		t.Fatalf("request = %s %s, want POST /submit_note", gotMethod, gotPath)
	}
	if gotText != "hello" || gotParts != 1 {
		t.Fatalf("form text = %q (%d fields), want one field \"hello\"", gotText, gotParts)
	}
	if res.Message() != "Note saved successfully" {
		t.Fatalf("Message() = %q", res.Message())
	}
}

func TestSubmitPreservesMultilineUnicode(t *testing.T) {
	note := "标题: 自动概述\n\n- line one\r\n- line two  "
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.FormValue("text")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := NewClient(Config{URL: srv.URL}).Submit(context.Background(), note); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got != note {
		t.Fatalf("server got %q, want %q", got, note)
	}
}

func TestSubmitServerErrorIsKindServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(Config{URL: srv.URL}).Submit(context.Background(), "hello")
	if KindOf(err) != KindServer {
		t.Fatalf("KindOf(%v) = %s, want server error", err, KindOf(err))
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusInternalServerError {
		t.Fatalf("err = %#v, want *StatusError 500", err)
	}
	if !strings.Contains(se.Body, "boom") {
		t.Fatalf("StatusError.Body = %q", se.Body)
	}
}

func TestSubmitNetworkFailureIsNoResponse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		// Read the request, then hang up without answering.
		buf := make([]byte, 4096)
		_, _ = c.Read(buf)
		_ = c.Close()
	}()
	defer ln.Close()

	_, err = NewClient(Config{URL: "http://" + ln.Addr().String() + "/submit_note"}).Submit(context.Background(), "hello")
	if KindOf(err) != KindNoResponse {
		t.Fatalf("KindOf(%v) = %s, want no response", err, KindOf(err))
	}
}

func TestSubmitBadBodyIsOther(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(Config{URL: srv.URL}).Submit(context.Background(), "hello")
	if KindOf(err) != KindOther {
		t.Fatalf("KindOf(%v) = %s, want other", err, KindOf(err))
	}
}

func TestSubmitUnbuildableRequestIsOther(t *testing.T) {
	_, err := NewClient(Config{URL: "http://[::1"}).Submit(context.Background(), "hello")
	if KindOf(err) != KindOther {
		t.Fatalf("KindOf(%v) = %s, want other", err, KindOf(err))
	}
}

func TestSubmissionsOverlapIndependently(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var texts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		texts = append(texts, r.FormValue("text"))
		mu.Unlock()
		<-release
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL})
	errs := make(chan error, 2)
	for _, note := range []string{"one", "two"} {
		go func(n string) {
			_, err := c.Submit(context.Background(), n)
			errs <- err
		}(note)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(texts)
		mu.Unlock()
		if n == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	mu.Lock()
	if len(texts) != 2 {
		mu.Unlock()
		t.Fatalf("server saw %d in-flight submissions, want 2", len(texts))
	}
	mu.Unlock()
	close(release)

	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
}

func TestLogOutcomeWritesOneLinePerAttempt(t *testing.T) {
	if err := logger.Init(logger.Config{Enabled: true, Level: "info"}, ""); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	logger.Intercept(&buf)
	defer logger.Restore()

	a := NewAttempt("hello")
	a.LogOutcome(nil, &StatusError{StatusCode: 500})
	out := buf.String()
	if strings.Count(out, "error saving note") != 1 || strings.Contains(out, "note saved") {
		t.Fatalf("log = %q, want exactly one failure line", out)
	}
	if !strings.Contains(out, "status=500") || !strings.Contains(out, `kind="server responded with error"`) {
		t.Fatalf("log = %q, want status and kind", out)
	}
	if !strings.Contains(out, "attempt="+a.ID) {
		t.Fatalf("log = %q, want attempt id %s", out, a.ID)
	}

	buf.Reset()
	b := NewAttempt("again")
	b.LogOutcome(nil, &NoResponseError{URL: "http://x", Err: errors.New("connection reset")})
	out = buf.String()
	if !strings.Contains(out, `kind="no response received"`) || strings.Contains(out, "status=") {
		t.Fatalf("log = %q, want no-response kind without status", out)
	}
}

func TestKindString(t *testing.T) {
	if KindOf(nil) != KindNone {
		t.Fatalf("KindOf(nil) = %s", KindOf(nil))
	}
	if KindOther.String() != "other" {
		t.Fatalf("KindOther = %q", KindOther.String())
	}
}
