// Package submit posts a note to the backend as a one-field multipart form.
//
// A submission is a single attempt: no retry, no queueing, no client-side
// timeout. Each attempt ends in exactly one logged outcome.
package submit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/tidwall/gjson"
)

// FieldName is the form field holding the note body.
const FieldName = "text"

// Kind classifies a failed submission for logging.
type Kind int

const (
	KindNone       Kind = iota
	KindServer          // a response arrived with a non-2xx status
	KindNoResponse      // the request went out but no response came back
	KindOther           // the request could not be built, or the body was not JSON
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindServer:
		return "server responded with error"
	case KindNoResponse:
		return "no response received"
	default:
		return "other"
	}
}

// StatusError reports a response with a non-success status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}

// NoResponseError reports a transport failure after the request was handed
// to the HTTP client.
type NoResponseError struct {
	URL string
	Err error
}

func (e *NoResponseError) Error() string {
	return fmt.Sprintf("no response from %s: %v", e.URL, e.Err)
}

func (e *NoResponseError) Unwrap() error { return e.Err }

// KindOf classifies err. A nil error is KindNone.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var se *StatusError
	if errors.As(err, &se) {
		return KindServer
	}
	var ne *NoResponseError
	if errors.As(err, &ne) {
		return KindNoResponse
	}
	return KindOther
}

// Result is a successful submission.
type Result struct {
	StatusCode int
	Body       gjson.Result
}

// Message returns the backend's "message" field, if any.
func (r *Result) Message() string {
	return r.Body.Get("message").String()
}

// Config configures a Client.
type Config struct {
	URL string

	// HTTPClient defaults to a client without a timeout.
	HTTPClient *http.Client
}

// Client submits notes to a fixed endpoint.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a submission client.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{url: cfg.URL, http: hc}
}

// URL returns the submission endpoint.
func (c *Client) URL() string { return c.url }

// Submit posts text once. Concurrent calls are independent requests.
func (c *Client) Submit(ctx context.Context, text string) (*Result, error) {
	body, contentType, err := encodeForm(text)
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NoResponseError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("decode response: body is not JSON (%d bytes)", len(raw))
	}
	return &Result{StatusCode: resp.StatusCode, Body: gjson.ParseBytes(raw)}, nil
}

func encodeForm(text string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField(FieldName, text); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
