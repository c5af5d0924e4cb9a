// Package notes reads saved notes back from the backend.
package notes

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// Note is one saved note. Text is Markdown generated by the backend.
type Note struct {
	ID   int64
	Text string
}

// Client lists notes from a fixed endpoint.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a notes client. A nil httpClient uses http.DefaultClient.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, http: httpClient}
}

// List fetches every saved note in server order.
func (c *Client) List(ctx context.Context) ([]Note, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get notes: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get notes: unexpected status %d", resp.StatusCode)
	}
	return parse(raw)
}

func parse(raw []byte) ([]Note, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("decode notes: invalid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return nil, fmt.Errorf("decode notes: expected an array, got %s", doc.Type)
	}
	var out []Note
	doc.ForEach(func(_, v gjson.Result) bool {
		out = append(out, Note{ID: v.Get("id").Int(), Text: v.Get("text").String()})
		return true
	})
	return out, nil
}
