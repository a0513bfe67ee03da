// Package client talks to a running relay API and saves fetched playlists.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/raysh454/m3u8relay/internal/webclient"
)

// FetchPath is the relay endpoint, relative to the relay base URL.
const FetchPath = "/api/fetch-m3u8"

// DefaultFilename is used when the caller supplies no filename.
const DefaultFilename = "playlist.m3u8"

// Playlist is the relayed playlist text and the origin's content type.
type Playlist struct {
	Content     string
	ContentType string
}

// APIError is a non-success reply from the relay.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("relay: %d %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("relay: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	web     webclient.WebClient
}

// New returns a Client for the relay at baseURL (scheme and host, optional
// path prefix).
func New(baseURL string, web webclient.WebClient) (*Client, error) {
	if web == nil {
		return nil, errors.New("client: nil webclient")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("client: empty relay URL")
	}
	return &Client{baseURL: baseURL, web: web}, nil
}

// Fetch asks the relay for the playlist at url, presenting referer to the
// origin when non-empty.
func (c *Client) Fetch(ctx context.Context, url, referer string) (*Playlist, error) {
	payload, err := json.Marshal(struct {
		URL     string `json:"url"`
		Referer string `json:"referer,omitempty"`
	}{URL: url, Referer: referer})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")

	resp, err := c.web.Do(ctx, &webclient.Request{
		Method:  http.MethodPost,
		URL:     c.baseURL + FetchPath,
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		return nil, fmt.Errorf("calling relay: %w", err)
	}

	var body struct {
		Success     bool   `json:"success"`
		Content     string `json:"content"`
		ContentType string `json:"contentType"`
		Error       string `json:"error"`
		Details     string `json:"details"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "unreadable relay response", Details: err.Error()}
	}

	if !resp.OK() || !body.Success {
		msg := body.Error
		if msg == "" {
			msg = "Failed to fetch content"
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg, Details: body.Details}
	}

	return &Playlist{Content: body.Content, ContentType: body.ContentType}, nil
}

// NormalizeFilename returns name if it already ends in .m3u8 or .txt,
// DefaultFilename if it is empty, and name + ".m3u8" otherwise.
func NormalizeFilename(name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return DefaultFilename
	case strings.HasSuffix(name, ".m3u8"), strings.HasSuffix(name, ".txt"):
		return name
	default:
		return name + ".m3u8"
	}
}

// Save writes content verbatim to dir/NormalizeFilename(name) and returns the
// path written. name must not contain a directory component.
func Save(dir, name, content string) (string, error) {
	filename := NormalizeFilename(name)
	if filepath.Base(filename) != filename {
		return "", fmt.Errorf("filename %q must not contain a path", name)
	}
	if dir == "" {
		dir = "."
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
