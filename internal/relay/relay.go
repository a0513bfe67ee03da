// Package relay fetches a remote playlist on behalf of a caller and hands back
// the raw text untouched.
package relay

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/raysh454/m3u8relay/internal/logging"
	"github.com/raysh454/m3u8relay/internal/webclient"
)

const (
	// DefaultUserAgent is sent on every outbound fetch to get past naive bot
	// filters on origins.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// UnknownContentType is reported when the origin omits Content-Type.
	UnknownContentType = "unknown"
)

// playlistContentTypes are the MIME types origins commonly use for M3U8.
var playlistContentTypes = []string{
	"application/vnd.apple.mpegurl",
	"audio/mpegurl",
	"text/plain",
}

type Config struct {
	UserAgent string `yaml:"user_agent"`
}

// Request names the playlist to fetch and an optional Referer to present.
type Request struct {
	URL     string `json:"url"`
	Referer string `json:"referer,omitempty"`
}

// Result is the origin body exactly as received plus its declared type.
type Result struct {
	Content     string
	ContentType string
}

// Service performs one outbound GET per Fetch call. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	client    webclient.WebClient
	userAgent string
	logger    logging.Logger
}

func NewService(cfg Config, client webclient.WebClient, logger logging.Logger) (*Service, error) {
	if client == nil {
		return nil, errors.New("relay: nil webclient")
	}
	if logger == nil {
		return nil, errors.New("relay: nil logger")
	}

	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = DefaultUserAgent
	}

	return &Service{
		client:    client,
		userAgent: ua,
		logger:    logger.With(logging.Field{Key: "component", Value: "Relay"}),
	}, nil
}

// Fetch validates req, issues a single GET against the cleaned req.URL and returns the
// body. Validation failures never reach the network. Errors are one of
// ErrURLRequired, ErrInvalidURL (wrapped), *StatusError or a transport error.
func (s *Service) Fetch(ctx context.Context, req Request) (*Result, error) {
	target, err := ParseTarget(req.URL)
	if err != nil {
		return nil, err
	}
	targetURL := target.String()

	headers := http.Header{}
	headers.Set("User-Agent", s.userAgent)
	if req.Referer != "" {
		headers.Set("Referer", req.Referer)
	}

	resp, err := s.client.Do(ctx, &webclient.Request{
		Method:  http.MethodGet,
		URL:     targetURL,
		Headers: headers,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", targetURL, err)
	}

	if !resp.OK() {
		return nil, &StatusError{StatusCode: resp.StatusCode, StatusText: resp.Status}
	}

	contentType := resp.Headers.Get("Content-Type")
	if !IsPlaylistContentType(contentType) {
		s.logger.Debug("origin content type is not a playlist type",
			logging.Field{Key: "url", Value: targetURL},
			logging.Field{Key: "content_type", Value: contentType})
	}
	if contentType == "" {
		contentType = UnknownContentType
	}

	return &Result{
		Content:     string(resp.Body),
		ContentType: contentType,
	}, nil
}

// IsPlaylistContentType reports whether ct names one of the MIME types
// playlists are usually served with. It is advisory: Fetch never rejects a
// response because of it.
func IsPlaylistContentType(ct string) bool {
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(ct))
	}
	for _, t := range playlistContentTypes {
		if strings.Contains(mediaType, t) {
			return true
		}
	}
	return false
}
