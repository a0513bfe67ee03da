package server

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FetchRequest is the payload accepted by the relay endpoint.
type FetchRequest struct {
	URL     string `json:"url" example:"https://cdn.example.com/live/index.m3u8"`
	Referer string `json:"referer,omitempty" example:"https://player.example.com/"`
}

// UnmarshalJSON accepts loosely typed url and referer values. Falsy values
// (null, false, 0, "") read as absent; other scalars keep their literal text,
// so {"url":123} fails URL validation instead of JSON decoding.
func (f *FetchRequest) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw struct {
		URL     json.RawMessage `json:"url"`
		Referer json.RawMessage `json:"referer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.URL = looseString(raw.URL)
	f.Referer = looseString(raw.Referer)
	return nil
}

// looseString renders a JSON value as text, or "" when the value is falsy.
func looseString(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return ""
	}

	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return ""
		}
		return s
	case 'n', 'f':
		return ""
	case 't':
		return "true"
	case '{':
		return "[object Object]"
	case '[':
		return string(v)
	default:
		if n, err := strconv.ParseFloat(string(v), 64); err == nil && n == 0 {
			return ""
		}
		return string(v)
	}
}

// FetchResponse carries the origin body verbatim.
type FetchResponse struct {
	Success     bool   `json:"success" example:"true"`
	Content     string `json:"content" example:"#EXTM3U\n#EXT-X-VERSION:3\n"`
	ContentType string `json:"contentType" example:"application/vnd.apple.mpegurl"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error   string `json:"error" example:"Failed to fetch M3U8 file"`
	Details string `json:"details,omitempty" example:"HTTP 404: Not Found"`
}

// RelayFrame is one reply on the WebSocket channel: the HTTP status the REST
// endpoint would have answered with, plus exactly one of the two payloads.
type RelayFrame struct {
	Status int `json:"status" example:"200"`
	*FetchResponse
	*ErrorResponse
}

func (f RelayFrame) payload() any {
	if f.FetchResponse != nil {
		return f.FetchResponse
	}
	return f.ErrorResponse
}
