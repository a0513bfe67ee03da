package webclient

import "time"

type Client string

const (
	ClientNetHTTP Client = "nethttp"
)

// Config selects and tunes the WebClient backend.
type Config struct {
	Client Client `yaml:"backend"`

	// Timeout bounds a whole request. Zero leaves the transport defaults in
	// charge.
	Timeout time.Duration `yaml:"timeout"`
}
