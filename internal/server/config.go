package server

import "github.com/raysh454/m3u8relay/internal/logging"

type Config struct {
	// ListenAddr is the HTTP listen address for the relay API.
	ListenAddr string `yaml:"listen_addr"`

	// Swagger mounts the API docs UI under /swagger/.
	Swagger bool `yaml:"swagger"`

	// WebSocket mounts the /ws/fetch-m3u8 relay channel.
	WebSocket bool `yaml:"websocket"`

	Logger logging.Logger `yaml:"-"`
}
