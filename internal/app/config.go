package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/m3u8relay/internal/cli"
	"github.com/raysh454/m3u8relay/internal/relay"
	"github.com/raysh454/m3u8relay/internal/server"
	"github.com/raysh454/m3u8relay/internal/webclient"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "M3U8RELAY_"

// Config contains the runtime configuration for the relay process.
type Config struct {
	Server    server.Config    `yaml:"server"`
	Relay     relay.Config     `yaml:"relay"`
	WebClient webclient.Config `yaml:"webclient"`
	Log       LogConfig        `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: server.Config{
			ListenAddr: ":8080",
			Swagger:    false,
			WebSocket:  true,
		},
		Relay: relay.Config{
			UserAgent: relay.DefaultUserAgent,
		},
		WebClient: webclient.Config{
			Client:  webclient.ClientNetHTTP,
			Timeout: 0, // transport defaults
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig starts from DefaultConfig, overlays the YAML file at path when
// path is non-empty, then applies M3U8RELAY_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config unmarshal: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(c *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.ListenAddr = ":" + v
	}
	if v := os.Getenv(EnvPrefix + "LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv(EnvPrefix + "SWAGGER"); v != "" {
		c.Server.Swagger = parseBool(v)
	}
	if v := os.Getenv(EnvPrefix + "WEBSOCKET"); v != "" {
		c.Server.WebSocket = parseBool(v)
	}
	if v := os.Getenv(EnvPrefix + "USER_AGENT"); v != "" {
		c.Relay.UserAgent = v
	}
	if v := os.Getenv(EnvPrefix + "WEBCLIENT_BACKEND"); v != "" {
		c.WebClient.Client = webclient.Client(v)
	}
	if v := os.Getenv(EnvPrefix + "WEBCLIENT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sWEBCLIENT_TIMEOUT: %w", EnvPrefix, err)
		}
		c.WebClient.Timeout = d
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// ApplyArgs lets explicit command-line flags win over file and environment.
func (c *Config) ApplyArgs(args *cli.ServeArgs) {
	if args == nil {
		return
	}
	if args.ListenAddr != "" {
		c.Server.ListenAddr = args.ListenAddr
	}
	if args.UserAgent != "" {
		c.Relay.UserAgent = args.UserAgent
	}
	if args.LogLevel != "" {
		c.Log.Level = args.LogLevel
	}
	if args.Swagger {
		c.Server.Swagger = true
	}
	if args.NoWebSocket {
		c.Server.WebSocket = false
	}
}
