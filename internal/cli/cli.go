package cli

import (
	"strings"

	"github.com/akamensky/argparse"
)

// ServeArgs are the command-line arguments of the relay server. Empty values
// mean "keep what the config file and environment say".
type ServeArgs struct {
	ConfigPath  string
	ListenAddr  string
	UserAgent   string
	LogLevel    string
	Swagger     bool
	NoWebSocket bool
}

// ParseServeArgs parses args (without the program name). It does not read
// os.Args, so tests can pass arbitrary slices.
func ParseServeArgs(args []string) (*ServeArgs, error) {
	parser := argparse.NewParser("m3u8relay", "Relay remote M3U8 playlists past browser cross-origin restrictions")

	configPath := parser.String("c", "config", &argparse.Options{Help: "Path to a YAML config file"})
	listen := parser.String("l", "listen", &argparse.Options{Help: "Listen address, e.g. :8080"})
	userAgent := parser.String("", "user-agent", &argparse.Options{Help: "User-Agent sent to origins"})
	logLevel := parser.Selector("", "log-level", []string{"debug", "info", "warn", "error"}, &argparse.Options{Help: "Minimum log level"})
	swagger := parser.Flag("", "swagger", &argparse.Options{Help: "Serve API docs under /swagger/"})
	noWS := parser.Flag("", "no-websocket", &argparse.Options{Help: "Disable the /ws/fetch-m3u8 channel"})

	if err := parser.Parse(append([]string{"m3u8relay"}, args...)); err != nil {
		return nil, err
	}

	return &ServeArgs{
		ConfigPath:  strings.TrimSpace(*configPath),
		ListenAddr:  strings.TrimSpace(*listen),
		UserAgent:   strings.TrimSpace(*userAgent),
		LogLevel:    *logLevel,
		Swagger:     *swagger,
		NoWebSocket: *noWS,
	}, nil
}

// FetchArgs are the command-line arguments of the m3u8fetch client.
type FetchArgs struct {
	Relay   string
	URL     string
	Referer string
	Output  string
	Dir     string
	Print   bool
}

// ParseFetchArgs parses args (without the program name).
func ParseFetchArgs(args []string) (*FetchArgs, error) {
	parser := argparse.NewParser("m3u8fetch", "Fetch a playlist through an m3u8relay server and save it")

	relayURL := parser.String("r", "relay", &argparse.Options{Help: "Relay base URL", Default: "http://localhost:8080"})
	target := parser.String("u", "url", &argparse.Options{Required: true, Help: "Playlist URL"})
	referer := parser.String("", "referer", &argparse.Options{Help: "Referer presented to the origin"})
	output := parser.String("o", "output", &argparse.Options{Help: "Filename (.m3u8 appended unless it ends in .m3u8 or .txt)"})
	dir := parser.String("d", "dir", &argparse.Options{Help: "Directory to save into", Default: "."})
	printOut := parser.Flag("p", "print", &argparse.Options{Help: "Write the playlist to stdout instead of a file"})

	if err := parser.Parse(append([]string{"m3u8fetch"}, args...)); err != nil {
		return nil, err
	}

	return &FetchArgs{
		Relay:   strings.TrimSpace(*relayURL),
		URL:     strings.TrimSpace(*target),
		Referer: strings.TrimSpace(*referer),
		Output:  strings.TrimSpace(*output),
		Dir:     *dir,
		Print:   *printOut,
	}, nil
}
