// Command m3u8fetch fetches a playlist through a running m3u8relay and saves
// it to disk.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/raysh454/m3u8relay/internal/cli"
	"github.com/raysh454/m3u8relay/internal/client"
	"github.com/raysh454/m3u8relay/internal/logging"
	"github.com/raysh454/m3u8relay/internal/webclient"
)

func main() {
	args, err := cli.ParseFetchArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, args); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s\n", apiErr.Message)
			if apiErr.Details != "" {
				color.New(color.FgYellow).Fprintf(os.Stderr, "  %s\n", apiErr.Details)
			}
		} else {
			color.New(color.FgRed).Fprintf(os.Stderr, "✗ %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args *cli.FetchArgs) error {
	logger := logging.NewLogger(os.Stderr, "m3u8fetch", logging.LevelWarn)

	web, err := webclient.NewWebClient(webclient.Config{Client: webclient.ClientNetHTTP}, logger)
	if err != nil {
		return err
	}
	defer web.Close()

	c, err := client.New(args.Relay, web)
	if err != nil {
		return err
	}

	pl, err := c.Fetch(ctx, args.URL, args.Referer)
	if err != nil {
		return err
	}

	if args.Print {
		_, err := fmt.Fprint(os.Stdout, pl.Content)
		return err
	}

	path, err := client.Save(args.Dir, args.Output, pl.Content)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "✓ saved %s ", path)
	fmt.Fprintf(os.Stderr, "(%d bytes, %s)\n", len(pl.Content), pl.ContentType)
	return nil
}
