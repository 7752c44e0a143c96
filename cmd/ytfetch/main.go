// Command ytfetch downloads one item, or every item of a playlist, and
// prints the pipeline events to stdout.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ytget/ytfetch/internal/app"
	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/logging"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("ytfetch", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.BindFlags(fs)
	configFile := fs.StringP("config", "c", "", "config file (default: ./config.yaml or $XDG_CONFIG_HOME/ytfetch/config.yaml)")
	listOnly := fs.BoolP("list-resolutions", "l", false, "only list the available resolutions")
	noPlaylist := fs.Bool("no-playlist", false, "download only the referenced video of a playlist URL")
	showVersion := fs.BoolP("version", "v", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ytfetch [flags] <url>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if *showVersion {
		fmt.Fprintf(stdout, "ytfetch %s\n", version)
		return ExitOK
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return ExitUsage
	}
	ref := fs.Arg(0)

	store, err := config.Load(config.Options{ConfigFile: *configFile, Flags: fs})
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return ExitUsage
	}
	cfg, err := store.Settings()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return ExitUsage
	}

	logger, err := logging.NewLogger(cfg.Log, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "logging: %v\n", err)
		return ExitUsage
	}
	defer logger.Close()

	a := app.New(cfg, logger)
	if err := a.CheckTools(logger); err != nil {
		fmt.Fprintf(stderr, "Warning: %s\n", app.ToolMissingWarning)
	}

	events := a.Coordinator.Events()
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		p := &printer{w: stdout}
		for ev := range events.C() {
			p.print(ev)
		}
	}()

	code := ExitOK
	switch {
	case *listOnly:
		if _, err := a.Coordinator.ListResolutions(ctx, ref, cfg.Download.VideoFormat); err != nil {
			code = ExitFailure
		}
	case platform.IsPlaylistURL(ref) && !*noPlaylist:
		pl, err := a.Playlists.ParsePlaylist(ctx, ref)
		if err != nil {
			logger.WithError(err).Error("playlist expansion failed")
			code = ExitFailure
			break
		}
		logger.WithFields(map[string]any{"playlist": pl.Title, "items": len(pl.Items)}).Info("playlist expanded")
		a.Coordinator.RunPlaylist(ctx, pl, cfg.Request(""))
		if pl.HasErrors() || len(pl.ItemsWithStatus(model.ItemStatusSkipped)) > 0 {
			code = ExitFailure
		}
	default:
		if res := a.Coordinator.Run(ctx, cfg.Request(ref)); res.Err != nil {
			code = ExitFailure
		}
	}

	events.Close()
	<-printed
	return code
}
