// Package app wires the pipeline components from resolved settings. Both
// the CLI and the desktop front-end build their pipeline through it.
package app

import (
	"github.com/sirupsen/logrus"

	"github.com/ytget/ytfetch/internal/catalog"
	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/merge"
	"github.com/ytget/ytfetch/internal/pipeline"
	"github.com/ytget/ytfetch/internal/platform"
	"github.com/ytget/ytfetch/internal/provider"
	"github.com/ytget/ytfetch/internal/tracker"
)

// ToolMissingWarning is printed at startup when ffmpeg cannot be found
const ToolMissingWarning = "ffmpeg not found: video+audio downloads and audio conversion will fail until it is installed"

// App holds the wired components
type App struct {
	Coordinator *pipeline.Coordinator
	Merger      *merge.Service
	Tracker     *tracker.Tracker
	Playlists   *platform.YTDLPParserService
}

// New builds the provider, catalog, executor, merger and coordinator
func New(cfg config.Settings, logger logrus.FieldLogger) *App {
	ytdlp := provider.NewYTDLP(provider.Config{
		Executable:       cfg.Tools.YTDLP,
		ProgressInterval: cfg.Progress.Interval,
		Logger:           logger.WithField("component", "provider"),
	})
	cat := catalog.NewService(catalog.Config{
		Provider: ytdlp,
		Timeout:  cfg.Catalog.Timeout,
		Logger:   logger.WithField("component", "catalog"),
	})
	tr := tracker.New()
	exec := download.NewService(download.Config{
		Provider:   ytdlp,
		Tracker:    tr,
		Concurrent: cfg.Download.Concurrent,
		Logger:     logger.WithField("component", "download"),
	})
	merger := merge.NewService(merge.Config{
		FFmpegPath: cfg.Tools.FFmpeg,
		Logger:     logger.WithField("component", "merge"),
	})

	playlists := platform.NewYTDLPParserService()
	if cfg.Catalog.Timeout > 0 {
		playlists.SetTimeout(cfg.Catalog.Timeout)
	}

	return &App{
		Coordinator: pipeline.NewCoordinator(pipeline.Config{
			Catalog:         cat,
			Executor:        exec,
			Merger:          merger,
			OutputContainer: cfg.Merge.OutputContainer,
			Logger:          logger.WithField("component", "pipeline"),
		}),
		Merger:    merger,
		Tracker:   tr,
		Playlists: playlists,
	}
}

// CheckTools logs and returns a warning when ffmpeg is unavailable
func (a *App) CheckTools(logger logrus.FieldLogger) error {
	if err := a.Merger.CheckTool(); err != nil {
		logger.WithError(err).Warn(ToolMissingWarning)
		return err
	}
	return nil
}
