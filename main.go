package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/ytget/ytfetch/internal/app"
	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/logging"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
	"github.com/ytget/ytfetch/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.ytfetch"
	AppName = "YT Fetch"
)

func main() {
	store, err := config.Load(config.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	cfg, err := store.Settings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(2)
	}
	defer logger.Close()
	logger.Infof("%s v%s starting...", AppName, version)

	if err := platform.CreateDirectoryIfNotExists(cfg.Download.Dir); err != nil {
		logger.WithError(err).Warn("failed to ensure downloads dir")
	}

	a := app.New(cfg, logger)

	myApp := fyneapp.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())
	if icon, err := ui.LoadLogoResource(); err == nil {
		myApp.SetIcon(icon)
	}

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	root := ui.NewRootUI(myWindow, ui.Options{
		Pipeline: a.Coordinator,
		Settings: cfg,
		Store:    store,
		Logger:   logger,
		Context:  ctx,
	})
	go root.Listen()
	if err := a.CheckTools(logger); err != nil {
		a.Coordinator.Events().Emit(model.Status{Text: "Warning: " + app.ToolMissingWarning})
	}

	myWindow.ShowAndRun()
	a.Coordinator.Events().Close()
}
