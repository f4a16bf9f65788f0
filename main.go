package main

import (
	"context"
	"fmt"
	"log"

	"fyne.io/fyne/v2/app"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ytget/kicktracker/internal/config"
	"github.com/ytget/kicktracker/internal/logger"
	"github.com/ytget/kicktracker/internal/platform"
	"github.com/ytget/kicktracker/internal/registry"
	"github.com/ytget/kicktracker/internal/scheduler"
	"github.com/ytget/kicktracker/internal/scraper"
	"github.com/ytget/kicktracker/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.kicktracker"
	AppName = "Kick Tracker"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("starting", zap.String("app", AppName), zap.String("version", version))

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("kicktracker stopped", zap.Error(err))
	}
}

func run(cfg config.Config, zlog *zap.Logger) error {
	store, err := config.LoadTrackerStore(cfg.Settings.Path)
	if err != nil {
		return err
	}

	locale, err := scraper.ParseLocale(cfg.Locale.Tag, cfg.Locale.Symbol)
	if err != nil {
		return err
	}
	client, err := scraper.NewClient(scraper.Options{
		BaseURL:   cfg.Site.BaseURL,
		Timeout:   cfg.Site.Timeout,
		UserAgent: cfg.Site.UserAgent,
		Locale:    locale,
		Logger:    zlog.Named("scraper"),
	})
	if err != nil {
		return err
	}

	// Create new Fyne app
	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())
	if icon, err := ui.LoadIconResource(); err == nil {
		myApp.SetIcon(icon)
	} else {
		zlog.Debug("no window icon", zap.Error(err))
	}

	settings := config.NewSettings(myApp)
	localization := ui.NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(settings.GetWindowSize())

	board := ui.NewBoard(localization, zlog.Named("ui"))
	clock := platform.SystemClock{}

	reg, err := registry.New(client, board, clock, registry.Options{
		CacheSize: cfg.Cache.Capacity,
		HideAfter: registry.ParseHideAfter(store.Get().HideAfter),
		Logger:    zlog.Named("registry"),
	})
	if err != nil {
		return err
	}

	// the file is re-read every cycle so hand edits are picked up
	source := scheduler.SettingsFunc(func() config.TrackerSettings {
		if err := store.Reload(); err != nil {
			zlog.Warn("settings reload failed, using last values", zap.Error(err))
		}
		return store.Get()
	})
	refresher := scheduler.NewRefresher(reg, client, source, clock, scheduler.RefresherOptions{
		DataInterval: cfg.Refresh.DataInterval,
		TickInterval: cfg.Refresh.TickInterval,
		Backoff:      cfg.Refresh.Backoff,
		BackoffMax:   cfg.Refresh.BackoffMax,
		Logger:       zlog.Named("refresher"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := ui.NewRootUI(myWindow, settings, localization, ui.Deps{
		Store:      store,
		Board:      board,
		ProjectURL: client.ProjectURL,
		Refresh:    func() { refresher.Resync(ctx) },
		Logger:     zlog.Named("ui"),
	})
	reg.SetUpdateCallback(root.OnSummary)
	refresher.SetReconcileCallback(root.OnReconcile)

	sched := scheduler.New(zlog.Named("scheduler"))
	if err := refresher.Register(sched); err != nil {
		return err
	}

	myWindow.SetCloseIntercept(func() {
		root.SaveState()
		cancel()
		sched.Stop()
		if err := store.Save(); err != nil {
			zlog.Error("failed to save settings", zap.String("path", store.Path()), zap.Error(err))
		}
		myWindow.Close()
		myApp.Quit()
	})

	myApp.Lifecycle().SetOnStarted(func() {
		if err := sched.Start(ctx); err != nil {
			zlog.Error("failed to start scheduler", zap.Error(err))
		}
	})

	myWindow.ShowAndRun()
	return nil
}
