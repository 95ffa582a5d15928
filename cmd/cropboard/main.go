package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrotrace/cropboard/internal/backend"
	"github.com/agrotrace/cropboard/internal/batches"
	"github.com/agrotrace/cropboard/internal/cache"
	"github.com/agrotrace/cropboard/internal/config"
	"github.com/agrotrace/cropboard/internal/feed"
	"github.com/agrotrace/cropboard/internal/logger"
	"github.com/agrotrace/cropboard/internal/session"
	"github.com/agrotrace/cropboard/internal/tui"
	"github.com/agrotrace/cropboard/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("cropboard")

	cfg, err := config.Get()
	if err != nil {
		if isSetupError(err) {
			// A missing backend endpoint is presented in the UI, not as a
			// crash: the board starts into a configuration help panel.
			runSetupScreen(log, err)
			return
		}
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	client, err := backend.NewHTTPClient(backend.ClientConfig{
		BaseURL: cfg.Supabase.URL,
		AnonKey: cfg.Supabase.AnonKey,
		Timeout: cfg.Supabase.RequestTimeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create backend client")
	}

	var (
		feedSnap  feed.Snapshotter
		batchSnap batches.Snapshotter
	)
	if cfg.Cache.Path != "" {
		snapshot, cacheErr := cache.Open(ctx, cfg.Cache.Path, log)
		if cacheErr != nil {
			log.Warn().Err(cacheErr).Msg("snapshot cache unavailable, continuing without it")
		} else {
			defer snapshot.Close()
			feedSnap = snapshot
			batchSnap = snapshot
		}
	}

	tracker := session.NewTracker(client, log)
	defer tracker.Close()

	initCtx, cancel := context.WithTimeout(ctx, cfg.Supabase.RequestTimeout)
	if err = tracker.Initialize(initCtx); err != nil {
		log.Warn().Err(err).Msg("could not restore session, starting signed out")
	}
	cancel()

	feedStore := feed.NewStore(client, feedSnap, log)
	batchStore := batches.NewStore(client, batchSnap, log)

	refreshJob := workers.NewRefreshJob(ctx, func(jobCtx context.Context) {
		feedStore.Refresh(jobCtx)
		batchStore.Refresh(jobCtx)
	}, cfg.App.RefreshInterval, log)
	workers.New(refreshJob).Run()
	defer refreshJob.Stop()

	app := tui.New(tui.Deps{
		Session:      tracker,
		Feed:         feedStore,
		Batches:      batchStore,
		Logger:       log,
		MarketingURL: cfg.App.MarketingURL,
		Version:      version(cfg),
	})

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func runSetupScreen(log *logger.Logger, setupErr error) {
	app := tui.New(tui.Deps{Logger: log, SetupErr: setupErr})
	if err := app.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func isSetupError(err error) bool {
	return errors.Is(err, config.ErrMissingSupabaseURL) ||
		errors.Is(err, config.ErrMissingAnonKey) ||
		errors.Is(err, config.ErrInvalidSupabaseURL)
}

func version(cfg *config.Config) string {
	if cfg.App.Version != "" {
		return cfg.App.Version
	}
	if buildVersion != "" && buildVersion != "N/A" {
		return buildVersion
	}
	return ""
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
