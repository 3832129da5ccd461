package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/dex/internal/config"
	"github.com/five82/dex/internal/logging"
	"github.com/five82/dex/internal/metrics"
	"github.com/five82/dex/internal/pokeapi"
	"github.com/five82/dex/internal/prefs"
	"github.com/five82/dex/internal/server"
	"github.com/five82/dex/internal/state"
	"github.com/five82/dex/internal/ui"
)

// Options configure the dex application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/dex/prefs.toml
	Listen     string // non-empty runs the headless HTTP API instead of the TUI
}

const uiRefreshInterval = 250 * time.Millisecond

// Run boots dex until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}

	logger, logFile, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logFile.Close()

	m := metrics.New()
	client, err := pokeapi.NewClient(cfg.BaseURL,
		pokeapi.WithTimeout(cfg.Timeout),
		pokeapi.WithRateLimit(cfg.RequestsPerSecond),
		pokeapi.WithObserver(m),
		pokeapi.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("init pokeapi client: %w", err)
	}

	store := &state.Store{}
	loader := NewLoader(client, store, LoaderOptions{
		PageSize:    cfg.PageSize,
		Concurrency: cfg.Concurrency,
		Observer:    m,
		Logger:      logger,
	})
	logger.Info("dex starting", "base_url", cfg.BaseURL, "page_size", cfg.PageSize, "listen", cfg.Listen)

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		loader.Wait()
	}()

	// Kick off the first cycle so data is arriving before the first frame.
	loader.Start(ctx)

	if cfg.Listen != "" {
		srv := server.New(server.Options{
			Context: ctx,
			Store:   store,
			Loader:  loader,
			Types:   client,
			Metrics: m.Handler(),
			Logger:  logger,
		})
		return srv.ListenAndServe(ctx, cfg.Listen)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Loader:    loader,
		Prefs:     prefs.Load(prefsPath),
		PrefsPath: prefsPath,
		LogPath:   cfg.LogFile,
		PollTick:  uiRefreshInterval,
	})
}
