package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cakeisdead/price-monitor/internal/config"
	"github.com/cakeisdead/price-monitor/internal/fetcher"
	"github.com/cakeisdead/price-monitor/internal/products"
	"github.com/cakeisdead/price-monitor/internal/scheduler"
	"github.com/cakeisdead/price-monitor/internal/service"
	"github.com/cakeisdead/price-monitor/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() fetcher.PriceFetcher {
	return fetcher.NewRod(fetcher.RodOptions{
		Headless:      a.Config.Browser.Headless,
		Timeout:       a.Config.Browser.Timeout,
		ScreenshotDir: a.Config.Browser.ScreenshotDir,
	}, a.Logger)
}

func (a *App) openStore(ctx context.Context) (*storage.Store, error) {
	store := storage.NewStore(a.Config.Database.Path)
	if err := store.InitSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// RunOptions configure a monitoring run.
type RunOptions struct {
	// Every repeats the batch on this interval; zero runs one pass.
	Every time.Duration
}

// Run executes monitoring passes over the tracked product list. The list
// is loaded once up front: a missing or malformed list aborts before any
// fetch happens. Per-item failures never surface here.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	list, err := products.Load(a.Config.Products.Path)
	if err != nil {
		return err
	}
	a.Logger.Info().Int("products", len(list)).Str("source", a.Config.Products.Path).
		Msg("product list loaded")

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	monitor := service.New(a.newFetcher(), store, a.Logger)

	pass := func(ctx context.Context) error {
		summary := monitor.RunBatch(ctx, list)
		a.Logger.Info().
			Int("compared", summary.Observed).
			Int("first_seen", summary.FirstSeen).
			Int("not_found", summary.NotFound).
			Msg("monitoring pass completed")
		return nil
	}

	every := opts.Every
	if every == 0 {
		every = a.Config.Run.Every
	}
	if every <= 0 {
		return pass(ctx)
	}

	sched := scheduler.New(scheduler.Options{Every: every}, a.Logger)
	err = sched.Run(ctx, pass)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// ReportOptions configure the report command.
type ReportOptions struct {
	Window int
}

// ExportOptions hold parameters for exporting price history.
type ExportOptions struct {
	Window   int
	JSONPath string
	PNGPath  string
}
