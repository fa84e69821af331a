// Package internal wires configuration, logging, the wiki client, backups
// and the journal into a ready-to-use application.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/wikictl/internal/graphql"
	"github.com/starford/wikictl/internal/journal"
	"github.com/starford/wikictl/internal/mcpserver"
	"github.com/starford/wikictl/internal/models"
	"github.com/starford/wikictl/internal/storage"
	"github.com/starford/wikictl/internal/watcher"
	"github.com/starford/wikictl/internal/wiki"
	"github.com/starford/wikictl/internal/workflow"
)

// App holds the components built from a Config.
type App struct {
	Config  *Config
	Engine  *workflow.Engine
	Logger  *slog.Logger
	journal *journal.DB
}

// Open builds the application with the given options.
func Open(opts ...Option) (*App, error) {
	app := &application{logOutput: os.Stderr}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("api_url", cfg.APIURL),
		slog.String("locale", cfg.Locale),
		slog.String("backup_dir", cfg.BackupDir),
		slog.String("journal_path", cfg.JournalPath),
		slog.Duration("timeout", cfg.Timeout),
		slog.String("log_level", cfg.LogLevel.String()))

	backups, err := storage.NewFS(cfg.BackupDir)
	if err != nil {
		return nil, fmt.Errorf("init backups: %w", err)
	}

	gql := graphql.NewClient(cfg.APIURL, cfg.APIKey,
		graphql.WithTimeout(cfg.Timeout),
		graphql.WithLogger(logger))
	client := wiki.NewClient(gql, cfg.Locale, cfg.Tags, logger)

	engineOpts := []workflow.Option{workflow.WithLogger(logger)}

	a := &App{Config: cfg, Logger: logger}
	if cfg.JournalPath != "" {
		db, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("init journal: %w", err)
		}
		a.journal = db
		engineOpts = append(engineOpts, workflow.WithJournal(db))
	}

	a.Engine = workflow.New(client, backups, engineOpts...)
	return a, nil
}

// Close releases the journal database.
func (a *App) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}

// History returns journal entries for path (all pages when empty).
func (a *App) History(path string, limit int) ([]models.JournalEntry, error) {
	if a.journal == nil {
		return nil, fmt.Errorf("journal is disabled (journal_path is empty)")
	}
	return a.journal.List(path, limit)
}

// Watch runs the update workflow for file every time it is saved, until ctx
// is cancelled or the process receives SIGINT/SIGTERM. Each outcome is
// reported through report.
func (a *App) Watch(ctx context.Context, file string, report func(*models.UpdateReport, error)) error {
	if _, err := workflow.ReadDocument(file); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return watcher.Watch(gCtx, file, a.Config.WatchDebounce, a.Logger, func(ctx context.Context) error {
			rep, err := a.Engine.Update(ctx, file)
			report(rep, err)
			return err
		})
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			a.Logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	return g.Wait()
}

// ServeMCP serves the page tools over stdio until the client disconnects.
func (a *App) ServeMCP(version string) error {
	return mcpserver.New(a.Engine, version).ServeStdio()
}
