package core

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/vrsandeep/novelshelf/internal/assets"
	"github.com/vrsandeep/novelshelf/internal/catalog"
	"github.com/vrsandeep/novelshelf/internal/config"
	"github.com/vrsandeep/novelshelf/internal/cover"
	"github.com/vrsandeep/novelshelf/internal/db"
	"github.com/vrsandeep/novelshelf/internal/downloader"
	"github.com/vrsandeep/novelshelf/internal/importer"
	"github.com/vrsandeep/novelshelf/internal/jobs"
	"github.com/vrsandeep/novelshelf/internal/library"
	"github.com/vrsandeep/novelshelf/internal/store"
	"github.com/vrsandeep/novelshelf/internal/view"
	"github.com/vrsandeep/novelshelf/internal/websocket"
)

const coverCacheSize = 4096

// App holds the core components of the application that are shared
// between the server and the CLI.
type App struct {
	config     *config.Config
	db         *sql.DB
	wsHub      *websocket.Hub
	jobManager *jobs.JobManager
	catalog    *catalog.Store
	session    *view.Session
	ingester   *importer.Ingester
	covers     *cover.Resolver
	store      *store.Store
	downloader *downloader.Runner
	Version    string
}

// New loads config.yml and sets up a new App.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewFromConfig(cfg)
}

// NewFromConfig opens the database, runs migrations and wires every
// component together.
func NewFromConfig(cfg *config.Config) (*App, error) {
	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		// We can't proceed without a valid database schema.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	app, err := Assemble(cfg, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	log.Println("Core application setup complete.")
	return app, nil
}

// Assemble builds an App around an already migrated database.
func Assemble(cfg *config.Config, database *sql.DB) (*App, error) {
	covers, err := cover.NewResolver(coverCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cover resolver: %w", err)
	}

	app := &App{
		config:  cfg,
		db:      database,
		wsHub:   websocket.NewHub(),
		catalog: catalog.New(),
		covers:  covers,
		store:   store.New(database),
	}
	app.session = view.NewSession(app.catalog, view.Options{
		PageSize:  cfg.Catalog.PageSize,
		TopTags:   cfg.Catalog.TopTags,
		Covers:    covers,
		Presenter: view.BroadcastPresenter{B: app.wsHub},
	})
	app.ingester = importer.New(cfg.Catalog.CoversPath, app.session.Sink())
	app.downloader = downloader.New(downloader.Options{
		Path:          cfg.Downloader.Path,
		OutputDir:     cfg.Downloader.OutputPath,
		RatePerMinute: cfg.Downloader.RatePerMinute,
		Recorder:      app.store,
		Broadcaster:   app.wsHub,
	})
	app.jobManager = jobs.NewManager(app)
	library.RegisterJobs(app.jobManager)
	return app, nil
}

// Start runs the background services: the websocket hub and the download worker.
func (a *App) Start(ctx context.Context) {
	go a.wsHub.Run()
	a.downloader.Start(ctx)
}

// Close gracefully closes the application's resources.
func (a *App) Close() {
	a.downloader.Stop()
	a.session.Close()
	if a.db != nil {
		a.db.Close()
	}
}

func (a *App) Config() *config.Config         { return a.config }
func (a *App) DB() *sql.DB                    { return a.db }
func (a *App) WsHub() *websocket.Hub          { return a.wsHub }
func (a *App) JobManager() *jobs.JobManager   { return a.jobManager }
func (a *App) Ingester() *importer.Ingester   { return a.ingester }
func (a *App) Covers() *cover.Resolver        { return a.covers }
func (a *App) Catalog() *catalog.Store        { return a.catalog }
func (a *App) Session() *view.Session         { return a.session }
func (a *App) Store() *store.Store            { return a.store }
func (a *App) Downloader() *downloader.Runner { return a.downloader }
