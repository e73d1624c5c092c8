package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bqquote/collections"
	"bqquote/config"
	"bqquote/handlers"
	"bqquote/logger"
	"bqquote/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "bqquote",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})

	app := pocketbase.New()
	ctx, cancel := context.WithCancel(context.Background())

	var s *store.Store

	// Create collections, seed and migrate, then hydrate the store
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(app, log); err != nil {
			return fmt.Errorf("setup collections: %w", err)
		}
		if _, err := collections.SeedCatalog(app, log, cfg.CatalogSeedFile); err != nil {
			log.Warn().Err(err).Msg("catalog seed failed")
		}
		if _, err := collections.MigrateLegacyPriceFields(app, log); err != nil {
			log.Warn().Err(err).Msg("price field migration failed")
		}

		opts := store.Options{
			Logger:        log,
			RemoteTimeout: cfg.RemoteTimeout,
			OutboxBacklog: cfg.OutboxBuffer,
		}
		if cfg.RemoteEnabled {
			opts.Remote = collections.NewPocketBaseRemote(app, log)
		}
		s = store.New(opts)
		if err := s.Load(ctx); err != nil {
			log.Error().Err(err).Msg("store load failed, starting empty")
		}
		s.Start(ctx)

		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		registerRoutes(se, handlers.Deps{
			Store:          s,
			Log:            log,
			CurrencySymbol: cfg.CurrencySymbol,
		})
		return se.Next()
	})

	// Drain the outbox before the process exits
	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		if s != nil {
			if err := s.Wait(); err != nil {
				log.Error().Err(err).Msg("outbox finished with failures")
			}
		}
		cancel()
		return e.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func registerRoutes(se *core.ServeEvent, d handlers.Deps) {
	api := se.Router.Group("/api/bq")
	api.BindFunc(handlers.RequestLogger(d.Log.With().Str("component", "http").Logger()))

	// ── Catalog ──────────────────────────────────────────────
	api.GET("/items", handlers.HandleItemList(d))
	api.POST("/items", handlers.HandleItemCreate(d))
	api.GET("/items/categories", handlers.HandleItemCategories(d))
	api.GET("/items/options", handlers.HandleItemOptions(d))
	api.GET("/items/{id}", handlers.HandleItemView(d))
	api.PATCH("/items/{id}", handlers.HandleItemUpdate(d))
	api.DELETE("/items/{id}", handlers.HandleItemDelete(d))

	api.POST("/items/import", handlers.HandleItemImportValidate(d))
	api.POST("/items/import/commit", handlers.HandleItemImportCommit(d))
	api.POST("/items/import/errors", handlers.HandleItemImportErrorReport(d))

	api.GET("/items/edits", handlers.HandleItemEditPending(d))
	api.POST("/items/edits", handlers.HandleItemEditStage(d))
	api.POST("/items/edits/commit", handlers.HandleItemEditCommit(d))
	api.DELETE("/items/edits", handlers.HandleItemEditDiscard(d))

	// ── Projects ─────────────────────────────────────────────
	api.GET("/projects", handlers.HandleProjectList(d))
	api.POST("/projects", handlers.HandleProjectCreate(d))
	api.GET("/projects/{projectId}", handlers.HandleProjectView(d))
	api.PUT("/projects/{projectId}", handlers.HandleProjectUpdate(d))
	api.DELETE("/projects/{projectId}", handlers.HandleProjectDelete(d))
	api.POST("/projects/{projectId}/active-version", handlers.HandleProjectSwitchVersion(d))

	// ── Versions ─────────────────────────────────────────────
	api.GET("/projects/{projectId}/versions", handlers.HandleVersionList(d))
	api.POST("/projects/{projectId}/versions", handlers.HandleVersionCreate(d))
	api.GET("/projects/{projectId}/versions/suggest-name", handlers.HandleVersionSuggestName(d))
	api.PATCH("/projects/{projectId}/versions/{versionId}", handlers.HandleVersionRename(d))
	api.DELETE("/projects/{projectId}/versions/{versionId}", handlers.HandleVersionDelete(d))
	api.POST("/projects/{projectId}/versions/{versionId}/resync", handlers.HandleVersionResync(d))

	// ── BQ lines ─────────────────────────────────────────────
	api.GET("/projects/{projectId}/versions/{versionId}/lines", handlers.HandleBOQLines(d))
	api.POST("/projects/{projectId}/versions/{versionId}/lines", handlers.HandleBOQAddCustomLine(d))
	api.POST("/projects/{projectId}/versions/{versionId}/sync", handlers.HandleBOQSync(d))
	api.GET("/projects/{projectId}/versions/{versionId}/totals", handlers.HandleBOQTotals(d))
	api.GET("/projects/{projectId}/versions/{versionId}/rows", handlers.HandleBOQRows(d))
	api.PATCH("/lines/{lineId}", handlers.HandleBOQUpdateLine(d))
	api.DELETE("/lines/{lineId}", handlers.HandleBOQRemoveLine(d))

	api.GET("/quote-edits", handlers.HandleQuoteEditPending(d))
	api.POST("/quote-edits", handlers.HandleQuoteEditStage(d))
	api.POST("/quote-edits/commit", handlers.HandleQuoteEditCommit(d))
	api.DELETE("/quote-edits", handlers.HandleQuoteEditDiscard(d))

	// ── Export ───────────────────────────────────────────────
	api.GET("/projects/{projectId}/versions/{versionId}/export/excel", handlers.HandleQuoteExportExcel(d))
	api.GET("/projects/{projectId}/versions/{versionId}/export/pdf", handlers.HandleQuoteExportPDF(d))

	api.GET("/outbox", handlers.HandleOutboxStats(d))
}
