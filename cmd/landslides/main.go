package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lvasseur/go-landslides/internal/api"
	"github.com/lvasseur/go-landslides/internal/config"
	"github.com/lvasseur/go-landslides/internal/filter"
	"github.com/lvasseur/go-landslides/internal/ingest"
	"github.com/lvasseur/go-landslides/internal/logging"
	"github.com/lvasseur/go-landslides/internal/lookup"
	"github.com/lvasseur/go-landslides/internal/observability"
	"github.com/lvasseur/go-landslides/internal/repository"
	"github.com/lvasseur/go-landslides/internal/session"
	"github.com/lvasseur/go-landslides/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	metrics := observability.NewMetrics()

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog := buildCatalog(ctx, cfg, db, metrics)

	engine := filter.NewEngine(catalog, metrics)
	clock := clockwork.NewRealClock()
	sessions := session.NewManager(engine, clock, cfg.Session.TTL, metrics)
	go sessions.Run(ctx, cfg.Session.PruneInterval)

	var lk lookup.Lookup
	if cfg.Lookup.Enabled {
		client := lookup.NewClient(cfg.Lookup.BaseURL, cfg.Lookup.Timeout, slog.Default())
		lk = lookup.NewCached(client, cfg.Lookup.CacheSize, metrics)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Must stay false with wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.API.RateLimitRPS))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := api.NewHandler(catalog, sessions, lk)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

// buildCatalog loads the CSV export into the immutable store and persists it
// to sqlite. When the CSV is missing, it falls back to the persisted catalog.
// Whole-dataset failure is fatal: the dashboard is useless without data.
func buildCatalog(ctx context.Context, cfg *config.Config, db *repository.SQLiteDB, metrics *observability.Metrics) *store.Store {
	rows, err := store.ReadCSVFile(cfg.Catalog.CSVPath)
	if err != nil {
		slog.Warn("catalog CSV unavailable, falling back to database", "path", cfg.Catalog.CSVPath, "error", err)
		events, dbErr := db.ListEvents(ctx)
		if dbErr != nil || len(events) == 0 {
			logging.Fatalf("No catalog available: CSV failed (%v) and database is empty or unreadable (%v)", err, dbErr)
		}
		catalog, newErr := store.New(events)
		if newErr != nil {
			logging.Fatalf("Failed to rebuild catalog from database: %v", newErr)
		}
		slog.Info("catalog restored from database", "events", catalog.Len())
		return catalog
	}

	catalog, report, err := store.Load(rows, store.Options{
		MaxRejectFraction: cfg.Catalog.MaxRejectFraction,
	})
	if err != nil {
		logging.Fatalf("Failed to load catalog: %v", err)
	}

	metrics.RowsAccepted.Add(float64(report.Accepted))
	metrics.RowsRejected.Add(float64(report.Rejected))
	slog.Info("catalog loaded", "accepted", report.Accepted, "rejected", report.Rejected)

	mgr := ingest.NewManager(db, cfg.Ingest.Workers, cfg.Ingest.BufferSize)
	mgr.Run(ctx, catalog.All())

	return catalog
}
