package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/oiangu/trenbide/internal/adapters/filestore"
	httpadapter "github.com/oiangu/trenbide/internal/adapters/http"
	natsadapter "github.com/oiangu/trenbide/internal/adapters/nats"
	"github.com/oiangu/trenbide/internal/adapters/postgres"
	"github.com/oiangu/trenbide/internal/adapters/valkey"
	"github.com/oiangu/trenbide/internal/core/domain"
	"github.com/oiangu/trenbide/internal/core/graph"
	"github.com/oiangu/trenbide/internal/core/ports"
	"github.com/oiangu/trenbide/internal/core/schedule"
	"github.com/oiangu/trenbide/internal/core/usecases"
	"github.com/oiangu/trenbide/internal/pkg/config"
	"github.com/oiangu/trenbide/internal/pkg/logging"
	"github.com/oiangu/trenbide/internal/pkg/metrics"
	"github.com/oiangu/trenbide/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("trenbide-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Database: holds the persisted schedule document, never query results.
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		slog.Warn("database unavailable, falling back to file-only schedule source", "error", err)
	} else {
		defer db.Close()
		go reportPoolMetrics(ctx, db)
	}

	var cacheSvc ports.CacheService
	vc, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, running without read-through cache", "error", err)
	} else {
		defer vc.Close()
		cacheSvc = vc
	}

	snapshot := &atomic.Pointer[domain.Snapshot]{}

	if err := loadSnapshot(ctx, db, cfg.Schedule.FilePath, cfg.Graph, snapshot); err != nil {
		log.Fatalf("load schedule: %v", err)
	}

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, schedule reload signal disabled", "error", err)
	} else {
		defer sub.Close()
		err := sub.SubscribeReload(ctx, func(ctx context.Context, version string) error {
			slog.Info("schedule reload signal received", "version", version)
			if err := loadSnapshot(ctx, db, cfg.Schedule.FilePath, cfg.Graph, snapshot); err != nil {
				slog.Error("schedule reload failed, keeping prior snapshot", "error", err)
				return err
			}
			metrics.SnapshotReloads.Inc()
			return nil
		})
		if err != nil {
			slog.Warn("reload subscription failed", "error", err)
		}
	}

	itinerary := usecases.NewItineraryService(snapshot, cacheSvc, cfg.Query.CacheTTLSeconds, cfg.Query.MaxTransfersCap, cfg.Query.DefaultWindowMinutes)

	deps := &httpadapter.Dependencies{
		Itinerary:             itinerary,
		RequestTimeoutSeconds: cfg.Query.RequestTimeoutSeconds,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024,
		AppName:      "Trenbide Itinerary API",
	})
	app.Use(recover.New())

	httpadapter.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("itinerary API starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// loadSnapshot fetches the schedule document (Postgres if available,
// falling back to the local file source), parses it, builds the graph, and
// atomically publishes the result. A failure here leaves the previous
// snapshot (possibly nil, at startup) untouched.
func loadSnapshot(ctx context.Context, db *postgres.DB, filePath string, graphCfg config.GraphConfig, snapshot *atomic.Pointer[domain.Snapshot]) error {
	data, version, err := fetchScheduleDocument(ctx, db, filePath)
	if err != nil {
		return domain.WrapError(domain.ErrLoader, err, "fetch schedule document")
	}

	doc, err := schedule.ParseDocument(data)
	if err != nil {
		return err
	}

	snap := graph.Build(doc.Trains, doc.DirectionMap, graph.Policy{
		MinConnectMinutes: graphCfg.MinConnectMinutes,
		MaxWaitMinutes:    graphCfg.MaxWaitMinutes,
	})
	snap.Version = version

	snapshot.Store(snap)
	metrics.SnapshotNodes.Set(float64(len(snap.Nodes)))
	slog.Info("schedule loaded", "version", version, "trains", len(doc.Trains), "stations", len(doc.Stations), "nodes", len(snap.Nodes))
	return nil
}

// reportPoolMetrics polls the connection pool's stats on a fixed interval
// until ctx is cancelled, keeping the DB pool gauges current.
func reportPoolMetrics(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		}
	}
}

func fetchScheduleDocument(ctx context.Context, db *postgres.DB, filePath string) ([]byte, string, error) {
	if db != nil {
		if version, data, err := postgres.NewScheduleRepo(db).LatestDocument(ctx); err == nil {
			return data, version, nil
		}
	}
	data, err := filestore.NewScheduleFile(filePath).Load(ctx)
	if err != nil {
		return nil, "", err
	}
	return data, "file:" + filePath, nil
}
