// Package server owns the process lifecycle: it loads configuration, opens
// the backing services, serves HTTP (and gRPC health when configured) and
// shuts everything down when the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nexus/config"
	"github.com/shashiranjanraj/nexus/database/seeders"
	"github.com/shashiranjanraj/nexus/internal/kernel"
	"github.com/shashiranjanraj/nexus/pkg/cache"
	"github.com/shashiranjanraj/nexus/pkg/database"
	nexusgrpc "github.com/shashiranjanraj/nexus/pkg/grpc"
	"github.com/shashiranjanraj/nexus/pkg/logger"
	"github.com/shashiranjanraj/nexus/pkg/metrics"
	"github.com/shashiranjanraj/nexus/pkg/migration"
	"github.com/shashiranjanraj/nexus/pkg/session"
	"github.com/shashiranjanraj/nexus/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// Run serves until ctx is cancelled or a listener fails.
func Run(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	closeLog := setupLogging(ctx)
	defer closeLog()

	db, err := OpenDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := metrics.InstrumentDB(db); err != nil {
		return fmt.Errorf("instrument db: %w", err)
	}

	if config.AutoMigrate() {
		n, err := migration.New(db, nil).Run()
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied", "count", n)
		if err := seeders.RunAll(ctx, db, nil); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	store, driver, closeStore, err := sessionStore(ctx, g)
	if err != nil {
		return err
	}
	defer closeStore()

	disk, err := storage.New(ctx)
	if err != nil {
		return err
	}

	k, err := kernel.New(kernel.Deps{
		DB:            db,
		Sessions:      store,
		SessionDriver: driver,
		Disk:          disk,
		AuthRateLimit: config.AuthRateLimit(),
		CORSOrigins:   config.CORSOrigins(),
	})
	if err != nil {
		return err
	}
	g.Go(func() error {
		k.Limiter().Run(ctx)
		return nil
	})

	if port := config.GRPCPort(); port != "" {
		srv, lis, err := nexusgrpc.Start(port, func(ctx context.Context) error { return database.Ping(ctx, db) })
		if err != nil {
			return err
		}
		logger.Info("grpc listening", "addr", lis.Addr().String())
		g.Go(func() error { return srv.Serve(lis) })
		g.Go(func() error {
			<-ctx.Done()
			nexusgrpc.Stop(srv)
			return nil
		})
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	g.Go(func() error {
		logger.Info("nexus listening", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})

	return g.Wait()
}

// OpenDB connects using DB_DRIVER and DATABASE_DSN.
func OpenDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return database.Open(config.DatabaseDriver(), config.DatabaseDSN())
}

// setupLogging adds the MongoDB sink when LOG_MONGO_URI is set. A sink that
// cannot connect is reported and skipped.
func setupLogging(ctx context.Context) func() {
	uri := config.LogMongoURI()
	if uri == "" {
		logger.Setup(config.AppEnv())
		return func() {}
	}
	h, err := logger.NewMongoHandler(ctx, uri, config.LogMongoDB(), config.LogMongoCollection(), slog.LevelInfo)
	if err != nil {
		logger.Setup(config.AppEnv())
		logger.Warn("mongo log sink disabled", "error", err)
		return func() {}
	}
	logger.Setup(config.AppEnv(), h)
	return h.Close
}

// sessionStore builds the store named by SESSION_DRIVER. The memory store's
// sweeper runs in g until ctx ends.
func sessionStore(ctx context.Context, g *errgroup.Group) (session.Store, string, func(), error) {
	ttl := config.SessionTTL()
	switch d := config.SessionDriver(); d {
	case "redis":
		c, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword())
		if err != nil {
			return nil, "", nil, fmt.Errorf("session store: %w", err)
		}
		return session.NewRedisStore(c, ttl), d, func() { _ = c.Close() }, nil
	default:
		m := session.NewMemoryStore(ttl)
		g.Go(func() error {
			m.Run(ctx, config.SessionSweepInterval())
			return nil
		})
		return m, "memory", func() {}, nil
	}
}
