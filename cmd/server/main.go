package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Peter211231231231232131/basketbgallgame/internal/api"
	"github.com/Peter211231231231232131/basketbgallgame/internal/config"
	"github.com/Peter211231231231232131/basketbgallgame/internal/database"
	"github.com/Peter211231231231232131/basketbgallgame/internal/logger"
	"github.com/Peter211231231231232131/basketbgallgame/internal/middleware"
	"github.com/Peter211231231231232131/basketbgallgame/internal/migrations"
	"github.com/Peter211231231231232131/basketbgallgame/internal/redis"
	"github.com/Peter211231231231232131/basketbgallgame/internal/relay"
	"github.com/Peter211231231231232131/basketbgallgame/internal/store"
	"github.com/Peter211231231231232131/basketbgallgame/internal/ws"
)

func main() {
	cfg := config.Load()

	log, err := logger.Init(cfg.LogLevel, cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	deps := api.Deps{Config: cfg}

	// Results: postgres when configured, memory otherwise
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.MigrateOnStart {
			log.Info("running migrations", zap.String("dir", cfg.MigrationsDir))
			if err := migrations.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
				return err
			}
		}
		deps.Results = store.NewSQLResults(db)
	} else {
		log.Warn("DATABASE_URL not set, match results are kept in memory")
		deps.Results = store.NewMemoryResults()
	}

	hub := ws.NewHub(ws.Options{
		SendBuffer: cfg.RelaySendBuffer,
		ReadLimit:  cfg.RelayReadLimit,
		CheckOrigin: func(r *http.Request) bool {
			return middleware.OriginAllowed(cfg, r.Header.Get("Origin"))
		},
		Logger: log,
	})
	deps.Hub = hub

	g, ctx := errgroup.WithContext(ctx)

	// Rooms and cross-instance fan-out: redis when configured
	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		bridge := relay.NewRedisBridge(rdb, hub, log)
		hub.SetBridge(bridge)
		deps.Registry = relay.NewRedisRegistry(rdb)
		g.Go(func() error { return bridge.Run(ctx) })
	} else {
		log.Warn("REDIS_URL not set, rooms are local to this instance")
		deps.Registry = relay.NewMemoryRegistry()
	}

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info("relay listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
