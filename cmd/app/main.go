package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"galpe/configs"
	delivery "galpe/internal/delivery/http"
	"galpe/internal/database"
	"galpe/internal/domain"
	"galpe/internal/infra"
	"galpe/internal/logger"
	"galpe/internal/metrics"
	custommiddleware "galpe/internal/middleware"
	"galpe/internal/repository"
	"galpe/internal/service"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Load configuration
	cfg := configs.Load()
	log := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if envErr != nil {
		log.Debug(".env file not found, using environment variables")
	}

	ctx := context.Background()

	// Record store
	var db *pgxpool.Pool
	store, err := newRecordStore(ctx, cfg, log, &db)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize record store")
	}
	if db != nil {
		defer db.Close()
	}

	// Market snapshot cache
	var rdb *redis.Client
	var cache service.SnapshotCache = service.NewMemorySnapshotCache()
	if cfg.Redis.URL != "" {
		rdb, err = infra.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, caching market snapshot in memory")
		} else {
			defer rdb.Close()
			cache = infra.NewViewCache[domain.CoinSnapshot](rdb, cfg.Market.CacheTTL, log.WithField("cache", "redis"))
			log.Info("[OK] Redis connected, market snapshot cached in redis")
		}
	}

	// Market data source
	var source domain.CoinProvider = service.NewFileCoinProvider(cfg.Market.CoinsFile)
	if cfg.Market.CoinsURL != "" {
		source = service.NewHTTPCoinProvider(cfg.Market.CoinsURL)
	}
	coins := service.NewCachedCoinProvider(source, cache, log)

	scheduler := infra.NewScheduler(coins, cfg.Market.RefreshCron, log)
	if err := scheduler.RunNow(); err != nil {
		log.WithError(err).Warn("Initial market snapshot failed, pages will retry on demand")
	}
	if err := scheduler.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start market snapshot scheduler")
	}
	defer scheduler.Stop()

	// Services
	accounts := service.NewAccountService(store, service.NewSessionSynchronizer(), cfg.Accounts.StarterBalance, log)
	market := service.NewMarketSnapshotService(coins)
	sessions := custommiddleware.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL, cfg.IsProduction())

	if cfg.IsProduction() && cfg.Session.Secret == configs.DefaultSessionSecret {
		log.Warn("JWT_SECRET is not set, sessions are signed with the default secret")
	}

	// Web server
	renderer, err := delivery.NewTemplateRenderer()
	if err != nil {
		log.WithError(err).Fatal("Failed to parse templates")
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = delivery.NewErrorHandler(log)

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		Sessions:       sessions,
		WebHandler:     delivery.NewWebHandler(market),
		AuthHandler:    delivery.NewAuthHandler(accounts, sessions),
		SupportHandler: delivery.NewSupportHandler(accounts, sessions),
	})

	// Ops server
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Get("/health", handleHealth(cfg.Store.Backend, db, rdb))
	r.Handle("/metrics", metrics.Handler())

	ops := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.OpsPort),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.WithFields(logrus.Fields{
		"port":     cfg.Server.Port,
		"ops_port": cfg.Server.OpsPort,
		"env":      cfg.Server.Env,
		"store":    cfg.Store.Backend,
	}).Info("Galpe Exchange starting")

	go func() {
		if err := e.Start(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start web server")
		}
	}()

	go func() {
		if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start ops server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Web server forced to shutdown")
	}
	if err := ops.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Ops server forced to shutdown")
	}

	log.Info("[OK] Servers exited gracefully")
}

// newRecordStore builds the configured record store. The postgres pool, if any, is returned through db.
func newRecordStore(ctx context.Context, cfg *configs.Config, log logrus.FieldLogger, db **pgxpool.Pool) (domain.RecordStore, error) {
	switch cfg.Store.Backend {
	case configs.StoreFile:
		store, err := repository.NewFileStore(cfg.Store.UsersFile, log)
		if err != nil {
			return nil, err
		}
		log.WithField("path", store.Path()).Info("[OK] Using file record store")
		return store, nil

	case configs.StorePostgres:
		pool, err := infra.NewDatabase(ctx, cfg.Database.URL, log)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		*db = pool
		return repository.NewPostgresStore(pool), nil

	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
}

func handleHealth(backend string, db *pgxpool.Pool, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := map[string]string{"store": backend}

		if db != nil {
			checks["database"] = "healthy"
			if err := db.Ping(ctx); err != nil {
				checks["database"] = "unhealthy"
				status = http.StatusServiceUnavailable
			}
		}
		if rdb != nil {
			// the cache degrades to a miss, so redis never fails the check
			checks["redis"] = "healthy"
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = "unhealthy"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    http.StatusText(status),
			"service":   "galpe",
			"checks":    checks,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
